// Copyright 2026 The unityasset Authors.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package unityasset

// ASTC LDR block decoder. Every block is 128 bits regardless of its
// footprint; the footprint (4x4 .. 12x12) comes from the texture format,
// not the block. Color endpoint values are read forward from bit 0,
// texel weights backward from bit 127 in reversed bit order.
//
// HDR endpoint modes decode to mid-gray: the engine's ASTC formats in
// scope are the LDR profile, and emitting a recognizable placeholder
// beats aborting a whole texture over a stray HDR block.

// astcBlockDecoder returns a tile decoder bound to one block footprint.
func astcBlockDecoder(blockW, blockH int) func([]byte) []byte {
	return func(block []byte) []byte {
		return decodeASTCBlock(block, blockW, blockH)
	}
}

// astcReadAt reads n bits at absolute position pos of the 128-bit block.
func astcReadAt(lo, hi uint64, pos, n uint) uint32 {
	var v uint64
	switch {
	case pos >= 128:
		v = 0
	case pos >= 64:
		v = hi >> (pos - 64)
	case pos+n <= 64:
		v = lo >> pos
	default:
		v = lo>>pos | hi<<(64-pos)
	}
	return uint32(v & (1<<n - 1))
}

// astcErrorTile is the LDR error color mandated for invalid blocks.
func astcErrorTile(n int) []byte {
	out := make([]byte, n*4)
	for i := 0; i < n; i++ {
		out[i*4], out[i*4+1], out[i*4+2], out[i*4+3] = 255, 0, 255, 255
	}
	return out
}

// iseQuant describes one quantization range of the integer sequence
// encoding: each value is b bits plus an optional trit or quint.
type iseQuant struct {
	bits   uint
	trits  bool
	quints bool
}

func (q iseQuant) levels() int {
	n := 1 << q.bits
	if q.trits {
		return 3 * n
	}
	if q.quints {
		return 5 * n
	}
	return n
}

// iseBitCount is the exact size in bits of an ISE sequence of count
// values.
func iseBitCount(count int, q iseQuant) int {
	bits := count * int(q.bits)
	if q.trits {
		bits += (8*count + 4) / 5
	}
	if q.quints {
		bits += (7*count + 2) / 3
	}
	return bits
}

// astcWeightQuant maps the block-mode range code (2..7) and the
// high-precision flag to a weight quantization.
func astcWeightQuant(r uint32, high bool) (iseQuant, bool) {
	if r < 2 {
		return iseQuant{}, false
	}
	low := [6]iseQuant{
		{bits: 1},              // 2 levels
		{trits: true},          // 3
		{bits: 2},              // 4
		{quints: true},         // 5
		{bits: 1, trits: true}, // 6
		{bits: 3},              // 8
	}
	highTable := [6]iseQuant{
		{bits: 1, quints: true}, // 10
		{bits: 2, trits: true},  // 12
		{bits: 4},               // 16
		{bits: 2, quints: true}, // 20
		{bits: 3, trits: true},  // 24
		{bits: 5},               // 32
	}
	if high {
		return highTable[r-2], true
	}
	return low[r-2], true
}

// astcColorQuants lists the color endpoint quantization ranges from
// coarsest to finest; the decoder picks the finest one whose ISE output
// fits the bits left over for color data.
var astcColorQuants = []iseQuant{
	{bits: 1},
	{trits: true},
	{bits: 2},
	{quints: true},
	{bits: 1, trits: true},
	{bits: 3},
	{bits: 1, quints: true},
	{bits: 2, trits: true},
	{bits: 4},
	{bits: 2, quints: true},
	{bits: 3, trits: true},
	{bits: 5},
	{bits: 3, quints: true},
	{bits: 4, trits: true},
	{bits: 6},
	{bits: 4, quints: true},
	{bits: 5, trits: true},
	{bits: 7},
	{bits: 5, quints: true},
	{bits: 6, trits: true},
	{bits: 8},
}

// decodeTrits expands the 8 packed trit bits of one ISE group into five
// base-3 digits, per the sequence decode in the format specification.
func decodeTrits(t uint32) [5]int {
	var out [5]int
	var c uint32

	if t>>2&7 == 7 {
		c = (t >> 5 & 7 << 2) | (t & 3)
		out[4], out[3] = 2, 2
	} else {
		c = t & 0x1F
		if t>>5&3 == 3 {
			out[4] = 2
			out[3] = int(t >> 7 & 1)
		} else {
			out[4] = int(t >> 7 & 1)
			out[3] = int(t >> 5 & 3)
		}
	}

	switch {
	case c&3 == 3:
		out[2] = 2
		out[1] = int(c >> 4 & 1)
		out[0] = int((c>>3&1)<<1 | (c >> 2 & 1 &^ (c >> 3 & 1)))
	case c>>2&3 == 3:
		out[2] = 2
		out[1] = 2
		out[0] = int(c & 3)
	default:
		out[2] = int(c >> 4 & 1)
		out[1] = int(c >> 2 & 3)
		out[0] = int((c>>1&1)<<1 | (c & 1 &^ (c >> 1 & 1)))
	}
	return out
}

// decodeQuints expands the 7 packed quint bits of one ISE group into
// three base-5 digits.
func decodeQuints(q uint32) [3]int {
	var out [3]int
	var c uint32

	if q>>1&3 == 3 && q>>5&3 == 0 {
		b0 := q & 1
		out[2] = int(b0<<2 | (q>>4&1&^b0)<<1 | (q >> 3 & 1 &^ b0))
		out[1], out[0] = 4, 4
		return out
	}

	if q>>1&3 == 3 {
		out[2] = 4
		c = (q >> 3 & 3 << 3) | (^q >> 5 & 3 << 1) | (q & 1)
	} else {
		out[2] = int(q >> 5 & 3)
		c = q & 0x1F
	}
	if c&7 == 5 {
		out[1] = 4
		out[0] = int(c >> 3 & 3)
	} else {
		out[1] = int(c >> 3 & 3)
		out[0] = int(c & 7)
	}
	return out
}

// iseDecode reads count quantized values. Out-of-range bit reads return
// zero, which matches the truncation rule for a partial trailing group.
func iseDecode(read func(n uint) uint32, count int, q iseQuant) []int {
	out := make([]int, 0, count+4)

	switch {
	case q.trits:
		for len(out) < count {
			var m [5]uint32
			var t uint32
			m[0] = read(q.bits)
			t = read(2)
			m[1] = read(q.bits)
			t |= read(2) << 2
			m[2] = read(q.bits)
			t |= read(1) << 4
			m[3] = read(q.bits)
			t |= read(2) << 5
			m[4] = read(q.bits)
			t |= read(1) << 7
			d := decodeTrits(t)
			for i := 0; i < 5; i++ {
				out = append(out, d[i]<<q.bits|int(m[i]))
			}
		}
	case q.quints:
		for len(out) < count {
			var m [3]uint32
			var qb uint32
			m[0] = read(q.bits)
			qb = read(3)
			m[1] = read(q.bits)
			qb |= read(2) << 3
			m[2] = read(q.bits)
			qb |= read(2) << 5
			d := decodeQuints(qb)
			for i := 0; i < 3; i++ {
				out = append(out, d[i]<<q.bits|int(m[i]))
			}
		}
	default:
		for len(out) < count {
			out = append(out, int(read(q.bits)))
		}
	}
	return out[:count]
}

// unquantColor expands a quantized color value to 0..255: exact bit
// replication for plain bit ranges, linear scaling for trit/quint
// ranges.
func unquantColor(v int, q iseQuant) int {
	if !q.trits && !q.quints {
		if q.bits >= 8 {
			return v
		}
		x := v << (8 - q.bits)
		for sh := q.bits; sh < 8; sh += q.bits {
			x |= x >> sh
		}
		return x & 0xFF
	}
	max := q.levels() - 1
	return (v*255 + max/2) / max
}

// unquantWeight expands a quantized weight to 0..64.
func unquantWeight(v int, q iseQuant) int {
	if !q.trits && !q.quints {
		x := v << (6 - q.bits)
		for sh := q.bits; sh < 6; sh += q.bits {
			x |= x >> sh
		}
		x &= 0x3F
		if x > 32 {
			x++
		}
		return x
	}
	max := q.levels() - 1
	return (v*64 + max/2) / max
}

// astcHash52 is the partition seed mixer from the specification.
func astcHash52(p uint32) uint32 {
	p ^= p >> 15
	p -= p << 17
	p += p << 7
	p += p << 4
	p ^= p >> 5
	p += p << 16
	p ^= p >> 7
	p ^= p >> 3
	p ^= p << 6
	p ^= p >> 17
	return p
}

// astcSelectPartition assigns a texel to a partition.
func astcSelectPartition(seed uint32, x, y, partitionCount int, smallBlock bool) int {
	if partitionCount == 1 {
		return 0
	}
	if smallBlock {
		x <<= 1
		y <<= 1
	}

	seed += uint32(partitionCount-1) * 1024
	rnum := astcHash52(seed)

	seeds := [12]int{
		int(rnum & 0xF), int(rnum >> 4 & 0xF), int(rnum >> 8 & 0xF), int(rnum >> 12 & 0xF),
		int(rnum >> 16 & 0xF), int(rnum >> 20 & 0xF), int(rnum >> 24 & 0xF), int(rnum >> 28 & 0xF),
		int(rnum >> 18 & 0xF), int(rnum >> 22 & 0xF), int(rnum >> 26 & 0xF), int((rnum>>30 | rnum<<2) & 0xF),
	}
	for i := range seeds {
		seeds[i] *= seeds[i]
	}

	var sh1, sh2 uint
	if seed&1 != 0 {
		if seed&2 != 0 {
			sh1 = 4
		} else {
			sh1 = 5
		}
		if partitionCount == 3 {
			sh2 = 6
		} else {
			sh2 = 5
		}
	} else {
		if partitionCount == 3 {
			sh1 = 6
		} else {
			sh1 = 5
		}
		if seed&2 != 0 {
			sh2 = 4
		} else {
			sh2 = 5
		}
	}
	sh3 := sh2
	if seed&0x10 != 0 {
		sh3 = sh1
	}

	for i := 0; i < 8; i++ {
		if i%2 == 0 {
			seeds[i] >>= sh1
		} else {
			seeds[i] >>= sh2
		}
	}
	for i := 8; i < 12; i++ {
		seeds[i] >>= sh3
	}

	a := (seeds[0]*x + seeds[1]*y + int(rnum>>14)) & 0x3F
	b := (seeds[2]*x + seeds[3]*y + int(rnum>>10)) & 0x3F
	c := (seeds[4]*x + seeds[5]*y + int(rnum>>6)) & 0x3F
	d := (seeds[6]*x + seeds[7]*y + int(rnum>>2)) & 0x3F

	if partitionCount < 4 {
		d = 0
	}
	if partitionCount < 3 {
		c = 0
	}

	best, bestIdx := a, 0
	for i, v := range [3]int{b, c, d} {
		if v > best {
			best, bestIdx = v, i+1
		}
	}
	return bestIdx
}

// astcBlockMode is the decoded 11-bit block mode field.
type astcBlockMode struct {
	gridW, gridH int
	quant        iseQuant
	dualPlane    bool
}

func decodeASTCBlockMode(mode uint32) (astcBlockMode, bool) {
	var bm astcBlockMode

	high := mode>>9&1 != 0
	bm.dualPlane = mode>>10&1 != 0
	a := int(mode >> 5 & 3)

	var r uint32
	if mode&3 != 0 {
		r = (mode>>4)&1 | (mode&3)<<1
		b := int(mode >> 7 & 3)
		switch mode >> 2 & 3 {
		case 0:
			bm.gridW, bm.gridH = b+4, a+2
		case 1:
			bm.gridW, bm.gridH = b+8, a+2
		case 2:
			bm.gridW, bm.gridH = a+2, b+8
		case 3:
			b &= 1
			if mode>>8&1 != 0 {
				bm.gridW, bm.gridH = b+2, a+2
			} else {
				bm.gridW, bm.gridH = a+2, b+2
			}
		}
	} else {
		r = (mode>>4)&1 | (mode>>2&3)<<1
		if r < 2 {
			return bm, false
		}
		switch mode >> 7 & 3 {
		case 0:
			bm.gridW, bm.gridH = 12, a+2
		case 1:
			bm.gridW, bm.gridH = a+2, 12
		case 2:
			bm.gridW, bm.gridH = a+6, int(mode>>9&3)+6
			bm.dualPlane = false
			high = false
		case 3:
			if a&1 == 0 {
				bm.gridW, bm.gridH = 6, 10
			} else {
				bm.gridW, bm.gridH = 10, 6
			}
		}
	}

	q, ok := astcWeightQuant(r, high)
	if !ok {
		return bm, false
	}
	bm.quant = q
	return bm, true
}

// astcEndpoints computes the two RGBA endpoints for one partition from
// its color endpoint mode and unquantized values.
func astcEndpoints(cem int, v []int) (e0, e1 [4]int) {
	clamp := func(x int) int {
		if x < 0 {
			return 0
		}
		if x > 255 {
			return 255
		}
		return x
	}
	bts := func(a, b int) (int, int) {
		// bit_transfer_signed: the top bit of a moves to b, a becomes a
		// 6-bit signed value.
		b = b>>1 | a&0x80
		a = a >> 1 & 0x3F
		if a&0x20 != 0 {
			a -= 0x40
		}
		return a, b
	}
	blueContract := func(r, g, b int) (int, int, int) {
		return (r + b) >> 1, (g + b) >> 1, b
	}

	switch cem {
	case 0: // luminance, direct
		return [4]int{v[0], v[0], v[0], 255}, [4]int{v[1], v[1], v[1], 255}
	case 1: // luminance, base+offset
		l0 := v[0]>>2 | v[1]&0xC0
		l1 := clamp(l0 + v[1]&0x3F)
		return [4]int{l0, l0, l0, 255}, [4]int{l1, l1, l1, 255}
	case 4: // luminance+alpha, direct
		return [4]int{v[0], v[0], v[0], v[2]}, [4]int{v[1], v[1], v[1], v[3]}
	case 5: // luminance+alpha, base+offset
		d0, b0 := bts(v[1], v[0])
		d1, b1 := bts(v[3], v[2])
		return [4]int{b0, b0, b0, b1},
			[4]int{clamp(b0 + d0), clamp(b0 + d0), clamp(b0 + d0), clamp(b1 + d1)}
	case 6: // RGB scale
		return [4]int{v[0] * v[3] >> 8, v[1] * v[3] >> 8, v[2] * v[3] >> 8, 255},
			[4]int{v[0], v[1], v[2], 255}
	case 8: // RGB direct
		if v[1]+v[3]+v[5] >= v[0]+v[2]+v[4] {
			return [4]int{v[0], v[2], v[4], 255}, [4]int{v[1], v[3], v[5], 255}
		}
		r0, g0, b0 := blueContract(v[1], v[3], v[5])
		r1, g1, b1 := blueContract(v[0], v[2], v[4])
		return [4]int{r0, g0, b0, 255}, [4]int{r1, g1, b1, 255}
	case 9: // RGB base+offset
		dr, br := bts(v[1], v[0])
		dg, bg := bts(v[3], v[2])
		db, bb := bts(v[5], v[4])
		if dr+dg+db >= 0 {
			return [4]int{br, bg, bb, 255},
				[4]int{clamp(br + dr), clamp(bg + dg), clamp(bb + db), 255}
		}
		r1, g1, b1 := blueContract(br, bg, bb)
		r0, g0, b0 := blueContract(clamp(br+dr), clamp(bg+dg), clamp(bb+db))
		return [4]int{r0, g0, b0, 255}, [4]int{r1, g1, b1, 255}
	case 10: // RGB scale + alpha
		return [4]int{v[0] * v[3] >> 8, v[1] * v[3] >> 8, v[2] * v[3] >> 8, v[4]},
			[4]int{v[0], v[1], v[2], v[5]}
	case 12: // RGBA direct
		if v[1]+v[3]+v[5] >= v[0]+v[2]+v[4] {
			return [4]int{v[0], v[2], v[4], v[6]}, [4]int{v[1], v[3], v[5], v[7]}
		}
		r0, g0, b0 := blueContract(v[1], v[3], v[5])
		r1, g1, b1 := blueContract(v[0], v[2], v[4])
		return [4]int{r0, g0, b0, v[7]}, [4]int{r1, g1, b1, v[6]}
	case 13: // RGBA base+offset
		dr, br := bts(v[1], v[0])
		dg, bg := bts(v[3], v[2])
		db, bb := bts(v[5], v[4])
		da, ba := bts(v[7], v[6])
		if dr+dg+db >= 0 {
			return [4]int{br, bg, bb, ba},
				[4]int{clamp(br + dr), clamp(bg + dg), clamp(bb + db), clamp(ba + da)}
		}
		r1, g1, b1 := blueContract(br, bg, bb)
		r0, g0, b0 := blueContract(clamp(br+dr), clamp(bg+dg), clamp(bb+db))
		return [4]int{r0, g0, b0, clamp(ba + da)}, [4]int{r1, g1, b1, ba}
	default:
		// HDR endpoint modes: mid-gray placeholder.
		return [4]int{128, 128, 128, 255}, [4]int{128, 128, 128, 255}
	}
}

func decodeASTCBlock(block []byte, blockW, blockH int) []byte {
	texels := blockW * blockH
	var lo, hi uint64
	for i := 0; i < 8; i++ {
		lo |= uint64(block[i]) << (8 * uint(i))
		hi |= uint64(block[8+i]) << (8 * uint(i))
	}

	modeField := astcReadAt(lo, hi, 0, 11)

	// Void-extent: the whole block is one constant color.
	if modeField&0x1FF == 0x1FC {
		hdr := modeField>>9&1 != 0
		out := make([]byte, texels*4)
		for c := 0; c < 4; c++ {
			comp := astcReadAt(lo, hi, uint(64+16*c), 16)
			var b uint8
			if hdr {
				b = unitFloatToByte(halfToFloat(uint16(comp)))
			} else {
				b = uint8(comp >> 8)
			}
			for i := 0; i < texels; i++ {
				out[i*4+c] = b
			}
		}
		return out
	}

	bm, ok := decodeASTCBlockMode(modeField)
	if !ok || bm.gridW > blockW || bm.gridH > blockH {
		return astcErrorTile(texels)
	}

	pos := uint(11)
	partitionCount := int(astcReadAt(lo, hi, pos, 2)) + 1
	pos += 2

	var partitionSeed uint32
	var cems [4]int
	var extraCEMBits uint

	if partitionCount == 1 {
		cems[0] = int(astcReadAt(lo, hi, pos, 4))
		pos += 4
	} else {
		partitionSeed = astcReadAt(lo, hi, pos, 10)
		pos += 10
	}

	planes := 1
	if bm.dualPlane {
		planes = 2
	}
	weightCount := bm.gridW * bm.gridH * planes
	weightBits := iseBitCount(weightCount, bm.quant)
	if weightCount > 64 || weightBits < 24 || weightBits > 96 {
		return astcErrorTile(texels)
	}

	// Fields stored just below the reversed weight region: extra CEM
	// bits first, then the dual-plane component selector.
	belowWeights := uint(128 - weightBits)

	if partitionCount > 1 {
		cemField := astcReadAt(lo, hi, pos, 6)
		pos += 6
		if cemField&3 == 0 {
			shared := int(cemField >> 2)
			for i := 0; i < partitionCount; i++ {
				cems[i] = shared
			}
		} else {
			extraCEMBits = uint(3*partitionCount - 4)
			belowWeights -= extraCEMBits
			extra := astcReadAt(lo, hi, belowWeights, extraCEMBits)
			combined := uint64(cemField>>2) | uint64(extra)<<4

			baseClass := int(cemField&3) - 1
			classes := make([]int, partitionCount)
			for i := 0; i < partitionCount; i++ {
				classes[i] = baseClass + int(combined&1)
				combined >>= 1
			}
			for i := 0; i < partitionCount; i++ {
				cems[i] = classes[i]<<2 | int(combined&3)
				combined >>= 2
			}
		}
	}

	ccs := -1
	if bm.dualPlane {
		belowWeights -= 2
		ccs = int(astcReadAt(lo, hi, belowWeights, 2))
	}

	colorValueCount := 0
	for i := 0; i < partitionCount; i++ {
		colorValueCount += (cems[i]>>2 + 1) * 2
	}
	if colorValueCount > 18 || belowWeights < pos {
		return astcErrorTile(texels)
	}

	colorBitsAvail := int(belowWeights - pos)
	var colorQuant iseQuant
	found := false
	for i := len(astcColorQuants) - 1; i >= 0; i-- {
		if iseBitCount(colorValueCount, astcColorQuants[i]) <= colorBitsAvail {
			colorQuant = astcColorQuants[i]
			found = true
			break
		}
	}
	if !found {
		return astcErrorTile(texels)
	}

	colorPos := pos
	readColor := func(n uint) uint32 {
		v := astcReadAt(lo, hi, colorPos, n)
		colorPos += n
		return v
	}
	colorValues := iseDecode(readColor, colorValueCount, colorQuant)
	for i, v := range colorValues {
		colorValues[i] = unquantColor(v, colorQuant)
	}

	var ep0, ep1 [4][4]int
	vi := 0
	for p := 0; p < partitionCount; p++ {
		n := (cems[p]>>2 + 1) * 2
		ep0[p], ep1[p] = astcEndpoints(cems[p], colorValues[vi:vi+n])
		vi += n
	}

	// Weights: reverse the whole block's bits, then read forward.
	rlo, rhi := reverseBits64(hi), reverseBits64(lo)
	weightPos := uint(0)
	readWeight := func(n uint) uint32 {
		v := astcReadAt(rlo, rhi, weightPos, n)
		weightPos += n
		return v
	}
	rawWeights := iseDecode(readWeight, weightCount, bm.quant)
	weights := make([]int, weightCount)
	for i, v := range rawWeights {
		weights[i] = unquantWeight(v, bm.quant)
	}

	gridWeight := func(plane, gx, gy int) int {
		return weights[(gy*bm.gridW+gx)*planes+plane]
	}

	// Bilinear infill from the weight grid onto the block footprint.
	infill := func(plane, x, y int) int {
		ds := (1024 + blockW/2) / (blockW - 1)
		dt := (1024 + blockH/2) / (blockH - 1)
		cs := ds * x
		ct := dt * y
		gs := (cs*(bm.gridW-1) + 32) >> 6
		gt := (ct*(bm.gridH-1) + 32) >> 6
		js, fs := gs>>4, gs&0xF
		jt, ft := gt>>4, gt&0xF

		w11 := (fs*ft + 8) >> 4
		w10 := ft - w11
		w01 := fs - w11
		w00 := 16 - fs - ft + w11

		p00 := gridWeight(plane, js, jt)
		p01, p10, p11 := p00, p00, p00
		if js+1 < bm.gridW {
			p01 = gridWeight(plane, js+1, jt)
		}
		if jt+1 < bm.gridH {
			p10 = gridWeight(plane, js, jt+1)
		}
		if js+1 < bm.gridW && jt+1 < bm.gridH {
			p11 = gridWeight(plane, js+1, jt+1)
		}
		return (p00*w00 + p01*w01 + p10*w10 + p11*w11 + 8) >> 4
	}

	smallBlock := texels < 31
	out := make([]byte, texels*4)
	for y := 0; y < blockH; y++ {
		for x := 0; x < blockW; x++ {
			part := astcSelectPartition(partitionSeed, x, y, partitionCount, smallBlock)
			w0 := infill(0, x, y)
			var w1 int
			if bm.dualPlane {
				w1 = infill(1, x, y)
			}

			p := (y*blockW + x) * 4
			for c := 0; c < 4; c++ {
				w := w0
				if bm.dualPlane && c == ccs {
					w = w1
				}
				out[p+c] = uint8((ep0[part][c]*(64-w) + ep1[part][c]*w + 32) >> 6)
			}
		}
	}
	return out
}

func reverseBits64(v uint64) uint64 {
	v = v>>1&0x5555555555555555 | v&0x5555555555555555<<1
	v = v>>2&0x3333333333333333 | v&0x3333333333333333<<2
	v = v>>4&0x0F0F0F0F0F0F0F0F | v&0x0F0F0F0F0F0F0F0F<<4
	v = v>>8&0x00FF00FF00FF00FF | v&0x00FF00FF00FF00FF<<8
	v = v>>16&0x0000FFFF0000FFFF | v&0x0000FFFF0000FFFF<<16
	return v>>32 | v<<32
}
