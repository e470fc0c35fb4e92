// Copyright 2026 The unityasset Authors.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package unityasset

// ETC1/ETC2/EAC block decoders. Blocks are 4x4 texels; the 64-bit color
// word stores pixel selector bits column-major (pixel i covers texel
// x=i/4, y=i%4), so every decoder routes writes through etcWriteOrder to
// produce the row-major tiles decodeBlockCompressed blits.

var etc1ModifierTable = [8][4]int{
	{2, 8, -2, -8},
	{5, 17, -5, -17},
	{9, 29, -9, -29},
	{13, 42, -13, -42},
	{18, 60, -18, -60},
	{24, 80, -24, -80},
	{33, 106, -33, -106},
	{47, 183, -47, -183},
}

var etc2DistanceTable = [8]int{3, 6, 11, 16, 23, 32, 41, 64}

// etcSubblockTable[flip][i] assigns iterated pixel i to subblock 0 or 1:
// flip 0 splits the block into two 2x4 column pairs, flip 1 into two 4x2
// row pairs.
var etcSubblockTable = [2][16]int{
	{0, 0, 0, 0, 0, 0, 0, 0, 1, 1, 1, 1, 1, 1, 1, 1},
	{0, 0, 1, 1, 0, 0, 1, 1, 0, 0, 1, 1, 0, 0, 1, 1},
}

// etcWriteOrder maps the column-major pixel iteration index to the
// row-major tile index.
var etcWriteOrder = [16]int{0, 4, 8, 12, 1, 5, 9, 13, 2, 6, 10, 14, 3, 7, 11, 15}

func clamp8(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// decodeETC1Block decodes an 8-byte ETC1 color block to an opaque RGBA
// tile. ETC1 data never encodes the ETC2 overflow modes, so routing it
// through the shared ETC2 core is exact.
func decodeETC1Block(block []byte) []byte {
	return decodeETCColor(block, false)
}

// decodeETC2RGBBlock decodes an 8-byte ETC2 RGB block (individual,
// differential, T, H, or planar mode) to an opaque RGBA tile.
func decodeETC2RGBBlock(block []byte) []byte {
	return decodeETCColor(block, false)
}

// decodeETC2RGBA1Block decodes the punch-through variant: the bit that
// selects differential mode in plain ETC2 is repurposed as an opaque
// flag, and non-opaque blocks may emit fully transparent texels.
func decodeETC2RGBA1Block(block []byte) []byte {
	opaque := block[3]&2 != 0
	return decodeETCColor(block, !opaque)
}

// decodeETC2RGBA8Block decodes a 16-byte block: an 8-byte EAC alpha half
// followed by an 8-byte ETC2 color half.
func decodeETC2RGBA8Block(block []byte) []byte {
	alpha := decodeEACAlpha(block[:8])
	out := decodeETCColor(block[8:16], false)
	for i := 0; i < 16; i++ {
		out[i*4+3] = alpha[i]
	}
	return out
}

// decodeETCColor is the shared ETC1/ETC2 color core. With punch set the
// block is always in the differential layouts, selector index 2 means
// fully transparent, and the zero-distance modifier applies.
func decodeETCColor(block []byte, punch bool) []byte {
	d0, d1, d2, d3 := int(block[0]), int(block[1]), int(block[2]), int(block[3])
	lsbBits := uint16(block[6])<<8 | uint16(block[7])
	msbBits := uint16(block[4])<<8 | uint16(block[5])

	out := make([]byte, 16*4)
	put := func(i int, r, g, b, a uint8) {
		p := etcWriteOrder[i] * 4
		out[p], out[p+1], out[p+2], out[p+3] = r, g, b, a
	}

	differential := d3&2 != 0 || punch

	if !differential {
		// Individual mode: two 4-bit base colors per channel.
		base := [2][3]int{
			{(d0 >> 4) * 17, (d1 >> 4) * 17, (d2 >> 4) * 17},
			{(d0 & 0xF) * 17, (d1 & 0xF) * 17, (d2 & 0xF) * 17},
		}
		decodeETCSubblocks(block, base, lsbBits, msbBits, false, put)
		return out
	}

	r := d0 & 0xF8
	dr := ((d0 << 3) & 0x18) - ((d0 << 3) & 0x20)
	g := d1 & 0xF8
	dg := ((d1 << 3) & 0x18) - ((d1 << 3) & 0x20)
	b := d2 & 0xF8
	db := ((d2 << 3) & 0x18) - ((d2 << 3) & 0x20)

	switch {
	case r+dr < 0 || r+dr > 255:
		// T mode: two base colors, one paletted with +-distance.
		c0 := [3]int{
			((d0 << 3) & 0xC0) | ((d0 << 4) & 0x30) | ((d0 >> 1) & 0xC) | (d0 & 3),
			(d1 & 0xF0) | d1>>4,
			(d1 & 0x0F) | ((d1 << 4) & 0xF0),
		}
		c1 := [3]int{
			(d2 & 0xF0) | d2>>4,
			(d2 & 0x0F) | ((d2 << 4) & 0xF0),
			(d3 & 0xF0) | d3>>4,
		}
		dist := etc2DistanceTable[((d3>>1)&6)|(d3&1)]
		palette := [4][3]int{
			c0,
			{clampInt(c1[0] + dist), clampInt(c1[1] + dist), clampInt(c1[2] + dist)},
			c1,
			{clampInt(c1[0] - dist), clampInt(c1[1] - dist), clampInt(c1[2] - dist)},
		}
		decodeETCPalette(palette, lsbBits, msbBits, punch, put)

	case g+dg < 0 || g+dg > 255:
		// H mode: four palette entries from two base colors +-distance.
		c0 := [3]int{
			((d0 << 1) & 0xF0) | ((d0 >> 3) & 0xF),
			0,
			0,
		}
		g0 := ((d0 << 5) & 0xE0) | (d1 & 0x10)
		c0[1] = g0 | g0>>4
		b0 := (d1 & 8) | ((d1 << 1) & 6) | d2>>7
		c0[2] = b0 | ((b0 << 4) & 0xF0)
		c1 := [3]int{
			((d2 << 1) & 0xF0) | ((d2 >> 3) & 0xF),
			0,
			((d3 << 1) & 0xF0) | ((d3 >> 3) & 0xF),
		}
		g1 := ((d2 << 5) & 0xE0) | ((d3 >> 3) & 0x10)
		c1[1] = g1 | g1>>4

		distIdx := (d3 & 4) | ((d3 << 1) & 2)
		if c0[0]<<16|c0[1]<<8|c0[2] >= c1[0]<<16|c1[1]<<8|c1[2] {
			distIdx |= 1
		}
		dist := etc2DistanceTable[distIdx]
		palette := [4][3]int{
			{clampInt(c0[0] + dist), clampInt(c0[1] + dist), clampInt(c0[2] + dist)},
			{clampInt(c0[0] - dist), clampInt(c0[1] - dist), clampInt(c0[2] - dist)},
			{clampInt(c1[0] + dist), clampInt(c1[1] + dist), clampInt(c1[2] + dist)},
			{clampInt(c1[0] - dist), clampInt(c1[1] - dist), clampInt(c1[2] - dist)},
		}
		decodeETCPalette(palette, lsbBits, msbBits, punch, put)

	case b+db < 0 || b+db > 255:
		// Planar mode: three corner colors, bilinear across the block.
		// Always opaque, punch-through or not.
		d4, d5, d6, d7 := int(block[4]), int(block[5]), int(block[6]), int(block[7])
		o := [3]int{
			((d0 << 1) & 0xFC) | ((d0 >> 5) & 3),
			((d0 << 7) & 0x80) | (d1 & 0x7E) | (d0 & 1),
			0,
		}
		ob := ((d1 << 7) & 0x80) | ((d2 << 2) & 0x60) | ((d2 << 3) & 0x18) | ((d3 >> 5) & 4)
		o[2] = ob | ob>>6
		h := [3]int{
			((d3 << 1) & 0xF8) | ((d3 << 2) & 4) | ((d3 >> 5) & 3),
			(d4 & 0xFE) | d4>>7,
			0,
		}
		hb := ((d4 << 7) & 0x80) | ((d5 >> 1) & 0x7C)
		h[2] = hb | hb>>6
		v := [3]int{
			((d5 << 5) & 0xE0) | ((d6 >> 3) & 0x1C) | ((d5 >> 1) & 3),
			((d6 << 3) & 0xF8) | ((d7 >> 5) & 0x6) | ((d6 >> 4) & 1),
			((d7 << 2) & 0xFC) | ((d7 >> 4) & 3),
		}
		for y := 0; y < 4; y++ {
			for x := 0; x < 4; x++ {
				p := (y*4 + x) * 4
				for c := 0; c < 3; c++ {
					out[p+c] = clamp8((x*(h[c]-o[c]) + y*(v[c]-o[c]) + 4*o[c] + 2) >> 2)
				}
				out[p+3] = 255
			}
		}

	default:
		// Plain differential: 5-bit base plus 3-bit signed delta.
		base := [2][3]int{
			{r | r>>5, g | g>>5, b | b>>5},
			{(r + dr) | (r+dr)>>5, (g + dg) | (g+dg)>>5, (b + db) | (b+db)>>5},
		}
		decodeETCSubblocks(block, base, lsbBits, msbBits, punch, put)
	}

	return out
}

// decodeETCSubblocks applies the per-subblock intensity modifiers for the
// individual and differential modes.
func decodeETCSubblocks(block []byte, base [2][3]int, lsbBits, msbBits uint16, punch bool, put func(i int, r, g, b, a uint8)) {
	d3 := int(block[3])
	cw := [2]int{(d3 >> 5) & 7, (d3 >> 2) & 7}
	flip := d3 & 1

	for i := 0; i < 16; i++ {
		sub := etcSubblockTable[flip][i]
		idx := int((msbBits>>uint(i))&1)<<1 | int((lsbBits>>uint(i))&1)

		if punch && idx == 2 {
			put(i, 0, 0, 0, 0)
			continue
		}
		mod := etc1ModifierTable[cw[sub]][idx]
		if punch && idx == 0 {
			mod = 0
		}
		put(i,
			clamp8(base[sub][0]+mod),
			clamp8(base[sub][1]+mod),
			clamp8(base[sub][2]+mod),
			255)
	}
}

// decodeETCPalette applies the T/H-mode four-entry palette.
func decodeETCPalette(palette [4][3]int, lsbBits, msbBits uint16, punch bool, put func(i int, r, g, b, a uint8)) {
	for i := 0; i < 16; i++ {
		idx := int((msbBits>>uint(i))&1)<<1 | int((lsbBits>>uint(i))&1)
		if punch && idx == 2 {
			put(i, 0, 0, 0, 0)
			continue
		}
		c := palette[idx]
		put(i, uint8(c[0]), uint8(c[1]), uint8(c[2]), 255)
	}
}

func clampInt(v int) int {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}

// eacModifierTable holds the 16 EAC codebooks of 8 modifiers each.
var eacModifierTable = [16][8]int{
	{-3, -6, -9, -15, 2, 5, 8, 14},
	{-3, -7, -10, -13, 2, 6, 9, 12},
	{-2, -5, -8, -13, 1, 4, 7, 12},
	{-2, -4, -6, -13, 1, 3, 5, 12},
	{-3, -6, -8, -12, 2, 5, 7, 11},
	{-3, -7, -9, -11, 2, 6, 8, 10},
	{-4, -7, -8, -11, 3, 6, 7, 10},
	{-3, -5, -8, -11, 2, 4, 7, 10},
	{-2, -6, -8, -10, 1, 5, 7, 9},
	{-2, -5, -8, -10, 1, 4, 7, 9},
	{-2, -4, -8, -10, 1, 3, 7, 9},
	{-2, -5, -7, -10, 1, 4, 6, 9},
	{-3, -4, -7, -10, 2, 3, 6, 9},
	{-1, -2, -3, -10, 0, 1, 2, 9},
	{-4, -6, -8, -9, 3, 5, 7, 8},
	{-3, -5, -7, -9, 2, 4, 6, 8},
}

// eacSelectors unpacks the 48-bit selector field: pixel i (column-major)
// takes the 3 bits starting at bit 45-3i, most significant first.
func eacSelectors(block []byte) [16]int {
	var bits uint64
	for i := 2; i < 8; i++ {
		bits = bits<<8 | uint64(block[i])
	}
	var sel [16]int
	for i := 0; i < 16; i++ {
		sel[i] = int((bits >> uint(45-3*i)) & 7)
	}
	return sel
}

// decodeEACAlpha decodes the 8-bit alpha half of an ETC2_RGBA8 block,
// indexed row-major.
func decodeEACAlpha(block []byte) [16]uint8 {
	base := int(block[0])
	mult := int(block[1] >> 4)
	tbl := int(block[1] & 0xF)
	sel := eacSelectors(block)

	var out [16]uint8
	for i := 0; i < 16; i++ {
		out[etcWriteOrder[i]] = clamp8(base + eacModifierTable[tbl][sel[i]]*mult)
	}
	return out
}

// decodeEACChannel decodes one EAC R11 channel to 8-bit, indexed
// row-major. The 11-bit reconstruction follows the format's formula; the top
// 8 bits are kept for the RGBA tile.
func decodeEACChannel(block []byte, signed bool) [16]uint8 {
	var base11 int
	if signed {
		base11 = int(int8(block[0])) * 8
	} else {
		base11 = int(block[0])*8 + 4
	}
	mult := int(block[1] >> 4)
	tbl := int(block[1] & 0xF)
	sel := eacSelectors(block)

	var out [16]uint8
	for i := 0; i < 16; i++ {
		mod := eacModifierTable[tbl][sel[i]]
		v := base11
		if mult > 0 {
			v += mod * mult * 8
		} else {
			v += mod
		}
		if signed {
			if v < -1023 {
				v = -1023
			}
			if v > 1023 {
				v = 1023
			}
			out[etcWriteOrder[i]] = uint8((v + 1023) >> 3)
		} else {
			if v < 0 {
				v = 0
			}
			if v > 2047 {
				v = 2047
			}
			out[etcWriteOrder[i]] = uint8(v >> 3)
		}
	}
	return out
}

// decodeEACRBlock decodes a single-channel EAC R11 block, broadcasting
// red with opaque alpha the way the BC4 decoder does.
func decodeEACRBlock(block []byte) []byte {
	r := decodeEACChannel(block, false)
	out := make([]byte, 16*4)
	for i := 0; i < 16; i++ {
		out[i*4], out[i*4+1], out[i*4+2], out[i*4+3] = r[i], r[i], r[i], 255
	}
	return out
}

func decodeEACRSignedBlock(block []byte) []byte {
	r := decodeEACChannel(block, true)
	out := make([]byte, 16*4)
	for i := 0; i < 16; i++ {
		out[i*4], out[i*4+1], out[i*4+2], out[i*4+3] = r[i], r[i], r[i], 255
	}
	return out
}

// decodeEACRGBlock decodes a two-channel RG11 block: two independent
// 8-byte channel halves, blue left at 0.
func decodeEACRGBlock(block []byte) []byte {
	r := decodeEACChannel(block[:8], false)
	g := decodeEACChannel(block[8:16], false)
	out := make([]byte, 16*4)
	for i := 0; i < 16; i++ {
		out[i*4], out[i*4+1], out[i*4+2], out[i*4+3] = r[i], g[i], 0, 255
	}
	return out
}

func decodeEACRGSignedBlock(block []byte) []byte {
	r := decodeEACChannel(block[:8], true)
	g := decodeEACChannel(block[8:16], true)
	out := make([]byte, 16*4)
	for i := 0; i < 16; i++ {
		out[i*4], out[i*4+1], out[i*4+2], out[i*4+3] = r[i], g[i], 0, 255
	}
	return out
}
