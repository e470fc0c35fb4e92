// Copyright 2026 The unityasset Authors.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package unityasset

// BC6H and BC7 block decoders. Both formats pack a 128-bit block read
// LSB-first from byte 0; blocks carry a mode prefix selecting endpoint
// precision, subset count, and index width.

// bitReader128 reads a 16-byte block as a little-endian 128-bit stream.
type bitReader128 struct {
	lo, hi uint64
	pos    uint
}

func newBitReader128(block []byte) *bitReader128 {
	var lo, hi uint64
	for i := 0; i < 8; i++ {
		lo |= uint64(block[i]) << (8 * uint(i))
		hi |= uint64(block[8+i]) << (8 * uint(i))
	}
	return &bitReader128{lo: lo, hi: hi}
}

func (r *bitReader128) read(n uint) uint32 {
	var v uint64
	p := r.pos
	switch {
	case p >= 64:
		v = r.hi >> (p - 64)
	case p+n <= 64:
		v = r.lo >> p
	default:
		v = r.lo>>p | r.hi<<(64-p)
	}
	r.pos += n
	return uint32(v & (1<<n - 1))
}

// bc7Mode describes one of the eight BC7 block modes.
type bc7Mode struct {
	subsets       int
	partitionBits uint
	rotationBits  uint
	indexSelBits  uint
	colorBits     uint
	alphaBits     uint
	endpointPBits uint // per-endpoint p-bits
	sharedPBits   uint // per-subset shared p-bits
	indexBits     uint
	indexBits2    uint
}

var bc7Modes = [8]bc7Mode{
	{subsets: 3, partitionBits: 4, colorBits: 4, endpointPBits: 1, indexBits: 3},
	{subsets: 2, partitionBits: 6, colorBits: 6, sharedPBits: 1, indexBits: 3},
	{subsets: 3, partitionBits: 6, colorBits: 5, indexBits: 2},
	{subsets: 2, partitionBits: 6, colorBits: 7, endpointPBits: 1, indexBits: 2},
	{subsets: 1, rotationBits: 2, indexSelBits: 1, colorBits: 5, alphaBits: 6, indexBits: 2, indexBits2: 3},
	{subsets: 1, rotationBits: 2, colorBits: 7, alphaBits: 8, indexBits: 2, indexBits2: 2},
	{subsets: 1, colorBits: 7, alphaBits: 7, endpointPBits: 1, indexBits: 4},
	{subsets: 2, partitionBits: 6, colorBits: 5, alphaBits: 5, endpointPBits: 1, indexBits: 2},
}

// bcPartition2/bcPartition3 are the fixed subset assignment tables shared
// by BC6H (2-subset) and BC7 (2- and 3-subset).
var bcPartition2 = [64][16]uint8{
	{0, 0, 1, 1, 0, 0, 1, 1, 0, 0, 1, 1, 0, 0, 1, 1},
	{0, 0, 0, 1, 0, 0, 0, 1, 0, 0, 0, 1, 0, 0, 0, 1},
	{0, 1, 1, 1, 0, 1, 1, 1, 0, 1, 1, 1, 0, 1, 1, 1},
	{0, 0, 0, 1, 0, 0, 1, 1, 0, 0, 1, 1, 0, 1, 1, 1},
	{0, 0, 0, 0, 0, 0, 0, 1, 0, 0, 0, 1, 0, 0, 1, 1},
	{0, 0, 1, 1, 0, 1, 1, 1, 0, 1, 1, 1, 1, 1, 1, 1},
	{0, 0, 0, 1, 0, 0, 1, 1, 0, 1, 1, 1, 1, 1, 1, 1},
	{0, 0, 0, 0, 0, 0, 0, 1, 0, 0, 1, 1, 0, 1, 1, 1},
	{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 1, 0, 0, 1, 1},
	{0, 0, 1, 1, 0, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1},
	{0, 0, 0, 0, 0, 0, 0, 1, 0, 1, 1, 1, 1, 1, 1, 1},
	{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 1, 0, 1, 1, 1},
	{0, 0, 0, 1, 0, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1},
	{0, 0, 0, 0, 0, 0, 0, 0, 1, 1, 1, 1, 1, 1, 1, 1},
	{0, 0, 0, 0, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1},
	{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 1, 1, 1, 1},
	{0, 0, 0, 0, 1, 0, 0, 0, 1, 1, 1, 0, 1, 1, 1, 1},
	{0, 1, 1, 1, 0, 0, 0, 1, 0, 0, 0, 0, 0, 0, 0, 0},
	{0, 0, 0, 0, 0, 0, 0, 0, 1, 0, 0, 0, 1, 1, 1, 0},
	{0, 1, 1, 1, 0, 0, 1, 1, 0, 0, 0, 1, 0, 0, 0, 0},
	{0, 0, 1, 1, 0, 0, 0, 1, 0, 0, 0, 0, 0, 0, 0, 0},
	{0, 0, 0, 0, 1, 0, 0, 0, 1, 1, 0, 0, 1, 1, 1, 0},
	{0, 0, 0, 0, 0, 0, 0, 0, 1, 0, 0, 0, 1, 1, 0, 0},
	{0, 1, 1, 1, 0, 0, 1, 1, 0, 0, 1, 1, 0, 0, 0, 1},
	{0, 0, 1, 1, 0, 0, 0, 1, 0, 0, 0, 1, 0, 0, 0, 0},
	{0, 0, 0, 0, 1, 0, 0, 0, 1, 0, 0, 0, 1, 1, 0, 0},
	{0, 1, 1, 0, 0, 1, 1, 0, 0, 1, 1, 0, 0, 1, 1, 0},
	{0, 0, 1, 1, 0, 1, 1, 0, 0, 1, 1, 0, 1, 1, 0, 0},
	{0, 0, 0, 1, 0, 1, 1, 1, 1, 1, 1, 0, 1, 0, 0, 0},
	{0, 0, 0, 0, 1, 1, 1, 1, 1, 1, 1, 1, 0, 0, 0, 0},
	{0, 1, 1, 1, 0, 0, 0, 1, 1, 0, 0, 0, 1, 1, 1, 0},
	{0, 0, 1, 1, 1, 0, 0, 1, 1, 0, 0, 1, 1, 1, 0, 0},
	{0, 1, 0, 1, 0, 1, 0, 1, 0, 1, 0, 1, 0, 1, 0, 1},
	{0, 0, 0, 0, 1, 1, 1, 1, 0, 0, 0, 0, 1, 1, 1, 1},
	{0, 1, 0, 1, 1, 0, 1, 0, 0, 1, 0, 1, 1, 0, 1, 0},
	{0, 0, 1, 1, 0, 0, 1, 1, 1, 1, 0, 0, 1, 1, 0, 0},
	{0, 0, 1, 1, 1, 1, 0, 0, 0, 0, 1, 1, 1, 1, 0, 0},
	{0, 1, 0, 1, 0, 1, 0, 1, 1, 0, 1, 0, 1, 0, 1, 0},
	{0, 1, 1, 0, 1, 0, 0, 1, 0, 1, 1, 0, 1, 0, 0, 1},
	{0, 1, 0, 1, 1, 0, 1, 0, 1, 0, 1, 0, 0, 1, 0, 1},
	{0, 1, 1, 1, 0, 0, 1, 1, 1, 1, 0, 0, 1, 1, 1, 0},
	{0, 0, 0, 1, 0, 0, 1, 1, 1, 1, 0, 0, 1, 0, 0, 0},
	{0, 0, 1, 1, 0, 0, 1, 0, 0, 1, 0, 0, 1, 1, 0, 0},
	{0, 0, 1, 1, 1, 0, 1, 1, 1, 1, 0, 1, 1, 1, 0, 0},
	{0, 1, 1, 0, 1, 0, 0, 1, 1, 0, 0, 1, 0, 1, 1, 0},
	{0, 0, 1, 1, 1, 1, 0, 0, 1, 1, 0, 0, 0, 0, 1, 1},
	{0, 1, 1, 0, 0, 1, 1, 0, 1, 0, 0, 1, 1, 0, 0, 1},
	{0, 0, 0, 0, 0, 1, 1, 0, 0, 1, 1, 0, 0, 0, 0, 0},
	{0, 1, 0, 0, 1, 1, 1, 0, 0, 1, 0, 0, 0, 0, 0, 0},
	{0, 0, 1, 0, 0, 1, 1, 1, 0, 0, 1, 0, 0, 0, 0, 0},
	{0, 0, 0, 0, 0, 0, 1, 0, 0, 1, 1, 1, 0, 0, 1, 0},
	{0, 0, 0, 0, 0, 1, 0, 0, 1, 1, 1, 0, 0, 1, 0, 0},
	{0, 1, 1, 0, 1, 1, 0, 0, 1, 0, 0, 1, 0, 0, 1, 1},
	{0, 0, 1, 1, 0, 1, 1, 0, 1, 1, 0, 0, 1, 0, 0, 1},
	{0, 1, 1, 0, 0, 0, 1, 1, 1, 0, 0, 1, 1, 1, 0, 0},
	{0, 0, 1, 1, 1, 0, 0, 1, 1, 1, 0, 0, 0, 1, 1, 0},
	{0, 1, 1, 0, 1, 1, 0, 0, 1, 1, 0, 0, 1, 0, 0, 1},
	{0, 1, 1, 0, 0, 0, 1, 1, 0, 0, 1, 1, 1, 0, 0, 1},
	{0, 1, 1, 1, 1, 1, 1, 0, 1, 0, 0, 0, 0, 0, 0, 1},
	{0, 0, 0, 1, 1, 0, 0, 0, 1, 1, 1, 0, 0, 1, 1, 1},
	{0, 0, 0, 0, 1, 1, 1, 1, 0, 0, 1, 1, 0, 0, 1, 1},
	{0, 0, 1, 1, 0, 0, 1, 1, 1, 1, 1, 1, 0, 0, 0, 0},
	{0, 0, 1, 0, 0, 0, 1, 0, 1, 1, 1, 0, 1, 1, 1, 0},
	{0, 1, 0, 0, 0, 1, 0, 0, 1, 1, 1, 0, 1, 1, 1, 0},
}

var bcPartition3 = [64][16]uint8{
	{0, 0, 1, 1, 0, 0, 1, 1, 0, 2, 2, 1, 2, 2, 2, 2},
	{0, 0, 0, 1, 0, 0, 1, 1, 2, 2, 1, 1, 2, 2, 2, 1},
	{0, 0, 0, 0, 2, 0, 0, 1, 2, 2, 1, 1, 2, 2, 1, 1},
	{0, 2, 2, 2, 0, 0, 2, 2, 0, 0, 1, 1, 0, 1, 1, 1},
	{0, 0, 0, 0, 0, 0, 0, 0, 1, 1, 2, 2, 1, 1, 2, 2},
	{0, 0, 1, 1, 0, 0, 1, 1, 0, 0, 2, 2, 0, 0, 2, 2},
	{0, 0, 2, 2, 0, 0, 2, 2, 1, 1, 1, 1, 1, 1, 1, 1},
	{0, 0, 1, 1, 0, 0, 1, 1, 2, 2, 1, 1, 2, 2, 1, 1},
	{0, 0, 0, 0, 0, 0, 0, 0, 1, 1, 1, 1, 2, 2, 2, 2},
	{0, 0, 0, 0, 1, 1, 1, 1, 1, 1, 1, 1, 2, 2, 2, 2},
	{0, 0, 0, 0, 1, 1, 1, 1, 2, 2, 2, 2, 2, 2, 2, 2},
	{0, 0, 1, 2, 0, 0, 1, 2, 0, 0, 1, 2, 0, 0, 1, 2},
	{0, 1, 1, 2, 0, 1, 1, 2, 0, 1, 1, 2, 0, 1, 1, 2},
	{0, 1, 2, 2, 0, 1, 2, 2, 0, 1, 2, 2, 0, 1, 2, 2},
	{0, 0, 1, 1, 0, 1, 1, 2, 1, 1, 2, 2, 1, 2, 2, 2},
	{0, 0, 1, 1, 2, 0, 0, 1, 2, 2, 0, 0, 2, 2, 2, 0},
	{0, 0, 0, 1, 0, 0, 1, 1, 0, 1, 1, 2, 1, 1, 2, 2},
	{0, 1, 1, 1, 0, 0, 1, 1, 2, 0, 0, 1, 2, 2, 0, 0},
	{0, 0, 0, 0, 1, 1, 2, 2, 1, 1, 2, 2, 1, 1, 2, 2},
	{0, 0, 2, 2, 0, 0, 2, 2, 0, 0, 2, 2, 1, 1, 1, 1},
	{0, 1, 1, 1, 0, 1, 1, 1, 0, 2, 2, 2, 0, 2, 2, 2},
	{0, 0, 0, 1, 0, 0, 0, 1, 2, 2, 2, 1, 2, 2, 2, 1},
	{0, 0, 0, 0, 0, 0, 1, 1, 0, 1, 2, 2, 0, 1, 2, 2},
	{0, 0, 0, 0, 1, 1, 0, 0, 2, 2, 1, 0, 2, 2, 1, 0},
	{0, 1, 2, 2, 0, 1, 2, 2, 0, 0, 1, 1, 0, 0, 0, 0},
	{0, 0, 1, 2, 0, 0, 1, 2, 1, 1, 2, 2, 2, 2, 2, 2},
	{0, 1, 1, 0, 1, 2, 2, 1, 1, 2, 2, 1, 0, 1, 1, 0},
	{0, 0, 0, 0, 0, 1, 1, 0, 1, 2, 2, 1, 1, 2, 2, 1},
	{0, 0, 2, 2, 1, 1, 0, 2, 1, 1, 0, 2, 0, 0, 2, 2},
	{0, 1, 1, 0, 0, 1, 1, 0, 2, 0, 0, 2, 2, 2, 2, 2},
	{0, 0, 1, 1, 0, 1, 2, 2, 0, 1, 2, 2, 0, 0, 1, 1},
	{0, 0, 0, 0, 2, 0, 0, 0, 2, 2, 1, 1, 2, 2, 2, 1},
	{0, 0, 0, 0, 0, 0, 0, 2, 1, 1, 2, 2, 1, 2, 2, 2},
	{0, 2, 2, 2, 0, 0, 2, 2, 0, 0, 1, 2, 0, 0, 1, 1},
	{0, 0, 1, 1, 0, 0, 1, 2, 0, 0, 2, 2, 0, 2, 2, 2},
	{0, 1, 2, 0, 0, 1, 2, 0, 0, 1, 2, 0, 0, 1, 2, 0},
	{0, 0, 0, 0, 1, 1, 1, 1, 2, 2, 2, 2, 0, 0, 0, 0},
	{0, 1, 2, 0, 1, 2, 0, 1, 2, 0, 1, 2, 0, 1, 2, 0},
	{0, 1, 2, 0, 2, 0, 1, 2, 1, 2, 0, 1, 0, 1, 2, 0},
	{0, 0, 1, 1, 2, 2, 0, 0, 1, 1, 2, 2, 0, 0, 1, 1},
	{0, 0, 1, 1, 1, 1, 2, 2, 2, 2, 0, 0, 0, 0, 1, 1},
	{0, 1, 0, 1, 0, 1, 0, 1, 2, 2, 2, 2, 2, 2, 2, 2},
	{0, 0, 0, 0, 0, 0, 0, 0, 2, 1, 2, 1, 2, 1, 2, 1},
	{0, 0, 2, 2, 1, 1, 2, 2, 0, 0, 2, 2, 1, 1, 2, 2},
	{0, 0, 2, 2, 0, 0, 1, 1, 0, 0, 2, 2, 0, 0, 1, 1},
	{0, 2, 2, 0, 1, 2, 2, 1, 0, 2, 2, 0, 1, 2, 2, 1},
	{0, 1, 0, 1, 2, 2, 2, 2, 2, 2, 2, 2, 0, 1, 0, 1},
	{0, 0, 0, 0, 2, 1, 2, 1, 2, 1, 2, 1, 2, 1, 2, 1},
	{0, 1, 0, 1, 0, 1, 0, 1, 0, 1, 0, 1, 2, 2, 2, 2},
	{0, 2, 2, 2, 0, 1, 1, 1, 0, 2, 2, 2, 0, 1, 1, 1},
	{0, 0, 0, 2, 1, 1, 1, 2, 0, 0, 0, 2, 1, 1, 1, 2},
	{0, 0, 0, 0, 2, 1, 1, 2, 2, 1, 1, 2, 2, 1, 1, 2},
	{0, 2, 2, 2, 0, 1, 1, 1, 0, 1, 1, 1, 0, 2, 2, 2},
	{0, 0, 0, 2, 1, 1, 1, 2, 1, 1, 1, 2, 0, 0, 0, 2},
	{0, 1, 1, 0, 0, 1, 1, 0, 0, 1, 1, 0, 2, 2, 2, 2},
	{0, 0, 0, 0, 0, 0, 0, 0, 2, 1, 1, 2, 2, 1, 1, 2},
	{0, 1, 1, 0, 0, 1, 1, 0, 2, 2, 2, 2, 2, 2, 2, 2},
	{0, 0, 2, 2, 0, 0, 1, 1, 0, 0, 1, 1, 0, 0, 2, 2},
	{0, 0, 2, 2, 1, 1, 2, 2, 1, 1, 2, 2, 0, 0, 2, 2},
	{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 2, 1, 1, 2},
	{0, 0, 0, 2, 0, 0, 0, 1, 0, 0, 0, 2, 0, 0, 0, 1},
	{0, 2, 2, 2, 1, 2, 2, 2, 0, 2, 2, 2, 1, 2, 2, 2},
	{0, 1, 0, 1, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2},
	{0, 1, 1, 1, 2, 0, 1, 1, 2, 2, 0, 1, 2, 2, 2, 0},
}

// Anchor index tables: the anchor texel of each non-first subset reads
// one fewer index bit.
var bcAnchor2 = [64]int{
	15, 15, 15, 15, 15, 15, 15, 15,
	15, 15, 15, 15, 15, 15, 15, 15,
	15, 2, 8, 2, 2, 8, 8, 15,
	2, 8, 2, 2, 8, 8, 2, 2,
	15, 15, 6, 8, 2, 8, 15, 15,
	2, 8, 2, 2, 2, 15, 15, 6,
	6, 2, 6, 8, 15, 15, 2, 2,
	15, 6, 15, 15, 15, 2, 2, 15,
}

var bcAnchor3a = [64]int{
	3, 3, 15, 15, 8, 3, 15, 15,
	8, 8, 6, 6, 6, 5, 3, 3,
	3, 3, 8, 15, 3, 3, 6, 10,
	5, 8, 8, 6, 8, 5, 15, 15,
	8, 15, 3, 5, 6, 10, 8, 15,
	15, 3, 15, 5, 15, 15, 15, 15,
	3, 15, 5, 5, 5, 8, 5, 10,
	5, 10, 8, 13, 15, 12, 3, 3,
}

var bcAnchor3b = [64]int{
	15, 8, 8, 3, 15, 15, 3, 8,
	15, 15, 15, 15, 15, 15, 15, 8,
	15, 8, 15, 3, 15, 8, 15, 8,
	3, 15, 6, 10, 15, 15, 10, 8,
	15, 3, 15, 10, 10, 8, 9, 10,
	6, 15, 8, 15, 3, 6, 6, 8,
	15, 3, 15, 15, 15, 15, 15, 15,
	15, 15, 15, 15, 3, 15, 15, 8,
}

var bcWeights2 = [4]int{0, 21, 43, 64}
var bcWeights3 = [8]int{0, 9, 18, 27, 37, 46, 55, 64}
var bcWeights4 = [16]int{0, 4, 9, 13, 17, 21, 26, 30, 34, 38, 43, 47, 51, 55, 60, 64}

func bcWeights(bits uint) []int {
	switch bits {
	case 2:
		return bcWeights2[:]
	case 3:
		return bcWeights3[:]
	default:
		return bcWeights4[:]
	}
}

func bcInterpolate(a, b, weight int) int {
	return (a*(64-weight) + b*weight + 32) >> 6
}

// bc7Subset returns the subset a texel belongs to and whether it is that
// subset's anchor.
func bc7Subset(subsets, partition, texel int) (subset int, anchor bool) {
	switch subsets {
	case 2:
		subset = int(bcPartition2[partition][texel])
		anchor = texel == 0 || texel == bcAnchor2[partition]
	case 3:
		subset = int(bcPartition3[partition][texel])
		anchor = texel == 0 || texel == bcAnchor3a[partition] || texel == bcAnchor3b[partition]
	default:
		anchor = texel == 0
	}
	return subset, anchor
}

// decodeBC7Block decodes one 16-byte BC7 block to a row-major RGBA tile.
// An all-zero mode prefix is invalid per the format and decodes to
// transparent black.
func decodeBC7Block(block []byte) []byte {
	out := make([]byte, 16*4)
	r := newBitReader128(block)

	mode := -1
	for i := 0; i < 8; i++ {
		if r.read(1) == 1 {
			mode = i
			break
		}
	}
	if mode < 0 {
		return out
	}
	m := bc7Modes[mode]

	partition := int(r.read(m.partitionBits))
	rotation := int(r.read(m.rotationBits))
	indexSel := int(r.read(m.indexSelBits))

	numEndpoints := m.subsets * 2
	var endpoints [6][4]int

	for c := 0; c < 3; c++ {
		for e := 0; e < numEndpoints; e++ {
			endpoints[e][c] = int(r.read(m.colorBits))
		}
	}
	if m.alphaBits > 0 {
		for e := 0; e < numEndpoints; e++ {
			endpoints[e][3] = int(r.read(m.alphaBits))
		}
	}

	colorPrec := m.colorBits
	alphaPrec := m.alphaBits
	if m.endpointPBits > 0 {
		for e := 0; e < numEndpoints; e++ {
			p := int(r.read(1))
			for c := 0; c < 4; c++ {
				endpoints[e][c] = endpoints[e][c]<<1 | p
			}
		}
		colorPrec++
		if alphaPrec > 0 {
			alphaPrec++
		}
	} else if m.sharedPBits > 0 {
		for s := 0; s < m.subsets; s++ {
			p := int(r.read(1))
			for e := s * 2; e < s*2+2; e++ {
				for c := 0; c < 4; c++ {
					endpoints[e][c] = endpoints[e][c]<<1 | p
				}
			}
		}
		colorPrec++
		if alphaPrec > 0 {
			alphaPrec++
		}
	}

	// Unquantize to 8 bits by bit replication.
	for e := 0; e < numEndpoints; e++ {
		for c := 0; c < 3; c++ {
			v := endpoints[e][c] << (8 - colorPrec)
			endpoints[e][c] = v | v>>colorPrec
		}
		if m.alphaBits > 0 {
			v := endpoints[e][3] << (8 - alphaPrec)
			endpoints[e][3] = v | v>>alphaPrec
		} else {
			endpoints[e][3] = 255
		}
	}

	// Index fields: primary first for all texels, then secondary.
	var idx1, idx2 [16]int
	for i := 0; i < 16; i++ {
		_, anchor := bc7Subset(m.subsets, partition, i)
		bits := m.indexBits
		if anchor {
			bits--
		}
		idx1[i] = int(r.read(bits))
	}
	if m.indexBits2 > 0 {
		for i := 0; i < 16; i++ {
			bits := m.indexBits2
			if i == 0 {
				bits--
			}
			idx2[i] = int(r.read(bits))
		}
	}

	w1 := bcWeights(m.indexBits)
	w2 := bcWeights(m.indexBits2)

	for i := 0; i < 16; i++ {
		subset, _ := bc7Subset(m.subsets, partition, i)
		e0 := endpoints[subset*2]
		e1 := endpoints[subset*2+1]

		colorWeight := w1[idx1[i]]
		alphaWeight := colorWeight
		if m.indexBits2 > 0 {
			alphaWeight = w2[idx2[i]]
			if indexSel == 1 {
				colorWeight, alphaWeight = alphaWeight, colorWeight
			}
		}

		px := [4]uint8{
			uint8(bcInterpolate(e0[0], e1[0], colorWeight)),
			uint8(bcInterpolate(e0[1], e1[1], colorWeight)),
			uint8(bcInterpolate(e0[2], e1[2], colorWeight)),
			uint8(bcInterpolate(e0[3], e1[3], alphaWeight)),
		}

		switch rotation {
		case 1:
			px[0], px[3] = px[3], px[0]
		case 2:
			px[1], px[3] = px[3], px[1]
		case 3:
			px[2], px[3] = px[3], px[2]
		}

		copy(out[i*4:i*4+4], px[:])
	}

	return out
}

// BC6H endpoint field targets for the per-mode bit scatter.
const (
	bcfRW = iota
	bcfGW
	bcfBW
	bcfRX
	bcfGX
	bcfBX
	bcfRY
	bcfGY
	bcfBY
	bcfRZ
	bcfGZ
	bcfBZ
	bcfD
)

// bc6Field reads n bits into target bits bit..bit+n-1, or bit..bit-n+1
// when rev is set (mode 14 stores endpoint MSBs reversed).
type bc6Field struct {
	target int
	bit    uint
	n      uint
	rev    bool
}

// bc6Mode describes a BC6H mode: endpoint precision, whether the later
// endpoints are deltas from the first, subset count, and the field order.
// Delta widths are derived from the field list by bc6FieldWidth.
type bc6Mode struct {
	endpointPrec uint
	transformed  bool
	subsets      int
	fields       []bc6Field
}

var bc6Modes = map[uint32]bc6Mode{
	0x00: {10, true, 2, []bc6Field{
		{bcfGY, 4, 1, false}, {bcfBY, 4, 1, false}, {bcfBZ, 4, 1, false},
		{bcfRW, 0, 10, false}, {bcfGW, 0, 10, false}, {bcfBW, 0, 10, false},
		{bcfRX, 0, 5, false}, {bcfGZ, 4, 1, false}, {bcfGY, 0, 4, false},
		{bcfGX, 0, 5, false}, {bcfBZ, 0, 1, false}, {bcfGZ, 0, 4, false},
		{bcfBX, 0, 5, false}, {bcfBZ, 1, 1, false}, {bcfBY, 0, 4, false},
		{bcfRY, 0, 5, false}, {bcfBZ, 2, 1, false}, {bcfRZ, 0, 5, false},
		{bcfBZ, 3, 1, false}, {bcfD, 0, 5, false},
	}},
	0x01: {7, true, 2, []bc6Field{
		{bcfGY, 5, 1, false}, {bcfGZ, 4, 1, false}, {bcfGZ, 5, 1, false},
		{bcfRW, 0, 7, false}, {bcfBZ, 0, 1, false}, {bcfBZ, 1, 1, false},
		{bcfBY, 4, 1, false}, {bcfGW, 0, 7, false}, {bcfBY, 5, 1, false},
		{bcfBZ, 2, 1, false}, {bcfGY, 4, 1, false}, {bcfBW, 0, 7, false},
		{bcfBZ, 3, 1, false}, {bcfBZ, 5, 1, false}, {bcfBZ, 4, 1, false},
		{bcfRX, 0, 6, false}, {bcfGY, 0, 4, false}, {bcfGX, 0, 6, false},
		{bcfGZ, 0, 4, false}, {bcfBX, 0, 6, false}, {bcfBY, 0, 4, false},
		{bcfRY, 0, 6, false}, {bcfRZ, 0, 6, false}, {bcfD, 0, 5, false},
	}},
	0x02: {11, true, 2, []bc6Field{
		{bcfRW, 0, 10, false}, {bcfGW, 0, 10, false}, {bcfBW, 0, 10, false},
		{bcfRX, 0, 5, false}, {bcfRW, 10, 1, false}, {bcfGY, 0, 4, false},
		{bcfGX, 0, 4, false}, {bcfGW, 10, 1, false}, {bcfBZ, 0, 1, false},
		{bcfGZ, 0, 4, false}, {bcfBX, 0, 4, false}, {bcfBW, 10, 1, false},
		{bcfBZ, 1, 1, false}, {bcfBY, 0, 4, false}, {bcfRY, 0, 5, false},
		{bcfBZ, 2, 1, false}, {bcfRZ, 0, 5, false}, {bcfBZ, 3, 1, false},
		{bcfD, 0, 5, false},
	}},
	0x06: {11, true, 2, []bc6Field{
		{bcfRW, 0, 10, false}, {bcfGW, 0, 10, false}, {bcfBW, 0, 10, false},
		{bcfRX, 0, 4, false}, {bcfRW, 10, 1, false}, {bcfGZ, 4, 1, false},
		{bcfGY, 0, 4, false}, {bcfGX, 0, 5, false}, {bcfGW, 10, 1, false},
		{bcfGZ, 0, 4, false}, {bcfBX, 0, 4, false}, {bcfBW, 10, 1, false},
		{bcfBZ, 1, 1, false}, {bcfBY, 0, 4, false}, {bcfRY, 0, 4, false},
		{bcfBZ, 0, 1, false}, {bcfBZ, 2, 1, false}, {bcfRZ, 0, 4, false},
		{bcfGY, 4, 1, false}, {bcfBZ, 3, 1, false}, {bcfD, 0, 5, false},
	}},
	0x0A: {11, true, 2, []bc6Field{
		{bcfRW, 0, 10, false}, {bcfGW, 0, 10, false}, {bcfBW, 0, 10, false},
		{bcfRX, 0, 4, false}, {bcfRW, 10, 1, false}, {bcfBY, 4, 1, false},
		{bcfGY, 0, 4, false}, {bcfGX, 0, 4, false}, {bcfGW, 10, 1, false},
		{bcfBZ, 0, 1, false}, {bcfGZ, 0, 4, false}, {bcfBX, 0, 5, false},
		{bcfBW, 10, 1, false}, {bcfBY, 0, 4, false}, {bcfRY, 0, 4, false},
		{bcfBZ, 1, 1, false}, {bcfBZ, 2, 1, false}, {bcfRZ, 0, 4, false},
		{bcfBZ, 4, 1, false}, {bcfBZ, 3, 1, false}, {bcfD, 0, 5, false},
	}},
	0x0E: {9, true, 2, []bc6Field{
		{bcfRW, 0, 9, false}, {bcfBY, 4, 1, false}, {bcfGW, 0, 9, false},
		{bcfGY, 4, 1, false}, {bcfBW, 0, 9, false}, {bcfBZ, 4, 1, false},
		{bcfRX, 0, 5, false}, {bcfGZ, 4, 1, false}, {bcfGY, 0, 4, false},
		{bcfGX, 0, 5, false}, {bcfBZ, 0, 1, false}, {bcfGZ, 0, 4, false},
		{bcfBX, 0, 5, false}, {bcfBZ, 1, 1, false}, {bcfBY, 0, 4, false},
		{bcfRY, 0, 5, false}, {bcfBZ, 2, 1, false}, {bcfRZ, 0, 5, false},
		{bcfBZ, 3, 1, false}, {bcfD, 0, 5, false},
	}},
	0x12: {8, true, 2, []bc6Field{
		{bcfRW, 0, 8, false}, {bcfGZ, 4, 1, false}, {bcfBY, 4, 1, false},
		{bcfGW, 0, 8, false}, {bcfBZ, 2, 1, false}, {bcfGY, 4, 1, false},
		{bcfBW, 0, 8, false}, {bcfBZ, 3, 1, false}, {bcfBZ, 4, 1, false},
		{bcfRX, 0, 6, false}, {bcfGY, 0, 4, false}, {bcfGX, 0, 5, false},
		{bcfBZ, 0, 1, false}, {bcfGZ, 0, 4, false}, {bcfBX, 0, 5, false},
		{bcfBZ, 1, 1, false}, {bcfBY, 0, 4, false}, {bcfRY, 0, 6, false},
		{bcfRZ, 0, 6, false}, {bcfD, 0, 5, false},
	}},
	0x16: {8, true, 2, []bc6Field{
		{bcfRW, 0, 8, false}, {bcfBZ, 0, 1, false}, {bcfBY, 4, 1, false},
		{bcfGW, 0, 8, false}, {bcfGY, 5, 1, false}, {bcfGY, 4, 1, false},
		{bcfBW, 0, 8, false}, {bcfGZ, 5, 1, false}, {bcfBZ, 4, 1, false},
		{bcfRX, 0, 5, false}, {bcfGZ, 4, 1, false}, {bcfGY, 0, 4, false},
		{bcfGX, 0, 6, false}, {bcfGZ, 0, 4, false}, {bcfBX, 0, 5, false},
		{bcfBZ, 1, 1, false}, {bcfBY, 0, 4, false}, {bcfRY, 0, 5, false},
		{bcfBZ, 2, 1, false}, {bcfRZ, 0, 5, false}, {bcfBZ, 3, 1, false},
		{bcfD, 0, 5, false},
	}},
	0x1A: {8, true, 2, []bc6Field{
		{bcfRW, 0, 8, false}, {bcfBZ, 1, 1, false}, {bcfBY, 4, 1, false},
		{bcfGW, 0, 8, false}, {bcfBY, 5, 1, false}, {bcfGY, 4, 1, false},
		{bcfBW, 0, 8, false}, {bcfBZ, 5, 1, false}, {bcfBZ, 4, 1, false},
		{bcfRX, 0, 5, false}, {bcfGZ, 4, 1, false}, {bcfGY, 0, 4, false},
		{bcfGX, 0, 5, false}, {bcfBZ, 0, 1, false}, {bcfGZ, 0, 4, false},
		{bcfBX, 0, 6, false}, {bcfBY, 0, 4, false}, {bcfRY, 0, 5, false},
		{bcfBZ, 2, 1, false}, {bcfRZ, 0, 5, false}, {bcfBZ, 3, 1, false},
		{bcfD, 0, 5, false},
	}},
	0x1E: {6, false, 2, []bc6Field{
		{bcfRW, 0, 6, false}, {bcfGZ, 4, 1, false}, {bcfBZ, 0, 1, false},
		{bcfBZ, 1, 1, false}, {bcfBY, 4, 1, false}, {bcfGW, 0, 6, false},
		{bcfGY, 5, 1, false}, {bcfBY, 5, 1, false}, {bcfBZ, 2, 1, false},
		{bcfGY, 4, 1, false}, {bcfBW, 0, 6, false}, {bcfGZ, 5, 1, false},
		{bcfBZ, 3, 1, false}, {bcfBZ, 5, 1, false}, {bcfBZ, 4, 1, false},
		{bcfRX, 0, 6, false}, {bcfGY, 0, 4, false}, {bcfGX, 0, 6, false},
		{bcfGZ, 0, 4, false}, {bcfBX, 0, 6, false}, {bcfBY, 0, 4, false},
		{bcfRY, 0, 6, false}, {bcfRZ, 0, 6, false}, {bcfD, 0, 5, false},
	}},
	0x03: {10, false, 1, []bc6Field{
		{bcfRW, 0, 10, false}, {bcfGW, 0, 10, false}, {bcfBW, 0, 10, false},
		{bcfRX, 0, 10, false}, {bcfGX, 0, 10, false}, {bcfBX, 0, 10, false},
	}},
	0x07: {11, true, 1, []bc6Field{
		{bcfRW, 0, 10, false}, {bcfGW, 0, 10, false}, {bcfBW, 0, 10, false},
		{bcfRX, 0, 9, false}, {bcfRW, 10, 1, false},
		{bcfGX, 0, 9, false}, {bcfGW, 10, 1, false},
		{bcfBX, 0, 9, false}, {bcfBW, 10, 1, false},
	}},
	0x0B: {12, true, 1, []bc6Field{
		{bcfRW, 0, 10, false}, {bcfGW, 0, 10, false}, {bcfBW, 0, 10, false},
		{bcfRX, 0, 8, false}, {bcfRW, 10, 1, false}, {bcfRW, 11, 1, false},
		{bcfGX, 0, 8, false}, {bcfGW, 10, 1, false}, {bcfGW, 11, 1, false},
		{bcfBX, 0, 8, false}, {bcfBW, 10, 1, false}, {bcfBW, 11, 1, false},
	}},
	0x0F: {16, true, 1, []bc6Field{
		{bcfRW, 0, 10, false}, {bcfGW, 0, 10, false}, {bcfBW, 0, 10, false},
		{bcfRX, 0, 4, false}, {bcfRW, 15, 6, true},
		{bcfGX, 0, 4, false}, {bcfGW, 15, 6, true},
		{bcfBX, 0, 4, false}, {bcfBW, 15, 6, true},
	}},
}

// bc6FieldWidth gives an endpoint field's total width so deltas can be
// sign-extended after the scatter read.
func bc6FieldWidth(fields []bc6Field, target int) uint {
	var w uint
	for _, f := range fields {
		if f.target != target {
			continue
		}
		top := f.bit + f.n
		if f.rev {
			top = f.bit + 1
		}
		if top > w {
			w = top
		}
	}
	return w
}

func signExtend(v int, bits uint) int {
	if bits == 0 || bits >= 32 {
		return v
	}
	if v&(1<<(bits-1)) != 0 {
		return v - 1<<bits
	}
	return v
}

// bc6Unquantize expands an unsigned endpoint component to the 16-bit
// working range (0..0xFFFF) used for interpolation.
func bc6Unquantize(comp int, prec uint) int {
	if prec >= 15 {
		return comp
	}
	if comp == 0 {
		return 0
	}
	if comp == (1<<prec)-1 {
		return 0xFFFF
	}
	return ((comp << 16) + 0x8000) >> prec
}

// decodeBC6HBlock decodes one 16-byte BC6H (unsigned half-float) block,
// tone-mapping the HDR result into the 8-bit RGBA tile. Reserved mode
// prefixes decode to opaque black.
func decodeBC6HBlock(block []byte) []byte {
	out := make([]byte, 16*4)
	for i := 0; i < 16; i++ {
		out[i*4+3] = 255
	}

	r := newBitReader128(block)
	modeBits := r.read(2)
	if modeBits >= 2 {
		modeBits |= r.read(3) << 2
	}
	m, ok := bc6Modes[modeBits]
	if !ok {
		return out
	}

	var fields [13]int
	for _, f := range m.fields {
		v := int(r.read(f.n))
		if f.rev {
			for i := uint(0); i < f.n; i++ {
				fields[f.target] |= (v >> i & 1) << (f.bit - i)
			}
		} else {
			fields[f.target] |= v << f.bit
		}
	}

	mask := 1<<m.endpointPrec - 1
	type endpoint [3]int
	numSubsets := m.subsets
	endpoints := make([][2]endpoint, numSubsets)

	w := endpoint{fields[bcfRW], fields[bcfGW], fields[bcfBW]}
	x := endpoint{fields[bcfRX], fields[bcfGX], fields[bcfBX]}
	y := endpoint{fields[bcfRY], fields[bcfGY], fields[bcfBY]}
	z := endpoint{fields[bcfRZ], fields[bcfGZ], fields[bcfBZ]}

	if m.transformed {
		for c, tgt := range []int{bcfRX, bcfGX, bcfBX} {
			width := bc6FieldWidth(m.fields, tgt)
			x[c] = (w[c] + signExtend(x[c], width)) & mask
		}
		if numSubsets == 2 {
			for c, tgt := range []int{bcfRY, bcfGY, bcfBY} {
				width := bc6FieldWidth(m.fields, tgt)
				y[c] = (w[c] + signExtend(y[c], width)) & mask
			}
			for c, tgt := range []int{bcfRZ, bcfGZ, bcfBZ} {
				width := bc6FieldWidth(m.fields, tgt)
				z[c] = (w[c] + signExtend(z[c], width)) & mask
			}
		}
	}

	endpoints[0] = [2]endpoint{w, x}
	if numSubsets == 2 {
		endpoints[1] = [2]endpoint{y, z}
	}

	for s := range endpoints {
		for e := 0; e < 2; e++ {
			for c := 0; c < 3; c++ {
				endpoints[s][e][c] = bc6Unquantize(endpoints[s][e][c], m.endpointPrec)
			}
		}
	}

	partition := fields[bcfD] & 0x1F
	indexBits := uint(4)
	if numSubsets == 2 {
		indexBits = 3
	}
	weights := bcWeights(indexBits)

	var indices [16]int
	for i := 0; i < 16; i++ {
		bits := indexBits
		if i == 0 || (numSubsets == 2 && i == bcAnchor2[partition]) {
			bits--
		}
		indices[i] = int(r.read(bits))
	}

	for i := 0; i < 16; i++ {
		subset := 0
		if numSubsets == 2 {
			subset = int(bcPartition2[partition][i])
		}
		e := endpoints[subset]
		wt := weights[indices[i]]
		for c := 0; c < 3; c++ {
			v := bcInterpolate(e[0][c], e[1][c], wt)
			half := uint16((v * 31) >> 6)
			out[i*4+c] = unitFloatToByte(halfToFloat(half))
		}
	}

	return out
}
