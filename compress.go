// Copyright 2026 The unityasset Authors.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package unityasset

import (
	"bytes"
	"io"

	"github.com/pierrec/lz4/v4"
	"github.com/ulikunitz/xz/lzma"
)

// Codec identifies a per-block compression algorithm. The low 6 bits of a
// bundle block's flags field select one of these.
type Codec uint8

// Supported codecs.
const (
	CodecNone Codec = iota
	CodecLZMA
	CodecLZ4
	CodecLZ4HC
)

// codecFromFlags maps the low 6 bits of a block/archive flags field to a
// Codec, failing for anything this module doesn't implement.
func codecFromFlags(flags uint32) (Codec, error) {
	switch flags & 0x3F {
	case 0:
		return CodecNone, nil
	case 1:
		return CodecLZMA, nil
	case 2, 3:
		return CodecLZ4, nil
	default:
		return 0, wrapErr(KindUnsupportedCompression, "unknown codec id", nil)
	}
}

// decompress inflates input using codec, producing exactly
// expectedOutputSize bytes. Short output, a stream that errors before
// producing enough bytes, or an LZ4 block that overruns is reported as
// Corrupt rather than padded. For CodecNone, input longer than
// expectedOutputSize is truncated to its first expectedOutputSize bytes.
func decompress(input []byte, codec Codec, expectedOutputSize int) ([]byte, error) {
	if expectedOutputSize < 0 {
		return nil, wrapErr(KindCorrupt, "negative expected output size", nil)
	}
	if expectedOutputSize == 0 {
		return []byte{}, nil
	}

	switch codec {
	case CodecNone:
		if len(input) < expectedOutputSize {
			return nil, wrapErr(KindCorrupt, "short uncompressed block", nil)
		}
		out := make([]byte, expectedOutputSize)
		copy(out, input[:expectedOutputSize])
		return out, nil

	case CodecLZ4, CodecLZ4HC:
		out := make([]byte, expectedOutputSize)
		n, err := lz4.UncompressBlock(input, out)
		if err != nil {
			return nil, wrapErr(KindCorrupt, "lz4 block decompression failed", err)
		}
		if n != expectedOutputSize {
			return nil, wrapErr(KindCorrupt, "lz4 output size mismatch", nil)
		}
		return out, nil

	case CodecLZMA:
		return decompressLZMA(input, expectedOutputSize)

	default:
		return nil, wrapErr(KindUnsupportedCompression, "unrecognized codec", nil)
	}
}

// lzmaDictCap bounds the decoder window. Unity bundles never declare a
// dictionary size; 16 MiB covers every block size seen in practice.
const lzmaDictCap = 1 << 24

// decompressLZMA decodes a headerless LZMA stream: a single properties
// byte followed by raw compressed data, with the uncompressed size
// supplied out of band and the dictionary size fixed at lzmaDictCap (the
// bundle format omits the rest of the usual 13-byte LZMA header). ulikunitz/xz's reader only
// accepts the classic framing, so the omitted dict-size and
// uncompressed-size fields are synthesized in front of the payload.
func decompressLZMA(input []byte, expectedOutputSize int) ([]byte, error) {
	if len(input) < 1 {
		return nil, wrapErr(KindCorrupt, "lzma stream missing properties byte", nil)
	}

	dictCap := uint32(lzmaDictCap)

	header := make([]byte, 13)
	header[0] = input[0]
	header[1] = byte(dictCap)
	header[2] = byte(dictCap >> 8)
	header[3] = byte(dictCap >> 16)
	header[4] = byte(dictCap >> 24)
	for i := 0; i < 8; i++ {
		header[5+i] = byte(uint64(expectedOutputSize) >> (8 * uint(i)))
	}

	cfg := lzma.ReaderConfig{DictCap: lzmaDictCap}
	r, err := cfg.NewReader(io.MultiReader(bytes.NewReader(header), bytes.NewReader(input[1:])))
	if err != nil {
		return nil, wrapErr(KindCorrupt, "lzma stream init failed", err)
	}

	out := make([]byte, expectedOutputSize)
	n, err := io.ReadFull(r, out)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, wrapErr(KindCorrupt, "lzma decompression failed", err)
	}
	if n != expectedOutputSize {
		return nil, wrapErr(KindCorrupt, "lzma short output", nil)
	}
	return out, nil
}
