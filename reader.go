// Copyright 2026 The unityasset Authors.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package unityasset

import (
	"encoding/binary"
	"math"
	"unicode/utf8"
)

// Endian selects the byte order a Reader uses for multi-byte reads. Unity's
// formats mix big-endian bundle/serialized-file headers with a per-file
// endianness flag that governs everything after the header, so a single
// Reader is always fixed to one order for its lifetime — callers switch by
// constructing a fresh Reader (or calling SetEndian before the rest of the
// header is read).
type Endian uint8

// Supported byte orders.
const (
	LittleEndian Endian = iota
	BigEndian
)

func (e Endian) order() binary.ByteOrder {
	if e == BigEndian {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

// Reader is a cursor over a byte slice with typed, bounds-checked reads.
// It never panics: every read that would move past the end of the window
// returns an *Error with Kind KindCorrupt.
type Reader struct {
	data   []byte
	pos    uint64
	endian Endian
}

// NewReader wraps data for typed reads in the given byte order.
func NewReader(data []byte, endian Endian) *Reader {
	return &Reader{data: data, endian: endian}
}

// SetEndian changes the byte order used by subsequent multi-byte reads.
// Individual reads never switch order mid-call; this is how a serialized
// file's header (always big-endian up to the `endian` byte) hands off to
// the rest of the file, whose order the header itself declared.
func (r *Reader) SetEndian(e Endian) { r.endian = e }

// Position returns the current read offset.
func (r *Reader) Position() uint64 { return r.pos }

// SetPosition seeks to an absolute offset. It does not validate the
// offset is within bounds; the next read will fail if it isn't.
func (r *Reader) SetPosition(p uint64) { r.pos = p }

// Len returns the total length of the underlying buffer.
func (r *Reader) Len() int { return len(r.data) }

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() uint64 {
	if r.pos >= uint64(len(r.data)) {
		return 0
	}
	return uint64(len(r.data)) - r.pos
}

func (r *Reader) need(n uint64) error {
	if n > r.Remaining() {
		return wrapErr(KindCorrupt, "short read", ErrOutsideBoundary)
	}
	return nil
}

// ReadExact reads exactly n bytes and advances the cursor.
func (r *Reader) ReadExact(n uint64) ([]byte, error) {
	if err := r.need(n); err != nil {
		return nil, err
	}
	b := r.data[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

// Peek returns the next n bytes without advancing the cursor, or as many
// bytes as remain if fewer than n are left.
func (r *Reader) Peek(n uint64) []byte {
	rem := r.Remaining()
	if rem == 0 {
		return nil
	}
	if n > rem {
		n = rem
	}
	return r.data[r.pos : r.pos+n]
}

// ReadU8 reads an unsigned 8-bit integer.
func (r *Reader) ReadU8() (uint8, error) {
	b, err := r.ReadExact(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// ReadI8 reads a signed 8-bit integer.
func (r *Reader) ReadI8() (int8, error) {
	v, err := r.ReadU8()
	return int8(v), err
}

// ReadBool reads one byte; any nonzero value is true.
func (r *Reader) ReadBool() (bool, error) {
	v, err := r.ReadU8()
	return v != 0, err
}

// ReadU16 reads an unsigned 16-bit integer in the reader's byte order.
func (r *Reader) ReadU16() (uint16, error) {
	b, err := r.ReadExact(2)
	if err != nil {
		return 0, err
	}
	return r.endian.order().Uint16(b), nil
}

// ReadI16 reads a signed 16-bit integer.
func (r *Reader) ReadI16() (int16, error) {
	v, err := r.ReadU16()
	return int16(v), err
}

// ReadU32 reads an unsigned 32-bit integer in the reader's byte order.
func (r *Reader) ReadU32() (uint32, error) {
	b, err := r.ReadExact(4)
	if err != nil {
		return 0, err
	}
	return r.endian.order().Uint32(b), nil
}

// ReadI32 reads a signed 32-bit integer.
func (r *Reader) ReadI32() (int32, error) {
	v, err := r.ReadU32()
	return int32(v), err
}

// ReadU64 reads an unsigned 64-bit integer in the reader's byte order.
func (r *Reader) ReadU64() (uint64, error) {
	b, err := r.ReadExact(8)
	if err != nil {
		return 0, err
	}
	return r.endian.order().Uint64(b), nil
}

// ReadI64 reads a signed 64-bit integer.
func (r *Reader) ReadI64() (int64, error) {
	v, err := r.ReadU64()
	return int64(v), err
}

// ReadF32 reads an IEEE-754 single-precision float.
func (r *Reader) ReadF32() (float32, error) {
	v, err := r.ReadU32()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(v), nil
}

// ReadF64 reads an IEEE-754 double-precision float.
func (r *Reader) ReadF64() (float64, error) {
	v, err := r.ReadU64()
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(v), nil
}

// ReadCString reads bytes up to (and consuming) the next NUL byte and
// validates the result as UTF-8.
func (r *Reader) ReadCString() (string, error) {
	start := r.pos
	for r.pos < uint64(len(r.data)) {
		if r.data[r.pos] == 0 {
			s := r.data[start:r.pos]
			r.pos++ // consume the NUL
			if !utf8.Valid(s) {
				return "", wrapErr(KindCorrupt, "cstring is not valid UTF-8", nil)
			}
			return string(s), nil
		}
		r.pos++
	}
	return "", wrapErr(KindCorrupt, "unterminated cstring", ErrOutsideBoundary)
}

// ReadAlignedString reads a u32 length prefix, that many bytes as UTF-8,
// then pads the cursor to the next 4-byte boundary.
func (r *Reader) ReadAlignedString() (string, error) {
	n, err := r.ReadU32()
	if err != nil {
		return "", err
	}
	b, err := r.ReadExact(uint64(n))
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		return "", wrapErr(KindCorrupt, "aligned string is not valid UTF-8", nil)
	}
	s := string(b)
	if err := r.AlignTo(4); err != nil {
		return "", err
	}
	return s, nil
}

// AlignTo advances the cursor to the next multiple of n (relative to the
// start of the buffer). n must be a positive power of two in practice
// (4 for object data, 16 for bundle headers), but any positive n is
// honored.
func (r *Reader) AlignTo(n uint64) error {
	if n == 0 {
		return wrapErr(KindCorrupt, "invalid alignment", nil)
	}
	rem := r.pos % n
	if rem == 0 {
		return nil
	}
	pad := n - rem
	if pad > r.Remaining() {
		return wrapErr(KindCorrupt, "alignment padding outside boundary", ErrOutsideBoundary)
	}
	r.pos += pad
	return nil
}
