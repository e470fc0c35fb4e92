// Copyright 2026 The unityasset Authors.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package unityasset

import "testing"

func TestCodecFromFlags(t *testing.T) {
	tests := []struct {
		flags uint32
		want  Codec
		ok    bool
	}{
		{0, CodecNone, true},
		{1, CodecLZMA, true},
		{2, CodecLZ4, true},
		{3, CodecLZ4, true},
		{0x40, CodecNone, true}, // high bits ignored, low 6 bits are 0
		{4, 0, false},
		{63, 0, false},
	}
	for _, tc := range tests {
		got, err := codecFromFlags(tc.flags)
		if tc.ok && err != nil {
			t.Errorf("codecFromFlags(%d) returned error %v, want codec %v", tc.flags, err, tc.want)
		}
		if tc.ok && got != tc.want {
			t.Errorf("codecFromFlags(%d) = %v, want %v", tc.flags, got, tc.want)
		}
		if !tc.ok && err == nil {
			t.Errorf("codecFromFlags(%d) succeeded, want error", tc.flags)
		}
	}
}

func TestDecompressNone(t *testing.T) {
	input := []byte{1, 2, 3, 4, 5}
	out, err := decompress(input, CodecNone, 3)
	if err != nil {
		t.Fatalf("decompress() = %v", err)
	}
	want := []byte{1, 2, 3}
	if string(out) != string(want) {
		t.Errorf("decompress() = %v, want %v", out, want)
	}
}

func TestDecompressNoneShortInput(t *testing.T) {
	if _, err := decompress([]byte{1, 2}, CodecNone, 5); err == nil {
		t.Fatal("decompress() with short input should fail")
	}
}

func TestDecompressZeroLength(t *testing.T) {
	out, err := decompress(nil, CodecNone, 0)
	if err != nil {
		t.Fatalf("decompress() = %v", err)
	}
	if len(out) != 0 {
		t.Errorf("decompress() = %v, want empty", out)
	}
}

func TestDecompressNegativeSize(t *testing.T) {
	if _, err := decompress([]byte{1}, CodecNone, -1); err == nil {
		t.Fatal("decompress() with negative expected size should fail")
	}
}
