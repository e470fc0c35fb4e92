// Copyright 2026 The unityasset Authors.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package unityasset

import "testing"

func TestExportOBJTriangle(t *testing.T) {
	mf := &MeshFields{
		Name:     "Tri",
		Readable: true,
		Indices:  []uint32{0, 1, 2},
		Positions: [][3]float32{
			{0, 0, 0},
			{1, 0, 0},
			{0, 1, 0},
		},
	}

	obj, err := ExportOBJ(mf)
	if err != nil {
		t.Fatalf("ExportOBJ() = %v", err)
	}

	vLines, fLines := 0, 0
	for _, line := range splitLines(obj) {
		switch {
		case len(line) >= 2 && line[:2] == "v ":
			vLines++
		case len(line) >= 2 && line[:2] == "f ":
			fLines++
			if line != "f 1 2 3" {
				t.Errorf("face line = %q, want 1-based indices \"f 1 2 3\"", line)
			}
		}
	}
	if vLines != 3 {
		t.Errorf("vLines = %d, want 3", vLines)
	}
	if fLines != 1 {
		t.Errorf("fLines = %d, want 1", fLines)
	}
}

func TestExportOBJNotReadable(t *testing.T) {
	mf := &MeshFields{Readable: false}
	if _, err := ExportOBJ(mf); err == nil {
		t.Fatal("ExportOBJ() on an unreadable mesh should fail")
	}
}

func TestWidenIndices16Bit(t *testing.T) {
	// little-endian u16 values 1, 2, 3
	buf := []byte{1, 0, 2, 0, 3, 0}
	got, err := widenIndices(buf, true)
	if err != nil {
		t.Fatalf("widenIndices() = %v", err)
	}
	want := []uint32{1, 2, 3}
	for i, w := range want {
		if got[i] != w {
			t.Errorf("widenIndices()[%d] = %d, want %d", i, got[i], w)
		}
	}
}

func TestWidenIndices32BitOddLengthFails(t *testing.T) {
	if _, err := widenIndices([]byte{1, 2, 3}, false); err == nil {
		t.Fatal("widenIndices(32-bit) with non-multiple-of-4 length should fail")
	}
}

func splitLines(s string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			lines = append(lines, s[start:i])
			start = i + 1
		}
	}
	if start < len(s) {
		lines = append(lines, s[start:])
	}
	return lines
}
