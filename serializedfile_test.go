// Copyright 2026 The unityasset Authors.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package unityasset

import "testing"

// buildMinimalSerializedFile assembles a version-7 header with empty
// type/object/externals tables and a trailing empty user-info string —
// the smallest shape ParseSerializedFile accepts.
func buildMinimalSerializedFile(t *testing.T) []byte {
	t.Helper()
	var b []byte
	be32 := func(v uint32) []byte {
		return []byte{byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v)}
	}
	be32i := func(v int32) []byte { return be32(uint32(v)) }

	b = append(b, be32(0)...) // metadata_size
	b = append(b, be32(0)...) // file_size
	b = append(b, be32(7)...) // version
	b = append(b, be32(0)...) // data_offset
	b = append(b, 1, 0, 0, 0) // endian=1 (big), reserved
	b = append(b, []byte("2017.1.0f3")...)
	b = append(b, 0x00)        // engine_version cstring terminator
	b = append(b, be32i(0)...) // types_count
	b = append(b, be32i(0)...) // objects_count
	b = append(b, be32i(0)...) // externals_count
	b = append(b, 0x00)        // user_info cstring (empty)
	return b
}

func TestParseSerializedFileMinimal(t *testing.T) {
	data := buildMinimalSerializedFile(t)
	f, err := ParseSerializedFile(data, nil)
	if err != nil {
		t.Fatalf("ParseSerializedFile() = %v", err)
	}
	if f.Version != 7 {
		t.Errorf("Version = %d, want 7", f.Version)
	}
	if f.EngineVersion != "2017.1.0f3" {
		t.Errorf("EngineVersion = %q, want 2017.1.0f3", f.EngineVersion)
	}
	if f.Endian != BigEndian {
		t.Errorf("Endian = %v, want BigEndian", f.Endian)
	}
	if len(f.Types) != 0 || len(f.Objects) != 0 || len(f.Externals) != 0 {
		t.Errorf("expected empty tables, got types=%d objects=%d externals=%d", len(f.Types), len(f.Objects), len(f.Externals))
	}
}

func TestObjectBytesBoundsCheck(t *testing.T) {
	f := &SerializedFile{DataOffset: 10, data: make([]byte, 20)}
	obj := &ObjectInfo{ByteStart: 5, ByteSize: 5}
	b, err := f.ObjectBytes(obj)
	if err != nil {
		t.Fatalf("ObjectBytes() = %v", err)
	}
	if len(b) != 5 {
		t.Errorf("len(ObjectBytes()) = %d, want 5", len(b))
	}

	tooBig := &ObjectInfo{ByteStart: 5, ByteSize: 100}
	if _, err := f.ObjectBytes(tooBig); err == nil {
		t.Fatal("ObjectBytes() should fail when range exceeds data")
	}
}
