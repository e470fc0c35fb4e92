// Copyright 2026 The unityasset Authors.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package unityasset

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"
)

func TestLoadDocumentEmptyBuffer(t *testing.T) {
	_, err := LoadDocument(nil, Options{})
	if !errors.Is(err, ErrInvalidSignature) {
		t.Fatalf("LoadDocument(nil) = %v, want ErrInvalidSignature", err)
	}
}

// be32/be32i/be16/be64 write big-endian integers, matching the
// serialized-file and bundle header encodings under test.
func be32(v uint32) []byte {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, v)
	return b
}
func be32i(v int32) []byte { return be32(uint32(v)) }
func be16(v uint16) []byte {
	b := make([]byte, 2)
	binary.BigEndian.PutUint16(b, v)
	return b
}
func be64(v int64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, uint64(v))
	return b
}
func cstr(s string) []byte { return append([]byte(s), 0x00) }

// buildGameObjectTypeTreeBlob builds a minimal blob-encoded type tree
// for a single `string m_Name` field under a root compound node, the
// shape readTypeTreeBlob expects.
func buildGameObjectTypeTreeBlob() []byte {
	type nodeSpec struct {
		level               uint8
		typeName, fieldName string
		typeFlags           int32
	}
	specs := []nodeSpec{
		{0, "GameObject", "Base", 0},
		{1, "string", "m_Name", 0},
	}

	var pool bytes.Buffer
	offsets := make([]struct{ typeOff, nameOff uint32 }, len(specs))
	for i, s := range specs {
		offsets[i].typeOff = uint32(pool.Len())
		pool.WriteString(s.typeName)
		pool.WriteByte(0)
		offsets[i].nameOff = uint32(pool.Len())
		pool.WriteString(s.fieldName)
		pool.WriteByte(0)
	}

	var out bytes.Buffer
	out.Write(be32i(int32(len(specs))))
	out.Write(be32i(int32(pool.Len())))
	for i, s := range specs {
		out.Write(be16(0))               // version
		out.WriteByte(s.level)           // level
		out.WriteByte(byte(s.typeFlags)) // type_flags
		out.Write(be32(offsets[i].typeOff))
		out.Write(be32(offsets[i].nameOff))
		out.Write(be32i(-1)) // byte_size
		out.Write(be32i(int32(i)))
		out.Write(be32i(0)) // meta_flags
	}
	out.Write(pool.Bytes())
	return out.Bytes()
}

// buildSerializedFileWithGameObject assembles a version-15 serialized
// file containing one type (class_id=1, GameObject) and one object whose
// bytes are an aligned string "Player" for m_Name.
func buildSerializedFileWithGameObject(t *testing.T) []byte {
	t.Helper()

	var meta bytes.Buffer
	meta.Write(be32(0))  // metadata_size (unused by parser)
	meta.Write(be32(0))  // file_size (unused by parser)
	meta.Write(be32(15)) // version
	dataOffsetPos := meta.Len()
	meta.Write(be32(0)) // data_offset placeholder, patched below
	meta.WriteByte(1)   // endian = big
	meta.Write([]byte{0, 0, 0})
	meta.Write(cstr("2018.1.1f1")) // version>=7 engine_version
	meta.Write(be32i(0))           // version>=8 target_platform
	meta.WriteByte(1)              // version>=13 has_type_tree

	// Type table: one SerializedType for class_id=1.
	meta.Write(be32i(1)) // types_count
	meta.Write(be32i(1)) // class_id
	// version(15) >= 13: needsScriptID only if class_id==114 (v>=16) or <0 (v<16) -> false here.
	meta.Write(make([]byte, 16)) // old_type_hash (version>=13)
	meta.Write(buildGameObjectTypeTreeBlob())

	// Object table: one object, path_id=1, byte_size computed below.
	nameBytes := buildAlignedStringBytes("Player")

	meta.Write(be32i(1))                     // objects_count
	meta.Write(be64(1))                      // path_id (version>=14)
	meta.Write(be32(0))                      // byte_start
	meta.Write(be32(uint32(len(nameBytes)))) // byte_size
	meta.Write(be32i(1))                     // type_id: a class id for version<16, matched against the type table
	meta.Write(be16(0))                      // is_destroyed (11<=version<17)
	meta.WriteByte(0)                        // stripped (15<=version<17)

	// Script table: version>=11.
	meta.Write(be32i(0)) // script_count

	// Externals.
	meta.Write(be32i(0)) // externals_count

	// User info (version>=5).
	meta.Write(cstr(""))

	dataOffset := uint32(meta.Len())
	full := meta.Bytes()
	binary.BigEndian.PutUint32(full[dataOffsetPos:], dataOffset)

	full = append(full, nameBytes...)
	return full
}

func buildAlignedStringBytes(s string) []byte {
	var b bytes.Buffer
	b.Write(be32(uint32(len(s))))
	b.WriteString(s)
	for b.Len()%4 != 0 {
		b.WriteByte(0)
	}
	return b.Bytes()
}

func TestParseSerializedFileWithTypeTreeAndObject(t *testing.T) {
	data := buildSerializedFileWithGameObject(t)
	f, err := ParseSerializedFile(data, nil)
	if err != nil {
		t.Fatalf("ParseSerializedFile() = %v", err)
	}
	if len(f.Objects) != 1 {
		t.Fatalf("len(Objects) = %d, want 1", len(f.Objects))
	}
	obj := f.Objects[0]
	if obj.ClassID != 1 {
		t.Errorf("ClassID = %d, want 1", obj.ClassID)
	}

	objBytes, err := f.ObjectBytes(obj)
	if err != nil {
		t.Fatalf("ObjectBytes() = %v", err)
	}
	r := NewReader(objBytes, f.Endian)
	props, err := InterpretObject(r, f.Types[obj.TypeTreeIndex].TypeTree)
	if err != nil {
		t.Fatalf("InterpretObject() = %v", err)
	}
	name, ok := props.Get("m_Name")
	if !ok {
		t.Fatal("m_Name missing")
	}
	s, err := name.AsString()
	if err != nil || s != "Player" {
		t.Errorf("m_Name = %q, %v, want Player, nil", s, err)
	}
}

func TestLoadDocumentFromBareSerializedFile(t *testing.T) {
	data := buildSerializedFileWithGameObject(t)
	doc, err := LoadDocument(data, Options{})
	if err != nil {
		t.Fatalf("LoadDocument() = %v", err)
	}
	classes := doc.Classes()
	if len(classes) != 1 {
		t.Fatalf("len(Classes()) = %d, want 1", len(classes))
	}
	if classes[0].ClassID != 1 {
		t.Errorf("ClassID = %d, want 1", classes[0].ClassID)
	}
	name, ok := classes[0].Name()
	if !ok || name != "Player" {
		t.Errorf("Name() = %q, %v, want Player, true", name, ok)
	}
}

// buildUnityFSBundle wraps embedded (a single named file, uncompressed)
// in a minimal version-6 UnityFS container using codec None throughout.
func buildUnityFSBundle(t *testing.T, name string, embedded []byte) []byte {
	t.Helper()

	var blockInfo bytes.Buffer
	blockInfo.Write(make([]byte, 16)) // content hash
	blockInfo.Write(be32i(1))         // block_count
	blockInfo.Write(be32(uint32(len(embedded))))
	blockInfo.Write(be32(uint32(len(embedded))))
	blockInfo.Write(be16(0))  // flags: codec none
	blockInfo.Write(be32i(1)) // node_count
	blockInfo.Write(be64(0))  // offset
	blockInfo.Write(be64(int64(len(embedded))))
	blockInfo.Write(be32(0)) // node flags
	blockInfo.Write(cstr(name))

	var b bytes.Buffer
	b.Write(cstr("UnityFS"))
	b.Write(be32(6)) // format version < 7, no 16-byte align
	b.Write(cstr("2018.1.1f1"))
	b.Write(cstr("abcdef0123456789"))
	b.Write(be64(0)) // bundle_size, unused by parser
	b.Write(be32(uint32(blockInfo.Len())))
	b.Write(be32(uint32(blockInfo.Len())))
	b.Write(be32(0)) // flags: codec none, not at-end, no post-align
	b.Write(blockInfo.Bytes())
	b.Write(embedded)
	return b.Bytes()
}

func TestLoadDocumentFromBundleWithGameObject(t *testing.T) {
	sf := buildSerializedFileWithGameObject(t)
	bundleData := buildUnityFSBundle(t, "CAB-main", sf)

	doc, err := LoadDocument(bundleData, Options{})
	if err != nil {
		t.Fatalf("LoadDocument() = %v", err)
	}
	classes := doc.Classes()
	if len(classes) != 1 {
		t.Fatalf("len(Classes()) = %d, want 1", len(classes))
	}
	if classes[0].ClassID != 1 {
		t.Errorf("ClassID = %d, want 1", classes[0].ClassID)
	}
	name, ok := classes[0].Name()
	if !ok || name != "Player" {
		t.Errorf("Name() = %q, %v, want Player, true", name, ok)
	}

	if _, ok := doc.EmbeddedFile("CAB-main"); !ok {
		t.Error("EmbeddedFile(CAB-main) not found")
	}
}

func TestLoadDocumentDropsMalformedNodeKeepsGoodOnes(t *testing.T) {
	sf := buildSerializedFileWithGameObject(t)

	var blockInfo bytes.Buffer
	blockInfo.Write(make([]byte, 16))
	blockInfo.Write(be32i(1))
	blockInfo.Write(be32(uint32(len(sf))))
	blockInfo.Write(be32(uint32(len(sf))))
	blockInfo.Write(be16(0))
	blockInfo.Write(be32i(2)) // two nodes: one good, one out of range
	blockInfo.Write(be64(0))
	blockInfo.Write(be64(int64(len(sf))))
	blockInfo.Write(be32(0))
	blockInfo.Write(cstr("CAB-main"))
	blockInfo.Write(be64(int64(len(sf)))) // offset beyond payload end
	blockInfo.Write(be64(10))
	blockInfo.Write(be32(0))
	blockInfo.Write(cstr("CAB-broken"))

	var b bytes.Buffer
	b.Write(cstr("UnityFS"))
	b.Write(be32(6))
	b.Write(cstr("2018.1.1f1"))
	b.Write(cstr("abcdef0123456789"))
	b.Write(be64(0))
	b.Write(be32(uint32(blockInfo.Len())))
	b.Write(be32(uint32(blockInfo.Len())))
	b.Write(be32(0))
	b.Write(blockInfo.Bytes())
	b.Write(sf)

	doc, err := LoadDocument(b.Bytes(), Options{})
	if err != nil {
		t.Fatalf("LoadDocument() = %v", err)
	}
	if len(doc.Classes()) != 1 {
		t.Fatalf("len(Classes()) = %d, want 1 (the good node's object)", len(doc.Classes()))
	}
	if len(doc.Anomalies) == 0 {
		t.Error("expected the broken node to be recorded as an anomaly")
	}
}
