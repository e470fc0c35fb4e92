// Copyright 2026 The unityasset Authors.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package unityasset

import "testing"

// buildSimpleTree constructs a root compound node with a single string
// child field named m_Name, the shape most class objects begin with.
func buildSimpleTree(t *testing.T) *TypeTree {
	t.Helper()
	nodes := []*TypeTreeNode{
		{Level: 0, TypeName: "GameObject", FieldName: "Base"},
		{Level: 1, TypeName: "string", FieldName: "m_Name"},
	}
	tree, err := buildTypeTree(nodes)
	if err != nil {
		t.Fatalf("buildTypeTree() = %v", err)
	}
	return tree
}

func TestInterpretObjectSimpleString(t *testing.T) {
	tree := buildSimpleTree(t)

	// u32 length=6, "Player", pad to 4-byte boundary (10 -> 12).
	data := []byte{0x00, 0x00, 0x00, 0x06, 'P', 'l', 'a', 'y', 'e', 'r', 0x00, 0x00}
	r := NewReader(data, BigEndian)

	props, err := InterpretObject(r, tree)
	if err != nil {
		t.Fatalf("InterpretObject() = %v", err)
	}

	v, ok := props.Get("m_Name")
	if !ok {
		t.Fatal("m_Name missing from interpreted object")
	}
	s, err := v.AsString()
	if err != nil {
		t.Fatalf("AsString() = %v", err)
	}
	if s != "Player" {
		t.Errorf("m_Name = %q, want Player", s)
	}
}

func TestInterpretObjectArray(t *testing.T) {
	// Array of SInt32: node(array, type_flags=0x4000) with children
	// [size(int), data(SInt32)].
	nodes := []*TypeTreeNode{
		{Level: 0, TypeName: "Array", FieldName: "values", TypeFlags: 0x4000},
		{Level: 1, TypeName: "SInt32", FieldName: "size"},
		{Level: 1, TypeName: "SInt32", FieldName: "data"},
	}
	tree, err := buildTypeTree(nodes)
	if err != nil {
		t.Fatalf("buildTypeTree() = %v", err)
	}

	data := []byte{
		0x00, 0x00, 0x00, 0x03,
		0x00, 0x00, 0x00, 0x0A,
		0x00, 0x00, 0x00, 0x0B,
		0x00, 0x00, 0x00, 0x0C,
	}
	r := NewReader(data, BigEndian)
	v, err := readNode(r, tree, 0)
	if err != nil {
		t.Fatalf("readNode() = %v", err)
	}

	arr, err := v.AsArray()
	if err != nil {
		t.Fatalf("AsArray() = %v", err)
	}
	if len(arr) != 3 {
		t.Fatalf("len(arr) = %d, want 3", len(arr))
	}
	for i, want := range []int64{0x0A, 0x0B, 0x0C} {
		got, err := arr[i].AsI64()
		if err != nil || got != want {
			t.Errorf("arr[%d] = %v, %v, want %d, nil", i, got, err, want)
		}
	}
}

func TestInterpretObjectByteArrayReadsOneShot(t *testing.T) {
	// A UInt8 element template takes the one-shot path and surfaces as a
	// byte buffer, the shape index/audio/pixel payload consumers expect.
	nodes := []*TypeTreeNode{
		{Level: 0, TypeName: "vector", FieldName: "m_IndexBuffer", TypeFlags: 0x4000},
		{Level: 1, TypeName: "SInt32", FieldName: "size"},
		{Level: 1, TypeName: "UInt8", FieldName: "data"},
	}
	tree, err := buildTypeTree(nodes)
	if err != nil {
		t.Fatalf("buildTypeTree() = %v", err)
	}

	data := []byte{0x00, 0x00, 0x00, 0x03, 0x0A, 0x0B, 0x0C}
	r := NewReader(data, BigEndian)
	v, err := readNode(r, tree, 0)
	if err != nil {
		t.Fatalf("readNode() = %v", err)
	}

	b, err := v.AsBytes()
	if err != nil {
		t.Fatalf("AsBytes() = %v", err)
	}
	if string(b) != "\x0a\x0b\x0c" {
		t.Errorf("AsBytes() = %v, want [10 11 12]", b)
	}
}

func TestInterpretObjectTypelessData(t *testing.T) {
	nodes := []*TypeTreeNode{
		{Level: 0, TypeName: "Texture2D", FieldName: "Base"},
		{Level: 1, TypeName: "TypelessData", FieldName: "image data"},
	}
	tree, err := buildTypeTree(nodes)
	if err != nil {
		t.Fatalf("buildTypeTree() = %v", err)
	}

	data := []byte{0x00, 0x00, 0x00, 0x04, 0xDE, 0xAD, 0xBE, 0xEF}
	r := NewReader(data, BigEndian)
	props, err := InterpretObject(r, tree)
	if err != nil {
		t.Fatalf("InterpretObject() = %v", err)
	}

	v, ok := props.Get("image data")
	if !ok {
		t.Fatal("image data missing")
	}
	b, err := v.AsBytes()
	if err != nil {
		t.Fatalf("AsBytes() = %v", err)
	}
	if len(b) != 4 || b[0] != 0xDE || b[3] != 0xEF {
		t.Errorf("image data = %v, want DE AD BE EF", b)
	}
}

func TestInterpretObjectAlignment(t *testing.T) {
	// A UInt8 node requiring post-read alignment, followed by a u32 that
	// must land on the aligned boundary.
	nodes := []*TypeTreeNode{
		{Level: 0, TypeName: "Base", FieldName: "root"},
		{Level: 1, TypeName: "UInt8", FieldName: "flag", MetaFlags: 0x2000},
		{Level: 1, TypeName: "SInt32", FieldName: "next"},
	}
	tree, err := buildTypeTree(nodes)
	if err != nil {
		t.Fatalf("buildTypeTree() = %v", err)
	}

	data := []byte{0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x2A}
	r := NewReader(data, BigEndian)
	v, err := InterpretObject(r, tree)
	if err != nil {
		t.Fatalf("InterpretObject() = %v", err)
	}

	next, ok := v.Get("next")
	if !ok {
		t.Fatal("next field missing")
	}
	got, err := next.AsI64()
	if err != nil || got != 0x2A {
		t.Errorf("next = %v, %v, want 42, nil", got, err)
	}
}

func TestMappingDuplicateKeyRejected(t *testing.T) {
	m := NewMapping()
	if err := m.Set("a", NewInt(1, 32)); err != nil {
		t.Fatalf("Set() = %v", err)
	}
	if err := m.Set("a", NewInt(2, 32)); err == nil {
		t.Fatal("Set() with duplicate key should fail")
	}
}

func TestMappingPreservesInsertionOrder(t *testing.T) {
	m := NewMapping()
	keys := []string{"z", "a", "m"}
	for _, k := range keys {
		if err := m.Set(k, NewNull()); err != nil {
			t.Fatalf("Set(%q) = %v", k, err)
		}
	}
	got := m.Keys()
	for i, k := range keys {
		if got[i] != k {
			t.Errorf("Keys()[%d] = %q, want %q", i, got[i], k)
		}
	}
}

func TestAsPPtr(t *testing.T) {
	obj := NewMapping()
	obj.Set("m_FileID", NewInt(0, 32))
	obj.Set("m_PathID", NewInt(12345, 64))
	ptr, err := AsPPtr(NewObject(obj))
	if err != nil {
		t.Fatalf("AsPPtr() = %v", err)
	}
	if ptr.FileID != 0 || ptr.PathID != 12345 {
		t.Errorf("AsPPtr() = %+v, want {0 12345}", ptr)
	}
}
