// Copyright 2026 The unityasset Authors.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package unityasset

import "testing"

func TestBuildTypeTreeHierarchy(t *testing.T) {
	// level-ordered flat list:
	// 0: root
	//   1: child A
	//     2: grandchild
	//   1: child B
	nodes := []*TypeTreeNode{
		{Level: 0, FieldName: "root"},
		{Level: 1, FieldName: "childA"},
		{Level: 2, FieldName: "grandchild"},
		{Level: 1, FieldName: "childB"},
	}

	tree, err := buildTypeTree(nodes)
	if err != nil {
		t.Fatalf("buildTypeTree() = %v", err)
	}

	roots := tree.Roots()
	if len(roots) != 1 || roots[0] != 0 {
		t.Fatalf("Roots() = %v, want [0]", roots)
	}

	children := tree.Children(0)
	if len(children) != 2 || children[0] != 1 || children[1] != 3 {
		t.Fatalf("Children(0) = %v, want [1 3]", children)
	}

	grandchildren := tree.Children(1)
	if len(grandchildren) != 1 || grandchildren[0] != 2 {
		t.Fatalf("Children(1) = %v, want [2]", grandchildren)
	}

	parent, ok := tree.Parent(2)
	if !ok || parent != 1 {
		t.Fatalf("Parent(2) = %d, %v, want 1, true", parent, ok)
	}

	if _, ok := tree.Parent(0); ok {
		t.Error("root node should have no parent")
	}
}

func TestResolveStringFromPool(t *testing.T) {
	pool := []byte("m_Name\x00m_Width\x00")
	s, err := resolveString(0, pool)
	if err != nil || s != "m_Name" {
		t.Fatalf("resolveString(0) = %q, %v, want m_Name, nil", s, err)
	}
	s, err = resolveString(7, pool)
	if err != nil || s != "m_Width" {
		t.Fatalf("resolveString(7) = %q, %v, want m_Width, nil", s, err)
	}
}

func TestResolveStringFromCommonTable(t *testing.T) {
	const topBit = uint32(1) << 31
	s, err := resolveString(topBit|0, nil)
	if err != nil {
		t.Fatalf("resolveString(common[0]) = %v", err)
	}
	if s != commonStrings[0] {
		t.Errorf("resolveString(common[0]) = %q, want %q", s, commonStrings[0])
	}
}

func TestResolveStringOutOfRange(t *testing.T) {
	if _, err := resolveString(1000, []byte("short")); err == nil {
		t.Fatal("resolveString() with out-of-range offset should fail")
	}
}

func TestTypeTreeNodeFlags(t *testing.T) {
	arrayNode := &TypeTreeNode{TypeFlags: 0x4000}
	if !arrayNode.IsArray() {
		t.Error("IsArray() should be true when type_flags & 0x4000")
	}
	plainNode := &TypeTreeNode{TypeFlags: 0}
	if plainNode.IsArray() {
		t.Error("IsArray() should be false without the array bit")
	}

	alignedNode := &TypeTreeNode{MetaFlags: 0x2000}
	if !alignedNode.RequiresAlignment() {
		t.Error("RequiresAlignment() should be true when meta_flags & 0x2000")
	}
}
