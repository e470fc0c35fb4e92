// Copyright 2026 The unityasset Authors.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package unityasset

// TypeTreeNode is one field descriptor in a type tree. Parent/child
// relations are not stored inline on the node; TypeTree.Children/Parent
// answer those from the flat Nodes slice plus Level.
type TypeTreeNode struct {
	TypeName      string `json:"type"`
	FieldName     string `json:"name"`
	ByteSize      int32  `json:"byte_size"` // -1 for variable-size
	Index         int32  `json:"index"`
	TypeFlags     int32  `json:"type_flags"`
	Version       int32  `json:"version"`
	MetaFlags     int32  `json:"meta_flags"`
	Level         uint8  `json:"level"`
	TypeStrOffset uint32 `json:"-"`
	NameStrOffset uint32 `json:"-"`
	RefTypeHash   uint64 `json:"ref_type_hash,omitempty"`
}

// IsArray reports whether this node's first child is a size field and
// second child an element template (type_flags bit 0x4000).
func (n *TypeTreeNode) IsArray() bool { return n.TypeFlags&0x4000 != 0 }

// RequiresAlignment reports whether the reader must pad to a 4-byte
// boundary after this node's value is read (meta_flags bit 0x2000).
func (n *TypeTreeNode) RequiresAlignment() bool { return n.MetaFlags&0x2000 != 0 }

// TypeTree is the fully resolved field-descriptor tree for one
// SerializedType: a flat, level-ordered node list plus the parent/child
// index relation built from it.
type TypeTree struct {
	Nodes    []*TypeTreeNode `json:"nodes"`
	children map[int][]int   // parent node index -> child node indices, in order
	parent   map[int]int     // node index -> parent node index, root nodes absent
}

// commonStrings is the built-in string table referenced by string-pool
// offsets with the top bit (0x80000000) set. This is the fixed table the
// engine ships; it never grows at runtime.
var commonStrings = []string{
	"AABB", "AnimationClip", "AnimationCurve", "AnimationState",
	"Array", "Base", "BitField", "bitset", "bool", "char", "ColorRGBA",
	"Component", "data", "deque", "double", "dynamic_array", "FastPropertyName",
	"first", "float", "Font", "GameObject", "Generic Mono", "GradientNEW",
	"GUID", "GUIStyle", "int", "list", "long long", "map", "Matrix4x4f",
	"MdFour", "MonoBehaviour", "MonoScript", "m_ByteSize", "m_Curve",
	"m_EditorClassIdentifier", "m_EditorHideFlags", "m_Enabled",
	"m_ExtensionPtr", "m_GameObject", "m_Index", "m_IsArray", "m_IsStatic",
	"m_MetaFlag", "m_Name", "m_ObjectHideFlags", "m_PrefabInternal",
	"m_PrefabParentObject", "m_Script", "m_StaticEditorFlags", "m_Type",
	"m_Version", "Object", "pair", "PPtr<Component>", "PPtr<GameObject>",
	"PPtr<Material>", "PPtr<MonoBehaviour>", "PPtr<MonoScript>",
	"PPtr<Object>", "PPtr<Prefab>", "PPtr<Sprite>", "PPtr<TextAsset>",
	"PPtr<Texture>", "PPtr<Texture2D>", "PPtr<Transform>", "Prefab",
	"Quaternionf", "Rectf", "Renderer", "second", "set", "short", "size",
	"SInt16", "SInt32", "SInt64", "SInt8", "staticvector", "string",
	"TextAsset", "TextMesh", "Texture", "Texture2D", "Transform",
	"TypelessData", "UInt16", "UInt32", "UInt64", "UInt8", "unsigned int",
	"unsigned long long", "unsigned short", "vector", "Vector2f",
	"Vector3f", "Vector4f", "m_ScriptingClassIdentifier", "Gradient",
	"Type*", "int2_storage", "int3_storage", "BoundsInt", "m_CorrespondingSourceObject",
	"m_PrefabInstance", "m_PrefabAsset", "FileSize", "Hash128",
}

// resolveString looks up a string-pool offset. Offsets with the top bit
// set index commonStrings; others index raw bytes in pool up to the next
// NUL.
func resolveString(offset uint32, pool []byte) (string, error) {
	const topBit = uint32(1) << 31
	if offset&topBit != 0 {
		idx := offset &^ topBit
		if int(idx) >= len(commonStrings) {
			return "", wrapErr(KindCorrupt, "common string index out of range", nil)
		}
		return commonStrings[idx], nil
	}
	if int(offset) >= len(pool) {
		return "", wrapErr(KindCorrupt, "string pool offset out of range", nil)
	}
	end := offset
	for int(end) < len(pool) && pool[end] != 0 {
		end++
	}
	if int(end) >= len(pool) {
		return "", wrapErr(KindCorrupt, "unterminated string pool entry", nil)
	}
	return string(pool[offset:end]), nil
}

// readTypeTreeBlob reads the blob-encoded form used by file version >= 12
// (and == 10): a flat node array with fixed-size records followed by a
// string pool.
func readTypeTreeBlob(r *Reader, treeVersion int32) (*TypeTree, error) {
	nodeCount, err := r.ReadI32()
	if err != nil {
		return nil, err
	}
	if nodeCount < 0 {
		return nil, wrapErr(KindCorrupt, "negative type tree node count", nil)
	}
	poolSize, err := r.ReadI32()
	if err != nil {
		return nil, err
	}
	if poolSize < 0 {
		return nil, wrapErr(KindCorrupt, "negative string pool size", nil)
	}

	raw := make([]*TypeTreeNode, nodeCount)
	for i := range raw {
		n := &TypeTreeNode{}
		var err error
		var version16 uint16
		if version16, err = r.ReadU16(); err != nil {
			return nil, err
		}
		n.Version = int32(version16)
		if n.Level, err = r.ReadU8(); err != nil {
			return nil, err
		}
		var typeFlags8 uint8
		if typeFlags8, err = r.ReadU8(); err != nil {
			return nil, err
		}
		n.TypeFlags = int32(typeFlags8)
		if n.TypeStrOffset, err = r.ReadU32(); err != nil {
			return nil, err
		}
		if n.NameStrOffset, err = r.ReadU32(); err != nil {
			return nil, err
		}
		if n.ByteSize, err = r.ReadI32(); err != nil {
			return nil, err
		}
		if n.Index, err = r.ReadI32(); err != nil {
			return nil, err
		}
		if n.MetaFlags, err = r.ReadI32(); err != nil {
			return nil, err
		}
		if treeVersion >= 19 {
			if n.RefTypeHash, err = r.ReadU64(); err != nil {
				return nil, err
			}
		}
		raw[i] = n
	}

	pool, err := r.ReadExact(uint64(poolSize))
	if err != nil {
		return nil, err
	}

	for _, n := range raw {
		if n.TypeName, err = resolveString(n.TypeStrOffset, pool); err != nil {
			return nil, err
		}
		if n.FieldName, err = resolveString(n.NameStrOffset, pool); err != nil {
			return nil, err
		}
	}

	return buildTypeTree(raw)
}

// readTypeTreeLegacy reads the pre-blob recursive encoding; treeVersion
// selects which optional fields are present.
func readTypeTreeLegacy(r *Reader, treeVersion int32) (*TypeTree, error) {
	var nodes []*TypeTreeNode
	var walk func(level uint8) error
	walk = func(level uint8) error {
		n := &TypeTreeNode{Level: level}
		var err error
		if n.TypeName, err = r.ReadCString(); err != nil {
			return err
		}
		if n.FieldName, err = r.ReadCString(); err != nil {
			return err
		}
		if n.ByteSize, err = r.ReadI32(); err != nil {
			return err
		}
		if treeVersion == 2 {
			if _, err = r.ReadI32(); err != nil { // variable_count, unused downstream
				return err
			}
		}
		if treeVersion != 3 {
			if n.Index, err = r.ReadI32(); err != nil {
				return err
			}
		}
		if n.TypeFlags, err = r.ReadI32(); err != nil {
			return err
		}
		if n.Version, err = r.ReadI32(); err != nil {
			return err
		}
		if treeVersion != 3 {
			if n.MetaFlags, err = r.ReadI32(); err != nil {
				return err
			}
		}
		nodes = append(nodes, n)

		childCount, err := r.ReadI32()
		if err != nil {
			return err
		}
		if childCount < 0 {
			return wrapErr(KindCorrupt, "negative type tree child count", nil)
		}
		for i := int32(0); i < childCount; i++ {
			if err := walk(level + 1); err != nil {
				return err
			}
		}
		return nil
	}

	if err := walk(0); err != nil {
		return nil, err
	}
	return buildTypeTree(nodes)
}

// buildTypeTree derives the parent/child relation from a flat,
// level-ordered node list: a node is the child of the nearest preceding
// node with strictly lower level.
func buildTypeTree(nodes []*TypeTreeNode) (*TypeTree, error) {
	t := &TypeTree{
		Nodes:    nodes,
		children: make(map[int][]int),
		parent:   make(map[int]int),
	}

	type stackEntry struct {
		index int
		level uint8
	}
	var stack []stackEntry

	for i, n := range nodes {
		for len(stack) > 0 && stack[len(stack)-1].level >= n.Level {
			stack = stack[:len(stack)-1]
		}
		if len(stack) > 0 {
			parentIdx := stack[len(stack)-1].index
			t.parent[i] = parentIdx
			t.children[parentIdx] = append(t.children[parentIdx], i)
		}
		stack = append(stack, stackEntry{index: i, level: n.Level})
	}

	return t, nil
}

// Children returns the child node indices of node index i, in order.
func (t *TypeTree) Children(i int) []int { return t.children[i] }

// Parent returns the parent node index of i and whether i has a parent.
func (t *TypeTree) Parent(i int) (int, bool) {
	p, ok := t.parent[i]
	return p, ok
}

// Roots returns the indices of top-level (level 0) nodes.
func (t *TypeTree) Roots() []int {
	var roots []int
	for i, n := range t.Nodes {
		if n.Level == 0 {
			roots = append(roots, i)
		}
	}
	return roots
}
