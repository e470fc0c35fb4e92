// Copyright 2026 The unityasset Authors.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package unityasset

import "strings"

// InterpretObject reads tree's root node over r's remaining bytes,
// producing the object's properties as an ordered Mapping. The root node
// (conventionally named "Base") describes the object's own compound
// shape; its value becomes the returned Mapping directly rather than
// being nested under the root's own field name. One call per ObjectInfo.
func InterpretObject(r *Reader, tree *TypeTree) (*Mapping, error) {
	roots := tree.Roots()
	if len(roots) == 0 {
		return NewMapping(), nil
	}

	v, err := readNode(r, tree, roots[0])
	if err != nil {
		return nil, err
	}
	m, err := v.AsObject()
	if err != nil {
		return nil, wrapErr(KindCorrupt, "object root is not a compound value", nil)
	}
	return m, nil
}

// readNode reads the value described by node index idx, applying the
// trailing alignment rule when the node's meta flags require it.
func readNode(r *Reader, tree *TypeTree, idx int) (Value, error) {
	n := tree.Nodes[idx]

	v, err := readNodeValue(r, tree, idx)
	if err != nil {
		return Value{}, err
	}

	if n.RequiresAlignment() {
		if err := r.AlignTo(4); err != nil {
			return Value{}, err
		}
	}

	return v, nil
}

// readNodeValue dispatches on the node shape: primitive, array, map, or
// plain compound (ordered struct).
func readNodeValue(r *Reader, tree *TypeTree, idx int) (Value, error) {
	n := tree.Nodes[idx]

	if prim, ok, err := readPrimitive(r, n.TypeName); ok || err != nil {
		return prim, err
	}

	if n.TypeName == "TypelessData" {
		return readTypelessData(r)
	}

	if n.IsArray() {
		return readArrayNode(r, tree, idx)
	}

	children := tree.Children(idx)

	if n.TypeName == "string" {
		return readStringNode(r, tree, children)
	}

	if n.TypeName == "map" {
		return readMapNode(r, tree, children)
	}

	if strings.HasPrefix(n.TypeName, "PPtr<") {
		return readCompoundNode(r, tree, children)
	}

	return readCompoundNode(r, tree, children)
}

// readPrimitive reads a fixed-shape scalar identified purely by type name.
// ok is false when typeName names none of the known primitives, meaning
// the caller must fall through to array/map/compound handling.
func readPrimitive(r *Reader, typeName string) (Value, bool, error) {
	switch typeName {
	case "bool":
		b, err := r.ReadBool()
		return NewBool(b), true, err
	case "char", "SInt8":
		b, err := r.ReadI8()
		return NewInt(int64(b), 8), true, err
	case "UInt8":
		b, err := r.ReadU8()
		return NewUint(uint64(b), 8), true, err
	case "SInt16", "short":
		v, err := r.ReadI16()
		return NewInt(int64(v), 16), true, err
	case "UInt16", "unsigned short":
		v, err := r.ReadU16()
		return NewUint(uint64(v), 16), true, err
	case "SInt32", "int":
		v, err := r.ReadI32()
		return NewInt(int64(v), 32), true, err
	case "UInt32", "unsigned int", "Type*":
		v, err := r.ReadU32()
		return NewUint(uint64(v), 32), true, err
	case "SInt64", "long long":
		v, err := r.ReadI64()
		return NewInt(v, 64), true, err
	case "UInt64", "unsigned long long", "FileSize":
		v, err := r.ReadU64()
		return NewUint(v, 64), true, err
	case "float":
		v, err := r.ReadF32()
		return NewFloat(float64(v), 32), true, err
	case "double":
		v, err := r.ReadF64()
		return NewFloat(v, 64), true, err
	default:
		return Value{}, false, nil
	}
}

// readStringNode reads the `string` node shape: a child array named
// Array of char, i.e. a u32 length prefix followed by that many UTF-8
// bytes, aligned to 4 afterward (ReadAlignedString always pads, whatever
// the node's meta flags say).
func readStringNode(r *Reader, tree *TypeTree, children []int) (Value, error) {
	_ = children // the Array/char children exist structurally but the shape is fixed
	s, err := r.ReadAlignedString()
	if err != nil {
		return Value{}, err
	}
	return NewString(s), nil
}

// readTypelessData reads the raw-blob shape (u32 size, then that many
// bytes) used by image data and similar payload fields.
func readTypelessData(r *Reader) (Value, error) {
	size, err := r.ReadU32()
	if err != nil {
		return Value{}, err
	}
	b, err := r.ReadExact(uint64(size))
	if err != nil {
		return Value{}, err
	}
	return NewBytes(b), nil
}

// readArrayNode reads an array-flagged node: a u32 size followed by that
// many instances of the element template (the array node's second
// child; its first child is the size field itself and is not re-read).
// When the element template is a 1-byte primitive, the whole block is
// read in one shot and surfaces as a byte buffer instead of a sequence
// of per-element values; index buffers, audio data, and pixel payloads
// all take this path.
func readArrayNode(r *Reader, tree *TypeTree, idx int) (Value, error) {
	children := tree.Children(idx)
	if len(children) < 2 {
		return Value{}, wrapErr(KindCorrupt, "array node missing size/template children", nil)
	}
	templateIdx := children[1]
	template := tree.Nodes[templateIdx]

	size, err := r.ReadU32()
	if err != nil {
		return Value{}, err
	}

	if isByteTemplate(template.TypeName) && !template.RequiresAlignment() {
		b, err := r.ReadExact(uint64(size))
		if err != nil {
			return Value{}, err
		}
		return NewBytes(b), nil
	}

	elems := make([]Value, 0, size)
	for i := uint32(0); i < size; i++ {
		v, err := readNode(r, tree, templateIdx)
		if err != nil {
			return Value{}, err
		}
		elems = append(elems, v)
	}
	return NewArray(elems), nil
}

func isByteTemplate(typeName string) bool {
	switch typeName {
	case "UInt8", "SInt8", "char":
		return true
	default:
		return false
	}
}

// readMapNode reads a `map` node: an array of 2-tuple {first, second}
// children, producing an ordered string->Value mapping. Keys must
// stringify; duplicate keys are an error.
func readMapNode(r *Reader, tree *TypeTree, children []int) (Value, error) {
	if len(children) < 2 {
		return Value{}, wrapErr(KindCorrupt, "map node missing size/template children", nil)
	}
	templateIdx := children[1]
	pairChildren := tree.Children(templateIdx)
	if len(pairChildren) != 2 {
		return Value{}, wrapErr(KindCorrupt, "map entry template must have exactly 2 fields", nil)
	}
	keyIdx, valIdx := pairChildren[0], pairChildren[1]

	size, err := r.ReadU32()
	if err != nil {
		return Value{}, err
	}

	m := NewMapping()
	for i := uint32(0); i < size; i++ {
		keyVal, err := readNode(r, tree, keyIdx)
		if err != nil {
			return Value{}, err
		}
		valVal, err := readNode(r, tree, valIdx)
		if err != nil {
			return Value{}, err
		}
		key, err := valueKeyString(keyVal)
		if err != nil {
			return Value{}, err
		}
		if err := m.Set(key, valVal); err != nil {
			return Value{}, err
		}
	}
	return NewObject(m), nil
}

// valueKeyString renders a map key value as a string for Mapping.Set.
func valueKeyString(v Value) (string, error) {
	switch v.Kind {
	case KindString:
		return v.stringVal, nil
	case KindInt:
		i, _ := v.AsI64()
		return int64Key(i), nil
	case KindUint:
		i, _ := v.AsI64()
		return int64Key(i), nil
	default:
		return "", wrapErr(KindCorrupt, "unsupported map key value kind", nil)
	}
}

func int64Key(i int64) string {
	const digits = "0123456789"
	if i == 0 {
		return "0"
	}
	neg := i < 0
	if neg {
		i = -i
	}
	var buf [20]byte
	pos := len(buf)
	for i > 0 {
		pos--
		buf[pos] = digits[i%10]
		i /= 10
	}
	if neg {
		pos--
		buf[pos] = '-'
	}
	return string(buf[pos:])
}

// readCompoundNode reads an ordered struct: each child in order, keyed
// by its field name.
func readCompoundNode(r *Reader, tree *TypeTree, children []int) (Value, error) {
	m := NewMapping()
	for _, childIdx := range children {
		v, err := readNode(r, tree, childIdx)
		if err != nil {
			return Value{}, err
		}
		if err := m.Set(tree.Nodes[childIdx].FieldName, v); err != nil {
			return Value{}, err
		}
	}
	return NewObject(m), nil
}

// PPtr is the deserialized form of a `PPtr<...>` node: an unresolved
// reference to an object, possibly in another file.
type PPtr struct {
	FileID int32 `json:"file_id"`
	PathID int64 `json:"path_id"`
}

// AsPPtr interprets an object-shaped Value as a PPtr, for callers that
// recognize the referencing field by name (e.g. a Sprite's texture).
func AsPPtr(v Value) (PPtr, error) {
	obj, err := v.AsObject()
	if err != nil {
		return PPtr{}, err
	}
	fileIDVal, ok := obj.Get("m_FileID")
	if !ok {
		return PPtr{}, wrapErr(KindCorrupt, "PPtr missing m_FileID", nil)
	}
	pathIDVal, ok := obj.Get("m_PathID")
	if !ok {
		return PPtr{}, wrapErr(KindCorrupt, "PPtr missing m_PathID", nil)
	}
	fileID, err := fileIDVal.AsI64()
	if err != nil {
		return PPtr{}, err
	}
	pathID, err := pathIDVal.AsI64()
	if err != nil {
		return PPtr{}, err
	}
	return PPtr{FileID: int32(fileID), PathID: pathID}, nil
}
