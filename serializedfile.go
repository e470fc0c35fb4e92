// Copyright 2026 The unityasset Authors.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package unityasset

import "github.com/silvertip-oss/unityasset/internal/log"

// SerializedType is one entry in a serialized file's type table.
type SerializedType struct {
	ClassID         int32     `json:"class_id"`
	IsStripped      bool      `json:"is_stripped"`
	ScriptTypeIndex int16     `json:"script_type_index,omitempty"`
	ScriptID        [16]byte  `json:"-"`
	OldTypeHash     [16]byte  `json:"-"`
	TypeTree        *TypeTree `json:"type_tree,omitempty"`
	ClassName       string    `json:"class_name,omitempty"`
	Namespace       string    `json:"namespace,omitempty"`
	AssemblyName    string    `json:"assembly_name,omitempty"`
}

// ObjectInfo is one entry in a serialized file's object table.
type ObjectInfo struct {
	PathID        int64  `json:"path_id"`
	ByteStart     uint64 `json:"byte_start"`
	ByteSize      uint32 `json:"byte_size"`
	TypeID        int32  `json:"type_id"`
	ClassID       int32  `json:"class_id"`
	TypeTreeIndex int32  `json:"type_tree_index"`
}

// scriptRef is one entry in the script table.
type scriptRef struct {
	LocalSerializedFileIndex int32 `json:"local_serialized_file_index"`
	LocalIdentifierInFile    int64 `json:"local_identifier_in_file"`
}

// externalRef is one entry in the externals table.
type externalRef struct {
	TempEmpty string   `json:"temp_empty,omitempty"`
	GUID      [16]byte `json:"-"`
	Type      int32    `json:"type"`
	PathName  string   `json:"path_name"`
}

// SerializedFile is the fully parsed form of one embedded serialized
// file: header, type table, object table, and the raw bytes each
// object's properties are read from.
type SerializedFile struct {
	Version        uint32 `json:"version"`
	DataOffset     uint32 `json:"data_offset"`
	Endian         Endian `json:"-"`
	EngineVersion  string `json:"engine_version"`
	TargetPlatform int32  `json:"target_platform"`
	HasTypeTree    bool   `json:"has_type_tree"`

	Types   []*SerializedType `json:"types,omitempty"`
	Objects []*ObjectInfo     `json:"objects,omitempty"`

	Scripts   []scriptRef       `json:"scripts,omitempty"`
	Externals []externalRef     `json:"externals,omitempty"`
	RefTypes  []*SerializedType `json:"ref_types,omitempty"`
	UserInfo  string            `json:"user_info,omitempty"`

	data []byte
}

// ObjectBytes returns the raw byte range for obj within the file.
func (f *SerializedFile) ObjectBytes(obj *ObjectInfo) ([]byte, error) {
	start := uint64(f.DataOffset) + obj.ByteStart
	end := start + uint64(obj.ByteSize)
	if end > uint64(len(f.data)) || end < start {
		return nil, wrapErr(KindOutOfRange, "object byte range exceeds data section", ErrOutsideBoundary)
	}
	return f.data[start:end], nil
}

// ParseSerializedFile parses the header, type table, object table,
// script table, externals, ref types, and user info of a serialized
// file.
func ParseSerializedFile(data []byte, logger log.Logger) (*SerializedFile, error) {
	h := log.NewHelper(logger)
	f := &SerializedFile{data: data}

	r := NewReader(data, BigEndian)

	metadataSize, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	_ = metadataSize
	if _, err = r.ReadU32(); err != nil { // file_size
		return nil, err
	}
	version, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	f.Version = version
	if f.DataOffset, err = r.ReadU32(); err != nil {
		return nil, err
	}

	endianByte, err := r.ReadU8()
	if err != nil {
		return nil, err
	}
	if _, err := r.ReadExact(3); err != nil { // reserved
		return nil, err
	}

	if version >= 7 {
		if f.EngineVersion, err = r.ReadCString(); err != nil {
			return nil, err
		}
	}
	if version >= 8 {
		if f.TargetPlatform, err = r.ReadI32(); err != nil {
			return nil, err
		}
	}
	f.HasTypeTree = true
	if version >= 13 {
		hasTypeTree, err := r.ReadU8()
		if err != nil {
			return nil, err
		}
		f.HasTypeTree = hasTypeTree != 0
	}

	if endianByte != 0 {
		f.Endian = BigEndian
	} else {
		f.Endian = LittleEndian
	}
	r.SetEndian(f.Endian)

	typesCount, err := r.ReadI32()
	if err != nil {
		return nil, err
	}
	if typesCount < 0 {
		return nil, wrapErr(KindCorrupt, "negative type count", nil)
	}
	f.Types = make([]*SerializedType, typesCount)
	for i := range f.Types {
		st, err := readSerializedType(r, version, f.HasTypeTree)
		if err != nil {
			return nil, err
		}
		f.Types[i] = st
	}

	objectsCount, err := r.ReadI32()
	if err != nil {
		return nil, err
	}
	if objectsCount < 0 {
		return nil, wrapErr(KindCorrupt, "negative object count", nil)
	}
	f.Objects = make([]*ObjectInfo, 0, objectsCount)
	for i := int32(0); i < objectsCount; i++ {
		obj, err := readObjectInfo(r, version, f.Types)
		if err != nil {
			return nil, err
		}
		if _, err := f.ObjectBytes(obj); err != nil {
			h.Warnf("dropping object path_id=%d: %v", obj.PathID, err)
			continue
		}
		f.Objects = append(f.Objects, obj)
	}

	if version >= 11 {
		scriptCount, err := r.ReadI32()
		if err != nil {
			return nil, err
		}
		if scriptCount < 0 {
			return nil, wrapErr(KindCorrupt, "negative script count", nil)
		}
		f.Scripts = make([]scriptRef, scriptCount)
		for i := range f.Scripts {
			idx, err := r.ReadI32()
			if err != nil {
				return nil, err
			}
			var localID int64
			if version < 14 {
				if err := r.AlignTo(4); err != nil {
					return nil, err
				}
				v, err := r.ReadI32()
				if err != nil {
					return nil, err
				}
				localID = int64(v)
			} else {
				if localID, err = r.ReadI64(); err != nil {
					return nil, err
				}
			}
			f.Scripts[i] = scriptRef{LocalSerializedFileIndex: idx, LocalIdentifierInFile: localID}
		}
	}

	externalsCount, err := r.ReadI32()
	if err != nil {
		return nil, err
	}
	if externalsCount < 0 {
		return nil, wrapErr(KindCorrupt, "negative externals count", nil)
	}
	f.Externals = make([]externalRef, externalsCount)
	for i := range f.Externals {
		var ext externalRef
		if version >= 6 {
			if ext.TempEmpty, err = r.ReadCString(); err != nil {
				return nil, err
			}
		}
		if version >= 5 {
			guid, err := r.ReadExact(16)
			if err != nil {
				return nil, err
			}
			copy(ext.GUID[:], guid)
			if ext.Type, err = r.ReadI32(); err != nil {
				return nil, err
			}
		}
		if ext.PathName, err = r.ReadCString(); err != nil {
			return nil, err
		}
		f.Externals[i] = ext
	}

	if version >= 20 {
		refTypeCount, err := r.ReadI32()
		if err != nil {
			return nil, err
		}
		if refTypeCount < 0 {
			return nil, wrapErr(KindCorrupt, "negative ref type count", nil)
		}
		f.RefTypes = make([]*SerializedType, refTypeCount)
		for i := range f.RefTypes {
			st, err := readSerializedType(r, version, f.HasTypeTree)
			if err != nil {
				return nil, err
			}
			f.RefTypes[i] = st
		}
	}

	if version >= 5 {
		if f.UserInfo, err = r.ReadCString(); err != nil {
			return nil, err
		}
	}

	return f, nil
}

func readSerializedType(r *Reader, version uint32, hasTypeTree bool) (*SerializedType, error) {
	st := &SerializedType{}
	var err error

	if st.ClassID, err = r.ReadI32(); err != nil {
		return nil, err
	}
	if version >= 16 {
		b, err := r.ReadU8()
		if err != nil {
			return nil, err
		}
		st.IsStripped = b != 0
	}
	if version >= 17 {
		if st.ScriptTypeIndex, err = r.ReadI16(); err != nil {
			return nil, err
		}
	}

	needsScriptID := false
	if version >= 13 {
		if version < 16 {
			needsScriptID = st.ClassID < 0
		} else {
			needsScriptID = st.ClassID == 114
		}
	}
	if needsScriptID {
		b, err := r.ReadExact(16)
		if err != nil {
			return nil, err
		}
		copy(st.ScriptID[:], b)
	}
	if version >= 13 {
		b, err := r.ReadExact(16)
		if err != nil {
			return nil, err
		}
		copy(st.OldTypeHash[:], b)
	}

	if hasTypeTree {
		treeVersion := int32(version)
		var tree *TypeTree
		var err error
		if version >= 12 || version == 10 {
			tree, err = readTypeTreeBlob(r, treeVersion)
		} else {
			tree, err = readTypeTreeLegacy(r, treeVersion)
		}
		if err != nil {
			return nil, err
		}
		st.TypeTree = tree
	}

	if version >= 21 {
		if st.ClassName, err = r.ReadAlignedString(); err != nil {
			return nil, err
		}
		if st.Namespace, err = r.ReadAlignedString(); err != nil {
			return nil, err
		}
		if st.AssemblyName, err = r.ReadAlignedString(); err != nil {
			return nil, err
		}
	}

	return st, nil
}

func readObjectInfo(r *Reader, version uint32, types []*SerializedType) (*ObjectInfo, error) {
	obj := &ObjectInfo{}

	if version >= 14 {
		pathID, err := r.ReadI64()
		if err != nil {
			return nil, err
		}
		obj.PathID = pathID
	} else {
		if err := r.AlignTo(4); err != nil {
			return nil, err
		}
		v, err := r.ReadI32()
		if err != nil {
			return nil, err
		}
		obj.PathID = int64(v)
	}

	if version >= 22 {
		v, err := r.ReadU64()
		if err != nil {
			return nil, err
		}
		obj.ByteStart = v
	} else {
		v, err := r.ReadU32()
		if err != nil {
			return nil, err
		}
		obj.ByteStart = uint64(v)
	}

	byteSize, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	obj.ByteSize = byteSize

	typeID, err := r.ReadI32()
	if err != nil {
		return nil, err
	}
	obj.TypeID = typeID

	if version >= 16 {
		if int(typeID) >= 0 && int(typeID) < len(types) {
			obj.ClassID = types[typeID].ClassID
			obj.TypeTreeIndex = typeID
		} else {
			return nil, wrapErr(KindOutOfRange, "object type_id outside type table", ErrOutsideBoundary)
		}
	} else {
		obj.ClassID = typeID
		obj.TypeTreeIndex = -1
		for i, t := range types {
			if t.ClassID == typeID {
				obj.TypeTreeIndex = int32(i)
				break
			}
		}
	}

	if version < 11 {
		classID16, err := r.ReadI16()
		if err != nil {
			return nil, err
		}
		obj.ClassID = int32(classID16)
	}
	if version >= 11 && version < 17 {
		if _, err := r.ReadU16(); err != nil { // is_destroyed
			return nil, err
		}
	}
	if version >= 15 && version < 17 {
		if _, err := r.ReadU8(); err != nil { // stripped
			return nil, err
		}
	}

	return obj, nil
}
