// Copyright 2026 The unityasset Authors.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package unityasset

import (
	"fmt"
	"math"
	"strings"
)

// SubMesh is one draw range within a Mesh's shared index buffer.
type SubMesh struct {
	FirstByte   uint32 `json:"first_byte"`
	IndexCount  uint32 `json:"index_count"`
	Topology    int32  `json:"topology"`
	VertexCount uint32 `json:"vertex_count"`
}

// MeshFields is the parsed, decoded form of a Mesh object: index buffer
// resolved to triangle indices, vertex positions/normals/uvs resolved
// from the channel-described vertex buffer.
type MeshFields struct {
	Name      string       `json:"name"`
	SubMeshes []SubMesh    `json:"sub_meshes,omitempty"`
	Indices   []uint32     `json:"indices,omitempty"` // triangle-list indices, already widened from 16/32-bit storage
	Positions [][3]float32 `json:"positions,omitempty"`
	Normals   [][3]float32 `json:"normals,omitempty"`
	UVs       [][2]float32 `json:"uvs,omitempty"`
	Readable  bool         `json:"readable"`
}

// MeshFieldsFromObject extracts mesh data from an already-interpreted
// Mesh object's properties. It expects m_IndexBuffer as a byte buffer
// and m_VertexData as an object exposing m_VertexCount, an m_Channels
// array describing each channel's stream, offset, format and dimension,
// and the raw vertex bytes in m_DataSize — the shape the type-tree
// interpreter produces for a VertexData node. Stream layout is computed
// from the channels; m_Streams is not read.
func MeshFieldsFromObject(props *Mapping) (*MeshFields, error) {
	mf := &MeshFields{Readable: true}

	if v, ok := props.Get("m_Name"); ok {
		if s, err := v.AsString(); err == nil {
			mf.Name = s
		}
	}

	if v, ok := props.Get("m_MeshCompression"); ok {
		if c, err := v.AsI64(); err == nil && c != 0 {
			return nil, wrapErr(KindUnsupportedFormat, "compressed mesh encoding not implemented", nil)
		}
	}

	use16, is16BitOk := boolField(props, "m_Use16BitIndices")
	if !is16BitOk {
		use16 = true // engine versions without the flag always used 16-bit indices
	}

	indexBufVal, ok := props.Get("m_IndexBuffer")
	if !ok {
		mf.Readable = false
		return mf, nil
	}
	indexBuf, err := indexBufVal.AsBytes()
	if err != nil {
		return nil, err
	}
	mf.Indices, err = widenIndices(indexBuf, use16)
	if err != nil {
		return nil, err
	}

	if err := parseSubMeshes(props, mf); err != nil {
		return nil, err
	}
	if err := parseVertexData(props, mf); err != nil {
		return nil, err
	}

	if len(mf.Positions) == 0 {
		mf.Readable = false
	}

	return mf, nil
}

func boolField(m *Mapping, key string) (bool, bool) {
	v, ok := m.Get(key)
	if !ok {
		return false, false
	}
	b, err := v.AsBool()
	if err != nil {
		return false, false
	}
	return b, true
}

func widenIndices(buf []byte, use16 bool) ([]uint32, error) {
	if use16 {
		if len(buf)%2 != 0 {
			return nil, wrapErr(KindCorrupt, "16-bit index buffer has odd length", nil)
		}
		out := make([]uint32, len(buf)/2)
		for i := range out {
			out[i] = uint32(buf[i*2]) | uint32(buf[i*2+1])<<8
		}
		return out, nil
	}
	if len(buf)%4 != 0 {
		return nil, wrapErr(KindCorrupt, "32-bit index buffer length not a multiple of 4", nil)
	}
	out := make([]uint32, len(buf)/4)
	for i := range out {
		out[i] = uint32(buf[i*4]) | uint32(buf[i*4+1])<<8 | uint32(buf[i*4+2])<<16 | uint32(buf[i*4+3])<<24
	}
	return out, nil
}

func parseSubMeshes(props *Mapping, mf *MeshFields) error {
	v, ok := props.Get("m_SubMeshes")
	if !ok {
		return nil
	}
	arr, err := v.AsArray()
	if err != nil {
		return err
	}
	for _, elem := range arr {
		obj, err := elem.AsObject()
		if err != nil {
			return err
		}
		sm := SubMesh{}
		if fb, ok := obj.Get("firstByte"); ok {
			n, _ := fb.AsI64()
			sm.FirstByte = uint32(n)
		}
		if ic, ok := obj.Get("indexCount"); ok {
			n, _ := ic.AsI64()
			sm.IndexCount = uint32(n)
		}
		if topo, ok := obj.Get("topology"); ok {
			n, _ := topo.AsI64()
			sm.Topology = int32(n)
		}
		if vc, ok := obj.Get("vertexCount"); ok {
			n, _ := vc.AsI64()
			sm.VertexCount = uint32(n)
		}
		mf.SubMeshes = append(mf.SubMeshes, sm)
	}
	return nil
}

// vertexChannel mirrors the engine's ChannelInfo: stream index, byte
// offset within the stream, component format, and dimension.
type vertexChannel struct {
	stream    int
	offset    int
	format    int
	dimension int
}

// parseVertexData decodes m_VertexData's channel-described buffer into
// per-vertex positions/normals/UVs. Channel 0 is position, 1 is normal,
// 4 is the first UV set — the engine's fixed channel assignment.
func parseVertexData(props *Mapping, mf *MeshFields) error {
	v, ok := props.Get("m_VertexData")
	if !ok {
		return nil
	}
	vd, err := v.AsObject()
	if err != nil {
		return err
	}

	countVal, ok := vd.Get("m_VertexCount")
	if !ok {
		return nil
	}
	count, err := countVal.AsI64()
	if err != nil {
		return err
	}

	dataVal, ok := vd.Get("m_DataSize")
	if !ok {
		return nil
	}
	data, err := dataVal.AsBytes()
	if err != nil {
		return err
	}

	channelsVal, ok := vd.Get("m_Channels")
	if !ok {
		return nil
	}
	channelsArr, err := channelsVal.AsArray()
	if err != nil {
		return err
	}

	streamStrides := map[int]int{}
	channels := make([]vertexChannel, len(channelsArr))
	for i, c := range channelsArr {
		obj, err := c.AsObject()
		if err != nil {
			return err
		}
		ch := vertexChannel{}
		if s, ok := obj.Get("stream"); ok {
			n, _ := s.AsI64()
			ch.stream = int(n)
		}
		if o, ok := obj.Get("offset"); ok {
			n, _ := o.AsI64()
			ch.offset = int(n)
		}
		if f, ok := obj.Get("format"); ok {
			n, _ := f.AsI64()
			ch.format = int(n)
		}
		if d, ok := obj.Get("dimension"); ok {
			n, _ := d.AsI64()
			ch.dimension = int(n)
		}
		channels[i] = ch
		size := componentSize(ch.format) * ch.dimension
		if end := ch.offset + size; end > streamStrides[ch.stream] {
			streamStrides[ch.stream] = end
		}
	}

	// Stream byte offsets are contiguous in file order, each stream's
	// region sized vertexCount*stride(stream), rounded to stride's own
	// alignment the engine enforces (16 bytes per stream).
	streamOffsets := map[int]int{}
	cursor := 0
	for s := 0; s < len(streamStrides); s++ {
		streamOffsets[s] = cursor
		cursor = alignUp(cursor+streamStrides[s]*int(count), 16)
	}

	positions := make([][3]float32, count)
	var normals [][3]float32
	var uvs [][2]float32
	hasNormal, hasUV := false, false

	for ci, ch := range channels {
		if ch.dimension == 0 {
			continue
		}
		stride := streamStrides[ch.stream]
		base := streamOffsets[ch.stream]

		switch ci {
		case 0: // kShaderChannelVertex
			for v := 0; v < int(count); v++ {
				off := base + v*stride + ch.offset
				if off+12 > len(data) {
					return wrapErr(KindCorrupt, "vertex position read past data buffer", ErrOutsideBoundary)
				}
				positions[v] = readFloat3(data[off:])
			}
		case 1: // kShaderChannelNormal
			hasNormal = true
			normals = make([][3]float32, count)
			for v := 0; v < int(count); v++ {
				off := base + v*stride + ch.offset
				if off+12 > len(data) {
					return wrapErr(KindCorrupt, "vertex normal read past data buffer", ErrOutsideBoundary)
				}
				normals[v] = readFloat3(data[off:])
			}
		case 4: // kShaderChannelTexCoord0
			hasUV = true
			uvs = make([][2]float32, count)
			for v := 0; v < int(count); v++ {
				off := base + v*stride + ch.offset
				if off+8 > len(data) {
					return wrapErr(KindCorrupt, "vertex UV read past data buffer", ErrOutsideBoundary)
				}
				uvs[v] = readFloat2(data[off:])
			}
		}
	}

	mf.Positions = positions
	if hasNormal {
		mf.Normals = normals
	}
	if hasUV {
		mf.UVs = uvs
	}
	return nil
}

func componentSize(format int) int {
	switch format {
	case 0, 1: // float32, float16 treated uniformly at the size the reader above assumes
		return 4
	default:
		return 4
	}
}

func alignUp(n, to int) int {
	if n%to == 0 {
		return n
	}
	return n + (to - n%to)
}

func readFloat3(b []byte) [3]float32 {
	return [3]float32{readF32LE(b[0:4]), readF32LE(b[4:8]), readF32LE(b[8:12])}
}

func readFloat2(b []byte) [2]float32 {
	return [2]float32{readF32LE(b[0:4]), readF32LE(b[4:8])}
}

func readF32LE(b []byte) float32 {
	bits := uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
	return math.Float32frombits(bits)
}

// ExportOBJ renders mf as a Wavefront-OBJ string: v/vt/vn/f lines,
// preserving file vertex order, with 1-based face indices.
func ExportOBJ(mf *MeshFields) (string, error) {
	if !mf.Readable {
		return "", wrapErr(KindUnsupportedFormat, "mesh is not readable", nil)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n", mf.Name)

	for _, p := range mf.Positions {
		fmt.Fprintf(&sb, "v %g %g %g\n", p[0], p[1], p[2])
	}
	for _, uv := range mf.UVs {
		fmt.Fprintf(&sb, "vt %g %g\n", uv[0], uv[1])
	}
	for _, n := range mf.Normals {
		fmt.Fprintf(&sb, "vn %g %g %g\n", n[0], n[1], n[2])
	}

	hasUV := len(mf.UVs) > 0
	hasNormal := len(mf.Normals) > 0

	for i := 0; i+2 < len(mf.Indices); i += 3 {
		a, b, c := mf.Indices[i]+1, mf.Indices[i+1]+1, mf.Indices[i+2]+1
		sb.WriteString("f ")
		sb.WriteString(objVertexRef(a, hasUV, hasNormal))
		sb.WriteByte(' ')
		sb.WriteString(objVertexRef(b, hasUV, hasNormal))
		sb.WriteByte(' ')
		sb.WriteString(objVertexRef(c, hasUV, hasNormal))
		sb.WriteByte('\n')
	}

	return sb.String(), nil
}

func objVertexRef(idx uint32, hasUV, hasNormal bool) string {
	switch {
	case hasUV && hasNormal:
		return fmt.Sprintf("%d/%d/%d", idx, idx, idx)
	case hasUV:
		return fmt.Sprintf("%d/%d", idx, idx)
	case hasNormal:
		return fmt.Sprintf("%d//%d", idx, idx)
	default:
		return fmt.Sprintf("%d", idx)
	}
}
