// Copyright 2026 The unityasset Authors.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package unityasset

import (
	"bytes"

	"github.com/silvertip-oss/unityasset/internal/log"
)

// Bundle container signatures.
const (
	sigUnityFS      = "UnityFS"
	sigUnityWeb     = "UnityWeb"
	sigUnityRaw     = "UnityRaw"
	sigUnityArchive = "UnityArchive"
)

// EmbeddedFile is one named slice of a bundle's decompressed payload.
type EmbeddedFile struct {
	Name string `json:"name"`
	Data []byte `json:"-"`
}

// Bundle is the parsed form of a bundle container: its directory nodes
// and the decompressed payload slices they describe.
type Bundle struct {
	Signature      string `json:"signature"`
	FormatVersion  uint32 `json:"format_version"`
	EngineVersion  string `json:"engine_version"`
	EngineRevision string `json:"engine_revision"`

	Nodes    []DirectoryNode `json:"nodes,omitempty"`
	Embedded []EmbeddedFile  `json:"embedded,omitempty"`

	Anomalies []anomaly `json:"anomalies,omitempty"`
}

// ParseBundle identifies a bundle's container signature and fully
// decodes it: block table, decompression, directory node materialization.
func ParseBundle(data []byte, logger log.Logger) (*Bundle, error) {
	h := log.NewHelper(logger)
	r := NewReader(data, BigEndian)

	sig, err := r.ReadCString()
	if err != nil {
		return nil, wrapErr(KindInvalidSignature, "missing bundle signature", err)
	}

	switch sig {
	case sigUnityFS:
		return parseUnityFS(r, sig, h)
	case sigUnityWeb, sigUnityRaw:
		return parseLegacyBundle(r, sig, h)
	case sigUnityArchive:
		return nil, wrapErr(KindUnsupportedFormat, "UnityArchive container not implemented", nil)
	default:
		return nil, ErrInvalidSignature
	}
}

func parseUnityFS(r *Reader, sig string, h *log.Helper) (*Bundle, error) {
	b := &Bundle{Signature: sig}

	version, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	b.FormatVersion = version

	if b.EngineVersion, err = r.ReadCString(); err != nil {
		return nil, err
	}
	if b.EngineRevision, err = r.ReadCString(); err != nil {
		return nil, err
	}

	if _, err = r.ReadI64(); err != nil { // bundle_size, not needed once we have the buffer
		return nil, err
	}
	compressedBlocksInfoSize, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	uncompressedBlocksInfoSize, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	flags, err := r.ReadU32()
	if err != nil {
		return nil, err
	}

	if version >= 7 {
		if err := r.AlignTo(16); err != nil {
			return nil, err
		}
	}

	var blockInfoBlob []byte
	if flags&0x80 != 0 {
		// Block-info chunk is the last compressedBlocksInfoSize bytes of the buffer.
		total := uint64(r.Len())
		start := total - uint64(compressedBlocksInfoSize)
		saved := r.Position()
		r.SetPosition(start)
		blockInfoBlob, err = r.ReadExact(uint64(compressedBlocksInfoSize))
		r.SetPosition(saved)
		if err != nil {
			return nil, err
		}
	} else {
		blockInfoBlob, err = r.ReadExact(uint64(compressedBlocksInfoSize))
		if err != nil {
			return nil, err
		}
	}

	codec, err := codecFromFlags(flags)
	if err != nil {
		return nil, err
	}
	blockInfo, err := decompress(blockInfoBlob, codec, int(uncompressedBlocksInfoSize))
	if err != nil {
		return nil, wrapErr(KindCorrupt, "block-info decompression failed", err)
	}

	br := NewReader(blockInfo, BigEndian)
	if _, err := br.ReadExact(16); err != nil { // content hash, not verified
		return nil, err
	}
	blockCount, err := br.ReadI32()
	if err != nil {
		return nil, err
	}
	if blockCount < 0 {
		return nil, wrapErr(KindCorrupt, "negative block count", nil)
	}

	type blockDesc struct {
		uncompressedSize uint32
		compressedSize   uint32
		flags            uint16
	}
	blocks := make([]blockDesc, blockCount)
	for i := range blocks {
		if blocks[i].uncompressedSize, err = br.ReadU32(); err != nil {
			return nil, err
		}
		if blocks[i].compressedSize, err = br.ReadU32(); err != nil {
			return nil, err
		}
		if blocks[i].flags, err = br.ReadU16(); err != nil {
			return nil, err
		}
	}

	nodeCount, err := br.ReadI32()
	if err != nil {
		return nil, err
	}
	if nodeCount < 0 {
		return nil, wrapErr(KindCorrupt, "negative directory node count", nil)
	}
	nodes := make([]DirectoryNode, nodeCount)
	for i := range nodes {
		offset, err := br.ReadI64()
		if err != nil {
			return nil, err
		}
		size, err := br.ReadI64()
		if err != nil {
			return nil, err
		}
		nodeFlags, err := br.ReadU32()
		if err != nil {
			return nil, err
		}
		name, err := br.ReadCString()
		if err != nil {
			return nil, err
		}
		nodes[i] = DirectoryNode{Name: name, Offset: uint64(offset), Size: uint64(size), Flags: nodeFlags}
	}

	if flags&0x200 != 0 {
		if err := r.AlignTo(16); err != nil {
			return nil, err
		}
	}

	var payload bytes.Buffer
	for _, blk := range blocks {
		compressed, err := r.ReadExact(uint64(blk.compressedSize))
		if err != nil {
			return nil, wrapErr(KindCorrupt, "short read of block payload", err)
		}
		blockCodec, err := codecFromFlags(uint32(blk.flags))
		if err != nil {
			return nil, err
		}
		out, err := decompress(compressed, blockCodec, int(blk.uncompressedSize))
		if err != nil {
			return nil, wrapErr(KindCorrupt, "block payload decompression failed", err)
		}
		payload.Write(out)
	}
	payloadBytes := payload.Bytes()

	for _, n := range nodes {
		slice, err := n.Bytes(payloadBytes)
		if err != nil {
			b.Anomalies = append(b.Anomalies, anomaly{Message: "dropped node " + n.Name, Err: err})
			h.Warnf("dropping bundle node %q: %v", n.Name, err)
			continue
		}
		b.Nodes = append(b.Nodes, n)
		b.Embedded = append(b.Embedded, EmbeddedFile{Name: n.Name, Data: slice})
	}

	return b, nil
}

func parseLegacyBundle(r *Reader, sig string, h *log.Helper) (*Bundle, error) {
	b := &Bundle{Signature: sig}

	version, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	b.FormatVersion = version

	if b.EngineVersion, err = r.ReadCString(); err != nil {
		return nil, err
	}
	if b.EngineRevision, err = r.ReadCString(); err != nil {
		return nil, err
	}

	if version >= 4 {
		if _, err := r.ReadExact(16); err != nil { // md5
			return nil, err
		}
		if _, err := r.ReadU32(); err != nil { // crc
			return nil, err
		}
	}

	if _, err := r.ReadU32(); err != nil { // minimum_streamed_bytes
		return nil, err
	}
	headerSize, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	if _, err := r.ReadU32(); err != nil { // reserved
		return nil, err
	}
	levelCount, err := r.ReadI32()
	if err != nil {
		return nil, err
	}
	if levelCount < 0 {
		return nil, wrapErr(KindCorrupt, "negative level count", nil)
	}
	if levelCount > 1 {
		if _, err := r.ReadExact(uint64(levelCount-1) * 8); err != nil {
			return nil, err
		}
	}

	compressedSize, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	uncompressedSize, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	if version >= 2 {
		if _, err := r.ReadU32(); err != nil { // complete_file_size
			return nil, err
		}
	}
	if version >= 3 {
		if _, err := r.ReadU32(); err != nil { // file_info_header_size
			return nil, err
		}
	}

	r.SetPosition(uint64(headerSize))
	compressed, err := r.ReadExact(uint64(compressedSize))
	if err != nil {
		return nil, err
	}

	var directoryBytes []byte
	if sig == sigUnityWeb {
		directoryBytes, err = decompressLZMA(compressed, int(uncompressedSize))
		if err != nil {
			return nil, wrapErr(KindCorrupt, "legacy bundle LZMA decode failed", err)
		}
	} else {
		directoryBytes = compressed
	}

	dr := NewReader(directoryBytes, BigEndian)
	dr.SetPosition(uint64(headerSize))
	if dr.Position() > uint64(dr.Len()) {
		return nil, wrapErr(KindCorrupt, "header_size exceeds directory buffer", ErrOutsideBoundary)
	}

	nodesCount, err := dr.ReadI32()
	if err != nil {
		return nil, err
	}
	if nodesCount < 0 {
		return nil, wrapErr(KindCorrupt, "negative directory node count", nil)
	}

	// The legacy directory payload (post-header_size) is itself the
	// decompressed bundle payload that node offsets index into.
	payloadBytes := directoryBytes

	for i := int32(0); i < nodesCount; i++ {
		name, err := dr.ReadCString()
		if err != nil {
			return nil, err
		}
		offset, err := dr.ReadU32()
		if err != nil {
			return nil, err
		}
		size, err := dr.ReadU32()
		if err != nil {
			return nil, err
		}
		n := DirectoryNode{Name: name, Offset: uint64(offset), Size: uint64(size)}
		slice, err := n.Bytes(payloadBytes)
		if err != nil {
			b.Anomalies = append(b.Anomalies, anomaly{Message: "dropped node " + name, Err: err})
			h.Warnf("dropping bundle node %q: %v", name, err)
			continue
		}
		b.Nodes = append(b.Nodes, n)
		b.Embedded = append(b.Embedded, EmbeddedFile{Name: name, Data: slice})
	}

	return b, nil
}
