// Copyright 2026 The unityasset Authors.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package unityasset

// DirectoryNode describes one embedded file inside a bundle's
// decompressed payload.
type DirectoryNode struct {
	Name   string `json:"name"`
	Offset uint64 `json:"offset"`
	Size   uint64 `json:"size"`
	Flags  uint32 `json:"flags"`
}

// Bytes returns n's slice of payload, failing OutOfRange if the node's
// declared range doesn't fit.
func (n *DirectoryNode) Bytes(payload []byte) ([]byte, error) {
	if n.Offset > uint64(len(payload)) || n.Size > uint64(len(payload))-n.Offset {
		return nil, wrapErr(KindOutOfRange, "directory node range exceeds payload", ErrOutsideBoundary)
	}
	return payload[n.Offset : n.Offset+n.Size], nil
}

// looksLikeSerializedFile reports whether a directory node's name has no
// extension, or ends in .assets/.unity — the set the bundle loop hands to
// the serialized-file parser.
func looksLikeSerializedFile(name string) bool {
	dot := -1
	for i := len(name) - 1; i >= 0; i-- {
		if name[i] == '.' {
			dot = i
			break
		}
		if name[i] == '/' {
			break
		}
	}
	if dot < 0 {
		return true
	}
	ext := name[dot:]
	return ext == ".assets" || ext == ".unity"
}
