// Copyright 2026 The unityasset Authors.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package unityasset

import (
	"errors"
	"testing"
)

func TestParseBundleSignatureDispatch(t *testing.T) {
	t.Run("UnityArchive unsupported", func(t *testing.T) {
		data := append([]byte("UnityArchive"), 0x00)
		_, err := ParseBundle(data, nil)
		var uerr *Error
		if !errors.As(err, &uerr) || uerr.Kind != KindUnsupportedFormat {
			t.Fatalf("ParseBundle(UnityArchive) = %v, want KindUnsupportedFormat", err)
		}
	})

	t.Run("unknown signature", func(t *testing.T) {
		data := append([]byte("NotAUnityThing"), 0x00)
		_, err := ParseBundle(data, nil)
		if !errors.Is(err, ErrInvalidSignature) {
			t.Fatalf("ParseBundle(garbage) = %v, want ErrInvalidSignature", err)
		}
	})

	t.Run("empty buffer", func(t *testing.T) {
		_, err := ParseBundle(nil, nil)
		if err == nil {
			t.Fatal("ParseBundle(nil) should fail")
		}
	})
}

func TestDirectoryNodeBytes(t *testing.T) {
	payload := []byte{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}
	n := DirectoryNode{Offset: 2, Size: 4}
	b, err := n.Bytes(payload)
	if err != nil {
		t.Fatalf("Bytes() = %v", err)
	}
	want := []byte{2, 3, 4, 5}
	if string(b) != string(want) {
		t.Errorf("Bytes() = %v, want %v", b, want)
	}
}

func TestDirectoryNodeBytesOutOfRange(t *testing.T) {
	payload := []byte{0, 1, 2, 3}
	n := DirectoryNode{Offset: 2, Size: 10}
	if _, err := n.Bytes(payload); err == nil {
		t.Fatal("Bytes() should fail when offset+size exceeds payload")
	}
}

func TestLooksLikeSerializedFile(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"CAB-main", true},
		{"level0", true},
		{"globalgamemanagers.assets", true},
		{"mainData.unity", true},
		{"sharedassets0.resource", false},
		{"texture.resS", false},
	}
	for _, tc := range tests {
		if got := looksLikeSerializedFile(tc.name); got != tc.want {
			t.Errorf("looksLikeSerializedFile(%q) = %v, want %v", tc.name, got, tc.want)
		}
	}
}
