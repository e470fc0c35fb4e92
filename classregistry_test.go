// Copyright 2026 The unityasset Authors.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package unityasset

import (
	"fmt"
	"testing"
)

func TestClassRegistryInverses(t *testing.T) {
	for id, name := range classNames {
		gotName := ClassName(id)
		if gotName != name {
			t.Errorf("ClassName(%d) = %q, want %q", id, gotName, name)
		}
		gotID, ok := ClassID(name)
		if !ok {
			t.Errorf("ClassID(%q) not found", name)
			continue
		}
		if gotID != id {
			t.Errorf("ClassID(%q) = %d, want %d", name, gotID, id)
		}
	}
}

func TestClassNameFallback(t *testing.T) {
	const unknownID int32 = 999999
	got := ClassName(unknownID)
	want := fmt.Sprintf("UnityClass_%d", unknownID)
	if got != want {
		t.Errorf("ClassName(%d) = %q, want %q", unknownID, got, want)
	}
}

func TestClassIDUnknownName(t *testing.T) {
	if _, ok := ClassID("NotARealClass"); ok {
		t.Error("ClassID for unknown name should report not-found")
	}
}

func TestWellKnownClassIDs(t *testing.T) {
	tests := map[string]int32{
		"GameObject":  1,
		"Transform":   4,
		"Texture2D":   28,
		"Mesh":        43,
		"AudioClip":   83,
		"Sprite":      213,
		"SpriteAtlas": 687078895,
	}
	for name, id := range tests {
		if got := ClassName(id); got != name {
			t.Errorf("ClassName(%d) = %q, want %q", id, got, name)
		}
	}
}
