// Copyright 2026 The unityasset Authors.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package unityasset

import "fmt"

// classNames is the fixed class_id -> class_name table.
// It covers the well-known engine classes; anything missing falls back to
// UnityClass_<id> rather than failing.
var classNames = map[int32]string{
	1:         "GameObject",
	4:         "Transform",
	21:        "Material",
	25:        "Renderer",
	28:        "Texture2D",
	33:        "MeshFilter",
	43:        "Mesh",
	48:        "Shader",
	54:        "Rigidbody",
	82:        "AudioSource",
	83:        "AudioClip",
	108:       "Light",
	111:       "Animation",
	114:       "MonoBehaviour",
	115:       "MonoScript",
	128:       "Font",
	137:       "SkinnedMeshRenderer",
	142:       "AssetBundle",
	150:       "PreloadData",
	213:       "Sprite",
	224:       "RectTransform",
	687078895: "SpriteAtlas",
}

// classIDs is the inverse of classNames, built once at init.
var classIDs map[string]int32

func init() {
	classIDs = make(map[string]int32, len(classNames))
	for id, name := range classNames {
		classIDs[name] = id
	}
}

// ClassName returns the symbolic name for id, or UnityClass_<id> if id is
// not in the fixed table.
func ClassName(id int32) string {
	if name, ok := classNames[id]; ok {
		return name
	}
	return fmt.Sprintf("UnityClass_%d", id)
}

// ClassID returns the numeric id for a symbolic class name and whether it
// was found in the fixed table. It does not parse the UnityClass_<id>
// fallback form; callers holding only a fallback name already have the id.
func ClassID(name string) (int32, bool) {
	id, ok := classIDs[name]
	return id, ok
}
