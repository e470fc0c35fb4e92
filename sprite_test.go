// Copyright 2026 The unityasset Authors.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package unityasset

import "testing"

func TestExtractSpriteFlipsVerticalOrigin(t *testing.T) {
	// 4x4 texture, each row filled with a distinct value so we can tell
	// which row ended up where.
	tex := &Image{Width: 4, Height: 4, Pixels: make([]byte, 4*4*4)}
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			off := (y*4 + x) * 4
			tex.Pixels[off] = byte(y) // red channel carries row index
			tex.Pixels[off+3] = 255
		}
	}

	// Engine rect: bottom-left origin, (x=0,y=0,w=4,h=2) selects the
	// bottom two rows (image rows 2 and 3).
	sf := &SpriteFields{Rect: Rect{X: 0, Y: 0, W: 4, H: 2}}

	sub, err := ExtractSprite(sf, tex)
	if err != nil {
		t.Fatalf("ExtractSprite() = %v", err)
	}
	if sub.Width != 4 || sub.Height != 2 {
		t.Fatalf("ExtractSprite() dims = %dx%d, want 4x2", sub.Width, sub.Height)
	}
	// Image row 0 of the sub-image should be texture row 2 (bottom-origin
	// rect starting at y=0 maps to the last rows of the top-left image).
	if sub.Pixels[0] != 2 {
		t.Errorf("sub-image row 0 red channel = %d, want 2", sub.Pixels[0])
	}
	row1Offset := sub.Width * 4
	if sub.Pixels[row1Offset] != 3 {
		t.Errorf("sub-image row 1 red channel = %d, want 3", sub.Pixels[row1Offset])
	}
}

func TestExtractSpriteOutOfRange(t *testing.T) {
	tex := &Image{Width: 4, Height: 4, Pixels: make([]byte, 4*4*4)}
	sf := &SpriteFields{Rect: Rect{X: 0, Y: 0, W: 100, H: 100}}
	if _, err := ExtractSprite(sf, tex); err == nil {
		t.Fatal("ExtractSprite() with an oversized rect should fail")
	}
}
