// Copyright 2026 The unityasset Authors.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package unityasset

import "testing"

func TestTextureFormatTotalEnum(t *testing.T) {
	for id, name := range textureFormatNames {
		if got := id.String(); got != name {
			t.Errorf("TextureFormat(%d).String() = %q, want %q", id, got, name)
		}
	}
	if got := TextureFormat(9999).String(); got != "Unknown" {
		t.Errorf("TextureFormat(9999).String() = %q, want Unknown", got)
	}
}

func TestDataSizeUncompressed(t *testing.T) {
	tests := []struct {
		format TextureFormat
		w, h   int
		want   int
	}{
		{TextureFormatRGBA32, 4, 4, 4 * 4 * 32 / 8},
		{TextureFormatRGB24, 2, 2, 2 * 2 * 24 / 8},
		{TextureFormatAlpha8, 8, 8, 8 * 8 * 8 / 8},
	}
	for _, tc := range tests {
		got, err := DataSize(tc.format, tc.w, tc.h)
		if err != nil {
			t.Fatalf("DataSize(%v, %d, %d) = %v", tc.format, tc.w, tc.h, err)
		}
		if got != tc.want {
			t.Errorf("DataSize(%v, %d, %d) = %d, want %d", tc.format, tc.w, tc.h, got, tc.want)
		}
	}
}

func TestDataSizeBlockCompressed(t *testing.T) {
	tests := []struct {
		format TextureFormat
		w, h   int
		want   int
	}{
		{TextureFormatDXT1, 4, 4, 8},
		{TextureFormatDXT1, 5, 5, 2 * 2 * 8}, // ceil(5/4)=2
		{TextureFormatDXT5, 4, 4, 16},
		{TextureFormatETC2_RGB, 8, 8, 2 * 2 * 8},
		{TextureFormatETC2_RGBA8, 8, 8, 2 * 2 * 16},
		{TextureFormatASTC_4x4, 4, 4, 16},
	}
	for _, tc := range tests {
		got, err := DataSize(tc.format, tc.w, tc.h)
		if err != nil {
			t.Fatalf("DataSize(%v, %d, %d) = %v", tc.format, tc.w, tc.h, err)
		}
		if got != tc.want {
			t.Errorf("DataSize(%v, %d, %d) = %d, want %d", tc.format, tc.w, tc.h, got, tc.want)
		}
	}
}

func TestDecodeImageRGBA32Idempotent(t *testing.T) {
	raw := []byte{
		255, 0, 0, 255, 0, 255, 0, 255,
		0, 0, 255, 255, 255, 255, 255, 128,
	}
	img, err := DecodeImage(raw, TextureFormatRGBA32, 2, 2)
	if err != nil {
		t.Fatalf("DecodeImage() = %v", err)
	}
	if string(img.Pixels) != string(raw) {
		t.Errorf("DecodeImage(RGBA32) = %v, want %v", img.Pixels, raw)
	}
}

func TestDecodeImageRGB24ToRGBA8(t *testing.T) {
	raw := []byte{10, 20, 30, 40, 50, 60}
	img, err := DecodeImage(raw, TextureFormatRGB24, 2, 1)
	if err != nil {
		t.Fatalf("DecodeImage() = %v", err)
	}
	want := []byte{10, 20, 30, 255, 40, 50, 60, 255}
	if string(img.Pixels) != string(want) {
		t.Errorf("DecodeImage(RGB24) = %v, want %v", img.Pixels, want)
	}
}

func TestDecodeImageARGB32Permutation(t *testing.T) {
	// Four pixels, each (a,r,g,b).
	raw := []byte{
		255, 10, 20, 30,
		128, 40, 50, 60,
		0, 70, 80, 90,
		64, 100, 110, 120,
	}
	img, err := DecodeImage(raw, TextureFormatARGB32, 4, 1)
	if err != nil {
		t.Fatalf("DecodeImage() = %v", err)
	}
	want := []byte{
		10, 20, 30, 255,
		40, 50, 60, 128,
		70, 80, 90, 0,
		100, 110, 120, 64,
	}
	if string(img.Pixels) != string(want) {
		t.Errorf("DecodeImage(ARGB32) = %v, want %v", img.Pixels, want)
	}
}

func TestDecodeImageInvalidDimensions(t *testing.T) {
	if _, err := DecodeImage(nil, TextureFormatRGBA32, 0, 4); err == nil {
		t.Fatal("DecodeImage() with width=0 should fail")
	}
}

func TestDecodeImageInsufficientData(t *testing.T) {
	if _, err := DecodeImage([]byte{1, 2}, TextureFormatRGBA32, 4, 4); err == nil {
		t.Fatal("DecodeImage() with short input should fail")
	}
}

func TestDecodeImageUnsupportedFormat(t *testing.T) {
	if _, err := DecodeImage(make([]byte, 1024), TextureFormatPVRTC_RGB2, 16, 16); err == nil {
		t.Fatal("DecodeImage(PVRTC_RGB2) should fail Unsupported")
	}
}

func TestDecodeDXT1BlockOpaque(t *testing.T) {
	// c0 = c1 = pure red (0xF800), indices all zero -> opaque red block.
	block := []byte{0x00, 0xF8, 0x00, 0xF8, 0, 0, 0, 0}
	img, err := DecodeImage(block, TextureFormatDXT1, 4, 4)
	if err != nil {
		t.Fatalf("DecodeImage(DXT1) = %v", err)
	}
	for i := 0; i < 16; i++ {
		r, g, b, a := img.Pixels[i*4], img.Pixels[i*4+1], img.Pixels[i*4+2], img.Pixels[i*4+3]
		if r < 248 || g != 0 || b != 0 || a != 255 {
			t.Fatalf("pixel %d = (%d,%d,%d,%d), want opaque red", i, r, g, b, a)
		}
	}
}
