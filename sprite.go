// Copyright 2026 The unityasset Authors.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package unityasset

import "fmt"

// Rect is an axis-aligned rectangle in the engine's bottom-left-origin
// coordinate space (as used by Sprite.rect).
type Rect struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
	W float32 `json:"w"`
	H float32 `json:"h"`
}

// Border is a nine-slice inset, {left, top, right, bottom}.
type Border struct {
	Left   float32 `json:"left"`
	Top    float32 `json:"top"`
	Right  float32 `json:"right"`
	Bottom float32 `json:"bottom"`
}

// SpriteFields is the parsed form of a Sprite object.
type SpriteFields struct {
	Name          string     `json:"name"`
	Rect          Rect       `json:"rect"`
	Offset        [2]float32 `json:"offset"`
	Border        Border     `json:"border"`
	PixelsToUnits float32    `json:"pixels_to_units"`
	Pivot         [2]float32 `json:"pivot"`
	Extrude       uint32     `json:"extrude"`
	IsPolygon     bool       `json:"is_polygon"`
	Texture       PPtr       `json:"texture"`
}

// SpriteFieldsFromObject extracts Sprite fields from an already-
// interpreted object's properties.
func SpriteFieldsFromObject(props *Mapping) (*SpriteFields, error) {
	sf := &SpriteFields{}

	if v, ok := props.Get("m_Name"); ok {
		if s, err := v.AsString(); err == nil {
			sf.Name = s
		}
	}

	if v, ok := props.Get("m_Rect"); ok {
		obj, err := v.AsObject()
		if err != nil {
			return nil, err
		}
		sf.Rect, err = rectFromObject(obj)
		if err != nil {
			return nil, err
		}
	}

	if v, ok := props.Get("m_Offset"); ok {
		obj, err := v.AsObject()
		if err == nil {
			sf.Offset = vec2FromObject(obj)
		}
	}

	if v, ok := props.Get("m_Border"); ok {
		obj, err := v.AsObject()
		if err == nil {
			r, _ := rectFromObject(obj)
			sf.Border = Border{Left: r.X, Top: r.Y, Right: r.W, Bottom: r.H}
		}
	}

	if v, ok := props.Get("m_PixelsToUnits"); ok {
		f, err := v.AsF64()
		if err == nil {
			sf.PixelsToUnits = float32(f)
		}
	}

	if v, ok := props.Get("m_Pivot"); ok {
		obj, err := v.AsObject()
		if err == nil {
			sf.Pivot = vec2FromObject(obj)
		}
	}

	if v, ok := props.Get("m_Extrude"); ok {
		n, err := v.AsI64()
		if err == nil {
			sf.Extrude = uint32(n)
		}
	}

	if v, ok := props.Get("m_IsPolygon"); ok {
		b, err := v.AsBool()
		if err == nil {
			sf.IsPolygon = b
		}
	}

	if v, ok := props.Get("m_RD"); ok {
		obj, err := v.AsObject()
		if err == nil {
			if texVal, ok := obj.Get("texture"); ok {
				if ptr, err := AsPPtr(texVal); err == nil {
					sf.Texture = ptr
				}
			}
		}
	}

	return sf, nil
}

func rectFromObject(obj *Mapping) (Rect, error) {
	x, _ := floatField(obj, "x")
	y, _ := floatField(obj, "y")
	w, _ := floatField(obj, "width")
	h, _ := floatField(obj, "height")
	return Rect{X: x, Y: y, W: w, H: h}, nil
}

func vec2FromObject(obj *Mapping) [2]float32 {
	x, _ := floatField(obj, "x")
	y, _ := floatField(obj, "y")
	return [2]float32{x, y}
}

func floatField(m *Mapping, key string) (float32, bool) {
	v, ok := m.Get(key)
	if !ok {
		return 0, false
	}
	f, err := v.AsF64()
	if err != nil {
		return 0, false
	}
	return float32(f), true
}

// ExtractSprite crops texture to sf's sub-rect, converting from the
// engine's bottom-left-origin rect to the top-left-origin image
// coordinate space.
func ExtractSprite(sf *SpriteFields, texture *Image) (*Image, error) {
	x := int(sf.Rect.X)
	w := int(sf.Rect.W)
	h := int(sf.Rect.H)
	yImage := texture.Height - int(sf.Rect.Y) - h

	if x < 0 || yImage < 0 || w <= 0 || h <= 0 || x+w > texture.Width || yImage+h > texture.Height {
		return nil, wrapErr(KindOutOfRange, fmt.Sprintf("sprite rect %+v outside texture %dx%d", sf.Rect, texture.Width, texture.Height), ErrOutsideBoundary)
	}

	out := &Image{Width: w, Height: h, Pixels: make([]byte, w*h*4)}
	for row := 0; row < h; row++ {
		srcY := yImage + row
		srcOff := (srcY*texture.Width + x) * 4
		dstOff := row * w * 4
		copy(out.Pixels[dstOff:dstOff+w*4], texture.Pixels[srcOff:srcOff+w*4])
	}
	return out, nil
}
