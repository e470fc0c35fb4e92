// Copyright 2026 The unityasset Authors.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package unityasset

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ValueKind discriminates the variant carried by a Value.
type ValueKind uint8

// Value variants.
const (
	KindNull ValueKind = iota
	KindBool
	KindInt
	KindUint
	KindFloat
	KindString
	KindBytes
	KindArray
	KindObject
)

// Value is a tagged union produced by the object interpreter.
// Exactly one of the typed fields is meaningful, selected by Kind.
type Value struct {
	Kind ValueKind

	boolVal   bool
	intVal    int64
	uintVal   uint64
	floatVal  float64
	bitWidth  uint8 // 8, 16, 32, or 64 for Int/Uint/Float
	stringVal string
	bytesVal  []byte
	arrayVal  []Value
	objectVal *Mapping
}

// NewNull returns the null value.
func NewNull() Value { return Value{Kind: KindNull} }

// NewBool wraps a bool.
func NewBool(b bool) Value { return Value{Kind: KindBool, boolVal: b} }

// NewInt wraps a signed integer of the given declared bit width (8/16/32/64).
func NewInt(v int64, bitWidth uint8) Value {
	return Value{Kind: KindInt, intVal: v, bitWidth: bitWidth}
}

// NewUint wraps an unsigned integer of the given declared bit width.
func NewUint(v uint64, bitWidth uint8) Value {
	return Value{Kind: KindUint, uintVal: v, bitWidth: bitWidth}
}

// NewFloat wraps an IEEE-754 value of the given declared bit width (32/64).
func NewFloat(v float64, bitWidth uint8) Value {
	return Value{Kind: KindFloat, floatVal: v, bitWidth: bitWidth}
}

// NewString wraps a UTF-8 string.
func NewString(s string) Value { return Value{Kind: KindString, stringVal: s} }

// NewBytes wraps a raw byte buffer.
func NewBytes(b []byte) Value { return Value{Kind: KindBytes, bytesVal: b} }

// NewArray wraps an ordered sequence of values.
func NewArray(vs []Value) Value { return Value{Kind: KindArray, arrayVal: vs} }

// NewObject wraps an ordered string->Value mapping.
func NewObject(m *Mapping) Value { return Value{Kind: KindObject, objectVal: m} }

// BitWidth returns the declared width of an Int/Uint/Float value.
func (v Value) BitWidth() uint8 { return v.bitWidth }

// AsBool returns the bool held by v, failing if v is not KindBool.
func (v Value) AsBool() (bool, error) {
	if v.Kind != KindBool {
		return false, wrapErr(KindOutOfRange, "value is not a bool", nil)
	}
	return v.boolVal, nil
}

// AsI64 widens/narrows v to an int64, accepting Int, Uint (if it fits), or
// Bool (0/1).
func (v Value) AsI64() (int64, error) {
	switch v.Kind {
	case KindInt:
		return v.intVal, nil
	case KindUint:
		if v.uintVal > 1<<63-1 {
			return 0, newErr(KindOutOfRange, "unsigned value overflows int64")
		}
		return int64(v.uintVal), nil
	case KindBool:
		if v.boolVal {
			return 1, nil
		}
		return 0, nil
	default:
		return 0, newErr(KindOutOfRange, "value is not an integer")
	}
}

// AsF64 widens v to a float64, accepting Float, Int, or Uint.
func (v Value) AsF64() (float64, error) {
	switch v.Kind {
	case KindFloat:
		return v.floatVal, nil
	case KindInt:
		return float64(v.intVal), nil
	case KindUint:
		return float64(v.uintVal), nil
	default:
		return 0, newErr(KindOutOfRange, "value is not a number")
	}
}

// AsString returns the string held by v.
func (v Value) AsString() (string, error) {
	if v.Kind != KindString {
		return "", newErr(KindOutOfRange, "value is not a string")
	}
	return v.stringVal, nil
}

// AsBytes returns the byte buffer held by v.
func (v Value) AsBytes() ([]byte, error) {
	if v.Kind != KindBytes {
		return nil, newErr(KindOutOfRange, "value is not a byte buffer")
	}
	return v.bytesVal, nil
}

// AsArray returns the element sequence held by v.
func (v Value) AsArray() ([]Value, error) {
	if v.Kind != KindArray {
		return nil, newErr(KindOutOfRange, "value is not an array")
	}
	return v.arrayVal, nil
}

// AsObject returns the ordered mapping held by v.
func (v Value) AsObject() (*Mapping, error) {
	if v.Kind != KindObject {
		return nil, newErr(KindOutOfRange, "value is not an object")
	}
	return v.objectVal, nil
}

// MarshalJSON renders v as the plain JSON value its Kind carries, so a
// Document built from this package serializes the way a caller expects
// rather than exposing the tagged-union's internal shape.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindNull:
		return []byte("null"), nil
	case KindBool:
		return json.Marshal(v.boolVal)
	case KindInt:
		return json.Marshal(v.intVal)
	case KindUint:
		return json.Marshal(v.uintVal)
	case KindFloat:
		return json.Marshal(v.floatVal)
	case KindString:
		return json.Marshal(v.stringVal)
	case KindBytes:
		return json.Marshal(v.bytesVal)
	case KindArray:
		return json.Marshal(v.arrayVal)
	case KindObject:
		return json.Marshal(v.objectVal)
	default:
		return []byte("null"), nil
	}
}

// Mapping is an insertion-order-preserving string->Value map that rejects
// duplicate keys, used for every object-shaped Value and for UnityClass
// properties.
type Mapping struct {
	keys   []string
	values map[string]Value
}

// NewMapping returns an empty ordered mapping.
func NewMapping() *Mapping {
	return &Mapping{values: make(map[string]Value)}
}

// Set inserts key/val, failing KindDuplicateKey if key is already present.
func (m *Mapping) Set(key string, val Value) error {
	if _, exists := m.values[key]; exists {
		return wrapErr(KindDuplicateKey, fmt.Sprintf("duplicate key %q", key), ErrDuplicateKey)
	}
	m.keys = append(m.keys, key)
	m.values[key] = val
	return nil
}

// Get returns the value for key and whether it was present.
func (m *Mapping) Get(key string) (Value, bool) {
	v, ok := m.values[key]
	return v, ok
}

// MarshalJSON renders m as a JSON object with keys in insertion order,
// which encoding/json cannot do for a plain Go map.
func (m *Mapping) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(m.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Keys returns the keys in insertion order.
func (m *Mapping) Keys() []string { return m.keys }

// Len returns the number of entries.
func (m *Mapping) Len() int { return len(m.keys) }
