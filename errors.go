// Copyright 2026 The unityasset Authors.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package unityasset

import (
	"errors"
	"fmt"
)

// Kind discriminates the error taxonomy a caller may match on. Every
// decoder in this module returns an *Error wrapping one of these kinds
// instead of a bare error, so calling code can branch with errors.Is/As
// without parsing message text.
type Kind int

// Error kinds.
const (
	KindInvalidSignature Kind = iota
	KindUnsupportedVersion
	KindUnsupportedCompression
	KindUnsupportedFormat
	KindCorrupt
	KindOutOfRange
	KindInsufficientData
	KindInvalidDimensions
	KindInvalidAudioProperties
	KindMissingStreamingResource
	KindDuplicateKey
	KindIntegrityCheck
	KindParseVersion
)

func (k Kind) String() string {
	switch k {
	case KindInvalidSignature:
		return "InvalidSignature"
	case KindUnsupportedVersion:
		return "UnsupportedVersion"
	case KindUnsupportedCompression:
		return "UnsupportedCompression"
	case KindUnsupportedFormat:
		return "UnsupportedFormat"
	case KindCorrupt:
		return "Corrupt"
	case KindOutOfRange:
		return "OutOfRange"
	case KindInsufficientData:
		return "InsufficientData"
	case KindInvalidDimensions:
		return "InvalidDimensions"
	case KindInvalidAudioProperties:
		return "InvalidAudioProperties"
	case KindMissingStreamingResource:
		return "MissingStreamingResource"
	case KindDuplicateKey:
		return "DuplicateKey"
	case KindIntegrityCheck:
		return "IntegrityCheck"
	case KindParseVersion:
		return "ParseVersion"
	default:
		return "Unknown"
	}
}

// Error is the single error type every decoder in this module returns.
type Error struct {
	Kind   Kind
	Detail string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Detail, e.Err)
	}
	if e.Detail == "" {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target has the same Kind, so callers can write
// errors.Is(err, &Error{Kind: KindCorrupt}).
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return t.Kind == e.Kind
	}
	return false
}

func newErr(kind Kind, detail string) *Error {
	return &Error{Kind: kind, Detail: detail}
}

func wrapErr(kind Kind, detail string, err error) *Error {
	return &Error{Kind: kind, Detail: detail, Err: err}
}

// Sentinel errors for conditions that never carry extra detail.
var (
	// ErrInvalidSignature is returned when the first bytes of a buffer
	// don't match any known bundle or serialized-file shape.
	ErrInvalidSignature = newErr(KindInvalidSignature, "unrecognized container signature")

	// ErrOutsideBoundary is returned when a read would move past a
	// declared end (section data, object byte range, directory node range).
	ErrOutsideBoundary = newErr(KindOutOfRange, "read outside declared boundary")

	// ErrDuplicateKey is returned when a type-tree mapping would receive
	// the same key twice.
	ErrDuplicateKey = newErr(KindDuplicateKey, "duplicate key in ordered mapping")
)

// anomaly is a recoverable condition logged rather than returned: a
// bundle directory node whose range doesn't fit the payload, a single
// embedded file failing to parse inside an otherwise-good bundle, an
// object whose properties fail to interpret. Anomalies accumulate on the
// Document; they never abort parsing of sibling objects/files.
type anomaly struct {
	Message string `json:"message"`
	Err     error  `json:"error,omitempty"`
}

func (a anomaly) String() string {
	if a.Err != nil {
		return fmt.Sprintf("%s: %v", a.Message, a.Err)
	}
	return a.Message
}
