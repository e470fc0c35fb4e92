// Copyright 2026 The unityasset Authors.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package unityasset

import (
	"fmt"
	"strconv"
	"strings"
)

// suffixRank orders release-channel suffixes for comparison. The engine
// never documents this permutation; it is fixed by observed release
// ordering and must not be re-derived from "alphabetical" or any other
// guess.
var suffixRank = map[byte]int{
	'a': 0, // alpha
	'b': 1, // beta
	'f': 2, // final/release
	'p': 3, // patch
	'c': 4, // china/custom
	'x': 5, // experimental
}

// EngineVersion is a parsed `major.minor.patch{suffix}{n}` engine version
// string, e.g. "2021.1.0c1". Comparisons use ordered lexicographic
// comparison on the 5-tuple (major, minor, patch, suffixRank, typeNumber).
type EngineVersion struct {
	Major      uint16 `json:"major"`
	Minor      uint16 `json:"minor"`
	Patch      uint16 `json:"patch"`
	Suffix     byte   `json:"suffix,omitempty"`
	TypeNumber uint8  `json:"type_number,omitempty"`
	hasSuffix  bool
}

// ParseEngineVersion parses a string of the form
// MAJOR.MINOR.PATCH[<char><n>] where <char> is one of a,b,f,p,c,x.
func ParseEngineVersion(s string) (EngineVersion, error) {
	var v EngineVersion

	dot1 := strings.IndexByte(s, '.')
	if dot1 < 0 {
		return v, wrapErr(KindParseVersion, "missing '.' after major", nil)
	}
	rest := s[dot1+1:]
	dot2 := strings.IndexByte(rest, '.')
	if dot2 < 0 {
		return v, wrapErr(KindParseVersion, "missing '.' after minor", nil)
	}

	majorStr := s[:dot1]
	minorStr := rest[:dot2]
	tail := rest[dot2+1:]

	// tail is PATCH followed by an optional <char><digits> suffix.
	splitAt := len(tail)
	for i, c := range tail {
		if _, ok := suffixRank[byte(c)]; ok {
			splitAt = i
			break
		}
	}
	patchStr := tail[:splitAt]
	suffixStr := tail[splitAt:]

	major, err := strconv.ParseUint(majorStr, 10, 16)
	if err != nil {
		return v, wrapErr(KindParseVersion, "invalid major component", err)
	}
	minor, err := strconv.ParseUint(minorStr, 10, 16)
	if err != nil {
		return v, wrapErr(KindParseVersion, "invalid minor component", err)
	}
	patch, err := strconv.ParseUint(patchStr, 10, 16)
	if err != nil {
		return v, wrapErr(KindParseVersion, "invalid patch component", err)
	}

	v.Major = uint16(major)
	v.Minor = uint16(minor)
	v.Patch = uint16(patch)

	if suffixStr != "" {
		v.Suffix = suffixStr[0]
		if _, ok := suffixRank[v.Suffix]; !ok {
			return EngineVersion{}, wrapErr(KindParseVersion, "unrecognized suffix char", nil)
		}
		v.hasSuffix = true
		numStr := suffixStr[1:]
		if numStr == "" {
			return EngineVersion{}, wrapErr(KindParseVersion, "suffix missing type number", nil)
		}
		n, err := strconv.ParseUint(numStr, 10, 8)
		if err != nil {
			return EngineVersion{}, wrapErr(KindParseVersion, "invalid suffix type number", err)
		}
		v.TypeNumber = uint8(n)
	}

	return v, nil
}

// String renders the version back to MAJOR.MINOR.PATCH[<char><n>] form,
// the inverse of ParseEngineVersion.
func (v EngineVersion) String() string {
	s := fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
	if v.hasSuffix {
		s += fmt.Sprintf("%c%d", v.Suffix, v.TypeNumber)
	}
	return s
}

// tuple returns the 5-component comparison key.
func (v EngineVersion) tuple() (uint16, uint16, uint16, int, uint8) {
	rank := -1
	if v.hasSuffix {
		rank = suffixRank[v.Suffix]
	}
	return v.Major, v.Minor, v.Patch, rank, v.TypeNumber
}

// Compare returns -1, 0, or 1 as v is less than, equal to, or greater
// than other, per the ordered 5-tuple rule.
func (v EngineVersion) Compare(other EngineVersion) int {
	am, an, ap, ar, at := v.tuple()
	bm, bn, bp, br, bt := other.tuple()

	for _, pair := range [][2]int{
		{int(am), int(bm)},
		{int(an), int(bn)},
		{int(ap), int(bp)},
		{ar, br},
		{int(at), int(bt)},
	} {
		if pair[0] < pair[1] {
			return -1
		}
		if pair[0] > pair[1] {
			return 1
		}
	}
	return 0
}

// Less reports whether v sorts before other.
func (v EngineVersion) Less(other EngineVersion) bool { return v.Compare(other) < 0 }

// AtLeast reports whether v is greater than or equal to major.minor
// (patch/suffix ignored), the common "feature gate" query used throughout
// the bundle, serialized-file, and texture/audio field parsers.
func (v EngineVersion) AtLeast(major, minor uint16) bool {
	if v.Major != major {
		return v.Major > major
	}
	return v.Minor >= minor
}
