// Copyright 2026 The unityasset Authors.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package unityasset

import "testing"

func TestParseEngineVersionRoundTrip(t *testing.T) {
	tests := []string{
		"5.6.7f1", "2017.2.0p1", "2018.1.1f1", "2018.1.1f2", "2018.1.2f2",
		"2018.2.1f2", "2020.3.12f1", "2021.1.0c1", "2022.2.0x1",
	}
	for _, s := range tests {
		v, err := ParseEngineVersion(s)
		if err != nil {
			t.Fatalf("ParseEngineVersion(%q) = %v", s, err)
		}
		if got := v.String(); got != s {
			t.Errorf("ParseEngineVersion(%q).String() = %q, want %q", s, got, s)
		}
	}
}

func TestParseEngineVersionMalformed(t *testing.T) {
	tests := []string{"", "5", "5.6", "5.6.x7", "5.6.7z1", "5.6.7f"}
	for _, s := range tests {
		if _, err := ParseEngineVersion(s); err == nil {
			t.Errorf("ParseEngineVersion(%q) succeeded, want error", s)
		}
	}
}

func TestEngineVersionCompare(t *testing.T) {
	order := []string{
		"5.6.7f1", "2017.2.0p1", "2018.1.1f1", "2018.1.1f2", "2018.1.2f2",
		"2018.2.1f2", "2020.3.12f1", "2021.1.0c1", "2022.2.0x1",
	}

	parsed := make([]EngineVersion, len(order))
	for i, s := range order {
		v, err := ParseEngineVersion(s)
		if err != nil {
			t.Fatalf("parse %q: %v", s, err)
		}
		parsed[i] = v
	}

	for i := 0; i < len(parsed); i++ {
		for j := 0; j < len(parsed); j++ {
			got := parsed[i].Compare(parsed[j])
			var want int
			switch {
			case i < j:
				want = -1
			case i > j:
				want = 1
			default:
				want = 0
			}
			if (got < 0 && want != -1) || (got > 0 && want != 1) || (got == 0 && want != 0) {
				t.Errorf("Compare(%s, %s) = %d, want sign %d", order[i], order[j], got, want)
			}
		}
	}
}

func TestSuffixOrdering(t *testing.T) {
	// a < b < f < p < c < x
	order := []string{"1.0.0a1", "1.0.0b1", "1.0.0f1", "1.0.0p1", "1.0.0c1", "1.0.0x1"}
	var parsed []EngineVersion
	for _, s := range order {
		v, err := ParseEngineVersion(s)
		if err != nil {
			t.Fatalf("parse %q: %v", s, err)
		}
		parsed = append(parsed, v)
	}
	for i := 0; i+1 < len(parsed); i++ {
		if !parsed[i].Less(parsed[i+1]) {
			t.Errorf("%s should sort before %s", order[i], order[i+1])
		}
	}
}

func TestEngineVersionAtLeast(t *testing.T) {
	v, err := ParseEngineVersion("2018.1.1f1")
	if err != nil {
		t.Fatal(err)
	}
	if !v.AtLeast(2017, 3) {
		t.Error("2018.1 should be at least 2017.3")
	}
	if v.AtLeast(2018, 2) {
		t.Error("2018.1 should not be at least 2018.2")
	}
	if !v.AtLeast(2018, 1) {
		t.Error("2018.1 should be at least 2018.1")
	}
}
