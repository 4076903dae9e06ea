// version_test.go: loose version ordering tests
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package pluginfactory

import (
	"reflect"
	"testing"
)

// TestLooseVersionCompare tests ordering across numeric, text and mixed
// component comparisons
func TestLooseVersionCompare(t *testing.T) {
	cases := []struct {
		left, right string
		want        int
	}{
		{"1.0", "1.0", 0},
		{"1.0", "1.00", 0},
		{"1.2", "1.10", -1},
		{"1.10", "1.2", 1},
		{"2.0", "1.10", 1},
		{"1.0", "1.0.1", -1},
		{"1.0a", "1.0b", -1},
		{"1.0.1", "1.0b", -1}, // numeric orders before text
		{"2.0b1", "2.0b2", -1},
		{"3", "2.9.9", 1},
		{"", "0", -1},
		{"1-2-3", "1.2.3", 0}, // separators are interchangeable
		{"1_2", "1.2", 0},
	}

	for _, tc := range cases {
		got := ParseLooseVersion(tc.left).Compare(ParseLooseVersion(tc.right))
		if got != tc.want {
			t.Errorf("Compare(%q, %q) = %d, want %d", tc.left, tc.right, got, tc.want)
		}
	}
}

// TestLooseVersionLess tests the strict ordering helper
func TestLooseVersionLess(t *testing.T) {
	if !ParseLooseVersion("1.2").Less(ParseLooseVersion("1.10")) {
		t.Error("expected 1.2 < 1.10")
	}
	if ParseLooseVersion("2.0").Less(ParseLooseVersion("1.10")) {
		t.Error("expected 2.0 >= 1.10")
	}
}

// TestLooseVersionString tests that the original string survives parsing
func TestLooseVersionString(t *testing.T) {
	original := "2.0-beta_7"
	if got := ParseLooseVersion(original).String(); got != original {
		t.Errorf("String() = %q, want %q", got, original)
	}
}

// TestSortVersionStrings tests ascending loose ordering of raw strings
func TestSortVersionStrings(t *testing.T) {
	versions := []string{"1.10", "2.0", "1.2"}
	sortVersionStrings(versions)

	want := []string{"1.2", "1.10", "2.0"}
	if !reflect.DeepEqual(versions, want) {
		t.Errorf("sorted = %v, want %v", versions, want)
	}

	if highest := versions[len(versions)-1]; highest != "2.0" {
		t.Errorf("highest = %q, want %q", highest, "2.0")
	}
}

// TestSortVersionStringsDeterministic tests the tiebreak on equal loose
// versions
func TestSortVersionStringsDeterministic(t *testing.T) {
	versions := []string{"1.00", "1.0"}
	sortVersionStrings(versions)

	want := []string{"1.0", "1.00"}
	if !reflect.DeepEqual(versions, want) {
		t.Errorf("sorted = %v, want %v", versions, want)
	}
}

// TestParseLooseVersionHugeNumber tests that oversized digit runs do not
// break parsing
func TestParseLooseVersionHugeNumber(t *testing.T) {
	huge := "99999999999999999999999999.1"
	parsed := ParseLooseVersion(huge)
	if parsed.String() != huge {
		t.Errorf("String() = %q, want %q", parsed.String(), huge)
	}
	// Equal to itself, ordered after a plain numeric component.
	if parsed.Compare(ParseLooseVersion(huge)) != 0 {
		t.Error("expected huge version to equal itself")
	}
	if ParseLooseVersion("1.0").Compare(parsed) != -1 {
		t.Error("expected numeric component to order before text fallback")
	}
}
