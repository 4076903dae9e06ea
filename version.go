// version.go: loose dotted-component version ordering
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package pluginfactory

import (
	"sort"
	"strconv"
	"strings"
)

// LooseVersion is a permissive version value with a total ordering.
//
// The string is split into numeric and alphanumeric components: runs of
// digits become numeric components, runs of letters become text
// components, and '.', '-' and '_' act as separators. Comparison walks
// the components left to right: numeric components compare numerically,
// text components compare lexically, and on a mixed comparison the
// numeric component orders first. When one version is a prefix of the
// other the shorter one orders first.
//
// This deliberately mirrors permissive "loose" version semantics rather
// than strict semantic versioning, so inputs like "1.10", "2.0b1" or
// "3" all parse and order predictably:
//
//	ParseLooseVersion("1.10").Compare(ParseLooseVersion("1.2")) // > 0
type LooseVersion struct {
	original   string
	components []versionComponent
}

// versionComponent is one parsed element of a loose version string.
// Exactly one of number/text is meaningful, selected by numeric.
type versionComponent struct {
	numeric bool
	number  uint64
	text    string
}

// ParseLooseVersion parses a version string into its ordered components.
// Parsing is permissive and never fails; an empty string yields a version
// with no components, which orders before everything else.
func ParseLooseVersion(version string) LooseVersion {
	parsed := LooseVersion{original: version}

	var run strings.Builder
	runNumeric := false

	flush := func() {
		if run.Len() == 0 {
			return
		}
		parsed.components = append(parsed.components, makeComponent(run.String(), runNumeric))
		run.Reset()
	}

	for _, r := range version {
		switch {
		case r == '.' || r == '-' || r == '_':
			flush()
		case r >= '0' && r <= '9':
			if run.Len() > 0 && !runNumeric {
				flush()
			}
			runNumeric = true
			run.WriteRune(r)
		default:
			if run.Len() > 0 && runNumeric {
				flush()
			}
			runNumeric = false
			run.WriteRune(r)
		}
	}
	flush()

	return parsed
}

func makeComponent(value string, numeric bool) versionComponent {
	if numeric {
		// Digit runs longer than a uint64 fall back to text comparison.
		if n, err := strconv.ParseUint(value, 10, 64); err == nil {
			return versionComponent{numeric: true, number: n}
		}
	}
	return versionComponent{text: value}
}

// Compare returns -1, 0 or 1 ordering v against other.
func (v LooseVersion) Compare(other LooseVersion) int {
	limit := len(v.components)
	if len(other.components) < limit {
		limit = len(other.components)
	}

	for i := 0; i < limit; i++ {
		if result := v.components[i].compare(other.components[i]); result != 0 {
			return result
		}
	}

	// Identical prefixes: the shorter sequence orders first.
	switch {
	case len(v.components) < len(other.components):
		return -1
	case len(v.components) > len(other.components):
		return 1
	default:
		return 0
	}
}

// Less reports whether v orders strictly before other.
func (v LooseVersion) Less(other LooseVersion) bool {
	return v.Compare(other) < 0
}

// String returns the original, unmodified version string.
func (v LooseVersion) String() string {
	return v.original
}

func (c versionComponent) compare(other versionComponent) int {
	if c.numeric && other.numeric {
		switch {
		case c.number < other.number:
			return -1
		case c.number > other.number:
			return 1
		default:
			return 0
		}
	}
	if c.numeric != other.numeric {
		// Numeric components order before text components.
		if c.numeric {
			return -1
		}
		return 1
	}
	return strings.Compare(c.text, other.text)
}

// sortVersionStrings sorts version strings ascending by loose ordering.
// Ties fall back to the original string so the order is deterministic.
func sortVersionStrings(versions []string) {
	sort.SliceStable(versions, func(i, j int) bool {
		result := ParseLooseVersion(versions[i]).Compare(ParseLooseVersion(versions[j]))
		if result != 0 {
			return result < 0
		}
		return versions[i] < versions[j]
	})
}
