package domain

import (
	"strconv"
	"strings"
	"unicode"
)

// ConfigVersion is a parsed dotted-integer version string such as "v0.10.0".
// It orders component-wise, left to right, with shorter sequences
// zero-padded before comparison so that "1.2" equals "1.2.0".
type ConfigVersion []int

// ParseConfigVersion parses a version string into a ConfigVersion.
// A leading non-digit prefix (e.g. "v") is stripped. A malformed string
// (empty or non-integer component) parses as the lowest possible version
// rather than returning an error, so a corrupt stored marker forces a
// re-seed instead of crashing the service.
func ParseConfigVersion(s string) ConfigVersion {
	s = strings.TrimLeftFunc(s, func(r rune) bool { return !unicode.IsDigit(r) })
	if s == "" {
		return ConfigVersion{0}
	}

	parts := strings.Split(s, ".")
	v := make(ConfigVersion, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return ConfigVersion{0}
		}
		v = append(v, n)
	}
	return v
}

// Compare returns -1, 0, or 1 if v is less than, equal to, or greater
// than other.
func (v ConfigVersion) Compare(other ConfigVersion) int {
	n := len(v)
	if len(other) > n {
		n = len(other)
	}
	for i := 0; i < n; i++ {
		a, b := 0, 0
		if i < len(v) {
			a = v[i]
		}
		if i < len(other) {
			b = other[i]
		}
		if a != b {
			if a < b {
				return -1
			}
			return 1
		}
	}
	return 0
}

// Less reports whether v orders before other.
func (v ConfigVersion) Less(other ConfigVersion) bool {
	return v.Compare(other) < 0
}
