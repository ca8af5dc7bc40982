package common

import "strings"

// NormalizeKey lowercases and trims s so that "Paris" and "  paris " share a cache key.
func NormalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// FirstNonEmpty returns the first value that is not blank, or def if none is.
func FirstNonEmpty(def string, values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return def
}
