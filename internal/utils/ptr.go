package utils

import "strings"

func Ptr[T any](v T) *T {
	return &v
}

func OrZero[T comparable](v *T) T {
	if v == nil {
		var zero T
		return zero
	}
	return *v
}

// StringOrNil trims s and returns nil when nothing is left.
func StringOrNil(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// FirstNonEmpty returns the first candidate with non-whitespace content, trimmed.
func FirstNonEmpty(candidates ...string) (string, bool) {
	for _, c := range candidates {
		if p := StringOrNil(c); p != nil {
			return *p, true
		}
	}
	return "", false
}
