// Package utils provides small helpers for reading query parameters. They
// hold no domain logic.
package utils

import "strconv"

// AtoiDefault converts s with strconv.Atoi, returning def when s is empty or
// not an integer.
//
//	n := utils.AtoiDefault("42", 0) // 42
//	n = utils.AtoiDefault("", 10)   // 10
//	n = utils.AtoiDefault("x", 5)   // 5
func AtoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return def
}

// ClampInt returns def when n < lo and hi when n > hi.
func ClampInt(n, lo, hi, def int) int {
	if n < lo {
		return def
	}
	if n > hi {
		return hi
	}
	return n
}
