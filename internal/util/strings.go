// Package util provides common utility functions and constants used across
// the sshdeck application. This package is intentionally kept dependency-free
// (no imports from other internal/* packages) to serve as a shared foundation
// without introducing circular dependencies.
package util

import "strings"

// DefaultString returns the fallback value if v is empty or consists entirely
// of whitespace; otherwise it returns v unchanged.
//
// Examples:
//
//	DefaultString("hello", "world")  → "hello"   // non-empty → kept
//	DefaultString("",      "world")  → "world"   // empty → fallback
//	DefaultString("  ",    "world")  → "world"   // whitespace-only → fallback
func DefaultString(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}

// EmptyDash returns "-" if s is empty or consists entirely of whitespace;
// otherwise it returns s unchanged. Used by the CLI tables and TUI detail
// panel so an omitted optional field shows a visible placeholder.
func EmptyDash(s string) string {
	return DefaultString(s, "-")
}
