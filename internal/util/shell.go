package util

import "strings"

// EscapeToken quotes s so a POSIX shell reads it back as exactly one word.
//
// Tokens made only of letters, digits, and -_./:@ are returned unchanged.
// Everything else is wrapped in single quotes; an embedded single quote
// cannot appear inside single quotes, so each one is rewritten as '\''
// (close quote, escaped literal quote, reopen quote). The empty string
// escapes to a pair of single quotes so it survives as an argument at all.
func EscapeToken(s string) string {
	if s == "" {
		return "''"
	}
	if isShellSafe(s) {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

func isShellSafe(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
		case c == '-' || c == '_' || c == '.' || c == '/' || c == ':' || c == '@':
		default:
			return false
		}
	}
	return true
}
