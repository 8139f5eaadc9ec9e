package config

import (
	"strconv"
	"strings"
	"unicode"
)

// aliasFallback replaces names that sanitize to nothing.
const aliasFallback = "host"

// SanitizeAlias turns arbitrary user text into a token safe to stand
// unquoted after a Host directive: whitespace runs become a single dash,
// comment/quote/wildcard characters are dropped, and an input that boils
// away entirely falls back to a generated placeholder. The one exception
// is the exact input "*", which names the defaults block and is kept.
//
// Sanitizing is deterministic and idempotent; collision handling against
// an existing record set is EnsureUniqueAlias's job.
func SanitizeAlias(name string) string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "*" {
		return "*"
	}

	var b strings.Builder
	lastDash := false
	for _, r := range trimmed {
		switch {
		case unicode.IsSpace(r):
			if !lastDash {
				b.WriteRune('-')
				lastDash = true
			}
		case r == '#' || r == '"' || r == '\'' || r == '*' || r == '?' || r == '!' || r == '=':
			// Dropped: comment marker, quoting, pattern characters, and
			// the Key=Value separator form.
		case unicode.IsControl(r):
			// Dropped.
		default:
			b.WriteRune(r)
			lastDash = r == '-'
		}
	}
	out := b.String()
	if out == "" {
		return aliasFallback
	}
	return out
}

// ValidateAlias rejects aliases that could not stand as a bare Host token
// or that would collide with pattern syntax. The wildcard alias "*" is
// allowed; it names the defaults block.
func ValidateAlias(alias string) error {
	if alias == "*" {
		return nil
	}
	if strings.TrimSpace(alias) == "" {
		return NewFieldError("host", "alias cannot be empty")
	}
	if strings.ContainsAny(alias, " \t\n\"'#=") {
		return NewFieldError("host", "alias cannot contain whitespace, quotes, '#' or '='")
	}
	if strings.ContainsAny(alias, "*?!") {
		return NewFieldError("host", "alias cannot contain wildcard characters")
	}
	return nil
}

// EnsureUniqueAlias sanitizes name and, if the result is already taken in
// doc, appends the lowest numeric suffix that frees it ("web" → "web-2").
// Two distinct labels that sanitize identically therefore never produce
// two Host blocks with the same alias.
func EnsureUniqueAlias(doc *Document, name string) string {
	base := SanitizeAlias(name)
	if base == "*" || !doc.HasAlias(base) {
		return base
	}
	for i := 2; ; i++ {
		candidate := base + "-" + strconv.Itoa(i)
		if !doc.HasAlias(candidate) {
			return candidate
		}
	}
}
