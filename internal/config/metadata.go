package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/treykane/sshdeck/internal/model"
)

// MetaPrefix namespaces the tool-private comment line carrying fields that
// have no native SSH config directive (label, sftp path). OpenSSH and
// plain-text editors see an ordinary comment; stripping the line leaves a
// valid, feature-reduced config.
const MetaPrefix = "#sshdeck:"

const (
	metaKeyLabel    = "label"
	metaKeySFTPPath = "sftp_path"
)

// formatMetaLine renders the #sshdeck: line for a record, or "" when the
// record carries no tool-private fields. Values are Go-quoted so spaces
// and quotes survive; unknown keys from newer versions are re-emitted
// after the known ones, in the order they were read.
func formatMetaLine(rec model.HostRecord) string {
	var pairs []string
	if rec.Label != "" {
		pairs = append(pairs, metaKeyLabel+"="+strconv.Quote(rec.Label))
	}
	if rec.SFTPPath != "" {
		pairs = append(pairs, metaKeySFTPPath+"="+strconv.Quote(rec.SFTPPath))
	}
	for _, extra := range rec.MetaExtra {
		pairs = append(pairs, extra.Name+"="+strconv.Quote(extra.Value))
	}
	if len(pairs) == 0 {
		return ""
	}
	return MetaPrefix + " " + strings.Join(pairs, " ")
}

// parseMetaLine decodes one #sshdeck: comment into the record. Known keys
// fill model fields; unknown keys are preserved in MetaExtra so a config
// written by a newer version round-trips without loss.
func parseMetaLine(line string, rec *model.HostRecord) error {
	body := strings.TrimSpace(strings.TrimPrefix(line, MetaPrefix))
	for body != "" {
		eq := strings.Index(body, "=")
		if eq <= 0 {
			return fmt.Errorf("malformed metadata near %q", body)
		}
		key := strings.TrimSpace(body[:eq])
		rest := body[eq+1:]

		var value string
		if strings.HasPrefix(rest, `"`) {
			quoted, err := quotedPrefix(rest)
			if err != nil {
				return fmt.Errorf("malformed metadata value for %q", key)
			}
			value, err = strconv.Unquote(quoted)
			if err != nil {
				return fmt.Errorf("malformed metadata value for %q", key)
			}
			rest = rest[len(quoted):]
		} else {
			// Bare value: runs to the next space.
			if i := strings.IndexAny(rest, " \t"); i >= 0 {
				value, rest = rest[:i], rest[i:]
			} else {
				value, rest = rest, ""
			}
		}

		switch key {
		case metaKeyLabel:
			rec.Label = value
		case metaKeySFTPPath:
			rec.SFTPPath = value
		default:
			rec.MetaExtra = append(rec.MetaExtra, model.Option{Name: key, Value: value})
		}
		body = strings.TrimSpace(rest)
	}
	return nil
}

// quotedPrefix returns the leading Go-quoted string of s, quotes included.
func quotedPrefix(s string) (string, error) {
	for i := 1; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '"':
			return s[:i+1], nil
		}
	}
	return "", fmt.Errorf("unterminated quote")
}
