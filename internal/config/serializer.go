package config

import (
	"fmt"
	"strings"

	"github.com/treykane/sshdeck/internal/model"
)

// Serialize regenerates complete config text from a document. Directive
// order and whitespace are normalized to the canonical form below; the
// compatibility guarantee is semantic (same aliases resolve to the same
// effective options), not byte-exact. Everything captured at parse time
// (preamble, passthrough directives, in-block comments) reappears.
func Serialize(doc Document) string {
	var b strings.Builder
	if len(doc.Preamble) > 0 {
		for _, line := range doc.Preamble {
			b.WriteString(line)
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	for _, rec := range doc.Records {
		b.WriteString(FormatHostBlock(rec))
		b.WriteString("\n")
	}
	return b.String()
}

// FormatHostBlock renders one record as a Host block: comment line(s),
// tool metadata, the Host line, then directives in canonical order
// (HostName, User, Port, IdentityFile, ProxyJump, ForwardAgent,
// passthrough options in stored order). Empty fields emit nothing.
func FormatHostBlock(rec model.HostRecord) string {
	var b strings.Builder

	for _, line := range commentLines(rec.Comment) {
		b.WriteString(line)
		b.WriteString("\n")
	}
	if meta := formatMetaLine(rec); meta != "" {
		b.WriteString(meta)
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "Host %s\n", rec.Host)
	if rec.HostName != "" {
		fmt.Fprintf(&b, "  HostName %s\n", rec.HostName)
	}
	if rec.User != "" {
		fmt.Fprintf(&b, "  User %s\n", rec.User)
	}
	if rec.Port != 0 {
		fmt.Fprintf(&b, "  Port %d\n", rec.Port)
	}
	if rec.IdentityFile != "" {
		fmt.Fprintf(&b, "  IdentityFile %s\n", rec.IdentityFile)
	}
	if rec.ProxyJump != "" {
		fmt.Fprintf(&b, "  ProxyJump %s\n", rec.ProxyJump)
	}
	if rec.ForwardAgent != nil {
		fmt.Fprintf(&b, "  ForwardAgent %s\n", yesNo(*rec.ForwardAgent))
	}
	for _, opt := range rec.Options {
		if opt.Name == rawLineOption {
			fmt.Fprintf(&b, "  %s\n", opt.Value)
			continue
		}
		fmt.Fprintf(&b, "  %s %s\n", opt.Name, opt.Value)
	}
	return b.String()
}

// commentLines normalizes a record comment to "# "-prefixed lines. Lines
// already carrying a marker are kept as-is.
func commentLines(comment string) []string {
	if strings.TrimSpace(comment) == "" {
		return nil
	}
	var out []string
	for _, line := range strings.Split(comment, "\n") {
		line = strings.TrimRight(line, " \t")
		if line == "" {
			out = append(out, "#")
			continue
		}
		if !strings.HasPrefix(line, "#") {
			line = "# " + line
		}
		out = append(out, line)
	}
	return out
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
