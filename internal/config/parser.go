package config

import (
	"bufio"
	"strconv"
	"strings"

	"github.com/treykane/sshdeck/internal/model"
	"github.com/treykane/sshdeck/internal/util"
)

// rawLineOption is the Option name under which verbatim lines (in-block
// comments, malformed directives) are carried so nothing is dropped.
const rawLineOption = "#"

// Parse turns SSH client config text into a Document. It never fails:
// malformed or unrecognized content degrades to verbatim preservation and
// a warning, so worst case is "opaque but intact".
func Parse(text string) Document {
	var (
		doc     Document
		cur     *model.HostRecord
		pending []string // comment lines that may belong to the next Host
	)

	// flushPending attaches buffered comment lines to wherever they
	// actually live: inside the current block, or the preamble. Called
	// whenever the next line turns out not to be a Host directive.
	flushPending := func() {
		for _, line := range pending {
			if cur != nil {
				cur.Options = append(cur.Options, model.Option{Name: rawLineOption, Value: line})
			} else {
				doc.Preamble = append(doc.Preamble, line)
			}
		}
		pending = nil
	}

	closeBlock := func() {
		if cur != nil {
			doc.Records = append(doc.Records, *cur)
			cur = nil
		}
	}

	sc := bufio.NewScanner(strings.NewReader(text))
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			flushPending()
			continue
		}
		if strings.HasPrefix(line, "#") {
			pending = append(pending, line)
			continue
		}

		key, value, ok := splitDirective(line)
		if !ok {
			flushPending()
			doc.warnf("line %d: invalid directive %q preserved verbatim", lineNo, line)
			if cur != nil {
				cur.Options = append(cur.Options, model.Option{Name: rawLineOption, Value: line})
			} else {
				doc.Preamble = append(doc.Preamble, line)
			}
			continue
		}

		if strings.EqualFold(key, "host") {
			closeBlock()
			rec := model.NewHostRecord(strings.Join(strings.Fields(value), " "))
			applyPending(&rec, pending, &doc)
			pending = nil
			if doc.HasAlias(rec.Host) {
				doc.warnf("line %d: duplicate Host %q kept as a distinct block", lineNo, rec.Host)
			}
			cur = &rec
			continue
		}

		flushPending()
		if cur == nil {
			// Directive before any Host block: foreign preamble.
			doc.Preamble = append(doc.Preamble, line)
			continue
		}
		applyDirective(cur, key, value, lineNo, &doc)
	}
	// bufio.Scanner over a strings.Reader cannot fail except on oversized
	// lines; such a line is split and both halves are still preserved.
	if err := sc.Err(); err != nil {
		doc.warnf("scan: %v", err)
	}

	flushPending()
	closeBlock()
	return doc
}

// applyDirective folds one key/value line into the record. Modeled
// directives fill their field on first sight; repeats and anything else
// flow into the ordered passthrough options.
func applyDirective(rec *model.HostRecord, key, value string, lineNo int, doc *Document) {
	switch strings.ToLower(key) {
	case "hostname":
		if rec.HostName == "" {
			rec.HostName = value
			return
		}
	case "user":
		if rec.User == "" {
			rec.User = value
			return
		}
	case "port":
		if rec.Port == 0 {
			p, err := strconv.Atoi(value)
			if err == nil && util.ValidatePort(p) == nil {
				rec.Port = p
				return
			}
			// Non-numeric or out-of-range port: the file may carry macros
			// or ranges we do not understand, so keep the raw directive.
			doc.warnf("line %d: host %q: unparseable Port %q preserved as passthrough", lineNo, rec.Host, value)
		}
	case "identityfile":
		if rec.IdentityFile == "" {
			rec.IdentityFile = value
			return
		}
	case "proxyjump":
		if rec.ProxyJump == "" {
			rec.ProxyJump = value
			return
		}
	case "forwardagent":
		if rec.ForwardAgent == nil {
			switch strings.ToLower(value) {
			case "yes":
				v := true
				rec.ForwardAgent = &v
				return
			case "no":
				v := false
				rec.ForwardAgent = &v
				return
			}
			// Values like "ask" are valid ssh config; pass through.
		}
	}
	rec.Options = append(rec.Options, model.Option{Name: key, Value: value})
}

// applyPending consumes the comment lines buffered directly above a Host
// line: #sshdeck: metadata is decoded into the record, plain comments
// become its Comment.
func applyPending(rec *model.HostRecord, pending []string, doc *Document) {
	var commentLines []string
	for _, line := range pending {
		if strings.HasPrefix(line, MetaPrefix) {
			if err := parseMetaLine(line, rec); err != nil {
				doc.warnf("host %q: %v; line preserved as comment", rec.Host, err)
				commentLines = append(commentLines, stripCommentMarker(line))
			}
			continue
		}
		commentLines = append(commentLines, stripCommentMarker(line))
	}
	rec.Comment = strings.Join(commentLines, "\n")
}

func stripCommentMarker(line string) string {
	line = strings.TrimPrefix(line, "#")
	return strings.TrimPrefix(line, " ")
}

// splitDirective splits "Key Value" or "Key=Value" into its parts.
func splitDirective(line string) (key, value string, ok bool) {
	if i := strings.IndexAny(line, " \t"); i > 0 {
		key = strings.TrimSpace(line[:i])
		value = strings.TrimSpace(line[i+1:])
		return key, value, key != "" && value != ""
	}
	if i := strings.Index(line, "="); i > 0 {
		key = strings.TrimSpace(line[:i])
		value = strings.TrimSpace(line[i+1:])
		return key, value, key != "" && value != ""
	}
	return "", "", false
}
