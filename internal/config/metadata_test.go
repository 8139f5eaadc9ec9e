package config

import (
	"strings"
	"testing"

	"github.com/treykane/sshdeck/internal/model"
)

func TestParseMetaLineKnownKeys(t *testing.T) {
	var rec model.HostRecord
	err := parseMetaLine(`#sshdeck: label="Prod Web" sftp_path="/var/www"`, &rec)
	if err != nil {
		t.Fatal(err)
	}
	if rec.Label != "Prod Web" || rec.SFTPPath != "/var/www" {
		t.Fatalf("record = %+v", rec)
	}
}

func TestParseMetaLineQuotesAndEscapes(t *testing.T) {
	var rec model.HostRecord
	err := parseMetaLine(`#sshdeck: label="He said \"go\""`, &rec)
	if err != nil {
		t.Fatal(err)
	}
	if rec.Label != `He said "go"` {
		t.Fatalf("label = %q", rec.Label)
	}
}

func TestParseMetaLineUnknownKeysPreserved(t *testing.T) {
	var rec model.HostRecord
	err := parseMetaLine(`#sshdeck: label="x" icon="server" color=blue`, &rec)
	if err != nil {
		t.Fatal(err)
	}
	if len(rec.MetaExtra) != 2 {
		t.Fatalf("meta extra = %+v", rec.MetaExtra)
	}
	if rec.MetaExtra[0] != (model.Option{Name: "icon", Value: "server"}) {
		t.Fatalf("meta extra[0] = %+v", rec.MetaExtra[0])
	}
	if rec.MetaExtra[1] != (model.Option{Name: "color", Value: "blue"}) {
		t.Fatalf("meta extra[1] = %+v", rec.MetaExtra[1])
	}
	// And they come back out on serialize.
	rec.Host = "h"
	line := formatMetaLine(rec)
	if !strings.Contains(line, `icon="server"`) || !strings.Contains(line, `color="blue"`) {
		t.Fatalf("unknown keys dropped: %s", line)
	}
}

func TestParseMetaLineMalformedDegrades(t *testing.T) {
	// A broken metadata line must not fail the parse; it survives as an
	// ordinary comment.
	doc := Parse("#sshdeck: label=\"unterminated\nHost h\n  HostName x\n")
	if len(doc.Records) != 1 {
		t.Fatalf("records = %d", len(doc.Records))
	}
	h := doc.Records[0]
	if h.Label != "" {
		t.Fatalf("label should not parse: %q", h.Label)
	}
	if !strings.Contains(h.Comment, "sshdeck:") {
		t.Fatalf("malformed meta line lost: %q", h.Comment)
	}
	if len(doc.Warnings) == 0 {
		t.Fatal("expected a diagnostic")
	}
}

func TestFormatMetaLineEmptyWhenNoMetadata(t *testing.T) {
	if line := formatMetaLine(model.HostRecord{Host: "plain"}); line != "" {
		t.Fatalf("expected no metadata line, got %q", line)
	}
}

func TestMetadataSurvivesPlainCommentNeighbors(t *testing.T) {
	in := strings.Join([]string{
		"# human note",
		`#sshdeck: label="Box"`,
		"Host box",
		"  HostName 10.0.0.9",
		"",
	}, "\n")
	doc := Parse(in)
	h := doc.Records[0]
	if h.Comment != "human note" || h.Label != "Box" {
		t.Fatalf("record = %+v", h)
	}
	out := Serialize(doc)
	reparsed := Parse(out)
	g := reparsed.Records[0]
	if g.Comment != "human note" || g.Label != "Box" {
		t.Fatalf("round trip drifted: %+v", g)
	}
}
