package config

import (
	"strings"
	"testing"
)

func TestParseBasicBlock(t *testing.T) {
	doc := Parse("Host web\n  HostName 1.2.3.4\n  User root\n\n")
	if len(doc.Records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(doc.Records))
	}
	h := doc.Records[0]
	if h.Host != "web" || h.HostName != "1.2.3.4" || h.User != "root" {
		t.Fatalf("unexpected record: %+v", h)
	}
	if h.ID == "" {
		t.Fatal("record must get a process-lifetime ID")
	}
	if h.Port != 0 {
		t.Fatalf("port should be unset, got %d", h.Port)
	}
}

func TestParseKnownDirectivesCaseInsensitive(t *testing.T) {
	doc := Parse(strings.Join([]string{
		"host db",
		"  HOSTNAME db.internal",
		"  user=deploy",
		"  PORT 5432",
		"  identityfile ~/.ssh/id_ed25519",
		"  proxyjump bastion",
		"  ForwardAgent YES",
		"",
	}, "\n"))
	if len(doc.Records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(doc.Records))
	}
	h := doc.Records[0]
	if h.HostName != "db.internal" || h.User != "deploy" || h.Port != 5432 {
		t.Fatalf("unexpected record: %+v", h)
	}
	if h.IdentityFile != "~/.ssh/id_ed25519" {
		t.Fatalf("identity file must stay verbatim, got %q", h.IdentityFile)
	}
	if h.ProxyJump != "bastion" {
		t.Fatalf("proxyjump = %q", h.ProxyJump)
	}
	if h.ForwardAgent == nil || !*h.ForwardAgent {
		t.Fatalf("forward agent = %v", h.ForwardAgent)
	}
}

func TestParseUnknownDirectivePreserved(t *testing.T) {
	doc := Parse("Host x\n  Foo bar\n")
	if len(doc.Records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(doc.Records))
	}
	v, ok := doc.Records[0].Option("foo")
	if !ok || v != "bar" {
		t.Fatalf("Foo option = %q, %v", v, ok)
	}
	out := Serialize(doc)
	if !strings.Contains(out, "Host x\n") || !strings.Contains(out, "Foo bar") {
		t.Fatalf("unknown directive lost on round trip:\n%s", out)
	}
}

func TestParseUnparseablePortBecomesPassthrough(t *testing.T) {
	for _, bad := range []string{"$PORT", "0", "70000", "2222x"} {
		doc := Parse("Host a\n  Port " + bad + "\n")
		h := doc.Records[0]
		if h.Port != 0 {
			t.Errorf("Port %q: field = %d, want unset", bad, h.Port)
		}
		if v, ok := h.Option("Port"); !ok || v != bad {
			t.Errorf("Port %q not preserved as option: %q, %v", bad, v, ok)
		}
		if len(doc.Warnings) == 0 {
			t.Errorf("Port %q: expected a diagnostic", bad)
		}
		if !strings.Contains(Serialize(doc), "Port "+bad) {
			t.Errorf("Port %q dropped on serialize", bad)
		}
	}
}

func TestParseDuplicateAliasesKeptDistinct(t *testing.T) {
	doc := Parse(strings.Join([]string{
		"Host dup",
		"  HostName first.example.com",
		"",
		"Host dup",
		"  HostName second.example.com",
		"",
	}, "\n"))
	if len(doc.Records) != 2 {
		t.Fatalf("expected both dup blocks, got %d", len(doc.Records))
	}
	if doc.Records[0].ID == doc.Records[1].ID {
		t.Fatal("duplicate blocks must stay distinct records")
	}
	// Effective lookup is last-wins.
	h, ok := doc.Find("dup")
	if !ok || h.HostName != "second.example.com" {
		t.Fatalf("Find = %+v, %v", h, ok)
	}
	if got := doc.DuplicateAliases(); len(got) != 1 || got[0] != "dup" {
		t.Fatalf("DuplicateAliases = %v", got)
	}
	out := Serialize(doc)
	if strings.Count(out, "Host dup\n") != 2 {
		t.Fatalf("expected two Host dup blocks on serialize:\n%s", out)
	}
}

func TestParsePreambleAndForeignContent(t *testing.T) {
	in := strings.Join([]string{
		"# global notes",
		"Include ~/.ssh/work_config",
		"",
		"Host web",
		"  HostName 1.2.3.4",
		"",
	}, "\n")
	doc := Parse(in)
	if len(doc.Preamble) != 2 {
		t.Fatalf("preamble = %q", doc.Preamble)
	}
	out := Serialize(doc)
	if !strings.Contains(out, "# global notes\n") || !strings.Contains(out, "Include ~/.ssh/work_config\n") {
		t.Fatalf("preamble lost:\n%s", out)
	}
	if strings.Index(out, "Include") > strings.Index(out, "Host web") {
		t.Fatal("preamble must precede host blocks")
	}
}

func TestParseCommentAboveHostBecomesComment(t *testing.T) {
	doc := Parse("# primary build box\nHost ci\n  HostName ci.internal\n")
	h := doc.Records[0]
	if h.Comment != "primary build box" {
		t.Fatalf("comment = %q", h.Comment)
	}
	out := Serialize(doc)
	if !strings.Contains(out, "# primary build box\nHost ci\n") {
		t.Fatalf("comment not re-emitted above Host:\n%s", out)
	}
}

func TestParseInBlockCommentPreserved(t *testing.T) {
	doc := Parse("Host a\n  HostName one\n  # keep me\n  User u\n\nHost b\n  HostName two\n")
	out := Serialize(doc)
	if !strings.Contains(out, "# keep me") {
		t.Fatalf("in-block comment lost:\n%s", out)
	}
	// It belongs to block a, not to b's comment.
	if doc.Records[1].Comment != "" {
		t.Fatalf("comment leaked across blank line: %q", doc.Records[1].Comment)
	}
}

func TestParseMalformedLinePreservedWithWarning(t *testing.T) {
	doc := Parse("Host a\n  BadLine\n  HostName ok\n")
	if len(doc.Warnings) == 0 {
		t.Fatal("expected warning for malformed line")
	}
	if doc.Records[0].HostName != "ok" {
		t.Fatal("parse must continue past malformed lines")
	}
	if !strings.Contains(Serialize(doc), "BadLine") {
		t.Fatal("malformed line dropped")
	}
}

func TestParseMultiPatternHostRoundTrips(t *testing.T) {
	doc := Parse("Host app-*   !app-3\n  User wild\n")
	h := doc.Records[0]
	if h.Host != "app-* !app-3" {
		t.Fatalf("pattern list = %q", h.Host)
	}
	if !strings.Contains(Serialize(doc), "Host app-* !app-3\n") {
		t.Fatal("pattern list not re-emitted")
	}
}

func TestParseIsTotalOnGarbage(t *testing.T) {
	inputs := []string{
		"",
		"\n\n\n",
		"###",
		"=",
		"Host",
		"\x00\x01\x02",
		strings.Repeat("Host a\n", 100),
	}
	for _, in := range inputs {
		doc := Parse(in) // must not panic
		_ = Serialize(doc)
	}
}

func TestSemanticRoundTrip(t *testing.T) {
	in := strings.Join([]string{
		"# staging database",
		`#sshdeck: label="Staging DB" sftp_path="/var/backups"`,
		"Host stage-db",
		"  HostName 10.1.0.5",
		"  User postgres",
		"  Port 6432",
		"  IdentityFile ~/.ssh/stage",
		"  ProxyJump bastion",
		"  ForwardAgent no",
		"  ServerAliveInterval 30",
		"",
	}, "\n")
	first := Parse(in)
	second := Parse(Serialize(first))
	if len(first.Records) != 1 || len(second.Records) != 1 {
		t.Fatalf("record counts: %d then %d", len(first.Records), len(second.Records))
	}
	a, b := first.Records[0], second.Records[0]
	if a.Host != b.Host || a.Label != b.Label || a.HostName != b.HostName ||
		a.User != b.User || a.Port != b.Port || a.IdentityFile != b.IdentityFile ||
		a.ProxyJump != b.ProxyJump || a.SFTPPath != b.SFTPPath || a.Comment != b.Comment {
		t.Fatalf("fields drifted:\n%+v\n%+v", a, b)
	}
	if (a.ForwardAgent == nil) != (b.ForwardAgent == nil) || *a.ForwardAgent != *b.ForwardAgent {
		t.Fatal("forward agent drifted")
	}
	if len(a.Options) != len(b.Options) || a.Options[0] != b.Options[0] {
		t.Fatalf("options drifted: %v vs %v", a.Options, b.Options)
	}
}
