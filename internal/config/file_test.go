package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseFileMissingIsEmptyWithWarning(t *testing.T) {
	doc, err := ParseFile(filepath.Join(t.TempDir(), "config"))
	if err != nil {
		t.Fatal(err)
	}
	if len(doc.Records) != 0 || len(doc.Warnings) == 0 {
		t.Fatalf("doc = %+v", doc)
	}
}

func TestWriteFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".ssh", "config")

	doc := Parse("Host web\n  HostName 1.2.3.4\n  User root\n")
	if err := WriteFile(path, doc); err != nil {
		t.Fatal(err)
	}

	st, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := st.Mode().Perm(); perm != 0o600 {
		t.Fatalf("config perms = %#o", perm)
	}

	back, err := ParseFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(back.Records) != 1 || back.Records[0].HostName != "1.2.3.4" {
		t.Fatalf("reparsed = %+v", back.Records)
	}
}

func TestWriteFileReplacesExisting(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config")
	if err := os.WriteFile(path, []byte("Host stale\n  HostName gone\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	doc := Parse("Host fresh\n  HostName here\n")
	if err := WriteFile(path, doc); err != nil {
		t.Fatal(err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(b), "stale") || !strings.Contains(string(b), "fresh") {
		t.Fatalf("content = %q", string(b))
	}
	// No temp droppings left behind.
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("leftover files: %v", entries)
	}
}
