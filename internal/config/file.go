package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// DefaultPath returns ~/.ssh/config.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".ssh", "config"), nil
}

// ParseDefault parses the user's ~/.ssh/config.
func ParseDefault() (Document, error) {
	path, err := DefaultPath()
	if err != nil {
		return Document{}, err
	}
	return ParseFile(path)
}

// ParseFile reads and parses one config file. A missing file is an empty
// document with a warning, not an error: a fresh machine has no config yet.
func ParseFile(path string) (Document, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			doc := Document{}
			doc.warnf("config file not found: %s", path)
			return doc, nil
		}
		return Document{}, fmt.Errorf("read %s: %w", path, err)
	}
	return Parse(string(b)), nil
}

// WriteFile serializes the document and replaces the file atomically: the
// text lands in a temp file in the same directory first, then renames over
// the target, so a crash mid-write never leaves a truncated config.
func WriteFile(path string, doc Document) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".config-*")
	if err != nil {
		return fmt.Errorf("create temp config: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(Serialize(doc)); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp config: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod temp config: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp config: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}

// WriteDefault writes to ~/.ssh/config.
func WriteDefault(doc Document) error {
	path, err := DefaultPath()
	if err != nil {
		return err
	}
	return WriteFile(path, doc)
}
