// Package prefs stores per-host terminal overrides: which terminal
// profile, window geometry, and startup command a host's sessions should
// get. Overrides are keyed by alias, the only identity that survives a
// restart, since record IDs live only for the process lifetime. That makes
// rename propagation a hard requirement: every alias rename must go
// through Rename or the override silently detaches from its host.
package prefs

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/treykane/sshdeck/internal/appconfig"
	"gopkg.in/yaml.v3"
)

// Override is one host's terminal preference set. Zero-valued fields
// inherit the terminal's own defaults.
type Override struct {
	Profile        string `yaml:"profile,omitempty"`
	Columns        int    `yaml:"columns,omitempty"`
	Rows           int    `yaml:"rows,omitempty"`
	StartupCommand string `yaml:"startup_command,omitempty"`
}

// IsZero reports whether the override carries no settings at all.
func (o Override) IsZero() bool {
	return o == Override{}
}

type fileModel struct {
	Overrides map[string]Override `yaml:"overrides"`
}

func filePath() (string, error) {
	dir, err := appconfig.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "terminal.yaml"), nil
}

// Get returns the override for an alias, if one is stored.
func Get(alias string) (Override, bool, error) {
	fm, err := loadFile()
	if err != nil {
		return Override{}, false, err
	}
	o, ok := fm.Overrides[alias]
	return o, ok, nil
}

// Set stores (or clears, when zero) the override for an alias.
func Set(alias string, o Override) error {
	alias = strings.TrimSpace(alias)
	if alias == "" {
		return fmt.Errorf("alias cannot be empty")
	}
	fm, err := loadFile()
	if err != nil {
		return err
	}
	if o.IsZero() {
		delete(fm.Overrides, alias)
	} else {
		fm.Overrides[alias] = o
	}
	return saveFile(fm)
}

// Delete removes the override for an alias. Missing entries are not an
// error; the end state is the same.
func Delete(alias string) error {
	fm, err := loadFile()
	if err != nil {
		return err
	}
	delete(fm.Overrides, alias)
	return saveFile(fm)
}

// Rename moves an override to a new alias. Called whenever a host alias
// changes so the override follows its host.
func Rename(oldAlias, newAlias string) error {
	fm, err := loadFile()
	if err != nil {
		return err
	}
	o, ok := fm.Overrides[oldAlias]
	if !ok {
		return nil
	}
	delete(fm.Overrides, oldAlias)
	fm.Overrides[newAlias] = o
	return saveFile(fm)
}

// Aliases returns every alias with a stored override, sorted.
func Aliases() ([]string, error) {
	fm, err := loadFile()
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(fm.Overrides))
	for a := range fm.Overrides {
		out = append(out, a)
	}
	sort.Strings(out)
	return out, nil
}

func loadFile() (fileModel, error) {
	path, err := filePath()
	if err != nil {
		return fileModel{}, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fileModel{Overrides: map[string]Override{}}, nil
		}
		return fileModel{}, err
	}
	var fm fileModel
	if err := yaml.Unmarshal(b, &fm); err != nil {
		return fileModel{}, fmt.Errorf("parse terminal overrides: %w", err)
	}
	if fm.Overrides == nil {
		fm.Overrides = map[string]Override{}
	}
	return fm, nil
}

func saveFile(fm fileModel) error {
	path, err := filePath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	b, err := yaml.Marshal(fm)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o600)
}
