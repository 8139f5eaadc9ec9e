package group

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/treykane/sshdeck/internal/appconfig"
	"gopkg.in/yaml.v3"
)

// Definition is a named set of host aliases, used to scope listings
// ("work", "homelab") without touching the config file itself.
type Definition struct {
	Name    string   `yaml:"name" json:"name"`
	Aliases []string `yaml:"aliases" json:"aliases"`
}

// Contains reports whether the group includes the alias.
func (d Definition) Contains(alias string) bool {
	for _, a := range d.Aliases {
		if a == alias {
			return true
		}
	}
	return false
}

type fileModel struct {
	Groups map[string]Definition `yaml:"groups"`
}

func filePath() (string, error) {
	dir, err := appconfig.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "groups.yaml"), nil
}

// LoadAll returns all groups sorted by name.
func LoadAll() ([]Definition, error) {
	fm, err := loadFile()
	if err != nil {
		return nil, err
	}
	out := make([]Definition, 0, len(fm.Groups))
	for _, g := range fm.Groups {
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Get fetches one group by name.
func Get(name string) (Definition, error) {
	fm, err := loadFile()
	if err != nil {
		return Definition{}, err
	}
	g, ok := fm.Groups[name]
	if !ok {
		return Definition{}, fmt.Errorf("group not found: %s", name)
	}
	return g, nil
}

// Create adds or replaces a group definition.
func Create(name string, aliases []string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("group name cannot be empty")
	}
	if len(aliases) == 0 {
		return fmt.Errorf("group must include at least one host alias")
	}
	cleaned := make([]string, 0, len(aliases))
	for i, a := range aliases {
		a = strings.TrimSpace(a)
		if a == "" {
			return fmt.Errorf("group entry %d missing host alias", i)
		}
		cleaned = append(cleaned, a)
	}

	fm, err := loadFile()
	if err != nil {
		return err
	}
	fm.Groups[name] = Definition{Name: name, Aliases: cleaned}
	return saveFile(fm)
}

// Delete removes a group by name.
func Delete(name string) error {
	fm, err := loadFile()
	if err != nil {
		return err
	}
	if _, ok := fm.Groups[name]; !ok {
		return fmt.Errorf("group not found: %s", name)
	}
	delete(fm.Groups, name)
	return saveFile(fm)
}

// RenameAlias rewrites a host alias across every group, keeping group
// membership consistent with a host rename.
func RenameAlias(oldAlias, newAlias string) error {
	fm, err := loadFile()
	if err != nil {
		return err
	}
	changed := false
	for name, g := range fm.Groups {
		for i, a := range g.Aliases {
			if a == oldAlias {
				g.Aliases[i] = newAlias
				changed = true
			}
		}
		fm.Groups[name] = g
	}
	if !changed {
		return nil
	}
	return saveFile(fm)
}

// RemoveAlias drops a host alias from every group, pruning groups that
// become empty.
func RemoveAlias(alias string) error {
	fm, err := loadFile()
	if err != nil {
		return err
	}
	changed := false
	for name, g := range fm.Groups {
		kept := g.Aliases[:0]
		for _, a := range g.Aliases {
			if a == alias {
				changed = true
				continue
			}
			kept = append(kept, a)
		}
		if len(kept) == 0 {
			delete(fm.Groups, name)
			continue
		}
		g.Aliases = kept
		fm.Groups[name] = g
	}
	if !changed {
		return nil
	}
	return saveFile(fm)
}

func loadFile() (fileModel, error) {
	path, err := filePath()
	if err != nil {
		return fileModel{}, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fileModel{Groups: map[string]Definition{}}, nil
		}
		return fileModel{}, err
	}
	var fm fileModel
	if err := yaml.Unmarshal(b, &fm); err != nil {
		return fileModel{}, fmt.Errorf("parse groups: %w", err)
	}
	if fm.Groups == nil {
		fm.Groups = map[string]Definition{}
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
