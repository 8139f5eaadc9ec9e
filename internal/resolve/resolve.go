// Package resolve computes the effective OpenSSH settings for an alias,
// including wildcard blocks and defaults, using the same pattern matching
// rules ssh itself applies. It complements the round-trip model in
// internal/config, which deliberately keeps blocks verbatim instead of
// merging them.
package resolve

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/kevinburke/ssh_config"
)

// Effective holds the settings OpenSSH would use when connecting to an
// alias after applying every matching Host block.
type Effective struct {
	Alias         string   `json:"alias"`
	Hostname      string   `json:"hostname"`
	User          string   `json:"user,omitempty"`
	Port          string   `json:"port"`
	IdentityFiles []string `json:"identity_files,omitempty"`
	ProxyJump     string   `json:"proxy_jump,omitempty"`
	ForwardAgent  string   `json:"forward_agent,omitempty"`
}

// Address returns the hostname:port pair for the resolved target.
func (e Effective) Address() string {
	return e.Hostname + ":" + e.Port
}

// FromFile resolves an alias against a single config file.
func FromFile(path, alias string) (Effective, error) {
	f, err := os.Open(path)
	if err != nil {
		return Effective{}, err
	}
	defer f.Close()

	cfg, err := ssh_config.Decode(f)
	if err != nil {
		return Effective{}, err
	}
	return fromConfig(cfg, alias), nil
}

// FromText resolves an alias against in-memory config text.
func FromText(text, alias string) (Effective, error) {
	cfg, err := ssh_config.Decode(strings.NewReader(text))
	if err != nil {
		return Effective{}, err
	}
	return fromConfig(cfg, alias), nil
}

func fromConfig(cfg *ssh_config.Config, alias string) Effective {
	get := func(key string) string {
		v, _ := cfg.Get(alias, key)
		return v
	}

	hostname := get("HostName")
	if hostname == "" {
		hostname = alias
	}
	port := get("Port")
	if port == "" {
		port = "22"
	}

	identities, _ := cfg.GetAll(alias, "IdentityFile")
	expanded := make([]string, 0, len(identities))
	for _, f := range identities {
		expanded = append(expanded, ExpandPath(f))
	}

	return Effective{
		Alias:         alias,
		Hostname:      hostname,
		User:          get("User"),
		Port:          port,
		IdentityFiles: expanded,
		ProxyJump:     get("ProxyJump"),
		ForwardAgent:  get("ForwardAgent"),
	}
}

// ExpandPath expands a leading ~/ to the user's home directory.
func ExpandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}
