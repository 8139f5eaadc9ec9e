package journal

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/treykane/sshdeck/internal/appconfig"
)

// Action classifies one config edit.
type Action string

const (
	ActionAdd    Action = "add"
	ActionUpdate Action = "update"
	ActionRemove Action = "remove"
	ActionRename Action = "rename"
	ActionSave   Action = "save"
)

// Entry is one config edit record persisted to journal.jsonl. It exists
// so "what changed my ssh config and when" has an answer.
type Entry struct {
	Timestamp time.Time `json:"timestamp"`
	Action    Action    `json:"action"`
	Alias     string    `json:"alias,omitempty"`
	// NewAlias is set for renames.
	NewAlias string `json:"new_alias,omitempty"`
	Detail   string `json:"detail,omitempty"`
}

// Query controls entry filtering and bounded reads.
type Query struct {
	Alias  string
	Action Action
	Since  time.Time
	Limit  int
}

// Store provides append/read access to the local edit journal.
type Store struct{}

func NewStore() *Store {
	return &Store{}
}

func filePath() (string, error) {
	dir, err := appconfig.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "journal.jsonl"), nil
}

// Append writes a single entry as one JSON line.
func (s *Store) Append(e Entry) error {
	path, err := filePath()
	if err != nil {
		return err
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}
	defer f.Close()

	b, err := json.Marshal(e)
	if err != nil {
		return err
	}
	if _, err := f.Write(append(b, '\n')); err != nil {
		return err
	}
	return nil
}

// Read returns entries in append order, filtered by query, with optional
// limit keeping the newest matches.
func (s *Store) Read(q Query) ([]Entry, error) {
	path, err := filePath()
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	var out []Entry
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		var e Entry
		if err := json.Unmarshal([]byte(line), &e); err != nil {
			continue
		}
		if !matches(e, q) {
			continue
		}
		out = append(out, e)
		if q.Limit > 0 && len(out) > q.Limit {
			out = out[len(out)-q.Limit:]
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan journal: %w", err)
	}
	return out, nil
}

func matches(e Entry, q Query) bool {
	if strings.TrimSpace(q.Alias) != "" && e.Alias != q.Alias && e.NewAlias != q.Alias {
		return false
	}
	if q.Action != "" && e.Action != q.Action {
		return false
	}
	if !q.Since.IsZero() && e.Timestamp.Before(q.Since) {
		return false
	}
	return true
}
