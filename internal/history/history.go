package history

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/treykane/sshdeck/internal/appconfig"
	"github.com/treykane/sshdeck/internal/model"
)

type store struct {
	LastUsed map[string]int64 `json:"last_used"`
}

func filePath() (string, error) {
	dir, err := appconfig.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "history.json"), nil
}

// Touch records successful activity for a host alias.
func Touch(alias string) error {
	st, err := load()
	if err != nil {
		return err
	}
	if st.LastUsed == nil {
		st.LastUsed = map[string]int64{}
	}
	st.LastUsed[alias] = time.Now().Unix()
	return save(st)
}

// LastUsed returns last successful activity timestamps by alias.
func LastUsed() (map[string]int64, error) {
	st, err := load()
	if err != nil {
		return nil, err
	}
	return st.LastUsed, nil
}

// Rename moves an alias's activity record when the host is renamed, so
// recency ordering survives the rename.
func Rename(oldAlias, newAlias string) error {
	st, err := load()
	if err != nil {
		return err
	}
	ts, ok := st.LastUsed[oldAlias]
	if !ok {
		return nil
	}
	delete(st.LastUsed, oldAlias)
	st.LastUsed[newAlias] = ts
	return save(st)
}

// Forget drops the activity record for a deleted host.
func Forget(alias string) error {
	st, err := load()
	if err != nil {
		return err
	}
	if _, ok := st.LastUsed[alias]; !ok {
		return nil
	}
	delete(st.LastUsed, alias)
	return save(st)
}

// SortRecordsRecent returns a new slice sorted by recent activity (desc),
// then alias.
func SortRecordsRecent(records []model.HostRecord, lastUsed map[string]int64) []model.HostRecord {
	out := append([]model.HostRecord(nil), records...)
	sort.SliceStable(out, func(i, j int) bool {
		ti := lastUsed[out[i].Host]
		tj := lastUsed[out[j].Host]
		if ti != tj {
			return ti > tj
		}
		return out[i].Host < out[j].Host
	})
	return out
}

func load() (store, error) {
	path, err := filePath()
	if err != nil {
		return store{}, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return store{LastUsed: map[string]int64{}}, nil
		}
		return store{}, err
	}
	var st store
	if err := json.Unmarshal(b, &st); err != nil {
		return store{LastUsed: map[string]int64{}}, nil
	}
	if st.LastUsed == nil {
		st.LastUsed = map[string]int64{}
	}
	return st, nil
}

func save(st store) error {
	path, err := filePath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	b, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o600)
}
