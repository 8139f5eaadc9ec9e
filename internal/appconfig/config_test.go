package appconfig

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadCreatesDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.BackupOnSave {
		t.Fatal("default BackupOnSave should be true")
	}
	d, err := ConfigDir()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(d, "config.yaml")); err != nil {
		t.Fatalf("config.yaml not created: %v", err)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	want := Config{
		ConfigPath:   "/tmp/ssh_config_test",
		BackupOnSave: false,
		UI:           UIConfig{ShowWildcard: true},
	}
	if err := Save(want); err != nil {
		t.Fatal(err)
	}
	got, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if got.ConfigPath != want.ConfigPath || got.BackupOnSave || !got.UI.ShowWildcard {
		t.Fatalf("got %+v", got)
	}
}

func TestSSHConfigPathOverride(t *testing.T) {
	cfg := Config{ConfigPath: "/tmp/custom"}
	p, err := cfg.SSHConfigPath()
	if err != nil {
		t.Fatal(err)
	}
	if p != "/tmp/custom" {
		t.Fatalf("path = %q", p)
	}

	home := t.TempDir()
	t.Setenv("HOME", home)
	p, err = Config{}.SSHConfigPath()
	if err != nil {
		t.Fatal(err)
	}
	if p != filepath.Join(home, ".ssh", "config") {
		t.Fatalf("default path = %q", p)
	}
}
