package group

import "testing"

func TestCreateGetDelete(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	if err := Create("work", []string{"api", "db"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	g, err := Get("work")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(g.Aliases) != 2 || !g.Contains("api") || !g.Contains("db") {
		t.Fatalf("unexpected group: %+v", g)
	}

	if err := Delete("work"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := Get("work"); err == nil {
		t.Fatal("expected error for deleted group")
	}
	if err := Delete("work"); err == nil {
		t.Fatal("expected error deleting missing group")
	}
}

func TestCreateValidation(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	if err := Create("  ", []string{"api"}); err == nil {
		t.Fatal("expected error for empty name")
	}
	if err := Create("work", nil); err == nil {
		t.Fatal("expected error for empty alias list")
	}
	if err := Create("work", []string{"api", " "}); err == nil {
		t.Fatal("expected error for blank alias entry")
	}
}

func TestLoadAllSorted(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	if err := Create("homelab", []string{"nas"}); err != nil {
		t.Fatal(err)
	}
	if err := Create("clients", []string{"acme"}); err != nil {
		t.Fatal(err)
	}
	all, err := LoadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 || all[0].Name != "clients" || all[1].Name != "homelab" {
		t.Fatalf("unexpected order: %+v", all)
	}
}

func TestRenameAliasAcrossGroups(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	if err := Create("work", []string{"api", "db"}); err != nil {
		t.Fatal(err)
	}
	if err := Create("oncall", []string{"db"}); err != nil {
		t.Fatal(err)
	}
	if err := RenameAlias("db", "db-prod"); err != nil {
		t.Fatal(err)
	}
	work, _ := Get("work")
	oncall, _ := Get("oncall")
	if !work.Contains("db-prod") || work.Contains("db") {
		t.Fatalf("work group not renamed: %+v", work)
	}
	if !oncall.Contains("db-prod") {
		t.Fatalf("oncall group not renamed: %+v", oncall)
	}
}

func TestRemoveAliasPrunesEmptyGroups(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	if err := Create("solo", []string{"nas"}); err != nil {
		t.Fatal(err)
	}
	if err := Create("work", []string{"api", "nas"}); err != nil {
		t.Fatal(err)
	}
	if err := RemoveAlias("nas"); err != nil {
		t.Fatal(err)
	}
	if _, err := Get("solo"); err == nil {
		t.Fatal("expected empty group to be pruned")
	}
	work, _ := Get("work")
	if work.Contains("nas") || !work.Contains("api") {
		t.Fatalf("unexpected work group: %+v", work)
	}
}
