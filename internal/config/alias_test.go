package config

import (
	"strings"
	"testing"

	"github.com/treykane/sshdeck/internal/model"
)

func TestSanitizeAlias(t *testing.T) {
	cases := []struct{ in, want string }{
		{"my server", "my-server"},
		{"  padded  ", "padded"},
		{"tabs\tand  runs", "tabs-and-runs"},
		{`quo"te'd`, "quoted"},
		{"wild*card?", "wildcard"},
		{"#commented", "commented"},
		{"*", "*"},
		{"", "host"},
		{"***", "host"},
		{"Ünïcode høst", "Ünïcode-høst"},
		{"a=b", "ab"},
	}
	for _, c := range cases {
		if got := SanitizeAlias(c.in); got != c.want {
			t.Errorf("SanitizeAlias(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestSanitizeAliasIdempotent(t *testing.T) {
	inputs := []string{"my server", "  x  y  z ", "a-b", "*", "", "we!rd #name?", "t\tt t"}
	for _, in := range inputs {
		once := SanitizeAlias(in)
		if twice := SanitizeAlias(once); twice != once {
			t.Errorf("not idempotent: %q → %q → %q", in, once, twice)
		}
	}
}

func TestSanitizeAliasNeverEmptyOrUnsafe(t *testing.T) {
	inputs := []string{"", " ", "####", "a b c", "'''", "??", "x"}
	for _, in := range inputs {
		got := SanitizeAlias(in)
		if got == "" {
			t.Errorf("SanitizeAlias(%q) returned empty", in)
		}
		if got != "*" && strings.ContainsAny(got, " \t#*?\"'") {
			t.Errorf("SanitizeAlias(%q) = %q still unsafe", in, got)
		}
	}
}

func TestValidateAlias(t *testing.T) {
	for _, ok := range []string{"web", "prod-db.internal", "a_b", "*"} {
		if err := ValidateAlias(ok); err != nil {
			t.Errorf("ValidateAlias(%q) = %v", ok, err)
		}
	}
	for _, bad := range []string{"", "  ", "two words", "tab\there", "star*", "q?", "bang!", "ha#sh", `d"q`} {
		err := ValidateAlias(bad)
		if err == nil {
			t.Errorf("ValidateAlias(%q) accepted", bad)
			continue
		}
		if FieldOf(err) != "host" {
			t.Errorf("ValidateAlias(%q) error not attributed to host field: %v", bad, err)
		}
	}
}

func TestEnsureUniqueAliasSuffixes(t *testing.T) {
	doc := Document{Records: []model.HostRecord{
		{Host: "web"}, {Host: "web-2"},
	}}
	if got := EnsureUniqueAlias(&doc, "web"); got != "web-3" {
		t.Fatalf("EnsureUniqueAlias = %q", got)
	}
	if got := EnsureUniqueAlias(&doc, "fresh"); got != "fresh" {
		t.Fatalf("EnsureUniqueAlias untaken = %q", got)
	}
	// Two labels that sanitize identically cannot both claim the alias.
	first := EnsureUniqueAlias(&doc, "db server")
	doc.Records = append(doc.Records, model.HostRecord{Host: first})
	second := EnsureUniqueAlias(&doc, "db*server")
	if first == second {
		t.Fatalf("collision not disambiguated: %q vs %q", first, second)
	}
}
