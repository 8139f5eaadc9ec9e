// Package config implements the round-trip codec between SSH client config
// text and the in-memory host record set. Parsing is total: content the
// codec does not understand is carried verbatim and written back unchanged.
// The codec itself never touches the filesystem; ParseFile/WriteFile are
// thin wrappers for callers that want the default file handling.
package config

import (
	"fmt"

	"github.com/treykane/sshdeck/internal/model"
)

// Document is one parsed SSH config: the ordered host records plus any
// foreign content that must survive a parse/serialize cycle.
type Document struct {
	// Preamble holds verbatim lines that appeared before the first Host
	// directive (global directives, stray comments). Re-emitted first.
	Preamble []string

	// Records in file order. Duplicate aliases from the input are kept
	// distinct; the tool never merges or drops blocks it did not edit.
	Records []model.HostRecord

	// Warnings collects parse diagnostics. They are informational only;
	// the corresponding content is always preserved.
	Warnings []string
}

// Find returns the record for an alias. When the file contains duplicate
// blocks for the same alias the last one wins, matching effective-lookup
// precedence.
func (d *Document) Find(alias string) (model.HostRecord, bool) {
	var out model.HostRecord
	found := false
	for _, r := range d.Records {
		if r.Host == alias {
			out = r
			found = true
		}
	}
	return out, found
}

// FindByID returns the index of the record with the given process-lifetime
// ID, or -1.
func (d *Document) FindByID(id string) int {
	for i, r := range d.Records {
		if r.ID == id {
			return i
		}
	}
	return -1
}

// HasAlias reports whether any record uses the alias (case-sensitive, as
// OpenSSH matching is).
func (d *Document) HasAlias(alias string) bool {
	for _, r := range d.Records {
		if r.Host == alias {
			return true
		}
	}
	return false
}

// Aliases returns aliases in file order, duplicates included.
func (d *Document) Aliases() []string {
	out := make([]string, 0, len(d.Records))
	for _, r := range d.Records {
		out = append(out, r.Host)
	}
	return out
}

// DuplicateAliases returns aliases claimed by more than one record, in
// first-seen order. A parsed file may legitimately contain these; edits
// must not add new ones.
func (d *Document) DuplicateAliases() []string {
	counts := map[string]int{}
	var order []string
	for _, r := range d.Records {
		if counts[r.Host] == 0 {
			order = append(order, r.Host)
		}
		counts[r.Host]++
	}
	var out []string
	for _, alias := range order {
		if counts[alias] > 1 {
			out = append(out, alias)
		}
	}
	return out
}

// Add appends a record after validating its alias against the document.
func (d *Document) Add(rec model.HostRecord) error {
	if err := ValidateAlias(rec.Host); err != nil {
		return err
	}
	if d.HasAlias(rec.Host) {
		return NewFieldError("host", "alias %q already exists", rec.Host)
	}
	d.Records = append(d.Records, rec)
	return nil
}

// Replace swaps the record with the same ID for rec, keeping its position.
// An alias change is validated against every other record.
func (d *Document) Replace(rec model.HostRecord) error {
	i := d.FindByID(rec.ID)
	if i < 0 {
		return NewFieldError("id", "no record with id %q", rec.ID)
	}
	if rec.Host != d.Records[i].Host {
		if err := ValidateAlias(rec.Host); err != nil {
			return err
		}
		for j, other := range d.Records {
			if j != i && other.Host == rec.Host {
				return NewFieldError("host", "alias %q already exists", rec.Host)
			}
		}
	}
	d.Records[i] = rec
	return nil
}

// Remove deletes every record with the alias and reports whether any
// existed.
func (d *Document) Remove(alias string) bool {
	out := d.Records[:0]
	removed := false
	for _, r := range d.Records {
		if r.Host == alias {
			removed = true
			continue
		}
		out = append(out, r)
	}
	d.Records = out
	return removed
}

// Rename changes an alias on every record that carries it. The new alias
// must be valid and unused.
func (d *Document) Rename(oldAlias, newAlias string) error {
	if err := ValidateAlias(newAlias); err != nil {
		return err
	}
	if !d.HasAlias(oldAlias) {
		return NewFieldError("host", "no record with alias %q", oldAlias)
	}
	if oldAlias != newAlias && d.HasAlias(newAlias) {
		return NewFieldError("host", "alias %q already exists", newAlias)
	}
	for i := range d.Records {
		if d.Records[i].Host == oldAlias {
			d.Records[i].Host = newAlias
		}
	}
	return nil
}

// CheckAliases verifies every alias is valid and that no alias is shared
// by multiple records, except aliases listed in preexisting (typically
// DuplicateAliases captured at parse time, which edits must tolerate but
// never add to).
func (d *Document) CheckAliases(preexisting []string) error {
	allowed := map[string]bool{}
	for _, a := range preexisting {
		allowed[a] = true
	}
	seen := map[string]bool{}
	for _, r := range d.Records {
		if err := ValidateAlias(r.Host); err != nil {
			return err
		}
		if seen[r.Host] && !allowed[r.Host] {
			return NewFieldError("host", "alias %q is claimed by multiple host blocks", r.Host)
		}
		seen[r.Host] = true
	}
	return nil
}

func (d *Document) warnf(format string, args ...any) {
	d.Warnings = append(d.Warnings, fmt.Sprintf(format, args...))
}
