package model

import (
	"strings"

	"github.com/google/uuid"
)

// WildcardAlias is the alias of the defaults block applied to all
// otherwise-unmatched hosts.
const WildcardAlias = "*"

// Option is one passthrough config directive the tool does not model
// explicitly. Name is the directive keyword as it appeared in the file
// (matched case-insensitively), Value is the raw remainder of the line.
// An Option whose Name starts with "#" carries a verbatim comment line
// found inside a Host block; Value then holds the full line.
type Option struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// HostRecord is one Host block from an SSH client config, plus tool-private
// metadata. Identity (ID) lives only for the process lifetime and is never
// written to the config file; the alias (Host) is the persistent key.
type HostRecord struct {
	ID           string   `json:"id"`
	Host         string   `json:"host"`
	Label        string   `json:"label,omitempty"`
	HostName     string   `json:"host_name,omitempty"`
	User         string   `json:"user,omitempty"`
	Port         int      `json:"port,omitempty"` // 0 means unset (ssh default 22)
	IdentityFile string   `json:"identity_file,omitempty"`
	ProxyJump    string   `json:"proxy_jump,omitempty"`
	SFTPPath     string   `json:"sftp_path,omitempty"`
	ForwardAgent *bool    `json:"forward_agent,omitempty"` // nil means no directive
	Comment      string   `json:"comment,omitempty"`
	Options      []Option `json:"options,omitempty"`

	// MetaExtra holds #sshdeck: metadata keys this version does not
	// understand, preserved for forward compatibility.
	MetaExtra []Option `json:"meta_extra,omitempty"`
}

// NewHostRecord creates a record with a fresh process-lifetime ID.
func NewHostRecord(alias string) HostRecord {
	return HostRecord{ID: uuid.NewString(), Host: alias}
}

// IsWildcard reports whether this is the defaults block.
func (h HostRecord) IsWildcard() bool {
	return h.Host == WildcardAlias
}

// DisplayName returns the label when present, otherwise the alias.
func (h HostRecord) DisplayName() string {
	if strings.TrimSpace(h.Label) != "" {
		return h.Label
	}
	return h.Host
}

// DisplayTarget returns the effective destination for listings.
func (h HostRecord) DisplayTarget() string {
	if h.HostName != "" {
		return h.HostName
	}
	return h.Host
}

// EffectivePort returns the port ssh will use for this record alone.
func (h HostRecord) EffectivePort() int {
	if h.Port == 0 {
		return 22
	}
	return h.Port
}

// Option returns the last value recorded for a passthrough directive,
// matching the directive name case-insensitively. Last-wins mirrors how
// repeated values are resolved in effective lookups.
func (h HostRecord) Option(name string) (string, bool) {
	val, found := "", false
	for _, opt := range h.Options {
		if strings.EqualFold(opt.Name, name) {
			val, found = opt.Value, true
		}
	}
	return val, found
}

// SetOption replaces every occurrence of the named directive with a single
// entry, or appends one if the directive was not present.
func (h *HostRecord) SetOption(name, value string) {
	out := h.Options[:0]
	replaced := false
	for _, opt := range h.Options {
		if strings.EqualFold(opt.Name, name) {
			if !replaced {
				out = append(out, Option{Name: opt.Name, Value: value})
				replaced = true
			}
			continue
		}
		out = append(out, opt)
	}
	if !replaced {
		out = append(out, Option{Name: name, Value: value})
	}
	h.Options = out
}

// RemoveOption drops every occurrence of the named directive.
func (h *HostRecord) RemoveOption(name string) {
	out := h.Options[:0]
	for _, opt := range h.Options {
		if strings.EqualFold(opt.Name, name) {
			continue
		}
		out = append(out, opt)
	}
	h.Options = out
}

// Clone returns a deep copy sharing no slices with the receiver. The ID is
// kept: a clone is the same record, typically an edit buffer.
func (h HostRecord) Clone() HostRecord {
	out := h
	out.Options = append([]Option(nil), h.Options...)
	out.MetaExtra = append([]Option(nil), h.MetaExtra...)
	if h.ForwardAgent != nil {
		v := *h.ForwardAgent
		out.ForwardAgent = &v
	}
	return out
}
