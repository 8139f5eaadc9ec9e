package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/treykane/sshdeck/internal/config"
	"github.com/treykane/sshdeck/internal/model"
	"github.com/treykane/sshdeck/internal/util"
)

// Field indices for the host editor form.
const (
	fieldAlias = iota
	fieldLabel
	fieldHostname
	fieldUser
	fieldPort
	fieldIdentityFile
	fieldProxyJump
	fieldSFTPPath
	fieldComment
	fieldCount
)

// Forward agent toggle states: no directive, yes, no.
const (
	agentUnset = iota
	agentYes
	agentNo
)

// hostForm edits one host record. For edits, base keeps the identity and
// everything the form does not surface (passthrough options, unknown
// metadata), so completing the form never loses preserved content.
type hostForm struct {
	base         model.HostRecord
	editing      bool
	fields       []textinput.Model
	focusIdx     int
	forwardAgent int
	errMsg       string
}

// newHostForm creates a form for adding a host, or editing rec when
// editing is true.
func newHostForm(rec model.HostRecord, editing bool) *hostForm {
	f := &hostForm{base: rec, editing: editing}

	placeholders := []string{
		"my-server (required)",
		"Display label (optional)",
		"192.168.1.1 or example.com",
		"deploy (optional)",
		"22 (default)",
		"~/.ssh/id_ed25519 (optional)",
		"bastion.example.com (optional)",
		"/var/www (optional sftp start dir)",
		"comment kept above the block (optional)",
	}
	limits := []int{64, 128, 256, 64, 6, 256, 256, 256, 256}
	values := []string{
		rec.Host, rec.Label, rec.HostName, rec.User, "",
		rec.IdentityFile, rec.ProxyJump, rec.SFTPPath, rec.Comment,
	}
	if rec.Port != 0 {
		values[fieldPort] = strconv.Itoa(rec.Port)
	}

	f.fields = make([]textinput.Model, fieldCount)
	for i := range f.fields {
		ti := textinput.New()
		ti.Placeholder = placeholders[i]
		ti.CharLimit = limits[i]
		ti.Width = 40
		ti.SetValue(values[i])
		f.fields[i] = ti
	}
	if rec.ForwardAgent != nil {
		if *rec.ForwardAgent {
			f.forwardAgent = agentYes
		} else {
			f.forwardAgent = agentNo
		}
	}
	f.fields[0].Focus()
	return f
}

// update processes a key message and returns the finished record when the
// form is submitted.
func (f *hostForm) update(msg tea.KeyMsg) (*model.HostRecord, tea.Cmd) {
	switch msg.String() {
	case "tab", "shift+tab", "down", "up":
		f.fields[f.focusIdx].Blur()
		if msg.String() == "tab" || msg.String() == "down" {
			f.focusIdx = (f.focusIdx + 1) % fieldCount
		} else {
			f.focusIdx = (f.focusIdx - 1 + fieldCount) % fieldCount
		}
		f.fields[f.focusIdx].Focus()
		return nil, f.fields[f.focusIdx].Cursor.BlinkCmd()
	case "ctrl+a":
		f.forwardAgent = (f.forwardAgent + 1) % 3
		return nil, nil
	case "enter":
		rec, err := f.buildRecord()
		if err != nil {
			f.errMsg = err.Error()
			return nil, nil
		}
		return &rec, nil
	default:
		var cmd tea.Cmd
		f.fields[f.focusIdx], cmd = f.fields[f.focusIdx].Update(msg)
		f.errMsg = ""
		return nil, cmd
	}
}

// buildRecord assembles the record from field values, starting from base
// so options and metadata captured at parse time carry through.
func (f *hostForm) buildRecord() (model.HostRecord, error) {
	rec := f.base.Clone()
	if !f.editing {
		rec = model.NewHostRecord("")
	}

	alias := config.SanitizeAlias(f.fields[fieldAlias].Value())
	if err := config.ValidateAlias(alias); err != nil {
		return model.HostRecord{}, err
	}
	rec.Host = alias
	rec.Label = strings.TrimSpace(f.fields[fieldLabel].Value())
	rec.HostName = strings.TrimSpace(f.fields[fieldHostname].Value())
	rec.User = strings.TrimSpace(f.fields[fieldUser].Value())
	rec.IdentityFile = strings.TrimSpace(f.fields[fieldIdentityFile].Value())
	rec.ProxyJump = strings.TrimSpace(f.fields[fieldProxyJump].Value())
	rec.SFTPPath = strings.TrimSpace(f.fields[fieldSFTPPath].Value())
	rec.Comment = strings.TrimSpace(f.fields[fieldComment].Value())

	rec.Port = 0
	if portStr := strings.TrimSpace(f.fields[fieldPort].Value()); portStr != "" {
		p, err := strconv.Atoi(portStr)
		if err != nil {
			return model.HostRecord{}, config.NewFieldError("port", "must be a number")
		}
		if err := util.ValidatePort(p); err != nil {
			return model.HostRecord{}, config.NewFieldError("port", "%v", err)
		}
		rec.Port = p
	}

	switch f.forwardAgent {
	case agentYes:
		v := true
		rec.ForwardAgent = &v
	case agentNo:
		v := false
		rec.ForwardAgent = &v
	default:
		rec.ForwardAgent = nil
	}
	return rec, nil
}

func (f *hostForm) title() string {
	if f.editing {
		return "Edit Host"
	}
	return "Add Host"
}

// view renders the form panel.
func (f *hostForm) view(renderPanel func(string, string, int, lipgloss.Color) string, width int) string {
	labels := []string{
		"Alias:", "Label:", "Hostname:", "User:", "Port:",
		"IdentityFile:", "ProxyJump:", "SFTP path:", "Comment:",
	}

	var b strings.Builder
	for i, label := range labels {
		cursor := "  "
		if i == f.focusIdx {
			cursor = "> "
		}
		b.WriteString(fmt.Sprintf("%s%-14s %s\n", cursor, label, f.fields[i].View()))
	}

	agent := "(inherit)"
	switch f.forwardAgent {
	case agentYes:
		agent = "yes"
	case agentNo:
		agent = "no"
	}
	b.WriteString(fmt.Sprintf("\n  ForwardAgent:  %s  (Ctrl+A cycles)\n", agent))

	if f.errMsg != "" {
		errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
		b.WriteString("\n" + errStyle.Render("Error: "+f.errMsg) + "\n")
	}

	b.WriteString("\nTab/Shift-Tab navigate | Ctrl+A forward agent | Enter submit | Esc cancel")
	return renderPanel(f.title(), b.String(), width, lipgloss.Color("214"))
}
