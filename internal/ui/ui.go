// Package ui implements the interactive dashboard: browse and filter
// hosts, inspect details, connect, and edit the config file in place.
package ui

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/treykane/sshdeck/internal/appconfig"
	"github.com/treykane/sshdeck/internal/config"
	"github.com/treykane/sshdeck/internal/group"
	"github.com/treykane/sshdeck/internal/history"
	"github.com/treykane/sshdeck/internal/journal"
	"github.com/treykane/sshdeck/internal/launch"
	"github.com/treykane/sshdeck/internal/model"
	"github.com/treykane/sshdeck/internal/prefs"
	"github.com/treykane/sshdeck/internal/util"
)

type uiMode int

const (
	modeBrowse uiMode = iota
	modeFilter
	modeForm
	modeConfirmDelete
)

type statusMsg string

type modelUI struct {
	doc      config.Document
	path     string
	dups     []string
	records  []model.HostRecord
	filtered []model.HostRecord
	sel      int
	filter   string
	mode     uiMode
	form     *hostForm
	dirty    bool
	showHelp bool
	status   string
	width    int
	height   int
	cfg      appconfig.Config
}

func initialModel() modelUI {
	cfg, _ := appconfig.Load()
	m := modelUI{cfg: cfg}
	m.reloadConfig()
	m.status = "Ready. Enter connects, a adds, e edits, s saves."
	return m
}

func (m *modelUI) reloadConfig() {
	path, err := m.cfg.SSHConfigPath()
	if err != nil {
		m.status = "config path error: " + err.Error()
		return
	}
	doc, err := config.ParseFile(path)
	if err != nil {
		m.status = "config parse error: " + err.Error()
		return
	}
	m.path = path
	m.doc = doc
	// Duplicates already in the file are tolerated; edits must not add more.
	m.dups = doc.DuplicateAliases()
	m.dirty = false
	m.refreshRecords()
}

// refreshRecords rebuilds the visible list from the document.
func (m *modelUI) refreshRecords() {
	m.records = m.records[:0]
	for _, r := range m.doc.Records {
		if r.IsWildcard() && !m.cfg.UI.ShowWildcard {
			continue
		}
		m.records = append(m.records, r)
	}
	m.applyFilter()
}

func (m *modelUI) applyFilter() {
	if strings.TrimSpace(m.filter) == "" {
		m.filtered = append([]model.HostRecord(nil), m.records...)
	} else {
		f := strings.ToLower(strings.TrimSpace(m.filter))
		m.filtered = nil
		for _, r := range m.records {
			if strings.Contains(strings.ToLower(r.Host), f) ||
				strings.Contains(strings.ToLower(r.Label), f) ||
				strings.Contains(strings.ToLower(r.DisplayTarget()), f) {
				m.filtered = append(m.filtered, r)
			}
		}
	}
	if m.sel >= len(m.filtered) {
		m.sel = len(m.filtered) - 1
	}
	if m.sel < 0 {
		m.sel = 0
	}
}

func (m *modelUI) save() {
	if err := m.doc.CheckAliases(m.dups); err != nil {
		m.status = "save blocked: " + err.Error()
		return
	}
	if m.cfg.BackupOnSave {
		if prev, err := os.ReadFile(m.path); err == nil {
			if err := os.WriteFile(m.path+".bak", prev, 0o600); err != nil {
				m.status = "backup failed: " + err.Error()
				return
			}
		}
	}
	if err := config.WriteFile(m.path, m.doc); err != nil {
		m.status = "save failed: " + err.Error()
		return
	}
	if err := journal.NewStore().Append(journal.Entry{Action: journal.ActionSave, Detail: m.path}); err != nil {
		slog.Warn("failed to append journal entry", "error", err)
	}
	m.dirty = false
	m.status = "Saved " + m.path
}

func (m modelUI) Init() tea.Cmd {
	return nil
}

func (m modelUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case statusMsg:
		m.status = string(msg)
		return m, nil
	case tea.KeyMsg:
		switch m.mode {
		case modeFilter:
			return m.updateFilter(msg)
		case modeForm:
			return m.updateForm(msg)
		case modeConfirmDelete:
			return m.updateConfirmDelete(msg)
		}
		return m.updateBrowse(msg)
	}
	return m, nil
}

func (m modelUI) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc":
		m.mode = modeBrowse
		m.applyFilter()
	case "backspace":
		if len(m.filter) > 0 {
			m.filter = m.filter[:len(m.filter)-1]
		}
		m.applyFilter()
	default:
		if len(msg.String()) == 1 {
			m.filter += msg.String()
			m.applyFilter()
		}
	}
	return m, nil
}

func (m modelUI) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "esc" {
		m.mode = modeBrowse
		m.form = nil
		m.status = "Edit cancelled"
		return m, nil
	}
	rec, cmd := m.form.update(msg)
	if rec == nil {
		return m, cmd
	}

	var err error
	if m.form.editing {
		err = m.doc.Replace(*rec)
	} else {
		// A label that sanitizes to a taken alias gets a numeric suffix
		// instead of an error.
		rec.Host = config.EnsureUniqueAlias(&m.doc, rec.Host)
		err = m.doc.Add(*rec)
	}
	if err != nil {
		m.form.errMsg = err.Error()
		return m, nil
	}
	if m.form.editing {
		m.status = fmt.Sprintf("Updated %s (unsaved)", rec.Host)
	} else {
		m.status = fmt.Sprintf("Added %s (unsaved)", rec.Host)
	}
	m.mode = modeBrowse
	m.form = nil
	m.dirty = true
	m.refreshRecords()
	return m, nil
}

func (m modelUI) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y":
		if len(m.filtered) > 0 {
			alias := m.filtered[m.sel].Host
			if m.doc.Remove(alias) {
				// Alias-keyed stores follow the host out.
				if err := prefs.Delete(alias); err != nil {
					slog.Warn("failed to drop terminal override", "alias", alias, "error", err)
				}
				if err := history.Forget(alias); err != nil {
					slog.Warn("failed to drop history entry", "alias", alias, "error", err)
				}
				if err := group.RemoveAlias(alias); err != nil {
					slog.Warn("failed to drop group membership", "alias", alias, "error", err)
				}
				m.dirty = true
				m.status = fmt.Sprintf("Deleted %s (unsaved)", alias)
				m.refreshRecords()
			}
		}
		m.mode = modeBrowse
	case "n", "esc":
		m.mode = modeBrowse
		m.status = "Delete cancelled"
	}
	return m, nil
}

func (m modelUI) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "j", "down":
		if m.sel < len(m.filtered)-1 {
			m.sel++
		}
	case "k", "up":
		if m.sel > 0 {
			m.sel--
		}
	case "/":
		m.mode = modeFilter
		m.status = "Filter mode: type and press Enter"
	case "?":
		m.showHelp = !m.showHelp
	case "r":
		m.reloadConfig()
		m.status = "Reloaded " + m.path
	case "a":
		m.form = newHostForm(model.HostRecord{}, false)
		m.mode = modeForm
	case "e":
		if len(m.filtered) == 0 {
			break
		}
		m.form = newHostForm(m.filtered[m.sel].Clone(), true)
		m.mode = modeForm
	case "d":
		if len(m.filtered) == 0 {
			break
		}
		m.mode = modeConfirmDelete
		m.status = fmt.Sprintf("Delete %s? (y/n)", m.filtered[m.sel].Host)
	case "s":
		m.save()
	case "enter":
		if len(m.filtered) == 0 {
			break
		}
		rec := m.filtered[m.sel]
		cmd := launch.ConnectCommand(rec)
		return m, tea.ExecProcess(cmd, func(err error) tea.Msg {
			if err != nil {
				return statusMsg("ssh exited: " + err.Error())
			}
			if terr := history.Touch(rec.Host); terr != nil {
				slog.Warn("failed to record connection", "alias", rec.Host, "error", terr)
			}
			return statusMsg("ssh session closed")
		})
	}
	return m, nil
}

func (m modelUI) View() string {
	head := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")).Render("sshdeck")
	dirtyMark := ""
	if m.dirty {
		dirtyMark = " [unsaved changes]"
	}
	subhead := fmt.Sprintf("%s  hosts=%d shown=%d%s", m.path, len(m.records), len(m.filtered), dirtyMark)

	left := strings.Builder{}
	for i, r := range m.filtered {
		cursor := " "
		if i == m.sel {
			cursor = ">"
		}
		left.WriteString(fmt.Sprintf("%s %-22s %-22s\n", cursor, r.Host, r.DisplayName()))
	}
	if len(m.filtered) == 0 {
		left.WriteString("  (no hosts matched)\n")
	}

	detail := strings.Builder{}
	if len(m.filtered) > 0 {
		r := m.filtered[m.sel]
		detail.WriteString(fmt.Sprintf("Alias: %s\nLabel: %s\nHostName: %s\nUser: %s\nPort: %d\n",
			r.Host, util.EmptyDash(r.Label), util.EmptyDash(r.HostName), util.EmptyDash(r.User), r.EffectivePort()))
		detail.WriteString(fmt.Sprintf("IdentityFile: %s\nProxyJump: %s\nSFTP path: %s\n",
			util.EmptyDash(r.IdentityFile), util.EmptyDash(r.ProxyJump), util.EmptyDash(r.SFTPPath)))
		if r.ForwardAgent != nil {
			detail.WriteString(fmt.Sprintf("ForwardAgent: %v\n", *r.ForwardAgent))
		}
		if r.Comment != "" {
			detail.WriteString("Comment: " + r.Comment + "\n")
		}
		extra := 0
		for _, opt := range r.Options {
			if opt.Name != "#" {
				extra++
			}
		}
		if extra > 0 {
			detail.WriteString(fmt.Sprintf("Other directives: %d (preserved verbatim)\n", extra))
		}
		detail.WriteString("\nCommand: " + launch.SSHCommand(r) + "\n")
	} else {
		detail.WriteString("Pick a host to view its settings.\n")
	}

	warn := ""
	if len(m.doc.Warnings) > 0 {
		warn = "Warnings: " + strings.Join(m.doc.Warnings, " | ") + "\n"
	}
	filterLine := fmt.Sprintf("Filter: %s", m.filter)
	if m.mode == modeFilter {
		filterLine += " (typing...)"
	}

	quickHelp := "Keys: Enter connect | a add | e edit | d delete | s save | / filter | r reload | ? help | q quit"

	var mid string
	if m.mode == modeForm && m.form != nil {
		mid = m.form.view(m.renderPanel, m.effectiveWidth())
	} else {
		mid = m.renderMainPanels(left.String(), detail.String())
	}

	status := m.renderPanel("Status", m.status, m.effectiveWidth(), lipgloss.Color("205"))
	help := ""
	if m.showHelp {
		help = m.renderPanel("Help", m.helpBlock(), m.effectiveWidth(), lipgloss.Color("244"))
	}
	return lipgloss.JoinVertical(
		lipgloss.Left,
		head,
		subhead,
		filterLine,
		quickHelp,
		mid,
		help,
		warn,
		status,
	)
}

// Run starts the dashboard program.
func Run() error {
	if err := launch.EnsureSSHBinary(); err != nil {
		return err
	}
	p := tea.NewProgram(initialModel(), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (m modelUI) helpBlock() string {
	return strings.Join([]string{
		"  Navigation: j/k or arrow keys move selection.",
		"  Filtering: press /, type alias/label/host text, then Enter.",
		"  Connect: press Enter on the selected host.",
		"  Editing: a adds a host, e edits, d deletes (with confirm).",
		"  Saving: s rewrites the config file; edits are in-memory until then.",
		"  Reload: r reparses the config file, discarding unsaved edits.",
		"  Quit: press q or Ctrl+C.",
	}, "\n")
}

func (m modelUI) renderMainPanels(hostsPanel, detailsPanel string) string {
	width := m.effectiveWidth()
	if width < 96 {
		return lipgloss.JoinVertical(
			lipgloss.Left,
			m.renderPanel("Hosts", hostsPanel, width, lipgloss.Color("39")),
			m.renderPanel("Details", detailsPanel, width, lipgloss.Color("69")),
		)
	}
	leftWidth := width / 2
	rightWidth := width - leftWidth
	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		m.renderPanel("Hosts", hostsPanel, leftWidth, lipgloss.Color("39")),
		m.renderPanel("Details", detailsPanel, rightWidth, lipgloss.Color("69")),
	)
}

func (m modelUI) effectiveWidth() int {
	if m.width <= 0 {
		return 100
	}
	return m.width
}

func (m modelUI) renderPanel(title, body string, width int, accent lipgloss.Color) string {
	if width < 24 {
		width = 24
	}
	header := lipgloss.NewStyle().Bold(true).Foreground(accent).Render(title)
	content := strings.TrimSuffix(body, "\n")
	panel := strings.TrimSpace(header + "\n" + content)
	return lipgloss.NewStyle().
		Width(width).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(accent).
		Padding(0, 1).
		Render(panel)
}
