package doctor

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/treykane/sshdeck/internal/appconfig"
	"github.com/treykane/sshdeck/internal/config"
	"github.com/treykane/sshdeck/internal/launch"
)

type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

type Issue struct {
	Severity       Severity `json:"severity"`
	Check          string   `json:"check"`
	Target         string   `json:"target"`
	Message        string   `json:"message"`
	Recommendation string   `json:"recommendation"`
}

type Report struct {
	Issues []Issue `json:"issues"`
}

func (r Report) HasHigh() bool {
	for _, i := range r.Issues {
		if i.Severity == SeverityHigh {
			return true
		}
	}
	return false
}

// Run executes local diagnostics: OpenSSH client presence, config parse
// health, duplicate aliases, unreadable identities, and file posture.
func Run(path string) (Report, error) {
	var issues []Issue

	if err := launch.EnsureSSHBinary(); err != nil {
		issues = append(issues, Issue{
			Severity:       SeverityHigh,
			Check:          "ssh-binary",
			Target:         "PATH",
			Message:        err.Error(),
			Recommendation: "install OpenSSH client and ensure `ssh` is on PATH",
		})
	}

	doc, err := config.ParseFile(path)
	if err != nil {
		return Report{}, err
	}
	issues = append(issues, InspectDocument(doc, path)...)
	issues = append(issues, permissionIssues(path)...)

	sortIssues(issues)
	return Report{Issues: issues}, nil
}

// InspectDocument audits a parsed config without touching the filesystem
// beyond identity file stat calls.
func InspectDocument(doc config.Document, target string) []Issue {
	var issues []Issue

	for _, w := range doc.Warnings {
		issues = append(issues, Issue{
			Severity:       SeverityMedium,
			Check:          "config-warning",
			Target:         target,
			Message:        w,
			Recommendation: "fix malformed or unsupported SSH config directives",
		})
	}

	for _, alias := range doc.DuplicateAliases() {
		issues = append(issues, Issue{
			Severity:       SeverityMedium,
			Check:          "duplicate-alias",
			Target:         alias,
			Message:        "alias appears in more than one Host block; the first matching block wins in OpenSSH",
			Recommendation: "merge or rename the duplicate Host blocks",
		})
	}

	home, _ := os.UserHomeDir()
	seen := map[string]struct{}{}
	for _, rec := range doc.Records {
		for _, opt := range rec.Options {
			if strings.EqualFold(opt.Name, "Port") {
				issues = append(issues, Issue{
					Severity:       SeverityMedium,
					Check:          "port-unparsed",
					Target:         rec.Host,
					Message:        fmt.Sprintf("Port value %q is not a valid port number", opt.Value),
					Recommendation: "set Port to an integer between 1 and 65535",
				})
			}
		}

		identity := strings.TrimSpace(rec.IdentityFile)
		if identity == "" {
			continue
		}
		expanded := identity
		if strings.HasPrefix(expanded, "~/") && home != "" {
			expanded = filepath.Join(home, expanded[2:])
		}
		if _, ok := seen[expanded]; ok {
			continue
		}
		seen[expanded] = struct{}{}
		if _, err := os.Stat(expanded); os.IsNotExist(err) {
			issues = append(issues, Issue{
				Severity:       SeverityMedium,
				Check:          "identity-missing",
				Target:         rec.Host,
				Message:        fmt.Sprintf("IdentityFile %s does not exist", identity),
				Recommendation: "create the key or update IdentityFile to an existing path",
			})
		}
	}
	return issues
}

func permissionIssues(configPath string) []Issue {
	var issues []Issue

	home, err := os.UserHomeDir()
	if err == nil {
		checkPathPerm(&issues, filepath.Join(home, ".ssh"), 0o700, false)
	}
	checkPathPerm(&issues, configPath, 0o600, true)

	cfgDir, err := appconfig.ConfigDir()
	if err == nil {
		checkPathPerm(&issues, cfgDir, 0o700, false)
		checkPathPerm(&issues, filepath.Join(cfgDir, "config.yaml"), 0o600, true)
	}
	return issues
}

func checkPathPerm(issues *[]Issue, path string, max os.FileMode, isFile bool) {
	st, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return
		}
		*issues = append(*issues, Issue{
			Severity:       SeverityLow,
			Check:          "file-posture",
			Target:         path,
			Message:        fmt.Sprintf("unable to inspect permissions: %v", err),
			Recommendation: "verify path and permissions manually",
		})
		return
	}
	mode := st.Mode().Perm()
	if mode > max {
		kind := "directory"
		if isFile {
			kind = "file"
		}
		*issues = append(*issues, Issue{
			Severity:       SeverityMedium,
			Check:          "file-posture",
			Target:         path,
			Message:        fmt.Sprintf("%s permissions are too broad (%#o)", kind, mode),
			Recommendation: fmt.Sprintf("restrict permissions to %#o or tighter", max),
		})
	}
}

func sortIssues(issues []Issue) {
	sort.Slice(issues, func(i, j int) bool {
		ri := severityRank(issues[i].Severity)
		rj := severityRank(issues[j].Severity)
		if ri != rj {
			return ri > rj
		}
		if issues[i].Check != issues[j].Check {
			return issues[i].Check < issues[j].Check
		}
		if issues[i].Target != issues[j].Target {
			return issues[i].Target < issues[j].Target
		}
		return issues[i].Message < issues[j].Message
	})
}

func severityRank(s Severity) int {
	switch s {
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	default:
		return 1
	}
}
