// Package cli provides the command-line interface for sshdeck.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/treykane/sshdeck/internal/appconfig"
	"github.com/treykane/sshdeck/internal/config"
	"github.com/treykane/sshdeck/internal/doctor"
	"github.com/treykane/sshdeck/internal/group"
	"github.com/treykane/sshdeck/internal/history"
	"github.com/treykane/sshdeck/internal/launch"
	"github.com/treykane/sshdeck/internal/model"
	"github.com/treykane/sshdeck/internal/resolve"
	"github.com/treykane/sshdeck/internal/ui"
	"github.com/treykane/sshdeck/internal/util"
)

var configPathFlag string

// NewRootCommand creates the root cobra command.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "sshdeck",
		Short: "SSH config deck: browse, edit, and launch hosts from ~/.ssh/config",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ui.Run()
		},
	}
	root.PersistentFlags().StringVar(&configPathFlag, "config", "", "ssh config file to manage (default ~/.ssh/config)")

	root.AddCommand(
		newListCmd(),
		newShowCmd(),
		newAddCmd(),
		newSetCmd(),
		newRemoveCmd(),
		newRenameCmd(),
		newConnectCmd(),
		newSFTPCmd(),
		newPrintCmd(),
		newFmtCmd(),
		newDoctorCmd(),
		newResolveCmd(),
		newGroupCmd(),
		newTermCmd(),
		newLogCmd(),
	)
	return root
}

// sshConfigPath resolves the config file in flag, app-config, default order.
func sshConfigPath() (string, error) {
	if configPathFlag != "" {
		return configPathFlag, nil
	}
	cfg, err := appconfig.Load()
	if err != nil {
		return "", err
	}
	return cfg.SSHConfigPath()
}

func loadDocument() (config.Document, string, error) {
	path, err := sshConfigPath()
	if err != nil {
		return config.Document{}, "", err
	}
	doc, err := config.ParseFile(path)
	return doc, path, err
}

// saveDocument validates aliases and rewrites the config file, keeping a
// .bak copy of the previous contents when backups are enabled. The
// preexisting duplicates come from the parse so edits never add new ones.
func saveDocument(path string, doc config.Document, preexistingDups []string) error {
	if err := doc.CheckAliases(preexistingDups); err != nil {
		return err
	}
	cfg, err := appconfig.Load()
	if err != nil {
		return err
	}
	if cfg.BackupOnSave {
		if prev, err := os.ReadFile(path); err == nil {
			if err := os.WriteFile(path+".bak", prev, 0o600); err != nil {
				return fmt.Errorf("write backup: %w", err)
			}
		}
	}
	return config.WriteFile(path, doc)
}

func findRecord(doc config.Document, alias string) (model.HostRecord, error) {
	rec, ok := doc.Find(alias)
	if !ok {
		return model.HostRecord{}, fmt.Errorf("host not found: %s", alias)
	}
	return rec, nil
}

func printWarnings(doc config.Document) {
	if len(doc.Warnings) == 0 {
		return
	}
	fmt.Fprintln(os.Stderr, "warnings:")
	for _, w := range doc.Warnings {
		fmt.Fprintf(os.Stderr, "  - %s\n", w)
	}
}

func newListCmd() *cobra.Command {
	var jsonOut, recent bool
	var groupName string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List hosts from the config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, _, err := loadDocument()
			if err != nil {
				return err
			}
			cfg, err := appconfig.Load()
			if err != nil {
				return err
			}

			records := doc.Records
			if !cfg.UI.ShowWildcard {
				kept := make([]model.HostRecord, 0, len(records))
				for _, r := range records {
					if !r.IsWildcard() {
						kept = append(kept, r)
					}
				}
				records = kept
			}
			if groupName != "" {
				g, err := group.Get(groupName)
				if err != nil {
					return err
				}
				kept := make([]model.HostRecord, 0, len(records))
				for _, r := range records {
					if g.Contains(r.Host) {
						kept = append(kept, r)
					}
				}
				records = kept
			}
			if recent {
				used, err := history.LastUsed()
				if err != nil {
					return err
				}
				records = history.SortRecordsRecent(records, used)
			}

			if jsonOut {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(records)
			}
			fmt.Printf("%-24s %-24s %-28s %-8s %s\n", "ALIAS", "LABEL", "HOSTNAME", "PORT", "USER")
			for _, r := range records {
				fmt.Printf("%-24s %-24s %-28s %-8d %s\n",
					r.Host, util.EmptyDash(r.Label), r.DisplayTarget(), r.EffectivePort(), util.EmptyDash(r.User))
			}
			printWarnings(doc)
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "output JSON")
	cmd.Flags().BoolVar(&recent, "recent", false, "sort by last connection")
	cmd.Flags().StringVar(&groupName, "group", "", "only hosts in the named group")
	return cmd
}

func newShowCmd() *cobra.Command {
	var jsonOut bool
	cmd := &cobra.Command{
		Use:   "show <alias>",
		Short: "Show one host's stored and effective settings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, path, err := loadDocument()
			if err != nil {
				return err
			}
			rec, err := findRecord(doc, args[0])
			if err != nil {
				return err
			}
			eff, err := resolve.FromFile(path, rec.Host)
			if err != nil {
				// A missing file still yields an empty parse; resolution
				// just falls back to the record itself.
				eff = resolve.Effective{Alias: rec.Host, Hostname: rec.DisplayTarget(), Port: fmt.Sprint(rec.EffectivePort())}
			}

			if jsonOut {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(struct {
					Record    model.HostRecord  `json:"record"`
					Effective resolve.Effective `json:"effective"`
				}{rec, eff})
			}

			fmt.Printf("Host:          %s\n", rec.Host)
			fmt.Printf("Label:         %s\n", util.EmptyDash(rec.Label))
			fmt.Printf("HostName:      %s\n", util.EmptyDash(rec.HostName))
			fmt.Printf("User:          %s\n", util.EmptyDash(rec.User))
			fmt.Printf("Port:          %d\n", rec.EffectivePort())
			fmt.Printf("IdentityFile:  %s\n", util.EmptyDash(rec.IdentityFile))
			fmt.Printf("ProxyJump:     %s\n", util.EmptyDash(rec.ProxyJump))
			fmt.Printf("SFTP path:     %s\n", util.EmptyDash(rec.SFTPPath))
			if rec.ForwardAgent != nil {
				fmt.Printf("ForwardAgent:  %v\n", *rec.ForwardAgent)
			}
			if rec.Comment != "" {
				fmt.Printf("Comment:       %s\n", rec.Comment)
			}
			for _, opt := range rec.Options {
				if opt.Name == "#" {
					continue
				}
				fmt.Printf("Option:        %s %s\n", opt.Name, opt.Value)
			}
			fmt.Printf("Effective:     %s@%s\n", util.EmptyDash(eff.User), eff.Address())
			fmt.Printf("Command:       %s\n", launch.SSHCommand(rec))
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "output JSON")
	return cmd
}

func newConnectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "connect <alias>",
		Short: "Open an interactive SSH session to a host",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := launch.EnsureSSHBinary(); err != nil {
				return err
			}
			doc, _, err := loadDocument()
			if err != nil {
				return err
			}
			rec, err := findRecord(doc, args[0])
			if err != nil {
				return err
			}
			// Long timeout: an interactive session may stay open for hours.
			ctx, cancel := context.WithTimeout(context.Background(), 24*time.Hour)
			defer cancel()
			if err := launch.RunInteractive(ctx, rec); err != nil {
				return err
			}
			return history.Touch(rec.Host)
		},
	}
}

func newSFTPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sftp <alias>",
		Short: "Open an interactive SFTP session to a host",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := launch.EnsureSSHBinary(); err != nil {
				return err
			}
			doc, _, err := loadDocument()
			if err != nil {
				return err
			}
			rec, err := findRecord(doc, args[0])
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(context.Background(), 24*time.Hour)
			defer cancel()
			if err := launch.RunSFTP(ctx, rec); err != nil {
				return err
			}
			return history.Touch(rec.Host)
		},
	}
}

func newPrintCmd() *cobra.Command {
	var sftpOut bool
	cmd := &cobra.Command{
		Use:   "print <alias>",
		Short: "Print the shell command for a host without running it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, _, err := loadDocument()
			if err != nil {
				return err
			}
			rec, err := findRecord(doc, args[0])
			if err != nil {
				return err
			}
			if sftpOut {
				fmt.Println(launch.SFTPCommand(rec))
			} else {
				fmt.Println(launch.SSHCommand(rec))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&sftpOut, "sftp", false, "print the sftp command instead of ssh")
	return cmd
}

func newFmtCmd() *cobra.Command {
	var check bool
	cmd := &cobra.Command{
		Use:   "fmt",
		Short: "Rewrite the config file in canonical form",
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, path, err := loadDocument()
			if err != nil {
				return err
			}
			current, err := os.ReadFile(path)
			if err != nil && !os.IsNotExist(err) {
				return err
			}
			formatted := config.Serialize(doc)
			if string(current) == formatted {
				fmt.Println("already formatted")
				return nil
			}
			if check {
				return fmt.Errorf("%s is not in canonical form", path)
			}
			if err := saveDocument(path, doc, doc.DuplicateAliases()); err != nil {
				return err
			}
			fmt.Printf("formatted %s\n", path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&check, "check", false, "exit non-zero instead of rewriting")
	return cmd
}

func newDoctorCmd() *cobra.Command {
	var jsonOut bool
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Diagnose config and environment problems",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := sshConfigPath()
			if err != nil {
				return err
			}
			report, err := doctor.Run(path)
			if err != nil {
				return err
			}
			if jsonOut {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			}
			if len(report.Issues) == 0 {
				fmt.Println("no issues found")
				return nil
			}
			for _, issue := range report.Issues {
				fmt.Printf("[%s] %s %s: %s\n    fix: %s\n",
					issue.Severity, issue.Check, issue.Target, issue.Message, issue.Recommendation)
			}
			if report.HasHigh() {
				return fmt.Errorf("high severity issues found")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "output JSON")
	return cmd
}

func newResolveCmd() *cobra.Command {
	var jsonOut bool
	cmd := &cobra.Command{
		Use:   "resolve <alias>",
		Short: "Show the effective settings OpenSSH would use for an alias",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := sshConfigPath()
			if err != nil {
				return err
			}
			eff, err := resolve.FromFile(path, args[0])
			if err != nil {
				return err
			}
			if jsonOut {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(eff)
			}
			fmt.Printf("HostName:     %s\n", eff.Hostname)
			fmt.Printf("User:         %s\n", util.EmptyDash(eff.User))
			fmt.Printf("Port:         %s\n", eff.Port)
			for _, id := range eff.IdentityFiles {
				fmt.Printf("IdentityFile: %s\n", id)
			}
			if eff.ProxyJump != "" {
				fmt.Printf("ProxyJump:    %s\n", eff.ProxyJump)
			}
			if eff.ForwardAgent != "" {
				fmt.Printf("ForwardAgent: %s\n", eff.ForwardAgent)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "output JSON")
	return cmd
}
