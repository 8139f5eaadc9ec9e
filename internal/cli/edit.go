package cli

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/treykane/sshdeck/internal/config"
	"github.com/treykane/sshdeck/internal/group"
	"github.com/treykane/sshdeck/internal/history"
	"github.com/treykane/sshdeck/internal/journal"
	"github.com/treykane/sshdeck/internal/model"
	"github.com/treykane/sshdeck/internal/prefs"
	"github.com/treykane/sshdeck/internal/util"
)

// hostFlags collects the editable fields shared by add and set.
type hostFlags struct {
	hostname     string
	user         string
	port         int
	identity     string
	proxyJump    string
	label        string
	sftpPath     string
	comment      string
	forwardAgent string
}

func (f *hostFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.hostname, "hostname", "", "HostName directive")
	cmd.Flags().StringVar(&f.user, "user", "", "User directive")
	cmd.Flags().IntVar(&f.port, "port", 0, "Port directive (1-65535)")
	cmd.Flags().StringVar(&f.identity, "identity", "", "IdentityFile directive")
	cmd.Flags().StringVar(&f.proxyJump, "proxy-jump", "", "ProxyJump directive")
	cmd.Flags().StringVar(&f.label, "label", "", "display label (stored as tool metadata)")
	cmd.Flags().StringVar(&f.sftpPath, "sftp-path", "", "remote start directory for sftp sessions")
	cmd.Flags().StringVar(&f.comment, "comment", "", "comment line kept above the Host block")
	cmd.Flags().StringVar(&f.forwardAgent, "forward-agent", "", "ForwardAgent directive (yes or no, empty removes it)")
}

// apply copies changed flags onto the record. Only flags the user set are
// applied, so set does not blank untouched fields.
func (f *hostFlags) apply(cmd *cobra.Command, rec *model.HostRecord) error {
	if cmd.Flags().Changed("hostname") {
		rec.HostName = f.hostname
	}
	if cmd.Flags().Changed("user") {
		rec.User = f.user
	}
	if cmd.Flags().Changed("port") {
		if f.port != 0 {
			if err := util.ValidatePort(f.port); err != nil {
				return config.NewFieldError("port", "%v", err)
			}
		}
		rec.Port = f.port
	}
	if cmd.Flags().Changed("identity") {
		rec.IdentityFile = f.identity
	}
	if cmd.Flags().Changed("proxy-jump") {
		rec.ProxyJump = f.proxyJump
	}
	if cmd.Flags().Changed("label") {
		rec.Label = f.label
	}
	if cmd.Flags().Changed("sftp-path") {
		rec.SFTPPath = f.sftpPath
	}
	if cmd.Flags().Changed("comment") {
		rec.Comment = f.comment
	}
	if cmd.Flags().Changed("forward-agent") {
		switch strings.ToLower(strings.TrimSpace(f.forwardAgent)) {
		case "yes":
			v := true
			rec.ForwardAgent = &v
		case "no":
			v := false
			rec.ForwardAgent = &v
		case "":
			rec.ForwardAgent = nil
		default:
			return config.NewFieldError("forward-agent", "must be yes, no, or empty")
		}
	}
	return nil
}

func journalAppend(e journal.Entry) {
	if err := journal.NewStore().Append(e); err != nil {
		slog.Warn("failed to append journal entry", "error", err)
	}
}

func newAddCmd() *cobra.Command {
	var flags hostFlags
	cmd := &cobra.Command{
		Use:   "add <alias>",
		Short: "Add a host block to the config file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, path, err := loadDocument()
			if err != nil {
				return err
			}
			dups := doc.DuplicateAliases()

			alias := config.SanitizeAlias(args[0])
			if doc.HasAlias(alias) {
				return config.NewFieldError("host", "alias %q already exists", alias)
			}
			rec := model.NewHostRecord(alias)
			if err := flags.apply(cmd, &rec); err != nil {
				return err
			}
			if err := doc.Add(rec); err != nil {
				return err
			}
			if err := saveDocument(path, doc, dups); err != nil {
				return err
			}
			journalAppend(journal.Entry{Action: journal.ActionAdd, Alias: alias})
			fmt.Printf("added %s\n", alias)
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func newSetCmd() *cobra.Command {
	var flags hostFlags
	cmd := &cobra.Command{
		Use:   "set <alias>",
		Short: "Update fields on an existing host block",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, path, err := loadDocument()
			if err != nil {
				return err
			}
			dups := doc.DuplicateAliases()

			rec, err := findRecord(doc, args[0])
			if err != nil {
				return err
			}
			updated := rec.Clone()
			if err := flags.apply(cmd, &updated); err != nil {
				return err
			}
			if err := doc.Replace(updated); err != nil {
				return err
			}
			if err := saveDocument(path, doc, dups); err != nil {
				return err
			}
			journalAppend(journal.Entry{Action: journal.ActionUpdate, Alias: updated.Host})
			fmt.Printf("updated %s\n", updated.Host)
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func newRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <alias>",
		Short: "Remove a host block from the config file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, path, err := loadDocument()
			if err != nil {
				return err
			}
			dups := doc.DuplicateAliases()

			alias := args[0]
			if !doc.Remove(alias) {
				return fmt.Errorf("host not found: %s", alias)
			}
			if err := saveDocument(path, doc, dups); err != nil {
				return err
			}
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
			journalAppend(journal.Entry{Action: journal.ActionRemove, Alias: alias})
			fmt.Printf("removed %s\n", alias)
			return nil
		},
	}
}

func newRenameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rename <alias> <new-alias>",
		Short: "Rename a host and update everything keyed by its alias",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, path, err := loadDocument()
			if err != nil {
				return err
			}
			dups := doc.DuplicateAliases()

			oldAlias := args[0]
			newAlias := config.SanitizeAlias(args[1])
			if err := doc.Rename(oldAlias, newAlias); err != nil {
				return err
			}
			if err := saveDocument(path, doc, dups); err != nil {
				return err
			}
			// Overrides, history, and groups key on the alias; a rename
			// that skips them silently detaches their entries.
			if err := prefs.Rename(oldAlias, newAlias); err != nil {
				slog.Warn("failed to move terminal override", "alias", oldAlias, "error", err)
			}
			if err := history.Rename(oldAlias, newAlias); err != nil {
				slog.Warn("failed to move history entry", "alias", oldAlias, "error", err)
			}
			if err := group.RenameAlias(oldAlias, newAlias); err != nil {
				slog.Warn("failed to move group membership", "alias", oldAlias, "error", err)
			}
			journalAppend(journal.Entry{Action: journal.ActionRename, Alias: oldAlias, NewAlias: newAlias})
			fmt.Printf("renamed %s -> %s\n", oldAlias, newAlias)
			return nil
		},
	}
}
