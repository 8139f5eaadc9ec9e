package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/treykane/sshdeck/internal/group"
	"github.com/treykane/sshdeck/internal/journal"
	"github.com/treykane/sshdeck/internal/prefs"
	"github.com/treykane/sshdeck/internal/util"
)

func newGroupCmd() *cobra.Command {
	root := &cobra.Command{Use: "group", Short: "Manage named host groups"}

	create := &cobra.Command{
		Use:   "create <name> <alias>...",
		Short: "Create or replace a group of host aliases",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, aliases := args[0], args[1:]
			doc, _, err := loadDocument()
			if err != nil {
				return err
			}
			for _, a := range aliases {
				if !doc.HasAlias(a) {
					return fmt.Errorf("host not found: %s", a)
				}
			}
			if err := group.Create(name, aliases); err != nil {
				return err
			}
			fmt.Printf("group %s: %s\n", name, strings.Join(aliases, ", "))
			return nil
		},
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List groups",
		RunE: func(cmd *cobra.Command, args []string) error {
			groups, err := group.LoadAll()
			if err != nil {
				return err
			}
			for _, g := range groups {
				fmt.Printf("%-24s %s\n", g.Name, strings.Join(g.Aliases, ", "))
			}
			return nil
		},
	}

	del := &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := group.Delete(args[0]); err != nil {
				return err
			}
			fmt.Printf("deleted group %s\n", args[0])
			return nil
		},
	}

	root.AddCommand(create, list, del)
	return root
}

func newTermCmd() *cobra.Command {
	root := &cobra.Command{Use: "term", Short: "Manage per-host terminal overrides"}

	show := &cobra.Command{
		Use:   "show [alias]",
		Short: "Show terminal overrides (all hosts, or one)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				o, ok, err := prefs.Get(args[0])
				if err != nil {
					return err
				}
				if !ok {
					fmt.Printf("no override for %s\n", args[0])
					return nil
				}
				printOverride(args[0], o)
				return nil
			}
			aliases, err := prefs.Aliases()
			if err != nil {
				return err
			}
			for _, a := range aliases {
				o, _, err := prefs.Get(a)
				if err != nil {
					return err
				}
				printOverride(a, o)
			}
			return nil
		},
	}

	var profile, startup string
	var columns, rows int
	set := &cobra.Command{
		Use:   "set <alias>",
		Short: "Set terminal overrides for a host",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, _, err := loadDocument()
			if err != nil {
				return err
			}
			if !doc.HasAlias(args[0]) {
				return fmt.Errorf("host not found: %s", args[0])
			}
			o, _, err := prefs.Get(args[0])
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("profile") {
				o.Profile = profile
			}
			if cmd.Flags().Changed("columns") {
				o.Columns = columns
			}
			if cmd.Flags().Changed("rows") {
				o.Rows = rows
			}
			if cmd.Flags().Changed("startup") {
				o.StartupCommand = startup
			}
			if err := prefs.Set(args[0], o); err != nil {
				return err
			}
			if o.IsZero() {
				fmt.Printf("cleared override for %s\n", args[0])
			} else {
				printOverride(args[0], o)
			}
			return nil
		},
	}
	set.Flags().StringVar(&profile, "profile", "", "terminal profile name (empty clears)")
	set.Flags().IntVar(&columns, "columns", 0, "window columns (0 clears)")
	set.Flags().IntVar(&rows, "rows", 0, "window rows (0 clears)")
	set.Flags().StringVar(&startup, "startup", "", "command run after connecting (empty clears)")

	root.AddCommand(show, set)
	return root
}

func printOverride(alias string, o prefs.Override) {
	geometry := "-"
	if o.Columns > 0 || o.Rows > 0 {
		geometry = fmt.Sprintf("%dx%d", o.Columns, o.Rows)
	}
	fmt.Printf("%-24s profile=%s geometry=%s startup=%s\n",
		alias, util.EmptyDash(o.Profile), geometry, util.EmptyDash(o.StartupCommand))
}

func newLogCmd() *cobra.Command {
	var alias, action string
	var limit int
	var since time.Duration
	var jsonOut bool
	cmd := &cobra.Command{
		Use:   "log",
		Short: "Show the config edit journal",
		RunE: func(cmd *cobra.Command, args []string) error {
			q := journal.Query{
				Alias:  alias,
				Action: journal.Action(action),
				Limit:  limit,
			}
			if since > 0 {
				q.Since = time.Now().Add(-since)
			}
			entries, err := journal.NewStore().Read(q)
			if err != nil {
				return err
			}
			if jsonOut {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(entries)
			}
			for _, e := range entries {
				line := fmt.Sprintf("%s %-7s %s", e.Timestamp.Local().Format(time.RFC3339), e.Action, e.Alias)
				if e.NewAlias != "" {
					line += " -> " + e.NewAlias
				}
				if e.Detail != "" {
					line += " (" + e.Detail + ")"
				}
				fmt.Println(line)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&alias, "alias", "", "only entries for this alias")
	cmd.Flags().StringVar(&action, "action", "", "only entries with this action")
	cmd.Flags().IntVar(&limit, "limit", 0, "keep only the newest N entries")
	cmd.Flags().DurationVar(&since, "since", 0, "only entries newer than this age (e.g. 24h)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "output JSON")
	return cmd
}
