// Package main is the entry point for the sshdeck binary.
//
// sshdeck is a terminal application that combines a TUI dashboard (built
// with Bubble Tea) and a CLI (built with Cobra) for managing the hosts in
// an OpenSSH client config file.
//
// When invoked without arguments, it launches the interactive dashboard.
// When invoked with subcommands (e.g. "list", "connect", "doctor"), it
// runs the corresponding CLI operation and exits.
//
// Usage:
//
//	sshdeck                # launch the TUI dashboard
//	sshdeck list           # list hosts from ~/.ssh/config
//	sshdeck connect prod   # open an interactive session
//
// The CLI is constructed in internal/cli and the TUI in internal/ui. This
// file simply wires them together and handles top-level error reporting.
package main

import (
	"fmt"
	"os"

	"github.com/treykane/sshdeck/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
