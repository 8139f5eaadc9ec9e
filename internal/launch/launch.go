// Package launch derives invocable ssh/sftp command lines from host
// records and runs them. It shells out to the system OpenSSH binaries
// rather than implementing the protocol, so the user's full configuration
// (keys, agents, ProxyJump chains) applies unchanged.
//
// Command derivation has two paths. A record with a usable alias is
// launched as just "ssh <alias>": its connection parameters live in the
// config file, and repeating them on the command line risks contradicting
// it (a conflicting -p, say). A record with no alias has nowhere else to
// carry its parameters, so the command is built from the raw fields.
package launch

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/creack/pty"
	"github.com/treykane/sshdeck/internal/model"
	"github.com/treykane/sshdeck/internal/util"
)

// EnsureSSHBinary checks that "ssh" is on PATH. Call it before connect
// operations so the failure is a clear message, not an exec error.
func EnsureSSHBinary() error {
	if _, err := exec.LookPath("ssh"); err != nil {
		return fmt.Errorf("ssh binary not found in PATH")
	}
	return nil
}

// SSHArgs returns the argv (after "ssh") for connecting to the record.
func SSHArgs(rec model.HostRecord) []string {
	if usableAlias(rec) {
		return []string{rec.Host}
	}
	var args []string
	if rec.Port != 0 && rec.Port != util.DefaultSSHPort {
		args = append(args, "-p", strconv.Itoa(rec.Port))
	}
	return append(args, destination(rec))
}

// SSHCommand returns a shell-safe command string for the record, suitable
// for display, copy/paste, or handing to an external launcher.
func SSHCommand(rec model.HostRecord) string {
	if usableAlias(rec) {
		return "ssh " + util.EscapeToken(rec.Host)
	}
	parts := []string{"ssh", escapedDestination(rec)}
	if rec.Port != 0 && rec.Port != util.DefaultSSHPort {
		parts = append(parts, "-p", strconv.Itoa(rec.Port))
	}
	return strings.Join(parts, " ")
}

// SFTPArgs returns the argv (after "sftp") for a file-transfer session,
// honoring the record's SFTPPath as the remote start directory.
func SFTPArgs(rec model.HostRecord) []string {
	if usableAlias(rec) {
		return []string{sftpTarget(rec.Host, rec.SFTPPath)}
	}
	var args []string
	if rec.Port != 0 && rec.Port != util.DefaultSSHPort {
		// sftp spells the port flag -P, unlike ssh.
		args = append(args, "-P", strconv.Itoa(rec.Port))
	}
	return append(args, sftpTarget(destination(rec), rec.SFTPPath))
}

// SFTPCommand is the shell-safe string form of SFTPArgs.
func SFTPCommand(rec model.HostRecord) string {
	if usableAlias(rec) {
		return "sftp " + util.EscapeToken(sftpTarget(rec.Host, rec.SFTPPath))
	}
	parts := []string{"sftp"}
	if rec.Port != 0 && rec.Port != util.DefaultSSHPort {
		parts = append(parts, "-P", strconv.Itoa(rec.Port))
	}
	target := escapedDestination(rec)
	if rec.SFTPPath != "" {
		target += ":" + util.EscapeToken(rec.SFTPPath)
	}
	return strings.Join(append(parts, target), " ")
}

// usableAlias reports whether the record can be launched by alias alone.
func usableAlias(rec model.HostRecord) bool {
	return rec.Host != "" && !rec.IsWildcard()
}

func destination(rec model.HostRecord) string {
	if rec.User != "" {
		return rec.User + "@" + rec.HostName
	}
	return rec.HostName
}

func escapedDestination(rec model.HostRecord) string {
	host := util.EscapeToken(rec.HostName)
	if rec.User != "" {
		return util.EscapeToken(rec.User) + "@" + host
	}
	return host
}

func sftpTarget(dest, path string) string {
	if path == "" {
		return dest
	}
	return dest + ":" + path
}

// ConnectCommand creates an exec.Cmd for an interactive session. The
// caller wires stdio (or hands it to tea.ExecProcess) and starts it.
func ConnectCommand(rec model.HostRecord) *exec.Cmd {
	return exec.Command("ssh", SSHArgs(rec)...)
}

// SFTPSessionCommand creates an exec.Cmd for an interactive sftp session.
func SFTPSessionCommand(rec model.HostRecord) *exec.Cmd {
	return exec.Command("sftp", SFTPArgs(rec)...)
}

// RunInteractive runs an ssh session for the record on a fresh PTY,
// bridging it to the caller's terminal, and blocks until the session
// ends. Cancelling ctx kills the process rather than leaving it orphaned.
func RunInteractive(ctx context.Context, rec model.HostRecord) error {
	return runOnPTY(ctx, ConnectCommand(rec))
}

// RunSFTP is RunInteractive for sftp.
func RunSFTP(ctx context.Context, rec model.HostRecord) error {
	return runOnPTY(ctx, SFTPSessionCommand(rec))
}

func runOnPTY(ctx context.Context, cmd *exec.Cmd) error {
	f, err := pty.Start(cmd)
	if err != nil {
		return err
	}
	defer f.Close()

	// Stdin copy runs in a goroutine; it unblocks when the PTY closes
	// after process exit.
	go func() {
		_, _ = io.Copy(f, os.Stdin)
	}()
	_, _ = io.Copy(os.Stdout, f)

	if ctx.Err() != nil {
		_ = cmd.Process.Kill()
	}
	return cmd.Wait()
}
