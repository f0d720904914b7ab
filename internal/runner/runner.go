// Package runner spawns child processes with projected environment entries.
package runner

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"strings"

	"github.com/aidanlsb/opz/internal/model"
)

// Command describes a child process.
type Command struct {
	Args []string
	// Env is layered over the current process environment; entries win.
	Env []model.EnvEntry
	Dir string

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// ExitError reports a child that exited with a non-zero status. The CLI uses it
// to exit with the same code.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("command exited with status %d", e.Code)
}

// Exec runs cmd to completion and returns its exit code.
//
// A child that starts and fails is not an error: the code is returned as is.
// Processes killed by a signal report 1. The error is non-nil only when the
// child could not be started. Interrupts are left to the child while it runs,
// so Ctrl-C stops the child and the caller still sees its exit status.
func Exec(cmd Command) (int, error) {
	if len(cmd.Args) == 0 {
		return 1, errors.New("no command given")
	}

	c := exec.Command(cmd.Args[0], cmd.Args[1:]...)
	c.Dir = cmd.Dir
	c.Env = MergeEnviron(os.Environ(), cmd.Env)
	c.Stdin = orDefault(cmd.Stdin, os.Stdin)
	c.Stdout = orDefaultWriter(cmd.Stdout, os.Stdout)
	c.Stderr = orDefaultWriter(cmd.Stderr, os.Stderr)

	if err := c.Start(); err != nil {
		return 1, fmt.Errorf("start %s: %w", cmd.Args[0], err)
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)
	defer signal.Stop(sig)

	err := c.Wait()
	if err == nil {
		return 0, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code := exitErr.ExitCode()
		if code < 0 {
			code = 1
		}
		return code, nil
	}
	return 1, fmt.Errorf("wait for %s: %w", cmd.Args[0], err)
}

// MergeEnviron returns base ("KEY=VALUE" strings) with entries applied on top.
// An entry replaces every inherited variable of the same name.
func MergeEnviron(base []string, entries []model.EnvEntry) []string {
	if len(entries) == 0 {
		return base
	}

	override := model.EnvMap(entries)
	out := make([]string, 0, len(base)+len(override))
	for _, kv := range base {
		key, _, _ := strings.Cut(kv, "=")
		if _, ok := override[key]; ok {
			continue
		}
		out = append(out, kv)
	}

	seen := make(map[string]bool, len(override))
	for _, e := range entries {
		if seen[e.Key] {
			continue
		}
		seen[e.Key] = true
		out = append(out, e.Key+"="+override[e.Key])
	}
	return out
}

func orDefault(r io.Reader, def io.Reader) io.Reader {
	if r == nil {
		return def
	}
	return r
}

func orDefaultWriter(w io.Writer, def io.Writer) io.Writer {
	if w == nil {
		return def
	}
	return w
}
