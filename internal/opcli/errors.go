package opcli

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/aidanlsb/opz/internal/shellquote"
)

// ToolError reports a failed op invocation: a non-zero exit, a binary that
// could not be started, or output that was not the expected JSON.
type ToolError struct {
	// Args is the argv passed to op, with assignment values redacted.
	Args   []string
	Stderr string
	Err    error
}

func (e *ToolError) Error() string {
	var b strings.Builder
	b.WriteString("op")
	if len(e.Args) > 0 {
		b.WriteByte(' ')
		b.WriteString(shellquote.Join(e.Args))
	}
	b.WriteString(": ")
	b.WriteString(e.Err.Error())
	if msg := strings.TrimSpace(e.Stderr); msg != "" {
		b.WriteString(": ")
		b.WriteString(msg)
	}
	return b.String()
}

func (e *ToolError) Unwrap() error {
	return e.Err
}

// IsNotInstalled reports whether err comes from an op binary that could not be
// found.
func IsNotInstalled(err error) bool {
	return errors.Is(err, exec.ErrNotFound)
}

func decodeError(args []string, err error) error {
	return &ToolError{Args: args, Err: fmt.Errorf("decode output: %w", err)}
}
