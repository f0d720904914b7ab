package ui

import (
	"os"

	"github.com/charmbracelet/x/term"
)

// DefaultTermWidth is used when the width cannot be detected.
const DefaultTermWidth = 120

// DisplayContext describes where output is going.
type DisplayContext struct {
	TermWidth int
	IsTTY     bool
}

// NewDisplayContext describes stdout.
func NewDisplayContext() *DisplayContext {
	return NewDisplayContextFor(os.Stdout)
}

// NewDisplayContextFor describes f. Pipes and files report IsTTY false and
// DefaultTermWidth.
func NewDisplayContextFor(f *os.File) *DisplayContext {
	dc := &DisplayContext{TermWidth: DefaultTermWidth}
	fd := f.Fd()
	if !term.IsTerminal(fd) {
		return dc
	}
	dc.IsTTY = true
	if w, _, err := term.GetSize(fd); err == nil && w > 0 {
		dc.TermWidth = w
	}
	return dc
}

// NewDisplayContextWithWidth returns a terminal context of the given width.
func NewDisplayContextWithWidth(width int) *DisplayContext {
	return &DisplayContext{TermWidth: width, IsTTY: true}
}
