package ui

import "fmt"

// Status symbols. Status lines are not colored; the symbol carries the meaning.
const (
	SymbolSuccess = "✓"
	SymbolError   = "✗"
	SymbolWarning = "⚠"
)

func status(symbol, msg string) string {
	return symbol + " " + msg
}

// Success returns msg prefixed with a check mark.
func Success(msg string) string { return status(SymbolSuccess, msg) }

// Successf is Success with formatting.
func Successf(format string, args ...interface{}) string {
	return Success(fmt.Sprintf(format, args...))
}

// Error returns msg prefixed with a cross.
func Error(msg string) string { return status(SymbolError, msg) }

// Warning returns msg prefixed with a warning sign.
func Warning(msg string) string { return status(SymbolWarning, msg) }

// Header returns a bold section header.
func Header(msg string) string { return Bold.Render(msg) }

// FilePath styles a file path with the accent color.
func FilePath(path string) string { return Accent.Render(path) }

// Title styles an item title with the accent color.
func Title(title string) string { return Accent.Render(title) }

// Hint returns muted text for ids, references and suggestions.
func Hint(msg string) string { return Muted.Render(msg) }

// Count returns a count with the right noun, e.g. "3 entries".
func Count(n int, singular, plural string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, singular)
	}
	return fmt.Sprintf("%d %s", n, plural)
}
