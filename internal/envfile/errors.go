package envfile

import "fmt"

// ParseError reports a line that a strict parse rejected.
type ParseError struct {
	Path   string
	Line   int // 1-indexed
	Text   string
	Reason string
}

func (e *ParseError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s:%d: %s", e.Path, e.Line, e.Reason)
	}
	return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
}
