// Package envfile parses, merges and writes dotenv files.
//
// Parsing is lossless: every physical line is kept with its raw text so that
// serializing an untouched File reproduces the input byte for byte. Merging
// rewrites only the lines whose keys change.
package envfile

import (
	"strings"

	"github.com/aidanlsb/opz/internal/model"
)

// Kind classifies a physical line.
type Kind int

const (
	KindBlank Kind = iota
	KindComment
	KindEntry
	// KindInvalid lines are passed through verbatim and never exposed as entries.
	KindInvalid
)

func (k Kind) String() string {
	switch k {
	case KindBlank:
		return "blank"
	case KindComment:
		return "comment"
	case KindEntry:
		return "entry"
	default:
		return "invalid"
	}
}

// Line is one physical line of an env file.
type Line struct {
	Raw      string
	Kind     Kind
	Key      string
	Value    string
	Exported bool

	// problem is set for lines that a strict parse rejects.
	problem string
}

// Problem returns why a strict parse rejects this line, or "".
func (l Line) Problem() string {
	return l.problem
}

const exportPrefix = "export"

func parseLine(raw string) Line {
	line := Line{Raw: raw}

	trimmed := strings.TrimSpace(raw)
	switch {
	case trimmed == "":
		line.Kind = KindBlank
		return line
	case strings.HasPrefix(trimmed, "#"):
		line.Kind = KindComment
		return line
	}

	body := strings.TrimLeft(raw, " \t")
	if strings.HasPrefix(body, exportPrefix) && len(body) > len(exportPrefix) &&
		isBlank(body[len(exportPrefix)]) {
		body = strings.TrimLeft(body[len(exportPrefix):], " \t")
		line.Exported = true
	}

	eq := strings.IndexByte(body, '=')
	if eq < 0 {
		line.Kind = KindInvalid
		line.problem = "missing '='"
		return line
	}

	key := strings.TrimSpace(body[:eq])
	if !model.IsValidEnvKey(key) {
		line.Kind = KindInvalid
		line.problem = "invalid key " + quoteForMessage(key)
		return line
	}

	value, problem := scanValue(body[eq+1:])
	line.Kind = KindEntry
	line.Key = key
	line.Value = value
	line.problem = problem
	return line
}

func isBlank(c byte) bool {
	return c == ' ' || c == '\t'
}

func quoteForMessage(s string) string {
	return "'" + s + "'"
}
