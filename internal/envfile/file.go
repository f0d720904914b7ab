package envfile

import (
	"strings"

	"github.com/aidanlsb/opz/internal/model"
)

// File is the in-memory model of an env file.
type File struct {
	Lines []Line

	// TrailingNewline records whether the content ended with '\n'.
	TrailingNewline bool
}

// Parse splits data into lines and classifies each one. It never fails:
// lines it cannot interpret are kept as KindInvalid passthroughs.
func Parse(data []byte) *File {
	f := &File{}
	if len(data) == 0 {
		return f
	}

	s := string(data)
	if strings.HasSuffix(s, "\n") {
		f.TrailingNewline = true
		s = s[:len(s)-1]
	}

	for _, raw := range strings.Split(s, "\n") {
		f.Lines = append(f.Lines, parseLine(raw))
	}
	return f
}

// ParseStrict parses data and fails on the first line that is neither blank,
// a comment nor a well-formed KEY=VALUE entry.
func ParseStrict(data []byte) (*File, error) {
	f := Parse(data)
	for i, line := range f.Lines {
		if line.problem != "" {
			return nil, &ParseError{Line: i + 1, Text: line.Raw, Reason: line.problem}
		}
	}
	return f, nil
}

// Bytes serializes the file. For a File returned by Parse this reproduces the
// parsed input exactly.
func (f *File) Bytes() []byte {
	if len(f.Lines) == 0 {
		return nil
	}
	var b strings.Builder
	for i, line := range f.Lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line.Raw)
	}
	if f.TrailingNewline {
		b.WriteByte('\n')
	}
	return []byte(b.String())
}

// Lookup returns the value of the last line setting key.
func (f *File) Lookup(key string) (string, bool) {
	for i := len(f.Lines) - 1; i >= 0; i-- {
		if f.Lines[i].Kind == KindEntry && f.Lines[i].Key == key {
			return f.Lines[i].Value, true
		}
	}
	return "", false
}

// Entries returns one entry per distinct key, positioned where the key first
// appears and carrying the value of its last occurrence.
func (f *File) Entries() []model.EnvEntry {
	index := make(map[string]int)
	var out []model.EnvEntry
	for _, line := range f.Lines {
		if line.Kind != KindEntry {
			continue
		}
		if i, ok := index[line.Key]; ok {
			out[i].Value = line.Value
			continue
		}
		index[line.Key] = len(out)
		out = append(out, model.EnvEntry{Key: line.Key, Value: line.Value})
	}
	return out
}

// Keys returns the distinct keys in first-occurrence order.
func (f *File) Keys() []string {
	entries := f.Entries()
	keys := make([]string, len(entries))
	for i, e := range entries {
		keys[i] = e.Key
	}
	return keys
}
