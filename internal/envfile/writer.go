package envfile

import (
	"fmt"
	"io"
	"os"

	"github.com/aidanlsb/opz/internal/atomicfile"
	"github.com/aidanlsb/opz/internal/model"
)

// MergeFile merges entries into the env file at path, creating it if needed.
func MergeFile(path string, entries []model.EnvEntry) error {
	err := atomicfile.Update(path, func(current []byte, _ bool) ([]byte, error) {
		return Merge(Parse(current), entries).Bytes(), nil
	})
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// Write prints entries as KEY=VALUE lines.
func Write(w io.Writer, entries []model.EnvEntry) error {
	for _, e := range dedupe(entries) {
		if _, err := fmt.Fprintln(w, FormatLine(e.Key, e.Value)); err != nil {
			return err
		}
	}
	return nil
}

// ReadFile parses the env file at path leniently.
func ReadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return Parse(data), nil
}

// ReadFileStrict parses the env file at path and rejects malformed lines.
func ReadFileStrict(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	f, err := ParseStrict(data)
	if err != nil {
		if pe, ok := err.(*ParseError); ok {
			pe.Path = path
		}
		return nil, err
	}
	return f, nil
}
