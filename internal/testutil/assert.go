package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aidanlsb/opz/internal/envfile"
)

// WriteFile writes content to name inside dir and returns the full path.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create directory for %s: %v", name, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

// ReadFile returns the content of path, failing the test on error.
func ReadFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	return string(data)
}

// AssertFileContent fails the test unless path holds exactly want.
func AssertFileContent(t *testing.T, path, want string) {
	t.Helper()
	if got := ReadFile(t, path); got != want {
		t.Errorf("file %s:\ngot:\n%s\nwant:\n%s", filepath.Base(path), got, want)
	}
}

// AssertEnvValue fails the test unless the env file at path defines key with
// the given value.
func AssertEnvValue(t *testing.T, path, key, want string) {
	t.Helper()
	f, err := envfile.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to parse %s: %v", path, err)
	}
	got, ok := f.Lookup(key)
	if !ok {
		t.Errorf("expected %s to define %s, got:\n%s", filepath.Base(path), key, f.Bytes())
		return
	}
	if got != want {
		t.Errorf("%s in %s = %q, want %q", key, filepath.Base(path), got, want)
	}
}

// AssertKeyCount fails the test unless key is assigned on exactly n lines.
func AssertKeyCount(t *testing.T, path, key string, n int) {
	t.Helper()
	f, err := envfile.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to parse %s: %v", path, err)
	}
	count := 0
	for _, line := range f.Lines {
		if line.Kind == envfile.KindEntry && line.Key == key {
			count++
		}
	}
	if count != n {
		t.Errorf("%s appears %d times in %s, want %d:\n%s", key, count, filepath.Base(path), n, f.Bytes())
	}
}

// AssertContainsLine fails the test unless path has a line equal to line.
func AssertContainsLine(t *testing.T, path, line string) {
	t.Helper()
	content := ReadFile(t, path)
	for _, l := range strings.Split(content, "\n") {
		if l == line {
			return
		}
	}
	t.Errorf("expected %s to contain line %q, got:\n%s", filepath.Base(path), line, content)
}
