package testutil

import (
	"encoding/json"
	"strings"
	"testing"
)

// CLIResult is a decoded --json envelope.
type CLIResult struct {
	OK      bool                   `json:"ok"`
	Data    map[string]interface{} `json:"data,omitempty"`
	Error   *CLIError              `json:"error,omitempty"`
	RawJSON string                 `json:"-"`
}

// CLIError is the error member of the envelope.
type CLIError struct {
	Code       string                 `json:"code"`
	Message    string                 `json:"message"`
	Details    map[string]interface{} `json:"details,omitempty"`
	Suggestion string                 `json:"suggestion,omitempty"`
}

// ParseCLIResult decodes the envelope a command printed with --json.
func ParseCLIResult(t *testing.T, output string) *CLIResult {
	t.Helper()
	r := &CLIResult{RawJSON: output}
	if err := json.Unmarshal([]byte(output), r); err != nil {
		t.Fatalf("output is not a JSON envelope: %v\n%s", err, output)
	}
	return r
}

// MustSucceed fails the test unless ok is true.
func (r *CLIResult) MustSucceed(t *testing.T) *CLIResult {
	t.Helper()
	if r.OK {
		return r
	}
	if r.Error != nil {
		t.Fatalf("expected success, got %s: %s\n%s", r.Error.Code, r.Error.Message, r.RawJSON)
	}
	t.Fatalf("expected success\n%s", r.RawJSON)
	return r
}

// MustFail fails the test unless the envelope reports code.
func (r *CLIResult) MustFail(t *testing.T, code string) *CLIResult {
	t.Helper()
	switch {
	case r.OK:
		t.Fatalf("expected failure with %s, got success\n%s", code, r.RawJSON)
	case r.Error == nil:
		t.Fatalf("expected failure with %s, got no error member\n%s", code, r.RawJSON)
	case r.Error.Code != code:
		t.Fatalf("expected %s, got %s: %s\n%s", code, r.Error.Code, r.Error.Message, r.RawJSON)
	}
	return r
}

// MustFailWithMessage fails the test unless the envelope is a failure whose
// message or suggestion contains substr.
func (r *CLIResult) MustFailWithMessage(t *testing.T, substr string) *CLIResult {
	t.Helper()
	if r.OK || r.Error == nil {
		t.Fatalf("expected failure mentioning %q\n%s", substr, r.RawJSON)
	}
	if !strings.Contains(r.Error.Message, substr) && !strings.Contains(r.Error.Suggestion, substr) {
		t.Errorf("error %q (suggestion %q) does not mention %q", r.Error.Message, r.Error.Suggestion, substr)
	}
	return r
}

// DataList returns data[key] as a list, or nil.
func (r *CLIResult) DataList(key string) []interface{} {
	list, _ := r.Data[key].([]interface{})
	return list
}

// DataString returns data[key] as a string, or "".
func (r *CLIResult) DataString(key string) string {
	s, _ := r.Data[key].(string)
	return s
}
