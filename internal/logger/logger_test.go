package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"DEBUG", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"warning", zapcore.WarnLevel},
		{" error ", zapcore.ErrorLevel},
		{"", zapcore.WarnLevel},
		{"verbose", zapcore.WarnLevel},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseLevel(tt.in); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestNewDefaultsToWarn(t *testing.T) {
	t.Setenv(EnvLevel, "")
	var buf bytes.Buffer
	log := New(Options{Output: &buf})

	log.Debug("hidden")
	log.Info("hidden")
	log.Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug/info written at default level:\n%s", out)
	}
	if !strings.Contains(out, "shown") {
		t.Errorf("warn not written:\n%s", out)
	}
}

func TestNewLevelSources(t *testing.T) {
	t.Run("env", func(t *testing.T) {
		t.Setenv(EnvLevel, "info")
		var buf bytes.Buffer
		New(Options{Output: &buf}).Info("from env")
		if !strings.Contains(buf.String(), "from env") {
			t.Errorf("info not written with %s=info", EnvLevel)
		}
	})

	t.Run("debug flag wins", func(t *testing.T) {
		t.Setenv(EnvLevel, "error")
		var buf bytes.Buffer
		New(Options{Debug: true, Output: &buf}).Debug("traced")
		if !strings.Contains(buf.String(), "traced") {
			t.Error("debug not written with Debug option")
		}
	})
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	New(Options{Debug: true, JSON: true, Output: &buf}).Debug("exec", zap.String("cmd", "op item list"))

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}
	if entry["msg"] != "exec" || entry["cmd"] != "op item list" || entry["logger"] != "opz" {
		t.Errorf("unexpected entry: %v", entry)
	}
	if entry["level"] != "debug" {
		t.Errorf("level = %v, want debug", entry["level"])
	}
}
