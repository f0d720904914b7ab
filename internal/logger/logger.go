// Package logger builds the zap logger used for diagnostics.
//
// User-facing output goes through internal/ui; the logger only traces what
// opz does (op invocations, cache hits) and is quiet unless asked.
package logger

import (
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// EnvLevel names the environment variable that sets the log level.
const EnvLevel = "OPZ_LOG_LEVEL"

// Options controls logger construction.
type Options struct {
	// Debug forces debug level regardless of EnvLevel.
	Debug bool
	// JSON selects the JSON encoder instead of the console one.
	JSON bool
	// Output defaults to os.Stderr.
	Output io.Writer
}

// New creates a logger writing to stderr. The level comes from opts.Debug,
// then OPZ_LOG_LEVEL, then defaults to warn.
func New(opts Options) *zap.Logger {
	level := LevelFromEnv()
	if opts.Debug {
		level = zapcore.DebugLevel
	}

	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "timestamp"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var enc zapcore.Encoder
	if opts.JSON {
		encCfg.EncodeLevel = zapcore.LowercaseLevelEncoder
		enc = zapcore.NewJSONEncoder(encCfg)
	} else {
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		enc = zapcore.NewConsoleEncoder(encCfg)
	}

	core := zapcore.NewCore(enc, zapcore.Lock(zapcore.AddSync(out)), zap.NewAtomicLevelAt(level))
	return zap.New(core).Named("opz")
}

// LevelFromEnv reads EnvLevel. Unknown or empty values mean warn.
func LevelFromEnv() zapcore.Level {
	return ParseLevel(os.Getenv(EnvLevel))
}

// ParseLevel maps a level name to a zap level, defaulting to warn.
func ParseLevel(s string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.WarnLevel
	}
}
