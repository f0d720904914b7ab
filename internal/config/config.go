// Package config handles global opz configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Defaults applied when a setting is absent.
const (
	DefaultOpPath   = "op"
	DefaultCacheTTL = 60 * time.Second
)

// Config represents the global opz configuration.
type Config struct {
	// DefaultVault restricts item lookups when --vault is not given.
	DefaultVault string `toml:"default_vault"`

	// OpPath is the 1Password CLI binary (defaults to "op" on PATH).
	OpPath string `toml:"op_path"`

	// CacheTTL bounds how long an item listing is reused, as a Go duration
	// string such as "60s" or "2m".
	CacheTTL string `toml:"cache_ttl"`

	// EnvFile is used by gen and run when --env-file is not given.
	EnvFile string `toml:"env_file"`

	// UI controls optional CLI theming preferences.
	UI UIConfig `toml:"ui"`
}

// UIConfig represents optional CLI theming preferences.
type UIConfig struct {
	// Accent is an optional accent color for CLI output and markdown rendering.
	// Supported values are ANSI color codes ("0" to "255") or hex colors ("#RRGGBB").
	Accent string `toml:"accent"`

	// CodeTheme sets the Glamour/Chroma theme used when showing note bodies.
	CodeTheme string `toml:"code_theme"`
}

// GetOpPath returns the op binary to run.
func (c *Config) GetOpPath() string {
	if c == nil || strings.TrimSpace(c.OpPath) == "" {
		return DefaultOpPath
	}
	return strings.TrimSpace(c.OpPath)
}

// GetCacheTTL returns the listing cache TTL. Missing, malformed or
// non-positive values fall back to DefaultCacheTTL.
func (c *Config) GetCacheTTL() time.Duration {
	if c == nil || strings.TrimSpace(c.CacheTTL) == "" {
		return DefaultCacheTTL
	}
	d, err := time.ParseDuration(strings.TrimSpace(c.CacheTTL))
	if err != nil || d <= 0 {
		return DefaultCacheTTL
	}
	return d
}

// Validate reports settings that cannot be used.
func (c *Config) Validate() error {
	if c == nil {
		return nil
	}
	if v := strings.TrimSpace(c.CacheTTL); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("cache_ttl: %w", err)
		}
		if d <= 0 {
			return fmt.Errorf("cache_ttl must be positive, got %s", v)
		}
	}
	return nil
}

// Load loads the configuration from the default location.
// Returns a default config if the file doesn't exist.
func Load() (*Config, error) {
	return LoadAllowMissing(DefaultPath())
}

// LoadAllowMissing loads path, returning an empty config if it doesn't exist.
func LoadAllowMissing(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return &Config{}, nil
	}
	return LoadFrom(path)
}

// LoadFrom loads the configuration from a specific path.
func LoadFrom(path string) (*Config, error) {
	var config Config
	md, err := toml.DecodeFile(path, &config)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return &config, nil
}

// ResolvePath returns explicit when set, otherwise DefaultPath.
func ResolvePath(explicit string) string {
	if strings.TrimSpace(explicit) != "" {
		return explicit
	}
	return DefaultPath()
}

// DefaultPath returns the default config file path.
// Checks ~/.config/opz/config.toml first (XDG style),
// then falls back to OS-specific location.
func DefaultPath() string {
	if xdgPath, err := XDGPath(); err == nil {
		if _, err := os.Stat(xdgPath); err == nil {
			return xdgPath
		}
	}

	if configDir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(configDir, "opz", "config.toml")
	}

	return filepath.Join(".", "config.toml")
}

// XDGPath returns the XDG-style config path (~/.config/opz/config.toml).
func XDGPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "opz", "config.toml"), nil
}

const defaultConfig = `# opz configuration

# Vault searched when --vault is not given (name or id).
# default_vault = "Private"

# 1Password CLI binary.
# op_path = "op"

# How long an item listing is reused within one invocation.
# cache_ttl = "60s"

# Env file used by gen and run when --env-file is not given.
# env_file = ".env"

# Optional UI accent color. ANSI color codes (0-255) or hex (#RRGGBB).
# [ui]
# accent = "39"
# code_theme = "monokai"
`

// CreateDefaultAt writes a commented default config to path unless a file
// already exists there. It returns path.
func CreateDefaultAt(path string) (string, error) {
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(defaultConfig), 0o644); err != nil {
		return "", fmt.Errorf("failed to write config file: %w", err)
	}
	return path, nil
}
