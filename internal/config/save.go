package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/aidanlsb/opz/internal/atomicfile"
)

// savedHeader starts every file written by SaveTo. Comments in a hand-written
// file are not preserved.
const savedHeader = "# opz configuration (written by 'opz config')\n\n"

// fileConfig mirrors Config with pointer fields so that empty settings are
// left out of the file rather than written as "".
type fileConfig struct {
	DefaultVault *string `toml:"default_vault,omitempty"`
	OpPath       *string `toml:"op_path,omitempty"`
	CacheTTL     *string `toml:"cache_ttl,omitempty"`
	EnvFile      *string `toml:"env_file,omitempty"`
	UI           *fileUI `toml:"ui,omitempty"`
}

type fileUI struct {
	Accent    *string `toml:"accent,omitempty"`
	CodeTheme *string `toml:"code_theme,omitempty"`
}

func setting(value string) *string {
	if v := strings.TrimSpace(value); v != "" {
		return &v
	}
	return nil
}

func (c *Config) toFile() fileConfig {
	fc := fileConfig{
		DefaultVault: setting(c.DefaultVault),
		OpPath:       setting(c.OpPath),
		CacheTTL:     setting(c.CacheTTL),
		EnvFile:      setting(c.EnvFile),
	}
	if ui := (fileUI{Accent: setting(c.UI.Accent), CodeTheme: setting(c.UI.CodeTheme)}); ui.Accent != nil || ui.CodeTheme != nil {
		fc.UI = &ui
	}
	return fc
}

// SaveTo validates cfg and writes it to path atomically, creating parent
// directories. Clearing a setting removes its key.
func SaveTo(path string, cfg *Config) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("config path is required")
	}
	if cfg == nil {
		cfg = &Config{}
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	buf := bytes.NewBufferString(savedHeader)
	if err := toml.NewEncoder(buf).Encode(cfg.toFile()); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := atomicfile.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}
