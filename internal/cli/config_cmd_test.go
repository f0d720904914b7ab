package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aidanlsb/opz/internal/config"
	"github.com/aidanlsb/opz/internal/testutil"
)

func resetConfigFlagsForTest(t *testing.T) {
	t.Helper()
	reset := func() {
		resetCommandFlags(configSetCmd)
		resetCommandFlags(configUnsetCmd)
	}
	reset()
	t.Cleanup(reset)
}

func TestConfigInitCreatesConfigFile(t *testing.T) {
	out, _ := setupCLI(t, nil)
	cfgPath := filepath.Join(t.TempDir(), "nested", "config.toml")
	configPath = cfgPath
	jsonOutput = true

	if err := configInitCmd.RunE(configInitCmd, []string{}); err != nil {
		t.Fatalf("configInitCmd.RunE returned error: %v", err)
	}

	content := testutil.ReadFile(t, cfgPath)
	if !strings.Contains(content, "# opz configuration") {
		t.Fatalf("expected default config header in file, got:\n%s", content)
	}
	if _, err := config.LoadFrom(cfgPath); err != nil {
		t.Fatalf("default config does not load: %v", err)
	}

	result := testutil.ParseCLIResult(t, out.String()).MustSucceed(t)
	if created, _ := result.Data["created"].(bool); !created {
		t.Errorf("created = %v, want true", result.Data["created"])
	}
}

func TestConfigInitKeepsExistingFile(t *testing.T) {
	out, _ := setupCLI(t, nil)
	cfgPath := testutil.WriteFile(t, t.TempDir(), "config.toml", "default_vault = \"Work\"\n")
	configPath = cfgPath

	if err := configInitCmd.RunE(configInitCmd, []string{}); err != nil {
		t.Fatalf("configInitCmd.RunE returned error: %v", err)
	}
	testutil.AssertFileContent(t, cfgPath, "default_vault = \"Work\"\n")
	if !strings.Contains(out.String(), "already exists") {
		t.Errorf("stdout = %q", out.String())
	}
}

func TestConfigSetUpdatesFields(t *testing.T) {
	setupCLI(t, nil)
	resetConfigFlagsForTest(t)
	cfgPath := filepath.Join(t.TempDir(), "config.toml")
	configPath = cfgPath
	jsonOutput = true

	flags := map[string]string{
		"default-vault": "Work",
		"op-path":       "/opt/bin/op",
		"cache-ttl":     "5m",
		"env-file":      ".env.local",
		"ui-accent":     "39",
		"ui-code-theme": "dracula",
	}
	for name, value := range flags {
		if err := configSetCmd.Flags().Set(name, value); err != nil {
			t.Fatalf("set --%s: %v", name, err)
		}
	}

	if err := configSetCmd.RunE(configSetCmd, []string{}); err != nil {
		t.Fatalf("configSetCmd.RunE returned error: %v", err)
	}

	loaded, err := config.LoadFrom(cfgPath)
	if err != nil {
		t.Fatalf("reload config: %v", err)
	}
	if loaded.DefaultVault != "Work" || loaded.OpPath != "/opt/bin/op" || loaded.EnvFile != ".env.local" {
		t.Fatalf("unexpected config: %+v", loaded)
	}
	if loaded.GetCacheTTL().String() != "5m0s" {
		t.Fatalf("cache_ttl = %s, want 5m0s", loaded.GetCacheTTL())
	}
	if loaded.UI.Accent != "39" || loaded.UI.CodeTheme != "dracula" {
		t.Fatalf("unexpected ui config: %+v", loaded.UI)
	}
}

func TestConfigSetRejectsInvalidCacheTTL(t *testing.T) {
	setupCLI(t, nil)
	resetConfigFlagsForTest(t)
	cfgPath := testutil.WriteFile(t, t.TempDir(), "config.toml", "")
	configPath = cfgPath

	if err := configSetCmd.Flags().Set("cache-ttl", "-1s"); err != nil {
		t.Fatal(err)
	}

	err := configSetCmd.RunE(configSetCmd, []string{})
	if got := errorCode(err); got != ErrInvalidInput {
		t.Fatalf("code = %s, want %s (err=%v)", got, ErrInvalidInput, err)
	}
	testutil.AssertFileContent(t, cfgPath, "")
}

func TestConfigSetRequiresAField(t *testing.T) {
	setupCLI(t, nil)
	resetConfigFlagsForTest(t)
	configPath = filepath.Join(t.TempDir(), "config.toml")

	err := configSetCmd.RunE(configSetCmd, []string{})
	if got := errorCode(err); got != ErrMissingArgument {
		t.Fatalf("code = %s, want %s (err=%v)", got, ErrMissingArgument, err)
	}
	if !strings.Contains(err.Error(), "--default-vault") {
		t.Errorf("error should list the flags: %v", err)
	}
}

func TestConfigUnsetClearsFields(t *testing.T) {
	setupCLI(t, nil)
	resetConfigFlagsForTest(t)
	cfgPath := testutil.WriteFile(t, t.TempDir(), "config.toml", `default_vault = "Work"
env_file = ".env"

[ui]
accent = "39"
code_theme = "dracula"
`)
	configPath = cfgPath

	for _, name := range []string{"default-vault", "ui-accent", "ui-code-theme"} {
		if err := configUnsetCmd.Flags().Set(name, "true"); err != nil {
			t.Fatalf("set --%s: %v", name, err)
		}
	}

	if err := configUnsetCmd.RunE(configUnsetCmd, []string{}); err != nil {
		t.Fatalf("configUnsetCmd.RunE returned error: %v", err)
	}

	loaded, err := config.LoadFrom(cfgPath)
	if err != nil {
		t.Fatalf("reload config: %v", err)
	}
	if loaded.DefaultVault != "" || loaded.UI.Accent != "" || loaded.UI.CodeTheme != "" {
		t.Fatalf("fields not cleared: %+v", loaded)
	}
	if loaded.EnvFile != ".env" {
		t.Fatalf("env_file = %q, want it kept", loaded.EnvFile)
	}
}

func TestConfigUnsetNeedsExistingFile(t *testing.T) {
	setupCLI(t, nil)
	resetConfigFlagsForTest(t)
	configPath = filepath.Join(t.TempDir(), "config.toml")
	if err := configUnsetCmd.Flags().Set("env-file", "true"); err != nil {
		t.Fatal(err)
	}

	err := configUnsetCmd.RunE(configUnsetCmd, []string{})
	if got := errorCode(err); got != ErrFileNotFound {
		t.Fatalf("code = %s, want %s (err=%v)", got, ErrFileNotFound, err)
	}
	if _, statErr := os.Stat(configPath); !os.IsNotExist(statErr) {
		t.Error("unset should not create the config file")
	}
}

func TestConfigShow(t *testing.T) {
	out, _ := setupCLI(t, nil)
	configPath = testutil.WriteFile(t, t.TempDir(), "config.toml", "default_vault = \"Work\"\n[ui]\naccent = \"39\"\n")

	if err := runConfigShow(configCmd, nil); err != nil {
		t.Fatalf("runConfigShow: %v", err)
	}
	got := out.String()
	for _, want := range []string{"config: " + configPath, "default_vault: Work", "ui.accent: 39"} {
		if !strings.Contains(got, want) {
			t.Errorf("output lacks %q:\n%s", want, got)
		}
	}
}
