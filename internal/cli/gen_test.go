package cli

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/aidanlsb/opz/internal/envfile"
	"github.com/aidanlsb/opz/internal/testutil"
)

func TestGenLastItemWinsInEnvFile(t *testing.T) {
	vault := testutil.NewFakeVault(t).
		WithItem("first", "Private", "TOKEN", "one").
		WithItem("second", "Private", "TOKEN", "two")
	setupCLI(t, vault)

	path := testutil.WriteFile(t, t.TempDir(), ".env", "FOO=bar\n")
	genEnvFile = path

	if err := genCmd.RunE(genCmd, []string{"first", "second"}); err != nil {
		t.Fatalf("genCmd.RunE: %v", err)
	}

	testutil.AssertKeyCount(t, path, "TOKEN", 1)
	testutil.AssertEnvValue(t, path, "TOKEN", vault.Reference("second", "TOKEN"))
	testutil.AssertFileContent(t, path,
		"FOO=bar\n"+envfile.FormatLine("TOKEN", vault.Reference("second", "TOKEN"))+"\n")
}

func TestGenIsIdempotent(t *testing.T) {
	vault := testutil.NewFakeVault(t).
		WithItem("my-api", "Private", "token", "x", "api url", "https://example.com")
	setupCLI(t, vault)

	path := testutil.WriteFile(t, t.TempDir(), ".env", "# local settings\nexport DEBUG=1\n\nTOKEN=old # stale\n")
	genEnvFile = path

	if err := genCmd.RunE(genCmd, []string{"my-api"}); err != nil {
		t.Fatalf("first gen: %v", err)
	}
	first := testutil.ReadFile(t, path)

	if err := genCmd.RunE(genCmd, []string{"my-api"}); err != nil {
		t.Fatalf("second gen: %v", err)
	}
	if second := testutil.ReadFile(t, path); second != first {
		t.Errorf("second gen changed the file:\nfirst:\n%s\nsecond:\n%s", first, second)
	}

	testutil.AssertContainsLine(t, path, "# local settings")
	testutil.AssertContainsLine(t, path, "export DEBUG=1")
	testutil.AssertEnvValue(t, path, "TOKEN", vault.Reference("my-api", "token"))
	testutil.AssertEnvValue(t, path, "API_URL", vault.Reference("my-api", "api url"))
}

func TestGenCreatesMissingFile(t *testing.T) {
	vault := testutil.NewFakeVault(t).WithItem("my-api", "Private", "token", "x")
	_, errOut := setupCLI(t, vault)

	path := filepath.Join(t.TempDir(), ".env")
	genEnvFile = path

	if err := genCmd.RunE(genCmd, []string{"my-api"}); err != nil {
		t.Fatalf("genCmd.RunE: %v", err)
	}
	testutil.AssertEnvValue(t, path, "TOKEN", vault.Reference("my-api", "token"))
	if !strings.Contains(errOut.String(), "1 entry") {
		t.Errorf("expected summary on stderr, got %q", errOut.String())
	}
}

func TestGenPrintsToStdoutWithoutFile(t *testing.T) {
	vault := testutil.NewFakeVault(t).WithItem("my-api", "Private", "token", "x", "user", "bob")
	out, _ := setupCLI(t, vault)

	if err := genCmd.RunE(genCmd, []string{"my-api"}); err != nil {
		t.Fatalf("genCmd.RunE: %v", err)
	}

	want := envfile.FormatLine("TOKEN", vault.Reference("my-api", "token")) + "\n" +
		envfile.FormatLine("USER", vault.Reference("my-api", "user")) + "\n"
	if out.String() != want {
		t.Errorf("stdout = %q, want %q", out.String(), want)
	}
}

func TestGenUsesConfiguredEnvFile(t *testing.T) {
	vault := testutil.NewFakeVault(t).WithItem("my-api", "Private", "token", "x")
	out, _ := setupCLI(t, vault)

	path := filepath.Join(t.TempDir(), "app.env")
	cfg.EnvFile = path

	if err := genCmd.RunE(genCmd, []string{"my-api"}); err != nil {
		t.Fatalf("genCmd.RunE: %v", err)
	}
	testutil.AssertEnvValue(t, path, "TOKEN", vault.Reference("my-api", "token"))
	if out.Len() != 0 {
		t.Errorf("nothing should be printed to stdout, got %q", out.String())
	}
}

func TestGenJSONOutput(t *testing.T) {
	vault := testutil.NewFakeVault(t).WithItem("my-api", "Private", "token", "x", "user", "bob")
	out, _ := setupCLI(t, vault)
	jsonOutput = true

	path := filepath.Join(t.TempDir(), ".env")
	genEnvFile = path

	if err := genCmd.RunE(genCmd, []string{"my-api"}); err != nil {
		t.Fatalf("genCmd.RunE: %v", err)
	}

	result := testutil.ParseCLIResult(t, out.String()).MustSucceed(t)
	if got := result.DataString("file"); got != path {
		t.Errorf("file = %q, want %q", got, path)
	}
	if keys := result.DataList("keys"); len(keys) != 2 || keys[0] != "TOKEN" || keys[1] != "USER" {
		t.Errorf("keys = %v, want [TOKEN USER]", keys)
	}
}

func TestGenFailsWithoutWritingOnUnknownItem(t *testing.T) {
	vault := testutil.NewFakeVault(t).WithItem("my-api", "Private", "token", "x")
	setupCLI(t, vault)

	path := testutil.WriteFile(t, t.TempDir(), ".env", "FOO=bar\n")
	genEnvFile = path

	err := genCmd.RunE(genCmd, []string{"my-api", "does-not-exist-anywhere"})
	if got := errorCode(err); got != ErrItemNotFound {
		t.Fatalf("code = %s, want %s (err=%v)", got, ErrItemNotFound, err)
	}
	testutil.AssertFileContent(t, path, "FOO=bar\n")
}
