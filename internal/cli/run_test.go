package cli

import (
	"errors"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/aidanlsb/opz/internal/envfile"
	"github.com/aidanlsb/opz/internal/model"
	"github.com/aidanlsb/opz/internal/runner"
	"github.com/aidanlsb/opz/internal/testutil"
)

func TestRunExportsLiteralValuesToChild(t *testing.T) {
	vault := testutil.NewFakeVault(t).
		WithItem("my-api", "Private", "token", "s3cret", "user", "bob")
	setupCLI(t, vault)

	var got runner.Command
	execCommand = func(c runner.Command) (int, error) {
		got = c
		return 0, nil
	}

	cmd, args := dashArgs(t, "my-api", "--", "curl", "-u", "$USER:${TOKEN}", "$HOME")
	if err := runItemsCommand(cmd, args); err != nil {
		t.Fatalf("runItemsCommand: %v", err)
	}

	wantArgs := []string{"curl", "-u", "bob:s3cret", "$HOME"}
	if !reflect.DeepEqual(got.Args, wantArgs) {
		t.Errorf("Args = %q, want %q", got.Args, wantArgs)
	}
	env := model.EnvMap(got.Env)
	if env["TOKEN"] != "s3cret" || env["USER"] != "bob" {
		t.Errorf("Env = %v, want TOKEN and USER literal values", got.Env)
	}
	if len(vault.RunCalls) != 0 {
		t.Errorf("op run should not be used without an env file, got %d calls", len(vault.RunCalls))
	}
}

func TestRunLastItemWinsInChildEnv(t *testing.T) {
	vault := testutil.NewFakeVault(t).
		WithItem("first", "Private", "token", "one", "a", "1").
		WithItem("second", "Private", "token", "two")
	setupCLI(t, vault)

	var got runner.Command
	execCommand = func(c runner.Command) (int, error) {
		got = c
		return 0, nil
	}

	cmd, args := dashArgs(t, "first", "second", "--", "env")
	if err := runItemsCommand(cmd, args); err != nil {
		t.Fatalf("runItemsCommand: %v", err)
	}

	want := []model.EnvEntry{
		{Key: "TOKEN", Value: "two", SourceItemTitle: "second"},
		{Key: "A", Value: "1", SourceItemTitle: "first"},
	}
	if !reflect.DeepEqual(got.Env, want) {
		t.Errorf("Env = %+v, want %+v", got.Env, want)
	}
	if len(vault.ListCalls) != 1 {
		t.Errorf("listed %d times, want 1", len(vault.ListCalls))
	}
}

func TestRunPropagatesChildExitCode(t *testing.T) {
	vault := testutil.NewFakeVault(t).WithItem("my-api", "Private", "token", "x")
	setupCLI(t, vault)

	execCommand = func(runner.Command) (int, error) { return 3, nil }

	cmd, args := dashArgs(t, "my-api", "--", "false")
	err := runItemsCommand(cmd, args)

	var exitErr *runner.ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("expected ExitError, got %v", err)
	}
	if ExitCode(err) != 3 {
		t.Errorf("ExitCode = %d, want 3", ExitCode(err))
	}
}

func TestRunSpawnFailureIsCommandFailed(t *testing.T) {
	vault := testutil.NewFakeVault(t).WithItem("my-api", "Private", "token", "x")
	setupCLI(t, vault)

	execCommand = func(runner.Command) (int, error) {
		return 0, errors.New(`exec: "nope": executable file not found in $PATH`)
	}

	cmd, args := dashArgs(t, "my-api", "--", "nope")
	err := runItemsCommand(cmd, args)
	if got := errorCode(err); got != ErrCommandFailed {
		t.Errorf("code = %s, want %s (err=%v)", got, ErrCommandFailed, err)
	}
	if ExitCode(err) != 1 {
		t.Errorf("ExitCode = %d, want 1", ExitCode(err))
	}
}

func TestRunWithEnvFileUsesOpRun(t *testing.T) {
	vault := testutil.NewFakeVault(t).
		WithItem("my-api", "Private", "token", "s3cret")
	setupCLI(t, vault)
	vault.RunExitCode = 2

	path := testutil.WriteFile(t, t.TempDir(), ".env", "FOO=bar\n")
	envFileFlag = path

	cmd, args := dashArgs(t, "my-api", "--", "echo", "$TOKEN")
	err := runItemsCommand(cmd, args)
	if ExitCode(err) != 2 {
		t.Fatalf("ExitCode = %d, want 2 (err=%v)", ExitCode(err), err)
	}

	if len(vault.RunCalls) != 1 {
		t.Fatalf("got %d op run calls, want 1", len(vault.RunCalls))
	}
	call := vault.RunCalls[0]
	if call.EnvFile != path {
		t.Errorf("EnvFile = %q, want %q", call.EnvFile, path)
	}
	if !reflect.DeepEqual(call.Command, []string{"echo", "s3cret"}) {
		t.Errorf("Command = %q, want expanded literal value", call.Command)
	}
	wantLine := envfile.FormatLine("TOKEN", vault.Reference("my-api", "token"))
	if !strings.Contains(call.EnvFileContent, wantLine) {
		t.Errorf("env file seen by op run lacks %q:\n%s", wantLine, call.EnvFileContent)
	}
	testutil.AssertEnvValue(t, path, "FOO", "bar")
	if strings.Contains(testutil.ReadFile(t, path), "s3cret") {
		t.Error("secret value was written to the env file")
	}
}

func TestRunUsesConfiguredEnvFile(t *testing.T) {
	vault := testutil.NewFakeVault(t).WithItem("my-api", "Private", "token", "x")
	setupCLI(t, vault)

	path := filepath.Join(t.TempDir(), "generated.env")
	cfg.EnvFile = path

	cmd, args := dashArgs(t, "my-api", "--", "true")
	if err := runItemsCommand(cmd, args); err != nil {
		t.Fatalf("runItemsCommand: %v", err)
	}
	if len(vault.RunCalls) != 1 || vault.RunCalls[0].EnvFile != path {
		t.Fatalf("expected op run with %s, got %+v", path, vault.RunCalls)
	}
	testutil.AssertEnvValue(t, path, "TOKEN", vault.Reference("my-api", "token"))
}

func TestRunArgumentErrors(t *testing.T) {
	vault := testutil.NewFakeVault(t).WithItem("my-api", "Private", "token", "x")

	tests := []struct {
		name string
		args []string
		code string
	}{
		{"no dash", []string{"my-api", "echo"}, ErrMissingArgument},
		{"no items", []string{"--", "echo"}, ErrMissingArgument},
		{"no command", []string{"my-api", "--"}, ErrMissingArgument},
		{"blank item", []string{" ", "--", "echo"}, ErrInvalidInput},
		{"unknown item", []string{"zzzz", "--", "echo"}, ErrItemNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupCLI(t, vault)
			cmd, args := dashArgs(t, tt.args...)
			err := runItemsCommand(cmd, args)
			if got := errorCode(err); got != tt.code {
				t.Errorf("code = %s, want %s (err=%v)", got, tt.code, err)
			}
		})
	}
}

func TestRootShorthandRunsItems(t *testing.T) {
	vault := testutil.NewFakeVault(t).WithItem("my-api", "Private", "token", "s3cret")
	_, errOut := setupCLI(t, vault)

	var got runner.Command
	execCommand = func(c runner.Command) (int, error) {
		got = c
		return 7, nil
	}

	err := executeCLI(t, "my-api", "--", "printenv", "TOKEN")
	if ExitCode(err) != 7 {
		t.Fatalf("ExitCode = %d, want 7 (err=%v)", ExitCode(err), err)
	}
	if !reflect.DeepEqual(got.Args, []string{"printenv", "TOKEN"}) {
		t.Errorf("Args = %q", got.Args)
	}
	if errOut.Len() != 0 {
		t.Errorf("a failing child should not produce opz output, got %q", errOut.String())
	}
}

func TestRootShorthandFuzzyMatchPrintsHint(t *testing.T) {
	vault := testutil.NewFakeVault(t).WithItem("example-item", "Private", "token", "x")
	_, errOut := setupCLI(t, vault)
	execCommand = func(runner.Command) (int, error) { return 0, nil }

	if err := executeCLI(t, "exmaple", "--", "true"); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !strings.Contains(errOut.String(), `"example-item"`) {
		t.Errorf("expected fuzzy match hint, got %q", errOut.String())
	}
}
