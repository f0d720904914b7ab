package cli

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/aidanlsb/opz/internal/config"
	"github.com/aidanlsb/opz/internal/gitremote"
	"github.com/aidanlsb/opz/internal/opcli"
	"github.com/aidanlsb/opz/internal/runner"
	"github.com/aidanlsb/opz/internal/testutil"
	"github.com/aidanlsb/opz/internal/ui"
)

// setupCLI isolates the package globals for one test and installs vault as
// the op boundary. It returns the buffers standing in for stdout and stderr.
func setupCLI(t *testing.T, vault *testutil.FakeVault) (out, errOut *bytes.Buffer) {
	t.Helper()

	prevNewVault := newVault
	prevCfg := cfg
	prevStdout, prevStderr := stdout, stderr
	prevJSON := jsonOutput
	prevVaultFlag := vaultFlag
	prevConfigPath := configPath
	prevDisplay := displayContext
	prevExec := execCommand
	prevDetect := detectRepo
	prevEnvFile, prevGenEnvFile := envFileFlag, genEnvFile
	prevWithItem, prevFormat, prevFiles := showWithItem, showFormat, showFiles
	t.Cleanup(func() {
		newVault = prevNewVault
		cfg = prevCfg
		stdout, stderr = prevStdout, prevStderr
		jsonOutput = prevJSON
		vaultFlag = prevVaultFlag
		configPath = prevConfigPath
		displayContext = prevDisplay
		execCommand = prevExec
		detectRepo = prevDetect
		envFileFlag, genEnvFile = prevEnvFile, prevGenEnvFile
		showWithItem, showFormat, showFiles = prevWithItem, prevFormat, prevFiles
	})

	newVault = func(*config.Config, *zap.Logger) opcli.Vault { return vault }
	cfg = &config.Config{}
	out, errOut = &bytes.Buffer{}, &bytes.Buffer{}
	stdout, stderr = out, errOut
	jsonOutput = false
	vaultFlag = ""
	configPath = ""
	displayContext = func() *ui.DisplayContext {
		return &ui.DisplayContext{TermWidth: ui.DefaultTermWidth}
	}
	execCommand = func(c runner.Command) (int, error) {
		t.Errorf("unexpected direct exec of %v", c.Args)
		return 0, nil
	}
	detectRepo = func() (string, error) {
		return "", fmt.Errorf("%w: no remotes", gitremote.ErrNoGitRemote)
	}
	envFileFlag, genEnvFile = "", ""
	showWithItem, showFormat, showFiles = false, "table", false
	return out, errOut
}

// executeCLI runs the root command end to end with an empty config file.
func executeCLI(t *testing.T, args ...string) error {
	t.Helper()
	return executeCLIWithConfig(t, "", args...)
}

func executeCLIWithConfig(t *testing.T, configTOML string, args ...string) error {
	t.Helper()
	cfgPath := testutil.WriteFile(t, t.TempDir(), "config.toml", configTOML)

	resetCommandFlags(rootCmd)
	t.Cleanup(func() {
		resetCommandFlags(rootCmd)
		rootCmd.SetArgs(nil)
	})
	rootCmd.SetArgs(append([]string{"--config=" + cfgPath}, args...))
	return Execute()
}

// resetCommandFlags restores every flag of cmd and its children to its default.
func resetCommandFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetCommandFlags(c)
	}
}

// dashArgs parses args the way cobra does for run, so ArgsLenAtDash is set.
func dashArgs(t *testing.T, args ...string) (*cobra.Command, []string) {
	t.Helper()
	c := &cobra.Command{Use: "run"}
	if err := c.Flags().Parse(args); err != nil {
		t.Fatalf("parse %v: %v", args, err)
	}
	return c, c.Flags().Args()
}

// errorCode returns the code Execute would report for err.
func errorCode(err error) string {
	code, _ := classifyError(err)
	return code
}
