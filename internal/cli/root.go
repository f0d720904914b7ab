package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/aidanlsb/opz/internal/config"
	"github.com/aidanlsb/opz/internal/logger"
	"github.com/aidanlsb/opz/internal/resolver"
	"github.com/aidanlsb/opz/internal/runner"
	"github.com/aidanlsb/opz/internal/ui"
)

var (
	// Global flags
	vaultFlag  string
	configPath string
	debugFlag  bool

	// Resolved values
	resolvedConfigPath string
	cfg                *config.Config
	zlog               = zap.NewNop()
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "opz [flags] <ITEM>... -- <COMMAND>...",
	Short: "Run commands with secrets from 1Password items",
	Long: `opz finds 1Password items by title and turns their fields into
environment variables, either as op:// references written to an env file or
as values injected into a command.

Running opz with items and a command is shorthand for 'opz run':

  opz my-api -- ./server                 # values exported to ./server
  opz --env-file .env my-api -- ./server # references merged into .env, run via op run

Item titles may be partial or slightly misspelled; an exact title always wins.`,
	Args:          cobra.ArbitraryArgs,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zlog = logger.New(logger.Options{Debug: debugFlag, JSON: jsonOutput})

		// Config commands load the file themselves so they work when it is broken.
		if cmd.Name() == "version" || cmd.Name() == "help" || isConfigCommand(cmd) {
			return nil
		}

		var err error
		cfg, resolvedConfigPath, err = loadGlobalConfigWithPath()
		if err != nil {
			return configError(configPath, err)
		}
		ui.ConfigureTheme(cfg.UI.Accent)
		ui.ConfigureMarkdownCodeTheme(cfg.UI.CodeTheme)

		zlog.Debug("config loaded",
			zap.String("path", resolvedConfigPath),
			zap.String("vault", getVaultFilter()),
			zap.Duration("cache_ttl", cfg.GetCacheTTL()))
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return cmd.Help()
		}
		return runItemsCommand(cmd, args)
	},
}

// Execute runs the CLI. Errors are printed here, as text on stderr or as a
// JSON envelope on stdout; the returned error only decides the exit status.
func Execute() error {
	err := rootCmd.Execute()
	_ = zlog.Sync()
	if err == nil {
		return nil
	}

	var exitErr *runner.ExitError
	if errors.As(err, &exitErr) {
		return err
	}

	reportError(err)
	return err
}

// ExitCode returns the process exit status for an error returned by Execute:
// a child's own status when one ran, otherwise 1.
func ExitCode(err error) int {
	return exitCode(err)
}

func reportError(err error) {
	code, suggestion := classifyError(err)

	if isJSONOutput() {
		outputError(code, err.Error(), errorDetails(err), suggestion)
		return
	}

	fmt.Fprintln(stderr, ui.Error(err.Error()))
	if suggestion != "" {
		fmt.Fprintln(stderr, ui.Hint(suggestion))
	}
}

func errorDetails(err error) interface{} {
	var ambiguous *resolver.AmbiguousMatchError
	if !errors.As(err, &ambiguous) {
		return nil
	}
	matches := make([]map[string]string, 0, len(ambiguous.Matches))
	for _, m := range ambiguous.Matches {
		matches = append(matches, map[string]string{
			"id":    m.ID,
			"title": m.Title,
			"vault": m.VaultLabel(),
		})
	}
	return map[string]interface{}{"query": ambiguous.Query, "matches": matches}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&vaultFlag, "vault", "v", "", "Restrict item lookup to a vault (name or id)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format (for scripts)")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "Log op invocations and cache activity to stderr")

	rootCmd.Flags().StringVar(&envFileFlag, "env-file", "", "Merge op:// references into this file and run via 'op run'")
}

// getConfig returns the loaded config.
func getConfig() *config.Config {
	if cfg == nil {
		return &config.Config{}
	}
	return cfg
}

// getVaultFilter returns --vault, falling back to default_vault.
func getVaultFilter() string {
	if v := strings.TrimSpace(vaultFlag); v != "" {
		return v
	}
	return strings.TrimSpace(getConfig().DefaultVault)
}

func isConfigCommand(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c == configCmd {
			return true
		}
	}
	return false
}

func loadGlobalConfigWithPath() (*config.Config, string, error) {
	resolvedPath := config.ResolvePath(configPath)

	var loadedCfg *config.Config
	var err error
	if strings.TrimSpace(configPath) != "" {
		loadedCfg, err = config.LoadFrom(configPath)
	} else {
		loadedCfg, err = config.Load()
	}
	if err != nil {
		return nil, "", err
	}
	if loadedCfg == nil {
		loadedCfg = &config.Config{}
	}

	return loadedCfg, resolvedPath, nil
}
