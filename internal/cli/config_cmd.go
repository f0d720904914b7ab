package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/opz/internal/config"
)

// configSetting is one scalar field of config.toml that the config command
// can set and clear.
type configSetting struct {
	flag  string // flag name, e.g. "default-vault"
	key   string // TOML key, e.g. "default_vault"
	usage string
	field func(*config.Config) *string
}

var configSettings = []configSetting{
	{"default-vault", "default_vault", "vault searched when --vault is not given", func(c *config.Config) *string { return &c.DefaultVault }},
	{"op-path", "op_path", "1Password CLI binary", func(c *config.Config) *string { return &c.OpPath }},
	{"cache-ttl", "cache_ttl", "how long an item listing is reused, e.g. 60s", func(c *config.Config) *string { return &c.CacheTTL }},
	{"env-file", "env_file", "env file used by gen and run", func(c *config.Config) *string { return &c.EnvFile }},
	{"ui-accent", "ui.accent", "UI accent color (ANSI 0-255 or #RRGGBB)", func(c *config.Config) *string { return &c.UI.Accent }},
	{"ui-code-theme", "ui.code_theme", "code theme for secure-note files", func(c *config.Config) *string { return &c.UI.CodeTheme }},
}

var (
	configSetValues   = make(map[string]*string, len(configSettings))
	configUnsetValues = make(map[string]*bool, len(configSettings))
)

type globalConfigContext struct {
	cfg          *config.Config
	configPath   string
	configExists bool
}

func loadGlobalConfigContextAllowMissing() (*globalConfigContext, error) {
	path := config.ResolvePath(configPath)
	_, statErr := os.Stat(path)
	if statErr != nil && !os.IsNotExist(statErr) {
		return nil, statErr
	}

	loaded, err := config.LoadAllowMissing(path)
	if err != nil {
		return nil, err
	}
	return &globalConfigContext{
		cfg:          loaded,
		configPath:   path,
		configExists: statErr == nil,
	}, nil
}

func configData(ctx *globalConfigContext) map[string]interface{} {
	c := ctx.cfg
	return map[string]interface{}{
		"config_path":   ctx.configPath,
		"exists":        ctx.configExists,
		"default_vault": strings.TrimSpace(c.DefaultVault),
		"op_path":       c.GetOpPath(),
		"cache_ttl":     c.GetCacheTTL().String(),
		"env_file":      strings.TrimSpace(c.EnvFile),
		"ui": map[string]interface{}{
			"accent":     strings.TrimSpace(c.UI.Accent),
			"code_theme": strings.TrimSpace(c.UI.CodeTheme),
		},
	}
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	ctx, err := loadGlobalConfigContextAllowMissing()
	if err != nil {
		return configError(configPath, err)
	}

	if isJSONOutput() {
		outputSuccess(configData(ctx), nil)
		return nil
	}

	if !ctx.configExists {
		fmt.Fprintf(stdout, "Config file does not exist: %s\n", ctx.configPath)
		fmt.Fprintln(stdout, "Run 'opz config init' to create it.")
		return nil
	}

	fmt.Fprintf(stdout, "config: %s\n", ctx.configPath)
	for _, s := range configSettings {
		if v := strings.TrimSpace(*s.field(ctx.cfg)); v != "" {
			fmt.Fprintf(stdout, "%s: %s\n", s.key, v)
		}
	}
	return nil
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage opz config.toml settings",
	Long: `Manage opz config.toml settings.

Without a subcommand, prints the current settings.`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a default config.toml if missing",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		targetPath := config.ResolvePath(configPath)
		_, statErr := os.Stat(targetPath)
		existed := statErr == nil
		if statErr != nil && !os.IsNotExist(statErr) {
			return handleError(ErrFileReadError, statErr, "")
		}

		createdPath, err := config.CreateDefaultAt(targetPath)
		if err != nil {
			return handleError(ErrFileWriteError, err, "")
		}

		if isJSONOutput() {
			outputSuccess(map[string]interface{}{
				"config_path": createdPath,
				"created":     !existed,
			}, nil)
			return nil
		}

		if existed {
			fmt.Fprintf(stdout, "Config already exists: %s\n", createdPath)
		} else {
			fmt.Fprintf(stdout, "Created config: %s\n", createdPath)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Set one or more config.toml fields",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, err := loadGlobalConfigContextAllowMissing()
		if err != nil {
			return configError(configPath, err)
		}

		var changed []string
		for _, s := range configSettings {
			if !cmd.Flags().Changed(s.flag) {
				continue
			}
			value := strings.TrimSpace(*configSetValues[s.flag])
			if value == "" {
				return handleErrorMsg(ErrInvalidInput,
					fmt.Sprintf("%s cannot be empty; use 'opz config unset --%s' to clear it", s.flag, s.flag), "")
			}
			*s.field(ctx.cfg) = value
			changed = append(changed, s.key)
		}
		if len(changed) == 0 {
			return handleErrorMsg(ErrMissingArgument, "no fields provided; set at least one of "+settingFlagList(), "")
		}
		if err := ctx.cfg.Validate(); err != nil {
			return handleError(ErrInvalidInput, err, "")
		}

		return saveConfigChanges(ctx, changed, "changed")
	},
}

var configUnsetCmd = &cobra.Command{
	Use:   "unset",
	Short: "Clear one or more config.toml fields",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, err := loadGlobalConfigContextAllowMissing()
		if err != nil {
			return configError(configPath, err)
		}
		if !ctx.configExists {
			return handleErrorMsg(ErrFileNotFound, fmt.Sprintf("config file not found: %s", ctx.configPath), "Run 'opz config init' first")
		}

		var changed []string
		for _, s := range configSettings {
			if *configUnsetValues[s.flag] {
				*s.field(ctx.cfg) = ""
				changed = append(changed, s.key)
			}
		}
		if len(changed) == 0 {
			return handleErrorMsg(ErrMissingArgument, "no fields selected; pass one or more of "+settingFlagList(), "")
		}

		return saveConfigChanges(ctx, changed, "cleared")
	},
}

func saveConfigChanges(ctx *globalConfigContext, changed []string, verb string) error {
	if err := config.SaveTo(ctx.configPath, ctx.cfg); err != nil {
		return handleError(ErrFileWriteError, err, "")
	}
	ctx.configExists = true

	if isJSONOutput() {
		data := configData(ctx)
		data["changed"] = changed
		outputSuccess(data, nil)
		return nil
	}

	fmt.Fprintf(stdout, "Updated config: %s\n", ctx.configPath)
	fmt.Fprintf(stdout, "%s: %s\n", verb, strings.Join(changed, ", "))
	return nil
}

func settingFlagList() string {
	flags := make([]string, len(configSettings))
	for i, s := range configSettings {
		flags[i] = "--" + s.flag
	}
	return strings.Join(flags, "/")
}

func init() {
	for _, s := range configSettings {
		configSetValues[s.flag] = configSetCmd.Flags().String(s.flag, "", "Set "+s.usage)
		configUnsetValues[s.flag] = configUnsetCmd.Flags().Bool(s.flag, false, "Clear "+s.key)
	}

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configUnsetCmd)
	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current config.toml values",
		Args:  cobra.NoArgs,
		RunE:  runConfigShow,
	})

	rootCmd.AddCommand(configCmd)
}
