package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/opz/internal/envfile"
	"github.com/aidanlsb/opz/internal/model"
	"github.com/aidanlsb/opz/internal/projector"
	"github.com/aidanlsb/opz/internal/runner"
	"github.com/aidanlsb/opz/internal/ui"
)

var envFileFlag string

// execCommand spawns the child in direct mode. Tests replace it.
var execCommand = runner.Exec

var runCmd = &cobra.Command{
	Use:   "run [--env-file PATH] <ITEM>... -- <COMMAND>...",
	Short: "Run a command with secrets from one or more items",
	Long: `Resolves each ITEM and runs COMMAND with the items' fields as
environment variables. When several items define the same variable, the item
listed last wins.

Without --env-file, field values are exported directly to COMMAND.

With --env-file (or env_file in config.toml), op:// references are merged into
the file and COMMAND is started through 'op run --env-file', so values are
resolved by the 1Password CLI.

In both modes $VAR and ${VAR} in COMMAND's arguments are replaced with item
values; other variables are left for the shell. The exit status is COMMAND's.

Examples:
  opz run my-api -- ./server
  opz run --env-file .env db-prod my-api -- npm start
  opz run my-api -- curl -H 'Authorization: Bearer $API_TOKEN' https://api.example.com`,
	Args: cobra.MinimumNArgs(1),
	RunE: runItemsCommand,
}

func runItemsCommand(cmd *cobra.Command, args []string) error {
	queries, command, err := splitAtDash(cmd, args)
	if err != nil {
		return err
	}

	envFile := envFileFlag
	if envFile == "" {
		envFile = getConfig().EnvFile
	}

	s := newSession()
	items, err := s.resolveItems(queries)
	if err != nil {
		return err
	}

	literal, err := projector.Project(items, projector.ModeLiteral)
	if err != nil {
		return handleError(ErrItemInvalid, err, "")
	}
	argv := runner.ExpandArgs(command, literal)

	var code int
	if envFile != "" {
		if err := writeReferences(items, envFile); err != nil {
			return err
		}
		code, err = s.vault.Run(envFile, argv)
	} else {
		code, err = execCommand(runner.Command{Args: argv, Env: literal})
	}
	if err != nil {
		return handleError(ErrCommandFailed, err, "")
	}
	if code != 0 {
		return &runner.ExitError{Code: code}
	}
	return nil
}

// writeReferences merges the items' references into path.
func writeReferences(items []model.Item, path string) error {
	refs, err := projector.Project(items, projector.ModeReference)
	if err != nil {
		return handleError(ErrItemInvalid, err, "Pass --vault so items are listed with their vault")
	}
	if err := envfile.MergeFile(path, refs); err != nil {
		return handleError(ErrFileWriteError, err, "")
	}
	if !isJSONOutput() {
		fmt.Fprintln(stderr, ui.Successf("Generated %s (%s)", ui.FilePath(path), ui.Count(len(refs), "entry", "entries")))
	}
	return nil
}

// splitAtDash separates item titles from the command after "--".
func splitAtDash(cmd *cobra.Command, args []string) (queries, command []string, err error) {
	dash := cmd.ArgsLenAtDash()
	if dash < 0 {
		return nil, nil, handleErrorMsg(ErrMissingArgument,
			"command required after '--'",
			fmt.Sprintf("Usage: %s", cmd.UseLine()))
	}

	queries, command = args[:dash], args[dash:]
	if len(queries) == 0 {
		return nil, nil, handleErrorMsg(ErrMissingArgument, "at least one item title is required before '--'", "")
	}
	if len(command) == 0 {
		return nil, nil, handleErrorMsg(ErrMissingArgument, "command required after '--'", "")
	}
	for _, q := range queries {
		if strings.TrimSpace(q) == "" {
			return nil, nil, handleErrorMsg(ErrInvalidInput, "item title cannot be empty", "")
		}
	}
	return queries, command, nil
}

func init() {
	runCmd.Flags().StringVar(&envFileFlag, "env-file", "", "Merge op:// references into this file and run via 'op run'")
	rootCmd.AddCommand(runCmd)
}
