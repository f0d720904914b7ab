package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/opz/internal/envfile"
	"github.com/aidanlsb/opz/internal/projector"
	"github.com/aidanlsb/opz/internal/ui"
)

var genEnvFile string

var genCmd = &cobra.Command{
	Use:   "gen [--env-file PATH] <ITEM>...",
	Short: "Write op:// references for items to an env file",
	Long: `Resolves each ITEM and writes one op:// reference per field.

With --env-file (or env_file in config.toml) the references are merged into
the file: existing keys are updated in place, new keys are appended, and
comments and unrelated lines are kept. Without a file they are printed to
stdout as KEY=VALUE lines.

No secret values are written, only references that 'op run' or 'op inject'
can resolve later.

Examples:
  opz gen my-api
  opz gen --env-file .env db-prod my-api`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := genEnvFile
		if path == "" {
			path = getConfig().EnvFile
		}

		s := newSession()
		items, err := s.resolveItems(args)
		if err != nil {
			return err
		}
		refs, err := projector.Project(items, projector.ModeReference)
		if err != nil {
			return handleError(ErrItemInvalid, err, "Pass --vault so items are listed with their vault")
		}

		if path == "" {
			if isJSONOutput() {
				outputSuccess(map[string]interface{}{"entries": refs}, &Meta{Count: len(refs)})
				return nil
			}
			if err := envfile.Write(stdout, refs); err != nil {
				return handleError(ErrFileWriteError, err, "")
			}
			return nil
		}

		if err := envfile.MergeFile(path, refs); err != nil {
			return handleError(ErrFileWriteError, err, "")
		}
		if isJSONOutput() {
			keys := make([]string, 0, len(refs))
			for _, e := range refs {
				keys = append(keys, e.Key)
			}
			outputSuccess(map[string]interface{}{
				"file":    path,
				"keys":    keys,
				"entries": refs,
			}, &Meta{Count: len(refs)})
			return nil
		}
		fmt.Fprintln(stderr, ui.Successf("Generated %s (%s)", ui.FilePath(path), ui.Count(len(refs), "entry", "entries")))
		return nil
	},
}

func init() {
	genCmd.Flags().StringVar(&genEnvFile, "env-file", "", "Merge references into this file instead of printing them")
	rootCmd.AddCommand(genCmd)
}
