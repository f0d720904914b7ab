package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/aidanlsb/opz/internal/envfile"
	"github.com/aidanlsb/opz/internal/model"
	"github.com/aidanlsb/opz/internal/notebody"
	"github.com/aidanlsb/opz/internal/projector"
	"github.com/aidanlsb/opz/internal/ui"
)

var (
	showWithItem bool
	showFormat   string
	showFiles    bool
)

const notesPurpose = "NOTES"

// shownEntry is one row of show output.
type shownEntry struct {
	Key       string `json:"key" yaml:"key"`
	Reference string `json:"reference" yaml:"reference"`
	Item      string `json:"item,omitempty" yaml:"item,omitempty"`
	Vault     string `json:"vault,omitempty" yaml:"vault,omitempty"`
}

// shownFile is a file stored in a secure note.
type shownFile struct {
	Item    string `json:"item" yaml:"item"`
	Name    string `json:"name" yaml:"name"`
	Content string `json:"content,omitempty" yaml:"content,omitempty"`
}

var showCmd = &cobra.Command{
	Use:   "show [--with-item] [--format table|env|yaml] <ITEM>...",
	Short: "Show the variables items would provide",
	Long: `Resolves each ITEM and lists the variables it projects to, as op://
references. Secret values are never printed.

Secure notes created from a file list that file; pass --files to print its
contents (syntax highlighted on a terminal).

Examples:
  opz show my-api
  opz show --with-item --format yaml db-prod my-api
  opz show --files acme/widgets/config.yaml`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format := strings.ToLower(strings.TrimSpace(showFormat))
		switch format {
		case "", "table":
			format = "table"
		case "env", "yaml":
		default:
			return handleErrorMsg(ErrInvalidInput,
				fmt.Sprintf("unknown format %q", showFormat),
				"Use one of: table, env, yaml")
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

		entries := shownEntries(items, refs, showWithItem)
		files := noteFiles(items, showFiles)

		if isJSONOutput() {
			outputSuccess(map[string]interface{}{
				"entries": entries,
				"files":   files,
			}, &Meta{Count: len(entries)})
			return nil
		}

		switch format {
		case "env":
			return writeShownEnv(entries, showWithItem)
		case "yaml":
			doc := map[string]interface{}{"entries": entries}
			if len(files) > 0 {
				doc["files"] = files
			}
			enc := yaml.NewEncoder(stdout)
			enc.SetIndent(2)
			if err := enc.Encode(doc); err != nil {
				return handleError(ErrInternal, err, "")
			}
			return enc.Close()
		}

		display := displayContext()
		if len(entries) == 0 && len(files) == 0 {
			fmt.Fprintln(stderr, ui.Warning("No fields with values"))
			return nil
		}
		if len(entries) > 0 {
			table := ui.NewTable(2)
			header := []string{"KEY", "REFERENCE"}
			if showWithItem {
				table = ui.NewTable(4)
				header = []string{"KEY", "ITEM", "VAULT", "REFERENCE"}
			}
			table.SetHeader(header...)
			table.SetMaxWidth(display.TermWidth)
			for _, e := range entries {
				if showWithItem {
					table.AddRow(e.Key, e.Item, e.Vault, ui.Hint(e.Reference))
				} else {
					table.AddRow(e.Key, ui.Hint(e.Reference))
				}
			}
			fmt.Fprint(stdout, table.String())
		}
		for _, f := range files {
			printNoteFile(f, display)
		}
		return nil
	},
}

// shownEntries pairs projected references with the item they came from.
func shownEntries(items []model.Item, refs []model.EnvEntry, withItem bool) []shownEntry {
	vaults := make(map[string]string, len(items))
	for _, it := range items {
		vaults[it.Title] = it.VaultLabel()
	}

	out := make([]shownEntry, 0, len(refs))
	for _, e := range refs {
		se := shownEntry{Key: e.Key, Reference: e.Value}
		if withItem {
			se.Item = e.SourceItemTitle
			se.Vault = vaults[e.SourceItemTitle]
		}
		out = append(out, se)
	}
	return out
}

// noteFiles returns the files held in secure notes among items. Content is
// only included when withContent is set.
func noteFiles(items []model.Item, withContent bool) []shownFile {
	var out []shownFile
	seen := make(map[string]bool)
	for _, it := range items {
		if it.Category != model.CategorySecureNote || seen[it.ID] {
			continue
		}
		seen[it.ID] = true
		for _, f := range it.Fields {
			if f.Purpose != notesPurpose {
				continue
			}
			file, ok := notebody.Parse(f.Value)
			if !ok {
				continue
			}
			sf := shownFile{Item: it.Title, Name: file.Name}
			if withContent {
				sf.Content = file.Content
			}
			out = append(out, sf)
		}
	}
	return out
}

func writeShownEnv(entries []shownEntry, withItem bool) error {
	if !withItem {
		refs := make([]model.EnvEntry, 0, len(entries))
		for _, e := range entries {
			refs = append(refs, model.EnvEntry{Key: e.Key, Value: e.Reference})
		}
		if err := envfile.Write(stdout, refs); err != nil {
			return handleError(ErrFileWriteError, err, "")
		}
		return nil
	}

	last := ""
	for i, e := range entries {
		if i == 0 || e.Item != last {
			fmt.Fprintf(stdout, "# %s (%s)\n", e.Item, e.Vault)
			last = e.Item
		}
		fmt.Fprintln(stdout, envfile.FormatLine(e.Key, e.Reference))
	}
	return nil
}

func printNoteFile(f shownFile, display *ui.DisplayContext) {
	fmt.Fprintln(stdout)
	fmt.Fprintf(stdout, "%s %s\n", ui.Header(f.Name), ui.Hint("("+f.Item+")"))
	if f.Content == "" {
		return
	}
	if display.IsTTY {
		if rendered, err := ui.RenderFile(f.Name, f.Content, display.TermWidth); err == nil {
			fmt.Fprint(stdout, rendered)
			return
		}
	}
	fmt.Fprint(stdout, f.Content)
	if !strings.HasSuffix(f.Content, "\n") {
		fmt.Fprintln(stdout)
	}
}

func init() {
	showCmd.Flags().BoolVar(&showWithItem, "with-item", false, "Include the source item and vault of each variable")
	showCmd.Flags().StringVar(&showFormat, "format", "table", "Output format: table, env, yaml")
	showCmd.Flags().BoolVar(&showFiles, "files", false, "Print the contents of files stored in secure notes")
	rootCmd.AddCommand(showCmd)
}
