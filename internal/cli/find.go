package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/opz/internal/resolver"
	"github.com/aidanlsb/opz/internal/ui"
)

// displayContext describes stdout. Tests pin it to a non-terminal.
var displayContext = ui.NewDisplayContext

type findMatch struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	VaultID   string  `json:"vault_id,omitempty"`
	VaultName string  `json:"vault_name,omitempty"`
	Category  string  `json:"category,omitempty"`
	Score     float64 `json:"score"`
}

var findCmd = &cobra.Command{
	Use:   "find <query>",
	Short: "Search item titles",
	Long: `Lists items whose titles match query, best match first.

Output is tab-separated (id, vault, title) when piped, and an aligned table on
a terminal. Finding nothing prints nothing and is not an error.

Examples:
  opz find stripe
  opz find --vault Work "db prod"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.TrimSpace(args[0])
		if query == "" {
			return handleErrorMsg(ErrInvalidInput, "query cannot be empty", "")
		}

		s := newSession()
		candidates, err := s.candidates()
		if err != nil {
			return err
		}

		// No matches is an empty result, not an error.
		matches := resolver.Rank(candidates, query)

		if isJSONOutput() {
			out := make([]findMatch, 0, len(matches))
			for _, m := range matches {
				out = append(out, findMatch{
					ID:        m.Item.ID,
					Title:     m.Item.Title,
					VaultID:   m.Item.VaultID,
					VaultName: m.Item.VaultName,
					Category:  m.Item.Category,
					Score:     m.Score,
				})
			}
			outputSuccess(map[string]interface{}{"query": query, "matches": out}, &Meta{Count: len(out)})
			return nil
		}

		display := displayContext()
		if len(matches) == 0 {
			if display.IsTTY {
				fmt.Fprintln(stderr, ui.Hint(fmt.Sprintf("No items match %q", query)))
			}
			return nil
		}
		if !display.IsTTY {
			for _, m := range matches {
				fmt.Fprintf(stdout, "%s\t%s\t%s\n", m.Item.ID, m.Item.VaultLabel(), m.Item.Title)
			}
			return nil
		}

		table := ui.NewTable(3)
		table.SetHeader("ID", "VAULT", "TITLE")
		table.SetMaxWidth(display.TermWidth)
		for _, m := range matches {
			table.AddRow(ui.Muted.Render(m.Item.ID), m.Item.VaultLabel(), ui.Title(m.Item.Title))
		}
		fmt.Fprint(stdout, table.String())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(findCmd)
}
