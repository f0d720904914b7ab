package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/aidanlsb/opz/internal/envfile"
	"github.com/aidanlsb/opz/internal/gitremote"
	"github.com/aidanlsb/opz/internal/notebody"
	"github.com/aidanlsb/opz/internal/opcli"
	"github.com/aidanlsb/opz/internal/ui"
)

const defaultCreateSource = ".env"

// detectRepo finds the org/repo of the current checkout. Tests replace it.
var detectRepo = func() (string, error) {
	return gitremote.Detect(".")
}

var createCmd = &cobra.Command{
	Use:   "create <ITEM> [SOURCE]",
	Short: "Create an item from a .env file or any other file",
	Long: `Creates a 1Password item from SOURCE (default .env).

A dotenv source (.env, .env.local, prod.env, ...) becomes an API Credential
titled ITEM with one text field per variable. The file must parse cleanly.

Any other file is stored whole in a Secure Note titled <org>/<repo>/ITEM,
where org/repo comes from the current directory's git remote (origin first).

The item is created in --vault, or default_vault from config.toml, or the
account's default vault.

Examples:
  opz create my-api
  opz create my-api .env.production
  opz create config.yaml ./config/config.yaml`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		title := strings.TrimSpace(args[0])
		if title == "" {
			return handleErrorMsg(ErrInvalidInput, "item title cannot be empty", "")
		}
		source := defaultCreateSource
		if len(args) > 1 {
			source = args[1]
		}

		if _, err := os.Stat(source); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return handleError(ErrFileNotFound, fmt.Errorf("source file %s does not exist", source), "")
			}
			return handleError(ErrFileReadError, err, "")
		}

		req, err := buildCreateRequest(title, source)
		if err != nil {
			return err
		}
		req.Vault = getVaultFilter()

		s := newSession()
		zlog.Debug("creating item",
			zap.String("title", req.Title),
			zap.String("category", req.Category),
			zap.String("vault", req.Vault),
			zap.Int("fields", len(req.Fields)))
		if err := s.vault.CreateItem(req); err != nil {
			return handleError(ErrCreateFailed, fmt.Errorf("create %q: %w", req.Title, err), "")
		}
		s.cache.Invalidate()

		keys := make([]string, 0, len(req.Fields))
		for _, f := range req.Fields {
			keys = append(keys, f.Key)
		}

		if isJSONOutput() {
			data := map[string]interface{}{
				"title":    req.Title,
				"category": req.Category,
				"source":   source,
			}
			if req.Vault != "" {
				data["vault"] = req.Vault
			}
			if len(keys) > 0 {
				data["keys"] = keys
			}
			outputSuccess(data, nil)
			return nil
		}

		if req.Category == opcli.CreateCategorySecureNote {
			fmt.Fprintln(stderr, ui.Successf("Created secure note %s from %s", ui.Title(req.Title), ui.FilePath(source)))
		} else {
			fmt.Fprintln(stderr, ui.Successf("Created %s from %s (%s)", ui.Title(req.Title), ui.FilePath(source), ui.Count(len(keys), "field", "fields")))
		}
		return nil
	},
}

// buildCreateRequest reads source and describes the item to create.
func buildCreateRequest(title, source string) (opcli.CreateRequest, error) {
	if isEnvSource(source) {
		f, err := envfile.ReadFileStrict(source)
		if err != nil {
			var parseErr *envfile.ParseError
			if errors.As(err, &parseErr) {
				return opcli.CreateRequest{}, handleError(ErrParseError, err, "Fix the line or pass a different SOURCE")
			}
			return opcli.CreateRequest{}, handleError(ErrFileReadError, err, "")
		}
		entries := f.Entries()
		if len(entries) == 0 {
			return opcli.CreateRequest{}, handleErrorMsg(ErrEmptySource,
				fmt.Sprintf("%s has no variables", source), "")
		}
		return opcli.CreateRequest{
			Category: opcli.CreateCategoryAPICredential,
			Title:    title,
			Fields:   entries,
		}, nil
	}

	repo, err := detectRepo()
	if err != nil {
		return opcli.CreateRequest{}, err
	}
	data, err := os.ReadFile(source)
	if err != nil {
		return opcli.CreateRequest{}, handleError(ErrFileReadError, err, "")
	}
	name := filepath.Base(source)
	return opcli.CreateRequest{
		Category: opcli.CreateCategorySecureNote,
		Title:    repo + "/" + title,
		Notes:    notebody.Format(name, string(data)),
	}, nil
}

// isEnvSource reports whether path names a dotenv file: ".env", ".env.*" or
// "*.env".
func isEnvSource(path string) bool {
	base := filepath.Base(path)
	return base == ".env" || strings.HasPrefix(base, ".env.") || strings.HasSuffix(base, ".env")
}

func init() {
	rootCmd.AddCommand(createCmd)
}
