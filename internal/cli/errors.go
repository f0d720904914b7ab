// Package cli implements the command-line interface.
package cli

import (
	"errors"
	"fmt"

	"github.com/aidanlsb/opz/internal/config"
	"github.com/aidanlsb/opz/internal/envfile"
	"github.com/aidanlsb/opz/internal/gitremote"
	"github.com/aidanlsb/opz/internal/itemcache"
	"github.com/aidanlsb/opz/internal/opcli"
	"github.com/aidanlsb/opz/internal/resolver"
	"github.com/aidanlsb/opz/internal/runner"
)

// Error codes for structured error responses.
// These codes are stable and can be relied upon by scripts.
const (
	// Item errors
	ErrItemNotFound  = "ITEM_NOT_FOUND"
	ErrItemAmbiguous = "ITEM_AMBIGUOUS"
	ErrItemInvalid   = "ITEM_INVALID"

	// op CLI errors
	ErrFetchFailed  = "FETCH_FAILED"
	ErrOpNotFound   = "OP_NOT_FOUND"
	ErrCreateFailed = "CREATE_FAILED"

	// File errors
	ErrFileNotFound   = "FILE_NOT_FOUND"
	ErrFileReadError  = "FILE_READ_ERROR"
	ErrFileWriteError = "FILE_WRITE_ERROR"
	ErrParseError     = "PARSE_ERROR"

	// Create errors
	ErrNoGitRemote = "NO_GIT_REMOTE"
	ErrEmptySource = "EMPTY_SOURCE"

	// Config errors
	ErrConfigInvalid = "CONFIG_INVALID"

	// Input errors
	ErrInvalidInput    = "INVALID_INPUT"
	ErrMissingArgument = "MISSING_ARGUMENT"

	// Command errors
	ErrCommandFailed = "COMMAND_FAILED"

	// General errors
	ErrInternal = "INTERNAL_ERROR"
)

// codedError carries a stable code and an optional hint for the user.
type codedError struct {
	Code       string
	Err        error
	Suggestion string
}

func (e *codedError) Error() string {
	return e.Err.Error()
}

func (e *codedError) Unwrap() error {
	return e.Err
}

// handleError attaches code and suggestion to err. Execute renders it as text
// or as a JSON envelope.
func handleError(code string, err error, suggestion string) error {
	if err == nil {
		return nil
	}
	return &codedError{Code: code, Err: err, Suggestion: suggestion}
}

// handleErrorMsg is handleError for a plain message.
func handleErrorMsg(code, message, suggestion string) error {
	return handleError(code, errors.New(message), suggestion)
}

// classifyError maps err to a code and suggestion. Explicit codes win; typed
// errors from the lower layers are recognized next.
func classifyError(err error) (code, suggestion string) {
	var coded *codedError
	if errors.As(err, &coded) {
		code, suggestion = coded.Code, coded.Suggestion
	}

	var (
		ambiguous *resolver.AmbiguousMatchError
		parseErr  *envfile.ParseError
		fetchErr  *itemcache.FetchError
		toolErr   *opcli.ToolError
	)
	switch {
	case code != "" && code != ErrInternal:
	case opcli.IsNotInstalled(err):
		code = ErrOpNotFound
		suggestion = "Install the 1Password CLI (https://developer.1password.com/docs/cli) or set op_path in config.toml"
	case errors.Is(err, resolver.ErrNotFound):
		code = ErrItemNotFound
		suggestion = "Run 'opz find <query>' to see matching items"
	case errors.As(err, &ambiguous):
		code = ErrItemAmbiguous
		suggestion = "Use --vault to restrict the search to one vault"
	case errors.As(err, &parseErr):
		code = ErrParseError
	case errors.Is(err, gitremote.ErrNoGitRemote):
		code = ErrNoGitRemote
		suggestion = "Run from a git repository with a remote, or create from a .env file"
	case errors.As(err, &fetchErr), errors.As(err, &toolErr):
		code = ErrFetchFailed
		suggestion = "Check that you are signed in with 'op signin'"
	default:
		code = ErrInternal
	}
	return code, suggestion
}

// exitCode returns the process exit status for err.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *runner.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return 1
}

func configError(path string, err error) error {
	return handleError(ErrConfigInvalid, fmt.Errorf("failed to load config: %w", err), fmt.Sprintf("Fix or remove %s", config.ResolvePath(path)))
}
