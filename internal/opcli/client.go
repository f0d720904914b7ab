package opcli

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"os/exec"

	"go.uber.org/zap"

	"github.com/aidanlsb/opz/internal/model"
	"github.com/aidanlsb/opz/internal/runner"
	"github.com/aidanlsb/opz/internal/shellquote"
)

// DefaultPath is the op binary looked up on PATH.
const DefaultPath = "op"

// Swapped out in tests.
var (
	captureOutput = func(path string, args []string) (stdout, stderr []byte, err error) {
		cmd := exec.Command(path, args...)
		var out, errOut bytes.Buffer
		cmd.Stdout = &out
		cmd.Stderr = &errOut
		err = cmd.Run()
		return out.Bytes(), errOut.Bytes(), err
	}
	execCommand = runner.Exec
)

// Client runs the op binary.
type Client struct {
	path   string
	logger *zap.Logger

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger used for command tracing.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// New returns a Client for the op binary at path (DefaultPath if empty).
func New(path string, opts ...Option) *Client {
	if path == "" {
		path = DefaultPath
	}
	c := &Client{
		path:   path,
		logger: zap.NewNop(),
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ Vault = (*Client)(nil)

// Path returns the op binary the client runs.
func (c *Client) Path() string {
	return c.path
}

// List runs `op item list`.
func (c *Client) List(vault string) ([]model.ItemSummary, error) {
	args := []string{"item", "list", "--format", "json"}
	if vault != "" {
		args = append(args, "--vault", vault)
	}

	out, err := c.output(args, args)
	if err != nil {
		return nil, err
	}

	var entries []listEntry
	if err := json.Unmarshal(out, &entries); err != nil {
		return nil, decodeError(args, err)
	}

	items := make([]model.ItemSummary, 0, len(entries))
	for _, e := range entries {
		items = append(items, e.summary())
	}
	c.logger.Debug("listed items", zap.String("vault", vault), zap.Int("count", len(items)))
	return items, nil
}

// Get runs `op item get`.
func (c *Client) Get(id string) (model.Item, error) {
	args := []string{"item", "get", id, "--format", "json"}

	out, err := c.output(args, args)
	if err != nil {
		return model.Item{}, err
	}

	var res getResult
	if err := json.Unmarshal(out, &res); err != nil {
		return model.Item{}, decodeError(args, err)
	}
	if res.ID == "" {
		return model.Item{}, decodeError(args, errors.New("missing item id"))
	}
	return res.item(), nil
}

// Run runs `op run --env-file envFile -- command...` with the client's stdio
// and returns the command's exit code. A non-zero code is not an error.
func (c *Client) Run(envFile string, command []string) (int, error) {
	if len(command) == 0 {
		return 1, errors.New("no command given")
	}

	args := append([]string{"run", "--env-file", envFile, "--"}, command...)
	c.logger.Debug("exec", zap.String("cmd", c.path+" "+shellquote.Join(args)))

	code, err := execCommand(runner.Command{
		Args:   append([]string{c.path}, args...),
		Stdin:  c.Stdin,
		Stdout: c.Stdout,
		Stderr: c.Stderr,
	})
	if err != nil {
		return code, &ToolError{Args: args, Err: err}
	}
	return code, nil
}

// CreateItem runs `op item create`. Field values are passed as assignment
// arguments and never logged.
func (c *Client) CreateItem(req CreateRequest) error {
	if req.Title == "" {
		return errors.New("item title is required")
	}
	if req.Category == "" {
		req.Category = CreateCategoryAPICredential
	}

	args, redacted := createArgs(req)
	if _, err := c.output(args, redacted); err != nil {
		return err
	}
	c.logger.Debug("created item", zap.String("title", req.Title), zap.String("category", req.Category))
	return nil
}

func createArgs(req CreateRequest) (args, redacted []string) {
	args = []string{"item", "create", "--category", req.Category, "--title", req.Title}
	if req.Vault != "" {
		args = append(args, "--vault", req.Vault)
	}
	redacted = append([]string(nil), args...)

	for _, f := range req.Fields {
		args = append(args, assignment(f.Key+"[text]", f.Value))
		redacted = append(redacted, assignment(f.Key+"[text]", "<redacted>"))
	}
	if req.Notes != "" {
		args = append(args, assignment("notesPlain", req.Notes))
		redacted = append(redacted, assignment("notesPlain", "<redacted>"))
	}
	return args, redacted
}

func assignment(field, value string) string {
	return field + "=" + value
}

// output runs op and returns stdout. logged is the argv used in logs and
// errors.
func (c *Client) output(args, logged []string) ([]byte, error) {
	c.logger.Debug("exec", zap.String("cmd", c.path+" "+shellquote.Join(logged)))

	stdout, stderr, err := captureOutput(c.path, args)
	if err != nil {
		return nil, &ToolError{Args: logged, Stderr: string(stderr), Err: err}
	}
	return stdout, nil
}
