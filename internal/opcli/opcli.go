// Package opcli talks to the 1Password CLI.
//
// Everything opz knows about vault contents comes through the interfaces in
// this package. Client implements them by running the op binary and decoding
// its JSON output; tests use the fake in internal/testutil.
package opcli

import (
	"github.com/aidanlsb/opz/internal/model"
)

// Lister lists item summaries, optionally restricted to one vault.
type Lister interface {
	List(vault string) ([]model.ItemSummary, error)
}

// Getter fetches one item with its fields.
type Getter interface {
	Get(id string) (model.Item, error)
}

// Runner runs a command under `op run`, which resolves op:// references in
// envFile before starting it. It returns the command's exit code.
type Runner interface {
	Run(envFile string, command []string) (int, error)
}

// Creator creates a new item.
type Creator interface {
	CreateItem(req CreateRequest) error
}

// Vault is the full boundary used by the CLI.
type Vault interface {
	Lister
	Getter
	Runner
	Creator
}

// Item categories accepted by `op item create --category`.
const (
	CreateCategoryAPICredential = "API Credential"
	CreateCategorySecureNote    = "Secure Note"
)

// CreateRequest describes an item to create.
type CreateRequest struct {
	Category string
	Title    string
	// Vault is optional; op uses its default vault when empty.
	Vault string
	// Fields become text fields, one per entry.
	Fields []model.EnvEntry
	// Notes sets the notesPlain field of secure notes.
	Notes string
}
