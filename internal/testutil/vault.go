// Package testutil provides reusable test helpers for opz: an in-memory vault
// standing in for the op CLI, and env-file assertions.
package testutil

import (
	"fmt"
	"os"
	"testing"

	"github.com/google/uuid"

	"github.com/aidanlsb/opz/internal/model"
	"github.com/aidanlsb/opz/internal/opcli"
	"github.com/aidanlsb/opz/internal/projector"
)

// RunCall records one FakeVault.Run invocation.
type RunCall struct {
	EnvFile string
	Command []string
	// EnvFileContent is the env file as it was when op run would have read it.
	EnvFileContent string
}

// FakeVault is an in-memory opcli.Vault. Items get random ids and belong to a
// vault whose id is derived from its name.
type FakeVault struct {
	t     *testing.T
	items []model.Item

	// ListErr and GetErr, when set, are returned by List and Get.
	ListErr error
	GetErr  error
	// RunExitCode is returned by Run.
	RunExitCode int

	ListCalls []string
	GetCalls  []string
	RunCalls  []RunCall
	Created   []opcli.CreateRequest
}

var _ opcli.Vault = (*FakeVault)(nil)

// NewFakeVault creates an empty fake vault.
func NewFakeVault(t *testing.T) *FakeVault {
	t.Helper()
	return &FakeVault{t: t}
}

// WithItem adds an API credential item with string fields given as
// alternating label, value pairs.
func (v *FakeVault) WithItem(title, vaultName string, labelValues ...string) *FakeVault {
	v.t.Helper()
	if len(labelValues)%2 != 0 {
		v.t.Fatalf("WithItem(%q): odd number of label/value arguments", title)
	}

	var fields []model.Field
	for i := 0; i < len(labelValues); i += 2 {
		fields = append(fields, model.Field{
			ID:    uuid.NewString(),
			Label: labelValues[i],
			Value: labelValues[i+1],
			Type:  model.FieldTypeConcealed,
		})
	}
	return v.WithFullItem(model.Item{
		ItemSummary: model.ItemSummary{Title: title, VaultName: vaultName, Category: model.CategoryAPICredential},
		Fields:      fields,
	})
}

// WithNote adds a secure note whose notesPlain field holds body.
func (v *FakeVault) WithNote(title, vaultName, body string) *FakeVault {
	return v.WithFullItem(model.Item{
		ItemSummary: model.ItemSummary{Title: title, VaultName: vaultName, Category: model.CategorySecureNote},
		Fields: []model.Field{{
			ID:      "notesPlain",
			Label:   "notesPlain",
			Value:   body,
			Type:    model.FieldTypeString,
			Purpose: "NOTES",
		}},
	})
}

// WithFullItem adds item as given, filling in a missing id and vault id.
func (v *FakeVault) WithFullItem(item model.Item) *FakeVault {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	if item.VaultID == "" && item.VaultName != "" {
		item.VaultID = VaultID(item.VaultName)
	}
	v.items = append(v.items, item)
	return v
}

// Item returns the item with the given title, failing the test if missing.
func (v *FakeVault) Item(title string) model.Item {
	v.t.Helper()
	for _, it := range v.items {
		if it.Title == title {
			return it
		}
	}
	v.t.Fatalf("fake vault has no item %q", title)
	return model.Item{}
}

// VaultID returns the deterministic id used for a vault name.
func VaultID(name string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("vault:"+name)).String()
}

// List returns summaries of items in vault, matched by name or id. An empty
// vault lists everything.
func (v *FakeVault) List(vault string) ([]model.ItemSummary, error) {
	v.ListCalls = append(v.ListCalls, vault)
	if v.ListErr != nil {
		return nil, v.ListErr
	}

	var out []model.ItemSummary
	for _, it := range v.items {
		if vault == "" || it.VaultName == vault || it.VaultID == vault {
			out = append(out, it.ItemSummary)
		}
	}
	return out, nil
}

// Get returns the item with id.
func (v *FakeVault) Get(id string) (model.Item, error) {
	v.GetCalls = append(v.GetCalls, id)
	if v.GetErr != nil {
		return model.Item{}, v.GetErr
	}
	for _, it := range v.items {
		if it.ID == id {
			return it, nil
		}
	}
	return model.Item{}, &opcli.ToolError{
		Args:   []string{"item", "get", id},
		Stderr: fmt.Sprintf("[ERROR] %q isn't an item", id),
		Err:    fmt.Errorf("exit status 1"),
	}
}

// Run records the call and returns RunExitCode.
func (v *FakeVault) Run(envFile string, command []string) (int, error) {
	call := RunCall{EnvFile: envFile, Command: append([]string(nil), command...)}
	if data, err := os.ReadFile(envFile); err == nil {
		call.EnvFileContent = string(data)
	}
	v.RunCalls = append(v.RunCalls, call)
	return v.RunExitCode, nil
}

// CreateItem records req and adds a matching item.
func (v *FakeVault) CreateItem(req opcli.CreateRequest) error {
	v.Created = append(v.Created, req)

	category := model.CategoryAPICredential
	if req.Category == opcli.CreateCategorySecureNote {
		category = model.CategorySecureNote
	}
	item := model.Item{ItemSummary: model.ItemSummary{Title: req.Title, VaultName: req.Vault, Category: category}}
	for _, f := range req.Fields {
		item.Fields = append(item.Fields, model.Field{Label: f.Key, Value: f.Value, Type: model.FieldTypeString})
	}
	if req.Notes != "" {
		item.Fields = append(item.Fields, model.Field{ID: "notesPlain", Label: "notesPlain", Value: req.Notes, Purpose: "NOTES"})
	}
	v.WithFullItem(item)
	return nil
}

// Reference returns the op:// reference the fake's item and label project to.
func (v *FakeVault) Reference(title, label string) string {
	v.t.Helper()
	it := v.Item(title)
	return projector.Reference(it.VaultID, it.ID, label)
}
