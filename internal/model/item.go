// Package model holds the item and environment types shared across opz.
package model

// Field types reported by the op CLI.
const (
	FieldTypeConcealed = "CONCEALED"
	FieldTypeString    = "STRING"
)

// Item categories opz creates or inspects.
const (
	CategoryAPICredential = "API_CREDENTIAL"
	CategorySecureNote    = "SECURE_NOTE"
)

// ItemSummary is one row of an item listing.
type ItemSummary struct {
	// ID is the opaque item identifier assigned by the vault service.
	ID string `json:"id" yaml:"id"`

	// Title is the human-readable item title users type on the command line.
	Title string `json:"title" yaml:"title"`

	// VaultID is the opaque identifier of the owning vault.
	// References are built from it rather than VaultName so that names with
	// non-ASCII or reserved characters never need escaping.
	VaultID string `json:"vault_id,omitempty" yaml:"vault_id,omitempty"`

	// VaultName is the display name of the owning vault.
	VaultName string `json:"vault_name,omitempty" yaml:"vault_name,omitempty"`

	// Category is the item category (e.g. "API_CREDENTIAL").
	Category string `json:"category,omitempty" yaml:"category,omitempty"`
}

// VaultLabel returns the vault name for display, or "-" when unknown.
func (s ItemSummary) VaultLabel() string {
	if s.VaultName == "" {
		return "-"
	}
	return s.VaultName
}

// Field is a labeled value on an item.
type Field struct {
	ID      string `json:"id,omitempty"`
	Label   string `json:"label"`
	Value   string `json:"value"`
	Type    string `json:"type,omitempty"`
	Purpose string `json:"purpose,omitempty"`

	// Missing is set when op reported no value at all, which is distinct
	// from an empty string.
	Missing bool `json:"-"`
}

// IsSecret reports whether the field holds concealed material.
func (f Field) IsSecret() bool {
	return f.Type == FieldTypeConcealed
}

// Item is a fully fetched item: its summary plus fields in service order.
type Item struct {
	ItemSummary
	Fields []Field `json:"fields"`
}

// FieldByLabel returns the first field with the given label.
func (i Item) FieldByLabel(label string) (Field, bool) {
	for _, f := range i.Fields {
		if f.Label == label {
			return f, true
		}
	}
	return Field{}, false
}
