package opcli

import "github.com/aidanlsb/opz/internal/model"

// JSON shapes produced by `op item list/get --format json`. Only the fields
// opz reads are declared.

type vaultRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type listEntry struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Category string   `json:"category"`
	Vault    vaultRef `json:"vault"`
}

func (e listEntry) summary() model.ItemSummary {
	return model.ItemSummary{
		ID:        e.ID,
		Title:     e.Title,
		VaultID:   e.Vault.ID,
		VaultName: e.Vault.Name,
		Category:  e.Category,
	}
}

type fieldEntry struct {
	ID      string  `json:"id"`
	Label   string  `json:"label"`
	Value   *string `json:"value"`
	Type    string  `json:"type"`
	Purpose string  `json:"purpose"`
}

type getResult struct {
	listEntry
	Fields []fieldEntry `json:"fields"`
}

func (r getResult) item() model.Item {
	item := model.Item{ItemSummary: r.summary()}
	for _, f := range r.Fields {
		field := model.Field{
			ID:      f.ID,
			Label:   f.Label,
			Type:    f.Type,
			Purpose: f.Purpose,
			Missing: f.Value == nil,
		}
		if f.Value != nil {
			field.Value = *f.Value
		}
		item.Fields = append(item.Fields, field)
	}
	return item
}
