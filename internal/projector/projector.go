// Package projector turns item fields into environment entries.
package projector

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/gosimple/slug"

	"github.com/aidanlsb/opz/internal/model"
)

// Mode selects what an entry's value holds.
type Mode int

const (
	// ModeReference writes op:// references that the op CLI resolves later.
	// Secret values are never read.
	ModeReference Mode = iota
	// ModeLiteral writes the raw field values.
	ModeLiteral
)

func (m Mode) String() string {
	if m == ModeLiteral {
		return "literal"
	}
	return "reference"
}

// Reference builds the secret reference for a field. The vault is addressed
// by id so that display names never need escaping; the label is used as is.
func Reference(vaultID, itemID, label string) string {
	return "op://" + vaultID + "/" + itemID + "/" + label
}

// Project converts the fields of items into entries.
//
// Items are visited in the given order and fields in item order. When a key
// repeats, the entry keeps the position of its first occurrence and takes the
// value of its last, so the last item wins without reshuffling the output.
// Fields without a label or without a value, or whose label yields no usable
// key, are skipped. An empty value is still a value.
func Project(items []model.Item, mode Mode) ([]model.EnvEntry, error) {
	index := make(map[string]int)
	var out []model.EnvEntry

	for _, item := range items {
		if mode == ModeReference && item.VaultID == "" {
			return nil, fmt.Errorf("item %q has no vault id; try specifying --vault", item.Title)
		}

		for _, f := range item.Fields {
			if f.Label == "" || f.Missing {
				continue
			}
			key := KeyFromLabel(f.Label)
			if key == "" {
				continue
			}

			e := model.EnvEntry{Key: key, SourceItemTitle: item.Title}
			if mode == ModeLiteral {
				e.Value = f.Value
			} else {
				e.Value = Reference(item.VaultID, item.ID, f.Label)
			}

			if i, ok := index[key]; ok {
				out[i] = e
				continue
			}
			index[key] = len(out)
			out = append(out, e)
		}
	}

	return out, nil
}

// KeyFromLabel derives an environment variable name from a field label.
//
// The label is upper-cased, every character outside [A-Z0-9_] becomes '_' and
// runs of '_' collapse to one. Non-ASCII letters and digits are transliterated
// first, so "Café" becomes "CAFE" rather than "CAF_". A '_' is prefixed when
// the key would start with a digit. Labels made only of separators yield "".
func KeyFromLabel(label string) string {
	label = strings.TrimSpace(label)

	var b strings.Builder
	prevUnderscore := false
	for _, r := range transliterate(label) {
		if r >= 'a' && r <= 'z' {
			r -= 'a' - 'A'
		}
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			prevUnderscore = false
			continue
		}
		if !prevUnderscore {
			b.WriteByte('_')
			prevUnderscore = true
		}
	}

	key := b.String()
	if strings.Trim(key, "_") == "" {
		return ""
	}
	if key[0] >= '0' && key[0] <= '9' {
		key = "_" + key
	}
	return key
}

// transliterate replaces non-ASCII letters and digits with their ASCII
// spelling and leaves everything else alone.
func transliterate(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r < utf8.RuneSelf || !(unicode.IsLetter(r) || unicode.IsDigit(r)) {
			b.WriteRune(r)
			continue
		}
		if t := slug.Make(string(r)); t != "" {
			b.WriteString(t)
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}
