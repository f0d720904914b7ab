package envfile

import "github.com/aidanlsb/opz/internal/model"

// Merge returns a copy of f with entries applied.
//
// For each entry the first line setting its key is rewritten in place (left
// untouched when it already holds the same value) and later lines setting the
// same key are dropped. Keys not present are appended in the order given.
// Comments, blank lines, invalid lines and unrelated keys keep their text and
// relative order. Merging the same entries twice yields the same bytes.
func Merge(f *File, entries []model.EnvEntry) *File {
	out := &File{
		Lines:           append([]Line(nil), f.Lines...),
		TrailingNewline: f.TrailingNewline,
	}

	appended := false
	for _, e := range dedupe(entries) {
		first := -1
		kept := out.Lines[:0:0]
		for _, line := range out.Lines {
			if line.Kind == KindEntry && line.Key == e.Key {
				if first >= 0 {
					continue
				}
				first = len(kept)
				if line.Value != e.Value || line.problem != "" {
					line = entryLine(e)
				}
			}
			kept = append(kept, line)
		}
		if first < 0 {
			kept = append(kept, entryLine(e))
			appended = true
		}
		out.Lines = kept
	}

	if appended {
		out.TrailingNewline = true
	}
	return out
}

func entryLine(e model.EnvEntry) Line {
	return Line{
		Raw:   FormatLine(e.Key, e.Value),
		Kind:  KindEntry,
		Key:   e.Key,
		Value: e.Value,
	}
}

// dedupe keeps the first position and last value of repeated keys.
func dedupe(entries []model.EnvEntry) []model.EnvEntry {
	index := make(map[string]int, len(entries))
	out := make([]model.EnvEntry, 0, len(entries))
	for _, e := range entries {
		if i, ok := index[e.Key]; ok {
			out[i] = e
			continue
		}
		index[e.Key] = len(out)
		out = append(out, e)
	}
	return out
}
