// Package resolver turns a user-supplied item title into exactly one item.
package resolver

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/aidanlsb/opz/internal/model"
)

// MinScore is the lowest fuzzy score a candidate needs to be returned.
const MinScore = 0.5

var (
	// ErrNotFound matches NotFoundError via errors.Is.
	ErrNotFound = errors.New("item not found")
	// ErrAmbiguous matches AmbiguousMatchError via errors.Is.
	ErrAmbiguous = errors.New("ambiguous item title")
)

// NotFoundError is returned when no candidate clears the fuzzy threshold.
type NotFoundError struct {
	Query string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no item matched title %q", e.Query)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// AmbiguousMatchError is returned when several items carry the exact title.
type AmbiguousMatchError struct {
	Query   string
	Matches []model.ItemSummary
}

func (e *AmbiguousMatchError) Error() string {
	parts := make([]string, len(e.Matches))
	for i, m := range e.Matches {
		parts[i] = fmt.Sprintf("%s [%s] %s", m.ID, m.VaultLabel(), m.Title)
	}
	return fmt.Sprintf("item title %q is ambiguous, %d items match: %s",
		e.Query, len(e.Matches), strings.Join(parts, "; "))
}

func (e *AmbiguousMatchError) Is(target error) bool { return target == ErrAmbiguous }

// Match is a ranked fuzzy candidate.
type Match struct {
	Item  model.ItemSummary
	Score float64
}

// Resolve picks the one candidate that query refers to.
//
// A case-sensitive exact title match always takes precedence. Several exact
// matches are an error, never a guess: fuzzy matching only runs when no title
// matches exactly, and then the best ranked candidate wins if it scores at
// least MinScore.
func Resolve(candidates []model.ItemSummary, query string) (model.ItemSummary, error) {
	var exact []model.ItemSummary
	for _, c := range candidates {
		if c.Title == query {
			exact = append(exact, c)
		}
	}

	switch len(exact) {
	case 1:
		return exact[0], nil
	case 0:
	default:
		return model.ItemSummary{}, &AmbiguousMatchError{Query: query, Matches: exact}
	}

	ranked := Rank(candidates, query)
	if len(ranked) == 0 {
		return model.ItemSummary{}, &NotFoundError{Query: query}
	}
	return ranked[0].Item, nil
}

// ResolveMany resolves each query in order. The result has one item per
// query; the first failure aborts.
func ResolveMany(candidates []model.ItemSummary, queries []string) ([]model.ItemSummary, error) {
	out := make([]model.ItemSummary, 0, len(queries))
	for _, q := range queries {
		item, err := Resolve(candidates, q)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

// Rank scores every candidate against query and returns those reaching
// MinScore, best first. Ties go to the shorter title, then to listing order.
func Rank(candidates []model.ItemSummary, query string) []Match {
	type scored struct {
		Match
		index  int
		length int
	}

	var hits []scored
	for i, c := range candidates {
		s := Score(c.Title, query)
		if s < MinScore {
			continue
		}
		hits = append(hits, scored{
			Match:  Match{Item: c, Score: s},
			index:  i,
			length: utf8.RuneCountInString(c.Title),
		})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		a, b := hits[i], hits[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.length != b.length {
			return a.length < b.length
		}
		return a.index < b.index
	})

	out := make([]Match, len(hits))
	for i, h := range hits {
		out[i] = h.Match
	}
	return out
}
