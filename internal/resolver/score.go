package resolver

import (
	"strings"

	"github.com/gosimple/slug"
	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Score rates how well title matches query, from 0 (no match) to 1
// (case-insensitive equality). The tiers, best first:
//
//	1.00          equal ignoring case
//	0.95          equal after slugification ("My App" vs "my-app")
//	0.80 - 0.95   query is a substring of title
//	0.60 - 0.75   query is a subsequence of title (accents and case folded)
//	0.00 - 0.75   approximate substring, by edit distance
//
// Within the substring and subsequence tiers a query covering more of the
// title scores higher.
func Score(title, query string) float64 {
	q := []rune(strings.ToLower(strings.TrimSpace(query)))
	t := []rune(strings.ToLower(title))
	if len(q) == 0 || len(t) == 0 {
		return 0
	}

	qs, ts := string(q), string(t)
	if qs == ts {
		return 1
	}
	if sq := slug.Make(qs); sq != "" && sq == slug.Make(ts) {
		return 0.95
	}

	coverage := float64(len(q)) / float64(len(t))
	if coverage > 1 {
		coverage = 1
	}
	if strings.Contains(ts, qs) {
		return 0.8 + 0.15*coverage
	}
	if fuzzy.MatchNormalizedFold(qs, ts) {
		return 0.6 + 0.15*coverage
	}

	d := substringDistance(q, t)
	s := 0.75 * (1 - float64(d)/float64(len(q)))
	if s < 0 {
		return 0
	}
	return s
}

// substringDistance is the smallest Levenshtein distance between q and any
// window of t that is one rune shorter than q, as long as q, or one rune longer.
// A title shorter than the narrowest window is compared whole.
func substringDistance(q, t []rune) int {
	qs := string(q)
	if len(t) <= max(len(q)-1, 1) {
		return fuzzy.LevenshteinDistance(qs, string(t))
	}

	best := -1
	for w := len(q) - 1; w <= len(q)+1; w++ {
		if w < 1 || w > len(t) {
			continue
		}
		for start := 0; start+w <= len(t); start++ {
			d := fuzzy.LevenshteinDistance(qs, string(t[start:start+w]))
			if best < 0 || d < best {
				best = d
			}
		}
	}
	return best
}
