// Package suggest implements command-line autocompletion and "did you mean"
// corrections for unknown verbs.
package suggest

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

const (
	// MaxDistance is the largest edit distance still offered as a correction.
	MaxDistance = 2
	// MaxCorrections caps the correction list.
	MaxCorrections = 3

	fallbackHint = "Type 'help' to see the available commands."
)

type scored struct {
	verb     string
	distance int
}

// Correct returns up to MaxCorrections verbs within MaxDistance edits of the
// typed verb, closest first, ties broken lexicographically. The typed verb is
// never part of its own list.
func Correct(typed string, verbs []string) []string {
	seen := make(map[string]bool, len(verbs))
	var candidates []scored
	for _, v := range verbs {
		if v == typed || seen[v] {
			continue
		}
		seen[v] = true
		if d := fuzzy.LevenshteinDistance(typed, v); d <= MaxDistance {
			candidates = append(candidates, scored{verb: v, distance: d})
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].distance != candidates[j].distance {
			return candidates[i].distance < candidates[j].distance
		}
		return candidates[i].verb < candidates[j].verb
	})

	if len(candidates) > MaxCorrections {
		candidates = candidates[:MaxCorrections]
	}
	result := make([]string, len(candidates))
	for i, c := range candidates {
		result[i] = c.verb
	}
	return result
}

// Hint renders a correction list as the suggestion line shown under an
// unknown command.
func Hint(corrections []string) string {
	if len(corrections) == 0 {
		return fallbackHint
	}
	return "Did you mean: " + strings.Join(corrections, ", ") + "?"
}
