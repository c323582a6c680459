package merge

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

const maxSuggestions = 3

// Suggest returns up to three names which are similar to key, the closest first.
// A name is similar if one contains the other as fuzzy subsequence or if only
// a few characters differ.
func Suggest(key string, names []string) []string {
	type candidate struct {
		name     string
		distance int
	}

	best := make(map[string]int)
	consider := func(name string, distance int) {
		if d, ok := best[name]; !ok || distance < d {
			best[name] = distance
		}
	}

	for _, rank := range fuzzy.RankFindNormalizedFold(key, names) {
		consider(rank.Target, rank.Distance)
	}

	lowerKey := strings.ToLower(key)
	threshold := max(1, len(lowerKey)/2)
	for _, name := range names {
		if fuzzy.MatchNormalizedFold(name, key) {
			consider(name, len(key)-len(name))
			continue
		}
		if d := fuzzy.LevenshteinDistance(lowerKey, strings.ToLower(name)); d <= threshold {
			consider(name, d)
		}
	}

	candidates := make([]candidate, 0, len(best))
	for name, distance := range best {
		if name == key {
			continue
		}
		candidates = append(candidates, candidate{name: name, distance: distance})
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].distance != candidates[j].distance {
			return candidates[i].distance < candidates[j].distance
		}
		return candidates[i].name < candidates[j].name
	})

	var suggestions []string
	for i := 0; i < len(candidates) && i < maxSuggestions; i++ {
		suggestions = append(suggestions, candidates[i].name)
	}
	return suggestions
}
