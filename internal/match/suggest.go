package match

import (
	"sort"
)

// DefaultMinSimilarity is the lowest similarity at which a known name is
// offered as a suggestion.
const DefaultMinSimilarity = 0.6

type scored struct {
	name  string
	score float64
}

// Suggest returns up to limit names from candidates that resemble name, most
// similar first. Ties are broken alphabetically so the result is stable.
func Suggest(name string, candidates []string, limit int) []string {
	if limit <= 0 {
		return nil
	}

	var ranked []scored

	for _, c := range candidates {
		score := Similarity(name, c)
		if score >= DefaultMinSimilarity {
			ranked = append(ranked, scored{name: c, score: score})
		}
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}

		return ranked[i].name < ranked[j].name
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	out := make([]string, len(ranked))
	for i, r := range ranked {
		out[i] = r.name
	}

	return out
}
