package cluster

import (
	"sort"

	"pulse/internal/domain"
)

// Keywords ranks vocabulary terms by aggregate TF-IDF weight across the
// member vectors and returns the top-N terms, most representative first.
// Ties are broken by ascending lexical order so the output is deterministic.
func Keywords(members []domain.Vector, terms []string, topN int) []string {
	if topN <= 0 || len(terms) == 0 {
		return nil
	}
	weights := make([]float64, len(terms))
	for _, vec := range members {
		for _, idx := range sortedIndices(vec) {
			if idx < len(weights) {
				weights[idx] += vec[idx]
			}
		}
	}
	type ranked struct {
		term   string
		weight float64
	}
	scored := make([]ranked, 0, len(terms))
	for i, w := range weights {
		if w > 0 {
			scored = append(scored, ranked{term: terms[i], weight: w})
		}
	}
	if len(scored) == 0 {
		return nil
	}
	sort.Slice(scored, func(i, j int) bool {
		if scored[i].weight != scored[j].weight {
			return scored[i].weight > scored[j].weight
		}
		return scored[i].term < scored[j].term
	})
	if topN > len(scored) {
		topN = len(scored)
	}
	out := make([]string, topN)
	for i := 0; i < topN; i++ {
		out[i] = scored[i].term
	}
	return out
}
