package vectorize

import (
	"errors"
	"math"
	"sort"

	"pulse/internal/domain"
)

// ErrEmptyVocabulary signals that no term survived tokenization and
// frequency pruning. The orchestrator maps this to the insufficient-data
// flag instead of failing the batch.
var ErrEmptyVocabulary = errors.New("vectorize: empty vocabulary")

// Vectorizer builds sparse TF-IDF vectors over one batch's vocabulary.
// A Vectorizer is created per batch and never reused, so no fitted state
// leaks across invocations.
type Vectorizer struct {
	maxVocabulary   int
	minDocFreq      int
	maxDocFreqRatio float64
}

// Result holds the batch vector space: one sparse vector per input token
// set, plus the ordered vocabulary terms the vector indices refer to.
type Result struct {
	Vectors []domain.Vector
	Terms   []string
}

// New creates a batch-scoped vectorizer. maxVocabulary caps the vocabulary
// size, minDocFreq/maxDocFreqRatio prune overly rare and overly common terms.
func New(maxVocabulary, minDocFreq int, maxDocFreqRatio float64) *Vectorizer {
	if maxVocabulary <= 0 {
		maxVocabulary = 2000
	}
	if minDocFreq <= 0 {
		minDocFreq = 1
	}
	if maxDocFreqRatio <= 0 || maxDocFreqRatio > 1 {
		maxDocFreqRatio = 1
	}
	return &Vectorizer{
		maxVocabulary:   maxVocabulary,
		minDocFreq:      minDocFreq,
		maxDocFreqRatio: maxDocFreqRatio,
	}
}

// FitTransform builds the vocabulary from the given token sets and returns
// L2-normalized TF-IDF vectors. Empty token sets produce empty vectors.
// Returns ErrEmptyVocabulary when nothing survives pruning.
func (v *Vectorizer) FitTransform(tokenSets []domain.TokenSet) (*Result, error) {
	if len(tokenSets) == 0 {
		return nil, ErrEmptyVocabulary
	}
	df := make(map[string]int)
	for _, ts := range tokenSets {
		seen := make(map[string]struct{}, len(ts))
		for _, tok := range ts {
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			df[tok]++
		}
	}
	if len(df) == 0 {
		return nil, ErrEmptyVocabulary
	}

	terms := v.pruneAndCap(df, len(tokenSets))
	if len(terms) == 0 {
		return nil, ErrEmptyVocabulary
	}

	vocab := make(map[string]int, len(terms))
	idf := make([]float64, len(terms))
	n := float64(len(tokenSets))
	for i, term := range terms {
		vocab[term] = i
		// smoothed IDF
		idf[i] = math.Log((1+n)/(1+float64(df[term]))) + 1.0
	}

	vectors := make([]domain.Vector, len(tokenSets))
	for d, ts := range tokenSets {
		tf := make(map[int]int)
		total := 0
		for _, tok := range ts {
			if idx, ok := vocab[tok]; ok {
				tf[idx]++
				total++
			}
		}
		vec := make(domain.Vector, len(tf))
		if total > 0 {
			norm := 0.0
			for idx, count := range tf {
				w := (float64(count) / float64(total)) * idf[idx]
				vec[idx] = w
				norm += w * w
			}
			norm = math.Sqrt(norm)
			if norm > 0 {
				for idx := range vec {
					vec[idx] /= norm
				}
			}
		}
		vectors[d] = vec
	}
	return &Result{Vectors: vectors, Terms: terms}, nil
}

// pruneAndCap applies document-frequency thresholds and the vocabulary cap.
// The vocabulary stays sorted so vector indices are deterministic. If
// frequency pruning would empty a non-empty vocabulary the thresholds are
// ignored; a batch of near-identical posts must still vectorize.
func (v *Vectorizer) pruneAndCap(df map[string]int, docs int) []string {
	maxDF := int(math.Floor(v.maxDocFreqRatio * float64(docs)))
	if maxDF < 1 {
		maxDF = 1
	}
	kept := make([]string, 0, len(df))
	for term, f := range df {
		if f < v.minDocFreq || f > maxDF {
			continue
		}
		kept = append(kept, term)
	}
	if len(kept) == 0 {
		kept = kept[:0]
		for term := range df {
			kept = append(kept, term)
		}
	}
	sort.Strings(kept)
	if len(kept) > v.maxVocabulary {
		// keep the most frequent terms, ties broken lexically
		sort.SliceStable(kept, func(i, j int) bool {
			if df[kept[i]] != df[kept[j]] {
				return df[kept[i]] > df[kept[j]]
			}
			return kept[i] < kept[j]
		})
		kept = kept[:v.maxVocabulary]
		sort.Strings(kept)
	}
	return kept
}
