package sentiment

import (
	"math"
	"regexp"
	"strings"

	"pulse/internal/domain"
)

// compoundAlpha normalizes the summed valence into [-1, 1].
const compoundAlpha = 15.0

// negationScalar flips and dampens a valence hit preceded by a negation.
const negationScalar = -0.74

// negationWindow is how many preceding tokens are checked for a negation.
const negationWindow = 3

// LexiconScorer is the local fallback scorer: a fixed word-valence lexicon
// with negation and intensity handling. It has no network dependency and
// never fails; empty or unknown text scores neutral.
type LexiconScorer struct {
	valences     map[string]float64
	boosters     map[string]float64
	negations    map[string]struct{}
	tokenPattern *regexp.Regexp
}

// NewLexiconScorer builds the scorer from the base lexicon with the domain
// overrides applied on top.
func NewLexiconScorer() *LexiconScorer {
	valences := make(map[string]float64, len(baseLexicon)+len(domainLexicon))
	for w, v := range baseLexicon {
		valences[w] = v
	}
	for w, v := range domainLexicon {
		valences[w] = v
	}
	return &LexiconScorer{
		valences:     valences,
		boosters:     boosterWords(),
		negations:    negationWords(),
		tokenPattern: regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*`),
	}
}

// Name returns the identifier of this scorer implementation.
func (s *LexiconScorer) Name() string { return "lexicon" }

// Score computes a sentiment score for the text. It is total: whitespace-only
// input yields a neutral score.
func (s *LexiconScorer) Score(text string) domain.SentimentScore {
	tokens := s.tokenPattern.FindAllString(strings.ToLower(text), -1)
	if len(tokens) == 0 {
		return domain.SentimentScore{Neutral: 1}
	}

	sum := 0.0
	posSum := 0.0
	negSum := 0.0
	neuCount := 0
	for i, tok := range tokens {
		valence, ok := s.valences[tok]
		if !ok {
			if _, isBooster := s.boosters[tok]; !isBooster {
				if _, isNeg := s.negations[tok]; !isNeg {
					neuCount++
				}
			}
			continue
		}
		valence += s.boost(tokens, i, valence)
		if s.negated(tokens, i) {
			valence *= negationScalar
		}
		sum += valence
		if valence > 0 {
			posSum += valence + 1
		} else if valence < 0 {
			negSum += -valence + 1
		} else {
			neuCount++
		}
	}

	compound := sum / math.Sqrt(sum*sum+compoundAlpha)
	if compound > 1 {
		compound = 1
	} else if compound < -1 {
		compound = -1
	}

	total := posSum + negSum + float64(neuCount)
	score := domain.SentimentScore{Compound: compound}
	if total > 0 {
		score.Positive = posSum / total
		score.Negative = negSum / total
		score.Neutral = float64(neuCount) / total
	} else {
		score.Neutral = 1
	}
	return score
}

// boost adds intensity contributions from booster words in the preceding
// window, decaying with distance.
func (s *LexiconScorer) boost(tokens []string, i int, valence float64) float64 {
	if valence == 0 {
		return 0
	}
	sign := 1.0
	if valence < 0 {
		sign = -1
	}
	decay := []float64{1.0, 0.95, 0.9}
	total := 0.0
	for d := 1; d <= negationWindow && i-d >= 0; d++ {
		if b, ok := s.boosters[tokens[i-d]]; ok {
			total += sign * b * decay[d-1]
		}
	}
	return total
}

func (s *LexiconScorer) negated(tokens []string, i int) bool {
	for d := 1; d <= negationWindow && i-d >= 0; d++ {
		if _, ok := s.negations[tokens[i-d]]; ok {
			return true
		}
	}
	return false
}

func negationWords() map[string]struct{} {
	words := []string{
		"not", "no", "never", "neither", "nor", "nothing", "nobody", "none", "without", "hardly", "barely",
		"cannot", "can't", "cant", "won't", "wont", "don't", "dont", "doesn't", "doesnt", "didn't", "didnt",
		"isn't", "isnt", "wasn't", "wasnt", "aren't", "arent", "weren't", "werent", "wouldn't", "wouldnt",
		"couldn't", "couldnt", "shouldn't", "shouldnt", "ain't", "aint",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}

func boosterWords() map[string]float64 {
	return map[string]float64{
		"absolutely": 0.293, "amazingly": 0.293, "completely": 0.293, "considerably": 0.293,
		"decidedly": 0.293, "deeply": 0.293, "enormously": 0.293, "especially": 0.293,
		"exceptionally": 0.293, "extremely": 0.293, "greatly": 0.293, "highly": 0.293,
		"hugely": 0.293, "incredibly": 0.293, "majorly": 0.293, "really": 0.293,
		"remarkably": 0.293, "seriously": 0.293, "so": 0.293, "totally": 0.293,
		"tremendously": 0.293, "unbelievably": 0.293, "utterly": 0.293, "very": 0.293,
		"almost": -0.293, "barely": -0.293, "kinda": -0.293, "kindof": -0.293,
		"less": -0.293, "little": -0.293, "marginally": -0.293, "occasionally": -0.293,
		"partly": -0.293, "scarcely": -0.293, "slightly": -0.293, "somewhat": -0.293,
	}
}
