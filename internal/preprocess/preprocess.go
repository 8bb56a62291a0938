package preprocess

import (
	"regexp"
	"strings"

	"pulse/internal/domain"
)

// Normalizer cleans and tokenizes raw post text for vectorization.
// Normalize is idempotent: running it over already-normalized text yields
// the same token set.
type Normalizer struct {
	urlPattern     *regexp.Regexp
	mentionPattern *regexp.Regexp
	hashtagPattern *regexp.Regexp
	nonWordPattern *regexp.Regexp
	spacePattern   *regexp.Regexp
	stopwords      map[string]struct{}
}

// minTokenLen drops short noise tokens ("a", "ok", "rt").
const minTokenLen = 3

// NewNormalizer creates a Normalizer with the default generic and domain
// stopword lists plus any extra stopwords from configuration.
func NewNormalizer(extraStopwords []string) *Normalizer {
	stop := defaultStopwords()
	for w := range domainStopwords() {
		stop[w] = struct{}{}
	}
	for _, w := range extraStopwords {
		stop[strings.ToLower(strings.TrimSpace(w))] = struct{}{}
	}
	return &Normalizer{
		urlPattern:     regexp.MustCompile(`https?://\S+|www\.\S+`),
		mentionPattern: regexp.MustCompile(`@\w+`),
		hashtagPattern: regexp.MustCompile(`#(\w+)`),
		nonWordPattern: regexp.MustCompile(`[^a-z0-9\s]`),
		spacePattern:   regexp.MustCompile(`\s+`),
		stopwords:      stop,
	}
}

// Clean lowercases text and strips URLs, @-mentions, hashtag markers and
// punctuation. Hashtag text is kept without the leading '#'.
func (n *Normalizer) Clean(text string) string {
	if text == "" {
		return ""
	}
	t := strings.ToLower(text)
	t = n.urlPattern.ReplaceAllString(t, "")
	t = n.mentionPattern.ReplaceAllString(t, "")
	t = n.hashtagPattern.ReplaceAllString(t, "$1")
	t = n.nonWordPattern.ReplaceAllString(t, " ")
	t = n.spacePattern.ReplaceAllString(t, " ")
	return strings.TrimSpace(t)
}

// Normalize converts raw text into a filtered token set. Whitespace-only or
// entirely-stopword input yields an empty set, which is a valid value.
func (n *Normalizer) Normalize(text string) domain.TokenSet {
	cleaned := n.Clean(text)
	if cleaned == "" {
		return nil
	}
	fields := strings.Fields(cleaned)
	tokens := make(domain.TokenSet, 0, len(fields))
	for _, tok := range fields {
		if len(tok) < minTokenLen {
			continue
		}
		if _, ok := n.stopwords[tok]; ok {
			continue
		}
		tokens = append(tokens, tok)
	}
	if len(tokens) == 0 {
		return nil
	}
	return tokens
}

func defaultStopwords() map[string]struct{} {
	words := []string{
		"a", "an", "the", "and", "or", "but", "if", "then", "else", "for", "to", "of", "in", "on", "at", "by", "with", "as", "is", "are", "was", "were", "be", "been", "being", "it", "this", "that", "these", "those", "from", "up", "down", "over", "under", "again", "further", "than", "so", "such", "into", "about", "between", "through", "during", "before", "after", "above", "below", "out", "off", "own", "same", "too", "very", "can", "will", "just", "don", "should", "now",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}

// domainStopwords are terms so common in the monitored communities that they
// carry no clustering signal.
func domainStopwords() map[string]struct{} {
	words := []string{
		"truck", "trucks", "trucker", "truckers", "trucking",
		"peterbilt", "pete", "paccar",
		"like", "got", "get", "would", "could", "really",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}
