package domain

import "context"

// PrimaryScorer is a remote sentiment scorer. Implementations must respect
// the passed context for timeouts and cancellation. A returned error means
// the caller should fall back to the local scorer.
type PrimaryScorer interface {
	Name() string
	Score(ctx context.Context, text string) (SentimentScore, error)
}

// FallbackScorer is a local, deterministic scorer with no network
// dependency. It always produces a score; worst case is neutral.
type FallbackScorer interface {
	Name() string
	Score(text string) SentimentScore
}
