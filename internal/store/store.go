package store

import (
	"context"

	"pulse/internal/domain"
)

// ItemKind identifies which derived artifact a write touched.
type ItemKind string

const (
	KindAssignment ItemKind = "assignment"
	KindSentiment  ItemKind = "sentiment"
	KindSummary    ItemKind = "summary"
)

// ItemError records one failed item write. Partial-write failures are
// reported item by item, never swallowed.
type ItemError struct {
	Kind ItemKind `json:"kind"`
	Key  string   `json:"key"`
	Err  string   `json:"err"`
}

// WriteReport summarizes the outcome of persisting one batch result.
type WriteReport struct {
	Written  int         `json:"written"`
	Failures []ItemError `json:"failures,omitempty"`
}

// Store receives the derived artifacts of a batch run: assignments,
// sentiment results and cluster summaries. Raw vectors, vocabularies and
// external-service responses never reach the store.
type Store interface {
	Init(ctx context.Context) error
	SaveResult(ctx context.Context, result *domain.BatchResult) (*WriteReport, error)
	Close() error
}
