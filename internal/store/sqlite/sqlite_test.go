package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pulse/internal/domain"
)

func testResult() *domain.BatchResult {
	return &domain.BatchResult{
		RunID:            "run-1",
		PostsAnalyzed:    2,
		ProcessingTimeMs: 12,
		Assignments:      map[string]int{"a": 0, "b": 0},
		Sentiments: []domain.SentimentResult{
			{PostID: "a", Score: domain.SentimentScore{Compound: 0.5}, Label: domain.LabelPositive, Source: domain.SourcePrimary},
			{PostID: "b", Score: domain.SentimentScore{Neutral: 1}, Label: domain.LabelNeutral, Source: domain.SourceFallback},
		},
		Clusters: []domain.ClusterSummary{
			{ID: 0, Label: "EV Adoption", Keywords: []string{"battery", "range"}, PostIDs: []string{"a", "b"}, SentimentAvg: 0.25, SentimentLabel: domain.LabelNeutral},
		},
	}
}

func TestSaveResultWritesAllItems(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pulse.db")
	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()
	require.NoError(t, s.Init(context.Background()))

	report, err := s.SaveResult(context.Background(), testResult())
	require.NoError(t, err)
	// 2 assignments + 2 sentiments + 1 summary
	assert.Equal(t, 5, report.Written)
	assert.Empty(t, report.Failures)
	require.NoError(t, s.Close())

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM runs`).Scan(&n))
	assert.Equal(t, 1, n)
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM assignments WHERE run_id = 'run-1'`).Scan(&n))
	assert.Equal(t, 2, n)
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM sentiments WHERE run_id = 'run-1'`).Scan(&n))
	assert.Equal(t, 2, n)

	var label, keywords string
	var avg float64
	require.NoError(t, db.QueryRow(
		`SELECT label, keywords, sentiment_avg FROM summaries WHERE run_id = 'run-1' AND cluster_id = 0`,
	).Scan(&label, &keywords, &avg))
	assert.Equal(t, "EV Adoption", label)
	assert.Equal(t, "battery,range", keywords)
	assert.InDelta(t, 0.25, avg, 1e-9)
}

func TestSaveResultIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pulse.db")
	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()
	require.NoError(t, s.Init(context.Background()))

	_, err = s.SaveResult(context.Background(), testResult())
	require.NoError(t, err)
	_, err = s.SaveResult(context.Background(), testResult())
	require.NoError(t, err)

	var n int
	require.NoError(t, s.db.QueryRow(`SELECT COUNT(*) FROM sentiments`).Scan(&n))
	assert.Equal(t, 2, n)
	require.NoError(t, s.db.QueryRow(`SELECT COUNT(*) FROM runs`).Scan(&n))
	assert.Equal(t, 1, n)
}

func TestInitIsRepeatable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pulse.db")
	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()
	require.NoError(t, s.Init(context.Background()))
	require.NoError(t, s.Init(context.Background()))
}
