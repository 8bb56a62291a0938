package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pulse/internal/domain"
)

func TestSaveAndGet(t *testing.T) {
	s := New()
	require.NoError(t, s.Init(context.Background()))

	result := &domain.BatchResult{
		RunID:       "run-1",
		Assignments: map[string]int{"a": 0, "b": 1},
		Sentiments: []domain.SentimentResult{
			{PostID: "a", Label: domain.LabelPositive, Source: domain.SourcePrimary},
			{PostID: "b", Label: domain.LabelNeutral, Source: domain.SourceFallback},
		},
		Clusters: []domain.ClusterSummary{{ID: 0}, {ID: 1}},
	}
	report, err := s.SaveResult(context.Background(), result)
	require.NoError(t, err)
	assert.Equal(t, 6, report.Written)
	assert.Empty(t, report.Failures)

	assert.Same(t, result, s.Get("run-1"))
	assert.Nil(t, s.Get("missing"))
	assert.NoError(t, s.Close())
}

func TestSaveWithoutInit(t *testing.T) {
	s := New()
	_, err := s.SaveResult(context.Background(), &domain.BatchResult{RunID: "run-2"})
	require.NoError(t, err)
	assert.NotNil(t, s.Get("run-2"))
}
