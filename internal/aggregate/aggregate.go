package aggregate

import (
	"pulse/internal/domain"
)

// Aggregator rolls per-post sentiment into per-cluster summaries using the
// same threshold function applied to individual posts.
type Aggregator struct {
	positiveThreshold float64
	negativeThreshold float64
}

// New creates an Aggregator with the configured label thresholds.
func New(positiveThreshold, negativeThreshold float64) *Aggregator {
	return &Aggregator{positiveThreshold: positiveThreshold, negativeThreshold: negativeThreshold}
}

// Summaries builds one ClusterSummary per cluster ID in [0, k). PostIDs keep
// input order; sentimentAvg is the arithmetic mean of member compounds and 0
// for an empty cluster. Keywords and labels are supplied per cluster by the
// caller.
func (a *Aggregator) Summaries(
	k int,
	posts []domain.Post,
	assignments []int,
	sentiments []domain.SentimentResult,
	keywords [][]string,
	labels []string,
) []domain.ClusterSummary {
	summaries := make([]domain.ClusterSummary, k)
	sums := make([]float64, k)
	counts := make([]int, k)
	for c := range summaries {
		summaries[c].ID = c
		if c < len(keywords) {
			summaries[c].Keywords = keywords[c]
		}
		if c < len(labels) {
			summaries[c].Label = labels[c]
		}
	}
	for i, post := range posts {
		c := assignments[i]
		if c < 0 || c >= k {
			continue
		}
		summaries[c].PostIDs = append(summaries[c].PostIDs, post.ID)
		sums[c] += sentiments[i].Score.Compound
		counts[c]++
	}
	for c := range summaries {
		if counts[c] > 0 {
			summaries[c].SentimentAvg = sums[c] / float64(counts[c])
		}
		summaries[c].SentimentLabel = domain.LabelFor(
			summaries[c].SentimentAvg, a.positiveThreshold, a.negativeThreshold)
	}
	return summaries
}
