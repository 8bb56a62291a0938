package domain

// SentimentLabel classifies a compound score against configured thresholds.
type SentimentLabel string

const (
	LabelPositive SentimentLabel = "positive"
	LabelNegative SentimentLabel = "negative"
	LabelNeutral  SentimentLabel = "neutral"
)

// ScoreSource identifies which scorer produced a sentiment result.
type ScoreSource string

const (
	SourcePrimary  ScoreSource = "primary"
	SourceFallback ScoreSource = "fallback"
)

// Post is a single raw text post as received from the caller.
// Posts are immutable once handed to the pipeline.
type Post struct {
	ID     string `json:"id" validate:"required"`
	Text   string `json:"text"`
	Source string `json:"source,omitempty"`
	Author string `json:"author,omitempty"`
}

// TokenSet is an ordered sequence of normalized tokens. May be empty.
type TokenSet []string

// Vector is a sparse term-index -> weight mapping scoped to one batch's
// vocabulary. Vectors are never reused across batches.
type Vector map[int]float64

// SentimentScore holds the raw component scores for one text.
type SentimentScore struct {
	Compound float64 `json:"compound"`
	Positive float64 `json:"positive"`
	Negative float64 `json:"negative"`
	Neutral  float64 `json:"neutral"`
}

// SentimentResult is the resolved sentiment for one post.
type SentimentResult struct {
	PostID string         `json:"postId"`
	Score  SentimentScore `json:"score"`
	Label  SentimentLabel `json:"label"`
	Source ScoreSource    `json:"source"`
}

// ClusterSummary describes one thematic cluster of posts.
type ClusterSummary struct {
	ID             int            `json:"id"`
	Label          string         `json:"label"`
	Keywords       []string       `json:"keywords"`
	PostIDs        []string       `json:"postIds"`
	SentimentAvg   float64        `json:"sentimentAvg"`
	SentimentLabel SentimentLabel `json:"sentimentLabel"`
}

// BatchResult is the complete output of one batch run. Either the whole
// result is produced or a ValidationError is returned; there is no partial
// outcome.
type BatchResult struct {
	RunID            string            `json:"runId"`
	Clusters         []ClusterSummary  `json:"clusters"`
	Sentiments       []SentimentResult `json:"sentiments"`
	Assignments      map[string]int    `json:"assignments"`
	InsufficientData bool              `json:"insufficientData"`
	PostsAnalyzed    int               `json:"postsAnalyzed"`
	ProcessingTimeMs int64             `json:"processingTimeMs"`
}

// FallbackCount reports how many sentiment results came from the fallback
// scorer, for observability of primary-scorer health.
func (r *BatchResult) FallbackCount() int {
	n := 0
	for _, s := range r.Sentiments {
		if s.Source == SourceFallback {
			n++
		}
	}
	return n
}

// LabelFor maps a compound score to a label using the two thresholds.
// positive iff compound >= positiveThreshold, negative iff
// compound <= negativeThreshold, else neutral.
func LabelFor(compound, positiveThreshold, negativeThreshold float64) SentimentLabel {
	switch {
	case compound >= positiveThreshold:
		return LabelPositive
	case compound <= negativeThreshold:
		return LabelNegative
	default:
		return LabelNeutral
	}
}
