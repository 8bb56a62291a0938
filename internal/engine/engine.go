package engine

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"pulse/internal/aggregate"
	"pulse/internal/cluster"
	"pulse/internal/config"
	"pulse/internal/domain"
	"pulse/internal/preprocess"
	"pulse/internal/sentiment"
	"pulse/internal/vectorize"
)

// Engine sequences one batch through preprocessing, vectorization,
// clustering and sentiment scoring, and assembles the BatchResult. All
// vectorizer state is created inside Process and discarded with the batch,
// so concurrent invocations share nothing but the scorer's rate limiter.
type Engine struct {
	cfg        config.PipelineConfig
	normalizer *preprocess.Normalizer
	scorer     *sentiment.Scorer
	aggregator *aggregate.Aggregator
	taxonomy   []cluster.TaxonomyEntry
	logger     *log.Logger
}

// New creates an Engine around the given pipeline configuration and scorer.
func New(cfg config.PipelineConfig, scorer *sentiment.Scorer, logger *log.Logger) *Engine {
	if logger == nil {
		logger = log.Default()
	}
	return &Engine{
		cfg:        cfg,
		normalizer: preprocess.NewNormalizer(cfg.ExtraStopwords),
		scorer:     scorer,
		aggregator: aggregate.New(cfg.PositiveThreshold, cfg.NegativeThreshold),
		taxonomy:   cluster.DefaultTaxonomy(),
		logger:     logger,
	}
}

// Process runs the full pipeline over one batch. It returns either a
// complete BatchResult or a *domain.ValidationError; no partial output is
// ever produced. Identical (posts, config) inputs yield identical cluster
// assignments, keywords and sentiments.
func (e *Engine) Process(ctx context.Context, posts []domain.Post) (*domain.BatchResult, error) {
	if verr := e.validate(posts); verr != nil {
		return nil, verr
	}
	start := time.Now()

	tokenSets := make([]domain.TokenSet, len(posts))
	for i, post := range posts {
		tokenSets[i] = e.normalizer.Normalize(post.Text)
	}

	// The sentiment branch is independent of clustering and runs while the
	// cluster branch works.
	var sentiments []domain.SentimentResult
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		sentiments = e.scorer.ScoreBatch(gctx, posts)
		return nil
	})

	clustered, insufficient := e.clusterBranch(tokenSets)
	_ = g.Wait()

	summaries := e.aggregator.Summaries(
		clustered.k, posts, clustered.assignments, sentiments, clustered.keywords, clustered.labels)

	assignments := make(map[string]int, len(posts))
	for i, post := range posts {
		assignments[post.ID] = clustered.assignments[i]
	}

	result := &domain.BatchResult{
		RunID:            uuid.NewString(),
		Clusters:         summaries,
		Sentiments:       sentiments,
		Assignments:      assignments,
		InsufficientData: insufficient,
		PostsAnalyzed:    len(posts),
		ProcessingTimeMs: time.Since(start).Milliseconds(),
	}
	e.logger.Info("batch processed",
		"run", result.RunID,
		"posts", result.PostsAnalyzed,
		"clusters", len(result.Clusters),
		"insufficient_data", result.InsufficientData,
		"fallback", result.FallbackCount(),
		"elapsed", time.Since(start))
	return result, nil
}

type clusterOutput struct {
	assignments []int
	k           int
	keywords    [][]string
	labels      []string
}

// clusterBranch vectorizes and clusters the token sets. A degenerate
// vocabulary collapses to one synthetic cluster and flags insufficient data
// instead of failing the batch.
func (e *Engine) clusterBranch(tokenSets []domain.TokenSet) (clusterOutput, bool) {
	vec := vectorize.New(e.cfg.MaxVocabulary, e.cfg.MinDocFreq, e.cfg.MaxDocFreqRatio)
	res, err := vec.FitTransform(tokenSets)
	if err != nil {
		if !errors.Is(err, vectorize.ErrEmptyVocabulary) {
			e.logger.Error("vectorization failed, treating as insufficient data", "err", err)
		}
		return clusterOutput{
			assignments: make([]int, len(tokenSets)),
			k:           1,
			keywords:    [][]string{nil},
			labels:      []string{cluster.DefaultLabel},
		}, true
	}

	cres := cluster.Cluster(res.Vectors, len(res.Terms), e.cfg.K, e.cfg.Seed)

	members := make([][]domain.Vector, cres.K)
	for i, c := range cres.Assignments {
		members[c] = append(members[c], res.Vectors[i])
	}
	keywords := make([][]string, cres.K)
	labels := make([]string, cres.K)
	for c := 0; c < cres.K; c++ {
		keywords[c] = cluster.Keywords(members[c], res.Terms, e.cfg.TopKeywords)
		labels[c] = cluster.MatchLabel(e.taxonomy, keywords[c])
	}
	return clusterOutput{
		assignments: cres.Assignments,
		k:           cres.K,
		keywords:    keywords,
		labels:      labels,
	}, cres.Degenerate
}
