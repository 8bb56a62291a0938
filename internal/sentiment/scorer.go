package sentiment

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/sethvargo/go-retry"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"pulse/internal/domain"
)

// Options configures the scoring stage for one engine instance.
type Options struct {
	Workers           int
	Timeout           time.Duration
	MaxRetries        int
	RatePerSec        float64
	PositiveThreshold float64
	NegativeThreshold float64
	Logger            *log.Logger
}

// Scorer resolves a SentimentResult for every post: primary remote scorer
// first, deterministic local fallback when the primary is unconfigured,
// exhausted or invalid. It never returns fewer results than posts.
type Scorer struct {
	primary  domain.PrimaryScorer
	fallback domain.FallbackScorer
	limiter  *rate.Limiter
	opts     Options
	logger   *log.Logger
}

// New creates a Scorer. primary may be nil, in which case every post takes
// the fallback path.
func New(primary domain.PrimaryScorer, fallback domain.FallbackScorer, opts Options) *Scorer {
	if opts.Workers <= 0 {
		opts.Workers = 4
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}
	if opts.RatePerSec <= 0 {
		opts.RatePerSec = 5
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Scorer{
		primary:  primary,
		fallback: fallback,
		limiter:  rate.NewLimiter(rate.Limit(opts.RatePerSec), opts.Workers),
		opts:     opts,
		logger:   logger,
	}
}

// ScoreBatch scores all posts, dispatching primary calls across a bounded
// worker pool. One post's primary failure never affects its siblings, and
// cancellation makes unresolved posts fall back immediately. The returned
// slice is index-aligned with posts.
func (s *Scorer) ScoreBatch(ctx context.Context, posts []domain.Post) []domain.SentimentResult {
	results := make([]domain.SentimentResult, len(posts))
	var g errgroup.Group
	g.SetLimit(s.opts.Workers)
	for i, post := range posts {
		i, post := i, post
		g.Go(func() error {
			results[i] = s.scorePost(ctx, post)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// scorePost walks one post through the scoring states and always resolves.
func (s *Scorer) scorePost(ctx context.Context, post domain.Post) domain.SentimentResult {
	if strings.TrimSpace(post.Text) == "" {
		return s.resolve(post.ID, domain.SentimentScore{Neutral: 1}, domain.SourceFallback)
	}
	if s.primary == nil {
		return s.resolve(post.ID, s.fallback.Score(post.Text), domain.SourceFallback)
	}

	score, err := s.scorePrimary(ctx, post.Text)
	if err != nil {
		s.logger.Debug("primary scorer failed, falling back",
			"post", post.ID, "scorer", s.primary.Name(), "err", err)
		return s.resolve(post.ID, s.fallback.Score(post.Text), domain.SourceFallback)
	}
	return s.resolve(post.ID, score, domain.SourcePrimary)
}

// scorePrimary attempts the remote scorer with bounded retries and backoff.
// Only transient failures are retried; validation failures abort straight
// to the fallback.
func (s *Scorer) scorePrimary(ctx context.Context, text string) (domain.SentimentScore, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return domain.SentimentScore{}, err
	}
	backoff := retry.WithMaxRetries(uint64(s.opts.MaxRetries),
		retry.WithJitter(50*time.Millisecond, retry.NewExponential(200*time.Millisecond)))

	var score domain.SentimentScore
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		callCtx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
		defer cancel()
		got, callErr := s.primary.Score(callCtx, text)
		if callErr != nil {
			if errors.Is(callErr, ErrUnavailable) || isTimeout(callErr) {
				var ra *RetryAfterError
				if errors.As(callErr, &ra) && ra.After > 0 {
					if werr := waitFor(ctx, ra.After); werr != nil {
						return werr
					}
				}
				return retry.RetryableError(callErr)
			}
			return callErr
		}
		score = got
		return nil
	})
	if err != nil {
		return domain.SentimentScore{}, err
	}
	return score, nil
}

// waitFor sleeps for the server-hinted delay unless the context ends first.
func waitFor(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (s *Scorer) resolve(postID string, score domain.SentimentScore, source domain.ScoreSource) domain.SentimentResult {
	return domain.SentimentResult{
		PostID: postID,
		Score:  score,
		Label:  domain.LabelFor(score.Compound, s.opts.PositiveThreshold, s.opts.NegativeThreshold),
		Source: source,
	}
}
