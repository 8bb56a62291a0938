package sentiment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"pulse/internal/domain"
)

// ErrParse marks a primary-scorer response that failed schema or range
// validation. It is never retried; the caller falls back immediately.
var ErrParse = errors.New("sentiment: invalid scorer response")

// ErrUnavailable marks a transient primary-scorer failure (network error,
// timeout, rate limit, server error) that may be retried.
var ErrUnavailable = errors.New("sentiment: scorer unavailable")

// RetryAfterError is a rate-limited response carrying the server's suggested
// wait. It unwraps to ErrUnavailable so it is retried like any transient
// failure, after the hinted delay.
type RetryAfterError struct {
	After time.Duration
}

func (e *RetryAfterError) Error() string {
	return fmt.Sprintf("sentiment: rate limited, retry after %s", e.After)
}

func (e *RetryAfterError) Unwrap() error { return ErrUnavailable }

const scorerPrompt = `Analyze the sentiment of the following social media post about trucks/vehicles.

Post: %q

Respond with ONLY a JSON object (no markdown, no explanation) in this exact format:
{"compound": <float from -1.0 to 1.0>, "positive": <float 0-1>, "negative": <float 0-1>, "neutral": <float 0-1>}

Guidelines:
- compound: Overall sentiment score (-1.0 = very negative, 0 = neutral, 1.0 = very positive)
- Consider context: "insane torque" is POSITIVE (slang for amazing)
- Consider negations: "NOT there yet" indicates frustration/negative
- positive/negative/neutral should sum to approximately 1.0
- Be accurate to the true sentiment, not just keyword matching`

// GeminiClient scores text through a Gemini-style generateContent endpoint.
type GeminiClient struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
}

// GeminiConfig configures the remote scorer client.
type GeminiConfig struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

// NewGeminiClient creates the remote scorer client. A missing API key is an
// error here; the caller treats it as "primary not configured".
func NewGeminiClient(cfg GeminiConfig) (*GeminiClient, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("missing API key")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://generativelanguage.googleapis.com/v1beta"
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-2.0-flash"
	}
	t := cfg.Timeout
	if t == 0 {
		t = 15 * time.Second
	}
	return &GeminiClient{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		client:  &http.Client{Timeout: t},
	}, nil
}

// Name returns the identifier of this scorer implementation.
func (c *GeminiClient) Name() string { return "gemini" }

// Score sends one post text for scoring and strictly validates the reply.
// Parse and range failures return ErrParse; transport-level failures return
// ErrUnavailable.
func (c *GeminiClient) Score(ctx context.Context, text string) (domain.SentimentScore, error) {
	var zero domain.SentimentScore

	reqBody := map[string]any{
		"contents": []map[string]any{
			{"parts": []map[string]string{{"text": fmt.Sprintf(scorerPrompt, text)}}},
		},
	}
	data, err := json.Marshal(reqBody)
	if err != nil {
		return zero, fmt.Errorf("%w: %v", ErrParse, err)
	}
	url := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return zero, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return zero, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return zero, &RetryAfterError{After: parseRetryAfter(resp.Header.Get("Retry-After"))}
	}
	if resp.StatusCode >= 500 {
		return zero, fmt.Errorf("%w: %s", ErrUnavailable, resp.Status)
	}
	if resp.StatusCode >= 300 {
		return zero, fmt.Errorf("scorer request rejected: %s", resp.Status)
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return zero, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return parseScorerResponse(payload)
}

// parseScorerResponse extracts the model's JSON reply and validates it
// against the sentiment schema.
func parseScorerResponse(payload []byte) (domain.SentimentScore, error) {
	var zero domain.SentimentScore
	var envelope struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return zero, fmt.Errorf("%w: %v", ErrParse, err)
	}
	if len(envelope.Candidates) == 0 || len(envelope.Candidates[0].Content.Parts) == 0 {
		return zero, fmt.Errorf("%w: empty candidates", ErrParse)
	}
	text := stripCodeFence(envelope.Candidates[0].Content.Parts[0].Text)

	var out struct {
		Compound *float64 `json:"compound"`
		Positive *float64 `json:"positive"`
		Negative *float64 `json:"negative"`
		Neutral  *float64 `json:"neutral"`
	}
	if err := json.Unmarshal([]byte(text), &out); err != nil {
		return zero, fmt.Errorf("%w: %v", ErrParse, err)
	}
	if out.Compound == nil || out.Positive == nil || out.Negative == nil || out.Neutral == nil {
		return zero, fmt.Errorf("%w: missing required fields", ErrParse)
	}
	score := domain.SentimentScore{
		Compound: *out.Compound,
		Positive: *out.Positive,
		Negative: *out.Negative,
		Neutral:  *out.Neutral,
	}
	if score.Compound < -1 || score.Compound > 1 {
		return zero, fmt.Errorf("%w: compound %v out of range", ErrParse, score.Compound)
	}
	for _, v := range []float64{score.Positive, score.Negative, score.Neutral} {
		if v < 0 || v > 1 {
			return zero, fmt.Errorf("%w: component %v out of range", ErrParse, v)
		}
	}
	return score, nil
}

// stripCodeFence removes a surrounding markdown code block if the model
// wrapped its JSON in one.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		s = s[idx+1:]
	}
	if idx := strings.LastIndex(s, "```"); idx >= 0 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}

// parseRetryAfter reads an integer-seconds Retry-After value; anything else
// yields zero and the normal backoff schedule applies.
func parseRetryAfter(v string) time.Duration {
	secs, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || secs < 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

// isTimeout reports whether err is a context or network timeout, which
// counts as transient for retry purposes.
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var nerr net.Error
	return errors.As(err, &nerr) && nerr.Timeout()
}
