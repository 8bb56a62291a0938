package sentiment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// geminiReply wraps the given model output text in a generateContent
// response envelope.
func geminiReply(text string) string {
	body := map[string]any{
		"candidates": []map[string]any{
			{"content": map[string]any{"parts": []map[string]string{{"text": text}}}},
		},
	}
	data, _ := json.Marshal(body)
	return string(data)
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *GeminiClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client, err := NewGeminiClient(GeminiConfig{
		BaseURL: srv.URL,
		APIKey:  "test-key",
		Model:   "gemini-2.0-flash",
		Timeout: 2 * time.Second,
	})
	require.NoError(t, err)
	return client
}

func TestGeminiScoreSuccess(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))
		w.Write([]byte(geminiReply(`{"compound": 0.8, "positive": 0.7, "negative": 0.1, "neutral": 0.2}`)))
	})
	score, err := client.Score(context.Background(), "insane torque")
	require.NoError(t, err)
	assert.InDelta(t, 0.8, score.Compound, 1e-9)
	assert.InDelta(t, 0.7, score.Positive, 1e-9)
}

func TestGeminiScoreStripsCodeFence(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(geminiReply("```json\n{\"compound\": -0.5, \"positive\": 0.0, \"negative\": 0.6, \"neutral\": 0.4}\n```")))
	})
	score, err := client.Score(context.Background(), "breakdown again")
	require.NoError(t, err)
	assert.InDelta(t, -0.5, score.Compound, 1e-9)
}

func TestGeminiScoreMalformedJSON(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(geminiReply("this is not json")))
	})
	_, err := client.Score(context.Background(), "anything")
	assert.ErrorIs(t, err, ErrParse)
}

func TestGeminiScoreMissingField(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(geminiReply(`{"compound": 0.4, "positive": 0.5}`)))
	})
	_, err := client.Score(context.Background(), "anything")
	assert.ErrorIs(t, err, ErrParse)
}

func TestGeminiScoreOutOfRange(t *testing.T) {
	cases := []string{
		`{"compound": 1.5, "positive": 0.5, "negative": 0.2, "neutral": 0.3}`,
		`{"compound": 0.5, "positive": 1.2, "negative": 0.2, "neutral": 0.3}`,
		`{"compound": 0.5, "positive": 0.5, "negative": -0.1, "neutral": 0.3}`,
	}
	for _, reply := range cases {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(geminiReply(reply)))
		})
		_, err := client.Score(context.Background(), "anything")
		assert.ErrorIs(t, err, ErrParse, "reply %s", reply)
	}
}

func TestGeminiScoreEmptyCandidates(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates": []}`))
	})
	_, err := client.Score(context.Background(), "anything")
	assert.ErrorIs(t, err, ErrParse)
}

func TestGeminiScoreServerErrorIsTransient(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	_, err := client.Score(context.Background(), "anything")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestGeminiScoreRateLimitIsTransient(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})
	_, err := client.Score(context.Background(), "anything")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestGeminiScoreRateLimitCarriesRetryAfter(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "7")
		w.WriteHeader(http.StatusTooManyRequests)
	})
	_, err := client.Score(context.Background(), "anything")
	var ra *RetryAfterError
	require.ErrorAs(t, err, &ra)
	assert.Equal(t, 7*time.Second, ra.After)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestParseRetryAfter(t *testing.T) {
	assert.Equal(t, 3*time.Second, parseRetryAfter("3"))
	assert.Zero(t, parseRetryAfter(""))
	assert.Zero(t, parseRetryAfter("Wed, 21 Oct 2026 07:28:00 GMT"))
	assert.Zero(t, parseRetryAfter("-1"))
}

func TestGeminiScoreClientErrorIsNotTransient(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	})
	_, err := client.Score(context.Background(), "anything")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnavailable)
	assert.NotErrorIs(t, err, ErrParse)
}

func TestNewGeminiClientRequiresKey(t *testing.T) {
	_, err := NewGeminiClient(GeminiConfig{})
	assert.Error(t, err)
}
