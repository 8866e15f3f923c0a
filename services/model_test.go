package services

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pg-recommender/models"
)

func modelServer(t *testing.T, status int, body string, hits *atomic.Int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits != nil {
			hits.Add(1)
		}
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		payload, _ := io.ReadAll(r.Body)
		assert.Contains(t, string(payload), `"inputs"`)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestModelAnalyzerResponseShapes(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		label      string
		confidence float64
	}{
		{"nested", `[[{"label":"NEGATIVE","score":0.12},{"label":"POSITIVE","score":0.8765}]]`, models.SentimentPositive, 0.88},
		{"flat", `[{"label":"NEGATIVE","score":0.991},{"label":"POSITIVE","score":0.009}]`, models.SentimentNegative, 0.99},
		{"star ratings", `[[{"label":"1 star","score":0.05},{"label":"4 stars","score":0.61}]]`, models.SentimentPositive, 0.61},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := modelServer(t, http.StatusOK, tt.body, nil)
			m, err := NewModelAnalyzer(context.Background(), ModelConfig{Endpoint: srv.URL, APIKey: "secret", Timeout: time.Second})
			require.NoError(t, err)

			got, err := m.Analyze(context.Background(), "any review")
			require.NoError(t, err)
			assert.Equal(t, tt.label, got.Label)
			assert.Equal(t, tt.confidence, got.Confidence)
		})
	}
}

func TestModelAnalyzerErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"server error", http.StatusInternalServerError, `{"error":"loading"}`},
		{"malformed", http.StatusOK, `{"label":`},
		{"no labels", http.StatusOK, `[]`},
		{"unknown label", http.StatusOK, `[{"label":"SARCASTIC","score":0.9}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := modelServer(t, tt.status, tt.body, nil)
			_, err := NewModelAnalyzer(context.Background(), ModelConfig{Endpoint: srv.URL, APIKey: "secret"})
			assert.Error(t, err)
		})
	}

	_, err := NewModelAnalyzer(context.Background(), ModelConfig{Endpoint: "  "})
	assert.Error(t, err)
}

func TestModelProviderBuildsOnce(t *testing.T) {
	var hits atomic.Int32
	srv := modelServer(t, http.StatusOK, `[[{"label":"POSITIVE","score":0.9}]]`, &hits)
	cfg := ModelConfig{Endpoint: srv.URL, APIKey: "secret", Timeout: time.Second}
	p := NewModelProvider()

	var wg sync.WaitGroup
	analyzers := make([]*ModelAnalyzer, 8)
	for i := range analyzers {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			m, err := p.Get(cfg, newTestLogger())
			assert.NoError(t, err)
			analyzers[i] = m
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, p.Builds())
	assert.Equal(t, int32(1), hits.Load(), "only the warm-up call reaches the server")
	for _, m := range analyzers[1:] {
		assert.Same(t, analyzers[0], m)
	}
}

func TestModelProviderRemembersFailure(t *testing.T) {
	var hits atomic.Int32
	srv := modelServer(t, http.StatusServiceUnavailable, `{"error":"down"}`, &hits)
	cfg := ModelConfig{Endpoint: srv.URL, APIKey: "secret", Timeout: time.Second}
	p := NewModelProvider()

	_, err := p.Get(cfg, newTestLogger())
	require.Error(t, err)
	_, err = p.Get(cfg, newTestLogger())
	require.Error(t, err)

	assert.Equal(t, 1, p.Builds())
	assert.Equal(t, int32(1), hits.Load())
}

func TestLazyModelSurfacesAsUnavailable(t *testing.T) {
	srv := modelServer(t, http.StatusInternalServerError, `oops`, nil)
	analyzer := &lazyModel{
		provider: NewModelProvider(),
		cfg:      ModelConfig{Endpoint: srv.URL, APIKey: "secret", Timeout: time.Second},
		logger:   newTestLogger(),
	}
	a := NewAnnotator(analyzer, StrategyModel, newTestLogger(), 2, 0)

	got := a.AnnotateAll(context.Background(), []*models.Listing{
		{Reviews: "good"}, {Reviews: "bad"},
	})
	for _, ann := range got {
		assert.False(t, ann.OK)
	}
}

func TestNormaliseLabel(t *testing.T) {
	for _, l := range []string{"positive", "LABEL_1", " neutral ", "5 stars"} {
		got, ok := normaliseLabel(l)
		assert.True(t, ok, l)
		assert.Equal(t, models.SentimentPositive, got, l)
	}
	for _, l := range []string{"NEGATIVE", "label_0", "2 stars"} {
		got, ok := normaliseLabel(l)
		assert.True(t, ok, l)
		assert.Equal(t, models.SentimentNegative, got, l)
	}
	_, ok := normaliseLabel(strings.Repeat("x", 3))
	assert.False(t, ok)
}
