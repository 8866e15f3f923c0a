package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"

	"pg-recommender/models"
	"pg-recommender/utils"
)

const warmupText = "The room was clean and the staff were friendly."

// ModelConfig describes a hosted text-classification model.
type ModelConfig struct {
	Endpoint string
	APIKey   string
	Timeout  time.Duration
}

// ModelAnalyzer classifies text with a hosted pretrained model. It accepts
// the usual inference response shapes: a list of label scores, or a list
// holding one such list.
type ModelAnalyzer struct {
	endpoint string
	apiKey   string
	http     *http.Client
}

type labelScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// NewModelAnalyzer builds the client and performs a warm-up classification
// so the remote model is loaded before the first real review. It is
// expensive; use a ModelProvider to build it once.
func NewModelAnalyzer(ctx context.Context, cfg ModelConfig) (*ModelAnalyzer, error) {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		return nil, fmt.Errorf("sentiment model endpoint is required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	m := &ModelAnalyzer{
		endpoint: endpoint,
		apiKey:   cfg.APIKey,
		http:     &http.Client{Timeout: timeout},
	}

	if _, err := m.classify(ctx, warmupText, true); err != nil {
		return nil, fmt.Errorf("warm up sentiment model: %w", err)
	}
	return m, nil
}

// Analyze returns the top label and its confidence rounded to 2 decimals.
func (m *ModelAnalyzer) Analyze(ctx context.Context, text string) (models.Sentiment, error) {
	return m.classify(ctx, text, false)
}

func (m *ModelAnalyzer) classify(ctx context.Context, text string, waitForModel bool) (models.Sentiment, error) {
	payload := map[string]any{"inputs": text}
	if waitForModel {
		payload["options"] = map[string]any{"wait_for_model": true}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return models.Sentiment{}, fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.endpoint, bytes.NewReader(body))
	if err != nil {
		return models.Sentiment{}, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if m.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+m.apiKey)
	}

	resp, err := m.http.Do(req)
	if err != nil {
		return models.Sentiment{}, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return models.Sentiment{}, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return models.Sentiment{}, fmt.Errorf("unexpected status %s", resp.Status)
	}

	scores, err := decodeLabelScores(raw)
	if err != nil {
		return models.Sentiment{}, err
	}
	return topSentiment(scores)
}

func decodeLabelScores(raw []byte) ([]labelScore, error) {
	var nested [][]labelScore
	if err := json.Unmarshal(raw, &nested); err == nil && len(nested) > 0 {
		return nested[0], nil
	}
	var flat []labelScore
	if err := json.Unmarshal(raw, &flat); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return flat, nil
}

func topSentiment(scores []labelScore) (models.Sentiment, error) {
	if len(scores) == 0 {
		return models.Sentiment{}, fmt.Errorf("model returned no labels")
	}
	best := scores[0]
	for _, s := range scores[1:] {
		if s.Score > best.Score {
			best = s
		}
	}
	label, ok := normaliseLabel(best.Label)
	if !ok {
		return models.Sentiment{}, fmt.Errorf("model returned unknown label %q", best.Label)
	}
	confidence := math.Max(0, math.Min(1, best.Score))
	return models.Sentiment{Label: label, Confidence: round2(confidence)}, nil
}

// normaliseLabel maps model label vocabularies onto POSITIVE/NEGATIVE.
// Neutral counts as positive, matching the lexical rule polarity >= 0.
func normaliseLabel(label string) (string, bool) {
	switch strings.ToUpper(strings.TrimSpace(label)) {
	case "POSITIVE", "POS", "LABEL_1", "NEUTRAL", "NEU", "5 STARS", "4 STARS", "3 STARS":
		return models.SentimentPositive, true
	case "NEGATIVE", "NEG", "LABEL_0", "1 STAR", "2 STARS":
		return models.SentimentNegative, true
	}
	return "", false
}

// ModelProvider builds a ModelAnalyzer at most once. A failed build is
// remembered and reported to every later caller.
type ModelProvider struct {
	once     sync.Once
	analyzer *ModelAnalyzer
	err      error
	builds   atomic.Int32
}

// NewModelProvider returns an empty provider.
func NewModelProvider() *ModelProvider {
	return &ModelProvider{}
}

// defaultModelProvider holds the process-wide model instance.
var defaultModelProvider = NewModelProvider()

// Get returns the shared analyzer, building it on the first call.
func (p *ModelProvider) Get(cfg ModelConfig, logger *utils.Logger) (*ModelAnalyzer, error) {
	p.once.Do(func() {
		p.builds.Add(1)
		// Detached from the caller's context: the instance outlives the request.
		ctx, cancel := context.WithTimeout(context.Background(), buildTimeout(cfg.Timeout))
		defer cancel()

		start := time.Now()
		p.analyzer, p.err = NewModelAnalyzer(ctx, cfg)
		if p.err != nil {
			logger.Error("[sentiment] Model unavailable for this process: %v", p.err)
			return
		}
		logger.Info("[sentiment] Model ready in %v", time.Since(start).Round(time.Millisecond))
	})
	return p.analyzer, p.err
}

// Builds reports how many times construction ran (0 or 1).
func (p *ModelProvider) Builds() int {
	return int(p.builds.Load())
}

func buildTimeout(t time.Duration) time.Duration {
	if t <= 0 {
		return time.Minute
	}
	return 3 * t
}

// lazyModel is the model strategy; it builds the shared analyzer on first
// use.
type lazyModel struct {
	provider *ModelProvider
	cfg      ModelConfig
	logger   *utils.Logger
}

func (l *lazyModel) Analyze(ctx context.Context, text string) (models.Sentiment, error) {
	m, err := l.provider.Get(l.cfg, l.logger)
	if err != nil {
		return models.Sentiment{}, err
	}
	return m.Analyze(ctx, text)
}
