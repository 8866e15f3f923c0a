package services

import (
	"context"
	"fmt"
	"strings"

	"pg-recommender/config"
	"pg-recommender/metrics"
	"pg-recommender/models"
	"pg-recommender/utils"
)

// Sentiment strategy names.
const (
	StrategyLexical = "lexical"
	StrategyModel   = "model"
)

// SentimentAnalyzer maps review text to a label and a confidence in [0, 1].
type SentimentAnalyzer interface {
	Analyze(ctx context.Context, text string) (models.Sentiment, error)
}

// NewSentimentAnalyzer returns the strategy selected by cfg. The model
// strategy is not contacted until the first review is analysed.
func NewSentimentAnalyzer(cfg *config.Config, logger *utils.Logger) (SentimentAnalyzer, error) {
	switch cfg.SentimentStrategy {
	case StrategyLexical, "":
		return NewLexicalAnalyzer(), nil
	case StrategyModel:
		return &lazyModel{
			provider: defaultModelProvider,
			cfg: ModelConfig{
				Endpoint: cfg.SentimentModelURL,
				APIKey:   cfg.SentimentAPIKey,
				Timeout:  cfg.SentimentTimeout(),
			},
			logger: logger,
		}, nil
	default:
		return nil, fmt.Errorf("unknown sentiment strategy %q", cfg.SentimentStrategy)
	}
}

// Annotation is the sentiment of one listing. OK is false when no sentiment
// is available.
type Annotation struct {
	Sentiment models.Sentiment
	OK        bool
}

// Annotator attaches sentiment to review text using one strategy. Failures
// of the strategy never reach the caller; they become "unavailable".
type Annotator struct {
	analyzer       SentimentAnalyzer
	strategy       string
	logger         *utils.Logger
	maxConcurrency int
	rateLimitMs    int
}

// NewAnnotator wraps analyzer. maxConcurrency and rateLimitMs bound the
// fan-out of AnnotateAll.
func NewAnnotator(analyzer SentimentAnalyzer, strategy string, logger *utils.Logger, maxConcurrency, rateLimitMs int) *Annotator {
	return &Annotator{
		analyzer:       analyzer,
		strategy:       strategy,
		logger:         logger,
		maxConcurrency: maxConcurrency,
		rateLimitMs:    rateLimitMs,
	}
}

// Annotate returns the sentiment of text. Empty text is not analysed.
func (a *Annotator) Annotate(ctx context.Context, text string) (models.Sentiment, bool) {
	if strings.TrimSpace(text) == "" {
		metrics.SentimentRequests.WithLabelValues(a.strategy, metrics.OutcomeSkipped).Inc()
		return models.Sentiment{}, false
	}

	s, err := a.analyzer.Analyze(ctx, text)
	if err != nil {
		a.logger.Warn("[sentiment] %s strategy unavailable: %v", a.strategy, err)
		metrics.SentimentRequests.WithLabelValues(a.strategy, metrics.OutcomeUnavailable).Inc()
		return models.Sentiment{}, false
	}

	metrics.SentimentRequests.WithLabelValues(a.strategy, metrics.OutcomeOK).Inc()
	return s, true
}

// AnnotateAll annotates the reviews of every listing. The result is aligned
// with listings by index.
func (a *Annotator) AnnotateAll(ctx context.Context, listings []*models.Listing) []Annotation {
	out := make([]Annotation, len(listings))
	if len(listings) == 0 {
		return out
	}

	pool := utils.NewWorkerPool(a.maxConcurrency, a.rateLimitMs)
	for i, l := range listings {
		i, text := i, l.Reviews
		if strings.TrimSpace(text) == "" {
			continue
		}
		pool.Submit(ctx, func() {
			s, ok := a.Annotate(ctx, text)
			out[i] = Annotation{Sentiment: s, OK: ok}
		})
	}
	pool.Wait()

	return out
}
