package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pg-recommender/config"
	"pg-recommender/models"
)

func TestLexicalAnalyzer(t *testing.T) {
	tests := []struct {
		text       string
		label      string
		confidence float64
	}{
		{"The room was clean and the staff were friendly.", models.SentimentPositive, 0.37},
		{"Very dirty rooms", models.SentimentNegative, 0.78},
		{"Food is not good", models.SentimentNegative, 0.35},
		{"The food isn't tasty", models.SentimentNegative, 0.25},
		{"Walking distance from the station", models.SentimentPositive, 0},
		{"Excellent food. Terrible wifi.", models.SentimentPositive, 0},
	}

	a := NewLexicalAnalyzer()
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, err := a.Analyze(context.Background(), tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.label, got.Label)
			assert.InDelta(t, tt.confidence, got.Confidence, 1e-9)
		})
	}
}

func TestLexicalAnalyzerIsDeterministic(t *testing.T) {
	a := NewLexicalAnalyzer()
	text := "Great location but the bathrooms are smelly and the owner is rude"

	first, err := a.Analyze(context.Background(), text)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := a.Analyze(context.Background(), text)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
	assert.GreaterOrEqual(t, first.Confidence, 0.0)
	assert.LessOrEqual(t, first.Confidence, 1.0)
}

func TestLexicalPolarityIsBounded(t *testing.T) {
	a := NewLexicalAnalyzer()
	assert.Equal(t, 1.0, a.Polarity("absolutely extremely excellent"))
	assert.Equal(t, -1.0, a.Polarity("absolutely extremely terrible"))
}

type fakeAnalyzer struct {
	calls  atomic.Int32
	result models.Sentiment
	err    error
}

func (f *fakeAnalyzer) Analyze(_ context.Context, _ string) (models.Sentiment, error) {
	f.calls.Add(1)
	return f.result, f.err
}

func TestAnnotatorSkipsEmptyText(t *testing.T) {
	fake := &fakeAnalyzer{result: models.Sentiment{Label: models.SentimentPositive, Confidence: 0.9}}
	a := NewAnnotator(fake, StrategyModel, newTestLogger(), 2, 0)

	_, ok := a.Annotate(context.Background(), "   ")
	assert.False(t, ok)
	assert.Zero(t, fake.calls.Load())
}

func TestAnnotatorHidesAnalyzerFailure(t *testing.T) {
	fake := &fakeAnalyzer{err: errors.New("model offline")}
	a := NewAnnotator(fake, StrategyModel, newTestLogger(), 2, 0)

	s, ok := a.Annotate(context.Background(), "nice place")
	assert.False(t, ok)
	assert.Equal(t, models.Sentiment{}, s)
}

func TestAnnotatorWithoutLogger(t *testing.T) {
	fake := &fakeAnalyzer{err: errors.New("model offline")}
	a := NewAnnotator(fake, StrategyModel, nil, 2, 0)

	_, ok := a.Annotate(context.Background(), "nice place")
	assert.False(t, ok)
}

func TestAnnotateAllAlignsWithListings(t *testing.T) {
	listings := []*models.Listing{
		{Name: "A", Reviews: "Excellent and clean"},
		{Name: "B"},
		{Name: "C", Reviews: "Dirty and noisy"},
		{Name: "D", Reviews: "Good food"},
	}
	a := NewAnnotator(NewLexicalAnalyzer(), StrategyLexical, newTestLogger(), 3, 0)

	got := a.AnnotateAll(context.Background(), listings)
	require.Len(t, got, 4)
	assert.True(t, got[0].OK)
	assert.Equal(t, models.SentimentPositive, got[0].Sentiment.Label)
	assert.False(t, got[1].OK)
	assert.True(t, got[2].OK)
	assert.Equal(t, models.SentimentNegative, got[2].Sentiment.Label)
	assert.True(t, got[3].OK)
}

func TestNewSentimentAnalyzer(t *testing.T) {
	lexical, err := NewSentimentAnalyzer(&config.Config{SentimentStrategy: StrategyLexical}, newTestLogger())
	require.NoError(t, err)
	assert.IsType(t, &LexicalAnalyzer{}, lexical)

	model, err := NewSentimentAnalyzer(&config.Config{SentimentStrategy: StrategyModel, SentimentModelURL: "http://localhost:1"}, newTestLogger())
	require.NoError(t, err)
	assert.IsType(t, &lazyModel{}, model)

	_, err = NewSentimentAnalyzer(&config.Config{SentimentStrategy: "vader"}, newTestLogger())
	assert.Error(t, err)
}
