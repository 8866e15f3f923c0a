package services

import (
	"context"
	"math"
	"strings"
	"unicode"

	"pg-recommender/models"
)

// lexicon holds word polarities in [-1, 1], tuned for accommodation reviews.
var lexicon = map[string]float64{
	"good": 0.7, "great": 0.8, "excellent": 1.0, "amazing": 0.6, "awesome": 1.0,
	"nice": 0.6, "clean": 0.37, "spacious": 0.5, "comfortable": 0.4, "friendly": 0.375,
	"helpful": 0.5, "safe": 0.5, "secure": 0.4, "quiet": 0.3, "peaceful": 0.5,
	"affordable": 0.4, "cheap": 0.4, "tasty": 0.5, "delicious": 1.0, "fresh": 0.3,
	"best": 1.0, "better": 0.5, "perfect": 1.0, "wonderful": 1.0, "happy": 0.8,
	"pleasant": 0.73, "convenient": 0.5, "recommended": 0.4, "recommend": 0.4, "love": 0.5,
	"loved": 0.7, "well": 0.2, "fine": 0.4, "decent": 0.17, "cozy": 0.5,
	"hygienic": 0.5, "polite": 0.5, "responsive": 0.3, "homely": 0.5, "beautiful": 0.85,
	"bad": -0.7, "worst": -1.0, "terrible": -1.0, "horrible": -1.0, "awful": -1.0,
	"dirty": -0.6, "unclean": -0.5, "noisy": -0.5, "rude": -0.3, "unsafe": -0.5,
	"expensive": -0.5, "overpriced": -0.6, "poor": -0.4, "small": -0.25, "cramped": -0.5,
	"smelly": -0.5, "stale": -0.5, "tasteless": -0.5, "slow": -0.3, "broken": -0.4,
	"disappointing": -0.6, "disappointed": -0.75, "uncomfortable": -0.5, "unhygienic": -0.6, "leaking": -0.4,
	"worse": -0.4, "hate": -0.8, "avoid": -0.4, "problem": -0.3, "problems": -0.3,
	"issue": -0.2, "issues": -0.2, "crowded": -0.3, "irregular": -0.3, "pathetic": -1.0,
}

// intensifiers scale the polarity of the next sentiment word.
var intensifiers = map[string]float64{
	"very": 1.3, "really": 1.3, "extremely": 1.5, "super": 1.3, "so": 1.2,
	"too": 1.2, "quite": 1.1, "highly": 1.4, "absolutely": 1.5, "totally": 1.3,
	"slightly": 0.7, "somewhat": 0.8, "bit": 0.8,
}

var negations = map[string]bool{
	"not": true, "no": true, "never": true, "none": true, "nothing": true,
	"hardly": true, "barely": true, "without": true, "nor": true, "cannot": true,
}

// negationFactor is applied to a negated sentiment word.
const negationFactor = -0.5

// LexicalAnalyzer scores text with a word lexicon. Polarity is the mean of
// the (modified) polarities of the sentiment words found, in [-1, 1].
type LexicalAnalyzer struct{}

// NewLexicalAnalyzer returns a ready LexicalAnalyzer.
func NewLexicalAnalyzer() *LexicalAnalyzer {
	return &LexicalAnalyzer{}
}

// Analyze labels text POSITIVE when polarity >= 0, NEGATIVE otherwise, with
// confidence |polarity| rounded to 2 decimals.
func (a *LexicalAnalyzer) Analyze(_ context.Context, text string) (models.Sentiment, error) {
	p := a.Polarity(text)
	label := models.SentimentPositive
	if p < 0 {
		label = models.SentimentNegative
	}
	return models.Sentiment{Label: label, Confidence: round2(math.Abs(p))}, nil
}

// Polarity returns the polarity of text; 0 when no sentiment word is found.
func (a *LexicalAnalyzer) Polarity(text string) float64 {
	var sum float64
	var count int

	for _, clause := range splitClauses(text) {
		intensity := 1.0
		negated := false
		for _, w := range clauseWords(clause) {
			if negations[w] || strings.HasSuffix(w, "n't") {
				negated = true
				continue
			}
			if f, ok := intensifiers[w]; ok {
				intensity *= f
				continue
			}
			p, ok := lexicon[w]
			if !ok {
				continue
			}
			p *= intensity
			if negated {
				p *= negationFactor
			}
			sum += clampPolarity(p)
			count++
			intensity, negated = 1.0, false
		}
	}

	if count == 0 {
		return 0
	}
	return clampPolarity(sum / float64(count))
}

func splitClauses(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		switch r {
		case '.', ',', ';', ':', '!', '?', '\n':
			return true
		}
		return false
	})
}

func clauseWords(clause string) []string {
	clause = strings.ReplaceAll(clause, "’", "'")
	return strings.FieldsFunc(clause, func(r rune) bool {
		return !unicode.IsLetter(r) && r != '\''
	})
}

func clampPolarity(p float64) float64 {
	return math.Max(-1, math.Min(1, p))
}
