package services

import (
	"math"
	"strings"

	"pg-recommender/models"
)

// qualityPoints maps categorical food and room quality to a 0–10 sub-score.
var qualityPoints = map[string]float64{
	"excellent":     10,
	"very good":     9,
	"good":          8,
	"average":       6,
	"below average": 4,
	"poor":          3,
}

const unknownQualityPoints = 5

// CalculatePGScore combines food, room and safety sub-scores (0–10) with a
// rent bucket into a composite score in [0, 10], rounded to 2 decimals.
// Rent up to 5000 scores 10, up to 8000 scores 8, anything above scores 5.
// Sub-scores outside [0, 10] are clamped.
func CalculatePGScore(food, room, safety, rent float64) float64 {
	rentScore := 5.0
	switch {
	case rent <= 5000:
		rentScore = 10
	case rent <= 8000:
		rentScore = 8
	}
	mean := (clampScore(food) + clampScore(room) + clampScore(safety) + rentScore) / 4
	return round2(mean)
}

// ListingScore is the composite score of a listing. Safety (0–5) is scaled to
// 0–10 and a missing safety score counts as the midpoint. ok is false when the
// listing has no price.
func ListingScore(l *models.Listing) (float64, bool) {
	if !l.HasPrice {
		return 0, false
	}
	safety := unknownQualityPoints * 1.0
	if l.HasSafety {
		safety = l.SafetyScore * 2
	}
	return CalculatePGScore(QualityPoints(l.FoodQuality), QualityPoints(l.RoomQuality), safety, l.Price), true
}

// QualityPoints returns the sub-score of a categorical quality value.
func QualityPoints(quality string) float64 {
	if p, ok := qualityPoints[strings.ToLower(strings.TrimSpace(quality))]; ok {
		return p
	}
	return unknownQualityPoints
}

func clampScore(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 10 {
		return 10
	}
	return v
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
