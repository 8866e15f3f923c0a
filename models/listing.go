package models

import (
	"strings"
)

// RawListing holds one dataset row exactly as read from the source, before
// any parsing or normalisation.
type RawListing struct {
	Row              int
	Name             string
	City             string
	Area             string
	Type             string
	Price            string
	Accommodations   string
	FoodQuality      string
	RoomQuality      string
	NearbyInstitutes string
	NearbyHospitals  string
	NearbyMalls      string
	Amenities        string
	Latitude         string
	Longitude        string
	Reviews          string
	SafetyScore      string
}

// Listing is one cleaned accommodation record (PG, hostel or flat).
//
// City and Area are always non-empty and trimmed. Latitude and Longitude are
// meaningful only when HasCoordinates is set, and then both are valid.
type Listing struct {
	Row              int
	Name             string
	City             string
	Area             string
	Type             string
	Price            float64
	HasPrice         bool
	Accommodations   string
	FoodQuality      string
	RoomQuality      string
	SafetyScore      float64
	HasSafety        bool
	Amenities        string
	Latitude         float64
	Longitude        float64
	HasCoordinates   bool
	Reviews          string
	NearbyInstitutes string
	NearbyHospitals  string
	NearbyMalls      string
}

// AmenityList splits the comma-separated amenities into trimmed entries.
func (l *Listing) AmenityList() []string {
	if strings.TrimSpace(l.Amenities) == "" {
		return nil
	}
	parts := strings.Split(l.Amenities, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Coordinates is a latitude/longitude pair in decimal degrees.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Valid reports whether the pair lies inside the WGS84 ranges.
func (c Coordinates) Valid() bool {
	return c.Latitude >= -90 && c.Latitude <= 90 &&
		c.Longitude >= -180 && c.Longitude <= 180
}

// Place is the result of reverse geocoding a coordinate pair.
type Place struct {
	Area string `json:"area"`
	City string `json:"city"`
}

// Sentiment labels.
const (
	SentimentPositive = "POSITIVE"
	SentimentNegative = "NEGATIVE"
)

// Sentiment is the label and confidence derived from review text.
type Sentiment struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

// Positive reports whether the label is POSITIVE.
func (s Sentiment) Positive() bool {
	return s.Label == SentimentPositive
}

// ResultSummary holds aggregate figures over a filtered result set.
type ResultSummary struct {
	TotalListings  int
	PricedCount    int
	AveragePrice   float64
	MinPrice       float64
	MaxPrice       float64
	Cheapest       *Listing
	Safest         *Listing
	ListingsByType map[string]int
}
