package services

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"pg-recommender/models"
	"pg-recommender/utils"
)

var (
	// currency prefix and per-month suffix allowed around a price
	pricePrefix = regexp.MustCompile(`(?i)^(?:₹|rs\.?|inr)\s*`)
	priceSuffix = regexp.MustCompile(`(?i)\s*(?:/-|/?\s*(?:per\s+|a\s+)?(?:month|mo|pm))$`)
)

// Cleaner transforms RawListings into normalised Listings.
type Cleaner struct {
	logger *utils.Logger
}

// NewCleaner creates a Cleaner with the given logger.
func NewCleaner(logger *utils.Logger) *Cleaner {
	return &Cleaner{logger: logger}
}

// Clean processes raw rows and returns listings in the same order. Rows
// without a city or an area are dropped.
func (c *Cleaner) Clean(raw []*models.RawListing) []*models.Listing {
	result := make([]*models.Listing, 0, len(raw))

	for _, r := range raw {
		city := normaliseText(r.City)
		area := normaliseText(r.Area)
		if city == "" || area == "" {
			c.logger.Warn("[cleaner] Dropping row %d (%q): city and area are required", r.Row, r.Name)
			continue
		}

		listing := &models.Listing{
			Row:              r.Row,
			Name:             normaliseText(r.Name),
			City:             city,
			Area:             area,
			Type:             normaliseText(r.Type),
			Accommodations:   normaliseText(r.Accommodations),
			FoodQuality:      normaliseText(r.FoodQuality),
			RoomQuality:      normaliseText(r.RoomQuality),
			Amenities:        normaliseText(r.Amenities),
			Reviews:          strings.TrimSpace(r.Reviews),
			NearbyInstitutes: normaliseText(r.NearbyInstitutes),
			NearbyHospitals:  normaliseText(r.NearbyHospitals),
			NearbyMalls:      normaliseText(r.NearbyMalls),
		}

		listing.Price, listing.HasPrice = parsePrice(r.Price)
		if !listing.HasPrice {
			c.logger.Debug("[cleaner] Row %d (%q): non-numeric price %q", r.Row, listing.Name, r.Price)
		}

		listing.SafetyScore, listing.HasSafety = parseNumber(r.SafetyScore)

		lat, latOK := parseNumber(r.Latitude)
		lon, lonOK := parseNumber(r.Longitude)
		coords := models.Coordinates{Latitude: lat, Longitude: lon}
		if latOK && lonOK && coords.Valid() {
			listing.Latitude, listing.Longitude = lat, lon
			listing.HasCoordinates = true
		}

		result = append(result, listing)
	}

	c.logger.Info("[cleaner] Cleaned %d → %d listings (dropped %d)",
		len(raw), len(result), len(raw)-len(result))
	return result
}

// parsePrice reads a price such as "₹6,500" or "6500 /month". Only the
// currency prefix, thousands separators and a per-month suffix are removed;
// whatever remains must be a number.
func parsePrice(raw string) (float64, bool) {
	s := pricePrefix.ReplaceAllString(strings.TrimSpace(raw), "")
	s = priceSuffix.ReplaceAllString(s, "")
	return parseNumber(strings.ReplaceAll(s, ",", ""))
}

// parseNumber parses a finite float; "nan" and "inf" are rejected.
func parseNumber(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// normaliseText strips leading/trailing whitespace and collapses internal whitespace.
func normaliseText(s string) string {
	s = strings.TrimSpace(s)
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return unicode.IsSpace(r)
	})
	return strings.Join(fields, " ")
}
