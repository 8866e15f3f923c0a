package geo

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	"pg-recommender/models"
)

// CoordinatesFromQuery reads the lat/lon pair the web page posts after asking
// the user's browser for its position. A missing, partial or out-of-range
// pair is reported as ok=false.
func CoordinatesFromQuery(q url.Values) (models.Coordinates, bool) {
	lat, latOK := parseCoordinate(q.Get("lat"))
	lon, lonOK := parseCoordinate(q.Get("lon"))
	if !latOK || !lonOK {
		return models.Coordinates{}, false
	}
	c := models.Coordinates{Latitude: lat, Longitude: lon}
	if !c.Valid() {
		return models.Coordinates{}, false
	}
	return c, true
}

func parseCoordinate(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}
