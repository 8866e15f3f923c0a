package web

import (
	"fmt"
	"strconv"
	"strings"

	"pg-recommender/models"
	"pg-recommender/services"
	"pg-recommender/utils"
)

const (
	msgNoResults   = "😕 No PGs or Flats found for the selected filters."
	msgNotDetected = "📡 Location not detected. Please use manual filters."
	msgNoMap       = "No valid locations available to show on map."
)

// Map defaults when no listing has coordinates (Mumbai).
var defaultCenter = [2]float64{19.0760, 72.8777}

const (
	defaultZoom = 12
	resultsZoom = 13
)

var amenityIcons = map[string]string{
	"WiFi": "🛜", "AC": "❄️", "Laundry": "🧺", "Gym": "🏋️‍♂️", "Security": "🛡️",
	"Power Backup": "🔌", "Parking": "🚗", "Housekeeping": "🧹", "Lift": "🛗",
	"Water Purifier": "🚰", "CCTV": "📹", "Study Table": "📚", "Fridge": "🧊",
	"Geyser": "♨️", "TV": "📺", "Balcony": "🌇", "Mattress": "🛏️", "24x7 Water": "💧",
}

type amenityView struct {
	Name string `json:"name"`
	Icon string `json:"icon,omitempty"`
}

type sentimentView struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
	Display    string  `json:"-"`
	Positive   bool    `json:"positive"`
}

type listingView struct {
	Row              int                 `json:"row"`
	Name             string              `json:"name"`
	Type             string              `json:"type"`
	City             string              `json:"city"`
	Area             string              `json:"area"`
	Price            *float64            `json:"price"`
	PriceDisplay     string              `json:"-"`
	Accommodations   string              `json:"accommodations"`
	FoodQuality      string              `json:"foodQuality"`
	RoomQuality      string              `json:"roomQuality"`
	NearbyInstitutes string              `json:"nearbyInstitutes"`
	NearbyHospitals  string              `json:"nearbyHospitals"`
	NearbyMalls      string              `json:"nearbyMalls"`
	Amenities        []amenityView       `json:"amenities"`
	SafetyScore      *float64            `json:"safetyScore"`
	SafetyDisplay    string              `json:"-"`
	Score            *float64            `json:"score"`
	ScoreDisplay     string              `json:"-"`
	Sentiment        *sentimentView      `json:"sentiment"`
	Coordinates      *models.Coordinates `json:"coordinates"`
}

type markerView struct {
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	Popup   string  `json:"popup"`
	Tooltip string  `json:"tooltip"`
}

type mapView struct {
	Center  [2]float64   `json:"center"`
	Zoom    int          `json:"zoom"`
	Markers []markerView `json:"markers"`
}

type summaryView struct {
	Total        int            `json:"total"`
	AveragePrice float64        `json:"averagePrice"`
	MinPrice     float64        `json:"minPrice"`
	MaxPrice     float64        `json:"maxPrice"`
	ByType       map[string]int `json:"byType"`
}

// notice is an informational message, tagged with the error kind it stands for.
type notice struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

func newListingView(l *models.Listing, a services.Annotation) listingView {
	v := listingView{
		Row:              l.Row,
		Name:             l.Name,
		Type:             l.Type,
		City:             l.City,
		Area:             l.Area,
		PriceDisplay:     services.FormatPrice(l),
		Accommodations:   l.Accommodations,
		FoodQuality:      l.FoodQuality,
		RoomQuality:      l.RoomQuality,
		NearbyInstitutes: l.NearbyInstitutes,
		NearbyHospitals:  l.NearbyHospitals,
		NearbyMalls:      l.NearbyMalls,
		Amenities:        amenityViews(l.AmenityList()),
	}
	if l.HasPrice {
		price := l.Price
		v.Price = &price
	}
	if l.HasSafety {
		safety := l.SafetyScore
		v.SafetyScore = &safety
		v.SafetyDisplay = formatNumber(safety)
	}
	if score, ok := services.ListingScore(l); ok {
		v.Score = &score
		v.ScoreDisplay = fmt.Sprintf("%.2f", score)
	}
	if l.HasCoordinates {
		v.Coordinates = &models.Coordinates{Latitude: l.Latitude, Longitude: l.Longitude}
	}
	if a.OK {
		v.Sentiment = &sentimentView{
			Label:      a.Sentiment.Label,
			Confidence: a.Sentiment.Confidence,
			Display:    fmt.Sprintf("%s (%s)", utils.TitleCase(a.Sentiment.Label), formatNumber(a.Sentiment.Confidence)),
			Positive:   a.Sentiment.Positive(),
		}
	}
	return v
}

func amenityViews(names []string) []amenityView {
	out := make([]amenityView, 0, len(names))
	for _, n := range names {
		out = append(out, amenityView{Name: n, Icon: amenityIcons[n]})
	}
	return out
}

// newMapView places one marker per listing with coordinates and centres on
// their mean. Without markers it falls back to the default centre.
func newMapView(listings []*models.Listing) mapView {
	m := mapView{Center: defaultCenter, Zoom: defaultZoom, Markers: []markerView{}}

	var sumLat, sumLon float64
	for _, l := range listings {
		if !l.HasCoordinates {
			continue
		}
		m.Markers = append(m.Markers, markerView{
			Lat:     l.Latitude,
			Lon:     l.Longitude,
			Popup:   fmt.Sprintf("%s (%s) - ₹%s", l.Name, l.Type, services.FormatPrice(l)),
			Tooltip: fmt.Sprintf("%s, %s", l.Area, l.City),
		})
		sumLat += l.Latitude
		sumLon += l.Longitude
	}

	if n := float64(len(m.Markers)); n > 0 {
		m.Center = [2]float64{sumLat / n, sumLon / n}
		m.Zoom = resultsZoom
	}
	return m
}

func newSummaryView(r models.ResultSummary) summaryView {
	return summaryView{
		Total:        r.TotalListings,
		AveragePrice: r.AveragePrice,
		MinPrice:     r.MinPrice,
		MaxPrice:     r.MaxPrice,
		ByType:       r.ListingsByType,
	}
}

// formatNumber prints a float without trailing zeros: 0.5, 4.25, 7.
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func resultsTitle(c models.FilterCriteria) string {
	title := c.City
	if area := strings.TrimSpace(c.Area); area != "" && area != models.AllAreas {
		title += " - " + area
	}
	return title
}
