// Package geo resolves the user's position: device coordinates from a
// browser, and reverse geocoding of those coordinates into an area and city.
package geo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"

	"pg-recommender/apperr"
	"pg-recommender/config"
	"pg-recommender/metrics"
	"pg-recommender/models"
	"pg-recommender/utils"
)

var (
	areaComponents = []string{"suburb", "neighbourhood", "village"}
	cityComponents = []string{"city", "town", "state_district"}
)

// Geocoder turns a coordinate pair into a place. ok is false when the place
// cannot be resolved; callers fall back to manual selection.
type Geocoder interface {
	ReverseGeocode(ctx context.Context, lat, lon float64) (place models.Place, ok bool)
}

// OpenCageGeocoder reverse geocodes through the OpenCage API.
type OpenCageGeocoder struct {
	endpoint string
	apiKey   string
	timeout  time.Duration
	http     *http.Client
	breaker  *gobreaker.CircuitBreaker[models.Place]
	retry    *utils.RetryConfig
	logger   *utils.Logger
}

type openCageResponse struct {
	Results []struct {
		Components map[string]any `json:"components"`
	} `json:"results"`
}

// NewOpenCageGeocoder returns a CONFIGURATION error when no API key is set.
func NewOpenCageGeocoder(cfg *config.Config, logger *utils.Logger) (*OpenCageGeocoder, error) {
	if err := cfg.RequireGeocoding(); err != nil {
		return nil, err
	}

	g := &OpenCageGeocoder{
		endpoint: cfg.GeocodeURL,
		apiKey:   cfg.OpenCageAPIKey,
		timeout:  cfg.GeocodeTimeout(),
		http:     &http.Client{},
		retry: &utils.RetryConfig{
			MaxAttempts: 1 + cfg.GeocodeMaxRetries,
			BaseDelay:   500 * time.Millisecond,
			Logger:      logger,
		},
		logger: logger,
	}
	g.breaker = gobreaker.NewCircuitBreaker[models.Place](gobreaker.Settings{
		Name:    "opencage",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: func(err error) bool {
			// Unresolvable coordinates are an answer, not an outage.
			return err == nil || errors.Is(err, errNoPlace)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("[geo] Circuit %s: %s -> %s", name, from, to)
		},
	})
	return g, nil
}

var errNoPlace = errors.New("no place for coordinates")

// ReverseGeocode resolves lat/lon to a title-cased area and city. It never
// returns an error: every failure is logged and reported as ok=false.
func (g *OpenCageGeocoder) ReverseGeocode(ctx context.Context, lat, lon float64) (models.Place, bool) {
	if !(models.Coordinates{Latitude: lat, Longitude: lon}).Valid() {
		metrics.GeocodeRequests.WithLabelValues(metrics.OutcomeSkipped).Inc()
		return models.Place{}, false
	}

	place, err := g.breaker.Execute(func() (models.Place, error) {
		var p models.Place
		err := g.retry.Do(ctx, "reverse-geocode", func(ctx context.Context) error {
			var err error
			p, err = g.lookup(ctx, lat, lon)
			return err
		})
		return p, err
	})
	if err != nil {
		g.logger.Warn("[geo] Reverse geocoding (%.4f, %.4f) unavailable: %v", lat, lon, err)
		metrics.GeocodeRequests.WithLabelValues(metrics.OutcomeUnavailable).Inc()
		return models.Place{}, false
	}

	g.logger.Info("[geo] Resolved (%.4f, %.4f) to %s, %s", lat, lon, place.Area, place.City)
	metrics.GeocodeRequests.WithLabelValues(metrics.OutcomeOK).Inc()
	return place, true
}

// Resolve is ReverseGeocode reported as an error, for callers that
// propagate RESOLUTION_UNAVAILABLE.
func (g *OpenCageGeocoder) Resolve(ctx context.Context, c models.Coordinates) (models.Place, error) {
	place, ok := g.ReverseGeocode(ctx, c.Latitude, c.Longitude)
	if !ok {
		return models.Place{}, apperr.ErrResolutionUnavailable
	}
	return place, nil
}

func (g *OpenCageGeocoder) lookup(ctx context.Context, lat, lon float64) (models.Place, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	params := url.Values{}
	params.Set("q", strconv.FormatFloat(lat, 'f', -1, 64)+" "+strconv.FormatFloat(lon, 'f', -1, 64))
	params.Set("key", g.apiKey)
	params.Set("no_annotations", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return models.Place{}, utils.Permanent(fmt.Errorf("build request: %w", err))
	}

	resp, err := g.http.Do(req)
	if err != nil {
		return models.Place{}, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return models.Place{}, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		err := fmt.Errorf("status %d", resp.StatusCode)
		if resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
			return models.Place{}, utils.Permanent(err)
		}
		return models.Place{}, err
	}

	var decoded openCageResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return models.Place{}, utils.Permanent(fmt.Errorf("decode response: %w", err))
	}
	place, ok := placeFromResponse(decoded)
	if !ok {
		return models.Place{}, utils.Permanent(errNoPlace)
	}
	return place, nil
}

// placeFromResponse reads the first result. A result without a city cannot
// drive a city filter and counts as unresolved; a missing area is left empty.
func placeFromResponse(r openCageResponse) (models.Place, bool) {
	if len(r.Results) == 0 {
		return models.Place{}, false
	}
	comp := r.Results[0].Components
	place := models.Place{
		Area: utils.TitleCase(strings.TrimSpace(firstComponent(comp, areaComponents))),
		City: utils.TitleCase(strings.TrimSpace(firstComponent(comp, cityComponents))),
	}
	if place.City == "" {
		return models.Place{}, false
	}
	return place, true
}

func firstComponent(comp map[string]any, keys []string) string {
	for _, k := range keys {
		if v, ok := comp[k].(string); ok && strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
