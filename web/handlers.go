package web

import (
	"context"
	"embed"
	"html/template"
	"net/http"
	"net/url"

	"github.com/goccy/go-json"

	"pg-recommender/apperr"
	"pg-recommender/geo"
	"pg-recommender/metrics"
	"pg-recommender/models"
	"pg-recommender/services"
)

//go:embed templates/index.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

type handler struct {
	deps Deps
	tmpl *template.Template
}

func newHandler(deps Deps) *handler {
	return &handler{deps: deps, tmpl: pageTemplate}
}

type locationStatus struct {
	Requested bool          `json:"requested"`
	Resolved  bool          `json:"resolved"`
	Place     *models.Place `json:"place,omitempty"`
}

type searchResult struct {
	criteria    models.FilterCriteria
	location    locationStatus
	listings    []*models.Listing
	annotations []services.Annotation
	notices     []notice
}

// search runs one pass of the pipeline: criteria, optional location,
// filter and sort, then sentiment for the matches.
func (h *handler) search(ctx context.Context, q url.Values) searchResult {
	c := ParseCriteria(q, h.deps.Dataset)
	var res searchResult

	if q.Get("locate") == "1" {
		res.location.Requested = true
		if place, ok := h.resolve(ctx, q); ok {
			c.City = place.City
			c.Area = place.Area
			if c.Area == "" {
				c.Area = models.AllAreas
			}
			res.location.Resolved = true
			res.location.Place = &place
		} else {
			c.Area = models.AllAreas
			res.notices = append(res.notices, notice{Kind: string(apperr.KindResolutionUnavailable), Message: msgNotDetected})
		}
	}

	res.criteria = c
	res.listings = h.deps.Engine.FilterAndSort(h.deps.Dataset, c)
	metrics.SearchResults.Observe(float64(len(res.listings)))

	if len(res.listings) == 0 {
		res.notices = append(res.notices, notice{Kind: string(apperr.KindNoResults), Message: msgNoResults})
		return res
	}
	if h.deps.Annotator != nil {
		res.annotations = h.deps.Annotator.AnnotateAll(ctx, res.listings)
	}
	return res
}

func (h *handler) resolve(ctx context.Context, q url.Values) (models.Place, bool) {
	if h.deps.Geocoder == nil {
		return models.Place{}, false
	}
	coords, ok := geo.CoordinatesFromQuery(q)
	if !ok {
		h.deps.Logger.Info("[web] Auto-detect requested without a usable position")
		return models.Place{}, false
	}
	return h.deps.Geocoder.ReverseGeocode(ctx, coords.Latitude, coords.Longitude)
}

func (res searchResult) listingViews() []listingView {
	out := make([]listingView, len(res.listings))
	for i, l := range res.listings {
		var a services.Annotation
		if i < len(res.annotations) {
			a = res.annotations[i]
		}
		out[i] = newListingView(l, a)
	}
	return out
}

func (h *handler) page(w http.ResponseWriter, r *http.Request) {
	res := h.search(r.Context(), r.URL.Query())
	data := h.newPageData(res)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.tmpl.Execute(w, data); err != nil {
		h.deps.Logger.Error("[web] Render page: %v", err)
	}
}

type criteriaView struct {
	City          string   `json:"city"`
	Area          string   `json:"area"`
	Types         []string `json:"types"`
	FoodQualities []string `json:"foodQualities"`
	RoomQualities []string `json:"roomQualities"`
	MinPrice      float64  `json:"minPrice"`
	MaxPrice      float64  `json:"maxPrice"`
	Sort          string   `json:"sort"`
}

func newCriteriaView(c models.FilterCriteria) criteriaView {
	return criteriaView{
		City:          c.City,
		Area:          c.Area,
		Types:         nonNil(c.Types),
		FoodQualities: nonNil(c.FoodQualities),
		RoomQualities: nonNil(c.RoomQualities),
		MinPrice:      c.MinPrice,
		MaxPrice:      c.MaxPrice,
		Sort:          string(c.Sort),
	}
}

type listingsResponse struct {
	Criteria criteriaView   `json:"criteria"`
	Location locationStatus `json:"location"`
	Count    int            `json:"count"`
	Listings []listingView  `json:"listings"`
	Summary  summaryView    `json:"summary"`
	Map      mapView        `json:"map"`
	Notices  []notice       `json:"notices"`
}

func (h *handler) listings(w http.ResponseWriter, r *http.Request) {
	res := h.search(r.Context(), r.URL.Query())

	writeJSON(w, http.StatusOK, listingsResponse{
		Criteria: newCriteriaView(res.criteria),
		Location: res.location,
		Count:    len(res.listings),
		Listings: res.listingViews(),
		Summary:  newSummaryView(services.Summarize(res.listings)),
		Map:      newMapView(res.listings),
		Notices:  nonNilNotices(res.notices),
	})
}

type sortOption struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

type optionsResponse struct {
	Cities        []string     `json:"cities"`
	City          string       `json:"city"`
	Areas         []string     `json:"areas"`
	Types         []string     `json:"types"`
	FoodQualities []string     `json:"foodQualities"`
	RoomQualities []string     `json:"roomQualities"`
	SortModes     []sortOption `json:"sortModes"`
	Defaults      criteriaView `json:"defaults"`
	Geocoding     bool         `json:"geocoding"`
}

func (h *handler) options(w http.ResponseWriter, r *http.Request) {
	d := h.deps.Dataset
	defaults := models.DefaultCriteria(d)
	city := r.URL.Query().Get("city")
	if city == "" {
		city = defaults.City
	}

	writeJSON(w, http.StatusOK, optionsResponse{
		Cities:        nonNil(d.Cities()),
		City:          city,
		Areas:         append([]string{models.AllAreas}, d.Areas(city)...),
		Types:         nonNil(d.Types()),
		FoodQualities: nonNil(d.FoodQualities()),
		RoomQualities: nonNil(d.RoomQualities()),
		SortModes:     sortOptions(),
		Defaults:      newCriteriaView(defaults),
		Geocoding:     h.deps.Geocoder != nil,
	})
}

func (h *handler) locate(w http.ResponseWriter, r *http.Request) {
	if h.deps.Geocoder == nil {
		writeJSON(w, http.StatusServiceUnavailable, notice{
			Kind:    string(apperr.KindConfiguration),
			Message: "reverse geocoding is not configured",
		})
		return
	}

	coords, ok := geo.CoordinatesFromQuery(r.URL.Query())
	if !ok {
		writeJSON(w, http.StatusBadRequest, notice{
			Kind:    string(apperr.KindResolutionUnavailable),
			Message: "lat and lon must be a valid coordinate pair",
		})
		return
	}

	place, ok := h.deps.Geocoder.ReverseGeocode(r.Context(), coords.Latitude, coords.Longitude)
	if !ok {
		writeJSON(w, http.StatusServiceUnavailable, notice{
			Kind:    string(apperr.KindResolutionUnavailable),
			Message: msgNotDetected,
		})
		return
	}
	writeJSON(w, http.StatusOK, place)
}

func (h *handler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"listings": h.deps.Dataset.Len(),
	})
}

func sortOptions() []sortOption {
	out := make([]sortOption, len(models.SortModes))
	for i, m := range models.SortModes {
		out[i] = sortOption{ID: string(m), Label: m.Label()}
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func nonNilNotices(n []notice) []notice {
	if n == nil {
		return []notice{}
	}
	return n
}
