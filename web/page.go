package web

import (
	"fmt"

	"pg-recommender/models"
	"pg-recommender/services"
)

type optionView struct {
	Value    string
	Label    string
	Selected bool
}

type pageData struct {
	Cities    []optionView
	Areas     []optionView
	Types     []optionView
	Foods     []optionView
	Rooms     []optionView
	SortModes []optionView
	MinPrice  string
	MaxPrice  string

	GeocodingEnabled bool
	LocateChecked    bool
	LocationMessage  string

	Notices      []notice
	ResultsTitle string
	Listings     []listingView
	Summary      summaryView
	Map          mapView
	MapNotice    string
}

func (h *handler) newPageData(res searchResult) pageData {
	d := h.deps.Dataset
	c := res.criteria

	data := pageData{
		Cities:           options(d.Cities(), []string{c.City}),
		Areas:            options(append([]string{models.AllAreas}, d.Areas(c.City)...), []string{c.Area}),
		Types:            typeOptions(d.Types(), c.Types),
		Foods:            options(d.FoodQualities(), c.FoodQualities),
		Rooms:            options(d.RoomQualities(), c.RoomQualities),
		MinPrice:         formatNumber(c.MinPrice),
		MaxPrice:         formatNumber(c.MaxPrice),
		GeocodingEnabled: h.deps.Geocoder != nil,
		LocateChecked:    res.location.Requested,
		Notices:          res.notices,
		ResultsTitle:     resultsTitle(c),
		Listings:         res.listingViews(),
		Summary:          newSummaryView(services.Summarize(res.listings)),
		Map:              newMapView(res.listings),
	}

	for _, m := range models.SortModes {
		data.SortModes = append(data.SortModes, optionView{Value: string(m), Label: m.Label(), Selected: m == c.Sort})
	}
	if p := res.location.Place; res.location.Resolved && p != nil {
		data.LocationMessage = fmt.Sprintf("🎯 You are near %s, %s", p.Area, p.City)
	}
	if len(data.Map.Markers) == 0 {
		data.MapNotice = msgNoMap
	}
	return data
}

// typeOptions checks every box when no type constraint is set.
func typeOptions(values, selected []string) []optionView {
	if len(selected) == 0 {
		selected = values
	}
	return options(values, selected)
}

// options marks every value present in selected. A selected value missing
// from values (a geocoded city outside the dataset) is kept as an option.
func options(values, selected []string) []optionView {
	want := make(map[string]bool, len(selected))
	for _, s := range selected {
		want[s] = true
	}

	out := make([]optionView, 0, len(values)+1)
	seen := make(map[string]bool, len(values))
	for _, v := range values {
		seen[v] = true
		out = append(out, optionView{Value: v, Label: v, Selected: want[v]})
	}
	if len(selected) == 1 && selected[0] != "" && !seen[selected[0]] {
		out = append(out, optionView{Value: selected[0], Label: selected[0], Selected: true})
	}
	return out
}
