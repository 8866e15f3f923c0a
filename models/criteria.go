package models

import (
	"strings"
)

// AllAreas is the area value that disables the area predicate.
const AllAreas = "All"

// Price slider defaults of the search form.
const (
	DefaultMinPrice = 4000
	DefaultMaxPrice = 15000
)

// SortMode selects the order of a filtered result set.
type SortMode string

const (
	SortPriceAsc   SortMode = "price_asc"
	SortPriceDesc  SortMode = "price_desc"
	SortSafetyDesc SortMode = "safety_desc"
	SortSafetyAsc  SortMode = "safety_asc"
)

// SortModes lists every mode in the order the form offers them.
var SortModes = []SortMode{SortPriceAsc, SortPriceDesc, SortSafetyDesc, SortSafetyAsc}

var sortLabels = map[SortMode]string{
	SortPriceAsc:   "Price: Low to High",
	SortPriceDesc:  "Price: High to Low",
	SortSafetyDesc: "Safety Score: High to Low",
	SortSafetyAsc:  "Safety Score: Low to High",
}

// Label returns the human-readable name of the mode.
func (m SortMode) Label() string {
	if l, ok := sortLabels[m]; ok {
		return l
	}
	return sortLabels[SortPriceAsc]
}

// ParseSortMode accepts a mode identifier or its label. Unknown values fall
// back to price ascending.
func ParseSortMode(value string) SortMode {
	v := strings.TrimSpace(value)
	for _, m := range SortModes {
		if strings.EqualFold(v, string(m)) || strings.EqualFold(v, m.Label()) {
			return m
		}
	}
	return SortPriceAsc
}

// FilterCriteria is the per-request set of predicates and the sort order.
// Empty Types, FoodQualities or RoomQualities mean "unconstrained".
type FilterCriteria struct {
	City          string
	Area          string
	Types         []string
	FoodQualities []string
	RoomQualities []string
	MinPrice      float64
	MaxPrice      float64
	Sort          SortMode
}

// DefaultCriteria mirrors the initial state of the search form: first city,
// every area, every type selected, no quality constraint, default price range.
// Every type selected is expressed as nil Types so listings without a type
// stay in the result.
func DefaultCriteria(d *Dataset) FilterCriteria {
	c := FilterCriteria{
		Area:     AllAreas,
		MinPrice: DefaultMinPrice,
		MaxPrice: DefaultMaxPrice,
		Sort:     SortPriceAsc,
	}
	if d == nil {
		return c
	}
	if cities := d.Cities(); len(cities) > 0 {
		c.City = cities[0]
	}
	return c
}
