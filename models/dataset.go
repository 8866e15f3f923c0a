package models

import (
	"sort"

	"pg-recommender/utils"
)

// Dataset is the in-memory listing table. It is built once and never
// modified, so it can be shared between concurrent requests.
type Dataset struct {
	listings []*Listing
}

// NewDataset wraps listings. The slice is copied; callers must not modify the
// listings afterwards.
func NewDataset(listings []*Listing) *Dataset {
	cp := make([]*Listing, len(listings))
	copy(cp, listings)
	return &Dataset{listings: cp}
}

// Len returns the number of listings.
func (d *Dataset) Len() int {
	return len(d.listings)
}

// Each calls fn for every listing in dataset order.
func (d *Dataset) Each(fn func(l *Listing)) {
	for _, l := range d.listings {
		fn(l)
	}
}

// Listings returns a copy of the listing slice in dataset order.
func (d *Dataset) Listings() []*Listing {
	cp := make([]*Listing, len(d.listings))
	copy(cp, d.listings)
	return cp
}

// Cities returns the sorted distinct cities.
func (d *Dataset) Cities() []string {
	out := d.distinct(func(l *Listing) string { return l.City }, nil)
	sort.Strings(out)
	return out
}

// Areas returns the sorted distinct areas of a city.
func (d *Dataset) Areas(city string) []string {
	out := d.distinct(func(l *Listing) string { return l.Area }, func(l *Listing) bool { return l.City == city })
	sort.Strings(out)
	return out
}

// Types returns the distinct accommodation types in first-seen order.
func (d *Dataset) Types() []string {
	return d.distinct(func(l *Listing) string { return l.Type }, nil)
}

// FoodQualities returns the distinct food-quality values in first-seen order.
func (d *Dataset) FoodQualities() []string {
	return d.distinct(func(l *Listing) string { return l.FoodQuality }, nil)
}

// RoomQualities returns the distinct room-quality values in first-seen order.
func (d *Dataset) RoomQualities() []string {
	return d.distinct(func(l *Listing) string { return l.RoomQuality }, nil)
}

func (d *Dataset) distinct(field func(*Listing) string, keep func(*Listing) bool) []string {
	seen := utils.NewStringSet()
	out := make([]string, 0)
	for _, l := range d.listings {
		if keep != nil && !keep(l) {
			continue
		}
		if v := field(l); v != "" && seen.Add(v) {
			out = append(out, v)
		}
	}
	return out
}
