package web

import (
	"net/url"
	"strconv"
	"strings"

	"pg-recommender/models"
)

// ParseCriteria builds filter criteria from the search form. Fields that are
// absent or unparsable keep the form defaults.
func ParseCriteria(q url.Values, d *models.Dataset) models.FilterCriteria {
	c := models.DefaultCriteria(d)

	if city := strings.TrimSpace(q.Get("city")); city != "" {
		c.City = city
	}
	if area := strings.TrimSpace(q.Get("area")); area != "" {
		c.Area = area
	}
	var knownTypes, knownFoods, knownRooms []string
	if d != nil {
		knownTypes, knownFoods, knownRooms = d.Types(), d.FoodQualities(), d.RoomQualities()
	}
	if types := values(q, "type", knownTypes); len(types) > 0 && !coversAll(types, knownTypes) {
		c.Types = types
	}
	c.FoodQualities = values(q, "food", knownFoods)
	c.RoomQualities = values(q, "room", knownRooms)

	if v, ok := parsePrice(q.Get("min_price")); ok {
		c.MinPrice = v
	}
	if v, ok := parsePrice(q.Get("max_price")); ok {
		c.MaxPrice = v
	}
	if sort := q.Get("sort"); sort != "" {
		c.Sort = models.ParseSortMode(sort)
	}
	return c
}

// values returns the non-empty values of key. Comma-separated values are
// accepted so API callers can write type=PG,Flat; a value matching one of
// known is kept whole even when it contains a comma.
func values(q url.Values, key string, known []string) []string {
	whole := make(map[string]bool, len(known))
	for _, k := range known {
		whole[k] = true
	}

	var out []string
	for _, raw := range q[key] {
		if v := strings.TrimSpace(raw); whole[v] {
			out = append(out, v)
			continue
		}
		for _, v := range strings.Split(raw, ",") {
			if v = strings.TrimSpace(v); v != "" {
				out = append(out, v)
			}
		}
	}
	return out
}

// coversAll reports whether selected holds every value of all. A form with
// every type box checked means no type constraint.
func coversAll(selected, all []string) bool {
	if len(all) == 0 {
		return false
	}
	set := make(map[string]bool, len(selected))
	for _, s := range selected {
		set[s] = true
	}
	for _, v := range all {
		if !set[v] {
			return false
		}
	}
	return true
}

func parsePrice(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}
