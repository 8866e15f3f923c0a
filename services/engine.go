package services

import (
	"sort"
	"strings"

	"pg-recommender/models"
	"pg-recommender/utils"
)

// Engine filters and orders listings for a FilterCriteria.
type Engine struct {
	logger *utils.Logger
}

// NewEngine creates an Engine with the given logger.
func NewEngine(logger *utils.Logger) *Engine {
	return &Engine{logger: logger}
}

// FilterAndSort returns the listings of d that satisfy every predicate of c,
// ordered by c.Sort. Predicates combine with AND; values inside a multi-select
// combine with OR, and an empty multi-select does not constrain. The result is
// a new slice, possibly empty; d is never modified.
func (e *Engine) FilterAndSort(d *models.Dataset, c models.FilterCriteria) []*models.Listing {
	city := strings.TrimSpace(c.City)
	area := strings.TrimSpace(c.Area)
	types := toSet(c.Types)
	foods := toSet(c.FoodQualities)
	rooms := toSet(c.RoomQualities)

	result := make([]*models.Listing, 0)
	d.Each(func(l *models.Listing) {
		if l.City != city {
			return
		}
		if area != "" && area != models.AllAreas && l.Area != area {
			return
		}
		if !matches(types, l.Type) || !matches(foods, l.FoodQuality) || !matches(rooms, l.RoomQuality) {
			return
		}
		if !l.HasPrice || l.Price < c.MinPrice || l.Price > c.MaxPrice {
			return
		}
		result = append(result, l)
	})

	sortListings(result, c.Sort)

	e.logger.Debug("[engine] city=%q area=%q sort=%s → %d of %d listings",
		city, area, c.Sort, len(result), d.Len())
	return result
}

// sortListings orders listings in place with a stable sort. Listings without a
// safety score go last in both safety orders.
func sortListings(listings []*models.Listing, mode models.SortMode) {
	var less func(a, b *models.Listing) bool

	switch mode {
	case models.SortPriceDesc:
		less = func(a, b *models.Listing) bool { return a.Price > b.Price }
	case models.SortSafetyDesc:
		less = func(a, b *models.Listing) bool {
			if a.HasSafety != b.HasSafety {
				return a.HasSafety
			}
			return a.SafetyScore > b.SafetyScore
		}
	case models.SortSafetyAsc:
		less = func(a, b *models.Listing) bool {
			if a.HasSafety != b.HasSafety {
				return a.HasSafety
			}
			return a.SafetyScore < b.SafetyScore
		}
	default:
		less = func(a, b *models.Listing) bool { return a.Price < b.Price }
	}

	sort.SliceStable(listings, func(i, j int) bool {
		return less(listings[i], listings[j])
	})
}

func toSet(values []string) map[string]struct{} {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[strings.TrimSpace(v)] = struct{}{}
	}
	return set
}

// matches treats a nil set as "no constraint".
func matches(set map[string]struct{}, value string) bool {
	if set == nil {
		return true
	}
	_, ok := set[value]
	return ok
}
