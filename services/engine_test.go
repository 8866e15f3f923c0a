package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pg-recommender/models"
	"pg-recommender/utils"
)

func listing(row int, name, city, area, typ string, price float64, food, room string, safety float64) *models.Listing {
	return &models.Listing{
		Row: row, Name: name, City: city, Area: area, Type: typ,
		Price: price, HasPrice: true,
		FoodQuality: food, RoomQuality: room,
		SafetyScore: safety, HasSafety: true,
	}
}

func sampleDataset() *models.Dataset {
	return models.NewDataset([]*models.Listing{
		listing(1, "Sunrise PG", "Mumbai", "Andheri", "PG", 6500, "Good", "Good", 4.2),
		listing(2, "Sea Breeze Flat", "Mumbai", "Bandra", "Flat", 14000, "Excellent", "Excellent", 4.8),
		listing(3, "Campus Hostel", "Mumbai", "Powai", "Hostel", 4500, "Average", "Average", 3.5),
		listing(4, "Budget PG", "Mumbai", "Andheri", "PG", 4500, "Average", "Good", 3.9),
		listing(5, "Kothrud Nest", "Pune", "Kothrud", "PG", 5000, "Good", "Average", 4.0),
		listing(6, "Studio 9", "Mumbai", "Andheri", "Flat", 9000, "Good", "Excellent", 4.2),
	})
}

func names(listings []*models.Listing) []string {
	out := make([]string, len(listings))
	for i, l := range listings {
		out[i] = l.Name
	}
	return out
}

func baseCriteria() models.FilterCriteria {
	return models.FilterCriteria{
		City:     "Mumbai",
		Area:     models.AllAreas,
		MinPrice: 3000,
		MaxPrice: 30000,
		Sort:     models.SortPriceAsc,
	}
}

func newEngine() *Engine {
	return NewEngine(utils.NewLogger())
}

func TestFilterByCity(t *testing.T) {
	got := newEngine().FilterAndSort(sampleDataset(), baseCriteria())

	assert.Len(t, got, 5)
	for _, l := range got {
		assert.Equal(t, "Mumbai", l.City)
	}
}

func TestFilterByArea(t *testing.T) {
	c := baseCriteria()
	c.Area = "Andheri"

	got := newEngine().FilterAndSort(sampleDataset(), c)
	assert.Equal(t, []string{"Budget PG", "Sunrise PG", "Studio 9"}, names(got))
}

func TestFilterUnknownCityReturnsEmpty(t *testing.T) {
	c := baseCriteria()
	c.City = "Chennai"

	got := newEngine().FilterAndSort(sampleDataset(), c)
	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestFilterMultiSelectMembership(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(*models.FilterCriteria)
		field func(*models.Listing) string
		allow []string
	}{
		{"types", func(c *models.FilterCriteria) { c.Types = []string{"PG", "Hostel"} }, func(l *models.Listing) string { return l.Type }, []string{"PG", "Hostel"}},
		{"food", func(c *models.FilterCriteria) { c.FoodQualities = []string{"Good"} }, func(l *models.Listing) string { return l.FoodQuality }, []string{"Good"}},
		{"room", func(c *models.FilterCriteria) { c.RoomQualities = []string{"Excellent", "Average"} }, func(l *models.Listing) string { return l.RoomQuality }, []string{"Excellent", "Average"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := baseCriteria()
			tt.edit(&c)

			got := newEngine().FilterAndSort(sampleDataset(), c)
			require.NotEmpty(t, got)
			for _, l := range got {
				assert.Contains(t, tt.allow, tt.field(l))
			}
		})
	}
}

func TestFilterEmptySelectionIsUnconstrained(t *testing.T) {
	c := baseCriteria()
	c.Types = []string{}
	c.FoodQualities = nil
	c.RoomQualities = []string{}

	got := newEngine().FilterAndSort(sampleDataset(), c)
	assert.Len(t, got, 5)
}

func TestFilterPriceRangeInclusive(t *testing.T) {
	c := baseCriteria()
	c.MinPrice = 4500
	c.MaxPrice = 6500

	got := newEngine().FilterAndSort(sampleDataset(), c)
	assert.Equal(t, []string{"Campus Hostel", "Budget PG", "Sunrise PG"}, names(got))
}

func TestFilterInvertedPriceRangeReturnsEmpty(t *testing.T) {
	for _, r := range [][2]float64{{15000, 4000}, {6501, 6500}, {30000, 0}} {
		c := baseCriteria()
		c.MinPrice, c.MaxPrice = r[0], r[1]

		got := newEngine().FilterAndSort(sampleDataset(), c)
		assert.Empty(t, got, "min=%v max=%v", r[0], r[1])
	}
}

func TestFilterExcludesMissingPrice(t *testing.T) {
	d := models.NewDataset([]*models.Listing{
		{Name: "No Price", City: "Mumbai", Area: "Andheri", Type: "PG"},
		listing(2, "Priced", "Mumbai", "Andheri", "PG", 5000, "Good", "Good", 4),
	})

	got := newEngine().FilterAndSort(d, baseCriteria())
	assert.Equal(t, []string{"Priced"}, names(got))
}

func TestSortPriceReversesWithoutTies(t *testing.T) {
	c := baseCriteria()
	c.Types = []string{"Flat", "Hostel"}

	asc := newEngine().FilterAndSort(sampleDataset(), c)
	c.Sort = models.SortPriceDesc
	desc := newEngine().FilterAndSort(sampleDataset(), c)

	require.Len(t, asc, 3)
	require.Len(t, desc, len(asc))
	for i := range asc {
		assert.Same(t, asc[i], desc[len(desc)-1-i])
	}
}

func TestSortIsStableForTies(t *testing.T) {
	c := baseCriteria()

	asc := names(newEngine().FilterAndSort(sampleDataset(), c))
	// Campus Hostel and Budget PG tie at 4500; dataset order is kept.
	assert.Equal(t, []string{"Campus Hostel", "Budget PG", "Sunrise PG", "Studio 9", "Sea Breeze Flat"}, asc)

	c.Sort = models.SortPriceDesc
	desc := names(newEngine().FilterAndSort(sampleDataset(), c))
	assert.Equal(t, []string{"Sea Breeze Flat", "Studio 9", "Sunrise PG", "Campus Hostel", "Budget PG"}, desc)
}

func TestSortBySafety(t *testing.T) {
	d := models.NewDataset([]*models.Listing{
		listing(1, "A", "Mumbai", "Andheri", "PG", 5000, "", "", 4.2),
		{Row: 2, Name: "Unscored", City: "Mumbai", Area: "Andheri", Type: "PG", Price: 5000, HasPrice: true},
		listing(3, "B", "Mumbai", "Andheri", "PG", 5000, "", "", 3.1),
		listing(4, "C", "Mumbai", "Andheri", "PG", 5000, "", "", 4.2),
	})

	c := baseCriteria()
	c.Sort = models.SortSafetyDesc
	assert.Equal(t, []string{"A", "C", "B", "Unscored"}, names(newEngine().FilterAndSort(d, c)))

	c.Sort = models.SortSafetyAsc
	assert.Equal(t, []string{"B", "A", "C", "Unscored"}, names(newEngine().FilterAndSort(d, c)))
}

func TestFilterDoesNotMutateDataset(t *testing.T) {
	d := sampleDataset()
	before := names(d.Listings())

	c := baseCriteria()
	c.Sort = models.SortPriceDesc
	_ = newEngine().FilterAndSort(d, c)

	assert.Equal(t, before, names(d.Listings()))
}

func TestParseSortMode(t *testing.T) {
	assert.Equal(t, models.SortPriceDesc, models.ParseSortMode("Price: High to Low"))
	assert.Equal(t, models.SortSafetyAsc, models.ParseSortMode("safety_asc"))
	assert.Equal(t, models.SortPriceAsc, models.ParseSortMode("rating"))
}
