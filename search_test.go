package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pg-recommender/apperr"
	"pg-recommender/config"
	"pg-recommender/models"
	"pg-recommender/utils"
)

type fixedLocator struct {
	coords models.Coordinates
	ok     bool
}

func (l fixedLocator) Locate(context.Context) (models.Coordinates, bool) { return l.coords, l.ok }

type fixedResolver struct {
	place models.Place
	err   error
	calls int
}

func (r *fixedResolver) Resolve(context.Context, models.Coordinates) (models.Place, error) {
	r.calls++
	return r.place, r.err
}

func testDataset() *models.Dataset {
	return models.NewDataset([]*models.Listing{
		{Name: "Sunrise PG", City: "Mumbai", Area: "Andheri", Type: "PG", Price: 6500, HasPrice: true},
		{Name: "Kothrud Nest", City: "Pune", Area: "Kothrud", Type: "Hostel", Price: 5000, HasPrice: true},
	})
}

func TestSearchFlagsCriteria(t *testing.T) {
	f, err := parseSearchFlags([]string{"-city", "Pune", "-types", "PG, Hostel", "-food", "Good", "-max-price", "9000", "-sort", "safety_desc"}, &bytes.Buffer{})
	require.NoError(t, err)

	c := f.criteria(testDataset())
	assert.Equal(t, "Pune", c.City)
	assert.Equal(t, models.AllAreas, c.Area)
	assert.Equal(t, []string{"PG", "Hostel"}, c.Types)
	assert.Equal(t, []string{"Good"}, c.FoodQualities)
	assert.Nil(t, c.RoomQualities)
	assert.Equal(t, float64(models.DefaultMinPrice), c.MinPrice)
	assert.Equal(t, 9000.0, c.MaxPrice)
	assert.Equal(t, models.SortSafetyDesc, c.Sort)
}

func TestSearchFlagsDefaults(t *testing.T) {
	f, err := parseSearchFlags(nil, &bytes.Buffer{})
	require.NoError(t, err)

	c := f.criteria(testDataset())
	assert.Equal(t, "Mumbai", c.City)
	assert.Nil(t, c.Types)
	assert.False(t, f.locate)
}

func TestApplyLocation(t *testing.T) {
	base := models.FilterCriteria{City: "Pune", Area: "Kothrud"}
	logger := utils.NewLogger()

	t.Run("resolved", func(t *testing.T) {
		r := &fixedResolver{place: models.Place{Area: "Andheri", City: "Mumbai"}}
		c := applyLocation(context.Background(), base, fixedLocator{ok: true}, r, logger)
		assert.Equal(t, "Mumbai", c.City)
		assert.Equal(t, "Andheri", c.Area)
	})

	t.Run("resolved without area", func(t *testing.T) {
		r := &fixedResolver{place: models.Place{City: "Mumbai"}}
		c := applyLocation(context.Background(), base, fixedLocator{ok: true}, r, logger)
		assert.Equal(t, models.AllAreas, c.Area)
	})

	t.Run("no position", func(t *testing.T) {
		r := &fixedResolver{}
		c := applyLocation(context.Background(), base, fixedLocator{ok: false}, r, logger)
		assert.Zero(t, r.calls)
		assert.Equal(t, "Pune", c.City)
		assert.Equal(t, models.AllAreas, c.Area)
	})

	t.Run("geocoding unavailable", func(t *testing.T) {
		r := &fixedResolver{err: apperr.ErrResolutionUnavailable}
		c := applyLocation(context.Background(), base, fixedLocator{ok: true}, r, logger)
		assert.Equal(t, "Pune", c.City)
		assert.Equal(t, models.AllAreas, c.Area)
	})
}

func TestRunSearchLocateRequiresKey(t *testing.T) {
	cfg := &config.Config{DatasetSource: "csv", DatasetPath: "does-not-exist.csv"}

	err := runSearch(context.Background(), cfg, utils.NewLogger(), []string{"-locate"}, &bytes.Buffer{})
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindConfiguration), "the key is checked before the dataset is read")
}

func TestRunSearchPrintsResults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "listings.csv")
	csv := "Name,City,Area,Type,Price,Reviews,Safety Score\n" +
		"Sunrise PG,Mumbai,Andheri,PG,6500,Clean and safe,4.2\n" +
		"Kothrud Nest,Pune,Kothrud,Hostel,5000,,\n"
	require.NoError(t, os.WriteFile(path, []byte(csv), 0o600))

	cfg := &config.Config{DatasetSource: "csv", DatasetPath: path, SentimentStrategy: "lexical", MaxConcurrency: 2}
	var out bytes.Buffer

	require.NoError(t, runSearch(context.Background(), cfg, utils.NewLogger(), []string{"-city", "Mumbai"}, &out))
	assert.Contains(t, out.String(), "Sunrise PG")
	assert.NotContains(t, out.String(), "Kothrud Nest")

	out.Reset()
	require.NoError(t, runSearch(context.Background(), cfg, utils.NewLogger(), []string{"-city", "Chennai"}, &out))
	assert.Contains(t, out.String(), "No PGs or Flats found for the selected filters.")
}
