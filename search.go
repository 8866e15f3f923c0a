package main

import (
	"context"
	"flag"
	"io"
	"strings"

	"pg-recommender/apperr"
	"pg-recommender/config"
	"pg-recommender/geo"
	"pg-recommender/models"
	"pg-recommender/services"
	"pg-recommender/utils"
)

type searchFlags struct {
	city     string
	area     string
	types    string
	food     string
	room     string
	minPrice float64
	maxPrice float64
	sort     string
	locate   bool
}

func parseSearchFlags(args []string, out io.Writer) (searchFlags, error) {
	var f searchFlags
	fs := flag.NewFlagSet("search", flag.ContinueOnError)
	fs.SetOutput(out)
	fs.StringVar(&f.city, "city", "", "city to search (default: first city in the dataset)")
	fs.StringVar(&f.area, "area", models.AllAreas, "area within the city")
	fs.StringVar(&f.types, "types", "", "comma-separated accommodation types (default: all)")
	fs.StringVar(&f.food, "food", "", "comma-separated food qualities")
	fs.StringVar(&f.room, "room", "", "comma-separated room qualities")
	fs.Float64Var(&f.minPrice, "min-price", models.DefaultMinPrice, "minimum monthly price")
	fs.Float64Var(&f.maxPrice, "max-price", models.DefaultMaxPrice, "maximum monthly price")
	fs.StringVar(&f.sort, "sort", string(models.SortPriceAsc), "price_asc, price_desc, safety_desc or safety_asc")
	fs.BoolVar(&f.locate, "locate", false, "detect the city and area from the device position")
	err := fs.Parse(args)
	return f, err
}

func (f searchFlags) criteria(d *models.Dataset) models.FilterCriteria {
	c := models.DefaultCriteria(d)
	if city := strings.TrimSpace(f.city); city != "" {
		c.City = city
	}
	c.Area = strings.TrimSpace(f.area)
	if types := splitList(f.types); len(types) > 0 {
		c.Types = types
	}
	c.FoodQualities = splitList(f.food)
	c.RoomQualities = splitList(f.room)
	c.MinPrice = f.minPrice
	c.MaxPrice = f.maxPrice
	c.Sort = models.ParseSortMode(f.sort)
	return c
}

func runSearch(ctx context.Context, cfg *config.Config, logger *utils.Logger, args []string, out io.Writer) error {
	f, err := parseSearchFlags(args, out)
	if err != nil {
		return err
	}

	// Geocoding needs its key: fail before any work is done.
	var geocoder *geo.OpenCageGeocoder
	if f.locate {
		if geocoder, err = geo.NewOpenCageGeocoder(cfg, logger); err != nil {
			return err
		}
	}

	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		return err
	}

	c := f.criteria(a.dataset)
	if f.locate {
		locator := geo.NewBrowserLocator(cfg.ChromeBin, cfg.LocateTimeout(), logger)
		c = applyLocation(ctx, c, locator, geocoder, logger)
	}

	listings := a.engine.FilterAndSort(a.dataset, c)
	annotations := a.annotator.AnnotateAll(ctx, listings)
	services.NewResultPrinter(out).Print(c, listings, annotations)

	if len(listings) == 0 {
		logger.Info("[main] %v", apperr.ErrNoResults)
	}
	return nil
}

type placeResolver interface {
	Resolve(ctx context.Context, c models.Coordinates) (models.Place, error)
}

// applyLocation replaces city and area with the detected place. When the
// position or the place is unavailable the manual city is kept with every
// area.
func applyLocation(ctx context.Context, c models.FilterCriteria, locator geo.Locator, resolver placeResolver, logger *utils.Logger) models.FilterCriteria {
	var place models.Place
	var err error = apperr.ErrResolutionUnavailable
	if coords, ok := locator.Locate(ctx); ok {
		place, err = resolver.Resolve(ctx, coords)
	}
	if err != nil {
		logger.Warn("[main] 📡 Location not detected, using %s (all areas)", c.City)
		c.Area = models.AllAreas
		return c
	}

	logger.Info("[main] 🎯 You are near %s, %s", place.Area, place.City)
	c.City = place.City
	c.Area = place.Area
	if c.Area == "" {
		c.Area = models.AllAreas
	}
	return c
}

func splitList(raw string) []string {
	var out []string
	for _, v := range strings.Split(raw, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
