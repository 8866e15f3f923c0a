package services

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"pg-recommender/models"
	"pg-recommender/utils"
)

// Summarize computes aggregate figures over a result set.
func Summarize(listings []*models.Listing) models.ResultSummary {
	report := models.ResultSummary{
		ListingsByType: make(map[string]int),
	}

	if len(listings) == 0 {
		return report
	}

	report.TotalListings = len(listings)

	var total float64
	for _, l := range listings {
		if l.Type != "" {
			report.ListingsByType[l.Type]++
		}
		if l.HasSafety && (report.Safest == nil || l.SafetyScore > report.Safest.SafetyScore) {
			report.Safest = l
		}
		if !l.HasPrice {
			continue
		}
		if report.PricedCount == 0 || l.Price < report.MinPrice {
			report.MinPrice = l.Price
			report.Cheapest = l
		}
		if report.PricedCount == 0 || l.Price > report.MaxPrice {
			report.MaxPrice = l.Price
		}
		total += l.Price
		report.PricedCount++
	}

	if report.PricedCount > 0 {
		report.AveragePrice = round2(total / float64(report.PricedCount))
	}
	return report
}

// ResultPrinter renders result cards to a terminal.
type ResultPrinter struct {
	out io.Writer
}

// NewResultPrinter creates a printer writing to out, or stdout when nil.
func NewResultPrinter(out io.Writer) *ResultPrinter {
	if out == nil {
		out = os.Stdout
	}
	return &ResultPrinter{out: out}
}

// Print writes the header, one card per listing and the summary.
// annotations must be aligned with listings; it may be nil.
func (p *ResultPrinter) Print(c models.FilterCriteria, listings []*models.Listing, annotations []Annotation) {
	sep := strings.Repeat("═", 60)
	thin := strings.Repeat("─", 60)
	w := p.out

	title := c.City
	if c.Area != "" && c.Area != models.AllAreas {
		title += " - " + c.Area
	}

	fmt.Fprintf(w, "\n\033[1;35m%s\033[0m\n", sep)
	fmt.Fprintf(w, "\033[1;35m  🏠 Results for %s (%s)\033[0m\n", title, c.Sort.Label())
	fmt.Fprintf(w, "\033[1;35m%s\033[0m\n\n", sep)

	if len(listings) == 0 {
		fmt.Fprintf(w, "  😕 No PGs or Flats found for the selected filters.\n\n")
		return
	}

	for i, l := range listings {
		fmt.Fprintf(w, "\033[1;33m  %d. %s\033[0m — %s\n", i+1, l.Name, l.Type)
		fmt.Fprintf(w, "  %s\n", thin)
		fmt.Fprintf(w, "  Area: %s | City: %s\n", l.Area, l.City)
		fmt.Fprintf(w, "  Price: ₹%s | Accommodations: %s\n", FormatPrice(l), l.Accommodations)
		fmt.Fprintf(w, "  Food Quality: %s | Room Quality: %s\n", l.FoodQuality, l.RoomQuality)
		fmt.Fprintf(w, "  Nearby: %s, %s, %s\n", l.NearbyInstitutes, l.NearbyHospitals, l.NearbyMalls)
		if amenities := l.AmenityList(); len(amenities) > 0 {
			fmt.Fprintf(w, "  Amenities: %s\n", strings.Join(amenities, ", "))
		}
		if i < len(annotations) && annotations[i].OK {
			s := annotations[i].Sentiment
			color := "32"
			if !s.Positive() {
				color = "31"
			}
			fmt.Fprintf(w, "  Review Sentiment: \033[%sm%s (%.2f)\033[0m\n", color, utils.TitleCase(s.Label), s.Confidence)
		}
		if l.HasSafety {
			fmt.Fprintf(w, "  Area Safety Score: ⭐ %g / 5\n", l.SafetyScore)
		}
		if score, ok := ListingScore(l); ok {
			fmt.Fprintf(w, "  PG Score: \033[1;32m%.2f / 10\033[0m\n", score)
		}
		fmt.Fprintln(w)
	}

	p.printSummary(Summarize(listings))
}

func (p *ResultPrinter) printSummary(r models.ResultSummary) {
	thin := strings.Repeat("─", 60)
	w := p.out

	fmt.Fprintf(w, "\033[1;33m  Summary\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	fmt.Fprintf(w, "  Listings found : \033[1m%d\033[0m\n", r.TotalListings)
	if r.PricedCount > 0 {
		fmt.Fprintf(w, "  Average price  : \033[1;32m₹%.2f\033[0m\n", r.AveragePrice)
		fmt.Fprintf(w, "  Price range    : ₹%.0f – ₹%.0f\n", r.MinPrice, r.MaxPrice)
	}
	if r.Cheapest != nil {
		fmt.Fprintf(w, "  Cheapest       : %s (%s)\n", truncate(r.Cheapest.Name, 40), r.Cheapest.Area)
	}
	if r.Safest != nil {
		fmt.Fprintf(w, "  Safest         : %s (%g / 5)\n", truncate(r.Safest.Name, 40), r.Safest.SafetyScore)
	}

	types := make([]string, 0, len(r.ListingsByType))
	for t := range r.ListingsByType {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool {
		if r.ListingsByType[types[i]] != r.ListingsByType[types[j]] {
			return r.ListingsByType[types[i]] > r.ListingsByType[types[j]]
		}
		return types[i] < types[j]
	})
	for _, t := range types {
		bar := strings.Repeat("█", r.ListingsByType[t])
		fmt.Fprintf(w, "  %-14s %s (%d)\n", truncate(t, 14), bar, r.ListingsByType[t])
	}
	fmt.Fprintln(w)
}

// FormatPrice renders a listing price without a trailing ".00".
func FormatPrice(l *models.Listing) string {
	if !l.HasPrice {
		return "n/a"
	}
	if l.Price == float64(int64(l.Price)) {
		return fmt.Sprintf("%d", int64(l.Price))
	}
	return fmt.Sprintf("%.2f", l.Price)
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
