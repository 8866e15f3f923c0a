package storage

import (
	"context"

	"pg-recommender/models"
)

// ListingSource is the interface any dataset backend must satisfy. Sources
// are read-only.
type ListingSource interface {
	Load(ctx context.Context) ([]*models.RawListing, error)
	Close() error
}

// Dataset column names.
const (
	ColName             = "Name"
	ColCity             = "City"
	ColArea             = "Area"
	ColType             = "Type"
	ColPrice            = "Price"
	ColAccommodations   = "Accommodations"
	ColFoodQuality      = "Food Quality"
	ColRoomQuality      = "Room Quality"
	ColNearbyInstitutes = "Nearby Institutes"
	ColNearbyHospitals  = "Nearby Hospitals"
	ColNearbyMalls      = "Nearby Malls"
	ColAmenities        = "Amenities"
	ColLatitude         = "Latitude"
	ColLongitude        = "Longitude"
	ColReviews          = "Reviews"
	ColSafetyScore      = "Safety Score"
)

// RequiredColumns must be present in every dataset.
var RequiredColumns = []string{ColCity, ColArea, ColPrice}

// assign stores value into the RawListing field that backs column. Unknown
// columns are ignored.
func assign(r *models.RawListing, column, value string) {
	switch column {
	case ColName:
		r.Name = value
	case ColCity:
		r.City = value
	case ColArea:
		r.Area = value
	case ColType:
		r.Type = value
	case ColPrice:
		r.Price = value
	case ColAccommodations:
		r.Accommodations = value
	case ColFoodQuality:
		r.FoodQuality = value
	case ColRoomQuality:
		r.RoomQuality = value
	case ColNearbyInstitutes:
		r.NearbyInstitutes = value
	case ColNearbyHospitals:
		r.NearbyHospitals = value
	case ColNearbyMalls:
		r.NearbyMalls = value
	case ColAmenities:
		r.Amenities = value
	case ColLatitude:
		r.Latitude = value
	case ColLongitude:
		r.Longitude = value
	case ColReviews:
		r.Reviews = value
	case ColSafetyScore:
		r.SafetyScore = value
	}
}
