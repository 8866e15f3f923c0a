package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/lib/pq"

	"pg-recommender/apperr"
	"pg-recommender/models"
)

// postgresColumns maps table columns to dataset columns, in select order.
var postgresColumns = []struct {
	sql     string
	dataset string
}{
	{"name", ColName},
	{"city", ColCity},
	{"area", ColArea},
	{"type", ColType},
	{"price", ColPrice},
	{"accommodations", ColAccommodations},
	{"food_quality", ColFoodQuality},
	{"room_quality", ColRoomQuality},
	{"nearby_institutes", ColNearbyInstitutes},
	{"nearby_hospitals", ColNearbyHospitals},
	{"nearby_malls", ColNearbyMalls},
	{"amenities", ColAmenities},
	{"latitude", ColLatitude},
	{"longitude", ColLongitude},
	{"reviews", ColReviews},
	{"safety_score", ColSafetyScore},
}

// PostgresSource reads listings from a PostgreSQL table. It never writes.
type PostgresSource struct {
	db    *sql.DB
	table string
}

// NewPostgresSource opens a connection to PostgreSQL and waits for it to
// answer.
func NewPostgresSource(dsn, table string) (*PostgresSource, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, apperr.NewDataLoadError("postgres: open", err)
	}

	for i := 0; i < 10; i++ {
		if err = db.Ping(); err == nil {
			break
		}
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		_ = db.Close()
		return nil, apperr.NewDataLoadError("postgres: ping failed after retries", err)
	}

	return &PostgresSource{db: db, table: table}, nil
}

// selectQuery builds the read query for the listings table.
func selectQuery(table string) (string, []interface{}, error) {
	cols := make([]string, 0, len(postgresColumns)+1)
	cols = append(cols, "id")
	for _, c := range postgresColumns {
		cols = append(cols, c.sql)
	}
	return sq.Select(cols...).
		From(table).
		OrderBy("id").
		PlaceholderFormat(sq.Dollar).
		ToSql()
}

// Load retrieves every stored listing ordered by id. NULL values become
// empty text.
func (ps *PostgresSource) Load(ctx context.Context) ([]*models.RawListing, error) {
	query, args, err := selectQuery(ps.table)
	if err != nil {
		return nil, apperr.NewDataLoadError("postgres: build query", err)
	}

	rows, err := ps.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperr.NewDataLoadError(fmt.Sprintf("postgres: query %s", ps.table), err)
	}
	defer rows.Close()

	var listings []*models.RawListing
	line := 0
	for rows.Next() {
		var id int64
		values := make([]sql.NullString, len(postgresColumns))
		dest := make([]interface{}, 0, len(values)+1)
		dest = append(dest, &id)
		for i := range values {
			dest = append(dest, &values[i])
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, apperr.NewDataLoadError("postgres: scan row", err)
		}

		line++
		raw := &models.RawListing{Row: line}
		for i, c := range postgresColumns {
			assign(raw, c.dataset, values[i].String)
		}
		listings = append(listings, raw)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.NewDataLoadError("postgres: iterate rows", err)
	}
	return listings, nil
}

func (ps *PostgresSource) Close() error {
	return ps.db.Close()
}
