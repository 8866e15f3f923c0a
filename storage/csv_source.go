package storage

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"pg-recommender/apperr"
	"pg-recommender/models"
)

// CSVSource reads listings from a CSV file with a header row.
type CSVSource struct {
	path string
}

// NewCSVSource returns a source for the CSV file at path. The file is opened
// on Load.
func NewCSVSource(path string) *CSVSource {
	return &CSVSource{path: path}
}

// Load reads every data row. A missing or unreadable file, or a header
// without the required columns, yields a DATA_LOAD error.
func (c *CSVSource) Load(ctx context.Context) ([]*models.RawListing, error) {
	f, err := os.Open(c.path)
	if err != nil {
		return nil, apperr.NewDataLoadError(fmt.Sprintf("open dataset %q", c.path), err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, apperr.NewDataLoadError(fmt.Sprintf("dataset %q is empty", c.path), err)
		}
		return nil, apperr.NewDataLoadError(fmt.Sprintf("read header of %q", c.path), err)
	}

	columns := make([]string, len(header))
	present := make(map[string]bool, len(header))
	for i, h := range header {
		name := strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		columns[i] = name
		present[name] = true
	}

	var missing []string
	for _, col := range RequiredColumns {
		if !present[col] {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, apperr.NewDataLoadError(
			fmt.Sprintf("dataset %q is missing required columns: %s", c.path, strings.Join(missing, ", ")), nil)
	}

	var rows []*models.RawListing
	for line := 1; ; line++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, apperr.NewDataLoadError(fmt.Sprintf("read row %d of %q", line, c.path), err)
		}

		raw := &models.RawListing{Row: line}
		for i, value := range record {
			if i < len(columns) {
				assign(raw, columns[i], value)
			}
		}
		rows = append(rows, raw)
	}

	return rows, nil
}

// Close is a no-op; the file is closed at the end of Load.
func (c *CSVSource) Close() error {
	return nil
}
