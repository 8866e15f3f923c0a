package services

import (
	"context"
	"fmt"

	"pg-recommender/apperr"
	"pg-recommender/models"
	"pg-recommender/storage"
)

// LoadDataset reads every row from source, cleans it and returns the
// immutable dataset. A source that yields no usable listing is a DATA_LOAD
// error.
func LoadDataset(ctx context.Context, source storage.ListingSource, cleaner *Cleaner) (*models.Dataset, error) {
	raw, err := source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load dataset: %w", err)
	}

	listings := cleaner.Clean(raw)
	if len(listings) == 0 {
		return nil, apperr.NewDataLoadError(fmt.Sprintf("dataset has no usable listings (%d rows read)", len(raw)), nil)
	}

	return models.NewDataset(listings), nil
}
