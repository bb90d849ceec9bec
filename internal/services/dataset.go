package services

import (
	"context"
	"fmt"

	"github.com/stwalsh4118/rentscope/internal/dataset"
	"github.com/stwalsh4118/rentscope/internal/geo"
	"github.com/stwalsh4118/rentscope/internal/logger"
	"github.com/stwalsh4118/rentscope/internal/models"
)

// Dataset is the deduplicated table and its geo-indexed listings.
// It is built once at start-up and only read afterwards.
type Dataset struct {
	Table             *dataset.Table
	Listings          []models.Listing
	DuplicatesRemoved int
}

// NewDataset removes exact duplicate rows from t and derives the listings.
func NewDataset(t *dataset.Table) *Dataset {
	deduped, removed := t.Dedupe()
	return &Dataset{
		Table:             deduped,
		Listings:          geo.Index(dataset.Listings(deduped)),
		DuplicatesRemoved: removed,
	}
}

// LoadDataset reads the table from src and prepares it for serving.
func LoadDataset(ctx context.Context, src dataset.Source, log *logger.Logger) (*Dataset, error) {
	t, err := src.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load dataset: %w", err)
	}

	ds := NewDataset(t)
	log.Info("Dataset loaded", logger.Fields{
		"rows":               ds.Table.Len(),
		"columns":            len(ds.Table.Columns),
		"duplicates_removed": ds.DuplicatesRemoved,
		"mappable":           len(geo.Mappable(ds.Listings)),
	})
	return ds, nil
}
