package usecase

import (
	"context"

	"SectorPulse/internal/domain/models"
	domrepo "SectorPulse/internal/domain/repository"
	"SectorPulse/pkg/cache"
)

// DatasetLoader hands out the process-wide dataset. The first successful
// load is kept for the life of the process; failures reach the caller.
type DatasetLoader struct {
	memo *cache.Memo[*models.Dataset]
}

func NewDatasetLoader(src domrepo.PostingSource) *DatasetLoader {
	return &DatasetLoader{memo: cache.NewMemo(src.Load)}
}

// Load returns the dataset, fetching it on first use.
func (d *DatasetLoader) Load(ctx context.Context) (*models.Dataset, error) {
	return d.memo.Get(ctx)
}

// Loaded reports whether the dataset is in memory.
func (d *DatasetLoader) Loaded() bool {
	return d.memo.Loaded()
}
