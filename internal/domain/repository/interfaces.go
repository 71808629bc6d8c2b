package repository

import (
	"context"
	"errors"

	"SectorPulse/internal/domain/models"
)

var (
	ErrEmptyDataset  = errors.New("dataset has no rows")
	ErrMissingColumn = errors.New("required column missing")
	ErrUnknownSector = errors.New("unknown sector")
)

// PostingSource produces the full job postings series.
type PostingSource interface {
	Load(ctx context.Context) (*models.Dataset, error)
}

type Metrics interface {
	RecordFetch(result string, seconds float64)
	RecordDatasetRows(n int)
	RecordRender(surface string, seconds float64)
	SessionOpened()
	SessionClosed()
}
