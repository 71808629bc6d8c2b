package usecase

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"sync/atomic"
	"time"

	"SectorPulse/internal/domain/models"
)

var testHeader = []string{"date", "display_name", "indeed_job_postings_index"}

func day(n int) time.Time {
	return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

// series builds one record per day starting at day(0).
func series(sector string, values ...float64) []models.PostingRecord {
	out := make([]models.PostingRecord, len(values))
	for i, v := range values {
		d := day(i)
		out[i] = models.PostingRecord{
			Sector:        sector,
			Date:          d,
			PostingsIndex: v,
			Fields:        []string{d.Format("2006-01-02"), sector, strconv.FormatFloat(v, 'f', -1, 64)},
		}
	}
	return out
}

func dataset(groups ...[]models.PostingRecord) *models.Dataset {
	var all []models.PostingRecord
	for _, g := range groups {
		all = append(all, g...)
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].Date.Before(all[j].Date) })
	return models.NewDataset(testHeader, all)
}

func repeat(v float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

type stubSource struct {
	ds    *models.Dataset
	err   error
	calls atomic.Int32
}

func (s *stubSource) Load(context.Context) (*models.Dataset, error) {
	s.calls.Add(1)
	if s.err != nil {
		return nil, s.err
	}
	return s.ds, nil
}

var errFetch = errors.New("fetch failed")

type renderCounter struct {
	surfaces []string
}

func (m *renderCounter) RecordFetch(string, float64)      {}
func (m *renderCounter) RecordDatasetRows(int)            {}
func (m *renderCounter) RecordRender(s string, _ float64) { m.surfaces = append(m.surfaces, s) }
func (m *renderCounter) SessionOpened()                   {}
func (m *renderCounter) SessionClosed()                   {}
