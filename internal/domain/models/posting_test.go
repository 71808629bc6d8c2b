package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(d int) time.Time { return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC) }

func TestNewDatasetIndexesSectors(t *testing.T) {
	ds := NewDataset([]string{"date", "display_name", "indeed_job_postings_index"}, []PostingRecord{
		{Sector: "Retail", Date: day(1), PostingsIndex: 100},
		{Sector: "Banking", Date: day(1), PostingsIndex: 90},
		{Sector: "Retail", Date: day(2), PostingsIndex: 101},
		{Sector: "Banking", Date: day(3), PostingsIndex: 91},
	})

	assert.Equal(t, []string{"Retail", "Banking"}, ds.Sectors)
	assert.True(t, ds.MinDate.Equal(day(1)))
	assert.True(t, ds.MaxDate.Equal(day(3)))
	assert.True(t, ds.HasSector("Banking"))
	assert.False(t, ds.HasSector("Mining"))
	assert.Equal(t, []float64{100, 101}, ds.SectorSeries("Retail"))
	assert.Len(t, ds.SectorRecords("Banking"), 2)
	assert.Empty(t, ds.SectorSeries("Mining"))
}

func TestSelectionIsSelected(t *testing.T) {
	s := SelectionState{SelectedSectors: []string{"Retail"}}
	assert.True(t, s.IsSelected("Retail"))
	assert.False(t, s.IsSelected("Banking"))
}
