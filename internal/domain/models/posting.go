package models

import "time"

// PostingRecord is one row of the source series.
type PostingRecord struct {
	Sector        string
	Date          time.Time
	PostingsIndex float64 // NaN when the source cell is empty

	// Fields holds every raw column of the row, aligned with Dataset.Header.
	Fields []string
}

// Dataset is the loaded source series. Read-only once constructed.
type Dataset struct {
	Header  []string
	Records []PostingRecord // sorted by date, stable within a date
	Sectors []string        // order of first appearance in Records
	MinDate time.Time
	MaxDate time.Time

	bySector map[string][]int
}

// NewDataset indexes records that are already sorted by date.
func NewDataset(header []string, records []PostingRecord) *Dataset {
	d := &Dataset{
		Header:   header,
		Records:  records,
		bySector: make(map[string][]int),
	}
	for i, r := range records {
		if _, ok := d.bySector[r.Sector]; !ok {
			d.Sectors = append(d.Sectors, r.Sector)
		}
		d.bySector[r.Sector] = append(d.bySector[r.Sector], i)
		if d.MinDate.IsZero() || r.Date.Before(d.MinDate) {
			d.MinDate = r.Date
		}
		if r.Date.After(d.MaxDate) {
			d.MaxDate = r.Date
		}
	}
	return d
}

// HasSector reports whether the label exists in the data.
func (d *Dataset) HasSector(sector string) bool {
	_, ok := d.bySector[sector]
	return ok
}

// SectorRecords returns the sector's records in date order.
func (d *Dataset) SectorRecords(sector string) []PostingRecord {
	idx := d.bySector[sector]
	out := make([]PostingRecord, len(idx))
	for i, j := range idx {
		out[i] = d.Records[j]
	}
	return out
}

// SectorSeries returns the sector's postings index values in date order.
func (d *Dataset) SectorSeries(sector string) []float64 {
	idx := d.bySector[sector]
	out := make([]float64, len(idx))
	for i, j := range idx {
		out[i] = d.Records[j].PostingsIndex
	}
	return out
}
