package repository

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"SectorPulse/internal/domain/models"
	domrepo "SectorPulse/internal/domain/repository"
	xhttp "SectorPulse/pkg/http"
	applogger "SectorPulse/pkg/logger"
	"SectorPulse/pkg/util"
)

// Source CSV column names.
const (
	ColumnDate   = "date"
	ColumnSector = "display_name"
	ColumnIndex  = "indeed_job_postings_index"
)

// HTTPPostingSource implements PostingSource by downloading a CSV over HTTP.
type HTTPPostingSource struct {
	client  *xhttp.Client
	url     string
	metrics domrepo.Metrics
	l       *applogger.Logger
}

func NewHTTPPostingSource(client *xhttp.Client, url string, metrics domrepo.Metrics) *HTTPPostingSource {
	return &HTTPPostingSource{client: client, url: url, metrics: metrics}
}

// SetLogger injects a structured logger.
func (s *HTTPPostingSource) SetLogger(l *applogger.Logger) { s.l = l }

// Load fetches and parses the whole series. Errors are returned unrecovered.
func (s *HTTPPostingSource) Load(ctx context.Context) (*models.Dataset, error) {
	start := time.Now()
	if s.l != nil {
		s.l.Info("dataset fetch start", applogger.String("url", s.url))
	}

	body, err := s.client.Get(ctx, s.url)
	if err != nil {
		s.fail(start, err)
		return nil, fmt.Errorf("fetch %s: %w", s.url, err)
	}

	ds, err := ParseCSV(bytes.NewReader(body))
	if err != nil {
		s.fail(start, err)
		return nil, fmt.Errorf("parse %s: %w", s.url, err)
	}

	took := time.Since(start)
	if s.metrics != nil {
		s.metrics.RecordFetch("ok", took.Seconds())
		s.metrics.RecordDatasetRows(len(ds.Records))
	}
	if s.l != nil {
		s.l.Info("dataset fetch done",
			applogger.Int("rows", len(ds.Records)),
			applogger.Int("sectors", len(ds.Sectors)),
			applogger.String("min_date", util.FormatDate(ds.MinDate)),
			applogger.String("max_date", util.FormatDate(ds.MaxDate)),
			applogger.Duration("duration_ms", took),
		)
	}
	return ds, nil
}

func (s *HTTPPostingSource) fail(start time.Time, err error) {
	if s.metrics != nil {
		s.metrics.RecordFetch("error", time.Since(start).Seconds())
	}
	if s.l != nil {
		s.l.Error("dataset fetch failed", applogger.String("url", s.url), applogger.Error(err))
	}
}

// ParseCSV reads a headed CSV with at least the date, sector and index columns.
// Records come back sorted by date; rows sharing a date keep their file order.
func ParseCSV(r io.Reader) (*models.Dataset, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, domrepo.ErrEmptyDataset
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\uFEFF")
	}

	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.TrimSpace(h)] = i
	}
	var idx [3]int
	for i, name := range []string{ColumnDate, ColumnSector, ColumnIndex} {
		j, ok := cols[name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", domrepo.ErrMissingColumn, name)
		}
		idx[i] = j
	}

	var records []models.PostingRecord
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		line, _ := cr.FieldPos(0)

		date, err := util.ParseDate(row[idx[0]])
		if err != nil {
			return nil, fmt.Errorf("line %d: %s: %w", line, ColumnDate, err)
		}
		value, err := parseIndex(row[idx[2]])
		if err != nil {
			return nil, fmt.Errorf("line %d: %s: %w", line, ColumnIndex, err)
		}
		records = append(records, models.PostingRecord{
			Sector:        row[idx[1]],
			Date:          date,
			PostingsIndex: value,
			Fields:        row,
		})
	}
	if len(records) == 0 {
		return nil, domrepo.ErrEmptyDataset
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Date.Before(records[j].Date)
	})
	return models.NewDataset(header, records), nil
}

// parseIndex treats an empty cell as a missing observation.
func parseIndex(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return math.NaN(), nil
	}
	return strconv.ParseFloat(s, 64)
}

var _ domrepo.PostingSource = (*HTTPPostingSource)(nil)
