package usecase

import (
	"context"
	"fmt"
	"time"

	"SectorPulse/internal/domain/models"
	domrepo "SectorPulse/internal/domain/repository"
	"SectorPulse/internal/services/volatility"
	"SectorPulse/pkg/cache"
	"SectorPulse/pkg/util"
)

// Rolling volatility scopes.
const (
	// ScopeHistory computes rolling values over each sector's whole history
	// and then cuts them to the visible window.
	ScopeHistory = "history"
	// ScopeWindow computes rolling values over the filtered records only.
	ScopeWindow = "window"
)

const (
	PageTitle      = "US Job Postings by Sector"
	ChartTitle     = "Job Postings Index and Volatility by Sector"
	ChartHeight    = 1000
	RawTableTitle  = "Raw Data"
	RawTableHeight = 400
)

// Analysis is everything derived from the dataset that does not depend on a
// selection. It is computed once per dataset.
type Analysis struct {
	Dataset    *models.Dataset
	Volatility map[string]models.SectorVolatility
	Summary    models.VolatilitySummary
}

// ViewRenderer turns a SelectionState into a complete View.
type ViewRenderer struct {
	loader   *DatasetLoader
	agg      *SectorAggregator
	scope    string
	metrics  domrepo.Metrics
	analysis *cache.Memo[*Analysis]
}

func NewViewRenderer(loader *DatasetLoader, agg *SectorAggregator, scope string, metrics domrepo.Metrics) *ViewRenderer {
	if scope != ScopeWindow {
		scope = ScopeHistory
	}
	r := &ViewRenderer{loader: loader, agg: agg, scope: scope, metrics: metrics}
	r.analysis = cache.NewMemo(r.analyze)
	return r
}

func (r *ViewRenderer) analyze(ctx context.Context) (*Analysis, error) {
	ds, err := r.loader.Load(ctx)
	if err != nil {
		return nil, err
	}
	vols := r.agg.Aggregate(ds)
	byName := make(map[string]models.SectorVolatility, len(vols))
	for _, v := range vols {
		byName[v.Sector] = v
	}
	return &Analysis{Dataset: ds, Volatility: byName, Summary: r.agg.Summary(vols)}, nil
}

// Analysis returns the selection-independent results, loading the dataset if needed.
func (r *ViewRenderer) Analysis(ctx context.Context) (*Analysis, error) {
	return r.analysis.Get(ctx)
}

// Render rebuilds the whole view for state and records timing under surface.
func (r *ViewRenderer) Render(ctx context.Context, surface string, state models.SelectionState) (models.View, error) {
	start := time.Now()
	a, err := r.Analysis(ctx)
	if err != nil {
		return models.View{}, err
	}
	v := r.Build(a, state)
	if r.metrics != nil {
		r.metrics.RecordRender(surface, time.Since(start).Seconds())
	}
	return v, nil
}

// Build is the pure render step: filter, chart, tables and the optional raw table.
func (r *ViewRenderer) Build(a *Analysis, state models.SelectionState) models.View {
	filtered := Filter(a.Dataset.Records, state)

	view := models.View{
		Title:     PageTitle,
		Selection: state,
		Filtered:  len(filtered),
		Chart:     r.figure(a, state),
		Summary:   models.ScoreTable{Title: "Volatility Summary (All Sectors)", Rows: a.Summary.Ranking},
		Lowest:    models.ScoreTable{Title: fmt.Sprintf("Top %d Lowest Volatility", r.agg.RankSize()), Rows: a.Summary.Lowest},
		Highest:   models.ScoreTable{Title: fmt.Sprintf("Top %d Highest Volatility", r.agg.RankSize()), Rows: a.Summary.Highest},
	}
	if state.ShowRawData {
		view.Raw = rawTable(a.Dataset.Header, filtered)
	}
	return view
}

// Filter keeps records of selected sectors dated within [Start, End].
// Applying it to its own output with the same state returns the same records.
func Filter(records []models.PostingRecord, state models.SelectionState) []models.PostingRecord {
	selected := make(map[string]bool, len(state.SelectedSectors))
	for _, s := range state.SelectedSectors {
		selected[s] = true
	}
	out := make([]models.PostingRecord, 0)
	for _, rec := range records {
		if selected[rec.Sector] && inRange(rec.Date, state.Start, state.End) {
			out = append(out, rec)
		}
	}
	return out
}

func inRange(d, start, end time.Time) bool {
	return !d.Before(start) && !d.After(end)
}

func (r *ViewRenderer) figure(a *Analysis, state models.SelectionState) models.Figure {
	fig := models.Figure{Data: []models.Trace{}, Layout: chartLayout(r.agg.Window())}

	var indexTraces, volTraces []models.Trace
	for _, sector := range state.SelectedSectors {
		recs := a.Dataset.SectorRecords(sector)

		var rolling []*float64
		if r.scope == ScopeHistory {
			for _, p := range a.Volatility[sector].RollingVolatility {
				rolling = append(rolling, p.Value)
			}
		} else {
			visible := Filter(recs, state)
			series := make([]float64, len(visible))
			for i, rec := range visible {
				series[i] = rec.PostingsIndex
			}
			for _, v := range volatility.Rolling(series, r.agg.Window()) {
				rolling = append(rolling, models.Point(v))
			}
			recs = visible
		}

		idx := newTrace(sector, "y")
		vol := newTrace(sector+" Volatility", "y2")
		for i, rec := range recs {
			if !inRange(rec.Date, state.Start, state.End) {
				continue
			}
			x := util.FormatDate(rec.Date)
			idx.X = append(idx.X, x)
			idx.Y = append(idx.Y, models.Point(rec.PostingsIndex))
			vol.X = append(vol.X, x)
			vol.Y = append(vol.Y, rolling[i])
		}
		indexTraces = append(indexTraces, idx)
		volTraces = append(volTraces, vol)
	}
	fig.Data = append(fig.Data, indexTraces...)
	fig.Data = append(fig.Data, volTraces...)
	return fig
}

func newTrace(name, yaxis string) models.Trace {
	return models.Trace{
		Type:  "scatter",
		Mode:  "lines",
		Name:  name,
		X:     []string{},
		Y:     []*float64{},
		XAxis: "x",
		YAxis: yaxis,
	}
}

// chartLayout stacks the index panel over the volatility panel on one date axis.
func chartLayout(window int) models.Layout {
	return models.Layout{
		Title:  models.AxisTitle{Text: ChartTitle},
		Height: ChartHeight,
		XAxis: models.Axis{
			Title:  models.AxisTitle{Text: "Date"},
			Anchor: "y2",
		},
		YAxis: models.Axis{
			Title:  models.AxisTitle{Text: "Indeed Job Postings Index"},
			Domain: []float64{0.55, 1},
		},
		YAxis2: models.Axis{
			Title:  models.AxisTitle{Text: "Coefficient of Variation"},
			Domain: []float64{0, 0.45},
		},
		Annotations: []models.Annotation{
			subplotTitle("Job Postings Index", 1),
			subplotTitle(fmt.Sprintf("%d-Day Rolling Volatility", window), 0.45),
		},
	}
}

func subplotTitle(text string, y float64) models.Annotation {
	return models.Annotation{
		Text:    text,
		X:       0.5,
		Y:       y,
		XRef:    "paper",
		YRef:    "paper",
		XAnchor: "center",
		YAnchor: "bottom",
	}
}

func rawTable(header []string, records []models.PostingRecord) *models.RawTable {
	rows := make([][]string, len(records))
	for i, rec := range records {
		rows[i] = rec.Fields
	}
	return &models.RawTable{
		Title:   RawTableTitle,
		Columns: header,
		Rows:    rows,
		Height:  RawTableHeight,
	}
}
