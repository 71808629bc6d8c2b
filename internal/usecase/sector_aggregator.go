package usecase

import (
	"math"
	"sort"

	"SectorPulse/internal/domain/models"
	"SectorPulse/internal/services/volatility"
)

// SectorAggregator runs the volatility calculator per sector and ranks the results.
type SectorAggregator struct {
	window   int
	rankSize int
}

func NewSectorAggregator(window, rankSize int) *SectorAggregator {
	if window < 2 {
		window = volatility.DefaultWindow
	}
	if rankSize < 1 {
		rankSize = 10
	}
	return &SectorAggregator{window: window, rankSize: rankSize}
}

func (a *SectorAggregator) Window() int   { return a.window }
func (a *SectorAggregator) RankSize() int { return a.rankSize }

// Aggregate computes every sector's volatility over its full history and
// returns them descending by coefficient of variation. Sectors enter in order
// of first appearance, which also breaks ties.
func (a *SectorAggregator) Aggregate(ds *models.Dataset) []models.SectorVolatility {
	out := make([]models.SectorVolatility, 0, len(ds.Sectors))
	for _, sector := range ds.Sectors {
		recs := ds.SectorRecords(sector)
		res := volatility.Compute(ds.SectorSeries(sector), a.window)

		points := make([]models.VolatilityPoint, len(recs))
		for i, r := range recs {
			points[i] = models.VolatilityPoint{Date: r.Date, Value: models.Point(res.Rolling[i])}
		}
		out = append(out, models.SectorVolatility{
			Sector:                 sector,
			CoefficientOfVariation: models.Float(res.CoefficientOfVariation),
			RollingVolatility:      points,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return descending(float64(out[i].CoefficientOfVariation), float64(out[j].CoefficientOfVariation))
	})
	return out
}

// Summary derives the three ranking views from an aggregated set.
func (a *SectorAggregator) Summary(vols []models.SectorVolatility) models.VolatilitySummary {
	scores := make([]models.SectorScore, len(vols))
	for i, v := range vols {
		scores[i] = models.SectorScore{Sector: v.Sector, CoefficientOfVariation: v.CoefficientOfVariation}
	}
	return Rank(scores, a.rankSize)
}

// Rank sorts scores both ways and keeps the first n of each direction for
// the lowest and highest views. Undefined (NaN) scores always sort last.
func Rank(scores []models.SectorScore, n int) models.VolatilitySummary {
	desc := append([]models.SectorScore(nil), scores...)
	sort.SliceStable(desc, func(i, j int) bool {
		return descending(float64(desc[i].CoefficientOfVariation), float64(desc[j].CoefficientOfVariation))
	})
	asc := append([]models.SectorScore(nil), scores...)
	sort.SliceStable(asc, func(i, j int) bool {
		return ascending(float64(asc[i].CoefficientOfVariation), float64(asc[j].CoefficientOfVariation))
	})

	k := min(n, len(scores))
	return models.VolatilitySummary{
		Ranking: desc,
		Lowest:  asc[:k],
		Highest: append([]models.SectorScore(nil), desc[:k]...),
	}
}

func descending(a, b float64) bool {
	if math.IsNaN(a) {
		return false
	}
	if math.IsNaN(b) {
		return true
	}
	return a > b
}

func ascending(a, b float64) bool {
	if math.IsNaN(a) {
		return false
	}
	if math.IsNaN(b) {
		return true
	}
	return a < b
}
