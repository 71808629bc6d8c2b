package web

import (
	"bytes"
	"math"
	"testing"
	"time"

	"SectorPulse/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderIndex(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	start := time.Date(2020, 2, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2020, 3, 1, 0, 0, 0, 0, time.UTC)
	view := models.View{
		Title: "US Job Postings by Sector",
		Selection: models.SelectionState{
			SelectedSectors: []string{"Retail"},
			Start:           start,
			End:             end,
		},
		Chart: models.Figure{Data: []models.Trace{}, Layout: models.Layout{Height: 1000}},
		Summary: models.ScoreTable{Title: "Volatility Summary (All Sectors)", Rows: []models.SectorScore{
			{Sector: "Retail", CoefficientOfVariation: models.Float(math.Inf(1))},
			{Sector: "Banking & Finance", CoefficientOfVariation: 0.123456},
		}},
		Lowest:  models.ScoreTable{Title: "Top 10 Lowest Volatility"},
		Highest: models.ScoreTable{Title: "Top 10 Highest Volatility"},
	}

	var buf bytes.Buffer
	err = r.Render(&buf, IndexTemplate, PageData{
		Title:   view.Title,
		Sectors: []string{"Retail", "Banking & Finance"},
		MinDate: start,
		MaxDate: end,
		View:    view,
		WSPath:  "/ws",
	}, nil)
	require.NoError(t, err)

	html := buf.String()
	assert.Contains(t, html, "<title>US Job Postings by Sector</title>")
	assert.Contains(t, html, `value="Retail" checked`)
	assert.Contains(t, html, `value="Banking &amp; Finance" >`)
	assert.Contains(t, html, `min="2020-02-01"`)
	assert.Contains(t, html, `max="2020-03-01"`)
	assert.Contains(t, html, "<td class=\"num\">inf</td>")
	assert.Contains(t, html, "<td class=\"num\">0.1235</td>")
	assert.Contains(t, html, "Top 10 Highest Volatility")
	assert.Contains(t, html, `"Infinity"`)
}
