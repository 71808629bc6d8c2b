package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"SectorPulse/internal/domain/models"
	"SectorPulse/internal/handler/web"
	"SectorPulse/internal/handler/ws"
	"SectorPulse/internal/service/ratelimit"
	"SectorPulse/internal/usecase"
	xlogger "SectorPulse/pkg/logger"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticSource struct{ ds *models.Dataset }

func (s staticSource) Load(context.Context) (*models.Dataset, error) { return s.ds, nil }

func testDataset() *models.Dataset {
	var recs []models.PostingRecord
	for i := 0; i < 40; i++ {
		d := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i)
		for j, s := range []string{"Retail", "Banking & Finance", "Software Development"} {
			v := 100 + float64((i*(j+1))%7)
			recs = append(recs, models.PostingRecord{
				Sector: s, Date: d, PostingsIndex: v,
				Fields: []string{d.Format("2006-01-02"), s, strconv.FormatFloat(v, 'f', -1, 64)},
			})
		}
	}
	return models.NewDataset([]string{"date", "display_name", "indeed_job_postings_index"}, recs)
}

func newTestServer(t *testing.T) (*echo.Echo, *DashboardEchoHandler) {
	t.Helper()
	loader := usecase.NewDatasetLoader(staticSource{testDataset()})
	renderer := usecase.NewViewRenderer(loader, usecase.NewSectorAggregator(30, 10), usecase.ScopeHistory, nil)
	h := NewDashboardEchoHandler(xlogger.NewNop(), loader, renderer, nil, ws.Options{})
	t.Cleanup(h.Close)

	tmpl, err := web.NewRenderer()
	require.NoError(t, err)
	e := echo.New()
	e.Renderer = tmpl
	h.RegisterRoutes(e)
	return e, h
}

func get(e *echo.Echo, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

type envelope struct {
	Status int             `json:"status"`
	Data   json.RawMessage `json:"data"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, into interface{}) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	if into != nil {
		require.NoError(t, json.Unmarshal(env.Data, into))
	}
	return env
}

func TestHealthBeforeAndAfterLoad(t *testing.T) {
	e, _ := newTestServer(t)

	rec := get(e, "/healthz")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	require.Equal(t, http.StatusOK, get(e, "/api/sectors").Code)
	assert.Equal(t, http.StatusOK, get(e, "/healthz").Code)
}

func TestSectors(t *testing.T) {
	e, _ := newTestServer(t)
	var out models.SectorsResponse
	decode(t, get(e, "/api/sectors"), &out)

	assert.Equal(t, []string{"Retail", "Banking & Finance", "Software Development"}, out.Sectors)
	assert.Equal(t, 120, out.Rows)
	assert.Equal(t, "2024-01-01", out.MinDate.Format("2006-01-02"))
	assert.Equal(t, "2024-02-09", out.MaxDate.Format("2006-01-02"))
}

func TestVolatilityTables(t *testing.T) {
	e, _ := newTestServer(t)
	var out models.VolatilitySummary
	decode(t, get(e, "/api/volatility"), &out)

	assert.Len(t, out.Ranking, 3)
	assert.Len(t, out.Lowest, 3)
	assert.Len(t, out.Highest, 3)
	assert.Equal(t, out.Ranking[0], out.Highest[0])
	assert.Equal(t, out.Ranking[2], out.Lowest[0])
}

func TestViewQuery(t *testing.T) {
	e, _ := newTestServer(t)

	rec := get(e, "/api/view?sectors=Retail&sectors=Banking+%26+Finance&start=2024-01-10&end=2024-01-05&raw=true")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var v struct {
		Selection models.SelectionState `json:"selection"`
		Filtered  int                   `json:"filtered_rows"`
		Chart     models.Figure         `json:"chart"`
		Raw       *models.RawTable      `json:"raw"`
	}
	decode(t, rec, &v)
	assert.Equal(t, []string{"Retail", "Banking & Finance"}, v.Selection.SelectedSectors)
	assert.Equal(t, "2024-01-05", v.Selection.Start.Format("2006-01-02"))
	assert.Equal(t, "2024-01-10", v.Selection.End.Format("2006-01-02"))
	assert.Equal(t, 12, v.Filtered)
	assert.Len(t, v.Chart.Data, 4)
	require.NotNil(t, v.Raw)
	assert.Len(t, v.Raw.Rows, 12)
}

func TestViewSelectAllAndEmpty(t *testing.T) {
	e, _ := newTestServer(t)

	var all struct {
		Chart models.Figure `json:"chart"`
	}
	decode(t, get(e, "/api/view?all=true"), &all)
	assert.Len(t, all.Chart.Data, 6)

	var none struct {
		Chart   models.Figure     `json:"chart"`
		Summary models.ScoreTable `json:"summary"`
	}
	decode(t, get(e, "/api/view"), &none)
	assert.Empty(t, none.Chart.Data)
	assert.Len(t, none.Summary.Rows, 3)
}

func TestViewRejectsBadInput(t *testing.T) {
	e, _ := newTestServer(t)

	rec := get(e, "/api/view?sectors=Mining")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "unknown sector")

	rec = get(e, "/api/view?start=yesterday")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "ERR_DATETIME")
}

func TestIndexPage(t *testing.T) {
	e, _ := newTestServer(t)
	rec := get(e, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "<title>US Job Postings by Sector</title>")
	assert.Contains(t, body, "Volatility Summary (All Sectors)")
	assert.True(t, strings.Contains(body, `value="Software Development"`))
}

func TestWebsocketSession(t *testing.T) {
	e, h := newTestServer(t)
	srv := httptest.NewServer(e)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	var m ws.Message
	require.NoError(t, conn.ReadJSON(&m))
	assert.Equal(t, ws.MessageView, m.Type)

	require.NoError(t, conn.WriteJSON(ws.Event{Type: ws.EventSector, Sector: "Retail", Value: true}))
	require.NoError(t, conn.ReadJSON(&m))
	require.Equal(t, ws.MessageView, m.Type)
	assert.Equal(t, []string{"Retail"}, m.View.Selection.SelectedSectors)
	assert.Len(t, m.View.Chart.Data, 2)

	h.Close()
	_, _, err = conn.ReadMessage()
	assert.Error(t, err)
}

func TestAPIRateLimit(t *testing.T) {
	loader := usecase.NewDatasetLoader(staticSource{testDataset()})
	renderer := usecase.NewViewRenderer(loader, usecase.NewSectorAggregator(30, 10), usecase.ScopeHistory, nil)
	h := NewDashboardEchoHandler(xlogger.NewNop(), loader, renderer, nil, ws.Options{})
	h.SetAPILimiter(ratelimit.New(0.001, 1))
	t.Cleanup(h.Close)

	e := echo.New()
	h.RegisterRoutes(e)

	assert.Equal(t, http.StatusOK, get(e, "/api/sectors").Code)
	assert.Equal(t, http.StatusTooManyRequests, get(e, "/api/sectors").Code)
	assert.Equal(t, http.StatusOK, get(e, "/healthz").Code, "only the JSON API is throttled")
}
