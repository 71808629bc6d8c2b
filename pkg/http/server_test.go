package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"SectorPulse/pkg/http/middleware"
	applogger "SectorPulse/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingHandler struct{}

func (pingHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/ping", func(c echo.Context) error { return SuccessResponse(c, "pong") })
	e.GET("/bad", func(c echo.Context) error {
		return AppErrorResponse(c, BadRequestErrorf("q", "q must be set"))
	})
}

func TestServerRoutesAndMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	s := NewServer(pingHandler{}, applogger.NewNop(),
		WithPort(0),
		WithMetrics("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}), middleware.NewHTTPMetrics(reg), time.Second),
	)

	rec := httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":200,"message":"OK","data":"pong"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/bad", nil))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"field":"q"`)

	rec = httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `http_requests_total{method="GET",route="/ping",status="200"} 1`))
}

func TestServerWithoutMetricsHasNoEndpoint(t *testing.T) {
	s := NewServer(pingHandler{}, nil)
	rec := httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

type viewQuery struct {
	Limit int    `query:"limit" default:"10" validate:"gte=1,lte=100"`
	Day   string `query:"day" validate:"omitempty,datetime=2006-01-02"`
}

func TestReadAndValidateRequest(t *testing.T) {
	e := echo.New()

	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/?day=2024-01-02", nil), httptest.NewRecorder())
	req := &viewQuery{}
	assert.Nil(t, ReadAndValidateRequest(c, req))
	assert.Equal(t, 10, req.Limit)

	c = e.NewContext(httptest.NewRequest(http.MethodGet, "/?limit=500&day=tomorrow", nil), httptest.NewRecorder())
	errs := ReadAndValidateRequest(c, &viewQuery{})
	require.Len(t, errs, 2)
	assert.Equal(t, "ERR_LTE", errs[0].Code)
	assert.Equal(t, "ERR_DATETIME", errs[1].Code)
}

func TestServerCORSToggle(t *testing.T) {
	for _, enabled := range []bool{true, false} {
		s := NewServer(pingHandler{}, applogger.NewNop(), WithCORS(enabled))
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set(echo.HeaderOrigin, "http://localhost:3000")
		rec := httptest.NewRecorder()
		s.Echo().ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		if enabled {
			assert.Equal(t, "http://localhost:3000", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
		} else {
			assert.Empty(t, rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
		}
	}
}
