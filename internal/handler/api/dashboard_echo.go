package api

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"SectorPulse/internal/domain/models"
	domrepo "SectorPulse/internal/domain/repository"
	"SectorPulse/internal/handler/web"
	"SectorPulse/internal/handler/ws"
	"SectorPulse/internal/service/ratelimit"
	"SectorPulse/internal/usecase"
	xhttp "SectorPulse/pkg/http"
	"SectorPulse/pkg/http/middleware"
	xlogger "SectorPulse/pkg/logger"
	"SectorPulse/pkg/util"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

// DashboardEchoHandler serves the dashboard page, its websocket sessions and the JSON API.
type DashboardEchoHandler struct {
	logger   *xlogger.Logger
	loader   *usecase.DatasetLoader
	renderer *usecase.ViewRenderer
	metrics  domrepo.Metrics
	session  ws.Options
	upgrader websocket.Upgrader
	limiter  *ratelimit.Limiter

	ctx      context.Context
	cancel   context.CancelFunc
	sessions sync.WaitGroup
}

func NewDashboardEchoHandler(
	logger *xlogger.Logger,
	loader *usecase.DatasetLoader,
	renderer *usecase.ViewRenderer,
	metrics domrepo.Metrics,
	session ws.Options,
) *DashboardEchoHandler {
	ctx, cancel := context.WithCancel(context.Background())
	return &DashboardEchoHandler{
		logger:   logger,
		loader:   loader,
		renderer: renderer,
		metrics:  metrics,
		session:  session,
		upgrader: websocket.Upgrader{ReadBufferSize: 1024, WriteBufferSize: 4096},
		ctx:      ctx,
		cancel:   cancel,
	}
}

func (h *DashboardEchoHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/", h.Index)
	e.GET("/ws", h.Session)
	e.GET("/healthz", h.Health)

	var mw []echo.MiddlewareFunc
	if h.limiter != nil {
		mw = append(mw, middleware.RateLimit(h.limiter.Allow))
	}
	g := e.Group("/api", mw...)
	g.GET("/sectors", h.Sectors)
	g.GET("/volatility", h.Volatility)
	g.GET("/view", h.View)
}

// SetAPILimiter throttles the JSON API per client address.
func (h *DashboardEchoHandler) SetAPILimiter(l *ratelimit.Limiter) { h.limiter = l }

// Close ends every open session and waits for them to finish.
func (h *DashboardEchoHandler) Close() {
	h.cancel()
	h.sessions.Wait()
}

func (h *DashboardEchoHandler) analysis(c echo.Context) (*usecase.Analysis, error) {
	a, err := h.renderer.Analysis(c.Request().Context())
	if err != nil {
		h.logger.Error("dataset unavailable", xlogger.String("path", c.Path()), xlogger.Error(err))
		return nil, xhttp.InternalErrorf("dataset unavailable").WithError(err)
	}
	return a, nil
}

// Index renders the page with the default selection.
func (h *DashboardEchoHandler) Index(c echo.Context) error {
	a, err := h.analysis(c)
	if err != nil {
		return c.String(http.StatusInternalServerError, err.Error())
	}
	state := usecase.NewSelectionController(a.Dataset).State()
	view, err := h.renderer.Render(c.Request().Context(), "page", state)
	if err != nil {
		return c.String(http.StatusInternalServerError, err.Error())
	}
	return c.Render(http.StatusOK, web.IndexTemplate, web.PageData{
		Title:   usecase.PageTitle,
		Sectors: a.Dataset.Sectors,
		MinDate: a.Dataset.MinDate,
		MaxDate: a.Dataset.MaxDate,
		View:    view,
		WSPath:  "/ws",
	})
}

// Session upgrades to a websocket and runs the session until either side leaves.
func (h *DashboardEchoHandler) Session(c echo.Context) error {
	a, err := h.analysis(c)
	if err != nil {
		return xhttp.AppErrorResponse(c, err)
	}
	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", xlogger.Error(err))
		return nil
	}

	h.sessions.Add(1)
	defer h.sessions.Done()

	s := ws.NewSession(conn, a.Dataset, h.renderer, h.session, h.metrics, h.logger)
	if err := s.Run(h.ctx); err != nil && !errors.Is(err, ws.ErrDisconnected) {
		h.logger.Warn("session ended with error", xlogger.String("session", s.ID()), xlogger.Error(err))
	}
	return nil
}

// Health is 200 once the dataset is in memory.
func (h *DashboardEchoHandler) Health(c echo.Context) error {
	if !h.loader.Loaded() {
		return xhttp.ServiceUnavailableResponse(c, "dataset not loaded")
	}
	return xhttp.SuccessResponse(c, map[string]string{"status": "ok"})
}

func (h *DashboardEchoHandler) Sectors(c echo.Context) error {
	a, err := h.analysis(c)
	if err != nil {
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, models.SectorsResponse{
		Sectors: a.Dataset.Sectors,
		MinDate: a.Dataset.MinDate,
		MaxDate: a.Dataset.MaxDate,
		Rows:    len(a.Dataset.Records),
	})
}

// Volatility returns the three ranking tables over all sectors.
func (h *DashboardEchoHandler) Volatility(c echo.Context) error {
	a, err := h.analysis(c)
	if err != nil {
		return xhttp.AppErrorResponse(c, err)
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "public, max-age=300")
	return xhttp.SuccessResponse(c, a.Summary)
}

// View renders a selection given entirely in the query string.
func (h *DashboardEchoHandler) View(c echo.Context) error {
	req := &models.ViewRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	a, err := h.analysis(c)
	if err != nil {
		return xhttp.AppErrorResponse(c, err)
	}

	// Dates were validated above.
	start, _ := parseOptionalDate(req.Start)
	end, _ := parseOptionalDate(req.End)
	state, err := usecase.NormalizeState(a.Dataset, models.SelectionState{
		SelectAll:       req.All,
		SelectedSectors: req.Sectors,
		Start:           start,
		End:             end,
		ShowRawData:     req.Raw,
	})
	if err != nil {
		if errors.Is(err, domrepo.ErrUnknownSector) {
			return xhttp.AppErrorResponse(c, xhttp.BadRequestErrorf("sectors", "%v", err))
		}
		return xhttp.AppErrorResponse(c, xhttp.InternalErrorf("normalize selection").WithError(err))
	}

	view, err := h.renderer.Render(c.Request().Context(), "api", state)
	if err != nil {
		h.logger.Error("render error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.InternalErrorf("render failed").WithError(err))
	}
	return xhttp.SuccessResponse(c, view)
}

func parseOptionalDate(s string) (t time.Time, err error) {
	if s == "" {
		return t, nil
	}
	return util.ParseDate(s)
}
