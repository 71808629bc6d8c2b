// Package ws runs one dashboard session per websocket connection: every
// control event updates the session's selection and pushes a fresh view.
package ws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"SectorPulse/internal/domain/models"
	domrepo "SectorPulse/internal/domain/repository"
	"SectorPulse/internal/usecase"
	applogger "SectorPulse/pkg/logger"
	"SectorPulse/pkg/util"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// Event types accepted from the client.
const (
	EventSelectAll = "select_all"
	EventSector    = "sector"
	EventDateRange = "date_range"
	EventShowRaw   = "show_raw"
)

// Message types pushed to the client.
const (
	MessageView  = "view"
	MessageError = "error"
)

// Event is a control change sent by the page.
type Event struct {
	Type   string `json:"type"`
	Value  bool   `json:"value"`
	Sector string `json:"sector,omitempty"`
	Start  string `json:"start,omitempty"`
	End    string `json:"end,omitempty"`
}

// Message is pushed after every event.
type Message struct {
	Type    string       `json:"type"`
	Session string       `json:"session,omitempty"`
	View    *models.View `json:"view,omitempty"`
	Message string       `json:"message,omitempty"`
}

// Conn is the part of *websocket.Conn a session uses.
type Conn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteJSON(v interface{}) error
	SetWriteDeadline(t time.Time) error
	Close() error
}

// Renderer builds views for a selection.
type Renderer interface {
	Render(ctx context.Context, surface string, state models.SelectionState) (models.View, error)
}

type Options struct {
	EventsPerSecond float64
	Burst           int
	WriteTimeout    time.Duration
}

// Session is one connected page.
type Session struct {
	id       string
	conn     Conn
	ctrl     *usecase.SelectionController
	renderer Renderer
	limiter  *rate.Limiter
	opts     Options
	metrics  domrepo.Metrics
	l        *applogger.Logger
}

func NewSession(conn Conn, ds *models.Dataset, renderer Renderer, opts Options, metrics domrepo.Metrics, l *applogger.Logger) *Session {
	if opts.EventsPerSecond <= 0 {
		opts.EventsPerSecond = 20
	}
	if opts.Burst < 1 {
		opts.Burst = 10
	}
	if l == nil {
		l = applogger.NewNop()
	}
	id := uuid.NewString()
	return &Session{
		id:       id,
		conn:     conn,
		ctrl:     usecase.NewSelectionController(ds),
		renderer: renderer,
		limiter:  rate.NewLimiter(rate.Limit(opts.EventsPerSecond), opts.Burst),
		opts:     opts,
		metrics:  metrics,
		l:        l.With(applogger.String("session", id)),
	}
}

func (s *Session) ID() string { return s.id }

// Run pushes the initial view and then applies events in arrival order until
// the client disconnects or ctx is cancelled. The connection is closed on return.
func (s *Session) Run(ctx context.Context) error {
	if s.metrics != nil {
		s.metrics.SessionOpened()
		defer s.metrics.SessionClosed()
	}
	s.l.Info("session open")
	started := time.Now()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := make(chan []byte)
	readErr := make(chan error, 1)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		s.readLoop(ctx, events, readErr)
	}()
	defer func() {
		cancel()
		_ = s.conn.Close()
		wg.Wait()
		s.l.Info("session closed", applogger.Duration("duration_ms", time.Since(started)))
	}()

	if err := s.push(ctx); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-readErr:
			return err
		case raw := <-events:
			if err := s.limiter.Wait(ctx); err != nil {
				return nil
			}
			if err := s.handle(raw); err != nil {
				s.l.Debug("event rejected", applogger.Error(err))
				if err := s.write(Message{Type: MessageError, Session: s.id, Message: err.Error()}); err != nil {
					return err
				}
				continue
			}
			if err := s.push(ctx); err != nil {
				return err
			}
		}
	}
}

func (s *Session) readLoop(ctx context.Context, events chan<- []byte, errc chan<- error) {
	for {
		_, raw, err := s.conn.ReadMessage()
		if err != nil {
			if ctx.Err() == nil {
				errc <- disconnected(err)
			}
			return
		}
		select {
		case events <- raw:
		case <-ctx.Done():
			return
		}
	}
}

// handle decodes and applies one event to the selection.
func (s *Session) handle(raw []byte) error {
	var ev Event
	if err := json.Unmarshal(raw, &ev); err != nil {
		return fmt.Errorf("malformed event: %w", err)
	}
	return Apply(s.ctrl, ev)
}

// Apply changes the selection according to ev.
func Apply(ctrl *usecase.SelectionController, ev Event) error {
	switch ev.Type {
	case EventSelectAll:
		ctrl.SetSelectAll(ev.Value)
	case EventSector:
		return ctrl.SetSector(ev.Sector, ev.Value)
	case EventDateRange:
		start, err := optionalDate(ev.Start)
		if err != nil {
			return fmt.Errorf("start: %w", err)
		}
		end, err := optionalDate(ev.End)
		if err != nil {
			return fmt.Errorf("end: %w", err)
		}
		ctrl.SetDateRange(start, end)
	case EventShowRaw:
		ctrl.SetShowRawData(ev.Value)
	default:
		return fmt.Errorf("unknown event type %q", ev.Type)
	}
	return nil
}

func optionalDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return util.ParseDate(s)
}

func (s *Session) push(ctx context.Context) error {
	view, err := s.renderer.Render(ctx, "ws", s.ctrl.State())
	if err != nil {
		s.l.Error("render failed", applogger.Error(err))
		_ = s.write(Message{Type: MessageError, Session: s.id, Message: err.Error()})
		return err
	}
	return s.write(Message{Type: MessageView, Session: s.id, View: &view})
}

func (s *Session) write(m Message) error {
	if s.opts.WriteTimeout > 0 {
		_ = s.conn.SetWriteDeadline(time.Now().Add(s.opts.WriteTimeout))
	}
	if err := s.conn.WriteJSON(m); err != nil {
		return fmt.Errorf("write %s: %w", m.Type, err)
	}
	return nil
}

// ErrDisconnected marks a normal client disconnect.
var ErrDisconnected = errors.New("client disconnected")

func disconnected(err error) error {
	return fmt.Errorf("%w: %v", ErrDisconnected, err)
}
