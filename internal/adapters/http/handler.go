package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/randomtoy/dicegame/internal/adapters/pages"
	"github.com/randomtoy/dicegame/internal/app"
	"github.com/randomtoy/dicegame/internal/domain"
	"github.com/randomtoy/dicegame/internal/ports"
)

const defaultKeepAlive = 15 * time.Second

type Handler struct {
	svc       *app.GameService
	pages     ports.PageStore
	streams   *StreamHub
	logger    *slog.Logger
	keepAlive time.Duration
}

type HandlerOption func(*Handler)

// WithKeepAlive sets how often an idle SSE stream is pinged. Each ping also
// keeps the view from expiring.
func WithKeepAlive(d time.Duration) HandlerOption {
	return func(h *Handler) {
		if d > 0 {
			h.keepAlive = d
		}
	}
}

func NewHandler(svc *app.GameService, pageStore ports.PageStore, streams *StreamHub, logger *slog.Logger, opts ...HandlerOption) *Handler {
	h := &Handler{
		svc:       svc,
		pages:     pageStore,
		streams:   streams,
		logger:    logger,
		keepAlive: defaultKeepAlive,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Handler) Register(e *echo.Echo) {
	e.GET("/", h.Home)
	e.GET("/diceGame", h.DiceGame)
	e.GET("/healthz", h.Healthz)

	v := e.Group("/v1/views")
	v.POST("", h.Mount)
	v.GET("/:id", h.GetView)
	v.DELETE("/:id", h.Unmount)
	// sendBeacon can only POST.
	v.POST("/:id/unmount", h.Unmount)
	v.POST("/:id/roll", h.Roll)
	v.GET("/:id/events", h.Events)
}

// RegisterMetrics exposes g on GET /metrics.
func RegisterMetrics(e *echo.Echo, g prometheus.Gatherer) {
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(g, promhttp.HandlerOpts{})))
}

func (h *Handler) Healthz(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

func (h *Handler) Home(c echo.Context) error {
	return h.renderView(c, domain.KindDie, pages.Home)
}

func (h *Handler) DiceGame(c echo.Context) error {
	return h.renderView(c, domain.KindDice, pages.Dice)
}

func (h *Handler) renderView(c echo.Context, kind domain.ViewKind, page string) error {
	ctx := c.Request().Context()
	snap, err := h.svc.Mount(ctx, kind)
	if err != nil {
		return h.mapError(c, err)
	}

	var buf bytes.Buffer
	if err := h.pages.Render(ctx, &buf, page, pageData{Snapshot: snap}); err != nil {
		_ = h.svc.Unmount(ctx, snap.ViewID)
		return h.mapError(c, err)
	}
	return c.HTMLBlob(http.StatusOK, buf.Bytes())
}

func (h *Handler) Mount(c echo.Context) error {
	var req MountRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
	}
	kind, err := domain.ParseViewKind(req.Kind)
	if err != nil {
		return h.mapError(c, err)
	}

	snap, err := h.svc.Mount(c.Request().Context(), kind)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(http.StatusCreated, toResponse(snap))
}

func (h *Handler) GetView(c echo.Context) error {
	snap, err := h.svc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(http.StatusOK, toResponse(snap))
}

func (h *Handler) Roll(c echo.Context) error {
	snap, err := h.svc.Roll(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(http.StatusAccepted, toResponse(snap))
}

func (h *Handler) Unmount(c echo.Context) error {
	if err := h.svc.Unmount(c.Request().Context(), c.Param("id")); err != nil {
		return h.mapError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Events streams the view's snapshots as Server-Sent Events. The current
// snapshot is sent first. The stream ends when the client goes away or the
// view is unmounted.
func (h *Handler) Events(c echo.Context) error {
	ctx := c.Request().Context()
	viewID := c.Param("id")

	updates, cancel := h.streams.Subscribe(viewID)
	defer cancel()

	snap, err := h.svc.Get(ctx, viewID)
	if err != nil {
		return h.mapError(c, err)
	}

	w := c.Response()
	w.Header().Set(echo.HeaderContentType, "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	if err := writeSnapshotEvent(w, snap); err != nil {
		return nil
	}

	ticker := time.NewTicker(h.keepAlive)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-updates:
			if !ok {
				return nil
			}
			if _, err := fmt.Fprintf(w, "event: snapshot\ndata: %s\n\n", msg); err != nil {
				return nil
			}
			w.Flush()
		case <-ticker.C:
			if err := h.svc.Touch(ctx, viewID); err != nil {
				return nil
			}
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return nil
			}
			w.Flush()
		}
	}
}

func writeSnapshotEvent(w *echo.Response, snap ports.ViewSnapshot) error {
	payload, err := json.Marshal(toResponse(snap))
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "event: snapshot\ndata: %s\n\n", payload); err != nil {
		return err
	}
	w.Flush()
	return nil
}

func (h *Handler) mapError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrViewNotFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: domain.ErrViewNotFound.Error()})
	case errors.Is(err, domain.ErrUnknownViewKind):
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: domain.ErrUnknownViewKind.Error()})
	default:
		h.logger.Error("internal error", "request_id", requestID(c), "error", err)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
}
