/*
Package api exposes the daily draw over HTTP.

	GET /healthz          liveness probe
	GET /v1/draw?fixed=N  current draw for fixed number N
	GET /v1/history       persisted draw history
*/
package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"github.com/labstack/echo/v4"

	"github.com/khanglvm/daily-raffle/internal/draw"
	"github.com/khanglvm/daily-raffle/internal/history"
)

// Drawer is the part of draw.Engine the handler needs.
type Drawer interface {
	Generate(ctx context.Context, fixed int) ([]int, error)
	History(ctx context.Context) (*history.History, error)
}

type Handler struct {
	engine Drawer
	logger *slog.Logger

	// drawMu serializes draws coming from this server. Other processes
	// sharing the history file are not covered.
	drawMu sync.Mutex
}

func NewHandler(engine Drawer, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{engine: engine, logger: logger}
}

func (h *Handler) Register(e *echo.Echo) {
	e.GET("/healthz", h.Healthz)
	e.GET("/v1/draw", h.Draw)
	e.GET("/v1/history", h.History)
}

// NewServer builds an echo instance with the middleware stack and routes.
func NewServer(engine Drawer, logger *slog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(RequestIDMiddleware())
	e.Use(LoggingMiddleware(logger))

	NewHandler(engine, logger).Register(e)
	return e
}

func (h *Handler) Healthz(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

func (h *Handler) Draw(c echo.Context) error {
	fixed, err := draw.ParseFixedNumber(c.QueryParam("fixed"))
	if err != nil {
		return h.mapError(c, err)
	}

	h.drawMu.Lock()
	numbers, err := h.engine.Generate(c.Request().Context(), fixed)
	h.drawMu.Unlock()
	if err != nil {
		return h.mapError(c, err)
	}

	return c.JSON(http.StatusOK, DrawResponse{
		Fixed:     fixed,
		Numbers:   numbers,
		RequestID: requestID(c),
	})
}

func (h *Handler) History(c echo.Context) error {
	hist, err := h.engine.History(c.Request().Context())
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(http.StatusOK, HistoryResponse{History: hist})
}

func (h *Handler) mapError(c echo.Context, err error) error {
	var inputErr *draw.InvalidInputError
	var storageErr *history.StorageError

	switch {
	case errors.As(err, &inputErr):
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: inputErr.Error()})
	case errors.As(err, &storageErr):
		h.logger.Error("history storage failure", "request_id", requestID(c), "error", err)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "history storage failure"})
	default:
		h.logger.Error("internal error", "request_id", requestID(c), "error", err)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
}
