package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ospanov/bar-exchange/internal/logging"
	"github.com/ospanov/bar-exchange/internal/mykafka"
	"github.com/ospanov/bar-exchange/internal/service"
	"github.com/ospanov/bar-exchange/internal/transport"
)

type MarketHandler struct {
	Svc      *service.MarketService
	Producer *mykafka.Producer
}

func (h *MarketHandler) StartFreeze(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "market.start_freeze")

	if err := h.Svc.StartFixedMode(ctx); err != nil {
		l.Error("start_freeze_failed", "error", err)
		return httpError(err)
	}

	publish(c, h.Producer, "market_events", "fixed_mode", map[string]any{
		"type": "fixed_mode_started",
	})

	l.Info("fixed_mode_started")
	return c.JSON(http.StatusOK, transport.MarketStatusResponse{FixedMode: true})
}

func (h *MarketHandler) StopFreeze(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "market.stop_freeze")

	if err := h.Svc.StopFixedMode(ctx); err != nil {
		l.Error("stop_freeze_failed", "error", err)
		return httpError(err)
	}

	publish(c, h.Producer, "market_events", "fixed_mode", map[string]any{
		"type": "fixed_mode_stopped",
	})

	l.Info("fixed_mode_stopped")
	return c.JSON(http.StatusOK, transport.MarketStatusResponse{FixedMode: false})
}

func (h *MarketHandler) Status(c echo.Context) error {
	fixed, err := h.Svc.FixedModeActive(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, transport.MarketStatusResponse{FixedMode: fixed})
}
