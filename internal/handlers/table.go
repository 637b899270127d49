package handlers

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ospanov/bar-exchange/internal/logging"
	"github.com/ospanov/bar-exchange/internal/mykafka"
	"github.com/ospanov/bar-exchange/internal/service"
	"github.com/ospanov/bar-exchange/internal/transport"
)

type TableHandler struct {
	Svc      *service.MarketService
	Producer *mykafka.Producer
}

func (h *TableHandler) GetTables(c echo.Context) error {
	tables, err := h.Svc.GetTables(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, tables)
}

func (h *TableHandler) CreateTable(c echo.Context) error {
	var req transport.CreateTableRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	table, err := h.Svc.AddTable(c.Request().Context(), req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, table)
}

func (h *TableHandler) GetBill(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	bill, err := h.Svc.TableBill(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, bill)
}

func (h *TableHandler) SubmitOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "table.submit_order")

	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	var req transport.SubmitOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	orders, err := h.Svc.SubmitOrder(ctx, id, req)
	if err != nil {
		l.Error("submit_order_failed", "tableID", id, "error", err)
		return httpError(err)
	}

	publish(c, h.Producer, "order_events", fmt.Sprint(id), map[string]any{
		"type":    "order_placed",
		"tableID": id,
		"lines":   len(orders),
	})

	l.Info("order_placed", "tableID", id, "lines", len(orders))
	return c.JSON(http.StatusCreated, orders)
}

func (h *TableHandler) ClearTable(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "table.clear")

	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	if err := h.Svc.ClearTable(ctx, id); err != nil {
		return httpError(err)
	}

	publish(c, h.Producer, "order_events", fmt.Sprint(id), map[string]any{
		"type":    "table_cleared",
		"tableID": id,
	})

	l.Info("table_cleared", "tableID", id)
	return c.NoContent(http.StatusNoContent)
}
