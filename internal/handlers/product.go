package handlers

import (
	"fmt"
	"net/http"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"

	"github.com/ospanov/bar-exchange/internal/logging"
	"github.com/ospanov/bar-exchange/internal/mykafka"
	"github.com/ospanov/bar-exchange/internal/service"
	"github.com/ospanov/bar-exchange/internal/service/search"
	"github.com/ospanov/bar-exchange/internal/transport"
	"github.com/ospanov/bar-exchange/internal/util"
)

type ProductHandler struct {
	Svc      *service.MarketService
	Producer *mykafka.Producer
	ES       *elasticsearch.Client
	ESIndex  string
}

func (h *ProductHandler) GetProduct(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	prod, err := h.Svc.GetProduct(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, prod)
}

func (h *ProductHandler) GetProducts(c echo.Context) error {
	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	total, items, err := h.Svc.GetProducts(c.Request().Context(), offset, limit)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"data": items,
		"meta": map[string]any{
			"page":        page,
			"size":        limit,
			"total":       total,
			"total_pages": (total + int64(limit) - 1) / int64(limit),
			"has_prev":    page > 1,
			"has_next":    int64(offset+limit) < total,
		},
	})
}

// Board serves the TV price display: the whole menu with live prices, meant
// to be polled.
func (h *ProductHandler) Board(c echo.Context) error {
	items, err := h.Svc.Board(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *ProductHandler) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.create")

	var req transport.CreateProductRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	prod, err := h.Svc.AddProduct(ctx, req)
	if err != nil {
		l.Error("create_product_failed", "name", req.Name, "error", err)
		return httpError(err)
	}

	h.index(c, prod.ID)
	publish(c, h.Producer, "product_events", fmt.Sprint(prod.ID), map[string]any{
		"type":      "product_created",
		"productID": prod.ID,
		"name":      prod.Name,
		"price":     prod.Price,
	})

	l.Info("product_created", "productID", prod.ID, "name", prod.Name)
	return c.JSON(http.StatusCreated, prod)
}

// SetPrice is the admin override: unconditional, no movement rule, allowed
// even during fixed mode (and clobbered by the restore when it ends).
func (h *ProductHandler) SetPrice(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.set_price")

	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	var req transport.SetPriceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	if err := h.Svc.SetProductPrice(ctx, id, req.Price); err != nil {
		l.Error("set_price_failed", "productID", id, "error", err)
		return httpError(err)
	}

	h.index(c, id)
	publish(c, h.Producer, "product_events", fmt.Sprint(id), map[string]any{
		"type":      "price_overridden",
		"productID": id,
		"price":     req.Price,
	})

	l.Info("price_overridden", "productID", id, "price", req.Price)
	return c.NoContent(http.StatusNoContent)
}

func (h *ProductHandler) index(c echo.Context, id uint) {
	if h.ES == nil {
		return
	}
	ctx := c.Request().Context()
	prod, err := h.Svc.GetProduct(ctx, id)
	if err != nil {
		return
	}
	if err := search.Index(ctx, h.ES, h.ESIndex, prod); err != nil {
		logging.FromContext(ctx).Error("es_index_failed", "productID", id, "error", err)
	}
}
