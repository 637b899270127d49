package httpserver

import (
	"github.com/labstack/echo/v4"

	"github.com/ospanov/bar-exchange/internal/handlers"
	"github.com/ospanov/bar-exchange/internal/service/token"
)

type Deps struct {
	ProductHandler *handlers.ProductHandler
	TableHandler   *handlers.TableHandler
	MarketHandler  *handlers.MarketHandler
	AuthHandler    *handlers.AuthHandler
	SearchHandler  *handlers.SearchHandler
	Tokens         *token.TokenService
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(200) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(200) })

	v1 := e.Group("/api/v1")

	v1.POST("/login", d.AuthHandler.Login)

	v1.GET("/products", d.ProductHandler.GetProducts)
	v1.GET("/products/:id", d.ProductHandler.GetProduct)
	v1.GET("/board", d.ProductHandler.Board)

	v1.GET("/tables", d.TableHandler.GetTables)
	v1.GET("/tables/:id/bill", d.TableHandler.GetBill)
	v1.POST("/tables/:id/orders", d.TableHandler.SubmitOrder)
	v1.DELETE("/tables/:id/orders", d.TableHandler.ClearTable)

	v1.GET("/market/status", d.MarketHandler.Status)

	if d.SearchHandler != nil {
		v1.GET("/search", d.SearchHandler.Search)
	}

	admin := v1.Group("/admin", d.Tokens.AdminOnly)

	admin.POST("/products", d.ProductHandler.CreateProduct)
	admin.PATCH("/products/:id/price", d.ProductHandler.SetPrice)
	admin.POST("/tables", d.TableHandler.CreateTable)
	admin.POST("/market/freeze", d.MarketHandler.StartFreeze)
	admin.DELETE("/market/freeze", d.MarketHandler.StopFreeze)
}
