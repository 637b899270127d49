package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/ospanov/bar-exchange/internal/config"
	"github.com/ospanov/bar-exchange/internal/es"
	"github.com/ospanov/bar-exchange/internal/handlers"
	"github.com/ospanov/bar-exchange/internal/logging"
	"github.com/ospanov/bar-exchange/internal/mykafka"
	"github.com/ospanov/bar-exchange/internal/pricing"
	"github.com/ospanov/bar-exchange/internal/repo"
	"github.com/ospanov/bar-exchange/internal/service"
	"github.com/ospanov/bar-exchange/internal/service/token"
	httpserver "github.com/ospanov/bar-exchange/internal/transport/http"
	"github.com/ospanov/bar-exchange/pkg/db"
)

func main() {
	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(configuration.LOG_LEVEL)
	slog.SetDefault(logger)

	ctx := context.Background()

	database, err := db.Open(ctx, configuration)
	if err != nil {
		logger.Error("db open failed", "error", err)
		os.Exit(1)
	}
	if err := db.Migrate(database); err != nil {
		logger.Error("db migrate failed", "error", err)
		os.Exit(1)
	}
	if err := db.Seed(database, configuration); err != nil {
		logger.Error("db seed failed", "error", err)
		os.Exit(1)
	}

	var producer *mykafka.Producer
	if configuration.KAFKA_ADDRESS != "" {
		producer, err = mykafka.NewProducer([]string{configuration.KAFKA_ADDRESS})
		if err != nil {
			logger.Error("kafka producer failed", "error", err)
			os.Exit(1)
		}
	}

	var esClient *elasticsearch.Client
	if configuration.ES_URL != "" {
		esClient, err = es.NewClient(configuration)
		if err != nil {
			logger.Error("elasticsearch client failed", "error", err)
			os.Exit(1)
		}
	}

	gormRepo := &repo.GormRepo{DB: database}
	engine := &pricing.Engine{DB: database, FixedPrices: configuration.FixedPrices}
	market := &service.MarketService{Repo: gormRepo, Engine: engine}
	tokens := &token.TokenService{JWTSecret: []byte(configuration.JWT_SECRET)}

	e := echo.New()
	e.HideBanner = true
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			c.SetRequest(req.WithContext(logging.IntoContext(req.Context(), logger)))
			return next(c)
		}
	})

	deps := httpserver.Deps{
		ProductHandler: &handlers.ProductHandler{Svc: market, Producer: producer, ES: esClient, ESIndex: "product"},
		TableHandler:   &handlers.TableHandler{Svc: market, Producer: producer},
		MarketHandler:  &handlers.MarketHandler{Svc: market, Producer: producer},
		AuthHandler:    &handlers.AuthHandler{DB: database, Tokens: tokens},
		Tokens:         tokens,
	}
	if esClient != nil {
		deps.SearchHandler = &handlers.SearchHandler{ES: esClient, Index: "product"}
	}

	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         configuration.HTTP_ADDR,
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("listening", "addr", configuration.HTTP_ADDR)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if sqlDB, err := database.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			logger.Error("db close error", "error", err)
		}
	}

	if err := producer.Close(); err != nil {
		logger.Error("kafka close error", "error", err)
	}

	logger.Info("shutdown complete")
}
