package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/riarumoda/hjslamet-frontend/internal/cart"
	"github.com/riarumoda/hjslamet-frontend/internal/clientstore"
	"github.com/riarumoda/hjslamet-frontend/internal/config"
	"github.com/riarumoda/hjslamet-frontend/internal/events"
	"github.com/riarumoda/hjslamet-frontend/internal/gateway"
	"github.com/riarumoda/hjslamet-frontend/internal/httpserver"
	"github.com/riarumoda/hjslamet-frontend/internal/logging"
	"github.com/riarumoda/hjslamet-frontend/internal/session"
	"github.com/riarumoda/hjslamet-frontend/internal/token"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	config.MustNonEmpty(cfg.APIBaseURL, "API_BASE_URL")

	logger := logging.New(cfg.LogLevel)

	store, err := clientstore.Open(cfg.ClientStatePath)
	if err != nil {
		log.Fatalf("open client store: %v", err)
	}

	api := gateway.NewClient(cfg.APIBaseURL)
	tokens := token.NewManager(api)
	producer := events.NewProducer(cfg.KafkaBrokers, logger)

	ctrl := session.New(session.Deps{
		Store:  store,
		API:    api,
		Tokens: tokens,
		Events: producer,
		Log:    logger,
		Navigate: func(path string) {
			logger.Info("navigate", "path", path)
		},
		Notify: func(message string) {
			logger.Info("notice", "message", message)
		},
	})
	defer ctrl.Close()

	cartStore, err := cart.New(store, producer, logger)
	if err != nil {
		log.Fatalf("load cart: %v", err)
	}

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())

	httpserver.Register(e, &httpserver.Deps{
		Session: ctrl,
		Cart:    cartStore,
		Log:     logger,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}
	if err := store.Close(); err != nil {
		logger.Error("client store close error", "error", err)
	}
	if err := producer.Close(); err != nil {
		logger.Error("kafka close error", "error", err)
	}

	logger.Info("shutdown complete")
}
