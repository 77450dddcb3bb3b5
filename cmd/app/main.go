package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"kanban_api/internal/config"
	"kanban_api/internal/db"
	httpServer "kanban_api/internal/http"
	"kanban_api/internal/http/handlers"
	"kanban_api/internal/http/middleware"
	"kanban_api/internal/logger"
	"kanban_api/internal/migrations"
	"kanban_api/internal/service"
	"kanban_api/internal/ws"

	"github.com/gin-gonic/gin"
)

var version = "dev"

func main() {
	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogJSON)
	gin.SetMode(gin.ReleaseMode)

	dbPool := db.Connect(cfg.DatabaseURL, db.PoolOptions{MinConns: cfg.DBPoolMin, MaxConns: cfg.DBPoolMax})
	defer dbPool.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if applied, err := migrations.Apply(ctx, dbPool); err != nil {
		logger.Fatal("migrations failed", "error", err)
	} else if len(applied) > 0 {
		logger.Info("schema migrated", "applied", applied)
	}

	rdb := middleware.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if rdb != nil {
		defer rdb.Close()
	}

	hub := ws.NewHub()
	var events service.Publisher = hub
	if rdb != nil {
		relay := ws.NewRedisRelay(rdb, hub)
		events = relay
		go func() { _ = relay.Run(ctx) }()
	}

	health := handlers.NewHealthHandler(dbPool, version)
	if rdb != nil {
		health.WithCheck("redis", func(ctx context.Context) error { return rdb.Ping(ctx).Err() })
	}

	tokens := service.NewTokenManager(cfg.JWTSecret, cfg.JWTExpiresIn)
	h := &handlers.Handler{
		Auth:    service.NewAuthService(dbPool, tokens),
		Boards:  service.NewBoardService(dbPool, events),
		Columns: service.NewColumnService(dbPool, events),
		Tasks:   service.NewTaskService(dbPool, events),
	}

	r := httpServer.NewRouter(httpServer.Deps{
		Handler:        h,
		Health:         health,
		Tokens:         tokens,
		Hub:            hub,
		Redis:          rdb,
		AllowedOrigins: cfg.AllowedOrigins,
		Limits: httpServer.Limits{
			AuthRequests:  cfg.AuthRateLimit,
			AuthWindow:    cfg.AuthRateWindow,
			WriteRequests: cfg.WriteRateLimit,
			WriteWindow:   cfg.WriteRateWindow,
		},
	})

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server started", "port", cfg.AppPort, "version", version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("listen failed", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server exited")
}
