// Horario timetabling engine service.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/paiban/horario/internal/config"
	"github.com/paiban/horario/internal/handler"
	"github.com/paiban/horario/internal/metrics"
	"github.com/paiban/horario/internal/middleware"
	"github.com/paiban/horario/internal/realtime"
	"github.com/paiban/horario/internal/store"
	"github.com/paiban/horario/pkg/logger"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(logger.Config{Level: cfg.Log.Level, Format: pickFormat(cfg.Log.Pretty)})

	logger.Info().
		Str("version", Version).
		Str("build_time", BuildTime).
		Str("git_commit", GitCommit).
		Str("env", cfg.Env).
		Msg("starting horario engine service")

	var runStore *store.RunStore
	if db, err := store.NewPostgres(cfg.Database); err != nil {
		logger.Warn().Err(err).Msg("runs store unavailable, continuing without run persistence")
	} else {
		runStore = store.NewRunStore(db)
	}

	var publisherFactory func(uuid.UUID) *realtime.Publisher
	if client, err := realtime.NewRedis(cfg.Redis); err != nil {
		logger.Warn().Err(err).Msg("redis unavailable, continuing without progress fan-out")
	} else {
		publisherFactory = func(runID uuid.UUID) *realtime.Publisher {
			return realtime.NewPublisher(client, runID)
		}
	}

	reg := metrics.NewRegistry()

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.Metrics(reg))

	engine.GET("/healthz", handler.Health)
	if cfg.Metrics.Enabled {
		engine.GET(cfg.Metrics.Path, gin.WrapH(reg.Handler()))
	}

	solveHandler := handler.NewSolveHandler(cfg.Engine, runStore, reg, publisherFactory)
	constraintsHandler := handler.NewConstraintsHandler()
	auditHandler := handler.NewAuditHandler()

	v1 := engine.Group("/api/v1")
	{
		v1.POST("/solve", solveHandler.Solve)
		v1.POST("/audit", auditHandler.Audit)
		v1.GET("/constraints", constraintsHandler.List)
	}

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      engine,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info().
			Int("port", cfg.Port).
			Str("url", fmt.Sprintf("http://localhost:%d", cfg.Port)).
			Msg("server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("server failed to start")
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("server shutdown failed")
		os.Exit(1)
	}

	logger.Info().Msg("server shut down cleanly")
}

func pickFormat(pretty bool) string {
	if pretty {
		return "console"
	}
	return "json"
}
