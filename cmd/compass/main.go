package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/MikeSquared-Agency/Compass/internal/api"
	"github.com/MikeSquared-Agency/Compass/internal/config"
	"github.com/MikeSquared-Agency/Compass/internal/engine"
	"github.com/MikeSquared-Agency/Compass/internal/events"
	"github.com/MikeSquared-Agency/Compass/internal/insight"
	"github.com/MikeSquared-Agency/Compass/internal/scoring"
	"github.com/MikeSquared-Agency/Compass/internal/store"
)

func main() {
	_ = godotenv.Load()

	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	logLevel := slog.LevelInfo
	if os.Getenv("COMPASS_LOG_LEVEL") == "debug" {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Database
	db, err := store.NewPostgresStore(ctx, cfg.Database.URL)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	logger.Info("connected to database")

	// Events (optional)
	var eventsClient events.Client
	if cfg.Events.URL != "" {
		ec, err := events.NewNATSClient(ctx, cfg.Events.URL, logger)
		if err != nil {
			logger.Warn("failed to connect to nats, running without events", "error", err)
		} else {
			eventsClient = ec
			defer ec.Close()
			logger.Info("connected to nats")
		}
	}

	// Insight (optional)
	var insightClient insight.Client
	if cfg.Insight.URL != "" {
		insightClient = insight.NewHTTPClient(cfg.Insight.URL, cfg.InsightTimeout())
		logger.Info("insight enrichment enabled", "url", cfg.Insight.URL)
	}

	// Rescore engine
	var eng *engine.Engine
	if cfg.Engine.Enabled {
		eng = engine.New(db, eventsClient, insightClient, cfg, logger)
		eng.Start(ctx)
		defer eng.Stop()
		eng.SetupSubscriptions()
		logger.Info("engine started", "sweep_interval", cfg.SweepInterval())
	}

	// Request-path scorer
	scorer := scoring.NewScorer(cfg.Policy(), cfg.Scoring.FrontierEnabled, logger)

	// API server
	router := api.NewRouter(db, eventsClient, eng, scorer, cfg.Server.AdminToken, logger)
	apiServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	// Metrics server
	metricsRouter := api.NewMetricsRouter()
	metricsServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.MetricsPort),
		Handler: metricsRouter,
	}

	go func() {
		logger.Info("API server starting", "port", cfg.Server.Port)
		if err := apiServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("API server error", "error", err)
		}
	}()

	go func() {
		logger.Info("metrics server starting", "port", cfg.Server.MetricsPort)
		if err := metricsServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("metrics server error", "error", err)
		}
	}()

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info("shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	_ = apiServer.Shutdown(shutdownCtx)
	_ = metricsServer.Shutdown(shutdownCtx)

	logger.Info("shutdown complete")
}
