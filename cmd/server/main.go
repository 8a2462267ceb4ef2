package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/coastwatch/broadcast-engine/internal/broadcast"
	"github.com/coastwatch/broadcast-engine/internal/config"
	"github.com/coastwatch/broadcast-engine/internal/events"
	"github.com/coastwatch/broadcast-engine/internal/handlers"
	"github.com/coastwatch/broadcast-engine/internal/metrics"
	"github.com/coastwatch/broadcast-engine/internal/realtime"
	"github.com/coastwatch/broadcast-engine/internal/scheduler"
	"github.com/coastwatch/broadcast-engine/internal/store"
	"github.com/coastwatch/broadcast-engine/internal/template"
	"github.com/coastwatch/broadcast-engine/internal/zone"
)

const (
	serviceName = "broadcast-engine"
	version     = "1.0.0"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger := setupLogging(cfg)
	logger.Info("Starting Civil Defence Broadcast Engine",
		"service", serviceName,
		"version", version,
		"environment", cfg.Environment)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Core components
	alertStore := store.NewAlertStore()
	logStore := store.NewLogStore()
	templateEngine := template.NewEngine(logger)
	zoneRegistry := zone.NewRegistry(logger)

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	collector := metrics.NewCollector(registry)

	// Optional integrations
	var publisher *events.Publisher
	if cfg.Kafka.Enabled {
		publisher = events.NewPublisher(cfg.Kafka, logger)
		defer func() {
			if err := publisher.Close(); err != nil {
				logger.Error("Failed to close event publisher", "error", err)
			}
		}()
	}

	var hub *realtime.Hub
	var wg sync.WaitGroup
	if cfg.Realtime.Enabled {
		hub = realtime.NewHub(logger, cfg.Realtime.SendBufferSize)
		wg.Add(1)
		go func() {
			defer wg.Done()
			hub.Run(ctx)
		}()
	}

	// Alert management service
	svc := broadcast.NewService(cfg, logger, alertStore, logStore, templateEngine, collector, publisher, hub)

	// Scheduled-broadcast and expiry sweeps
	var taskScheduler *scheduler.Scheduler
	if cfg.Scheduler.Enabled {
		taskScheduler = scheduler.NewScheduler(cfg, logger, svc)
		if err := taskScheduler.Start(ctx); err != nil {
			logger.Error("Failed to start scheduler", "error", err)
			os.Exit(1)
		}
	}

	// HTTP API
	httpHandlers := handlers.NewHTTPHandler(cfg, logger, svc, zoneRegistry, hub)
	router := mux.NewRouter()
	httpHandlers.RegisterRoutes(router)
	router.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		logger.Info("Starting HTTP server", "port", cfg.Server.HTTPPort)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server failed", "error", err)
			cancel()
		}
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info("Received shutdown signal", "signal", sig)
	case <-ctx.Done():
		logger.Info("Context cancelled, shutting down")
	}

	logger.Info("Shutting down services...")
	cancel()

	if taskScheduler != nil {
		taskScheduler.Stop()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("Failed to shutdown HTTP server gracefully", "error", err)
	}

	wg.Wait()
	logger.Info("Service shutdown complete")
}

// setupLogging configures structured logging
func setupLogging(cfg *config.Config) *slog.Logger {
	logLevel := slog.LevelInfo
	if cfg.Debug {
		logLevel = slog.LevelDebug
	}

	handlerOptions := &slog.HandlerOptions{
		Level:     logLevel,
		AddSource: cfg.Debug,
	}

	var handler slog.Handler
	if cfg.Environment == "production" {
		handler = slog.NewJSONHandler(os.Stdout, handlerOptions)
	} else {
		handler = slog.NewTextHandler(os.Stdout, handlerOptions)
	}

	logger := slog.New(handler)
	logger = logger.With(
		"service", serviceName,
		"version", version,
		"environment", cfg.Environment,
	)

	slog.SetDefault(logger)
	return logger
}
