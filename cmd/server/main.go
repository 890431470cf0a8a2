package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/news-crud-lab/internal/api"
	"github.com/news-crud-lab/internal/config"
	"github.com/news-crud-lab/internal/events"
	"github.com/news-crud-lab/internal/metrics"
	"github.com/news-crud-lab/internal/newsapi"
	"github.com/news-crud-lab/internal/service"
	"github.com/news-crud-lab/pkg/logger"
)

const (
	serviceName = "news-crud-lab"
	version     = "1.0.0"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log := logger.New("info", "json")
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Initialize logger
	log := logger.New(cfg.Log.Level, cfg.Log.Format)
	log.Info().Msg("Starting News CRUD Lab server...")

	metrics.Init(serviceName, version, os.Getenv("ENV"))

	// Outbound headlines client
	client := newsapi.NewClient(cfg.News)

	// Store event fan-out: SSE broker always, NATS when configured
	broker := events.NewBroker(16)
	publishers := []events.Publisher{broker}

	if cfg.Events.NATSURL != "" {
		natsPub, err := events.NewNATSPublisher(cfg.Events.NATSURL, cfg.Events.Subject, log)
		if err != nil {
			log.Fatal().Err(err).Str("url", cfg.Events.NATSURL).Msg("Failed to connect to NATS")
		}
		defer natsPub.Close()
		publishers = append(publishers, natsPub)
		log.Info().Str("subject", cfg.Events.Subject).Msg("Publishing store events to NATS")
	}

	// Initialize services
	services := service.NewServices(client, cfg, log, publishers...)

	// Start idle session sweeper
	go services.Sessions.StartSweeper(context.Background())
	log.Info().Msg("Session sweeper started")

	// Initialize router
	router := api.NewRouter(services, broker, cfg, log)

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.ReadTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	// Closing sessions ends their event streams, so Shutdown is not held open by SSE clients
	services.Sessions.Shutdown()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
		return
	}

	log.Info().Msg("Server exited gracefully")
}
