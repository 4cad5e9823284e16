// Package main provides the entrypoint for the AirSentry alert worker.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/airsentry/airsentry/internal/airquality"
	"github.com/airsentry/airsentry/internal/airquality/openweather"
	"github.com/airsentry/airsentry/internal/alert"
	"github.com/airsentry/airsentry/internal/city"
	"github.com/airsentry/airsentry/internal/database"
	"github.com/airsentry/airsentry/internal/notification"
	"github.com/airsentry/airsentry/internal/provider/resilience"
	"github.com/airsentry/airsentry/internal/user"
	"github.com/airsentry/airsentry/internal/worker"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "airsentry-worker"

	_ = godotenv.Load()

	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting AirSentry worker")

	// Worker also exposes a health endpoint for container orchestration.
	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	ctx := context.Background()

	// Connect to database
	dbConfig := database.ConfigFromEnv()
	pool, err := database.Connect(ctx, dbConfig)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	log.Info().
		Str("host", dbConfig.Host).
		Str("database", dbConfig.Database).
		Msg("database connected")

	// Provider client for per-city current AQI
	owAPIKey := os.Getenv("OPENWEATHER_API_KEY")
	if owAPIKey == "" {
		log.Warn().Msg("OPENWEATHER_API_KEY not set - alert passes will fail")
	}

	providers := resilience.NewRegistry()
	providerMetrics, err := resilience.NewProviderMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize provider metrics")
	}

	owClient := openweather.NewClient(openweather.ClientConfig{
		APIKey:   owAPIKey,
		Registry: providers,
		Metrics:  providerMetrics,
		Logger:   log,
	})

	aqService := airquality.NewService(airquality.ServiceConfig{
		Provider: owClient,
		Cities:   city.Default(),
		Logger:   log,
	})

	// Email notifier; an unconfigured SMTP setup logs and skips delivery
	smtpConfig := notification.ConfigFromEnv()
	notifier := notification.NewEmailNotifier(smtpConfig, log)
	if !notifier.Configured() {
		log.Warn().Msg("SMTP credentials not set - alert emails will be skipped")
	}

	// Alert job over the subscribed users
	alertJob := alert.NewJob(alert.JobConfig{
		Users:    user.NewPostgresRepository(pool),
		Provider: aqService,
		Notifier: notifier,
		Logger:   log,
	})

	// Scheduler serializes the daily and change-detection passes
	scheduler := worker.NewScheduler(worker.SchedulerConfig{
		Alerts: alertJob,
		Logger: log,
	})
	if err := scheduler.Start(); err != nil {
		log.Fatal().Err(err).Msg("failed to start scheduler")
	}
	log.Info().
		Str("daily", worker.DailySchedule).
		Str("change_detection", worker.ChangeSchedule).
		Msg("alert scheduler started")

	// Health check server
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"status":"healthy","version":"%s"}`, Version)
	})

	server := &http.Server{
		Addr:         ":" + port,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("health server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("health server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down worker")

	scheduler.Stop()
	alertJob.Wait()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("health server forced to shutdown")
	}

	log.Info().Msg("worker stopped")
}
