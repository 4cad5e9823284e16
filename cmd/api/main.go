// Package main provides the entrypoint for the AirSentry API server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/airsentry/airsentry/internal/airquality"
	"github.com/airsentry/airsentry/internal/airquality/openmeteo"
	"github.com/airsentry/airsentry/internal/airquality/openweather"
	"github.com/airsentry/airsentry/internal/api"
	"github.com/airsentry/airsentry/internal/api/middleware"
	"github.com/airsentry/airsentry/internal/auth"
	"github.com/airsentry/airsentry/internal/city"
	"github.com/airsentry/airsentry/internal/database"
	"github.com/airsentry/airsentry/internal/history"
	"github.com/airsentry/airsentry/internal/provider/resilience"
	"github.com/airsentry/airsentry/internal/telemetry"
	"github.com/airsentry/airsentry/internal/user"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "airsentry-api"

	// Load .env if present; real deployments set the environment directly.
	_ = godotenv.Load()

	// Setup structured logging
	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting AirSentry API")

	// Get configuration from environment
	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	otlpEndpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if otlpEndpoint == "" {
		otlpEndpoint = "localhost:4317"
	}

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}

	// Initialize OpenTelemetry
	ctx := context.Background()
	telemetryEnabled := os.Getenv("OTEL_ENABLED") == "true"

	tp, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    serviceName,
		ServiceVersion: Version,
		Environment:    env,
		OTLPEndpoint:   otlpEndpoint,
		Enabled:        telemetryEnabled,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telemetry")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tp.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error().Err(shutdownErr).Msg("failed to shutdown telemetry")
		}
	}()

	if telemetryEnabled {
		log.Info().
			Str("otlp_endpoint", otlpEndpoint).
			Msg("OpenTelemetry initialized")
	}

	// Initialize metrics
	metrics, err := middleware.NewMetrics()
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize metrics")
		os.Exit(1) //nolint:gocritic // intentional exit, telemetry cleanup is best-effort
	}

	// Connect to database
	dbConfig := database.ConfigFromEnv()
	pool, err := database.Connect(ctx, dbConfig)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	log.Info().
		Str("host", dbConfig.Host).
		Int("port", dbConfig.Port).
		Str("database", dbConfig.Database).
		Msg("database connected")

	// City registry shared by every AQI surface
	cities := city.Default()

	// Provider clients with health tracking and request instruments
	providers := resilience.NewRegistry()
	providerMetrics, err := resilience.NewProviderMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize provider metrics")
	}

	owAPIKey := os.Getenv("OPENWEATHER_API_KEY")
	if owAPIKey == "" {
		log.Warn().Msg("OPENWEATHER_API_KEY not set - current AQI lookups will fail")
	}

	owClient := openweather.NewClient(openweather.ClientConfig{
		APIKey:   owAPIKey,
		Registry: providers,
		Metrics:  providerMetrics,
		Logger:   log,
	})
	omClient := openmeteo.NewClient(openmeteo.ClientConfig{
		Registry: providers,
		Metrics:  providerMetrics,
		Logger:   log,
	})

	// Initialize air quality service (current AQI + city views)
	aqService := airquality.NewService(airquality.ServiceConfig{
		Provider: owClient,
		Cities:   cities,
		Logger:   log,
	})
	log.Info().Msg("air quality service initialized")

	// Initialize history service (30-day EPA AQI pipeline)
	historyRepo := history.NewPostgresRepository(pool)
	historyService := history.NewService(history.ServiceConfig{
		Provider: omClient,
		Cities:   cities,
		Repo:     historyRepo,
		Logger:   log,
	})
	log.Info().Msg("history service initialized")

	// Initialize JWT service (get signing key from environment)
	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		jwtSigningKey = "local-dev-signing-key-change-in-production"
		log.Warn().Msg("using default JWT signing key - not secure for production")
	}

	jwtService := auth.NewJWTService(auth.JWTConfig{
		SigningKey: jwtSigningKey,
	})

	// Initialize auth service
	userRepo := user.NewPostgresRepository(pool)
	authService := auth.NewService(auth.ServiceConfig{
		Users:  userRepo,
		Cities: cities,
		JWT:    jwtService,
	})
	log.Info().Msg("auth service initialized")

	// Create router with configuration
	router := api.NewRouter(api.RouterConfig{
		Version:           Version,
		BuildTime:         BuildTime,
		Logger:            log,
		ServiceName:       serviceName,
		Metrics:           metrics,
		JWTService:        jwtService,
		AuthService:       authService,
		AirQualityService: aqService,
		HistoryService:    historyService,
		Providers:         providers,
		DB:                pool,
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("addr", server.Addr).
			Msg("server listening")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		os.Exit(1)
	}

	log.Info().Msg("server stopped")
}
