// Package api provides the HTTP API for AirSentry.
package api

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/airsentry/airsentry/internal/airquality"
	"github.com/airsentry/airsentry/internal/api/handler"
	"github.com/airsentry/airsentry/internal/api/middleware"
	"github.com/airsentry/airsentry/internal/auth"
	"github.com/airsentry/airsentry/internal/history"
	"github.com/airsentry/airsentry/internal/provider/resilience"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Version           string
	BuildTime         string
	Logger            zerolog.Logger
	ServiceName       string
	Metrics           *middleware.Metrics
	JWTService        *auth.JWTService
	AuthService       *auth.Service
	AirQualityService *airquality.Service
	HistoryService    *history.Service
	Providers         *resilience.Registry
	DB                handler.Pinger
}

// NewRouter creates a new chi router with all API routes configured.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "airsentry-api"
	}

	// Global middleware - order matters
	r.Use(middleware.RequestID)            // Generate/propagate request ID first
	r.Use(middleware.Tracing(serviceName)) // Distributed tracing
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware()) // HTTP metrics
	}
	r.Use(middleware.Logger(cfg.Logger))   // Structured logging
	r.Use(middleware.Recovery(cfg.Logger)) // Panic recovery
	r.Use(chimiddleware.RealIP)            // Real IP extraction
	r.Use(middleware.SecurityHeaders)      // Security headers (HSTS, CSP, etc.)
	r.Use(middleware.RequireTLS)           // TLS enforcement (enabled via REQUIRE_TLS=true)
	r.Use(middleware.ContentTypeJSON)      // JSON content type

	// Initialize handlers
	opsHandler := handler.NewOpsHandler(handler.OpsHandlerConfig{
		Version:   cfg.Version,
		BuildTime: cfg.BuildTime,
		Providers: cfg.Providers,
		DB:        cfg.DB,
	})
	authHandler := handler.NewAuthHandler(cfg.AuthService)
	aqiHandler := handler.NewAQIHandler(cfg.AirQualityService)
	citiesHandler := handler.NewCitiesHandler(cfg.AirQualityService)
	historyHandler := handler.NewHistoryHandler(cfg.HistoryService, cfg.Logger)

	// Create auth middleware
	authMiddleware := middleware.Auth(cfg.JWTService)

	// Rate limit middleware for different endpoint categories
	authRateLimit := middleware.RateLimitByIP(middleware.AuthRateLimit)         // 10 req/min
	standardRateLimit := middleware.RateLimitByIP(middleware.StandardRateLimit) // 100 req/min

	// API v1 routes
	r.Route("/v1", func(r chi.Router) {
		// Auth endpoints (public) - strict rate limiting
		r.Route("/auth", func(r chi.Router) {
			r.Use(authRateLimit) // 10 requests per minute per IP
			r.Post("/signup", authHandler.Signup)
			r.Post("/login", authHandler.Login)
		})

		// Ops endpoints (public)
		r.Route("/ops", func(r chi.Router) {
			r.Get("/health", opsHandler.HealthCheck)
			r.Get("/ready", opsHandler.ReadinessCheck)
			// Status endpoint requires authentication
			r.With(authMiddleware).Get("/status", opsHandler.SystemStatus)
		})

		// Current AQI endpoints (public) - standard rate limiting
		r.With(standardRateLimit).Get("/aqi", aqiHandler.GetAQI)
		r.With(standardRateLimit).Get("/cities", citiesHandler.ListCities)

		// History endpoints
		r.Route("/history", func(r chi.Router) {
			// Backfill hammers the provider for every city; authenticated
			// and strictly rate limited.
			r.With(authMiddleware, middleware.RateLimitByUser(middleware.ExpensiveRateLimit)).
				Post("/backfill", historyHandler.RunBackfill)
			r.With(standardRateLimit).Get("/city", historyHandler.GetCityHistory)
		})
	})

	return r
}
