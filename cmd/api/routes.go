package main

import (
	"log"
	"net/http"

	"driverfinance/internal/shared/config"
	"driverfinance/internal/shared/middleware"
)

const apiPrefix = "/api/v1"

// SetupRoutes configures all HTTP routes and returns the final handler with middleware.
func SetupRoutes(deps *Dependencies, cfg *config.Config) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", deps.HealthHandler.HandleHealth)

	// Public auth routes
	public := func(h http.HandlerFunc) http.Handler { return h }
	if cfg.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
		public = func(h http.HandlerFunc) http.Handler { return limiter.Middleware(h) }
		log.Printf("Rate limiting auth routes at %.1f req/s (burst %d)", cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	}
	mux.Handle(apiPrefix+"/auth/signup", public(deps.AuthHandler.HandleSignup))
	mux.Handle(apiPrefix+"/auth/login", public(deps.AuthHandler.HandleLogin))

	// Protected routes
	authMiddleware := middleware.Auth(deps.Users)
	protected := func(h http.HandlerFunc) http.Handler { return authMiddleware(h) }

	mux.Handle(apiPrefix+"/auth/me", protected(deps.UserHandler.HandleMe))
	mux.Handle(apiPrefix+"/users/me", protected(deps.UserHandler.HandleMe))
	mux.Handle(apiPrefix+"/users/{id}", protected(deps.UserHandler.HandleByID))

	mux.Handle(apiPrefix+"/categories/", protected(deps.CategoryHandler.HandleCategories))
	mux.Handle(apiPrefix+"/categories/{id}", protected(deps.CategoryHandler.HandleCategoryByID))

	mux.Handle(apiPrefix+"/transactions/", protected(deps.TransactionHandler.HandleTransactions))
	mux.Handle(apiPrefix+"/transactions/summary", protected(deps.TransactionHandler.HandleSummary))
	mux.Handle(apiPrefix+"/transactions/{id}", protected(deps.TransactionHandler.HandleTransactionByID))

	mux.Handle(apiPrefix+"/analytics/daily", protected(deps.AnalyticsHandler.HandleDaily))
	mux.Handle(apiPrefix+"/analytics/monthly", protected(deps.AnalyticsHandler.HandleMonthly))
	mux.Handle(apiPrefix+"/analytics/monthly/trend", protected(deps.AnalyticsHandler.HandleMonthlyTrend))
	mux.Handle(apiPrefix+"/analytics/category-breakdown", protected(deps.AnalyticsHandler.HandleCategoryBreakdown))
	mux.Handle(apiPrefix+"/analytics/fuel", protected(deps.AnalyticsHandler.HandleFuel))
	mux.Handle(apiPrefix+"/analytics/summary", protected(deps.AnalyticsHandler.HandleSummary))

	// Apply global middleware
	handler := middleware.RequestID(middleware.Logging(middleware.CORS(cfg.Server.AllowedHosts)(middleware.CaptureRoute(mux))))
	if cfg.Telemetry.Enabled {
		handler = middleware.Telemetry(cfg.Telemetry.ServiceName)(middleware.Tracing(handler))
	}

	if cfg.TLS.Enabled {
		handler = middleware.HSTS(handler)
		log.Println("TLS security middleware enabled (HSTS)")
	}

	return handler
}
