package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/homefix/marketplace/docs"
	"github.com/homefix/marketplace/internal/api/handler"
	"github.com/homefix/marketplace/internal/api/middleware"
	"github.com/homefix/marketplace/internal/core/domain"
	"github.com/homefix/marketplace/internal/core/ports"
)

// Deps are the collaborators the HTTP layer needs.
type Deps struct {
	AuthService ports.AuthService
	JWTSecret   string
	// Health lists the dependencies checked by /health/ready, keyed by name.
	Health map[string]handler.Pinger
	Log    zerolog.Logger
	// Registerer and Gatherer default to the global Prometheus registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	if d.Registerer == nil {
		d.Registerer = prometheus.DefaultRegisterer
	}
	if d.Gatherer == nil {
		d.Gatherer = prometheus.DefaultGatherer
	}

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "marketplace",
		Registerer: d.Registerer,
	}))

	authHandler := handler.NewAuthHandler(d.AuthService)

	// --- Auth routes ---
	auth := e.Group("/auth")
	auth.POST("/signup/customer", authHandler.RegisterCustomer)
	auth.POST("/signup/company", authHandler.RegisterCompany)
	auth.POST("/login", authHandler.Login)
	auth.GET("/fields-of-work", authHandler.FieldsOfWork)

	// --- Authenticated routes ---
	v1 := e.Group("/v1", middleware.Auth(d.JWTSecret))
	v1.GET("/me", authHandler.Me, middleware.RBAC(domain.RoleCustomer, domain.RoleCompany))

	// --- Health probes, metrics and docs (no auth required) ---
	healthHandler := handler.NewHealthHandler(d.Health)
	e.GET("/health", healthHandler.Liveness)        // liveness
	e.GET("/health/ready", healthHandler.Readiness) // readiness: mongo, redis
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: d.Gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

// requestLogger writes one zerolog line per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			evt := log.Info()
			if v.Status >= 500 {
				evt = log.Error().Err(v.Error)
			}
			evt.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
