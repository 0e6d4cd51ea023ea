package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"

	"storefeatures/internal/config"
	apperrors "storefeatures/internal/errors"
	"storefeatures/internal/infrastructure"
	customMiddleware "storefeatures/internal/middleware"
	"storefeatures/internal/operations"
	"storefeatures/internal/services"
	handlers "storefeatures/internal/transport/http"
	"storefeatures/pkg/contracts"
)

// Application represents the main application container
type Application struct {
	Config        *config.Config
	Router        *chi.Mux
	Server        *http.Server
	Logger        *slog.Logger
	Services      *ServiceContainer
	OTelProviders *infrastructure.OTelProviders
	Metrics       *infrastructure.PipelineMetrics
}

// ServiceContainer holds all application services
type ServiceContainer struct {
	Features *services.FeatureService
	Health   *services.HealthService
}

// New wires telemetry, services, the router and the HTTP server. It starts
// nothing; call Run to serve.
func New(cfg *config.Config, logger *slog.Logger) (*Application, error) {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}

	providers, err := infrastructure.InitializeOTel(infrastructure.OTelConfigFrom(cfg.Telemetry), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	metrics, err := infrastructure.NewPipelineMetrics(providers.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create pipeline metrics: %w", err)
	}

	app := &Application{
		Config:        cfg,
		Logger:        logger,
		OTelProviders: providers,
		Metrics:       metrics,
	}

	tracer := operations.NewOperationTracer(providers, metrics)
	app.Services = &ServiceContainer{
		Features: services.NewFeatureService(cfg, tracer, metrics, logger),
		Health:   services.NewHealthService(logger),
	}

	app.setupRouter()
	app.createServer()
	return app, nil
}

// setupRouter configures the Chi router with all routes and middleware
func (a *Application) setupRouter() {
	r := chi.NewRouter()

	errorHandler := apperrors.NewErrorHandler(a.Logger, false)
	errorMiddleware := apperrors.NewErrorMiddleware(errorHandler, a.Logger)
	telemetry := customMiddleware.NewTelemetry(a.OTelProviders, a.Metrics)

	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)
	r.Use(telemetry.Handler)
	r.Use(errorMiddleware.Handler)
	r.Use(customMiddleware.SecurityHeaders)

	r.NotFound(errorHandler.NotFound)
	r.MethodNotAllowed(errorHandler.MethodNotAllowed)

	if a.OTelProviders.PrometheusHTTP != nil {
		r.Handle("/metrics", a.OTelProviders.PrometheusHTTP)
	}

	healthHandler := handlers.NewHealthHandler(a.Services.Health, a.Logger)
	featureHandler := handlers.NewFeatureHandler(
		a.Services.Features,
		a.Config.Input.DelimiterRune(),
		a.Config.Server.MaxUploadBytes,
		a.Logger,
		errorHandler,
	)

	r.Route("/api", func(r chi.Router) {
		r.Mount("/", healthHandler.Routes())

		r.Group(func(r chi.Router) {
			if rl := a.Config.Server.RateLimit; rl.Enabled {
				r.Use(customMiddleware.NewRateLimiter(rl.RPS, rl.Burst, errorHandler, a.Logger).Handler)
			}
			r.Use(customMiddleware.Timeout(a.Config.Server.WriteTimeout))
			r.Mount("/"+contracts.APIVersion+"/features", featureHandler.Routes())
		})
	})

	a.Router = r
}

// createServer creates the HTTP server
func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:         a.Config.Server.Addr,
		Handler:      a.Router,
		ReadTimeout:  a.Config.Server.ReadTimeout,
		WriteTimeout: a.Config.Server.WriteTimeout,
	}
}

// Run serves on the configured address until ctx is cancelled or the
// server fails, then shuts down gracefully
func (a *Application) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", a.Server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", a.Server.Addr, err)
	}
	return a.Serve(ctx, ln)
}

// Serve is Run on an existing listener
func (a *Application) Serve(ctx context.Context, ln net.Listener) error {
	a.Logger.InfoContext(ctx, "starting server",
		slog.String("version", contracts.Version),
		slog.String("address", ln.Addr().String()),
		slog.String("level", a.Config.Logging.Level))

	serveErr := make(chan error, 1)
	go func() {
		if err := a.Server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			a.Logger.ErrorContext(ctx, "server error", slog.String("error", err.Error()))
			a.shutdownTelemetry(context.Background())
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
		a.Logger.InfoContext(ctx, "shutdown requested")
	}

	return a.Stop(context.Background())
}

// Stop gracefully stops the application
func (a *Application) Stop(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}
	a.shutdownTelemetry(shutdownCtx)

	a.Logger.InfoContext(ctx, "application shutdown complete")
	return nil
}

func (a *Application) shutdownTelemetry(ctx context.Context) {
	if a.OTelProviders == nil {
		return
	}
	if err := a.OTelProviders.Shutdown(ctx); err != nil {
		a.Logger.ErrorContext(ctx, "error shutting down OpenTelemetry", slog.String("error", err.Error()))
	}
}
