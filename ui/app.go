package ui

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"gonomo/app"
	"gonomo/internal"
	"gonomo/internal/metrics"
	"gonomo/internal/session"
)

// DefaultMaxUploadBytes bounds replacement dataset uploads
const DefaultMaxUploadBytes = 32 << 20

// App represents the dashboard HTTP application
type App struct {
	router    *chi.Mux
	config    Config
	service   *app.DashboardService
	sessions  *session.Store
	sources   *app.SourceCache
	metrics   *metrics.Pipeline
	gatherer  prometheus.Gatherer
	templates *template.Template
	logger    *internal.Logger
}

// Config holds UI application configuration
type Config struct {
	Port           string
	MaxUploadBytes int64
}

// Deps are the collaborators the application serves from
type Deps struct {
	Service  *app.DashboardService
	Sessions *session.Store
	Sources  *app.SourceCache
	Metrics  *metrics.Pipeline
	Gatherer prometheus.Gatherer // nil selects the default gatherer
	Logger   *internal.Logger
}

// NewApp creates the dashboard application
func NewApp(config Config, deps Deps) (*App, error) {
	if deps.Service == nil || deps.Sessions == nil || deps.Sources == nil {
		return nil, errors.New("ui: service, session store and source cache are required")
	}
	if config.MaxUploadBytes <= 0 {
		config.MaxUploadBytes = DefaultMaxUploadBytes
	}
	if deps.Gatherer == nil {
		deps.Gatherer = prometheus.DefaultGatherer
	}
	if deps.Logger == nil {
		deps.Logger = internal.DefaultLogger
	}

	templates, err := parseTemplates()
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	a := &App{
		router:    chi.NewRouter(),
		config:    config,
		service:   deps.Service,
		sessions:  deps.Sessions,
		sources:   deps.Sources,
		metrics:   deps.Metrics,
		gatherer:  deps.Gatherer,
		templates: templates,
		logger:    deps.Logger,
	}

	a.setupMiddleware()
	a.setupRoutes()

	return a, nil
}

// setupMiddleware configures HTTP middleware
func (a *App) setupMiddleware() {
	a.router.Use(middleware.RequestID)
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Compress(5))
}

// setupRoutes configures the application routes
func (a *App) setupRoutes() {
	a.router.Get("/", a.handleIndex)
	a.router.Get("/healthz", a.handleHealth)
	a.router.Handle("/metrics", promhttp.HandlerFor(a.gatherer, promhttp.HandlerOpts{}))

	a.router.Route("/api", func(r chi.Router) {
		r.Get("/filters", a.handleFilterOptions)
		r.Post("/dataset/upload", a.handleDatasetUpload)

		r.Post("/sessions", a.handleCreateSession)
		r.Route("/sessions/{id}", func(r chi.Router) {
			r.Get("/", a.handleGetSession)
			r.Delete("/", a.handleDeleteSession)
			r.Put("/filters", a.handleSetFilters)
			r.Get("/results", a.handleResults)
			r.Get("/charts", a.handleCharts)
			r.Get("/report", a.handleReport)
			r.Get("/export/table.csv", a.handleExportTable)
			r.Get("/export/recommendations.txt", a.handleExportRecommendations)
		})
	})
}

// Handler returns the application's HTTP handler
func (a *App) Handler() http.Handler {
	return a.router
}

// Start serves until ctx is cancelled, then shuts down gracefully
func (a *App) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              ":" + a.config.Port,
		Handler:           a.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("Starting gonomo dashboard on %s", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		a.logger.Info("Shutting down gonomo dashboard")
		return srv.Shutdown(shutdownCtx)
	}
}
