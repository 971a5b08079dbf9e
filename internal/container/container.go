// Package container wires the configured application components together.
package container

import (
	"context"
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"

	"gonomo/adapters/excel"
	"gonomo/app"
	"gonomo/domain/dataset"
	"gonomo/internal"
	"gonomo/internal/analysis"
	"gonomo/internal/charts"
	"gonomo/internal/config"
	"gonomo/internal/errors"
	"gonomo/internal/metrics"
	"gonomo/internal/session"
	"gonomo/ui"
)

// Container holds all application dependencies
type Container struct {
	Config *config.Config
	Logger *internal.Logger

	Registry *prometheus.Registry
	Metrics  *metrics.Pipeline

	Service *app.DashboardService
	Sources *app.SourceCache
}

// New creates the container. Metrics go to a private registry so that
// several containers can coexist in one process.
func New(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	logger := internal.NewLoggerWithWriter(internal.ParseLogLevel(cfg.Logging.Level), os.Stderr, cfg.Logging.Format)
	registry := prometheus.NewRegistry()
	m := metrics.NewPipelineWithRegistry(registry)

	options := analysis.Options{Alpha: cfg.Analysis.Alpha, Correction: cfg.Analysis.Correction}
	explorer := charts.Explorer{X: cfg.Analysis.ExplorerX, Y: cfg.Analysis.ExplorerY, Color: cfg.Analysis.ExplorerColor}

	return &Container{
		Config:   cfg,
		Logger:   logger,
		Registry: registry,
		Metrics:  m,
		Service:  app.NewDashboardService(options, explorer, m, logger),
		Sources:  app.NewSourceCache(app.DefaultCacheEntries, m, logger),
	}, nil
}

// Reader returns a reader for the configured data file
func (c *Container) Reader() *excel.DataReader {
	return excel.NewDataReader(c.Config.Data.File, dataset.SurveySchema()).
		WithSheet(c.Config.Data.Sheet).
		WithLogger(c.Logger)
}

// LoadDataset loads the configured data file through the source cache
func (c *Container) LoadDataset(ctx context.Context) (*app.LoadedSource, error) {
	loaded, err := c.Sources.Load(ctx, c.Reader())
	if err != nil {
		return nil, errors.DataSource(c.Config.Data.File, err)
	}
	return loaded, nil
}

// Sessions creates a session store over a loaded dataset
func (c *Container) Sessions(loaded *app.LoadedSource) *session.Store {
	return session.NewStore(c.Service, loaded.Table, loaded.Identity, c.Metrics, c.Logger)
}

// UI builds the HTTP application over the configured dataset
func (c *Container) UI(ctx context.Context) (*ui.App, error) {
	loaded, err := c.LoadDataset(ctx)
	if err != nil {
		return nil, err
	}
	return ui.NewApp(ui.Config{Port: c.Config.Server.Port}, ui.Deps{
		Service:  c.Service,
		Sessions: c.Sessions(loaded),
		Sources:  c.Sources,
		Metrics:  c.Metrics,
		Gatherer: c.Registry,
		Logger:   c.Logger,
	})
}
