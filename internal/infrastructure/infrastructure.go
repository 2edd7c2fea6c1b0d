// Package infrastructure provides core service initialization for application startup.
// It assembles common dependencies (logging, database, storage, metrics, audit) that
// domain systems require.
package infrastructure

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/JaimeStill/warden/internal/audit"
	"github.com/JaimeStill/warden/internal/config"
	"github.com/JaimeStill/warden/internal/metrics"
	"github.com/JaimeStill/warden/migrations"
	"github.com/JaimeStill/warden/pkg/database"
	"github.com/JaimeStill/warden/pkg/lifecycle"
	"github.com/JaimeStill/warden/pkg/storage"
)

// Infrastructure holds the core systems required by all domain modules.
// It provides a single point of initialization for lifecycle coordination,
// logging, database access, file storage, metrics, and the audit queue.
type Infrastructure struct {
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Database  database.System
	Storage   storage.System
	Registry  *prometheus.Registry
	Metrics   *metrics.Metrics
	Audit     *audit.Queue
}

// New creates an Infrastructure from the application configuration.
// It initializes all systems but does not start them; call Start separately.
// With database.auto_migrate set, the embedded schema is applied as soon as
// the database answers its startup ping.
func New(cfg *config.Config) (*Infrastructure, error) {
	lc := lifecycle.New()
	logger := cfg.Logging.NewLogger(os.Stderr)

	db, err := database.New(&cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}

	if cfg.Database.AutoMigrate {
		url := cfg.Database.URL()
		db.AfterConnect(func(context.Context) error {
			logger.Info("applying schema migrations")
			return migrations.Up(url)
		})
	}

	store, err := storage.New(&cfg.Storage, logger)
	if err != nil {
		return nil, fmt.Errorf("storage init failed: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	queue := audit.NewQueue(
		audit.New(db.Connection(), logger, cfg.API.Pagination),
		logger,
		cfg.Audit.BufferSize,
		cfg.Audit.Actor,
		m,
	)
	db.BeforeClose(queue.Close)

	return &Infrastructure{
		Lifecycle: lc,
		Logger:    logger,
		Database:  db,
		Storage:   store,
		Registry:  reg,
		Metrics:   m,
		Audit:     queue,
	}, nil
}

// Start registers all infrastructure systems with the lifecycle coordinator.
// Database, storage, and audit hooks are registered for startup and shutdown coordination.
func (i *Infrastructure) Start() error {
	if err := i.Database.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("database start failed: %w", err)
	}
	if err := i.Storage.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("storage start failed: %w", err)
	}
	if err := i.Audit.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("audit start failed: %w", err)
	}
	return nil
}
