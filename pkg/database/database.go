// Package database provides PostgreSQL connection management with lifecycle coordination.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/JaimeStill/warden/pkg/lifecycle"
)

// retryInterval spaces startup pings while the server comes up.
const retryInterval = 250 * time.Millisecond

// System manages database connections and lifecycle coordination.
type System interface {
	// Connection returns the underlying database connection pool.
	Connection() *sql.DB
	// Ping reports whether the pool can reach the server. It returns
	// ErrNotReady until the startup ping has succeeded.
	Ping(ctx context.Context) error
	// AfterConnect registers fn to run once the startup ping succeeds and
	// before the system reports ready. Hooks run in registration order.
	AfterConnect(fn func(ctx context.Context) error)
	// BeforeClose registers fn to run during shutdown before the pool closes.
	BeforeClose(fn func())
	// Start registers startup and shutdown hooks with the lifecycle coordinator.
	Start(lc *lifecycle.Coordinator) error
}

type database struct {
	conn        *sql.DB
	logger      *slog.Logger
	connTimeout time.Duration
	connected   atomic.Bool
	onConnect   []func(context.Context) error
	onClose     []func()
}

// New creates a database system with the given configuration.
// It calls sql.Open to validate the DSN and configure pool parameters,
// but does not establish a connection until Start is called.
func New(cfg *Config, logger *slog.Logger) (System, error) {
	db, err := sql.Open("pgx", cfg.Dsn())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetimeDuration())

	return &database{
		conn:        db,
		logger:      logger.With("system", "database", "host", cfg.Host, "name", cfg.Name),
		connTimeout: cfg.ConnTimeoutDuration(),
	}, nil
}

func (d *database) Connection() *sql.DB {
	return d.conn
}

func (d *database) Ping(ctx context.Context) error {
	if !d.connected.Load() {
		return ErrNotReady
	}
	if err := d.conn.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrNotReady, err)
	}
	return nil
}

func (d *database) AfterConnect(fn func(ctx context.Context) error) {
	d.onConnect = append(d.onConnect, fn)
}

func (d *database) BeforeClose(fn func()) {
	d.onClose = append(d.onClose, fn)
}

func (d *database) Start(lc *lifecycle.Coordinator) error {
	d.logger.Info("starting database connection")

	lc.OnStartup("database", func(ctx context.Context) error {
		start := time.Now()
		if err := d.waitForServer(ctx); err != nil {
			d.logger.Error("database ping failed", "error", err, "elapsed", time.Since(start))
			return err
		}

		for _, fn := range d.onConnect {
			if err := fn(ctx); err != nil {
				d.logger.Error("database connect hook failed", "error", err)
				return err
			}
		}

		d.connected.Store(true)
		d.logger.Info("database connection established", "elapsed", time.Since(start))
		return nil
	})

	lc.OnShutdown(func() {
		<-lc.Context().Done()
		for _, fn := range d.onClose {
			fn()
		}
		d.logger.Info("closing database connection")

		if err := d.conn.Close(); err != nil {
			d.logger.Error("database close failed", "error", err)
			return
		}

		d.logger.Info("database connection closed")
	})

	return nil
}

// waitForServer pings until the server answers or connTimeout elapses.
func (d *database) waitForServer(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, d.connTimeout)
	defer cancel()

	ticker := time.NewTicker(retryInterval)
	defer ticker.Stop()

	var err error
	for {
		if err = d.conn.PingContext(ctx); err == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return errors.Join(err, ctx.Err())
		case <-ticker.C:
		}
	}
}
