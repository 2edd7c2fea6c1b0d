package audit

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/JaimeStill/warden/pkg/lifecycle"
)

const writeTimeout = 5 * time.Second

// Observer receives queue health signals. *metrics.Metrics satisfies it.
type Observer interface {
	AuditDrop()
	AuditFailure()
}

// Queue is a bounded, non-blocking Recorder. Records are written by a
// single worker in enqueue order. When the buffer is full new records are
// dropped and logged.
type Queue struct {
	writer       Writer
	logger       *slog.Logger
	obs          Observer
	defaultActor string

	mu      sync.RWMutex
	entries chan Record
	closed  bool
	started bool
	done    chan struct{}
}

// NewQueue creates a Queue that writes through writer with a buffer of size records.
func NewQueue(writer Writer, logger *slog.Logger, size int, defaultActor string, obs Observer) *Queue {
	return &Queue{
		writer:       writer,
		logger:       logger.With("system", "audit-queue"),
		obs:          obs,
		defaultActor: defaultActor,
		entries:      make(chan Record, size),
		done:         make(chan struct{}),
	}
}

// Record enqueues rec without blocking. An empty Actor is taken from ctx,
// then from the queue default.
func (q *Queue) Record(ctx context.Context, rec Record) {
	if rec.Actor == "" {
		rec.Actor = ActorFrom(ctx)
	}
	if rec.Actor == "" {
		rec.Actor = q.defaultActor
	}

	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		q.logger.Warn("audit record rejected", "action", rec.Action, "error", ErrClosed)
		return
	}

	select {
	case q.entries <- rec:
	default:
		q.logger.Warn("audit buffer full, record dropped",
			"action", rec.Action,
			"resource_type", rec.ResourceType,
			"resource_id", rec.ResourceID,
		)
		if q.obs != nil {
			q.obs.AuditDrop()
		}
	}
}

// Start launches the worker and registers a shutdown hook that drains it.
func (q *Queue) Start(lc *lifecycle.Coordinator) error {
	q.run()

	lc.OnShutdown(func() {
		<-lc.Context().Done()
		q.logger.Info("draining audit queue", "pending", len(q.entries))
		q.Close()
		q.logger.Info("audit queue drained")
	})

	return nil
}

// Close stops accepting records and waits for buffered records to be written.
// Every caller waits, so it is safe to call from more than one shutdown hook.
func (q *Queue) Close() {
	q.mu.Lock()
	if !q.closed {
		q.closed = true
		close(q.entries)
	}
	started := q.started
	q.mu.Unlock()

	if started {
		<-q.done
	}
}

func (q *Queue) run() {
	q.mu.Lock()
	if q.started || q.closed {
		q.mu.Unlock()
		return
	}
	q.started = true
	q.mu.Unlock()

	go func() {
		defer close(q.done)
		for rec := range q.entries {
			q.write(rec)
		}
	}()
}

func (q *Queue) write(rec Record) {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()

	if err := q.writer.Write(ctx, rec); err != nil {
		q.logger.Error("audit write failed",
			"action", rec.Action,
			"resource_id", rec.ResourceID,
			"error", err,
		)
		if q.obs != nil {
			q.obs.AuditFailure()
		}
	}
}
