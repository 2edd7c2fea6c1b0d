package audit_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/JaimeStill/warden/internal/audit"
	"github.com/JaimeStill/warden/pkg/lifecycle"
)

type memoryWriter struct {
	mu      sync.Mutex
	records []audit.Record
	err     error
}

func (w *memoryWriter) Write(_ context.Context, rec audit.Record) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.records = append(w.records, rec)
	return w.err
}

func (w *memoryWriter) snapshot() []audit.Record {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]audit.Record(nil), w.records...)
}

type counter struct {
	mu              sync.Mutex
	drops, failures int
}

func (c *counter) AuditDrop() {
	c.mu.Lock()
	c.drops++
	c.mu.Unlock()
}

func (c *counter) AuditFailure() {
	c.mu.Lock()
	c.failures++
	c.mu.Unlock()
}

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestQueueWritesInOrder(t *testing.T) {
	w := &memoryWriter{}
	q := audit.NewQueue(w, discard, 8, "system", nil)

	lc := lifecycle.New()
	assert.NoError(t, q.Start(lc))

	q.Record(context.Background(), audit.Record{Action: audit.ActionCreate, ResourceID: "1"})
	q.Record(context.Background(), audit.Record{Action: audit.ActionClassify, ResourceID: "1", Actor: "alice"})

	assert.NoError(t, lc.Shutdown(time.Second))

	got := w.snapshot()
	if assert.Len(t, got, 2) {
		assert.Equal(t, audit.ActionCreate, got[0].Action)
		assert.Equal(t, "system", got[0].Actor)
		assert.Equal(t, "alice", got[1].Actor)
	}
}

func TestQueueDropsWhenFull(t *testing.T) {
	w := &memoryWriter{}
	obs := &counter{}
	q := audit.NewQueue(w, discard, 2, "system", obs)

	for range 5 {
		q.Record(context.Background(), audit.Record{Action: audit.ActionUpdate})
	}

	assert.Equal(t, 3, obs.drops)

	q.Close()
	assert.Empty(t, w.snapshot())
}

func TestQueueRejectsAfterClose(t *testing.T) {
	w := &memoryWriter{}
	obs := &counter{}
	q := audit.NewQueue(w, discard, 2, "system", obs)
	q.Close()

	assert.NotPanics(t, func() {
		q.Record(context.Background(), audit.Record{Action: audit.ActionDelete})
	})
	q.Close()
	assert.Zero(t, obs.drops)
}

func TestQueueCountsFailures(t *testing.T) {
	w := &memoryWriter{err: errors.New("connection refused")}
	obs := &counter{}
	q := audit.NewQueue(w, discard, 4, "system", obs)

	lc := lifecycle.New()
	assert.NoError(t, q.Start(lc))
	q.Record(context.Background(), audit.Record{Action: audit.ActionExport})
	assert.NoError(t, lc.Shutdown(time.Second))

	assert.Equal(t, 1, obs.failures)
}

func TestQueueTakesActorFromContext(t *testing.T) {
	w := &memoryWriter{}
	q := audit.NewQueue(w, discard, 4, "system", nil)

	lc := lifecycle.New()
	assert.NoError(t, q.Start(lc))
	q.Record(audit.WithActor(context.Background(), "bob"), audit.Record{Action: audit.ActionEdit})
	assert.NoError(t, lc.Shutdown(time.Second))

	got := w.snapshot()
	if assert.Len(t, got, 1) {
		assert.Equal(t, "bob", got[0].Actor)
	}
}

type gateWriter struct {
	release chan struct{}
	written atomic.Bool
}

func (w *gateWriter) Write(context.Context, audit.Record) error {
	<-w.release
	w.written.Store(true)
	return nil
}

func TestQueueCloseWaitsForEveryCaller(t *testing.T) {
	w := &gateWriter{release: make(chan struct{})}
	q := audit.NewQueue(w, discard, 4, "system", nil)
	assert.NoError(t, q.Start(lifecycle.New()))

	q.Record(context.Background(), audit.Record{Action: audit.ActionDelete, ResourceID: "exports/a.txt"})

	var wg sync.WaitGroup
	var early atomic.Bool
	for range 2 {
		wg.Go(func() {
			q.Close()
			if !w.written.Load() {
				early.Store(true)
			}
		})
	}

	close(w.release)
	wg.Wait()
	assert.False(t, early.Load(), "Close returned before the buffered record was written")
}
