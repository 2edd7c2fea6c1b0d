// Package lifecycle coordinates startup and shutdown hooks across subsystems.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// HookStatus reports the progress of a single named startup hook.
type HookStatus struct {
	Name  string `json:"name"`
	Done  bool   `json:"done"`
	Error string `json:"error,omitempty"`
}

type hook struct {
	name string
	done bool
	err  error
}

// Coordinator manages startup and shutdown hooks for the application lifecycle.
// The service is ready once every startup hook has returned without error.
type Coordinator struct {
	ctx        context.Context
	cancel     context.CancelFunc
	startupWg  sync.WaitGroup
	shutdownWg sync.WaitGroup

	mu    sync.RWMutex
	hooks []*hook
	ready bool
}

// New creates a Coordinator with a cancellable context.
func New() *Coordinator {
	ctx, cancel := context.WithCancel(context.Background())
	return &Coordinator{
		ctx:    ctx,
		cancel: cancel,
	}
}

// Context returns the coordinator's context, cancelled on shutdown.
func (c *Coordinator) Context() context.Context {
	return c.ctx
}

// OnStartup registers a named hook to run concurrently during startup.
// fn receives the coordinator context.
func (c *Coordinator) OnStartup(name string, fn func(ctx context.Context) error) {
	h := &hook{name: name}

	c.mu.Lock()
	c.hooks = append(c.hooks, h)
	c.mu.Unlock()

	c.startupWg.Go(func() {
		err := fn(c.ctx)

		c.mu.Lock()
		h.done, h.err = true, err
		c.mu.Unlock()
	})
}

// OnShutdown registers a function to run concurrently during shutdown.
// Shutdown hooks should block on <-c.Context().Done() before executing cleanup.
func (c *Coordinator) OnShutdown(fn func()) {
	c.shutdownWg.Go(fn)
}

// Ready reports whether startup finished with every hook succeeding.
func (c *Coordinator) Ready() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.ready
}

// Status returns a snapshot of the registered startup hooks in registration order.
func (c *Coordinator) Status() []HookStatus {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]HookStatus, len(c.hooks))
	for i, h := range c.hooks {
		out[i] = HookStatus{Name: h.name, Done: h.done}
		if h.err != nil {
			out[i].Error = h.err.Error()
		}
	}
	return out
}

// WaitForStartup blocks until all startup hooks have completed. It marks the
// coordinator ready when none failed and otherwise returns the joined failures.
func (c *Coordinator) WaitForStartup() error {
	c.startupWg.Wait()

	c.mu.Lock()
	defer c.mu.Unlock()

	var errs []error
	for _, h := range c.hooks {
		if h.err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", h.name, h.err))
		}
	}

	c.ready = len(errs) == 0
	return errors.Join(errs...)
}

// Shutdown cancels the context and waits for shutdown hooks to complete
// within the given timeout.
func (c *Coordinator) Shutdown(timeout time.Duration) error {
	c.cancel()

	c.mu.Lock()
	c.ready = false
	c.mu.Unlock()

	done := make(chan struct{})
	go func() {
		c.shutdownWg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("shutdown timeout after %v", timeout)
	}
}
