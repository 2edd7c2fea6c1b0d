package lifecycle_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/warden/pkg/lifecycle"
)

func TestReadiness(t *testing.T) {
	lc := lifecycle.New()
	assert.False(t, lc.Ready())

	var count atomic.Int32
	for _, name := range []string{"database", "storage", "audit"} {
		lc.OnStartup(name, func(context.Context) error {
			count.Add(1)
			return nil
		})
	}

	require.NoError(t, lc.WaitForStartup())
	assert.True(t, lc.Ready())
	assert.Equal(t, int32(3), count.Load())

	status := lc.Status()
	require.Len(t, status, 3)
	assert.Equal(t, lifecycle.HookStatus{Name: "database", Done: true}, status[0])
}

func TestStartupFailure(t *testing.T) {
	lc := lifecycle.New()
	unreachable := errors.New("connection refused")

	lc.OnStartup("database", func(context.Context) error { return unreachable })
	lc.OnStartup("storage", func(context.Context) error { return nil })

	err := lc.WaitForStartup()
	require.ErrorIs(t, err, unreachable)
	assert.ErrorContains(t, err, "database: connection refused")
	assert.False(t, lc.Ready())

	status := lc.Status()
	assert.Equal(t, "connection refused", status[0].Error)
	assert.Empty(t, status[1].Error)
	assert.True(t, status[1].Done)
}

func TestStartupHookSeesContext(t *testing.T) {
	lc := lifecycle.New()

	var got context.Context
	lc.OnStartup("warmup", func(ctx context.Context) error {
		got = ctx
		return nil
	})

	require.NoError(t, lc.WaitForStartup())
	assert.Same(t, lc.Context(), got)
}

func TestShutdownRunsHooks(t *testing.T) {
	lc := lifecycle.New()

	var drained atomic.Bool
	lc.OnShutdown(func() {
		<-lc.Context().Done()
		drained.Store(true)
	})

	require.NoError(t, lc.WaitForStartup())
	assert.True(t, lc.Ready())

	require.NoError(t, lc.Shutdown(5*time.Second))
	assert.True(t, drained.Load())
	assert.False(t, lc.Ready())
	assert.Error(t, lc.Context().Err())
}

func TestShutdownTimeout(t *testing.T) {
	lc := lifecycle.New()

	release := make(chan struct{})
	defer close(release)

	lc.OnShutdown(func() {
		<-lc.Context().Done()
		<-release
	})

	err := lc.Shutdown(50 * time.Millisecond)
	assert.ErrorContains(t, err, "shutdown timeout")
}
