package shutdown

import (
	"bytes"
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"minter/internal/pkg/logger"
)

func newTestLogger() *logger.Logger {
	var buf bytes.Buffer
	return logger.New(logger.Config{Level: "debug", Format: "json", Output: &buf})
}

func TestNewManagerDefaultTimeout(t *testing.T) {
	mgr := NewManager(newTestLogger(), 0)
	assert.Equal(t, 30*time.Second, mgr.timeout)
}

func TestShutdownRunsHandlersInReverseOrder(t *testing.T) {
	mgr := NewManager(newTestLogger(), time.Second)

	var order []string
	mgr.RegisterSimple("redis", func() { order = append(order, "redis") })
	mgr.RegisterSimple("postgres", func() { order = append(order, "postgres") })
	mgr.Register("worker", func(ctx context.Context) error {
		order = append(order, "worker")
		return nil
	})

	require.NoError(t, mgr.Shutdown())
	assert.Equal(t, []string{"worker", "postgres", "redis"}, order)
}

func TestShutdownIsSequential(t *testing.T) {
	mgr := NewManager(newTestLogger(), time.Second)

	var running, overlap int32
	for _, name := range []string{"a", "b", "c"} {
		mgr.Register(name, func(ctx context.Context) error {
			if atomic.AddInt32(&running, 1) > 1 {
				atomic.StoreInt32(&overlap, 1)
			}
			time.Sleep(5 * time.Millisecond)
			atomic.AddInt32(&running, -1)
			return nil
		})
	}

	require.NoError(t, mgr.Shutdown())
	assert.Zero(t, atomic.LoadInt32(&overlap))
}

func TestShutdownCollectsErrors(t *testing.T) {
	mgr := NewManager(newTestLogger(), time.Second)
	boom := errors.New("boom")

	var ran int32
	mgr.Register("first", func(context.Context) error {
		atomic.AddInt32(&ran, 1)
		return nil
	})
	mgr.Register("second", func(context.Context) error { return boom })

	err := mgr.Shutdown()
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "second")
	assert.EqualValues(t, 1, atomic.LoadInt32(&ran), "a failing handler does not stop the rest")
}

func TestShutdownDeadlineSkipsRemaining(t *testing.T) {
	mgr := NewManager(newTestLogger(), 20*time.Millisecond)

	var skippedRan bool
	mgr.RegisterSimple("never", func() { skippedRan = true })
	mgr.Register("slow", func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})

	err := mgr.Shutdown()
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.False(t, skippedRan)
}

func TestShutdownOnce(t *testing.T) {
	mgr := NewManager(newTestLogger(), time.Second)

	var calls int32
	mgr.RegisterSimple("count", func() { atomic.AddInt32(&calls, 1) })

	require.NoError(t, mgr.Shutdown())
	require.NoError(t, mgr.Shutdown())
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))

	select {
	case <-mgr.Done():
	default:
		t.Fatal("done channel not closed")
	}
}

func TestWaitWithContext(t *testing.T) {
	mgr := NewManager(newTestLogger(), time.Second)

	var called atomic.Bool
	mgr.RegisterSimple("cleanup", func() { called.Store(true) })

	managed := mgr.Context()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, mgr.WaitWithContext(ctx))
	assert.True(t, called.Load())

	select {
	case <-managed.Done():
	case <-time.After(time.Second):
		t.Fatal("managed context not canceled")
	}
}
