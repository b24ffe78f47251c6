package linkbatch

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSemaphoreBoundsConcurrency(t *testing.T) {
	sem := NewSemaphore(3)
	ctx := context.Background()

	var inFlight, peak int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = sem.Run(ctx, func(context.Context) error {
				n := atomic.AddInt32(&inFlight, 1)
				for {
					p := atomic.LoadInt32(&peak)
					if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
						break
					}
				}
				time.Sleep(2 * time.Millisecond)
				atomic.AddInt32(&inFlight, -1)
				return nil
			})
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(3))
	assert.Equal(t, 3, sem.Size())
}

func TestSemaphoreRunReleasesOnError(t *testing.T) {
	sem := NewSemaphore(1)
	ctx := context.Background()
	boom := errors.New("boom")

	err := sem.Run(ctx, func(context.Context) error { return boom })
	assert.ErrorIs(t, err, boom)

	// The slot must be free again.
	ctx2, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	require.NoError(t, sem.Acquire(ctx2))
	sem.Release()
}

func TestSemaphoreRunReleasesOnPanic(t *testing.T) {
	sem := NewSemaphore(1)
	ctx := context.Background()

	assert.Panics(t, func() {
		_ = sem.Run(ctx, func(context.Context) error { panic("boom") })
	})

	ctx2, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	require.NoError(t, sem.Acquire(ctx2))
	sem.Release()
}

func TestRunWithSemaphore(t *testing.T) {
	sem := NewSemaphore(0)
	assert.Equal(t, 10, sem.Size())

	v, err := RunWithSemaphore(context.Background(), sem, func(context.Context) (string, error) {
		return "ok", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", v)
}

func TestSemaphoreAcquireHonorsContext(t *testing.T) {
	sem := NewSemaphore(1)
	require.NoError(t, sem.Acquire(context.Background()))
	defer sem.Release()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, sem.Acquire(ctx))
}
