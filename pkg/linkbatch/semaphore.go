package linkbatch

import (
	"context"

	"github.com/arthur-debert/docsync/pkg/types"
	"golang.org/x/sync/semaphore"
)

// Semaphore bounds the number of concurrently running operations.
type Semaphore struct {
	weighted *semaphore.Weighted
	size     int
}

// NewSemaphore returns a semaphore admitting n holders. Non-positive n
// falls back to the default concurrency limit.
func NewSemaphore(n int) *Semaphore {
	if n <= 0 {
		n = types.DefaultConcurrencyLimit
	}
	return &Semaphore{weighted: semaphore.NewWeighted(int64(n)), size: n}
}

// Size returns the number of slots.
func (s *Semaphore) Size() int {
	return s.size
}

// Acquire blocks until a slot is free or ctx is done.
func (s *Semaphore) Acquire(ctx context.Context) error {
	return s.weighted.Acquire(ctx, 1)
}

// Release frees a slot taken by Acquire.
func (s *Semaphore) Release() {
	s.weighted.Release(1)
}

// Run executes fn while holding a slot. The slot is released exactly once,
// whether fn returns an error or panics.
func (s *Semaphore) Run(ctx context.Context, fn func(context.Context) error) error {
	if err := s.Acquire(ctx); err != nil {
		return err
	}
	defer s.Release()
	return fn(ctx)
}

// RunWithSemaphore is Run for functions producing a value.
func RunWithSemaphore[T any](ctx context.Context, s *Semaphore, fn func(context.Context) (T, error)) (T, error) {
	if err := s.Acquire(ctx); err != nil {
		var zero T
		return zero, err
	}
	defer s.Release()
	return fn(ctx)
}
