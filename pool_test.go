package pandocd

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestPool_BoundsConcurrency(t *testing.T) {
	pool := NewPool(2)

	ctx := context.Background()
	if err := pool.Acquire(ctx); err != nil {
		t.Fatalf("first acquire: %v", err)
	}
	if err := pool.Acquire(ctx); err != nil {
		t.Fatalf("second acquire: %v", err)
	}

	// Pool is full; a bounded wait must time out.
	waitCtx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	if err := pool.Acquire(waitCtx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded on full pool, got %v", err)
	}

	pool.Release()
	if err := pool.Acquire(ctx); err != nil {
		t.Fatalf("acquire after release: %v", err)
	}
}

func TestPool_AcquireHonorsCancellation(t *testing.T) {
	pool := NewPool(1)
	if err := pool.Acquire(context.Background()); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := pool.Acquire(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestNewPool_MinimumSize(t *testing.T) {
	if got := NewPool(0).Size(); got != 1 {
		t.Errorf("NewPool(0).Size() = %d, want 1", got)
	}
	if got := NewPool(-3).Size(); got != 1 {
		t.Errorf("NewPool(-3).Size() = %d, want 1", got)
	}
}

func TestResolvePoolSize(t *testing.T) {
	if got := ResolvePoolSize(5); got != 5 {
		t.Errorf("explicit workers: got %d, want 5", got)
	}

	auto := ResolvePoolSize(0)
	if auto < MinPoolSize || auto > MaxPoolSize {
		t.Errorf("auto size %d outside [%d, %d]", auto, MinPoolSize, MaxPoolSize)
	}
}
