package pandocd

import (
	"context"
	"runtime"
)

// Pool sizing constants.
const (
	// MinPoolSize ensures at least one conversion slot is available.
	MinPoolSize = 1

	// MaxPoolSize caps concurrent pandoc processes; LaTeX-backed PDF
	// conversions can each take hundreds of MB.
	MaxPoolSize = 16
)

// Pool bounds the number of concurrently running pandoc processes.
// It is a counting semaphore: Acquire takes a slot before a conversion
// starts, Release returns it.
type Pool struct {
	sem  chan struct{}
	size int
}

// NewPool creates a pool with n conversion slots.
func NewPool(n int) *Pool {
	if n < 1 {
		n = 1
	}
	return &Pool{
		sem:  make(chan struct{}, n),
		size: n,
	}
}

// Acquire takes a slot, blocking while all slots are in use. It returns
// the context error if the caller gives up while waiting.
func (p *Pool) Acquire(ctx context.Context) error {
	select {
	case p.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Release returns a slot to the pool. Must be paired with a successful
// Acquire.
func (p *Pool) Release() {
	<-p.sem
}

// Size returns the pool capacity.
func (p *Pool) Size() int {
	return p.size
}

// ResolvePoolSize determines the pool size.
// Priority: explicit workers > GOMAXPROCS-based calculation.
// Exported for use by servers and CLIs.
func ResolvePoolSize(workers int) int {
	// Explicit value takes priority
	if workers > 0 {
		return workers
	}

	// Auto-calculate based on GOMAXPROCS (adjusted by automaxprocs for containers)
	n := runtime.GOMAXPROCS(0)

	if n < MinPoolSize {
		return MinPoolSize
	}
	if n > MaxPoolSize {
		return MaxPoolSize
	}
	return n
}
