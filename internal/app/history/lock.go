package history

import (
	"context"
	"sync"
)

// Locker serializes read-modify-write sequences against the file-backed
// store within a single process. Waiters queue on the channel and are
// served in arrival order. There is no timeout: a holder that never
// releases starves all others.
type Locker struct {
	ch chan struct{}
}

// NewLocker returns an unlocked Locker.
func NewLocker() *Locker {
	return &Locker{ch: make(chan struct{}, 1)}
}

// Acquire blocks until the lock is free or ctx is done. The returned
// release function is safe to call more than once; only the first call
// releases the lock.
func (l *Locker) Acquire(ctx context.Context) (func(), error) {
	select {
	case l.ch <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() { <-l.ch })
	}, nil
}
