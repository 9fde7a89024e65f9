package latch

import "sync/atomic"

// Once grants a single winner across all callers for its whole lifetime.
type Once struct {
	fired atomic.Bool
}

// TryFire returns true to the first caller only. It never blocks.
func (o *Once) TryFire() bool {
	return o.fired.CompareAndSwap(false, true)
}

// Fired reports whether TryFire has been won.
func (o *Once) Fired() bool {
	return o.fired.Load()
}
