// Package latch provides the one-shot synchronization objects a match uses:
// the start gate and the exactly-once game-over latch.
package latch

import (
	"context"
	"sync/atomic"
	"time"
)

// StartGate releases one waiter when signalled or when its timeout elapses.
//
// Signals are not latched: a Signal with nobody waiting is dropped.
type StartGate struct {
	ch      chan struct{}
	waiting atomic.Int32
}

// NewStartGate creates an unsignalled gate.
func NewStartGate() *StartGate {
	return &StartGate{ch: make(chan struct{})}
}

// Wait blocks until Signal is called or timeout elapses; both return true.
// It returns false only if ctx is cancelled first.
func (g *StartGate) Wait(ctx context.Context, timeout time.Duration) bool {
	g.waiting.Add(1)
	defer g.waiting.Add(-1)

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-g.ch:
		return true
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}

// Signal wakes at most one pending waiter and reports whether one was woken.
func (g *StartGate) Signal() bool {
	select {
	case g.ch <- struct{}{}:
		return true
	default:
		return false
	}
}

// Waiting reports whether a caller is currently blocked in Wait.
func (g *StartGate) Waiting() bool {
	return g.waiting.Load() > 0
}
