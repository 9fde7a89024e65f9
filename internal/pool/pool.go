// Package pool provides a bounded, non-blocking admission pool.
package pool

import (
	"sync/atomic"

	"golang.org/x/sync/semaphore"
)

// Pool admits at most Capacity concurrent holders.
// Admission never blocks: a full pool rejects the request.
type Pool struct {
	capacity int64
	sem      *semaphore.Weighted
	held     atomic.Int64 // Outstanding acquisitions
}

// New creates a pool with the given capacity (minimum 1).
func New(capacity int) *Pool {
	if capacity < 1 {
		capacity = 1
	}
	return &Pool{
		capacity: int64(capacity),
		sem:      semaphore.NewWeighted(int64(capacity)),
	}
}

// TryAcquire takes one slot if available and reports whether it did.
func (p *Pool) TryAcquire() bool {
	if !p.sem.TryAcquire(1) {
		return false
	}
	p.held.Add(1)
	return true
}

// Release returns one slot. It returns false without effect when no
// acquisition is outstanding, so Available never exceeds Capacity.
func (p *Pool) Release() bool {
	for {
		n := p.held.Load()
		if n <= 0 {
			return false
		}
		if p.held.CompareAndSwap(n, n-1) {
			p.sem.Release(1)
			return true
		}
	}
}

// Available returns the number of free slots.
func (p *Pool) Available() int {
	free := p.capacity - p.held.Load()
	if free < 0 {
		return 0
	}
	return int(free)
}

// Capacity returns the fixed pool size.
func (p *Pool) Capacity() int {
	return int(p.capacity)
}
