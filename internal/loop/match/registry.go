package match

import (
	"sync"
	"sync/atomic"

	"github.com/tomz197/warthreads/internal/object"
)

// registry is the copy-on-write set of live projectiles.
// Writers serialize on mu and publish a fresh slice; enemy goroutines scan
// whatever slice they loaded without taking any lock.
type registry struct {
	mu   sync.Mutex
	snap atomic.Pointer[[]*object.Projectile]
}

func (r *registry) add(p *object.Projectile) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur := r.snapshot()
	next := make([]*object.Projectile, len(cur), len(cur)+1)
	copy(next, cur)
	next = append(next, p)
	r.snap.Store(&next)
}

func (r *registry) remove(p *object.Projectile) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur := r.snapshot()
	next := make([]*object.Projectile, 0, len(cur))
	for _, q := range cur {
		if q != p {
			next = append(next, q)
		}
	}
	r.snap.Store(&next)
}

// snapshot returns the current slice. Callers must not modify it.
func (r *registry) snapshot() []*object.Projectile {
	if s := r.snap.Load(); s != nil {
		return *s
	}
	return nil
}

func (r *registry) len() int {
	return len(r.snapshot())
}
