package match

import "sync"

// actorGroup tracks short-lived actor goroutines. Unlike a bare WaitGroup
// it refuses new work once closed, so late input cannot race the final Wait.
type actorGroup struct {
	mu     sync.Mutex
	wg     sync.WaitGroup
	closed bool
}

// Go runs fn in a new goroutine unless the group is closed.
func (g *actorGroup) Go(fn func()) bool {
	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return false
	}
	g.wg.Add(1)
	g.mu.Unlock()

	go func() {
		defer g.wg.Done()
		fn()
	}()
	return true
}

// CloseAndWait refuses further work and waits for running actors.
func (g *actorGroup) CloseAndWait() {
	g.mu.Lock()
	g.closed = true
	g.mu.Unlock()
	g.wg.Wait()
}
