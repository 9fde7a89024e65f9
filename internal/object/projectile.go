package object

import (
	"sync/atomic"

	"github.com/tomz197/warthreads/internal/loop/config"
	"github.com/tomz197/warthreads/internal/physics"
)

const (
	projectileActive int32 = iota
	projectileDeleted
)

// Projectile is a shot travelling up from the gun.
// Its own goroutine moves it; any goroutine may read it or try to delete it.
type Projectile struct {
	ID    uint64
	x     int
	y     atomic.Int64
	state atomic.Int32
}

// NewProjectile creates an active projectile with its top-left corner at (x, y).
func NewProjectile(x, y int) *Projectile {
	p := &Projectile{ID: NextID(), x: x}
	p.y.Store(int64(y))
	return p
}

// Y returns the current top edge.
func (p *Projectile) Y() int {
	return int(p.y.Load())
}

// Rise moves the projectile up by step and returns its new position.
func (p *Projectile) Rise(step int) physics.Point {
	y := p.y.Add(-int64(step))
	return physics.Point{X: p.x, Y: int(y)}
}

// Rect returns the current bounds.
func (p *Projectile) Rect() physics.Rect {
	return physics.Rect{X: p.x, Y: p.Y(), W: config.ProjectileSize, H: config.ProjectileSize}
}

// MarkDeleted transitions the projectile from active to deleted.
// Exactly one caller ever gets true; that caller owns the cleanup.
func (p *Projectile) MarkDeleted() bool {
	return p.state.CompareAndSwap(projectileActive, projectileDeleted)
}

// IsDeleted reports whether the projectile has been deleted.
func (p *Projectile) IsDeleted() bool {
	return p.state.Load() == projectileDeleted
}

// Visual returns the presentation handle for the projectile.
func (p *Projectile) Visual() Visual {
	return Visual{ID: p.ID, Kind: KindProjectile, Rect: p.Rect()}
}
