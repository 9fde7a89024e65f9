package object

import (
	"sync/atomic"

	"github.com/tomz197/warthreads/internal/loop/config"
	"github.com/tomz197/warthreads/internal/physics"
)

// Gun is the player's cannon at the bottom of the arena.
// Moves come from the input goroutine, reads from Fire callers.
type Gun struct {
	ID   uint64
	x    atomic.Int64
	y    int
	step int
	maxX int // Rightmost allowed left edge
}

// NewGun places the gun at the horizontal center, GunBottomInset above the bottom.
func NewGun(arena Arena, step int) *Gun {
	g := &Gun{
		ID:   NextID(),
		y:    arena.Height - config.GunBottomInset,
		step: step,
		maxX: arena.Width - config.GunWidth,
	}
	g.x.Store(int64(arena.Width / 2))
	return g
}

// Left moves the gun one step left unless that would leave the arena.
func (g *Gun) Left() bool {
	return g.shift(-g.step)
}

// Right moves the gun one step right unless that would leave the arena.
func (g *Gun) Right() bool {
	return g.shift(g.step)
}

func (g *Gun) shift(dx int) bool {
	for {
		x := g.x.Load()
		nx := x + int64(dx)
		if nx < 0 || nx > int64(g.maxX) {
			return false
		}
		if g.x.CompareAndSwap(x, nx) {
			return true
		}
	}
}

// Position returns the gun's top-left corner.
func (g *Gun) Position() physics.Point {
	return physics.Point{X: int(g.x.Load()), Y: g.y}
}

// Muzzle returns where a new projectile's top-left corner goes.
func (g *Gun) Muzzle() physics.Point {
	p := g.Position()
	return physics.Point{X: p.X + config.ProjectileOffsetX, Y: p.Y - config.ProjectileOffsetY}
}

// Visual returns the presentation handle for the gun.
func (g *Gun) Visual() Visual {
	r := physics.Rect{W: config.GunWidth, H: config.GunHeight}.At(g.Position())
	return Visual{ID: g.ID, Kind: KindGun, Rect: r}
}
