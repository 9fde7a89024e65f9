package object

import (
	"github.com/tomz197/warthreads/internal/loop/config"
	"github.com/tomz197/warthreads/internal/physics"
)

// EnemySize represents the size class of an enemy.
type EnemySize int

const (
	SizeNormal EnemySize = iota
	SizeLarge
)

// Enemy is a ship crossing the arena horizontally.
// Only the goroutine driving it may mutate it.
type Enemy struct {
	ID        uint64
	Rect      physics.Rect
	Direction int // +1 moves right, -1 moves left
	Lives     int
	Size      EnemySize
	Variant   int
}

// NewEnemy rolls a new enemy for the arena.
// Odd rows enter from the left, even rows from the right. One in twenty
// enemies is a large ship near the top with many lives.
func NewEnemy(arena Arena, rnd RandFunc) *Enemy {
	if rnd == nil {
		rnd = DefaultRand
	}

	e := &Enemy{
		ID:      NextID(),
		Lives:   config.EnemyLives,
		Size:    SizeNormal,
		Variant: rnd(config.EnemyVariants),
	}
	w, h := config.EnemySize, config.EnemySize
	y := rnd(arena.Height - config.EnemySpawnMargin)

	if rnd(100) < config.LargeEnemyChance {
		w, h = arena.Width/2, arena.Height/2
		y = config.LargeEnemyTop
		e.Lives = config.LargeEnemyLives
		e.Size = SizeLarge
	}

	x, dir := arena.Width, -1
	if y%2 != 0 {
		x, dir = 0, 1
	}

	e.Rect = physics.Rect{X: x, Y: y, W: w, H: h}
	e.Direction = dir
	return e
}

// InBounds reports whether the enemy has not yet crossed the far edge
// for its direction of travel.
func (e *Enemy) InBounds(arena Arena) bool {
	if e.Direction > 0 {
		return e.Rect.X <= arena.Width
	}
	return e.Rect.X >= 0
}

// Advance moves the enemy speed units along its direction.
func (e *Enemy) Advance(speed int64) physics.Point {
	e.Rect.X += e.Direction * int(speed)
	return e.Rect.Min()
}

// Hit removes one life and reports whether the enemy is destroyed.
func (e *Enemy) Hit() bool {
	e.Lives--
	return e.Lives <= 0
}

// LastLife reports whether the next hit destroys the enemy.
func (e *Enemy) LastLife() bool {
	return e.Lives <= 1
}

// Visual returns the presentation handle for the enemy.
func (e *Enemy) Visual() Visual {
	kind := KindEnemy
	if e.Size == SizeLarge {
		kind = KindLargeEnemy
	}
	return Visual{ID: e.ID, Kind: kind, Variant: e.Variant, Rect: e.Rect}
}
