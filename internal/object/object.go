// Package object defines the entities that live in the arena and the
// value handles the presentation layer receives for them.
package object

import (
	"math/rand"
	"sync/atomic"

	"github.com/tomz197/warthreads/internal/physics"
)

// Kind identifies what a visual handle draws.
type Kind int

const (
	KindGun Kind = iota
	KindEnemy
	KindLargeEnemy
	KindProjectile
)

// String returns the lowercase kind name.
func (k Kind) String() string {
	switch k {
	case KindGun:
		return "gun"
	case KindEnemy:
		return "enemy"
	case KindLargeEnemy:
		return "large-enemy"
	case KindProjectile:
		return "projectile"
	default:
		return "unknown"
	}
}

// Visual is an immutable description of an entity handed to the presentation
// layer. Renderers key on ID; actors never share their mutable state.
type Visual struct {
	ID      uint64
	Kind    Kind
	Variant int          // Artwork variant (enemies only)
	Rect    physics.Rect // Bounds at the time the handle was taken
}

// Arena represents the playfield dimensions in logical units.
type Arena struct {
	Width  int
	Height int
}

// Bounds returns the arena rectangle.
func (a Arena) Bounds() physics.Rect {
	return physics.Rect{W: a.Width, H: a.Height}
}

// RandFunc returns a uniform integer in [0, n). Must be safe for concurrent use.
type RandFunc func(n int) int

// DefaultRand is the process-wide source used when none is injected.
var DefaultRand RandFunc = rand.Intn

var nextID atomic.Uint64

// NextID returns a process-unique entity id.
func NextID() uint64 {
	return nextID.Add(1)
}
