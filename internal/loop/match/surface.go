package match

import (
	"github.com/charmbracelet/log"
	"github.com/tomz197/warthreads/internal/object"
	"github.com/tomz197/warthreads/internal/physics"
)

// Surface is the presentation layer a match draws through.
// Implementations must serialize the calls onto their own render goroutine;
// the match calls them from any actor goroutine and never locks around them.
type Surface interface {
	AddVisual(v object.Visual)
	RemoveVisual(v object.Visual)
	MoveVisual(v object.Visual, pos physics.Point)
	SetTitle(title string)
	ShowEndOfMatchDialog(hits, misses int64)
	CloseMatch()
}

// NopSurface discards every call. Useful for headless matches.
type NopSurface struct{}

func (NopSurface) AddVisual(object.Visual)                 {}
func (NopSurface) RemoveVisual(object.Visual)              {}
func (NopSurface) MoveVisual(object.Visual, physics.Point) {}
func (NopSurface) SetTitle(string)                         {}
func (NopSurface) ShowEndOfMatchDialog(hits, misses int64) {}
func (NopSurface) CloseMatch()                             {}

// guardSurface treats presentation calls as best-effort notifications:
// a panicking surface is logged and the calling actor carries on.
type guardSurface struct {
	next   Surface
	logger *log.Logger
}

var _ Surface = guardSurface{}

func (g guardSurface) call(op string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			g.logger.Error("surface call failed", "op", op, "panic", r)
		}
	}()
	fn()
}

func (g guardSurface) AddVisual(v object.Visual) {
	g.call("add", func() { g.next.AddVisual(v) })
}

func (g guardSurface) RemoveVisual(v object.Visual) {
	g.call("remove", func() { g.next.RemoveVisual(v) })
}

func (g guardSurface) MoveVisual(v object.Visual, pos physics.Point) {
	g.call("move", func() { g.next.MoveVisual(v, pos) })
}

func (g guardSurface) SetTitle(title string) {
	g.call("title", func() { g.next.SetTitle(title) })
}

func (g guardSurface) ShowEndOfMatchDialog(hits, misses int64) {
	g.call("dialog", func() { g.next.ShowEndOfMatchDialog(hits, misses) })
}

func (g guardSurface) CloseMatch() {
	g.call("close", func() { g.next.CloseMatch() })
}
