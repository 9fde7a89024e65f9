package match

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// hitUnit is the increment of the hit half of the packed score word.
const hitUnit = 1 << 32

// ScoreBoard counts hits and misses.
// Both counters share one atomic word so readers always see a matching pair.
type ScoreBoard struct {
	packed atomic.Uint64 // hits in the high 32 bits, misses in the low 32
}

func unpack(v uint64) (hits, misses int64) {
	return int64(v >> 32), int64(v & 0xFFFFFFFF)
}

// RecordHit adds one hit and returns the counts right after it.
func (b *ScoreBoard) RecordHit() (hits, misses int64) {
	return unpack(b.packed.Add(hitUnit))
}

// RecordMiss adds one miss and returns the counts right after it.
func (b *ScoreBoard) RecordMiss() (hits, misses int64) {
	return unpack(b.packed.Add(1))
}

// Snapshot returns the current counts.
func (b *ScoreBoard) Snapshot() (hits, misses int64) {
	return unpack(b.packed.Load())
}

// Title formats the current counts for display.
func (b *ScoreBoard) Title() string {
	return FormatTitle(b.Snapshot())
}

// FormatTitle formats a score pair as the window title.
func FormatTitle(hits, misses int64) string {
	return fmt.Sprintf("War of Threads - Hits: %d, Misses: %d", hits, misses)
}

// State is the shared mutable state of one match.
// Every actor holds a pointer to it; all fields are safe for concurrent use.
type State struct {
	Score ScoreBoard

	speed   atomic.Int64
	started atomic.Bool
	stopped atomic.Bool
	over    atomic.Bool

	startedCh chan struct{}
	startOnce sync.Once
}

// NewState creates an idle state with the given enemy speed.
func NewState(initialSpeed int64) *State {
	s := &State{startedCh: make(chan struct{})}
	s.speed.Store(initialSpeed)
	return s
}

// Start moves the match from idle to running. It succeeds at most once,
// and never after Stop.
func (s *State) Start() bool {
	won := false
	s.startOnce.Do(func() {
		if s.stopped.Load() {
			return
		}
		s.started.Store(true)
		close(s.startedCh)
		won = true
	})
	if won && s.stopped.Load() {
		// Stop raced the transition; it wins.
		s.started.Store(false)
		return false
	}
	return won
}

// Stop ends the running phase for good.
func (s *State) Stop() {
	s.stopped.Store(true)
	s.started.Store(false)
}

// Running reports whether the match is started and not yet stopped.
func (s *State) Running() bool {
	return s.started.Load()
}

// Started is closed once Start succeeds.
func (s *State) Started() <-chan struct{} {
	return s.startedCh
}

// Speed returns the current enemy speed in units per move.
func (s *State) Speed() int64 {
	return s.speed.Load()
}

// Accelerate adds one to the enemy speed and returns the new value.
func (s *State) Accelerate() int64 {
	return s.speed.Add(1)
}

// Over reports whether the terminal sequence has run.
func (s *State) Over() bool {
	return s.over.Load()
}

func (s *State) markOver() {
	s.over.Store(true)
}
