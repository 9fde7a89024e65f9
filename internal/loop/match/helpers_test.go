package match

import (
	"io"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/tomz197/warthreads/internal/loop/config"
	"github.com/tomz197/warthreads/internal/object"
	"github.com/tomz197/warthreads/internal/physics"
)

// recordingSurface counts every presentation call.
type recordingSurface struct {
	mu      sync.Mutex
	live    map[uint64]object.Visual
	added   map[object.Kind]int
	removed map[object.Kind]int
	moves   int
	titles  []string
	dialogs int
	closes  int
}

func newRecordingSurface() *recordingSurface {
	return &recordingSurface{
		live:    make(map[uint64]object.Visual),
		added:   make(map[object.Kind]int),
		removed: make(map[object.Kind]int),
	}
}

func (s *recordingSurface) AddVisual(v object.Visual) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.live[v.ID] = v
	s.added[v.Kind]++
}

func (s *recordingSurface) RemoveVisual(v object.Visual) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.live, v.ID)
	s.removed[v.Kind]++
}

func (s *recordingSurface) MoveVisual(v object.Visual, pos physics.Point) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.moves++
}

func (s *recordingSurface) SetTitle(title string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.titles = append(s.titles, title)
}

func (s *recordingSurface) ShowEndOfMatchDialog(hits, misses int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dialogs++
}

func (s *recordingSurface) CloseMatch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closes++
}

func (s *recordingSurface) removedCount(k object.Kind) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.removed[k]
}

func (s *recordingSurface) lastTitle() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.titles) == 0 {
		return ""
	}
	return s.titles[len(s.titles)-1]
}

func (s *recordingSurface) endCounts() (dialogs, closes int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dialogs, s.closes
}

// fastTuning keeps the default rules but shrinks every delay.
func fastTuning() config.Tuning {
	t := config.Default()
	t.StartTimeout = 20 * time.Millisecond
	t.SpawnInterval = 5 * time.Millisecond
	t.RampInterval = 5 * time.Millisecond
	t.ProjectileInterval = time.Millisecond
	t.SubTickMin = 0
	t.SubTickMax = 0
	return t
}

// constRand always returns v reduced into range.
func constRand(v int) object.RandFunc {
	return func(n int) int { return v % n }
}

func newTestMatch(t *testing.T, s Surface, tuning config.Tuning, rnd object.RandFunc) *Match {
	t.Helper()
	return New(s, Options{
		ID:     t.Name(),
		Tuning: tuning,
		Logger: log.New(io.Discard),
		Rand:   rnd,
	})
}

func eventually(t *testing.T, within time.Duration, cond func() bool, what string) {
	t.Helper()
	deadline := time.Now().Add(within)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(time.Millisecond)
	}
}
