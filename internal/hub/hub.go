// Package hub keeps track of the matches running in this process so they
// can be listed and watched. It never drives a match.
package hub

import (
	"slices"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/tomz197/warthreads/internal/loop/match"
)

// Summary aggregates every live match.
type Summary struct {
	Matches int   `json:"matches"`
	Playing int   `json:"playing"`
	Hits    int64 `json:"hits"`
	Misses  int64 `json:"misses"`
}

// Hub is a registry of live matches keyed by ID.
type Hub struct {
	mu      sync.RWMutex
	matches map[string]*match.Match
	logger  *log.Logger
}

// New creates an empty hub.
func New(logger *log.Logger) *Hub {
	if logger == nil {
		logger = log.Default()
	}
	return &Hub{
		matches: make(map[string]*match.Match),
		logger:  logger,
	}
}

// Open creates a match with a fresh ID and tracks it until it finishes.
// The caller still owns running it.
func (h *Hub) Open(surface match.Surface, opts match.Options) *match.Match {
	if opts.ID == "" {
		opts.ID = uuid.NewString()
	}
	m := match.New(surface, opts)

	h.mu.Lock()
	h.matches[m.ID()] = m
	n := len(h.matches)
	h.mu.Unlock()
	h.logger.Debug("match opened", "match", m.ID(), "live", n)

	go func() {
		<-m.Done()
		h.remove(m.ID())
	}()
	return m
}

func (h *Hub) remove(id string) {
	h.mu.Lock()
	delete(h.matches, id)
	n := len(h.matches)
	h.mu.Unlock()
	h.logger.Debug("match closed", "match", id, "live", n)
}

// Get returns the live match with the given ID.
func (h *Hub) Get(id string) (*match.Match, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	m, ok := h.matches[id]
	return m, ok
}

// Len returns the number of live matches.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.matches)
}

// Snapshots returns a snapshot of every live match, ordered by ID.
func (h *Hub) Snapshots() []match.Snapshot {
	h.mu.RLock()
	live := make([]*match.Match, 0, len(h.matches))
	for _, m := range h.matches {
		live = append(live, m)
	}
	h.mu.RUnlock()

	out := make([]match.Snapshot, 0, len(live))
	for _, m := range live {
		out = append(out, m.Snapshot())
	}
	slices.SortFunc(out, func(a, b match.Snapshot) int {
		return strings.Compare(a.ID, b.ID)
	})
	return out
}

// Summary totals the live matches.
func (h *Hub) Summary() Summary {
	var s Summary
	for _, snap := range h.Snapshots() {
		s.Matches++
		if snap.Started && !snap.Over {
			s.Playing++
		}
		s.Hits += snap.Hits
		s.Misses += snap.Misses
	}
	return s
}

// StopAll stops every live match. Their sessions see Done and wind down.
func (h *Hub) StopAll() int {
	h.mu.RLock()
	live := make([]*match.Match, 0, len(h.matches))
	for _, m := range h.matches {
		live = append(live, m)
	}
	h.mu.RUnlock()

	for _, m := range live {
		m.Stop()
	}
	return len(live)
}
