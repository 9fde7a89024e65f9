package hub

import (
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/tomz197/warthreads/internal/loop/match"
)

func newTestHub() *Hub {
	return New(log.New(io.Discard))
}

func TestOpenAssignsUUIDs(t *testing.T) {
	h := newTestHub()
	a := h.Open(match.NopSurface{}, match.Options{Logger: log.New(io.Discard)})
	b := h.Open(match.NopSurface{}, match.Options{Logger: log.New(io.Discard)})
	defer a.Stop()
	defer b.Stop()

	if a.ID() == b.ID() {
		t.Fatal("duplicate match IDs")
	}
	if _, err := uuid.Parse(a.ID()); err != nil {
		t.Fatalf("ID %q is not a uuid: %v", a.ID(), err)
	}
	if h.Len() != 2 {
		t.Fatalf("Len = %d, want 2", h.Len())
	}
	if got, ok := h.Get(a.ID()); !ok || got != a {
		t.Fatal("Get did not return the opened match")
	}
}

func TestOpenKeepsGivenID(t *testing.T) {
	h := newTestHub()
	m := h.Open(match.NopSurface{}, match.Options{ID: "fixed", Logger: log.New(io.Discard)})
	defer m.Stop()

	if m.ID() != "fixed" {
		t.Fatalf("ID = %q", m.ID())
	}
}

func TestFinishedMatchesLeave(t *testing.T) {
	h := newTestHub()
	m := h.Open(match.NopSurface{}, match.Options{Logger: log.New(io.Discard)})
	m.Stop()

	deadline := time.Now().Add(time.Second)
	for h.Len() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("stopped match still listed")
		}
		time.Sleep(time.Millisecond)
	}
	if _, ok := h.Get(m.ID()); ok {
		t.Fatal("Get still finds a stopped match")
	}
}

func TestSnapshotsAndSummary(t *testing.T) {
	h := newTestHub()
	b := h.Open(match.NopSurface{}, match.Options{ID: "b", Logger: log.New(io.Discard)})
	a := h.Open(match.NopSurface{}, match.Options{ID: "a", Logger: log.New(io.Discard)})
	defer a.Stop()
	defer b.Stop()

	a.State().Score.RecordHit()
	a.State().Score.RecordMiss()
	b.State().Score.RecordMiss()

	snaps := h.Snapshots()
	if len(snaps) != 2 || snaps[0].ID != "a" || snaps[1].ID != "b" {
		t.Fatalf("snapshots out of order: %+v", snaps)
	}

	sum := h.Summary()
	want := Summary{Matches: 2, Playing: 0, Hits: 1, Misses: 2}
	if sum != want {
		t.Fatalf("Summary = %+v, want %+v", sum, want)
	}
}

func TestStopAll(t *testing.T) {
	h := newTestHub()
	a := h.Open(match.NopSurface{}, match.Options{Logger: log.New(io.Discard)})
	b := h.Open(match.NopSurface{}, match.Options{Logger: log.New(io.Discard)})

	if n := h.StopAll(); n != 2 {
		t.Fatalf("StopAll = %d, want 2", n)
	}
	for _, m := range []*match.Match{a, b} {
		select {
		case <-m.Done():
		case <-time.After(time.Second):
			t.Fatalf("match %s not stopped", m.ID())
		}
	}
}
