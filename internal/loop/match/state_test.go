package match

import (
	"sync"
	"testing"
)

func TestScoreBoardConcurrentMisses(t *testing.T) {
	var b ScoreBoard
	var wg sync.WaitGroup
	for i := 0; i < 1000; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b.RecordMiss()
		}()
	}
	wg.Wait()

	hits, misses := b.Snapshot()
	if misses != 1000 || hits != 0 {
		t.Errorf("hits=%d misses=%d, want 0/1000", hits, misses)
	}
}

func TestScoreBoardMixedCallsAreExact(t *testing.T) {
	var b ScoreBoard
	var wg sync.WaitGroup
	for i := 0; i < 500; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			b.RecordHit()
		}()
		go func() {
			defer wg.Done()
			b.RecordMiss()
		}()
	}

	// Readers running alongside must never see counts go backwards.
	stop := make(chan struct{})
	readerDone := make(chan struct{})
	go func() {
		defer close(readerDone)
		var lastH, lastM int64
		for {
			select {
			case <-stop:
				return
			default:
			}
			h, m := b.Snapshot()
			if h < lastH || m < lastM {
				t.Errorf("counts went backwards: %d/%d after %d/%d", h, m, lastH, lastM)
				return
			}
			lastH, lastM = h, m
		}
	}()

	wg.Wait()
	close(stop)
	<-readerDone

	hits, misses := b.Snapshot()
	if hits != 500 || misses != 500 {
		t.Errorf("hits=%d misses=%d, want 500/500", hits, misses)
	}
}

func TestRecordReturnsPair(t *testing.T) {
	var b ScoreBoard
	b.RecordHit()
	b.RecordHit()
	h, m := b.RecordMiss()
	if h != 2 || m != 1 {
		t.Errorf("RecordMiss returned %d/%d, want 2/1", h, m)
	}
	if got, want := b.Title(), "War of Threads - Hits: 2, Misses: 1"; got != want {
		t.Errorf("Title = %q, want %q", got, want)
	}
}

func TestStateStartOnce(t *testing.T) {
	s := NewState(10)
	if s.Running() {
		t.Fatal("new state is running")
	}
	if !s.Start() {
		t.Fatal("first Start failed")
	}
	select {
	case <-s.Started():
	default:
		t.Fatal("Started channel not closed")
	}
	if s.Start() {
		t.Error("second Start succeeded")
	}

	s.Stop()
	if s.Running() {
		t.Error("running after Stop")
	}
	if s.Start() {
		t.Error("Start succeeded after Stop")
	}
}

func TestStateStopBeforeStart(t *testing.T) {
	s := NewState(10)
	s.Stop()
	if s.Start() || s.Running() {
		t.Error("stopped state could be started")
	}
}

func TestStateAccelerate(t *testing.T) {
	s := NewState(10)
	if got := s.Accelerate(); got != 11 {
		t.Errorf("Accelerate = %d, want 11", got)
	}
	if got := s.Speed(); got != 11 {
		t.Errorf("Speed = %d, want 11", got)
	}
}
