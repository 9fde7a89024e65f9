package client

import (
	"time"

	"github.com/tomz197/warthreads/internal/input"
	"github.com/tomz197/warthreads/internal/object"
)

// Phase is where the session is in its single match.
type Phase int

const (
	PhaseWaiting Phase = iota // Match created, start gate still closed
	PhasePlaying              // Spawner running
	PhaseEnded                // End-of-match dialog on screen
)

// ClientState holds everything the render goroutine draws from. It is only
// touched by that goroutine; actors reach it through the op queue.
type ClientState struct {
	Input      input.Input
	Phase      Phase
	Visuals    map[uint64]object.Visual
	Title      string
	Hits       int64   // Final hits shown by the end dialog
	Misses     int64   // Final misses shown by the end dialog
	Closed     bool    // The match asked its window to close
	Running    bool    // Client loop running
	endTimer   float64 // Seconds left before the dialog is dismissed
	endShownAt time.Time
	dismissed  bool // End dialog timed out or was answered with a key

	prevPhase  Phase
	titleDirty bool
	blinkOn    bool
	delta      time.Duration
}

// NewClientState creates a new initialized client state.
func NewClientState() *ClientState {
	return &ClientState{
		Phase:   PhaseWaiting,
		Visuals: make(map[uint64]object.Visual),
		Running: true,
	}
}
