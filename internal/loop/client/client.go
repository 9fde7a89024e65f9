package client

import (
	"bufio"
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/tomz197/warthreads/internal/draw"
	"github.com/tomz197/warthreads/internal/input"
	"github.com/tomz197/warthreads/internal/loop/config"
	"github.com/tomz197/warthreads/internal/loop/match"
	"github.com/tomz197/warthreads/internal/object"
)

// endDismissDelay keeps a key press that was already in flight when the
// match ended from closing the dialog immediately.
const endDismissDelay = 500 * time.Millisecond

// Game is the match a client drives. *match.Match implements it.
type Game interface {
	Run(ctx context.Context) error
	Stop()
	Done() <-chan struct{}
	Left()
	Right()
	Fire() bool
	Snapshot() match.Snapshot
}

var _ Game = (*match.Match)(nil)

// Client renders one match to an ANSI terminal and feeds it keyboard input.
// It is the match's Surface: actor calls are queued and applied by the
// render loop, so drawing state has a single owner.
type Client struct {
	state        *ClientState
	queue        opQueue
	spare        []op
	canvas       *draw.Canvas
	chunkWriter  *draw.ChunkWriter // Accumulates UI text for chunked output
	writer       io.Writer
	inputStream  *input.Stream
	lastInput    time.Time
	termSizeFunc draw.TermSizeFunc
	logger       *log.Logger
	startTimeout time.Duration
	endScreen    time.Duration
	now          func() time.Time
}

// ClientOptions configures the client.
type ClientOptions struct {
	TermSizeFunc draw.TermSizeFunc
	Logger       *log.Logger
	// StartTimeout is only used for the countdown on the waiting screen.
	StartTimeout time.Duration
	// EndScreen is how long the end dialog stays up. Zero uses EndScreenSeconds.
	EndScreen time.Duration
	// Arena is the logical playfield being scaled. Zero uses the defaults.
	Arena object.Arena
}

// NewClient creates a client reading keys from r and drawing to w.
func NewClient(r *bufio.Reader, w io.Writer, opts ClientOptions) *Client {
	termSizeFunc := opts.TermSizeFunc
	if termSizeFunc == nil {
		termSizeFunc = draw.DefaultTermSizeFunc
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	startTimeout := opts.StartTimeout
	if startTimeout <= 0 {
		startTimeout = config.StartTimeout
	}
	endScreen := opts.EndScreen
	if endScreen <= 0 {
		endScreen = time.Duration(config.EndScreenSeconds * float64(time.Second))
	}

	arena := opts.Arena
	if arena.Width <= 0 || arena.Height <= 0 {
		arena = object.Arena{Width: config.ArenaWidth, Height: config.ArenaHeight}
	}

	// Create canvas with clamped dimensions for max render resolution
	termWidth, termHeight, _ := termSizeFunc()
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)
	canvas := draw.NewScaledCanvas(renderWidth, renderHeight, float64(arena.Width), float64(arena.Height))
	canvas.SetOffset(offsetCol, offsetRow)

	return &Client{
		state:        NewClientState(),
		canvas:       canvas,
		chunkWriter:  draw.NewChunkWriter(w, offsetCol, offsetRow),
		writer:       w,
		inputStream:  input.StartStream(r),
		lastInput:    time.Now(),
		termSizeFunc: termSizeFunc,
		logger:       logger,
		startTimeout: startTimeout,
		endScreen:    endScreen,
		now:          time.Now,
	}
}

// Run plays g to completion. It starts the match, then renders and reads
// input until the player quits, the input closes, or the end dialog is
// dismissed. The match is always stopped and drained before Run returns.
func (c *Client) Run(ctx context.Context, g Game) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- g.Run(ctx)
	}()

	draw.HideCursor(c.writer)
	defer draw.ShowCursor(c.writer)
	draw.ClearScreen(c.writer)

	lastTime := time.Now()
	var frameErr error

	for c.state.Running {
		frameStart := time.Now()
		c.state.delta = frameStart.Sub(lastTime)
		lastTime = frameStart

		c.processInput(g)
		c.applyOps()
		c.updatePhase(g)
		c.updateScreen()

		if err := c.drawFrame(g.Snapshot()); err != nil {
			frameErr = err
			break
		}

		if ctx.Err() != nil {
			break
		}

		elapsed := time.Since(frameStart)
		if elapsed < config.ClientTargetFrameTime {
			time.Sleep(config.ClientTargetFrameTime - elapsed)
		}
	}

	g.Stop()
	err := <-errCh

	draw.ClearScreen(c.writer)
	if frameErr != nil {
		c.logger.Debug("client frame failed", "err", frameErr)
		return frameErr
	}
	return err
}

// processInput reads input and forwards it to the match.
func (c *Client) processInput(g Game) {
	in := input.ReadInput(c.inputStream)
	c.state.Input = in

	if in.Any() {
		c.lastInput = time.Now()
	} else if time.Since(c.lastInput).Seconds() > config.InactivityDisconnectUser {
		c.state.Running = false
	}

	if in.Closed || in.Quit {
		c.state.Running = false
		return
	}

	if c.state.Phase == PhaseEnded {
		if in.Any() && c.now().Sub(c.state.endShownAt) >= endDismissDelay {
			c.state.dismissed = true
		}
		return
	}

	for range in.Left {
		g.Left()
	}
	for range in.Right {
		g.Right()
	}
	for range in.Fire {
		g.Fire()
	}
}

// updatePhase advances the session phase from the match state. A close
// request ends the session, but only once the end dialog, if shown, has
// been dismissed. A match that finishes without one (Stop) ends it at once.
func (c *Client) updatePhase(g Game) {
	s := c.state

	finished := false
	select {
	case <-g.Done():
		finished = true
		// The end dialog is queued before the match finishes; pick it up.
		c.applyOps()
	default:
	}

	switch s.Phase {
	case PhaseWaiting:
		if g.Snapshot().Started {
			s.Phase = PhasePlaying
		}
	case PhaseEnded:
		s.endTimer -= s.delta.Seconds()
		if s.endTimer <= 0 {
			s.dismissed = true
		}
	}

	if s.Phase == PhaseEnded {
		if s.dismissed && (s.Closed || finished) {
			s.Running = false
		}
		return
	}
	if s.Closed || finished {
		s.Running = false
	}
}

// updateScreen handles terminal resize, clamping to max render resolution.
func (c *Client) updateScreen() {
	termWidth, termHeight, err := c.termSizeFunc()
	if err != nil {
		return
	}
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)

	if renderWidth == c.canvas.TerminalWidth() && renderHeight == c.canvas.TerminalHeight() &&
		offsetCol == c.canvas.OffsetCol() && offsetRow == c.canvas.OffsetRow() {
		return
	}

	draw.ClearScreen(c.chunkWriter)
	c.canvas.Resize(renderWidth, renderHeight)
	c.canvas.SetOffset(offsetCol, offsetRow)
	c.chunkWriter.SetOffset(offsetCol, offsetRow)
}

// clampTermSize clamps terminal dimensions to the max render resolution and computes
// the centering offset for the render area.
func clampTermSize(termWidth, termHeight int) (renderWidth, renderHeight, offsetCol, offsetRow int) {
	renderWidth = min(max(termWidth, 1), config.MaxTermWidth)
	renderHeight = min(max(termHeight, 1), config.MaxTermHeight)
	offsetCol = max((termWidth-renderWidth)/2, 0)
	offsetRow = max((termHeight-renderHeight)/2, 0)
	return
}
