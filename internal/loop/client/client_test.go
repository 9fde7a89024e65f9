package client

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/tomz197/warthreads/internal/loop/match"
	"github.com/tomz197/warthreads/internal/object"
	"github.com/tomz197/warthreads/internal/physics"
)

// fakeGame records the calls a client makes.
type fakeGame struct {
	lefts, rights, fires atomic.Int32
	started              atomic.Bool
	stopped              atomic.Bool
	done                 chan struct{}
	once                 sync.Once
	onRun                func()
}

func newFakeGame() *fakeGame {
	return &fakeGame{done: make(chan struct{})}
}

func (g *fakeGame) Run(ctx context.Context) error {
	if g.onRun != nil {
		g.onRun()
	}
	select {
	case <-g.done:
		return nil
	case <-ctx.Done():
		g.Stop()
		return ctx.Err()
	}
}

func (g *fakeGame) Stop() {
	g.stopped.Store(true)
	g.once.Do(func() { close(g.done) })
}

func (g *fakeGame) Done() <-chan struct{} { return g.done }
func (g *fakeGame) Left()                 { g.lefts.Add(1) }
func (g *fakeGame) Right()                { g.rights.Add(1) }
func (g *fakeGame) Fire() bool            { g.fires.Add(1); return true }

func (g *fakeGame) Snapshot() match.Snapshot {
	return match.Snapshot{Started: g.started.Load(), Available: 3, Capacity: 3, Speed: 10}
}

// syncBuffer lets the test peek at output while the client writes it.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func fixedSize() (int, int, error) { return 80, 24, nil }

func newTestClient(r io.Reader, w io.Writer) *Client {
	return NewClient(bufio.NewReader(r), w, ClientOptions{
		TermSizeFunc: fixedSize,
		Logger:       log.New(io.Discard),
		EndScreen:    100 * time.Millisecond,
	})
}

func eventually(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func TestApplyOpsInOrder(t *testing.T) {
	c := newTestClient(strings.NewReader(""), io.Discard)
	enemy := object.Visual{ID: 7, Kind: object.KindEnemy, Rect: physics.Rect{X: 0, Y: 0, W: 20, H: 20}}
	shot := object.Visual{ID: 8, Kind: object.KindProjectile, Rect: physics.Rect{X: 5, Y: 5, W: 15, H: 15}}

	c.AddVisual(enemy)
	c.MoveVisual(enemy, physics.Point{X: 30, Y: 40})
	c.AddVisual(shot)
	c.RemoveVisual(shot)
	c.MoveVisual(shot, physics.Point{X: 1, Y: 1}) // late move for a removed shot
	c.SetTitle("War of Threads - Hits: 0, Misses: 1")
	c.applyOps()

	if len(c.state.Visuals) != 1 {
		t.Fatalf("visuals = %d, want 1", len(c.state.Visuals))
	}
	got := c.state.Visuals[7].Rect
	if got.X != 30 || got.Y != 40 || got.W != 20 {
		t.Fatalf("enemy rect = %+v", got)
	}
	if c.state.Title != "War of Threads - Hits: 0, Misses: 1" || !c.state.titleDirty {
		t.Fatalf("title = %q dirty=%v", c.state.Title, c.state.titleDirty)
	}
}

func TestEndDialogOpSetsPhase(t *testing.T) {
	c := newTestClient(strings.NewReader(""), io.Discard)
	c.ShowEndOfMatchDialog(4, 30)
	c.CloseMatch()
	c.applyOps()

	if c.state.Phase != PhaseEnded || !c.state.Closed {
		t.Fatalf("phase = %v closed = %v", c.state.Phase, c.state.Closed)
	}
	if c.state.Hits != 4 || c.state.Misses != 30 {
		t.Fatalf("score = %d/%d", c.state.Hits, c.state.Misses)
	}
	if c.state.endTimer <= 0 {
		t.Fatal("end timer not armed")
	}
}

func TestCloseRequestWaitsForDismissedDialog(t *testing.T) {
	g := newFakeGame()
	c := newTestClient(strings.NewReader(""), io.Discard)

	c.ShowEndOfMatchDialog(1, 30)
	c.applyOps()
	c.state.delta = time.Second
	c.updatePhase(g)
	if !c.state.dismissed {
		t.Fatal("dialog not dismissed after its timer ran out")
	}
	if !c.state.Running {
		t.Fatal("session ended before the close request")
	}

	c.CloseMatch()
	c.applyOps()
	c.updatePhase(g)
	if c.state.Running {
		t.Fatal("close request after the dialog did not end the session")
	}
}

func TestCloseRequestWithoutDialogEndsSession(t *testing.T) {
	g := newFakeGame()
	c := newTestClient(strings.NewReader(""), io.Discard)

	c.CloseMatch()
	c.applyOps()
	c.updatePhase(g)
	if c.state.Running {
		t.Fatal("close request ignored")
	}
}

func TestSurfaceCallsAreSafeConcurrently(t *testing.T) {
	c := newTestClient(strings.NewReader(""), io.Discard)

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v := object.Visual{ID: uint64(i + 1), Kind: object.KindProjectile}
			c.AddVisual(v)
			c.MoveVisual(v, physics.Point{X: i, Y: i})
		}()
	}
	wg.Wait()
	c.applyOps()

	if len(c.state.Visuals) != 50 {
		t.Fatalf("visuals = %d, want 50", len(c.state.Visuals))
	}
}

func TestRunForwardsKeysAndStopsOnQuit(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()

	g := newFakeGame()
	c := newTestClient(pr, io.Discard)

	errCh := make(chan error, 1)
	go func() { errCh <- c.Run(context.Background(), g) }()

	pw.Write([]byte("dda "))
	eventually(t, func() bool { return g.rights.Load() == 2 && g.lefts.Load() == 1 && g.fires.Load() == 1 })

	pw.Write([]byte("q"))
	select {
	case err := <-errCh:
		if err != nil {
			t.Fatalf("Run = %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after quit")
	}
	if !g.stopped.Load() {
		t.Fatal("match not stopped when the client left")
	}
}

func TestRunShowsEndDialogThenCloses(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()

	out := &syncBuffer{}
	g := newFakeGame()
	c := newTestClient(pr, out)
	g.onRun = func() {
		g.started.Store(true)
		c.ShowEndOfMatchDialog(3, 30)
		c.CloseMatch()
		g.Stop()
	}

	done := make(chan error, 1)
	go func() { done <- c.Run(context.Background(), g) }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run = %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("end dialog never timed out")
	}

	got := out.String()
	if !strings.Contains(got, "GAME OVER") || !strings.Contains(got, "Hits: 3   Misses: 30") {
		t.Fatalf("end dialog not drawn")
	}
}

func TestRunEndsWhenInputCloses(t *testing.T) {
	g := newFakeGame()
	c := newTestClient(strings.NewReader(""), io.Discard)

	done := make(chan error, 1)
	go func() { done <- c.Run(context.Background(), g) }()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run kept going with closed input")
	}
	if !g.stopped.Load() {
		t.Fatal("match not stopped")
	}
}

func TestClampTermSize(t *testing.T) {
	tests := []struct {
		w, h                   int
		rw, rh, offCol, offRow int
	}{
		{80, 24, 80, 24, 0, 0},
		{200, 24, 160, 24, 20, 0},
		{80, 100, 80, 60, 0, 20},
		{0, 0, 1, 1, 0, 0},
	}
	for _, tt := range tests {
		rw, rh, oc, or := clampTermSize(tt.w, tt.h)
		if rw != tt.rw || rh != tt.rh || oc != tt.offCol || or != tt.offRow {
			t.Errorf("clampTermSize(%d,%d) = %d,%d,%d,%d", tt.w, tt.h, rw, rh, oc, or)
		}
	}
}
