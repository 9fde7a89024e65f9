// Package tui draws a match with tcell, one terminal cell per arena block.
// It is the alternative to the ANSI client for local play.
package tui

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gdamore/tcell/v2"
	"github.com/tomz197/warthreads/internal/loop/client"
	"github.com/tomz197/warthreads/internal/loop/config"
	"github.com/tomz197/warthreads/internal/loop/match"
	"github.com/tomz197/warthreads/internal/object"
	"github.com/tomz197/warthreads/internal/physics"
)

const frameTime = time.Second / 30

// endDismissDelay matches the ANSI client.
const endDismissDelay = 500 * time.Millisecond

var (
	styleGun    = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	styleShot   = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	styleHUD    = tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
	styleDialog = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorNavy)
)

var enemyStyles = [...]tcell.Style{
	tcell.StyleDefault.Foreground(tcell.ColorRed),
	tcell.StyleDefault.Foreground(tcell.ColorFuchsia),
	tcell.StyleDefault.Foreground(tcell.ColorAqua),
}

var enemyGlyphs = [...]rune{'#', '◆', 'X'}

// Options configures a UI.
type Options struct {
	Logger    *log.Logger
	EndScreen time.Duration
	// Arena is the logical playfield being scaled. Zero uses the defaults.
	Arena object.Arena
}

// UI is a match Surface backed by a tcell screen. Surface calls only
// update guarded state; the run loop owns the screen.
type UI struct {
	screen    tcell.Screen
	logger    *log.Logger
	endScreen time.Duration
	arena     object.Arena

	mu        sync.Mutex
	visuals   map[uint64]object.Visual
	title     string
	ended     bool
	endAt     time.Time
	hits      int64
	misses    int64
	closed    bool
	dismissed bool
}

var _ match.Surface = (*UI)(nil)

// New wraps an initialized screen.
func New(screen tcell.Screen, opts Options) *UI {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	endScreen := opts.EndScreen
	if endScreen <= 0 {
		endScreen = time.Duration(config.EndScreenSeconds * float64(time.Second))
	}
	arena := opts.Arena
	if arena.Width <= 0 || arena.Height <= 0 {
		arena = object.Arena{Width: config.ArenaWidth, Height: config.ArenaHeight}
	}
	return &UI{
		screen:    screen,
		arena:     arena,
		logger:    logger,
		endScreen: endScreen,
		visuals:   make(map[uint64]object.Visual),
	}
}

// AddVisual starts drawing v.
func (u *UI) AddVisual(v object.Visual) {
	u.mu.Lock()
	u.visuals[v.ID] = v
	u.mu.Unlock()
	u.wake()
}

// RemoveVisual stops drawing v.
func (u *UI) RemoveVisual(v object.Visual) {
	u.mu.Lock()
	delete(u.visuals, v.ID)
	u.mu.Unlock()
}

// MoveVisual repositions v. Unknown IDs were already removed and are ignored.
func (u *UI) MoveVisual(v object.Visual, pos physics.Point) {
	u.mu.Lock()
	if cur, ok := u.visuals[v.ID]; ok {
		cur.Rect.X, cur.Rect.Y = pos.X, pos.Y
		u.visuals[v.ID] = cur
	}
	u.mu.Unlock()
}

// SetTitle updates the HUD line.
func (u *UI) SetTitle(title string) {
	u.mu.Lock()
	u.title = title
	u.mu.Unlock()
	u.wake()
}

// ShowEndOfMatchDialog shows the final score.
func (u *UI) ShowEndOfMatchDialog(hits, misses int64) {
	u.mu.Lock()
	if !u.ended {
		u.ended = true
		u.endAt = time.Now()
	}
	u.hits, u.misses = hits, misses
	u.mu.Unlock()
	u.wake()
}

// CloseMatch asks for the session to end once the end dialog, if any, is dismissed.
func (u *UI) CloseMatch() {
	u.mu.Lock()
	u.closed = true
	u.mu.Unlock()
	u.wake()
}

// wake nudges the run loop. A dropped wake-up is harmless.
func (u *UI) wake() {
	_ = u.screen.PostEvent(tcell.NewEventInterrupt(nil))
}

// Run plays g until the player quits or the end dialog closes. The caller
// owns the screen's Init and Fini.
func (u *UI) Run(ctx context.Context, g client.Game) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- g.Run(ctx)
	}()

	events := make(chan tcell.Event, 100)
	quit := make(chan struct{})
	defer close(quit)
	go func() {
		for {
			ev := u.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-quit:
				return
			}
		}
	}()

	ticker := time.NewTicker(frameTime)
	defer ticker.Stop()

	running := true
	for running {
		select {
		case ev := <-events:
			running = u.handleEvent(ev, g)
		case <-ticker.C:
		case <-ctx.Done():
			running = false
		}

		finished := false
		select {
		case <-g.Done():
			finished = true
		default:
		}
		if u.sessionOver(finished) {
			running = false
		}

		u.render(g.Snapshot())
	}

	g.Stop()
	return <-errCh
}

func (u *UI) endState() (bool, time.Time) {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.ended, u.endAt
}

// sessionOver reports whether the window should close. With the end dialog
// up it waits for a dismissal; otherwise a close request or a finished
// match is enough.
func (u *UI) sessionOver(finished bool) bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.ended {
		if time.Since(u.endAt) >= u.endScreen {
			u.dismissed = true
		}
		return u.dismissed && (u.closed || finished)
	}
	return u.closed || finished
}

// handleEvent applies one tcell event. It returns false when the session ends.
func (u *UI) handleEvent(ev tcell.Event, g client.Game) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC ||
			(ev.Key() == tcell.KeyRune && (ev.Rune() == 'q' || ev.Rune() == 'Q')) {
			return false
		}

		if ended, endAt := u.endState(); ended {
			if time.Since(endAt) >= endDismissDelay {
				u.mu.Lock()
				u.dismissed = true
				u.mu.Unlock()
			}
			return true
		}

		switch ev.Key() {
		case tcell.KeyLeft:
			g.Left()
		case tcell.KeyRight:
			g.Right()
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'a', 'A', 'j', 'J':
				g.Left()
			case 'd', 'D', 'l', 'L':
				g.Right()
			case ' ', 'w', 'W', 'k', 'K':
				g.Fire()
			}
		}
	case *tcell.EventResize:
		u.screen.Sync()
	}
	return true
}

// render draws the arena scaled to the screen, below a one-line HUD.
func (u *UI) render(snap match.Snapshot) {
	u.mu.Lock()
	visuals := make([]object.Visual, 0, len(u.visuals))
	for _, v := range u.visuals {
		visuals = append(visuals, v)
	}
	title := u.title
	ended, hits, misses := u.ended, u.hits, u.misses
	u.mu.Unlock()

	s := u.screen
	s.Clear()
	width, height := s.Size()
	if width <= 0 || height <= 1 {
		s.Show()
		return
	}

	// Projectiles go last so they stay visible over large enemies.
	for _, v := range visuals {
		if v.Kind != object.KindProjectile {
			u.drawVisual(v, width, height-1)
		}
	}
	for _, v := range visuals {
		if v.Kind == object.KindProjectile {
			u.drawVisual(v, width, height-1)
		}
	}

	if title == "" {
		title = match.FormatTitle(snap.Hits, snap.Misses)
	}
	drawText(s, 0, 0, styleHUD, title)
	shots := fmt.Sprintf("Shots %d/%d  Speed %d", snap.Available, snap.Capacity, snap.Speed)
	drawText(s, width-len(shots), 0, styleHUD, shots)

	if !snap.Started && !ended {
		msg := "Move to start"
		drawText(s, (width-len(msg))/2, height/2, styleHUD, msg)
	}

	if ended {
		drawDialog(s, width, height, []string{
			"GAME OVER",
			fmt.Sprintf("Hits: %d   Misses: %d", hits, misses),
			"Press any key",
		})
	}

	s.Show()
}

// drawVisual fills the cells covered by v. Row 0 is the HUD.
func (u *UI) drawVisual(v object.Visual, cols, rows int) {
	x0, y0 := cellOf(v.Rect.Min(), u.arena, cols, rows)
	x1, y1 := cellOf(physics.Point{X: v.Rect.X + v.Rect.W - 1, Y: v.Rect.Y + v.Rect.H - 1}, u.arena, cols, rows)

	var (
		glyph rune
		style tcell.Style
	)
	switch v.Kind {
	case object.KindGun:
		glyph, style = '▲', styleGun
	case object.KindProjectile:
		glyph, style = '|', styleShot
	default:
		i := v.Variant % len(enemyGlyphs)
		glyph, style = enemyGlyphs[i], enemyStyles[i]
	}

	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			u.screen.SetContent(x, y+1, glyph, nil, style)
		}
	}
}

// cellOf maps an arena point to a screen cell, clamped to the arena.
func cellOf(p physics.Point, arena object.Arena, cols, rows int) (int, int) {
	x := min(max(p.X, 0), arena.Width-1) * cols / arena.Width
	y := min(max(p.Y, 0), arena.Height-1) * rows / arena.Height
	return x, y
}

func drawText(s tcell.Screen, x, y int, style tcell.Style, text string) {
	for _, r := range text {
		s.SetContent(x, y, r, nil, style)
		x++
	}
}

func drawDialog(s tcell.Screen, width, height int, lines []string) {
	w := 0
	for _, l := range lines {
		w = max(w, len(l))
	}
	w += 4
	h := len(lines) + 2
	left := (width - w) / 2
	top := (height - h) / 2

	for y := top; y < top+h; y++ {
		for x := left; x < left+w; x++ {
			s.SetContent(x, y, ' ', nil, styleDialog)
		}
	}
	for i, l := range lines {
		drawText(s, left+(w-len(l))/2, top+1+i, styleDialog, l)
	}
}
