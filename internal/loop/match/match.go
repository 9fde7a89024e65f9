// Package match runs one match: the spawner, the difficulty ramp and one
// goroutine per enemy and projectile, all sharing a single State.
package match

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/tomz197/warthreads/internal/latch"
	"github.com/tomz197/warthreads/internal/loop/config"
	"github.com/tomz197/warthreads/internal/object"
	"github.com/tomz197/warthreads/internal/physics"
	"github.com/tomz197/warthreads/internal/pool"
)

// Options configures a match. Zero values select the defaults.
type Options struct {
	ID     string
	Tuning config.Tuning
	Logger *log.Logger
	Rand   object.RandFunc
}

// Match is the orchestrator for one game from start gate to game over.
type Match struct {
	id      string
	tuning  config.Tuning
	arena   object.Arena
	state   *State
	pool    *pool.Pool
	gate    *latch.StartGate
	over    latch.Once
	gun     *object.Gun
	live    registry
	actors  actorGroup
	surface Surface
	logger  *log.Logger
	rnd     object.RandFunc

	done     chan struct{}
	doneOnce sync.Once
	created  time.Time
}

// Snapshot is a point-in-time view of a match for HUDs and status feeds.
type Snapshot struct {
	ID        string        `json:"id"`
	Hits      int64         `json:"hits"`
	Misses    int64         `json:"misses"`
	Speed     int64         `json:"speed"`
	Started   bool          `json:"started"`
	Over      bool          `json:"over"`
	Available int           `json:"available"`
	Capacity  int           `json:"capacity"`
	InFlight  int           `json:"in_flight"`
	Gun       physics.Point `json:"gun"`
	Age       time.Duration `json:"age"`
}

// New creates an idle match drawing onto surface. Zero tuning fields take
// their defaults; a tuning that is still invalid is replaced by Default.
func New(surface Surface, opts Options) *Match {
	if surface == nil {
		surface = NopSurface{}
	}
	if opts.ID == "" {
		opts.ID = uuid.NewString()
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	opts.Tuning = opts.Tuning.WithDefaults()
	if err := opts.Tuning.Validate(); err != nil {
		opts.Logger.Warn("using default tuning", "match", opts.ID, "err", err)
		opts.Tuning = config.Default()
	}
	if opts.Rand == nil {
		opts.Rand = object.DefaultRand
	}

	t := opts.Tuning
	arena := object.Arena{Width: t.ArenaWidth, Height: t.ArenaHeight}
	logger := opts.Logger.With("match", opts.ID)

	return &Match{
		id:      opts.ID,
		tuning:  t,
		arena:   arena,
		state:   NewState(t.InitialSpeed),
		pool:    pool.New(t.MaxProjectiles),
		gate:    latch.NewStartGate(),
		gun:     object.NewGun(arena, t.GunStep),
		surface: guardSurface{next: surface, logger: logger},
		logger:  logger,
		rnd:     opts.Rand,
		done:    make(chan struct{}),
		created: time.Now(),
	}
}

// ID returns the match identifier.
func (m *Match) ID() string {
	return m.id
}

// Arena returns the playfield dimensions.
func (m *Match) Arena() object.Arena {
	return m.arena
}

// State returns the shared match state.
func (m *Match) State() *State {
	return m.state
}

// Done is closed when the match has ended, by game over or Stop.
func (m *Match) Done() <-chan struct{} {
	return m.done
}

// Run starts the spawner and the difficulty ramp and blocks until the match
// ends or ctx is cancelled. All actor goroutines have exited when it returns.
func (m *Match) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	m.surface.AddVisual(m.gun.Visual())
	m.surface.SetTitle(m.state.Score.Title())

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		m.runSpawner(gctx)
		return nil
	})
	g.Go(func() error {
		m.runRamp(gctx)
		return nil
	})

	var err error
	select {
	case <-m.done:
	case <-ctx.Done():
		err = ctx.Err()
		m.Stop()
	}

	cancel()
	_ = g.Wait()
	m.actors.CloseAndWait()

	hits, misses := m.state.Score.Snapshot()
	m.logger.Info("match finished", "hits", hits, "misses", misses, "over", m.state.Over())
	return err
}

// Stop ends the match without running the game-over sequence.
// Actors notice on their next loop check.
func (m *Match) Stop() {
	m.state.Stop()
	m.finish()
}

// Wait blocks until the match has ended and every actor it launched has
// exited. No new actors start once Wait begins draining.
func (m *Match) Wait() {
	<-m.done
	m.actors.CloseAndWait()
}

func (m *Match) finish() {
	m.doneOnce.Do(func() {
		close(m.done)
	})
}

// Left moves the gun left and opens the start gate.
func (m *Match) Left() {
	m.gate.Signal()
	if m.gun.Left() {
		m.surface.MoveVisual(m.gun.Visual(), m.gun.Position())
	}
}

// Right moves the gun right and opens the start gate.
func (m *Match) Right() {
	m.gate.Signal()
	if m.gun.Right() {
		m.surface.MoveVisual(m.gun.Visual(), m.gun.Position())
	}
}

// Fire launches a projectile if a slot is free. A full pool drops the shot.
func (m *Match) Fire() bool {
	if m.state.Over() {
		return false
	}
	if !m.pool.TryAcquire() {
		m.logger.Debug("shot dropped", "in_flight", m.live.len())
		return false
	}

	muzzle := m.gun.Muzzle()
	p := object.NewProjectile(muzzle.X, muzzle.Y)
	m.live.add(p)
	m.surface.AddVisual(p.Visual())

	if !m.actors.Go(func() { m.runProjectile(p) }) {
		m.deleteProjectile(p)
		return false
	}
	return true
}

// Snapshot returns the current match counters.
func (m *Match) Snapshot() Snapshot {
	hits, misses := m.state.Score.Snapshot()
	return Snapshot{
		ID:        m.id,
		Hits:      hits,
		Misses:    misses,
		Speed:     m.state.Speed(),
		Started:   m.state.Running(),
		Over:      m.state.Over(),
		Available: m.pool.Available(),
		Capacity:  m.pool.Capacity(),
		InFlight:  m.live.len(),
		Gun:       m.gun.Position(),
		Age:       time.Since(m.created),
	}
}

// gameOver stops the match; the first caller runs the terminal sequence.
func (m *Match) gameOver() {
	m.state.Stop()
	if !m.over.TryFire() {
		return
	}
	m.state.markOver()

	hits, misses := m.state.Score.Snapshot()
	m.logger.Info("game over", "hits", hits, "misses", misses)
	m.surface.ShowEndOfMatchDialog(hits, misses)
	m.surface.CloseMatch()
	m.finish()
}
