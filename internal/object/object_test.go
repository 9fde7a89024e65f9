package object

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/tomz197/warthreads/internal/loop/config"
	"github.com/tomz197/warthreads/internal/physics"
)

// scripted returns a RandFunc that yields values in order, then repeats the last.
func scripted(values ...int) RandFunc {
	var mu sync.Mutex
	i := 0
	return func(n int) int {
		mu.Lock()
		defer mu.Unlock()
		v := values[i]
		if i < len(values)-1 {
			i++
		}
		return v % n
	}
}

var testArena = Arena{Width: config.ArenaWidth, Height: config.ArenaHeight}

func TestNewEnemySide(t *testing.T) {
	tests := []struct {
		name    string
		y       int
		wantX   int
		wantDir int
	}{
		{"odd row enters left", 101, 0, 1},
		{"even row enters right", 100, config.ArenaWidth, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// variant, y, large roll
			e := NewEnemy(testArena, scripted(1, tt.y, 99))
			if e.Rect.X != tt.wantX || e.Direction != tt.wantDir {
				t.Errorf("x=%d dir=%d, want x=%d dir=%d", e.Rect.X, e.Direction, tt.wantX, tt.wantDir)
			}
			if e.Rect.Y != tt.y {
				t.Errorf("y=%d, want %d", e.Rect.Y, tt.y)
			}
			if e.Lives != 1 || e.Size != SizeNormal {
				t.Errorf("lives=%d size=%d, want a normal single-life enemy", e.Lives, e.Size)
			}
			if e.Rect.W != config.EnemySize || e.Rect.H != config.EnemySize {
				t.Errorf("size %dx%d, want %d", e.Rect.W, e.Rect.H, config.EnemySize)
			}
			if e.Variant != 1 {
				t.Errorf("variant=%d, want 1", e.Variant)
			}
		})
	}
}

func TestNewEnemyLarge(t *testing.T) {
	e := NewEnemy(testArena, scripted(0, 333, 2))
	if e.Size != SizeLarge || e.Lives != config.LargeEnemyLives {
		t.Fatalf("size=%d lives=%d, want large with %d lives", e.Size, e.Lives, config.LargeEnemyLives)
	}
	if e.Rect.Y != config.LargeEnemyTop {
		t.Errorf("y=%d, want %d", e.Rect.Y, config.LargeEnemyTop)
	}
	if e.Rect.W != testArena.Width/2 || e.Rect.H != testArena.Height/2 {
		t.Errorf("size %dx%d, want half the arena", e.Rect.W, e.Rect.H)
	}
	// LargeEnemyTop is even, so the large ship enters from the right.
	if e.Direction != -1 {
		t.Errorf("dir=%d, want -1", e.Direction)
	}
	if e.Visual().Kind != KindLargeEnemy {
		t.Errorf("kind=%v, want large-enemy", e.Visual().Kind)
	}
}

func TestEnemyAdvanceLeavesArena(t *testing.T) {
	e := &Enemy{Rect: physics.Rect{X: 0, W: 20, H: 20}, Direction: 1, Lives: 1}
	steps := 0
	for e.InBounds(testArena) {
		e.Advance(10)
		steps++
	}
	if steps != testArena.Width/10+1 {
		t.Errorf("left after %d steps, want %d", steps, testArena.Width/10+1)
	}

	e = &Enemy{Rect: physics.Rect{X: testArena.Width, W: 20, H: 20}, Direction: -1}
	e.Advance(int64(testArena.Width) + 1)
	if e.InBounds(testArena) {
		t.Errorf("enemy at x=%d still in bounds", e.Rect.X)
	}
}

func TestEnemyHit(t *testing.T) {
	e := &Enemy{Lives: 2}
	if e.LastLife() {
		t.Fatal("two lives reported as the last")
	}
	if e.Hit() {
		t.Fatal("destroyed with a life left")
	}
	if !e.LastLife() {
		t.Fatal("last life not reported")
	}
	if !e.Hit() {
		t.Fatal("not destroyed at zero lives")
	}
}

func TestProjectileMarkDeletedOnce(t *testing.T) {
	p := NewProjectile(10, 100)
	var wins atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if p.MarkDeleted() {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()

	if got := wins.Load(); got != 1 {
		t.Errorf("winners = %d, want 1", got)
	}
	if !p.IsDeleted() {
		t.Error("IsDeleted = false")
	}
}

func TestProjectileRise(t *testing.T) {
	p := NewProjectile(10, 25)
	pos := p.Rise(10)
	if pos != (physics.Point{X: 10, Y: 15}) || p.Y() != 15 {
		t.Errorf("after Rise: pos=%+v y=%d", pos, p.Y())
	}
	r := p.Rect()
	if r.W != config.ProjectileSize || r.Y != 15 {
		t.Errorf("Rect = %+v", r)
	}
}

func TestGunClamped(t *testing.T) {
	arena := Arena{Width: 100, Height: 200}
	g := NewGun(arena, 20)
	if got := g.Position(); got.X != 50 || got.Y != 100 {
		t.Fatalf("start = %+v, want (50,100)", got)
	}

	moves := 0
	for g.Right() {
		moves++
	}
	if got := g.Position().X; got+config.GunWidth > arena.Width {
		t.Errorf("gun left edge %d pushes past the arena", got)
	}
	if moves != 0 {
		t.Errorf("right moves = %d, want 0 (50+40+20 > 100)", moves)
	}

	for g.Left() {
	}
	if got := g.Position().X; got != 10 {
		t.Errorf("leftmost x = %d, want 10", got)
	}

	m := g.Muzzle()
	if m.X != 10+config.ProjectileOffsetX || m.Y != 100-config.ProjectileOffsetY {
		t.Errorf("Muzzle = %+v", m)
	}
}

func TestSpawnThreshold(t *testing.T) {
	tests := []struct {
		hits, misses int64
		want         int
	}{
		{0, 0, 20},
		{24, 0, 20},
		{20, 5, 21},
		{500, 100, 44},
	}
	for _, tt := range tests {
		if got := SpawnThreshold(tt.hits, tt.misses); got != tt.want {
			t.Errorf("SpawnThreshold(%d,%d) = %d, want %d", tt.hits, tt.misses, got, tt.want)
		}
	}

	if !ShouldSpawn(scripted(19), 0, 0) {
		t.Error("roll 19 should spawn at threshold 20")
	}
	if ShouldSpawn(scripted(20), 0, 0) {
		t.Error("roll 20 should not spawn at threshold 20")
	}
}
