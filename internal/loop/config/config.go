// Package config centralizes all tunable game parameters.
package config

import (
	"errors"
	"fmt"
	"time"

	baseconfig "github.com/tomz197/warthreads/internal/config"
)

// Arena - the logical playfield. Renderers scale it to the terminal.
const (
	ArenaWidth  = 800
	ArenaHeight = 600
)

// Player gun
const (
	GunWidth       = 40
	GunHeight      = 30
	GunStep        = 20  // Units per left/right press
	GunBottomInset = 100 // Distance from the bottom edge
)

// Projectiles
const (
	MaxProjectiles     = 3
	ProjectileSize     = 15
	ProjectileStep     = 10
	ProjectileInterval = 10 * time.Millisecond
	ProjectileOffsetX  = 14 // Muzzle offset from the gun's left edge
	ProjectileOffsetY  = 10 // Spawn height above the gun
)

// Enemies
const (
	EnemySize          = 20
	EnemyLives         = 1
	LargeEnemyLives    = 1000
	LargeEnemyChance   = 5  // Percent
	LargeEnemyTop      = 10 // Fixed y for the large variant
	EnemySpawnMargin   = 50 // Enemies never spawn in the bottom margin
	EnemySubTicks      = 10
	EnemySubTickMin    = 1 * time.Millisecond
	EnemySubTickMax    = 9 * time.Millisecond
	EnemyVariants      = 3
	SpawnRollRange     = 50
	SpawnBaseThreshold = 20
	SpawnProgressDiv   = 25
)

// Match flow
const (
	InitialSpeed  = 10
	MissLimit     = 30
	StartTimeout  = 15 * time.Second
	SpawnInterval = 400 * time.Millisecond
	RampInterval  = 100 * time.Millisecond
)

// Client rendering
const (
	ClientTargetFPS       = 30
	ClientTargetFrameTime = time.Second / ClientTargetFPS
	MaxTermWidth          = 160
	MaxTermHeight         = 60
	EndScreenSeconds      = 10.0 // Seconds the end-of-match dialog stays up
)

// Inactivity
const (
	InactivityDisconnectUser = 300 // Seconds
)

// ErrInvalidTuning is wrapped by every Tuning validation failure.
var ErrInvalidTuning = errors.New("invalid tuning")

// Tuning is the runtime-adjustable subset of the constants above.
// Tests shrink the durations; operators may override values from YAML.
type Tuning struct {
	ArenaWidth         int           `yaml:"arena_width"`
	ArenaHeight        int           `yaml:"arena_height"`
	MaxProjectiles     int           `yaml:"max_projectiles"`
	ProjectileStep     int           `yaml:"projectile_step"`
	ProjectileInterval time.Duration `yaml:"projectile_interval"`
	GunStep            int           `yaml:"gun_step"`
	InitialSpeed       int64         `yaml:"initial_speed"`
	MissLimit          int64         `yaml:"miss_limit"`
	StartTimeout       time.Duration `yaml:"start_timeout"`
	SpawnInterval      time.Duration `yaml:"spawn_interval"`
	RampInterval       time.Duration `yaml:"ramp_interval"`
	SubTicks           int           `yaml:"sub_ticks"`
	SubTickMin         time.Duration `yaml:"sub_tick_min"`
	SubTickMax         time.Duration `yaml:"sub_tick_max"`
}

// Default returns the standard tuning built from the constants above.
func Default() Tuning {
	return Tuning{
		ArenaWidth:         ArenaWidth,
		ArenaHeight:        ArenaHeight,
		MaxProjectiles:     MaxProjectiles,
		ProjectileStep:     ProjectileStep,
		ProjectileInterval: ProjectileInterval,
		GunStep:            GunStep,
		InitialSpeed:       InitialSpeed,
		MissLimit:          MissLimit,
		StartTimeout:       StartTimeout,
		SpawnInterval:      SpawnInterval,
		RampInterval:       RampInterval,
		SubTicks:           EnemySubTicks,
		SubTickMin:         EnemySubTickMin,
		SubTickMax:         EnemySubTickMax,
	}
}

// WithDefaults fills every zero field from Default. A zero sub tick range
// is valid (no polling delay) and is kept.
func (t Tuning) WithDefaults() Tuning {
	d := Default()
	fill := func(v *int, def int) {
		if *v == 0 {
			*v = def
		}
	}
	fillDur := func(v *time.Duration, def time.Duration) {
		if *v == 0 {
			*v = def
		}
	}
	fill(&t.ArenaWidth, d.ArenaWidth)
	fill(&t.ArenaHeight, d.ArenaHeight)
	fill(&t.MaxProjectiles, d.MaxProjectiles)
	fill(&t.ProjectileStep, d.ProjectileStep)
	fill(&t.GunStep, d.GunStep)
	fill(&t.SubTicks, d.SubTicks)
	fillDur(&t.ProjectileInterval, d.ProjectileInterval)
	fillDur(&t.StartTimeout, d.StartTimeout)
	fillDur(&t.SpawnInterval, d.SpawnInterval)
	fillDur(&t.RampInterval, d.RampInterval)
	if t.InitialSpeed == 0 {
		t.InitialSpeed = d.InitialSpeed
	}
	if t.MissLimit == 0 {
		t.MissLimit = d.MissLimit
	}
	return t
}

// Load overlays the YAML file at path on Default. An empty path returns Default.
func Load(path string) (Tuning, error) {
	t := Default()
	if path == "" {
		return t, nil
	}
	if err := baseconfig.LoadYAML(path, &t); err != nil {
		return Tuning{}, fmt.Errorf("load tuning: %w", err)
	}
	if err := t.Validate(); err != nil {
		return Tuning{}, err
	}
	return t, nil
}

// Validate reports the first out-of-range field.
func (t Tuning) Validate() error {
	switch {
	case t.ArenaWidth <= 0 || t.ArenaHeight <= EnemySpawnMargin:
		return fmt.Errorf("%w: arena %dx%d too small", ErrInvalidTuning, t.ArenaWidth, t.ArenaHeight)
	case t.MaxProjectiles <= 0:
		return fmt.Errorf("%w: max_projectiles must be positive", ErrInvalidTuning)
	case t.ProjectileStep <= 0:
		return fmt.Errorf("%w: projectile_step must be positive", ErrInvalidTuning)
	case t.GunStep <= 0:
		return fmt.Errorf("%w: gun_step must be positive", ErrInvalidTuning)
	case t.InitialSpeed < 0:
		return fmt.Errorf("%w: initial_speed must not be negative", ErrInvalidTuning)
	case t.MissLimit <= 0:
		return fmt.Errorf("%w: miss_limit must be positive", ErrInvalidTuning)
	case t.StartTimeout <= 0 || t.SpawnInterval <= 0 || t.RampInterval <= 0:
		return fmt.Errorf("%w: intervals must be positive", ErrInvalidTuning)
	case t.SubTicks <= 0:
		return fmt.Errorf("%w: sub_ticks must be positive", ErrInvalidTuning)
	case t.SubTickMin < 0 || t.SubTickMax < t.SubTickMin:
		return fmt.Errorf("%w: sub tick range [%v, %v]", ErrInvalidTuning, t.SubTickMin, t.SubTickMax)
	}
	return nil
}
