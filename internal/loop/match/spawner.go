package match

import (
	"context"
	"time"

	"github.com/tomz197/warthreads/internal/object"
)

// runSpawner waits at the start gate, starts the match and then rolls for a
// new enemy every SpawnInterval while the match runs.
func (m *Match) runSpawner(ctx context.Context) {
	m.logger.Debug("waiting for start", "timeout", m.tuning.StartTimeout)
	waitStart := time.Now()
	if !m.gate.Wait(ctx, m.tuning.StartTimeout) {
		return
	}
	if !m.state.Start() {
		return
	}
	m.logger.Info("match started", "after", time.Since(waitStart).Round(time.Millisecond))

	ticker := time.NewTicker(m.tuning.SpawnInterval)
	defer ticker.Stop()

	for m.state.Running() {
		hits, misses := m.state.Score.Snapshot()
		if object.ShouldSpawn(m.rnd, hits, misses) {
			e := object.NewEnemy(m.arena, m.rnd)
			if !m.actors.Go(func() { m.runEnemy(e) }) {
				return
			}
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// runRamp raises the enemy speed by one every RampInterval while the match runs.
func (m *Match) runRamp(ctx context.Context) {
	select {
	case <-m.state.Started():
	case <-ctx.Done():
		return
	}

	ticker := time.NewTicker(m.tuning.RampInterval)
	defer ticker.Stop()

	for m.state.Running() {
		m.state.Accelerate()

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
