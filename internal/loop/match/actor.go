package match

import (
	"time"

	"github.com/tomz197/warthreads/internal/object"
)

// runEnemy drives one enemy across the arena. Between moves it polls the
// live projectiles SubTicks times; it ends on destruction, on leaving the
// arena, or when the match stops running.
func (m *Match) runEnemy(e *object.Enemy) {
	m.surface.AddVisual(e.Visual())

	for m.state.Running() && e.InBounds(m.arena) {
		for i := 0; i < m.tuning.SubTicks; i++ {
			time.Sleep(m.subTick())
			if m.pollCollisions(e) {
				return
			}
		}

		pos := e.Advance(m.state.Speed())
		m.surface.MoveVisual(e.Visual(), pos)
	}

	m.surface.RemoveVisual(e.Visual())

	// Stopped matches score nothing.
	if !m.state.Running() {
		return
	}

	hits, misses := m.state.Score.RecordMiss()
	m.surface.SetTitle(FormatTitle(hits, misses))
	m.logger.Debug("enemy escaped", "enemy", e.ID, "misses", misses)

	if misses >= m.tuning.MissLimit {
		m.gameOver()
	}
}

// pollCollisions scans the live projectiles once. Each intersecting active
// projectile costs the enemy a life; it reports true once the enemy is destroyed.
// The killing shot is claimed before the last life goes, so one projectile
// never scores for two overlapping enemies.
func (m *Match) pollCollisions(e *object.Enemy) bool {
	for _, p := range m.live.snapshot() {
		if p.IsDeleted() || !p.Rect().Intersects(e.Rect) {
			continue
		}
		if e.LastLife() && !m.deleteProjectile(p) {
			continue
		}
		if !e.Hit() {
			continue
		}

		m.surface.RemoveVisual(e.Visual())
		if m.state.Running() {
			hits, misses := m.state.Score.RecordHit()
			m.surface.SetTitle(FormatTitle(hits, misses))
			m.logger.Debug("enemy destroyed", "enemy", e.ID, "hits", hits)
		}
		return true
	}
	return false
}

// runProjectile moves a shot up until it leaves the arena or is deleted by
// a colliding enemy.
func (m *Match) runProjectile(p *object.Projectile) {
	for p.Y() >= 0 {
		pos := p.Rise(m.tuning.ProjectileStep)
		m.surface.MoveVisual(p.Visual(), pos)
		time.Sleep(m.tuning.ProjectileInterval)

		if p.IsDeleted() {
			return
		}
	}
	m.deleteProjectile(p)
}

// deleteProjectile removes p and returns its pool slot. Only the caller that
// wins p's active-to-deleted transition does the work; the rest get false.
func (m *Match) deleteProjectile(p *object.Projectile) bool {
	if !p.MarkDeleted() {
		return false
	}

	m.live.remove(p)
	m.surface.RemoveVisual(p.Visual())
	if !m.pool.Release() {
		m.logger.Warn("pool release without acquisition", "projectile", p.ID)
	}
	return true
}

// subTick returns a random polling delay in [SubTickMin, SubTickMax].
func (m *Match) subTick() time.Duration {
	lo, hi := m.tuning.SubTickMin, m.tuning.SubTickMax
	span := hi - lo
	if span <= 0 {
		return lo
	}

	steps := int(span / time.Millisecond)
	if steps <= 0 {
		return lo
	}
	return lo + time.Duration(m.rnd(steps+1))*time.Millisecond
}
