package client

import (
	"sync"

	"github.com/tomz197/warthreads/internal/loop/match"
	"github.com/tomz197/warthreads/internal/object"
	"github.com/tomz197/warthreads/internal/physics"
)

type opKind int

const (
	opAdd opKind = iota
	opRemove
	opMove
	opTitle
	opEnd
	opClose
)

// op is one queued Surface call.
type op struct {
	kind   opKind
	v      object.Visual
	pos    physics.Point
	title  string
	hits   int64
	misses int64
}

// opQueue collects Surface calls from actor goroutines. Pushing never
// blocks on rendering; the render goroutine swaps the slice out each frame.
type opQueue struct {
	mu  sync.Mutex
	ops []op
}

func (q *opQueue) push(o op) {
	q.mu.Lock()
	q.ops = append(q.ops, o)
	q.mu.Unlock()
}

// drain returns the queued ops and hands spare back as the next buffer.
func (q *opQueue) drain(spare []op) []op {
	q.mu.Lock()
	ops := q.ops
	q.ops = spare[:0]
	q.mu.Unlock()
	return ops
}

var _ match.Surface = (*Client)(nil)

// AddVisual queues a new entity for drawing.
func (c *Client) AddVisual(v object.Visual) {
	c.queue.push(op{kind: opAdd, v: v})
}

// RemoveVisual queues removal of an entity.
func (c *Client) RemoveVisual(v object.Visual) {
	c.queue.push(op{kind: opRemove, v: v})
}

// MoveVisual queues a position update.
func (c *Client) MoveVisual(v object.Visual, pos physics.Point) {
	c.queue.push(op{kind: opMove, v: v, pos: pos})
}

// SetTitle queues a window title change.
func (c *Client) SetTitle(title string) {
	c.queue.push(op{kind: opTitle, title: title})
}

// ShowEndOfMatchDialog queues the end dialog with the final score.
func (c *Client) ShowEndOfMatchDialog(hits, misses int64) {
	c.queue.push(op{kind: opEnd, hits: hits, misses: misses})
}

// CloseMatch queues the request to close the match window.
func (c *Client) CloseMatch() {
	c.queue.push(op{kind: opClose})
}

// applyOps replays queued Surface calls onto the state, in arrival order.
// A move for an unknown ID is dropped: the entity was already removed.
func (c *Client) applyOps() {
	ops := c.queue.drain(c.spare)
	s := c.state

	for _, o := range ops {
		switch o.kind {
		case opAdd:
			s.Visuals[o.v.ID] = o.v
		case opRemove:
			delete(s.Visuals, o.v.ID)
		case opMove:
			cur, ok := s.Visuals[o.v.ID]
			if !ok {
				continue
			}
			cur.Rect.X, cur.Rect.Y = o.pos.X, o.pos.Y
			s.Visuals[o.v.ID] = cur
		case opTitle:
			s.Title = o.title
			s.titleDirty = true
		case opEnd:
			s.Hits, s.Misses = o.hits, o.misses
			if s.Phase != PhaseEnded {
				s.Phase = PhaseEnded
				s.endTimer = c.endScreen.Seconds()
				s.endShownAt = c.now()
			}
		case opClose:
			s.Closed = true
		}
	}

	clear(ops)
	c.spare = ops
}
