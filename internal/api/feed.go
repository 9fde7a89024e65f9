package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/tomz197/warthreads/internal/hub"
	"github.com/tomz197/warthreads/internal/loop/match"
)

// Message is the JSON envelope for everything sent over the feed.
type Message struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// Scoreboard is the payload of a "scoreboard" message.
type Scoreboard struct {
	Summary hub.Summary      `json:"summary"`
	Matches []match.Snapshot `json:"matches"`
}

const (
	writeWait   = 5 * time.Second
	sendBacklog = 16
)

// watcher is one websocket connection to the feed.
type watcher struct {
	conn *websocket.Conn
	send chan []byte
}

// Feed pushes the hub's scoreboard to every connected watcher on a ticker.
// Registration and broadcast go through its Run loop, so the watcher set
// has a single owner.
type Feed struct {
	hub        *hub.Hub
	interval   time.Duration
	logger     *log.Logger
	upgrader   websocket.Upgrader
	register   chan *watcher
	unregister chan *watcher
	stopped    chan struct{}
}

// NewFeed creates a feed publishing every interval.
func NewFeed(h *hub.Hub, interval time.Duration, logger *log.Logger) *Feed {
	if interval <= 0 {
		interval = time.Second
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Feed{
		hub:      h,
		interval: interval,
		logger:   logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		register:   make(chan *watcher),
		unregister: make(chan *watcher),
		stopped:    make(chan struct{}),
	}
}

// Run owns the watcher set until ctx is done. It blocks.
func (f *Feed) Run(ctx context.Context) {
	defer close(f.stopped)

	watchers := make(map[*watcher]bool)
	ticker := time.NewTicker(f.interval)
	defer ticker.Stop()

	drop := func(w *watcher) {
		if watchers[w] {
			delete(watchers, w)
			close(w.send)
		}
	}

	for {
		select {
		case <-ctx.Done():
			for w := range watchers {
				drop(w)
			}
			return

		case w := <-f.register:
			watchers[w] = true
			// New watchers get a board right away instead of waiting a tick.
			if msg, err := f.scoreboard(); err == nil {
				w.send <- msg
			}
			f.logger.Debug("feed watcher joined", "watchers", len(watchers))

		case w := <-f.unregister:
			drop(w)
			f.logger.Debug("feed watcher left", "watchers", len(watchers))

		case <-ticker.C:
			if len(watchers) == 0 {
				continue
			}
			msg, err := f.scoreboard()
			if err != nil {
				f.logger.Error("encode scoreboard", "err", err)
				continue
			}
			for w := range watchers {
				select {
				case w.send <- msg:
				default:
					// Too far behind; let it reconnect.
					drop(w)
				}
			}
		}
	}
}

func (f *Feed) scoreboard() ([]byte, error) {
	return json.Marshal(Message{
		Type: "scoreboard",
		Payload: Scoreboard{
			Summary: f.hub.Summary(),
			Matches: f.hub.Snapshots(),
		},
	})
}

// ServeHTTP upgrades the request and attaches the connection to the feed.
func (f *Feed) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := f.upgrader.Upgrade(w, r, nil)
	if err != nil {
		f.logger.Warn("websocket upgrade failed", "err", err)
		return
	}

	wt := &watcher{conn: conn, send: make(chan []byte, sendBacklog)}
	select {
	case f.register <- wt:
	case <-f.stopped:
		conn.Close()
		return
	case <-r.Context().Done():
		conn.Close()
		return
	}

	go f.writePump(wt)
	go f.readPump(wt)
}

// readPump discards inbound messages and notices when the peer goes away.
func (f *Feed) readPump(w *watcher) {
	defer func() {
		select {
		case f.unregister <- w:
		case <-f.stopped:
		}
		w.conn.Close()
	}()
	for {
		if _, _, err := w.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				f.logger.Debug("feed read", "err", err)
			}
			return
		}
	}
}

// writePump drains w.send to the socket. It exits when the feed closes send.
func (f *Feed) writePump(w *watcher) {
	defer w.conn.Close()

	for msg := range w.send {
		w.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := w.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
	w.conn.SetWriteDeadline(time.Now().Add(writeWait))
	w.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, ""))
}
