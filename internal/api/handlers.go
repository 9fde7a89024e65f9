// Package api serves the read-only status of live matches over HTTP:
// JSON endpoints plus a websocket scoreboard feed.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gorilla/mux"
	"github.com/tomz197/warthreads/internal/hub"
)

// Handlers holds the dependencies of the status endpoints.
type Handlers struct {
	hub    *hub.Hub
	logger *log.Logger
}

// NewRouter wires the status endpoints and the feed onto a router.
func NewRouter(h *hub.Hub, feed *Feed, logger *log.Logger) *mux.Router {
	if logger == nil {
		logger = log.Default()
	}
	hs := &Handlers{hub: h, logger: logger}

	r := mux.NewRouter()
	r.HandleFunc("/healthz", hs.HandleHealth).Methods(http.MethodGet)
	r.HandleFunc("/api/summary", hs.HandleSummary).Methods(http.MethodGet)
	r.HandleFunc("/api/matches", hs.HandleListMatches).Methods(http.MethodGet)
	r.HandleFunc("/api/matches/{id}", hs.HandleGetMatch).Methods(http.MethodGet)
	if feed != nil {
		r.Handle("/ws", feed).Methods(http.MethodGet)
	}
	return r
}

// HandleHealth reports liveness.
func (hs *Handlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	hs.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// HandleSummary returns totals across live matches.
func (hs *Handlers) HandleSummary(w http.ResponseWriter, r *http.Request) {
	hs.writeJSON(w, http.StatusOK, hs.hub.Summary())
}

// HandleListMatches returns a snapshot of every live match.
func (hs *Handlers) HandleListMatches(w http.ResponseWriter, r *http.Request) {
	hs.writeJSON(w, http.StatusOK, hs.hub.Snapshots())
}

// HandleGetMatch returns one live match by ID.
func (hs *Handlers) HandleGetMatch(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	m, ok := hs.hub.Get(id)
	if !ok {
		hs.writeJSON(w, http.StatusNotFound, map[string]string{"error": "match not found"})
		return
	}
	hs.writeJSON(w, http.StatusOK, m.Snapshot())
}

func (hs *Handlers) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		hs.logger.Warn("write response", "err", err)
	}
}
