package main

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// statusEvent is one job-phase transition broadcast to observers.
type statusEvent struct {
	JobID string `json:"job_id"`
	Phase string `json:"phase"`
}

// statusHub fans job-phase transitions out to every attached websocket
// observer; purely observational, never consumed by the worker loop
// itself.
type statusHub struct {
	upgrader websocket.Upgrader

	mu    sync.Mutex
	conns map[*websocket.Conn]struct{}
}

func newStatusHub() *statusHub {
	return &statusHub{
		upgrader: websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }},
		conns:    make(map[*websocket.Conn]struct{}),
	}
}

// ServeHTTP upgrades the connection and keeps it registered until the
// client disconnects.
func (h *statusHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	h.mu.Lock()
	h.conns[conn] = struct{}{}
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.conns, conn)
		h.mu.Unlock()
		conn.Close()
	}()

	// Drain and discard reads so the connection notices client-side
	// closes; observers never send anything meaningful.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// Broadcast announces a job-phase transition to every attached
// observer, dropping connections that error on write.
func (h *statusHub) Broadcast(jobID, phase string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	event := statusEvent{JobID: jobID, Phase: phase}
	for conn := range h.conns {
		if err := conn.WriteJSON(event); err != nil {
			conn.Close()
			delete(h.conns, conn)
		}
	}
}
