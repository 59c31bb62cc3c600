// internal/handlers/server.go
package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"deberts/internal/game"
	"deberts/internal/history"
)

// Server wires the match engine to its transport: it owns the registry of
// connected sessions and fans engine snapshots out to all of them.
type Server struct {
	Logger *logrus.Logger
	Store  *game.Store

	// TrickDelay is how long a completed trick stays on the table for the
	// clients before it is cleared.
	TrickDelay time.Duration

	mu       sync.Mutex
	sessions map[uuid.UUID]*websocket.Conn
}

// NewServer builds a Server whose match is configured with the display
// delay, the broadcast hook and the historian publisher (nil to disable).
func NewServer(logger *logrus.Logger, hist *history.Publisher) *Server {
	s := &Server{
		Logger:     logger,
		TrickDelay: time.Second,
		sessions:   make(map[uuid.UUID]*websocket.Conn),
	}
	s.Store = game.NewStore(func() *game.Match {
		m := game.NewMatch()
		m.TrickDelay = s.TrickDelay
		m.History = hist
		m.BroadcastFn = s.broadcastState
		return m
	})
	return s
}

func (s *Server) addSession(id uuid.UUID, c *websocket.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[id] = c
}

func (s *Server) removeSession(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

// stateEnvelope frames a snapshot for the wire.
type stateEnvelope struct {
	Type  string        `json:"type"`
	State game.Snapshot `json:"state"`
}

// broadcastState relays one snapshot to every connected session, players
// and observers alike. It is invoked while the match lock is held, so the
// actual socket writes happen on a separate goroutine with their own
// timeout and never block engine transitions.
func (s *Server) broadcastState(snap game.Snapshot) {
	data, err := json.Marshal(stateEnvelope{Type: "game_state", State: snap})
	if err != nil {
		s.Logger.Errorf("Failed to marshal state snapshot: %v", err)
		return
	}

	s.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(s.sessions))
	for _, c := range s.sessions {
		conns = append(conns, c)
	}
	s.mu.Unlock()

	go func(conns []*websocket.Conn, data []byte) {
		for _, c := range conns {
			ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			if err := c.Write(ctx, websocket.MessageText, data); err != nil {
				s.Logger.Warnf("Failed to write state broadcast: %v", err)
			}
			cancel()
		}
	}(conns, data)
}

// PingHandler answers the root route so deployments have a liveness check.
func PingHandler(w http.ResponseWriter, r *http.Request) {
	fmt.Fprint(w, "Deberts WebSocket server is running")
}
