// internal/handlers/game_ws.go
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"deberts/internal/game"
	"deberts/internal/models"
)

// GameMessage is the structure of incoming WebSocket messages.
type GameMessage struct {
	Type string `json:"type"`
	Name string `json:"name,omitempty"`
	Card string `json:"card,omitempty"`
}

// GameWSHandler upgrades the connection, resolves the caller's session,
// registers it for broadcasts, and runs the read loop. Connection closure
// is the player's leave event.
func GameWSHandler(logger *logrus.Logger, s *Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, err := EnsureSession(w, r)
		if err != nil {
			logger.Warnf("Session setup failed: %v", err)
			http.Error(w, "failed to establish session", http.StatusInternalServerError)
			return
		}

		c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			Subprotocols:   []string{"game"},
			OriginPatterns: []string{"*"}, // Adjust for production security.
		})
		if err != nil {
			logger.Warnf("WebSocket accept error: %v", err)
			return
		}
		defer c.Close(websocket.StatusInternalError, "Internal server error during handler exit.")

		if c.Subprotocol() != "game" {
			logger.Warnf("Session %s connected with invalid subprotocol: %s", sessionID, c.Subprotocol())
			c.Close(websocket.StatusPolicyViolation, "Client must use the 'game' subprotocol.")
			return
		}
		logger.Infof("WebSocket connection established for session %s from %s", sessionID, r.RemoteAddr)

		s.addSession(sessionID, c)
		m := s.Store.Current()

		// Late connections get the current state immediately instead of
		// waiting for the next transition.
		sendWsMessage(c, stateEnvelope{Type: "game_state", State: m.CurrentSnapshot()})

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		readGameMessages(ctx, c, m, sessionID, logger)

		logger.Infof("Session %s read loop exited.", sessionID)
		s.removeSession(sessionID)
		m.Leave(sessionID)
	}
}

// readGameMessages reads messages off the socket and routes them into the
// engine, returning on error, closure, or context cancellation.
func readGameMessages(ctx context.Context, c *websocket.Conn, m *game.Match, sessionID uuid.UUID, logger *logrus.Logger) {
	for {
		msgType, data, err := c.Read(ctx)
		if err != nil {
			status := websocket.CloseStatus(err)
			if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
				logger.Infof("WebSocket closed normally for session %s.", sessionID)
			} else if strings.Contains(err.Error(), "context canceled") {
				logger.Infof("WebSocket context canceled for session %s.", sessionID)
			} else {
				logger.Warnf("Error reading from WebSocket for session %s: %v", sessionID, err)
			}
			return
		}
		if msgType != websocket.MessageText {
			logger.Warnf("Received non-text message type %d from session %s. Ignoring.", msgType, sessionID)
			continue
		}

		var msg GameMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			logger.Warnf("Invalid JSON from session %s: %v", sessionID, err)
			sendWsError(c, "invalid_json", "Invalid JSON format.")
			continue
		}

		logger.Debugf("Received %q from session %s.", msg.Type, sessionID)

		switch msg.Type {
		case "join":
			if msg.Name == "" {
				sendWsError(c, "invalid_join", "join requires a name")
				continue
			}
			m.Join(&models.Player{
				ID:        sessionID,
				Name:      msg.Name,
				Connected: true,
				Conn:      c,
			})

		case "play_card":
			if err := m.PlayCard(msg.Name, msg.Card); err != nil {
				// Rule violations go only to the offending connection,
				// never into the broadcast stream.
				var re *game.RuleError
				if errors.As(err, &re) {
					sendWsError(c, string(re.Reason), re.Message)
				} else {
					sendWsError(c, "rejected", err.Error())
				}
			}

		case "ping":
			sendWsMessage(c, map[string]string{"type": "pong"})

		default:
			logger.Warnf("Unknown message type %q from session %s.", msg.Type, sessionID)
			sendWsError(c, "unknown_type", "Unknown message type: "+msg.Type)
		}

		select {
		case <-ctx.Done():
			return
		default:
		}
	}
}

// sendWsMessage marshals a message and writes it with its own timeout.
func sendWsMessage(c *websocket.Conn, message interface{}) {
	if c == nil {
		log.Println("Error: Attempted to send WebSocket message on nil connection.")
		return
	}
	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("Error marshaling WebSocket message: %v", err)
		return
	}

	writeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := c.Write(writeCtx, websocket.MessageText, data); err != nil {
		status := websocket.CloseStatus(err)
		if status != websocket.StatusNormalClosure && status != websocket.StatusGoingAway {
			log.Printf("Error writing WebSocket message: %v", err)
		}
	}
}

// sendWsError sends a structured error event to a single client.
func sendWsError(c *websocket.Conn, reason, message string) {
	sendWsMessage(c, map[string]interface{}{
		"type":    "error",
		"reason":  reason,
		"message": message,
	})
}
