package models

import (
	"github.com/coder/websocket"
	"github.com/google/uuid"
)

// Player is one seated participant. ID is the ephemeral session handle the
// transport minted for the connection; Name is the display name the match
// keys hands, taken piles and scores by.
type Player struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	Connected bool            `json:"-"`
	Conn      *websocket.Conn `json:"-"`
}
