// internal/game/snapshot.go
package game

import "github.com/google/uuid"

// SeatedPlayer identifies one seat in the outbound snapshot. Slice order is
// seating order, which is also turn order.
type SeatedPlayer struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// TableCard is one entry of the current trick as the clients see it.
type TableCard struct {
	Name string `json:"name"`
	Card string `json:"card"`
}

// Snapshot is the full state relayed to every connected session after each
// transition. Cards travel in their canonical string form.
type Snapshot struct {
	Players []SeatedPlayer      `json:"players"`
	Hands   map[string][]string `json:"hands"`
	Table   []TableCard         `json:"table"`
	Trump   string              `json:"trump"`
	Turn    string              `json:"turn"`
	Scores  map[string]int      `json:"scores"`
}

// snapshotLocked builds the outbound view of the match. Assumes lock is held.
func (m *Match) snapshotLocked() Snapshot {
	snap := Snapshot{
		Players: make([]SeatedPlayer, 0, len(m.Players)),
		Hands:   make(map[string][]string, len(m.Hands)),
		Table:   make([]TableCard, 0, len(m.Table)),
		Trump:   m.Trump,
		Scores:  make(map[string]int, len(m.Scores)),
	}
	for _, p := range m.Players {
		snap.Players = append(snap.Players, SeatedPlayer{ID: p.ID, Name: p.Name})
	}
	for name, hand := range m.Hands {
		cards := make([]string, len(hand))
		for i, c := range hand {
			cards[i] = c.String()
		}
		snap.Hands[name] = cards
	}
	for _, pc := range m.Table {
		snap.Table = append(snap.Table, TableCard{Name: pc.Name, Card: pc.Card.String()})
	}
	for name, score := range m.Scores {
		snap.Scores[name] = score
	}
	if len(m.Players) > 0 && m.TurnIndex < len(m.Players) {
		snap.Turn = m.Players[m.TurnIndex].Name
	}
	return snap
}

// CurrentSnapshot returns the outbound view of the match, e.g. for a
// session that connects mid-match.
func (m *Match) CurrentSnapshot() Snapshot {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	return m.snapshotLocked()
}
