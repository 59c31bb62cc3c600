// internal/game/match.go
package game

import (
	"context"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"deberts/internal/deck"
	"deberts/internal/history"
	"deberts/internal/models"
)

// Phase names the match lifecycle state explicitly instead of inferring it
// from the shapes of the mutable collections.
type Phase string

const (
	// PhaseEmpty: zero or one player seated, nothing dealt.
	PhaseEmpty Phase = "empty"
	// PhaseDealt: both players seated, hands distributed, table empty.
	PhaseDealt Phase = "dealt"
	// PhaseTrickInProgress: at least one card on the table.
	PhaseTrickInProgress Phase = "trick_in_progress"
	// PhaseComplete: all ten tricks played; the match idles here.
	PhaseComplete Phase = "complete"
)

const (
	seats    = 2
	handSize = 10
)

// Match holds the entire state of the single live match. All mutable state
// is owned here and every public operation serializes on Mu, so no caller
// ever observes a partially-updated match.
type Match struct {
	ID uuid.UUID

	Players   []*models.Player // seating order = turn order
	Stock     []deck.Card      // the 12 undealt cards; never touched after the deal
	Hands     map[string][]deck.Card
	Table     []PlayedCard
	Trump     string
	TurnIndex int
	Taken     map[string][]deck.Card
	Scores    map[string]int
	Phase     Phase

	// TrickDelay keeps a completed trick visible before the table clears,
	// so observers see both cards. Zero clears in the same step.
	TrickDelay time.Duration
	trickSeq   int
	clearTimer *time.Timer

	rng       *rand.Rand
	actionIdx int

	Mu sync.Mutex

	// BroadcastFn relays a snapshot to all connected sessions. If nil, no
	// broadcast is done.
	BroadcastFn func(Snapshot)

	// History receives one record per accepted transition. Nil disables it.
	History *history.Publisher
}

// NewMatch builds an empty match. Hands are dealt once the second player
// is seated.
func NewMatch() *Match {
	return &Match{
		ID:     uuid.New(),
		Hands:  make(map[string][]deck.Card),
		Taken:  make(map[string][]deck.Card),
		Scores: make(map[string]int),
		Phase:  PhaseEmpty,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Join seats a player. A join from an already-seated name only refreshes
// the connection; a third distinct name is ignored. Seating the second
// player while nothing is dealt triggers the deal. A snapshot is emitted
// regardless of the outcome.
func (m *Match) Join(p *models.Player) {
	m.Mu.Lock()
	defer m.Mu.Unlock()

	for _, pl := range m.Players {
		if pl.Name == p.Name {
			pl.ID = p.ID
			pl.Conn = p.Conn
			pl.Connected = true
			m.broadcastLocked()
			return
		}
	}
	if len(m.Players) < seats {
		m.Players = append(m.Players, p)
		m.logAction(p.ID, "player_join", map[string]interface{}{"name": p.Name})
		if len(m.Players) == seats && m.Phase == PhaseEmpty {
			m.dealLocked()
		}
	} else {
		log.Printf("match %s: ignoring join from %q, both seats taken", m.ID, p.Name)
	}
	m.broadcastLocked()
}

// dealLocked builds a fresh shuffled deck and distributes it: trump is the
// suit of the deck's last card, the first ten cards go to seat 0, the next
// ten to seat 1, and the remaining twelve stay in the stock, untouched for
// the rest of the match. Assumes lock is held.
func (m *Match) dealLocked() {
	d := deck.New(m.rng)
	m.Trump = d[len(d)-1].Suit

	first, second := m.Players[0].Name, m.Players[1].Name
	m.Hands = map[string][]deck.Card{
		first:  append([]deck.Card(nil), d[:handSize]...),
		second: append([]deck.Card(nil), d[handSize:2*handSize]...),
	}
	m.Stock = append([]deck.Card(nil), d[2*handSize:]...)
	m.Table = nil
	m.TurnIndex = 0
	m.Taken = map[string][]deck.Card{first: {}, second: {}}
	m.Scores = map[string]int{first: 0, second: 0}
	m.Phase = PhaseDealt
	m.stopClearTimerLocked()
	m.trickSeq++
	m.logAction(uuid.Nil, "match_deal", map[string]interface{}{"trump": m.Trump})
}

// PlayCard validates and applies one play attempt by the named player.
// Validation runs to completion before any mutation, so a returned
// *RuleError always leaves the match untouched. Accepted plays emit a
// snapshot; rejections are the caller's to deliver to the acting party.
func (m *Match) PlayCard(name, card string) error {
	m.Mu.Lock()
	defer m.Mu.Unlock()

	if m.Phase != PhaseDealt && m.Phase != PhaseTrickInProgress {
		return ErrNotYourTurn
	}
	// A full table means the previous trick is still on display pending the
	// deferred clear; nobody may lead into it.
	if len(m.Table) >= len(m.Players) {
		return ErrNotYourTurn
	}
	if m.Players[m.TurnIndex].Name != name {
		return ErrNotYourTurn
	}
	c, ok := deck.Parse(card)
	if !ok {
		// Malformed card strings fail the hand-membership check rather than
		// getting their own taxonomy entry.
		return ErrCardNotInHand
	}
	hand := m.Hands[name]
	idx := -1
	for i, held := range hand {
		if held == c {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrCardNotInHand
	}
	if err := checkPlay(hand, c, m.Table, m.Trump); err != nil {
		return err
	}

	m.Hands[name] = append(hand[:idx], hand[idx+1:]...)
	m.Table = append(m.Table, PlayedCard{Name: name, Card: c})
	m.logAction(m.sessionOf(name), "play_card", map[string]interface{}{
		"name": name,
		"card": c.String(),
	})

	if len(m.Table) < len(m.Players) {
		m.TurnIndex = (m.TurnIndex + 1) % len(m.Players)
		m.Phase = PhaseTrickInProgress
		m.broadcastLocked()
		return nil
	}
	m.resolveTrickLocked()
	return nil
}

// resolveTrickLocked settles a completed trick: the winner takes the table
// in play order, scores are recomputed from the full taken piles, and the
// winner leads next. The table clear is deferred by TrickDelay so clients
// can show the finished trick. Assumes lock is held.
func (m *Match) resolveTrickLocked() {
	winner := ResolveTrick(m.Table, m.Trump)
	for _, pc := range m.Table {
		m.Taken[winner] = append(m.Taken[winner], pc.Card)
	}
	// Recompute from the piles instead of patching increments; scores can
	// never drift from the taken cards this way.
	for name, pile := range m.Taken {
		total := 0
		for _, c := range pile {
			total += c.Value()
		}
		m.Scores[name] = total
	}
	for i, p := range m.Players {
		if p.Name == winner {
			m.TurnIndex = i
			break
		}
	}
	m.trickSeq++
	m.logAction(m.sessionOf(winner), "trick_resolved", map[string]interface{}{
		"winner": winner,
		"score":  m.Scores[winner],
	})

	if m.TrickDelay <= 0 {
		m.clearTableLocked()
		m.broadcastLocked()
		return
	}

	m.broadcastLocked()
	seq := m.trickSeq
	m.clearTimer = time.AfterFunc(m.TrickDelay, func() {
		m.Mu.Lock()
		defer m.Mu.Unlock()
		// A reset or re-deal may have raced the timer; only clear the trick
		// it was scheduled for.
		if m.trickSeq != seq || len(m.Table) == 0 {
			return
		}
		m.clearTableLocked()
		m.broadcastLocked()
	})
}

// clearTableLocked empties the table and settles the phase. Assumes lock
// is held.
func (m *Match) clearTableLocked() {
	m.Table = nil
	if m.handsExhaustedLocked() {
		// All ten tricks played. The match idles here; there is no explicit
		// completion event on the wire.
		m.Phase = PhaseComplete
		return
	}
	m.Phase = PhaseDealt
}

func (m *Match) handsExhaustedLocked() bool {
	if len(m.Hands) == 0 {
		return false
	}
	for _, hand := range m.Hands {
		if len(hand) > 0 {
			return false
		}
	}
	return true
}

// Leave handles a session disconnect. If the session belonged to a seated
// player, the player is removed and all match progress is torn down to
// PhaseEmpty; the remaining player keeps their seat but nothing else.
func (m *Match) Leave(sessionID uuid.UUID) {
	m.Mu.Lock()
	defer m.Mu.Unlock()

	idx := -1
	for i, p := range m.Players {
		if p.ID == sessionID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return
	}
	name := m.Players[idx].Name
	m.Players = append(m.Players[:idx], m.Players[idx+1:]...)

	m.Stock = nil
	m.Hands = make(map[string][]deck.Card)
	m.Table = nil
	m.Trump = ""
	m.TurnIndex = 0
	m.Taken = make(map[string][]deck.Card)
	m.Scores = make(map[string]int)
	m.Phase = PhaseEmpty
	m.stopClearTimerLocked()
	m.trickSeq++

	m.logAction(sessionID, "match_reset", map[string]interface{}{"left": name})
	m.broadcastLocked()
}

func (m *Match) stopClearTimerLocked() {
	if m.clearTimer != nil {
		m.clearTimer.Stop()
		m.clearTimer = nil
	}
}

// sessionOf returns the session ID seated under name, or uuid.Nil.
func (m *Match) sessionOf(name string) uuid.UUID {
	for _, p := range m.Players {
		if p.Name == name {
			return p.ID
		}
	}
	return uuid.Nil
}

// broadcastLocked emits the current snapshot. Assumes lock is held; the
// injected BroadcastFn must not call back into the match.
func (m *Match) broadcastLocked() {
	if m.BroadcastFn != nil {
		m.BroadcastFn(m.snapshotLocked())
	}
}

// logAction publishes one transition record to the historian queue without
// blocking match handling. Assumes lock is held.
func (m *Match) logAction(actor uuid.UUID, actionType string, payload map[string]interface{}) {
	m.actionIdx++
	if m.History == nil {
		return
	}
	rec := history.ActionRecord{
		MatchID:     m.ID,
		ActionIndex: m.actionIdx,
		ActorID:     actor,
		ActionType:  actionType,
		Payload:     payload,
		Timestamp:   time.Now().UnixMilli(),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := m.History.Publish(ctx, rec); err != nil {
			log.Printf("match %s: failed to publish %s record: %v", rec.MatchID, rec.ActionType, err)
		}
	}()
}
