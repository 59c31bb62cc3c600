// internal/game/rules.go
package game

import "deberts/internal/deck"

// Reason identifies why a play was rejected, in the form sent on the wire.
type Reason string

const (
	ReasonNotYourTurn   Reason = "not_your_turn"
	ReasonCardNotInHand Reason = "card_not_in_hand"
	ReasonMustBeat      Reason = "must_beat"
)

// RuleError is a recoverable rejection of a single play attempt. The match
// state is untouched whenever one of these is returned.
type RuleError struct {
	Reason  Reason
	Message string
}

func (e *RuleError) Error() string { return e.Message }

var (
	ErrNotYourTurn   = &RuleError{Reason: ReasonNotYourTurn, Message: "it is not your turn to play"}
	ErrCardNotInHand = &RuleError{Reason: ReasonCardNotInHand, Message: "that card is not in your hand"}
	ErrMustBeat      = &RuleError{Reason: ReasonMustBeat, Message: "you hold a card that beats the lead and must play it"}
)

// CanBeat reports whether card a beats card b under the given trump suit.
// Within a suit the plain rank order decides; a trump beats any non-trump.
// Note: trump-vs-trump uses the same plain order (no J/9 promotion). That
// matches the behavior the clients were built against; do not "fix" it here.
func CanBeat(a, b deck.Card, trump string) bool {
	if a.Suit == b.Suit {
		return deck.RankIndex(a.Rank) > deck.RankIndex(b.Rank)
	}
	if a.Suit == trump {
		return true
	}
	return false
}

// hasBeatingCard reports whether any card in hand beats the lead.
func hasBeatingCard(hand []deck.Card, lead deck.Card, trump string) bool {
	for _, c := range hand {
		if CanBeat(c, lead, trump) {
			return true
		}
	}
	return false
}

// checkPlay validates a candidate play against the lead currently on the
// table. An empty table makes any held card a legal opening lead; against a
// lead, a non-beating card is only legal when the hand holds no beating one.
func checkPlay(hand []deck.Card, card deck.Card, table []PlayedCard, trump string) *RuleError {
	if len(table) == 0 {
		return nil
	}
	lead := table[0].Card
	if CanBeat(card, lead, trump) {
		return nil
	}
	if hasBeatingCard(hand, lead, trump) {
		return ErrMustBeat
	}
	return nil
}
