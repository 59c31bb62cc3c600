// internal/game/trick.go
package game

import "deberts/internal/deck"

// PlayedCard is one table entry: a card together with the name of the
// player who put it down. Table order is play order.
type PlayedCard struct {
	Name string    `json:"name"`
	Card deck.Card `json:"card"`
}

// ResolveTrick determines the winner of a completed trick. The first entry
// seeds the winner; each later card replaces it iff it beats the current
// winning card under trump. Two distinct cards never beat each other
// mutually, so the result is unambiguous.
func ResolveTrick(entries []PlayedCard, trump string) string {
	winner := entries[0]
	for _, e := range entries[1:] {
		if CanBeat(e.Card, winner.Card, trump) {
			winner = e
		}
	}
	return winner.Name
}
