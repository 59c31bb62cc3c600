// internal/deck/deck.go
package deck

import (
	"math/rand"
	"strings"
	"time"
)

// Card is an immutable (rank, suit) value. Equality is structural, so cards
// can be compared with == and used as map keys.
type Card struct {
	Rank string `json:"rank"`
	Suit string `json:"suit"`
}

// Suits are the four suit symbols in canonical order. The symbol strings
// double as the wire encoding (a card travels as rank + suit, e.g. "10♠️"),
// so they include the emoji variation selector the clients expect.
var Suits = []string{"♠️", "♥️", "♦️", "♣️"}

// Ranks in ascending beating order: 7 < 8 < 9 < 10 < J < Q < K < A.
// The same order is used for every suit, trump included.
var Ranks = []string{"7", "8", "9", "10", "J", "Q", "K", "A"}

// Size is the number of cards in a full Deberts deck.
const Size = 32

var rankIndex = map[string]int{
	"7": 0, "8": 1, "9": 2, "10": 3, "J": 4, "Q": 5, "K": 6, "A": 7,
}

var pointValues = map[string]int{
	"7": 0, "8": 0, "9": 0, "10": 10, "J": 2, "Q": 3, "K": 4, "A": 11,
}

// RankIndex returns the position of a rank in the fixed beating order.
// Unknown ranks sort below 7.
func RankIndex(rank string) int {
	if i, ok := rankIndex[rank]; ok {
		return i
	}
	return -1
}

// Value returns the card's fixed point value.
func (c Card) Value() int {
	return pointValues[c.Rank]
}

// String renders the card in its canonical wire form, rank then suit.
func (c Card) String() string {
	return c.Rank + c.Suit
}

// Parse maps a canonical card string back to a Card. The bool reports
// whether the string named a real card; malformed input is never fatal.
func Parse(s string) (Card, bool) {
	for _, suit := range Suits {
		if !strings.HasSuffix(s, suit) {
			continue
		}
		rank := strings.TrimSuffix(s, suit)
		if _, ok := rankIndex[rank]; ok {
			return Card{Rank: rank, Suit: suit}, true
		}
	}
	return Card{}, false
}

// New builds the 32 distinct cards and returns them in a uniformly random
// permutation drawn from r. Shuffling goes through rand.Shuffle so the
// permutation is unbiased, unlike the comparator tricks some clients use.
func New(r *rand.Rand) []Card {
	cards := make([]Card, 0, Size)
	for _, suit := range Suits {
		for _, rank := range Ranks {
			cards = append(cards, Card{Rank: rank, Suit: suit})
		}
	}
	r.Shuffle(len(cards), func(i, j int) {
		cards[i], cards[j] = cards[j], cards[i]
	})
	return cards
}

// NewShuffled returns a fresh deck shuffled with a time-seeded source.
func NewShuffled() []Card {
	return New(rand.New(rand.NewSource(time.Now().UnixNano())))
}
