package game

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"deberts/internal/deck"
)

func card(s string) deck.Card {
	c, ok := deck.Parse(s)
	if !ok {
		panic("bad card literal: " + s)
	}
	return c
}

func TestCanBeatSameSuit(t *testing.T) {
	trump := "♦️"
	assert.True(t, CanBeat(card("A♠️"), card("K♠️"), trump))
	assert.False(t, CanBeat(card("K♠️"), card("A♠️"), trump))
	assert.True(t, CanBeat(card("10♠️"), card("9♠️"), trump), "10 outranks 9 in the plain order")
	assert.False(t, CanBeat(card("J♠️"), card("Q♠️"), trump))
}

func TestCanBeatTrump(t *testing.T) {
	trump := "♦️"
	assert.True(t, CanBeat(card("7♦️"), card("A♠️"), trump), "any trump beats any non-trump")
	assert.False(t, CanBeat(card("A♠️"), card("7♦️"), trump))
	// Trump vs trump falls under the same-suit rule with the plain order.
	assert.True(t, CanBeat(card("A♦️"), card("J♦️"), trump))
	assert.False(t, CanBeat(card("9♦️"), card("A♦️"), trump))
}

func TestCanBeatOffsuit(t *testing.T) {
	// Different non-trump suit never beats, regardless of rank.
	assert.False(t, CanBeat(card("A♥️"), card("7♠️"), "♦️"))
}

func TestCanBeatIrreflexiveAndAsymmetric(t *testing.T) {
	all := deck.New(rand.New(rand.NewSource(3)))
	for _, trump := range deck.Suits {
		for _, a := range all {
			assert.False(t, CanBeat(a, a, trump), "%s cannot beat itself", a)
			for _, b := range all {
				if a == b {
					continue
				}
				if CanBeat(a, b, trump) {
					assert.False(t, CanBeat(b, a, trump),
						"%s and %s beat each other under trump %s", a, b, trump)
				}
			}
		}
	}
}

func TestCheckPlayOpeningLead(t *testing.T) {
	hand := []deck.Card{card("7♠️"), card("A♥️")}
	assert.Nil(t, checkPlay(hand, card("7♠️"), nil, "♦️"), "any held card is a legal lead")
}

func TestCheckPlayMustBeat(t *testing.T) {
	trump := "♦️"
	table := []PlayedCard{{Name: "Alice", Card: card("10♠️")}}

	// Holding a beating card, a non-beating play is rejected.
	hand := []deck.Card{card("7♠️"), card("A♠️")}
	err := checkPlay(hand, card("7♠️"), table, trump)
	assert.Equal(t, ErrMustBeat, err)
	assert.Nil(t, checkPlay(hand, card("A♠️"), table, trump))

	// Holding no beating card, anything goes.
	hand = []deck.Card{card("7♠️"), card("8♥️")}
	assert.Nil(t, checkPlay(hand, card("7♠️"), table, trump))
	assert.Nil(t, checkPlay(hand, card("8♥️"), table, trump))

	// A trump in hand counts as a beating card against an off-suit lead.
	hand = []deck.Card{card("7♦️"), card("8♥️")}
	assert.Equal(t, ErrMustBeat, checkPlay(hand, card("8♥️"), table, trump))
	assert.Nil(t, checkPlay(hand, card("7♦️"), table, trump))
}

func TestResolveTrick(t *testing.T) {
	trump := "♦️"

	entries := []PlayedCard{
		{Name: "Alice", Card: card("10♠️")},
		{Name: "Bob", Card: card("A♠️")},
	}
	assert.Equal(t, "Bob", ResolveTrick(entries, trump), "higher rank in the led suit wins")

	entries = []PlayedCard{
		{Name: "Alice", Card: card("A♠️")},
		{Name: "Bob", Card: card("7♦️")},
	}
	assert.Equal(t, "Bob", ResolveTrick(entries, trump), "trump beats the lead")

	entries = []PlayedCard{
		{Name: "Alice", Card: card("7♠️")},
		{Name: "Bob", Card: card("A♥️")},
	}
	assert.Equal(t, "Alice", ResolveTrick(entries, trump), "off-suit non-trump never wins")
}
