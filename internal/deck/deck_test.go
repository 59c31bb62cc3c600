package deck

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewContainsAllCards(t *testing.T) {
	d := New(rand.New(rand.NewSource(1)))
	require.Len(t, d, Size)

	seen := make(map[Card]bool, Size)
	for _, c := range d {
		assert.False(t, seen[c], "duplicate card %s", c)
		seen[c] = true
	}

	perSuit := make(map[string]int)
	for _, c := range d {
		perSuit[c.Suit]++
	}
	for _, suit := range Suits {
		assert.Equal(t, len(Ranks), perSuit[suit], "suit %s should have one card per rank", suit)
	}
}

func TestShuffleIsSeedDeterministic(t *testing.T) {
	a := New(rand.New(rand.NewSource(7)))
	b := New(rand.New(rand.NewSource(7)))
	assert.Equal(t, a, b, "same seed must produce the same permutation")

	c := New(rand.New(rand.NewSource(8)))
	assert.NotEqual(t, a, c, "different seeds should produce different permutations")
}

func TestShuffleVariesLastCard(t *testing.T) {
	// The last card decides trump, so it must actually vary across shuffles.
	r := rand.New(rand.NewSource(99))
	suits := make(map[string]bool)
	for i := 0; i < 200; i++ {
		d := New(r)
		suits[d[len(d)-1].Suit] = true
	}
	assert.Len(t, suits, len(Suits), "every suit should show up as the trump candidate")
}

func TestCardValues(t *testing.T) {
	cases := []struct {
		rank string
		want int
	}{
		{"7", 0}, {"8", 0}, {"9", 0}, {"10", 10},
		{"J", 2}, {"Q", 3}, {"K", 4}, {"A", 11},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Card{Rank: tc.rank, Suit: "♠️"}.Value(), "rank %s", tc.rank)
	}

	total := 0
	for _, c := range New(rand.New(rand.NewSource(2))) {
		total += c.Value()
	}
	assert.Equal(t, 120, total, "a full deck holds 120 points")
}

func TestRankIndexOrder(t *testing.T) {
	for i := 1; i < len(Ranks); i++ {
		assert.Greater(t, RankIndex(Ranks[i]), RankIndex(Ranks[i-1]))
	}
	assert.Equal(t, -1, RankIndex("2"))
}

func TestParse(t *testing.T) {
	c, ok := Parse("10♠️")
	require.True(t, ok)
	assert.Equal(t, Card{Rank: "10", Suit: "♠️"}, c)
	assert.Equal(t, "10♠️", c.String())

	c, ok = Parse("A♣️")
	require.True(t, ok)
	assert.Equal(t, Card{Rank: "A", Suit: "♣️"}, c)

	for _, bad := range []string{"", "10", "♥️", "Z♠️", "2♦️", "banana"} {
		_, ok := Parse(bad)
		assert.False(t, ok, "%q should not parse", bad)
	}
}
