package poker

import (
	"testing"

	"github.com/lox/videopoker/internal/randutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewShuffledDeckHas52UniqueCards(t *testing.T) {
	t.Parallel()
	for seed := int64(0); seed < 50; seed++ {
		d := NewShuffledDeck(randutil.New(seed))
		require.Equal(t, DeckSize, d.Remaining())

		seen := make(map[Card]bool, DeckSize)
		for _, c := range d.Cards() {
			require.True(t, c.Valid(), "invalid card %v", c)
			require.False(t, seen[c], "duplicate card %v with seed %d", c, seed)
			seen[c] = true
		}
		require.Len(t, seen, DeckSize)
	}
}

func TestNewShuffledDeckIsReplayable(t *testing.T) {
	t.Parallel()
	a := NewShuffledDeck(randutil.New(42))
	b := NewShuffledDeck(randutil.New(42))
	c := NewShuffledDeck(randutil.New(43))

	assert.Equal(t, a.Cards(), b.Cards())
	assert.NotEqual(t, a.Cards(), c.Cards())
}

func TestNewShuffledDeckRequiresRNG(t *testing.T) {
	t.Parallel()
	assert.Panics(t, func() { NewShuffledDeck(nil) })
}

func TestDeckDealsInOrder(t *testing.T) {
	t.Parallel()
	d := NewShuffledDeck(randutil.New(7))
	order := d.Cards()

	hand := d.Deal(5)
	require.Len(t, hand, 5)
	assert.Equal(t, order[:5], hand)
	assert.Equal(t, 47, d.Remaining())

	next, ok := d.DealOne()
	require.True(t, ok)
	assert.Equal(t, order[5], next)

	// Mutating a dealt slice must not touch the deck.
	hand[0] = Card{}
	assert.Equal(t, order, d.Cards())

	assert.Nil(t, d.Deal(47), "only 46 remain")
	assert.Len(t, d.Deal(46), 46)
	_, ok = d.DealOne()
	assert.False(t, ok)
}

func TestOrderedDeck(t *testing.T) {
	t.Parallel()
	cards := MustParseCards("As Kd 2c")
	d := NewOrderedDeck(cards)
	cards[0] = Card{}

	got := d.Deal(3)
	assert.Equal(t, MustParseCards("As Kd 2c"), got)
}

// TestShufflePositionsUniform is a chi-square sanity check that every card
// is equally likely at every deck position. Each position's occupant and each
// card's position are tested separately.
func TestShufflePositionsUniform(t *testing.T) {
	if testing.Short() {
		t.Skip("statistical test")
	}
	t.Parallel()

	const trials = 20000
	rng := randutil.New(2024)

	index := make(map[Card]int, DeckSize)
	for i, c := range orderedCards() {
		index[c] = i
	}

	// counts[pos][card]
	var counts [DeckSize][DeckSize]int
	for range trials {
		for pos, c := range NewShuffledDeck(rng).Cards() {
			counts[pos][index[c]]++
		}
	}

	expected := float64(trials) / DeckSize
	chi2 := func(cell func(i int) int) float64 {
		sum := 0.0
		for i := range DeckSize {
			diff := float64(cell(i)) - expected
			sum += diff * diff / expected
		}
		return sum
	}

	// 51 degrees of freedom; the p = 1e-6 critical value is about 115, which
	// keeps 104 checks from failing by chance.
	const critical = 115.0
	for pos := range DeckSize {
		got := chi2(func(card int) int { return counts[pos][card] })
		assert.Less(t, got, critical, "occupant of position %d looks biased (chi2=%.1f)", pos, got)
	}
	for card := range DeckSize {
		got := chi2(func(pos int) int { return counts[pos][card] })
		assert.Less(t, got, critical, "position of %s looks biased (chi2=%.1f)", orderedCards()[card], got)
	}
}
