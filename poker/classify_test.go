package poker

import (
	"testing"

	ph "github.com/paulhankin/poker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/videopoker/internal/randutil"
)

func TestClassify(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		hand string
		want Classification
	}{
		{"royal flush", "As Ks Qs Js Ts", RoyalFlush},
		{"royal flush unordered", "Th Ah Jh Kh Qh", RoyalFlush},
		{"king high straight flush", "Kd Qd Jd Td 9d", StraightFlush},
		{"ace low straight flush is not royal", "Ac 2c 3c 4c 5c", StraightFlush},
		{"four of a kind", "9s 9h 9d 9c 2s", FourOfAKind},
		{"full house", "Qs Qh Qd 4c 4s", FullHouse},
		{"full house low trips", "2s 2h 2d Ac As", FullHouse},
		{"flush", "2h 7h 9h Jh Kh", Flush},
		{"broadway straight", "As Kd Qc Jh Ts", Straight},
		{"wheel straight", "Ad 2s 3h 4c 5d", Straight},
		{"middle straight", "5s 6d 7c 8h 9s", Straight},
		{"no wraparound straight", "Qs Kd Ac 2h 3s", NoWin},
		{"three of a kind", "7s 7h 7d Kc 2s", ThreeOfAKind},
		{"two pair", "Js Jh 4d 4c 9s", TwoPair},
		{"low two pair", "2s 2h 3d 3c 9s", TwoPair},
		{"pair of jacks", "Js Jh 4d 8c 9s", JacksOrBetter},
		{"pair of aces", "As Ah 4d 8c 9s", JacksOrBetter},
		{"pair of tens pays nothing", "Ts Th 4d 8c 9s", NoWin},
		{"pair of twos pays nothing", "2s 2h 4d 8c 9s", NoWin},
		{"high card", "As Kh 9d 4c 2s", NoWin},
		{"four to a flush", "As Ks Qs Js 9h", NoWin},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, Classify(MustParseHand(tc.hand)))
		})
	}
}

func TestClassificationNames(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "Royal Flush", RoyalFlush.String())
	assert.Equal(t, "Jacks or Better", JacksOrBetter.String())
	assert.Equal(t, "No Win", NoWin.String())

	for _, c := range Classifications() {
		parsed, ok := ParseClassification(c.String())
		require.True(t, ok)
		assert.Equal(t, c, parsed)
		assert.True(t, c.Pays())
	}
	assert.False(t, NoWin.Pays())
	assert.Len(t, Classifications(), 9)
}

func toOracle(t *testing.T, h Hand) *[5]ph.Card {
	t.Helper()
	suits := map[Suit]ph.Suit{Spades: ph.Spade, Hearts: ph.Heart, Diamonds: ph.Diamond, Clubs: ph.Club}
	var out [5]ph.Card
	for i, c := range h {
		r := ph.Rank(c.Rank)
		if c.Rank == Ace {
			r = ph.Rank(1)
		}
		pc, err := ph.MakeCard(suits[c.Suit], r)
		require.NoError(t, err)
		out[i] = pc
	}
	return &out
}

// oracleScore returns the independent evaluator's score oriented so that
// stronger hands always score higher.
func oracleScore(t *testing.T, h Hand) int32 {
	t.Helper()
	royal := int32(ph.Eval5(toOracle(t, MustParseHand("As Ks Qs Js Ts"))))
	junk := int32(ph.Eval5(toOracle(t, MustParseHand("7s 5h 4d 3c 2s"))))
	score := int32(ph.Eval5(toOracle(t, h)))
	if royal < junk {
		return -score
	}
	return score
}

// TestClassifyAgreesWithOracle checks that classifications partition the
// general poker ordering: every hand in a stronger category outscores every
// hand in a weaker one under an independent evaluator.
func TestClassifyAgreesWithOracle(t *testing.T) {
	t.Parallel()

	type scoreRange struct {
		min, max int32
		seen     bool
	}
	var ranges [RoyalFlush + 1]scoreRange
	record := func(h Hand) {
		c := Classify(h)
		score := oracleScore(t, h)
		r := &ranges[c]
		if !r.seen || score < r.min {
			r.min = score
		}
		if !r.seen || score > r.max {
			r.max = score
		}
		r.seen = true
	}

	rng := randutil.New(99)
	for range 20000 {
		var h Hand
		copy(h[:], NewShuffledDeck(rng).Deal(HandSize))
		record(h)
	}
	for _, s := range []string{
		"As Ks Qs Js Ts", "Ac 2c 3c 4c 5c", "Kd Qd Jd Td 9d", "9s 9h 9d 9c 2s",
		"2s 2h 2d Ac As", "Ad 2s 3h 4c 5d", "Js Jh 2d 3c 4s", "Ts Th Ad Kc Qs",
	} {
		record(MustParseHand(s))
	}

	var prev *scoreRange
	var prevClass Classification
	for c := NoWin; c <= RoyalFlush; c++ {
		r := &ranges[c]
		if !r.seen {
			continue
		}
		if prev != nil {
			assert.Less(t, prev.max, r.min, "%s overlaps %s", prevClass, c)
		}
		prev, prevClass = r, c
	}
}
