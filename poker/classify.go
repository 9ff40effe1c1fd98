package poker

import (
	"fmt"
	"slices"
)

// Classification is the payable category of a five card hand.
// Values are ordered from weakest (NoWin) to strongest (RoyalFlush).
type Classification uint8

const (
	NoWin Classification = iota
	JacksOrBetter
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
	RoyalFlush
)

var classificationNames = [...]string{
	NoWin:         "No Win",
	JacksOrBetter: "Jacks or Better",
	TwoPair:       "Two Pair",
	ThreeOfAKind:  "Three of a Kind",
	Straight:      "Straight",
	Flush:         "Flush",
	FullHouse:     "Full House",
	FourOfAKind:   "Four of a Kind",
	StraightFlush: "Straight Flush",
	RoyalFlush:    "Royal Flush",
}

// String returns the pay table name of the classification
func (c Classification) String() string {
	if int(c) < len(classificationNames) {
		return classificationNames[c]
	}
	return "Unknown"
}

// Pays reports whether the classification is a winning category
func (c Classification) Pays() bool {
	return c != NoWin && c <= RoyalFlush
}

// Classifications returns every payable classification, highest first
func Classifications() []Classification {
	return []Classification{
		RoyalFlush, StraightFlush, FourOfAKind, FullHouse, Flush,
		Straight, ThreeOfAKind, TwoPair, JacksOrBetter,
	}
}

// MarshalText implements encoding.TextMarshaler using the pay table name
func (c Classification) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (c *Classification) UnmarshalText(text []byte) error {
	parsed, ok := ParseClassification(string(text))
	if !ok {
		return fmt.Errorf("unknown classification %q", text)
	}
	*c = parsed
	return nil
}

// ParseClassification looks up a classification by its pay table name
func ParseClassification(name string) (Classification, bool) {
	for i, n := range classificationNames {
		if n == name {
			return Classification(i), true
		}
	}
	return NoWin, false
}

// rankCounts returns occurrences per rank, indexed by Rank
func rankCounts(h Hand) [Ace + 1]int {
	var counts [Ace + 1]int
	for _, c := range h {
		counts[c.Rank]++
	}
	return counts
}

func isFlush(h Hand) bool {
	for _, c := range h[1:] {
		if c.Suit != h[0].Suit {
			return false
		}
	}
	return true
}

// isStraight reports whether the sorted values form a straight.
// The wheel (A-2-3-4-5) counts as a straight with the ace low.
func isStraight(values []int) bool {
	if slices.Equal(values, []int{2, 3, 4, 5, 14}) {
		return true
	}
	for i := 1; i < len(values); i++ {
		if values[i] != values[i-1]+1 {
			return false
		}
	}
	return true
}

// Classify returns the single payable category of the hand.
// Categories are tested from strongest to weakest and the first match wins.
// A single pair below jacks is NoWin; there is no low pair tier.
func Classify(h Hand) Classification {
	counts := rankCounts(h)

	values := make([]int, 0, HandSize)
	for _, c := range h {
		values = append(values, int(c.Rank))
	}
	slices.Sort(values)

	groups := make([]int, 0, HandSize)
	for _, n := range counts {
		if n > 0 {
			groups = append(groups, n)
		}
	}
	slices.SortFunc(groups, func(a, b int) int { return b - a })

	flush := isFlush(h)
	straight := isStraight(values)

	switch {
	case straight && flush && slices.Contains(values, int(Ace)) && slices.Contains(values, int(King)):
		return RoyalFlush
	case straight && flush:
		return StraightFlush
	case groups[0] == 4:
		return FourOfAKind
	case groups[0] == 3 && groups[1] == 2:
		return FullHouse
	case flush:
		return Flush
	case straight:
		return Straight
	case groups[0] == 3:
		return ThreeOfAKind
	case groups[0] == 2 && groups[1] == 2:
		return TwoPair
	}

	if groups[0] == 2 {
		for r := Jack; r <= Ace; r++ {
			if counts[r] == 2 {
				return JacksOrBetter
			}
		}
	}
	return NoWin
}
