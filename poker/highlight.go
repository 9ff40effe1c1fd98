package poker

// Highlight marks the positions that count toward the classification.
// Straights and flushes use every card; count based hands mark only the
// cards in the qualifying rank groups, leaving kickers unmarked.
func Highlight(h Hand, c Classification) Holds {
	var marks Holds

	switch c {
	case RoyalFlush, StraightFlush, Flush, Straight:
		for i := range marks {
			marks[i] = true
		}
		return marks
	case NoWin:
		return marks
	}

	counts := rankCounts(h)
	for i, card := range h {
		n := counts[card.Rank]
		switch c {
		case FourOfAKind:
			marks[i] = n == 4
		case FullHouse:
			marks[i] = n == 3 || n == 2
		case ThreeOfAKind:
			marks[i] = n == 3
		case TwoPair:
			marks[i] = n == 2
		case JacksOrBetter:
			marks[i] = n == 2 && card.Rank >= Jack
		}
	}
	return marks
}

// SuggestHolds is the auto-hold advisor run right after a deal: a hand that
// already pays keeps exactly its highlighted cards, anything else holds nothing.
// It makes no attempt at drawing hands such as four to a flush.
func SuggestHolds(h Hand) Holds {
	c := Classify(h)
	if !c.Pays() {
		return Holds{}
	}
	return Highlight(h, c)
}
