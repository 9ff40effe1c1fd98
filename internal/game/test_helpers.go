package game

import (
	"github.com/lox/videopoker/poker"
)

// StackedDeck returns a full 52 card deck whose first cards are top, in
// order, followed by every other card in suit-major order. It panics on
// malformed or duplicate cards and is meant for tests and scripted demos.
func StackedDeck(top string) []poker.Card {
	cards := poker.MustParseCards(top)
	seen := make(map[poker.Card]bool, poker.DeckSize)
	for _, c := range cards {
		if seen[c] {
			panic("duplicate card in stacked deck: " + c.String())
		}
		seen[c] = true
	}
	for _, suit := range []poker.Suit{poker.Spades, poker.Hearts, poker.Diamonds, poker.Clubs} {
		for rank := poker.Two; rank <= poker.Ace; rank++ {
			c := poker.NewCard(suit, rank)
			if !seen[c] {
				cards = append(cards, c)
			}
		}
	}
	return cards
}
