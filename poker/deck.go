package poker

import (
	"math/rand/v2"
)

// DeckSize is the number of cards in a standard deck
const DeckSize = 52

// Deck is an ordered sequence of cards dealt strictly from the top.
// A deck is never reshuffled once created; a new round takes a new deck.
type Deck struct {
	cards []Card
	next  int
}

// orderedCards returns all 52 cards in suit-major order
func orderedCards() []Card {
	cards := make([]Card, 0, DeckSize)
	for suit := Spades; suit <= Clubs; suit++ {
		for rank := Two; rank <= Ace; rank++ {
			cards = append(cards, NewCard(suit, rank))
		}
	}
	return cards
}

// NewShuffledDeck returns a full deck permuted with Fisher-Yates using rng.
// The RNG is required so that deals can be replayed exactly from a seed.
func NewShuffledDeck(rng *rand.Rand) *Deck {
	if rng == nil {
		panic("rng is required for shuffling")
	}
	cards := orderedCards()
	for i := len(cards) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		cards[i], cards[j] = cards[j], cards[i]
	}
	return &Deck{cards: cards}
}

// NewOrderedDeck builds a deck that deals the given cards in order.
// Used for scripted rounds; the caller is responsible for uniqueness.
func NewOrderedDeck(cards []Card) *Deck {
	c := make([]Card, len(cards))
	copy(c, cards)
	return &Deck{cards: c}
}

// Deal deals n cards from the deck, or nil if fewer than n remain
func (d *Deck) Deal(n int) []Card {
	if n < 0 || d.next+n > len(d.cards) {
		return nil
	}
	cards := make([]Card, n)
	copy(cards, d.cards[d.next:d.next+n])
	d.next += n
	return cards
}

// DealOne deals a single card
func (d *Deck) DealOne() (Card, bool) {
	if d.next >= len(d.cards) {
		return Card{}, false
	}
	card := d.cards[d.next]
	d.next++
	return card, true
}

// Remaining returns the number of undealt cards
func (d *Deck) Remaining() int {
	return len(d.cards) - d.next
}

// Cards returns a copy of the full deck order, dealt cards included
func (d *Deck) Cards() []Card {
	c := make([]Card, len(d.cards))
	copy(c, d.cards)
	return c
}
