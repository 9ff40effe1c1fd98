package poker

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Suit represents a card suit
type Suit uint8

const (
	Spades Suit = iota
	Hearts
	Diamonds
	Clubs
)

var suitSymbols = [...]string{"♠", "♥", "♦", "♣"}

// String returns the suit symbol
func (s Suit) String() string {
	if int(s) < len(suitSymbols) {
		return suitSymbols[s]
	}
	return "?"
}

// Color returns Red for hearts and diamonds, Black for spades and clubs
func (s Suit) Color() Color {
	if s == Hearts || s == Diamonds {
		return Red
	}
	return Black
}

// Valid reports whether s is one of the four suits
func (s Suit) Valid() bool {
	return s <= Clubs
}

// Rank represents a card rank. Values match the numeric rank used for
// straight detection: Two=2 ... Ace=14.
type Rank uint8

const (
	Two Rank = iota + 2
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

var rankNames = [...]string{"2", "3", "4", "5", "6", "7", "8", "9", "10", "J", "Q", "K", "A"}

// String returns the rank as printed on the card ("2".."10", "J", "Q", "K", "A")
func (r Rank) String() string {
	if !r.Valid() {
		return "?"
	}
	return rankNames[r-Two]
}

// Valid reports whether r is between Two and Ace
func (r Rank) Valid() bool {
	return r >= Two && r <= Ace
}

// Color is the binary outcome class used by the double-or-nothing game
type Color uint8

const (
	Red Color = iota
	Black
)

func (c Color) String() string {
	if c == Red {
		return "red"
	}
	return "black"
}

// MarshalText implements encoding.TextMarshaler
func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (c *Color) UnmarshalText(text []byte) error {
	parsed, err := ParseColor(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ParseColor parses "red" or "black" (case insensitive, "r"/"b" accepted)
func ParseColor(s string) (Color, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "red", "r":
		return Red, nil
	case "black", "b":
		return Black, nil
	}
	return 0, fmt.Errorf("invalid color: %q", s)
}

// Card is an immutable suit/rank pair
type Card struct {
	Suit Suit
	Rank Rank
}

// NewCard creates a card from suit and rank
func NewCard(suit Suit, rank Rank) Card {
	return Card{Suit: suit, Rank: rank}
}

// String returns the card as rank followed by suit symbol (e.g. "10♥", "A♠")
func (c Card) String() string {
	return c.Rank.String() + c.Suit.String()
}

// IsRed returns true for hearts and diamonds
func (c Card) IsRed() bool {
	return c.Suit.Color() == Red
}

// Color returns the card's color class
func (c Card) Color() Color {
	return c.Suit.Color()
}

// Valid reports whether both suit and rank are in range
func (c Card) Valid() bool {
	return c.Suit.Valid() && c.Rank.Valid()
}

// cardJSON is the persisted layout: {"suit":"♥","value":"10"}
type cardJSON struct {
	Suit  string `json:"suit"`
	Value string `json:"value"`
}

// MarshalJSON encodes the card using its suit symbol and printed rank
func (c Card) MarshalJSON() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("cannot marshal invalid card %d/%d", c.Suit, c.Rank)
	}
	return json.Marshal(cardJSON{Suit: c.Suit.String(), Value: c.Rank.String()})
}

// UnmarshalJSON decodes the {"suit","value"} layout
func (c *Card) UnmarshalJSON(data []byte) error {
	var raw cardJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	suit, err := parseSuit(raw.Suit)
	if err != nil {
		return err
	}
	rank, err := parseRank(raw.Value)
	if err != nil {
		return err
	}
	*c = Card{Suit: suit, Rank: rank}
	return nil
}

// ParseCard parses a card such as "As", "Th", "10h" or "A♠"
func ParseCard(s string) (Card, error) {
	s = strings.TrimSpace(s)
	if len(s) < 2 {
		return Card{}, fmt.Errorf("invalid card string: %q", s)
	}

	// The suit is the last rune; it may be a multi-byte symbol.
	runes := []rune(s)
	suit, err := parseSuit(string(runes[len(runes)-1]))
	if err != nil {
		return Card{}, fmt.Errorf("invalid card %q: %w", s, err)
	}
	rank, err := parseRank(string(runes[:len(runes)-1]))
	if err != nil {
		return Card{}, fmt.Errorf("invalid card %q: %w", s, err)
	}
	return Card{Suit: suit, Rank: rank}, nil
}

// ParseCards parses a whitespace separated list of cards
func ParseCards(s string) ([]Card, error) {
	fields := strings.Fields(s)
	cards := make([]Card, 0, len(fields))
	for _, f := range fields {
		c, err := ParseCard(f)
		if err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, nil
}

// MustParseCards is ParseCards for tests and fixtures; it panics on error
func MustParseCards(s string) []Card {
	cards, err := ParseCards(s)
	if err != nil {
		panic(err)
	}
	return cards
}

// MustParseHand parses exactly five cards into a Hand
func MustParseHand(s string) Hand {
	cards := MustParseCards(s)
	if len(cards) != HandSize {
		panic(fmt.Sprintf("hand needs %d cards, got %d", HandSize, len(cards)))
	}
	var h Hand
	copy(h[:], cards)
	return h
}

func parseSuit(s string) (Suit, error) {
	switch s {
	case "s", "S", "♠":
		return Spades, nil
	case "h", "H", "♥":
		return Hearts, nil
	case "d", "D", "♦":
		return Diamonds, nil
	case "c", "C", "♣":
		return Clubs, nil
	}
	return 0, fmt.Errorf("invalid suit: %q", s)
}

func parseRank(s string) (Rank, error) {
	switch strings.ToUpper(s) {
	case "T", "10":
		return Ten, nil
	case "J":
		return Jack, nil
	case "Q":
		return Queen, nil
	case "K":
		return King, nil
	case "A":
		return Ace, nil
	}
	if len(s) == 1 && s[0] >= '2' && s[0] <= '9' {
		return Rank(s[0] - '0'), nil
	}
	return 0, fmt.Errorf("invalid rank: %q", s)
}

// HandSize is the number of cards in a video poker hand
const HandSize = 5

// Hand is a five card video poker hand
type Hand [HandSize]Card

// Holds marks positions in a hand; used for held and winning flags
type Holds [HandSize]bool

// Count returns the number of marked positions
func (h Holds) Count() int {
	n := 0
	for _, v := range h {
		if v {
			n++
		}
	}
	return n
}

// String returns the hand as space separated cards
func (h Hand) String() string {
	parts := make([]string, len(h))
	for i, c := range h {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}
