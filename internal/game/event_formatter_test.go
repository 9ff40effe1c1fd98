package game

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lox/videopoker/poker"
)

func TestEventFormatter(t *testing.T) {
	t.Parallel()
	hand := poker.MustParseHand("2h 7h 9h Jh Kh")
	ef := NewEventFormatter(FormattingOptions{})

	tests := []struct {
		name  string
		event GameEvent
		want  string
	}{
		{"deal", DealEvent{Bet: 250, Hand: hand, Held: poker.Holds{true, true, true, true, true}},
			"Dealt 2♥ 7♥ 9♥ J♥ K♥ for 250, holding 2♥ 7♥ 9♥ J♥ K♥"},
		{"auto deal", DealEvent{Bet: 10, Hand: hand, Auto: true}, "Dealt 2♥ 7♥ 9♥ J♥ K♥ for 10 (auto)"},
		{"hidden hold", HoldToggledEvent{Index: 2, Held: true}, ""},
		{"win", DrawEvent{Hand: hand, Classification: poker.Flush, Payout: 1500},
			"Drew 2♥ 7♥ 9♥ J♥ K♥: Flush pays 1500"},
		{"no win", DrawEvent{Hand: hand}, "Drew 2♥ 7♥ 9♥ J♥ K♥: no win"},
		{"guess", GuessRevealedEvent{Guess: poker.Red, Card: poker.NewCard(poker.Spades, poker.Ace)},
			"Guessed red, card is A♠: wrong"},
		{"lost", SettledEvent{Outcome: OutcomeLost, Record: &Record{Streak: 2}}, "Lost the gamble after 2 correct"},
		{"cashed", SettledEvent{Outcome: OutcomeCashedOut, Amount: 3000}, "Cashed out 3000"},
		{"broke", RoundResetEvent{OutOfCredits: true}, "Out of credits"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, ef.Format(tc.event))
		})
	}

	verbose := NewEventFormatter(FormattingOptions{ShowHeld: true, ShowBetChange: true})
	assert.Equal(t, "Release card 1", verbose.Format(HoldToggledEvent{Index: 0}))
	assert.Equal(t, "Bet up to 500", verbose.Format(BetChangedEvent{Direction: BetUp, Bet: 500}))
}
