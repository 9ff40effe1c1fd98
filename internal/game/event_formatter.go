package game

import (
	"fmt"
	"strings"

	"github.com/lox/videopoker/poker"
)

// FormattingOptions controls how events are formatted for different contexts
type FormattingOptions struct {
	ShowHeld      bool // Include hold toggles (noisy outside interactive play)
	ShowBetChange bool // Include bet adjustments
}

// EventFormatter turns session events into one-line log entries
type EventFormatter struct {
	opts FormattingOptions
}

// NewEventFormatter creates a new event formatter with the given options
func NewEventFormatter(opts FormattingOptions) *EventFormatter {
	return &EventFormatter{opts: opts}
}

// Format returns the log line for event, or "" when the options hide it.
func (ef *EventFormatter) Format(event GameEvent) string {
	switch e := event.(type) {
	case DealEvent:
		text := fmt.Sprintf("Dealt %s for %d", e.Hand, e.Bet)
		if e.Auto {
			text += " (auto)"
		}
		if e.Held.Count() > 0 {
			text += fmt.Sprintf(", holding %s", formatHeld(e.Hand, e.Held))
		}
		return text
	case HoldToggledEvent:
		if !ef.opts.ShowHeld {
			return ""
		}
		if e.Held {
			return fmt.Sprintf("Hold card %d", e.Index+1)
		}
		return fmt.Sprintf("Release card %d", e.Index+1)
	case DrawEvent:
		if e.Payout == 0 {
			return fmt.Sprintf("Drew %s: no win", e.Hand)
		}
		return fmt.Sprintf("Drew %s: %s pays %d", e.Hand, e.Classification, e.Payout)
	case BetChangedEvent:
		if !ef.opts.ShowBetChange {
			return ""
		}
		return fmt.Sprintf("Bet %s to %d", e.Direction, e.Bet)
	case GambleStartEvent:
		return fmt.Sprintf("Gambling %d: red or black?", e.Win)
	case GuessRevealedEvent:
		verdict := "wrong"
		if e.Correct {
			verdict = "right"
		}
		return fmt.Sprintf("Guessed %s, card is %s: %s", e.Guess, e.Card, verdict)
	case GambleWinEvent:
		return fmt.Sprintf("Doubled to %d (streak %d)", e.Win, e.Streak)
	case MaxStreakEvent:
		return fmt.Sprintf("Max streak %d reached at %d", e.Streak, e.Win)
	case SettledEvent:
		if e.Outcome == OutcomeLost {
			if e.Record != nil {
				return fmt.Sprintf("Lost the gamble after %d correct", e.Record.Streak)
			}
			return "Lost the gamble"
		}
		return fmt.Sprintf("Cashed out %d", e.Amount)
	case RoundResetEvent:
		if e.OutOfCredits {
			return "Out of credits"
		}
		return "Place your bet"
	case RestartEvent:
		return fmt.Sprintf("Restarted with %d credits (restart %d)", e.Credits, e.Restarts)
	}
	return ""
}

func formatHeld(hand poker.Hand, held poker.Holds) string {
	var cards []string
	for i, h := range held {
		if h {
			cards = append(cards, hand[i].String())
		}
	}
	return strings.Join(cards, " ")
}
