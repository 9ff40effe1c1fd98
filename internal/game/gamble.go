package game

import (
	"fmt"

	"github.com/lox/videopoker/poker"
)

// EnterGamble starts double-or-nothing with the current win.
func (s *Session) EnterGamble() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if s.phase != Drawn {
		return fmt.Errorf("gamble in %s: %w", s.phase, ErrWrongPhase)
	}
	if s.win <= 0 {
		return ErrNoWin
	}
	s.sched.Advance()

	s.phase = Gamble
	s.streak = 0
	s.wonCards = nil
	s.gambleCard = nil
	s.cues = nil

	s.logger.Debug("Entering gamble", "win", s.win)
	s.bus.Publish(GambleStartEvent{eventBase: s.eventBaseLocked(), Win: s.win})
	return nil
}

// Guess draws one card from a freshly shuffled deck and compares its color
// with guess. The card and verdict are returned straight away; the win is
// doubled or forfeited once the reveal delay has passed.
func (s *Session) Guess(guess poker.Color) (poker.Card, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return poker.Card{}, false, ErrClosed
	}
	if s.phase != Gamble {
		return poker.Card{}, false, fmt.Errorf("guess in %s: %w", s.phase, ErrWrongPhase)
	}
	if guess != poker.Red && guess != poker.Black {
		return poker.Card{}, false, ErrInvalidColor
	}
	if s.revealPending {
		return poker.Card{}, false, ErrRevealPending
	}
	if s.streakComplete {
		return poker.Card{}, false, ErrStreakComplete
	}
	s.sched.Advance()

	card, ok := s.deckMaker(s.rng).DealOne()
	if !ok {
		panic("empty gamble deck")
	}
	correct := card.Color() == guess

	s.gambleCard = &card
	s.revealPending = true
	s.cues = nil

	s.logger.Debug("Gamble card drawn", "guess", guess, "card", card, "correct", correct)
	s.bus.Publish(GuessRevealedEvent{
		eventBase: s.eventBaseLocked(),
		Guess:     guess,
		Card:      card,
		Correct:   correct,
	})

	s.afterLocked(s.cfg.RevealDelay, "gamble-reveal", func() {
		s.resolveGuessLocked(card, correct)
	})
	return card, correct, nil
}

func (s *Session) resolveGuessLocked(card poker.Card, correct bool) {
	if s.phase != Gamble || !s.revealPending {
		return
	}
	s.sched.Advance()
	s.revealPending = false

	if !correct {
		s.loseLocked(card)
		return
	}

	s.win *= 2
	s.streak++
	s.wonCards = append(s.wonCards, card)
	s.bus.Publish(GambleWinEvent{eventBase: s.eventBaseLocked(), Win: s.win, Streak: s.streak})

	if s.streak < s.cfg.MaxGambleStreak {
		return
	}

	s.streakComplete = true
	s.cues = []Cue{{Kind: CueMaxStreak, Streak: s.streak}}
	s.logger.Info("Maximum gamble streak reached", "streak", s.streak, "win", s.win)
	s.bus.Publish(MaxStreakEvent{eventBase: s.eventBaseLocked(), Win: s.win, Streak: s.streak})

	s.afterLocked(s.cfg.MaxStreakDelay, "max-streak-cashout", func() {
		if s.phase == Gamble && s.streakComplete {
			s.cashOutLocked()
		}
	})
}

func (s *Session) loseLocked(card poker.Card) {
	streak := s.streak + 1
	rec := s.newRecordLocked(OutcomeLost, 0, streak, &card)
	lost := s.win

	s.phase = Betting
	s.winning = poker.Holds{}
	s.clearRoundLocked()
	s.gambleCard = &card
	s.cues = []Cue{
		{Kind: CueLossAtStreak, Streak: streak},
		{Kind: CueAntiGambling},
		{Kind: CueDealAgain},
	}
	if s.credits == 0 {
		s.outOfCredits = true
		s.cues = append(s.cues, s.outOfCreditsCuesLocked()...)
	}

	s.appendHistoryLocked(rec)
	s.logger.Info("Gamble lost", "forfeited", lost, "streak", streak, "card", card)
	s.bus.Publish(SettledEvent{
		eventBase: s.eventBaseLocked(),
		Outcome:   OutcomeLost,
		Amount:    0,
		Record:    &rec,
	})
}

// CashOut credits the current win and returns to Betting. A history record
// is written when the win went through double-or-nothing.
func (s *Session) CashOut() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	switch s.phase {
	case Drawn:
		if s.win <= 0 {
			return ErrNoWin
		}
	case Gamble:
		if s.revealPending {
			return ErrRevealPending
		}
	default:
		return fmt.Errorf("cash out in %s: %w", s.phase, ErrWrongPhase)
	}
	s.cashOutLocked()
	return nil
}

func (s *Session) cashOutLocked() {
	s.sched.Advance()

	amount := s.win
	gambled := s.phase == Gamble
	var rec *Record
	if gambled {
		var final *poker.Card
		if s.streakComplete {
			final = s.gambleCard
		}
		r := s.newRecordLocked(OutcomeCashedOut, amount, s.streak, final)
		rec = &r
	}

	s.credits += amount
	s.phase = Betting
	s.winning = poker.Holds{}
	s.clearRoundLocked()

	if rec != nil {
		s.appendHistoryLocked(*rec)
	}
	s.logger.Info("Cashed out", "amount", amount, "credits", s.credits, "gambled", gambled)
	s.bus.Publish(SettledEvent{
		eventBase: s.eventBaseLocked(),
		Outcome:   OutcomeCashedOut,
		Amount:    amount,
		Record:    rec,
	})
}
