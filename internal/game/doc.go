// Package game implements the video poker state machine.
//
// The main type is Session, which owns the credits balance, the current
// round and the gamble history. All transitions are methods on Session and
// are serialised by its mutex; delayed behaviour (auto-deal after a losing
// draw, the gamble reveal, the forced cash-out at the maximum streak) is
// scheduled on a schedule.Scheduler so that a pending action is dropped as
// soon as the round moves on.
//
// # Basic Usage
//
//	s, err := game.NewSession(game.DefaultConfig())
//	if err != nil {
//	    return err
//	}
//	_ = s.Deal(250)
//	_ = s.ToggleHold(0)
//	_ = s.Draw()
//	if s.State().Win > 0 {
//	    _ = s.EnterGamble()
//	    card, correct, _ := s.Guess(poker.Red)
//	}
//
// # Deterministic Testing
//
// Inject a virtual clock and a seeded random source, or script the decks
// directly:
//
//	clock := quartz.NewMock(t)
//	s, _ := game.NewSession(cfg,
//	    game.WithClock(clock),
//	    game.WithRand(randutil.New(42)),
//	    game.WithDeckSource(game.ScriptedDecks(deal, guess1, guess2)))
//
// Every state change is published on the session's event bus with a
// snapshot of the resulting State attached.
package game
