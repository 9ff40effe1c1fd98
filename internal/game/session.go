package game

import (
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/google/uuid"

	"github.com/lox/videopoker/internal/randutil"
	"github.com/lox/videopoker/internal/schedule"
	"github.com/lox/videopoker/poker"
)

// State is a read-only snapshot of a session.
type State struct {
	Phase          Phase                `json:"phase"`
	Credits        int                  `json:"credits"`
	Bet            int                  `json:"bet"`
	MinBet         int                  `json:"minBet"`
	MaxBet         int                  `json:"maxBet"`
	Win            int                  `json:"win"`
	Hand           []poker.Card         `json:"hand"`
	Held           poker.Holds          `json:"held"`
	Winning        poker.Holds          `json:"winning"`
	Classification poker.Classification `json:"classification"`
	Payout         int                  `json:"payout"`
	Streak         int                  `json:"streak"`
	MaxStreak      int                  `json:"maxStreak"`
	WonCards       []poker.Card         `json:"wonCards"`
	GambleCard     *poker.Card          `json:"gambleCard,omitempty"`
	RevealPending  bool                 `json:"revealPending"`
	StreakComplete bool                 `json:"streakComplete"`
	OutOfCredits   bool                 `json:"outOfCredits"`
	WagerBegun     bool                 `json:"wagerBegun"`
	Restarts       int                  `json:"restarts"`
	// RestartsLeft is -1 when restarts are unlimited.
	RestartsLeft int   `json:"restartsLeft"`
	Cues         []Cue `json:"cues"`
}

// CanDeal reports whether Deal would be accepted at the current bet.
func (st State) CanDeal() bool {
	if st.Phase != Betting && (st.Phase != Drawn || st.Win > 0) {
		return false
	}
	return st.Bet >= st.MinBet && st.Bet <= st.MaxBet && st.Bet <= st.Credits
}

// HasCue reports whether a cue of the given kind is pending.
func (st State) HasCue(kind CueKind) bool {
	for _, c := range st.Cues {
		if c.Kind == kind {
			return true
		}
	}
	return false
}

// Session is a single player's machine: credits, the current round and the
// gamble history.
type Session struct {
	cfg       Config
	clock     quartz.Clock
	rng       *rand.Rand
	logger    *log.Logger
	sched     *schedule.Scheduler
	ownSched  bool
	bus       *SimpleEventBus
	sink      HistorySink
	deckMaker DeckSource

	mu             sync.Mutex
	closed         bool
	phase          Phase
	credits        int
	bet            int
	win            int
	hand           poker.Hand
	hasHand        bool
	held           poker.Holds
	winning        poker.Holds
	deck           *poker.Deck
	result         poker.Classification
	payout         int
	streak         int
	wonCards       []poker.Card
	gambleCard     *poker.Card
	revealPending  bool
	streakComplete bool
	outOfCredits   bool
	wagerBegun     bool
	restarts       int
	cues           []Cue
	history        []Record
}

// NewSession creates a session in the Betting phase with the configured
// starting credits.
func NewSession(cfg Config, opts ...Option) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	sc := &sessionConfig{}
	for _, opt := range opts {
		opt(sc)
	}

	if sc.logger == nil {
		sc.logger = log.Default()
	}
	logger := sc.logger.WithPrefix("session")

	if sc.clock == nil {
		if sc.sched != nil {
			sc.clock = sc.sched.Clock()
		} else {
			sc.clock = quartz.NewReal()
		}
	}
	if sc.rng == nil {
		var seed int64
		sc.rng, seed = randutil.NewRandom()
		logger.Debug("Seeded random source", "seed", seed)
	}
	if sc.decks == nil {
		sc.decks = ShuffledDecks
	}

	s := &Session{
		cfg:       cfg,
		clock:     sc.clock,
		rng:       sc.rng,
		logger:    logger,
		sched:     sc.sched,
		bus:       NewEventBus(),
		sink:      sc.sink,
		deckMaker: sc.decks,
		phase:     Betting,
		credits:   cfg.StartingCredits,
		bet:       cfg.InitialBet,
		history:   sc.history,
	}
	if s.sched == nil {
		s.sched = schedule.New(sc.clock, sc.logger)
		s.ownSched = true
	}
	s.cfg.PayTable = cfg.PayTable.Clone()
	if s.cfg.PayTable == nil {
		s.cfg.PayTable = DefaultPayTable()
	}
	return s, nil
}

// Config returns the session's configuration.
func (s *Session) Config() Config {
	cfg := s.cfg
	cfg.PayTable = s.cfg.PayTable.Clone()
	return cfg
}

// Scheduler returns the scheduler used for delayed transitions.
func (s *Session) Scheduler() *schedule.Scheduler { return s.sched }

// Subscribe registers an event subscriber. Subscribers are called while the
// session is locked and must not call back into it.
func (s *Session) Subscribe(sub EventSubscriber) { s.bus.Subscribe(sub) }

// Unsubscribe removes an event subscriber.
func (s *Session) Unsubscribe(sub EventSubscriber) { s.bus.Unsubscribe(sub) }

// State returns a snapshot of the session.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// History returns the settled gamble records, most recent first.
func (s *Session) History() []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneRecords(s.history)
}

// Close cancels all pending delayed transitions. Further calls fail with
// ErrClosed.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	if s.ownSched {
		s.sched.Stop()
	} else {
		s.sched.Advance()
	}
}

// Deal debits bet and deals a fresh hand. It is accepted in Betting, or
// after a losing draw while the auto-deal is still pending.
func (s *Session) Deal(bet int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if s.phase != Betting && (s.phase != Drawn || s.win > 0) {
		return fmt.Errorf("deal in %s: %w", s.phase, ErrWrongPhase)
	}
	if err := s.checkBetLocked(bet); err != nil {
		return err
	}
	s.dealLocked(bet, false)
	return nil
}

func (s *Session) checkBetLocked(bet int) error {
	if s.credits < s.cfg.MinBet {
		return ErrOutOfCredits
	}
	if bet < s.cfg.MinBet || bet > s.cfg.MaxBet {
		return fmt.Errorf("bet %d outside [%d, %d]: %w", bet, s.cfg.MinBet, s.cfg.MaxBet, ErrInvalidBet)
	}
	if bet > s.credits {
		return fmt.Errorf("bet %d with %d credits: %w", bet, s.credits, ErrInsufficientCredits)
	}
	return nil
}

func (s *Session) dealLocked(bet int, auto bool) {
	s.sched.Advance()

	s.credits -= bet
	s.bet = bet
	s.deck = s.deckMaker(s.rng)
	copy(s.hand[:], s.deck.Deal(poker.HandSize))
	s.hasHand = true
	s.held = poker.SuggestHolds(s.hand)
	s.winning = poker.Holds{}
	s.result = poker.NoWin
	s.payout = 0
	s.clearRoundLocked()
	s.wagerBegun = true
	s.phase = Dealt

	s.logger.Debug("Dealt", "bet", bet, "hand", s.hand, "credits", s.credits, "auto", auto)
	s.bus.Publish(DealEvent{
		eventBase: s.eventBaseLocked(),
		Bet:       bet,
		Hand:      s.hand,
		Held:      s.held,
		Auto:      auto,
	})
}

// clearRoundLocked resets win and gamble state.
func (s *Session) clearRoundLocked() {
	s.win = 0
	s.streak = 0
	s.wonCards = nil
	s.gambleCard = nil
	s.revealPending = false
	s.streakComplete = false
	s.outOfCredits = false
	s.cues = nil
}

// ToggleHold flips the hold flag of the card at index.
func (s *Session) ToggleHold(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if s.phase != Dealt {
		return fmt.Errorf("hold in %s: %w", s.phase, ErrWrongPhase)
	}
	if index < 0 || index >= poker.HandSize {
		return fmt.Errorf("index %d: %w", index, ErrInvalidHoldIndex)
	}
	s.held[index] = !s.held[index]
	s.bus.Publish(HoldToggledEvent{
		eventBase: s.eventBaseLocked(),
		Index:     index,
		Held:      s.held[index],
	})
	return nil
}

// Draw replaces every card that is not held, left to right, from the
// remaining deck and pays the final hand.
func (s *Session) Draw() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if s.phase != Dealt {
		return fmt.Errorf("draw in %s: %w", s.phase, ErrWrongPhase)
	}
	s.sched.Advance()

	for i := range s.hand {
		if s.held[i] {
			continue
		}
		card, ok := s.deck.DealOne()
		if !ok {
			// A 52 card deck always has 47 left after the deal.
			panic("deck exhausted during draw")
		}
		s.hand[i] = card
	}

	s.result = poker.Classify(s.hand)
	s.payout = s.cfg.PayTable.Payout(s.result, s.bet)
	if s.payout > 0 {
		s.winning = poker.Highlight(s.hand, s.result)
	} else {
		s.winning = poker.Holds{}
	}
	s.win = s.payout
	s.phase = Drawn

	s.logger.Debug("Drew", "hand", s.hand, "result", s.result, "payout", s.payout)
	s.bus.Publish(DrawEvent{
		eventBase:      s.eventBaseLocked(),
		Hand:           s.hand,
		Classification: s.result,
		Payout:         s.payout,
		Winning:        s.winning,
	})

	if s.payout == 0 {
		s.afterLocked(s.cfg.AutoDealDelay, "auto-deal", s.autoAdvanceLocked)
	}
	return nil
}

// autoAdvanceLocked moves on from a losing draw: another deal at the same
// bet if it is affordable, otherwise back to Betting.
func (s *Session) autoAdvanceLocked() {
	if s.phase != Drawn || s.win != 0 {
		return
	}
	if s.checkBetLocked(s.bet) == nil {
		s.dealLocked(s.bet, true)
		return
	}

	s.sched.Advance()
	s.phase = Betting
	s.cues = nil
	if s.credits == 0 {
		s.outOfCredits = true
		s.cues = s.outOfCreditsCuesLocked()
	}
	s.logger.Info("Bet no longer affordable", "bet", s.bet, "credits", s.credits)
	s.bus.Publish(RoundResetEvent{
		eventBase:    s.eventBaseLocked(),
		OutOfCredits: s.outOfCredits,
	})
}

func (s *Session) outOfCreditsCuesLocked() []Cue {
	cues := []Cue{{Kind: CueOutOfCredits}}
	if s.restartsLeftLocked() == 0 {
		cues = append(cues, Cue{Kind: CueStop})
	}
	return cues
}

// AdjustBet doubles, halves or maxes the bet. The result is clamped to
// [MinBet, min(MaxBet, credits)]; it never fails for an out of range
// result. Adjustments are accepted in Betting and in Drawn after a draw
// that paid nothing, while the auto-deal is pending; the next deal uses the
// new bet. Any other phase returns ErrWrongPhase.
func (s *Session) AdjustBet(dir BetDirection) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return s.bet, ErrClosed
	}
	if s.phase != Betting && (s.phase != Drawn || s.win > 0) {
		return s.bet, fmt.Errorf("adjust bet in %s: %w", s.phase, ErrWrongPhase)
	}

	next := s.nextBetLocked(dir)
	if next == s.bet {
		return s.bet, nil
	}
	s.bet = next
	s.bus.Publish(BetChangedEvent{
		eventBase: s.eventBaseLocked(),
		Direction: dir,
		Bet:       next,
	})
	return next, nil
}

func (s *Session) nextBetLocked(dir BetDirection) int {
	upper := min(s.cfg.MaxBet, s.credits)
	if upper < s.cfg.MinBet {
		upper = s.cfg.MinBet
	}

	var next int
	switch dir {
	case BetUp:
		next = s.bet * 2
		if next > s.credits {
			next = s.credits
		}
	case BetDown:
		next = s.bet / 2
	case BetMax:
		next = upper
	default:
		next = s.bet
	}
	return max(s.cfg.MinBet, min(upper, next))
}

// Restart reloads the starting credits and returns to Betting, discarding
// any round in progress.
func (s *Session) Restart() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if s.restartsLeftLocked() == 0 {
		return ErrNoRestarts
	}
	s.sched.Advance()

	s.restarts++
	s.credits = s.cfg.StartingCredits
	s.bet = max(s.cfg.MinBet, min(s.bet, s.cfg.MaxBet, s.credits))
	s.phase = Betting
	s.hand = poker.Hand{}
	s.hasHand = false
	s.held = poker.Holds{}
	s.winning = poker.Holds{}
	s.deck = nil
	s.result = poker.NoWin
	s.payout = 0
	s.clearRoundLocked()

	s.logger.Info("Credits reloaded", "credits", s.credits, "restarts", s.restarts)
	s.bus.Publish(RestartEvent{
		eventBase: s.eventBaseLocked(),
		Credits:   s.credits,
		Restarts:  s.restarts,
	})
	return nil
}

func (s *Session) restartsLeftLocked() int {
	if s.cfg.MaxRestarts == 0 {
		return -1
	}
	return max(0, s.cfg.MaxRestarts-s.restarts)
}

// afterLocked runs fn after d, or immediately when d is zero. The delayed
// call re-acquires the session lock and is dropped if the round moved on.
func (s *Session) afterLocked(d time.Duration, name string, fn func()) {
	if d <= 0 {
		fn()
		return
	}
	s.sched.After(d, name, func(t *schedule.Task) {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.closed || !t.Live() {
			return
		}
		fn()
	})
}

func (s *Session) appendHistoryLocked(rec Record) {
	s.history = append([]Record{rec}, s.history...)
	if s.sink == nil {
		return
	}
	if err := s.sink.SaveHistory(cloneRecords(s.history)); err != nil {
		s.logger.Error("Failed to save history", "error", err, "records", len(s.history))
	}
}

func (s *Session) newRecordLocked(outcome Outcome, amount, streak int, final *poker.Card) Record {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	rec := Record{
		ID:        id.String(),
		Outcome:   outcome,
		Amount:    amount,
		Streak:    streak,
		Timestamp: s.clock.Now(),
		WonCards:  append([]poker.Card(nil), s.wonCards...),
	}
	if final != nil {
		fc := *final
		rec.FinalCard = &fc
	}
	return rec
}

func (s *Session) eventBaseLocked() eventBase {
	return eventBase{State: s.snapshotLocked(), timestamp: s.clock.Now()}
}

func (s *Session) snapshotLocked() State {
	st := State{
		Phase:          s.phase,
		Credits:        s.credits,
		Bet:            s.bet,
		MinBet:         s.cfg.MinBet,
		MaxBet:         s.cfg.MaxBet,
		Win:            s.win,
		Held:           s.held,
		Winning:        s.winning,
		Classification: s.result,
		Payout:         s.payout,
		Streak:         s.streak,
		MaxStreak:      s.cfg.MaxGambleStreak,
		WonCards:       append([]poker.Card{}, s.wonCards...),
		RevealPending:  s.revealPending,
		StreakComplete: s.streakComplete,
		OutOfCredits:   s.outOfCredits,
		WagerBegun:     s.wagerBegun,
		Restarts:       s.restarts,
		RestartsLeft:   s.restartsLeftLocked(),
		Cues:           append([]Cue{}, s.cues...),
	}
	if s.hasHand {
		st.Hand = append([]poker.Card{}, s.hand[:]...)
	}
	if s.gambleCard != nil {
		c := *s.gambleCard
		st.GambleCard = &c
	}
	return st
}
