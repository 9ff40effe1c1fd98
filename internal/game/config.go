package game

import (
	"errors"
	"fmt"
	"time"

	"github.com/lox/videopoker/poker"
)

// PayTable maps each paying classification to its multiplier of the bet.
type PayTable map[poker.Classification]int

// DefaultPayTable returns the standard jacks-or-better 9/6 table.
func DefaultPayTable() PayTable {
	return PayTable{
		poker.RoyalFlush:    800,
		poker.StraightFlush: 50,
		poker.FourOfAKind:   25,
		poker.FullHouse:     9,
		poker.Flush:         6,
		poker.Straight:      4,
		poker.ThreeOfAKind:  3,
		poker.TwoPair:       2,
		poker.JacksOrBetter: 1,
	}
}

// Multiplier returns the multiplier for c, or 0 if it does not pay.
func (pt PayTable) Multiplier(c poker.Classification) int {
	if c == poker.NoWin {
		return 0
	}
	return pt[c]
}

// Payout returns the amount won for classification c at the given bet.
func (pt PayTable) Payout(c poker.Classification, bet int) int {
	return pt.Multiplier(c) * bet
}

// Clone returns an independent copy.
func (pt PayTable) Clone() PayTable {
	out := make(PayTable, len(pt))
	for k, v := range pt {
		out[k] = v
	}
	return out
}

// Config holds the fixed constants of a session.
type Config struct {
	StartingCredits int
	MinBet          int
	MaxBet          int
	InitialBet      int
	MaxGambleStreak int
	PayTable        PayTable

	// AutoDealDelay is how long a non-winning draw stays on screen before
	// the next deal. Zero advances immediately.
	AutoDealDelay time.Duration
	// RevealDelay separates a gamble card being shown from its result
	// being applied.
	RevealDelay time.Duration
	// MaxStreakDelay separates the final winning guess from the forced
	// cash-out.
	MaxStreakDelay time.Duration

	// MaxRestarts bounds credit reloads. Zero means unlimited.
	MaxRestarts int
}

// DefaultConfig returns the standard machine settings.
func DefaultConfig() Config {
	return Config{
		StartingCredits: 1000,
		MinBet:          10,
		MaxBet:          1000,
		InitialBet:      250,
		MaxGambleStreak: 5,
		PayTable:        DefaultPayTable(),
		AutoDealDelay:   3 * time.Second,
		RevealDelay:     1500 * time.Millisecond,
		MaxStreakDelay:  1500 * time.Millisecond,
	}
}

// Validate checks the configuration for internal consistency.
func (c Config) Validate() error {
	var errs []error
	if c.MinBet <= 0 {
		errs = append(errs, fmt.Errorf("min bet must be positive, got %d", c.MinBet))
	}
	if c.MaxBet < c.MinBet {
		errs = append(errs, fmt.Errorf("max bet %d is below min bet %d", c.MaxBet, c.MinBet))
	}
	if c.InitialBet < c.MinBet || c.InitialBet > c.MaxBet {
		errs = append(errs, fmt.Errorf("initial bet %d outside [%d, %d]", c.InitialBet, c.MinBet, c.MaxBet))
	}
	if c.StartingCredits < 0 {
		errs = append(errs, fmt.Errorf("starting credits must not be negative, got %d", c.StartingCredits))
	}
	if c.MaxGambleStreak < 1 {
		errs = append(errs, fmt.Errorf("max gamble streak must be at least 1, got %d", c.MaxGambleStreak))
	}
	if c.AutoDealDelay < 0 || c.RevealDelay < 0 || c.MaxStreakDelay < 0 {
		errs = append(errs, errors.New("delays must not be negative"))
	}
	if c.MaxRestarts < 0 {
		errs = append(errs, fmt.Errorf("max restarts must not be negative, got %d", c.MaxRestarts))
	}
	for cls, mult := range c.PayTable {
		if mult < 0 {
			errs = append(errs, fmt.Errorf("pay table entry %s is negative", cls))
		}
		if cls == poker.NoWin && mult != 0 {
			errs = append(errs, fmt.Errorf("pay table entry %s must be zero", cls))
		}
	}
	return errors.Join(errs...)
}
