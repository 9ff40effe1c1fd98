package game

import (
	"math/rand/v2"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/videopoker/internal/schedule"
	"github.com/lox/videopoker/poker"
)

// DeckSource produces the deck for a deal or a gamble guess.
type DeckSource func(rng *rand.Rand) *poker.Deck

// ShuffledDecks is the default DeckSource.
func ShuffledDecks(rng *rand.Rand) *poker.Deck {
	return poker.NewShuffledDeck(rng)
}

// ScriptedDecks returns a DeckSource that hands out the given card
// sequences in order, one per request, and falls back to shuffled decks
// once they are exhausted.
func ScriptedDecks(decks ...[]poker.Card) DeckSource {
	var mu sync.Mutex
	next := 0
	return func(rng *rand.Rand) *poker.Deck {
		mu.Lock()
		defer mu.Unlock()
		if next < len(decks) {
			d := poker.NewOrderedDeck(decks[next])
			next++
			return d
		}
		return poker.NewShuffledDeck(rng)
	}
}

// Option configures a Session during creation.
type Option func(*sessionConfig)

type sessionConfig struct {
	clock   quartz.Clock
	rng     *rand.Rand
	logger  *log.Logger
	history []Record
	sink    HistorySink
	decks   DeckSource
	sched   *schedule.Scheduler
}

// WithClock sets the clock used for timestamps and delays.
// Default is the real clock.
func WithClock(clock quartz.Clock) Option {
	return func(c *sessionConfig) {
		c.clock = clock
	}
}

// WithRand sets the random source for shuffles. Default is an entropy
// seeded PCG source.
func WithRand(rng *rand.Rand) Option {
	return func(c *sessionConfig) {
		c.rng = rng
	}
}

// WithLogger sets the logger.
func WithLogger(logger *log.Logger) Option {
	return func(c *sessionConfig) {
		c.logger = logger
	}
}

// WithHistory seeds the session with previously persisted records,
// most recent first.
func WithHistory(records []Record) Option {
	return func(c *sessionConfig) {
		c.history = cloneRecords(records)
	}
}

// WithHistorySink registers a sink called after every history append.
func WithHistorySink(sink HistorySink) Option {
	return func(c *sessionConfig) {
		c.sink = sink
	}
}

// WithDeckSource overrides how decks are produced.
func WithDeckSource(src DeckSource) Option {
	return func(c *sessionConfig) {
		c.decks = src
	}
}

// WithScheduler shares an existing scheduler, typically with a demo
// driver. Its clock is used unless WithClock is also given.
func WithScheduler(s *schedule.Scheduler) Option {
	return func(c *sessionConfig) {
		c.sched = s
	}
}
