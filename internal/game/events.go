package game

import (
	"sync"
	"time"

	"github.com/lox/videopoker/poker"
)

// GameEvent represents anything observable that happens in a session.
// Every event carries the session state as it was right after the
// transition, so subscribers never need to call back into the session.
type GameEvent interface {
	EventType() EventType
	Timestamp() time.Time
	Snapshot() State
}

type eventBase struct {
	State     State `json:"state"`
	timestamp time.Time
}

func (e eventBase) Timestamp() time.Time { return e.timestamp }
func (e eventBase) Snapshot() State      { return e.State }

// DealEvent is published when five new cards are dealt.
type DealEvent struct {
	eventBase
	Bet  int         `json:"bet"`
	Hand poker.Hand  `json:"hand"`
	Held poker.Holds `json:"held"`
	// Auto is set when the deal was triggered by the engine after a losing
	// draw rather than by a caller.
	Auto bool `json:"auto"`
}

func (e DealEvent) EventType() EventType { return EventTypeDeal }

// HoldToggledEvent is published when a card's hold flag flips.
type HoldToggledEvent struct {
	eventBase
	Index int  `json:"index"`
	Held  bool `json:"held"`
}

func (e HoldToggledEvent) EventType() EventType { return EventTypeHoldToggled }

// DrawEvent is published after the draw completes and the hand is paid.
type DrawEvent struct {
	eventBase
	Hand           poker.Hand           `json:"hand"`
	Classification poker.Classification `json:"classification"`
	Payout         int                  `json:"payout"`
	Winning        poker.Holds          `json:"winning"`
}

func (e DrawEvent) EventType() EventType { return EventTypeDraw }

// BetChangedEvent is published when the bet is adjusted.
type BetChangedEvent struct {
	eventBase
	Direction BetDirection `json:"-"`
	Bet       int          `json:"bet"`
}

func (e BetChangedEvent) EventType() EventType { return EventTypeBetChanged }

// GambleStartEvent is published on entry to double-or-nothing.
type GambleStartEvent struct {
	eventBase
	Win int `json:"win"`
}

func (e GambleStartEvent) EventType() EventType { return EventTypeGambleStart }

// GuessRevealedEvent is published as soon as the gamble card is drawn. The
// result is applied after the reveal delay.
type GuessRevealedEvent struct {
	eventBase
	Guess   poker.Color `json:"guess"`
	Card    poker.Card  `json:"card"`
	Correct bool        `json:"correct"`
}

func (e GuessRevealedEvent) EventType() EventType { return EventTypeGuessRevealed }

// GambleWinEvent is published when a correct guess doubles the win.
type GambleWinEvent struct {
	eventBase
	Win    int `json:"win"`
	Streak int `json:"streak"`
}

func (e GambleWinEvent) EventType() EventType { return EventTypeGambleWin }

// MaxStreakEvent is published once when the streak reaches the maximum and
// a forced cash-out is pending.
type MaxStreakEvent struct {
	eventBase
	Win    int `json:"win"`
	Streak int `json:"streak"`
}

func (e MaxStreakEvent) EventType() EventType { return EventTypeMaxStreak }

// SettledEvent is published when a win is credited or forfeited.
type SettledEvent struct {
	eventBase
	Outcome Outcome `json:"outcome"`
	Amount  int     `json:"amount"`
	Record  *Record `json:"record,omitempty"`
}

func (e SettledEvent) EventType() EventType { return EventTypeSettled }

// RoundResetEvent is published when a losing round returns to betting
// because the bet can no longer be afforded.
type RoundResetEvent struct {
	eventBase
	OutOfCredits bool `json:"outOfCredits"`
}

func (e RoundResetEvent) EventType() EventType { return EventTypeRoundReset }

// RestartEvent is published when credits are reloaded.
type RestartEvent struct {
	eventBase
	Credits  int `json:"credits"`
	Restarts int `json:"restarts"`
}

func (e RestartEvent) EventType() EventType { return EventTypeRestart }

// EventSubscriber can subscribe to session events
type EventSubscriber interface {
	OnEvent(event GameEvent)
}

// EventBus manages event publishing and subscription
type EventBus interface {
	Subscribe(subscriber EventSubscriber)
	Unsubscribe(subscriber EventSubscriber)
	Publish(event GameEvent)
}

// SimpleEventBus is an in-memory event bus. Subscribers are called
// synchronously in subscription order and must not block.
type SimpleEventBus struct {
	mu          sync.RWMutex
	subscribers []EventSubscriber
}

// NewEventBus creates a new event bus
func NewEventBus() *SimpleEventBus {
	return &SimpleEventBus{}
}

// Subscribe adds a subscriber to receive events
func (bus *SimpleEventBus) Subscribe(subscriber EventSubscriber) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	bus.subscribers = append(bus.subscribers, subscriber)
}

// Unsubscribe removes a subscriber from receiving events
func (bus *SimpleEventBus) Unsubscribe(subscriber EventSubscriber) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	for i, sub := range bus.subscribers {
		if sub == subscriber {
			bus.subscribers = append(bus.subscribers[:i:i], bus.subscribers[i+1:]...)
			break
		}
	}
}

// Publish sends an event to all subscribers
func (bus *SimpleEventBus) Publish(event GameEvent) {
	bus.mu.RLock()
	subs := bus.subscribers
	bus.mu.RUnlock()
	for _, subscriber := range subs {
		subscriber.OnEvent(event)
	}
}
