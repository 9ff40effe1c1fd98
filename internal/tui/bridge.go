package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lox/videopoker/internal/game"
)

// eventsMsg carries every session event published since the last one.
type eventsMsg []game.GameEvent

// Bridge forwards session events into the Bubble Tea loop. Events arrive
// with the session locked, so OnEvent only queues them; the program picks
// them up through the command returned by Wait.
type Bridge struct {
	mu      sync.Mutex
	pending []game.GameEvent
	notify  chan struct{}
	closed  chan struct{}
	once    sync.Once
}

// NewBridge creates a bridge. Subscribe it to a session before use.
func NewBridge() *Bridge {
	return &Bridge{
		notify: make(chan struct{}, 1),
		closed: make(chan struct{}),
	}
}

// OnEvent implements game.EventSubscriber.
func (b *Bridge) OnEvent(event game.GameEvent) {
	b.mu.Lock()
	b.pending = append(b.pending, event)
	b.mu.Unlock()

	select {
	case b.notify <- struct{}{}:
	default:
	}
}

// Drain returns and clears the queued events.
func (b *Bridge) Drain() []game.GameEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	events := b.pending
	b.pending = nil
	return events
}

// Wait returns a command that blocks until events are queued.
func (b *Bridge) Wait() tea.Cmd {
	return func() tea.Msg {
		select {
		case <-b.notify:
			return eventsMsg(b.Drain())
		case <-b.closed:
			return nil
		}
	}
}

// Close releases any pending Wait.
func (b *Bridge) Close() {
	b.once.Do(func() { close(b.closed) })
}
