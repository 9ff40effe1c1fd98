package game

// EventType represents a session event type with type safety
type EventType string

// EventType constants for session events
const (
	EventTypeDeal          EventType = "deal"
	EventTypeHoldToggled   EventType = "hold_toggled"
	EventTypeDraw          EventType = "draw"
	EventTypeBetChanged    EventType = "bet_changed"
	EventTypeGambleStart   EventType = "gamble_start"
	EventTypeGuessRevealed EventType = "guess_revealed"
	EventTypeGambleWin     EventType = "gamble_win"
	EventTypeMaxStreak     EventType = "max_streak"
	EventTypeSettled       EventType = "settled"
	EventTypeRoundReset    EventType = "round_reset"
	EventTypeRestart       EventType = "restart"
)

// String returns the string representation of the event type
func (et EventType) String() string {
	return string(et)
}
