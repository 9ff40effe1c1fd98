package game

import (
	"fmt"
	"strings"
)

// Phase is the stage of the current round.
type Phase uint8

const (
	Betting Phase = iota
	Dealt
	Drawn
	Gamble
)

var phaseNames = [...]string{
	Betting: "betting",
	Dealt:   "dealt",
	Drawn:   "drawn",
	Gamble:  "gamble",
}

func (p Phase) String() string {
	if int(p) < len(phaseNames) {
		return phaseNames[p]
	}
	return fmt.Sprintf("phase(%d)", uint8(p))
}

// MarshalText implements encoding.TextMarshaler.
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// BetDirection is a bet adjustment request.
type BetDirection uint8

const (
	BetUp BetDirection = iota
	BetDown
	BetMax
)

func (d BetDirection) String() string {
	switch d {
	case BetUp:
		return "up"
	case BetDown:
		return "down"
	case BetMax:
		return "max"
	default:
		return fmt.Sprintf("direction(%d)", uint8(d))
	}
}

// ParseBetDirection accepts "up", "down", "max" and the aliases "double"
// and "half".
func ParseBetDirection(s string) (BetDirection, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up", "double", "+":
		return BetUp, nil
	case "down", "half", "-":
		return BetDown, nil
	case "max":
		return BetMax, nil
	}
	return 0, fmt.Errorf("unknown bet direction %q", s)
}
