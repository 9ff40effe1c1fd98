package game

import "fmt"

// CueKind names a category of flavor message the front-end should show.
// The engine only signals which category applies; choosing the text is the
// caller's job.
type CueKind string

const (
	CueLossAtStreak CueKind = "loss_at_streak"
	CueAntiGambling CueKind = "anti_gambling"
	CueDealAgain    CueKind = "deal_again"
	CueOutOfCredits CueKind = "out_of_credits"
	CueStop         CueKind = "stop"
	CueMaxStreak    CueKind = "max_streak"
)

// Cue is a single message hook. Streak is set for CueLossAtStreak and
// CueMaxStreak.
type Cue struct {
	Kind   CueKind `json:"kind"`
	Streak int     `json:"streak,omitempty"`
}

func (c Cue) String() string {
	if c.Streak > 0 {
		return fmt.Sprintf("%s(%d)", c.Kind, c.Streak)
	}
	return string(c.Kind)
}
