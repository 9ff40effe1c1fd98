package game

import (
	"time"

	"github.com/lox/videopoker/poker"
)

// Outcome is how a gamble sub-round ended.
type Outcome string

const (
	OutcomeCashedOut Outcome = "cashed_out"
	OutcomeLost      Outcome = "lost"
)

// Record is one settled gamble sub-round. Records are never modified after
// they are appended.
type Record struct {
	ID        string       `json:"id"`
	Outcome   Outcome      `json:"outcome"`
	Amount    int          `json:"amount"`
	Streak    int          `json:"streak"`
	Timestamp time.Time    `json:"timestamp"`
	WonCards  []poker.Card `json:"wonCards"`
	FinalCard *poker.Card  `json:"finalCard,omitempty"`
}

// Clone returns a deep copy of the record.
func (r Record) Clone() Record {
	out := r
	out.WonCards = append([]poker.Card(nil), r.WonCards...)
	if r.FinalCard != nil {
		fc := *r.FinalCard
		out.FinalCard = &fc
	}
	return out
}

// HistorySink persists the full history after every append. Implementations
// may fail; the session logs the error and keeps playing.
type HistorySink interface {
	SaveHistory(records []Record) error
}

// HistorySinkFunc adapts a function to HistorySink.
type HistorySinkFunc func([]Record) error

func (f HistorySinkFunc) SaveHistory(records []Record) error { return f(records) }

func cloneRecords(records []Record) []Record {
	out := make([]Record, len(records))
	for i, r := range records {
		out[i] = r.Clone()
	}
	return out
}
