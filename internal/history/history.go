// Package history persists settled gamble records in the machine's
// storage layout and exports them for people to read.
package history

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/lox/videopoker/internal/game"
	"github.com/lox/videopoker/internal/store"
	"github.com/lox/videopoker/poker"
)

// DefaultKey is the storage key the history lives under.
const DefaultKey = "mpsPokerGambleHistory"

const saveTimeout = 5 * time.Second

// wireRecord is the stored layout. Timestamps are epoch milliseconds and
// ids are strings, but older data may carry numeric ids or RFC 3339 times.
type wireRecord struct {
	ID        json.RawMessage   `json:"id"`
	Outcome   string            `json:"outcome"`
	Amount    float64           `json:"amount"`
	Streak    float64           `json:"streak"`
	Timestamp json.RawMessage   `json:"timestamp"`
	FinalCard json.RawMessage   `json:"finalCard,omitempty"`
	WonCards  []json.RawMessage `json:"wonCards,omitempty"`
}

type encodedRecord struct {
	ID        string       `json:"id"`
	Outcome   game.Outcome `json:"outcome"`
	Amount    int          `json:"amount"`
	Streak    int          `json:"streak"`
	Timestamp int64        `json:"timestamp"`
	FinalCard *poker.Card  `json:"finalCard,omitempty"`
	WonCards  []poker.Card `json:"wonCards"`
}

// Encode serialises records in the stored layout.
func Encode(records []game.Record) ([]byte, error) {
	out := make([]encodedRecord, 0, len(records))
	for _, r := range records {
		won := r.WonCards
		if won == nil {
			won = []poker.Card{}
		}
		out = append(out, encodedRecord{
			ID:        r.ID,
			Outcome:   r.Outcome,
			Amount:    r.Amount,
			Streak:    r.Streak,
			Timestamp: toMillis(r.Timestamp),
			FinalCard: r.FinalCard,
			WonCards:  won,
		})
	}
	return json.Marshal(out)
}

// Decode parses stored history. It never fails: anything that is not a JSON
// array yields no records, and entries that are not objects or carry an
// unknown outcome are skipped. Missing fields load as zero values and
// unreadable cards are dropped from the record that holds them.
func Decode(data []byte) []game.Record {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return []game.Record{}
	}

	records := make([]game.Record, 0, len(raw))
	for _, item := range raw {
		var w wireRecord
		if err := json.Unmarshal(item, &w); err != nil {
			continue
		}
		outcome := game.Outcome(w.Outcome)
		if outcome != game.OutcomeCashedOut && outcome != game.OutcomeLost {
			continue
		}
		r := game.Record{
			ID:        decodeID(w.ID),
			Outcome:   outcome,
			Amount:    int(w.Amount),
			Streak:    int(w.Streak),
			Timestamp: decodeTimestamp(w.Timestamp),
			WonCards:  []poker.Card{},
		}
		for _, rc := range w.WonCards {
			var c poker.Card
			if err := json.Unmarshal(rc, &c); err == nil {
				r.WonCards = append(r.WonCards, c)
			}
		}
		if len(w.FinalCard) > 0 {
			var c poker.Card
			if err := json.Unmarshal(w.FinalCard, &c); err == nil {
				r.FinalCard = &c
			}
		}
		records = append(records, r)
	}
	return records
}

// decodeID returns "" for a missing or unreadable id.
func decodeID(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}

// decodeTimestamp returns the zero time for a missing, unreadable or zero
// timestamp.
func decodeTimestamp(raw json.RawMessage) time.Time {
	if len(raw) == 0 {
		return time.Time{}
	}
	var ms float64
	if err := json.Unmarshal(raw, &ms); err == nil {
		return fromMillis(int64(ms))
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return time.Time{}
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return fromMillis(n)
	}
	return time.Time{}
}

func fromMillis(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms)
}

func toMillis(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

// Load reads the history stored under key. Missing or unreadable history
// is logged and treated as empty.
func Load(ctx context.Context, st store.Store, key string, logger *log.Logger) []game.Record {
	if key == "" {
		key = DefaultKey
	}
	data, err := st.Get(ctx, key)
	if errors.Is(err, store.ErrNotFound) {
		return []game.Record{}
	}
	if err != nil {
		if logger != nil {
			logger.Warn("Failed to load history", "key", key, "error", err)
		}
		return []game.Record{}
	}
	return Decode(data)
}

// Sink writes the session's history to a store after every settlement.
type Sink struct {
	Store  store.Store
	Key    string
	Logger *log.Logger
}

// SaveHistory implements game.HistorySink.
func (s *Sink) SaveHistory(records []game.Record) error {
	data, err := Encode(records)
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}
	key := s.Key
	if key == "" {
		key = DefaultKey
	}

	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()
	if err := s.Store.Put(ctx, key, data); err != nil {
		return fmt.Errorf("save history: %w", err)
	}
	if s.Logger != nil {
		s.Logger.Debug("History saved", "key", key, "records", len(records))
	}
	return nil
}

type tomlExport struct {
	Records []tomlRecord `toml:"record"`
}

type tomlRecord struct {
	ID        string    `toml:"id"`
	Outcome   string    `toml:"outcome"`
	Amount    int       `toml:"amount"`
	Streak    int       `toml:"streak"`
	Timestamp time.Time `toml:"timestamp"`
	WonCards  []string  `toml:"won_cards"`
	FinalCard string    `toml:"final_card,omitempty"`
}

// ExportTOML writes records as a TOML document with one [[record]] table
// per entry.
func ExportTOML(w io.Writer, records []game.Record) error {
	doc := tomlExport{Records: make([]tomlRecord, 0, len(records))}
	for _, r := range records {
		tr := tomlRecord{
			ID:        r.ID,
			Outcome:   string(r.Outcome),
			Amount:    r.Amount,
			Streak:    r.Streak,
			Timestamp: r.Timestamp.UTC(),
			WonCards:  make([]string, 0, len(r.WonCards)),
		}
		for _, c := range r.WonCards {
			tr.WonCards = append(tr.WonCards, c.String())
		}
		if r.FinalCard != nil {
			tr.FinalCard = r.FinalCard.String()
		}
		doc.Records = append(doc.Records, tr)
	}

	enc := toml.NewEncoder(w)
	enc.Indent = "\t"
	return enc.Encode(doc)
}

// ExportJSON writes records as indented JSON in the stored layout.
func ExportJSON(w io.Writer, records []game.Record) error {
	data, err := Encode(records)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		return err
	}
	buf.WriteByte('\n')
	_, err = io.Copy(w, &buf)
	return err
}

// Summary is a one-line description of a record for listings.
func Summary(r game.Record) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %-10s  %6d  streak %d", r.Timestamp.Format(time.DateTime), r.Outcome, r.Amount, r.Streak)
	if len(r.WonCards) > 0 {
		cards := make([]string, len(r.WonCards))
		for i, c := range r.WonCards {
			cards[i] = c.String()
		}
		fmt.Fprintf(&b, "  won %s", strings.Join(cards, " "))
	}
	if r.FinalCard != nil {
		fmt.Fprintf(&b, "  final %s", r.FinalCard)
	}
	return b.String()
}
