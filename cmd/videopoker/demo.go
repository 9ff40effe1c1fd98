package main

import (
	"fmt"
	"io"
	"os"
	"slices"
	"time"

	"github.com/lox/videopoker/internal/demo"
	"github.com/lox/videopoker/internal/flavor"
	"github.com/lox/videopoker/internal/game"
	"github.com/lox/videopoker/internal/randutil"
)

// DemoCmd lets the machine play itself and prints what happens.
type DemoCmd struct {
	Rounds  int           `default:"10" help:"Rounds to play (0 = until interrupted)"`
	Cadence time.Duration `help:"Pause between demo actions (default from config)"`
	Streak  int           `default:"2" help:"Highest gamble streak the demo goes for"`
}

func (c *DemoCmd) Run(g *Globals) error {
	ctx, cancel := signalContext()
	defer cancel()

	m, err := g.openMachine(ctx, os.Stderr)
	if err != nil {
		return err
	}
	defer m.Close()

	cadence := c.Cadence
	if cadence <= 0 {
		if cadence, err = m.cfg.DemoCadence(); err != nil {
			return err
		}
	}

	printer := newEventPrinter(os.Stdout)
	m.session.Subscribe(printer)
	defer m.session.Unsubscribe(printer)

	driver := demo.NewDriver(m.session, demo.Options{
		Cadence:         cadence,
		MaxTargetStreak: c.Streak,
		Rounds:          c.Rounds,
		Logger:          m.logger,
	})
	if err := driver.Start(); err != nil {
		return err
	}
	defer driver.Stop()

	select {
	case <-driver.Done():
	case <-ctx.Done():
	}

	st := m.session.State()
	fmt.Fprintf(os.Stdout, "Played %d rounds, %d credits\n", driver.Rounds(), st.Credits)
	return nil
}

// eventPrinter writes one line per session event plus any flavor text.
// It runs under the session lock and only writes.
type eventPrinter struct {
	w         io.Writer
	formatter *game.EventFormatter
	catalog   *flavor.Catalog
	lastCues  []game.Cue
}

func newEventPrinter(w io.Writer) *eventPrinter {
	return &eventPrinter{
		w:         w,
		formatter: game.NewEventFormatter(game.FormattingOptions{}),
		catalog:   flavor.DefaultCatalog(),
	}
}

func (p *eventPrinter) OnEvent(event game.GameEvent) {
	st := event.Snapshot()
	if line := p.formatter.Format(event); line != "" {
		fmt.Fprintf(p.w, "%s  %-7s %6d  %s\n", event.Timestamp().Format("15:04:05"), st.Phase, st.Credits, line)
	}
	if len(st.Cues) > 0 && !slices.Equal(st.Cues, p.lastCues) {
		rng := randutil.New(event.Timestamp().UnixNano())
		for _, line := range p.catalog.PickAll(st.Cues, rng) {
			fmt.Fprintf(p.w, "          %q\n", line)
		}
	}
	p.lastCues = st.Cues
}
