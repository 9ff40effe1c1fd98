// Package demo plays the machine on its own until someone touches it.
package demo

import (
	"errors"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/lox/videopoker/internal/game"
	"github.com/lox/videopoker/internal/randutil"
	"github.com/lox/videopoker/internal/schedule"
	"github.com/lox/videopoker/poker"
)

var (
	// ErrWagerBegun is returned by Start once the session has been played.
	ErrWagerBegun = errors.New("demo can only start before the first wager")
	// ErrDisabled is returned by Start after real input has been seen.
	ErrDisabled = errors.New("demo disabled by user input")
)

// Options configures a Driver.
type Options struct {
	// Cadence is the pause between demo actions. Default 2s.
	Cadence time.Duration
	// MaxTargetStreak caps how many gamble guesses the driver goes for
	// before cashing out. The target for each gamble is picked uniformly
	// from 1..MaxTargetStreak. Default 2.
	MaxTargetStreak int
	// Rounds stops the driver after this many rounds. Zero plays forever.
	Rounds int
	// Rand picks guess colors and gamble targets.
	Rand   *rand.Rand
	Logger *log.Logger
}

// Driver calls the same Session entry points a player would, on a timer.
type Driver struct {
	session *game.Session
	sched   *schedule.Scheduler
	rng     *rand.Rand
	logger  *log.Logger
	opts    Options

	// actMu is held while the driver is calling into the session so that
	// NotifyInput returns only once no demo action is in flight.
	actMu sync.Mutex

	mu       sync.Mutex
	active   bool
	disabled bool
	task     *schedule.Task
	target   int
	rounds   int
	done     chan struct{}
	doneOnce sync.Once
}

// NewDriver creates an idle driver for session.
func NewDriver(session *game.Session, opts Options) *Driver {
	if opts.Cadence <= 0 {
		opts.Cadence = 2 * time.Second
	}
	if opts.MaxTargetStreak <= 0 {
		opts.MaxTargetStreak = 2
	}
	if limit := session.Config().MaxGambleStreak; opts.MaxTargetStreak > limit {
		opts.MaxTargetStreak = limit
	}
	if opts.Rand == nil {
		opts.Rand, _ = randutil.NewRandom()
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	return &Driver{
		session: session,
		sched:   session.Scheduler(),
		rng:     opts.Rand,
		logger:  opts.Logger.WithPrefix("demo"),
		opts:    opts,
		done:    make(chan struct{}),
	}
}

// Start begins autonomous play. It fails if any wager has already been
// placed on the session.
func (d *Driver) Start() error {
	st := d.session.State()

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.disabled {
		return ErrDisabled
	}
	if d.active {
		return nil
	}
	if st.Phase != game.Betting || st.WagerBegun {
		return ErrWagerBegun
	}

	d.active = true
	d.session.Subscribe(d)
	d.scheduleLocked()
	d.logger.Info("Demo started", "cadence", d.opts.Cadence)
	return nil
}

// Active reports whether the driver is currently playing.
func (d *Driver) Active() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.active
}

// Done is closed when the driver stops for any reason.
func (d *Driver) Done() <-chan struct{} { return d.done }

// Rounds returns how many rounds the driver has seen finish.
func (d *Driver) Rounds() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.rounds
}

// NotifyInput reports real user input. The driver stops for good and the
// session is left exactly where it is.
func (d *Driver) NotifyInput() {
	d.actMu.Lock()
	defer d.actMu.Unlock()
	phase := d.session.State().Phase

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.disabled {
		return
	}
	d.disabled = true
	if d.active {
		d.logger.Info("User input detected, handing over", "phase", phase)
	}
	d.stopLocked()
}

// Stop halts the driver without marking it as disabled by input.
func (d *Driver) Stop() {
	d.actMu.Lock()
	defer d.actMu.Unlock()
	d.halt()
}

func (d *Driver) halt() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopLocked()
}

func (d *Driver) stopLocked() {
	d.sched.Cancel(d.task)
	d.task = nil
	if d.active {
		d.active = false
		d.session.Unsubscribe(d)
	}
	d.doneOnce.Do(func() { close(d.done) })
}

// OnEvent implements game.EventSubscriber. It runs with the session
// locked, so it only reschedules.
func (d *Driver) OnEvent(event game.GameEvent) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.active {
		return
	}

	switch e := event.(type) {
	case game.GambleStartEvent:
		d.target = 1 + d.rng.IntN(d.opts.MaxTargetStreak)
	case game.DrawEvent:
		if e.Payout == 0 {
			d.finishRoundLocked()
		}
	case game.SettledEvent:
		d.finishRoundLocked()
	}
	if d.active {
		d.scheduleLocked()
	}
}

func (d *Driver) finishRoundLocked() {
	d.rounds++
	if d.opts.Rounds > 0 && d.rounds >= d.opts.Rounds {
		d.logger.Info("Demo finished", "rounds", d.rounds)
		d.stopLocked()
	}
}

func (d *Driver) scheduleLocked() {
	d.sched.Cancel(d.task)
	d.task = d.sched.After(d.opts.Cadence, "demo-step", d.step)
}

func (d *Driver) step(t *schedule.Task) {
	d.actMu.Lock()
	defer d.actMu.Unlock()

	d.mu.Lock()
	if !d.active || d.task != t {
		d.mu.Unlock()
		return
	}
	d.task = nil
	target := d.target
	guess := poker.Red
	if d.rng.IntN(2) == 1 {
		guess = poker.Black
	}
	d.mu.Unlock()

	if err := d.act(target, guess); err != nil {
		d.logger.Debug("Demo action rejected", "error", err)
		d.mu.Lock()
		if d.active && d.task == nil {
			d.scheduleLocked()
		}
		d.mu.Unlock()
	}
}

func (d *Driver) act(target int, guess poker.Color) error {
	st := d.session.State()
	switch st.Phase {
	case game.Betting:
		if st.Credits < st.MinBet {
			err := d.session.Restart()
			if errors.Is(err, game.ErrNoRestarts) {
				d.logger.Info("No restarts left, stopping demo")
				d.halt()
			}
			return err
		}
		bet := st.Bet
		if bet > st.Credits {
			var err error
			if bet, err = d.session.AdjustBet(game.BetMax); err != nil {
				return err
			}
		}
		return d.session.Deal(bet)

	case game.Dealt:
		return d.session.Draw()

	case game.Drawn:
		if st.Win == 0 {
			// The engine deals again by itself.
			return nil
		}
		return d.session.EnterGamble()

	case game.Gamble:
		if st.RevealPending || st.StreakComplete {
			return nil
		}
		if st.Streak >= target {
			return d.session.CashOut()
		}
		_, _, err := d.session.Guess(guess)
		return err
	}
	return nil
}
