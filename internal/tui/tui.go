// Package tui is the terminal front-end: a Bubble Tea program that draws a
// session and turns key presses into session calls.
package tui

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/lox/videopoker/internal/flavor"
	"github.com/lox/videopoker/internal/game"
	"github.com/lox/videopoker/internal/history"
	"github.com/lox/videopoker/internal/randutil"
	"github.com/lox/videopoker/poker"
)

// InputNotifier is told about every key press before it is handled. The
// demo driver implements it.
type InputNotifier interface {
	NotifyInput()
}

// Options configures a Model.
type Options struct {
	// Demo, if set, is notified of the first key press and every one after.
	Demo    InputNotifier
	Catalog *flavor.Catalog
	Rand    *rand.Rand
	Logger  *log.Logger
	// HistoryRows is how many recent gamble records are shown. Default 5.
	HistoryRows int
	// LogRows is how many event log lines are shown. Default 6.
	LogRows int
}

// Model is the Bubble Tea model for one session.
type Model struct {
	session   *game.Session
	bridge    *Bridge
	demo      InputNotifier
	catalog   *flavor.Catalog
	rng       *rand.Rand
	logger    *log.Logger
	formatter *game.EventFormatter
	opts      Options

	keys keyMap
	help help.Model

	state    game.State
	history  []game.Record
	gameLog  []string
	cues     []game.Cue
	flavor   []string
	status   string
	statusOK bool

	width    int
	height   int
	quitting bool
}

// NewModel creates a model and subscribes it to session. Call Close when
// the program has exited.
func NewModel(session *game.Session, opts Options) *Model {
	if opts.Catalog == nil {
		opts.Catalog = flavor.DefaultCatalog()
	}
	if opts.Rand == nil {
		opts.Rand, _ = randutil.NewRandom()
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.HistoryRows <= 0 {
		opts.HistoryRows = 5
	}
	if opts.LogRows <= 0 {
		opts.LogRows = 6
	}

	m := &Model{
		session:   session,
		bridge:    NewBridge(),
		demo:      opts.Demo,
		catalog:   opts.Catalog,
		rng:       opts.Rand,
		logger:    opts.Logger.WithPrefix("tui"),
		formatter: game.NewEventFormatter(game.FormattingOptions{}),
		opts:      opts,
		keys:      defaultKeyMap(),
		help:      help.New(),
	}
	session.Subscribe(m.bridge)
	m.history = session.History()
	m.refresh(session.State())
	return m
}

// Close unsubscribes from the session.
func (m *Model) Close() {
	m.session.Unsubscribe(m.bridge)
	m.bridge.Close()
}

// Run starts a full-screen program and blocks until the player quits or
// ctx is cancelled.
func Run(ctx context.Context, session *game.Session, opts Options) error {
	m := NewModel(session, opts)
	defer m.Close()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return m.bridge.Wait()
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

	case eventsMsg:
		for _, event := range msg {
			m.applyEvent(event)
		}
		m.history = m.session.History()
		m.refresh(m.session.State())
		return m, m.bridge.Wait()

	case tea.KeyMsg:
		if m.demo != nil {
			m.demo.NotifyInput()
		}
		if key.Matches(msg, m.keys.Quit) {
			m.quitting = true
			return m, tea.Quit
		}
		m.handleKey(msg)
		m.refresh(m.session.State())
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) {
	var err error
	switch {
	case key.Matches(msg, m.keys.Hold):
		err = m.session.ToggleHold(int(msg.String()[0] - '1'))
	case key.Matches(msg, m.keys.DealDraw):
		if m.state.Phase == game.Dealt {
			err = m.session.Draw()
		} else {
			err = m.session.Deal(m.state.Bet)
		}
	case key.Matches(msg, m.keys.BetUp):
		_, err = m.session.AdjustBet(game.BetUp)
	case key.Matches(msg, m.keys.BetDown):
		_, err = m.session.AdjustBet(game.BetDown)
	case key.Matches(msg, m.keys.BetMax):
		_, err = m.session.AdjustBet(game.BetMax)
	case key.Matches(msg, m.keys.Gamble):
		err = m.session.EnterGamble()
	case key.Matches(msg, m.keys.Red):
		_, _, err = m.session.Guess(poker.Red)
	case key.Matches(msg, m.keys.Black):
		_, _, err = m.session.Guess(poker.Black)
	case key.Matches(msg, m.keys.CashOut):
		err = m.session.CashOut()
	case key.Matches(msg, m.keys.Restart):
		err = m.session.Restart()
	default:
		return
	}

	if err != nil {
		m.logger.Debug("Action rejected", "key", msg.String(), "error", err)
		m.setStatus(describeError(err), false)
		return
	}
	m.status = ""
}

func (m *Model) applyEvent(event game.GameEvent) {
	if line := m.formatter.Format(event); line != "" {
		m.gameLog = append(m.gameLog, line)
		if over := len(m.gameLog) - m.opts.LogRows; over > 0 {
			m.gameLog = m.gameLog[over:]
		}
	}
	switch e := event.(type) {
	case game.DrawEvent:
		if e.Payout > 0 {
			m.setStatus(fmt.Sprintf("%s! You win %d", e.Classification, e.Payout), true)
		}
	case game.GambleWinEvent:
		m.setStatus(fmt.Sprintf("Correct! Win is now %d", e.Win), true)
	case game.SettledEvent:
		if e.Outcome == game.OutcomeCashedOut {
			m.setStatus(fmt.Sprintf("Collected %d", e.Amount), true)
		}
	}
}

func (m *Model) refresh(st game.State) {
	m.state = st
	if !slices.Equal(st.Cues, m.cues) {
		m.cues = st.Cues
		m.flavor = m.catalog.PickAll(st.Cues, m.rng)
	}
	m.keys.setPhase(newPhaseView(st))
}

func (m *Model) setStatus(text string, ok bool) {
	m.status = text
	m.statusOK = ok
}

func describeError(err error) string {
	switch {
	case errors.Is(err, game.ErrOutOfCredits):
		return "Out of credits: press R to restart"
	case errors.Is(err, game.ErrNoRestarts):
		return "No restarts left"
	case errors.Is(err, game.ErrInsufficientCredits):
		return "Not enough credits for that bet"
	case errors.Is(err, game.ErrRevealPending):
		return "Wait for the card"
	case errors.Is(err, game.ErrStreakComplete):
		return "Max streak reached, cashing out"
	}
	return err.Error()
}

// phaseView collapses a State into what the key map and view care about.
type phaseView struct {
	betting   bool
	canDeal   bool
	dealt     bool
	canGamble bool
	gamble    bool
	broke     bool
}

func newPhaseView(st game.State) phaseView {
	return phaseView{
		betting:   st.Phase == game.Betting || (st.Phase == game.Drawn && st.Win == 0),
		canDeal:   st.CanDeal(),
		dealt:     st.Phase == game.Dealt,
		canGamble: st.Phase == game.Drawn && st.Win > 0,
		gamble:    st.Phase == game.Gamble && !st.RevealPending && !st.StreakComplete,
		broke:     st.Phase == game.Betting && st.Credits < st.MinBet,
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	left := lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		"",
		m.renderTable(),
		"",
		m.renderMeters(),
		m.renderStatus(),
		m.renderFlavor(),
	)
	right := lipgloss.JoinVertical(lipgloss.Left,
		PaneStyle.Render(m.renderPayTable()),
		PaneStyle.Render(m.renderHistory()),
		PaneStyle.Render(m.renderLog()),
	)

	body := lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", right)
	return lipgloss.JoinVertical(lipgloss.Left, body, "", m.help.View(m.keys))
}

func (m *Model) renderHeader() string {
	phase := strings.ToUpper(m.state.Phase.String())
	if m.state.Phase == game.Gamble {
		phase = fmt.Sprintf("DOUBLE OR NOTHING  %d/%d", m.state.Streak, m.state.MaxStreak)
	}
	return HeaderStyle.Render("VIDEO POKER") + " " + PhaseStyle.Render(phase)
}

func (m *Model) renderTable() string {
	if m.state.Phase == game.Gamble {
		return m.renderGamble()
	}
	if len(m.state.Hand) == 0 {
		return InfoStyle.Render("Press space to deal")
	}

	boxes := make([]string, len(m.state.Hand))
	for i, c := range m.state.Hand {
		style := CardBoxStyle
		if m.state.Winning[i] {
			style = WinningCardBoxStyle
		}
		mark := " "
		switch {
		case m.state.Phase == game.Dealt && m.state.Held[i]:
			mark = HeldStyle.Render("HELD")
		case m.state.Phase == game.Drawn && m.state.Winning[i]:
			mark = WinMarkStyle.Render("WIN")
		}
		boxes[i] = lipgloss.JoinVertical(lipgloss.Center,
			style.Render(formatCard(c)),
			mark,
			InfoStyle.Render(fmt.Sprintf("%d", i+1)),
		)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, boxes...)
}

func (m *Model) renderGamble() string {
	face := "??"
	if m.state.GambleCard != nil {
		face = formatCard(*m.state.GambleCard)
	}
	card := CardBoxStyle.Render(face)

	var won []string
	for _, c := range m.state.WonCards {
		won = append(won, formatCard(c))
	}
	prompt := "Red or black?"
	switch {
	case m.state.StreakComplete:
		prompt = "MAX STREAK!"
	case m.state.RevealPending:
		prompt = "..."
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Center, card, "  ", MeterStyle.Render(prompt)),
		InfoStyle.Render("Won: "+strings.Join(won, " ")),
	)
}

func (m *Model) renderMeters() string {
	return MeterStyle.Render(fmt.Sprintf("CREDITS %d   BET %d   WIN %d",
		m.state.Credits, m.state.Bet, m.state.Win))
}

func (m *Model) renderStatus() string {
	if m.status == "" {
		return ""
	}
	if m.statusOK {
		return SuccessStyle.Render(m.status)
	}
	return ErrorStyle.Render(m.status)
}

func (m *Model) renderFlavor() string {
	lines := make([]string, len(m.flavor))
	for i, l := range m.flavor {
		lines[i] = FlavorStyle.Render(l)
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderPayTable() string {
	table := m.session.Config().PayTable
	var rows []string
	for _, c := range poker.Classifications() {
		row := fmt.Sprintf("%-16s %7d", c, table.Payout(c, m.state.Bet))
		if m.state.Phase == game.Drawn && m.state.Classification == c {
			rows = append(rows, PayRowActiveStyle.Render(row))
			continue
		}
		rows = append(rows, PayRowStyle.Render(row))
	}
	return strings.Join(rows, "\n")
}

func (m *Model) renderHistory() string {
	if len(m.history) == 0 {
		return InfoStyle.Render("No gambles yet")
	}
	n := min(len(m.history), m.opts.HistoryRows)
	rows := make([]string, n)
	for i := range n {
		rows[i] = history.Summary(m.history[i])
	}
	return strings.Join(rows, "\n")
}

func (m *Model) renderLog() string {
	if len(m.gameLog) == 0 {
		return InfoStyle.Render("Good luck")
	}
	return strings.Join(m.gameLog, "\n")
}

// formatCard colours a card by suit
func formatCard(c poker.Card) string {
	if c.IsRed() {
		return RedCardStyle.Render(c.String())
	}
	return BlackCardStyle.Render(c.String())
}
