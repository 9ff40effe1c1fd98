package tui

import (
	"errors"
	"io"
	"os"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/videopoker/internal/game"
	"github.com/lox/videopoker/internal/randutil"
	"github.com/lox/videopoker/poker"
)

func TestMain(m *testing.M) {
	lipgloss.SetColorProfile(termenv.Ascii)
	os.Exit(m.Run())
}

type fakeDemo struct{ notified int }

func (f *fakeDemo) NotifyInput() { f.notified++ }

func newTestModel(t *testing.T, decks ...[]poker.Card) (*Model, *fakeDemo) {
	t.Helper()
	logger := log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel}) // Quiet logger for tests
	s, err := game.NewSession(game.DefaultConfig(),
		game.WithClock(quartz.NewMock(t)),
		game.WithLogger(logger),
		game.WithRand(randutil.New(1)),
		game.WithDeckSource(game.ScriptedDecks(decks...)),
	)
	require.NoError(t, err)
	t.Cleanup(s.Close)

	demo := &fakeDemo{}
	m := NewModel(s, Options{Demo: demo, Logger: logger, Rand: randutil.New(2)})
	t.Cleanup(m.Close)
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return m, demo
}

func press(m *Model, keys string) tea.Cmd {
	var msg tea.KeyMsg
	if keys == " " {
		msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	} else {
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(keys)}
	}
	_, cmd := m.Update(msg)
	return cmd
}

// pump delivers queued session events to the model.
func pump(m *Model) {
	m.Update(eventsMsg(m.bridge.Drain()))
}

func TestDealHoldDraw(t *testing.T) {
	t.Parallel()
	m, demo := newTestModel(t, game.StackedDeck("2h 7h 9h Jh Kh"))

	assert.Contains(t, m.View(), "Press space to deal")
	assert.Contains(t, m.View(), "Royal Flush")

	press(m, " ")
	assert.Equal(t, 1, demo.notified)
	require.Equal(t, game.Dealt, m.state.Phase)
	view := m.View()
	assert.Contains(t, view, "2♥")
	assert.Contains(t, view, "K♥")
	assert.Contains(t, view, "HELD")
	assert.Contains(t, view, "CREDITS 750")

	press(m, "1")
	assert.False(t, m.state.Held[0])
	press(m, "1")
	assert.True(t, m.state.Held[0])

	press(m, " ")
	require.Equal(t, game.Drawn, m.state.Phase)
	pump(m)
	assert.Equal(t, 1500, m.state.Win)
	view = m.View()
	assert.Contains(t, view, "WIN 1500")
	assert.Contains(t, view, "Flush! You win 1500")
	assert.Contains(t, view, "Flush pays 1500")
	assert.Equal(t, 3, demo.notified)
}

func TestGambleKeys(t *testing.T) {
	t.Parallel()
	m, _ := newTestModel(t, game.StackedDeck("2h 7h 9h Jh Kh"))

	press(m, " ")
	press(m, " ")
	press(m, "g")
	require.Equal(t, game.Gamble, m.state.Phase)
	assert.Contains(t, m.View(), "Red or black?")
	assert.Contains(t, m.View(), "DOUBLE OR NOTHING  0/5")

	press(m, "r")
	require.True(t, m.state.RevealPending)
	assert.False(t, m.keys.Red.Enabled())
	assert.False(t, m.keys.CashOut.Enabled())
	assert.NotContains(t, m.View(), "??")
}

func TestCashOutFromDrawn(t *testing.T) {
	t.Parallel()
	m, _ := newTestModel(t, game.StackedDeck("2h 7h 9h Jh Kh"))

	press(m, " ")
	press(m, " ")
	press(m, "c")
	pump(m)
	assert.Equal(t, game.Betting, m.state.Phase)
	assert.Equal(t, 2250, m.state.Credits)
	assert.Contains(t, m.View(), "Collected 1500")
}

func TestLosingDrawKeepsBetKeys(t *testing.T) {
	t.Parallel()
	m, _ := newTestModel(t, game.StackedDeck("2s 5h 9d Jc Kd 3c 8h Ts 4d 6s"))

	press(m, " ")
	press(m, " ")
	pump(m)
	assert.Equal(t, poker.NoWin, m.state.Classification)
	assert.Contains(t, m.View(), "no win")
	assert.True(t, m.keys.BetUp.Enabled(), "bet can change while the auto-deal waits")
	assert.False(t, m.keys.Gamble.Enabled())
}

func TestBetKeys(t *testing.T) {
	t.Parallel()
	m, _ := newTestModel(t)

	press(m, "-")
	assert.Equal(t, 125, m.state.Bet)
	press(m, "+")
	assert.Equal(t, 250, m.state.Bet)
	press(m, "m")
	assert.Equal(t, 1000, m.state.Bet)
	assert.Empty(t, m.status)
}

func TestQuit(t *testing.T) {
	t.Parallel()
	m, demo := newTestModel(t)

	cmd := press(m, "q")
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Empty(t, m.View())
	assert.Equal(t, 1, demo.notified)
}

func TestDescribeError(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "Out of credits: press R to restart", describeError(game.ErrOutOfCredits))
	assert.Equal(t, "Wait for the card", describeError(game.ErrRevealPending))
	assert.Equal(t, "boom", describeError(errors.New("boom")))

	m, _ := newTestModel(t)
	m.setStatus("Not enough credits", false)
	assert.Contains(t, m.View(), "Not enough credits")
}

func TestBridge(t *testing.T) {
	t.Parallel()
	b := NewBridge()
	b.OnEvent(game.RoundResetEvent{})
	b.OnEvent(game.RoundResetEvent{OutOfCredits: true})

	msg := b.Wait()()
	events, ok := msg.(eventsMsg)
	require.True(t, ok)
	assert.Len(t, events, 2)
	assert.Empty(t, b.Drain())

	b.Close()
	assert.Nil(t, b.Wait()())
}
