package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Hold     key.Binding
	DealDraw key.Binding
	BetUp    key.Binding
	BetDown  key.Binding
	BetMax   key.Binding
	Gamble   key.Binding
	Red      key.Binding
	Black    key.Binding
	CashOut  key.Binding
	Restart  key.Binding
	Quit     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Hold:     key.NewBinding(key.WithKeys("1", "2", "3", "4", "5"), key.WithHelp("1-5", "hold")),
		DealDraw: key.NewBinding(key.WithKeys(" ", "enter"), key.WithHelp("space", "deal/draw")),
		BetUp:    key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "bet up")),
		BetDown:  key.NewBinding(key.WithKeys("-", "_"), key.WithHelp("-", "bet down")),
		BetMax:   key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "max bet")),
		Gamble:   key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "gamble")),
		Red:      key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "red")),
		Black:    key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "black")),
		CashOut:  key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "cash out")),
		Restart:  key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "restart")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c", "esc"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Hold, k.DealDraw, k.Gamble, k.CashOut, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Hold, k.DealDraw, k.BetUp, k.BetDown, k.BetMax},
		{k.Gamble, k.Red, k.Black, k.CashOut},
		{k.Restart, k.Quit},
	}
}

// setPhase enables only the bindings that can do something right now.
func (k *keyMap) setPhase(st phaseView) {
	k.Hold.SetEnabled(st.dealt)
	k.DealDraw.SetEnabled(st.canDeal || st.dealt)
	k.BetUp.SetEnabled(st.betting)
	k.BetDown.SetEnabled(st.betting)
	k.BetMax.SetEnabled(st.betting)
	k.Gamble.SetEnabled(st.canGamble)
	k.Red.SetEnabled(st.gamble)
	k.Black.SetEnabled(st.gamble)
	k.CashOut.SetEnabled(st.gamble || st.canGamble)
	k.Restart.SetEnabled(st.broke)
}
