package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/videopoker/poker"
)

func TestDefaultConfigIsValid(t *testing.T) {
	t.Parallel()
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 800, cfg.PayTable.Multiplier(poker.RoyalFlush))
	assert.Equal(t, 1, cfg.PayTable.Multiplier(poker.JacksOrBetter))
	assert.Zero(t, cfg.PayTable.Multiplier(poker.NoWin))
	assert.Equal(t, 1500, cfg.PayTable.Payout(poker.Flush, 250))
	for _, c := range poker.Classifications() {
		assert.Positive(t, cfg.PayTable.Multiplier(c), "%s pays", c)
	}
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero min bet", func(c *Config) { c.MinBet = 0 }},
		{"max below min", func(c *Config) { c.MaxBet = 5 }},
		{"initial bet out of range", func(c *Config) { c.InitialBet = 5000 }},
		{"negative credits", func(c *Config) { c.StartingCredits = -1 }},
		{"no gamble streak", func(c *Config) { c.MaxGambleStreak = 0 }},
		{"negative delay", func(c *Config) { c.RevealDelay = -1 }},
		{"negative restarts", func(c *Config) { c.MaxRestarts = -1 }},
		{"negative payout", func(c *Config) { c.PayTable[poker.Flush] = -6 }},
		{"paying no win", func(c *Config) { c.PayTable[poker.NoWin] = 1 }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			cfg := DefaultConfig()
			tc.mutate(&cfg)
			assert.Error(t, cfg.Validate())

			_, err := NewSession(cfg)
			assert.Error(t, err)
		})
	}
}

func TestSessionCopiesPayTable(t *testing.T) {
	t.Parallel()
	cfg := DefaultConfig()
	s, err := NewSession(cfg, WithLogger(testLogger()))
	require.NoError(t, err)
	defer s.Close()

	cfg.PayTable[poker.Flush] = 100
	assert.Equal(t, 6, s.Config().PayTable.Multiplier(poker.Flush))
}

func TestParseBetDirection(t *testing.T) {
	t.Parallel()
	for in, want := range map[string]BetDirection{
		"up": BetUp, "double": BetUp, "DOWN": BetDown, "half": BetDown, " max ": BetMax,
	} {
		got, err := ParseBetDirection(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseBetDirection("sideways")
	assert.Error(t, err)

	assert.Equal(t, "gamble", Gamble.String())
	text, err := Drawn.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "drawn", string(text))
}
