package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/videopoker/internal/game"
	"github.com/lox/videopoker/internal/store"
	"github.com/lox/videopoker/poker"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Parallel()
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.hcl"))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	gc, err := cfg.GameConfig()
	require.NoError(t, err)
	assert.Equal(t, game.DefaultConfig(), gc)
	assert.Equal(t, log.InfoLevel, cfg.Level())
	assert.Equal(t, "mpsPokerGambleHistory", cfg.Storage.Key)
	assert.Equal(t, string(store.KindFile), cfg.Storage.Kind)

	cadence, err := cfg.DemoCadence()
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, cadence)
}

func TestLoadOverrides(t *testing.T) {
	t.Parallel()
	path := writeFile(t, "videopoker.hcl", `
log_level = "debug"

game {
  starting_credits  = 500
  min_bet           = 5
  max_bet           = 200
  initial_bet       = 50
  max_gamble_streak = 3
  max_restarts      = 2
}

paytable {
  royal_flush = 250
  full_house  = 8
}

timing {
  auto_deal_delay  = "0s"
  reveal_delay     = "750ms"
  max_streak_delay = "2s"
  demo_cadence     = "500ms"
}

storage {
  kind     = "memory"
  location = "ignored"
  key      = "custom"
}
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())
	assert.Equal(t, log.DebugLevel, cfg.Level())

	gc, err := cfg.GameConfig()
	require.NoError(t, err)
	assert.Equal(t, 500, gc.StartingCredits)
	assert.Equal(t, 5, gc.MinBet)
	assert.Equal(t, 200, gc.MaxBet)
	assert.Equal(t, 50, gc.InitialBet)
	assert.Equal(t, 3, gc.MaxGambleStreak)
	assert.Equal(t, 2, gc.MaxRestarts)
	assert.Equal(t, 250, gc.PayTable.Multiplier(poker.RoyalFlush))
	assert.Equal(t, 8, gc.PayTable.Multiplier(poker.FullHouse))
	assert.Equal(t, 6, gc.PayTable.Multiplier(poker.Flush))
	assert.Zero(t, gc.AutoDealDelay)
	assert.Equal(t, 750*time.Millisecond, gc.RevealDelay)
	assert.Equal(t, 2*time.Second, gc.MaxStreakDelay)

	cadence, err := cfg.DemoCadence()
	require.NoError(t, err)
	assert.Equal(t, 500*time.Millisecond, cadence)

	st, err := cfg.OpenStore()
	require.NoError(t, err)
	assert.IsType(t, &store.MemoryStore{}, st)
	require.NoError(t, st.Close())
}

func TestLoadRejectsBadSyntax(t *testing.T) {
	t.Parallel()
	_, err := Load(writeFile(t, "bad.hcl", `game {`))
	assert.ErrorContains(t, err, "parse")

	_, err = Load(writeFile(t, "unknown.hcl", `colour = "red"`))
	assert.ErrorContains(t, err, "decode")
}

func TestValidate(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		body string
	}{
		{"log level", `log_level = "chatty"`},
		{"storage kind", `storage { kind = "s3" }`},
		{"duration", `timing { reveal_delay = "soon" }`},
		{"negative duration", `timing { reveal_delay = "-1s" }`},
		{"cadence", `timing { demo_cadence = "0s" }`},
		{"bet range", `game { min_bet = 100
max_bet = 50 }`},
		{"initial bet", `game { initial_bet = 5000 }`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			cfg, err := Load(writeFile(t, "c.hcl", tc.body))
			require.NoError(t, err)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestApplyEnvSelectsStore(t *testing.T) {
	t.Parallel()
	cfg := Default()
	cfg.ApplyEnv(nil)
	assert.Equal(t, string(store.KindFile), cfg.Storage.Kind)

	cfg.ApplyEnv(&Env{HistoryPath: "/tmp/poker/history.db"})
	assert.Equal(t, string(store.KindSQLite), cfg.Storage.Kind)
	assert.Equal(t, "/tmp/poker/history.db", cfg.Storage.Location)

	cfg = Default()
	cfg.ApplyEnv(&Env{HistoryPath: "/tmp/poker"})
	assert.Equal(t, string(store.KindFile), cfg.Storage.Kind)
	assert.Equal(t, "/tmp/poker", cfg.Storage.Location)
}
