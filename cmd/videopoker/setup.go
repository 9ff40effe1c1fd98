package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"

	"github.com/lox/videopoker/internal/config"
	"github.com/lox/videopoker/internal/game"
	"github.com/lox/videopoker/internal/history"
	"github.com/lox/videopoker/internal/randutil"
	"github.com/lox/videopoker/internal/store"
)

// Globals are flags shared by every command.
type Globals struct {
	Config  string `short:"c" help:"HCL config file (default $VIDEOPOKER_CONFIG or videopoker.hcl)" type:"path"`
	Debug   bool   `help:"Enable debug logging"`
	Seed    *int64 `help:"Deterministic shuffle seed (default $VIDEOPOKER_SEED or random)"`
	EnvFile string `name:"env-file" default:".env" help:"Dotenv file with VIDEOPOKER_* settings" type:"path"`
}

// machine is everything a command needs to run a session.
type machine struct {
	cfg     *config.Config
	logger  *log.Logger
	store   store.Store
	session *game.Session
}

// loadConfig resolves the config file and environment overrides.
func (g *Globals) loadConfig() (*config.Config, *config.Env, error) {
	env, err := config.FromEnv(g.EnvFile)
	if err != nil {
		return nil, nil, err
	}
	path := env.ConfigPath
	if g.Config != "" {
		path = g.Config
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, nil, fmt.Errorf("load %s: %w", path, err)
	}
	cfg.ApplyEnv(env)
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, env, nil
}

func (g *Globals) newLogger(cfg *config.Config, w io.Writer) *log.Logger {
	level := cfg.Level()
	if g.Debug {
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		Level:           level,
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
	})
}

// openMachine loads config, opens the history store and creates a session
// seeded with the stored history. Logs go to logOut.
func (g *Globals) openMachine(ctx context.Context, logOut io.Writer) (*machine, error) {
	cfg, env, err := g.loadConfig()
	if err != nil {
		return nil, err
	}
	logger := g.newLogger(cfg, logOut)

	gameCfg, err := cfg.GameConfig()
	if err != nil {
		return nil, err
	}

	st, err := cfg.OpenStore()
	if err != nil {
		return nil, fmt.Errorf("open history store: %w", err)
	}
	records := history.Load(ctx, st, cfg.Storage.Key, logger)

	opts := []game.Option{
		game.WithLogger(logger),
		game.WithHistory(records),
		game.WithHistorySink(&history.Sink{Store: st, Key: cfg.Storage.Key, Logger: logger}),
	}
	switch {
	case g.Seed != nil:
		opts = append(opts, game.WithRand(randutil.New(*g.Seed)))
		logger.Info("Using deterministic seed", "seed", *g.Seed)
	case env.HasSeed:
		opts = append(opts, game.WithRand(randutil.New(env.Seed)))
		logger.Info("Using deterministic seed", "seed", env.Seed)
	}

	session, err := game.NewSession(gameCfg, opts...)
	if err != nil {
		_ = st.Close()
		return nil, err
	}
	logger.Debug("Machine ready",
		"credits", gameCfg.StartingCredits,
		"history", len(records),
		"store", cfg.Storage.Kind,
		"location", cfg.Storage.Location)
	return &machine{cfg: cfg, logger: logger, store: st, session: session}, nil
}

func (m *machine) Close() {
	m.session.Close()
	if err := m.store.Close(); err != nil {
		m.logger.Error("Failed to close history store", "error", err)
	}
}

// signalContext is cancelled on interrupt.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
