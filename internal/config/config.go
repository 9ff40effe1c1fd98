// Package config loads the machine's HCL configuration file and the
// environment overrides the CLI honours.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/lox/videopoker/internal/game"
	"github.com/lox/videopoker/internal/store"
	"github.com/lox/videopoker/poker"
)

// Config is the complete file configuration. Every block is optional and
// zero values fall back to the machine defaults.
type Config struct {
	LogLevel string         `hcl:"log_level,optional"`
	Game     *GameBlock     `hcl:"game,block"`
	PayTable *PayTableBlock `hcl:"paytable,block"`
	Timing   *TimingBlock   `hcl:"timing,block"`
	Storage  *StorageBlock  `hcl:"storage,block"`
}

// GameBlock holds credit and betting limits.
type GameBlock struct {
	StartingCredits int `hcl:"starting_credits,optional"`
	MinBet          int `hcl:"min_bet,optional"`
	MaxBet          int `hcl:"max_bet,optional"`
	InitialBet      int `hcl:"initial_bet,optional"`
	MaxGambleStreak int `hcl:"max_gamble_streak,optional"`
	MaxRestarts     int `hcl:"max_restarts,optional"`
}

// PayTableBlock overrides individual multipliers.
type PayTableBlock struct {
	RoyalFlush    int `hcl:"royal_flush,optional"`
	StraightFlush int `hcl:"straight_flush,optional"`
	FourOfAKind   int `hcl:"four_of_a_kind,optional"`
	FullHouse     int `hcl:"full_house,optional"`
	Flush         int `hcl:"flush,optional"`
	Straight      int `hcl:"straight,optional"`
	ThreeOfAKind  int `hcl:"three_of_a_kind,optional"`
	TwoPair       int `hcl:"two_pair,optional"`
	JacksOrBetter int `hcl:"jacks_or_better,optional"`
}

// TimingBlock holds delays as Go duration strings ("3s", "1500ms", "0s").
type TimingBlock struct {
	AutoDealDelay  string `hcl:"auto_deal_delay,optional"`
	RevealDelay    string `hcl:"reveal_delay,optional"`
	MaxStreakDelay string `hcl:"max_streak_delay,optional"`
	DemoCadence    string `hcl:"demo_cadence,optional"`
}

// StorageBlock selects where history is persisted.
type StorageBlock struct {
	Kind     string `hcl:"kind,optional"`
	Location string `hcl:"location,optional"`
	Key      string `hcl:"key,optional"`
}

const (
	defaultLogLevel    = "info"
	defaultDemoCadence = 2 * time.Second
	defaultHistoryKey  = "mpsPokerGambleHistory"
)

// Default returns the configuration used when no file exists.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads filename. A missing file yields the defaults.
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return Default(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var cfg Config
	diags = gohcl.DecodeBody(file.Body, nil, &cfg)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = defaultLogLevel
	}
	if c.Game == nil {
		c.Game = &GameBlock{}
	}
	if c.PayTable == nil {
		c.PayTable = &PayTableBlock{}
	}
	if c.Timing == nil {
		c.Timing = &TimingBlock{}
	}
	if c.Storage == nil {
		c.Storage = &StorageBlock{}
	}
	if c.Storage.Kind == "" {
		c.Storage.Kind = string(store.KindFile)
	}
	if c.Storage.Location == "" {
		c.Storage.Location = defaultLocation(store.Kind(c.Storage.Kind))
	}
	if c.Storage.Key == "" {
		c.Storage.Key = defaultHistoryKey
	}
}

func defaultLocation(kind store.Kind) string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	dir = filepath.Join(dir, "videopoker")
	if kind == store.KindSQLite {
		return filepath.Join(dir, "history.db")
	}
	return dir
}

// Validate checks everything that can be checked without building a
// session.
func (c *Config) Validate() error {
	var errs []error
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("invalid log_level %q", c.LogLevel))
	}
	switch store.Kind(c.Storage.Kind) {
	case store.KindFile, store.KindSQLite, store.KindMemory:
	default:
		errs = append(errs, fmt.Errorf("storage: unknown kind %q", c.Storage.Kind))
	}
	if _, err := c.DemoCadence(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	if _, err := c.GameConfig(); err != nil {
		return err
	}
	return nil
}

// GameConfig merges the file settings over game.DefaultConfig and
// validates the result.
func (c *Config) GameConfig() (game.Config, error) {
	cfg := game.DefaultConfig()

	g := c.Game
	setInt(&cfg.StartingCredits, g.StartingCredits)
	setInt(&cfg.MinBet, g.MinBet)
	setInt(&cfg.MaxBet, g.MaxBet)
	setInt(&cfg.InitialBet, g.InitialBet)
	setInt(&cfg.MaxGambleStreak, g.MaxGambleStreak)
	setInt(&cfg.MaxRestarts, g.MaxRestarts)

	for class, v := range c.PayTable.overrides() {
		if v != 0 {
			cfg.PayTable[class] = v
		}
	}

	var errs []error
	for _, d := range []struct {
		name string
		raw  string
		dst  *time.Duration
	}{
		{"auto_deal_delay", c.Timing.AutoDealDelay, &cfg.AutoDealDelay},
		{"reveal_delay", c.Timing.RevealDelay, &cfg.RevealDelay},
		{"max_streak_delay", c.Timing.MaxStreakDelay, &cfg.MaxStreakDelay},
	} {
		if d.raw == "" {
			continue
		}
		v, err := time.ParseDuration(d.raw)
		if err != nil {
			errs = append(errs, fmt.Errorf("timing: invalid %s: %w", d.name, err))
			continue
		}
		*d.dst = v
	}
	if len(errs) > 0 {
		return game.Config{}, errors.Join(errs...)
	}

	if err := cfg.Validate(); err != nil {
		return game.Config{}, fmt.Errorf("game: %w", err)
	}
	return cfg, nil
}

func setInt(dst *int, v int) {
	if v != 0 {
		*dst = v
	}
}

func (p *PayTableBlock) overrides() map[poker.Classification]int {
	return map[poker.Classification]int{
		poker.RoyalFlush:    p.RoyalFlush,
		poker.StraightFlush: p.StraightFlush,
		poker.FourOfAKind:   p.FourOfAKind,
		poker.FullHouse:     p.FullHouse,
		poker.Flush:         p.Flush,
		poker.Straight:      p.Straight,
		poker.ThreeOfAKind:  p.ThreeOfAKind,
		poker.TwoPair:       p.TwoPair,
		poker.JacksOrBetter: p.JacksOrBetter,
	}
}

// DemoCadence returns the pause between demo actions.
func (c *Config) DemoCadence() (time.Duration, error) {
	if c.Timing.DemoCadence == "" {
		return defaultDemoCadence, nil
	}
	d, err := time.ParseDuration(c.Timing.DemoCadence)
	if err != nil {
		return 0, fmt.Errorf("timing: invalid demo_cadence: %w", err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("timing: demo_cadence must be positive")
	}
	return d, nil
}

// Level returns the configured log level, defaulting to info.
func (c *Config) Level() log.Level {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return level
}

// OpenStore opens the configured history store.
func (c *Config) OpenStore() (store.Store, error) {
	return store.Open(store.Kind(c.Storage.Kind), c.Storage.Location)
}

// ApplyEnv overlays environment overrides. A history location ending in
// .db or .sqlite selects the SQLite store.
func (c *Config) ApplyEnv(env *Env) {
	if env == nil || env.HistoryPath == "" {
		return
	}
	c.Storage.Location = env.HistoryPath
	switch strings.ToLower(filepath.Ext(env.HistoryPath)) {
	case ".db", ".sqlite", ".sqlite3":
		c.Storage.Kind = string(store.KindSQLite)
	}
}
