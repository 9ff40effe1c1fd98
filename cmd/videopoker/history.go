package main

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/lox/videopoker/internal/fileutil"
	"github.com/lox/videopoker/internal/game"
	"github.com/lox/videopoker/internal/history"
)

// HistoryCmd is the root command for history utilities.
type HistoryCmd struct {
	List   HistoryListCmd   `cmd:"" help:"List recent gambles"`
	Export HistoryExportCmd `cmd:"" help:"Export the full history"`
}

// HistoryListCmd prints recent records, newest first.
type HistoryListCmd struct {
	Limit int `short:"n" default:"20" help:"Maximum records to show (0 = all)"`
}

func (c *HistoryListCmd) Run(g *Globals) error {
	records, err := g.loadHistory()
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println("No gambles recorded")
		return nil
	}
	limit := c.Limit
	if limit <= 0 || limit > len(records) {
		limit = len(records)
	}
	for _, r := range records[:limit] {
		fmt.Println(history.Summary(r))
	}
	return nil
}

// HistoryExportCmd writes the history as JSON or TOML.
type HistoryExportCmd struct {
	Format string `short:"f" enum:"json,toml" default:"json" help:"Output format (json, toml)"`
	Output string `short:"o" help:"Write to this file instead of stdout" type:"path"`
}

func (c *HistoryExportCmd) Run(g *Globals) error {
	records, err := g.loadHistory()
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	switch c.Format {
	case "toml":
		err = history.ExportTOML(&buf, records)
	default:
		err = history.ExportJSON(&buf, records)
	}
	if err != nil {
		return fmt.Errorf("export %s: %w", c.Format, err)
	}

	if c.Output == "" {
		_, err = os.Stdout.Write(buf.Bytes())
		return err
	}
	return fileutil.WriteFileAtomic(c.Output, buf.Bytes(), 0o644)
}

func (g *Globals) loadHistory() ([]game.Record, error) {
	cfg, _, err := g.loadConfig()
	if err != nil {
		return nil, err
	}
	logger := g.newLogger(cfg, os.Stderr)

	st, err := cfg.OpenStore()
	if err != nil {
		return nil, fmt.Errorf("open history store: %w", err)
	}
	defer st.Close()
	return history.Load(context.Background(), st, cfg.Storage.Key, logger), nil
}
