package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/lox/videopoker/internal/demo"
	"github.com/lox/videopoker/internal/tui"
)

// PlayCmd runs the terminal front-end.
type PlayCmd struct {
	NoDemo  bool   `name:"no-demo" help:"Do not start attract mode"`
	LogFile string `default:"videopoker.log" help:"Where to write logs while the terminal is in use" type:"path"`
}

func (c *PlayCmd) Run(g *Globals) error {
	logFile, err := os.OpenFile(c.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer logFile.Close()

	ctx, cancel := signalContext()
	defer cancel()

	m, err := g.openMachine(ctx, logFile)
	if err != nil {
		return err
	}
	defer m.Close()

	opts := tui.Options{Logger: m.logger}
	if !c.NoDemo {
		cadence, err := m.cfg.DemoCadence()
		if err != nil {
			return err
		}
		driver := demo.NewDriver(m.session, demo.Options{Cadence: cadence, Logger: m.logger})
		defer driver.Stop()
		switch err := driver.Start(); {
		case err == nil:
			opts.Demo = driver
		case errors.Is(err, demo.ErrWagerBegun):
			m.logger.Debug("Skipping demo", "error", err)
		default:
			return err
		}
	}

	m.logger.Info("Starting terminal session")
	return tui.Run(ctx, m.session, opts)
}
