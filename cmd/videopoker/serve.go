package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/lox/videopoker/internal/demo"
	"github.com/lox/videopoker/internal/server"
)

// ServeCmd exposes the machine over HTTP.
type ServeCmd struct {
	Addr string `default:":8080" help:"Listen address"`
	Demo bool   `help:"Run attract mode until the first request"`
}

func (c *ServeCmd) Run(g *Globals) error {
	ctx, cancel := signalContext()
	defer cancel()

	m, err := g.openMachine(ctx, os.Stderr)
	if err != nil {
		return err
	}
	defer m.Close()

	opts := server.Options{Logger: m.logger}
	if c.Demo {
		cadence, err := m.cfg.DemoCadence()
		if err != nil {
			return err
		}
		driver := demo.NewDriver(m.session, demo.Options{Cadence: cadence, Logger: m.logger})
		defer driver.Stop()
		if err := driver.Start(); err != nil {
			return err
		}
		opts.Demo = driver
	}

	srv := server.NewServer(m.session, opts)
	defer srv.Close()
	httpServer := &http.Server{
		Addr:              c.Addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		m.logger.Info("Starting video poker server", "addr", c.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	eg.Go(func() error {
		<-ctx.Done()
		m.logger.Info("Shutting down server...")
		srv.Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})
	return eg.Wait()
}
