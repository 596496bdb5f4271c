package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nvandessel/heatwatch/internal/logging"
	"github.com/nvandessel/heatwatch/internal/oracle"
	"github.com/nvandessel/heatwatch/internal/roster"
	"github.com/nvandessel/heatwatch/internal/server"
	"github.com/nvandessel/heatwatch/internal/sim"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the dashboard API server",
		Long: `Starts the HTTP API that backs the dashboard: worker roster CRUD,
simulation control, and a live event stream of tick updates.

The server runs until interrupted; an active simulation is stopped
cleanly on shutdown.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			addr, _ := cmd.Flags().GetString("addr")
			if addr == "" {
				addr = cfg.Server.Addr
			}

			logger := logging.NewLogger(cfg.Logging.Level, os.Stderr)

			store, err := roster.NewStore(cfg.Server.DataDir)
			if err != nil {
				return fmt.Errorf("opening roster: %w", err)
			}
			defer store.Close()

			gen := roster.NewGenerator(cfg.Bounds)
			oc := oracle.NewHTTPClient(oracle.ClientConfig{
				BaseURL: cfg.Oracle.BaseURL,
				Timeout: cfg.Oracle.Timeout,
			})
			if !oc.Available() {
				logger.Warn("no oracle endpoint configured; simulations will stop on their failure budget")
			}

			ctrl := sim.NewController(sim.Config{
				TickInterval:           cfg.Simulation.TickInterval,
				StepCeiling:            cfg.Simulation.StepCeiling,
				MaxConsecutiveFailures: cfg.Simulation.MaxConsecutiveFailures,
				MaxTotalFailures:       cfg.Simulation.MaxTotalFailures,
				Bounds:                 cfg.Bounds,
			}, store, gen, oc, logger)

			ticks := logging.NewTickLogger(cfg.Server.DataDir, cfg.Logging.Level)
			defer ticks.Close()
			ctrl.SetTickLogger(ticks)

			srv := server.New(store, gen, ctrl, logger)

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			sigCh := make(chan os.Signal, 1)
			notifySignals(sigCh)
			go func() {
				<-sigCh
				logger.Info("shutting down")
				cancel()
			}()

			return srv.ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().String("addr", "", "Listen address (overrides config)")
	return cmd
}
