package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nvandessel/heatwatch/internal/logging"
	"github.com/nvandessel/heatwatch/internal/oracle"
	"github.com/nvandessel/heatwatch/internal/roster"
	"github.com/nvandessel/heatwatch/internal/sim"
	"github.com/nvandessel/heatwatch/internal/vitals"
)

func newSimulateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate <id-or-name>",
		Short: "Run a headless simulation for one worker",
		Long: `Drives a heat-up or cool-down simulation for a single worker without
the HTTP server, printing progress per tick until the run terminates.

With --offline, a built-in mock oracle is used instead of the configured
prediction service, which is handy for demos and smoke tests.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			modeStr, _ := cmd.Flags().GetString("mode")
			mode, err := vitals.ParseMode(modeStr)
			if err != nil {
				return err
			}

			store, err := roster.NewStore(cfg.Server.DataDir)
			if err != nil {
				return fmt.Errorf("opening roster: %w", err)
			}
			defer store.Close()

			logger := logging.NewLogger(cfg.Logging.Level, os.Stderr)
			gen := roster.NewGenerator(cfg.Bounds)

			var oc oracle.Client
			if offline, _ := cmd.Flags().GetBool("offline"); offline {
				oc = oracle.NewMockClient()
			} else {
				oc = oracle.NewHTTPClient(oracle.ClientConfig{
					BaseURL: cfg.Oracle.BaseURL,
					Timeout: cfg.Oracle.Timeout,
				})
			}

			ctrl := sim.NewController(sim.Config{
				TickInterval:           cfg.Simulation.TickInterval,
				StepCeiling:            cfg.Simulation.StepCeiling,
				MaxConsecutiveFailures: cfg.Simulation.MaxConsecutiveFailures,
				MaxTotalFailures:       cfg.Simulation.MaxTotalFailures,
				Bounds:                 cfg.Bounds,
			}, store, gen, oc, logger)

			jsonOut, _ := cmd.Flags().GetBool("json")
			done := make(chan sim.Terminal, 1)

			ctrl.OnUpdate(func(u sim.Update) {
				if jsonOut {
					json.NewEncoder(os.Stdout).Encode(u)
					return
				}
				risk := "-"
				if u.State.Risk != nil {
					risk = fmt.Sprintf("%s %.4f", u.State.Risk.PredictedClass, u.State.Risk.RiskScore)
				}
				fmt.Printf("tick %3d  %5.1f%%  temp %.1f°C  hum %.1f%%  hr %.1f  risk %s\n",
					u.Step, u.Progress, u.State.Vitals.Temperature, u.State.Vitals.Humidity,
					u.State.Vitals.HeartRate, risk)
			})
			ctrl.OnTerminal(func(t sim.Terminal) {
				done <- t
			})

			if err := ctrl.Start(cmd.Context(), args[0], mode); err != nil {
				return err
			}

			sigCh := make(chan os.Signal, 1)
			notifySignals(sigCh)

			var term sim.Terminal
			select {
			case term = <-done:
			case <-sigCh:
				ctrl.Stop(sim.ReasonStopped)
				term = <-done
			}

			if jsonOut {
				return json.NewEncoder(os.Stdout).Encode(term)
			}
			fmt.Printf("Run ended after %d steps: %s\n", term.Step, term.Message)
			return nil
		},
	}

	cmd.Flags().String("mode", string(vitals.ModeHeatUp), "Simulation mode: heat-up or cool-down")
	cmd.Flags().Bool("offline", false, "Use the built-in mock oracle instead of the prediction service")
	return cmd
}
