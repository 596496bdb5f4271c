package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nvandessel/heatwatch/internal/config"
	"github.com/nvandessel/heatwatch/internal/models"
	"github.com/nvandessel/heatwatch/internal/roster"
)

func newWorkersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "workers",
		Short: "Manage the worker roster",
		Long: `List, generate, inspect, and remove workers from the roster.

Examples:
  heatwatch workers list
  heatwatch workers generate --count 5 --tier high
  heatwatch workers show ana
  heatwatch workers remove ana`,
	}

	cmd.AddCommand(
		newWorkersListCmd(),
		newWorkersGenerateCmd(),
		newWorkersShowCmd(),
		newWorkersRemoveCmd(),
	)

	return cmd
}

// openRoster opens the roster store from the configured data directory.
func openRoster(cmd *cobra.Command) (*roster.Store, *config.Config, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	store, err := roster.NewStore(cfg.Server.DataDir)
	if err != nil {
		return nil, nil, fmt.Errorf("opening roster: %w", err)
	}
	return store, cfg, nil
}

func newWorkersListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all workers",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, _, err := openRoster(cmd)
			if err != nil {
				return err
			}
			defer store.Close()

			workers, err := store.List(cmd.Context())
			if err != nil {
				return fmt.Errorf("listing workers: %w", err)
			}

			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				return json.NewEncoder(os.Stdout).Encode(workers)
			}

			if len(workers) == 0 {
				fmt.Println("No workers in the roster. Run 'heatwatch workers generate' to create some.")
				return nil
			}

			fmt.Printf("%-36s  %-16s  %-9s  %7s  %7s  %s\n", "ID", "NAME", "TIER", "TEMP", "HR", "RISK")
			for _, w := range workers {
				risk := "-"
				if w.Risk != nil {
					risk = fmt.Sprintf("%s (%.1f%%)", w.Risk.PredictedClass, w.Risk.RiskScore*100)
				}
				fmt.Printf("%-36s  %-16s  %-9s  %6.1f°  %7.1f  %s\n",
					w.ID, w.Name, w.RiskTier, w.Vitals.Temperature, w.Vitals.HeartRate, risk)
			}
			return nil
		},
	}
}

func newWorkersGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate workers with tier-appropriate baseline vitals",
		RunE: func(cmd *cobra.Command, args []string) error {
			count, _ := cmd.Flags().GetInt("count")
			tier, _ := cmd.Flags().GetString("tier")
			name, _ := cmd.Flags().GetString("name")

			if count < 1 {
				return fmt.Errorf("count must be at least 1")
			}
			if name != "" && count > 1 {
				return fmt.Errorf("--name can only be used with --count 1")
			}

			store, cfg, err := openRoster(cmd)
			if err != nil {
				return err
			}
			defer store.Close()

			gen := roster.NewGenerator(cfg.Bounds)
			created := make([]models.Worker, 0, count)
			for i := 0; i < count; i++ {
				w := gen.NewWorker(name, tier)
				if err := store.Add(cmd.Context(), w); err != nil {
					return fmt.Errorf("adding worker: %w", err)
				}
				created = append(created, w)
			}

			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				return json.NewEncoder(os.Stdout).Encode(created)
			}
			for _, w := range created {
				fmt.Printf("Created %s (%s, tier %s)\n", w.Name, w.ID, w.RiskTier)
			}
			return nil
		},
	}

	cmd.Flags().Int("count", 1, "Number of workers to generate")
	cmd.Flags().String("tier", roster.TierModerate, "Risk tier: low, moderate, or high")
	cmd.Flags().String("name", "", "Name for the generated worker (single worker only)")
	return cmd
}

func newWorkersShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id-or-name>",
		Short: "Show a worker's full state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, _, err := openRoster(cmd)
			if err != nil {
				return err
			}
			defer store.Close()

			w, err := store.FindByIdentity(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("resolving worker: %w", err)
			}
			if w == nil {
				return fmt.Errorf("worker %q not found", args[0])
			}

			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				return json.NewEncoder(os.Stdout).Encode(w)
			}

			fmt.Printf("Worker: %s (%s)\n", w.Name, w.ID)
			fmt.Printf("  Tier:        %s\n", w.RiskTier)
			fmt.Printf("  Demographics: age %d, %s, %.1f kg, %.1f cm\n", w.Age, w.Gender, w.WeightKG, w.HeightCM)
			fmt.Println("  Vitals:")
			fmt.Printf("    temperature: %.1f °C\n", w.Vitals.Temperature)
			fmt.Printf("    humidity:    %.1f %%\n", w.Vitals.Humidity)
			fmt.Printf("    heart rate:  %.1f bpm (%.1f-%.1f, std %.1f)\n",
				w.Vitals.HeartRate, w.Vitals.MinHeartRate, w.Vitals.MaxHeartRate, w.Vitals.StdHeartRate)
			fmt.Printf("    rmssd: %.1f  sdnn: %.1f  pnn50: %.1f\n", w.Vitals.RMSSD, w.Vitals.SDNN, w.Vitals.PNN50)
			fmt.Printf("    nni: mean %.0f  median %.0f  range %.0f  cv %.3f\n",
				w.Vitals.MeanNNI, w.Vitals.MedianNNI, w.Vitals.RangeNNI, w.Vitals.CVNNI)
			fmt.Printf("    power: total %.0f  lf %.0f  hf %.0f  lf/hf %.2f\n",
				w.Vitals.TotalPower, w.Vitals.LF, w.Vitals.HF, w.Vitals.LFHFRatio)
			if w.Risk != nil {
				fmt.Printf("  Risk: %s (score %.4f, confidence %.3f)\n",
					w.Risk.PredictedClass, w.Risk.RiskScore, w.Risk.Confidence)
			} else {
				fmt.Println("  Risk: (no prediction yet)")
			}
			return nil
		},
	}
}

func newWorkersRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id-or-name>",
		Short: "Remove a worker from the roster",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, _, err := openRoster(cmd)
			if err != nil {
				return err
			}
			defer store.Close()

			w, err := store.FindByIdentity(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("resolving worker: %w", err)
			}
			if w == nil {
				return fmt.Errorf("worker %q not found", args[0])
			}

			if err := store.Delete(cmd.Context(), w.ID); err != nil {
				return fmt.Errorf("removing worker: %w", err)
			}

			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				return json.NewEncoder(os.Stdout).Encode(map[string]string{"removed": w.ID})
			}
			fmt.Printf("Removed %s (%s)\n", w.Name, w.ID)
			return nil
		},
	}
}
