package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/nvandessel/heatwatch/internal/config"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage heatwatch configuration",
		Long: `View and modify heatwatch configuration settings.

Configuration is stored in ~/.heatwatch/config.yaml.

Examples:
  heatwatch config list                              # Show all settings
  heatwatch config get oracle.base_url               # Get a specific setting
  heatwatch config set simulation.tick_interval 1s   # Set a setting`,
	}

	cmd.AddCommand(
		newConfigListCmd(),
		newConfigGetCmd(),
		newConfigSetCmd(),
	)

	return cmd
}

func newConfigListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all configuration settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			if jsonOut {
				return json.NewEncoder(os.Stdout).Encode(cfg)
			}

			fmt.Println("Configuration (~/.heatwatch/config.yaml):")
			fmt.Println()
			fmt.Println("Simulation Settings:")
			fmt.Printf("  simulation.tick_interval:             %v\n", cfg.Simulation.TickInterval)
			fmt.Printf("  simulation.step_ceiling:              %d\n", cfg.Simulation.StepCeiling)
			fmt.Printf("  simulation.max_consecutive_failures:  %d\n", cfg.Simulation.MaxConsecutiveFailures)
			fmt.Printf("  simulation.max_total_failures:        %d\n", cfg.Simulation.MaxTotalFailures)
			fmt.Println()
			fmt.Println("Oracle Settings:")
			fmt.Printf("  oracle.base_url:  %s\n", valueOrDefault(cfg.Oracle.BaseURL, "(not set)"))
			fmt.Printf("  oracle.timeout:   %v\n", cfg.Oracle.Timeout)
			fmt.Println()
			fmt.Println("Server Settings:")
			fmt.Printf("  server.addr:      %s\n", cfg.Server.Addr)
			fmt.Printf("  server.data_dir:  %s\n", cfg.Server.DataDir)
			fmt.Println()
			fmt.Println("Logging Settings:")
			fmt.Printf("  logging.level:  %s\n", valueOrDefault(cfg.Logging.Level, "info"))

			return nil
		},
	}
}

func newConfigGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Get a configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")
			key := args[0]

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			value, found := getConfigValue(cfg, key)
			if !found {
				if jsonOut {
					json.NewEncoder(os.Stdout).Encode(map[string]interface{}{
						"error": "key not found",
						"key":   key,
					})
				} else {
					fmt.Printf("Unknown configuration key: %s\n", key)
				}
				return nil
			}

			if jsonOut {
				json.NewEncoder(os.Stdout).Encode(map[string]interface{}{
					"key":   key,
					"value": value,
				})
			} else {
				fmt.Printf("%s = %v\n", key, value)
			}

			return nil
		},
	}
}

func newConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")
			key := args[0]
			value := args[1]

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			if err := setConfigValue(cfg, key, value); err != nil {
				if jsonOut {
					json.NewEncoder(os.Stdout).Encode(map[string]interface{}{
						"error": err.Error(),
						"key":   key,
					})
				} else {
					fmt.Printf("Error: %v\n", err)
				}
				return nil
			}

			// Save the config
			if err := saveConfig(cfg); err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}

			if jsonOut {
				json.NewEncoder(os.Stdout).Encode(map[string]interface{}{
					"status": "updated",
					"key":    key,
					"value":  value,
				})
			} else {
				fmt.Printf("Set %s = %s\n", key, value)
			}

			return nil
		},
	}
}

// getConfigValue retrieves a configuration value by dot-notation key.
func getConfigValue(cfg *config.Config, key string) (interface{}, bool) {
	switch key {
	case "simulation.tick_interval":
		return cfg.Simulation.TickInterval.String(), true
	case "simulation.step_ceiling":
		return cfg.Simulation.StepCeiling, true
	case "simulation.max_consecutive_failures":
		return cfg.Simulation.MaxConsecutiveFailures, true
	case "simulation.max_total_failures":
		return cfg.Simulation.MaxTotalFailures, true
	case "oracle.base_url":
		return cfg.Oracle.BaseURL, true
	case "oracle.timeout":
		return cfg.Oracle.Timeout.String(), true
	case "server.addr":
		return cfg.Server.Addr, true
	case "server.data_dir":
		return cfg.Server.DataDir, true
	case "logging.level":
		return cfg.Logging.Level, true
	default:
		return nil, false
	}
}

// setConfigValue sets a configuration value by dot-notation key.
func setConfigValue(cfg *config.Config, key, value string) error {
	switch key {
	case "simulation.tick_interval":
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration: %s", value)
		}
		cfg.Simulation.TickInterval = d
	case "simulation.step_ceiling":
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("invalid step ceiling: %s (must be a non-negative integer)", value)
		}
		cfg.Simulation.StepCeiling = n
	case "simulation.max_consecutive_failures":
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("invalid budget: %s (must be a non-negative integer)", value)
		}
		cfg.Simulation.MaxConsecutiveFailures = n
	case "simulation.max_total_failures":
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("invalid budget: %s (must be a non-negative integer)", value)
		}
		cfg.Simulation.MaxTotalFailures = n
	case "oracle.base_url":
		cfg.Oracle.BaseURL = value
	case "oracle.timeout":
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration: %s", value)
		}
		cfg.Oracle.Timeout = d
	case "server.addr":
		cfg.Server.Addr = value
	case "server.data_dir":
		cfg.Server.DataDir = value
	case "logging.level":
		validLevels := map[string]bool{"info": true, "debug": true, "trace": true}
		if !validLevels[value] {
			return fmt.Errorf("invalid log level: %s (valid: info, debug, trace)", value)
		}
		cfg.Logging.Level = value
	default:
		return fmt.Errorf("unknown configuration key: %s", key)
	}
	return nil
}

// saveConfig writes the configuration to ~/.heatwatch/config.yaml.
func saveConfig(cfg *config.Config) error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}

	heatwatchDir := filepath.Join(homeDir, ".heatwatch")
	if err := os.MkdirAll(heatwatchDir, 0700); err != nil {
		return fmt.Errorf("failed to create .heatwatch directory: %w", err)
	}

	configPath := filepath.Join(heatwatchDir, "config.yaml")
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// valueOrDefault returns the value if non-empty, otherwise the default.
func valueOrDefault(value, defaultValue string) string {
	if value == "" {
		return defaultValue
	}
	return value
}
