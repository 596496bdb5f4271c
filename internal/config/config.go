// Package config provides unified configuration loading for heatwatch.
// It supports loading from YAML files and environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/nvandessel/heatwatch/internal/vitals"
)

// Config contains all heatwatch configuration settings.
type Config struct {
	// Simulation contains settings for the simulation loop.
	Simulation SimulationConfig `json:"simulation" yaml:"simulation"`

	// Oracle contains settings for the risk prediction service client.
	Oracle OracleConfig `json:"oracle" yaml:"oracle"`

	// Bounds is the physiological clamp table applied to every tick.
	Bounds vitals.Bounds `json:"bounds" yaml:"bounds"`

	// Server contains settings for the HTTP dashboard API.
	Server ServerConfig `json:"server" yaml:"server"`

	// Logging contains settings for operational and tick logging.
	Logging LoggingConfig `json:"logging" yaml:"logging"`
}

// SimulationConfig configures run cadence and failure budgets.
type SimulationConfig struct {
	// TickInterval is the delay between simulation ticks.
	TickInterval time.Duration `json:"tick_interval" yaml:"tick_interval"`

	// StepCeiling bounds a run's length regardless of convergence.
	StepCeiling int `json:"step_ceiling" yaml:"step_ceiling"`

	// MaxConsecutiveFailures stops a run after this many oracle failures
	// in a row.
	MaxConsecutiveFailures int `json:"max_consecutive_failures" yaml:"max_consecutive_failures"`

	// MaxTotalFailures stops a run after this many oracle failures overall.
	MaxTotalFailures int `json:"max_total_failures" yaml:"max_total_failures"`
}

// OracleConfig configures the risk prediction client.
type OracleConfig struct {
	// BaseURL is the prediction service endpoint, e.g. "http://localhost:8500".
	BaseURL string `json:"base_url" yaml:"base_url"`

	// Timeout bounds each prediction call.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string `json:"addr" yaml:"addr"`

	// DataDir is where the worker roster database and tick traces live.
	// Defaults to ~/.heatwatch.
	DataDir string `json:"data_dir" yaml:"data_dir"`
}

// LoggingConfig configures heatwatch's logging behavior.
type LoggingConfig struct {
	// Level sets the log verbosity: "info" (default), "debug", or "trace".
	// "debug" enables tick tracing to <data_dir>/ticks.jsonl.
	// "trace" additionally includes full oracle payload content.
	Level string `json:"level" yaml:"level"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Simulation: SimulationConfig{
			TickInterval:           500 * time.Millisecond,
			StepCeiling:            vitals.DefaultStepCeiling,
			MaxConsecutiveFailures: 3,
			MaxTotalFailures:       10,
		},
		Oracle: OracleConfig{
			BaseURL: "http://localhost:8500",
			Timeout: 30 * time.Second,
		},
		Bounds: vitals.DefaultBounds(),
		Server: ServerConfig{
			Addr:    ":8080",
			DataDir: defaultDataDir(),
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

func defaultDataDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".heatwatch"
	}
	return filepath.Join(homeDir, ".heatwatch")
}

// Load loads configuration from the default locations and environment variables.
// Order: defaults -> ~/.heatwatch/config.yaml -> environment variables
func Load() (*Config, error) {
	config := Default()

	// Try to load from default config file
	homeDir, err := os.UserHomeDir()
	if err == nil {
		configPath := filepath.Join(homeDir, ".heatwatch", "config.yaml")
		if _, statErr := os.Stat(configPath); statErr == nil {
			fileConfig, loadErr := LoadFromFile(configPath)
			if loadErr != nil {
				return nil, fmt.Errorf("loading config file: %w", loadErr)
			}
			config = fileConfig
		}
	}

	// Apply environment variable overrides
	applyEnvOverrides(config)

	return config, nil
}

// LoadFromFile loads configuration from a specific YAML file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	return config, nil
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.Simulation.TickInterval < 0 {
		return fmt.Errorf("tick_interval must be non-negative, got %v", c.Simulation.TickInterval)
	}

	if c.Simulation.StepCeiling < 0 {
		return fmt.Errorf("step_ceiling must be non-negative, got %d", c.Simulation.StepCeiling)
	}

	if c.Simulation.MaxConsecutiveFailures < 0 {
		return fmt.Errorf("max_consecutive_failures must be non-negative, got %d", c.Simulation.MaxConsecutiveFailures)
	}

	if c.Simulation.MaxTotalFailures < 0 {
		return fmt.Errorf("max_total_failures must be non-negative, got %d", c.Simulation.MaxTotalFailures)
	}

	if c.Oracle.Timeout < 0 {
		return fmt.Errorf("oracle timeout must be non-negative, got %v", c.Oracle.Timeout)
	}

	if err := c.Bounds.Validate(); err != nil {
		return fmt.Errorf("invalid bounds: %w", err)
	}

	validLevels := map[string]bool{"info": true, "debug": true, "trace": true}
	if c.Logging.Level != "" && !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s (valid: info, debug, trace, or empty for default)", c.Logging.Level)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to the config.
func applyEnvOverrides(config *Config) {
	if v := os.Getenv("HEATWATCH_ORACLE_URL"); v != "" {
		config.Oracle.BaseURL = v
	}

	if v := os.Getenv("HEATWATCH_ORACLE_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			config.Oracle.Timeout = d
		}
	}

	if v := os.Getenv("HEATWATCH_TICK_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			config.Simulation.TickInterval = d
		}
	}

	if v := os.Getenv("HEATWATCH_STEP_CEILING"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.Simulation.StepCeiling = n
		}
	}

	if v := os.Getenv("HEATWATCH_LISTEN_ADDR"); v != "" {
		config.Server.Addr = v
	}

	if v := os.Getenv("HEATWATCH_DATA_DIR"); v != "" {
		config.Server.DataDir = v
	}

	if v := os.Getenv("HEATWATCH_LOG_LEVEL"); v != "" {
		config.Logging.Level = v
	}
}
