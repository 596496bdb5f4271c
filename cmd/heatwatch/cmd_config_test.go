package main

import (
	"testing"
	"time"

	"github.com/nvandessel/heatwatch/internal/config"
)

func TestGetConfigValue(t *testing.T) {
	cfg := config.Default()

	tests := []struct {
		key       string
		want      interface{}
		wantFound bool
	}{
		{"simulation.tick_interval", "500ms", true},
		{"simulation.step_ceiling", 120, true},
		{"simulation.max_consecutive_failures", 3, true},
		{"simulation.max_total_failures", 10, true},
		{"oracle.base_url", "http://localhost:8500", true},
		{"oracle.timeout", "30s", true},
		{"server.addr", ":8080", true},
		{"logging.level", "info", true},
		{"nonexistent.key", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, found := getConfigValue(cfg, tt.key)
			if found != tt.wantFound {
				t.Fatalf("found = %v, want %v", found, tt.wantFound)
			}
			if found && got != tt.want {
				t.Errorf("value = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSetConfigValue(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		wantErr bool
		check   func(*config.Config) bool
	}{
		{
			name:  "tick interval",
			key:   "simulation.tick_interval",
			value: "1s",
			check: func(c *config.Config) bool { return c.Simulation.TickInterval == time.Second },
		},
		{
			name:  "step ceiling",
			key:   "simulation.step_ceiling",
			value: "200",
			check: func(c *config.Config) bool { return c.Simulation.StepCeiling == 200 },
		},
		{
			name:  "oracle url",
			key:   "oracle.base_url",
			value: "http://oracle:9000",
			check: func(c *config.Config) bool { return c.Oracle.BaseURL == "http://oracle:9000" },
		},
		{
			name:  "log level",
			key:   "logging.level",
			value: "debug",
			check: func(c *config.Config) bool { return c.Logging.Level == "debug" },
		},
		{
			name:    "invalid duration",
			key:     "simulation.tick_interval",
			value:   "fast",
			wantErr: true,
		},
		{
			name:    "negative ceiling",
			key:     "simulation.step_ceiling",
			value:   "-1",
			wantErr: true,
		},
		{
			name:    "invalid log level",
			key:     "logging.level",
			value:   "verbose",
			wantErr: true,
		},
		{
			name:    "unknown key",
			key:     "nonexistent.key",
			value:   "x",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			err := setConfigValue(cfg, tt.key, tt.value)
			if (err != nil) != tt.wantErr {
				t.Fatalf("setConfigValue error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && tt.check != nil && !tt.check(cfg) {
				t.Errorf("value not applied for key %s", tt.key)
			}
		})
	}
}
