// Package config loads the service configuration from the environment.
package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"

	"wrong-calculator/internal/journal"
	"wrong-calculator/internal/session"
)

// Prefix is prepended to every variable name, e.g. WRONGCALC_HTTP_ADDR.
const Prefix = "WRONGCALC"

// Telemetry toggles the OTLP exporters. Prometheus /metrics is always served.
type Telemetry struct {
	Traces  bool `envconfig:"TRACES" default:"false"`
	Metrics bool `envconfig:"METRICS" default:"false"`
	Logs    bool `envconfig:"LOGS" default:"false"`
}

type Config struct {
	HTTPAddr string `envconfig:"HTTP_ADDR" default:":8080"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	// Seed makes corruptions reproducible. 0 seeds every draw from the clock.
	Seed uint64 `envconfig:"SEED" default:"0"`

	Session   session.Config `envconfig:"SESSION"`
	Journal   journal.Config `envconfig:"JOURNAL"`
	Telemetry Telemetry      `envconfig:"OTEL"`
}

// Load reads the configuration from the process environment.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}
