package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("loading config: %v", err)
	}

	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("expected addr %q, got %q", ":8080", cfg.HTTPAddr)
	}
	if cfg.Session.Store != "memory" || cfg.Session.TTL != 30*time.Minute {
		t.Fatalf("unexpected session defaults: %+v", cfg.Session)
	}
	if cfg.Journal.Sink != "log" {
		t.Fatalf("expected journal sink %q, got %q", "log", cfg.Journal.Sink)
	}
	if cfg.Telemetry.Traces || cfg.Telemetry.Metrics || cfg.Telemetry.Logs {
		t.Fatalf("expected OTLP exporters off by default, got %+v", cfg.Telemetry)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("WRONGCALC_HTTP_ADDR", ":9999")
	t.Setenv("WRONGCALC_SEED", "42")
	t.Setenv("WRONGCALC_SESSION_STORE", "redis")
	t.Setenv("WRONGCALC_SESSION_TTL", "5m")
	t.Setenv("WRONGCALC_SESSION_REDIS_HOST", "cache")
	t.Setenv("WRONGCALC_JOURNAL_SINK", "kafka")
	t.Setenv("WRONGCALC_JOURNAL_KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("WRONGCALC_OTEL_TRACES", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("loading config: %v", err)
	}

	if cfg.HTTPAddr != ":9999" || cfg.Seed != 42 {
		t.Fatalf("unexpected top-level values: %+v", cfg)
	}
	if cfg.Session.Store != "redis" || cfg.Session.TTL != 5*time.Minute || cfg.Session.Redis.Host != "cache" {
		t.Fatalf("unexpected session config: %+v", cfg.Session)
	}
	if cfg.Session.Redis.Port != "6379" {
		t.Fatalf("expected default redis port, got %q", cfg.Session.Redis.Port)
	}
	if cfg.Journal.Sink != "kafka" || cfg.Journal.Kafka.Brokers != "k1:9092,k2:9092" {
		t.Fatalf("unexpected journal config: %+v", cfg.Journal)
	}
	if !cfg.Telemetry.Traces {
		t.Fatal("expected traces enabled")
	}
}

func TestLoadRejectsMalformedValue(t *testing.T) {
	t.Setenv("WRONGCALC_SESSION_TTL", "soon")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for malformed duration")
	}
}
