// Package journal records every completed calculation together with the
// answer the calculator actually showed.
package journal

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"wrong-calculator/internal/core"
)

// Record is one completed operation.
type Record struct {
	SessionID string    `json:"session_id,omitempty"`
	Operation string    `json:"operation"`
	Left      float64   `json:"left"`
	Right     float64   `json:"right"`
	True      float64   `json:"true_result"`
	Shown     float64   `json:"shown_result"`
	Strategy  string    `json:"strategy"`
	Precision int       `json:"precision"`
	Time      time.Time `json:"time"`
}

// NewRecord describes fold f performed in the given session.
func NewRecord(sessionID string, f core.Fold, at time.Time) Record {
	return Record{
		SessionID: sessionID,
		Operation: f.Operator.String(),
		Left:      f.Left,
		Right:     f.Right,
		True:      f.True,
		Shown:     f.Value,
		Strategy:  f.Strategy.String(),
		Precision: f.Precision,
		Time:      at.UTC(),
	}
}

// Journal is a sink for records.
type Journal interface {
	Write(ctx context.Context, records ...Record) error
	Close() error
}

// Nop discards every record.
type Nop struct{}

func (Nop) Write(context.Context, ...Record) error { return nil }
func (Nop) Close() error { return nil }

// Logger writes every record as a structured log line.
type Logger struct {
	log *zap.Logger
}

func NewLogger(log *zap.Logger) *Logger {
	return &Logger{log: log}
}

func (l *Logger) Write(_ context.Context, records ...Record) error {
	for _, r := range records {
		l.log.Info("calculation journaled",
			zap.String("session_id", r.SessionID),
			zap.String("operation", r.Operation),
			zap.Float64("left", r.Left),
			zap.Float64("right", r.Right),
			zap.Float64("true_result", r.True),
			zap.Float64("shown_result", r.Shown),
			zap.String("strategy", r.Strategy),
			zap.Int("precision", r.Precision),
		)
	}
	return nil
}

func (l *Logger) Close() error {
	return nil
}

// Config selects the journal sink: "none", "log" or "kafka".
type Config struct {
	Sink  string      `envconfig:"SINK" default:"log"`
	Kafka KafkaConfig `envconfig:"KAFKA"`
}

// New builds the journal named by cfg.Sink.
func New(cfg Config, log *zap.Logger) (Journal, error) {
	switch cfg.Sink {
	case "", "none":
		return Nop{}, nil
	case "log":
		return NewLogger(log), nil
	case "kafka":
		return NewKafka(cfg.Kafka), nil
	default:
		return nil, fmt.Errorf("unknown journal sink %q", cfg.Sink)
	}
}
