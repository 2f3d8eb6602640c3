package journal

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/segmentio/kafka-go"
)

// KafkaConfig holds the broker settings. Brokers is comma separated.
type KafkaConfig struct {
	Brokers string `envconfig:"BROKERS" default:"localhost:9092"`
	Topic   string `envconfig:"TOPIC" default:"wrongcalc.calculations"`
}

func (c KafkaConfig) brokers() []string {
	parts := strings.Split(c.Brokers, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Kafka publishes records as JSON messages keyed by session id, so a
// session's calculations stay ordered within one partition.
type Kafka struct {
	w messageWriter
}

// NewKafka returns a journal writing to cfg.Topic. The connection is made
// lazily on the first write.
func NewKafka(cfg KafkaConfig) *Kafka {
	return &Kafka{w: &kafka.Writer{
		Addr:     kafka.TCP(cfg.brokers()...),
		Topic:    cfg.Topic,
		Balancer: &kafka.Hash{},
	}}
}

func (k *Kafka) Write(ctx context.Context, records ...Record) error {
	if len(records) == 0 {
		return nil
	}

	msgs := make([]kafka.Message, 0, len(records))
	for _, r := range records {
		value, err := json.Marshal(r)
		if err != nil {
			return fmt.Errorf("encode record: %w", err)
		}
		msgs = append(msgs, kafka.Message{
			Key:   []byte(r.SessionID),
			Value: value,
			Time:  r.Time,
		})
	}

	if err := k.w.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("publish %d records: %w", len(msgs), err)
	}
	return nil
}

func (k *Kafka) Close() error {
	return k.w.Close()
}
