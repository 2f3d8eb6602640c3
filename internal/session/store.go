// Package session keeps calculator states between HTTP requests.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"wrong-calculator/internal/core"
)

// ErrNotFound is returned for unknown or expired session ids.
var ErrNotFound = errors.New("session not found")

// UpdateFunc computes the next state of a session. It may be called more
// than once per Update when a store retries after a conflicting write, so
// it must not have side effects that survive a retry.
type UpdateFunc func(core.State) core.State

// Store holds one calculator state per session id. Updates to the same
// session are applied one at a time.
type Store interface {
	Create(ctx context.Context) (string, core.State, error)
	Get(ctx context.Context, id string) (core.State, error)
	Update(ctx context.Context, id string, fn UpdateFunc) (core.State, error)
	Delete(ctx context.Context, id string) error
	Len(ctx context.Context) (int, error)
}

func newID() string {
	return uuid.New().String()
}

// Config selects and tunes the session store.
type Config struct {
	Store string        `envconfig:"STORE" default:"memory"`
	TTL   time.Duration `envconfig:"TTL" default:"30m"`
	Redis RedisConfig   `envconfig:"REDIS"`
}

// Open builds the store named by cfg.Store. The returned close function
// releases any connection the store holds.
func Open(ctx context.Context, cfg Config, logger *zap.Logger) (Store, func() error, error) {
	switch cfg.Store {
	case "", "memory":
		return NewMemoryStore(cfg.TTL), func() error { return nil }, nil
	case "redis":
		cli, err := NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		return NewRedisStore(cli, cfg.TTL, logger), cli.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown session store %q", cfg.Store)
	}
}
