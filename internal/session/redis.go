package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"wrong-calculator/internal/core"
)

var _ Store = (*RedisStore)(nil)

const (
	keyPrefix = "wrongcalc:session:"
	// maxUpdateAttempts bounds optimistic retries when two requests race on
	// the same session.
	maxUpdateAttempts = 8
)

// RedisConfig holds the Redis connection settings.
type RedisConfig struct {
	Host     string `envconfig:"HOST" default:"localhost"`
	Port     string `envconfig:"PORT" default:"6379"`
	Password string `envconfig:"PASSWORD" default:""`
	DB       int    `envconfig:"DB" default:"0"`
}

// Addr returns "host:port".
func (c RedisConfig) Addr() string {
	return c.Host + ":" + c.Port
}

// NewRedisClient connects to Redis and checks the connection with a ping.
func NewRedisClient(ctx context.Context, cfg RedisConfig) (*redis.Client, error) {
	cli := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := cli.Ping(ctx).Err(); err != nil {
		_ = cli.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return cli, nil
}

// RedisStore keeps each session as a JSON document with a sliding TTL.
type RedisStore struct {
	cli    redis.UniversalClient
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisStore returns a store backed by cli. A ttl <= 0 keeps sessions
// forever.
func NewRedisStore(cli redis.UniversalClient, ttl time.Duration, logger *zap.Logger) *RedisStore {
	if ttl < 0 {
		ttl = 0
	}
	return &RedisStore{cli: cli, ttl: ttl, logger: logger}
}

func (s *RedisStore) Create(ctx context.Context) (string, core.State, error) {
	id := newID()
	st := core.NewState()

	data, err := json.Marshal(st)
	if err != nil {
		return "", core.State{}, fmt.Errorf("encode session: %w", err)
	}
	ok, err := s.cli.SetNX(ctx, key(id), data, s.ttl).Result()
	if err != nil {
		return "", core.State{}, fmt.Errorf("create session: %w", err)
	}
	if !ok {
		return "", core.State{}, fmt.Errorf("create session: id %s already taken", id)
	}
	return id, st, nil
}

func (s *RedisStore) Get(ctx context.Context, id string) (core.State, error) {
	data, err := s.cli.Get(ctx, key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return core.State{}, ErrNotFound
		}
		return core.State{}, fmt.Errorf("get session: %w", err)
	}
	return decode(data)
}

// Update reads, transforms and writes the session inside a WATCH
// transaction, retrying when another writer got there first.
func (s *RedisStore) Update(ctx context.Context, id string, fn UpdateFunc) (core.State, error) {
	k := key(id)
	var next core.State

	txf := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, k).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return ErrNotFound
			}
			return err
		}
		cur, err := decode(data)
		if err != nil {
			return err
		}

		next = fn(cur)
		out, err := json.Marshal(next)
		if err != nil {
			return fmt.Errorf("encode session: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, k, out, s.ttl)
			return nil
		})
		return err
	}

	for attempt := 1; attempt <= maxUpdateAttempts; attempt++ {
		err := s.cli.Watch(ctx, txf, k)
		switch {
		case err == nil:
			return next, nil
		case errors.Is(err, ErrNotFound):
			return core.State{}, ErrNotFound
		case errors.Is(err, redis.TxFailedErr):
			s.logger.Debug("session update conflict, retrying",
				zap.String("session_id", id),
				zap.Int("attempt", attempt),
			)
			continue
		default:
			return core.State{}, fmt.Errorf("update session: %w", err)
		}
	}
	return core.State{}, fmt.Errorf("update session %s: too many conflicting writes", id)
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	n, err := s.cli.Del(ctx, key(id)).Result()
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *RedisStore) Len(ctx context.Context) (int, error) {
	count := 0
	iter := s.cli.Scan(ctx, 0, keyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		count++
	}
	if err := iter.Err(); err != nil {
		return 0, fmt.Errorf("count sessions: %w", err)
	}
	return count, nil
}

func key(id string) string {
	return keyPrefix + id
}

func decode(data []byte) (core.State, error) {
	var st core.State
	if err := json.Unmarshal(data, &st); err != nil {
		return core.State{}, fmt.Errorf("decode session: %w", err)
	}
	return st, nil
}
