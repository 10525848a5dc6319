package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tallyhq/tally/internal/ledger"
	"github.com/tallyhq/tally/internal/logger"
)

// DefaultRedisKey is used when no key is configured.
const DefaultRedisKey = "tally:finance"

// Redis stores the state document under one key.
type Redis struct {
	client *redis.Client
	key    string
}

// OpenRedis connects to addr, which may be host:port or a redis:// URL, and
// checks the connection.
func OpenRedis(addr, key string) (*Redis, error) {
	if addr == "" {
		addr = "localhost:6379"
	}
	if key == "" {
		key = DefaultRedisKey
	}

	opt, err := redis.ParseURL(addr)
	if err != nil {
		opt, err = redis.ParseURL("redis://" + addr)
	}
	if err != nil {
		opt = &redis.Options{Addr: addr}
	}
	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}
	return &Redis{client: client, key: key}, nil
}

// Load reads the key. A missing key is not an error.
func (r *Redis) Load(ctx context.Context) (*ledger.StoredState, error) {
	data, err := r.client.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", r.key, err)
	}
	return decode(data)
}

// Save overwrites the key.
func (r *Redis) Save(ctx context.Context, st ledger.StoredState) error {
	data, err := encode(st)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, r.key, data, 0).Err(); err != nil {
		return fmt.Errorf("writing %s: %w", r.key, err)
	}
	log := logger.FromContext(ctx)
	log.Debug().Str("key", r.key).Int("bytes", len(data)).Msg("state key set")
	return nil
}

// Close closes the client.
func (r *Redis) Close() error {
	return r.client.Close()
}
