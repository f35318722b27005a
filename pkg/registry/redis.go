package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// redisKeyPrefix namespaces fragment tokens in a shared Redis instance.
const redisKeyPrefix = "structlab:fragment:"

// RedisStore keeps fragments in Redis, JSON-encoded, with native TTL
// expiry. Use it when several instances must honor each other's tokens.
type RedisStore struct {
	client *redis.Client
}

// RedisConfig configures the Redis connection.
type RedisConfig struct {
	Addr     string // host:port
	Password string // optional
	DB       int
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping %s: %w", cfg.Addr, err)
	}
	return &RedisStore{client: client}, nil
}

// Put stores a fragment under token. A zero ttl stores without expiry.
func (s *RedisStore) Put(ctx context.Context, token string, frag Fragment, ttl time.Duration) error {
	data, err := json.Marshal(frag)
	if err != nil {
		return fmt.Errorf("encode fragment: %w", err)
	}
	return s.client.Set(ctx, redisKeyPrefix+token, data, ttl).Err()
}

// Get retrieves a fragment without consuming the token.
func (s *RedisStore) Get(ctx context.Context, token string) (Fragment, bool, error) {
	data, err := s.client.Get(ctx, redisKeyPrefix+token).Bytes()
	if errors.Is(err, redis.Nil) {
		return Fragment{}, false, nil
	}
	if err != nil {
		return Fragment{}, false, err
	}
	return decodeFragment(data)
}

// Remove atomically removes and returns the fragment via GETDEL, so two
// racing withdrawals can never both succeed.
func (s *RedisStore) Remove(ctx context.Context, token string) (Fragment, bool, error) {
	data, err := s.client.GetDel(ctx, redisKeyPrefix+token).Bytes()
	if errors.Is(err, redis.Nil) {
		return Fragment{}, false, nil
	}
	if err != nil {
		return Fragment{}, false, err
	}
	return decodeFragment(data)
}

// Cleanup is a no-op: Redis expires keys natively.
func (s *RedisStore) Cleanup(ctx context.Context) error { return nil }

// Close closes the Redis connection.
func (s *RedisStore) Close() error { return s.client.Close() }

func decodeFragment(data []byte) (Fragment, bool, error) {
	var frag Fragment
	if err := json.Unmarshal(data, &frag); err != nil {
		return Fragment{}, false, fmt.Errorf("decode fragment: %w", err)
	}
	return frag, true, nil
}

// Ensure RedisStore implements Store.
var _ Store = (*RedisStore)(nil)
