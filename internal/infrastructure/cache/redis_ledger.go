package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fulfillsync/backend/internal/domain/fulfillment"
)

// defaultLedgerKeyPrefix namespaces ledger keys in a shared Redis
const defaultLedgerKeyPrefix = "report:ledger:"

// RedisLedger implements CompletionLedger using Redis. Suitable for
// distributed deployments where multiple instances process the same
// report drop-box.
type RedisLedger struct {
	client    *redis.Client
	keyPrefix string
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisLedger creates a Redis-backed completion ledger
func NewRedisLedger(cfg RedisConfig) (*RedisLedger, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("cache: failed to connect to Redis: %w", err)
	}

	return &RedisLedger{
		client:    client,
		keyPrefix: defaultLedgerKeyPrefix,
	}, nil
}

// NewRedisLedgerWithClient creates a ledger over an existing Redis client.
// Useful for testing or when sharing a client across components.
func NewRedisLedgerWithClient(client *redis.Client, keyPrefix string) *RedisLedger {
	if keyPrefix == "" {
		keyPrefix = defaultLedgerKeyPrefix
	}
	return &RedisLedger{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

// MarkProcessed records a key with a TTL.
// Returns true if the key was newly recorded, false if it already existed.
// Uses SETNX for atomicity across instances.
func (l *RedisLedger) MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	result, err := l.client.SetNX(ctx, l.keyPrefix+key, "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("cache: failed to mark record as processed: %w", err)
	}
	return result, nil
}

// IsProcessed checks whether a key was recorded and has not expired
func (l *RedisLedger) IsProcessed(ctx context.Context, key string) (bool, error) {
	exists, err := l.client.Exists(ctx, l.keyPrefix+key).Result()
	if err != nil {
		return false, fmt.Errorf("cache: failed to check record: %w", err)
	}
	return exists > 0, nil
}

// Close closes the Redis client
func (l *RedisLedger) Close() error {
	return l.client.Close()
}

// Ensure RedisLedger implements CompletionLedger
var _ fulfillment.CompletionLedger = (*RedisLedger)(nil)
