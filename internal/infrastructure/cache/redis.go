package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ashok-rai/meetingbank-pipeline/pkg/config"
)

const ledgerKeyPrefix = "load:batch:"

// NewRedisClient creates a new Redis client and verifies the connection
func NewRedisClient(cfg *config.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.GetRedisAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return client, nil
}

// RedisLedger records batch outcomes in Redis so that redelivered batches are
// detected across loader instances.
type RedisLedger struct {
	client *redis.Client
}

// NewRedisLedger creates a new Redis-backed ledger
func NewRedisLedger(client *redis.Client) *RedisLedger {
	return &RedisLedger{client: client}
}

// Record stores the batch outcome with expiration
func (rl *RedisLedger) Record(ctx context.Context, batchID, status string, ttl time.Duration) error {
	if err := rl.client.Set(ctx, ledgerKeyPrefix+batchID, status, ttl).Err(); err != nil {
		return fmt.Errorf("failed to record batch outcome: %w", err)
	}
	return nil
}

// LastStatus retrieves the recorded outcome for a batch, if any
func (rl *RedisLedger) LastStatus(ctx context.Context, batchID string) (string, bool, error) {
	value, err := rl.client.Get(ctx, ledgerKeyPrefix+batchID).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read batch outcome: %w", err)
	}
	return value, true, nil
}
