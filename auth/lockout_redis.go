package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// RedisLockoutStore shares failed-login counters between instances. Failures are an
// INCR counter that expires with the lockout window; a lock is a separate key with a TTL.
type RedisLockoutStore struct {
	client    *redis.Client
	policy    LockoutPolicy
	keyPrefix string
}

// NewRedisLockoutStore connects to the Redis instance at url (redis://host:port/db)
func NewRedisLockoutStore(url string, policy LockoutPolicy) (*RedisLockoutStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}
	return NewRedisLockoutStoreWithClient(redis.NewClient(opts), policy), nil
}

func NewRedisLockoutStoreWithClient(client *redis.Client, policy LockoutPolicy) *RedisLockoutStore {
	return &RedisLockoutStore{
		client:    client,
		policy:    policy.withDefaults(),
		keyPrefix: "oversight:login:",
	}
}

func (s *RedisLockoutStore) failuresKey(key string) string { return s.keyPrefix + "failures:" + key }
func (s *RedisLockoutStore) lockKey(key string) string { return s.keyPrefix + "lock:" + key }

// Ping checks connectivity
func (s *RedisLockoutStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisLockoutStore) Status(ctx context.Context, key string) (time.Duration, error) {
	ttl, err := s.client.PTTL(ctx, s.lockKey(key)).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to read lock: %w", err)
	}
	// -2 missing, -1 no expiry; neither is an active lock
	if ttl <= 0 {
		return 0, nil
	}
	return ttl, nil
}

func (s *RedisLockoutStore) RecordFailure(ctx context.Context, key string) (int, error) {
	failures := s.failuresKey(key)

	pipe := s.client.TxPipeline()
	incr := pipe.Incr(ctx, failures)
	pipe.ExpireNX(ctx, failures, s.policy.Duration)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("failed to record login failure: %w", err)
	}

	count := int(incr.Val())
	if count < s.policy.MaxAttempts {
		return s.policy.MaxAttempts - count, nil
	}

	pipe = s.client.TxPipeline()
	pipe.Set(ctx, s.lockKey(key), count, s.policy.Duration)
	pipe.Del(ctx, failures)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("failed to lock account: %w", err)
	}

	log.WithFields(log.Fields{
		"key":      key,
		"attempts": count,
	}).Warn("Account locked after repeated failed logins")
	return 0, nil
}

func (s *RedisLockoutStore) Reset(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.failuresKey(key), s.lockKey(key)).Err(); err != nil {
		return fmt.Errorf("failed to reset login failures: %w", err)
	}
	return nil
}

func (s *RedisLockoutStore) Close() error {
	return s.client.Close()
}
