package cache

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"

	"inboxlift/internal/domain/entitlement"
	"inboxlift/internal/shared/logger"
)

// SubscriptionStatusCache short-circuits billing oracle lookups. Entries are
// short-lived: a stale "free" only delays a subscriber's upgraded limits by
// one TTL, and a stale "paid" is bounded the same way.
type SubscriptionStatusCache interface {
	// Get returns the cached status for email. found is false on cache miss.
	Get(ctx context.Context, email string) (status entitlement.SubscriptionStatus, found bool, err error)
	Set(ctx context.Context, email string, status entitlement.SubscriptionStatus) error
	Invalidate(ctx context.Context, email string) error
}

const (
	statusKeyPrefix = "entitlement:substatus:"
	statusTTLJitter = 10 * time.Second // anti-stampede
)

// RedisSubscriptionStatusCache implements SubscriptionStatusCache on Redis.
type RedisSubscriptionStatusCache struct {
	client *redis.Client
	ttl    time.Duration
	logger logger.Interface
}

// NewRedisSubscriptionStatusCache creates a Redis-backed status cache with
// the given base TTL.
func NewRedisSubscriptionStatusCache(client *redis.Client, ttl time.Duration, logger logger.Interface) *RedisSubscriptionStatusCache {
	return &RedisSubscriptionStatusCache{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

func (c *RedisSubscriptionStatusCache) key(email string) string {
	return statusKeyPrefix + email
}

func (c *RedisSubscriptionStatusCache) Get(ctx context.Context, email string) (entitlement.SubscriptionStatus, bool, error) {
	value, err := c.client.Get(ctx, c.key(email)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to get cached subscription status: %w", err)
	}

	status := entitlement.SubscriptionStatus(value)
	if !status.IsValid() {
		c.logger.Warnw("dropping corrupt cached subscription status", "email", email, "value", value)
		return "", false, nil
	}
	return status, true, nil
}

func (c *RedisSubscriptionStatusCache) Set(ctx context.Context, email string, status entitlement.SubscriptionStatus) error {
	ttl := c.ttl + time.Duration(rand.Int63n(int64(statusTTLJitter)))
	if err := c.client.Set(ctx, c.key(email), status.String(), ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache subscription status: %w", err)
	}
	return nil
}

// Invalidate drops the cached status, used after webhook events so the next
// snapshot reflects the new subscription immediately.
func (c *RedisSubscriptionStatusCache) Invalidate(ctx context.Context, email string) error {
	if err := c.client.Del(ctx, c.key(email)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate subscription status: %w", err)
	}
	return nil
}
