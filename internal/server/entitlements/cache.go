package entitlements

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// VerdictTTL bounds how long a cached verdict may be served. Payment
// completion is asynchronous, so anything longer risks showing a paywall to
// a user whose order just succeeded.
const VerdictTTL = 30 * time.Second

// Cache wraps a Resolver with a short-TTL Redis cache. Cache failures fall
// through to the resolver: a broken cache must never block access checks.
type Cache struct {
	resolver *Resolver
	rdb      *redis.Client
	ttl      time.Duration
}

func NewCache(resolver *Resolver, rdb *redis.Client) *Cache {
	return &Cache{resolver: resolver, rdb: rdb, ttl: VerdictTTL}
}

func cacheKey(userID, noteID string) string {
	return fmt.Sprintf("noteguard:verdict:%s:%s", userID, noteID)
}

func (c *Cache) Resolve(ctx context.Context, userID, noteID string) (Verdict, error) {

	key := cacheKey(userID, noteID)

	if v, err := c.rdb.Get(ctx, key).Result(); err == nil && v != "" {
		return Verdict(v), nil
	}

	verdict, err := c.resolver.Resolve(ctx, userID, noteID)
	if err != nil {
		return "", err
	}

	_ = c.rdb.Set(ctx, key, string(verdict), c.ttl).Err()

	return verdict, nil
}

// Invalidate drops the cached verdict for every note; it is keyed per
// (user, note), so we delete by pattern after a payment event flips the
// user's entitlement.
func (c *Cache) Invalidate(ctx context.Context, userID string) {
	iter := c.rdb.Scan(ctx, 0, fmt.Sprintf("noteguard:verdict:%s:*", userID), 100).Iterator()
	for iter.Next(ctx) {
		_ = c.rdb.Del(ctx, iter.Val()).Err()
	}
}
