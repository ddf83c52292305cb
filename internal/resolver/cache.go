package resolver

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// cacheEntry wraps a cached payload with timing metadata.
type cacheEntry struct {
	Payload   json.RawMessage `json:"payload"`
	CachedAt  time.Time       `json:"cached_at"`
	ExpiresAt time.Time       `json:"expires_at"`
}

// CacheStats tracks result cache performance.
type CacheStats struct {
	Hits   int64 `json:"hits"`
	Misses int64 `json:"misses"`
	Sets   int64 `json:"sets"`
}

// ResultCache is the shared, Redis-backed store for fetched query results.
// All consumers read through it keyed by composite query key; entries are
// read-only once written and superseded wholesale by the next successful
// fetch for the same key.
type ResultCache struct {
	redis  *redis.Client
	prefix string
	logger *logrus.Entry

	mu    sync.Mutex
	stats CacheStats
}

// NewResultCache creates a result cache on top of an existing Redis client.
func NewResultCache(redisClient *redis.Client, logger *logrus.Logger) *ResultCache {
	return &ResultCache{
		redis:  redisClient,
		prefix: "result_cache:",
		logger: logger.WithField("component", "result_cache"),
	}
}

// Get loads a cached payload into out. It returns false on a miss or any
// decode failure; a corrupt entry behaves like a miss.
func (c *ResultCache) Get(ctx context.Context, key Key, out interface{}) bool {
	data, err := c.redis.Get(ctx, c.prefix+key.String()).Result()
	if err == redis.Nil {
		c.count(func(s *CacheStats) { s.Misses++ })
		return false
	}
	if err != nil {
		c.logger.WithError(err).WithField("key", key.String()).Warn("Redis error on cache get")
		c.count(func(s *CacheStats) { s.Misses++ })
		return false
	}

	var entry cacheEntry
	if err := json.Unmarshal([]byte(data), &entry); err != nil {
		c.logger.WithError(err).WithField("key", key.String()).Warn("Corrupt cache entry")
		c.count(func(s *CacheStats) { s.Misses++ })
		return false
	}
	if err := json.Unmarshal(entry.Payload, out); err != nil {
		c.logger.WithError(err).WithField("key", key.String()).Warn("Cache payload decode failed")
		c.count(func(s *CacheStats) { s.Misses++ })
		return false
	}

	c.count(func(s *CacheStats) { s.Hits++ })
	return true
}

// Set stores a payload under the key with a TTL. Writes are
// last-writer-wins; failures are logged and otherwise ignored so a cache
// outage never fails a fetch that already succeeded.
func (c *ResultCache) Set(ctx context.Context, key Key, payload interface{}, ttl time.Duration) {
	raw, err := json.Marshal(payload)
	if err != nil {
		c.logger.WithError(err).WithField("key", key.String()).Warn("Cache payload encode failed")
		return
	}

	now := time.Now()
	entry := cacheEntry{
		Payload:   raw,
		CachedAt:  now,
		ExpiresAt: now.Add(ttl),
	}
	data, err := json.Marshal(entry)
	if err != nil {
		c.logger.WithError(err).WithField("key", key.String()).Warn("Cache entry encode failed")
		return
	}

	if err := c.redis.Set(ctx, c.prefix+key.String(), data, ttl).Err(); err != nil {
		c.logger.WithError(err).WithField("key", key.String()).Warn("Redis error on cache set")
		return
	}

	c.count(func(s *CacheStats) { s.Sets++ })
}

// Delete removes cached entries. Deleting an absent key is a no-op, so
// invalidation is always safe to call; an in-flight fetch for the same key
// simply re-populates the entry when it lands (last writer wins).
func (c *ResultCache) Delete(ctx context.Context, keys ...Key) error {
	if len(keys) == 0 {
		return nil
	}
	redisKeys := make([]string, len(keys))
	for i, k := range keys {
		redisKeys[i] = c.prefix + k.String()
	}
	return c.redis.Del(ctx, redisKeys...).Err()
}

// DeleteFamily removes every cached entry of one query family.
func (c *ResultCache) DeleteFamily(ctx context.Context, family string) error {
	pattern := c.prefix + family + "*"
	var keys []string
	iter := c.redis.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return c.redis.Del(ctx, keys...).Err()
}

// Stats returns a copy of the current cache counters.
func (c *ResultCache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

func (c *ResultCache) count(fn func(*CacheStats)) {
	c.mu.Lock()
	fn(&c.stats)
	c.mu.Unlock()
}
