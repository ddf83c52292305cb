package resolver

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*ResultCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return NewResultCache(client, logger), mr
}

type cachedThing struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestCacheSetGet(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()
	key := RosterKey("lakers")

	cache.Set(ctx, key, cachedThing{Name: "roster", Count: 15}, time.Minute)

	var out cachedThing
	require.True(t, cache.Get(ctx, key, &out))
	assert.Equal(t, "roster", out.Name)
	assert.Equal(t, 15, out.Count)

	stats := cache.Stats()
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Sets)
}

func TestCacheMiss(t *testing.T) {
	cache, _ := newTestCache(t)

	var out cachedThing
	assert.False(t, cache.Get(context.Background(), RosterKey("lakers"), &out))
	assert.Equal(t, int64(1), cache.Stats().Misses)
}

func TestCacheExpiry(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()
	key := RosterKey("lakers")

	cache.Set(ctx, key, cachedThing{Name: "roster"}, time.Minute)
	mr.FastForward(2 * time.Minute)

	var out cachedThing
	assert.False(t, cache.Get(ctx, key, &out))
}

func TestCacheCorruptEntryBehavesLikeMiss(t *testing.T) {
	cache, mr := newTestCache(t)
	key := RosterKey("lakers")

	require.NoError(t, mr.Set("result_cache:"+key.String(), "not json"))

	var out cachedThing
	assert.False(t, cache.Get(context.Background(), key, &out))
}

func TestCacheDelete(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()
	key := RosterKey("lakers")

	cache.Set(ctx, key, cachedThing{Name: "roster"}, time.Minute)
	require.NoError(t, cache.Delete(ctx, key))

	var out cachedThing
	assert.False(t, cache.Get(ctx, key, &out))
}

func TestCacheDeleteAbsentKey(t *testing.T) {
	cache, _ := newTestCache(t)
	assert.NoError(t, cache.Delete(context.Background(), RosterKey("ghost")))
	assert.NoError(t, cache.Delete(context.Background()))
}

func TestCacheDeleteFamily(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	cache.Set(ctx, Key{Family: FamilyTeammates, Parts: []string{"a"}}, cachedThing{}, time.Minute)
	cache.Set(ctx, Key{Family: FamilyTeammates, Parts: []string{"b"}}, cachedThing{}, time.Minute)
	cache.Set(ctx, RosterKey("lakers"), cachedThing{Name: "keep"}, time.Minute)

	require.NoError(t, cache.DeleteFamily(ctx, FamilyTeammates))

	var out cachedThing
	assert.False(t, cache.Get(ctx, Key{Family: FamilyTeammates, Parts: []string{"a"}}, &out))
	assert.False(t, cache.Get(ctx, Key{Family: FamilyTeammates, Parts: []string{"b"}}, &out))
	assert.True(t, cache.Get(ctx, RosterKey("lakers"), &out))
	assert.Equal(t, "keep", out.Name)
}
