// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"stock_portfolio/internal/feature/candles/domain/entity"
	"stock_portfolio/internal/feature/candles/usecase"
)

// DefaultSeriesTTL is how long a fetched daily series stays fresh.
const DefaultSeriesTTL = 30 * time.Minute

// flightTimeout bounds a shared upstream fetch once it no longer follows the
// context of the caller that started it. It covers the proxy and both relays.
const flightTimeout = 45 * time.Second

type seriesEntry struct {
	candles   []entity.Candle
	expiresAt time.Time
}

// CachingSeriesRepository decorates a MarketRepository with a two level cache.
// The first level is an in-process map guarded by a mutex; the second level is
// Redis and is skipped entirely when no client is configured. Concurrent misses
// for the same symbol share a single upstream call. Failed fetches are never cached.
type CachingSeriesRepository struct {
	inner     usecase.MarketRepository
	rdb       *redis.Client
	ttl       time.Duration
	namespace string

	mu      sync.Mutex
	entries map[string]seriesEntry
	group   singleflight.Group
	now     func() time.Time
}

var _ usecase.MarketRepository = (*CachingSeriesRepository)(nil)

// NewCachingSeriesRepository decorates a MarketRepository with caching.
// If ttl is 0, it defaults to 30 minutes. If namespace is empty, it uses "series".
func NewCachingSeriesRepository(rdb *redis.Client, ttl time.Duration, inner usecase.MarketRepository, namespace string) *CachingSeriesRepository {
	if ttl <= 0 {
		ttl = DefaultSeriesTTL
	}
	if namespace == "" {
		namespace = "series"
	}
	return &CachingSeriesRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
		entries:   make(map[string]seriesEntry),
		now:       time.Now,
	}
}

// GetTimeSeries returns the cached series for symbol, fetching it on a miss.
func (c *CachingSeriesRepository) GetTimeSeries(ctx context.Context, symbol string) ([]entity.Candle, error) {
	key := c.cacheKey(symbol)

	// 1) In-process cache
	if out, ok := c.lookup(key); ok {
		return out, nil
	}

	// The flight outlives any single caller; each caller still stops waiting on its own ctx.
	ch := c.group.DoChan(key, func() (any, error) {
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), flightTimeout)
		defer cancel()

		// Another caller may have filled the entry while we waited for the flight.
		if out, ok := c.lookup(key); ok {
			return out, nil
		}

		// 2) Redis
		if out, ok := c.loadRemote(fctx, key); ok {
			return out, nil
		}

		// 3) Upstream
		out, err := c.inner.GetTimeSeries(fctx, symbol)
		if err != nil {
			return nil, err
		}
		c.store(key, out, c.ttl)
		c.saveRemote(fctx, key, out)
		return out, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]entity.Candle), nil
	}
}

// Invalidate drops the cached series of the given symbols from both levels.
func (c *CachingSeriesRepository) Invalidate(ctx context.Context, symbols ...string) {
	keys := make([]string, 0, len(symbols))
	c.mu.Lock()
	for _, s := range symbols {
		k := c.cacheKey(s)
		delete(c.entries, k)
		keys = append(keys, k)
	}
	c.mu.Unlock()

	if c.rdb == nil || len(keys) == 0 {
		return
	}
	_ = c.rdb.Del(ctx, keys...).Err() // Best effort
}

// Purge drops every cached series in this namespace.
func (c *CachingSeriesRepository) Purge(ctx context.Context) error {
	c.mu.Lock()
	c.entries = make(map[string]seriesEntry)
	c.mu.Unlock()

	if c.rdb == nil {
		return nil
	}
	return c.deleteByPattern(ctx, c.namespace+":*")
}

func (c *CachingSeriesRepository) lookup(key string) ([]entity.Candle, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if !c.now().Before(e.expiresAt) {
		delete(c.entries, key)
		return nil, false
	}
	return e.candles, true
}

// store keeps candles in memory for life, which never exceeds the TTL.
func (c *CachingSeriesRepository) store(key string, candles []entity.Candle, life time.Duration) {
	if life > c.ttl {
		life = c.ttl
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = seriesEntry{candles: candles, expiresAt: c.now().Add(life)}
}

func (c *CachingSeriesRepository) loadRemote(ctx context.Context, key string) ([]entity.Candle, bool) {
	if c.rdb == nil {
		return nil, false
	}
	b, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil || len(b) == 0 {
		return nil, false
	}
	var out []entity.Candle
	if err := json.Unmarshal(b, &out); err != nil {
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
		return nil, false
	}
	// The entry only lives in memory for what remains of its Redis TTL, so the
	// series is never served longer than the TTL after its upstream fetch.
	if left, err := c.rdb.TTL(ctx, key).Result(); err == nil && left > 0 {
		c.store(key, out, left)
	}
	return out, true
}

func (c *CachingSeriesRepository) saveRemote(ctx context.Context, key string, candles []entity.Candle) {
	if c.rdb == nil {
		return
	}
	if b, err := json.Marshal(candles); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
	}
}

// cacheKey generates a cache key for a symbol.
func (c *CachingSeriesRepository) cacheKey(symbol string) string {
	return fmt.Sprintf("%s:%s", c.namespace, safe(strings.TrimSpace(symbol)))
}

// deleteByPattern deletes all cache keys matching a given pattern using SCAN.
func (c *CachingSeriesRepository) deleteByPattern(ctx context.Context, pattern string) error {
	var cursor uint64
	for {
		keys, cur, err := c.rdb.Scan(ctx, cursor, pattern, 200).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		cursor = cur
		if cursor == 0 {
			break
		}
	}
	return nil
}

// safe escapes characters that are problematic for Redis keys.
func safe(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, ":", "_")
	return s
}
