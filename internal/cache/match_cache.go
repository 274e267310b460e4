package cache

import (
	"sync"
	"time"

	"dota-dashboard/internal/config"
	"dota-dashboard/internal/domain"
	"dota-dashboard/internal/metrics"
)

type Key struct {
	AccountID int64
	Days      int
}

type entry struct {
	records    []domain.MatchRecord
	insertedAt time.Time
}

// MatchCache holds fetched match lists per (account, window) for a fixed
// TTL. Expiry is checked on lookup; nothing survives a restart.
type MatchCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	now     func() time.Time
	entries map[Key]entry
}

func New(ttl time.Duration) *MatchCache {
	return &MatchCache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[Key]entry),
	}
}

func NewFromConfig(cfg *config.Config) *MatchCache {
	return New(cfg.CacheTTL)
}

// Get returns a copy of the cached records, so callers may reorder them.
func (c *MatchCache) Get(key Key) ([]domain.MatchRecord, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		metrics.CacheLookups.WithLabelValues("miss").Inc()
		return nil, false
	}
	if c.now().Sub(e.insertedAt) >= c.ttl {
		metrics.CacheLookups.WithLabelValues("expired").Inc()
		c.mu.Lock()
		if cur, ok := c.entries[key]; ok && cur.insertedAt.Equal(e.insertedAt) {
			delete(c.entries, key)
		}
		metrics.CacheEntries.Set(float64(len(c.entries)))
		c.mu.Unlock()
		return nil, false
	}

	metrics.CacheLookups.WithLabelValues("hit").Inc()
	return append([]domain.MatchRecord(nil), e.records...), true
}

func (c *MatchCache) Set(key Key, records []domain.MatchRecord) {
	stored := append([]domain.MatchRecord(nil), records...)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry{records: stored, insertedAt: c.now()}
	metrics.CacheEntries.Set(float64(len(c.entries)))
}

// Purge drops expired entries and returns how many were removed.
func (c *MatchCache) Purge() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	for key, e := range c.entries {
		if now.Sub(e.insertedAt) >= c.ttl {
			delete(c.entries, key)
			removed++
		}
	}
	metrics.CacheEntries.Set(float64(len(c.entries)))
	return removed
}

func (c *MatchCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
