package dashboard

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/vidtube/backend/internal/models"
)

// ErrSourceUnavailable indicates the stats source is not configured.
var ErrSourceUnavailable = errors.New("channel stats source unavailable")

// StatsSource computes the dashboard totals for one channel.
type StatsSource interface {
	ChannelStats(ctx context.Context, channelID string) (models.ChannelStats, error)
}

type cacheEntry struct {
	stats   models.ChannelStats
	expires time.Time
}

// CachedStats wraps a StatsSource with a per-channel TTL cache. The stats
// queries fan out over several tables, and the dashboard tolerates slightly
// stale totals.
type CachedStats struct {
	source StatsSource
	ttl    time.Duration

	mu    sync.RWMutex
	items map[string]cacheEntry
}

// NewCachedStats returns a StatsSource that caches lookups for the provided TTL.
func NewCachedStats(source StatsSource, ttl time.Duration) *CachedStats {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &CachedStats{
		source: source,
		ttl:    ttl,
		items:  make(map[string]cacheEntry),
	}
}

// ChannelStats returns cached totals when fresh, otherwise it delegates to
// the underlying source and stores the result.
func (c *CachedStats) ChannelStats(ctx context.Context, channelID string) (models.ChannelStats, error) {
	if c == nil || c.source == nil {
		return models.ChannelStats{}, ErrSourceUnavailable
	}

	now := time.Now()

	c.mu.RLock()
	entry, ok := c.items[channelID]
	c.mu.RUnlock()
	if ok && now.Before(entry.expires) {
		return entry.stats, nil
	}

	stats, err := c.source.ChannelStats(ctx, channelID)
	if err != nil {
		return models.ChannelStats{}, err
	}

	c.mu.Lock()
	c.items[channelID] = cacheEntry{stats: stats, expires: now.Add(c.ttl)}
	c.mu.Unlock()

	return stats, nil
}

// Invalidate drops the cached totals for a channel.
func (c *CachedStats) Invalidate(channelID string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	delete(c.items, channelID)
	c.mu.Unlock()
}
