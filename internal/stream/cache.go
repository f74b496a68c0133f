package stream

import (
	"log/slog"
	"sync"
	"time"

	"siliconpulse/internal/model"
)

// Cache holds a short-lived snapshot of the log tail so the retrieval
// path does not hit disk on every query. The snapshot is rebuilt
// wholesale on refresh, never mutated incrementally.
type Cache struct {
	log             *Log
	maxEvents       int
	refreshInterval time.Duration
	freshness       time.Duration // 0 disables the freshness filter

	mu          sync.Mutex
	snapshot    []model.Event
	lastRefresh time.Time
}

func NewCache(log *Log, maxEvents int, refreshInterval time.Duration, freshnessHours int) *Cache {
	return &Cache{
		log:             log,
		maxEvents:       maxEvents,
		refreshInterval: refreshInterval,
		freshness:       time.Duration(freshnessHours) * time.Hour,
	}
}

// Events returns the cached snapshot, newest first, refreshing it when
// it has never been loaded or the refresh interval has elapsed.
func (c *Cache) Events() []model.Event {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.shouldRefreshLocked() {
		c.refreshLocked()
	}
	return c.snapshot
}

func (c *Cache) LastRefresh() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastRefresh
}

func (c *Cache) shouldRefreshLocked() bool {
	if c.lastRefresh.IsZero() {
		return true
	}
	return time.Since(c.lastRefresh) >= c.refreshInterval
}

func (c *Cache) refreshLocked() {
	tail := c.log.Tail(c.maxEvents)

	var cutoff time.Time
	if c.freshness > 0 {
		cutoff = time.Now().UTC().Add(-c.freshness)
	}

	events := make([]model.Event, 0, len(tail))
	for i := len(tail) - 1; i >= 0; i-- {
		ev := tail[i]
		if !cutoff.IsZero() && ev.Timestamp != "" {
			// unparseable timestamps are kept rather than dropped
			if ts, err := model.ParseTimestamp(ev.Timestamp); err == nil && ts.Before(cutoff) {
				continue
			}
		}
		events = append(events, ev)
	}

	c.snapshot = events
	c.lastRefresh = time.Now()
	slog.Debug("event cache refreshed", "events", len(events))
}
