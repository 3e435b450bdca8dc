package s0_snapshot

import (
	"context"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/wonny/aegis-wheel/internal/contracts"
)

// CachedReader memoizes capture-date and IV lookups of another reader.
// Within one run the CSP scan, CC scan and profit tracker all ask for the latest date.
type CachedReader struct {
	contracts.SnapshotReader
	inmemoryCache *cache.Cache
}

type latestDateEntry struct {
	date  time.Time
	found bool
}

// NewCachedReader wraps r with an in-memory cache
func NewCachedReader(r contracts.SnapshotReader, ttl time.Duration) *CachedReader {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CachedReader{
		SnapshotReader: r,
		inmemoryCache:  cache.New(ttl, 2*ttl),
	}
}

// LatestDate returns the cached latest capture date for maxDTE
func (c *CachedReader) LatestDate(ctx context.Context, maxDTE int) (time.Time, bool, error) {
	if maxDTE < 0 {
		maxDTE = 0
	}
	key := fmt.Sprintf("latest:%d", maxDTE)
	if v, ok := c.inmemoryCache.Get(key); ok {
		e := v.(latestDateEntry)
		return e.date, e.found, nil
	}

	date, found, err := c.SnapshotReader.LatestDate(ctx, maxDTE)
	if err != nil {
		return time.Time{}, false, err
	}
	c.inmemoryCache.SetDefault(key, latestDateEntry{date: date, found: found})
	return date, found, nil
}

// IVSummaries returns the cached daily IV snapshot
func (c *CachedReader) IVSummaries(ctx context.Context) (*contracts.IVSnapshot, error) {
	if v, ok := c.inmemoryCache.Get("iv"); ok {
		return v.(*contracts.IVSnapshot), nil
	}

	snap, err := c.SnapshotReader.IVSummaries(ctx)
	if err != nil {
		return nil, err
	}
	c.inmemoryCache.SetDefault("iv", snap)
	return snap, nil
}

// Flush drops every cached entry (new capture date landed)
func (c *CachedReader) Flush() {
	c.inmemoryCache.Flush()
}

// Coverage passes through when the wrapped reader supports it
func (c *CachedReader) Coverage(ctx context.Context, date time.Time) (*contracts.CoverageCounts, error) {
	cr, ok := c.SnapshotReader.(contracts.CoverageReader)
	if !ok {
		return nil, fmt.Errorf("coverage not supported by %T", c.SnapshotReader)
	}
	return cr.Coverage(ctx, date)
}
