package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
)

// ErrNoCache reports a fetch failure with no cached snapshot to fall back on.
var ErrNoCache = errors.New("catalog fetch failed and no cache exists")

// Lister is the remote catalog source.
type Lister interface {
	List(ctx context.Context) ([]ModelEntry, error)
}

// Cache is a time-boxed on-disk snapshot of the free-model catalog. A fetch
// failure degrades to the cached snapshot regardless of its age; only a fetch
// failure with no snapshot at all is fatal.
type Cache struct {
	source Lister
	path   string
	ttl    time.Duration
	logger *zap.Logger
	now    func() time.Time
}

// NewCache builds a cache over the given source.
func NewCache(source Lister, path string, ttl time.Duration, logger *zap.Logger) *Cache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cache{source: source, path: path, ttl: ttl, logger: logger, now: time.Now}
}

// Get returns the current snapshot. With forceRefresh=false a snapshot
// younger than the TTL is served without a network call; otherwise a refresh
// is attempted and the stale snapshot is the fallback. The second return
// value reports whether the snapshot is stale (served past a failed refresh).
func (c *Cache) Get(ctx context.Context, forceRefresh bool) (Snapshot, bool, error) {
	cached, cacheErr := c.read()

	if !forceRefresh && cacheErr == nil && c.now().Sub(cached.FetchedAt) < c.ttl {
		return cached, false, nil
	}

	entries, err := c.source.List(ctx)
	if err != nil {
		if cacheErr == nil {
			c.logger.Warn("catalog refresh failed, serving stale cache",
				zap.Error(err), zap.Time("fetched_at", cached.FetchedAt))
			return cached, true, nil
		}
		return Snapshot{}, false, fmt.Errorf("%w: %v", ErrNoCache, err)
	}

	snap := Snapshot{FetchedAt: c.now(), Entries: entries}
	if err := c.write(snap); err != nil {
		// A cache write failure is not worth failing the selection for.
		c.logger.Warn("catalog cache write failed", zap.Error(err))
	}
	return snap, false, nil
}

// Peek reads the cached snapshot without any fetch attempt.
func (c *Cache) Peek() (Snapshot, error) {
	return c.read()
}

func (c *Cache) read() (Snapshot, error) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		return Snapshot{}, err
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("parse cache %s: %w", c.path, err)
	}
	return snap, nil
}

// write persists the snapshot with write-then-rename so concurrent readers
// never observe a torn file.
func (c *Cache) write(snap Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(c.path), ".freeride-cache-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), c.path)
}
