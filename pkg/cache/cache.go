// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package cache holds file contents in memory so an entry that is viewed
// repeatedly is read from disk once.
//
// The cache is bounded two ways: entries older than the expiration window are
// dropped (eagerly on every Put, lazily on TryGet), and when the cache is full
// a Put evicts the single least recently accessed entry.
//
// All methods are safe for concurrent use. Sweep and eviction are not atomic
// as a whole, so under concurrent Puts the cache can briefly hold one entry
// more than its capacity.
package cache

import (
	"context"
	"os"
	"sort"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"github.com/walteh/filedeck/pkg/cmap"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/singleflight"
)

const (
	DefaultMaxEntries = 50
	DefaultExpiration = 30 * time.Minute
)

// 📄 Entry is one cached file
type Entry struct {
	path     string
	content  string
	loadedAt time.Time
	size     int

	// unix nanos, refreshed on every hit
	lastAccessed atomic.Int64
}

func (e *Entry) lastAccessedAt() time.Time {
	return time.Unix(0, e.lastAccessed.Load())
}

// 📊 EntryInfo is a read-only view of an entry, without its content
type EntryInfo struct {
	Path           string
	LoadedAt       time.Time
	LastAccessedAt time.Time
	SizeBytes      int
}

// Loader reads the content of path on a cache miss.
type Loader func(ctx context.Context, path string) (string, error)

// 💾 Cache is a bounded, time expiring path -> content store
type Cache struct {
	entries    *cmap.Map[string, *Entry]
	maxEntries int
	expiration time.Duration
	now        func() time.Time
	logger     zerolog.Logger

	loads singleflight.Group
}

type Option func(*Cache)

// WithMaxEntries sets the capacity. Non-positive values keep the default.
func WithMaxEntries(n int) Option {
	return func(c *Cache) {
		if n > 0 {
			c.maxEntries = n
		}
	}
}

// WithExpiration sets the expiration window. Non-positive values keep the default.
func WithExpiration(d time.Duration) Option {
	return func(c *Cache) {
		if d > 0 {
			c.expiration = d
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		if now != nil {
			c.now = now
		}
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(c *Cache) {
		c.logger = logger
	}
}

// 🏭 New creates an empty cache
func New(opts ...Option) *Cache {
	c := &Cache{
		entries:    cmap.NewMap[string, *Entry](),
		maxEntries: DefaultMaxEntries,
		expiration: DefaultExpiration,
		now:        time.Now,
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Cache) MaxEntries() int {
	return c.maxEntries
}

func (c *Cache) Expiration() time.Duration {
	return c.expiration
}

// 📥 Put inserts or replaces the content for path.
func (c *Cache) Put(path, content string) {
	now := c.now()

	c.sweepExpired(now)

	// replacing a key at capacity still evicts one entry
	if c.entries.Len() >= c.maxEntries {
		c.evictLeastRecentlyUsed()
	}

	entry := &Entry{
		path:     path,
		content:  content,
		loadedAt: now,
		size:     len(content),
	}
	entry.lastAccessed.Store(now.UnixNano())

	c.entries.Set(path, entry)
}

// 🔍 TryGet returns the content for path and refreshes its access time.
// An expired entry is removed and reported as a miss.
func (c *Cache) TryGet(path string) (string, bool) {
	entry, ok := c.entries.Get(path)
	if !ok {
		return "", false
	}

	now := c.now()
	if c.expired(entry, now) {
		if c.entries.CompareAndDelete(path, entry) {
			c.logger.Debug().Str("path", path).Msg("cache entry expired")
		}
		return "", false
	}

	entry.lastAccessed.Store(now.UnixNano())
	return entry.content, true
}

// Contains reports whether path has an entry, expired or not.
func (c *Cache) Contains(path string) bool {
	_, ok := c.entries.Get(path)
	return ok
}

func (c *Cache) Remove(path string) {
	c.entries.Delete(path)
}

func (c *Cache) Clear() {
	c.entries.Clear()
}

func (c *Cache) Count() int {
	return c.entries.Len()
}

// TotalContentBytes sums the content length of every entry.
func (c *Cache) TotalContentBytes() int64 {
	var total int64
	c.entries.Range(func(_ string, e *Entry) bool {
		total += int64(e.size)
		return true
	})
	return total
}

// 📋 Snapshot lists the entries, most recently accessed first.
func (c *Cache) Snapshot() []EntryInfo {
	infos := make([]EntryInfo, 0)
	c.entries.Range(func(_ string, e *Entry) bool {
		infos = append(infos, EntryInfo{
			Path:           e.path,
			LoadedAt:       e.loadedAt,
			LastAccessedAt: e.lastAccessedAt(),
			SizeBytes:      e.size,
		})
		return true
	})

	sort.SliceStable(infos, func(i, j int) bool {
		return infos[i].LastAccessedAt.After(infos[j].LastAccessedAt)
	})
	return infos
}

// 🔄 GetOrLoad returns the cached content for path, or loads and caches it.
// Concurrent misses for the same path share a single load. hit reports
// whether the content came from the cache.
func (c *Cache) GetOrLoad(ctx context.Context, path string, load Loader) (content string, hit bool, err error) {
	if content, ok := c.TryGet(path); ok {
		return content, true, nil
	}

	v, err, _ := c.loads.Do(path, func() (interface{}, error) {
		loaded, err := load(ctx, path)
		if err != nil {
			return nil, err
		}
		c.Put(path, loaded)
		return loaded, nil
	})
	if err != nil {
		return "", false, errors.Errorf("loading %s: %w", path, err)
	}

	return v.(string), false, nil
}

// ReadFileLoader reads path from disk as text.
func ReadFileLoader(ctx context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Errorf("reading file: %w", err)
	}
	return string(data), nil
}

func (c *Cache) expired(e *Entry, now time.Time) bool {
	return now.Sub(e.loadedAt) > c.expiration
}

func (c *Cache) sweepExpired(now time.Time) {
	c.entries.Range(func(path string, e *Entry) bool {
		if c.expired(e, now) && c.entries.CompareAndDelete(path, e) {
			c.logger.Debug().Str("path", path).Msg("swept expired cache entry")
		}
		return true
	})
}

func (c *Cache) evictLeastRecentlyUsed() {
	var oldest *Entry
	c.entries.Range(func(_ string, e *Entry) bool {
		if oldest == nil || e.lastAccessed.Load() < oldest.lastAccessed.Load() {
			oldest = e
		}
		return true
	})

	if oldest == nil {
		return
	}

	if c.entries.CompareAndDelete(oldest.path, oldest) {
		c.logger.Debug().Str("path", oldest.path).Msg("evicted least recently used cache entry")
	}
}
