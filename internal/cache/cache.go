// Package cache persists timeline pages and an offline snapshot per subject
// on a local key/value store.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/siron93/moms-app/internal/adapter/localstore"
	"github.com/siron93/moms-app/internal/config"
	"github.com/siron93/moms-app/internal/domain"
)

const keyPrefix = "@timeline_cache:"

// Page is one stored page of timeline items.
type Page struct {
	Items []domain.TimelineItem `json:"items"`
	// Cursor resumes pagination after the last item. Nil when IsDone.
	Cursor    *string   `json:"cursor,omitempty"`
	IsDone    bool      `json:"isDone"`
	Timestamp time.Time `json:"timestamp"`
}

// Metadata describes a subject's cached pages.
type Metadata struct {
	SubjectID  string    `json:"subjectId"`
	LastSync   time.Time `json:"lastSyncTimestamp"`
	TotalItems int       `json:"totalItems"`
	Pages      int       `json:"pages"`
	// Complete is set once the last remote page has been cached.
	Complete bool `json:"complete"`
}

// Cache stores pages under "@timeline_cache:<subject>:page:<n>" and metadata
// under "@timeline_cache:<subject>:meta". Read failures are logged and
// reported as misses. Writes for one subject are serialized.
type Cache struct {
	kv       localstore.KV
	log      *slog.Logger
	ttl      time.Duration
	pageSize int
	limit    int
	now      func() time.Time

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// New creates a cache over kv.
func New(logger *slog.Logger, kv localstore.KV, cfg config.CacheConfig) *Cache {
	return &Cache{
		kv:       kv,
		log:      logger.With("service", "cache"),
		ttl:      cfg.TTL,
		pageSize: cfg.PageSize,
		limit:    cfg.SnapshotLimit,
		now:      time.Now,
		locks:    make(map[string]*sync.Mutex),
	}
}

// Stale reports whether data cached at ts is older than the TTL.
func (c *Cache) Stale(ts time.Time) bool {
	return c.now().Sub(ts) > c.ttl
}

// lock returns the held write lock of a subject; call the returned func to
// release it.
func (c *Cache) lock(subjectID string) func() {
	c.mu.Lock()
	l, ok := c.locks[subjectID]
	if !ok {
		l = &sync.Mutex{}
		c.locks[subjectID] = l
	}
	c.mu.Unlock()

	l.Lock()
	return l.Unlock
}

// ---------------------------------------------------------------------------
// Keys
// ---------------------------------------------------------------------------

// subjectPrefix escapes the id so one subject's prefix never covers another's.
func subjectPrefix(subjectID string) string {
	return keyPrefix + url.QueryEscape(subjectID) + ":"
}

func pageKey(subjectID string, index int) string {
	return subjectPrefix(subjectID) + "page:" + strconv.Itoa(index)
}

func metaKey(subjectID string) string {
	return subjectPrefix(subjectID) + "meta"
}

// ---------------------------------------------------------------------------
// Storage helpers
// ---------------------------------------------------------------------------

// readJSON reports false on a missing key or any failure; failures other
// than a missing key are logged.
func (c *Cache) readJSON(ctx context.Context, key string, dst any) bool {
	raw, err := c.kv.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			c.log.WarnContext(ctx, "cache read failed", slog.String("key", key), slog.String("error", err.Error()))
		}
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		c.log.WarnContext(ctx, "corrupt cache entry", slog.String("key", key), slog.String("error", err.Error()))
		return false
	}
	return true
}

func (c *Cache) writeJSON(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("cache: encode %s: %w", key, err)
	}
	if err := c.kv.Set(ctx, key, raw); err != nil {
		return fmt.Errorf("cache: write %s: %w", key, err)
	}
	return nil
}

func (c *Cache) metadata(ctx context.Context, subjectID string) (Metadata, bool) {
	var m Metadata
	if !c.readJSON(ctx, metaKey(subjectID), &m) {
		return Metadata{}, false
	}
	return m, true
}
