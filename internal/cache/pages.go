package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/siron93/moms-app/internal/domain"
	"github.com/siron93/moms-app/internal/service/timeline"
)

// CachedPage is a page read back from the cache. Stale pages are still
// returned so callers can show them while refetching.
type CachedPage struct {
	Page
	Stale bool
}

// SavePage stores page index for a subject and updates its metadata.
// A zero Timestamp is set to the current time.
func (c *Cache) SavePage(ctx context.Context, subjectID string, index int, p Page) error {
	if index < 0 {
		return domain.NewValidationError("index", "must be non-negative")
	}
	unlock := c.lock(subjectID)
	defer unlock()

	meta, ok := c.metadata(ctx, subjectID)
	if !ok {
		meta = Metadata{SubjectID: subjectID}
	}
	if index < meta.Pages {
		var old Page
		if c.readJSON(ctx, pageKey(subjectID, index), &old) {
			meta.TotalItems -= len(old.Items)
		}
	}

	if p.Timestamp.IsZero() {
		p.Timestamp = c.now()
	}
	if p.Items == nil {
		p.Items = []domain.TimelineItem{}
	}
	if err := c.writeJSON(ctx, pageKey(subjectID, index), p); err != nil {
		return err
	}

	meta.TotalItems += len(p.Items)
	meta.Pages = max(meta.Pages, index+1)
	meta.LastSync = p.Timestamp
	if p.IsDone {
		meta.Complete = true
	}
	return c.writeJSON(ctx, metaKey(subjectID), meta)
}

// GetPage returns a cached page. It reports false on a miss or an unreadable
// entry.
func (c *Cache) GetPage(ctx context.Context, subjectID string, index int) (CachedPage, bool) {
	var p Page
	if !c.readJSON(ctx, pageKey(subjectID, index), &p) {
		return CachedPage{}, false
	}
	return CachedPage{Page: p, Stale: c.Stale(p.Timestamp)}, true
}

// GetAllCached returns every cached item of a subject in timeline order.
// When an id appears on several pages the copy from the most recently
// written page wins.
func (c *Cache) GetAllCached(ctx context.Context, subjectID string) []domain.TimelineItem {
	unlock := c.lock(subjectID)
	defer unlock()

	meta, ok := c.metadata(ctx, subjectID)
	if !ok {
		return nil
	}
	return c.allCached(ctx, subjectID, meta)
}

func (c *Cache) allCached(ctx context.Context, subjectID string, meta Metadata) []domain.TimelineItem {
	type versioned struct {
		item domain.TimelineItem
		at   time.Time
	}
	byID := make(map[string]versioned)

	for i := range meta.Pages {
		var p Page
		if !c.readJSON(ctx, pageKey(subjectID, i), &p) {
			continue
		}
		for _, it := range p.Items {
			if prev, ok := byID[it.ID]; ok && prev.at.After(p.Timestamp) {
				continue
			}
			byID[it.ID] = versioned{item: it, at: p.Timestamp}
		}
	}

	items := make([]domain.TimelineItem, 0, len(byID))
	for _, v := range byID {
		items = append(items, v.item)
	}
	domain.SortItems(items)
	return items
}

// MergeNewItems folds items into the cached set, replacing cached copies
// with the same id, keeps the newest SnapshotLimit items and rewrites all
// pages of the subject.
func (c *Cache) MergeNewItems(ctx context.Context, subjectID string, items []domain.TimelineItem) error {
	unlock := c.lock(subjectID)
	defer unlock()

	meta, ok := c.metadata(ctx, subjectID)
	if !ok {
		meta = Metadata{SubjectID: subjectID}
	}

	merged := make(map[string]domain.TimelineItem)
	for _, it := range c.allCached(ctx, subjectID, meta) {
		merged[it.ID] = it
	}
	for _, it := range items {
		merged[it.ID] = it
	}

	all := make([]domain.TimelineItem, 0, len(merged))
	for _, it := range merged {
		all = append(all, it)
	}
	domain.SortItems(all)

	complete := meta.Complete
	if len(all) > c.limit {
		all = all[:c.limit]
		complete = false
	}

	if err := c.clear(ctx, subjectID); err != nil {
		return err
	}
	return c.repaginate(ctx, subjectID, all, complete)
}

func (c *Cache) repaginate(ctx context.Context, subjectID string, items []domain.TimelineItem, complete bool) error {
	now := c.now()
	pages := (len(items) + c.pageSize - 1) / c.pageSize

	for i := range pages {
		chunk := items[i*c.pageSize : min((i+1)*c.pageSize, len(items))]
		p := Page{Items: chunk, Timestamp: now, IsDone: complete && i == pages-1}
		if !p.IsDone {
			cursor := timeline.EncodeCursor(chunk[len(chunk)-1])
			p.Cursor = &cursor
		}
		if err := c.writeJSON(ctx, pageKey(subjectID, i), p); err != nil {
			return err
		}
	}

	return c.writeJSON(ctx, metaKey(subjectID), Metadata{
		SubjectID:  subjectID,
		LastSync:   now,
		TotalItems: len(items),
		Pages:      pages,
		Complete:   complete,
	})
}

// Clear removes all pages and metadata of a subject.
func (c *Cache) Clear(ctx context.Context, subjectID string) error {
	unlock := c.lock(subjectID)
	defer unlock()
	return c.clear(ctx, subjectID)
}

func (c *Cache) clear(ctx context.Context, subjectID string) error {
	keys, err := c.kv.ListKeys(ctx, subjectPrefix(subjectID))
	if err != nil {
		return fmt.Errorf("cache: list %s: %w", subjectID, err)
	}
	var errs []error
	for _, k := range keys {
		if err := c.kv.Delete(ctx, k); err != nil {
			errs = append(errs, fmt.Errorf("cache: delete %s: %w", k, err))
		}
	}
	return errors.Join(errs...)
}

// LastSync returns when the subject's cache was last written. It reports
// false when nothing is cached.
func (c *Cache) LastSync(ctx context.Context, subjectID string) (time.Time, bool) {
	meta, ok := c.metadata(ctx, subjectID)
	if !ok {
		return time.Time{}, false
	}
	return meta.LastSync, true
}

// Meta returns the subject's cache metadata.
func (c *Cache) Meta(ctx context.Context, subjectID string) (Metadata, bool) {
	return c.metadata(ctx, subjectID)
}
