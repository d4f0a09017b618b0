// Package timelinesync drives a subject's timeline on the client: it
// decides between cache and network, pages through the feed, and reacts to
// connectivity changes and mutation events.
package timelinesync

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/siron93/moms-app/internal/cache"
	"github.com/siron93/moms-app/internal/config"
	"github.com/siron93/moms-app/internal/domain"
	"github.com/siron93/moms-app/internal/events"
	"github.com/siron93/moms-app/internal/service/timeline"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces
// ---------------------------------------------------------------------------

// Fetcher loads one timeline page. Both the remote API client and the
// in-process timeline service satisfy it.
type Fetcher interface {
	Aggregate(ctx context.Context, in timeline.PageInput) (*domain.TimelinePage, error)
}

type pageCache interface {
	SavePage(ctx context.Context, subjectID string, index int, p cache.Page) error
	GetPage(ctx context.Context, subjectID string, index int) (cache.CachedPage, bool)
	GetAllCached(ctx context.Context, subjectID string) []domain.TimelineItem
	MergeNewItems(ctx context.Context, subjectID string, items []domain.TimelineItem) error
	Clear(ctx context.Context, subjectID string) error
}

// ---------------------------------------------------------------------------
// Controller
// ---------------------------------------------------------------------------

// Controller holds the timeline state of the subject currently on screen.
// Methods block until their fetch completes but never hold the state lock
// across I/O; State may be read concurrently. Results of a fetch that was
// superseded by a subject switch, refresh or connectivity change are
// discarded.
type Controller struct {
	log      *slog.Logger
	fetcher  Fetcher
	cache    pageCache
	pageSize int
	timeout  time.Duration

	mu        sync.Mutex
	subjectID string
	epoch     uint64
	status    Status
	items     []domain.TimelineItem
	cursor    *string
	done      bool
	pageIndex int
	err       error
	offline   bool
	stale     bool
	warnings  []domain.SourceWarning
	kinds     []domain.Kind
	active    []domain.Kind // kind filter of the loaded feed, fixed at its first page
	onChange  func(State)
}

// NewController creates a controller. pages may be nil to run without a
// local cache.
func NewController(logger *slog.Logger, fetcher Fetcher, pages pageCache, cfg config.SyncConfig) *Controller {
	return &Controller{
		log:      logger.With("service", "timelinesync"),
		fetcher:  fetcher,
		cache:    pages,
		pageSize: cfg.PageSize,
		timeout:  cfg.RequestTimeout,
	}
}

// OnChange registers fn to receive every state transition, including cached
// items shown before a revalidating fetch completes.
func (c *Controller) OnChange(fn func(State)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onChange = fn
}

// SetKinds restricts the feed to some collections; it applies from the
// next LoadFirst or Refresh. A restricted feed bypasses the page cache.
func (c *Controller) SetKinds(kinds []domain.Kind) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.kinds = slices.Clone(kinds)
}

// State returns a snapshot of the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stateLocked()
}

func (c *Controller) stateLocked() State {
	return State{
		SubjectID:     c.subjectID,
		Status:        c.status,
		Items:         slices.Clone(c.items),
		IsLoading:     c.status == StatusLoading || c.status == StatusRefreshing,
		IsLoadingMore: c.status == StatusLoadingMore,
		HasMore:       c.subjectID != "" && !c.offline && !c.done,
		Err:           c.err,
		IsOffline:     c.offline,
		Stale:         c.stale,
		Warnings:      slices.Clone(c.warnings),
	}
}

// ticket identifies the request generation a fetch belongs to.
type ticket struct {
	subjectID string
	epoch     uint64
}

func (c *Controller) ticketLocked() ticket {
	c.epoch++
	return ticket{subjectID: c.subjectID, epoch: c.epoch}
}

// apply runs fn under the lock if tk is still current and publishes the
// resulting state. It reports whether fn ran.
func (c *Controller) apply(tk ticket, fn func()) bool {
	c.mu.Lock()
	if tk.epoch != c.epoch || tk.subjectID != c.subjectID {
		c.mu.Unlock()
		return false
	}
	fn()
	st, notify := c.stateLocked(), c.onChange
	c.mu.Unlock()

	if notify != nil {
		notify(st)
	}
	return true
}

func (c *Controller) publish() State {
	c.mu.Lock()
	st, notify := c.stateLocked(), c.onChange
	c.mu.Unlock()

	if notify != nil {
		notify(st)
	}
	return st
}

func (c *Controller) resetLocked() {
	c.active = slices.Clone(c.kinds)
	c.items = nil
	c.cursor = nil
	c.done = false
	c.pageIndex = 0
	c.err = nil
	c.stale = false
	c.warnings = nil
}

// ---------------------------------------------------------------------------
// Operations
// ---------------------------------------------------------------------------

// LoadFirst switches to subjectID and loads its first page. A fresh cached
// page is used as is; a stale one is shown, then revalidated. Offline, the
// cached snapshot is shown with no further pages.
func (c *Controller) LoadFirst(ctx context.Context, subjectID string) State {
	c.mu.Lock()
	c.subjectID = subjectID
	c.resetLocked()
	tk := c.ticketLocked()
	offline := c.offline
	if offline {
		c.status = StatusOffline
	} else {
		c.status = StatusLoading
	}
	c.mu.Unlock()
	c.publish()

	if offline {
		return c.loadSnapshot(ctx, tk)
	}

	if pages := c.pages(); pages != nil {
		if cp, ok := pages.GetPage(ctx, subjectID, 0); ok {
			c.apply(tk, func() {
				c.items = slices.Clone(cp.Items)
				c.cursor = cp.Cursor
				c.done = cp.IsDone
				c.pageIndex = 1
				c.stale = cp.Stale
				if !cp.Stale {
					c.status = StatusReady
				}
			})
			if !cp.Stale {
				return c.State()
			}
			c.log.DebugContext(ctx, "revalidating stale cache", slog.String("subject_id", subjectID))
		}
	}

	return c.fetchFirst(ctx, tk, false)
}

// LoadMore appends the next page. It is a no-op while any load is in
// flight, after the last page, offline, or before LoadFirst.
func (c *Controller) LoadMore(ctx context.Context) State {
	c.mu.Lock()
	if c.subjectID == "" || c.status != StatusReady || c.done || c.offline || c.cursor == nil {
		st := c.stateLocked()
		c.mu.Unlock()
		return st
	}
	c.status = StatusLoadingMore
	tk := ticket{subjectID: c.subjectID, epoch: c.epoch}
	cursor := *c.cursor
	index := c.pageIndex
	c.mu.Unlock()
	c.publish()

	page, err := c.fetch(ctx, tk.subjectID, cursor)
	if err != nil {
		c.fail(ctx, tk, err)
		return c.State()
	}

	var pages pageCache
	applied := c.apply(tk, func() {
		pages = c.pagesLocked()
		seen := make(map[string]bool, len(c.items))
		for _, it := range c.items {
			seen[it.ID] = true
		}
		for _, it := range page.Items {
			if !seen[it.ID] {
				c.items = append(c.items, it)
			}
		}
		c.cursor = page.NextCursor
		c.done = page.IsDone
		c.warnings = page.Warnings
		c.err = nil
		c.pageIndex = index + 1
		c.status = StatusReady
	})
	if applied && pages != nil {
		if err := pages.SavePage(ctx, tk.subjectID, index, toCachePage(page)); err != nil {
			c.log.WarnContext(ctx, "cache save failed", slog.String("subject_id", tk.subjectID), slog.String("error", err.Error()))
		}
	}
	return c.State()
}

// Refresh drops pagination state and reloads the first page, clearing the
// subject's cache. Offline it reloads the cached snapshot instead.
func (c *Controller) Refresh(ctx context.Context) State {
	c.mu.Lock()
	if c.subjectID == "" {
		st := c.stateLocked()
		c.mu.Unlock()
		return st
	}
	tk := c.ticketLocked()
	if c.offline {
		c.mu.Unlock()
		return c.loadSnapshot(ctx, tk)
	}
	c.resetLocked()
	c.status = StatusRefreshing
	c.mu.Unlock()
	c.publish()

	if pages := c.pages(); pages != nil {
		if err := pages.Clear(ctx, tk.subjectID); err != nil {
			c.log.WarnContext(ctx, "cache clear failed", slog.String("subject_id", tk.subjectID), slog.String("error", err.Error()))
		}
	}
	return c.fetchFirst(ctx, tk, false)
}

// SetOnline records a connectivity change. Going offline shows the cached
// snapshot; reconnecting forces a refresh.
func (c *Controller) SetOnline(ctx context.Context, online bool) State {
	c.mu.Lock()
	if c.offline == !online {
		st := c.stateLocked()
		c.mu.Unlock()
		return st
	}
	c.offline = !online
	if c.subjectID == "" {
		st := c.stateLocked()
		c.mu.Unlock()
		return st
	}
	tk := c.ticketLocked()
	if !online {
		c.status = StatusOffline
		c.mu.Unlock()
		c.log.InfoContext(ctx, "connectivity lost", slog.String("subject_id", tk.subjectID))
		return c.loadSnapshot(ctx, tk)
	}
	c.mu.Unlock()

	c.log.InfoContext(ctx, "connectivity restored", slog.String("subject_id", tk.subjectID))
	return c.Refresh(ctx)
}

// Watch refreshes the current subject when bus reports a mutation for it.
// New memories are merged into the cache instead of clearing it. The
// returned func stops watching.
func (c *Controller) Watch(ctx context.Context, bus *events.Bus) (unsubscribe func()) {
	return bus.Subscribe(func(e events.Event) {
		c.mu.Lock()
		subjectID := c.subjectID
		c.mu.Unlock()
		if subjectID == "" || (e.SubjectID != "" && e.SubjectID != subjectID) {
			return
		}

		if e.Topic == events.TimelineRefreshNeeded {
			go c.Refresh(ctx)
			return
		}
		go c.sync(ctx)
	}, events.MemoryAdded, events.MilestoneUpdated, events.TimelineRefreshNeeded)
}

// sync reloads the first page without blanking the visible items first, and merges
// it into the cache.
func (c *Controller) sync(ctx context.Context) State {
	c.mu.Lock()
	if c.subjectID == "" || c.offline {
		st := c.stateLocked()
		c.mu.Unlock()
		return st
	}
	tk := c.ticketLocked()
	c.status = StatusRefreshing
	c.mu.Unlock()
	c.publish()

	return c.fetchFirst(ctx, tk, true)
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func (c *Controller) fetchFirst(ctx context.Context, tk ticket, merge bool) State {
	page, err := c.fetch(ctx, tk.subjectID, "")
	if err != nil {
		c.fail(ctx, tk, err)
		return c.State()
	}

	var pages pageCache
	applied := c.apply(tk, func() {
		pages = c.pagesLocked()
		c.items = slices.Clone(page.Items)
		c.cursor = page.NextCursor
		c.done = page.IsDone
		c.warnings = page.Warnings
		c.err = nil
		c.stale = false
		c.pageIndex = 1
		c.status = StatusReady
	})
	if !applied || pages == nil {
		return c.State()
	}

	if merge {
		err = pages.MergeNewItems(ctx, tk.subjectID, page.Items)
	} else {
		err = pages.SavePage(ctx, tk.subjectID, 0, toCachePage(page))
	}
	if err != nil {
		c.log.WarnContext(ctx, "cache write failed", slog.String("subject_id", tk.subjectID), slog.String("error", err.Error()))
	}
	return c.State()
}

func (c *Controller) fetch(ctx context.Context, subjectID, cursor string) (*domain.TimelinePage, error) {
	c.mu.Lock()
	kinds := c.active
	c.mu.Unlock()

	fctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	page, err := c.fetcher.Aggregate(fctx, timeline.PageInput{
		SubjectID: subjectID,
		Cursor:    cursor,
		Limit:     c.pageSize,
		Kinds:     kinds,
	})
	if err != nil {
		return nil, fmt.Errorf("fetch timeline %s: %w", subjectID, err)
	}
	return page, nil
}

// fail records a fetch error. Items already shown stay visible.
func (c *Controller) fail(ctx context.Context, tk ticket, err error) {
	c.log.WarnContext(ctx, "timeline fetch failed", slog.String("subject_id", tk.subjectID), slog.String("error", err.Error()))
	c.apply(tk, func() {
		c.err = err
		if c.offline {
			c.status = StatusOffline
		} else {
			c.status = StatusReady
		}
	})
}

func (c *Controller) loadSnapshot(ctx context.Context, tk ticket) State {
	c.mu.Lock()
	kinds := c.active
	c.mu.Unlock()

	items := []domain.TimelineItem{}
	if c.cache != nil {
		for _, it := range c.cache.GetAllCached(ctx, tk.subjectID) {
			if len(kinds) == 0 || slices.Contains(kinds, it.Kind) {
				items = append(items, it)
			}
		}
	}

	c.apply(tk, func() {
		c.items = items
		c.cursor = nil
		c.err = nil
		c.stale = false
		c.warnings = nil
		c.status = StatusOffline
	})
	return c.State()
}

// pages returns the cache for the loaded feed. The cache holds the unfiltered
// timeline only, so a feed restricted to some kinds neither reads nor writes
// pages; offline it still filters the full snapshot.
func (c *Controller) pages() pageCache {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pagesLocked()
}

func (c *Controller) pagesLocked() pageCache {
	if len(c.active) > 0 {
		return nil
	}
	return c.cache
}

func toCachePage(p *domain.TimelinePage) cache.Page {
	return cache.Page{Items: p.Items, Cursor: p.NextCursor, IsDone: p.IsDone}
}
