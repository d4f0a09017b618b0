package timeline

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/siron93/moms-app/internal/domain"
)

// source is the outcome of reading one collection with a given window.
type source struct {
	kind    domain.Kind
	records []domain.Record
	// exhausted means the fetch returned fewer records than the window,
	// so nothing older remains in the collection.
	exhausted bool
	err       error
}

// Aggregate returns one page of the subject's timeline.
//
// Each collection is read with an over-fetch window of
// max(floor, pageSize*factor) records starting after the cursor. Items are
// merged into timeline order. A collection that filled its window may hold
// more items older than its last record, so only items up to the earliest
// such horizon are certain to be in order. When those cannot fill the page
// the window is doubled, up to the configured maximum.
//
// A failed collection contributes no items and adds a warning to the page.
// The call fails only when the subject cannot be loaded or every collection
// failed.
func (s *Service) Aggregate(ctx context.Context, in PageInput) (*domain.TimelinePage, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	pageSize := clampLimit(in.Limit, 1, s.cfg.MaxPageSize, s.cfg.DefaultPageSize)
	kinds := in.kinds()

	var after *domain.SortKey
	if in.Cursor != "" {
		if key, ok := DecodeCursor(in.Cursor); ok {
			after = &key
		} else {
			s.log.WarnContext(ctx, "invalid cursor, starting from the newest item",
				slog.String("subject_id", in.SubjectID))
		}
	}

	// A missing subject fails the page and cancels the collection reads.
	// Milestone definitions and collections fail locally and become warnings.
	var (
		subj    domain.Subject
		defs    map[string]domain.MilestoneDefinition
		defsErr error
	)
	window := s.cfg.Window(pageSize)
	sources := make([]source, len(kinds))
	for i, k := range kinds {
		sources[i] = source{kind: k}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if subj, err = s.subjects.GetByID(gctx, in.SubjectID); err != nil {
			return fmt.Errorf("timeline %s: %w", in.SubjectID, err)
		}
		return nil
	})
	if slices.Contains(kinds, domain.KindMilestone) {
		g.Go(func() error {
			defs, defsErr = s.milestoneIndex(gctx)
			return nil
		})
	}
	g.Go(func() error {
		s.fetch(gctx, in.SubjectID, after, window, sources)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if defsErr != nil {
		for i := range sources {
			if sources[i].kind == domain.KindMilestone && sources[i].err == nil {
				sources[i].err = fmt.Errorf("milestone definitions: %w", defsErr)
				sources[i].records = nil
			}
		}
	}

	for {
		page, complete, err := s.assemble(ctx, in.SubjectID, sources, subj, defs, after, pageSize, window)
		if err != nil || complete {
			return page, err
		}
		window = min(window*2, s.cfg.MaxWindow)
		s.log.DebugContext(ctx, "widening timeline window",
			slog.String("subject_id", in.SubjectID),
			slog.Int("window", window))
		s.fetch(ctx, in.SubjectID, after, window, sources)
	}
}

// fetch reads every collection that succeeded earlier but was not exhausted,
// concurrently. Each read gets its own timeout and failures stay local to
// the collection.
func (s *Service) fetch(ctx context.Context, subjectID string, after *domain.SortKey, window int, sources []source) {
	var g errgroup.Group
	for i := range sources {
		src := &sources[i]
		if src.err != nil || src.exhausted {
			continue
		}
		g.Go(func() error {
			q := domain.RecordQuery{Kind: src.kind, SubjectID: subjectID, Limit: window}
			if after != nil {
				bound := after.BoundFor(src.kind)
				q.After = &bound
			}

			fctx, cancel := context.WithTimeout(ctx, s.cfg.FetchTimeout)
			defer cancel()

			records, err := s.records.Query(fctx, q)
			if err != nil {
				s.log.WarnContext(ctx, "collection fetch failed",
					slog.String("subject_id", subjectID),
					slog.String("kind", string(src.kind)),
					slog.String("error", err.Error()))
				src.err = err
				src.records = nil
				return nil
			}
			src.records = records
			src.exhausted = len(records) < window
			return nil
		})
	}
	_ = g.Wait()
}

// assemble merges the sources into a page. It reports complete=false when
// the window must grow before a correct page can be produced.
func (s *Service) assemble(
	ctx context.Context,
	subjectID string,
	sources []source,
	subj domain.Subject,
	defs map[string]domain.MilestoneDefinition,
	after *domain.SortKey,
	pageSize, window int,
) (*domain.TimelinePage, bool, error) {
	var (
		items    []domain.TimelineItem
		warnings []domain.SourceWarning
		horizon  *domain.SortKey
		failed   int
		dropped  int
	)

	for _, src := range sources {
		if src.err != nil {
			failed++
			warnings = append(warnings, domain.SourceWarning{Kind: src.kind, Message: src.err.Error()})
			continue
		}
		for _, rec := range src.records {
			item, ok := s.normalizer.Normalize(rec, subj, defs)
			if !ok {
				dropped++
				continue
			}
			if after != nil && !item.Key().After(*after) {
				continue
			}
			items = append(items, item)
		}
		if !src.exhausted && len(src.records) > 0 {
			last := src.records[len(src.records)-1].Key()
			if horizon == nil || domain.CompareKeys(last, *horizon) < 0 {
				horizon = &last
			}
		}
	}

	if failed == len(sources) {
		return nil, true, fmt.Errorf("timeline %s: %w", subjectID, ErrAllSourcesFailed)
	}
	if dropped > 0 {
		s.log.DebugContext(ctx, "dropped unrenderable records",
			slog.String("subject_id", subjectID),
			slog.Int("count", dropped))
	}

	domain.SortItems(items)
	page := &domain.TimelinePage{Warnings: warnings}

	safe := items
	if horizon != nil {
		if cut := slices.IndexFunc(items, func(it domain.TimelineItem) bool { return it.Key().After(*horizon) }); cut >= 0 {
			safe = items[:cut]
		}
	}

	switch {
	case horizon == nil:
		page.IsDone = len(items) <= pageSize
		page.Items = items[:min(len(items), pageSize)]
		if !page.IsDone {
			page.NextCursor = cursorOf(page.Items[pageSize-1].Key())
		}
	case len(safe) >= pageSize:
		page.Items = safe[:pageSize]
		page.NextCursor = cursorOf(page.Items[pageSize-1].Key())
	case window < s.cfg.MaxWindow:
		return nil, false, nil
	default:
		// Every item up to the horizon is on this page, so resuming at the
		// horizon neither skips nor repeats.
		page.Items = safe
		page.NextCursor = cursorOf(*horizon)
	}
	if page.Items == nil {
		page.Items = []domain.TimelineItem{}
	}
	return page, true, nil
}

func cursorOf(k domain.SortKey) *string {
	token := encodeKey(k)
	return &token
}
