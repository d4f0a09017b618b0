package timeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/siron93/moms-app/internal/domain"
)

// Item returns one normalized timeline item by its namespaced id
// ("<kind>:<record id>"). Returns domain.ErrNotFound when the record is
// missing, belongs to another subject, or is an orphaned milestone entry.
func (s *Service) Item(ctx context.Context, subjectID, itemID string) (domain.TimelineItem, error) {
	rawKind, recordID, ok := strings.Cut(itemID, ":")
	kind := domain.Kind(rawKind)
	if !ok || recordID == "" || !kind.IsValid() {
		return domain.TimelineItem{}, domain.NewValidationError("item_id", "must be <kind>:<id>")
	}

	subj, err := s.subjects.GetByID(ctx, subjectID)
	if err != nil {
		return domain.TimelineItem{}, fmt.Errorf("timeline %s: %w", subjectID, err)
	}

	rec, err := s.records.Get(ctx, kind, recordID)
	if err != nil {
		return domain.TimelineItem{}, fmt.Errorf("timeline item %s: %w", itemID, err)
	}

	var defs map[string]domain.MilestoneDefinition
	if kind == domain.KindMilestone {
		if defs, err = s.milestoneIndex(ctx); err != nil {
			return domain.TimelineItem{}, fmt.Errorf("milestone definitions: %w", err)
		}
	}

	item, ok := s.normalizer.Normalize(rec, subj, defs)
	if !ok || item.SubjectID != subjectID {
		return domain.TimelineItem{}, fmt.Errorf("timeline item %s: %w", itemID, domain.ErrNotFound)
	}
	return item, nil
}
