// Package timeline merges a subject's five memory collections into one
// reverse-chronological, cursor-paginated feed.
package timeline

import (
	"context"
	"errors"
	"log/slog"

	"github.com/siron93/moms-app/internal/config"
	"github.com/siron93/moms-app/internal/domain"
)

// ErrAllSourcesFailed is returned when no queried collection could be read.
var ErrAllSourcesFailed = errors.New("all timeline sources failed")

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type recordStore interface {
	Query(ctx context.Context, q domain.RecordQuery) ([]domain.Record, error)
	Get(ctx context.Context, kind domain.Kind, id string) (domain.Record, error)
}

type milestoneRef interface {
	GetAll(ctx context.Context) ([]domain.MilestoneDefinition, error)
}

type subjectRepo interface {
	GetByID(ctx context.Context, id string) (domain.Subject, error)
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service implements timeline aggregation.
type Service struct {
	log        *slog.Logger
	records    recordStore
	milestones milestoneRef
	subjects   subjectRepo
	normalizer Normalizer
	cfg        config.TimelineConfig
}

// NewService creates a new timeline service.
func NewService(
	logger *slog.Logger,
	records recordStore,
	milestones milestoneRef,
	subjects subjectRepo,
	cfg config.TimelineConfig,
) *Service {
	return &Service{
		log:        logger.With("service", "timeline"),
		records:    records,
		milestones: milestones,
		subjects:   subjects,
		normalizer: NewNormalizer(cfg),
		cfg:        cfg,
	}
}

// Milestones returns the milestone reference table.
func (s *Service) Milestones(ctx context.Context) ([]domain.MilestoneDefinition, error) {
	return s.milestones.GetAll(ctx)
}

func (s *Service) milestoneIndex(ctx context.Context) (map[string]domain.MilestoneDefinition, error) {
	defs, err := s.milestones.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	idx := make(map[string]domain.MilestoneDefinition, len(defs))
	for _, d := range defs {
		idx[d.ID] = d
	}
	return idx, nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// clampLimit ensures a limit is within [min, max], defaulting from 0 to defaultVal.
func clampLimit(limit, min, max, defaultVal int) int {
	if limit <= 0 {
		return defaultVal
	}
	if limit < min {
		return min
	}
	if limit > max {
		return max
	}
	return limit
}
