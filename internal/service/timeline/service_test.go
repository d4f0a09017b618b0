package timeline

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/siron93/moms-app/internal/adapter/memstore"
	"github.com/siron93/moms-app/internal/config"
	"github.com/siron93/moms-app/internal/domain"
)

// ===========================================================================
// Manual mocks (moq-style with func fields)
// ===========================================================================

type mockRecordStore struct {
	QueryFunc func(ctx context.Context, q domain.RecordQuery) ([]domain.Record, error)
	GetFunc   func(ctx context.Context, kind domain.Kind, id string) (domain.Record, error)
}

func (m *mockRecordStore) Query(ctx context.Context, q domain.RecordQuery) ([]domain.Record, error) {
	if m.QueryFunc != nil {
		return m.QueryFunc(ctx, q)
	}
	return nil, nil
}

func (m *mockRecordStore) Get(ctx context.Context, kind domain.Kind, id string) (domain.Record, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, kind, id)
	}
	return domain.Record{}, domain.ErrNotFound
}

type mockMilestoneRef struct {
	GetAllFunc func(ctx context.Context) ([]domain.MilestoneDefinition, error)
}

func (m *mockMilestoneRef) GetAll(ctx context.Context) ([]domain.MilestoneDefinition, error) {
	if m.GetAllFunc != nil {
		return m.GetAllFunc(ctx)
	}
	return nil, nil
}

type mockSubjectRepo struct {
	GetByIDFunc func(ctx context.Context, id string) (domain.Subject, error)
}

func (m *mockSubjectRepo) GetByID(ctx context.Context, id string) (domain.Subject, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return domain.Subject{ID: id, BirthDate: birth}, nil
}

// ===========================================================================
// Fixtures
// ===========================================================================

var (
	birth = time.Date(2024, 1, 1, 6, 0, 0, 0, time.UTC)
	day1  = birth.AddDate(0, 1, 0)
	day2  = day1.Add(24 * time.Hour)
	day3  = day2.Add(24 * time.Hour)
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig() config.TimelineConfig {
	return config.TimelineConfig{
		DefaultPageSize: 20,
		MaxPageSize:     50,
		OverfetchFloor:  100,
		OverfetchFactor: 2,
		MaxWindow:       1600,
		FetchTimeout:    time.Second,
		BirthWindow:     24 * time.Hour,
		BirthTitle:      "Welcome to the world",
	}
}

func newStore() *memstore.Store {
	s := memstore.New()
	s.PutSubject(domain.Subject{ID: "s1", Name: "Ada", BirthDate: birth})
	s.PutMilestones(
		domain.MilestoneDefinition{ID: "ms-smile", Category: "social", Name: "First Smile", Order: 1},
		domain.MilestoneDefinition{ID: "ms-word", Category: "language", Name: domain.FirstWordMilestone, Order: 2},
	)
	return s
}

func newMemService(store *memstore.Store, cfg config.TimelineConfig) *Service {
	return NewService(testLogger(), store, store, store, cfg)
}

func photoRec(id string, date time.Time) domain.Record {
	return domain.Record{Kind: domain.KindPhoto, Photo: &domain.PhotoRecord{
		ID:         id,
		SubjectID:  "s1",
		MediaURLs:  []string{"https://media.test/" + id + ".jpg"},
		MediaTypes: []domain.MediaType{domain.MediaTypeImage},
		Date:       date,
		CreatedAt:  date,
		UpdatedAt:  date,
	}}
}

func journalRec(id string, date time.Time) domain.Record {
	return domain.Record{Kind: domain.KindJournal, Journal: &domain.JournalRecord{
		ID: id, SubjectID: "s1", Content: "entry " + id, Date: date, CreatedAt: date, UpdatedAt: date,
	}}
}

func firstRec(id string, date time.Time) domain.Record {
	return domain.Record{Kind: domain.KindFirst, First: &domain.FirstRecord{
		ID: id, SubjectID: "s1", FirstType: "food", Title: "First " + id, Date: date, CreatedAt: date, UpdatedAt: date,
	}}
}

func growthRec(id string, date time.Time) domain.Record {
	w, unit := 5.1, "kg"
	return domain.Record{Kind: domain.KindGrowth, Growth: &domain.GrowthRecord{
		ID: id, SubjectID: "s1", Weight: &w, WeightUnit: &unit, Date: date, CreatedAt: date,
	}}
}

func milestoneRec(id, milestoneID string, date time.Time) domain.Record {
	return domain.Record{Kind: domain.KindMilestone, Milestone: &domain.MilestoneRecord{
		ID: id, SubjectID: "s1", MilestoneID: milestoneID, AchievedDate: date, CreatedAt: date,
	}}
}

func itemIDs(items []domain.TimelineItem) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}
