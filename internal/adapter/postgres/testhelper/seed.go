package testhelper

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/siron93/moms-app/internal/adapter/postgres/milestone"
	"github.com/siron93/moms-app/internal/adapter/postgres/record"
	"github.com/siron93/moms-app/internal/adapter/postgres/subject"
	"github.com/siron93/moms-app/internal/domain"
)

// uniqueSuffix returns a short unique string for generating non-conflicting test data.
func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

// SeedSubject creates a subject born at birth with no recorded measurements.
func SeedSubject(t *testing.T, pool *pgxpool.Pool, birth time.Time) domain.Subject {
	t.Helper()

	s := domain.Subject{
		ID:        "subj-" + uniqueSuffix(),
		Name:      "Baby " + uniqueSuffix(),
		BirthDate: birth.UTC(),
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}
	if err := subject.New(pool).Create(context.Background(), s); err != nil {
		t.Fatalf("testhelper: SeedSubject: %v", err)
	}
	return s
}

// SeedMilestone upserts a milestone definition with a unique id.
func SeedMilestone(t *testing.T, pool *pgxpool.Pool, name string) domain.MilestoneDefinition {
	t.Helper()

	def := domain.MilestoneDefinition{
		ID:       "ms-" + uniqueSuffix(),
		Category: "test",
		Name:     name,
	}
	if err := milestone.New(pool).Upsert(context.Background(), []domain.MilestoneDefinition{def}); err != nil {
		t.Fatalf("testhelper: SeedMilestone: %v", err)
	}
	return def
}

// SeedJournal inserts a journal entry for the subject at date.
func SeedJournal(t *testing.T, pool *pgxpool.Pool, subjectID, id string, date time.Time) domain.Record {
	t.Helper()

	date = date.UTC().Truncate(time.Microsecond)
	rec := domain.Record{Kind: domain.KindJournal, Journal: &domain.JournalRecord{
		ID:        id,
		SubjectID: subjectID,
		Content:   "entry " + id,
		Date:      date,
		CreatedAt: date,
		UpdatedAt: date,
	}}
	seedRecord(t, pool, rec)
	return rec
}

// SeedPhoto inserts a single-image photo for the subject at date.
func SeedPhoto(t *testing.T, pool *pgxpool.Pool, subjectID, id string, date time.Time) domain.Record {
	t.Helper()

	date = date.UTC().Truncate(time.Microsecond)
	rec := domain.Record{Kind: domain.KindPhoto, Photo: &domain.PhotoRecord{
		ID:         id,
		SubjectID:  subjectID,
		MediaURLs:  []string{"https://media.test/" + id + ".jpg"},
		MediaTypes: []domain.MediaType{domain.MediaTypeImage},
		Date:       date,
		CreatedAt:  date,
		UpdatedAt:  date,
	}}
	seedRecord(t, pool, rec)
	return rec
}

// SeedMilestoneEntry inserts a milestone entry referencing milestoneID.
func SeedMilestoneEntry(t *testing.T, pool *pgxpool.Pool, subjectID, id, milestoneID string, achieved time.Time) domain.Record {
	t.Helper()

	achieved = achieved.UTC().Truncate(time.Microsecond)
	rec := domain.Record{Kind: domain.KindMilestone, Milestone: &domain.MilestoneRecord{
		ID:           id,
		SubjectID:    subjectID,
		MilestoneID:  milestoneID,
		AchievedDate: achieved,
		CreatedAt:    achieved,
	}}
	seedRecord(t, pool, rec)
	return rec
}

func seedRecord(t *testing.T, pool *pgxpool.Pool, rec domain.Record) {
	t.Helper()
	if err := record.New(pool).Insert(context.Background(), rec); err != nil {
		t.Fatalf("testhelper: seed %s %s: %v", rec.Kind, rec.RecordID(), err)
	}
}
