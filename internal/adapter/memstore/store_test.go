package memstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siron93/moms-app/internal/domain"
)

var day = time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)

func journal(id, subjectID string, date time.Time) domain.Record {
	return domain.Record{Kind: domain.KindJournal, Journal: &domain.JournalRecord{
		ID: id, SubjectID: subjectID, Content: id, Date: date,
	}}
}

func recordIDs(records []domain.Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.RecordID()
	}
	return out
}

func TestStore_Query_OrderLimitAndBound(t *testing.T) {
	t.Parallel()

	s := New()
	for _, rec := range []domain.Record{
		journal("j1", "s1", day),
		journal("j3", "s1", day),
		journal("j2", "s1", day.Add(time.Hour)),
		journal("j4", "s1", day.Add(-time.Hour)),
		journal("other", "s2", day),
	} {
		require.NoError(t, s.Add(rec))
	}

	ctx := context.Background()
	got, err := s.Query(ctx, domain.RecordQuery{Kind: domain.KindJournal, SubjectID: "s1", Limit: 3})
	require.NoError(t, err)
	assert.Equal(t, []string{"j2", "j3", "j1"}, recordIDs(got))

	bound := domain.SortKey{Date: day, ID: "journal:j3"}.BoundFor(domain.KindJournal)
	got, err = s.Query(ctx, domain.RecordQuery{Kind: domain.KindJournal, SubjectID: "s1", After: &bound, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, []string{"j1", "j4"}, recordIDs(got))
}

func TestStore_AddReplacesByID(t *testing.T) {
	t.Parallel()

	s := New()
	require.NoError(t, s.Add(journal("j1", "s1", day)))
	require.NoError(t, s.Add(journal("j1", "s1", day.Add(time.Hour))))

	got, err := s.Get(context.Background(), domain.KindJournal, "j1")
	require.NoError(t, err)
	assert.Equal(t, day.Add(time.Hour), got.Journal.Date)

	all, err := s.Query(context.Background(), domain.RecordQuery{Kind: domain.KindJournal, SubjectID: "s1", Limit: 10})
	require.NoError(t, err)
	assert.Len(t, all, 1)

	assert.True(t, s.Delete(domain.KindJournal, "j1"))
	assert.False(t, s.Delete(domain.KindJournal, "j1"))
}

func TestStore_NotFoundAndValidation(t *testing.T) {
	t.Parallel()

	s := New()
	ctx := context.Background()

	_, err := s.GetByID(ctx, "nobody")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = s.Get(ctx, domain.KindPhoto, "p1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = s.Query(ctx, domain.RecordQuery{Kind: domain.KindPhoto, SubjectID: "s1"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	assert.ErrorIs(t, s.Add(domain.Record{Kind: domain.KindPhoto}), domain.ErrValidation)
}

func TestStore_QueryHonoursCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New().Query(ctx, domain.RecordQuery{Kind: domain.KindPhoto, SubjectID: "s1", Limit: 1})
	assert.ErrorIs(t, err, context.Canceled)
}
