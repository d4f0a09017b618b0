// Package memstore is an in-memory record store, milestone table and subject
// repository. It backs tests and the offline demo dataset.
package memstore

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/siron93/moms-app/internal/domain"
)

// Store holds subjects, milestone definitions and the five collections.
// It is safe for concurrent use.
type Store struct {
	mu         sync.RWMutex
	subjects   map[string]domain.Subject
	milestones []domain.MilestoneDefinition
	records    map[domain.Kind][]entry
}

type entry struct {
	subjectID string
	key       domain.SortKey
	rec       domain.Record
}

// New returns an empty store.
func New() *Store {
	return &Store{
		subjects: make(map[string]domain.Subject),
		records:  make(map[domain.Kind][]entry),
	}
}

// PutSubject inserts or replaces a subject.
func (s *Store) PutSubject(subj domain.Subject) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subjects[subj.ID] = subj
}

// PutMilestones replaces the milestone reference table.
func (s *Store) PutMilestones(defs ...domain.MilestoneDefinition) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.milestones = slices.Clone(defs)
}

// Add inserts or replaces a record, keyed by its collection-local id.
func (s *Store) Add(rec domain.Record) error {
	subjectID, date, err := recordMeta(rec)
	if err != nil {
		return err
	}
	e := entry{
		subjectID: subjectID,
		key:       domain.SortKey{Date: date, ID: rec.RecordID()},
		rec:       rec,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	list := slices.DeleteFunc(s.records[rec.Kind], func(o entry) bool { return o.key.ID == e.key.ID })
	list = append(list, e)
	// Raw ids share the collection, so ordering them like item ids is equivalent.
	slices.SortFunc(list, func(a, b entry) int { return domain.CompareKeys(a.key, b.key) })
	s.records[rec.Kind] = list
	return nil
}

// Delete removes a record. It reports whether the record existed.
func (s *Store) Delete(kind domain.Kind, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	before := len(s.records[kind])
	s.records[kind] = slices.DeleteFunc(s.records[kind], func(e entry) bool { return e.key.ID == id })
	return len(s.records[kind]) != before
}

// ---------------------------------------------------------------------------
// Consumer interfaces
// ---------------------------------------------------------------------------

// Query returns up to q.Limit of the subject's records, newest first.
func (s *Store) Query(ctx context.Context, q domain.RecordQuery) ([]domain.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !q.Kind.IsValid() {
		return nil, domain.NewValidationError("kind", fmt.Sprintf("unknown kind %q", q.Kind))
	}
	if q.Limit <= 0 {
		return nil, domain.NewValidationError("limit", "must be positive")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.Record
	for _, e := range s.records[q.Kind] {
		if e.subjectID != q.SubjectID {
			continue
		}
		if q.After != nil && !q.After.Admits(e.key.Date, e.key.ID) {
			continue
		}
		out = append(out, e.rec)
		if len(out) == q.Limit {
			break
		}
	}
	return out, nil
}

// Get returns one record by its collection-local id.
func (s *Store) Get(ctx context.Context, kind domain.Kind, id string) (domain.Record, error) {
	if err := ctx.Err(); err != nil {
		return domain.Record{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, e := range s.records[kind] {
		if e.key.ID == id {
			return e.rec, nil
		}
	}
	return domain.Record{}, fmt.Errorf("%s %s: %w", kind, id, domain.ErrNotFound)
}

// GetAll returns the milestone reference table.
func (s *Store) GetAll(ctx context.Context) ([]domain.MilestoneDefinition, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.milestones), nil
}

// GetByID returns a subject.
func (s *Store) GetByID(ctx context.Context, id string) (domain.Subject, error) {
	if err := ctx.Err(); err != nil {
		return domain.Subject{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	subj, ok := s.subjects[id]
	if !ok {
		return domain.Subject{}, fmt.Errorf("subject %s: %w", id, domain.ErrNotFound)
	}
	return subj, nil
}

func recordMeta(rec domain.Record) (subjectID string, date time.Time, err error) {
	switch {
	case rec.Kind == domain.KindPhoto && rec.Photo != nil:
		return rec.Photo.SubjectID, rec.Photo.Date, nil
	case rec.Kind == domain.KindJournal && rec.Journal != nil:
		return rec.Journal.SubjectID, rec.Journal.Date, nil
	case rec.Kind == domain.KindFirst && rec.First != nil:
		return rec.First.SubjectID, rec.First.Date, nil
	case rec.Kind == domain.KindGrowth && rec.Growth != nil:
		return rec.Growth.SubjectID, rec.Growth.Date, nil
	case rec.Kind == domain.KindMilestone && rec.Milestone != nil:
		return rec.Milestone.SubjectID, rec.Milestone.AchievedDate, nil
	}
	return "", time.Time{}, domain.NewValidationError("record", fmt.Sprintf("no %s payload", rec.Kind))
}
