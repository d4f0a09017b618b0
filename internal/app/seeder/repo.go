// Package seeder loads demo subjects, memories and the milestone reference
// table into the database.
package seeder

import (
	"context"

	"github.com/siron93/moms-app/internal/domain"
)

// Store is the write contract consumed by the pipeline. It is satisfied by
// the postgres milestone, subject and record repositories combined.
type Store interface {
	UpsertMilestones(ctx context.Context, defs []domain.MilestoneDefinition) error
	CreateSubject(ctx context.Context, s domain.Subject) error
	InsertRecord(ctx context.Context, rec domain.Record) error
}

// TxRunner runs fn in a transaction. Implemented by postgres.TxManager.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// SubjectData is one subject with all of its memories.
type SubjectData struct {
	Subject domain.Subject
	Records []domain.Record
}

// Dataset is everything a seeding run writes.
type Dataset struct {
	Milestones []domain.MilestoneDefinition
	Subjects   []SubjectData
}
