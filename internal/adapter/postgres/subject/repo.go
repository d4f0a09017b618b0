// Package subject implements the subject (baby profile) repository.
package subject

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	postgres "github.com/siron93/moms-app/internal/adapter/postgres"
	"github.com/siron93/moms-app/internal/domain"
)

type row struct {
	ID              string    `db:"id"`
	Name            string    `db:"name"`
	BirthDate       time.Time `db:"birth_date"`
	BirthWeight     *float64  `db:"birth_weight"`
	BirthWeightUnit *string   `db:"birth_weight_unit"`
	BirthLength     *float64  `db:"birth_length"`
	BirthLengthUnit *string   `db:"birth_length_unit"`
	CreatedAt       time.Time `db:"created_at"`
}

var columns = []string{"id", "name", "birth_date", "birth_weight", "birth_weight_unit", "birth_length", "birth_length_unit", "created_at"}

// Repo provides subject persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new subject repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

// GetByID returns a subject by primary key.
// Returns domain.ErrNotFound if the subject does not exist.
func (r *Repo) GetByID(ctx context.Context, id string) (domain.Subject, error) {
	sql, args, err := postgres.Builder.
		Select(columns...).
		From("subjects").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return domain.Subject{}, fmt.Errorf("build subject query: %w", err)
	}

	var rw row
	if err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &rw, sql, args...); err != nil {
		return domain.Subject{}, postgres.MapError(err, "subject", id)
	}

	return domain.Subject{
		ID:              rw.ID,
		Name:            rw.Name,
		BirthDate:       rw.BirthDate,
		BirthWeight:     rw.BirthWeight,
		BirthWeightUnit: rw.BirthWeightUnit,
		BirthLength:     rw.BirthLength,
		BirthLengthUnit: rw.BirthLengthUnit,
		CreatedAt:       rw.CreatedAt,
	}, nil
}

// Create inserts a subject.
func (r *Repo) Create(ctx context.Context, s domain.Subject) error {
	sql, args, err := postgres.Builder.
		Insert("subjects").
		Columns(columns...).
		Values(s.ID, s.Name, s.BirthDate, s.BirthWeight, s.BirthWeightUnit, s.BirthLength, s.BirthLengthUnit, s.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build subject insert: %w", err)
	}

	if _, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx, sql, args...); err != nil {
		return postgres.MapError(err, "subject", s.ID)
	}
	return nil
}
