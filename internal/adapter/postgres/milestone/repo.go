// Package milestone implements the milestone reference table repository.
package milestone

import (
	"context"
	"fmt"

	"github.com/georgysavva/scany/v2/pgxscan"

	postgres "github.com/siron93/moms-app/internal/adapter/postgres"
	"github.com/siron93/moms-app/internal/domain"
)

type row struct {
	ID          string  `db:"id"`
	Category    string  `db:"category"`
	Name        string  `db:"name"`
	Description *string `db:"description"`
	IconURL     *string `db:"icon_url"`
	SortOrder   int     `db:"sort_order"`
}

var columns = []string{"id", "category", "name", "description", "icon_url", "sort_order"}

// Repo provides milestone definitions backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new milestone repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

// GetAll returns every milestone definition ordered by category and sort order.
func (r *Repo) GetAll(ctx context.Context) ([]domain.MilestoneDefinition, error) {
	sql, args, err := postgres.Builder.
		Select(columns...).
		From("milestones").
		OrderBy("category", "sort_order", "id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build milestones query: %w", err)
	}

	var rows []row
	if err := pgxscan.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &rows, sql, args...); err != nil {
		return nil, postgres.MapError(err, "milestones", "*")
	}

	defs := make([]domain.MilestoneDefinition, len(rows))
	for i, rw := range rows {
		defs[i] = domain.MilestoneDefinition{
			ID:          rw.ID,
			Category:    rw.Category,
			Name:        rw.Name,
			Description: rw.Description,
			IconURL:     rw.IconURL,
			Order:       rw.SortOrder,
		}
	}
	return defs, nil
}

// Upsert inserts or updates milestone definitions by id.
func (r *Repo) Upsert(ctx context.Context, defs []domain.MilestoneDefinition) error {
	if len(defs) == 0 {
		return nil
	}

	b := postgres.Builder.Insert("milestones").Columns(columns...)
	for _, d := range defs {
		b = b.Values(d.ID, d.Category, d.Name, d.Description, d.IconURL, d.Order)
	}
	sql, args, err := b.Suffix(`ON CONFLICT (id) DO UPDATE SET
		category = EXCLUDED.category,
		name = EXCLUDED.name,
		description = EXCLUDED.description,
		icon_url = EXCLUDED.icon_url,
		sort_order = EXCLUDED.sort_order`).ToSql()
	if err != nil {
		return fmt.Errorf("build milestones upsert: %w", err)
	}

	if _, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx, sql, args...); err != nil {
		return postgres.MapError(err, "milestones", fmt.Sprintf("(%d rows)", len(defs)))
	}
	return nil
}
