// Package record reads the five memory collections (photos, journal entries,
// firsts, growth logs and milestone entries) from PostgreSQL.
package record

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	postgres "github.com/siron93/moms-app/internal/adapter/postgres"
	"github.com/siron93/moms-app/internal/domain"
)

// collection describes the table backing one kind.
type collection struct {
	table   string
	dateCol string
	columns []string
}

var collections = map[domain.Kind]collection{
	domain.KindPhoto: {
		table:   "photos",
		dateCol: "date",
		columns: []string{"id", "subject_id", "caption", "media_urls", "media_types", "local_media_paths", "tags", "date", "created_at", "updated_at"},
	},
	domain.KindJournal: {
		table:   "journal_entries",
		dateCol: "date",
		columns: []string{"id", "subject_id", "title", "content", "tags", "date", "created_at", "updated_at"},
	},
	domain.KindFirst: {
		table:   "firsts",
		dateCol: "date",
		columns: []string{"id", "subject_id", "first_type", "title", "description", "tags", "date", "created_at", "updated_at"},
	},
	domain.KindGrowth: {
		table:   "growth_logs",
		dateCol: "date",
		columns: []string{"id", "subject_id", "weight", "weight_unit", "height", "height_unit", "head_circumference", "head_unit", "notes", "date", "created_at"},
	},
	domain.KindMilestone: {
		table:   "milestone_entries",
		dateCol: "achieved_date",
		columns: []string{"id", "subject_id", "milestone_id", "achieved_date", "notes", "photo_url", "photo_local_path", "metadata", "created_at", "updated_at"},
	},
}

// idDesc orders ids by bytes regardless of the database collation, matching
// the in-memory timeline order.
const idDesc = `id COLLATE "C" DESC`

// Repo provides read access to the memory collections.
type Repo struct {
	db postgres.Querier
}

// New creates a new record repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// Query returns up to q.Limit of the subject's records from one collection,
// newest first. When q.After is set only records strictly after it are returned.
func (r *Repo) Query(ctx context.Context, q domain.RecordQuery) ([]domain.Record, error) {
	c, ok := collections[q.Kind]
	if !ok {
		return nil, domain.NewValidationError("kind", fmt.Sprintf("unknown kind %q", q.Kind))
	}
	if q.Limit <= 0 {
		return nil, domain.NewValidationError("limit", "must be positive")
	}

	b := postgres.Builder.
		Select(c.columns...).
		From(c.table).
		Where(squirrel.Eq{"subject_id": q.SubjectID}).
		OrderBy(c.dateCol+" DESC", idDesc).
		Limit(uint64(q.Limit))
	if q.After != nil {
		b = b.Where(afterBound(c.dateCol, *q.After))
	}

	sql, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build %s query: %w", c.table, err)
	}

	records, err := scan(ctx, postgres.QuerierFromCtx(ctx, r.db), q.Kind, sql, args)
	if err != nil {
		return nil, postgres.MapError(err, c.table, "subject="+q.SubjectID)
	}
	return records, nil
}

// Get returns one record by its collection-local id.
// Returns domain.ErrNotFound if the record does not exist.
func (r *Repo) Get(ctx context.Context, kind domain.Kind, id string) (domain.Record, error) {
	c, ok := collections[kind]
	if !ok {
		return domain.Record{}, domain.NewValidationError("kind", fmt.Sprintf("unknown kind %q", kind))
	}

	sql, args, err := postgres.Builder.
		Select(c.columns...).
		From(c.table).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return domain.Record{}, fmt.Errorf("build %s get: %w", c.table, err)
	}

	records, err := scan(ctx, postgres.QuerierFromCtx(ctx, r.db), kind, sql, args)
	if err == nil && len(records) == 0 {
		err = pgx.ErrNoRows
	}
	if err != nil {
		return domain.Record{}, postgres.MapError(err, c.table, id)
	}
	return records[0], nil
}

// afterBound renders b as a WHERE clause over the collection's date column.
func afterBound(dateCol string, b domain.RecordBound) squirrel.Sqlizer {
	if b.AllAtDate {
		return squirrel.LtOrEq{dateCol: b.Date}
	}
	return squirrel.Or{
		squirrel.Lt{dateCol: b.Date},
		squirrel.And{
			squirrel.Eq{dateCol: b.Date},
			squirrel.Expr(`id COLLATE "C" < ?`, b.ID),
		},
	}
}

func scan(ctx context.Context, q postgres.Querier, kind domain.Kind, sql string, args []any) ([]domain.Record, error) {
	switch kind {
	case domain.KindPhoto:
		return selectAs[photoRow](ctx, q, sql, args)
	case domain.KindJournal:
		return selectAs[journalRow](ctx, q, sql, args)
	case domain.KindFirst:
		return selectAs[firstRow](ctx, q, sql, args)
	case domain.KindGrowth:
		return selectAs[growthRow](ctx, q, sql, args)
	case domain.KindMilestone:
		return selectAs[milestoneRow](ctx, q, sql, args)
	}
	return nil, fmt.Errorf("scan: unknown kind %q", kind)
}

func selectAs[R interface{ toDomain() domain.Record }](ctx context.Context, q postgres.Querier, sql string, args []any) ([]domain.Record, error) {
	var rows []R
	if err := pgxscan.Select(ctx, q, &rows, sql, args...); err != nil {
		return nil, err
	}
	out := make([]domain.Record, len(rows))
	for i, row := range rows {
		out[i] = row.toDomain()
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Write operations (seeding)
// ---------------------------------------------------------------------------

// Insert stores one record in its collection.
func (r *Repo) Insert(ctx context.Context, rec domain.Record) error {
	c, ok := collections[rec.Kind]
	if !ok {
		return domain.NewValidationError("kind", fmt.Sprintf("unknown kind %q", rec.Kind))
	}

	values, err := insertValues(rec)
	if err != nil {
		return err
	}

	sql, args, err := postgres.Builder.
		Insert(c.table).
		Columns(c.columns...).
		Values(values...).
		ToSql()
	if err != nil {
		return fmt.Errorf("build %s insert: %w", c.table, err)
	}

	if _, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx, sql, args...); err != nil {
		return postgres.MapError(err, c.table, rec.RecordID())
	}
	return nil
}

func insertValues(rec domain.Record) ([]any, error) {
	switch {
	case rec.Kind == domain.KindPhoto && rec.Photo != nil:
		p := rec.Photo
		types := make([]string, len(p.MediaTypes))
		for i, t := range p.MediaTypes {
			types[i] = string(t)
		}
		return []any{p.ID, p.SubjectID, p.Caption, p.MediaURLs, types, p.LocalMediaPaths, nonNil(p.Tags), p.Date, p.CreatedAt, p.UpdatedAt}, nil
	case rec.Kind == domain.KindJournal && rec.Journal != nil:
		j := rec.Journal
		return []any{j.ID, j.SubjectID, j.Title, j.Content, nonNil(j.Tags), j.Date, j.CreatedAt, j.UpdatedAt}, nil
	case rec.Kind == domain.KindFirst && rec.First != nil:
		f := rec.First
		return []any{f.ID, f.SubjectID, f.FirstType, f.Title, f.Description, nonNil(f.Tags), f.Date, f.CreatedAt, f.UpdatedAt}, nil
	case rec.Kind == domain.KindGrowth && rec.Growth != nil:
		g := rec.Growth
		return []any{g.ID, g.SubjectID, g.Weight, g.WeightUnit, g.Height, g.HeightUnit, g.HeadCircumference, g.HeadUnit, g.Notes, g.Date, g.CreatedAt}, nil
	case rec.Kind == domain.KindMilestone && rec.Milestone != nil:
		m := rec.Milestone
		meta := m.Metadata
		if meta == nil {
			meta = map[string]string{}
		}
		return []any{m.ID, m.SubjectID, m.MilestoneID, m.AchievedDate, m.Notes, m.PhotoURL, m.PhotoLocalPath, meta, m.CreatedAt, m.UpdatedAt}, nil
	}
	return nil, domain.NewValidationError("record", fmt.Sprintf("no %s payload", rec.Kind))
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
