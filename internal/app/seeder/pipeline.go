package seeder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/siron93/moms-app/internal/domain"
)

// allPhases defines the canonical execution order.
var allPhases = []string{"milestones", "fixture", "generate"}

// PhaseResult holds the outcome of a single pipeline phase.
type PhaseResult struct {
	Inserted int
	Skipped  int
	Errors   int
	Duration time.Duration
	Err      error
}

// Pipeline orchestrates the seeding phases.
type Pipeline struct {
	log     *slog.Logger
	store   Store
	tx      TxRunner
	cfg     Config
	now     func() time.Time
	results map[string]PhaseResult

	// milestones written by the milestones phase, referenced by generate.
	defs []domain.MilestoneDefinition
}

// NewPipeline creates a new Pipeline.
func NewPipeline(log *slog.Logger, store Store, tx TxRunner, cfg Config) *Pipeline {
	return &Pipeline{
		log:     log,
		store:   store,
		tx:      tx,
		cfg:     cfg,
		now:     time.Now,
		results: make(map[string]PhaseResult),
	}
}

// Results returns phase results after Run completes.
func (p *Pipeline) Results() map[string]PhaseResult {
	return p.results
}

// HasErrors returns true if any phase recorded errors.
func (p *Pipeline) HasErrors() bool {
	for _, r := range p.results {
		if r.Err != nil || r.Errors > 0 {
			return true
		}
	}
	return false
}

// Run executes the pipeline. If phases is non-empty, only the listed phases
// run, still in canonical order.
func (p *Pipeline) Run(ctx context.Context, phases []string) error {
	toRun := allPhases
	if len(phases) > 0 {
		filter := make(map[string]bool, len(phases))
		for _, ph := range phases {
			filter[ph] = true
		}
		var filtered []string
		for _, ph := range allPhases {
			if filter[ph] {
				filtered = append(filtered, ph)
				delete(filter, ph)
			}
		}
		for ph := range filter {
			return fmt.Errorf("unknown phase %q", ph)
		}
		toRun = filtered
	}

	var fixture *Dataset
	if p.cfg.FixturePath != "" {
		f, err := os.Open(p.cfg.FixturePath)
		if err != nil {
			return fmt.Errorf("open fixture: %w", err)
		}
		fixture, err = LoadFixture(f)
		f.Close()
		if err != nil {
			return err
		}
	}

	for _, phase := range toRun {
		if err := ctx.Err(); err != nil {
			return err
		}

		start := time.Now()
		p.log.Info("starting phase", slog.String("phase", phase))

		var result PhaseResult
		switch phase {
		case "milestones":
			result = p.runMilestones(ctx, fixture)
		case "fixture":
			result = p.runFixture(ctx, fixture, len(phases) > 0)
		case "generate":
			result = p.runGenerate(ctx)
		}
		result.Duration = time.Since(start)
		p.results[phase] = result

		if result.Err != nil {
			p.log.Warn("phase failed",
				slog.String("phase", phase),
				slog.String("error", result.Err.Error()),
				slog.Duration("duration", result.Duration),
			)
		} else {
			p.log.Info("phase completed",
				slog.String("phase", phase),
				slog.Int("inserted", result.Inserted),
				slog.Int("skipped", result.Skipped),
				slog.Int("errors", result.Errors),
				slog.Duration("duration", result.Duration),
			)
		}
	}

	p.log.Info("pipeline completed", slog.Int("phases_run", len(toRun)))
	return nil
}

// runMilestones upserts the built-in reference table plus any fixture
// definitions. Fixture rows override built-ins with the same id.
func (p *Pipeline) runMilestones(ctx context.Context, fixture *Dataset) PhaseResult {
	byID := make(map[string]int)
	var defs []domain.MilestoneDefinition
	add := func(d domain.MilestoneDefinition) {
		if i, ok := byID[d.ID]; ok {
			defs[i] = d
			return
		}
		byID[d.ID] = len(defs)
		defs = append(defs, d)
	}
	for _, d := range defaultMilestones() {
		add(d)
	}
	if fixture != nil {
		for _, d := range fixture.Milestones {
			add(d)
		}
	}
	p.defs = defs

	if p.cfg.DryRun {
		return PhaseResult{Skipped: len(defs)}
	}
	if err := p.store.UpsertMilestones(ctx, defs); err != nil {
		return PhaseResult{Err: fmt.Errorf("upsert milestones: %w", err)}
	}
	return PhaseResult{Inserted: len(defs)}
}

// runFixture writes the fixture subjects. Without a fixture it is a no-op
// unless the phase was requested explicitly.
func (p *Pipeline) runFixture(ctx context.Context, fixture *Dataset, requested bool) PhaseResult {
	if fixture == nil {
		if requested {
			return PhaseResult{Skipped: 1, Err: errors.New("fixture path not configured")}
		}
		return PhaseResult{}
	}
	return p.writeSubjects(ctx, fixture.Subjects)
}

func (p *Pipeline) runGenerate(ctx context.Context) PhaseResult {
	if p.cfg.GenerateSubjects <= 0 {
		return PhaseResult{}
	}
	defs := p.defs
	if defs == nil {
		defs = defaultMilestones()
	}
	subjects := Generate(p.cfg.Seed, p.cfg.GenerateSubjects, p.cfg.GeneratePerKind, p.cfg.GenerateDays, p.now(), defs)
	return p.writeSubjects(ctx, subjects)
}

// writeSubjects writes each subject and its records in one transaction.
// A subject that already exists is skipped whole.
func (p *Pipeline) writeSubjects(ctx context.Context, subjects []SubjectData) PhaseResult {
	var res PhaseResult
	for _, sd := range subjects {
		if p.cfg.DryRun {
			res.Skipped += 1 + len(sd.Records)
			continue
		}

		err := p.tx.RunInTx(ctx, func(ctx context.Context) error {
			if err := p.store.CreateSubject(ctx, sd.Subject); err != nil {
				return err
			}
			for _, rec := range sd.Records {
				if err := p.store.InsertRecord(ctx, rec); err != nil {
					return err
				}
			}
			return nil
		})

		switch {
		case err == nil:
			res.Inserted += 1 + len(sd.Records)
		case errors.Is(err, domain.ErrConflict):
			p.log.Info("subject already seeded", slog.String("subject_id", sd.Subject.ID))
			res.Skipped += 1 + len(sd.Records)
		case ctx.Err() != nil:
			res.Err = ctx.Err()
			return res
		default:
			p.log.Warn("seed subject failed",
				slog.String("subject_id", sd.Subject.ID),
				slog.String("error", err.Error()),
			)
			res.Errors++
		}
	}
	return res
}
