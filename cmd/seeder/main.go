// Command seeder loads the milestone reference table and demo subjects
// with their memories. It is intended to be run against development and
// staging databases, not as part of the main server.
//
// Flags:
//
//	--phase          comma-separated list of phases to run (default: all)
//	--fixture        YAML fixture of subjects and memories
//	--generate       number of synthetic subjects to generate
//	--dry-run        build the dataset without writing to DB
//	--seeder-config  path to seeder YAML config file
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/siron93/moms-app/internal/adapter/postgres"
	"github.com/siron93/moms-app/internal/adapter/postgres/milestone"
	"github.com/siron93/moms-app/internal/adapter/postgres/record"
	"github.com/siron93/moms-app/internal/adapter/postgres/subject"
	"github.com/siron93/moms-app/internal/app"
	"github.com/siron93/moms-app/internal/app/seeder"
	"github.com/siron93/moms-app/internal/config"
	"github.com/siron93/moms-app/internal/domain"
)

// store adapts the postgres repositories to seeder.Store.
type store struct {
	milestones *milestone.Repo
	subjects   *subject.Repo
	records    *record.Repo
}

// Compile-time interface assertion.
var _ seeder.Store = (*store)(nil)

func (s *store) UpsertMilestones(ctx context.Context, defs []domain.MilestoneDefinition) error {
	return s.milestones.Upsert(ctx, defs)
}

func (s *store) CreateSubject(ctx context.Context, subj domain.Subject) error {
	return s.subjects.Create(ctx, subj)
}

func (s *store) InsertRecord(ctx context.Context, rec domain.Record) error {
	return s.records.Insert(ctx, rec)
}

func main() {
	phaseFlag := flag.String("phase", "", "comma-separated phases to run (default: all)")
	fixtureFlag := flag.String("fixture", "", "YAML fixture of subjects and memories")
	generateFlag := flag.Int("generate", -1, "number of synthetic subjects to generate")
	dryRunFlag := flag.Bool("dry-run", false, "build the dataset without writing to DB")
	seederConfigFlag := flag.String("seeder-config", "", "path to seeder YAML config file")
	flag.Parse()

	// Load app config (for DB connection).
	appCfg, err := config.Load()
	if err != nil {
		log.Fatalf("load app config: %v", err)
	}

	logger := app.NewLogger(appCfg.Log)

	seederCfg, err := seeder.LoadConfig(*seederConfigFlag)
	if err != nil {
		logger.Error("load seeder config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// CLI flags override config.
	if *fixtureFlag != "" {
		seederCfg.FixturePath = *fixtureFlag
	}
	if *generateFlag >= 0 {
		seederCfg.GenerateSubjects = *generateFlag
	}
	if *dryRunFlag {
		seederCfg.DryRun = true
	}

	var phases []string
	if *phaseFlag != "" {
		phases = strings.Split(*phaseFlag, ",")
		for i := range phases {
			phases[i] = strings.TrimSpace(phases[i])
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, appCfg.Database)
	if err != nil {
		logger.Error("connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	st := &store{
		milestones: milestone.New(pool),
		subjects:   subject.New(pool),
		records:    record.New(pool),
	}

	pipeline := seeder.NewPipeline(logger, st, postgres.NewTxManager(pool), *seederCfg)
	if err := pipeline.Run(ctx, phases); err != nil {
		logger.Error("pipeline failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if pipeline.HasErrors() {
		logger.Warn("pipeline completed with errors")
		os.Exit(1)
	}

	logger.Info("pipeline completed successfully")
}
