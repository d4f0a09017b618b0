// Package cli implements storyctl, a terminal client for the timeline API
// with an on-disk page cache.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/siron93/moms-app/internal/adapter/localstore"
	"github.com/siron93/moms-app/internal/adapter/timelineapi"
	"github.com/siron93/moms-app/internal/app"
	"github.com/siron93/moms-app/internal/cache"
	"github.com/siron93/moms-app/internal/config"
	"github.com/siron93/moms-app/internal/timelinesync"
)

var errCacheDisabled = errors.New("cache is disabled (cache.enabled=false)")

// env holds what every subcommand needs. It is filled in PersistentPreRunE.
type env struct {
	load func() (*config.Config, error)

	cfg    *config.Config
	log    *slog.Logger
	client *timelineapi.Client
	cache  *cache.Cache // nil when disabled
	out    io.Writer
}

// New returns the storyctl root command.
func New() *cobra.Command {
	return newRoot(config.LoadClient)
}

func newRoot(load func() (*config.Config, error)) *cobra.Command {
	e := &env{load: load}

	cmd := &cobra.Command{
		Use:           "storyctl",
		Short:         "Browse a baby's memory timeline from the command line.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return e.init(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	addTimeline(cmd, e)
	addItem(cmd, e)
	addRefresh(cmd, e)
	addCache(cmd, e)
	addWatch(cmd, e)
	return cmd
}

func (e *env) init(cmd *cobra.Command) error {
	cfg, err := e.load()
	if err != nil {
		return err
	}
	e.cfg = cfg
	e.out = cmd.OutOrStdout()
	e.log = app.NewLoggerTo(cmd.ErrOrStderr(), cfg.Log)
	e.client = timelineapi.NewClient(cfg.Sync.APIURL, cfg.Sync.RequestTimeout, e.log)

	if cfg.Cache.Enabled {
		kv := localstore.OpenDisk(cfg.Cache.Dir, cfg.Cache.MemoryBytes)
		e.cache = cache.New(e.log, kv, cfg.Cache)
	}
	return nil
}

// controller builds a sync controller over the API client and, when
// enabled, the disk cache.
func (e *env) controller() *timelinesync.Controller {
	if e.cache == nil {
		return timelinesync.NewController(e.log, e.client, nil, e.cfg.Sync)
	}
	return timelinesync.NewController(e.log, e.client, e.cache, e.cfg.Sync)
}

// loadPages loads the first page and then up to pages-1 more; pages <= 0
// loads until the timeline is exhausted.
func loadPages(ctx context.Context, ctrl *timelinesync.Controller, subjectID string, pages int) timelinesync.State {
	st := ctrl.LoadFirst(ctx, subjectID)
	for n := 1; (pages <= 0 || n < pages) && st.HasMore && st.Status == timelinesync.StatusReady; n++ {
		st = ctrl.LoadMore(ctx)
	}
	return st
}

func subjectArg(args []string) (string, error) {
	if len(args) != 1 || args[0] == "" {
		return "", fmt.Errorf("expected exactly one subject id")
	}
	return args[0], nil
}
