package cli

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/siron93/moms-app/internal/adapter/timelineapi"
	"github.com/siron93/moms-app/internal/events"
	"github.com/siron93/moms-app/internal/service/timeline"
	"github.com/siron93/moms-app/internal/timelinesync"
)

func addWatch(topLevel *cobra.Command, e *env) {
	var interval time.Duration

	cmd := &cobra.Command{
		Use:   "watch SUBJECT",
		Short: "Follow a subject's timeline, reporting new memories and connectivity",
		Long: `Loads the first page and keeps it current until interrupted. The API is
probed every sync.probe_interval; losing it switches to the cached snapshot
and reconnecting refreshes. New memories at the head of the timeline are
merged into the cache.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			subjectID, err := subjectArg(args)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			ctrl := e.controller()
			bus := &events.Bus{}
			defer ctrl.Watch(ctx, bus)()

			ctrl.OnChange(func(st timelinesync.State) {
				renderSummary(e.out, st) //nolint:errcheck
			})
			ctrl.LoadFirst(ctx, subjectID)

			probe := timelineapi.NewProbe(e.client, e.cfg.Sync.ProbeInterval, e.log)
			go probe.Run(ctx, func(online bool) {
				ctrl.SetOnline(ctx, online)
			})
			go pollHead(ctx, e.log, e.client, bus, subjectID, interval)

			<-ctx.Done()
			fmt.Fprintln(e.out, "stopped")
			return nil
		},
	}

	cmd.Flags().DurationVar(&interval, "interval", 30*time.Second, "how often to check for new memories")
	topLevel.AddCommand(cmd)
}

// pollHead fetches the newest item every interval and publishes
// MemoryAdded when it changes.
func pollHead(ctx context.Context, log *slog.Logger, f timelinesync.Fetcher, bus *events.Bus, subjectID string, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var head string
	for {
		page, err := f.Aggregate(ctx, timeline.PageInput{SubjectID: subjectID, Limit: 1})
		switch {
		case err != nil:
			log.DebugContext(ctx, "head poll failed", slog.String("error", err.Error()))
		case len(page.Items) > 0 && page.Items[0].ID != head:
			if head != "" {
				bus.Publish(events.Event{Topic: events.MemoryAdded, SubjectID: subjectID})
			}
			head = page.Items[0].ID
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
