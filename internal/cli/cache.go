package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func addCache(topLevel *cobra.Command, e *env) {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the local timeline cache",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	infoCmd := &cobra.Command{
		Use:   "info SUBJECT",
		Short: "Show what is cached for a subject",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if e.cache == nil {
				return errCacheDisabled
			}
			meta, ok := e.cache.Meta(cmd.Context(), args[0])
			if !ok {
				fmt.Fprintf(e.out, "%s: nothing cached\n", args[0])
				return nil
			}

			freshness := "fresh"
			if e.cache.Stale(meta.LastSync) {
				freshness = "stale"
			}
			fmt.Fprintf(e.out, "%s: %d items in %d pages, complete=%t, synced %s (%s)\n",
				meta.SubjectID, meta.TotalItems, meta.Pages, meta.Complete,
				meta.LastSync.Local().Format(time.DateTime), freshness)
			return nil
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear SUBJECT",
		Short: "Delete every cached page for a subject",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if e.cache == nil {
				return errCacheDisabled
			}
			if err := e.cache.Clear(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(e.out, "%s: cache cleared\n", args[0])
			return nil
		},
	}

	cmd.AddCommand(infoCmd, clearCmd)
	topLevel.AddCommand(cmd)
}
