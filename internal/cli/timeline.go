package cli

import (
	"github.com/spf13/cobra"

	"github.com/siron93/moms-app/internal/domain"
)

func addTimeline(topLevel *cobra.Command, e *env) {
	var (
		limit   int
		pages   int
		all     bool
		kinds   string
		offline bool
		asJSON  bool
	)

	cmd := &cobra.Command{
		Use:   "timeline SUBJECT",
		Short: "Print a subject's timeline, newest first",
		Example: `
storyctl timeline mia
storyctl timeline mia --pages 3 --limit 10
storyctl timeline mia --kinds photo,milestone --all
storyctl timeline mia --offline`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			subjectID, err := subjectArg(args)
			if err != nil {
				return err
			}
			parsed, err := domain.ParseKinds(kinds)
			if err != nil {
				return err
			}
			if limit > 0 {
				e.cfg.Sync.PageSize = limit
			}
			if all {
				pages = 0
			}

			ctrl := e.controller()
			ctrl.SetKinds(parsed)
			if offline {
				ctrl.SetOnline(cmd.Context(), false)
			}

			st := loadPages(cmd.Context(), ctrl, subjectID, pages)
			if st.Err != nil && len(st.Items) == 0 {
				return st.Err
			}

			if asJSON {
				return writeItemsJSON(e.out, st.Items)
			}
			return renderState(e.out, st)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "items per page (default: sync.page_size)")
	cmd.Flags().IntVar(&pages, "pages", 1, "number of pages to load")
	cmd.Flags().BoolVar(&all, "all", false, "load every page")
	cmd.Flags().StringVar(&kinds, "kinds", "", "comma-separated kinds to include (photo,journal,first,growth,milestone)")
	cmd.Flags().BoolVar(&offline, "offline", false, "serve from the local cache only")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print items as JSON")

	topLevel.AddCommand(cmd)
}

func addItem(topLevel *cobra.Command, e *env) {
	cmd := &cobra.Command{
		Use:     "item SUBJECT ITEM_ID",
		Short:   "Print one timeline item as JSON",
		Example: "storyctl item mia photo:p-beach",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			item, err := e.client.Item(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			return writeJSON(e.out, item)
		},
	}
	topLevel.AddCommand(cmd)
}

func addRefresh(topLevel *cobra.Command, e *env) {
	cmd := &cobra.Command{
		Use:   "refresh SUBJECT",
		Short: "Drop the cached timeline and reload the first page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			subjectID, err := subjectArg(args)
			if err != nil {
				return err
			}

			ctrl := e.controller()
			ctrl.LoadFirst(cmd.Context(), subjectID)
			st := ctrl.Refresh(cmd.Context())
			if st.Err != nil {
				return st.Err
			}
			return renderSummary(e.out, st)
		},
	}
	topLevel.AddCommand(cmd)
}
