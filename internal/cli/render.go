package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/siron93/moms-app/internal/domain"
	"github.com/siron93/moms-app/internal/timelinesync"
)

const summaryWidth = 60

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeItemsJSON(w io.Writer, items []domain.TimelineItem) error {
	if items == nil {
		items = []domain.TimelineItem{}
	}
	return writeJSON(w, items)
}

// renderState prints one line per item followed by a summary line.
func renderState(w io.Writer, st timelinesync.State) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, it := range st.Items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			it.Date.Local().Format(time.DateOnly), it.Kind, it.AgeLabel, truncate(describe(it), summaryWidth))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	return renderSummary(w, st)
}

// renderSummary prints a one-line status: item count, pagination and
// connectivity flags, and any failed sources.
func renderSummary(w io.Writer, st timelinesync.State) error {
	parts := []string{fmt.Sprintf("%s: %d items", st.SubjectID, len(st.Items))}
	if st.HasMore {
		parts = append(parts, "more available")
	} else if st.Status == timelinesync.StatusReady {
		parts = append(parts, "end of timeline")
	}
	if st.IsOffline {
		parts = append(parts, "offline")
	}
	if st.Stale {
		parts = append(parts, "stale")
	}
	for _, warn := range st.Warnings {
		parts = append(parts, fmt.Sprintf("%s unavailable", warn.Kind))
	}
	if st.Err != nil {
		parts = append(parts, "error: "+st.Err.Error())
	}
	_, err := fmt.Fprintf(w, "[%s] %s\n", st.Status, strings.Join(parts, ", "))
	return err
}

// describe returns the human-readable headline of an item.
func describe(it domain.TimelineItem) string {
	switch {
	case it.Photo != nil:
		var s string
		switch {
		case it.Photo.BirthAnnounce && it.Title != nil:
			s = *it.Title
		case it.Photo.Caption != nil:
			s = *it.Photo.Caption
		}
		if n := len(it.Photo.MediaURLs); n > 1 {
			s = strings.TrimSpace(fmt.Sprintf("%s (%d items)", s, n))
		}
		return s
	case it.Journal != nil:
		if it.Title != nil {
			return *it.Title
		}
		return it.Journal.Content
	case it.First != nil:
		if it.Title != nil {
			return *it.Title
		}
		return "First " + it.First.FirstType
	case it.Growth != nil:
		var ms []string
		for _, m := range []*domain.Measurement{it.Growth.Weight, it.Growth.Height, it.Growth.HeadCircumference} {
			if m != nil {
				ms = append(ms, strings.TrimSpace(fmt.Sprintf("%g %s", m.Value, m.Unit)))
			}
		}
		return strings.Join(ms, ", ")
	case it.Milestone != nil:
		if word := it.Milestone.Metadata["word"]; word != "" {
			return fmt.Sprintf("%s: %q", it.Milestone.Name, word)
		}
		return it.Milestone.Name
	}
	return ""
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
