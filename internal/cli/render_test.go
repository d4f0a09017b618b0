package cli

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siron93/moms-app/internal/domain"
	"github.com/siron93/moms-app/internal/timelinesync"
)

func strPtr(s string) *string { return &s }

func TestDescribe(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		item domain.TimelineItem
		want string
	}{
		{
			name: "photo caption",
			item: domain.TimelineItem{Photo: &domain.PhotoItem{Caption: strPtr("beach"), MediaURLs: []string{"a"}}},
			want: "beach",
		},
		{
			name: "photo album",
			item: domain.TimelineItem{Photo: &domain.PhotoItem{Caption: strPtr("park"), MediaURLs: []string{"a", "b", "c"}}},
			want: "park (3 items)",
		},
		{
			name: "album without caption",
			item: domain.TimelineItem{Photo: &domain.PhotoItem{MediaURLs: []string{"a", "b"}}},
			want: "(2 items)",
		},
		{
			name: "birth announcement uses title",
			item: domain.TimelineItem{
				Title: strPtr("Welcome to the world"),
				Photo: &domain.PhotoItem{BirthAnnounce: true, Caption: strPtr("hello"), MediaURLs: []string{"a"}},
			},
			want: "Welcome to the world",
		},
		{
			name: "journal without title",
			item: domain.TimelineItem{Journal: &domain.JournalItem{Content: "slept all night"}},
			want: "slept all night",
		},
		{
			name: "first",
			item: domain.TimelineItem{First: &domain.FirstItem{FirstType: "steps"}},
			want: "First steps",
		},
		{
			name: "growth",
			item: domain.TimelineItem{Growth: &domain.GrowthItem{
				Weight: &domain.Measurement{Value: 7.4, Unit: "kg"},
				Height: &domain.Measurement{Value: 68},
			}},
			want: "7.4 kg, 68",
		},
		{
			name: "first word milestone",
			item: domain.TimelineItem{Milestone: &domain.MilestoneItem{
				Name: "First Word", Metadata: map[string]string{"word": "mama"},
			}},
			want: `First Word: "mama"`,
		},
		{name: "empty", item: domain.TimelineItem{}, want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, describe(tt.item))
		})
	}
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcd…", truncate("abcdefgh", 5))
	assert.Equal(t, "ключ…", truncate("ключевой", 5))
}

func TestRenderSummary(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		st   timelinesync.State
		want string
	}{
		{
			name: "more available",
			st:   timelinesync.State{SubjectID: "s1", Status: timelinesync.StatusReady, HasMore: true, Items: make([]domain.TimelineItem, 2)},
			want: "[ready] s1: 2 items, more available\n",
		},
		{
			name: "end",
			st:   timelinesync.State{SubjectID: "s1", Status: timelinesync.StatusReady},
			want: "[ready] s1: 0 items, end of timeline\n",
		},
		{
			name: "offline stale with warning and error",
			st: timelinesync.State{
				SubjectID: "s1",
				Status:    timelinesync.StatusOffline,
				IsOffline: true,
				Stale:     true,
				Warnings:  []domain.SourceWarning{{Kind: domain.KindGrowth}},
				Err:       errors.New("boom"),
			},
			want: "[offline] s1: 0 items, offline, stale, growth unavailable, error: boom\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			require.NoError(t, renderSummary(&buf, tt.st))
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestRenderState_OneLinePerItem(t *testing.T) {
	t.Parallel()

	st := timelinesync.State{
		SubjectID: "s1",
		Status:    timelinesync.StatusReady,
		Items: []domain.TimelineItem{
			{ID: "journal:1", Kind: domain.KindJournal, AgeLabel: "2 days old", Journal: &domain.JournalItem{Content: "hello"}},
			{ID: "first:1", Kind: domain.KindFirst, AgeLabel: "1 day old", First: &domain.FirstItem{FirstType: "smile"}},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, renderState(&buf, st))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "hello")
	assert.Contains(t, lines[1], "First smile")
	assert.Equal(t, "[ready] s1: 2 items, end of timeline", lines[2])
}
