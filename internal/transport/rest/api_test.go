package rest

import (
	"context"
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siron93/moms-app/internal/adapter/memstore"
	"github.com/siron93/moms-app/internal/adapter/timelineapi"
	"github.com/siron93/moms-app/internal/config"
	"github.com/siron93/moms-app/internal/domain"
	"github.com/siron93/moms-app/internal/service/timeline"
	"github.com/siron93/moms-app/internal/transport/middleware"
)

// TestAPI_ClientRoundTrip serves a real timeline service over HTTP and pages
// through it with the API client.
func TestAPI_ClientRoundTrip(t *testing.T) {
	t.Parallel()

	birth := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	store := memstore.New()
	store.PutSubject(domain.Subject{ID: "s1", BirthDate: birth})
	for i := 1; i <= 7; i++ {
		d := birth.AddDate(0, 0, i)
		require.NoError(t, store.Add(domain.Record{Kind: domain.KindJournal, Journal: &domain.JournalRecord{
			ID: fmt.Sprintf("j%d", i), SubjectID: "s1", Content: "entry", Date: d, CreatedAt: d, UpdatedAt: d,
		}}))
	}

	svc := timeline.NewService(testLogger(), store, store, store, config.TimelineConfig{
		DefaultPageSize: 20,
		MaxPageSize:     50,
		OverfetchFloor:  100,
		OverfetchFactor: 2,
		MaxWindow:       1600,
		FetchTimeout:    time.Second,
		BirthWindow:     24 * time.Hour,
	})

	srv := httptest.NewServer(NewRouter(
		NewTimelineHandler(svc, testLogger()),
		NewHealthHandler("test"),
		middleware.Chain(middleware.RequestID(), middleware.Recovery(testLogger())),
	))
	defer srv.Close()

	client := timelineapi.NewClient(srv.URL, time.Second, testLogger())
	ctx := context.Background()
	require.NoError(t, client.Ping(ctx))

	var ids []string
	in := timeline.PageInput{SubjectID: "s1", Limit: 3}
	for range 10 {
		page, err := client.Aggregate(ctx, in)
		require.NoError(t, err)
		for _, it := range page.Items {
			ids = append(ids, it.ID)
		}
		if page.IsDone {
			assert.Nil(t, page.NextCursor)
			break
		}
		require.NotNil(t, page.NextCursor)
		in.Cursor = *page.NextCursor
	}
	assert.Equal(t, []string{
		"journal:j7", "journal:j6", "journal:j5", "journal:j4", "journal:j3", "journal:j2", "journal:j1",
	}, ids)

	item, err := client.Item(ctx, "s1", "journal:j4")
	require.NoError(t, err)
	assert.Equal(t, "4 days old", item.AgeLabel)

	_, err = client.Aggregate(ctx, timeline.PageInput{SubjectID: "nobody"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = client.Item(ctx, "s1", "bogus")
	assert.ErrorIs(t, err, domain.ErrValidation)
}
