package seeder

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siron93/moms-app/internal/domain"
)

var genNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func TestGenerate_Deterministic(t *testing.T) {
	t.Parallel()

	a := Generate(7, 2, 5, 100, genNow, defaultMilestones())
	b := Generate(7, 2, 5, 100, genNow, defaultMilestones())
	if diff := cmp.Diff(a, b); diff != "" {
		t.Fatalf("same seed produced different data (-a +b):\n%s", diff)
	}

	c := Generate(8, 2, 5, 100, genNow, defaultMilestones())
	assert.NotEqual(t, a[0].Subject.ID, c[0].Subject.ID)
}

func TestGenerate_Shape(t *testing.T) {
	t.Parallel()

	subjects := Generate(1, 3, 4, 60, genNow, defaultMilestones())
	require.Len(t, subjects, 3)

	seen := map[string]bool{}
	for _, sd := range subjects {
		require.Len(t, sd.Records, 4*len(domain.AllKinds))
		birth := sd.Subject.BirthDate
		end := birth.AddDate(0, 0, 60)

		for _, rec := range sd.Records {
			key := rec.Key()
			assert.False(t, seen[key.ID], "duplicate id %s", key.ID)
			seen[key.ID] = true

			assert.False(t, key.Date.Before(birth), "%s before birth", key.ID)
			assert.True(t, key.Date.Before(end), "%s after window", key.ID)
			assert.Equal(t, key.Date, key.Date.Truncate(time.Microsecond))

			if rec.Kind == domain.KindPhoto {
				assert.Len(t, rec.Photo.MediaTypes, len(rec.Photo.MediaURLs))
			}
			if rec.Kind == domain.KindMilestone && rec.Milestone.MilestoneID == "ms-first-word" {
				assert.NotEmpty(t, rec.Milestone.Metadata["word"])
			}
		}
	}
}

func TestGenerate_NoMilestoneDefs(t *testing.T) {
	t.Parallel()

	subjects := Generate(1, 1, 2, 10, genNow, nil)
	require.Len(t, subjects, 1)
	for _, rec := range subjects[0].Records {
		assert.NotEqual(t, domain.KindMilestone, rec.Kind)
	}
	assert.Len(t, subjects[0].Records, 2*4)
}
