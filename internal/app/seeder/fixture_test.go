package seeder

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siron93/moms-app/internal/domain"
)

func TestLoadFixture_Testdata(t *testing.T) {
	t.Parallel()

	f, err := os.Open("testdata/fixture.yaml")
	require.NoError(t, err)
	defer f.Close()

	ds, err := LoadFixture(f)
	require.NoError(t, err)

	require.Len(t, ds.Milestones, 2)
	assert.Equal(t, domain.FirstWordMilestone, ds.Milestones[0].Name)
	require.NotNil(t, ds.Milestones[0].Description)

	require.Len(t, ds.Subjects, 1)
	mia := ds.Subjects[0]
	assert.Equal(t, "mia", mia.Subject.ID)
	assert.Equal(t, time.Date(2024, 1, 1, 8, 30, 0, 0, time.UTC), mia.Subject.BirthDate)
	require.NotNil(t, mia.Subject.BirthDetails())

	counts := map[domain.Kind]int{}
	for _, rec := range mia.Records {
		counts[rec.Kind]++
		assert.NotEmpty(t, rec.RecordID())
	}
	assert.Equal(t, map[domain.Kind]int{
		domain.KindPhoto: 2, domain.KindJournal: 1, domain.KindFirst: 1, domain.KindGrowth: 1, domain.KindMilestone: 1,
	}, counts)

	birth := mia.Records[0].Photo
	assert.Nil(t, birth.LocalMediaPaths, "no local paths means none recorded")

	beach := mia.Records[1].Photo
	assert.Equal(t, []domain.MediaType{domain.MediaTypeImage, domain.MediaTypeVideo}, beach.MediaTypes)
	assert.Equal(t, []string{"", "/cache/mia/beach2.mp4"}, beach.LocalMediaPaths)

	word := mia.Records[len(mia.Records)-1].Milestone
	assert.Equal(t, "dada", word.Metadata["word"])
	assert.Equal(t, word.AchievedDate, word.CreatedAt)
}

func TestLoadFixture_Empty(t *testing.T) {
	t.Parallel()

	ds, err := LoadFixture(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, ds.Subjects)
	assert.Empty(t, ds.Milestones)
}

func TestLoadFixture_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		yaml string
		want string
	}{
		{name: "unknown field", yaml: "subjects:\n  - id: a\n    nickname: x\n", want: "nickname"},
		{name: "subject without birth", yaml: "subjects:\n  - id: a\n", want: "birth_date"},
		{name: "milestone without name", yaml: "milestones:\n  - id: m\n", want: "id and name"},
		{
			name: "bad media type",
			yaml: "subjects:\n  - id: a\n    birth_date: 2024-01-01T00:00:00Z\n    photos:\n      - id: p\n        date: 2024-01-02T00:00:00Z\n        media:\n          - url: u\n            type: gif\n",
			want: "unknown media type",
		},
		{
			name: "photo without media",
			yaml: "subjects:\n  - id: a\n    birth_date: 2024-01-01T00:00:00Z\n    photos:\n      - id: p\n        date: 2024-01-02T00:00:00Z\n",
			want: "media",
		},
		{
			name: "record without id",
			yaml: "subjects:\n  - id: a\n    birth_date: 2024-01-01T00:00:00Z\n    journal:\n      - content: hi\n        date: 2024-01-02T00:00:00Z\n",
			want: "without id",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := LoadFixture(strings.NewReader(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
