package domain

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var day = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func journalItem(id string, date time.Time) TimelineItem {
	return TimelineItem{
		ID:      id,
		Kind:    KindJournal,
		Date:    date,
		Journal: &JournalItem{Content: "x"},
	}
}

func TestCompareKeys_DateDescending(t *testing.T) {
	t.Parallel()

	newer := SortKey{Date: day.Add(time.Hour), ID: "a"}
	older := SortKey{Date: day, ID: "z"}

	assert.Negative(t, CompareKeys(newer, older))
	assert.Positive(t, CompareKeys(older, newer))
	assert.Zero(t, CompareKeys(newer, newer))
}

func TestCompareKeys_TieBrokenByIDDescending(t *testing.T) {
	t.Parallel()

	a := SortKey{Date: day, ID: "photo:p2"}
	b := SortKey{Date: day, ID: "photo:p1"}

	assert.Negative(t, CompareKeys(a, b), "higher id sorts first on equal dates")
	assert.True(t, b.After(a))
	assert.False(t, a.After(b))
	assert.False(t, a.After(a), "a key is never after itself")
}

func TestSortItems_DeterministicUnderShuffle(t *testing.T) {
	t.Parallel()

	base := []TimelineItem{
		journalItem("journal:a", day),
		journalItem("journal:b", day),
		journalItem("photo:c", day),
		journalItem("journal:d", day.Add(-time.Hour)),
		journalItem("first:e", day.Add(time.Hour)),
	}
	want := []string{"first:e", "photo:c", "journal:b", "journal:a", "journal:d"}

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 20; i++ {
		items := append([]TimelineItem(nil), base...)
		rng.Shuffle(len(items), func(i, j int) { items[i], items[j] = items[j], items[i] })
		SortItems(items)

		got := make([]string, len(items))
		for j, it := range items {
			got[j] = it.ID
		}
		require.Equal(t, want, got)
	}
}

func TestTimelineItem_Validate(t *testing.T) {
	t.Parallel()

	okPhoto := TimelineItem{
		ID:   "photo:1",
		Kind: KindPhoto,
		Photo: &PhotoItem{
			MediaURLs:  []string{"https://a", "https://b"},
			MediaTypes: []MediaType{MediaTypeImage, MediaTypeVideo},
		},
	}

	tests := []struct {
		name    string
		item    TimelineItem
		wantErr bool
	}{
		{name: "valid photo", item: okPhoto},
		{name: "valid journal", item: journalItem("journal:1", day)},
		{
			name:    "no variant",
			item:    TimelineItem{ID: "x", Kind: KindJournal},
			wantErr: true,
		},
		{
			name:    "kind mismatch",
			item:    TimelineItem{ID: "x", Kind: KindGrowth, Journal: &JournalItem{}},
			wantErr: true,
		},
		{
			name: "two variants",
			item: TimelineItem{ID: "x", Kind: KindJournal, Journal: &JournalItem{}, First: &FirstItem{}},
			wantErr: true,
		},
		{
			name: "media length mismatch",
			item: TimelineItem{ID: "x", Kind: KindPhoto, Photo: &PhotoItem{
				MediaURLs:  []string{"https://a"},
				MediaTypes: []MediaType{MediaTypeImage, MediaTypeImage},
			}},
			wantErr: true,
		},
		{
			name: "local paths length mismatch",
			item: TimelineItem{ID: "x", Kind: KindPhoto, Photo: &PhotoItem{
				MediaURLs:       []string{"https://a"},
				MediaTypes:      []MediaType{MediaTypeImage},
				LocalMediaPaths: []string{"/a", "/b"},
			}},
			wantErr: true,
		},
		{
			name: "empty media",
			item: TimelineItem{ID: "x", Kind: KindPhoto, Photo: &PhotoItem{}},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.item.Validate()
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrValidation), "got %v", err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestTimelineItem_LocalMediaPath(t *testing.T) {
	t.Parallel()

	path := "/cache/m.jpg"
	item := TimelineItem{Kind: KindMilestone, Milestone: &MilestoneItem{PhotoLocalPath: &path}}
	got, ok := item.LocalMediaPath()
	assert.True(t, ok)
	assert.Equal(t, path, got)

	_, ok = journalItem("journal:1", day).LocalMediaPath()
	assert.False(t, ok)
}

func TestSubject_BirthDetails(t *testing.T) {
	t.Parallel()

	assert.Nil(t, Subject{}.BirthDetails())

	w, unit := 3.2, "kg"
	d := Subject{BirthWeight: &w, BirthWeightUnit: &unit}.BirthDetails()
	require.NotNil(t, d)
	assert.Equal(t, 3.2, *d.Weight)
	assert.Equal(t, "kg", d.WeightUnit)
	assert.Nil(t, d.Length)
}

func TestItemID_Namespaced(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "photo:abc", ItemID(KindPhoto, "abc"))
	assert.NotEqual(t, ItemID(KindPhoto, "1"), ItemID(KindJournal, "1"))
}
