package seeder

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/siron93/moms-app/internal/domain"
)

func ptr[T any](v T) *T { return &v }

// defaultMilestones is the reference table written on every run.
func defaultMilestones() []domain.MilestoneDefinition {
	return []domain.MilestoneDefinition{
		{ID: "ms-social-smile", Category: "social", Name: "First Smile", Order: 1},
		{ID: "ms-rolls-over", Category: "motor", Name: "Rolls Over", Order: 2},
		{ID: "ms-sits-up", Category: "motor", Name: "Sits Without Support", Order: 3},
		{ID: "ms-crawls", Category: "motor", Name: "Crawls", Order: 4},
		{ID: "ms-first-word", Category: "language", Name: domain.FirstWordMilestone, Order: 5},
		{ID: "ms-first-steps", Category: "motor", Name: "First Steps", Order: 6},
	}
}

var (
	journalLines = []string{"Slept through the night", "Long walk in the park", "Met the grandparents", "Bath time giggles", "Rainy day cuddles"}
	firstTypes   = []string{"food", "bath", "trip", "tooth", "haircut"}
	firstWords   = []string{"mama", "dada", "ball", "dog", "more"}
	tagPool      = []string{"family", "outdoors", "sleep", "food", "funny"}
)

// Generate builds n synthetic subjects with perKind records of each kind
// spread over the days after birth. Equal seeds produce equal datasets.
func Generate(seed int64, n, perKind, days int, now time.Time, defs []domain.MilestoneDefinition) []SubjectData {
	rng := rand.New(rand.NewSource(seed))
	days = max(days, 1)

	out := make([]SubjectData, 0, n)
	for i := range n {
		birth := now.AddDate(0, 0, -days).Truncate(24 * time.Hour).UTC()
		subj := domain.Subject{
			ID:              fmt.Sprintf("gen-%d-%03d", seed, i),
			Name:            fmt.Sprintf("Baby %d", i+1),
			BirthDate:       birth,
			BirthWeight:     ptr(2.8 + rng.Float64()),
			BirthWeightUnit: ptr("kg"),
			CreatedAt:       birth,
		}

		// at returns a time within the subject's life, truncated to
		// microseconds so it survives a postgres round trip.
		at := func() time.Time {
			return birth.Add(time.Duration(rng.Int63n(int64(days) * int64(24*time.Hour)))).Truncate(time.Microsecond)
		}
		tags := func() []string {
			return []string{tagPool[rng.Intn(len(tagPool))]}
		}

		sd := SubjectData{Subject: subj}
		for k := range perKind {
			id := fmt.Sprintf("%s-%d", subj.ID, k)

			d := at()
			media := 1 + rng.Intn(3)
			photo := &domain.PhotoRecord{ID: "p-" + id, SubjectID: subj.ID, Tags: tags(), Date: d, CreatedAt: d, UpdatedAt: d}
			for m := range media {
				photo.MediaURLs = append(photo.MediaURLs, fmt.Sprintf("https://media.example.com/%s/%d.jpg", photo.ID, m))
				mt := domain.MediaTypeImage
				if rng.Intn(5) == 0 {
					mt = domain.MediaTypeVideo
				}
				photo.MediaTypes = append(photo.MediaTypes, mt)
			}
			sd.Records = append(sd.Records, domain.Record{Kind: domain.KindPhoto, Photo: photo})

			d = at()
			sd.Records = append(sd.Records, domain.Record{Kind: domain.KindJournal, Journal: &domain.JournalRecord{
				ID: "j-" + id, SubjectID: subj.ID, Content: journalLines[rng.Intn(len(journalLines))],
				Tags: tags(), Date: d, CreatedAt: d, UpdatedAt: d,
			}})

			d = at()
			ft := firstTypes[rng.Intn(len(firstTypes))]
			sd.Records = append(sd.Records, domain.Record{Kind: domain.KindFirst, First: &domain.FirstRecord{
				ID: "f-" + id, SubjectID: subj.ID, FirstType: ft, Title: "First " + ft,
				Tags: tags(), Date: d, CreatedAt: d, UpdatedAt: d,
			}})

			d = at()
			sd.Records = append(sd.Records, domain.Record{Kind: domain.KindGrowth, Growth: &domain.GrowthRecord{
				ID: "g-" + id, SubjectID: subj.ID,
				Weight: ptr(3 + float64(d.Sub(birth).Hours())/24/60), WeightUnit: ptr("kg"),
				Height: ptr(50 + float64(d.Sub(birth).Hours())/24/15), HeightUnit: ptr("cm"),
				Date: d, CreatedAt: d,
			}})

			if len(defs) == 0 {
				continue
			}
			d = at()
			def := defs[rng.Intn(len(defs))]
			var meta map[string]string
			if def.Name == domain.FirstWordMilestone {
				meta = map[string]string{"word": firstWords[rng.Intn(len(firstWords))]}
			}
			sd.Records = append(sd.Records, domain.Record{Kind: domain.KindMilestone, Milestone: &domain.MilestoneRecord{
				ID: "m-" + id, SubjectID: subj.ID, MilestoneID: def.ID, AchievedDate: d,
				Metadata: meta, CreatedAt: d,
			}})
		}
		out = append(out, sd)
	}
	return out
}
