package timeline

import (
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/siron93/moms-app/internal/config"
	"github.com/siron93/moms-app/internal/domain"
)

const (
	birthTag    = "birth"
	growthTitle = "Growth Update"
)

// Normalizer maps source records onto timeline items. Normalize is pure:
// the same record, subject and reference table always give the same item.
type Normalizer struct {
	birthWindow time.Duration
	birthTitle  string
}

// NewNormalizer creates a Normalizer from the timeline configuration.
func NewNormalizer(cfg config.TimelineConfig) Normalizer {
	return Normalizer{birthWindow: cfg.BirthWindow, birthTitle: cfg.BirthTitle}
}

// Normalize converts rec into a timeline item. It reports false when the
// record cannot be rendered: a milestone entry whose definition is missing
// from defs, or a record without a payload for its kind.
func (n Normalizer) Normalize(rec domain.Record, subj domain.Subject, defs map[string]domain.MilestoneDefinition) (domain.TimelineItem, bool) {
	var (
		item domain.TimelineItem
		ok   bool
	)

	switch rec.Kind {
	case domain.KindPhoto:
		item, ok = n.photo(rec.Photo, subj)
	case domain.KindJournal:
		item, ok = journal(rec.Journal)
	case domain.KindFirst:
		item, ok = first(rec.First)
	case domain.KindGrowth:
		item, ok = growth(rec.Growth)
	case domain.KindMilestone:
		item, ok = milestone(rec.Milestone, defs)
	}
	if !ok {
		return domain.TimelineItem{}, false
	}

	item.Kind = rec.Kind
	item.ID = domain.ItemID(rec.Kind, rec.RecordID())
	item.AgeLabel = AgeLabel(subj.BirthDate, item.Date)
	if item.Tags == nil {
		item.Tags = []string{}
	}
	return item, true
}

// IsBirthAnnouncement reports whether a photo taken at date announces the
// birth of a subject born at birth.
func (n Normalizer) IsBirthAnnouncement(date, birth time.Time) bool {
	d := date.Sub(birth)
	if d < 0 {
		d = -d
	}
	return d < n.birthWindow
}

func (n Normalizer) photo(p *domain.PhotoRecord, subj domain.Subject) (domain.TimelineItem, bool) {
	if p == nil {
		return domain.TimelineItem{}, false
	}

	item := domain.TimelineItem{
		SubjectID: p.SubjectID,
		Date:      p.Date,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
		Tags:      slices.Clone(p.Tags),
		Photo: &domain.PhotoItem{
			MediaURLs:       slices.Clone(p.MediaURLs),
			MediaTypes:      slices.Clone(p.MediaTypes),
			LocalMediaPaths: slices.Clone(p.LocalMediaPaths),
			Caption:         p.Caption,
		},
	}
	if len(p.MediaURLs) > 0 {
		item.Photo.MediaURL = p.MediaURLs[0]
	}

	if n.IsBirthAnnouncement(p.Date, subj.BirthDate) {
		title := n.birthTitle
		item.Title = &title
		if !slices.Contains(item.Tags, birthTag) {
			item.Tags = append(item.Tags, birthTag)
		}
		item.Photo.BirthAnnounce = true
		item.Photo.Birth = subj.BirthDetails()
	}
	return item, true
}

func journal(j *domain.JournalRecord) (domain.TimelineItem, bool) {
	if j == nil {
		return domain.TimelineItem{}, false
	}
	return domain.TimelineItem{
		SubjectID: j.SubjectID,
		Date:      j.Date,
		CreatedAt: j.CreatedAt,
		UpdatedAt: j.UpdatedAt,
		Tags:      slices.Clone(j.Tags),
		Title:     j.Title,
		Journal:   &domain.JournalItem{Content: j.Content},
	}, true
}

func first(f *domain.FirstRecord) (domain.TimelineItem, bool) {
	if f == nil {
		return domain.TimelineItem{}, false
	}
	title := f.Title
	return domain.TimelineItem{
		SubjectID: f.SubjectID,
		Date:      f.Date,
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
		Tags:      slices.Clone(f.Tags),
		Title:     &title,
		First:     &domain.FirstItem{FirstType: f.FirstType, Description: f.Description},
	}, true
}

func growth(g *domain.GrowthRecord) (domain.TimelineItem, bool) {
	if g == nil {
		return domain.TimelineItem{}, false
	}
	title := growthTitle
	return domain.TimelineItem{
		SubjectID: g.SubjectID,
		Date:      g.Date,
		CreatedAt: g.CreatedAt,
		UpdatedAt: g.CreatedAt,
		Title:     &title,
		Growth: &domain.GrowthItem{
			Weight:            measurement(g.Weight, g.WeightUnit),
			Height:            measurement(g.Height, g.HeightUnit),
			HeadCircumference: measurement(g.HeadCircumference, g.HeadUnit),
			Notes:             g.Notes,
		},
	}, true
}

func measurement(v *float64, unit *string) *domain.Measurement {
	if v == nil {
		return nil
	}
	m := &domain.Measurement{Value: *v}
	if unit != nil {
		m.Unit = *unit
	}
	return m
}

func milestone(m *domain.MilestoneRecord, defs map[string]domain.MilestoneDefinition) (domain.TimelineItem, bool) {
	if m == nil {
		return domain.TimelineItem{}, false
	}
	def, ok := defs[m.MilestoneID]
	if !ok {
		return domain.TimelineItem{}, false
	}

	title := def.Name
	if word := m.Metadata["word"]; def.Name == domain.FirstWordMilestone && word != "" {
		title = fmt.Sprintf("First word: %q", word)
	}

	updated := m.CreatedAt
	if m.UpdatedAt != nil {
		updated = *m.UpdatedAt
	}

	item := domain.TimelineItem{
		SubjectID: m.SubjectID,
		Date:      m.AchievedDate,
		CreatedAt: m.CreatedAt,
		UpdatedAt: updated,
		Title:     &title,
		Milestone: &domain.MilestoneItem{
			MilestoneID:    m.MilestoneID,
			Name:           def.Name,
			Category:       def.Category,
			Order:          def.Order,
			AchievedDate:   m.AchievedDate,
			Notes:          m.Notes,
			PhotoURL:       m.PhotoURL,
			PhotoLocalPath: m.PhotoLocalPath,
			Metadata:       maps.Clone(m.Metadata),
		},
	}
	if m.PhotoURL != nil {
		item.Milestone.MediaURL = *m.PhotoURL
	}
	return item, true
}
