package seeder

import (
	"errors"
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/siron93/moms-app/internal/domain"
)

type fixtureFile struct {
	Milestones []fixtureMilestoneDef `yaml:"milestones"`
	Subjects   []fixtureSubject      `yaml:"subjects"`
}

type fixtureMilestoneDef struct {
	ID          string  `yaml:"id"`
	Category    string  `yaml:"category"`
	Name        string  `yaml:"name"`
	Description *string `yaml:"description"`
	IconURL     *string `yaml:"icon_url"`
	Order       int     `yaml:"order"`
}

type fixtureSubject struct {
	ID              string    `yaml:"id"`
	Name            string    `yaml:"name"`
	BirthDate       time.Time `yaml:"birth_date"`
	BirthWeight     *float64  `yaml:"birth_weight"`
	BirthWeightUnit *string   `yaml:"birth_weight_unit"`
	BirthLength     *float64  `yaml:"birth_length"`
	BirthLengthUnit *string   `yaml:"birth_length_unit"`

	Photos     []fixturePhoto     `yaml:"photos"`
	Journal    []fixtureJournal   `yaml:"journal"`
	Firsts     []fixtureFirst     `yaml:"firsts"`
	Growth     []fixtureGrowth    `yaml:"growth"`
	Milestones []fixtureMilestone `yaml:"milestones"`
}

type fixtureMedia struct {
	URL       string           `yaml:"url"`
	Type      domain.MediaType `yaml:"type"`
	LocalPath string           `yaml:"local_path"`
}

type fixturePhoto struct {
	ID      string         `yaml:"id"`
	Caption *string        `yaml:"caption"`
	Media   []fixtureMedia `yaml:"media"`
	Tags    []string       `yaml:"tags"`
	Date    time.Time      `yaml:"date"`
}

type fixtureJournal struct {
	ID      string    `yaml:"id"`
	Title   *string   `yaml:"title"`
	Content string    `yaml:"content"`
	Tags    []string  `yaml:"tags"`
	Date    time.Time `yaml:"date"`
}

type fixtureFirst struct {
	ID          string    `yaml:"id"`
	Type        string    `yaml:"type"`
	Title       string    `yaml:"title"`
	Description *string   `yaml:"description"`
	Tags        []string  `yaml:"tags"`
	Date        time.Time `yaml:"date"`
}

type fixtureGrowth struct {
	ID                string    `yaml:"id"`
	Weight            *float64  `yaml:"weight"`
	WeightUnit        *string   `yaml:"weight_unit"`
	Height            *float64  `yaml:"height"`
	HeightUnit        *string   `yaml:"height_unit"`
	HeadCircumference *float64  `yaml:"head_circumference"`
	HeadUnit          *string   `yaml:"head_unit"`
	Notes             *string   `yaml:"notes"`
	Date              time.Time `yaml:"date"`
}

type fixtureMilestone struct {
	ID          string            `yaml:"id"`
	MilestoneID string            `yaml:"milestone_id"`
	Date        time.Time         `yaml:"date"`
	Notes       *string           `yaml:"notes"`
	PhotoURL    *string           `yaml:"photo_url"`
	Metadata    map[string]string `yaml:"metadata"`
}

// LoadFixture decodes a YAML fixture. Every record is stamped with its own
// date as created_at/updated_at.
func LoadFixture(r io.Reader) (*Dataset, error) {
	var f fixtureFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode fixture: %w", err)
	}

	ds := &Dataset{}
	for _, m := range f.Milestones {
		if m.ID == "" || m.Name == "" {
			return nil, fmt.Errorf("fixture milestone %q: id and name are required", m.ID)
		}
		ds.Milestones = append(ds.Milestones, domain.MilestoneDefinition{
			ID:          m.ID,
			Category:    m.Category,
			Name:        m.Name,
			Description: m.Description,
			IconURL:     m.IconURL,
			Order:       m.Order,
		})
	}

	for _, s := range f.Subjects {
		sd, err := s.toDomain()
		if err != nil {
			return nil, fmt.Errorf("fixture subject %q: %w", s.ID, err)
		}
		ds.Subjects = append(ds.Subjects, sd)
	}
	return ds, nil
}

func (s fixtureSubject) toDomain() (SubjectData, error) {
	if s.ID == "" || s.BirthDate.IsZero() {
		return SubjectData{}, errors.New("id and birth_date are required")
	}

	sd := SubjectData{Subject: domain.Subject{
		ID:              s.ID,
		Name:            s.Name,
		BirthDate:       s.BirthDate.UTC(),
		BirthWeight:     s.BirthWeight,
		BirthWeightUnit: s.BirthWeightUnit,
		BirthLength:     s.BirthLength,
		BirthLengthUnit: s.BirthLengthUnit,
		CreatedAt:       s.BirthDate.UTC(),
	}}

	for _, p := range s.Photos {
		if len(p.Media) == 0 {
			return SubjectData{}, fmt.Errorf("photo %q: at least one media item is required", p.ID)
		}
		rec := &domain.PhotoRecord{
			ID: p.ID, SubjectID: s.ID, Caption: p.Caption, Tags: p.Tags,
			Date: p.Date.UTC(), CreatedAt: p.Date.UTC(), UpdatedAt: p.Date.UTC(),
		}
		hasLocal := false
		for _, m := range p.Media {
			if !m.Type.IsValid() {
				return SubjectData{}, fmt.Errorf("photo %q: unknown media type %q", p.ID, m.Type)
			}
			rec.MediaURLs = append(rec.MediaURLs, m.URL)
			rec.MediaTypes = append(rec.MediaTypes, m.Type)
			rec.LocalMediaPaths = append(rec.LocalMediaPaths, m.LocalPath)
			hasLocal = hasLocal || m.LocalPath != ""
		}
		if !hasLocal {
			rec.LocalMediaPaths = nil
		}
		sd.Records = append(sd.Records, domain.Record{Kind: domain.KindPhoto, Photo: rec})
	}

	for _, j := range s.Journal {
		sd.Records = append(sd.Records, domain.Record{Kind: domain.KindJournal, Journal: &domain.JournalRecord{
			ID: j.ID, SubjectID: s.ID, Title: j.Title, Content: j.Content, Tags: j.Tags,
			Date: j.Date.UTC(), CreatedAt: j.Date.UTC(), UpdatedAt: j.Date.UTC(),
		}})
	}

	for _, f := range s.Firsts {
		sd.Records = append(sd.Records, domain.Record{Kind: domain.KindFirst, First: &domain.FirstRecord{
			ID: f.ID, SubjectID: s.ID, FirstType: f.Type, Title: f.Title, Description: f.Description, Tags: f.Tags,
			Date: f.Date.UTC(), CreatedAt: f.Date.UTC(), UpdatedAt: f.Date.UTC(),
		}})
	}

	for _, g := range s.Growth {
		sd.Records = append(sd.Records, domain.Record{Kind: domain.KindGrowth, Growth: &domain.GrowthRecord{
			ID: g.ID, SubjectID: s.ID,
			Weight: g.Weight, WeightUnit: g.WeightUnit,
			Height: g.Height, HeightUnit: g.HeightUnit,
			HeadCircumference: g.HeadCircumference, HeadUnit: g.HeadUnit,
			Notes: g.Notes, Date: g.Date.UTC(), CreatedAt: g.Date.UTC(),
		}})
	}

	for _, m := range s.Milestones {
		sd.Records = append(sd.Records, domain.Record{Kind: domain.KindMilestone, Milestone: &domain.MilestoneRecord{
			ID: m.ID, SubjectID: s.ID, MilestoneID: m.MilestoneID, AchievedDate: m.Date.UTC(),
			Notes: m.Notes, PhotoURL: m.PhotoURL, Metadata: m.Metadata, CreatedAt: m.Date.UTC(),
		}})
	}

	for _, rec := range sd.Records {
		if rec.RecordID() == "" {
			return SubjectData{}, fmt.Errorf("%s record without id", rec.Kind)
		}
	}
	return sd, nil
}
