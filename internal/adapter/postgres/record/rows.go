package record

import (
	"time"

	"github.com/siron93/moms-app/internal/domain"
)

type photoRow struct {
	ID              string    `db:"id"`
	SubjectID       string    `db:"subject_id"`
	Caption         *string   `db:"caption"`
	MediaURLs       []string  `db:"media_urls"`
	MediaTypes      []string  `db:"media_types"`
	LocalMediaPaths []string  `db:"local_media_paths"`
	Tags            []string  `db:"tags"`
	Date            time.Time `db:"date"`
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
}

func (r photoRow) toDomain() domain.Record {
	types := make([]domain.MediaType, len(r.MediaTypes))
	for i, t := range r.MediaTypes {
		types[i] = domain.MediaType(t)
	}
	return domain.Record{Kind: domain.KindPhoto, Photo: &domain.PhotoRecord{
		ID:              r.ID,
		SubjectID:       r.SubjectID,
		Caption:         r.Caption,
		MediaURLs:       r.MediaURLs,
		MediaTypes:      types,
		LocalMediaPaths: r.LocalMediaPaths,
		Tags:            r.Tags,
		Date:            r.Date,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}}
}

type journalRow struct {
	ID        string    `db:"id"`
	SubjectID string    `db:"subject_id"`
	Title     *string   `db:"title"`
	Content   string    `db:"content"`
	Tags      []string  `db:"tags"`
	Date      time.Time `db:"date"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (r journalRow) toDomain() domain.Record {
	return domain.Record{Kind: domain.KindJournal, Journal: &domain.JournalRecord{
		ID:        r.ID,
		SubjectID: r.SubjectID,
		Title:     r.Title,
		Content:   r.Content,
		Tags:      r.Tags,
		Date:      r.Date,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}}
}

type firstRow struct {
	ID          string    `db:"id"`
	SubjectID   string    `db:"subject_id"`
	FirstType   string    `db:"first_type"`
	Title       string    `db:"title"`
	Description *string   `db:"description"`
	Tags        []string  `db:"tags"`
	Date        time.Time `db:"date"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func (r firstRow) toDomain() domain.Record {
	return domain.Record{Kind: domain.KindFirst, First: &domain.FirstRecord{
		ID:          r.ID,
		SubjectID:   r.SubjectID,
		FirstType:   r.FirstType,
		Title:       r.Title,
		Description: r.Description,
		Tags:        r.Tags,
		Date:        r.Date,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}}
}

type growthRow struct {
	ID                string    `db:"id"`
	SubjectID         string    `db:"subject_id"`
	Weight            *float64  `db:"weight"`
	WeightUnit        *string   `db:"weight_unit"`
	Height            *float64  `db:"height"`
	HeightUnit        *string   `db:"height_unit"`
	HeadCircumference *float64  `db:"head_circumference"`
	HeadUnit          *string   `db:"head_unit"`
	Notes             *string   `db:"notes"`
	Date              time.Time `db:"date"`
	CreatedAt         time.Time `db:"created_at"`
}

func (r growthRow) toDomain() domain.Record {
	return domain.Record{Kind: domain.KindGrowth, Growth: &domain.GrowthRecord{
		ID:                r.ID,
		SubjectID:         r.SubjectID,
		Weight:            r.Weight,
		WeightUnit:        r.WeightUnit,
		Height:            r.Height,
		HeightUnit:        r.HeightUnit,
		HeadCircumference: r.HeadCircumference,
		HeadUnit:          r.HeadUnit,
		Notes:             r.Notes,
		Date:              r.Date,
		CreatedAt:         r.CreatedAt,
	}}
}

type milestoneRow struct {
	ID             string            `db:"id"`
	SubjectID      string            `db:"subject_id"`
	MilestoneID    string            `db:"milestone_id"`
	AchievedDate   time.Time         `db:"achieved_date"`
	Notes          *string           `db:"notes"`
	PhotoURL       *string           `db:"photo_url"`
	PhotoLocalPath *string           `db:"photo_local_path"`
	Metadata       map[string]string `db:"metadata"`
	CreatedAt      time.Time         `db:"created_at"`
	UpdatedAt      *time.Time        `db:"updated_at"`
}

func (r milestoneRow) toDomain() domain.Record {
	return domain.Record{Kind: domain.KindMilestone, Milestone: &domain.MilestoneRecord{
		ID:             r.ID,
		SubjectID:      r.SubjectID,
		MilestoneID:    r.MilestoneID,
		AchievedDate:   r.AchievedDate,
		Notes:          r.Notes,
		PhotoURL:       r.PhotoURL,
		PhotoLocalPath: r.PhotoLocalPath,
		Metadata:       r.Metadata,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}}
}
