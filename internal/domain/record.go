package domain

import "time"

// Record is one row read from a source collection. Exactly one of the
// typed fields is set, matching Kind.
type Record struct {
	Kind      Kind
	Photo     *PhotoRecord
	Journal   *JournalRecord
	First     *FirstRecord
	Growth    *GrowthRecord
	Milestone *MilestoneRecord
}

// RecordID returns the collection-local id of the wrapped record.
func (r Record) RecordID() string {
	switch r.Kind {
	case KindPhoto:
		if r.Photo != nil {
			return r.Photo.ID
		}
	case KindJournal:
		if r.Journal != nil {
			return r.Journal.ID
		}
	case KindFirst:
		if r.First != nil {
			return r.First.ID
		}
	case KindGrowth:
		if r.Growth != nil {
			return r.Growth.ID
		}
	case KindMilestone:
		if r.Milestone != nil {
			return r.Milestone.ID
		}
	}
	return ""
}

// Key returns the timeline position of the record, with its id namespaced
// like the item it normalizes to. Milestones sort by achieved date.
func (r Record) Key() SortKey {
	var date time.Time
	switch {
	case r.Photo != nil:
		date = r.Photo.Date
	case r.Journal != nil:
		date = r.Journal.Date
	case r.First != nil:
		date = r.First.Date
	case r.Growth != nil:
		date = r.Growth.Date
	case r.Milestone != nil:
		date = r.Milestone.AchievedDate
	}
	return SortKey{Date: date, ID: ItemID(r.Kind, r.RecordID())}
}

// PhotoRecord is a row of the photos collection.
type PhotoRecord struct {
	ID              string
	SubjectID       string
	Caption         *string
	MediaURLs       []string
	MediaTypes      []MediaType
	LocalMediaPaths []string
	Tags            []string
	Date            time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// JournalRecord is a row of the journal_entries collection.
type JournalRecord struct {
	ID        string
	SubjectID string
	Title     *string
	Content   string
	Tags      []string
	Date      time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// FirstRecord is a row of the firsts collection.
type FirstRecord struct {
	ID          string
	SubjectID   string
	FirstType   string
	Title       string
	Description *string
	Tags        []string
	Date        time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// GrowthRecord is a row of the growth_logs collection. Growth logs are never
// edited, so they carry no updated_at.
type GrowthRecord struct {
	ID                string
	SubjectID         string
	Weight            *float64
	WeightUnit        *string
	Height            *float64
	HeightUnit        *string
	HeadCircumference *float64
	HeadUnit          *string
	Notes             *string
	Date              time.Time
	CreatedAt         time.Time
}

// MilestoneRecord is a row of the milestone_entries collection.
type MilestoneRecord struct {
	ID             string
	SubjectID      string
	MilestoneID    string
	AchievedDate   time.Time
	Notes          *string
	PhotoURL       *string
	PhotoLocalPath *string
	Metadata       map[string]string
	CreatedAt      time.Time
	UpdatedAt      *time.Time
}
