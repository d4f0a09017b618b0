package domain

import (
	"cmp"
	"fmt"
	"slices"
	"time"
)

// TimelineItem is the normalized projection of one source record. Exactly
// one variant pointer is non-nil and it matches Kind. Items are never
// persisted server-side; they are recomputed on every read.
type TimelineItem struct {
	ID        string    `json:"id"`
	SubjectID string    `json:"subjectId"`
	Kind      Kind      `json:"kind"`
	Date      time.Time `json:"date"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Tags      []string  `json:"tags"`
	Title     *string   `json:"title,omitempty"`
	AgeLabel  string    `json:"ageLabel,omitempty"`

	Photo     *PhotoItem     `json:"photo,omitempty"`
	Journal   *JournalItem   `json:"journal,omitempty"`
	First     *FirstItem     `json:"first,omitempty"`
	Growth    *GrowthItem    `json:"growth,omitempty"`
	Milestone *MilestoneItem `json:"milestone,omitempty"`
}

// PhotoItem holds photo/video memory fields. MediaURLs, MediaTypes and
// LocalMediaPaths (when present) are parallel: index i is one asset.
type PhotoItem struct {
	MediaURL        string        `json:"mediaUrl"`
	MediaURLs       []string      `json:"mediaUrls"`
	MediaTypes      []MediaType   `json:"mediaTypes"`
	LocalMediaPaths []string      `json:"localMediaPaths,omitempty"`
	Caption         *string       `json:"caption,omitempty"`
	BirthAnnounce   bool          `json:"birthAnnouncement,omitempty"`
	Birth           *BirthDetails `json:"birth,omitempty"`
}

// BirthDetails are the subject's recorded birth measurements, attached to
// birth-announcement photos.
type BirthDetails struct {
	Weight     *float64 `json:"weight,omitempty"`
	WeightUnit string   `json:"weightUnit,omitempty"`
	Length     *float64 `json:"length,omitempty"`
	LengthUnit string   `json:"lengthUnit,omitempty"`
}

// JournalItem holds journal entry fields.
type JournalItem struct {
	Content string `json:"content"`
}

// FirstItem holds "first" memory fields.
type FirstItem struct {
	FirstType   string  `json:"firstType"`
	Description *string `json:"description,omitempty"`
}

// Measurement is a unit-tagged optional value.
type Measurement struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit,omitempty"`
}

// GrowthItem holds growth log fields.
type GrowthItem struct {
	Weight            *Measurement `json:"weight,omitempty"`
	Height            *Measurement `json:"height,omitempty"`
	HeadCircumference *Measurement `json:"headCircumference,omitempty"`
	Notes             *string      `json:"notes,omitempty"`
}

// MilestoneItem holds milestone entry fields joined with the reference table.
type MilestoneItem struct {
	MilestoneID    string            `json:"milestoneId"`
	Name           string            `json:"name"`
	Category       string            `json:"category"`
	Order          int               `json:"order"`
	AchievedDate   time.Time         `json:"achievedDate"`
	Notes          *string           `json:"notes,omitempty"`
	MediaURL       string            `json:"mediaUrl,omitempty"`
	PhotoURL       *string           `json:"photoUrl,omitempty"`
	PhotoLocalPath *string           `json:"photoLocalPath,omitempty"`
	Metadata       map[string]string `json:"metadata,omitempty"`
}

// ItemID namespaces a collection-local record id by its kind so ids are
// unique across all variants of one subject.
func ItemID(kind Kind, recordID string) string {
	return string(kind) + ":" + recordID
}

// HasTag reports whether the item carries the given tag.
func (it TimelineItem) HasTag(tag string) bool {
	return slices.Contains(it.Tags, tag)
}

// LocalMediaPath returns an offline-resident copy of the first asset, if any.
func (it TimelineItem) LocalMediaPath() (string, bool) {
	switch {
	case it.Photo != nil && len(it.Photo.LocalMediaPaths) > 0 && it.Photo.LocalMediaPaths[0] != "":
		return it.Photo.LocalMediaPaths[0], true
	case it.Milestone != nil && it.Milestone.PhotoLocalPath != nil && *it.Milestone.PhotoLocalPath != "":
		return *it.Milestone.PhotoLocalPath, true
	}
	return "", false
}

// Validate checks the union shape and the parallel media sequences.
func (it TimelineItem) Validate() error {
	set := 0
	for _, ok := range []bool{it.Photo != nil, it.Journal != nil, it.First != nil, it.Growth != nil, it.Milestone != nil} {
		if ok {
			set++
		}
	}
	if set != 1 {
		return fmt.Errorf("timeline item %s: %d variants set: %w", it.ID, set, ErrValidation)
	}

	var match bool
	switch it.Kind {
	case KindPhoto:
		match = it.Photo != nil
	case KindJournal:
		match = it.Journal != nil
	case KindFirst:
		match = it.First != nil
	case KindGrowth:
		match = it.Growth != nil
	case KindMilestone:
		match = it.Milestone != nil
	}
	if !match {
		return fmt.Errorf("timeline item %s: kind %q does not match variant: %w", it.ID, it.Kind, ErrValidation)
	}

	if p := it.Photo; p != nil {
		if len(p.MediaURLs) == 0 {
			return fmt.Errorf("timeline item %s: no media: %w", it.ID, ErrValidation)
		}
		if len(p.MediaTypes) != len(p.MediaURLs) {
			return fmt.Errorf("timeline item %s: %d media types for %d urls: %w", it.ID, len(p.MediaTypes), len(p.MediaURLs), ErrValidation)
		}
		if p.LocalMediaPaths != nil && len(p.LocalMediaPaths) != len(p.MediaURLs) {
			return fmt.Errorf("timeline item %s: %d local paths for %d urls: %w", it.ID, len(p.LocalMediaPaths), len(p.MediaURLs), ErrValidation)
		}
	}
	return nil
}

// ---------------------------------------------------------------------------
// Total order
// ---------------------------------------------------------------------------

// SortKey is the position of an item in the timeline order.
type SortKey struct {
	Date time.Time
	ID   string
}

// Key returns the item's sort key.
func (it TimelineItem) Key() SortKey {
	return SortKey{Date: it.Date, ID: it.ID}
}

// CompareKeys orders keys newest first, breaking date ties by id descending.
// It returns a negative number when a comes before b.
func CompareKeys(a, b SortKey) int {
	if c := b.Date.Compare(a.Date); c != 0 {
		return c
	}
	return cmp.Compare(b.ID, a.ID)
}

// CompareItems applies CompareKeys to two items.
func CompareItems(a, b TimelineItem) int {
	return CompareKeys(a.Key(), b.Key())
}

// SortItems sorts items in timeline order. The order is total because ids are
// unique, so the result does not depend on input order.
func SortItems(items []TimelineItem) {
	slices.SortFunc(items, CompareItems)
}

// After reports whether k comes strictly after cursor in timeline order.
func (k SortKey) After(cursor SortKey) bool {
	return CompareKeys(k, cursor) > 0
}
