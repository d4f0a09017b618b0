package domain

import "time"

// Subject is the baby profile a timeline belongs to.
type Subject struct {
	ID              string
	Name            string
	BirthDate       time.Time
	BirthWeight     *float64
	BirthWeightUnit *string
	BirthLength     *float64
	BirthLengthUnit *string
	CreatedAt       time.Time
}

// BirthDetails returns the recorded birth measurements, or nil when none were recorded.
func (s Subject) BirthDetails() *BirthDetails {
	if s.BirthWeight == nil && s.BirthLength == nil {
		return nil
	}
	d := &BirthDetails{
		Weight: s.BirthWeight,
		Length: s.BirthLength,
	}
	if s.BirthWeightUnit != nil {
		d.WeightUnit = *s.BirthWeightUnit
	}
	if s.BirthLengthUnit != nil {
		d.LengthUnit = *s.BirthLengthUnit
	}
	return d
}

// MilestoneDefinition is a row of the milestone reference table.
type MilestoneDefinition struct {
	ID          string
	Category    string
	Name        string
	Description *string
	IconURL     *string
	Order       int
}

// FirstWordMilestone is the reference name whose entries carry metadata["word"].
const FirstWordMilestone = "First Word"
