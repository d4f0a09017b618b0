package domain

import (
	"strings"
	"time"
)

// RecordQuery asks one collection for a subject's most recent records.
type RecordQuery struct {
	Kind      Kind
	SubjectID string
	// After restricts the result to records strictly after this bound in
	// timeline order. Nil means from the newest record.
	After *RecordBound
	Limit int
}

// RecordBound is a timeline cursor projected onto a single collection.
//
// A record is after the bound when its date is older than Date, or when it
// shares Date and either AllAtDate is set or its raw id sorts below ID.
type RecordBound struct {
	Date      time.Time
	ID        string
	AllAtDate bool
}

// BoundFor projects k onto the collection of the given kind. Item ids are
// namespaced, so at an equal date a foreign collection sorts either entirely
// before or entirely after the key.
func (k SortKey) BoundFor(kind Kind) RecordBound {
	prefix := ItemID(kind, "")
	if raw, ok := strings.CutPrefix(k.ID, prefix); ok {
		return RecordBound{Date: k.Date, ID: raw}
	}
	return RecordBound{Date: k.Date, AllAtDate: prefix < k.ID}
}

// Admits reports whether a record with the given date and raw id lies after b.
func (b RecordBound) Admits(date time.Time, id string) bool {
	switch c := date.Compare(b.Date); {
	case c < 0:
		return true
	case c > 0:
		return false
	}
	return b.AllAtDate || id < b.ID
}
