package domain

import (
	"fmt"
	"strings"
)

// Kind identifies the source collection a timeline item was projected from.
type Kind string

const (
	KindPhoto     Kind = "photo"
	KindJournal   Kind = "journal"
	KindFirst     Kind = "first"
	KindGrowth    Kind = "growth"
	KindMilestone Kind = "milestone"
)

// AllKinds lists every source collection in fan-out order.
var AllKinds = []Kind{KindPhoto, KindJournal, KindFirst, KindGrowth, KindMilestone}

func (k Kind) String() string { return string(k) }

func (k Kind) IsValid() bool {
	switch k {
	case KindPhoto, KindJournal, KindFirst, KindGrowth, KindMilestone:
		return true
	}
	return false
}

// ParseKinds parses a comma-separated kind list ("photo,journal").
// An empty string returns nil, meaning all kinds.
func ParseKinds(raw string) ([]Kind, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	seen := make(map[Kind]bool)
	var kinds []Kind
	for _, part := range strings.Split(raw, ",") {
		k := Kind(strings.ToLower(strings.TrimSpace(part)))
		if k == "" {
			continue
		}
		if !k.IsValid() {
			return nil, NewValidationError("kinds", fmt.Sprintf("unknown kind %q", k))
		}
		if seen[k] {
			continue
		}
		seen[k] = true
		kinds = append(kinds, k)
	}
	return kinds, nil
}

// MediaType is the type of a single media asset attached to a photo memory.
type MediaType string

const (
	MediaTypeImage MediaType = "image"
	MediaTypeVideo MediaType = "video"
)

func (m MediaType) IsValid() bool {
	return m == MediaTypeImage || m == MediaTypeVideo
}
