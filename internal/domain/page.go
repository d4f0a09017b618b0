package domain

// TimelinePage is one page of a subject's timeline.
type TimelinePage struct {
	Items []TimelineItem `json:"items"`
	// NextCursor is nil once the timeline is exhausted.
	NextCursor *string         `json:"nextCursor"`
	IsDone     bool            `json:"isDone"`
	Warnings   []SourceWarning `json:"warnings,omitempty"`
}

// SourceWarning reports a collection that contributed nothing to a page
// because its fetch failed.
type SourceWarning struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
}

// Partial reports whether any collection failed while building the page.
func (p *TimelinePage) Partial() bool {
	return len(p.Warnings) > 0
}
