package timelinesync

import "github.com/siron93/moms-app/internal/domain"

// Status is the controller's position in its state machine:
//
//	Idle -> Loading -> Ready <-> LoadingMore
//	Ready -> Refreshing -> Ready
//	any -> Offline -> (reconnect) Refreshing -> Ready
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusReady
	StatusLoadingMore
	StatusRefreshing
	StatusOffline
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusReady:
		return "ready"
	case StatusLoadingMore:
		return "loading_more"
	case StatusRefreshing:
		return "refreshing"
	case StatusOffline:
		return "offline"
	default:
		return "unknown"
	}
}

// State is the view of a subject's timeline handed to the presentation
// layer. It never exposes collection-level details beyond warnings.
type State struct {
	SubjectID     string
	Status        Status
	Items         []domain.TimelineItem
	IsLoading     bool
	IsLoadingMore bool
	HasMore       bool
	Err           error
	IsOffline     bool
	// Stale is set while items come from a cache entry older than its TTL.
	Stale    bool
	Warnings []domain.SourceWarning
}
