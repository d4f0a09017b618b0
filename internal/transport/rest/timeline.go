package rest

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/siron93/moms-app/internal/domain"
	"github.com/siron93/moms-app/internal/service/timeline"
)

// timelineService defines the minimal interface needed by TimelineHandler.
type timelineService interface {
	Aggregate(ctx context.Context, in timeline.PageInput) (*domain.TimelinePage, error)
	Item(ctx context.Context, subjectID, itemID string) (domain.TimelineItem, error)
	Milestones(ctx context.Context) ([]domain.MilestoneDefinition, error)
}

// TimelineHandler serves the read-only timeline endpoints.
type TimelineHandler struct {
	svc timelineService
	log *slog.Logger
}

// NewTimelineHandler creates a TimelineHandler.
func NewTimelineHandler(svc timelineService, logger *slog.Logger) *TimelineHandler {
	return &TimelineHandler{svc: svc, log: logger.With("handler", "timeline")}
}

type milestoneResponse struct {
	ID          string  `json:"id"`
	Category    string  `json:"category"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	IconURL     *string `json:"iconUrl,omitempty"`
	Order       int     `json:"order"`
}

type milestonesResponse struct {
	Milestones []milestoneResponse `json:"milestones"`
}

// Page handles GET /v1/subjects/{subjectID}/timeline.
// Query: cursor (opaque), limit (int), kinds (comma-separated).
func (h *TimelineHandler) Page(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	in := timeline.PageInput{
		SubjectID: r.PathValue("subjectID"),
		Cursor:    q.Get("cursor"),
	}

	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		in.Limit = limit
	}

	kinds, err := domain.ParseKinds(q.Get("kinds"))
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	in.Kinds = kinds

	page, err := h.svc.Aggregate(r.Context(), in)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	if page.Partial() {
		h.log.WarnContext(r.Context(), "partial timeline page",
			slog.String("subject_id", in.SubjectID),
			slog.Int("failed_sources", len(page.Warnings)),
		)
	}

	writeJSON(w, http.StatusOK, page)
}

// Item handles GET /v1/subjects/{subjectID}/timeline/items/{itemID}.
func (h *TimelineHandler) Item(w http.ResponseWriter, r *http.Request) {
	item, err := h.svc.Item(r.Context(), r.PathValue("subjectID"), r.PathValue("itemID"))
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// Milestones handles GET /v1/milestones.
func (h *TimelineHandler) Milestones(w http.ResponseWriter, r *http.Request) {
	defs, err := h.svc.Milestones(r.Context())
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	resp := milestonesResponse{Milestones: make([]milestoneResponse, len(defs))}
	for i, d := range defs {
		resp.Milestones[i] = milestoneResponse{
			ID:          d.ID,
			Category:    d.Category,
			Name:        d.Name,
			Description: d.Description,
			IconURL:     d.IconURL,
			Order:       d.Order,
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *TimelineHandler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, timeline.ErrAllSourcesFailed), errors.Is(err, domain.ErrUnavailable):
		h.log.WarnContext(r.Context(), "timeline unavailable", slog.String("error", err.Error()))
		writeError(w, http.StatusServiceUnavailable, "timeline temporarily unavailable")
	case errors.Is(err, context.Canceled):
		// Client went away; nothing to write to.
	default:
		h.log.ErrorContext(r.Context(), "internal error", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
