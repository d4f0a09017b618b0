package rest

import (
	"net/http"

	"github.com/siron93/moms-app/internal/transport/middleware"
)

// NewRouter wires the timeline and health endpoints behind the given
// middleware chain.
func NewRouter(tl *TimelineHandler, health *HealthHandler, mw middleware.Middleware) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /live", health.Live)
	mux.HandleFunc("GET /ready", health.Ready)
	mux.HandleFunc("GET /health", health.Health)

	mux.HandleFunc("GET /v1/subjects/{subjectID}/timeline", tl.Page)
	mux.HandleFunc("GET /v1/subjects/{subjectID}/timeline/items/{itemID}", tl.Item)
	mux.HandleFunc("GET /v1/milestones", tl.Milestones)

	return mw(mux)
}
