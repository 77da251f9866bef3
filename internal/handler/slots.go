package handler

import (
	"context"
	"net/http"

	"github.com/dispatchday/route-roster/internal/domain"
)

// ListOpenSlots handles GET /slots/open: every vacancy visible to the caller,
// ordered week, day, route.
func (s *Server) ListOpenSlots(w http.ResponseWriter, r *http.Request) {
	volID, err := volunteerID(r)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, requestBody(err.Error()))
		return
	}

	var open []domain.OpenSlot
	err = withRetry(r.Context(), func(ctx context.Context) error {
		var err error
		open, err = s.slots.ListOpenSlots(ctx, volID)
		return err
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"data": open})
}

// ListRoutes handles GET /routes.
func (s *Server) ListRoutes(w http.ResponseWriter, r *http.Request) {
	routes, err := s.slots.ListRoutes(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": routes})
}

// ListMyAssignments handles GET /volunteers/self/assignments: the caller's
// schedule across all weeks.
func (s *Server) ListMyAssignments(w http.ResponseWriter, r *http.Request) {
	volID, err := volunteerID(r)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, requestBody(err.Error()))
		return
	}

	assignments, err := s.slots.ListVolunteerAssignments(r.Context(), volID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": assignments})
}
