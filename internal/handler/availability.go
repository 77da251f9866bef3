package handler

import (
	"context"
	"net/http"

	"github.com/dispatchday/route-roster/internal/domain"
)

// UpdateMyAvailability handles PUT /volunteers/self/availability.
// The body carries the complete new day set; an empty list is a valid
// preference meaning "no days". The response reports how many future
// assignments the change removed.
func (s *Server) UpdateMyAvailability(w http.ResponseWriter, r *http.Request) {
	volID, err := volunteerID(r)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, requestBody(err.Error()))
		return
	}

	var req struct {
		Days []domain.Weekday `json:"days"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, requestBody(err.Error()))
		return
	}

	var result domain.ReconcileResult
	err = withRetry(r.Context(), func(ctx context.Context) error {
		var err error
		result, err = s.availability.UpdateAvailability(ctx, volID, req.Days)
		return err
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// GetMyAvailability handles GET /volunteers/self/availability.
func (s *Server) GetMyAvailability(w http.ResponseWriter, r *http.Request) {
	volID, err := volunteerID(r)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, requestBody(err.Error()))
		return
	}

	av, err := s.availability.GetAvailability(r.Context(), volID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, av)
}
