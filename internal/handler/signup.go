package handler

import (
	"context"
	"net/http"

	"github.com/dispatchday/route-roster/internal/domain"
)

// CreateSignup handles POST /signups: a volunteer claiming one open slot.
func (s *Server) CreateSignup(w http.ResponseWriter, r *http.Request) {
	volID, err := volunteerID(r)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, requestBody(err.Error()))
		return
	}

	var req slotRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, requestBody(err.Error()))
		return
	}

	var result domain.SignupResult
	err = withRetry(r.Context(), func(ctx context.Context) error {
		var err error
		result, err = s.signup.AttemptSignup(ctx, req.WeekID, req.Day, req.RouteID, volID)
		return err
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, result)
}
