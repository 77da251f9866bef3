package handler

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/dispatchday/route-roster/internal/domain"
)

// assignmentRequest is the body for admin assignment mutations.
type assignmentRequest struct {
	slotRequest
	VolunteerID uuid.UUID `json:"volunteer_id"`
}

// CreateAssignment handles POST /admin/assignments: placing a volunteer on a
// slot with administrator authority. Unpublished weeks are fair game.
func (s *Server) CreateAssignment(w http.ResponseWriter, r *http.Request) {
	var req assignmentRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, requestBody(err.Error()))
		return
	}

	var result domain.SignupResult
	err := withRetry(r.Context(), func(ctx context.Context) error {
		var err error
		result, err = s.roster.Assign(ctx, req.WeekID, req.Day, req.RouteID, req.VolunteerID)
		return err
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, result)
}

// DeleteAssignment handles DELETE /admin/assignments: removing the exact
// (week, day, route, volunteer) assignment. Removing a missing assignment
// succeeds, so the operation is safe to repeat.
func (s *Server) DeleteAssignment(w http.ResponseWriter, r *http.Request) {
	var req assignmentRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, requestBody(err.Error()))
		return
	}

	err := withRetry(r.Context(), func(ctx context.Context) error {
		return s.roster.Remove(ctx, req.WeekID, req.Day, req.RouteID, req.VolunteerID)
	})
	if err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// SetRequirement handles PUT /admin/requirements: configuring how many
// volunteers one slot takes.
func (s *Server) SetRequirement(w http.ResponseWriter, r *http.Request) {
	var req struct {
		slotRequest
		MaxVolunteers int `json:"max_volunteers"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, requestBody(err.Error()))
		return
	}

	var requirement domain.RouteRequirement
	err := withRetry(r.Context(), func(ctx context.Context) error {
		var err error
		requirement, err = s.roster.SetRequirement(ctx, req.WeekID, req.Day, req.RouteID, req.MaxVolunteers)
		return err
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, requirement)
}
