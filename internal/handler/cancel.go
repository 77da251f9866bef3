package handler

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/dispatchday/route-roster/internal/domain"
)

// CreateCancellation handles POST /cancellations: a volunteer giving up their
// own assignment. The assignment is deleted and an immutable audit record
// remains.
func (s *Server) CreateCancellation(w http.ResponseWriter, r *http.Request) {
	volID, err := volunteerID(r)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, requestBody(err.Error()))
		return
	}

	var req struct {
		AssignmentID uuid.UUID `json:"assignment_id"`
		Reason       string    `json:"reason"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, requestBody(err.Error()))
		return
	}

	err = withRetry(r.Context(), func(ctx context.Context) error {
		return s.cancel.Cancel(ctx, req.AssignmentID, volID, req.Reason)
	})
	if err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListCancellations handles GET /admin/cancellations. An optional ?week_id=
// filter restricts the audit trail to one week.
func (s *Server) ListCancellations(w http.ResponseWriter, r *http.Request) {
	weekID := uuid.Nil
	if raw := r.URL.Query().Get("week_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			writeJSON(w, http.StatusUnprocessableEntity, requestBody("invalid week_id"))
			return
		}
		weekID = id
	}

	var records []domain.CancellationRecord
	err := withRetry(r.Context(), func(ctx context.Context) error {
		var err error
		records, err = s.cancel.ListCancellations(ctx, weekID)
		return err
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"data": records})
}
