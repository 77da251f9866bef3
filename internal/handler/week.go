package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/dispatchday/route-roster/internal/domain"
)

// GetWeek handles GET /weeks?start=YYYY-MM-DD: returns the week starting on
// the given Monday, creating it on first navigation.
func (s *Server) GetWeek(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("start")
	if raw == "" {
		writeJSON(w, http.StatusUnprocessableEntity, requestBody("start query parameter is required"))
		return
	}
	start, err := time.Parse("2006-01-02", raw)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, requestBody("start must be a YYYY-MM-DD date"))
		return
	}

	var week domain.Week
	err = withRetry(r.Context(), func(ctx context.Context) error {
		var err error
		week, err = s.weeks.EnsureWeek(ctx, start)
		return err
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, week)
}

// PublishWeek handles POST /admin/weeks/{weekID}/publish: makes the week
// visible and enrollable for volunteers.
func (s *Server) PublishWeek(w http.ResponseWriter, r *http.Request) {
	weekID, err := pathUUID(r, "weekID")
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, requestBody(err.Error()))
		return
	}

	err = withRetry(r.Context(), func(ctx context.Context) error {
		return s.weeks.Publish(ctx, weekID)
	})
	if err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetWeekRoster handles GET /weeks/{weekID}/roster: the full day-by-route
// grid with occupants and effective capacities.
func (s *Server) GetWeekRoster(w http.ResponseWriter, r *http.Request) {
	weekID, err := pathUUID(r, "weekID")
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, requestBody(err.Error()))
		return
	}

	var grid []domain.RosterSlot
	err = withRetry(r.Context(), func(ctx context.Context) error {
		var err error
		grid, err = s.roster.WeekRoster(ctx, weekID)
		return err
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"data": grid})
}
