package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dispatchday/route-roster/internal/domain"
	"github.com/dispatchday/route-roster/internal/repo"
)

// WeekService manages week lifecycle: lazy creation on first navigation,
// publishing, and the end-date repair used by the background corrector.
type WeekService struct {
	store *repo.Store
}

// NewWeekService constructs a WeekService.
func NewWeekService(store *repo.Store) *WeekService {
	return &WeekService{store: store}
}

// EnsureWeek returns the week starting on the given Monday, creating it if
// this is the first time anyone navigated to it. The end date is always
// derived as start + 4 days.
// Returns domain.ErrValidation when start is not a Monday.
func (s *WeekService) EnsureWeek(ctx context.Context, start time.Time) (domain.Week, error) {
	start = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	if domain.WeekdayOf(start) != domain.Monday {
		return domain.Week{}, fmt.Errorf("%w: week start must be a Monday", domain.ErrValidation)
	}

	week, err := s.store.Weeks.Ensure(ctx, start)
	if err != nil {
		return domain.Week{}, fmt.Errorf("service.WeekService.EnsureWeek: %w", err)
	}
	return week, nil
}

// Publish makes a week visible and self-service-enrollable.
// Returns domain.ErrNotFound for an unknown week.
func (s *WeekService) Publish(ctx context.Context, weekID uuid.UUID) error {
	if weekID == uuid.Nil {
		return fmt.Errorf("%w: week is required", domain.ErrValidation)
	}
	if err := s.store.Weeks.Publish(ctx, weekID); err != nil {
		return fmt.Errorf("service.WeekService.Publish: %w", err)
	}
	return nil
}

// RepairWeekDates pins end_date = start_date + 4 days on any week that has
// drifted and returns how many rows were corrected.
func (s *WeekService) RepairWeekDates(ctx context.Context) (int64, error) {
	repaired, err := s.store.Weeks.RepairEndDates(ctx)
	if err != nil {
		return 0, fmt.Errorf("service.WeekService.RepairWeekDates: %w", err)
	}
	return repaired, nil
}
