package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/dispatchday/route-roster/internal/domain"
	"github.com/dispatchday/route-roster/internal/repo"
)

// CancelService handles volunteer-initiated cancellations and the audit trail
// they leave behind.
type CancelService struct {
	tx    repo.Tx
	store *repo.Store
}

// NewCancelService constructs a CancelService.
func NewCancelService(tx repo.Tx, store *repo.Store) *CancelService {
	return &CancelService{tx: tx, store: store}
}

// Cancel removes the volunteer's own assignment, leaving an immutable
// cancellation record. The record is written before the delete inside one
// transaction, so a failure between the two can never produce a cancellation
// with no audit entry.
//
// Returns domain.ErrNotFound when the assignment does not exist and
// domain.ErrNotOwner when it belongs to a different volunteer.
func (s *CancelService) Cancel(ctx context.Context, assignmentID, volunteerID uuid.UUID, reason string) error {
	if assignmentID == uuid.Nil || volunteerID == uuid.Nil {
		return fmt.Errorf("%w: assignment and volunteer are required", domain.ErrValidation)
	}

	err := s.tx.InTx(ctx, func(st *repo.Store) error {
		a, err := st.Assignments.GetByID(ctx, assignmentID)
		if err != nil {
			return err
		}
		if a.VolunteerID != volunteerID {
			return domain.ErrNotOwner
		}

		// Log first, delete second.
		if _, err := st.Cancellations.Create(ctx, domain.CancellationRecord{
			WeekID:      a.WeekID,
			Day:         a.Day,
			RouteID:     a.RouteID,
			VolunteerID: a.VolunteerID,
			Reason:      reason,
		}); err != nil {
			return err
		}
		return st.Assignments.DeleteByID(ctx, a.ID)
	})
	if err != nil {
		return fmt.Errorf("service.CancelService.Cancel: %w", err)
	}
	return nil
}

// ListCancellations returns the audit records for a week, or across all weeks
// when weekID is uuid.Nil. Always returns a non-nil slice.
func (s *CancelService) ListCancellations(ctx context.Context, weekID uuid.UUID) ([]domain.CancellationRecord, error) {
	records, err := s.store.Cancellations.ListByWeek(ctx, weekID)
	if err != nil {
		return nil, fmt.Errorf("service.CancelService.ListCancellations: %w", err)
	}
	if records == nil {
		records = []domain.CancellationRecord{}
	}
	return records, nil
}
