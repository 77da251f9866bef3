package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/dispatchday/route-roster/internal/domain"
)

// ErrorResponse is the wire shape of every non-2xx body.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries a stable machine code plus a human-readable message.
// Capacity and day-conflict rejections also carry structured context so
// clients can render "2 of 2 filled" without parsing the message.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`

	CurrentCount  *int `json:"current_count,omitempty"`
	MaxVolunteers *int `json:"max_volunteers,omitempty"`
	RouteNumber   *int `json:"route_number,omitempty"`
}

// writeJSON serializes v with the given status. Encoding failures at this
// point can only be programming errors, so they are logged, not surfaced.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}

// writeError maps a service error onto the HTTP surface:
//
//	409 — business conflicts (full slot, day conflict, duplicates, unpublished week)
//	422 — validation failures
//	404 — missing resources; ownership failures are deliberately
//	      indistinguishable from missing ones
//	500 — everything else
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrSlotFull):
		var full *domain.SlotFullError
		detail := ErrorDetail{Code: "slot_full", Message: unwrapMessage(err)}
		if errors.As(err, &full) {
			detail.CurrentCount = &full.Current
			detail.MaxVolunteers = &full.Max
		}
		writeJSON(w, http.StatusConflict, ErrorResponse{Error: detail})

	case errors.Is(err, domain.ErrDayConflict):
		var conflict *domain.DayConflictError
		detail := ErrorDetail{Code: "day_conflict", Message: unwrapMessage(err)}
		if errors.As(err, &conflict) {
			detail.RouteNumber = &conflict.RouteNumber
		}
		writeJSON(w, http.StatusConflict, ErrorResponse{Error: detail})

	case errors.Is(err, domain.ErrAlreadyAssignedThisDay):
		writeJSON(w, http.StatusConflict, conflictBody("already_assigned_this_day", err))
	case errors.Is(err, domain.ErrDuplicateSignup):
		writeJSON(w, http.StatusConflict, conflictBody("duplicate_signup", err))
	case errors.Is(err, domain.ErrDuplicateAssignment):
		writeJSON(w, http.StatusConflict, conflictBody("duplicate_assignment", err))
	case errors.Is(err, domain.ErrNotPublished):
		writeJSON(w, http.StatusConflict, conflictBody("week_not_published", err))

	case errors.Is(err, domain.ErrValidation):
		writeJSON(w, http.StatusUnprocessableEntity, validationBody(err))

	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrNotOwner):
		writeJSON(w, http.StatusNotFound, notFoundBody("resource not found"))

	default:
		slog.Error("request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{
			Error: ErrorDetail{Code: "internal_error", Message: "internal server error"},
		})
	}
}

// conflictBody returns an ErrorResponse for a 409 business conflict.
func conflictBody(code string, err error) ErrorResponse {
	return ErrorResponse{Error: ErrorDetail{Code: code, Message: unwrapMessage(err)}}
}

// notFoundBody returns an ErrorResponse for a missing resource. The caller
// supplies the message because the handler knows what was being looked up.
func notFoundBody(message string) ErrorResponse {
	return ErrorResponse{Error: ErrorDetail{Code: "not_found", Message: message}}
}

// validationBody returns an ErrorResponse for a domain validation failure,
// with the message extracted from the wrapped domain.ErrValidation error.
func validationBody(err error) ErrorResponse {
	return ErrorResponse{Error: ErrorDetail{Code: "validation_error", Message: unwrapMessage(err)}}
}

// requestBody returns an ErrorResponse for a request rejected before reaching
// the service layer (e.g. missing or malformed body).
func requestBody(message string) ErrorResponse {
	return ErrorResponse{Error: ErrorDetail{Code: "validation_error", Message: message}}
}

// unwrapMessage extracts the human-readable tail from a wrapped error, e.g.
// "service.SignupService.AttemptSignup: validation error: day must be monday
// through friday" becomes "day must be monday through friday".
func unwrapMessage(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	// Strip one "service.X.Y: " wrapping prefix, then the sentinel's own
	// "validation error: " prefix when present.
	if strings.HasPrefix(msg, "service.") {
		if i := strings.Index(msg, ": "); i >= 0 {
			msg = msg[i+2:]
		}
	}
	return strings.TrimPrefix(msg, "validation error: ")
}

// withRetry runs fn, retrying once after a short pause when it fails with an
// infrastructure fault. Business rejections are final and never retried; a
// transient database hiccup gets a second chance before the client sees a 500.
func withRetry(ctx context.Context, fn func(ctx context.Context) error) error {
	backoff := retry.WithMaxRetries(1, retry.NewConstant(50*time.Millisecond))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := fn(ctx)
		if err == nil || domain.IsRejection(err) {
			return err
		}
		return retry.RetryableError(err)
	})
}
