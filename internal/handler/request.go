package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dispatchday/route-roster/internal/domain"
)

// volunteerIDHeader carries the caller's externally-issued volunteer identity.
// Authentication happens upstream; this API trusts the header.
const volunteerIDHeader = "X-Volunteer-ID"

// volunteerID extracts and parses the caller identity header.
func volunteerID(r *http.Request) (uuid.UUID, error) {
	raw := r.Header.Get(volunteerIDHeader)
	if raw == "" {
		return uuid.Nil, errors.New("missing " + volunteerIDHeader + " header")
	}
	id, err := uuid.Parse(raw)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, errors.New("invalid " + volunteerIDHeader + " header")
	}
	return id, nil
}

// decodeBody strictly decodes the JSON request body into dst. Unknown fields
// and trailing garbage are rejected so client typos fail loudly.
func decodeBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is required")
		}
		return errors.New("malformed request body: " + err.Error())
	}
	if dec.More() {
		return errors.New("unexpected data after JSON body")
	}
	return nil
}

// pathUUID parses a UUID route parameter.
func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, errors.New("invalid " + name)
	}
	return id, nil
}

// slotRequest is the common (week, day, route) triple most mutations carry.
type slotRequest struct {
	WeekID  uuid.UUID      `json:"week_id"`
	Day     domain.Weekday `json:"day"`
	RouteID uuid.UUID      `json:"route_id"`
}
