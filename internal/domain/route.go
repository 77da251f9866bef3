package domain

import "github.com/google/uuid"

// Route is one delivery route. Routes are immutable reference data seeded
// once by migration; Number is the stable 1..N identifier volunteers know.
type Route struct {
	ID     uuid.UUID `json:"id"`
	Number int       `json:"number"`
	Name   string    `json:"name,omitempty"`
}
