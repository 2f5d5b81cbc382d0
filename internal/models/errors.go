package models

import "errors"

// Store-level failure taxonomy. Provider packages carry their own sentinel
// errors; the planner service wraps them into these so handlers and the
// status surface see a single vocabulary.
var (
	ErrValidation         = errors.New("validation failed")
	ErrNotFound           = errors.New("place not found")
	ErrInvalidResult      = errors.New("provider returned invalid result")
	ErrInsufficientPoints = errors.New("at least two routable points are required")
	ErrRouteComputation   = errors.New("route computation failed")
	ErrNoAreaSelected     = errors.New("no map area selected")
	ErrInvariantViolation = errors.New("itinerary invariant violated")
	ErrAuthRequired       = errors.New("authentication required")
	ErrTransport          = errors.New("network failure")
)
