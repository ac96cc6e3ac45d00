package service

import (
	"errors"
	"fmt"
)

// Common service errors
var (
	// ErrNotFound is returned when a resource is not found
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrConflict is returned when there's a conflict (e.g., duplicate)
	ErrConflict = errors.New("resource conflict")

	ErrOfferNotFound   = fmt.Errorf("offer %w", ErrNotFound)
	ErrProductNotFound = fmt.Errorf("product %w", ErrNotFound)
	ErrLineNotFound    = fmt.Errorf("offer line %w", ErrNotFound)

	// ErrUnknownShowdate is returned when visitors are set for a date that is not a showdate
	ErrUnknownShowdate = fmt.Errorf("%w: showdate is not part of the offer", ErrInvalidInput)

	// ErrInvalidCockpitField is returned for a malformed cockpit edit
	ErrInvalidCockpitField = fmt.Errorf("%w: invalid cockpit edit", ErrInvalidInput)

	// ErrMissingClient is returned when an offer is created without client or project name
	ErrMissingClient = fmt.Errorf("%w: client name and project name are required", ErrInvalidInput)

	// ErrNotPostEvent is returned when a forecast targets a product priced on the offer
	ErrNotPostEvent = fmt.Errorf("%w: product is not priced after the event", ErrInvalidInput)
)
