package models

import (
	"errors"
	"fmt"
)

// Sentinel errors shared by the entities and the services. Callers wrap them
// with context and branch on them with errors.Is.
var (
	// ErrValidation is returned for bad arguments: empty title, rating out of
	// range, end before start, negative price.
	ErrValidation = errors.New("validation failed")

	// ErrState is returned when an operation is not allowed in the current
	// lifecycle state of an entity.
	ErrState = errors.New("illegal state")

	// ErrNotFound is returned by operations addressed by an unknown id.
	// Plain lookups report absence with a boolean instead.
	ErrNotFound = errors.New("not found")

	// ErrSelfDealing is returned when an account tries to reserve or buy its
	// own listing. It matches ErrValidation.
	ErrSelfDealing = fmt.Errorf("%w: account cannot deal with its own listing", ErrValidation)
)
