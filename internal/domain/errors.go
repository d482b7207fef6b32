package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrParseFailure is returned when the grammar parser crashed on every candidate subtext
	ErrParseFailure = errors.New("ingredient grammar failed")

	// ErrNoMatch is returned by a grammar parser when no rule matches the text
	ErrNoMatch = errors.New("no grammar rule matched")

	// ErrUnknownUnit is returned when a unit is not known to the unit registry
	ErrUnknownUnit = errors.New("unknown unit")

	// ErrIncompatibleUnits is returned when quantity fragments have different dimensionalities
	ErrIncompatibleUnits = errors.New("incompatible units")

	// ErrUnsupportedUnits is returned when nutrition cannot be scaled for the canonical unit
	ErrUnsupportedUnits = errors.New("units are neither mass nor volume")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrKnowledgeAPIFailure is returned when the knowledge service request fails
	ErrKnowledgeAPIFailure = errors.New("knowledge service request failed")

	// ErrTaggerFailure is returned when the statistical tagger request fails
	ErrTaggerFailure = errors.New("ingredient tagger request failed")
)

// DescriptionError attaches the offending description to a per-description failure.
type DescriptionError struct {
	Description string
	Err         error
}

func (e *DescriptionError) Error() string {
	return fmt.Sprintf("description %q: %v", e.Description, e.Err)
}

func (e *DescriptionError) Unwrap() error {
	return e.Err
}
