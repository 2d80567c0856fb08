package services

import "errors"

// Domain error kinds shared by all services. Handlers translate these to HTTP
// status codes; every operation that returns one leaves state unchanged.
var (
	// ErrValidation covers malformed or duplicate input, e.g. a second base
	// unit in a group or an allowed unit from the wrong group.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound is returned for an unknown id reference.
	ErrNotFound = errors.New("resource not found")

	// ErrIncompatibleUnits is returned for a conversion across unit groups.
	ErrIncompatibleUnits = errors.New("units belong to different groups")

	// ErrInsufficientStock is returned when an issue or transfer exceeds the
	// available normalized quantity.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrConflict is returned when a deletion is blocked by existing references.
	ErrConflict = errors.New("operation conflicts with existing references")

	// ErrFormula is returned for a malformed or unresolvable bundle formula.
	ErrFormula = errors.New("invalid bundle formula")
)
