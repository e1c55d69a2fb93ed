package types

import "errors"

// Sentinel errors for geosniff detection operations.
var (
	// ErrNotDetected indicates no rule matched under an expected-type
	// restriction. A normal outcome, not a failure to be logged.
	ErrNotDetected = errors.New("resource type not detected")

	// ErrExpressionNotBoolean indicates a detection expression whose
	// static result kind is not boolean.
	ErrExpressionNotBoolean = errors.New("detection expression does not yield a boolean")

	// ErrNoDocuments indicates a directory resource contained no candidate
	// documents within the enumeration bounds.
	ErrNoDocuments = errors.New("no candidate documents found")

	// ErrTypeNotFound indicates a catalog lookup for an unknown type ID.
	ErrTypeNotFound = errors.New("type not found in catalog")
)
