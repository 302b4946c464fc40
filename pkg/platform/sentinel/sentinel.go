package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores return these
// (optionally wrapped) so services can translate them into domain
// errors.
//
// These represent factual states about resources, not validation
// failures:
// - ErrNotFound: aggregate does not exist in store
// - ErrConflict: compare-and-swap write lost to a concurrent edit
// - ErrAlreadyExists: create collided with an existing aggregate
// - ErrInvalidState: stored record cannot be reconstructed
// - ErrUnavailable: backing service temporarily unavailable
//
// For validation errors (bad input, missing fields), use
// pkg/domain-errors directly.
var (
	ErrNotFound      = errors.New("not found")
	ErrConflict      = errors.New("conflict")
	ErrAlreadyExists = errors.New("already exists")
	ErrInvalidState  = errors.New("invalid state")
	ErrUnavailable   = errors.New("unavailable")
)
