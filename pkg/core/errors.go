package core

import (
	"errors"
	"fmt"
	"strings"
)

// Common errors.
var (
	ErrNotFound           = errors.New("note not found")
	ErrValidation         = errors.New("validation failed")
	ErrInvalidCategory    = errors.New("invalid category")
	ErrStorageUnavailable = errors.New("storage unavailable")
	ErrMalformedData      = errors.New("malformed stored data")
	ErrReadOnly           = errors.New("store is in read-only mode")
	ErrNoUser             = errors.New("no user logged in")
	ErrUnsupported        = errors.New("operation not supported by store")
)

// ValidationError reports a rejected field. It matches ErrValidation.
// When Err is set it is matched as well.
type ValidationError struct {
	Field  string
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrValidation, e.Err}
	}
	return []error{ErrValidation}
}

func equalFold(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
