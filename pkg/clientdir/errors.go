package clientdir

import (
	"errors"
	"fmt"
)

// Sentinel errors for building and reloading a directory.
var (
	// ErrEmptyRegistrations indicates New or Reload was given no registrations.
	ErrEmptyRegistrations = errors.New("registrations cannot be empty")

	// ErrDuplicateAlias indicates two registrations share a client alias.
	ErrDuplicateAlias = errors.New("duplicate client alias")
)

// Sentinel errors for lookups and record checks.
var (
	// ErrInvalidArgument indicates a lookup key was empty or blank.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInvalidRegistration indicates a registration failed Validate.
	ErrInvalidRegistration = errors.New("invalid client registration")
)

// ValidationError reports why a registration set was rejected.
// The directory is never modified when one is returned.
type ValidationError struct {
	// Alias is the offending alias. Empty for ErrEmptyRegistrations.
	Alias string
	// Index is the input position of the duplicate.
	Index int
	// FirstIndex is the input position where Alias was first seen.
	FirstIndex int
	// Err is ErrEmptyRegistrations or ErrDuplicateAlias.
	Err error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if errors.Is(e.Err, ErrDuplicateAlias) {
		return fmt.Sprintf("client registration must be unique: found duplicate alias %q at index %d (first at %d)",
			e.Alias, e.Index, e.FirstIndex)
	}
	return fmt.Sprintf("invalid registration set: %v", e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

func invalidArgument(name string) error {
	return fmt.Errorf("%w: %s cannot be empty", ErrInvalidArgument, name)
}
