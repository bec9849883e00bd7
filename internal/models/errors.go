package models

import (
	"errors"
	"fmt"
)

// Domain error taxonomy. Everything the persistence layer throws is
// converted to one of these at the service boundary; driver-specific
// error text never reaches a user-facing message.
var (
	// ErrNotFound means a referenced entity id does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrAuthFailure covers both an unknown username and a wrong
	// password. The two cases are intentionally indistinguishable so
	// callers cannot enumerate usernames.
	ErrAuthFailure = errors.New("invalid credentials")

	// ErrAuthorizationDenied means the caller is anonymous or is not
	// the identity the action requires.
	ErrAuthorizationDenied = errors.New("access unauthorized")

	// ErrSelfFollow is returned when a user tries to follow themselves.
	ErrSelfFollow = errors.New("cannot follow yourself")

	// ErrNotUnique is the catch-all for a unique violation whose
	// offending column could not be determined.
	ErrNotUnique = errors.New("username and/or email are not unique")
)

// DuplicateKeyError reports a unique-constraint violation on a specific
// field, naming the value the row currently holds and the value the
// caller tried to change it to.
type DuplicateKeyError struct {
	Field    string
	OldValue string
	NewValue string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("%s '%s' already exists", e.Field, e.NewValue)
}

// ValidationError is a form-level failure: a missing or malformed field.
// No mutation happens when one is returned.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}
