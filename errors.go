package logrotatorr

import (
	"errors"
	"fmt"
)

// MaxAttempts is how many names are probed before a rotation gives up.
// Applies to timestamp collisions and immutable probing alike.
const MaxAttempts = 999

// Custom errors returned by this package.
var (
	ErrClosed          = errors.New("logrotatorr: logger is closed")
	ErrNotFile         = errors.New("not a regular file")
	ErrConflict        = errors.New("conflicting configuration")
	ErrTooManyAttempts = errors.New("too many destination file attempts")
	ErrNoFilename      = errors.New("a Filename or custom layout is required")
)

// TooManyAttemptsError is returned when no usable name is found in MaxAttempts tries.
// Existing counts names that were taken, Full counts immutable files that were
// already over the size limit. They add up to Attempts.
type TooManyAttemptsError struct {
	Name     string // the last name tried.
	Attempts int
	Existing int
	Full     int
}

func (e *TooManyAttemptsError) Error() string {
	return fmt.Sprintf("%v: %d tried (%d existing, %d full), last: %s",
		ErrTooManyAttempts, e.Attempts, e.Existing, e.Full, e.Name)
}

// Is allows errors.Is(err, ErrTooManyAttempts).
func (e *TooManyAttemptsError) Is(target error) bool {
	return target == ErrTooManyAttempts //nolint:errorlint
}
