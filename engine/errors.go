/*
errors.go - Centralized error types for the engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  Expected edge cases (a break outside its shift, a shift without
  period coverage, canceling an unknown series) travel as Warning
  diagnostics on result structs, not errors. Only genuinely invalid
  input is a hard error.

ERROR CATEGORIES:
  1. Input errors - Malformed shift/rule data (hard errors)
  2. Store errors - Missing records
  3. Diagnostics  - See Warning in types.go (non-fatal)

USAGE:
  if errors.Is(err, engine.ErrInvalidDuration) {
      // reject the edit, keep the previous values
  }

SEE ALSO:
  - types.go: Warning codes for non-fatal diagnostics
  - pay.go: Emits ErrInvalidDuration
*/
package engine

import (
	"errors"
	"fmt"
	"time"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidDuration is returned when a shift or scheduled shift
	// ends at or before its start.
	ErrInvalidDuration = errors.New("invalid duration: end not after start")

	// ErrInvalidRepeatRule is returned when a repeat rule has no usable
	// cadence or end condition.
	ErrInvalidRepeatRule = errors.New("invalid repeat rule")

	// ErrPeriodsDisabled is returned when period operations are invoked
	// on a job with pay periods turned off.
	ErrPeriodsDisabled = errors.New("pay periods disabled for job")

	// ErrJobNotFound is returned when a referenced job doesn't exist.
	ErrJobNotFound = errors.New("job not found")

	// ErrShiftNotFound is returned when a referenced shift doesn't exist.
	ErrShiftNotFound = errors.New("shift not found")

	// ErrScheduleNotFound is returned when a referenced scheduled shift
	// doesn't exist.
	ErrScheduleNotFound = errors.New("scheduled shift not found")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// InvalidDurationError reports the offending interval.
type InvalidDurationError struct {
	Start time.Time
	End   time.Time
}

func (e *InvalidDurationError) Error() string {
	return fmt.Sprintf("invalid duration: end %s not after start %s",
		e.End.Format(time.RFC3339), e.Start.Format(time.RFC3339))
}

func (e *InvalidDurationError) Unwrap() error { return ErrInvalidDuration }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidDuration) ||
		errors.Is(err, ErrInvalidRepeatRule) ||
		errors.Is(err, ErrPeriodsDisabled)
}

// IsNotFound returns true if the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrJobNotFound) ||
		errors.Is(err, ErrShiftNotFound) ||
		errors.Is(err, ErrScheduleNotFound)
}
