/*
errors.go - Centralized error types for the computation engine

PURPOSE:
  All engine error types in one place. Callers classify failures with
  errors.Is against the sentinels; the structured types carry the detail
  needed for user-facing messages.

ERROR CATEGORIES:
  1. Configuration errors - unknown incapacity type in the rule set
  2. Interval errors      - leave end date precedes start date
  3. Wage-basis errors    - days paid in payroll missing or non-positive

Note that a skipped vigency validation is NOT an error: it is recorded on
the result's DateAdjustment (Skipped flag) and the computation proceeds.

USAGE:
  if errors.Is(err, engine.ErrUnknownIncapacityType) {
      // reject the rule configuration
  }
*/
package engine

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrUnknownIncapacityType is returned when a computation is requested
	// for an incapacity type the rule set does not recognize. The engine
	// never falls back to a default percentage.
	ErrUnknownIncapacityType = errors.New("unknown incapacity type")

	// ErrInvalidInterval is returned when a leave end date precedes its
	// start date.
	ErrInvalidInterval = errors.New("invalid interval: end before start")

	// ErrInvalidWageBasis is returned when the payroll wage basis carries a
	// missing or non-positive days-paid figure. Dividing by it would
	// otherwise produce a silent Inf/NaN-class result.
	ErrInvalidWageBasis = errors.New("invalid wage basis")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// ConfigurationError reports an incapacity type with no configured rule.
type ConfigurationError struct {
	Type IncapacityType
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("no rule configured for incapacity type %q", e.Type)
}

func (e *ConfigurationError) Unwrap() error { return ErrUnknownIncapacityType }

// InvalidIntervalError reports a leave interval whose end precedes its start.
type InvalidIntervalError struct {
	Start Date
	End   Date
}

func (e *InvalidIntervalError) Error() string {
	return fmt.Sprintf("invalid leave interval: end %s before start %s", e.End, e.Start)
}

func (e *InvalidIntervalError) Unwrap() error { return ErrInvalidInterval }

// InvalidWageBasisError reports a wage basis the daily wage cannot be
// derived from.
type InvalidWageBasisError struct {
	DaysPaid int
}

func (e *InvalidWageBasisError) Error() string {
	return fmt.Sprintf("invalid wage basis: days paid in payroll must be positive, got %d", e.DaysPaid)
}

func (e *InvalidWageBasisError) Unwrap() error { return ErrInvalidWageBasis }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid caller input
// rather than engine configuration.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidInterval) ||
		errors.Is(err, ErrInvalidWageBasis)
}

// IsConfigError returns true if the error indicates a rule-set gap.
func IsConfigError(err error) bool {
	return errors.Is(err, ErrUnknownIncapacityType)
}
