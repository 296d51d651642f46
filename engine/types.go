/*
Package engine computes medical-incapacity reimbursements for a single
settlement month.

PURPOSE:
  Given a certified leave interval, a worker's payroll wage basis, and a
  target settlement month, the engine determines how many days of that
  leave are reimbursable in that month and the exact amount owed. It
  applies type-specific carency rules, the 30-day commercial-month
  prorating convention, the February cross-month correction, and the
  business-day reporting deadline for occupational-injury claims.

KEY CONCEPTS IN THIS FILE (types.go):
  - IncapacityType: Closed enumeration of leave kinds
  - LeaveDeclaration: The certified leave as declared by the caller
  - WageBasis: Monthly salary and days paid, from the payroll collaborator
  - TargetPeriod: The month currently being settled
  - ComputationResult: The auditable outcome of one computation

DESIGN PRINCIPLES:
  1. Purity: No I/O, no persistence, no clock reads. Same input, same output.
  2. Precision: decimal.Decimal for all money; 6 decimal places internally,
     2 at the reporting boundary, rounded exactly once.
  3. Audit: Both the "as declared" and "as settled" windows are preserved
     in every result, together with any deadline adjustment metadata.
  4. Loud failure: Unknown types and invalid wage bases are errors, never
     silent defaults.

USAGE:
  eng := engine.New()
  result, err := eng.Compute(leave, wage, engine.TargetPeriod{
      Year: 2025, Month: time.February,
  })

SEE ALSO:
  - window.go: Month-window intersection and February correction
  - rules.go: Percentage and carency selection per incapacity type
  - vigency.go: Business-day reporting deadline for occupational injuries
  - prorate.go: Day cap and monetary prorating
  - compute.go: The assembler orchestrating the pipeline
*/
package engine

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// INCAPACITY TYPE - Closed enumeration
// =============================================================================

// IncapacityType identifies the kind of certified leave. The set is closed:
// every operation that dispatches on it treats an unlisted value as a
// configuration error rather than falling back to a default.
type IncapacityType string

const (
	Illness            IncapacityType = "illness"
	Maternity          IncapacityType = "maternity"
	OccupationalInjury IncapacityType = "occupational_injury"
)

// Valid reports whether t is one of the known incapacity types.
func (t IncapacityType) Valid() bool {
	switch t {
	case Illness, Maternity, OccupationalInjury:
		return true
	}
	return false
}

// Locale distinguishes urban from rural accident sites. It determines the
// reporting deadline for occupational-injury claims.
type Locale string

const (
	LocaleUrban Locale = "urban"
	LocaleRural Locale = "rural"
)

// =============================================================================
// INPUTS
// =============================================================================

// LeaveDeclaration is the certified leave as supplied by the caller.
// It is an immutable input: the engine never modifies it, and a deadline
// adjustment is recorded in the result rather than written back here.
//
// AccidentDate, VigencyDate and AccidentLocale are only meaningful for
// occupational-injury claims. A zero Date or empty Locale means "absent".
type LeaveDeclaration struct {
	Type  IncapacityType
	Start Date
	End   Date

	// ClaimedDays is the day count asserted by the declarant. The engine
	// computes its own count; callers may compare the two for review.
	ClaimedDays int

	AccidentDate   Date
	VigencyDate    Date
	AccidentLocale Locale
}

// WageBasis is the payroll wage data the reimbursement is prorated from.
// DaysPaid must be positive; the engine rejects anything else.
type WageBasis struct {
	MonthlySalary decimal.Decimal
	DaysPaid      int
}

// TargetPeriod is the settlement month. A multi-month leave is settled one
// month at a time, one Compute call per month.
type TargetPeriod struct {
	Year  int
	Month time.Month
}

// Start returns the first calendar day of the period.
func (p TargetPeriod) Start() Date {
	return NewDate(p.Year, p.Month, 1)
}

func (p TargetPeriod) String() string {
	return p.Start().Time.Format("2006-01")
}

// =============================================================================
// RESULT
// =============================================================================

// ComputationResult is the full, auditable outcome of one settlement
// computation. Declared is the intersection computed from the dates as the
// worker declared them; Settlement is the authoritative window after any
// vigency-deadline adjustment. When no adjustment applies the two are equal.
//
// DailyWage and Subtotal carry the internal 6-decimal precision;
// ReimbursementAmount is the reported figure, rounded to 2 decimals
// exactly once.
type ComputationResult struct {
	Type IncapacityType

	Declared   MonthWindow
	Settlement MonthWindow

	ReimbursableDays    int
	DailyWage           decimal.Decimal
	Subtotal            decimal.Decimal
	Percentage          decimal.Decimal
	ReimbursementAmount decimal.Decimal

	Adjustment DateAdjustment
}
