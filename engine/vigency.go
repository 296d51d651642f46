/*
vigency.go - Business-day reporting deadline for occupational injuries

PURPOSE:
  An occupational injury must be formally registered with the insurer
  within a regulatory number of business days after the accident: 5 for
  urban sites, 10 for rural. A late registration does not void the claim;
  it moves the effective reimbursement start forward to the registration
  (vigency) date, so the days between the accident and the late report
  are not reimbursed.

BUSINESS DAYS:
  Counted strictly after the accident date, up to and including the
  vigency date. Monday through Friday; weekends excluded. Public holidays
  are excluded only if the injected HolidayCalendar marks them - the
  regulatory text counts weekends only, so the default calendar is empty.

PERMISSIVE FALLBACK:
  When the accident date, vigency date, or locale is absent the deadline
  cannot be checked. The computation proceeds on the declared interval and
  the result carries Skipped=true so an auditor can tell a skipped check
  from a passed one.
*/
package engine

import "fmt"

// =============================================================================
// VIGENCY POLICY
// =============================================================================

// VigencyPolicy is the reporting-deadline rule for occupational injuries.
type VigencyPolicy struct {
	// Allowed business days between accident and registration.
	UrbanLimitDays int
	RuralLimitDays int

	// Calendar marks public holidays as non-working days. Nil means
	// weekends only.
	Calendar HolidayCalendar
}

// DefaultVigencyPolicy returns the regulatory limits with a weekends-only
// calendar.
func DefaultVigencyPolicy() VigencyPolicy {
	return VigencyPolicy{UrbanLimitDays: 5, RuralLimitDays: 10, Calendar: NoHolidays{}}
}

// DateAdjustment records the outcome of the deadline check. It is carried
// on every ComputationResult for occupational-injury claims:
//
//	Applied=false, Skipped=false: deadline checked and met
//	Applied=true:                 deadline exceeded, start moved forward
//	Skipped=true:                 inputs incomplete, check not performed
type DateAdjustment struct {
	Applied bool
	Skipped bool

	OriginalDate Date
	AdjustedDate Date

	ElapsedBusinessDays int
	AllowedBusinessDays int

	Reason string
}

// Validate checks the reporting deadline and returns the adjustment to
// apply, if any. It never fails: incomplete input yields a skipped check.
func (p VigencyPolicy) Validate(accident, vigency Date, locale Locale) DateAdjustment {
	if accident.IsZero() || vigency.IsZero() || locale == "" {
		return DateAdjustment{
			Skipped: true,
			Reason:  "accident date, vigency date, or locale absent; deadline not validated",
		}
	}

	var limit int
	switch locale {
	case LocaleUrban:
		limit = p.UrbanLimitDays
	case LocaleRural:
		limit = p.RuralLimitDays
	default:
		return DateAdjustment{
			Skipped: true,
			Reason:  fmt.Sprintf("unrecognized accident locale %q; deadline not validated", locale),
		}
	}

	elapsed := p.businessDays(accident, vigency)
	if elapsed <= limit {
		return DateAdjustment{
			OriginalDate:        accident,
			ElapsedBusinessDays: elapsed,
			AllowedBusinessDays: limit,
		}
	}

	return DateAdjustment{
		Applied:             true,
		OriginalDate:        accident,
		AdjustedDate:        vigency,
		ElapsedBusinessDays: elapsed,
		AllowedBusinessDays: limit,
		Reason: fmt.Sprintf("registered %d business days after the accident; %s limit is %d",
			elapsed, locale, limit),
	}
}

// businessDays counts working days strictly after `after`, up to and
// including `until`.
func (p VigencyPolicy) businessDays(after, until Date) int {
	cal := p.Calendar
	if cal == nil {
		cal = NoHolidays{}
	}

	n := 0
	for d := after.AddDays(1); d.BeforeOrEqual(until); d = d.AddDays(1) {
		if d.IsWeekend() || cal.IsHoliday(d) {
			continue
		}
		n++
	}
	return n
}
