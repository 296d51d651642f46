/*
window.go - Month-window intersection under the commercial-month convention

PURPOSE:
  Intersects a certified leave interval with one target calendar month.
  Daily wages are prorated on a 30-day "commercial month", so the month
  window runs from day 1 to day 30 regardless of the month's true length:
  a 31st day is never reimbursed. February is the exception - its window
  ends on its true last day (28 or 29) and a cross-month correction
  compensates for the missing days.

FEBRUARY CORRECTION:
  A leave that crosses into or out of February loses ground against the
  30-day basis used in every other month. When the target month is
  February and the leave is not wholly contained within it, 2 days are
  added to the intersected count. A leave entirely inside February gets
  no correction.

EXAMPLES:
  Leave 2025-01-28..2025-02-10, settling February 2025:
    raw intersection Feb 1..Feb 10 = 10 days, +2 correction = 12 days
  Leave 2025-02-03..2025-02-08, settling February 2025:
    6 days, no correction (wholly inside February)
  Leave 2025-03-31..2025-03-31, settling March 2025:
    0 days (day 31 is outside the commercial window)
*/
package engine

import "time"

// commercialMonthDays is the prorating basis: every month is settled as if
// it had 30 days.
const commercialMonthDays = 30

// februaryCrossMonthDays is added when a leave crosses a month boundary and
// February is the settlement month.
const februaryCrossMonthDays = 2

// =============================================================================
// MONTH WINDOW
// =============================================================================

// MonthWindow is the inclusive sub-interval of a leave that falls inside
// one settlement month, with its day count. An empty intersection is the
// zero value: zero dates and zero days.
//
// Days can exceed the calendar span of [Start, End] when the February
// correction applies; it is the count the settlement is based on, not a
// pure calendar measurement.
type MonthWindow struct {
	Start Date
	End   Date
	Days  int
}

// Empty reports whether the leave does not overlap the settlement month.
func (w MonthWindow) Empty() bool { return w.Days == 0 }

func (w MonthWindow) String() string {
	if w.Empty() {
		return "[empty]"
	}
	return "[" + w.Start.String() + ", " + w.End.String() + "]"
}

// =============================================================================
// INTERSECTION
// =============================================================================

// IntersectMonth intersects the inclusive leave interval [leaveStart,
// leaveEnd] with the commercial window of the target month and returns the
// resulting window with its day count, February correction included.
//
// Returns InvalidIntervalError when leaveEnd precedes leaveStart.
func IntersectMonth(leaveStart, leaveEnd Date, period TargetPeriod) (MonthWindow, error) {
	if leaveEnd.Before(leaveStart) {
		return MonthWindow{}, &InvalidIntervalError{Start: leaveStart, End: leaveEnd}
	}

	lastDay := LastDayOfMonth(period.Year, period.Month)
	capDay := commercialMonthDays
	if period.Month == time.February || lastDay < capDay {
		capDay = lastDay
	}

	monthStart := NewDate(period.Year, period.Month, 1)
	monthEnd := NewDate(period.Year, period.Month, capDay)

	start := laterOf(leaveStart, monthStart)
	end := earlierOf(leaveEnd, monthEnd)
	if end.Before(start) {
		return MonthWindow{}, nil
	}

	days := DaysBetween(start, end) + 1
	if period.Month == time.February && !withinMonth(leaveStart, leaveEnd, period) {
		days += februaryCrossMonthDays
	}

	return MonthWindow{Start: start, End: end, Days: days}, nil
}

// withinMonth reports whether the whole leave interval lies inside the
// target month, i.e. it does not cross a month boundary.
func withinMonth(start, end Date, period TargetPeriod) bool {
	return start.Year() == period.Year && start.Month() == period.Month &&
		end.Year() == period.Year && end.Month() == period.Month
}
