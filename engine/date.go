package engine

import (
	"fmt"
	"time"
)

// =============================================================================
// DATE - Day-granularity calendar date
// =============================================================================

// Date is a calendar date normalized to UTC midnight. All engine arithmetic
// is in whole days; there is no time-of-day component.
type Date struct {
	Time time.Time
}

// NewDate constructs a Date for the given calendar day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a Date from the ISO "2006-01-02" form.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return NewDate(t.Year(), t.Month(), t.Day()), nil
}

// Comparison
func (d Date) Before(other Date) bool        { return d.Time.Before(other.Time) }
func (d Date) After(other Date) bool         { return d.Time.After(other.Time) }
func (d Date) Equal(other Date) bool         { return d.Time.Equal(other.Time) }
func (d Date) BeforeOrEqual(other Date) bool { return !d.After(other) }
func (d Date) AfterOrEqual(other Date) bool  { return !d.Before(other) }

// Arithmetic
func (d Date) AddDays(n int) Date   { t := d.Time.AddDate(0, 0, n); return NewDate(t.Year(), t.Month(), t.Day()) }
func (d Date) AddMonths(n int) Date { t := d.Time.AddDate(0, n, 0); return NewDate(t.Year(), t.Month(), t.Day()) }

// Properties
func (d Date) Year() int             { return d.Time.Year() }
func (d Date) Month() time.Month     { return d.Time.Month() }
func (d Date) Day() int              { return d.Time.Day() }
func (d Date) Weekday() time.Weekday { return d.Time.Weekday() }
func (d Date) IsZero() bool          { return d.Time.IsZero() }

func (d Date) IsWeekend() bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

func (d Date) String() string { return d.Time.Format("2006-01-02") }

// DaysBetween returns the number of whole days from one date to another.
func DaysBetween(from, to Date) int {
	return int(to.Time.Sub(from.Time).Hours() / 24)
}

// LastDayOfMonth returns the true calendar length of a month (28-31).
func LastDayOfMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1).Day()
}

func earlierOf(a, b Date) Date {
	if a.Before(b) {
		return a
	}
	return b
}

func laterOf(a, b Date) Date {
	if a.After(b) {
		return a
	}
	return b
}

// =============================================================================
// HOLIDAY CALENDAR - Injectable non-working-day policy
// =============================================================================

// HolidayCalendar marks public holidays for business-day counting. The
// regulatory rule as written counts weekends only, so the default calendar
// is empty; funds that want holiday-aware deadlines inject their own.
type HolidayCalendar interface {
	IsHoliday(d Date) bool
}

// NoHolidays is the default calendar: weekends are the only non-working days.
type NoHolidays struct{}

func (NoHolidays) IsHoliday(Date) bool { return false }

// FixedHolidayCalendar marks an explicit list of dates as holidays.
type FixedHolidayCalendar struct {
	days map[Date]struct{}
}

func NewFixedHolidayCalendar(days ...Date) *FixedHolidayCalendar {
	c := &FixedHolidayCalendar{days: make(map[Date]struct{}, len(days))}
	for _, d := range days {
		c.days[d] = struct{}{}
	}
	return c
}

func (c *FixedHolidayCalendar) IsHoliday(d Date) bool {
	_, ok := c.days[d]
	return ok
}
