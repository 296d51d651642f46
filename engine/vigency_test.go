package engine_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/previsio/subsidy-engine/engine"
)

// =============================================================================
// REPORTING DEADLINE
// =============================================================================

func TestVigency_WithinLimit_NoAdjustment(t *testing.T) {
	// GIVEN: Accident Fri 2025-01-10, registered Wed 2025-01-15, urban (limit 5)
	// WHEN: Validating the deadline
	// THEN: 3 business days elapsed, within limit, no adjustment

	policy := engine.DefaultVigencyPolicy()
	adj := policy.Validate(date(2025, time.January, 10), date(2025, time.January, 15), engine.LocaleUrban)

	assert.False(t, adj.Applied)
	assert.False(t, adj.Skipped)
	assert.Equal(t, 3, adj.ElapsedBusinessDays)
	assert.Equal(t, 5, adj.AllowedBusinessDays)
}

func TestVigency_Exceeded_StartMovedToVigencyDate(t *testing.T) {
	// GIVEN: Accident Fri 2025-01-10, registered Mon 2025-01-20, urban (limit 5)
	// WHEN: Validating the deadline
	// THEN: 6 business days elapsed (two weekends excluded), limit exceeded,
	//       the effective start moves to the vigency date

	policy := engine.DefaultVigencyPolicy()
	adj := policy.Validate(date(2025, time.January, 10), date(2025, time.January, 20), engine.LocaleUrban)

	assert.True(t, adj.Applied)
	assert.Equal(t, date(2025, time.January, 10), adj.OriginalDate)
	assert.Equal(t, date(2025, time.January, 20), adj.AdjustedDate)
	assert.Equal(t, 6, adj.ElapsedBusinessDays)
	assert.NotEmpty(t, adj.Reason)
}

func TestVigency_RuralLimitIsWider(t *testing.T) {
	// Same dates as the exceeded urban case, but a rural site (limit 10).
	policy := engine.DefaultVigencyPolicy()
	adj := policy.Validate(date(2025, time.January, 10), date(2025, time.January, 20), engine.LocaleRural)

	assert.False(t, adj.Applied)
	assert.Equal(t, 10, adj.AllowedBusinessDays)
}

func TestVigency_SameDayRegistration_ZeroBusinessDays(t *testing.T) {
	policy := engine.DefaultVigencyPolicy()
	adj := policy.Validate(date(2025, time.January, 10), date(2025, time.January, 10), engine.LocaleUrban)

	assert.False(t, adj.Applied)
	assert.Equal(t, 0, adj.ElapsedBusinessDays)
}

// =============================================================================
// PERMISSIVE FALLBACK
// =============================================================================

func TestVigency_MissingFields_Skipped(t *testing.T) {
	policy := engine.DefaultVigencyPolicy()

	cases := []struct {
		name     string
		accident engine.Date
		vigency  engine.Date
		locale   engine.Locale
	}{
		{"no accident date", engine.Date{}, date(2025, time.January, 20), engine.LocaleUrban},
		{"no vigency date", date(2025, time.January, 10), engine.Date{}, engine.LocaleUrban},
		{"no locale", date(2025, time.January, 10), date(2025, time.January, 20), ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			adj := policy.Validate(tc.accident, tc.vigency, tc.locale)
			assert.True(t, adj.Skipped)
			assert.False(t, adj.Applied)
			assert.NotEmpty(t, adj.Reason)
		})
	}
}

func TestVigency_UnrecognizedLocale_Skipped(t *testing.T) {
	policy := engine.DefaultVigencyPolicy()
	adj := policy.Validate(date(2025, time.January, 10), date(2025, time.January, 20), engine.Locale("suburban"))

	assert.True(t, adj.Skipped)
	assert.False(t, adj.Applied)
}

// =============================================================================
// HOLIDAY CALENDAR INJECTION
// =============================================================================

func TestVigency_HolidayCalendarExtendsDeadline(t *testing.T) {
	// GIVEN: The exceeded urban case (6 business days), but Mon 2025-01-13
	//        is a public holiday on the injected calendar
	// THEN: Only 5 business days elapse and the claim stands

	policy := engine.VigencyPolicy{
		UrbanLimitDays: 5,
		RuralLimitDays: 10,
		Calendar:       engine.NewFixedHolidayCalendar(date(2025, time.January, 13)),
	}
	adj := policy.Validate(date(2025, time.January, 10), date(2025, time.January, 20), engine.LocaleUrban)

	assert.False(t, adj.Applied)
	assert.Equal(t, 5, adj.ElapsedBusinessDays)
}

func TestVigency_NilCalendarCountsWeekendsOnly(t *testing.T) {
	policy := engine.VigencyPolicy{UrbanLimitDays: 5, RuralLimitDays: 10}
	adj := policy.Validate(date(2025, time.January, 10), date(2025, time.January, 20), engine.LocaleUrban)

	assert.Equal(t, 6, adj.ElapsedBusinessDays)
	assert.True(t, adj.Applied)
}
