package engine_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/previsio/subsidy-engine/engine"
)

func date(y int, m time.Month, d int) engine.Date {
	return engine.NewDate(y, m, d)
}

func period(y int, m time.Month) engine.TargetPeriod {
	return engine.TargetPeriod{Year: y, Month: m}
}

// =============================================================================
// COMMERCIAL-MONTH INTERSECTION
// =============================================================================

func TestIntersectMonth_WhollyInsideMonth(t *testing.T) {
	// GIVEN: A 10-day leave fully inside March
	// WHEN: Settling March
	// THEN: The window is the leave itself, 10 days

	w, err := engine.IntersectMonth(date(2025, time.March, 3), date(2025, time.March, 12), period(2025, time.March))
	require.NoError(t, err)

	assert.False(t, w.Empty())
	assert.Equal(t, date(2025, time.March, 3), w.Start)
	assert.Equal(t, date(2025, time.March, 12), w.End)
	assert.Equal(t, 10, w.Days)
}

func TestIntersectMonth_SingleDay(t *testing.T) {
	w, err := engine.IntersectMonth(date(2025, time.June, 5), date(2025, time.June, 5), period(2025, time.June))
	require.NoError(t, err)
	assert.Equal(t, 1, w.Days)
}

func TestIntersectMonth_LeaveEntirelyBeforeMonth(t *testing.T) {
	w, err := engine.IntersectMonth(date(2025, time.January, 5), date(2025, time.January, 20), period(2025, time.March))
	require.NoError(t, err)
	assert.True(t, w.Empty())
	assert.Equal(t, 0, w.Days)
}

func TestIntersectMonth_LeaveEntirelyAfterMonth(t *testing.T) {
	w, err := engine.IntersectMonth(date(2025, time.April, 1), date(2025, time.April, 10), period(2025, time.March))
	require.NoError(t, err)
	assert.True(t, w.Empty())
}

func TestIntersectMonth_Day31ExcludedByCommercialWindow(t *testing.T) {
	// GIVEN: A leave covering only the 31st of a month
	// WHEN: Settling that month
	// THEN: The commercial window ends on day 30, so nothing intersects

	w, err := engine.IntersectMonth(date(2025, time.March, 31), date(2025, time.March, 31), period(2025, time.March))
	require.NoError(t, err)
	assert.True(t, w.Empty())
}

func TestIntersectMonth_FullMonthCapsAtDay30(t *testing.T) {
	// Leave spans all of January; the window is Jan 1..Jan 30.
	w, err := engine.IntersectMonth(date(2025, time.January, 1), date(2025, time.January, 31), period(2025, time.January))
	require.NoError(t, err)

	assert.Equal(t, date(2025, time.January, 30), w.End)
	assert.Equal(t, 30, w.Days)
}

func TestIntersectMonth_EndBeforeStart_Invalid(t *testing.T) {
	_, err := engine.IntersectMonth(date(2025, time.March, 10), date(2025, time.March, 5), period(2025, time.March))

	require.Error(t, err)
	assert.ErrorIs(t, err, engine.ErrInvalidInterval)
	var ivErr *engine.InvalidIntervalError
	assert.ErrorAs(t, err, &ivErr)
}

// =============================================================================
// FEBRUARY CORRECTION
// =============================================================================

func TestIntersectMonth_February_CrossMonthCorrection(t *testing.T) {
	// GIVEN: Leave 2025-01-28..2025-02-10 crossing into February
	// WHEN: Settling February 2025 (28 days)
	// THEN: Raw intersection is 10 days; cross-month correction adds 2

	w, err := engine.IntersectMonth(date(2025, time.January, 28), date(2025, time.February, 10), period(2025, time.February))
	require.NoError(t, err)

	assert.Equal(t, date(2025, time.February, 1), w.Start)
	assert.Equal(t, date(2025, time.February, 10), w.End)
	assert.Equal(t, 12, w.Days)
}

func TestIntersectMonth_February_WhollyInside_NoCorrection(t *testing.T) {
	// GIVEN: Leave 2025-02-03..2025-02-08 wholly inside February
	// THEN: 6 days, no correction

	w, err := engine.IntersectMonth(date(2025, time.February, 3), date(2025, time.February, 8), period(2025, time.February))
	require.NoError(t, err)
	assert.Equal(t, 6, w.Days)
}

func TestIntersectMonth_February_LeavingIntoMarch(t *testing.T) {
	// Leave 2025-02-10..2025-03-07 ends in March: 19 raw days plus correction.
	w, err := engine.IntersectMonth(date(2025, time.February, 10), date(2025, time.March, 7), period(2025, time.February))
	require.NoError(t, err)

	assert.Equal(t, date(2025, time.February, 28), w.End)
	assert.Equal(t, 21, w.Days)
}

func TestIntersectMonth_LeapFebruary_UsesTrueLastDay(t *testing.T) {
	// GIVEN: A leave spanning all of February 2024 (leap year) and beyond
	// THEN: The window ends on Feb 29; correction applies (cross-month)

	w, err := engine.IntersectMonth(date(2024, time.January, 15), date(2024, time.March, 10), period(2024, time.February))
	require.NoError(t, err)

	assert.Equal(t, date(2024, time.February, 29), w.End)
	assert.Equal(t, 29+2, w.Days)
}

func TestIntersectMonth_February_NoCorrectionWhenEmpty(t *testing.T) {
	// A cross-month leave that never touches February gets no phantom days.
	w, err := engine.IntersectMonth(date(2025, time.March, 5), date(2025, time.April, 2), period(2025, time.February))
	require.NoError(t, err)
	assert.Equal(t, 0, w.Days)
}
