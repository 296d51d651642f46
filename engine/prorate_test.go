package engine_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/previsio/subsidy-engine/engine"
)

func money(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestCapDays(t *testing.T) {
	assert.Equal(t, 0, engine.CapDays(-5))
	assert.Equal(t, 0, engine.CapDays(0))
	assert.Equal(t, 18, engine.CapDays(18))
	assert.Equal(t, 30, engine.CapDays(30))
	assert.Equal(t, 30, engine.CapDays(31))
	assert.Equal(t, 30, engine.CapDays(120))
}

func TestProrate_DailyWageAtInternalPrecision(t *testing.T) {
	// 4322.00 / 30 = 144.066666... kept at 6 decimals internally
	wage := engine.WageBasis{MonthlySalary: money("4322.00"), DaysPaid: 30}

	p, err := engine.Prorate(wage, 18, decimal.NewFromInt(75))
	require.NoError(t, err)

	assert.True(t, p.DailyWage.Equal(money("144.066667")), "daily wage %s", p.DailyWage)
	assert.Equal(t, 18, p.ReimbursableDays)
}

func TestProrate_AmountRoundedOnceAtReportingBoundary(t *testing.T) {
	// GIVEN: The worked example (salary 4322.00, 30 days paid, 18 days, 75%)
	// THEN: subtotal = 144.066667 * 18 = 2593.200006
	//       amount   = 2593.200006 * 75 / 100 = 1944.900005 -> 1944.90

	wage := engine.WageBasis{MonthlySalary: money("4322.00"), DaysPaid: 30}

	p, err := engine.Prorate(wage, 18, decimal.NewFromInt(75))
	require.NoError(t, err)

	assert.True(t, p.Subtotal.Equal(money("2593.200006")), "subtotal %s", p.Subtotal)
	assert.True(t, p.Amount.Equal(money("1944.90")), "amount %s", p.Amount)
	assert.Equal(t, "1944.90", p.Amount.StringFixed(2))
}

func TestProrate_ZeroDays_ZeroMoney(t *testing.T) {
	wage := engine.WageBasis{MonthlySalary: money("3000"), DaysPaid: 30}

	p, err := engine.Prorate(wage, 0, decimal.NewFromInt(90))
	require.NoError(t, err)

	assert.Equal(t, 0, p.ReimbursableDays)
	assert.True(t, p.Subtotal.IsZero())
	assert.True(t, p.Amount.IsZero())
}

func TestProrate_NegativeDaysClampedToZero(t *testing.T) {
	// Carency can drive the raw count below zero; money never goes negative.
	wage := engine.WageBasis{MonthlySalary: money("3000"), DaysPaid: 30}

	p, err := engine.Prorate(wage, -2, decimal.NewFromInt(75))
	require.NoError(t, err)
	assert.Equal(t, 0, p.ReimbursableDays)
	assert.True(t, p.Amount.IsZero())
}

func TestProrate_InvalidWageBasis(t *testing.T) {
	for _, daysPaid := range []int{0, -1} {
		wage := engine.WageBasis{MonthlySalary: money("3000"), DaysPaid: daysPaid}

		_, err := engine.Prorate(wage, 10, decimal.NewFromInt(75))

		require.Error(t, err)
		assert.ErrorIs(t, err, engine.ErrInvalidWageBasis)
		var wbErr *engine.InvalidWageBasisError
		require.ErrorAs(t, err, &wbErr)
		assert.Equal(t, daysPaid, wbErr.DaysPaid)
	}
}

func TestProrate_MonetaryIdentity(t *testing.T) {
	// amount == round(dailyWage * days * percentage / 100, 2) for a spread
	// of wage bases and day counts.
	cases := []struct {
		salary   string
		daysPaid int
		days     int
		pct      int64
	}{
		{"4322.00", 30, 18, 75},
		{"1500.00", 30, 30, 90},
		{"2750.50", 28, 12, 75},
		{"987.33", 15, 7, 90},
	}

	for _, tc := range cases {
		wage := engine.WageBasis{MonthlySalary: money(tc.salary), DaysPaid: tc.daysPaid}
		pct := decimal.NewFromInt(tc.pct)

		p, err := engine.Prorate(wage, tc.days, pct)
		require.NoError(t, err)

		expected := p.DailyWage.
			Mul(decimal.NewFromInt(int64(p.ReimbursableDays))).
			Mul(pct).
			Div(decimal.NewFromInt(100)).
			Round(2)
		assert.True(t, p.Amount.Equal(expected),
			"salary %s days %d: amount %s, identity %s", tc.salary, tc.days, p.Amount, expected)
	}
}
