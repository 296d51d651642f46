/*
prorate.go - Day cap and monetary prorating

PURPOSE:
  The final arithmetic stage: cap the settled day count at the commercial
  month (30 days), derive the daily wage, and compute the reimbursable
  amount at the type's percentage.

PRECISION:
  All arithmetic uses decimal.Decimal. Intermediate values (daily wage,
  subtotal) are kept at 6 decimal places; the reimbursement amount is
  rounded to 2 decimal places exactly once, here, at the reporting
  boundary. A multi-step float pipeline would accumulate drift and break
  audit reproducibility.
*/
package engine

import "github.com/shopspring/decimal"

const (
	// internalScale is the precision carried through intermediate steps.
	internalScale int32 = 6

	// reportScale is the precision of the reported reimbursement amount.
	reportScale int32 = 2
)

var hundred = decimal.NewFromInt(100)

// CapDays clamps a settled day count to the commercial-month range [0, 30].
// Carency subtraction can drive the raw count negative; a negative count
// never reaches the monetary stage.
func CapDays(days int) int {
	if days < 0 {
		return 0
	}
	if days > commercialMonthDays {
		return commercialMonthDays
	}
	return days
}

// Proration is the monetary outcome for one settlement month.
type Proration struct {
	ReimbursableDays int

	// DailyWage and Subtotal carry internal precision (6 decimals).
	DailyWage decimal.Decimal
	Subtotal  decimal.Decimal

	// Amount is the reported reimbursement, rounded to 2 decimals.
	Amount decimal.Decimal
}

// Prorate caps the day count and computes the monetary figures:
//
//	dailyWage = monthlySalary / daysPaid
//	subtotal  = dailyWage * reimbursableDays
//	amount    = subtotal * percentage / 100
//
// Returns InvalidWageBasisError when wage.DaysPaid is not positive.
func Prorate(wage WageBasis, days int, percentage decimal.Decimal) (Proration, error) {
	if wage.DaysPaid <= 0 {
		return Proration{}, &InvalidWageBasisError{DaysPaid: wage.DaysPaid}
	}

	capped := CapDays(days)
	daily := wage.MonthlySalary.DivRound(decimal.NewFromInt(int64(wage.DaysPaid)), internalScale)
	subtotal := daily.Mul(decimal.NewFromInt(int64(capped)))
	amount := subtotal.Mul(percentage).DivRound(hundred, internalScale)

	return Proration{
		ReimbursableDays: capped,
		DailyWage:        daily,
		Subtotal:         subtotal,
		Amount:           amount.Round(reportScale),
	}, nil
}
