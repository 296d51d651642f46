/*
Package payroll manages employer contribution declarations - the wage side
of the fund.

PURPOSE:
  Employers declare, month by month, the payroll they contribute on: one
  line per worker with the monthly salary and the number of days paid.
  Confirmed declarations are the authoritative wage source the claims
  settlement prorates from.

A declaration starts as declared and becomes confirmed once the employer
closes it; only confirmed declarations back wage lookups.
*/
package payroll

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/previsio/subsidy-engine/engine"
)

// =============================================================================
// DECLARATION
// =============================================================================

type Status string

const (
	StatusDeclared  Status = "declared"
	StatusConfirmed Status = "confirmed"
)

// Line is one worker's wage in a declaration.
type Line struct {
	WorkerID      string
	MonthlySalary decimal.Decimal
	DaysPaid      int
}

// Declaration is an employer's payroll declaration for one month.
type Declaration struct {
	ID           string
	EmployerCode string
	Period       engine.TargetPeriod
	Status       Status
	Lines        []Line

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TotalSalaries sums the declared monthly salaries.
func (d Declaration) TotalSalaries() decimal.Decimal {
	total := decimal.Zero
	for _, l := range d.Lines {
		total = total.Add(l.MonthlySalary)
	}
	return total
}
