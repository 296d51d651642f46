/*
compute.go - The reimbursement assembler

PURPOSE:
  Orchestrates the computation pipeline for one leave and one settlement
  month:

    1. Select the type rule (percentage, carency).
    2. Intersect the DECLARED dates with the month - the "as declared"
       window, kept for audit whatever happens next.
    3. For occupational injuries, check the reporting deadline; a late
       registration re-runs the intersection from the vigency date,
       producing the authoritative settlement window.
    4. Subtract carency from the settlement day count.
    5. Cap at 30 days and compute the money.

  Each stage returns a new value; nothing is mutated in place, so the
  declared and settled windows can never be conflated.

STATELESSNESS:
  An Engine is a bundle of configuration (rule set, vigency policy), not
  state. Compute reads no clock, performs no I/O, and is safe for
  concurrent use across independent claims.
*/
package engine

// Engine computes reimbursements under a fixed rule configuration.
type Engine struct {
	Rules   RuleSet
	Vigency VigencyPolicy
}

// New returns an engine with the regulatory default rules.
func New() *Engine {
	return &Engine{Rules: DefaultRules(), Vigency: DefaultVigencyPolicy()}
}

// Compute settles one leave declaration for one target month. The result
// carries both the declared and the settlement window plus any deadline
// adjustment; the caller decides whether to persist it.
func (e *Engine) Compute(leave LeaveDeclaration, wage WageBasis, period TargetPeriod) (ComputationResult, error) {
	// A leave that started strictly before the target month is a
	// continuation from an earlier settlement.
	firstMonth := !leave.Start.Before(period.Start())

	rule, err := e.Rules.For(leave.Type, firstMonth)
	if err != nil {
		return ComputationResult{}, err
	}

	declared, err := IntersectMonth(leave.Start, leave.End, period)
	if err != nil {
		return ComputationResult{}, err
	}

	settlement := declared
	var adjustment DateAdjustment
	if leave.Type == OccupationalInjury {
		adjustment = e.Vigency.Validate(leave.AccidentDate, leave.VigencyDate, leave.AccidentLocale)
		if adjustment.Applied {
			settlement, err = e.adjustedWindow(adjustment.AdjustedDate, leave.End, period)
			if err != nil {
				return ComputationResult{}, err
			}
		}
	}

	prorated, err := Prorate(wage, settlement.Days-rule.CarencyDays, rule.Percentage)
	if err != nil {
		return ComputationResult{}, err
	}

	return ComputationResult{
		Type:                leave.Type,
		Declared:            declared,
		Settlement:          settlement,
		ReimbursableDays:    prorated.ReimbursableDays,
		DailyWage:           prorated.DailyWage,
		Subtotal:            prorated.Subtotal,
		Percentage:          rule.Percentage,
		ReimbursementAmount: prorated.Amount,
		Adjustment:          adjustment,
	}, nil
}

// adjustedWindow re-runs the intersection from the vigency date. A late
// registration past the end of the leave leaves nothing to reimburse.
func (e *Engine) adjustedWindow(start, leaveEnd Date, period TargetPeriod) (MonthWindow, error) {
	if start.After(leaveEnd) {
		return MonthWindow{}, nil
	}
	return IntersectMonth(start, leaveEnd, period)
}
