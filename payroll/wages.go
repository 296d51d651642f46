package payroll

import (
	"context"
	"fmt"

	"github.com/previsio/subsidy-engine/engine"
)

// =============================================================================
// WAGE LOOKUP - The collaborator the claims settlement prorates from
// =============================================================================

// Wages resolves engine.WageBasis values from confirmed declarations.
// It implements the claims.WageLookup interface.
type Wages struct {
	Store Store
}

func NewWages(store Store) *Wages {
	return &Wages{Store: store}
}

// WageBasis returns the wage basis for a worker in a settlement month.
// The declared figures pass through unchecked: a zero days-paid line is a
// declaration defect the computation engine surfaces as an
// invalid-wage-basis error, not something to silently repair here.
func (w *Wages) WageBasis(ctx context.Context, employerCode, workerID string, period engine.TargetPeriod) (engine.WageBasis, error) {
	line, err := w.Store.FindConfirmedLine(ctx, employerCode, workerID, period)
	if err != nil {
		return engine.WageBasis{}, fmt.Errorf("employer %s, period %s: %w", employerCode, period, err)
	}
	return engine.WageBasis{MonthlySalary: line.MonthlySalary, DaysPaid: line.DaysPaid}, nil
}
