/*
Package claims manages reimbursement claim batches for the health-insurance
fund.

PURPOSE:
  A Claim groups the reimbursement of one worker's leaves for one employer
  and one settlement month. Each settled leave becomes a Detail line - a
  materialized engine.ComputationResult - and the claim total is the sum
  of the detail amounts. Claims move through a review workflow:

    draft ──▶ submitted ──▶ approved
                  │
                  ▼
               observed ──▶ submitted   (resubmission after correction)

  Detail lines are append-only: a correction is a new claim, never an
  edited line, so the audit trail of what was settled is preserved.

SEE ALSO:
  - settlement.go: Orchestration of wage lookup + engine + persistence
  - workflow.go: Status transition rules and audit entries
  - store.go: Persistence interface
*/
package claims

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/previsio/subsidy-engine/engine"
)

// =============================================================================
// CLAIM STATUS - Review workflow
// =============================================================================

type Status string

const (
	StatusDraft     Status = "draft"
	StatusSubmitted Status = "submitted"
	StatusApproved  Status = "approved"
	StatusObserved  Status = "observed"
)

func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusSubmitted, StatusApproved, StatusObserved:
		return true
	}
	return false
}

// Editable reports whether detail lines may still be added. A claim under
// review or already approved is frozen.
func (s Status) Editable() bool {
	return s == StatusDraft || s == StatusObserved
}

// =============================================================================
// CLAIM AND DETAIL
// =============================================================================

// Claim is a reimbursement claim batch for one worker, one employer, and
// one settlement month.
type Claim struct {
	ID           string
	EmployerCode string
	WorkerID     string
	Period       engine.TargetPeriod
	Status       Status

	// Total is the sum of the detail reimbursement amounts, maintained by
	// the settlement service. Reported precision (2 decimals).
	Total decimal.Decimal

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Detail is one settled leave inside a claim: the declaration as received
// and the full computation result, kept together for audit.
type Detail struct {
	ID      string
	ClaimID string

	Leave  engine.LeaveDeclaration
	Result engine.ComputationResult

	CreatedAt time.Time
}

// SumDetails adds up the reported reimbursement amounts of a claim's lines.
func SumDetails(details []Detail) decimal.Decimal {
	total := decimal.Zero
	for _, d := range details {
		total = total.Add(d.Result.ReimbursementAmount)
	}
	return total
}
