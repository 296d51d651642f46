/*
settlement.go - Settlement orchestration

PURPOSE:
  The Service ties the pure computation engine to its collaborators: it
  resolves the wage basis through the payroll lookup, runs the engine for
  the claim's settlement month, materializes the result as a detail line,
  and keeps the claim total in sync. The engine itself stays free of I/O;
  everything stateful lives here.

FLOW:
  CreateClaim            draft claim for (employer, worker, period)
  SettleLeave            wage lookup -> engine.Compute -> append detail,
                         recompute total
  Transition             workflow move with audit entry
  Preview                computation without persistence (review screens)
*/
package claims

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/previsio/subsidy-engine/engine"
)

// WageLookup resolves the payroll wage basis for a worker in a settlement
// month. Implemented by the payroll package over confirmed declarations.
type WageLookup interface {
	WageBasis(ctx context.Context, employerCode, workerID string, period engine.TargetPeriod) (engine.WageBasis, error)
}

// Service orchestrates claim settlement.
type Service struct {
	Engine *engine.Engine
	Wages  WageLookup
	Store  Store

	// Now is the clock; overridable in tests.
	Now func() time.Time
}

func NewService(eng *engine.Engine, wages WageLookup, store Store) *Service {
	return &Service{Engine: eng, Wages: wages, Store: store, Now: time.Now}
}

// CreateClaim opens a draft claim for one worker and one settlement month.
func (s *Service) CreateClaim(ctx context.Context, employerCode, workerID string, period engine.TargetPeriod, actorID string) (Claim, error) {
	now := s.Now()
	c := Claim{
		ID:           uuid.NewString(),
		EmployerCode: employerCode,
		WorkerID:     workerID,
		Period:       period,
		Status:       StatusDraft,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.Store.CreateClaim(ctx, c); err != nil {
		return Claim{}, fmt.Errorf("create claim: %w", err)
	}

	s.audit(ctx, AuditEntry{
		ClaimID: c.ID, ActorID: actorID, Action: AuditClaimCreated,
		Note: fmt.Sprintf("claim opened for worker %s, period %s", workerID, period),
	})
	return c, nil
}

// SettleLeave computes the reimbursement of one leave for the claim's
// settlement month and appends it as a detail line. The claim must be in
// an editable status (draft or observed).
func (s *Service) SettleLeave(ctx context.Context, claimID string, leave engine.LeaveDeclaration, actorID string) (Detail, error) {
	claim, err := s.Store.GetClaim(ctx, claimID)
	if err != nil {
		return Detail{}, err
	}
	if !claim.Status.Editable() {
		return Detail{}, fmt.Errorf("claim %s in status %q: %w", claim.ID, claim.Status, ErrClaimNotEditable)
	}

	wage, err := s.Wages.WageBasis(ctx, claim.EmployerCode, claim.WorkerID, claim.Period)
	if err != nil {
		return Detail{}, fmt.Errorf("wage basis for worker %s: %w", claim.WorkerID, err)
	}

	result, err := s.Engine.Compute(leave, wage, claim.Period)
	if err != nil {
		return Detail{}, err
	}

	detail := Detail{
		ID:        uuid.NewString(),
		ClaimID:   claim.ID,
		Leave:     leave,
		Result:    result,
		CreatedAt: s.Now(),
	}
	if err := s.Store.AppendDetail(ctx, detail); err != nil {
		return Detail{}, fmt.Errorf("append detail: %w", err)
	}

	if err := s.refreshTotal(ctx, claim); err != nil {
		return Detail{}, err
	}

	s.audit(ctx, AuditEntry{
		ClaimID: claim.ID, ActorID: actorID, Action: AuditDetailSettled,
		Note: fmt.Sprintf("%s leave %s..%s settled for %d days, %s",
			leave.Type, leave.Start, leave.End,
			result.ReimbursableDays, result.ReimbursementAmount.StringFixed(2)),
	})
	return detail, nil
}

// Transition moves a claim through the review workflow.
func (s *Service) Transition(ctx context.Context, claimID string, to Status, actorID string) (Claim, error) {
	claim, err := s.Store.GetClaim(ctx, claimID)
	if err != nil {
		return Claim{}, err
	}
	if !claim.Status.CanTransition(to) {
		return Claim{}, &TransitionError{ClaimID: claim.ID, From: claim.Status, To: to}
	}

	from := claim.Status
	claim.Status = to
	claim.UpdatedAt = s.Now()
	if err := s.Store.UpdateClaim(ctx, claim); err != nil {
		return Claim{}, fmt.Errorf("update claim: %w", err)
	}

	s.audit(ctx, AuditEntry{
		ClaimID: claim.ID, ActorID: actorID, Action: AuditStatusChanged,
		FromStatus: from, ToStatus: to,
	})
	return claim, nil
}

// Preview runs the computation for a leave without touching any claim:
// wage lookup plus engine, nothing persisted.
func (s *Service) Preview(ctx context.Context, employerCode, workerID string, period engine.TargetPeriod, leave engine.LeaveDeclaration) (engine.ComputationResult, error) {
	wage, err := s.Wages.WageBasis(ctx, employerCode, workerID, period)
	if err != nil {
		return engine.ComputationResult{}, fmt.Errorf("wage basis for worker %s: %w", workerID, err)
	}
	return s.Engine.Compute(leave, wage, period)
}

// refreshTotal recomputes the claim total from its lines.
func (s *Service) refreshTotal(ctx context.Context, claim Claim) error {
	details, err := s.Store.DetailsByClaim(ctx, claim.ID)
	if err != nil {
		return err
	}
	claim.Total = SumDetails(details)
	claim.UpdatedAt = s.Now()
	if err := s.Store.UpdateClaim(ctx, claim); err != nil {
		return fmt.Errorf("update claim total: %w", err)
	}
	return nil
}

// audit records an entry; audit failures do not fail the operation that
// produced them.
func (s *Service) audit(ctx context.Context, e AuditEntry) {
	e.ID = uuid.NewString()
	e.At = s.Now()
	_ = s.Store.AppendAudit(ctx, e)
}
