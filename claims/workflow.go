/*
workflow.go - Claim status transitions and their audit trail

PURPOSE:
  Encodes which review-state transitions are legal and records every
  transition as an audit entry. The transition table is the single source
  of truth; handlers and services never compare statuses directly.
*/
package claims

import (
	"errors"
	"fmt"
	"time"
)

// =============================================================================
// TRANSITION RULES
// =============================================================================

var (
	// ErrInvalidTransition is returned for a workflow move the review
	// process does not allow.
	ErrInvalidTransition = errors.New("invalid claim status transition")

	// ErrClaimNotEditable is returned when detail lines are added to a
	// claim that is under review or already approved.
	ErrClaimNotEditable = errors.New("claim is not editable in its current status")
)

var transitions = map[Status][]Status{
	StatusDraft:     {StatusSubmitted},
	StatusSubmitted: {StatusApproved, StatusObserved},
	StatusObserved:  {StatusSubmitted},
	StatusApproved:  {},
}

// CanTransition reports whether the workflow allows moving from s to next.
func (s Status) CanTransition(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// TransitionError reports a disallowed workflow move.
type TransitionError struct {
	ClaimID string
	From    Status
	To      Status
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("claim %s: cannot move from %q to %q", e.ClaimID, e.From, e.To)
}

func (e *TransitionError) Unwrap() error { return ErrInvalidTransition }

// =============================================================================
// AUDIT TRAIL
// =============================================================================

// AuditAction identifies what happened to a claim.
type AuditAction string

const (
	AuditClaimCreated  AuditAction = "claim_created"
	AuditDetailSettled AuditAction = "detail_settled"
	AuditStatusChanged AuditAction = "status_changed"
)

// AuditEntry records who did what to a claim and when. Append-only.
type AuditEntry struct {
	ID      string
	ClaimID string
	At      time.Time
	ActorID string
	Action  AuditAction

	// For status changes.
	FromStatus Status
	ToStatus   Status

	Note string
}
