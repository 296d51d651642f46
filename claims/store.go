package claims

import (
	"context"
	"errors"

	"github.com/previsio/subsidy-engine/engine"
)

// ErrClaimNotFound is returned when a referenced claim does not exist.
var ErrClaimNotFound = errors.New("claim not found")

// =============================================================================
// STORE - Persistence interface for claims
// =============================================================================

// Store persists claims, their detail lines, and the audit trail.
//
// Claims are mutable only in status and total. Detail lines and audit
// entries are APPEND-ONLY: no update, no delete. A wrong line is corrected
// by observing the claim and settling a new one, never by editing history.
type Store interface {
	// CreateClaim persists a new claim.
	CreateClaim(ctx context.Context, c Claim) error

	// GetClaim returns a claim by ID, or ErrClaimNotFound.
	GetClaim(ctx context.Context, id string) (Claim, error)

	// ListClaims returns claims matching the filter, newest first.
	ListClaims(ctx context.Context, filter ClaimFilter) ([]Claim, error)

	// UpdateClaim persists status/total changes to an existing claim.
	UpdateClaim(ctx context.Context, c Claim) error

	// AppendDetail adds a settled line to a claim. Append-only.
	AppendDetail(ctx context.Context, d Detail) error

	// DetailsByClaim returns a claim's lines in settlement order.
	DetailsByClaim(ctx context.Context, claimID string) ([]Detail, error)

	// AppendAudit records an audit entry. Append-only.
	AppendAudit(ctx context.Context, e AuditEntry) error

	// AuditByClaim returns a claim's audit trail, chronologically.
	AuditByClaim(ctx context.Context, claimID string) ([]AuditEntry, error)
}

// ClaimFilter narrows ListClaims. Zero values match everything.
type ClaimFilter struct {
	EmployerCode string
	WorkerID     string
	Status       Status
	Period       *engine.TargetPeriod
}
