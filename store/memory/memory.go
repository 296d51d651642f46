// Package memory provides in-memory implementations of the claims and
// payroll stores, for tests and development.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/previsio/subsidy-engine/claims"
	"github.com/previsio/subsidy-engine/engine"
	"github.com/previsio/subsidy-engine/payroll"
)

// Store implements claims.Store and payroll.Store in memory.
type Store struct {
	mu sync.RWMutex

	claims       map[string]claims.Claim
	details      map[string][]claims.Detail    // keyed by claim ID
	audit        map[string][]claims.AuditEntry // keyed by claim ID
	declarations map[string]payroll.Declaration
}

var (
	_ claims.Store  = (*Store)(nil)
	_ payroll.Store = (*Store)(nil)
)

func New() *Store {
	return &Store{
		claims:       make(map[string]claims.Claim),
		details:      make(map[string][]claims.Detail),
		audit:        make(map[string][]claims.AuditEntry),
		declarations: make(map[string]payroll.Declaration),
	}
}

// =============================================================================
// CLAIMS
// =============================================================================

func (s *Store) CreateClaim(_ context.Context, c claims.Claim) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.claims[c.ID] = c
	return nil
}

func (s *Store) GetClaim(_ context.Context, id string) (claims.Claim, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.claims[id]
	if !ok {
		return claims.Claim{}, claims.ErrClaimNotFound
	}
	return c, nil
}

func (s *Store) ListClaims(_ context.Context, filter claims.ClaimFilter) ([]claims.Claim, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []claims.Claim
	for _, c := range s.claims {
		if !matchesFilter(c, filter) {
			continue
		}
		result = append(result, c)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func matchesFilter(c claims.Claim, f claims.ClaimFilter) bool {
	if f.EmployerCode != "" && c.EmployerCode != f.EmployerCode {
		return false
	}
	if f.WorkerID != "" && c.WorkerID != f.WorkerID {
		return false
	}
	if f.Status != "" && c.Status != f.Status {
		return false
	}
	if f.Period != nil && *f.Period != c.Period {
		return false
	}
	return true
}

func (s *Store) UpdateClaim(_ context.Context, c claims.Claim) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.claims[c.ID]; !ok {
		return claims.ErrClaimNotFound
	}
	s.claims[c.ID] = c
	return nil
}

func (s *Store) AppendDetail(_ context.Context, d claims.Detail) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.details[d.ClaimID] = append(s.details[d.ClaimID], d)
	return nil
}

func (s *Store) DetailsByClaim(_ context.Context, claimID string) ([]claims.Detail, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]claims.Detail, len(s.details[claimID]))
	copy(result, s.details[claimID])
	return result, nil
}

func (s *Store) AppendAudit(_ context.Context, e claims.AuditEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.audit[e.ClaimID] = append(s.audit[e.ClaimID], e)
	return nil
}

func (s *Store) AuditByClaim(_ context.Context, claimID string) ([]claims.AuditEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]claims.AuditEntry, len(s.audit[claimID]))
	copy(result, s.audit[claimID])
	return result, nil
}

// =============================================================================
// PAYROLL
// =============================================================================

func (s *Store) CreateDeclaration(_ context.Context, d payroll.Declaration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d.Lines = append([]payroll.Line(nil), d.Lines...)
	s.declarations[d.ID] = d
	return nil
}

func (s *Store) GetDeclaration(_ context.Context, id string) (payroll.Declaration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.declarations[id]
	if !ok {
		return payroll.Declaration{}, payroll.ErrDeclarationNotFound
	}
	d.Lines = append([]payroll.Line(nil), d.Lines...)
	return d, nil
}

func (s *Store) ListDeclarations(_ context.Context, employerCode string) ([]payroll.Declaration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []payroll.Declaration
	for _, d := range s.declarations {
		if employerCode != "" && d.EmployerCode != employerCode {
			continue
		}
		d.Lines = append([]payroll.Line(nil), d.Lines...)
		result = append(result, d)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (s *Store) UpdateDeclarationStatus(_ context.Context, id string, status payroll.Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.declarations[id]
	if !ok {
		return payroll.ErrDeclarationNotFound
	}
	d.Status = status
	s.declarations[id] = d
	return nil
}

func (s *Store) FindConfirmedLine(_ context.Context, employerCode, workerID string, period engine.TargetPeriod) (payroll.Line, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, d := range s.declarations {
		if d.EmployerCode != employerCode || d.Period != period || d.Status != payroll.StatusConfirmed {
			continue
		}
		for _, line := range d.Lines {
			if line.WorkerID == workerID {
				return line, nil
			}
		}
	}
	return payroll.Line{}, payroll.ErrWageNotFound
}
