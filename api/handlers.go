/*
handlers.go - HTTP API handlers for the reimbursement system

PURPOSE:
  Exposes the payroll-declaration and claim-settlement operations via REST.
  Handles HTTP request/response, JSON serialization, and delegates to the
  domain services.

ENDPOINTS:
  Declarations:
    GET    /api/declarations              List declarations (?employer_code=)
    POST   /api/declarations              File a payroll declaration
    GET    /api/declarations/{id}         Get declaration with lines
    POST   /api/declarations/{id}/confirm Confirm a declaration

  Claims:
    GET    /api/claims                    List claims (filterable)
    POST   /api/claims                    Open a draft claim
    GET    /api/claims/{id}               Claim with details and audit trail
    POST   /api/claims/{id}/details       Settle one leave into the claim
    POST   /api/claims/{id}/submit        draft/observed -> submitted
    POST   /api/claims/{id}/approve       submitted -> approved
    POST   /api/claims/{id}/observe       submitted -> observed

  Computation:
    POST   /api/compute                   Run the engine without persistence

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input, unusable wage basis
  - 404: Claim, declaration, or confirmed wage not found
  - 409: Disallowed workflow transition, claim not editable
  - 500: Internal errors

SECURITY NOTE:
  No authentication middleware. The API is meant to run behind the fund's
  internal gateway; actor IDs are taken from the request body on trust.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
  - claims/settlement.go: The orchestration these handlers delegate to
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/previsio/subsidy-engine/claims"
	"github.com/previsio/subsidy-engine/engine"
	"github.com/previsio/subsidy-engine/payroll"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Engine  *engine.Engine
	Claims  *claims.Service
	Payroll payroll.Store

	// Now is the clock; overridable in tests.
	Now func() time.Time
}

// NewHandler creates a handler wired to the given collaborators.
func NewHandler(eng *engine.Engine, svc *claims.Service, store payroll.Store) *Handler {
	return &Handler{Engine: eng, Claims: svc, Payroll: store, Now: time.Now}
}

// =============================================================================
// DECLARATION HANDLERS
// =============================================================================

// ListDeclarations returns declarations, optionally for one employer.
func (h *Handler) ListDeclarations(w http.ResponseWriter, r *http.Request) {
	employerCode := r.URL.Query().Get("employer_code")

	decls, err := h.Payroll.ListDeclarations(r.Context(), employerCode)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list declarations", err)
		return
	}

	dtos := make([]DeclarationDTO, len(decls))
	for i, d := range decls {
		dtos[i] = toDeclarationDTO(d)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateDeclaration files a payroll declaration for one employer and month.
func (h *Handler) CreateDeclaration(w http.ResponseWriter, r *http.Request) {
	var req CreateDeclarationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.EmployerCode == "" {
		writeError(w, http.StatusBadRequest, "employer_code is required", nil)
		return
	}
	if len(req.Lines) == 0 {
		writeError(w, http.StatusBadRequest, "declaration must carry at least one line", nil)
		return
	}

	period, err := parsePeriod(req.Period)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid period", err)
		return
	}

	lines := make([]payroll.Line, len(req.Lines))
	for i, l := range req.Lines {
		salary, err := decimal.NewFromString(l.MonthlySalary)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid monthly_salary for worker "+l.WorkerID, err)
			return
		}
		if l.DaysPaid <= 0 {
			writeError(w, http.StatusBadRequest, "days_paid must be positive for worker "+l.WorkerID, nil)
			return
		}
		lines[i] = payroll.Line{
			WorkerID:      l.WorkerID,
			MonthlySalary: salary,
			DaysPaid:      l.DaysPaid,
		}
	}

	now := h.Now()
	decl := payroll.Declaration{
		ID:           uuid.NewString(),
		EmployerCode: req.EmployerCode,
		Period:       period,
		Status:       payroll.StatusDeclared,
		Lines:        lines,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := h.Payroll.CreateDeclaration(r.Context(), decl); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create declaration", err)
		return
	}
	writeJSON(w, http.StatusCreated, toDeclarationDTO(decl))
}

// GetDeclaration returns one declaration with its lines.
func (h *Handler) GetDeclaration(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	decl, err := h.Payroll.GetDeclaration(r.Context(), id)
	if errors.Is(err, payroll.ErrDeclarationNotFound) {
		writeError(w, http.StatusNotFound, "Declaration not found", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get declaration", err)
		return
	}
	writeJSON(w, http.StatusOK, toDeclarationDTO(decl))
}

// ConfirmDeclaration closes a declaration, making its wage lines the
// authoritative basis for settlements in its period.
func (h *Handler) ConfirmDeclaration(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	err := h.Payroll.UpdateDeclarationStatus(r.Context(), id, payroll.StatusConfirmed)
	if errors.Is(err, payroll.ErrDeclarationNotFound) {
		writeError(w, http.StatusNotFound, "Declaration not found", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to confirm declaration", err)
		return
	}

	decl, err := h.Payroll.GetDeclaration(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reload declaration", err)
		return
	}
	writeJSON(w, http.StatusOK, toDeclarationDTO(decl))
}

// =============================================================================
// CLAIM HANDLERS
// =============================================================================

// ListClaims returns claims matching the query filters.
func (h *Handler) ListClaims(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := claims.ClaimFilter{
		EmployerCode: q.Get("employer_code"),
		WorkerID:     q.Get("worker_id"),
		Status:       claims.Status(q.Get("status")),
	}
	if p := q.Get("period"); p != "" {
		period, err := parsePeriod(p)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid period filter", err)
			return
		}
		filter.Period = &period
	}

	list, err := h.Claims.Store.ListClaims(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list claims", err)
		return
	}

	dtos := make([]ClaimDTO, len(list))
	for i, c := range list {
		dtos[i] = toClaimDTO(c)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateClaim opens a draft claim.
func (h *Handler) CreateClaim(w http.ResponseWriter, r *http.Request) {
	var req CreateClaimRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.EmployerCode == "" || req.WorkerID == "" {
		writeError(w, http.StatusBadRequest, "employer_code and worker_id are required", nil)
		return
	}
	period, err := parsePeriod(req.Period)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid period", err)
		return
	}

	claim, err := h.Claims.CreateClaim(r.Context(), req.EmployerCode, req.WorkerID, period, req.ActorID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create claim", err)
		return
	}
	writeJSON(w, http.StatusCreated, toClaimDTO(claim))
}

// GetClaim returns a claim with its settled lines and audit trail.
func (h *Handler) GetClaim(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ctx := r.Context()

	claim, err := h.Claims.Store.GetClaim(ctx, id)
	if errors.Is(err, claims.ErrClaimNotFound) {
		writeError(w, http.StatusNotFound, "Claim not found", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get claim", err)
		return
	}

	details, err := h.Claims.Store.DetailsByClaim(ctx, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load claim details", err)
		return
	}
	audit, err := h.Claims.Store.AuditByClaim(ctx, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load audit trail", err)
		return
	}

	resp := ClaimDetailResponse{
		Claim:   toClaimDTO(claim),
		Details: make([]DetailDTO, len(details)),
		Audit:   make([]AuditEntryDTO, len(audit)),
	}
	for i, d := range details {
		resp.Details[i] = toDetailDTO(d)
	}
	for i, e := range audit {
		resp.Audit[i] = toAuditDTO(e)
	}
	writeJSON(w, http.StatusOK, resp)
}

// SettleLeave computes one leave's reimbursement for the claim's settlement
// month and appends it as a detail line.
func (h *Handler) SettleLeave(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req SettleLeaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	leave, err := toLeave(req.Leave)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid leave declaration", err)
		return
	}

	detail, err := h.Claims.SettleLeave(r.Context(), id, leave, req.ActorID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toDetailDTO(detail))
}

// SubmitClaim moves a claim into review.
func (h *Handler) SubmitClaim(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, claims.StatusSubmitted)
}

// ApproveClaim approves a submitted claim.
func (h *Handler) ApproveClaim(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, claims.StatusApproved)
}

// ObserveClaim sends a submitted claim back for correction.
func (h *Handler) ObserveClaim(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, claims.StatusObserved)
}

func (h *Handler) transition(w http.ResponseWriter, r *http.Request, to claims.Status) {
	id := chi.URLParam(r, "id")

	var req TransitionRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body", err)
			return
		}
	}

	claim, err := h.Claims.Transition(r.Context(), id, to, req.ActorID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toClaimDTO(claim))
}

// =============================================================================
// COMPUTATION HANDLER
// =============================================================================

// Compute runs the engine without persisting anything. With an inline wage
// basis the call is fully stateless; without one the wage is resolved from
// the employer's confirmed declaration for the period.
func (h *Handler) Compute(w http.ResponseWriter, r *http.Request) {
	var req ComputeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	period, err := parsePeriod(req.Period)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid period", err)
		return
	}
	leave, err := toLeave(req.Leave)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid leave declaration", err)
		return
	}

	var result engine.ComputationResult
	if req.Wage != nil {
		salary, err := decimal.NewFromString(req.Wage.MonthlySalary)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid monthly_salary", err)
			return
		}
		wage := engine.WageBasis{MonthlySalary: salary, DaysPaid: req.Wage.DaysPaid}
		result, err = h.Engine.Compute(leave, wage, period)
		if err != nil {
			writeDomainError(w, err)
			return
		}
	} else {
		if req.EmployerCode == "" || req.WorkerID == "" {
			writeError(w, http.StatusBadRequest, "either wage or employer_code+worker_id is required", nil)
			return
		}
		result, err = h.Claims.Preview(r.Context(), req.EmployerCode, req.WorkerID, period, leave)
		if err != nil {
			writeDomainError(w, err)
			return
		}
	}

	writeJSON(w, http.StatusOK, toResultDTO(result))
}

// =============================================================================
// ERROR MAPPING AND RESPONSE HELPERS
// =============================================================================

// writeDomainError maps domain errors onto HTTP statuses.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, claims.ErrClaimNotFound):
		writeError(w, http.StatusNotFound, "Claim not found", nil)
	case errors.Is(err, payroll.ErrWageNotFound):
		writeError(w, http.StatusNotFound, "No confirmed wage for worker in period", err)
	case errors.Is(err, claims.ErrClaimNotEditable):
		writeError(w, http.StatusConflict, "Claim is not editable", err)
	case errors.Is(err, claims.ErrInvalidTransition):
		writeError(w, http.StatusConflict, "Invalid claim status transition", err)
	case engine.IsClientError(err):
		writeError(w, http.StatusBadRequest, "Invalid computation input", err)
	case engine.IsConfigError(err):
		writeError(w, http.StatusBadRequest, "Unknown incapacity type", err)
	default:
		writeError(w, http.StatusInternalServerError, "Internal error", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
