/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract, allowing:
  - Field renaming without breaking clients
  - API-specific validation
  - Version evolution

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

WIRE FORMATS:
  - Dates:    "2006-01-02" strings; empty string means absent
  - Periods:  "2006-01" strings (settlement month)
  - Money:    decimal strings, never JSON numbers - the whole point of the
    engine is exact decimal arithmetic, and float64 on the wire would
    undo it

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
  - server.go: Route definitions
*/
package api

import (
	"fmt"
	"time"

	"github.com/previsio/subsidy-engine/claims"
	"github.com/previsio/subsidy-engine/engine"
	"github.com/previsio/subsidy-engine/payroll"
)

// =============================================================================
// PAYROLL DECLARATIONS
// =============================================================================

// LineDTO is one worker's wage line in a declaration.
type LineDTO struct {
	WorkerID      string `json:"worker_id"`
	MonthlySalary string `json:"monthly_salary"`
	DaysPaid      int    `json:"days_paid"`
}

// CreateDeclarationRequest is the request to file a payroll declaration.
type CreateDeclarationRequest struct {
	EmployerCode string    `json:"employer_code"`
	Period       string    `json:"period"` // "2006-01"
	Lines        []LineDTO `json:"lines"`
}

// DeclarationDTO represents a payroll declaration in API responses.
type DeclarationDTO struct {
	ID            string    `json:"id"`
	EmployerCode  string    `json:"employer_code"`
	Period        string    `json:"period"`
	Status        string    `json:"status"`
	Lines         []LineDTO `json:"lines"`
	TotalSalaries string    `json:"total_salaries"`
	CreatedAt     string    `json:"created_at,omitempty"`
	UpdatedAt     string    `json:"updated_at,omitempty"`
}

// =============================================================================
// CLAIMS
// =============================================================================

// CreateClaimRequest opens a draft claim for one worker's settlement month.
type CreateClaimRequest struct {
	EmployerCode string `json:"employer_code"`
	WorkerID     string `json:"worker_id"`
	Period       string `json:"period"` // "2006-01"
	ActorID      string `json:"actor_id,omitempty"`
}

// ClaimDTO represents a claim in API responses.
type ClaimDTO struct {
	ID           string `json:"id"`
	EmployerCode string `json:"employer_code"`
	WorkerID     string `json:"worker_id"`
	Period       string `json:"period"`
	Status       string `json:"status"`
	Total        string `json:"total"`
	CreatedAt    string `json:"created_at,omitempty"`
	UpdatedAt    string `json:"updated_at,omitempty"`
}

// ClaimDetailResponse is the full claim view: the claim, its settled lines,
// and its audit trail.
type ClaimDetailResponse struct {
	Claim   ClaimDTO        `json:"claim"`
	Details []DetailDTO     `json:"details"`
	Audit   []AuditEntryDTO `json:"audit"`
}

// TransitionRequest moves a claim through the review workflow.
type TransitionRequest struct {
	ActorID string `json:"actor_id,omitempty"`
}

// AuditEntryDTO is one entry of a claim's audit trail.
type AuditEntryDTO struct {
	ID         string `json:"id"`
	At         string `json:"at"`
	ActorID    string `json:"actor_id,omitempty"`
	Action     string `json:"action"`
	FromStatus string `json:"from_status,omitempty"`
	ToStatus   string `json:"to_status,omitempty"`
	Note       string `json:"note,omitempty"`
}

// =============================================================================
// LEAVES AND COMPUTATION RESULTS
// =============================================================================

// LeaveDTO is a certified leave declaration as submitted by the caller.
// The accident fields apply to occupational-injury leaves only.
type LeaveDTO struct {
	Type        string `json:"type"`
	Start       string `json:"start"`
	End         string `json:"end"`
	ClaimedDays int    `json:"claimed_days,omitempty"`

	AccidentDate   string `json:"accident_date,omitempty"`
	VigencyDate    string `json:"vigency_date,omitempty"`
	AccidentLocale string `json:"accident_locale,omitempty"`
}

// WindowDTO is a leave window clipped to the settlement month.
type WindowDTO struct {
	Start string `json:"start,omitempty"`
	End   string `json:"end,omitempty"`
	Days  int    `json:"days"`
}

// AdjustmentDTO reports the outcome of the vigency-deadline check.
type AdjustmentDTO struct {
	Applied             bool   `json:"applied"`
	Skipped             bool   `json:"skipped"`
	OriginalDate        string `json:"original_date,omitempty"`
	AdjustedDate        string `json:"adjusted_date,omitempty"`
	ElapsedBusinessDays int    `json:"elapsed_business_days"`
	AllowedBusinessDays int    `json:"allowed_business_days"`
	Reason              string `json:"reason,omitempty"`
}

// ResultDTO is one settlement computation outcome.
type ResultDTO struct {
	Type                string        `json:"type"`
	Declared            WindowDTO     `json:"declared"`
	Settlement          WindowDTO     `json:"settlement"`
	ReimbursableDays    int           `json:"reimbursable_days"`
	DailyWage           string        `json:"daily_wage"`
	Subtotal            string        `json:"subtotal"`
	Percentage          string        `json:"percentage"`
	ReimbursementAmount string        `json:"reimbursement_amount"`
	Adjustment          AdjustmentDTO `json:"adjustment"`
}

// DetailDTO is one settled leave line inside a claim.
type DetailDTO struct {
	ID        string    `json:"id"`
	ClaimID   string    `json:"claim_id"`
	Leave     LeaveDTO  `json:"leave"`
	Result    ResultDTO `json:"result"`
	CreatedAt string    `json:"created_at,omitempty"`
}

// SettleLeaveRequest adds one leave to a claim.
type SettleLeaveRequest struct {
	Leave   LeaveDTO `json:"leave"`
	ActorID string   `json:"actor_id,omitempty"`
}

// WageDTO is an inline wage basis for stateless computations.
type WageDTO struct {
	MonthlySalary string `json:"monthly_salary"`
	DaysPaid      int    `json:"days_paid"`
}

// ComputeRequest runs the engine without touching any claim. When Wage is
// present the computation is fully stateless; otherwise the wage basis is
// resolved from the employer's confirmed declaration.
type ComputeRequest struct {
	Period string   `json:"period"`
	Leave  LeaveDTO `json:"leave"`

	Wage         *WageDTO `json:"wage,omitempty"`
	EmployerCode string   `json:"employer_code,omitempty"`
	WorkerID     string   `json:"worker_id,omitempty"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func formatDate(d engine.Date) string {
	if d.IsZero() {
		return ""
	}
	return d.String()
}

func parsePeriod(s string) (engine.TargetPeriod, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return engine.TargetPeriod{}, fmt.Errorf("invalid period %q (use YYYY-MM)", s)
	}
	return engine.TargetPeriod{Year: t.Year(), Month: t.Month()}, nil
}

// parseOptionalDate maps the empty string to the zero Date.
func parseOptionalDate(s string) (engine.Date, error) {
	if s == "" {
		return engine.Date{}, nil
	}
	return engine.ParseDate(s)
}

func toLeave(dto LeaveDTO) (engine.LeaveDeclaration, error) {
	start, err := engine.ParseDate(dto.Start)
	if err != nil {
		return engine.LeaveDeclaration{}, fmt.Errorf("invalid start date: %w", err)
	}
	end, err := engine.ParseDate(dto.End)
	if err != nil {
		return engine.LeaveDeclaration{}, fmt.Errorf("invalid end date: %w", err)
	}
	accident, err := parseOptionalDate(dto.AccidentDate)
	if err != nil {
		return engine.LeaveDeclaration{}, fmt.Errorf("invalid accident date: %w", err)
	}
	vigency, err := parseOptionalDate(dto.VigencyDate)
	if err != nil {
		return engine.LeaveDeclaration{}, fmt.Errorf("invalid vigency date: %w", err)
	}

	return engine.LeaveDeclaration{
		Type:           engine.IncapacityType(dto.Type),
		Start:          start,
		End:            end,
		ClaimedDays:    dto.ClaimedDays,
		AccidentDate:   accident,
		VigencyDate:    vigency,
		AccidentLocale: engine.Locale(dto.AccidentLocale),
	}, nil
}

func toLeaveDTO(l engine.LeaveDeclaration) LeaveDTO {
	return LeaveDTO{
		Type:           string(l.Type),
		Start:          formatDate(l.Start),
		End:            formatDate(l.End),
		ClaimedDays:    l.ClaimedDays,
		AccidentDate:   formatDate(l.AccidentDate),
		VigencyDate:    formatDate(l.VigencyDate),
		AccidentLocale: string(l.AccidentLocale),
	}
}

func toWindowDTO(w engine.MonthWindow) WindowDTO {
	return WindowDTO{
		Start: formatDate(w.Start),
		End:   formatDate(w.End),
		Days:  w.Days,
	}
}

func toResultDTO(r engine.ComputationResult) ResultDTO {
	return ResultDTO{
		Type:             string(r.Type),
		Declared:         toWindowDTO(r.Declared),
		Settlement:       toWindowDTO(r.Settlement),
		ReimbursableDays: r.ReimbursableDays,
		DailyWage:        r.DailyWage.String(),
		Subtotal:         r.Subtotal.String(),
		Percentage:       r.Percentage.String(),
		// Already rounded to reporting precision by the engine.
		ReimbursementAmount: r.ReimbursementAmount.StringFixed(2),
		Adjustment: AdjustmentDTO{
			Applied:             r.Adjustment.Applied,
			Skipped:             r.Adjustment.Skipped,
			OriginalDate:        formatDate(r.Adjustment.OriginalDate),
			AdjustedDate:        formatDate(r.Adjustment.AdjustedDate),
			ElapsedBusinessDays: r.Adjustment.ElapsedBusinessDays,
			AllowedBusinessDays: r.Adjustment.AllowedBusinessDays,
			Reason:              r.Adjustment.Reason,
		},
	}
}

func toClaimDTO(c claims.Claim) ClaimDTO {
	return ClaimDTO{
		ID:           c.ID,
		EmployerCode: c.EmployerCode,
		WorkerID:     c.WorkerID,
		Period:       c.Period.String(),
		Status:       string(c.Status),
		Total:        c.Total.StringFixed(2),
		CreatedAt:    c.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    c.UpdatedAt.Format(time.RFC3339),
	}
}

func toDetailDTO(d claims.Detail) DetailDTO {
	return DetailDTO{
		ID:        d.ID,
		ClaimID:   d.ClaimID,
		Leave:     toLeaveDTO(d.Leave),
		Result:    toResultDTO(d.Result),
		CreatedAt: d.CreatedAt.Format(time.RFC3339),
	}
}

func toAuditDTO(e claims.AuditEntry) AuditEntryDTO {
	return AuditEntryDTO{
		ID:         e.ID,
		At:         e.At.Format(time.RFC3339),
		ActorID:    e.ActorID,
		Action:     string(e.Action),
		FromStatus: string(e.FromStatus),
		ToStatus:   string(e.ToStatus),
		Note:       e.Note,
	}
}

func toDeclarationDTO(d payroll.Declaration) DeclarationDTO {
	lines := make([]LineDTO, len(d.Lines))
	for i, l := range d.Lines {
		lines[i] = LineDTO{
			WorkerID:      l.WorkerID,
			MonthlySalary: l.MonthlySalary.String(),
			DaysPaid:      l.DaysPaid,
		}
	}
	return DeclarationDTO{
		ID:            d.ID,
		EmployerCode:  d.EmployerCode,
		Period:        d.Period.String(),
		Status:        string(d.Status),
		Lines:         lines,
		TotalSalaries: d.TotalSalaries().StringFixed(2),
		CreatedAt:     d.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     d.UpdatedAt.Format(time.RFC3339),
	}
}
