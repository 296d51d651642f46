/*
handlers_test.go - Unit tests for API handlers

Exercises the full request path: router, JSON decoding, domain services,
and error mapping, over the in-memory store.
*/
package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/previsio/subsidy-engine/claims"
	"github.com/previsio/subsidy-engine/engine"
	"github.com/previsio/subsidy-engine/payroll"
	"github.com/previsio/subsidy-engine/store/memory"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	store := memory.New()
	eng := engine.New()
	svc := claims.NewService(eng, payroll.NewWages(store), store)
	handler := NewHandler(eng, svc, store)

	server := httptest.NewServer(NewRouter(handler))
	t.Cleanup(server.Close)
	return server
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

// createConfirmedDeclaration files and confirms a January 2025 declaration
// for EMP-001 / W-42 at 4322.00 over 30 days paid.
func createConfirmedDeclaration(t *testing.T, server *httptest.Server) {
	t.Helper()
	resp := postJSON(t, server.URL+"/api/declarations", CreateDeclarationRequest{
		EmployerCode: "EMP-001",
		Period:       "2025-01",
		Lines: []LineDTO{
			{WorkerID: "W-42", MonthlySalary: "4322.00", DaysPaid: 30},
		},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	decl := decode[DeclarationDTO](t, resp)

	resp = postJSON(t, server.URL+"/api/declarations/"+decl.ID+"/confirm", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	confirmed := decode[DeclarationDTO](t, resp)
	require.Equal(t, "confirmed", confirmed.Status)
}

func TestCreateDeclaration(t *testing.T) {
	server := newTestServer(t)

	resp := postJSON(t, server.URL+"/api/declarations", CreateDeclarationRequest{
		EmployerCode: "EMP-001",
		Period:       "2025-01",
		Lines: []LineDTO{
			{WorkerID: "W-42", MonthlySalary: "4322.00", DaysPaid: 30},
			{WorkerID: "W-43", MonthlySalary: "1850.50", DaysPaid: 15},
		},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	decl := decode[DeclarationDTO](t, resp)
	assert.NotEmpty(t, decl.ID)
	assert.Equal(t, "declared", decl.Status)
	assert.Equal(t, "2025-01", decl.Period)
	assert.Equal(t, "6172.50", decl.TotalSalaries)
}

func TestCreateDeclaration_Validation(t *testing.T) {
	server := newTestServer(t)

	cases := []struct {
		name string
		req  CreateDeclarationRequest
	}{
		{"missing employer", CreateDeclarationRequest{Period: "2025-01",
			Lines: []LineDTO{{WorkerID: "W-1", MonthlySalary: "100", DaysPaid: 30}}}},
		{"no lines", CreateDeclarationRequest{EmployerCode: "EMP-001", Period: "2025-01"}},
		{"bad period", CreateDeclarationRequest{EmployerCode: "EMP-001", Period: "January 2025",
			Lines: []LineDTO{{WorkerID: "W-1", MonthlySalary: "100", DaysPaid: 30}}}},
		{"bad salary", CreateDeclarationRequest{EmployerCode: "EMP-001", Period: "2025-01",
			Lines: []LineDTO{{WorkerID: "W-1", MonthlySalary: "lots", DaysPaid: 30}}}},
		{"zero days paid", CreateDeclarationRequest{EmployerCode: "EMP-001", Period: "2025-01",
			Lines: []LineDTO{{WorkerID: "W-1", MonthlySalary: "100", DaysPaid: 0}}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := postJSON(t, server.URL+"/api/declarations", tc.req)
			defer resp.Body.Close()
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestGetDeclaration_NotFound(t *testing.T) {
	server := newTestServer(t)
	resp, err := http.Get(server.URL + "/api/declarations/missing")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestClaimLifecycle(t *testing.T) {
	// GIVEN: A confirmed declaration backing the wage lookup
	server := newTestServer(t)
	createConfirmedDeclaration(t, server)

	// WHEN: A claim is opened
	resp := postJSON(t, server.URL+"/api/claims", CreateClaimRequest{
		EmployerCode: "EMP-001",
		WorkerID:     "W-42",
		Period:       "2025-01",
		ActorID:      "clerk-7",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	claim := decode[ClaimDTO](t, resp)
	assert.Equal(t, "draft", claim.Status)

	// AND: An illness leave is settled into it
	resp = postJSON(t, server.URL+"/api/claims/"+claim.ID+"/details", SettleLeaveRequest{
		Leave: LeaveDTO{
			Type:  "illness",
			Start: "2025-01-05",
			End:   "2025-01-14",
		},
		ActorID: "clerk-7",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	detail := decode[DetailDTO](t, resp)
	assert.Equal(t, 7, detail.Result.ReimbursableDays)
	assert.Equal(t, "75", detail.Result.Percentage)

	// AND: The claim walks submitted -> approved
	resp = postJSON(t, server.URL+"/api/claims/"+claim.ID+"/submit", TransitionRequest{ActorID: "clerk-7"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	submitted := decode[ClaimDTO](t, resp)
	assert.Equal(t, "submitted", submitted.Status)

	resp = postJSON(t, server.URL+"/api/claims/"+claim.ID+"/approve", TransitionRequest{ActorID: "reviewer-1"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	approved := decode[ClaimDTO](t, resp)
	assert.Equal(t, "approved", approved.Status)

	// THEN: The full claim view carries the line and the audit trail
	getResp, err := http.Get(server.URL + "/api/claims/" + claim.ID)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, getResp.StatusCode)
	full := decode[ClaimDetailResponse](t, getResp)
	assert.Len(t, full.Details, 1)
	assert.Equal(t, full.Details[0].Result.ReimbursementAmount, full.Claim.Total)
	assert.GreaterOrEqual(t, len(full.Audit), 4) // created + settled + 2 transitions
}

func TestSettleLeave_ClaimFrozenAfterSubmit(t *testing.T) {
	server := newTestServer(t)
	createConfirmedDeclaration(t, server)

	resp := postJSON(t, server.URL+"/api/claims", CreateClaimRequest{
		EmployerCode: "EMP-001", WorkerID: "W-42", Period: "2025-01",
	})
	claim := decode[ClaimDTO](t, resp)

	resp = postJSON(t, server.URL+"/api/claims/"+claim.ID+"/submit", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = postJSON(t, server.URL+"/api/claims/"+claim.ID+"/details", SettleLeaveRequest{
		Leave: LeaveDTO{Type: "illness", Start: "2025-01-05", End: "2025-01-09"},
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestTransition_Invalid(t *testing.T) {
	server := newTestServer(t)

	resp := postJSON(t, server.URL+"/api/claims", CreateClaimRequest{
		EmployerCode: "EMP-001", WorkerID: "W-42", Period: "2025-01",
	})
	claim := decode[ClaimDTO](t, resp)

	// draft -> approved skips review
	resp = postJSON(t, server.URL+"/api/claims/"+claim.ID+"/approve", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestSettleLeave_NoConfirmedWage(t *testing.T) {
	// GIVEN: A claim but no confirmed declaration at all
	server := newTestServer(t)

	resp := postJSON(t, server.URL+"/api/claims", CreateClaimRequest{
		EmployerCode: "EMP-001", WorkerID: "W-42", Period: "2025-01",
	})
	claim := decode[ClaimDTO](t, resp)

	resp = postJSON(t, server.URL+"/api/claims/"+claim.ID+"/details", SettleLeaveRequest{
		Leave: LeaveDTO{Type: "illness", Start: "2025-01-05", End: "2025-01-09"},
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCompute_InlineWage(t *testing.T) {
	// GIVEN: No declarations, fully stateless computation
	server := newTestServer(t)

	resp := postJSON(t, server.URL+"/api/compute", ComputeRequest{
		Period: "2025-01",
		Leave: LeaveDTO{
			Type:  "illness",
			Start: "2025-01-10",
			End:   "2025-01-30",
		},
		Wage: &WageDTO{MonthlySalary: "4322.00", DaysPaid: 30},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	result := decode[ResultDTO](t, resp)
	assert.Equal(t, 21, result.Declared.Days)
	assert.Equal(t, 18, result.ReimbursableDays)
	assert.Equal(t, "144.066667", result.DailyWage)
	assert.Equal(t, "1944.90", result.ReimbursementAmount)
}

func TestCompute_LookupWage(t *testing.T) {
	server := newTestServer(t)
	createConfirmedDeclaration(t, server)

	resp := postJSON(t, server.URL+"/api/compute", ComputeRequest{
		Period:       "2025-01",
		EmployerCode: "EMP-001",
		WorkerID:     "W-42",
		Leave: LeaveDTO{
			Type:  "maternity",
			Start: "2025-01-10",
			End:   "2025-01-19",
		},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	result := decode[ResultDTO](t, resp)
	assert.Equal(t, 10, result.ReimbursableDays)
	assert.Equal(t, "90", result.Percentage)
}

func TestCompute_OccupationalInjuryAdjustment(t *testing.T) {
	server := newTestServer(t)

	resp := postJSON(t, server.URL+"/api/compute", ComputeRequest{
		Period: "2025-01",
		Leave: LeaveDTO{
			Type:           "occupational_injury",
			Start:          "2025-01-10",
			End:            "2025-01-30",
			AccidentDate:   "2025-01-10",
			VigencyDate:    "2025-01-20",
			AccidentLocale: "urban",
		},
		Wage: &WageDTO{MonthlySalary: "4322.00", DaysPaid: 30},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	result := decode[ResultDTO](t, resp)
	assert.True(t, result.Adjustment.Applied)
	assert.Equal(t, "2025-01-20", result.Settlement.Start)
	assert.Equal(t, 11, result.Settlement.Days)
}

func TestCompute_Rejections(t *testing.T) {
	server := newTestServer(t)

	cases := []struct {
		name string
		req  ComputeRequest
		want int
	}{
		{"unknown type", ComputeRequest{Period: "2025-01",
			Leave: LeaveDTO{Type: "vacation", Start: "2025-01-05", End: "2025-01-09"},
			Wage:  &WageDTO{MonthlySalary: "100", DaysPaid: 30}}, http.StatusBadRequest},
		{"end before start", ComputeRequest{Period: "2025-01",
			Leave: LeaveDTO{Type: "illness", Start: "2025-01-09", End: "2025-01-05"},
			Wage:  &WageDTO{MonthlySalary: "100", DaysPaid: 30}}, http.StatusBadRequest},
		{"zero days paid", ComputeRequest{Period: "2025-01",
			Leave: LeaveDTO{Type: "illness", Start: "2025-01-05", End: "2025-01-09"},
			Wage:  &WageDTO{MonthlySalary: "100", DaysPaid: 0}}, http.StatusBadRequest},
		{"no wage source", ComputeRequest{Period: "2025-01",
			Leave: LeaveDTO{Type: "illness", Start: "2025-01-05", End: "2025-01-09"}}, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := postJSON(t, server.URL+"/api/compute", tc.req)
			defer resp.Body.Close()
			assert.Equal(t, tc.want, resp.StatusCode)
		})
	}
}
