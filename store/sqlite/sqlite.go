/*
Package sqlite provides the SQLite-backed implementation of the claims and
payroll stores.

PURPOSE:
  Persists contribution declarations, reimbursement claims, their settled
  detail lines, and the claim audit trail. The same SQL shape applies to
  PostgreSQL with minor dialect changes.

APPEND-ONLY ENFORCEMENT:
  claim_details and claim_audit receive INSERTs only. There is no UPDATE
  or DELETE path for them anywhere in this package: a wrong settlement is
  corrected by observing the claim and settling again, never by editing
  what was already computed.

DATA REPRESENTATION:
  Dates are stored as ISO-8601 text (empty string for an absent date).
  Monetary values are stored as decimal text and re-parsed with
  shopspring/decimal - never as REAL, which would reintroduce the binary
  floating point drift the engine exists to avoid.

WAL MODE:
  SQLite is opened with WAL for better read concurrency and crash
  recovery. Schema is migrated on open.

USAGE:
  store, err := sqlite.New("./data/fund.db")
  defer store.Close()
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/previsio/subsidy-engine/claims"
	"github.com/previsio/subsidy-engine/engine"
	"github.com/previsio/subsidy-engine/payroll"
)

// Store implements claims.Store and payroll.Store using SQLite.
type Store struct {
	db *sql.DB
}

var (
	_ claims.Store  = (*Store)(nil)
	_ payroll.Store = (*Store)(nil)
)

// New opens (or creates) the database at dbPath and migrates the schema.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) migrate() error {
	schema := `
	-- Employer contribution declarations
	CREATE TABLE IF NOT EXISTS declarations (
		id TEXT PRIMARY KEY,
		employer_code TEXT NOT NULL,
		period_year INTEGER NOT NULL,
		period_month INTEGER NOT NULL,
		status TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_declarations_employer_period
		ON declarations(employer_code, period_year, period_month);

	CREATE TABLE IF NOT EXISTS declaration_lines (
		declaration_id TEXT NOT NULL REFERENCES declarations(id),
		worker_id TEXT NOT NULL,
		monthly_salary TEXT NOT NULL,
		days_paid INTEGER NOT NULL,
		PRIMARY KEY (declaration_id, worker_id)
	);
	CREATE INDEX IF NOT EXISTS idx_declaration_lines_worker
		ON declaration_lines(worker_id);

	-- Reimbursement claims
	CREATE TABLE IF NOT EXISTS claims (
		id TEXT PRIMARY KEY,
		employer_code TEXT NOT NULL,
		worker_id TEXT NOT NULL,
		period_year INTEGER NOT NULL,
		period_month INTEGER NOT NULL,
		status TEXT NOT NULL,
		total TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_claims_employer
		ON claims(employer_code, period_year, period_month);
	CREATE INDEX IF NOT EXISTS idx_claims_status
		ON claims(status);

	-- Settled lines (append-only)
	CREATE TABLE IF NOT EXISTS claim_details (
		id TEXT PRIMARY KEY,
		claim_id TEXT NOT NULL REFERENCES claims(id),
		incapacity_type TEXT NOT NULL,
		leave_start TEXT NOT NULL,
		leave_end TEXT NOT NULL,
		claimed_days INTEGER NOT NULL,
		accident_date TEXT NOT NULL,
		vigency_date TEXT NOT NULL,
		accident_locale TEXT NOT NULL,
		declared_start TEXT NOT NULL,
		declared_end TEXT NOT NULL,
		declared_days INTEGER NOT NULL,
		settlement_start TEXT NOT NULL,
		settlement_end TEXT NOT NULL,
		settlement_days INTEGER NOT NULL,
		reimbursable_days INTEGER NOT NULL,
		daily_wage TEXT NOT NULL,
		subtotal TEXT NOT NULL,
		percentage TEXT NOT NULL,
		amount TEXT NOT NULL,
		adjustment_applied INTEGER NOT NULL,
		adjustment_skipped INTEGER NOT NULL,
		adjustment_original TEXT NOT NULL,
		adjustment_adjusted TEXT NOT NULL,
		adjustment_elapsed INTEGER NOT NULL,
		adjustment_allowed INTEGER NOT NULL,
		adjustment_reason TEXT NOT NULL,
		created_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_claim_details_claim
		ON claim_details(claim_id, created_at);

	-- Audit trail (append-only)
	CREATE TABLE IF NOT EXISTS claim_audit (
		id TEXT PRIMARY KEY,
		claim_id TEXT NOT NULL,
		at TEXT NOT NULL,
		actor_id TEXT NOT NULL,
		action TEXT NOT NULL,
		from_status TEXT NOT NULL,
		to_status TEXT NOT NULL,
		note TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_claim_audit_claim
		ON claim_audit(claim_id, at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// ENCODING HELPERS
// =============================================================================

const timeLayout = time.RFC3339Nano

func encodeDate(d engine.Date) string {
	if d.IsZero() {
		return ""
	}
	return d.String()
}

func decodeDate(s string) (engine.Date, error) {
	if s == "" {
		return engine.Date{}, nil
	}
	return engine.ParseDate(s)
}

func decodeDecimal(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}

func decodeTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(timeLayout, s)
}

// =============================================================================
// PAYROLL STORE
// =============================================================================

func (s *Store) CreateDeclaration(ctx context.Context, d payroll.Declaration) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO declarations (id, employer_code, period_year, period_month, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		d.ID, d.EmployerCode, d.Period.Year, int(d.Period.Month), string(d.Status),
		d.CreatedAt.Format(timeLayout), d.UpdatedAt.Format(timeLayout))
	if err != nil {
		return fmt.Errorf("insert declaration: %w", err)
	}

	for _, line := range d.Lines {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO declaration_lines (declaration_id, worker_id, monthly_salary, days_paid)
			VALUES (?, ?, ?, ?)`,
			d.ID, line.WorkerID, line.MonthlySalary.String(), line.DaysPaid)
		if err != nil {
			return fmt.Errorf("insert declaration line for %s: %w", line.WorkerID, err)
		}
	}

	return tx.Commit()
}

func (s *Store) GetDeclaration(ctx context.Context, id string) (payroll.Declaration, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, employer_code, period_year, period_month, status, created_at, updated_at
		FROM declarations WHERE id = ?`, id)

	d, err := scanDeclaration(row)
	if err == sql.ErrNoRows {
		return payroll.Declaration{}, payroll.ErrDeclarationNotFound
	}
	if err != nil {
		return payroll.Declaration{}, err
	}

	lines, err := s.declarationLines(ctx, id)
	if err != nil {
		return payroll.Declaration{}, err
	}
	d.Lines = lines
	return d, nil
}

func (s *Store) ListDeclarations(ctx context.Context, employerCode string) ([]payroll.Declaration, error) {
	query := `
		SELECT id, employer_code, period_year, period_month, status, created_at, updated_at
		FROM declarations`
	args := []any{}
	if employerCode != "" {
		query += ` WHERE employer_code = ?`
		args = append(args, employerCode)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []payroll.Declaration
	for rows.Next() {
		d, err := scanDeclaration(rows)
		if err != nil {
			return nil, err
		}
		lines, err := s.declarationLines(ctx, d.ID)
		if err != nil {
			return nil, err
		}
		d.Lines = lines
		result = append(result, d)
	}
	return result, rows.Err()
}

func (s *Store) UpdateDeclarationStatus(ctx context.Context, id string, status payroll.Status) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE declarations SET status = ?, updated_at = ? WHERE id = ?`,
		string(status), time.Now().UTC().Format(timeLayout), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return payroll.ErrDeclarationNotFound
	}
	return nil
}

func (s *Store) FindConfirmedLine(ctx context.Context, employerCode, workerID string, period engine.TargetPeriod) (payroll.Line, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT l.worker_id, l.monthly_salary, l.days_paid
		FROM declaration_lines l
		JOIN declarations d ON d.id = l.declaration_id
		WHERE d.employer_code = ? AND d.period_year = ? AND d.period_month = ?
		  AND d.status = ? AND l.worker_id = ?
		ORDER BY d.created_at DESC
		LIMIT 1`,
		employerCode, period.Year, int(period.Month), string(payroll.StatusConfirmed), workerID)

	var line payroll.Line
	var salary string
	err := row.Scan(&line.WorkerID, &salary, &line.DaysPaid)
	if err == sql.ErrNoRows {
		return payroll.Line{}, payroll.ErrWageNotFound
	}
	if err != nil {
		return payroll.Line{}, err
	}
	line.MonthlySalary, err = decodeDecimal(salary)
	if err != nil {
		return payroll.Line{}, fmt.Errorf("decode salary: %w", err)
	}
	return line, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDeclaration(row rowScanner) (payroll.Declaration, error) {
	var d payroll.Declaration
	var month int
	var status, createdAt, updatedAt string

	if err := row.Scan(&d.ID, &d.EmployerCode, &d.Period.Year, &month, &status, &createdAt, &updatedAt); err != nil {
		return payroll.Declaration{}, err
	}
	d.Period.Month = time.Month(month)
	d.Status = payroll.Status(status)

	var err error
	if d.CreatedAt, err = decodeTime(createdAt); err != nil {
		return payroll.Declaration{}, err
	}
	if d.UpdatedAt, err = decodeTime(updatedAt); err != nil {
		return payroll.Declaration{}, err
	}
	return d, nil
}

func (s *Store) declarationLines(ctx context.Context, declarationID string) ([]payroll.Line, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT worker_id, monthly_salary, days_paid
		FROM declaration_lines WHERE declaration_id = ?
		ORDER BY worker_id`, declarationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []payroll.Line
	for rows.Next() {
		var line payroll.Line
		var salary string
		if err := rows.Scan(&line.WorkerID, &salary, &line.DaysPaid); err != nil {
			return nil, err
		}
		if line.MonthlySalary, err = decodeDecimal(salary); err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}

// =============================================================================
// CLAIMS STORE
// =============================================================================

func (s *Store) CreateClaim(ctx context.Context, c claims.Claim) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO claims (id, employer_code, worker_id, period_year, period_month, status, total, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.EmployerCode, c.WorkerID, c.Period.Year, int(c.Period.Month),
		string(c.Status), c.Total.String(),
		c.CreatedAt.Format(timeLayout), c.UpdatedAt.Format(timeLayout))
	if err != nil {
		return fmt.Errorf("insert claim: %w", err)
	}
	return nil
}

func (s *Store) GetClaim(ctx context.Context, id string) (claims.Claim, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, employer_code, worker_id, period_year, period_month, status, total, created_at, updated_at
		FROM claims WHERE id = ?`, id)

	c, err := scanClaim(row)
	if err == sql.ErrNoRows {
		return claims.Claim{}, claims.ErrClaimNotFound
	}
	return c, err
}

func (s *Store) ListClaims(ctx context.Context, filter claims.ClaimFilter) ([]claims.Claim, error) {
	query := `
		SELECT id, employer_code, worker_id, period_year, period_month, status, total, created_at, updated_at
		FROM claims WHERE 1=1`
	var args []any
	if filter.EmployerCode != "" {
		query += ` AND employer_code = ?`
		args = append(args, filter.EmployerCode)
	}
	if filter.WorkerID != "" {
		query += ` AND worker_id = ?`
		args = append(args, filter.WorkerID)
	}
	if filter.Status != "" {
		query += ` AND status = ?`
		args = append(args, string(filter.Status))
	}
	if filter.Period != nil {
		query += ` AND period_year = ? AND period_month = ?`
		args = append(args, filter.Period.Year, int(filter.Period.Month))
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []claims.Claim
	for rows.Next() {
		c, err := scanClaim(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	return result, rows.Err()
}

func (s *Store) UpdateClaim(ctx context.Context, c claims.Claim) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE claims SET status = ?, total = ?, updated_at = ? WHERE id = ?`,
		string(c.Status), c.Total.String(), c.UpdatedAt.Format(timeLayout), c.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return claims.ErrClaimNotFound
	}
	return nil
}

func scanClaim(row rowScanner) (claims.Claim, error) {
	var c claims.Claim
	var month int
	var status, total, createdAt, updatedAt string

	if err := row.Scan(&c.ID, &c.EmployerCode, &c.WorkerID, &c.Period.Year, &month,
		&status, &total, &createdAt, &updatedAt); err != nil {
		return claims.Claim{}, err
	}
	c.Period.Month = time.Month(month)
	c.Status = claims.Status(status)

	var err error
	if c.Total, err = decodeDecimal(total); err != nil {
		return claims.Claim{}, fmt.Errorf("decode total: %w", err)
	}
	if c.CreatedAt, err = decodeTime(createdAt); err != nil {
		return claims.Claim{}, err
	}
	if c.UpdatedAt, err = decodeTime(updatedAt); err != nil {
		return claims.Claim{}, err
	}
	return c, nil
}

// =============================================================================
// CLAIM DETAILS (append-only)
// =============================================================================

func (s *Store) AppendDetail(ctx context.Context, d claims.Detail) error {
	r := d.Result
	adj := r.Adjustment
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO claim_details (
			id, claim_id, incapacity_type,
			leave_start, leave_end, claimed_days,
			accident_date, vigency_date, accident_locale,
			declared_start, declared_end, declared_days,
			settlement_start, settlement_end, settlement_days,
			reimbursable_days, daily_wage, subtotal, percentage, amount,
			adjustment_applied, adjustment_skipped,
			adjustment_original, adjustment_adjusted,
			adjustment_elapsed, adjustment_allowed, adjustment_reason,
			created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		d.ID, d.ClaimID, string(d.Leave.Type),
		encodeDate(d.Leave.Start), encodeDate(d.Leave.End), d.Leave.ClaimedDays,
		encodeDate(d.Leave.AccidentDate), encodeDate(d.Leave.VigencyDate), string(d.Leave.AccidentLocale),
		encodeDate(r.Declared.Start), encodeDate(r.Declared.End), r.Declared.Days,
		encodeDate(r.Settlement.Start), encodeDate(r.Settlement.End), r.Settlement.Days,
		r.ReimbursableDays, r.DailyWage.String(), r.Subtotal.String(), r.Percentage.String(),
		r.ReimbursementAmount.String(),
		boolToInt(adj.Applied), boolToInt(adj.Skipped),
		encodeDate(adj.OriginalDate), encodeDate(adj.AdjustedDate),
		adj.ElapsedBusinessDays, adj.AllowedBusinessDays, adj.Reason,
		d.CreatedAt.Format(timeLayout))
	if err != nil {
		return fmt.Errorf("insert claim detail: %w", err)
	}
	return nil
}

func (s *Store) DetailsByClaim(ctx context.Context, claimID string) ([]claims.Detail, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, claim_id, incapacity_type,
			leave_start, leave_end, claimed_days,
			accident_date, vigency_date, accident_locale,
			declared_start, declared_end, declared_days,
			settlement_start, settlement_end, settlement_days,
			reimbursable_days, daily_wage, subtotal, percentage, amount,
			adjustment_applied, adjustment_skipped,
			adjustment_original, adjustment_adjusted,
			adjustment_elapsed, adjustment_allowed, adjustment_reason,
			created_at
		FROM claim_details WHERE claim_id = ?
		ORDER BY created_at, id`, claimID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []claims.Detail
	for rows.Next() {
		d, err := scanDetail(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, d)
	}
	return result, rows.Err()
}

func scanDetail(rows *sql.Rows) (claims.Detail, error) {
	var d claims.Detail
	var typ, locale string
	var leaveStart, leaveEnd, accidentDate, vigencyDate string
	var declStart, declEnd, settStart, settEnd string
	var dailyWage, subtotal, percentage, amount string
	var applied, skipped int
	var adjOriginal, adjAdjusted string
	var createdAt string

	err := rows.Scan(&d.ID, &d.ClaimID, &typ,
		&leaveStart, &leaveEnd, &d.Leave.ClaimedDays,
		&accidentDate, &vigencyDate, &locale,
		&declStart, &declEnd, &d.Result.Declared.Days,
		&settStart, &settEnd, &d.Result.Settlement.Days,
		&d.Result.ReimbursableDays, &dailyWage, &subtotal, &percentage, &amount,
		&applied, &skipped,
		&adjOriginal, &adjAdjusted,
		&d.Result.Adjustment.ElapsedBusinessDays, &d.Result.Adjustment.AllowedBusinessDays,
		&d.Result.Adjustment.Reason,
		&createdAt)
	if err != nil {
		return claims.Detail{}, err
	}

	d.Leave.Type = engine.IncapacityType(typ)
	d.Result.Type = engine.IncapacityType(typ)
	d.Leave.AccidentLocale = engine.Locale(locale)
	d.Result.Adjustment.Applied = applied != 0
	d.Result.Adjustment.Skipped = skipped != 0

	dates := []struct {
		raw  string
		dest *engine.Date
	}{
		{leaveStart, &d.Leave.Start},
		{leaveEnd, &d.Leave.End},
		{accidentDate, &d.Leave.AccidentDate},
		{vigencyDate, &d.Leave.VigencyDate},
		{declStart, &d.Result.Declared.Start},
		{declEnd, &d.Result.Declared.End},
		{settStart, &d.Result.Settlement.Start},
		{settEnd, &d.Result.Settlement.End},
		{adjOriginal, &d.Result.Adjustment.OriginalDate},
		{adjAdjusted, &d.Result.Adjustment.AdjustedDate},
	}
	for _, dc := range dates {
		if *dc.dest, err = decodeDate(dc.raw); err != nil {
			return claims.Detail{}, err
		}
	}

	decimals := []struct {
		raw  string
		dest *decimal.Decimal
	}{
		{dailyWage, &d.Result.DailyWage},
		{subtotal, &d.Result.Subtotal},
		{percentage, &d.Result.Percentage},
		{amount, &d.Result.ReimbursementAmount},
	}
	for _, dc := range decimals {
		if *dc.dest, err = decodeDecimal(dc.raw); err != nil {
			return claims.Detail{}, err
		}
	}

	if d.CreatedAt, err = decodeTime(createdAt); err != nil {
		return claims.Detail{}, err
	}
	return d, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// =============================================================================
// AUDIT TRAIL (append-only)
// =============================================================================

func (s *Store) AppendAudit(ctx context.Context, e claims.AuditEntry) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO claim_audit (id, claim_id, at, actor_id, action, from_status, to_status, note)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.ClaimID, e.At.Format(timeLayout), e.ActorID, string(e.Action),
		string(e.FromStatus), string(e.ToStatus), e.Note)
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

func (s *Store) AuditByClaim(ctx context.Context, claimID string) ([]claims.AuditEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, claim_id, at, actor_id, action, from_status, to_status, note
		FROM claim_audit WHERE claim_id = ?
		ORDER BY at, id`, claimID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []claims.AuditEntry
	for rows.Next() {
		var e claims.AuditEntry
		var at, action, from, to string
		if err := rows.Scan(&e.ID, &e.ClaimID, &at, &e.ActorID, &action, &from, &to, &e.Note); err != nil {
			return nil, err
		}
		e.Action = claims.AuditAction(action)
		e.FromStatus = claims.Status(from)
		e.ToStatus = claims.Status(to)
		if e.At, err = decodeTime(at); err != nil {
			return nil, err
		}
		result = append(result, e)
	}
	return result, rows.Err()
}
