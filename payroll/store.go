package payroll

import (
	"context"
	"errors"

	"github.com/previsio/subsidy-engine/engine"
)

var (
	// ErrDeclarationNotFound is returned when a referenced declaration
	// does not exist.
	ErrDeclarationNotFound = errors.New("declaration not found")

	// ErrWageNotFound is returned when no confirmed declaration line
	// covers a worker for the requested period.
	ErrWageNotFound = errors.New("no confirmed wage for worker in period")
)

// Store persists payroll declarations.
type Store interface {
	// CreateDeclaration persists a new declaration with its lines.
	CreateDeclaration(ctx context.Context, d Declaration) error

	// GetDeclaration returns a declaration with its lines, or
	// ErrDeclarationNotFound.
	GetDeclaration(ctx context.Context, id string) (Declaration, error)

	// ListDeclarations returns declarations for an employer, newest first.
	// Empty employerCode lists all.
	ListDeclarations(ctx context.Context, employerCode string) ([]Declaration, error)

	// UpdateDeclarationStatus moves a declaration between statuses.
	UpdateDeclarationStatus(ctx context.Context, id string, status Status) error

	// FindConfirmedLine returns the wage line for a worker from the
	// employer's confirmed declaration for the period, or ErrWageNotFound.
	FindConfirmedLine(ctx context.Context, employerCode, workerID string, period engine.TargetPeriod) (Line, error)
}
