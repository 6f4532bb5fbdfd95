package payroll

import "context"

// PayrollRepository defines data access methods for payrolls and their items.
// All methods include tenantID to prevent cross-tenant data access.
type PayrollRepository interface {
	Create(ctx context.Context, p Payroll) (Payroll, error)
	GetByID(ctx context.Context, id string, tenantID string) (Payroll, error)
	GetByEmployeePeriod(ctx context.Context, tenantID, employeeID string, year, month int) (Payroll, error)
	List(ctx context.Context, tenantID string, filter PayrollFilter) ([]Payroll, int64, error)
	UpdateInputs(ctx context.Context, tenantID string, req UpdatePayrollRequest) error
	// SaveCalculation persists every computed field together with the
	// Calculated status and timestamp.
	SaveCalculation(ctx context.Context, p Payroll) error
	// SetStatus transitions id from one status to another; no matching row
	// means the payroll is missing or not in the expected status.
	SetStatus(ctx context.Context, tenantID, id string, from, to PayrollStatus, actorID, paymentReference *string) error
	SoftDelete(ctx context.Context, id string, tenantID string) error
	Summary(ctx context.Context, tenantID string, year, month int) (PayrollSummaryResponse, error)

	// Items
	AddItem(ctx context.Context, item PayrollItem) (PayrollItem, error)
	ListItems(ctx context.Context, payrollID string, tenantID string) ([]PayrollItem, error)
	RemoveItem(ctx context.Context, id string, payrollID string, tenantID string) error
}

// CumulativeStateRepository persists the per-employee fiscal-year running
// totals. Save performs an optimistic compare-and-swap on Version: a state
// loaded at version N only saves if the row is still at version N.
type CumulativeStateRepository interface {
	// Get returns the committed state, or ZeroState when no period has been
	// committed yet for the employee and fiscal year.
	Get(ctx context.Context, tenantID, employeeID string, fiscalYear int) (CumulativeState, error)
	// Save inserts (Version 0) or CAS-updates the state, returning
	// ErrConcurrentModification when another commit won the race.
	Save(ctx context.Context, state CumulativeState) (CumulativeState, error)
}
