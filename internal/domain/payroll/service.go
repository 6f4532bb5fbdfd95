package payroll

import "context"

type PayrollService interface {
	CreateDraft(ctx context.Context, req CreatePayrollRequest) (PayrollResponse, error)
	GetPayroll(ctx context.Context, id string) (PayrollResponse, error)
	ListPayrolls(ctx context.Context, filter PayrollFilter) (ListPayrollResponse, error)
	UpdateDraft(ctx context.Context, req UpdatePayrollRequest) (PayrollResponse, error)

	AddItem(ctx context.Context, req AddPayrollItemRequest) (PayrollItemResponse, error)
	ListItems(ctx context.Context, payrollID string) ([]PayrollItemResponse, error)
	RemoveItem(ctx context.Context, payrollID, itemID string) error

	// Calculate runs the engine for a Draft or Calculated payroll and
	// persists the computed fields. The cumulative state is only committed
	// at Approve, so a Calculated payroll may be recalculated freely.
	Calculate(ctx context.Context, id string) (PayrollResponse, error)
	Approve(ctx context.Context, id string) (PayrollResponse, error)
	Pay(ctx context.Context, req PayPayrollRequest) (PayrollResponse, error)
	Cancel(ctx context.Context, id string) (PayrollResponse, error)
	Delete(ctx context.Context, id string) error

	GetCumulativeState(ctx context.Context, employeeID string, fiscalYear int) (CumulativeStateResponse, error)
	GetSummary(ctx context.Context, year, month int) (PayrollSummaryResponse, error)
}
