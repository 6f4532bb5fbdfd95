package payslip

import "context"

// PayslipRepository persists immutable payslips. There is no update method
// on purpose; a payslip row is written once.
type PayslipRepository interface {
	Create(ctx context.Context, slip Payslip) (Payslip, error)
	GetByID(ctx context.Context, id string, tenantID string) (Payslip, error)
	GetByPayrollID(ctx context.Context, payrollID string, tenantID string) (Payslip, error)
	ListByEmployee(ctx context.Context, tenantID, employeeID string, year int) ([]Payslip, error)
}
