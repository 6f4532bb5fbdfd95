package payslip

import "context"

type PayslipService interface {
	// Generate assembles and persists the payslip for an approved or paid
	// payroll. Generating twice for the same payroll fails.
	Generate(ctx context.Context, payrollID string) (PayslipResponse, error)
	GetPayslip(ctx context.Context, id string) (PayslipResponse, error)
	GetByPayroll(ctx context.Context, payrollID string) (PayslipResponse, error)
	ListByEmployee(ctx context.Context, employeeID string, year int) ([]PayslipResponse, error)
	// RenderPDF returns the payslip as a PDF document.
	RenderPDF(ctx context.Context, id string) ([]byte, error)
}
