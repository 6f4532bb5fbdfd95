package payroll

import (
	"context"

	"github.com/shopspring/decimal"
)

// PayrollCalculatedEvent is handed to the integration layer after a
// calculation is persisted. The payload is deliberately minimal; downstream
// consumers own their own schemas.
type PayrollCalculatedEvent struct {
	TenantID      string          `json:"tenant_id"`
	PayrollID     string          `json:"payroll_id"`
	EmployeeID    string          `json:"employee_id"`
	Year          int             `json:"year"`
	Month         int             `json:"month"`
	GrossEarnings decimal.Decimal `json:"gross_earnings"`
	NetSalary     decimal.Decimal `json:"net_salary"`
}

// EventPublisher delivers integration events. Publish failures are logged
// and never fail the calculation.
type EventPublisher interface {
	PublishPayrollCalculated(ctx context.Context, event PayrollCalculatedEvent)
}
