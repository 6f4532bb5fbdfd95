package payroll

import (
	"context"
	"log/slog"

	"github.com/stocker-hr/payroll-backend-go/internal/domain/payroll"
)

// LogPublisher emits integration events to the structured log. It stands in
// for a message broker until the integration layer grows one.
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) PublishPayrollCalculated(ctx context.Context, event payroll.PayrollCalculatedEvent) {
	p.logger.InfoContext(ctx, "payroll calculated",
		slog.String("event", "PayrollCalculated"),
		slog.String("tenant_id", event.TenantID),
		slog.String("payroll_id", event.PayrollID),
		slog.String("employee_id", event.EmployeeID),
		slog.Int("year", event.Year),
		slog.Int("month", event.Month),
		slog.String("gross_earnings", event.GrossEarnings.String()),
		slog.String("net_salary", event.NetSalary.String()),
	)
}
