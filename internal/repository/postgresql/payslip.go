package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/stocker-hr/payroll-backend-go/internal/domain/payslip"
	"github.com/stocker-hr/payroll-backend-go/internal/pkg/database"
)

type payslipRepository struct {
	db *database.DB
}

func NewPayslipRepository(db *database.DB) payslip.PayslipRepository {
	return &payslipRepository{db: db}
}

const payslipColumns = `
	id, tenant_id, employee_id, payroll_id, payslip_number, year, month, currency,
	gross_earnings, total_earnings, total_allowances, total_deductions,
	income_tax, stamp_tax, social_security_employee, unemployment_insurance_employee,
	social_security_employer, unemployment_insurance_employer,
	total_employer_cost, net_salary,
	min_wage_exemption, cumulative_gross_earnings, cumulative_tax_base,
	work_days, absent_days, overtime_hours, leave_days, holiday_days, generated_at`

func scanPayslip(row pgx.Row) (payslip.Payslip, error) {
	var s payslip.Payslip
	err := row.Scan(
		&s.ID, &s.TenantID, &s.EmployeeID, &s.PayrollID, &s.PayslipNumber,
		&s.Year, &s.Month, &s.Currency,
		&s.GrossEarnings, &s.TotalEarnings, &s.TotalAllowances, &s.TotalDeductions,
		&s.IncomeTax, &s.StampTax, &s.SocialSecurityEmployee, &s.UnemploymentInsuranceEmployee,
		&s.SocialSecurityEmployer, &s.UnemploymentInsuranceEmployer,
		&s.TotalEmployerCost, &s.NetSalary,
		&s.MinWageExemption, &s.CumulativeGrossEarnings, &s.CumulativeTaxBase,
		&s.WorkDays, &s.AbsentDays, &s.OvertimeHours, &s.LeaveDays, &s.HolidayDays, &s.GeneratedAt,
	)
	return s, err
}

// Create writes the payslip header and its lines in one transaction. A
// unique index on payroll_id makes a second generation for the same payroll
// fail with ErrPayslipAlreadyExists.
func (r *payslipRepository) Create(ctx context.Context, slip payslip.Payslip) (payslip.Payslip, error) {
	var created payslip.Payslip

	err := WithTransaction(ctx, r.db, func(tx pgx.Tx) error {
		query := `
			INSERT INTO payslips (
				tenant_id, employee_id, payroll_id, payslip_number, year, month, currency,
				gross_earnings, total_earnings, total_allowances, total_deductions,
				income_tax, stamp_tax, social_security_employee, unemployment_insurance_employee,
				social_security_employer, unemployment_insurance_employer,
				total_employer_cost, net_salary,
				min_wage_exemption, cumulative_gross_earnings, cumulative_tax_base,
				work_days, absent_days, overtime_hours, leave_days, holiday_days, generated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
				$16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28)
			RETURNING ` + payslipColumns

		var err error
		created, err = scanPayslip(tx.QueryRow(ctx, query,
			slip.TenantID, slip.EmployeeID, slip.PayrollID, slip.PayslipNumber,
			slip.Year, slip.Month, slip.Currency,
			slip.GrossEarnings, slip.TotalEarnings, slip.TotalAllowances, slip.TotalDeductions,
			slip.IncomeTax, slip.StampTax, slip.SocialSecurityEmployee, slip.UnemploymentInsuranceEmployee,
			slip.SocialSecurityEmployer, slip.UnemploymentInsuranceEmployer,
			slip.TotalEmployerCost, slip.NetSalary,
			slip.MinWageExemption, slip.CumulativeGrossEarnings, slip.CumulativeTaxBase,
			slip.WorkDays, slip.AbsentDays, slip.OvertimeHours, slip.LeaveDays, slip.HolidayDays,
			slip.GeneratedAt,
		))
		if err != nil {
			if strings.Contains(err.Error(), "uk_payslips_payroll_id") {
				return payslip.ErrPayslipAlreadyExists
			}
			return fmt.Errorf("failed to create payslip: %w", err)
		}

		for _, item := range slip.Items {
			itemQuery := `
				INSERT INTO payslip_items (
					payslip_id, tenant_id, name, item_type, amount,
					quantity, rate, description, sort_order
				) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
				RETURNING id, payslip_id, tenant_id, name, item_type, amount,
					quantity, rate, description, sort_order`

			var createdItem payslip.PayslipItem
			err := tx.QueryRow(ctx, itemQuery,
				created.ID, item.TenantID, item.Name, item.ItemType, item.Amount,
				item.Quantity, item.Rate, item.Description, item.SortOrder,
			).Scan(
				&createdItem.ID, &createdItem.PayslipID, &createdItem.TenantID,
				&createdItem.Name, &createdItem.ItemType, &createdItem.Amount,
				&createdItem.Quantity, &createdItem.Rate, &createdItem.Description,
				&createdItem.SortOrder,
			)
			if err != nil {
				return fmt.Errorf("failed to create payslip item: %w", err)
			}
			created.Items = append(created.Items, createdItem)
		}

		return nil
	})
	if err != nil {
		return payslip.Payslip{}, err
	}

	return created, nil
}

func (r *payslipRepository) GetByID(ctx context.Context, id string, tenantID string) (payslip.Payslip, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + payslipColumns + `
		FROM payslips
		WHERE id = $1 AND tenant_id = $2`

	s, err := scanPayslip(q.QueryRow(ctx, query, id, tenantID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payslip.Payslip{}, payslip.ErrPayslipNotFound
		}
		return payslip.Payslip{}, fmt.Errorf("failed to get payslip: %w", err)
	}

	s.Items, err = r.listItems(ctx, s.ID, tenantID)
	if err != nil {
		return payslip.Payslip{}, err
	}

	return s, nil
}

func (r *payslipRepository) GetByPayrollID(ctx context.Context, payrollID string, tenantID string) (payslip.Payslip, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + payslipColumns + `
		FROM payslips
		WHERE payroll_id = $1 AND tenant_id = $2`

	s, err := scanPayslip(q.QueryRow(ctx, query, payrollID, tenantID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payslip.Payslip{}, payslip.ErrPayslipNotFound
		}
		return payslip.Payslip{}, fmt.Errorf("failed to get payslip by payroll: %w", err)
	}

	s.Items, err = r.listItems(ctx, s.ID, tenantID)
	if err != nil {
		return payslip.Payslip{}, err
	}

	return s, nil
}

func (r *payslipRepository) ListByEmployee(ctx context.Context, tenantID, employeeID string, year int) ([]payslip.Payslip, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + payslipColumns + `
		FROM payslips
		WHERE tenant_id = $1 AND employee_id = $2 AND year = $3
		ORDER BY month`

	rows, err := q.Query(ctx, query, tenantID, employeeID, year)
	if err != nil {
		return nil, fmt.Errorf("failed to list payslips: %w", err)
	}
	defer rows.Close()

	var slips []payslip.Payslip
	for rows.Next() {
		s, err := scanPayslip(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payslip: %w", err)
		}
		slips = append(slips, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payslips: %w", err)
	}

	for i := range slips {
		slips[i].Items, err = r.listItems(ctx, slips[i].ID, tenantID)
		if err != nil {
			return nil, err
		}
	}

	return slips, nil
}

func (r *payslipRepository) listItems(ctx context.Context, payslipID, tenantID string) ([]payslip.PayslipItem, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, payslip_id, tenant_id, name, item_type, amount,
			quantity, rate, description, sort_order
		FROM payslip_items
		WHERE payslip_id = $1 AND tenant_id = $2
		ORDER BY sort_order`

	rows, err := q.Query(ctx, query, payslipID, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payslip items: %w", err)
	}
	defer rows.Close()

	var items []payslip.PayslipItem
	for rows.Next() {
		var item payslip.PayslipItem
		err := rows.Scan(
			&item.ID, &item.PayslipID, &item.TenantID, &item.Name, &item.ItemType,
			&item.Amount, &item.Quantity, &item.Rate, &item.Description, &item.SortOrder,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payslip item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payslip items: %w", err)
	}

	return items, nil
}
