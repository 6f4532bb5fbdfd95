package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/stocker-hr/payroll-backend-go/internal/domain/payroll"
	"github.com/stocker-hr/payroll-backend-go/internal/pkg/database"
)

type payrollRepository struct {
	db *database.DB
}

func NewPayrollRepository(db *database.DB) payroll.PayrollRepository {
	return &payrollRepository{db: db}
}

const payrollColumns = `
	id, tenant_id, employee_id, year, month, currency,
	base_salary, overtime_pay, bonus, allowances, other_earnings,
	work_days, absent_days, overtime_hours, leave_days, holiday_days,
	gross_earnings, tax_base, tax_bracket, tax_bracket_rate, effective_tax_rate,
	sgk_base, sgk_ceiling_applied, min_wage_exemption, cumulative_gross_earnings,
	income_tax, social_security_employee, social_security_employer,
	unemployment_insurance_employee, unemployment_insurance_employer,
	stamp_tax, other_deductions, total_deductions, net_salary,
	status, calculated_at, calculated_by_id, approved_at, approved_by_id,
	paid_at, payment_reference, notes, created_at, updated_at, deleted_at`

func scanPayroll(row pgx.Row) (payroll.Payroll, error) {
	var p payroll.Payroll
	err := row.Scan(
		&p.ID, &p.TenantID, &p.EmployeeID, &p.Year, &p.Month, &p.Currency,
		&p.BaseSalary, &p.OvertimePay, &p.Bonus, &p.Allowances, &p.OtherEarnings,
		&p.WorkDays, &p.AbsentDays, &p.OvertimeHours, &p.LeaveDays, &p.HolidayDays,
		&p.GrossEarnings, &p.TaxBase, &p.TaxBracket, &p.TaxBracketRate, &p.EffectiveTaxRate,
		&p.SgkBase, &p.SgkCeilingApplied, &p.MinWageExemption, &p.CumulativeGrossEarnings,
		&p.IncomeTax, &p.SocialSecurityEmployee, &p.SocialSecurityEmployer,
		&p.UnemploymentInsuranceEmployee, &p.UnemploymentInsuranceEmployer,
		&p.StampTax, &p.OtherDeductions, &p.TotalDeductions, &p.NetSalary,
		&p.Status, &p.CalculatedAt, &p.CalculatedByID, &p.ApprovedAt, &p.ApprovedByID,
		&p.PaidAt, &p.PaymentReference, &p.Notes, &p.CreatedAt, &p.UpdatedAt, &p.DeletedAt,
	)
	return p, err
}

// ========== PAYROLLS ==========

func (r *payrollRepository) Create(ctx context.Context, p payroll.Payroll) (payroll.Payroll, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO payrolls (
			tenant_id, employee_id, year, month, currency,
			base_salary, overtime_pay, bonus, allowances, other_earnings,
			work_days, absent_days, overtime_hours, leave_days, holiday_days,
			status, notes
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING ` + payrollColumns

	created, err := scanPayroll(q.QueryRow(ctx, query,
		p.TenantID, p.EmployeeID, p.Year, p.Month, p.Currency,
		p.BaseSalary, p.OvertimePay, p.Bonus, p.Allowances, p.OtherEarnings,
		p.WorkDays, p.AbsentDays, p.OvertimeHours, p.LeaveDays, p.HolidayDays,
		p.Status, p.Notes,
	))
	if err != nil {
		if strings.Contains(err.Error(), "uk_payrolls_employee_period") {
			return payroll.Payroll{}, payroll.ErrPayrollAlreadyExists
		}
		return payroll.Payroll{}, fmt.Errorf("failed to create payroll: %w", err)
	}

	return created, nil
}

func (r *payrollRepository) GetByID(ctx context.Context, id string, tenantID string) (payroll.Payroll, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + payrollColumns + `
		FROM payrolls
		WHERE id = $1 AND tenant_id = $2 AND deleted_at IS NULL`

	p, err := scanPayroll(q.QueryRow(ctx, query, id, tenantID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.Payroll{}, payroll.ErrPayrollNotFound
		}
		return payroll.Payroll{}, fmt.Errorf("failed to get payroll: %w", err)
	}

	return p, nil
}

func (r *payrollRepository) GetByEmployeePeriod(ctx context.Context, tenantID, employeeID string, year, month int) (payroll.Payroll, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + payrollColumns + `
		FROM payrolls
		WHERE tenant_id = $1 AND employee_id = $2 AND year = $3 AND month = $4 AND deleted_at IS NULL`

	p, err := scanPayroll(q.QueryRow(ctx, query, tenantID, employeeID, year, month))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.Payroll{}, payroll.ErrPayrollNotFound
		}
		return payroll.Payroll{}, fmt.Errorf("failed to get payroll by period: %w", err)
	}

	return p, nil
}

func (r *payrollRepository) List(ctx context.Context, tenantID string, filter payroll.PayrollFilter) ([]payroll.Payroll, int64, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{"tenant_id = $1", "deleted_at IS NULL"}
	args := []interface{}{tenantID}
	argIdx := 2

	if filter.Year != nil {
		conditions = append(conditions, fmt.Sprintf("year = $%d", argIdx))
		args = append(args, *filter.Year)
		argIdx++
	}
	if filter.Month != nil {
		conditions = append(conditions, fmt.Sprintf("month = $%d", argIdx))
		args = append(args, *filter.Month)
		argIdx++
	}
	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, *filter.Status)
		argIdx++
	}
	if filter.EmployeeID != nil {
		conditions = append(conditions, fmt.Sprintf("employee_id = $%d", argIdx))
		args = append(args, *filter.EmployeeID)
		argIdx++
	}

	where := strings.Join(conditions, " AND ")

	var totalCount int64
	countQuery := "SELECT COUNT(*) FROM payrolls WHERE " + where
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&totalCount); err != nil {
		return nil, 0, fmt.Errorf("failed to count payrolls: %w", err)
	}

	sortBy := "created_at"
	switch filter.SortBy {
	case "year", "month", "employee_id", "status", "net_salary", "gross_earnings":
		sortBy = filter.SortBy
	}
	sortOrder := "DESC"
	if strings.EqualFold(filter.SortOrder, "asc") {
		sortOrder = "ASC"
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 || limit > 100 {
		limit = 20
	}
	offset := (page - 1) * limit

	query := fmt.Sprintf(`
		SELECT %s
		FROM payrolls
		WHERE %s
		ORDER BY %s %s
		LIMIT $%d OFFSET $%d`, payrollColumns, where, sortBy, sortOrder, argIdx, argIdx+1)
	args = append(args, limit, offset)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list payrolls: %w", err)
	}
	defer rows.Close()

	var payrolls []payroll.Payroll
	for rows.Next() {
		p, err := scanPayroll(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan payroll: %w", err)
		}
		payrolls = append(payrolls, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate payrolls: %w", err)
	}

	return payrolls, totalCount, nil
}

func (r *payrollRepository) UpdateInputs(ctx context.Context, tenantID string, req payroll.UpdatePayrollRequest) error {
	q := GetQuerier(ctx, r.db)

	setClauses := []string{"updated_at = NOW()"}
	args := []interface{}{req.ID, tenantID}
	argIdx := 3

	set := func(column string, value interface{}) {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, argIdx))
		args = append(args, value)
		argIdx++
	}

	if req.BaseSalary != nil {
		set("base_salary", *req.BaseSalary)
	}
	if req.OvertimePay != nil {
		set("overtime_pay", *req.OvertimePay)
	}
	if req.Bonus != nil {
		set("bonus", *req.Bonus)
	}
	if req.Allowances != nil {
		set("allowances", *req.Allowances)
	}
	if req.OtherEarnings != nil {
		set("other_earnings", *req.OtherEarnings)
	}
	if req.WorkDays != nil {
		set("work_days", *req.WorkDays)
	}
	if req.AbsentDays != nil {
		set("absent_days", *req.AbsentDays)
	}
	if req.OvertimeHours != nil {
		set("overtime_hours", *req.OvertimeHours)
	}
	if req.LeaveDays != nil {
		set("leave_days", *req.LeaveDays)
	}
	if req.HolidayDays != nil {
		set("holiday_days", *req.HolidayDays)
	}
	if req.Notes != nil {
		set("notes", *req.Notes)
	}

	query := fmt.Sprintf(`
		UPDATE payrolls
		SET %s
		WHERE id = $1 AND tenant_id = $2 AND deleted_at IS NULL`, strings.Join(setClauses, ", "))

	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update payroll inputs: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return payroll.ErrPayrollNotFound
	}

	return nil
}

func (r *payrollRepository) SaveCalculation(ctx context.Context, p payroll.Payroll) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE payrolls SET
			gross_earnings = $3, tax_base = $4, tax_bracket = $5,
			tax_bracket_rate = $6, effective_tax_rate = $7,
			sgk_base = $8, sgk_ceiling_applied = $9, min_wage_exemption = $10,
			cumulative_gross_earnings = $11, income_tax = $12,
			social_security_employee = $13, social_security_employer = $14,
			unemployment_insurance_employee = $15, unemployment_insurance_employer = $16,
			stamp_tax = $17, other_deductions = $18, total_deductions = $19, net_salary = $20,
			status = $21, calculated_at = $22, calculated_by_id = $23, updated_at = NOW()
		WHERE id = $1 AND tenant_id = $2 AND deleted_at IS NULL`

	tag, err := q.Exec(ctx, query,
		p.ID, p.TenantID,
		p.GrossEarnings, p.TaxBase, p.TaxBracket,
		p.TaxBracketRate, p.EffectiveTaxRate,
		p.SgkBase, p.SgkCeilingApplied, p.MinWageExemption,
		p.CumulativeGrossEarnings, p.IncomeTax,
		p.SocialSecurityEmployee, p.SocialSecurityEmployer,
		p.UnemploymentInsuranceEmployee, p.UnemploymentInsuranceEmployer,
		p.StampTax, p.OtherDeductions, p.TotalDeductions, p.NetSalary,
		p.Status, p.CalculatedAt, p.CalculatedByID,
	)
	if err != nil {
		return fmt.Errorf("failed to save payroll calculation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return payroll.ErrPayrollNotFound
	}

	return nil
}

func (r *payrollRepository) SetStatus(ctx context.Context, tenantID, id string, from, to payroll.PayrollStatus, actorID, paymentReference *string) error {
	q := GetQuerier(ctx, r.db)

	setClauses := []string{"status = $4", "updated_at = NOW()"}
	args := []interface{}{id, tenantID, from, to}
	argIdx := 5

	switch to {
	case payroll.PayrollStatusDraft:
		// Reverting a calculated payroll invalidates its calculation.
		setClauses = append(setClauses, "calculated_at = NULL", "calculated_by_id = NULL")
	case payroll.PayrollStatusApproved:
		setClauses = append(setClauses, "approved_at = NOW()", fmt.Sprintf("approved_by_id = $%d", argIdx))
		args = append(args, actorID)
		argIdx++
	case payroll.PayrollStatusPaid:
		setClauses = append(setClauses, "paid_at = NOW()", fmt.Sprintf("payment_reference = $%d", argIdx))
		args = append(args, paymentReference)
		argIdx++
	}

	query := fmt.Sprintf(`
		UPDATE payrolls
		SET %s
		WHERE id = $1 AND tenant_id = $2 AND status = $3 AND deleted_at IS NULL`, strings.Join(setClauses, ", "))

	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to set payroll status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		// Distinguish a missing payroll from one in the wrong status.
		if _, err := r.GetByID(ctx, id, tenantID); err != nil {
			return err
		}
		return payroll.ErrInvalidStatusTransition
	}

	return nil
}

func (r *payrollRepository) SoftDelete(ctx context.Context, id string, tenantID string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE payrolls
		SET deleted_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND tenant_id = $2 AND deleted_at IS NULL`

	tag, err := q.Exec(ctx, query, id, tenantID)
	if err != nil {
		return fmt.Errorf("failed to delete payroll: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return payroll.ErrPayrollNotFound
	}

	return nil
}

func (r *payrollRepository) Summary(ctx context.Context, tenantID string, year, month int) (payroll.PayrollSummaryResponse, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT
			COUNT(DISTINCT employee_id),
			COALESCE(SUM(gross_earnings) FILTER (WHERE status IN ('calculated', 'approved', 'paid')), 0),
			COALESCE(SUM(income_tax) FILTER (WHERE status IN ('calculated', 'approved', 'paid')), 0),
			COALESCE(SUM(social_security_employee) FILTER (WHERE status IN ('calculated', 'approved', 'paid')), 0),
			COALESCE(SUM(social_security_employer) FILTER (WHERE status IN ('calculated', 'approved', 'paid')), 0),
			COALESCE(SUM(stamp_tax) FILTER (WHERE status IN ('calculated', 'approved', 'paid')), 0),
			COALESCE(SUM(total_deductions) FILTER (WHERE status IN ('calculated', 'approved', 'paid')), 0),
			COALESCE(SUM(net_salary) FILTER (WHERE status IN ('calculated', 'approved', 'paid')), 0),
			COALESCE(SUM(gross_earnings + social_security_employer + unemployment_insurance_employer)
				FILTER (WHERE status IN ('calculated', 'approved', 'paid')), 0),
			COUNT(*) FILTER (WHERE status = 'draft'),
			COUNT(*) FILTER (WHERE status = 'calculated'),
			COUNT(*) FILTER (WHERE status = 'approved'),
			COUNT(*) FILTER (WHERE status = 'paid')
		FROM payrolls
		WHERE tenant_id = $1 AND year = $2 AND month = $3 AND deleted_at IS NULL`

	summary := payroll.PayrollSummaryResponse{Year: year, Month: month}
	err := q.QueryRow(ctx, query, tenantID, year, month).Scan(
		&summary.TotalEmployees,
		&summary.TotalGrossEarnings,
		&summary.TotalIncomeTax,
		&summary.TotalSgkEmployee,
		&summary.TotalSgkEmployer,
		&summary.TotalStampTax,
		&summary.TotalDeductions,
		&summary.TotalNetSalary,
		&summary.TotalEmployerCost,
		&summary.DraftCount,
		&summary.CalculatedCount,
		&summary.ApprovedCount,
		&summary.PaidCount,
	)
	if err != nil {
		return payroll.PayrollSummaryResponse{}, fmt.Errorf("failed to get payroll summary: %w", err)
	}

	return summary, nil
}

// ========== ITEMS ==========

func (r *payrollRepository) AddItem(ctx context.Context, item payroll.PayrollItem) (payroll.PayrollItem, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO payroll_items (
			payroll_id, tenant_id, code, name, item_type, amount,
			quantity, rate, is_taxable, is_recurring, sort_order
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, payroll_id, tenant_id, code, name, item_type, amount,
			quantity, rate, is_taxable, is_recurring, sort_order, created_at`

	var created payroll.PayrollItem
	err := q.QueryRow(ctx, query,
		item.PayrollID, item.TenantID, item.Code, item.Name, item.ItemType, item.Amount,
		item.Quantity, item.Rate, item.IsTaxable, item.IsRecurring, item.SortOrder,
	).Scan(
		&created.ID, &created.PayrollID, &created.TenantID, &created.Code, &created.Name,
		&created.ItemType, &created.Amount, &created.Quantity, &created.Rate,
		&created.IsTaxable, &created.IsRecurring, &created.SortOrder, &created.CreatedAt,
	)
	if err != nil {
		return payroll.PayrollItem{}, fmt.Errorf("failed to add payroll item: %w", err)
	}

	return created, nil
}

func (r *payrollRepository) ListItems(ctx context.Context, payrollID string, tenantID string) ([]payroll.PayrollItem, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, payroll_id, tenant_id, code, name, item_type, amount,
			quantity, rate, is_taxable, is_recurring, sort_order, created_at
		FROM payroll_items
		WHERE payroll_id = $1 AND tenant_id = $2
		ORDER BY sort_order, created_at`

	rows, err := q.Query(ctx, query, payrollID, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payroll items: %w", err)
	}
	defer rows.Close()

	var items []payroll.PayrollItem
	for rows.Next() {
		var item payroll.PayrollItem
		err := rows.Scan(
			&item.ID, &item.PayrollID, &item.TenantID, &item.Code, &item.Name,
			&item.ItemType, &item.Amount, &item.Quantity, &item.Rate,
			&item.IsTaxable, &item.IsRecurring, &item.SortOrder, &item.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payroll item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payroll items: %w", err)
	}

	return items, nil
}

func (r *payrollRepository) RemoveItem(ctx context.Context, id string, payrollID string, tenantID string) error {
	q := GetQuerier(ctx, r.db)

	query := `DELETE FROM payroll_items WHERE id = $1 AND payroll_id = $2 AND tenant_id = $3`

	tag, err := q.Exec(ctx, query, id, payrollID, tenantID)
	if err != nil {
		return fmt.Errorf("failed to remove payroll item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return payroll.ErrPayrollItemNotFound
	}

	return nil
}
