package payroll

import (
	"github.com/shopspring/decimal"

	"github.com/stocker-hr/payroll-backend-go/internal/pkg/validator"
)

// ========== PAYROLL DTOs ==========

type CreatePayrollRequest struct {
	EmployeeID    string           `json:"employee_id"`
	Year          int              `json:"year"`
	Month         int              `json:"month"`
	Currency      string           `json:"currency"`
	BaseSalary    decimal.Decimal  `json:"base_salary"`
	OvertimePay   decimal.Decimal  `json:"overtime_pay"`
	Bonus         decimal.Decimal  `json:"bonus"`
	Allowances    decimal.Decimal  `json:"allowances"`
	OtherEarnings decimal.Decimal  `json:"other_earnings"`
	WorkDays      int              `json:"work_days"`
	AbsentDays    int              `json:"absent_days"`
	OvertimeHours *decimal.Decimal `json:"overtime_hours,omitempty"`
	LeaveDays     int              `json:"leave_days"`
	HolidayDays   int              `json:"holiday_days"`
	Notes         *string          `json:"notes,omitempty"`
}

func (r *CreatePayrollRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "is required"})
	}
	if !validator.IsValidPeriod(r.Month, r.Year) {
		errs = append(errs, validator.ValidationError{Field: "month", Message: "must be a valid period (month 1-12, year 2020+)"})
	}
	if r.Currency != "" && !validator.IsValidCurrency(r.Currency) {
		errs = append(errs, validator.ValidationError{Field: "currency", Message: "must be a 3-letter currency code"})
	}
	for _, f := range []struct {
		name  string
		value decimal.Decimal
	}{
		{"base_salary", r.BaseSalary},
		{"overtime_pay", r.OvertimePay},
		{"bonus", r.Bonus},
		{"allowances", r.Allowances},
		{"other_earnings", r.OtherEarnings},
	} {
		if f.value.IsNegative() {
			errs = append(errs, validator.ValidationError{Field: f.name, Message: "must be non-negative"})
		}
	}
	if r.WorkDays < 0 || r.AbsentDays < 0 || r.LeaveDays < 0 || r.HolidayDays < 0 {
		errs = append(errs, validator.ValidationError{Field: "work_days", Message: "day counts must be non-negative"})
	}
	if r.OvertimeHours != nil && r.OvertimeHours.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "overtime_hours", Message: "must be non-negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdatePayrollRequest struct {
	ID            string
	BaseSalary    *decimal.Decimal `json:"base_salary,omitempty"`
	OvertimePay   *decimal.Decimal `json:"overtime_pay,omitempty"`
	Bonus         *decimal.Decimal `json:"bonus,omitempty"`
	Allowances    *decimal.Decimal `json:"allowances,omitempty"`
	OtherEarnings *decimal.Decimal `json:"other_earnings,omitempty"`
	WorkDays      *int             `json:"work_days,omitempty"`
	AbsentDays    *int             `json:"absent_days,omitempty"`
	OvertimeHours *decimal.Decimal `json:"overtime_hours,omitempty"`
	LeaveDays     *int             `json:"leave_days,omitempty"`
	HolidayDays   *int             `json:"holiday_days,omitempty"`
	Notes         *string          `json:"notes,omitempty"`
}

func (r *UpdatePayrollRequest) Validate() error {
	var errs validator.ValidationErrors

	for _, f := range []struct {
		name  string
		value *decimal.Decimal
	}{
		{"base_salary", r.BaseSalary},
		{"overtime_pay", r.OvertimePay},
		{"bonus", r.Bonus},
		{"allowances", r.Allowances},
		{"other_earnings", r.OtherEarnings},
		{"overtime_hours", r.OvertimeHours},
	} {
		if f.value != nil && f.value.IsNegative() {
			errs = append(errs, validator.ValidationError{Field: f.name, Message: "must be non-negative"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type PayPayrollRequest struct {
	ID               string
	PaymentReference *string `json:"payment_reference,omitempty"`
}

// ========== ITEM DTOs ==========

type AddPayrollItemRequest struct {
	PayrollID   string           `json:"-"`
	Code        string           `json:"code"`
	Name        string           `json:"name"`
	ItemType    string           `json:"item_type"` // "earning" or "deduction"
	Amount      decimal.Decimal  `json:"amount"`
	Quantity    *decimal.Decimal `json:"quantity,omitempty"`
	Rate        *decimal.Decimal `json:"rate,omitempty"`
	IsTaxable   *bool            `json:"is_taxable,omitempty"`
	IsRecurring *bool            `json:"is_recurring,omitempty"`
	SortOrder   int              `json:"sort_order"`
}

func (r *AddPayrollItemRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Code) {
		errs = append(errs, validator.ValidationError{Field: "code", Message: "is required"})
	}
	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "is required"})
	}
	if r.ItemType != string(ItemTypeEarning) && r.ItemType != string(ItemTypeDeduction) {
		errs = append(errs, validator.ValidationError{Field: "item_type", Message: "must be 'earning' or 'deduction'"})
	}
	if r.Amount.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "amount", Message: "must be non-negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type PayrollItemResponse struct {
	ID          string           `json:"id"`
	PayrollID   string           `json:"payroll_id"`
	Code        string           `json:"code"`
	Name        string           `json:"name"`
	ItemType    string           `json:"item_type"`
	Amount      decimal.Decimal  `json:"amount"`
	Quantity    *decimal.Decimal `json:"quantity,omitempty"`
	Rate        *decimal.Decimal `json:"rate,omitempty"`
	IsTaxable   bool             `json:"is_taxable"`
	IsRecurring bool             `json:"is_recurring"`
	SortOrder   int              `json:"sort_order"`
}

// ========== RESPONSES ==========

type PayrollResponse struct {
	ID         string `json:"id"`
	EmployeeID string `json:"employee_id"`
	Year       int    `json:"year"`
	Month      int    `json:"month"`
	Currency   string `json:"currency"`

	BaseSalary    decimal.Decimal `json:"base_salary"`
	OvertimePay   decimal.Decimal `json:"overtime_pay"`
	Bonus         decimal.Decimal `json:"bonus"`
	Allowances    decimal.Decimal `json:"allowances"`
	OtherEarnings decimal.Decimal `json:"other_earnings"`
	WorkDays      int             `json:"work_days"`
	AbsentDays    int             `json:"absent_days"`
	OvertimeHours decimal.Decimal `json:"overtime_hours"`
	LeaveDays     int             `json:"leave_days"`
	HolidayDays   int             `json:"holiday_days"`

	GrossEarnings                 decimal.Decimal `json:"gross_earnings"`
	TaxBase                       decimal.Decimal `json:"tax_base"`
	TaxBracket                    int             `json:"tax_bracket"`
	TaxBracketRate                decimal.Decimal `json:"tax_bracket_rate"`
	EffectiveTaxRate              decimal.Decimal `json:"effective_tax_rate"`
	SgkBase                       decimal.Decimal `json:"sgk_base"`
	SgkCeilingApplied             bool            `json:"sgk_ceiling_applied"`
	MinWageExemption              decimal.Decimal `json:"min_wage_exemption"`
	CumulativeGrossEarnings       decimal.Decimal `json:"cumulative_gross_earnings"`
	IncomeTax                     decimal.Decimal `json:"income_tax"`
	SocialSecurityEmployee        decimal.Decimal `json:"social_security_employee"`
	SocialSecurityEmployer        decimal.Decimal `json:"social_security_employer"`
	UnemploymentInsuranceEmployee decimal.Decimal `json:"unemployment_insurance_employee"`
	UnemploymentInsuranceEmployer decimal.Decimal `json:"unemployment_insurance_employer"`
	StampTax                      decimal.Decimal `json:"stamp_tax"`
	OtherDeductions               decimal.Decimal `json:"other_deductions"`
	TotalDeductions               decimal.Decimal `json:"total_deductions"`
	NetSalary                     decimal.Decimal `json:"net_salary"`

	Status           string  `json:"status"`
	CalculatedAt     *string `json:"calculated_at,omitempty"`
	ApprovedAt       *string `json:"approved_at,omitempty"`
	PaidAt           *string `json:"paid_at,omitempty"`
	PaymentReference *string `json:"payment_reference,omitempty"`
	Notes            *string `json:"notes,omitempty"`
}

type PayrollFilter struct {
	Year       *int    `json:"year,omitempty"`
	Month      *int    `json:"month,omitempty"`
	Status     *string `json:"status,omitempty"`
	EmployeeID *string `json:"employee_id,omitempty"`
	Page       int     `json:"page"`
	Limit      int     `json:"limit"`
	SortBy     string  `json:"sort_by"`
	SortOrder  string  `json:"sort_order"`
}

type ListPayrollResponse struct {
	Data       []PayrollResponse `json:"data"`
	TotalCount int64             `json:"total_count"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
}

type CumulativeStateResponse struct {
	EmployeeID              string          `json:"employee_id"`
	FiscalYear              int             `json:"fiscal_year"`
	CumulativeGrossEarnings decimal.Decimal `json:"cumulative_gross_earnings"`
	CumulativeTaxBase       decimal.Decimal `json:"cumulative_tax_base"`
	CumulativeTaxPaid       decimal.Decimal `json:"cumulative_tax_paid"`
	LastProcessedPeriod     int             `json:"last_processed_period"`
}

type PayrollSummaryResponse struct {
	Year                 int             `json:"year"`
	Month                int             `json:"month"`
	TotalEmployees       int             `json:"total_employees"`
	TotalGrossEarnings   decimal.Decimal `json:"total_gross_earnings"`
	TotalIncomeTax       decimal.Decimal `json:"total_income_tax"`
	TotalSgkEmployee     decimal.Decimal `json:"total_sgk_employee"`
	TotalSgkEmployer     decimal.Decimal `json:"total_sgk_employer"`
	TotalStampTax        decimal.Decimal `json:"total_stamp_tax"`
	TotalDeductions      decimal.Decimal `json:"total_deductions"`
	TotalNetSalary       decimal.Decimal `json:"total_net_salary"`
	TotalEmployerCost    decimal.Decimal `json:"total_employer_cost"`
	DraftCount           int             `json:"draft_count"`
	CalculatedCount      int             `json:"calculated_count"`
	ApprovedCount        int             `json:"approved_count"`
	PaidCount            int             `json:"paid_count"`
}
