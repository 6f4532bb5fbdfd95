package payslip

import "github.com/shopspring/decimal"

type PayslipItemResponse struct {
	Name        string           `json:"name"`
	ItemType    string           `json:"item_type"`
	Amount      decimal.Decimal  `json:"amount"`
	Quantity    *decimal.Decimal `json:"quantity,omitempty"`
	Rate        *decimal.Decimal `json:"rate,omitempty"`
	Description *string          `json:"description,omitempty"`
	SortOrder   int              `json:"sort_order"`
}

type PayslipResponse struct {
	ID            string `json:"id"`
	EmployeeID    string `json:"employee_id"`
	PayrollID     string `json:"payroll_id"`
	PayslipNumber string `json:"payslip_number"`
	Year          int    `json:"year"`
	Month         int    `json:"month"`
	Currency      string `json:"currency"`

	GrossEarnings   decimal.Decimal `json:"gross_earnings"`
	TotalEarnings   decimal.Decimal `json:"total_earnings"`
	TotalAllowances decimal.Decimal `json:"total_allowances"`
	TotalDeductions decimal.Decimal `json:"total_deductions"`

	IncomeTax                     decimal.Decimal `json:"income_tax"`
	StampTax                      decimal.Decimal `json:"stamp_tax"`
	SocialSecurityEmployee        decimal.Decimal `json:"social_security_employee"`
	UnemploymentInsuranceEmployee decimal.Decimal `json:"unemployment_insurance_employee"`
	TotalEmployerCost             decimal.Decimal `json:"total_employer_cost"`
	NetSalary                     decimal.Decimal `json:"net_salary"`

	MinWageExemption        decimal.Decimal `json:"min_wage_exemption"`
	CumulativeGrossEarnings decimal.Decimal `json:"cumulative_gross_earnings"`

	WorkDays      int             `json:"work_days"`
	AbsentDays    int             `json:"absent_days"`
	OvertimeHours decimal.Decimal `json:"overtime_hours"`
	LeaveDays     int             `json:"leave_days"`
	HolidayDays   int             `json:"holiday_days"`

	Items       []PayslipItemResponse `json:"items"`
	GeneratedAt string                `json:"generated_at"`
}
