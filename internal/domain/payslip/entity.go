package payslip

import (
	"time"

	"github.com/shopspring/decimal"
)

// ItemType enum
type ItemType string

const (
	ItemTypeEarning   ItemType = "earning"
	ItemTypeDeduction ItemType = "deduction"
)

// PayslipItem - One presentation line on a payslip, ordered by SortOrder.
type PayslipItem struct {
	ID          string
	PayslipID   string
	TenantID    string
	Name        string
	ItemType    ItemType
	Amount      decimal.Decimal
	Quantity    *decimal.Decimal
	Rate        *decimal.Decimal
	Description *string
	SortOrder   int
}

// Payslip - Immutable employee-facing snapshot of a finalized payroll.
// Created once the payroll is approved and never mutated; corrections go
// through a new compensating payroll.
type Payslip struct {
	ID            string
	TenantID      string
	EmployeeID    string
	PayrollID     string
	PayslipNumber string
	Year          int
	Month         int
	Currency      string

	GrossEarnings   decimal.Decimal
	TotalEarnings   decimal.Decimal
	TotalAllowances decimal.Decimal
	TotalDeductions decimal.Decimal

	IncomeTax                     decimal.Decimal
	StampTax                      decimal.Decimal
	SocialSecurityEmployee        decimal.Decimal
	UnemploymentInsuranceEmployee decimal.Decimal
	SocialSecurityEmployer        decimal.Decimal
	UnemploymentInsuranceEmployer decimal.Decimal
	TotalEmployerCost             decimal.Decimal
	NetSalary                     decimal.Decimal

	MinWageExemption        decimal.Decimal
	CumulativeGrossEarnings decimal.Decimal
	CumulativeTaxBase       decimal.Decimal

	WorkDays      int
	AbsentDays    int
	OvertimeHours decimal.Decimal
	LeaveDays     int
	HolidayDays   int

	Items       []PayslipItem
	GeneratedAt time.Time
}
