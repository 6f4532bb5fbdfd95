package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// PayrollStatus enum
type PayrollStatus string

const (
	PayrollStatusDraft      PayrollStatus = "draft"
	PayrollStatusCalculated PayrollStatus = "calculated"
	PayrollStatusApproved   PayrollStatus = "approved"
	PayrollStatusPaid       PayrollStatus = "paid"
	PayrollStatusCancelled  PayrollStatus = "cancelled"
)

// CanTransition reports whether the lifecycle allows moving to target.
// Draft -> Calculated -> Approved -> Paid; Calculated may be recomputed, or
// reverted to Draft when its inputs change; any status except Paid may be
// cancelled.
func (s PayrollStatus) CanTransition(target PayrollStatus) bool {
	if target == PayrollStatusCancelled {
		return s != PayrollStatusPaid && s != PayrollStatusCancelled
	}
	switch s {
	case PayrollStatusDraft:
		return target == PayrollStatusCalculated
	case PayrollStatusCalculated:
		return target == PayrollStatusDraft || target == PayrollStatusCalculated || target == PayrollStatusApproved
	case PayrollStatusApproved:
		return target == PayrollStatusPaid
	default:
		return false
	}
}

// ItemType enum
type ItemType string

const (
	ItemTypeEarning   ItemType = "earning"
	ItemTypeDeduction ItemType = "deduction"
)

// PayrollItem - Additional earning or deduction line attached to a payroll.
// Taxable earning items feed the period tax base; all items reconcile into
// the payroll gross/net totals.
type PayrollItem struct {
	ID          string
	PayrollID   string
	TenantID    string
	Code        string
	Name        string
	ItemType    ItemType
	Amount      decimal.Decimal
	Quantity    *decimal.Decimal
	Rate        *decimal.Decimal
	IsTaxable   bool
	IsRecurring bool
	SortOrder   int
	CreatedAt   time.Time
}

// Payroll - One employee's payroll for one period. Inputs are captured at
// Draft; computed fields are written by a successful calculation, and the
// CalculatedAt marker is cleared when an item mutation reverts the payroll
// to Draft. Soft-deletable.
type Payroll struct {
	ID         string
	TenantID   string
	EmployeeID string
	Year       int
	Month      int
	Currency   string

	// Inputs
	BaseSalary    decimal.Decimal
	OvertimePay   decimal.Decimal
	Bonus         decimal.Decimal
	Allowances    decimal.Decimal
	OtherEarnings decimal.Decimal
	WorkDays      int
	AbsentDays    int
	OvertimeHours decimal.Decimal
	LeaveDays     int
	HolidayDays   int

	// Computed outputs
	GrossEarnings                 decimal.Decimal
	TaxBase                       decimal.Decimal
	TaxBracket                    int
	TaxBracketRate                decimal.Decimal
	EffectiveTaxRate              decimal.Decimal
	SgkBase                       decimal.Decimal
	SgkCeilingApplied             bool
	MinWageExemption              decimal.Decimal
	CumulativeGrossEarnings       decimal.Decimal
	IncomeTax                     decimal.Decimal
	SocialSecurityEmployee        decimal.Decimal
	SocialSecurityEmployer        decimal.Decimal
	UnemploymentInsuranceEmployee decimal.Decimal
	UnemploymentInsuranceEmployer decimal.Decimal
	StampTax                      decimal.Decimal
	OtherDeductions               decimal.Decimal
	TotalDeductions               decimal.Decimal
	NetSalary                     decimal.Decimal

	Status           PayrollStatus
	CalculatedAt     *time.Time
	CalculatedByID   *string
	ApprovedAt       *time.Time
	ApprovedByID     *string
	PaidAt           *time.Time
	PaymentReference *string
	Notes            *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
	DeletedAt        *time.Time
}

// EmployerCost is the total the employer pays beyond the net salary
// deductions already withheld from the employee.
func (p Payroll) EmployerCost() decimal.Decimal {
	return p.GrossEarnings.
		Add(p.SocialSecurityEmployer).
		Add(p.UnemploymentInsuranceEmployer)
}

// CumulativeState - Running fiscal-year totals for one employee. One row per
// (tenant, employee, fiscal year); advanced only by committing a period in
// strictly increasing order. Version backs the optimistic concurrency check.
type CumulativeState struct {
	TenantID                string
	EmployeeID              string
	FiscalYear              int
	CumulativeGrossEarnings decimal.Decimal
	CumulativeTaxBase       decimal.Decimal
	CumulativeTaxPaid       decimal.Decimal
	LastProcessedPeriod     int
	Version                 int64
	UpdatedAt               time.Time
}

// ZeroState is the starting point for an employee's first period of a fiscal
// year. Nothing carries over across fiscal years.
func ZeroState(tenantID, employeeID string, fiscalYear int) CumulativeState {
	return CumulativeState{
		TenantID:                tenantID,
		EmployeeID:              employeeID,
		FiscalYear:              fiscalYear,
		CumulativeGrossEarnings: decimal.Zero,
		CumulativeTaxBase:       decimal.Zero,
		CumulativeTaxPaid:       decimal.Zero,
		LastProcessedPeriod:     0,
	}
}
