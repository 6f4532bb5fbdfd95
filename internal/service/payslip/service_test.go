package payslip

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stocker-hr/payroll-backend-go/internal/domain/payroll"
	"github.com/stocker-hr/payroll-backend-go/internal/domain/payslip"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func approvedPayroll() payroll.Payroll {
	return payroll.Payroll{
		ID:         "0d9a2c4e-1b3f-4a5c-8d7e-6f5a4b3c2d1e",
		TenantID:   "t-1",
		EmployeeID: "emp-1",
		Year:       2025,
		Month:      3,
		Currency:   "TRY",

		BaseSalary: dec("50000"),
		Bonus:      dec("10000"),
		Allowances: dec("2000"),
		WorkDays:   22,
		LeaveDays:  1,

		GrossEarnings:                 dec("62000"),
		TaxBase:                       dec("42000"),
		MinWageExemption:              dec("20000"),
		IncomeTax:                     dec("6300"),
		StampTax:                      dec("470.58"),
		SocialSecurityEmployee:        dec("8680"),
		SocialSecurityEmployer:        dec("12710"),
		UnemploymentInsuranceEmployee: dec("620"),
		UnemploymentInsuranceEmployer: dec("1240"),
		TotalDeductions:               dec("16070.58"),
		NetSalary:                     dec("45929.42"),

		Status: payroll.PayrollStatusApproved,
	}
}

func TestAssemble(t *testing.T) {
	p := approvedPayroll()
	state := payroll.CumulativeState{
		TenantID:                "t-1",
		EmployeeID:              "emp-1",
		FiscalYear:              2025,
		CumulativeGrossEarnings: dec("186000"),
		CumulativeTaxBase:       dec("126000"),
		LastProcessedPeriod:     3,
	}

	slip := assemble(p, state, nil)

	assert.Equal(t, p.ID, slip.PayrollID)
	assert.Equal(t, "PS-202503-0D9A2C4E", slip.PayslipNumber)
	assert.Equal(t, 2025, slip.Year)
	assert.Equal(t, 3, slip.Month)
	assert.True(t, slip.GrossEarnings.Equal(dec("62000")))
	assert.True(t, slip.TotalAllowances.Equal(dec("2000")))
	assert.True(t, slip.TotalEarnings.Equal(dec("60000")))
	assert.True(t, slip.NetSalary.Equal(dec("45929.42")))
	assert.True(t, slip.CumulativeGrossEarnings.Equal(dec("186000")))
	assert.True(t, slip.CumulativeTaxBase.Equal(dec("126000")))
	// gross + employer contributions
	assert.True(t, slip.TotalEmployerCost.Equal(dec("75950")), "employer cost %s", slip.TotalEmployerCost)
	assert.False(t, slip.GeneratedAt.IsZero())
}

func TestBuildLines(t *testing.T) {
	p := approvedPayroll()
	items := []payroll.PayrollItem{
		{Name: "Meal allowance", ItemType: payroll.ItemTypeEarning, Amount: dec("2000"), SortOrder: 1},
		{Name: "Garnishment", ItemType: payroll.ItemTypeDeduction, Amount: dec("1000"), SortOrder: 2},
	}

	lines := buildLines(p, items)
	require.NotEmpty(t, lines)

	names := make([]string, 0, len(lines))
	for _, line := range lines {
		names = append(names, line.Name)
	}

	// Fixed earnings first, then item earnings, then deductions. Zero-amount
	// fixed earnings (overtime, other earnings) are skipped.
	assert.Equal(t, []string{
		"Base salary",
		"Bonus",
		"Allowances",
		"Meal allowance",
		"Income tax",
		"Stamp tax",
		"Social security (employee)",
		"Unemployment insurance (employee)",
		"Garnishment",
	}, names)

	for i, line := range lines {
		assert.Equal(t, i, line.SortOrder)
	}

	earnings := decimal.Zero
	deductions := decimal.Zero
	for _, line := range lines {
		switch line.ItemType {
		case payslip.ItemTypeEarning:
			earnings = earnings.Add(line.Amount)
		case payslip.ItemTypeDeduction:
			deductions = deductions.Add(line.Amount)
		}
	}
	assert.True(t, earnings.Equal(dec("64000")))
	assert.True(t, deductions.Equal(dec("17070.58")))
}

func TestPayslipNumber(t *testing.T) {
	p := approvedPayroll()
	assert.Equal(t, "PS-202503-0D9A2C4E", payslipNumber(p))

	p.ID = "abc"
	p.Month = 12
	assert.Equal(t, "PS-202512-ABC", payslipNumber(p))
}

func TestRenderPDF(t *testing.T) {
	p := approvedPayroll()
	state := payroll.CumulativeState{CumulativeGrossEarnings: dec("62000"), CumulativeTaxBase: dec("42000")}
	slip := assemble(p, state, nil)

	data, err := renderPDF(slip)
	require.NoError(t, err)
	assert.True(t, len(data) > 0)
	assert.Equal(t, "%PDF", string(data[:4]))
}
