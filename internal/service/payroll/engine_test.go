package payroll

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stocker-hr/payroll-backend-go/internal/domain/payroll"
	"github.com/stocker-hr/payroll-backend-go/internal/domain/tax"
)

func engineTable() tax.BracketTable {
	return tax.BracketTable{
		TenantID:   "t-1",
		FiscalYear: 2025,
		Brackets: []tax.Bracket{
			{LowerBound: dec("0"), UpperBound: decP("110000"), Rate: dec("0.15")},
			{LowerBound: dec("110000"), UpperBound: decP("230000"), Rate: dec("0.20")},
			{LowerBound: dec("230000"), UpperBound: nil, Rate: dec("0.27")},
		},
		SgkFloor:                 dec("20000"),
		SgkCeiling:               dec("150000"),
		SgkEmployeeRate:          dec("0.14"),
		SgkEmployerRate:          dec("0.205"),
		UnemploymentEmployeeRate: dec("0.01"),
		UnemploymentEmployerRate: dec("0.02"),
		StampTaxRate:             dec("0.00759"),
		MinWageExemption:         dec("20000"),
		Currency:                 "TRY",
	}
}

func TestEngine_Calculate_Golden(t *testing.T) {
	engine := NewEngine()

	in := CalculationInput{
		Table:      engineTable(),
		State:      payroll.ZeroState("t-1", "emp-1", 2025),
		Period:     1,
		BaseSalary: dec("50000"),
		Bonus:      dec("10000"),
		Items: []payroll.PayrollItem{
			{Code: "MEAL", Name: "Meal allowance", ItemType: payroll.ItemTypeEarning, Amount: dec("2000"), IsTaxable: true},
			{Code: "GARN", Name: "Garnishment", ItemType: payroll.ItemTypeDeduction, Amount: dec("1000")},
		},
	}

	res, err := engine.Calculate(in)
	require.NoError(t, err)

	assert.True(t, res.GrossEarnings.Equal(dec("62000")), "gross %s", res.GrossEarnings)
	assert.True(t, res.Exemption.Equal(dec("20000")))
	assert.True(t, res.TaxBase.Equal(dec("42000")))
	assert.True(t, res.Tax.TaxOwed.Equal(dec("6300")), "tax %s", res.Tax.TaxOwed)
	assert.Equal(t, 0, res.Tax.BracketIndex)
	assert.True(t, res.Contributions.SgkBase.Equal(dec("62000")))
	assert.False(t, res.Contributions.CeilingApplied)
	assert.True(t, res.Contributions.SgkEmployee.Equal(dec("8680")))
	assert.True(t, res.Contributions.SgkEmployer.Equal(dec("12710")))
	assert.True(t, res.Contributions.UnemploymentEmployee.Equal(dec("620")))
	assert.True(t, res.Contributions.UnemploymentEmployer.Equal(dec("1240")))
	assert.True(t, res.StampTax.Equal(dec("470.58")), "stamp %s", res.StampTax)
	assert.True(t, res.OtherDeductions.Equal(dec("1000")))

	// 6300 + 470.58 + 8680 + 620 + 1000 = 17070.58
	assert.True(t, res.TotalDeductions.Equal(dec("17070.58")), "deductions %s", res.TotalDeductions)
	assert.True(t, res.NetSalary.Equal(dec("44929.42")), "net %s", res.NetSalary)

	assert.True(t, res.NextState.CumulativeGrossEarnings.Equal(dec("62000")))
	assert.True(t, res.NextState.CumulativeTaxBase.Equal(dec("42000")))
	assert.True(t, res.NextState.CumulativeTaxPaid.Equal(dec("6300")))
	assert.Equal(t, 1, res.NextState.LastProcessedPeriod)
}

func TestEngine_Calculate_Deterministic(t *testing.T) {
	engine := NewEngine()
	in := CalculationInput{
		Table:      engineTable(),
		State:      payroll.ZeroState("t-1", "emp-1", 2025),
		Period:     1,
		BaseSalary: dec("33333.33"),
	}

	first, err := engine.Calculate(in)
	require.NoError(t, err)
	second, err := engine.Calculate(in)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestEngine_Calculate_NonTaxableItemExcludedFromBase(t *testing.T) {
	engine := NewEngine()
	in := CalculationInput{
		Table:      engineTable(),
		State:      payroll.ZeroState("t-1", "emp-1", 2025),
		Period:     1,
		BaseSalary: dec("20000"),
		Items: []payroll.PayrollItem{
			{Code: "EXP", Name: "Expense reimbursement", ItemType: payroll.ItemTypeEarning, Amount: dec("5000"), IsTaxable: false},
		},
	}

	res, err := engine.Calculate(in)
	require.NoError(t, err)

	assert.True(t, res.GrossEarnings.Equal(dec("25000")))
	assert.True(t, res.TaxableGross.Equal(dec("20000")))
	// Taxable gross is fully covered by the minimum-wage exemption.
	assert.True(t, res.TaxBase.IsZero())
	assert.True(t, res.Tax.TaxOwed.IsZero())
	assert.True(t, res.Tax.EffectiveRate.IsZero())
}

func TestEngine_Calculate_CumulativeBracketProgression(t *testing.T) {
	engine := NewEngine()
	table := engineTable()

	state := payroll.ZeroState("t-1", "emp-1", 2025)
	var lastBracket int
	// Twelve identical months push the cumulative base through the table.
	for month := 1; month <= 12; month++ {
		res, err := engine.Calculate(CalculationInput{
			Table:      table,
			State:      state,
			Period:     month,
			BaseSalary: dec("60000"),
		})
		require.NoError(t, err)
		state = res.NextState
		lastBracket = res.Tax.BracketIndex
	}

	// 12 * (60000 - 20000) = 480000 cumulative base ends in the top bracket.
	assert.True(t, state.CumulativeTaxBase.Equal(dec("480000")))
	assert.Equal(t, 2, lastBracket)
	assert.Equal(t, 12, state.LastProcessedPeriod)
}

func TestEngine_Calculate_DuplicatePeriod(t *testing.T) {
	engine := NewEngine()
	state := payroll.ZeroState("t-1", "emp-1", 2025)
	state.LastProcessedPeriod = 5

	_, err := engine.Calculate(CalculationInput{
		Table:      engineTable(),
		State:      state,
		Period:     3,
		BaseSalary: dec("50000"),
	})
	assert.ErrorIs(t, err, payroll.ErrDuplicatePeriod)
}

func TestEngine_Calculate_InvalidTable(t *testing.T) {
	engine := NewEngine()
	table := engineTable()
	table.Brackets[1].LowerBound = dec("120000") // gap

	_, err := engine.Calculate(CalculationInput{
		Table:      table,
		State:      payroll.ZeroState("t-1", "emp-1", 2025),
		Period:     1,
		BaseSalary: dec("50000"),
	})
	assert.ErrorIs(t, err, tax.ErrInvalidBracketTable)
}

// calculatedPayroll runs the engine once and stores the results the way
// Calculate persists them, so the verification tests start from a real
// calculated payroll.
func calculatedPayroll(t *testing.T, engine *Engine, items []payroll.PayrollItem) payroll.Payroll {
	t.Helper()

	p := payroll.Payroll{
		TenantID:   "t-1",
		EmployeeID: "emp-1",
		Year:       2025,
		Month:      1,
		BaseSalary: dec("50000"),
		Status:     payroll.PayrollStatusCalculated,
	}

	res, err := engine.Calculate(CalculationInput{
		Table:      engineTable(),
		State:      payroll.ZeroState("t-1", "emp-1", 2025),
		Period:     p.Month,
		BaseSalary: p.BaseSalary,
		Items:      items,
	})
	require.NoError(t, err)

	p.GrossEarnings = res.GrossEarnings
	p.TaxBase = res.TaxBase
	p.IncomeTax = res.Tax.TaxOwed
	p.TotalDeductions = res.TotalDeductions
	p.NetSalary = res.NetSalary
	return p
}

func TestVerifyCalculation_UnchangedItems(t *testing.T) {
	engine := NewEngine()
	items := []payroll.PayrollItem{
		{Code: "MEAL", Name: "Meal allowance", ItemType: payroll.ItemTypeEarning, Amount: dec("2000"), IsTaxable: true},
	}
	p := calculatedPayroll(t, engine, items)

	next, err := verifyCalculation(engine, engineTable(), payroll.ZeroState("t-1", "emp-1", 2025), p, items)
	require.NoError(t, err)

	assert.True(t, next.CumulativeGrossEarnings.Equal(dec("52000")), "cumulative gross %s", next.CumulativeGrossEarnings)
	assert.True(t, next.CumulativeGrossEarnings.Equal(p.GrossEarnings))
	assert.Equal(t, 1, next.LastProcessedPeriod)
}

func TestVerifyCalculation_ItemAddedAfterCalculation(t *testing.T) {
	engine := NewEngine()
	items := []payroll.PayrollItem{
		{Code: "MEAL", Name: "Meal allowance", ItemType: payroll.ItemTypeEarning, Amount: dec("2000"), IsTaxable: true},
	}
	p := calculatedPayroll(t, engine, items)

	// The stored gross of 52000 no longer covers the 10000 bonus item, so
	// committing would understate the cumulative state by exactly that item.
	items = append(items, payroll.PayrollItem{
		Code: "BON", Name: "Spot bonus", ItemType: payroll.ItemTypeEarning, Amount: dec("10000"), IsTaxable: true,
	})

	_, err := verifyCalculation(engine, engineTable(), payroll.ZeroState("t-1", "emp-1", 2025), p, items)
	assert.ErrorIs(t, err, payroll.ErrInconsistentTotals)
}

func TestVerifyCalculation_ItemRemovedAfterCalculation(t *testing.T) {
	engine := NewEngine()
	items := []payroll.PayrollItem{
		{Code: "MEAL", Name: "Meal allowance", ItemType: payroll.ItemTypeEarning, Amount: dec("2000"), IsTaxable: true},
	}
	p := calculatedPayroll(t, engine, items)

	_, err := verifyCalculation(engine, engineTable(), payroll.ZeroState("t-1", "emp-1", 2025), p, nil)
	assert.ErrorIs(t, err, payroll.ErrInconsistentTotals)
}

func TestVerifyCalculation_DeductionChangedAfterCalculation(t *testing.T) {
	engine := NewEngine()
	items := []payroll.PayrollItem{
		{Code: "GARN", Name: "Garnishment", ItemType: payroll.ItemTypeDeduction, Amount: dec("1000")},
	}
	p := calculatedPayroll(t, engine, items)

	// A deduction change leaves the gross intact but shifts the net.
	items[0].Amount = dec("3000")

	_, err := verifyCalculation(engine, engineTable(), payroll.ZeroState("t-1", "emp-1", 2025), p, items)
	assert.ErrorIs(t, err, payroll.ErrInconsistentTotals)
}

func TestEngine_Calculate_SgkCeilingApplied(t *testing.T) {
	engine := NewEngine()

	res, err := engine.Calculate(CalculationInput{
		Table:      engineTable(),
		State:      payroll.ZeroState("t-1", "emp-1", 2025),
		Period:     1,
		BaseSalary: dec("200000"),
	})
	require.NoError(t, err)

	assert.True(t, res.Contributions.SgkBase.Equal(dec("150000")))
	assert.True(t, res.Contributions.CeilingApplied)
	// Income tax still computed from the uncapped taxable base.
	assert.True(t, res.TaxBase.Equal(dec("180000")))
}
