package payroll

import (
	"github.com/shopspring/decimal"

	"github.com/stocker-hr/payroll-backend-go/internal/domain/payroll"
	"github.com/stocker-hr/payroll-backend-go/internal/domain/tax"
)

// Engine is the pure payroll calculation. It performs no I/O and keeps no
// state: the bracket table and the committed cumulative state are supplied
// by the caller, and every output is returned as a value for the caller to
// persist. Identical inputs always produce identical outputs.
type Engine struct{}

func NewEngine() *Engine {
	return &Engine{}
}

// CalculationInput is everything one period calculation needs.
type CalculationInput struct {
	Table  tax.BracketTable
	State  payroll.CumulativeState
	Period int

	BaseSalary    decimal.Decimal
	OvertimePay   decimal.Decimal
	Bonus         decimal.Decimal
	Allowances    decimal.Decimal
	OtherEarnings decimal.Decimal
	Items         []payroll.PayrollItem

	// DeclaredGross, when set, is a previously persisted gross the fresh
	// calculation must reconcile with. A mismatch means the earning inputs
	// changed after that gross was recorded.
	DeclaredGross *decimal.Decimal
}

// CalculationResult decomposes the computed net salary into auditable
// components, plus the cumulative-state candidate the caller commits when
// the period is finalized.
type CalculationResult struct {
	GrossEarnings decimal.Decimal
	TaxableGross  decimal.Decimal
	Exemption     decimal.Decimal
	TaxBase       decimal.Decimal

	Tax           TaxResult
	Contributions ContributionResult
	StampTax      decimal.Decimal

	OtherDeductions decimal.Decimal
	TotalDeductions decimal.Decimal
	NetSalary       decimal.Decimal

	NextState payroll.CumulativeState
}

// Calculate runs exemption, bracket resolution, contributions and net-pay
// composition for one period. A validation or reconciliation failure aborts
// the whole calculation; partial results are never returned.
func (e *Engine) Calculate(in CalculationInput) (CalculationResult, error) {
	if err := in.Table.Validate(); err != nil {
		return CalculationResult{}, err
	}

	fixedEarnings := in.BaseSalary.
		Add(in.OvertimePay).
		Add(in.Bonus).
		Add(in.Allowances).
		Add(in.OtherEarnings)

	itemEarnings := decimal.Zero
	taxableItemEarnings := decimal.Zero
	itemDeductions := decimal.Zero
	for _, item := range in.Items {
		switch item.ItemType {
		case payroll.ItemTypeEarning:
			itemEarnings = itemEarnings.Add(item.Amount)
			if item.IsTaxable {
				taxableItemEarnings = taxableItemEarnings.Add(item.Amount)
			}
		case payroll.ItemTypeDeduction:
			itemDeductions = itemDeductions.Add(item.Amount)
		}
	}

	grossEarnings := fixedEarnings.Add(itemEarnings)
	// Fixed earnings are always taxable; items opt in per line.
	taxableGross := fixedEarnings.Add(taxableItemEarnings)

	exemption := computeExemption(taxableGross, in.Table.MinWageExemption)
	taxBase := taxableGross.Sub(exemption)

	taxRes, err := resolveTax(in.State.CumulativeTaxBase, taxBase, in.Table)
	if err != nil {
		return CalculationResult{}, err
	}

	contrib, err := computeContributions(grossEarnings, in.Table)
	if err != nil {
		return CalculationResult{}, err
	}

	stampTax := grossEarnings.Mul(in.Table.StampTaxRate).Round(2)

	declaredGross := grossEarnings
	if in.DeclaredGross != nil {
		declaredGross = *in.DeclaredGross
	}

	totals, err := composeNetPay(grossEarnings, declaredGross, taxRes, contrib, stampTax, itemDeductions)
	if err != nil {
		return CalculationResult{}, err
	}

	next, err := nextState(in.State, in.Period, grossEarnings, taxBase, taxRes.TaxOwed)
	if err != nil {
		return CalculationResult{}, err
	}

	return CalculationResult{
		GrossEarnings:   grossEarnings,
		TaxableGross:    taxableGross,
		Exemption:       exemption,
		TaxBase:         taxBase,
		Tax:             taxRes,
		Contributions:   contrib,
		StampTax:        stampTax,
		OtherDeductions: itemDeductions,
		TotalDeductions: totals.TotalDeductions,
		NetSalary:       totals.NetSalary,
		NextState:       next,
	}, nil
}

// verifyCalculation re-runs the engine for a calculated payroll against its
// current item set and checks the persisted figures still hold. Items added
// or removed after the calculation make the stored totals stale; committing
// them would understate or overstate the cumulative state, so the mismatch
// is rejected with ErrInconsistentTotals. On success the fresh
// cumulative-state candidate is returned for the caller to commit.
func verifyCalculation(e *Engine, table tax.BracketTable, state payroll.CumulativeState, p payroll.Payroll, items []payroll.PayrollItem) (payroll.CumulativeState, error) {
	result, err := e.Calculate(CalculationInput{
		Table:         table,
		State:         state,
		Period:        p.Month,
		BaseSalary:    p.BaseSalary,
		OvertimePay:   p.OvertimePay,
		Bonus:         p.Bonus,
		Allowances:    p.Allowances,
		OtherEarnings: p.OtherEarnings,
		Items:         items,
		DeclaredGross: &p.GrossEarnings,
	})
	if err != nil {
		return payroll.CumulativeState{}, err
	}

	if !result.Tax.TaxOwed.Equal(p.IncomeTax) ||
		!result.TotalDeductions.Equal(p.TotalDeductions) ||
		!result.NetSalary.Equal(p.NetSalary) {
		return payroll.CumulativeState{}, payroll.ErrInconsistentTotals
	}

	return result.NextState, nil
}
