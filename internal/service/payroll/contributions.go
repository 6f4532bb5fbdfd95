package payroll

import (
	"github.com/shopspring/decimal"

	"github.com/stocker-hr/payroll-backend-go/internal/domain/tax"
)

// ContributionResult carries the SGK-style contribution base and the
// employee/employer amounts derived from it.
type ContributionResult struct {
	SgkBase              decimal.Decimal
	CeilingApplied       bool
	SgkEmployee          decimal.Decimal
	SgkEmployer          decimal.Decimal
	UnemploymentEmployee decimal.Decimal
	UnemploymentEmployer decimal.Decimal
}

// computeSgkBase clamps gross earnings between the contribution floor and
// ceiling. CeilingApplied reports whether the cap cut the base.
func computeSgkBase(grossEarnings, floor, ceiling decimal.Decimal) (decimal.Decimal, bool, error) {
	if floor.GreaterThan(ceiling) {
		return decimal.Zero, false, tax.ErrFloorAboveCeiling
	}
	if grossEarnings.GreaterThan(ceiling) {
		return ceiling, true, nil
	}
	if grossEarnings.LessThan(floor) {
		return floor, false, nil
	}
	return grossEarnings, false, nil
}

// computeContributions derives the employee- and employer-side contribution
// amounts from the capped base and the table's fixed rates.
func computeContributions(grossEarnings decimal.Decimal, table tax.BracketTable) (ContributionResult, error) {
	base, ceilingApplied, err := computeSgkBase(grossEarnings, table.SgkFloor, table.SgkCeiling)
	if err != nil {
		return ContributionResult{}, err
	}

	return ContributionResult{
		SgkBase:              base,
		CeilingApplied:       ceilingApplied,
		SgkEmployee:          base.Mul(table.SgkEmployeeRate).Round(2),
		SgkEmployer:          base.Mul(table.SgkEmployerRate).Round(2),
		UnemploymentEmployee: base.Mul(table.UnemploymentEmployeeRate).Round(2),
		UnemploymentEmployer: base.Mul(table.UnemploymentEmployerRate).Round(2),
	}, nil
}
