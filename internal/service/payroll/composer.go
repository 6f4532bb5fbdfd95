package payroll

import (
	"github.com/shopspring/decimal"

	"github.com/stocker-hr/payroll-backend-go/internal/domain/payroll"
)

// PayrollTotals is the composed bottom line of a period calculation.
type PayrollTotals struct {
	GrossEarnings   decimal.Decimal
	TotalDeductions decimal.Decimal
	NetSalary       decimal.Decimal
}

// composeNetPay combines the computed components into the final totals.
// declaredEarnings is the earning total the caller asserts, either the sum
// of the declared earning components or a previously persisted gross; a
// gross that does not reconcile with it is rejected, never clamped.
func composeNetPay(grossEarnings, declaredEarnings decimal.Decimal, taxRes TaxResult, contrib ContributionResult, stampTax, otherDeductions decimal.Decimal) (PayrollTotals, error) {
	for _, v := range []decimal.Decimal{
		grossEarnings,
		taxRes.TaxOwed,
		stampTax,
		contrib.SgkEmployee,
		contrib.UnemploymentEmployee,
		otherDeductions,
	} {
		if v.IsNegative() {
			return PayrollTotals{}, payroll.ErrInconsistentTotals
		}
	}
	if !grossEarnings.Equal(declaredEarnings) {
		return PayrollTotals{}, payroll.ErrInconsistentTotals
	}

	totalDeductions := taxRes.TaxOwed.
		Add(stampTax).
		Add(contrib.SgkEmployee).
		Add(contrib.UnemploymentEmployee).
		Add(otherDeductions)

	return PayrollTotals{
		GrossEarnings:   grossEarnings,
		TotalDeductions: totalDeductions,
		NetSalary:       grossEarnings.Sub(totalDeductions),
	}, nil
}
