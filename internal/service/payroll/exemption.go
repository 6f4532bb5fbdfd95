package payroll

import "github.com/shopspring/decimal"

// computeExemption returns the minimum-wage tax exemption for the period:
// the statutory exemption amount, capped at the period's taxable earnings.
// Applied flat to every period's incremental base, never to the cumulative
// base.
func computeExemption(grossTaxableEarnings, minWageExemption decimal.Decimal) decimal.Decimal {
	if grossTaxableEarnings.LessThan(minWageExemption) {
		return grossTaxableEarnings
	}
	return minWageExemption
}
