package payroll

import (
	"github.com/shopspring/decimal"

	"github.com/stocker-hr/payroll-backend-go/internal/domain/payroll"
)

// nextState advances the fiscal-year running totals by one committed period.
// Periods must be strictly increasing within a fiscal year; an out-of-order
// or repeated period is rejected, not merged. The input state is returned
// unmodified on error.
func nextState(state payroll.CumulativeState, period int, grossEarnings, taxBase, taxPaid decimal.Decimal) (payroll.CumulativeState, error) {
	if period <= state.LastProcessedPeriod {
		return payroll.CumulativeState{}, payroll.ErrDuplicatePeriod
	}

	next := state
	next.CumulativeGrossEarnings = state.CumulativeGrossEarnings.Add(grossEarnings)
	next.CumulativeTaxBase = state.CumulativeTaxBase.Add(taxBase)
	next.CumulativeTaxPaid = state.CumulativeTaxPaid.Add(taxPaid)
	next.LastProcessedPeriod = period
	return next, nil
}
