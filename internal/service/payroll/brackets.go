package payroll

import (
	"github.com/shopspring/decimal"

	"github.com/stocker-hr/payroll-backend-go/internal/domain/payroll"
	"github.com/stocker-hr/payroll-backend-go/internal/domain/tax"
)

// TaxResult is the outcome of resolving one period's taxable increment
// against the progressive bracket table.
type TaxResult struct {
	TaxOwed       decimal.Decimal
	BracketIndex  int
	BracketRate   decimal.Decimal
	EffectiveRate decimal.Decimal
}

// resolveTax walks the bracket table starting at the bracket containing
// cumulativeBefore and consumes the increment bracket by bracket. A period
// whose earnings straddle a bracket boundary is priced piecewise; a single
// rate lookup would miscompute it.
func resolveTax(cumulativeBefore, increment decimal.Decimal, table tax.BracketTable) (TaxResult, error) {
	if increment.IsNegative() {
		return TaxResult{}, payroll.ErrNegativeTaxBase
	}

	idx := table.BracketIndexFor(cumulativeBefore)
	if increment.IsZero() {
		return TaxResult{
			TaxOwed:       decimal.Zero,
			BracketIndex:  idx,
			BracketRate:   table.Brackets[idx].Rate,
			EffectiveRate: decimal.Zero,
		}, nil
	}

	running := cumulativeBefore
	remaining := increment
	owed := decimal.Zero

	for {
		b := table.Brackets[idx]
		portion := remaining
		if b.UpperBound != nil {
			room := b.UpperBound.Sub(running)
			if room.LessThan(portion) {
				portion = room
			}
		}
		owed = owed.Add(portion.Mul(b.Rate))
		running = running.Add(portion)
		remaining = remaining.Sub(portion)
		if !remaining.IsPositive() {
			break
		}
		idx++
	}

	owed = owed.Round(2)
	return TaxResult{
		TaxOwed:       owed,
		BracketIndex:  idx,
		BracketRate:   table.Brackets[idx].Rate,
		EffectiveRate: owed.Div(increment).Round(6),
	}, nil
}
