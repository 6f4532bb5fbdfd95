package tax

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Bracket is one progressive income-tax tier. UpperBound nil means the
// bracket is unbounded and must be the last entry of the table.
type Bracket struct {
	LowerBound decimal.Decimal  `json:"lower_bound"`
	UpperBound *decimal.Decimal `json:"upper_bound,omitempty"`
	Rate       decimal.Decimal  `json:"rate"`
}

// Contains reports whether amount falls inside [LowerBound, UpperBound).
func (b Bracket) Contains(amount decimal.Decimal) bool {
	if amount.LessThan(b.LowerBound) {
		return false
	}
	if b.UpperBound == nil {
		return true
	}
	return amount.LessThan(*b.UpperBound)
}

// BracketTable - Published tax parameters for one tenant and fiscal year.
// Immutable once published; calculations treat it as read-only.
type BracketTable struct {
	ID                       string
	TenantID                 string
	FiscalYear               int
	Brackets                 []Bracket
	SgkFloor                 decimal.Decimal
	SgkCeiling               decimal.Decimal
	SgkEmployeeRate          decimal.Decimal
	SgkEmployerRate          decimal.Decimal
	UnemploymentEmployeeRate decimal.Decimal
	UnemploymentEmployerRate decimal.Decimal
	StampTaxRate             decimal.Decimal
	MinWageExemption         decimal.Decimal
	Currency                 string
	PublishedAt              time.Time
	CreatedAt                time.Time
}

// Validate checks the structural invariants of a table before it may be
// published or used in a calculation: brackets must partition [0, inf)
// with no gaps or overlaps, rates must be non-decreasing, and the SGK
// floor may not exceed the ceiling.
func (t BracketTable) Validate() error {
	if len(t.Brackets) == 0 {
		return fmt.Errorf("%w: table has no brackets", ErrInvalidBracketTable)
	}
	if !t.Brackets[0].LowerBound.IsZero() {
		return fmt.Errorf("%w: first bracket must start at zero, got %s", ErrInvalidBracketTable, t.Brackets[0].LowerBound)
	}
	for i, b := range t.Brackets {
		last := i == len(t.Brackets)-1
		if b.UpperBound == nil && !last {
			return fmt.Errorf("%w: bracket %d is unbounded but not last", ErrInvalidBracketTable, i)
		}
		if b.UpperBound != nil {
			if last {
				return fmt.Errorf("%w: last bracket must be unbounded", ErrInvalidBracketTable)
			}
			if !b.UpperBound.GreaterThan(b.LowerBound) {
				return fmt.Errorf("%w: bracket %d upper bound %s not above lower bound %s", ErrInvalidBracketTable, i, b.UpperBound, b.LowerBound)
			}
			if !t.Brackets[i+1].LowerBound.Equal(*b.UpperBound) {
				return fmt.Errorf("%w: bracket %d upper bound %s does not meet bracket %d lower bound %s", ErrInvalidBracketTable, i, b.UpperBound, i+1, t.Brackets[i+1].LowerBound)
			}
		}
		if b.Rate.IsNegative() || b.Rate.GreaterThan(decimal.NewFromInt(1)) {
			return fmt.Errorf("%w: bracket %d rate %s outside [0,1]", ErrInvalidBracketTable, i, b.Rate)
		}
		if i > 0 && b.Rate.LessThan(t.Brackets[i-1].Rate) {
			return fmt.Errorf("%w: bracket %d rate %s lower than previous rate %s", ErrInvalidBracketTable, i, b.Rate, t.Brackets[i-1].Rate)
		}
	}
	if t.SgkFloor.GreaterThan(t.SgkCeiling) {
		return fmt.Errorf("%w: SGK floor %s above ceiling %s", ErrFloorAboveCeiling, t.SgkFloor, t.SgkCeiling)
	}
	for _, r := range []struct {
		name string
		rate decimal.Decimal
	}{
		{"sgk_employee_rate", t.SgkEmployeeRate},
		{"sgk_employer_rate", t.SgkEmployerRate},
		{"unemployment_employee_rate", t.UnemploymentEmployeeRate},
		{"unemployment_employer_rate", t.UnemploymentEmployerRate},
		{"stamp_tax_rate", t.StampTaxRate},
	} {
		if r.rate.IsNegative() || r.rate.GreaterThan(decimal.NewFromInt(1)) {
			return fmt.Errorf("%w: %s %s outside [0,1]", ErrInvalidBracketTable, r.name, r.rate)
		}
	}
	if t.MinWageExemption.IsNegative() {
		return fmt.Errorf("%w: min wage exemption %s is negative", ErrInvalidBracketTable, t.MinWageExemption)
	}
	return nil
}

// BracketIndexFor returns the index of the bracket containing amount.
// The caller is expected to have validated the table; a validated table
// always contains any non-negative amount.
func (t BracketTable) BracketIndexFor(amount decimal.Decimal) int {
	for i, b := range t.Brackets {
		if b.Contains(amount) {
			return i
		}
	}
	return len(t.Brackets) - 1
}
