package fixtures

import (
	"github.com/shopspring/decimal"

	"github.com/stocker-hr/payroll-backend-go/internal/domain/tax"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

// DefaultBracketTable2025 returns a bracket table with the 2025 Turkish
// income-tax tiers and statutory SGK parameters. Used as seed data in tests
// and local environments; production tenants publish their own tables.
func DefaultBracketTable2025(tenantID string) tax.BracketTable {
	return tax.BracketTable{
		TenantID:   tenantID,
		FiscalYear: 2025,
		Brackets: []tax.Bracket{
			{LowerBound: dec("0"), UpperBound: decPtr("158000"), Rate: dec("0.15")},
			{LowerBound: dec("158000"), UpperBound: decPtr("330000"), Rate: dec("0.20")},
			{LowerBound: dec("330000"), UpperBound: decPtr("1200000"), Rate: dec("0.27")},
			{LowerBound: dec("1200000"), UpperBound: decPtr("4300000"), Rate: dec("0.35")},
			{LowerBound: dec("4300000"), UpperBound: nil, Rate: dec("0.40")},
		},
		SgkFloor:                 dec("26005.50"),
		SgkCeiling:               dec("195041.40"),
		SgkEmployeeRate:          dec("0.14"),
		SgkEmployerRate:          dec("0.2075"),
		UnemploymentEmployeeRate: dec("0.01"),
		UnemploymentEmployerRate: dec("0.02"),
		StampTaxRate:             dec("0.00759"),
		MinWageExemption:         dec("26005.50"),
		Currency:                 "TRY",
	}
}
