package payroll

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stocker-hr/payroll-backend-go/internal/domain/payroll"
	"github.com/stocker-hr/payroll-backend-go/internal/domain/tax"
)

func dec(v string) decimal.Decimal {
	d, err := decimal.NewFromString(v)
	if err != nil {
		panic(err)
	}
	return d
}

func decP(v string) *decimal.Decimal {
	d := dec(v)
	return &d
}

// twoBracketTable: [0,1000) at 10%, [1000,inf) at 20%.
func twoBracketTable() tax.BracketTable {
	return tax.BracketTable{
		TenantID:   "t-1",
		FiscalYear: 2025,
		Brackets: []tax.Bracket{
			{LowerBound: dec("0"), UpperBound: decP("1000"), Rate: dec("0.10")},
			{LowerBound: dec("1000"), UpperBound: nil, Rate: dec("0.20")},
		},
		SgkFloor:   dec("0"),
		SgkCeiling: dec("1000000"),
		Currency:   "TRY",
	}
}

func TestResolveTax_StraddlesBracketBoundary(t *testing.T) {
	table := twoBracketTable()

	// 1000 * 10% + 500 * 20% = 200
	res, err := resolveTax(dec("0"), dec("1500"), table)
	require.NoError(t, err)

	assert.True(t, res.TaxOwed.Equal(dec("200")), "tax owed %s", res.TaxOwed)
	assert.Equal(t, 1, res.BracketIndex)
	assert.True(t, res.BracketRate.Equal(dec("0.20")))
	assert.True(t, res.EffectiveRate.Equal(dec("0.133333")), "effective rate %s", res.EffectiveRate)
}

func TestResolveTax_EntirelyWithinFirstBracket(t *testing.T) {
	res, err := resolveTax(dec("0"), dec("500"), twoBracketTable())
	require.NoError(t, err)

	assert.True(t, res.TaxOwed.Equal(dec("50")))
	assert.Equal(t, 0, res.BracketIndex)
	assert.True(t, res.EffectiveRate.Equal(dec("0.10")))
}

func TestResolveTax_StartsAboveFirstBracket(t *testing.T) {
	// Cumulative base already in the top bracket.
	res, err := resolveTax(dec("5000"), dec("1000"), twoBracketTable())
	require.NoError(t, err)

	assert.True(t, res.TaxOwed.Equal(dec("200")))
	assert.Equal(t, 1, res.BracketIndex)
	assert.True(t, res.EffectiveRate.Equal(dec("0.20")))
}

func TestResolveTax_CumulativeExactlyOnBoundary(t *testing.T) {
	// 1000 is the lower bound of the second bracket; the whole increment
	// is taxed at 20%.
	res, err := resolveTax(dec("1000"), dec("100"), twoBracketTable())
	require.NoError(t, err)

	assert.True(t, res.TaxOwed.Equal(dec("20")))
	assert.Equal(t, 1, res.BracketIndex)
}

func TestResolveTax_IncrementEndsExactlyOnBoundary(t *testing.T) {
	res, err := resolveTax(dec("0"), dec("1000"), twoBracketTable())
	require.NoError(t, err)

	assert.True(t, res.TaxOwed.Equal(dec("100")))
	// The increment was consumed entirely inside the first bracket.
	assert.Equal(t, 0, res.BracketIndex)
}

func TestResolveTax_ZeroIncrement(t *testing.T) {
	res, err := resolveTax(dec("1500"), dec("0"), twoBracketTable())
	require.NoError(t, err)

	assert.True(t, res.TaxOwed.IsZero())
	assert.True(t, res.EffectiveRate.IsZero())
	assert.Equal(t, 1, res.BracketIndex)
	assert.True(t, res.BracketRate.Equal(dec("0.20")))
}

func TestResolveTax_NegativeIncrement(t *testing.T) {
	_, err := resolveTax(dec("0"), dec("-1"), twoBracketTable())
	assert.ErrorIs(t, err, payroll.ErrNegativeTaxBase)
}

func TestResolveTax_SpansThreeBrackets(t *testing.T) {
	table := tax.BracketTable{
		Brackets: []tax.Bracket{
			{LowerBound: dec("0"), UpperBound: decP("100"), Rate: dec("0.10")},
			{LowerBound: dec("100"), UpperBound: decP("200"), Rate: dec("0.20")},
			{LowerBound: dec("200"), UpperBound: nil, Rate: dec("0.30")},
		},
	}

	// 50 in bracket 0, 100 in bracket 1, 150 in bracket 2:
	// 50*0.10 + 100*0.20 + 150*0.30 = 5 + 20 + 45 = 70
	res, err := resolveTax(dec("50"), dec("300"), table)
	require.NoError(t, err)

	assert.True(t, res.TaxOwed.Equal(dec("70")), "tax owed %s", res.TaxOwed)
	assert.Equal(t, 2, res.BracketIndex)
}
