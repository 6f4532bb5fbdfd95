package payroll

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stocker-hr/payroll-backend-go/internal/domain/payroll"
)

func TestComposeNetPay(t *testing.T) {
	taxRes := TaxResult{TaxOwed: dec("4500")}
	contrib := ContributionResult{
		SgkEmployee:          dec("4200"),
		UnemploymentEmployee: dec("300"),
	}

	totals, err := composeNetPay(dec("30000"), dec("30000"), taxRes, contrib, dec("227.70"), dec("500"))
	require.NoError(t, err)

	// 4500 + 227.70 + 4200 + 300 + 500 = 9727.70
	assert.True(t, totals.TotalDeductions.Equal(dec("9727.70")), "deductions %s", totals.TotalDeductions)
	assert.True(t, totals.NetSalary.Equal(dec("20272.30")), "net %s", totals.NetSalary)

	// Exact reconciliation, no rounding drift.
	assert.True(t, totals.GrossEarnings.Sub(totals.TotalDeductions).Equal(totals.NetSalary))
}

func TestComposeNetPay_GrossMismatch(t *testing.T) {
	_, err := composeNetPay(dec("30000"), dec("29999"), TaxResult{}, ContributionResult{}, dec("0"), dec("0"))
	assert.ErrorIs(t, err, payroll.ErrInconsistentTotals)
}

func TestComposeNetPay_NegativeComponent(t *testing.T) {
	_, err := composeNetPay(dec("30000"), dec("30000"), TaxResult{TaxOwed: dec("-1")}, ContributionResult{}, dec("0"), dec("0"))
	assert.ErrorIs(t, err, payroll.ErrInconsistentTotals)

	_, err = composeNetPay(dec("30000"), dec("30000"), TaxResult{}, ContributionResult{}, dec("0"), dec("-5"))
	assert.ErrorIs(t, err, payroll.ErrInconsistentTotals)
}

func TestComputeExemption(t *testing.T) {
	assert.True(t, computeExemption(dec("50000"), dec("20000")).Equal(dec("20000")))
	// Earnings below the statutory amount: exemption capped at earnings.
	assert.True(t, computeExemption(dec("15000"), dec("20000")).Equal(dec("15000")))
	assert.True(t, computeExemption(dec("0"), dec("20000")).IsZero())
}
