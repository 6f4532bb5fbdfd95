package postgresql_test

import (
	"context"
	"testing"

	"github.com/go-chi/jwtauth/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stocker-hr/payroll-backend-go/internal/domain/payroll"
	"github.com/stocker-hr/payroll-backend-go/internal/fixtures"
	"github.com/stocker-hr/payroll-backend-go/internal/repository/postgresql"
	payrollservice "github.com/stocker-hr/payroll-backend-go/internal/service/payroll"
)

// claimsContext builds the context the auth middleware would produce for a
// request carrying a valid token.
func claimsContext(t *testing.T, tenantID, userID string) context.Context {
	t.Helper()

	ja := jwtauth.New("HS256", []byte("integration-test-secret"), nil)
	token, _, err := ja.Encode(map[string]interface{}{
		"tenant_id": tenantID,
		"user_id":   userID,
	})
	require.NoError(t, err)

	return jwtauth.NewContext(context.Background(), token, nil)
}

func newPayrollService(setup *TestDatabaseSetup) payroll.PayrollService {
	return payrollservice.NewPayrollService(
		setup.DB,
		postgresql.NewPayrollRepository(setup.DB),
		postgresql.NewCumulativeStateRepository(setup.DB),
		postgresql.NewBracketTableRepository(setup.DB),
		nil,
	)
}

// A payroll calculated, then given an extra item, must not be approvable
// until it is recalculated; the committed cumulative state has to reflect
// the full item set.
func TestPayrollService_ItemMutationInvalidatesCalculation(t *testing.T) {
	setup := NewTestDatabase(t)
	defer setup.Close()
	ctx := context.Background()
	require.NoError(t, setup.TruncateAllTables(ctx))

	tableRepo := postgresql.NewBracketTableRepository(setup.DB)
	_, err := tableRepo.Create(ctx, fixtures.DefaultBracketTable2025("t-1"))
	require.NoError(t, err)

	svc := newPayrollService(setup)
	authCtx := claimsContext(t, "t-1", "u-1")

	created, err := svc.CreateDraft(authCtx, payroll.CreatePayrollRequest{
		EmployeeID: "emp-1",
		Year:       2025,
		Month:      1,
		BaseSalary: decimal.RequireFromString("50000"),
		WorkDays:   22,
	})
	require.NoError(t, err)

	calculated, err := svc.Calculate(authCtx, created.ID)
	require.NoError(t, err)
	require.Equal(t, string(payroll.PayrollStatusCalculated), calculated.Status)
	staleGross := calculated.GrossEarnings

	_, err = svc.AddItem(authCtx, payroll.AddPayrollItemRequest{
		PayrollID: created.ID,
		Code:      "BON",
		Name:      "Spot bonus",
		ItemType:  string(payroll.ItemTypeEarning),
		Amount:    decimal.RequireFromString("10000"),
	})
	require.NoError(t, err)

	// The mutation reverted the payroll to draft and wiped the calculation
	// marker, so approval is no longer possible.
	reloaded, err := svc.GetPayroll(authCtx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, string(payroll.PayrollStatusDraft), reloaded.Status)
	assert.Nil(t, reloaded.CalculatedAt)

	_, err = svc.Approve(authCtx, created.ID)
	assert.ErrorIs(t, err, payroll.ErrInvalidStatusTransition)

	recalculated, err := svc.Calculate(authCtx, created.ID)
	require.NoError(t, err)
	assert.True(t, recalculated.GrossEarnings.Equal(staleGross.Add(decimal.RequireFromString("10000"))),
		"gross %s", recalculated.GrossEarnings)

	approved, err := svc.Approve(authCtx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, string(payroll.PayrollStatusApproved), approved.Status)

	state, err := svc.GetCumulativeState(authCtx, "emp-1", 2025)
	require.NoError(t, err)
	assert.True(t, state.CumulativeGrossEarnings.Equal(recalculated.GrossEarnings),
		"committed cumulative gross %s, want %s", state.CumulativeGrossEarnings, recalculated.GrossEarnings)
	assert.Equal(t, 1, state.LastProcessedPeriod)
}

// Removing an item from a calculated payroll reverts it the same way.
func TestPayrollService_RemoveItemRevertsToDraft(t *testing.T) {
	setup := NewTestDatabase(t)
	defer setup.Close()
	ctx := context.Background()
	require.NoError(t, setup.TruncateAllTables(ctx))

	tableRepo := postgresql.NewBracketTableRepository(setup.DB)
	_, err := tableRepo.Create(ctx, fixtures.DefaultBracketTable2025("t-1"))
	require.NoError(t, err)

	svc := newPayrollService(setup)
	authCtx := claimsContext(t, "t-1", "u-1")

	created, err := svc.CreateDraft(authCtx, payroll.CreatePayrollRequest{
		EmployeeID: "emp-1",
		Year:       2025,
		Month:      1,
		BaseSalary: decimal.RequireFromString("50000"),
		WorkDays:   22,
	})
	require.NoError(t, err)

	item, err := svc.AddItem(authCtx, payroll.AddPayrollItemRequest{
		PayrollID: created.ID,
		Code:      "MEAL",
		Name:      "Meal allowance",
		ItemType:  string(payroll.ItemTypeEarning),
		Amount:    decimal.RequireFromString("2000"),
	})
	require.NoError(t, err)

	_, err = svc.Calculate(authCtx, created.ID)
	require.NoError(t, err)

	require.NoError(t, svc.RemoveItem(authCtx, created.ID, item.ID))

	reloaded, err := svc.GetPayroll(authCtx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, string(payroll.PayrollStatusDraft), reloaded.Status)

	_, err = svc.Approve(authCtx, created.ID)
	assert.ErrorIs(t, err, payroll.ErrInvalidStatusTransition)
}
