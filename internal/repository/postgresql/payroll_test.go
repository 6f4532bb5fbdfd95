package postgresql_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stocker-hr/payroll-backend-go/internal/domain/payroll"
	"github.com/stocker-hr/payroll-backend-go/internal/domain/payslip"
	"github.com/stocker-hr/payroll-backend-go/internal/domain/tax"
	"github.com/stocker-hr/payroll-backend-go/internal/fixtures"
	"github.com/stocker-hr/payroll-backend-go/internal/repository/postgresql"
)

func draftPayroll(employeeID string, month int) payroll.Payroll {
	return payroll.Payroll{
		TenantID:   "t-1",
		EmployeeID: employeeID,
		Year:       2025,
		Month:      month,
		Currency:   "TRY",
		BaseSalary: decimal.RequireFromString("50000"),
		WorkDays:   22,
		Status:     payroll.PayrollStatusDraft,
	}
}

func TestPayrollRepository_CreateAndGet(t *testing.T) {
	setup := NewTestDatabase(t)
	defer setup.Close()
	ctx := context.Background()
	require.NoError(t, setup.TruncateAllTables(ctx))

	repo := postgresql.NewPayrollRepository(setup.DB)

	created, err := repo.Create(ctx, draftPayroll("emp-1", 1))
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	assert.Equal(t, payroll.PayrollStatusDraft, created.Status)

	loaded, err := repo.GetByID(ctx, created.ID, "t-1")
	require.NoError(t, err)
	assert.True(t, loaded.BaseSalary.Equal(decimal.RequireFromString("50000")))

	// A second payroll for the same employee and period is rejected.
	_, err = repo.Create(ctx, draftPayroll("emp-1", 1))
	assert.ErrorIs(t, err, payroll.ErrPayrollAlreadyExists)

	// Cross-tenant access behaves as not found.
	_, err = repo.GetByID(ctx, created.ID, "t-2")
	assert.ErrorIs(t, err, payroll.ErrPayrollNotFound)
}

func TestPayrollRepository_SetStatusGuardsCurrentStatus(t *testing.T) {
	setup := NewTestDatabase(t)
	defer setup.Close()
	ctx := context.Background()
	require.NoError(t, setup.TruncateAllTables(ctx))

	repo := postgresql.NewPayrollRepository(setup.DB)

	created, err := repo.Create(ctx, draftPayroll("emp-1", 1))
	require.NoError(t, err)

	// The payroll is still draft, so an approved->paid transition matches
	// no row.
	err = repo.SetStatus(ctx, "t-1", created.ID, payroll.PayrollStatusApproved, payroll.PayrollStatusPaid, nil, nil)
	assert.ErrorIs(t, err, payroll.ErrInvalidStatusTransition)

	err = repo.SetStatus(ctx, "t-1", created.ID, payroll.PayrollStatusDraft, payroll.PayrollStatusCancelled, nil, nil)
	require.NoError(t, err)

	loaded, err := repo.GetByID(ctx, created.ID, "t-1")
	require.NoError(t, err)
	assert.Equal(t, payroll.PayrollStatusCancelled, loaded.Status)
}

func TestPayrollRepository_Items(t *testing.T) {
	setup := NewTestDatabase(t)
	defer setup.Close()
	ctx := context.Background()
	require.NoError(t, setup.TruncateAllTables(ctx))

	repo := postgresql.NewPayrollRepository(setup.DB)

	created, err := repo.Create(ctx, draftPayroll("emp-1", 1))
	require.NoError(t, err)

	item, err := repo.AddItem(ctx, payroll.PayrollItem{
		PayrollID: created.ID,
		TenantID:  "t-1",
		Code:      "MEAL",
		Name:      "Meal allowance",
		ItemType:  payroll.ItemTypeEarning,
		Amount:    decimal.RequireFromString("2000"),
		IsTaxable: true,
	})
	require.NoError(t, err)
	require.NotEmpty(t, item.ID)

	items, err := repo.ListItems(ctx, created.ID, "t-1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "MEAL", items[0].Code)

	require.NoError(t, repo.RemoveItem(ctx, item.ID, created.ID, "t-1"))
	err = repo.RemoveItem(ctx, item.ID, created.ID, "t-1")
	assert.ErrorIs(t, err, payroll.ErrPayrollItemNotFound)
}

func TestBracketTableRepository_RoundTrip(t *testing.T) {
	setup := NewTestDatabase(t)
	defer setup.Close()
	ctx := context.Background()
	require.NoError(t, setup.TruncateAllTables(ctx))

	repo := postgresql.NewBracketTableRepository(setup.DB)

	table := fixtures.DefaultBracketTable2025("t-1")

	created, err := repo.Create(ctx, table)
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	loaded, err := repo.GetByFiscalYear(ctx, "t-1", 2025)
	require.NoError(t, err)
	require.Len(t, loaded.Brackets, len(table.Brackets))
	assert.True(t, loaded.Brackets[0].Rate.Equal(decimal.RequireFromString("0.15")))
	assert.Nil(t, loaded.Brackets[len(loaded.Brackets)-1].UpperBound)
	assert.True(t, loaded.SgkCeiling.Equal(table.SgkCeiling))

	_, err = repo.Create(ctx, table)
	assert.ErrorIs(t, err, tax.ErrBracketTableAlreadyExists)

	_, err = repo.GetByFiscalYear(ctx, "t-1", 2024)
	assert.ErrorIs(t, err, tax.ErrBracketTableNotFound)
}

func TestPayslipRepository_UniquePerPayroll(t *testing.T) {
	setup := NewTestDatabase(t)
	defer setup.Close()
	ctx := context.Background()
	require.NoError(t, setup.TruncateAllTables(ctx))

	payrollRepo := postgresql.NewPayrollRepository(setup.DB)
	payslipRepo := postgresql.NewPayslipRepository(setup.DB)

	created, err := payrollRepo.Create(ctx, draftPayroll("emp-1", 1))
	require.NoError(t, err)

	slip := payslip.Payslip{
		TenantID:      "t-1",
		EmployeeID:    "emp-1",
		PayrollID:     created.ID,
		PayslipNumber: "PS-202501-TEST",
		Year:          2025,
		Month:         1,
		Currency:      "TRY",
		Items: []payslip.PayslipItem{
			{TenantID: "t-1", Name: "Base salary", ItemType: payslip.ItemTypeEarning, Amount: decimal.RequireFromString("50000")},
		},
	}

	first, err := payslipRepo.Create(ctx, slip)
	require.NoError(t, err)
	require.Len(t, first.Items, 1)

	_, err = payslipRepo.Create(ctx, slip)
	assert.ErrorIs(t, err, payslip.ErrPayslipAlreadyExists)

	loaded, err := payslipRepo.GetByPayrollID(ctx, created.ID, "t-1")
	require.NoError(t, err)
	assert.Equal(t, "PS-202501-TEST", loaded.PayslipNumber)
	require.Len(t, loaded.Items, 1)
}
