package postgresql_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stocker-hr/payroll-backend-go/internal/domain/payroll"
	"github.com/stocker-hr/payroll-backend-go/internal/repository/postgresql"
)

func TestCumulativeStateRepository_GetReturnsZeroState(t *testing.T) {
	setup := NewTestDatabase(t)
	defer setup.Close()
	ctx := context.Background()
	require.NoError(t, setup.TruncateAllTables(ctx))

	repo := postgresql.NewCumulativeStateRepository(setup.DB)

	state, err := repo.Get(ctx, "t-1", "emp-1", 2025)
	require.NoError(t, err)

	assert.Equal(t, int64(0), state.Version)
	assert.Equal(t, 0, state.LastProcessedPeriod)
	assert.True(t, state.CumulativeTaxBase.IsZero())
}

func TestCumulativeStateRepository_SaveAndAdvance(t *testing.T) {
	setup := NewTestDatabase(t)
	defer setup.Close()
	ctx := context.Background()
	require.NoError(t, setup.TruncateAllTables(ctx))

	repo := postgresql.NewCumulativeStateRepository(setup.DB)

	state := payroll.ZeroState("t-1", "emp-1", 2025)
	state.CumulativeGrossEarnings = decimal.RequireFromString("60000")
	state.CumulativeTaxBase = decimal.RequireFromString("40000")
	state.CumulativeTaxPaid = decimal.RequireFromString("6000")
	state.LastProcessedPeriod = 1

	saved, err := repo.Save(ctx, state)
	require.NoError(t, err)
	assert.Equal(t, int64(1), saved.Version)

	saved.CumulativeGrossEarnings = decimal.RequireFromString("120000")
	saved.LastProcessedPeriod = 2
	advanced, err := repo.Save(ctx, saved)
	require.NoError(t, err)
	assert.Equal(t, int64(2), advanced.Version)

	loaded, err := repo.Get(ctx, "t-1", "emp-1", 2025)
	require.NoError(t, err)
	assert.True(t, loaded.CumulativeGrossEarnings.Equal(decimal.RequireFromString("120000")))
	assert.Equal(t, 2, loaded.LastProcessedPeriod)
}

func TestCumulativeStateRepository_ConcurrentSaveConflicts(t *testing.T) {
	setup := NewTestDatabase(t)
	defer setup.Close()
	ctx := context.Background()
	require.NoError(t, setup.TruncateAllTables(ctx))

	repo := postgresql.NewCumulativeStateRepository(setup.DB)

	state := payroll.ZeroState("t-1", "emp-1", 2025)
	state.LastProcessedPeriod = 1
	saved, err := repo.Save(ctx, state)
	require.NoError(t, err)

	// Two callers loaded version 1; the second save must lose the race.
	first := saved
	first.LastProcessedPeriod = 2
	_, err = repo.Save(ctx, first)
	require.NoError(t, err)

	second := saved
	second.LastProcessedPeriod = 2
	_, err = repo.Save(ctx, second)
	assert.ErrorIs(t, err, payroll.ErrConcurrentModification)
}

func TestCumulativeStateRepository_DuplicateInsertConflicts(t *testing.T) {
	setup := NewTestDatabase(t)
	defer setup.Close()
	ctx := context.Background()
	require.NoError(t, setup.TruncateAllTables(ctx))

	repo := postgresql.NewCumulativeStateRepository(setup.DB)

	state := payroll.ZeroState("t-1", "emp-1", 2025)
	state.LastProcessedPeriod = 1

	_, err := repo.Save(ctx, state)
	require.NoError(t, err)

	// A second insert at version 0 races the first commit.
	_, err = repo.Save(ctx, state)
	assert.ErrorIs(t, err, payroll.ErrConcurrentModification)
}
