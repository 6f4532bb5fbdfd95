package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/stocker-hr/payroll-backend-go/internal/domain/payroll"
	"github.com/stocker-hr/payroll-backend-go/internal/pkg/database"
)

type cumulativeStateRepository struct {
	db *database.DB
}

func NewCumulativeStateRepository(db *database.DB) payroll.CumulativeStateRepository {
	return &cumulativeStateRepository{db: db}
}

func (r *cumulativeStateRepository) Get(ctx context.Context, tenantID, employeeID string, fiscalYear int) (payroll.CumulativeState, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT tenant_id, employee_id, fiscal_year,
			cumulative_gross_earnings, cumulative_tax_base, cumulative_tax_paid,
			last_processed_period, version, updated_at
		FROM cumulative_states
		WHERE tenant_id = $1 AND employee_id = $2 AND fiscal_year = $3`

	var s payroll.CumulativeState
	err := q.QueryRow(ctx, query, tenantID, employeeID, fiscalYear).Scan(
		&s.TenantID, &s.EmployeeID, &s.FiscalYear,
		&s.CumulativeGrossEarnings, &s.CumulativeTaxBase, &s.CumulativeTaxPaid,
		&s.LastProcessedPeriod, &s.Version, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// No period committed yet for this employee and fiscal year.
			return payroll.ZeroState(tenantID, employeeID, fiscalYear), nil
		}
		return payroll.CumulativeState{}, fmt.Errorf("failed to get cumulative state: %w", err)
	}

	return s, nil
}

// Save inserts the first version of a state or advances an existing one.
// The WHERE version = $n guard is the optimistic concurrency check: a state
// loaded at version N only saves if the row is still at version N, so two
// concurrent commits for the same employee and fiscal year cannot both win.
func (r *cumulativeStateRepository) Save(ctx context.Context, state payroll.CumulativeState) (payroll.CumulativeState, error) {
	q := GetQuerier(ctx, r.db)

	if state.Version == 0 {
		query := `
			INSERT INTO cumulative_states (
				tenant_id, employee_id, fiscal_year,
				cumulative_gross_earnings, cumulative_tax_base, cumulative_tax_paid,
				last_processed_period, version
			) VALUES ($1, $2, $3, $4, $5, $6, $7, 1)
			RETURNING version, updated_at`

		err := q.QueryRow(ctx, query,
			state.TenantID, state.EmployeeID, state.FiscalYear,
			state.CumulativeGrossEarnings, state.CumulativeTaxBase, state.CumulativeTaxPaid,
			state.LastProcessedPeriod,
		).Scan(&state.Version, &state.UpdatedAt)
		if err != nil {
			if strings.Contains(err.Error(), "cumulative_states_pkey") {
				return payroll.CumulativeState{}, payroll.ErrConcurrentModification
			}
			return payroll.CumulativeState{}, fmt.Errorf("failed to insert cumulative state: %w", err)
		}

		return state, nil
	}

	query := `
		UPDATE cumulative_states SET
			cumulative_gross_earnings = $4, cumulative_tax_base = $5, cumulative_tax_paid = $6,
			last_processed_period = $7, version = version + 1, updated_at = NOW()
		WHERE tenant_id = $1 AND employee_id = $2 AND fiscal_year = $3 AND version = $8
		RETURNING version, updated_at`

	err := q.QueryRow(ctx, query,
		state.TenantID, state.EmployeeID, state.FiscalYear,
		state.CumulativeGrossEarnings, state.CumulativeTaxBase, state.CumulativeTaxPaid,
		state.LastProcessedPeriod, state.Version,
	).Scan(&state.Version, &state.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.CumulativeState{}, payroll.ErrConcurrentModification
		}
		return payroll.CumulativeState{}, fmt.Errorf("failed to update cumulative state: %w", err)
	}

	return state, nil
}
