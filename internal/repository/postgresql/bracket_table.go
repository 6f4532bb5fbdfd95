package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/stocker-hr/payroll-backend-go/internal/domain/tax"
	"github.com/stocker-hr/payroll-backend-go/internal/pkg/database"
)

type bracketTableRepository struct {
	db *database.DB
}

func NewBracketTableRepository(db *database.DB) tax.BracketTableRepository {
	return &bracketTableRepository{db: db}
}

const bracketTableColumns = `
	id, tenant_id, fiscal_year, brackets,
	sgk_floor, sgk_ceiling, sgk_employee_rate, sgk_employer_rate,
	unemployment_employee_rate, unemployment_employer_rate,
	stamp_tax_rate, min_wage_exemption, currency, published_at, created_at`

// Brackets are stored as a JSONB array; the rest of the table is flat
// columns so the rates can be inspected with plain SQL.
func scanBracketTable(row pgx.Row) (tax.BracketTable, error) {
	var t tax.BracketTable
	var brackets []byte
	err := row.Scan(
		&t.ID, &t.TenantID, &t.FiscalYear, &brackets,
		&t.SgkFloor, &t.SgkCeiling, &t.SgkEmployeeRate, &t.SgkEmployerRate,
		&t.UnemploymentEmployeeRate, &t.UnemploymentEmployerRate,
		&t.StampTaxRate, &t.MinWageExemption, &t.Currency, &t.PublishedAt, &t.CreatedAt,
	)
	if err != nil {
		return tax.BracketTable{}, err
	}
	if err := json.Unmarshal(brackets, &t.Brackets); err != nil {
		return tax.BracketTable{}, fmt.Errorf("failed to decode brackets: %w", err)
	}
	return t, nil
}

func (r *bracketTableRepository) GetByFiscalYear(ctx context.Context, tenantID string, fiscalYear int) (tax.BracketTable, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + bracketTableColumns + `
		FROM bracket_tables
		WHERE tenant_id = $1 AND fiscal_year = $2`

	t, err := scanBracketTable(q.QueryRow(ctx, query, tenantID, fiscalYear))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return tax.BracketTable{}, tax.ErrBracketTableNotFound
		}
		return tax.BracketTable{}, fmt.Errorf("failed to get bracket table: %w", err)
	}

	return t, nil
}

func (r *bracketTableRepository) Create(ctx context.Context, table tax.BracketTable) (tax.BracketTable, error) {
	q := GetQuerier(ctx, r.db)

	brackets, err := json.Marshal(table.Brackets)
	if err != nil {
		return tax.BracketTable{}, fmt.Errorf("failed to encode brackets: %w", err)
	}

	query := `
		INSERT INTO bracket_tables (
			tenant_id, fiscal_year, brackets,
			sgk_floor, sgk_ceiling, sgk_employee_rate, sgk_employer_rate,
			unemployment_employee_rate, unemployment_employer_rate,
			stamp_tax_rate, min_wage_exemption, currency, published_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW())
		RETURNING ` + bracketTableColumns

	created, err := scanBracketTable(q.QueryRow(ctx, query,
		table.TenantID, table.FiscalYear, brackets,
		table.SgkFloor, table.SgkCeiling, table.SgkEmployeeRate, table.SgkEmployerRate,
		table.UnemploymentEmployeeRate, table.UnemploymentEmployerRate,
		table.StampTaxRate, table.MinWageExemption, table.Currency,
	))
	if err != nil {
		if strings.Contains(err.Error(), "uk_bracket_tables_fiscal_year") {
			return tax.BracketTable{}, tax.ErrBracketTableAlreadyExists
		}
		return tax.BracketTable{}, fmt.Errorf("failed to create bracket table: %w", err)
	}

	return created, nil
}

func (r *bracketTableRepository) ListByTenant(ctx context.Context, tenantID string) ([]tax.BracketTable, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + bracketTableColumns + `
		FROM bracket_tables
		WHERE tenant_id = $1
		ORDER BY fiscal_year DESC`

	rows, err := q.Query(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bracket tables: %w", err)
	}
	defer rows.Close()

	var tables []tax.BracketTable
	for rows.Next() {
		t, err := scanBracketTable(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bracket table: %w", err)
		}
		tables = append(tables, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bracket tables: %w", err)
	}

	return tables, nil
}
