package tax

import "context"

// BracketTableRepository defines data access for published bracket tables.
// All methods include tenantID to prevent cross-tenant data access.
type BracketTableRepository interface {
	GetByFiscalYear(ctx context.Context, tenantID string, fiscalYear int) (BracketTable, error)
	Create(ctx context.Context, table BracketTable) (BracketTable, error)
	ListByTenant(ctx context.Context, tenantID string) ([]BracketTable, error)
}
