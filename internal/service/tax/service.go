package tax

import (
	"context"
	"fmt"
	"time"

	"github.com/go-chi/jwtauth/v5"

	"github.com/stocker-hr/payroll-backend-go/internal/domain/tax"
)

type TaxServiceImpl struct {
	repo tax.BracketTableRepository
}

func NewTaxService(repo tax.BracketTableRepository) tax.TaxService {
	return &TaxServiceImpl{repo: repo}
}

func getClaimsFromContext(ctx context.Context) (tenantID string, err error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to extract claims from context: %w", err)
	}

	tenantID, ok := claims["tenant_id"].(string)
	if !ok || tenantID == "" {
		return "", fmt.Errorf("tenant_id claim is missing or invalid")
	}

	return tenantID, nil
}

// Publish validates and stores the bracket table for a fiscal year. A table
// is immutable once published; publishing twice for the same year fails.
func (s *TaxServiceImpl) Publish(ctx context.Context, req tax.PublishBracketTableRequest) (tax.BracketTableResponse, error) {
	if err := req.Validate(); err != nil {
		return tax.BracketTableResponse{}, err
	}

	tenantID, err := getClaimsFromContext(ctx)
	if err != nil {
		return tax.BracketTableResponse{}, err
	}

	brackets := make([]tax.Bracket, 0, len(req.Brackets))
	for _, b := range req.Brackets {
		brackets = append(brackets, tax.Bracket{
			LowerBound: b.LowerBound,
			UpperBound: b.UpperBound,
			Rate:       b.Rate,
		})
	}

	table := tax.BracketTable{
		TenantID:                 tenantID,
		FiscalYear:               req.FiscalYear,
		Brackets:                 brackets,
		SgkFloor:                 req.SgkFloor,
		SgkCeiling:               req.SgkCeiling,
		SgkEmployeeRate:          req.SgkEmployeeRate,
		SgkEmployerRate:          req.SgkEmployerRate,
		UnemploymentEmployeeRate: req.UnemploymentEmployeeRate,
		UnemploymentEmployerRate: req.UnemploymentEmployerRate,
		StampTaxRate:             req.StampTaxRate,
		MinWageExemption:         req.MinWageExemption,
		Currency:                 req.Currency,
	}

	if err := table.Validate(); err != nil {
		return tax.BracketTableResponse{}, err
	}

	created, err := s.repo.Create(ctx, table)
	if err != nil {
		return tax.BracketTableResponse{}, err
	}

	return mapToResponse(created), nil
}

func (s *TaxServiceImpl) GetByFiscalYear(ctx context.Context, fiscalYear int) (tax.BracketTableResponse, error) {
	tenantID, err := getClaimsFromContext(ctx)
	if err != nil {
		return tax.BracketTableResponse{}, err
	}

	table, err := s.repo.GetByFiscalYear(ctx, tenantID, fiscalYear)
	if err != nil {
		return tax.BracketTableResponse{}, err
	}

	return mapToResponse(table), nil
}

func (s *TaxServiceImpl) List(ctx context.Context) ([]tax.BracketTableResponse, error) {
	tenantID, err := getClaimsFromContext(ctx)
	if err != nil {
		return nil, err
	}

	tables, err := s.repo.ListByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	result := make([]tax.BracketTableResponse, 0, len(tables))
	for _, table := range tables {
		result = append(result, mapToResponse(table))
	}

	return result, nil
}

func mapToResponse(table tax.BracketTable) tax.BracketTableResponse {
	return tax.BracketTableResponse{
		ID:                       table.ID,
		TenantID:                 table.TenantID,
		FiscalYear:               table.FiscalYear,
		Brackets:                 table.Brackets,
		SgkFloor:                 table.SgkFloor,
		SgkCeiling:               table.SgkCeiling,
		SgkEmployeeRate:          table.SgkEmployeeRate,
		SgkEmployerRate:          table.SgkEmployerRate,
		UnemploymentEmployeeRate: table.UnemploymentEmployeeRate,
		UnemploymentEmployerRate: table.UnemploymentEmployerRate,
		StampTaxRate:             table.StampTaxRate,
		MinWageExemption:         table.MinWageExemption,
		Currency:                 table.Currency,
		PublishedAt:              table.PublishedAt.Format(time.RFC3339),
	}
}
