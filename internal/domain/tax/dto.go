package tax

import (
	"github.com/shopspring/decimal"

	"github.com/stocker-hr/payroll-backend-go/internal/pkg/validator"
)

type BracketRequest struct {
	LowerBound decimal.Decimal  `json:"lower_bound"`
	UpperBound *decimal.Decimal `json:"upper_bound,omitempty"`
	Rate       decimal.Decimal  `json:"rate"`
}

type PublishBracketTableRequest struct {
	FiscalYear               int              `json:"fiscal_year"`
	Brackets                 []BracketRequest `json:"brackets"`
	SgkFloor                 decimal.Decimal  `json:"sgk_floor"`
	SgkCeiling               decimal.Decimal  `json:"sgk_ceiling"`
	SgkEmployeeRate          decimal.Decimal  `json:"sgk_employee_rate"`
	SgkEmployerRate          decimal.Decimal  `json:"sgk_employer_rate"`
	UnemploymentEmployeeRate decimal.Decimal  `json:"unemployment_employee_rate"`
	UnemploymentEmployerRate decimal.Decimal  `json:"unemployment_employer_rate"`
	StampTaxRate             decimal.Decimal  `json:"stamp_tax_rate"`
	MinWageExemption         decimal.Decimal  `json:"min_wage_exemption"`
	Currency                 string           `json:"currency"`
}

func (r *PublishBracketTableRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.FiscalYear < 2020 {
		errs = append(errs, validator.ValidationError{Field: "fiscal_year", Message: "must be 2020 or later"})
	}
	if len(r.Brackets) == 0 {
		errs = append(errs, validator.ValidationError{Field: "brackets", Message: "at least one bracket is required"})
	}
	if len(r.Currency) != 3 {
		errs = append(errs, validator.ValidationError{Field: "currency", Message: "must be a 3-letter currency code"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type BracketTableResponse struct {
	ID                       string          `json:"id"`
	TenantID                 string          `json:"tenant_id"`
	FiscalYear               int             `json:"fiscal_year"`
	Brackets                 []Bracket       `json:"brackets"`
	SgkFloor                 decimal.Decimal `json:"sgk_floor"`
	SgkCeiling               decimal.Decimal `json:"sgk_ceiling"`
	SgkEmployeeRate          decimal.Decimal `json:"sgk_employee_rate"`
	SgkEmployerRate          decimal.Decimal `json:"sgk_employer_rate"`
	UnemploymentEmployeeRate decimal.Decimal `json:"unemployment_employee_rate"`
	UnemploymentEmployerRate decimal.Decimal `json:"unemployment_employer_rate"`
	StampTaxRate             decimal.Decimal `json:"stamp_tax_rate"`
	MinWageExemption         decimal.Decimal `json:"min_wage_exemption"`
	Currency                 string          `json:"currency"`
	PublishedAt              string          `json:"published_at"`
}
