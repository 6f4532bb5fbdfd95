package payroll

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/jackc/pgx/v5"

	"github.com/stocker-hr/payroll-backend-go/internal/domain/payroll"
	"github.com/stocker-hr/payroll-backend-go/internal/domain/tax"
	"github.com/stocker-hr/payroll-backend-go/internal/pkg/database"
	"github.com/stocker-hr/payroll-backend-go/internal/pkg/validator"
	"github.com/stocker-hr/payroll-backend-go/internal/repository/postgresql"
)

const defaultCurrency = "TRY"

type PayrollServiceImpl struct {
	db        *database.DB
	engine    *Engine
	repo      payroll.PayrollRepository
	stateRepo payroll.CumulativeStateRepository
	tableRepo tax.BracketTableRepository
	publisher payroll.EventPublisher
}

func NewPayrollService(
	db *database.DB,
	repo payroll.PayrollRepository,
	stateRepo payroll.CumulativeStateRepository,
	tableRepo tax.BracketTableRepository,
	publisher payroll.EventPublisher,
) payroll.PayrollService {
	return &PayrollServiceImpl{
		db:        db,
		engine:    NewEngine(),
		repo:      repo,
		stateRepo: stateRepo,
		tableRepo: tableRepo,
		publisher: publisher,
	}
}

// Helper to get tenant_id and user_id from JWT context
func getClaimsFromContext(ctx context.Context) (tenantID, userID string, err error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", "", fmt.Errorf("failed to extract claims from context: %w", err)
	}

	tenantID, ok := claims["tenant_id"].(string)
	if !ok || tenantID == "" {
		return "", "", fmt.Errorf("tenant_id claim is missing or invalid")
	}

	userID, _ = claims["user_id"].(string)

	return tenantID, userID, nil
}

// ========== DRAFTS ==========

func (s *PayrollServiceImpl) CreateDraft(ctx context.Context, req payroll.CreatePayrollRequest) (payroll.PayrollResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.PayrollResponse{}, err
	}

	tenantID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.PayrollResponse{}, err
	}

	_, err = s.repo.GetByEmployeePeriod(ctx, tenantID, req.EmployeeID, req.Year, req.Month)
	if err == nil {
		return payroll.PayrollResponse{}, payroll.ErrPayrollAlreadyExists
	}
	if !errors.Is(err, payroll.ErrPayrollNotFound) {
		return payroll.PayrollResponse{}, err
	}

	currency := req.Currency
	if currency == "" {
		currency = defaultCurrency
	}

	p := payroll.Payroll{
		TenantID:      tenantID,
		EmployeeID:    req.EmployeeID,
		Year:          req.Year,
		Month:         req.Month,
		Currency:      currency,
		BaseSalary:    req.BaseSalary,
		OvertimePay:   req.OvertimePay,
		Bonus:         req.Bonus,
		Allowances:    req.Allowances,
		OtherEarnings: req.OtherEarnings,
		WorkDays:      req.WorkDays,
		AbsentDays:    req.AbsentDays,
		LeaveDays:     req.LeaveDays,
		HolidayDays:   req.HolidayDays,
		Status:        payroll.PayrollStatusDraft,
		Notes:         req.Notes,
	}
	if req.OvertimeHours != nil {
		p.OvertimeHours = *req.OvertimeHours
	}

	created, err := s.repo.Create(ctx, p)
	if err != nil {
		return payroll.PayrollResponse{}, err
	}

	return mapToResponse(created), nil
}

func (s *PayrollServiceImpl) GetPayroll(ctx context.Context, id string) (payroll.PayrollResponse, error) {
	tenantID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.PayrollResponse{}, err
	}

	p, err := s.repo.GetByID(ctx, id, tenantID)
	if err != nil {
		return payroll.PayrollResponse{}, err
	}

	return mapToResponse(p), nil
}

func (s *PayrollServiceImpl) ListPayrolls(ctx context.Context, filter payroll.PayrollFilter) (payroll.ListPayrollResponse, error) {
	tenantID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.ListPayrollResponse{}, err
	}

	records, totalCount, err := s.repo.List(ctx, tenantID, filter)
	if err != nil {
		return payroll.ListPayrollResponse{}, err
	}

	data := make([]payroll.PayrollResponse, 0, len(records))
	for _, p := range records {
		data = append(data, mapToResponse(p))
	}

	return payroll.ListPayrollResponse{
		Data:       data,
		TotalCount: totalCount,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}, nil
}

func (s *PayrollServiceImpl) UpdateDraft(ctx context.Context, req payroll.UpdatePayrollRequest) (payroll.PayrollResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.PayrollResponse{}, err
	}

	tenantID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.PayrollResponse{}, err
	}

	p, err := s.repo.GetByID(ctx, req.ID, tenantID)
	if err != nil {
		return payroll.PayrollResponse{}, err
	}
	if p.Status != payroll.PayrollStatusDraft {
		return payroll.PayrollResponse{}, payroll.ErrInvalidStatusTransition
	}

	if err := s.repo.UpdateInputs(ctx, tenantID, req); err != nil {
		return payroll.PayrollResponse{}, err
	}

	return s.GetPayroll(ctx, req.ID)
}

// ========== ITEMS ==========

func (s *PayrollServiceImpl) AddItem(ctx context.Context, req payroll.AddPayrollItemRequest) (payroll.PayrollItemResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.PayrollItemResponse{}, err
	}

	tenantID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.PayrollItemResponse{}, err
	}

	p, err := s.repo.GetByID(ctx, req.PayrollID, tenantID)
	if err != nil {
		return payroll.PayrollItemResponse{}, err
	}
	if p.Status != payroll.PayrollStatusDraft && p.Status != payroll.PayrollStatusCalculated {
		return payroll.PayrollItemResponse{}, payroll.ErrItemsLockedAfterApproval
	}

	isTaxable := true
	if req.IsTaxable != nil {
		isTaxable = *req.IsTaxable
	}
	isRecurring := false
	if req.IsRecurring != nil {
		isRecurring = *req.IsRecurring
	}

	item := payroll.PayrollItem{
		PayrollID:   p.ID,
		TenantID:    tenantID,
		Code:        req.Code,
		Name:        req.Name,
		ItemType:    payroll.ItemType(req.ItemType),
		Amount:      req.Amount,
		Quantity:    req.Quantity,
		Rate:        req.Rate,
		IsTaxable:   isTaxable,
		IsRecurring: isRecurring,
		SortOrder:   req.SortOrder,
	}

	var created payroll.PayrollItem
	if p.Status == payroll.PayrollStatusCalculated {
		// Mutating the items invalidates the calculation; the payroll goes
		// back to Draft together with the insert so it cannot be approved
		// with stale totals.
		err = postgresql.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
			txCtx := context.WithValue(ctx, "tx", tx)
			inserted, err := s.repo.AddItem(txCtx, item)
			if err != nil {
				return err
			}
			created = inserted
			return s.repo.SetStatus(txCtx, tenantID, p.ID, payroll.PayrollStatusCalculated, payroll.PayrollStatusDraft, nil, nil)
		})
	} else {
		created, err = s.repo.AddItem(ctx, item)
	}
	if err != nil {
		return payroll.PayrollItemResponse{}, err
	}

	return mapToItemResponse(created), nil
}

func (s *PayrollServiceImpl) ListItems(ctx context.Context, payrollID string) ([]payroll.PayrollItemResponse, error) {
	tenantID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return nil, err
	}

	items, err := s.repo.ListItems(ctx, payrollID, tenantID)
	if err != nil {
		return nil, err
	}

	result := make([]payroll.PayrollItemResponse, 0, len(items))
	for _, item := range items {
		result = append(result, mapToItemResponse(item))
	}

	return result, nil
}

func (s *PayrollServiceImpl) RemoveItem(ctx context.Context, payrollID, itemID string) error {
	tenantID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return err
	}

	p, err := s.repo.GetByID(ctx, payrollID, tenantID)
	if err != nil {
		return err
	}
	if p.Status != payroll.PayrollStatusDraft && p.Status != payroll.PayrollStatusCalculated {
		return payroll.ErrItemsLockedAfterApproval
	}

	if p.Status == payroll.PayrollStatusCalculated {
		return postgresql.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
			txCtx := context.WithValue(ctx, "tx", tx)
			if err := s.repo.RemoveItem(txCtx, itemID, payrollID, tenantID); err != nil {
				return err
			}
			return s.repo.SetStatus(txCtx, tenantID, p.ID, payroll.PayrollStatusCalculated, payroll.PayrollStatusDraft, nil, nil)
		})
	}

	return s.repo.RemoveItem(ctx, itemID, payrollID, tenantID)
}

// ========== LIFECYCLE ==========

func (s *PayrollServiceImpl) Calculate(ctx context.Context, id string) (payroll.PayrollResponse, error) {
	tenantID, userID, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.PayrollResponse{}, err
	}

	p, err := s.repo.GetByID(ctx, id, tenantID)
	if err != nil {
		return payroll.PayrollResponse{}, err
	}
	if !p.Status.CanTransition(payroll.PayrollStatusCalculated) {
		return payroll.PayrollResponse{}, payroll.ErrInvalidStatusTransition
	}

	table, err := s.tableRepo.GetByFiscalYear(ctx, tenantID, p.Year)
	if err != nil {
		return payroll.PayrollResponse{}, err
	}

	// The last committed state; calculation never mutates it, so a
	// Calculated payroll can be recalculated against the same baseline.
	state, err := s.stateRepo.Get(ctx, tenantID, p.EmployeeID, p.Year)
	if err != nil {
		return payroll.PayrollResponse{}, err
	}

	items, err := s.repo.ListItems(ctx, p.ID, tenantID)
	if err != nil {
		return payroll.PayrollResponse{}, err
	}

	result, err := s.engine.Calculate(CalculationInput{
		Table:         table,
		State:         state,
		Period:        p.Month,
		BaseSalary:    p.BaseSalary,
		OvertimePay:   p.OvertimePay,
		Bonus:         p.Bonus,
		Allowances:    p.Allowances,
		OtherEarnings: p.OtherEarnings,
		Items:         items,
	})
	if err != nil {
		return payroll.PayrollResponse{}, err
	}

	now := time.Now()
	p.GrossEarnings = result.GrossEarnings
	p.TaxBase = result.TaxBase
	p.TaxBracket = result.Tax.BracketIndex
	p.TaxBracketRate = result.Tax.BracketRate
	p.EffectiveTaxRate = result.Tax.EffectiveRate
	p.SgkBase = result.Contributions.SgkBase
	p.SgkCeilingApplied = result.Contributions.CeilingApplied
	p.MinWageExemption = result.Exemption
	p.CumulativeGrossEarnings = result.NextState.CumulativeGrossEarnings
	p.IncomeTax = result.Tax.TaxOwed
	p.SocialSecurityEmployee = result.Contributions.SgkEmployee
	p.SocialSecurityEmployer = result.Contributions.SgkEmployer
	p.UnemploymentInsuranceEmployee = result.Contributions.UnemploymentEmployee
	p.UnemploymentInsuranceEmployer = result.Contributions.UnemploymentEmployer
	p.StampTax = result.StampTax
	p.OtherDeductions = result.OtherDeductions
	p.TotalDeductions = result.TotalDeductions
	p.NetSalary = result.NetSalary
	p.Status = payroll.PayrollStatusCalculated
	p.CalculatedAt = &now
	if userID != "" {
		p.CalculatedByID = &userID
	}

	if err := s.repo.SaveCalculation(ctx, p); err != nil {
		return payroll.PayrollResponse{}, err
	}

	if s.publisher != nil {
		s.publisher.PublishPayrollCalculated(ctx, payroll.PayrollCalculatedEvent{
			TenantID:      tenantID,
			PayrollID:     p.ID,
			EmployeeID:    p.EmployeeID,
			Year:          p.Year,
			Month:         p.Month,
			GrossEarnings: p.GrossEarnings,
			NetSalary:     p.NetSalary,
		})
	}

	return mapToResponse(p), nil
}

// Approve commits the period: the payroll moves to Approved and the
// employee's cumulative state advances, both inside one transaction. The
// stored figures are first re-verified against the current item set, so a
// calculation made stale by any later mutation is rejected instead of
// committed. The CAS on the state version turns a concurrent commit for the
// same employee and fiscal year into ErrConcurrentModification for the
// caller to retry.
func (s *PayrollServiceImpl) Approve(ctx context.Context, id string) (payroll.PayrollResponse, error) {
	tenantID, userID, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.PayrollResponse{}, err
	}

	p, err := s.repo.GetByID(ctx, id, tenantID)
	if err != nil {
		return payroll.PayrollResponse{}, err
	}
	if p.Status != payroll.PayrollStatusCalculated {
		return payroll.PayrollResponse{}, payroll.ErrInvalidStatusTransition
	}

	table, err := s.tableRepo.GetByFiscalYear(ctx, tenantID, p.Year)
	if err != nil {
		return payroll.PayrollResponse{}, err
	}

	state, err := s.stateRepo.Get(ctx, tenantID, p.EmployeeID, p.Year)
	if err != nil {
		return payroll.PayrollResponse{}, err
	}

	items, err := s.repo.ListItems(ctx, p.ID, tenantID)
	if err != nil {
		return payroll.PayrollResponse{}, err
	}

	next, err := verifyCalculation(s.engine, table, state, p, items)
	if err != nil {
		return payroll.PayrollResponse{}, err
	}

	var actorID *string
	if userID != "" {
		actorID = &userID
	}

	err = postgresql.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)
		if _, err := s.stateRepo.Save(txCtx, next); err != nil {
			return err
		}
		return s.repo.SetStatus(txCtx, tenantID, id, payroll.PayrollStatusCalculated, payroll.PayrollStatusApproved, actorID, nil)
	})
	if err != nil {
		return payroll.PayrollResponse{}, err
	}

	return s.GetPayroll(ctx, id)
}

func (s *PayrollServiceImpl) Pay(ctx context.Context, req payroll.PayPayrollRequest) (payroll.PayrollResponse, error) {
	tenantID, userID, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.PayrollResponse{}, err
	}

	var actorID *string
	if userID != "" {
		actorID = &userID
	}

	if err := s.repo.SetStatus(ctx, tenantID, req.ID, payroll.PayrollStatusApproved, payroll.PayrollStatusPaid, actorID, req.PaymentReference); err != nil {
		return payroll.PayrollResponse{}, err
	}

	return s.GetPayroll(ctx, req.ID)
}

// Cancel marks the payroll cancelled. A payroll whose period was already
// committed at Approve stays in the cumulative totals; the correction path
// is a compensating payroll, not a rollback.
func (s *PayrollServiceImpl) Cancel(ctx context.Context, id string) (payroll.PayrollResponse, error) {
	tenantID, userID, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.PayrollResponse{}, err
	}

	p, err := s.repo.GetByID(ctx, id, tenantID)
	if err != nil {
		return payroll.PayrollResponse{}, err
	}
	if !p.Status.CanTransition(payroll.PayrollStatusCancelled) {
		return payroll.PayrollResponse{}, payroll.ErrInvalidStatusTransition
	}

	var actorID *string
	if userID != "" {
		actorID = &userID
	}

	if err := s.repo.SetStatus(ctx, tenantID, id, p.Status, payroll.PayrollStatusCancelled, actorID, nil); err != nil {
		return payroll.PayrollResponse{}, err
	}

	return s.GetPayroll(ctx, id)
}

func (s *PayrollServiceImpl) Delete(ctx context.Context, id string) error {
	tenantID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return err
	}

	p, err := s.repo.GetByID(ctx, id, tenantID)
	if err != nil {
		return err
	}
	if p.Status != payroll.PayrollStatusDraft {
		return payroll.ErrOnlyDraftDeletable
	}

	return s.repo.SoftDelete(ctx, id, tenantID)
}

// ========== STATE & SUMMARY ==========

func (s *PayrollServiceImpl) GetCumulativeState(ctx context.Context, employeeID string, fiscalYear int) (payroll.CumulativeStateResponse, error) {
	if fiscalYear < 2020 {
		return payroll.CumulativeStateResponse{}, payroll.ErrInvalidPeriod
	}

	tenantID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.CumulativeStateResponse{}, err
	}

	state, err := s.stateRepo.Get(ctx, tenantID, employeeID, fiscalYear)
	if err != nil {
		return payroll.CumulativeStateResponse{}, err
	}

	return payroll.CumulativeStateResponse{
		EmployeeID:              state.EmployeeID,
		FiscalYear:              state.FiscalYear,
		CumulativeGrossEarnings: state.CumulativeGrossEarnings,
		CumulativeTaxBase:       state.CumulativeTaxBase,
		CumulativeTaxPaid:       state.CumulativeTaxPaid,
		LastProcessedPeriod:     state.LastProcessedPeriod,
	}, nil
}

func (s *PayrollServiceImpl) GetSummary(ctx context.Context, year, month int) (payroll.PayrollSummaryResponse, error) {
	if !validator.IsValidPeriod(month, year) {
		return payroll.PayrollSummaryResponse{}, payroll.ErrInvalidPeriod
	}

	tenantID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.PayrollSummaryResponse{}, err
	}

	return s.repo.Summary(ctx, tenantID, year, month)
}

// ========== HELPERS ==========

func mapToResponse(p payroll.Payroll) payroll.PayrollResponse {
	return payroll.PayrollResponse{
		ID:         p.ID,
		EmployeeID: p.EmployeeID,
		Year:       p.Year,
		Month:      p.Month,
		Currency:   p.Currency,

		BaseSalary:    p.BaseSalary,
		OvertimePay:   p.OvertimePay,
		Bonus:         p.Bonus,
		Allowances:    p.Allowances,
		OtherEarnings: p.OtherEarnings,
		WorkDays:      p.WorkDays,
		AbsentDays:    p.AbsentDays,
		OvertimeHours: p.OvertimeHours,
		LeaveDays:     p.LeaveDays,
		HolidayDays:   p.HolidayDays,

		GrossEarnings:                 p.GrossEarnings,
		TaxBase:                       p.TaxBase,
		TaxBracket:                    p.TaxBracket,
		TaxBracketRate:                p.TaxBracketRate,
		EffectiveTaxRate:              p.EffectiveTaxRate,
		SgkBase:                       p.SgkBase,
		SgkCeilingApplied:             p.SgkCeilingApplied,
		MinWageExemption:              p.MinWageExemption,
		CumulativeGrossEarnings:       p.CumulativeGrossEarnings,
		IncomeTax:                     p.IncomeTax,
		SocialSecurityEmployee:        p.SocialSecurityEmployee,
		SocialSecurityEmployer:        p.SocialSecurityEmployer,
		UnemploymentInsuranceEmployee: p.UnemploymentInsuranceEmployee,
		UnemploymentInsuranceEmployer: p.UnemploymentInsuranceEmployer,
		StampTax:                      p.StampTax,
		OtherDeductions:               p.OtherDeductions,
		TotalDeductions:               p.TotalDeductions,
		NetSalary:                     p.NetSalary,

		Status:           string(p.Status),
		CalculatedAt:     formatTime(p.CalculatedAt),
		ApprovedAt:       formatTime(p.ApprovedAt),
		PaidAt:           formatTime(p.PaidAt),
		PaymentReference: p.PaymentReference,
		Notes:            p.Notes,
	}
}

func mapToItemResponse(item payroll.PayrollItem) payroll.PayrollItemResponse {
	return payroll.PayrollItemResponse{
		ID:          item.ID,
		PayrollID:   item.PayrollID,
		Code:        item.Code,
		Name:        item.Name,
		ItemType:    string(item.ItemType),
		Amount:      item.Amount,
		Quantity:    item.Quantity,
		Rate:        item.Rate,
		IsTaxable:   item.IsTaxable,
		IsRecurring: item.IsRecurring,
		SortOrder:   item.SortOrder,
	}
}

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	str := t.Format(time.RFC3339)
	return &str
}
