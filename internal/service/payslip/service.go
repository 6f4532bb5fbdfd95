package payslip

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/shopspring/decimal"

	"github.com/stocker-hr/payroll-backend-go/internal/domain/payroll"
	"github.com/stocker-hr/payroll-backend-go/internal/domain/payslip"
)

type PayslipServiceImpl struct {
	repo        payslip.PayslipRepository
	payrollRepo payroll.PayrollRepository
	stateRepo   payroll.CumulativeStateRepository
}

func NewPayslipService(
	repo payslip.PayslipRepository,
	payrollRepo payroll.PayrollRepository,
	stateRepo payroll.CumulativeStateRepository,
) payslip.PayslipService {
	return &PayslipServiceImpl{
		repo:        repo,
		payrollRepo: payrollRepo,
		stateRepo:   stateRepo,
	}
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

// Generate snapshots an approved or paid payroll into a payslip. The payroll
// and the committed cumulative state are read once; after this the payslip
// never changes, even if the payroll is later cancelled.
func (s *PayslipServiceImpl) Generate(ctx context.Context, payrollID string) (payslip.PayslipResponse, error) {
	tenantID, err := getClaimsFromContext(ctx)
	if err != nil {
		return payslip.PayslipResponse{}, err
	}

	p, err := s.payrollRepo.GetByID(ctx, payrollID, tenantID)
	if err != nil {
		return payslip.PayslipResponse{}, err
	}
	if p.Status != payroll.PayrollStatusApproved && p.Status != payroll.PayrollStatusPaid {
		if p.CalculatedAt == nil {
			return payslip.PayslipResponse{}, payslip.ErrPayrollNotCalculated
		}
		return payslip.PayslipResponse{}, payslip.ErrPayrollNotFinalized
	}

	_, err = s.repo.GetByPayrollID(ctx, payrollID, tenantID)
	if err == nil {
		return payslip.PayslipResponse{}, payslip.ErrPayslipAlreadyExists
	}
	if !errors.Is(err, payslip.ErrPayslipNotFound) {
		return payslip.PayslipResponse{}, err
	}

	state, err := s.stateRepo.Get(ctx, tenantID, p.EmployeeID, p.Year)
	if err != nil {
		return payslip.PayslipResponse{}, err
	}

	items, err := s.payrollRepo.ListItems(ctx, p.ID, tenantID)
	if err != nil {
		return payslip.PayslipResponse{}, err
	}

	slip := assemble(p, state, items)

	created, err := s.repo.Create(ctx, slip)
	if err != nil {
		return payslip.PayslipResponse{}, err
	}

	return mapToResponse(created), nil
}

func (s *PayslipServiceImpl) GetPayslip(ctx context.Context, id string) (payslip.PayslipResponse, error) {
	tenantID, err := getClaimsFromContext(ctx)
	if err != nil {
		return payslip.PayslipResponse{}, err
	}

	slip, err := s.repo.GetByID(ctx, id, tenantID)
	if err != nil {
		return payslip.PayslipResponse{}, err
	}

	return mapToResponse(slip), nil
}

func (s *PayslipServiceImpl) GetByPayroll(ctx context.Context, payrollID string) (payslip.PayslipResponse, error) {
	tenantID, err := getClaimsFromContext(ctx)
	if err != nil {
		return payslip.PayslipResponse{}, err
	}

	slip, err := s.repo.GetByPayrollID(ctx, payrollID, tenantID)
	if err != nil {
		return payslip.PayslipResponse{}, err
	}

	return mapToResponse(slip), nil
}

func (s *PayslipServiceImpl) ListByEmployee(ctx context.Context, employeeID string, year int) ([]payslip.PayslipResponse, error) {
	tenantID, err := getClaimsFromContext(ctx)
	if err != nil {
		return nil, err
	}

	slips, err := s.repo.ListByEmployee(ctx, tenantID, employeeID, year)
	if err != nil {
		return nil, err
	}

	result := make([]payslip.PayslipResponse, 0, len(slips))
	for _, slip := range slips {
		result = append(result, mapToResponse(slip))
	}

	return result, nil
}

func (s *PayslipServiceImpl) RenderPDF(ctx context.Context, id string) ([]byte, error) {
	tenantID, err := getClaimsFromContext(ctx)
	if err != nil {
		return nil, err
	}

	slip, err := s.repo.GetByID(ctx, id, tenantID)
	if err != nil {
		return nil, err
	}

	return renderPDF(slip)
}

// assemble builds the payslip value from the payroll's computed fields, the
// committed cumulative state and the payroll items. Fixed earnings become
// named lines, items keep their own names, statutory deductions follow.
func assemble(p payroll.Payroll, state payroll.CumulativeState, items []payroll.PayrollItem) payslip.Payslip {
	lines := buildLines(p, items)

	totalEarnings := p.GrossEarnings.Sub(p.Allowances)

	return payslip.Payslip{
		TenantID:      p.TenantID,
		EmployeeID:    p.EmployeeID,
		PayrollID:     p.ID,
		PayslipNumber: payslipNumber(p),
		Year:          p.Year,
		Month:         p.Month,
		Currency:      p.Currency,

		GrossEarnings:   p.GrossEarnings,
		TotalEarnings:   totalEarnings,
		TotalAllowances: p.Allowances,
		TotalDeductions: p.TotalDeductions,

		IncomeTax:                     p.IncomeTax,
		StampTax:                      p.StampTax,
		SocialSecurityEmployee:        p.SocialSecurityEmployee,
		UnemploymentInsuranceEmployee: p.UnemploymentInsuranceEmployee,
		SocialSecurityEmployer:        p.SocialSecurityEmployer,
		UnemploymentInsuranceEmployer: p.UnemploymentInsuranceEmployer,
		TotalEmployerCost:             p.EmployerCost(),
		NetSalary:                     p.NetSalary,

		MinWageExemption:        p.MinWageExemption,
		CumulativeGrossEarnings: state.CumulativeGrossEarnings,
		CumulativeTaxBase:       state.CumulativeTaxBase,

		WorkDays:      p.WorkDays,
		AbsentDays:    p.AbsentDays,
		OvertimeHours: p.OvertimeHours,
		LeaveDays:     p.LeaveDays,
		HolidayDays:   p.HolidayDays,

		Items:       lines,
		GeneratedAt: time.Now(),
	}
}

// buildLines produces the ordered presentation lines. Zero-amount fixed
// earnings are skipped so a payslip without overtime does not show an empty
// overtime row.
func buildLines(p payroll.Payroll, items []payroll.PayrollItem) []payslip.PayslipItem {
	var lines []payslip.PayslipItem
	order := 0

	earning := func(name string, amount decimal.Decimal, qty, rate *decimal.Decimal) {
		if amount.IsZero() {
			return
		}
		lines = append(lines, payslip.PayslipItem{
			TenantID:  p.TenantID,
			Name:      name,
			ItemType:  payslip.ItemTypeEarning,
			Amount:    amount,
			Quantity:  qty,
			Rate:      rate,
			SortOrder: order,
		})
		order++
	}
	deduction := func(name string, amount decimal.Decimal) {
		if amount.IsZero() {
			return
		}
		lines = append(lines, payslip.PayslipItem{
			TenantID:  p.TenantID,
			Name:      name,
			ItemType:  payslip.ItemTypeDeduction,
			Amount:    amount,
			SortOrder: order,
		})
		order++
	}

	var overtimeHours *decimal.Decimal
	if !p.OvertimeHours.IsZero() {
		h := p.OvertimeHours
		overtimeHours = &h
	}

	earning("Base salary", p.BaseSalary, nil, nil)
	earning("Overtime pay", p.OvertimePay, overtimeHours, nil)
	earning("Bonus", p.Bonus, nil, nil)
	earning("Allowances", p.Allowances, nil, nil)
	earning("Other earnings", p.OtherEarnings, nil, nil)

	for _, item := range items {
		if item.ItemType != payroll.ItemTypeEarning {
			continue
		}
		earning(item.Name, item.Amount, item.Quantity, item.Rate)
	}

	deduction("Income tax", p.IncomeTax)
	deduction("Stamp tax", p.StampTax)
	deduction("Social security (employee)", p.SocialSecurityEmployee)
	deduction("Unemployment insurance (employee)", p.UnemploymentInsuranceEmployee)

	for _, item := range items {
		if item.ItemType != payroll.ItemTypeDeduction {
			continue
		}
		deduction(item.Name, item.Amount)
	}

	return lines
}

// payslipNumber derives a stable human-readable number from the period and
// the payroll identity, e.g. PS-202501-7F3A21C9.
func payslipNumber(p payroll.Payroll) string {
	ref := strings.ReplaceAll(p.ID, "-", "")
	if len(ref) > 8 {
		ref = ref[:8]
	}
	return fmt.Sprintf("PS-%d%02d-%s", p.Year, p.Month, strings.ToUpper(ref))
}

func mapToResponse(slip payslip.Payslip) payslip.PayslipResponse {
	items := make([]payslip.PayslipItemResponse, 0, len(slip.Items))
	for _, item := range slip.Items {
		items = append(items, payslip.PayslipItemResponse{
			Name:        item.Name,
			ItemType:    string(item.ItemType),
			Amount:      item.Amount,
			Quantity:    item.Quantity,
			Rate:        item.Rate,
			Description: item.Description,
			SortOrder:   item.SortOrder,
		})
	}

	return payslip.PayslipResponse{
		ID:            slip.ID,
		EmployeeID:    slip.EmployeeID,
		PayrollID:     slip.PayrollID,
		PayslipNumber: slip.PayslipNumber,
		Year:          slip.Year,
		Month:         slip.Month,
		Currency:      slip.Currency,

		GrossEarnings:   slip.GrossEarnings,
		TotalEarnings:   slip.TotalEarnings,
		TotalAllowances: slip.TotalAllowances,
		TotalDeductions: slip.TotalDeductions,

		IncomeTax:                     slip.IncomeTax,
		StampTax:                      slip.StampTax,
		SocialSecurityEmployee:        slip.SocialSecurityEmployee,
		UnemploymentInsuranceEmployee: slip.UnemploymentInsuranceEmployee,
		TotalEmployerCost:             slip.TotalEmployerCost,
		NetSalary:                     slip.NetSalary,

		MinWageExemption:        slip.MinWageExemption,
		CumulativeGrossEarnings: slip.CumulativeGrossEarnings,

		WorkDays:      slip.WorkDays,
		AbsentDays:    slip.AbsentDays,
		OvertimeHours: slip.OvertimeHours,
		LeaveDays:     slip.LeaveDays,
		HolidayDays:   slip.HolidayDays,

		Items:       items,
		GeneratedAt: slip.GeneratedAt.Format(time.RFC3339),
	}
}
