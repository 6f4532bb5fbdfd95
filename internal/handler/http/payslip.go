package http

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/stocker-hr/payroll-backend-go/internal/domain/payslip"
	"github.com/stocker-hr/payroll-backend-go/internal/handler/http/response"
	"github.com/stocker-hr/payroll-backend-go/internal/pkg/validator"
)

type PayslipHandler interface {
	Generate(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	GetByPayroll(w http.ResponseWriter, r *http.Request)
	ListByEmployee(w http.ResponseWriter, r *http.Request)
	DownloadPDF(w http.ResponseWriter, r *http.Request)
}

type payslipHandlerImpl struct {
	payslipService payslip.PayslipService
}

func NewPayslipHandler(payslipService payslip.PayslipService) PayslipHandler {
	return &payslipHandlerImpl{payslipService: payslipService}
}

func (h *payslipHandlerImpl) Generate(w http.ResponseWriter, r *http.Request) {
	payrollID := chi.URLParam(r, "id")
	if payrollID == "" {
		response.BadRequest(w, "Payroll ID is required", nil)
		return
	}

	result, err := h.payslipService.Generate(r.Context(), payrollID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Payslip generated", result)
}

func (h *payslipHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !validator.IsValidUUID(id) {
		response.BadRequest(w, "A valid payslip ID is required", nil)
		return
	}

	result, err := h.payslipService.GetPayslip(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payslipHandlerImpl) GetByPayroll(w http.ResponseWriter, r *http.Request) {
	payrollID := chi.URLParam(r, "id")
	if payrollID == "" {
		response.BadRequest(w, "Payroll ID is required", nil)
		return
	}

	result, err := h.payslipService.GetByPayroll(r.Context(), payrollID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payslipHandlerImpl) ListByEmployee(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeID")
	if employeeID == "" {
		response.BadRequest(w, "Employee ID is required", nil)
		return
	}

	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil || year < 2020 {
		response.BadRequest(w, "A valid year query parameter is required", nil)
		return
	}

	result, err := h.payslipService.ListByEmployee(r.Context(), employeeID, year)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payslipHandlerImpl) DownloadPDF(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !validator.IsValidUUID(id) {
		response.BadRequest(w, "A valid payslip ID is required", nil)
		return
	}

	data, err := h.payslipService.RenderPDF(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.PDF(w, fmt.Sprintf("payslip-%s.pdf", id), data)
}
