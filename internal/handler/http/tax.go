package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/stocker-hr/payroll-backend-go/internal/domain/tax"
	"github.com/stocker-hr/payroll-backend-go/internal/handler/http/response"
)

type TaxHandler interface {
	Publish(w http.ResponseWriter, r *http.Request)
	GetByFiscalYear(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
}

type taxHandlerImpl struct {
	taxService tax.TaxService
}

func NewTaxHandler(taxService tax.TaxService) TaxHandler {
	return &taxHandlerImpl{taxService: taxService}
}

func (h *taxHandlerImpl) Publish(w http.ResponseWriter, r *http.Request) {
	var req tax.PublishBracketTableRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.taxService.Publish(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Bracket table published", result)
}

func (h *taxHandlerImpl) GetByFiscalYear(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		response.BadRequest(w, "A valid fiscal year is required", nil)
		return
	}

	result, err := h.taxService.GetByFiscalYear(r.Context(), year)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *taxHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	result, err := h.taxService.List(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
