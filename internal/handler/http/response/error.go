package response

import (
	"errors"
	"net/http"

	"github.com/stocker-hr/payroll-backend-go/internal/domain/payroll"
	"github.com/stocker-hr/payroll-backend-go/internal/domain/payslip"
	"github.com/stocker-hr/payroll-backend-go/internal/domain/tax"
	"github.com/stocker-hr/payroll-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Tax domain errors
	case errors.Is(err, tax.ErrBracketTableNotFound):
		NotFound(w, "Bracket table not found for fiscal year")
	case errors.Is(err, tax.ErrBracketTableAlreadyExists):
		Conflict(w, "Bracket table already published for fiscal year")
	case errors.Is(err, tax.ErrInvalidBracketTable):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, tax.ErrFloorAboveCeiling):
		BadRequest(w, "SGK floor exceeds ceiling", nil)

	// Payroll domain errors
	case errors.Is(err, payroll.ErrPayrollNotFound):
		NotFound(w, "Payroll not found")
	case errors.Is(err, payroll.ErrPayrollItemNotFound):
		NotFound(w, "Payroll item not found")
	case errors.Is(err, payroll.ErrPayrollAlreadyExists):
		Conflict(w, "Payroll already exists for this employee and period")
	case errors.Is(err, payroll.ErrDuplicatePeriod):
		Conflict(w, "Period already committed for this employee")
	case errors.Is(err, payroll.ErrConcurrentModification):
		Conflict(w, "Cumulative state changed concurrently, retry the operation")
	case errors.Is(err, payroll.ErrInvalidStatusTransition):
		Conflict(w, "Payroll status does not allow this operation")
	case errors.Is(err, payroll.ErrOnlyDraftDeletable):
		Conflict(w, "Only draft payrolls can be deleted")
	case errors.Is(err, payroll.ErrItemsLockedAfterApproval):
		Conflict(w, "Items cannot change after approval")
	case errors.Is(err, payroll.ErrInvalidPeriod):
		BadRequest(w, "Invalid payroll period", nil)
	case errors.Is(err, payroll.ErrNegativeTaxBase):
		BadRequest(w, "Tax base cannot be negative", nil)
	case errors.Is(err, payroll.ErrInconsistentTotals):
		BadRequest(w, "Payroll totals do not reconcile", nil)

	// Payslip domain errors
	case errors.Is(err, payslip.ErrPayslipNotFound):
		NotFound(w, "Payslip not found")
	case errors.Is(err, payslip.ErrPayslipAlreadyExists):
		Conflict(w, "Payslip already generated for this payroll")
	case errors.Is(err, payslip.ErrPayrollNotCalculated):
		Conflict(w, "Payroll has not been calculated")
	case errors.Is(err, payslip.ErrPayrollNotFinalized):
		Conflict(w, "Payroll must be approved before generating a payslip")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
