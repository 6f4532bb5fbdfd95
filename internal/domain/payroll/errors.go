package payroll

import "errors"

var (
	ErrPayrollNotFound          = errors.New("payroll not found")
	ErrPayrollAlreadyExists     = errors.New("payroll already exists for this period")
	ErrPayrollItemNotFound      = errors.New("payroll item not found")
	ErrInvalidPeriod            = errors.New("invalid payroll period")
	ErrInvalidStatusTransition  = errors.New("payroll status does not allow this operation")
	ErrNegativeTaxBase          = errors.New("taxable amount is negative")
	ErrDuplicatePeriod          = errors.New("period already committed for this employee and fiscal year")
	ErrConcurrentModification   = errors.New("cumulative state was modified concurrently, reload and retry")
	ErrInconsistentTotals       = errors.New("payroll totals do not reconcile with line items")
	ErrOnlyDraftDeletable       = errors.New("only draft payrolls can be deleted")
	ErrItemsLockedAfterApproval = errors.New("payroll items cannot change after approval")
)
