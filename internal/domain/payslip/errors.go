package payslip

import "errors"

var (
	ErrPayslipNotFound      = errors.New("payslip not found")
	ErrPayslipAlreadyExists = errors.New("payslip already generated for this payroll")
	ErrPayrollNotCalculated = errors.New("payroll has not been calculated")
	ErrPayrollNotFinalized  = errors.New("payroll must be approved or paid before a payslip is issued")
)
