package payroll

import "errors"

var (
	ErrPayrollAlreadyProcessed = errors.New("payroll for this period has already been processed")
	ErrNoEligibleEmployees     = errors.New("no active employees to pay")
)
