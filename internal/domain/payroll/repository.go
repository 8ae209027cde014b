package payroll

import "context"

type PayrollRepository interface {
	// Create yields ErrPayrollAlreadyProcessed when the employee already has a payslip for the period.
	Create(ctx context.Context, p Payroll) (Payroll, error)
	ExistsForPeriod(ctx context.Context, companyID string, month, year int) (bool, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]Payroll, error)
	ListByPeriod(ctx context.Context, companyID string, month, year int) ([]Payroll, error)
}
