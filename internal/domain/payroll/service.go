package payroll

import (
	"context"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/user"
)

type PayrollService interface {
	// Process generates payslips for every active employee of the caller's company.
	Process(ctx context.Context, session user.Session, req ProcessPayrollRequest) (ProcessPayrollResponse, error)
	ListMine(ctx context.Context, session user.Session) ([]PayslipResponse, error)
}
