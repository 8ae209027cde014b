package payroll

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/config"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/database"
	"github.com/shopspring/decimal"
)

type PayrollServiceImpl struct {
	payrollRepo  payroll.PayrollRepository
	employeeRepo employee.EmployeeRepository
	transactor   database.Transactor
	rates        config.PayrollConfig
	now          func() time.Time
}

func NewPayrollService(
	payrollRepo payroll.PayrollRepository,
	employeeRepo employee.EmployeeRepository,
	transactor database.Transactor,
	rates config.PayrollConfig,
) payroll.PayrollService {
	return &PayrollServiceImpl{
		payrollRepo:  payrollRepo,
		employeeRepo: employeeRepo,
		transactor:   transactor,
		rates:        rates,
		now:          time.Now,
	}
}

// Process implements payroll.PayrollService.
// Employees scheduled for removal are not paid. Either every payslip of the
// period is written or none is.
func (s *PayrollServiceImpl) Process(ctx context.Context, session user.Session, req payroll.ProcessPayrollRequest) (payroll.ProcessPayrollResponse, error) {
	if !session.Can(user.PermissionPayrollProcess) {
		return payroll.ProcessPayrollResponse{}, employee.ErrForbidden
	}
	if err := req.Validate(); err != nil {
		return payroll.ProcessPayrollResponse{}, err
	}

	exists, err := s.payrollRepo.ExistsForPeriod(ctx, session.CompanyID, req.Month, req.Year)
	if err != nil {
		return payroll.ProcessPayrollResponse{}, fmt.Errorf("failed to check payroll period: %w", err)
	}
	if exists {
		return payroll.ProcessPayrollResponse{}, payroll.ErrPayrollAlreadyProcessed
	}

	employees, err := s.employeeRepo.ListByCompany(ctx, session.CompanyID)
	if err != nil {
		return payroll.ProcessPayrollResponse{}, err
	}

	var eligible []employee.Employee
	for _, e := range employees {
		if !e.ScheduledForDeletion() {
			eligible = append(eligible, e)
		}
	}
	if len(eligible) == 0 {
		return payroll.ProcessPayrollResponse{}, payroll.ErrNoEligibleEmployees
	}

	result := payroll.ProcessPayrollResponse{
		Month:    req.Month,
		Year:     req.Year,
		TotalNet: decimal.Zero,
		Payslips: make([]payroll.PayslipResponse, 0, len(eligible)),
	}
	generated := s.now().UTC()

	err = s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		for _, e := range eligible {
			slip := payroll.Payroll{
				EmployeeID:    e.ID,
				CompanyID:     session.CompanyID,
				Month:         req.Month,
				Year:          req.Year,
				BasicSalary:   s.rates.BasicSalary,
				Deductions:    s.rates.Deductions,
				GeneratedDate: generated,
			}
			slip.Compute()

			created, err := s.payrollRepo.Create(ctx, slip)
			if err != nil {
				return fmt.Errorf("failed to create payslip for %s: %w", e.ID, err)
			}
			created.EmployeeName = e.Name

			result.Payslips = append(result.Payslips, payroll.NewPayslipResponse(created))
			result.TotalNet = result.TotalNet.Add(created.NetSalary)
		}
		return nil
	})
	if err != nil {
		return payroll.ProcessPayrollResponse{}, err
	}

	result.Processed = len(result.Payslips)
	slog.Info("Payroll processed",
		"company_id", session.CompanyID,
		"period", fmt.Sprintf("%04d-%02d", req.Year, req.Month),
		"payslips", result.Processed,
		"total_net", result.TotalNet.StringFixed(2),
	)
	return result, nil
}

// ListMine implements payroll.PayrollService.
func (s *PayrollServiceImpl) ListMine(ctx context.Context, session user.Session) ([]payroll.PayslipResponse, error) {
	slips, err := s.payrollRepo.ListByEmployee(ctx, session.EmployeeID)
	if err != nil {
		return nil, err
	}

	responses := make([]payroll.PayslipResponse, 0, len(slips))
	for _, p := range slips {
		responses = append(responses, payroll.NewPayslipResponse(p))
	}
	return responses, nil
}
