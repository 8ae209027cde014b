package payroll

import (
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type ProcessPayrollRequest struct {
	Month int `json:"month"`
	Year  int `json:"year"`
}

func (r *ProcessPayrollRequest) Validate() error {
	var errs validator.ValidationErrors
	if r.Month < 1 || r.Month > 12 {
		errs.Add("month", "month must be between 1 and 12")
	}
	if r.Year < 2000 || r.Year > 2100 {
		errs.Add("year", "year must be between 2000 and 2100")
	}
	return errs.Err()
}

type PayslipResponse struct {
	ID            string          `json:"id"`
	EmployeeID    string          `json:"employee_id"`
	EmployeeName  string          `json:"employee_name,omitempty"`
	Month         int             `json:"month"`
	Year          int             `json:"year"`
	BasicSalary   decimal.Decimal `json:"basic_salary"`
	Deductions    decimal.Decimal `json:"deductions"`
	NetSalary     decimal.Decimal `json:"net_salary"`
	GeneratedDate time.Time       `json:"generated_date"`
}

func NewPayslipResponse(p Payroll) PayslipResponse {
	return PayslipResponse{
		ID:            p.ID,
		EmployeeID:    p.EmployeeID,
		EmployeeName:  p.EmployeeName,
		Month:         p.Month,
		Year:          p.Year,
		BasicSalary:   p.BasicSalary,
		Deductions:    p.Deductions,
		NetSalary:     p.NetSalary,
		GeneratedDate: p.GeneratedDate,
	}
}

type ProcessPayrollResponse struct {
	Month     int               `json:"month"`
	Year      int               `json:"year"`
	Processed int               `json:"processed"`
	TotalNet  decimal.Decimal   `json:"total_net"`
	Payslips  []PayslipResponse `json:"payslips"`
}
