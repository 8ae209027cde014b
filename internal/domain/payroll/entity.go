package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

type Payroll struct {
	ID            string
	EmployeeID    string
	EmployeeName  string
	CompanyID     string
	Month         int
	Year          int
	BasicSalary   decimal.Decimal
	Deductions    decimal.Decimal
	NetSalary     decimal.Decimal
	GeneratedDate time.Time
}

// Compute fills NetSalary from the basic salary and deductions.
func (p *Payroll) Compute() {
	p.NetSalary = p.BasicSalary.Sub(p.Deductions)
}
