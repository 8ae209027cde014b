package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const payrollPeriodConstraint = "payrolls_employee_period_key"

const payrollSelect = `
	SELECT p.id, p.employee_id, e.name, p.company_id, p.month, p.year,
		p.basic_salary, p.deductions, p.net_salary, p.generated_date`

type payrollRepositoryImpl struct {
	db *database.DB
}

func NewPayrollRepository(db *database.DB) payroll.PayrollRepository {
	return &payrollRepositoryImpl{db: db}
}

func scanPayroll(row pgx.Row) (payroll.Payroll, error) {
	var p payroll.Payroll
	err := row.Scan(
		&p.ID, &p.EmployeeID, &p.EmployeeName, &p.CompanyID, &p.Month, &p.Year,
		&p.BasicSalary, &p.Deductions, &p.NetSalary, &p.GeneratedDate,
	)
	return p, err
}

func (r *payrollRepositoryImpl) list(ctx context.Context, query string, args ...any) ([]payroll.Payroll, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query payrolls: %w", err)
	}
	defer rows.Close()

	payslips := []payroll.Payroll{}
	for rows.Next() {
		p, err := scanPayroll(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payroll: %w", err)
		}
		payslips = append(payslips, p)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return payslips, nil
}

// Create implements payroll.PayrollRepository.
func (r *payrollRepositoryImpl) Create(ctx context.Context, p payroll.Payroll) (payroll.Payroll, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		WITH p AS (
			INSERT INTO payrolls (employee_id, company_id, month, year, basic_salary, deductions, net_salary)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING *
		)` + payrollSelect + `
		FROM p JOIN employees e ON e.id = p.employee_id`

	created, err := scanPayroll(q.QueryRow(ctx, query,
		p.EmployeeID, p.CompanyID, p.Month, p.Year, p.BasicSalary, p.Deductions, p.NetSalary,
	))
	if err != nil {
		if database.IsUniqueViolation(err, payrollPeriodConstraint) {
			return payroll.Payroll{}, payroll.ErrPayrollAlreadyProcessed
		}
		return payroll.Payroll{}, fmt.Errorf("failed to create payroll: %w", err)
	}
	return created, nil
}

// ExistsForPeriod implements payroll.PayrollRepository.
func (r *payrollRepositoryImpl) ExistsForPeriod(ctx context.Context, companyID string, month, year int) (bool, error) {
	q := GetQuerier(ctx, r.db)

	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM payrolls WHERE company_id = $1 AND month = $2 AND year = $3)`
	if err := q.QueryRow(ctx, query, companyID, month, year).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check payroll period: %w", err)
	}
	return exists, nil
}

// ListByEmployee implements payroll.PayrollRepository.
func (r *payrollRepositoryImpl) ListByEmployee(ctx context.Context, employeeID string) ([]payroll.Payroll, error) {
	query := payrollSelect + `
		FROM payrolls p JOIN employees e ON e.id = p.employee_id
		WHERE p.employee_id = $1
		ORDER BY p.year DESC, p.month DESC`
	return r.list(ctx, query, employeeID)
}

// ListByPeriod implements payroll.PayrollRepository.
func (r *payrollRepositoryImpl) ListByPeriod(ctx context.Context, companyID string, month, year int) ([]payroll.Payroll, error) {
	query := payrollSelect + `
		FROM payrolls p JOIN employees e ON e.id = p.employee_id
		WHERE p.company_id = $1 AND p.month = $2 AND p.year = $3
		ORDER BY e.name`
	return r.list(ctx, query, companyID, month, year)
}
