package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const emailConstraint = "employees_email_key"

const employeeColumns = `id, company_id, name, email, password_hash, role, avatar_url, onboarding_completed,
	manager_id, scheduled_deletion_date, termination_reason, department, job_title, phone,
	date_of_joining, created_at, updated_at`

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var emp employee.Employee
	err := row.Scan(
		&emp.ID, &emp.CompanyID, &emp.Name, &emp.Email, &emp.PasswordHash, &emp.Role,
		&emp.AvatarURL, &emp.OnboardingCompleted, &emp.ManagerID, &emp.ScheduledDeletionDate,
		&emp.TerminationReason, &emp.Department, &emp.JobTitle, &emp.Phone,
		&emp.DateOfJoining, &emp.CreatedAt, &emp.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return emp, err
}

func (e *employeeRepositoryImpl) list(ctx context.Context, query string, args ...any) ([]employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query employees: %w", err)
	}
	defer rows.Close()

	employees := []employee.Employee{}
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, emp)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return employees, nil
}

// Create implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) Create(ctx context.Context, newEmployee employee.Employee) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := `
		INSERT INTO employees (
			company_id, name, email, password_hash, role, avatar_url, onboarding_completed,
			manager_id, department, job_title, phone
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING ` + employeeColumns

	created, err := scanEmployee(q.QueryRow(ctx, query,
		newEmployee.CompanyID, newEmployee.Name, newEmployee.Email, newEmployee.PasswordHash,
		newEmployee.Role, newEmployee.AvatarURL, newEmployee.OnboardingCompleted,
		newEmployee.ManagerID, newEmployee.Department, newEmployee.JobTitle, newEmployee.Phone,
	))
	if err != nil {
		if database.IsUniqueViolation(err, emailConstraint) {
			return employee.Employee{}, employee.ErrEmailExists
		}
		return employee.Employee{}, fmt.Errorf("failed to create employee: %w", err)
	}

	return created, nil
}

// GetByID implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) GetByID(ctx context.Context, id, companyID string) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE id = $1 AND company_id = $2`
	return scanEmployee(q.QueryRow(ctx, query, id, companyID))
}

// GetByEmail implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) GetByEmail(ctx context.Context, email string) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE LOWER(email) = LOWER($1)`
	return scanEmployee(q.QueryRow(ctx, query, email))
}

// ListByCompany implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) ListByCompany(ctx context.Context, companyID string) ([]employee.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE company_id = $1 ORDER BY name, id`
	return e.list(ctx, query, companyID)
}

// ListByRole implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) ListByRole(ctx context.Context, companyID string, role user.Role) ([]employee.Employee, error) {
	query := `
		SELECT ` + employeeColumns + `
		FROM employees
		WHERE company_id = $1 AND role = $2 AND scheduled_deletion_date IS NULL
		ORDER BY created_at, id`
	return e.list(ctx, query, companyID, role)
}

// UpdateProfile implements employee.EmployeeRepository.
// An empty string clears an optional column.
func (e *employeeRepositoryImpl) UpdateProfile(ctx context.Context, id, companyID string, req employee.UpdateProfileRequest) (employee.Employee, error) {
	type update struct {
		column string
		value  any
	}
	var updates []update

	nullable := func(column string, v *string) {
		if v == nil {
			return
		}
		if *v == "" {
			updates = append(updates, update{column, nil})
			return
		}
		updates = append(updates, update{column, *v})
	}

	if req.Name != nil && *req.Name != "" {
		updates = append(updates, update{"name", *req.Name})
	}
	nullable("phone", req.Phone)
	nullable("department", req.Department)
	nullable("job_title", req.JobTitle)
	nullable("manager_id", req.ManagerID)

	if len(updates) == 0 {
		return e.GetByID(ctx, id, companyID)
	}

	setClauses := make([]string, 0, len(updates)+1)
	args := make([]any, 0, len(updates)+2)
	for i, u := range updates {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", u.column, i+1))
		args = append(args, u.value)
	}
	setClauses = append(setClauses, "updated_at = NOW()")
	i := len(updates) + 1
	args = append(args, id, companyID)

	query := fmt.Sprintf("UPDATE employees SET %s WHERE id = $%d AND company_id = $%d RETURNING %s",
		strings.Join(setClauses, ", "), i, i+1, employeeColumns)

	q := GetQuerier(ctx, e.db)
	return scanEmployee(q.QueryRow(ctx, query, args...))
}

// UpdateAvatar implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) UpdateAvatar(ctx context.Context, id, companyID, avatarURL string) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)
	query := `
		UPDATE employees SET avatar_url = $1, updated_at = NOW()
		WHERE id = $2 AND company_id = $3
		RETURNING ` + employeeColumns
	return scanEmployee(q.QueryRow(ctx, query, avatarURL, id, companyID))
}

// CompleteOnboarding implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) CompleteOnboarding(ctx context.Context, id, companyID string) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)
	query := `
		UPDATE employees SET onboarding_completed = TRUE, updated_at = NOW()
		WHERE id = $1 AND company_id = $2
		RETURNING ` + employeeColumns
	return scanEmployee(q.QueryRow(ctx, query, id, companyID))
}

// ScheduleDeletion implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) ScheduleDeletion(ctx context.Context, id, companyID string, date time.Time, reason string) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)
	query := `
		UPDATE employees
		SET scheduled_deletion_date = $1, termination_reason = $2, updated_at = NOW()
		WHERE id = $3 AND company_id = $4 AND scheduled_deletion_date IS NULL
		RETURNING ` + employeeColumns

	emp, err := scanEmployee(q.QueryRow(ctx, query, date, reason, id, companyID))
	if errors.Is(err, employee.ErrEmployeeNotFound) {
		// Distinguish a missing employee from one that is already scheduled.
		if _, getErr := e.GetByID(ctx, id, companyID); getErr == nil {
			return employee.Employee{}, employee.ErrAlreadyScheduledForRemoval
		}
	}
	return emp, err
}

// ListDeletionDue implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) ListDeletionDue(ctx context.Context, now time.Time) ([]employee.Employee, error) {
	query := `
		SELECT ` + employeeColumns + `
		FROM employees
		WHERE scheduled_deletion_date IS NOT NULL AND scheduled_deletion_date <= $1
			AND deletion_due_published_at IS NULL
		ORDER BY scheduled_deletion_date, id`
	return e.list(ctx, query, now)
}

// MarkDeletionDuePublished implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) MarkDeletionDuePublished(ctx context.Context, ids []string, at time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	q := GetQuerier(ctx, e.db)
	_, err := q.Exec(ctx, `
		UPDATE employees SET deletion_due_published_at = $1, updated_at = NOW()
		WHERE id = ANY($2::uuid[]) AND deletion_due_published_at IS NULL`, at, ids)
	if err != nil {
		return fmt.Errorf("failed to mark deletion-due published: %w", err)
	}
	return nil
}
