package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

// leaveRequestSelect joins the requester's name onto a row source aliased lr.
const leaveRequestSelect = `
	SELECT lr.id, lr.employee_id, e.name, lr.company_id, lr.leave_type, lr.start_date, lr.end_date,
		lr.reason, lr.status, lr.approver_id, lr.decided_at, lr.created_at, lr.updated_at`

type leaveRequestRepositoryImpl struct {
	db *database.DB
}

func NewLeaveRequestRepository(db *database.DB) leave.LeaveRequestRepository {
	return &leaveRequestRepositoryImpl{db: db}
}

func scanLeaveRequest(row pgx.Row) (leave.LeaveRequest, error) {
	var lr leave.LeaveRequest
	err := row.Scan(
		&lr.ID, &lr.EmployeeID, &lr.EmployeeName, &lr.CompanyID, &lr.LeaveType, &lr.StartDate, &lr.EndDate,
		&lr.Reason, &lr.Status, &lr.ApproverID, &lr.DecidedAt, &lr.CreatedAt, &lr.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
	}
	return lr, err
}

func (r *leaveRequestRepositoryImpl) list(ctx context.Context, query string, args ...any) ([]leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query leave requests: %w", err)
	}
	defer rows.Close()

	requests := []leave.LeaveRequest{}
	for rows.Next() {
		lr, err := scanLeaveRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leave request: %w", err)
		}
		requests = append(requests, lr)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return requests, nil
}

// Create implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) Create(ctx context.Context, request leave.LeaveRequest) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		WITH lr AS (
			INSERT INTO leave_requests (employee_id, company_id, leave_type, start_date, end_date, reason, status, approver_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING *
		)` + leaveRequestSelect + `
		FROM lr JOIN employees e ON e.id = lr.employee_id`

	created, err := scanLeaveRequest(q.QueryRow(ctx, query,
		request.EmployeeID, request.CompanyID, request.LeaveType, request.StartDate, request.EndDate,
		request.Reason, leave.StatusPending, request.ApproverID,
	))
	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("failed to create leave request: %w", err)
	}
	return created, nil
}

// GetByID implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) GetByID(ctx context.Context, id, companyID string) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := leaveRequestSelect + `
		FROM leave_requests lr JOIN employees e ON e.id = lr.employee_id
		WHERE lr.id = $1 AND lr.company_id = $2`

	return scanLeaveRequest(q.QueryRow(ctx, query, id, companyID))
}

// ListByEmployee implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) ListByEmployee(ctx context.Context, employeeID string) ([]leave.LeaveRequest, error) {
	query := leaveRequestSelect + `
		FROM leave_requests lr JOIN employees e ON e.id = lr.employee_id
		WHERE lr.employee_id = $1
		ORDER BY lr.created_at DESC`
	return r.list(ctx, query, employeeID)
}

// ListPendingForApprover implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) ListPendingForApprover(ctx context.Context, approverID string) ([]leave.LeaveRequest, error) {
	query := leaveRequestSelect + `
		FROM leave_requests lr JOIN employees e ON e.id = lr.employee_id
		WHERE lr.approver_id = $1 AND lr.status = $2
		ORDER BY lr.created_at`
	return r.list(ctx, query, approverID, leave.StatusPending)
}

// Decide implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) Decide(ctx context.Context, id string, status leave.Status) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		WITH lr AS (
			UPDATE leave_requests
			SET status = $1, decided_at = NOW(), updated_at = NOW()
			WHERE id = $2 AND status = $3
			RETURNING *
		)` + leaveRequestSelect + `
		FROM lr JOIN employees e ON e.id = lr.employee_id`

	decided, err := scanLeaveRequest(q.QueryRow(ctx, query, status, id, leave.StatusPending))
	if errors.Is(err, leave.ErrLeaveRequestNotFound) {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestAlreadyProcessed
	}
	return decided, err
}
