package leave

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/database"
)

type LeaveServiceImpl struct {
	leave.LeaveRequestRepository
	employeeRepo   employee.EmployeeRepository
	attendanceRepo attendance.AttendanceRepository
	transactor     database.Transactor
	notifier       notification.Sink
}

func NewLeaveService(
	leaveRequestRepo leave.LeaveRequestRepository,
	employeeRepo employee.EmployeeRepository,
	attendanceRepo attendance.AttendanceRepository,
	transactor database.Transactor,
	notifier notification.Sink,
) leave.LeaveService {
	return &LeaveServiceImpl{
		LeaveRequestRepository: leaveRequestRepo,
		employeeRepo:           employeeRepo,
		attendanceRepo:         attendanceRepo,
		transactor:             transactor,
		notifier:               notifier,
	}
}

// Submit implements leave.LeaveService.
func (l *LeaveServiceImpl) Submit(ctx context.Context, session user.Session, req leave.SubmitLeaveRequest) (leave.LeaveRequestResponse, error) {
	if !session.Can(user.PermissionLeaveCreate) {
		return leave.LeaveRequestResponse{}, employee.ErrForbidden
	}
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	requester, err := l.employeeRepo.GetByID(ctx, session.EmployeeID, session.CompanyID)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	approverID, err := l.findApprover(ctx, requester)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	start, end := req.Period()
	created, err := l.LeaveRequestRepository.Create(ctx, leave.LeaveRequest{
		EmployeeID: requester.ID,
		CompanyID:  requester.CompanyID,
		LeaveType:  leave.Type(req.LeaveType),
		StartDate:  start,
		EndDate:    end,
		Reason:     req.Reason,
		Status:     leave.StatusPending,
		ApproverID: approverID,
	})
	if err != nil {
		return leave.LeaveRequestResponse{}, fmt.Errorf("failed to create leave request: %w", err)
	}

	response := leave.NewLeaveRequestResponse(created)
	l.notifier.Notify(ctx, []string{approverID}, notification.Event{
		Type: notification.EventLeaveSubmitted,
		Data: response,
	})
	return response, nil
}

// findApprover picks the requester's manager, falling back to a company admin.
// An admin with no other admin around approves their own request.
func (l *LeaveServiceImpl) findApprover(ctx context.Context, requester employee.Employee) (string, error) {
	if requester.ManagerID != nil && *requester.ManagerID != requester.ID {
		manager, err := l.employeeRepo.GetByID(ctx, *requester.ManagerID, requester.CompanyID)
		switch {
		case err == nil && !manager.ScheduledForDeletion():
			return manager.ID, nil
		case err != nil && !errors.Is(err, employee.ErrEmployeeNotFound):
			return "", err
		}
	}

	admins, err := l.employeeRepo.ListByRole(ctx, requester.CompanyID, user.RoleAdmin)
	if err != nil {
		return "", err
	}
	for _, admin := range admins {
		if admin.ID != requester.ID {
			return admin.ID, nil
		}
	}
	if requester.Role == user.RoleAdmin {
		return requester.ID, nil
	}
	return "", leave.ErrNoApproverAvailable
}

// ListMine implements leave.LeaveService.
func (l *LeaveServiceImpl) ListMine(ctx context.Context, session user.Session) ([]leave.LeaveRequestResponse, error) {
	requests, err := l.LeaveRequestRepository.ListByEmployee(ctx, session.EmployeeID)
	if err != nil {
		return nil, err
	}
	return toResponses(requests), nil
}

// ListPendingApprovals implements leave.LeaveService.
func (l *LeaveServiceImpl) ListPendingApprovals(ctx context.Context, session user.Session) ([]leave.LeaveRequestResponse, error) {
	requests, err := l.LeaveRequestRepository.ListPendingForApprover(ctx, session.EmployeeID)
	if err != nil {
		return nil, err
	}
	return toResponses(requests), nil
}

// Decide implements leave.LeaveService.
func (l *LeaveServiceImpl) Decide(ctx context.Context, session user.Session, id string, req leave.DecideLeaveRequest) (leave.LeaveRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	request, err := l.LeaveRequestRepository.GetByID(ctx, id, session.CompanyID)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	if request.ApproverID != session.EmployeeID {
		return leave.LeaveRequestResponse{}, leave.ErrNotApprover
	}
	if request.Status != leave.StatusPending {
		return leave.LeaveRequestResponse{}, leave.ErrLeaveRequestAlreadyProcessed
	}

	status := leave.Status(req.Status)
	var decided leave.LeaveRequest
	err = l.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		decided, err = l.LeaveRequestRepository.Decide(ctx, request.ID, status)
		if err != nil {
			return err
		}
		if status != leave.StatusApproved {
			return nil
		}

		marked, err := l.attendanceRepo.MarkOnLeave(ctx, decided.EmployeeID, decided.CompanyID, decided.Days())
		if err != nil {
			return fmt.Errorf("failed to mark leave days: %w", err)
		}
		slog.Info("Leave days booked", "leave_request_id", decided.ID, "employee_id", decided.EmployeeID, "days", marked)
		return nil
	})
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	response := leave.NewLeaveRequestResponse(decided)
	l.notifier.Notify(ctx, []string{decided.EmployeeID}, notification.Event{
		Type: notification.EventLeaveDecided,
		Data: response,
	})
	return response, nil
}

func toResponses(requests []leave.LeaveRequest) []leave.LeaveRequestResponse {
	responses := make([]leave.LeaveRequestResponse, 0, len(requests))
	for _, r := range requests {
		responses = append(responses, leave.NewLeaveRequestResponse(r))
	}
	return responses
}
