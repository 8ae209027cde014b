package employee

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/verification"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/events"
	"github.com/cmlabs-hris/ems-backend-go/internal/service/file"
)

type EmployeeServiceImpl struct {
	employeeRepo employee.EmployeeRepository
	fileService  file.FileService
	verifier     verification.Verifier
	publisher    events.Publisher
	notifier     notification.Sink
	now          func() time.Time
}

func NewEmployeeService(
	employeeRepo employee.EmployeeRepository,
	fileService file.FileService,
	verifier verification.Verifier,
	publisher events.Publisher,
	notifier notification.Sink,
) employee.EmployeeService {
	return &EmployeeServiceImpl{
		employeeRepo: employeeRepo,
		fileService:  fileService,
		verifier:     verifier,
		publisher:    publisher,
		notifier:     notifier,
		now:          time.Now,
	}
}

func (s *EmployeeServiceImpl) toResponse(e employee.Employee) employee.EmployeeResponse {
	return employee.NewEmployeeResponse(e).ResolveAvatar(s.fileService.URL)
}

// Me implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Me(ctx context.Context, session user.Session) (employee.EmployeeResponse, error) {
	emp, err := s.employeeRepo.GetByID(ctx, session.EmployeeID, session.CompanyID)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return s.toResponse(emp), nil
}

// List implements employee.EmployeeService.
func (s *EmployeeServiceImpl) List(ctx context.Context, session user.Session) ([]employee.EmployeeResponse, error) {
	if !session.Can(user.PermissionEmployeeViewAll) {
		return nil, employee.ErrForbidden
	}

	employees, err := s.employeeRepo.ListByCompany(ctx, session.CompanyID)
	if err != nil {
		return nil, err
	}

	responses := make([]employee.EmployeeResponse, 0, len(employees))
	for _, e := range employees {
		responses = append(responses, s.toResponse(e))
	}
	return responses, nil
}

// Get implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Get(ctx context.Context, session user.Session, id string) (employee.EmployeeResponse, error) {
	if id != session.EmployeeID && !session.Can(user.PermissionEmployeeViewAll) {
		return employee.EmployeeResponse{}, employee.ErrForbidden
	}

	emp, err := s.employeeRepo.GetByID(ctx, id, session.CompanyID)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return s.toResponse(emp), nil
}

// UpdateProfile implements employee.EmployeeService.
// Only employee managers may change reporting lines.
func (s *EmployeeServiceImpl) UpdateProfile(ctx context.Context, session user.Session, req employee.UpdateProfileRequest) (employee.EmployeeResponse, error) {
	if req.Empty() {
		return s.Me(ctx, session)
	}

	if req.ManagerID != nil {
		if !session.Can(user.PermissionEmployeeManage) {
			return employee.EmployeeResponse{}, employee.ErrForbidden
		}
		if managerID := *req.ManagerID; managerID != "" {
			if managerID == session.EmployeeID {
				return employee.EmployeeResponse{}, employee.ErrInvalidManager
			}
			if _, err := s.employeeRepo.GetByID(ctx, managerID, session.CompanyID); err != nil {
				if errors.Is(err, employee.ErrEmployeeNotFound) {
					return employee.EmployeeResponse{}, employee.ErrInvalidManager
				}
				return employee.EmployeeResponse{}, err
			}
		}
	}

	updated, err := s.employeeRepo.UpdateProfile(ctx, session.EmployeeID, session.CompanyID, req)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return s.toResponse(updated), nil
}

// UpdateAvatar implements employee.EmployeeService.
func (s *EmployeeServiceImpl) UpdateAvatar(ctx context.Context, session user.Session, req employee.UpdateAvatarRequest) (employee.EmployeeResponse, error) {
	if req.Avatar == nil {
		return employee.EmployeeResponse{}, verification.ErrImageRequired
	}

	current, err := s.employeeRepo.GetByID(ctx, session.EmployeeID, session.CompanyID)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	if err := verification.RequireValidPortrait(ctx, s.verifier, *req.Avatar); err != nil {
		return employee.EmployeeResponse{}, err
	}

	key, err := s.fileService.StoreAvatar(ctx, current.ID, *req.Avatar)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	updated, err := s.employeeRepo.UpdateAvatar(ctx, current.ID, current.CompanyID, key)
	if err != nil {
		if delErr := s.fileService.DeleteFile(ctx, key); delErr != nil {
			slog.Warn("Failed to remove orphaned avatar", "key", key, "error", delErr)
		}
		return employee.EmployeeResponse{}, fmt.Errorf("failed to save avatar: %w", err)
	}

	if current.AvatarURL != nil && *current.AvatarURL != "" {
		if err := s.fileService.DeleteFile(ctx, *current.AvatarURL); err != nil {
			slog.Warn("Failed to delete previous avatar", "key", *current.AvatarURL, "error", err)
		}
	}

	return s.toResponse(updated), nil
}

// CompleteOnboarding implements employee.EmployeeService.
func (s *EmployeeServiceImpl) CompleteOnboarding(ctx context.Context, session user.Session) (employee.EmployeeResponse, error) {
	updated, err := s.employeeRepo.CompleteOnboarding(ctx, session.EmployeeID, session.CompanyID)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return s.toResponse(updated), nil
}

// Remove implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Remove(ctx context.Context, session user.Session, id string, req employee.RemoveEmployeeRequest) (employee.EmployeeResponse, error) {
	if !session.Can(user.PermissionEmployeeManage) {
		return employee.EmployeeResponse{}, employee.ErrForbidden
	}
	if id == session.EmployeeID {
		return employee.EmployeeResponse{}, employee.ErrCannotRemoveSelf
	}

	target, err := s.employeeRepo.GetByID(ctx, id, session.CompanyID)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	if target.Role == user.RoleAdmin && !session.IsAdmin() {
		return employee.EmployeeResponse{}, employee.ErrForbidden
	}
	if target.ScheduledForDeletion() {
		return employee.EmployeeResponse{}, employee.ErrAlreadyScheduledForRemoval
	}

	deletionDate := s.now().UTC().Add(employee.RemovalGracePeriod)
	removed, err := s.employeeRepo.ScheduleDeletion(ctx, id, session.CompanyID, deletionDate, req.Reason)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	// The stored date is authoritative; the deletion-due job republishes
	// if this event is lost.
	event := events.New(events.TypeRemovalScheduled, removed.ID, removed.CompanyID, map[string]interface{}{
		"reason":                  req.Reason,
		"scheduled_deletion_date": deletionDate.Format(time.RFC3339),
		"removed_by":              session.EmployeeID,
	})
	if err := s.publisher.Publish(ctx, event); err != nil {
		slog.Error("Failed to publish removal event", "employee_id", removed.ID, "error", err)
	}

	s.notifier.Notify(ctx, []string{removed.ID}, notification.Event{
		Type: notification.EventRemovalScheduled,
		Data: map[string]interface{}{"scheduled_deletion_date": deletionDate, "reason": req.Reason},
	})

	slog.Info("Employee scheduled for removal", "employee_id", removed.ID, "removed_by", session.EmployeeID, "date", deletionDate)
	return s.toResponse(removed), nil
}

// OrgChart implements employee.EmployeeService.
func (s *EmployeeServiceImpl) OrgChart(ctx context.Context, session user.Session) (employee.OrgChart, error) {
	if !session.Can(user.PermissionOrgChartView) {
		return employee.OrgChart{}, employee.ErrForbidden
	}

	employees, err := s.employeeRepo.ListByCompany(ctx, session.CompanyID)
	if err != nil {
		return employee.OrgChart{}, err
	}

	chart := BuildOrgChart(employees, s.fileService.URL)
	if len(chart.Cycles) > 0 {
		slog.Warn("Reporting cycles found in org chart", "company_id", session.CompanyID, "cycles", chart.Cycles)
	}
	return chart, nil
}
