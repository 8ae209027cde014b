package performance

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/performance"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/user"
)

type PerformanceServiceImpl struct {
	reviewRepo   performance.ReviewRepository
	employeeRepo employee.EmployeeRepository
	now          func() time.Time
}

func NewPerformanceService(reviewRepo performance.ReviewRepository, employeeRepo employee.EmployeeRepository) performance.PerformanceService {
	return &PerformanceServiceImpl{
		reviewRepo:   reviewRepo,
		employeeRepo: employeeRepo,
		now:          time.Now,
	}
}

// Submit implements performance.PerformanceService.
func (s *PerformanceServiceImpl) Submit(ctx context.Context, session user.Session, req performance.SubmitReviewRequest) (performance.ReviewResponse, error) {
	if !session.Can(user.PermissionReviewWrite) {
		return performance.ReviewResponse{}, employee.ErrForbidden
	}
	if err := req.Validate(); err != nil {
		return performance.ReviewResponse{}, err
	}
	if req.EmployeeID == session.EmployeeID {
		return performance.ReviewResponse{}, performance.ErrCannotReviewSelf
	}

	reviewee, err := s.employeeRepo.GetByID(ctx, req.EmployeeID, session.CompanyID)
	if err != nil {
		return performance.ReviewResponse{}, err
	}

	today := s.now().UTC().Truncate(24 * time.Hour)
	created, err := s.reviewRepo.Create(ctx, performance.Review{
		EmployeeID: reviewee.ID,
		ReviewerID: session.EmployeeID,
		CompanyID:  session.CompanyID,
		ReviewDate: today,
		Rating:     req.Rating,
		Comments:   req.Comments,
		Goals:      req.Goals,
	})
	if err != nil {
		return performance.ReviewResponse{}, fmt.Errorf("failed to create review: %w", err)
	}
	if created.EmployeeName == "" {
		created.EmployeeName = reviewee.Name
	}
	return performance.NewReviewResponse(created), nil
}

// ListMine implements performance.PerformanceService.
func (s *PerformanceServiceImpl) ListMine(ctx context.Context, session user.Session) ([]performance.ReviewResponse, error) {
	reviews, err := s.reviewRepo.ListByEmployee(ctx, session.EmployeeID)
	if err != nil {
		return nil, err
	}
	return toResponses(reviews), nil
}

// ListCompany implements performance.PerformanceService.
func (s *PerformanceServiceImpl) ListCompany(ctx context.Context, session user.Session) ([]performance.ReviewResponse, error) {
	if !session.Can(user.PermissionReviewViewAll) {
		return nil, employee.ErrForbidden
	}
	reviews, err := s.reviewRepo.ListByCompany(ctx, session.CompanyID)
	if err != nil {
		return nil, err
	}
	return toResponses(reviews), nil
}

func toResponses(reviews []performance.Review) []performance.ReviewResponse {
	responses := make([]performance.ReviewResponse, 0, len(reviews))
	for _, r := range reviews {
		responses = append(responses, performance.NewReviewResponse(r))
	}
	return responses
}
