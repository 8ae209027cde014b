package performance

import (
	"context"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/user"
)

type PerformanceService interface {
	Submit(ctx context.Context, session user.Session, req SubmitReviewRequest) (ReviewResponse, error)
	ListMine(ctx context.Context, session user.Session) ([]ReviewResponse, error)
	ListCompany(ctx context.Context, session user.Session) ([]ReviewResponse, error)
}
