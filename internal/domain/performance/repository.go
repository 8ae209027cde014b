package performance

import "context"

type ReviewRepository interface {
	Create(ctx context.Context, r Review) (Review, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]Review, error)
	ListByCompany(ctx context.Context, companyID string) ([]Review, error)
}
