package leave

import "context"

type LeaveRequestRepository interface {
	Create(ctx context.Context, req LeaveRequest) (LeaveRequest, error)
	GetByID(ctx context.Context, id, companyID string) (LeaveRequest, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]LeaveRequest, error)
	ListPendingForApprover(ctx context.Context, approverID string) ([]LeaveRequest, error)
	// Decide moves a Pending request to status. It yields
	// ErrLeaveRequestAlreadyProcessed when the request is no longer Pending.
	Decide(ctx context.Context, id string, status Status) (LeaveRequest, error)
}
