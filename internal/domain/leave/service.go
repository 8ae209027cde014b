package leave

import (
	"context"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/user"
)

type LeaveService interface {
	// Submit files a Pending request routed to the employee's manager, or a company admin when there is none.
	Submit(ctx context.Context, session user.Session, req SubmitLeaveRequest) (LeaveRequestResponse, error)
	ListMine(ctx context.Context, session user.Session) ([]LeaveRequestResponse, error)
	ListPendingApprovals(ctx context.Context, session user.Session) ([]LeaveRequestResponse, error)
	// Decide approves or rejects a Pending request. Approval books the days as On Leave.
	Decide(ctx context.Context, session user.Session, id string, req DecideLeaveRequest) (LeaveRequestResponse, error)
}
