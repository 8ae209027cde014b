package leave

import "errors"

var (
	ErrLeaveRequestNotFound         = errors.New("leave request not found")
	ErrLeaveRequestAlreadyProcessed = errors.New("leave request already processed")
	ErrNotApprover                  = errors.New("only the assigned approver can decide this request")
	ErrNoApproverAvailable          = errors.New("no manager or admin is available to approve this request")
)
