package leave

import (
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/validator"
)

type SubmitLeaveRequest struct {
	LeaveType string `json:"leave_type"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Reason    string `json:"reason"`

	start, end time.Time
}

func (r *SubmitLeaveRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsInSlice(r.LeaveType, []string{string(TypeSick), string(TypeCasual), string(TypeAnnual)}) {
		errs.Add("leave_type", "leave_type must be one of Sick, Casual, Annual")
	}

	var startOK, endOK bool
	r.start, startOK = validator.IsValidDate(r.StartDate)
	if !startOK {
		errs.Add("start_date", "start_date must be in YYYY-MM-DD format")
	}
	r.end, endOK = validator.IsValidDate(r.EndDate)
	if !endOK {
		errs.Add("end_date", "end_date must be in YYYY-MM-DD format")
	}
	if startOK && endOK {
		if r.end.Before(r.start) {
			errs.Add("end_date", "end_date must not be before start_date")
		} else if r.end.Sub(r.start) > 90*24*time.Hour {
			errs.Add("end_date", "leave cannot exceed 90 days")
		}
	}

	if validator.IsEmpty(r.Reason) {
		errs.Add("reason", "reason is required")
	} else if len(r.Reason) > 1000 {
		errs.Add("reason", "reason must not exceed 1000 characters")
	}

	return errs.Err()
}

// Period returns the parsed dates. Only meaningful after Validate succeeds.
func (r *SubmitLeaveRequest) Period() (time.Time, time.Time) {
	return r.start, r.end
}

type DecideLeaveRequest struct {
	Status string `json:"status"`
}

func (r *DecideLeaveRequest) Validate() error {
	var errs validator.ValidationErrors
	if r.Status != string(StatusApproved) && r.Status != string(StatusRejected) {
		errs.Add("status", "status must be Approved or Rejected")
	}
	return errs.Err()
}

type LeaveRequestResponse struct {
	ID           string     `json:"id"`
	EmployeeID   string     `json:"employee_id"`
	EmployeeName string     `json:"employee_name,omitempty"`
	LeaveType    Type       `json:"leave_type"`
	StartDate    string     `json:"start_date"`
	EndDate      string     `json:"end_date"`
	Days         int        `json:"days"`
	Reason       string     `json:"reason"`
	Status       Status     `json:"status"`
	ApproverID   string     `json:"approver_id"`
	DecidedAt    *time.Time `json:"decided_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

func NewLeaveRequestResponse(l LeaveRequest) LeaveRequestResponse {
	return LeaveRequestResponse{
		ID:           l.ID,
		EmployeeID:   l.EmployeeID,
		EmployeeName: l.EmployeeName,
		LeaveType:    l.LeaveType,
		StartDate:    l.StartDate.Format("2006-01-02"),
		EndDate:      l.EndDate.Format("2006-01-02"),
		Days:         len(l.Days()),
		Reason:       l.Reason,
		Status:       l.Status,
		ApproverID:   l.ApproverID,
		DecidedAt:    l.DecidedAt,
		CreatedAt:    l.CreatedAt,
	}
}
