package leave

import "time"

type Type string

const (
	TypeSick   Type = "Sick"
	TypeCasual Type = "Casual"
	TypeAnnual Type = "Annual"
)

var Types = []Type{TypeSick, TypeCasual, TypeAnnual}

type Status string

const (
	StatusPending  Status = "Pending"
	StatusApproved Status = "Approved"
	StatusRejected Status = "Rejected"
)

type LeaveRequest struct {
	ID           string
	EmployeeID   string
	EmployeeName string
	CompanyID    string
	LeaveType    Type
	StartDate    time.Time
	EndDate      time.Time
	Reason       string
	Status       Status
	ApproverID   string
	DecidedAt    *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Days lists every calendar day covered by the request, inclusive.
func (l LeaveRequest) Days() []time.Time {
	var days []time.Time
	for d := l.StartDate; !d.After(l.EndDate); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}
