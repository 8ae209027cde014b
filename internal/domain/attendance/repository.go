package attendance

import (
	"context"
	"time"
)

type AttendanceRepository interface {
	// GetByEmployeeAndDate returns nil, nil when there is no record for that day.
	GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*Attendance, error)
	// CreateClockIn inserts today's record. A second record for the same day yields ErrAlreadyClockedIn.
	CreateClockIn(ctx context.Context, record Attendance) (Attendance, error)
	// SetCheckOut only updates a record whose check-out is still empty,
	// otherwise it yields ErrAlreadyClockedOut.
	SetCheckOut(ctx context.Context, id, checkOutTime string) (Attendance, error)
	ListByEmployee(ctx context.Context, employeeID string, limit int) ([]Attendance, error)
	// MarkOnLeave inserts On Leave records for the given days, skipping days that already have one.
	MarkOnLeave(ctx context.Context, employeeID, companyID string, days []time.Time) (int64, error)
}
