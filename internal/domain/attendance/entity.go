package attendance

import "time"

type Status string

const (
	StatusPresent Status = "Present"
	StatusAbsent  Status = "Absent"
	StatusOnLeave Status = "On Leave"
)

// Attendance is one employee's record for one local calendar day.
// Check-in and check-out times are local wall-clock "HH:MM".
type Attendance struct {
	ID           string
	EmployeeID   string
	CompanyID    string
	Date         time.Time
	Status       Status
	CheckInTime  *string
	CheckOutTime *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// State is where an employee stands in today's clock cycle.
type State int

const (
	StateNoRecord State = iota
	StateClockedIn
	StateClockedOut
	// StateOnLeave covers days already booked by an approved leave. No clocking is possible.
	StateOnLeave
)

func (s State) String() string {
	switch s {
	case StateClockedIn:
		return "clocked_in"
	case StateClockedOut:
		return "clocked_out"
	case StateOnLeave:
		return "on_leave"
	default:
		return "no_record"
	}
}

// StateOf derives the state from today's record, which may be nil.
func StateOf(record *Attendance) State {
	switch {
	case record == nil:
		return StateNoRecord
	case record.Status == StatusOnLeave:
		return StateOnLeave
	case record.CheckInTime == nil:
		// Absent placeholder: the day's row exists and cannot be clocked again.
		return StateClockedOut
	case record.CheckOutTime == nil:
		return StateClockedIn
	default:
		return StateClockedOut
	}
}

type Action string

const (
	ActionClockIn  Action = "clock_in"
	ActionClockOut Action = "clock_out"
)

// ClockTimeLayout is the wall-clock format stored for check-in/out.
const ClockTimeLayout = "15:04"

// DateLayout is the calendar day format used in requests and responses.
const DateLayout = "2006-01-02"
