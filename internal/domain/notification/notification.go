package notification

import "context"

type EventType string

const (
	EventClockedIn        EventType = "attendance.clocked_in"
	EventClockedOut       EventType = "attendance.clocked_out"
	EventLeaveSubmitted   EventType = "leave.submitted"
	EventLeaveDecided     EventType = "leave.decided"
	EventRemovalScheduled EventType = "employee.removal_scheduled"
)

type Event struct {
	Type EventType   `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

// Sink delivers user-facing notifications. Delivery is best effort and
// must never fail the operation that triggered it.
type Sink interface {
	Notify(ctx context.Context, employeeIDs []string, event Event)
}

// Discard drops every notification.
type Discard struct{}

func (Discard) Notify(context.Context, []string, Event) {}
