package attendance

import (
	"context"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/user"
)

type AttendanceService interface {
	// Clock performs the next transition of today's cycle: clock-in when there
	// is no record, clock-out when checked in, and rejects a finished day.
	Clock(ctx context.Context, session user.Session, req ClockRequest) (ClockResult, error)
	Today(ctx context.Context, session user.Session) (TodayResponse, error)
	History(ctx context.Context, session user.Session, limit int) ([]AttendanceResponse, error)
}
