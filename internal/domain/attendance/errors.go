package attendance

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrGeofenceNotConfigured = errors.New("office location is not configured, ask your admin to set it up")
	ErrLocationUnavailable   = errors.New("location access is required, enable location permission and try again")
	ErrCameraUnavailable     = errors.New("camera access is required, enable camera permission and try again")
	ErrProfilePictureMissing = errors.New("no profile picture on file, upload one before clocking in")
	ErrFaceMismatch          = errors.New("face verification failed, please try again")

	ErrAlreadyClockedIn  = errors.New("already clocked in for today")
	ErrAlreadyClockedOut = errors.New("already clocked out for today")
	ErrClockInProgress   = errors.New("a clock action is already being verified")
	ErrOnLeaveToday      = errors.New("you are on approved leave today")

	ErrAttendanceNotFound = errors.New("attendance record not found")
)

// GeofenceViolationError means the device is outside the office fence.
type GeofenceViolationError struct {
	Distance float64
	Radius   float64
}

func (e *GeofenceViolationError) Error() string {
	return fmt.Sprintf("You must be within %sm of the office. You are ~%sm away.",
		formatMeters(e.Radius), formatMeters(math.Round(e.Distance)))
}

func formatMeters(m float64) string {
	if m == math.Trunc(m) {
		return fmt.Sprintf("%.0f", m)
	}
	return fmt.Sprintf("%.1f", m)
}
