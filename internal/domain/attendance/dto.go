package attendance

import (
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/geo"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/validator"
)

// ClockRequest carries everything a device supplies for a clock action.
// A nil coordinate means the device could not provide a location.
type ClockRequest struct {
	Latitude  *float64      `json:"latitude,omitempty"`
	Longitude *float64      `json:"longitude,omitempty"`
	Capture   CaptureSource `json:"-"`
}

func (r *ClockRequest) Validate() error {
	var errs validator.ValidationErrors
	if r.Latitude != nil && !validator.IsValidLatitude(*r.Latitude) {
		errs.Add("latitude", "latitude must be between -90 and 90")
	}
	if r.Longitude != nil && !validator.IsValidLongitude(*r.Longitude) {
		errs.Add("longitude", "longitude must be between -180 and 180")
	}
	return errs.Err()
}

// Location returns the device position, or ok=false when either half is missing.
func (r *ClockRequest) Location() (geo.Coordinates, bool) {
	if r.Latitude == nil || r.Longitude == nil {
		return geo.Coordinates{}, false
	}
	return geo.Coordinates{Latitude: *r.Latitude, Longitude: *r.Longitude}, true
}

type AttendanceResponse struct {
	ID           string  `json:"id"`
	EmployeeID   string  `json:"employee_id"`
	Date         string  `json:"date"`
	Status       Status  `json:"status"`
	CheckInTime  *string `json:"check_in_time,omitempty"`
	CheckOutTime *string `json:"check_out_time,omitempty"`
}

func NewAttendanceResponse(a Attendance) AttendanceResponse {
	return AttendanceResponse{
		ID:           a.ID,
		EmployeeID:   a.EmployeeID,
		Date:         a.Date.Format(DateLayout),
		Status:       a.Status,
		CheckInTime:  a.CheckInTime,
		CheckOutTime: a.CheckOutTime,
	}
}

type ClockResult struct {
	Action  Action             `json:"action"`
	Record  AttendanceResponse `json:"record"`
	Message string             `json:"message"`
	// Celebrate is set only for the first successful clock-in of the day.
	Celebrate bool `json:"celebrate"`
	// DistanceMeters is how far from the office the device was.
	DistanceMeters float64 `json:"distance_meters"`
}

// Clock button labels shown by clients.
const (
	ButtonNotConfigured = "Not Configured"
	ButtonVerifying     = "Verifying..."
	ButtonClockIn       = "Smart Clock-In"
	ButtonClockOut      = "Smart Clock-Out"
	ButtonCompleted     = "Completed for Today"
	ButtonOnLeave       = "On Leave"
)

type ClockButton struct {
	Label    string  `json:"label"`
	Disabled bool    `json:"disabled"`
	Action   *Action `json:"action,omitempty"`
}

type TodayResponse struct {
	Date               string              `json:"date"`
	State              string              `json:"state"`
	Record             *AttendanceResponse `json:"record,omitempty"`
	Button             ClockButton         `json:"button"`
	GeofenceConfigured bool                `json:"geofence_configured"`
	RadiusMeters       *float64            `json:"radius_meters,omitempty"`
}
