package attendance

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func TestStateOf(t *testing.T) {
	tests := []struct {
		name   string
		record *Attendance
		want   State
	}{
		{"no record", nil, StateNoRecord},
		{"checked in", &Attendance{Status: StatusPresent, CheckInTime: strPtr("09:00")}, StateClockedIn},
		{"checked out", &Attendance{Status: StatusPresent, CheckInTime: strPtr("09:00"), CheckOutTime: strPtr("17:00")}, StateClockedOut},
		{"on leave", &Attendance{Status: StatusOnLeave}, StateOnLeave},
		{"absent placeholder", &Attendance{Status: StatusAbsent}, StateClockedOut},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StateOf(tt.record))
		})
	}
}

func TestGeofenceViolationMessage(t *testing.T) {
	err := &GeofenceViolationError{Distance: 889.63, Radius: 200}
	assert.Equal(t, "You must be within 200m of the office. You are ~890m away.", err.Error())
}

func TestClockRequestLocation(t *testing.T) {
	lat, lng := 37.4, -122.1
	_, ok := (&ClockRequest{Latitude: &lat}).Location()
	assert.False(t, ok)

	p, ok := (&ClockRequest{Latitude: &lat, Longitude: &lng}).Location()
	assert.True(t, ok)
	assert.Equal(t, lat, p.Latitude)

	bad := 95.0
	assert.Error(t, (&ClockRequest{Latitude: &bad, Longitude: &lng}).Validate())
}
