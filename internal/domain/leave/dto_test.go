package leave

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitLeaveRequestValidate(t *testing.T) {
	req := SubmitLeaveRequest{LeaveType: "Annual", StartDate: "2025-06-02", EndDate: "2025-06-04", Reason: "Family trip"}
	require.NoError(t, req.Validate())
	start, end := req.Period()
	assert.Equal(t, time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2025, 6, 4, 0, 0, 0, 0, time.UTC), end)

	tests := map[string]SubmitLeaveRequest{
		"unknown type":  {LeaveType: "Sabbatical", StartDate: "2025-06-02", EndDate: "2025-06-02", Reason: "x"},
		"reversed":      {LeaveType: "Sick", StartDate: "2025-06-05", EndDate: "2025-06-02", Reason: "x"},
		"bad date":      {LeaveType: "Sick", StartDate: "06/02/2025", EndDate: "2025-06-02", Reason: "x"},
		"empty reason":  {LeaveType: "Casual", StartDate: "2025-06-02", EndDate: "2025-06-02"},
		"too long span": {LeaveType: "Annual", StartDate: "2025-01-01", EndDate: "2025-12-31", Reason: "x"},
	}
	for name, req := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Error(t, req.Validate())
		})
	}
}

func TestLeaveRequestDays(t *testing.T) {
	l := LeaveRequest{
		StartDate: time.Date(2025, 2, 27, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC),
	}
	days := l.Days()
	require.Len(t, days, 4)
	assert.Equal(t, "2025-03-01", days[2].Format("2006-01-02"))
}

func TestDecideLeaveRequestValidate(t *testing.T) {
	assert.NoError(t, (&DecideLeaveRequest{Status: "Approved"}).Validate())
	assert.NoError(t, (&DecideLeaveRequest{Status: "Rejected"}).Validate())
	assert.Error(t, (&DecideLeaveRequest{Status: "Pending"}).Validate())
}
