package performance

import "time"

type Review struct {
	ID           string
	EmployeeID   string
	EmployeeName string
	ReviewerID   string
	ReviewerName string
	CompanyID    string
	ReviewDate   time.Time
	Rating       int
	Comments     string
	Goals        string
	CreatedAt    time.Time
}

const (
	MinRating = 1
	MaxRating = 5
)
