package performance

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/validator"
)

type SubmitReviewRequest struct {
	EmployeeID string `json:"employee_id"`
	Rating     int    `json:"rating"`
	Comments   string `json:"comments"`
	Goals      string `json:"goals"`
}

func (r *SubmitReviewRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.EmployeeID) {
		errs.Add("employee_id", "employee_id must be a valid UUID")
	}
	if r.Rating < MinRating || r.Rating > MaxRating {
		errs.Add("rating", fmt.Sprintf("rating must be between %d and %d", MinRating, MaxRating))
	}
	if validator.IsEmpty(r.Comments) {
		errs.Add("comments", "comments are required")
	} else if len(r.Comments) > 5000 {
		errs.Add("comments", "comments must not exceed 5000 characters")
	}
	if len(r.Goals) > 5000 {
		errs.Add("goals", "goals must not exceed 5000 characters")
	}

	return errs.Err()
}

type ReviewResponse struct {
	ID           string    `json:"id"`
	EmployeeID   string    `json:"employee_id"`
	EmployeeName string    `json:"employee_name,omitempty"`
	ReviewerID   string    `json:"reviewer_id"`
	ReviewerName string    `json:"reviewer_name,omitempty"`
	ReviewDate   string    `json:"review_date"`
	Rating       int       `json:"rating"`
	Comments     string    `json:"comments"`
	Goals        string    `json:"goals,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

func NewReviewResponse(r Review) ReviewResponse {
	return ReviewResponse{
		ID:           r.ID,
		EmployeeID:   r.EmployeeID,
		EmployeeName: r.EmployeeName,
		ReviewerID:   r.ReviewerID,
		ReviewerName: r.ReviewerName,
		ReviewDate:   r.ReviewDate.Format("2006-01-02"),
		Rating:       r.Rating,
		Comments:     r.Comments,
		Goals:        r.Goals,
		CreatedAt:    r.CreatedAt,
	}
}
