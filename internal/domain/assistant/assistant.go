package assistant

import (
	"context"
	"errors"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/validator"
)

var ErrAssistantUnavailable = errors.New("the assistant is unavailable right now, please try again later")

type FeedbackDraftRequest struct {
	EmployeeID       string `json:"employee_id"`
	Rating           int    `json:"rating"`
	PreviousComments string `json:"previous_comments"`
}

func (r *FeedbackDraftRequest) Validate() error {
	var errs validator.ValidationErrors
	if !validator.IsValidUUID(r.EmployeeID) {
		errs.Add("employee_id", "employee_id must be a valid UUID")
	}
	if r.Rating < 1 || r.Rating > 5 {
		errs.Add("rating", "rating must be between 1 and 5")
	}
	return errs.Err()
}

type TextResponse struct {
	Text string `json:"text"`
}

// AssistantService generates advisory text. Output is never stored or acted on.
type AssistantService interface {
	WellnessTip(ctx context.Context, session user.Session) (TextResponse, error)
	FeedbackDraft(ctx context.Context, session user.Session, req FeedbackDraftRequest) (TextResponse, error)
	TurnoverReport(ctx context.Context, session user.Session) (TextResponse, error)
}
