package assistant

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/assistant"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/performance"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/genai"
	"golang.org/x/sync/errgroup"
)

const (
	wellnessPrompt = "Provide a concise and actionable wellness tip for employees in a corporate setting. " +
		"The tip should be about mental health, work-life balance, or physical well-being at the desk. Keep it to 1-2 sentences."

	turnoverPrompt = `Act as an expert HR analyst. Based on the following employee data, provide a brief turnover risk assessment.
For each employee, identify their risk level (Low, Medium, High) and provide a 1-sentence justification.
Finally, provide a 2-3 sentence summary of the overall team risk and suggest one proactive retention strategy.
Format the output as clean markdown with headings.

Employee Data:
`

	noEmployeesReport = "There are no active employees to assess."
)

type AssistantServiceImpl struct {
	model        genai.Model
	employeeRepo employee.EmployeeRepository
	reviewRepo   performance.ReviewRepository
	timeout      time.Duration
	now          func() time.Time
}

func NewAssistantService(
	model genai.Model,
	employeeRepo employee.EmployeeRepository,
	reviewRepo performance.ReviewRepository,
	timeout time.Duration,
) assistant.AssistantService {
	return &AssistantServiceImpl{
		model:        model,
		employeeRepo: employeeRepo,
		reviewRepo:   reviewRepo,
		timeout:      timeout,
		now:          time.Now,
	}
}

// WellnessTip implements assistant.AssistantService.
func (s *AssistantServiceImpl) WellnessTip(ctx context.Context, _ user.Session) (assistant.TextResponse, error) {
	return s.generate(ctx, "wellness_tip", wellnessPrompt)
}

// FeedbackDraft implements assistant.AssistantService.
// Without explicit previous comments the employee's latest review is used.
func (s *AssistantServiceImpl) FeedbackDraft(ctx context.Context, session user.Session, req assistant.FeedbackDraftRequest) (assistant.TextResponse, error) {
	if !session.Can(user.PermissionReviewWrite) {
		return assistant.TextResponse{}, employee.ErrForbidden
	}
	if err := req.Validate(); err != nil {
		return assistant.TextResponse{}, err
	}

	reviewee, err := s.employeeRepo.GetByID(ctx, req.EmployeeID, session.CompanyID)
	if err != nil {
		return assistant.TextResponse{}, err
	}

	previous := strings.TrimSpace(req.PreviousComments)
	if previous == "" {
		reviews, err := s.reviewRepo.ListByEmployee(ctx, reviewee.ID)
		if err != nil {
			return assistant.TextResponse{}, err
		}
		if latest, ok := latestReview(reviews); ok {
			previous = latest.Comments
		}
	}

	return s.generate(ctx, "feedback_draft", feedbackPrompt(reviewee.Name, req.Rating, previous))
}

// TurnoverReport implements assistant.AssistantService.
func (s *AssistantServiceImpl) TurnoverReport(ctx context.Context, session user.Session) (assistant.TextResponse, error) {
	if !session.Can(user.PermissionReportsView) {
		return assistant.TextResponse{}, employee.ErrForbidden
	}

	var (
		employees []employee.Employee
		reviews   []performance.Review
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		employees, err = s.employeeRepo.ListByCompany(gctx, session.CompanyID)
		return err
	})
	g.Go(func() error {
		var err error
		reviews, err = s.reviewRepo.ListByCompany(gctx, session.CompanyID)
		return err
	})
	if err := g.Wait(); err != nil {
		return assistant.TextResponse{}, fmt.Errorf("failed to load report data: %w", err)
	}

	byEmployee := make(map[string][]performance.Review)
	for _, r := range reviews {
		byEmployee[r.EmployeeID] = append(byEmployee[r.EmployeeID], r)
	}

	var lines []string
	for _, e := range employees {
		if e.ScheduledForDeletion() {
			continue
		}
		rating := "N/A"
		if latest, ok := latestReview(byEmployee[e.ID]); ok {
			rating = fmt.Sprintf("%d", latest.Rating)
		}
		jobTitle := "N/A"
		if e.JobTitle != nil && *e.JobTitle != "" {
			jobTitle = *e.JobTitle
		}
		lines = append(lines, fmt.Sprintf("- %s (Job Title: %s, Tenure: %.1f years, Last Rating: %s/5)",
			e.Name, jobTitle, tenureYears(e.DateOfJoining, s.now()), rating))
	}
	if len(lines) == 0 {
		return assistant.TextResponse{Text: noEmployeesReport}, nil
	}

	return s.generate(ctx, "turnover_report", turnoverPrompt+strings.Join(lines, "\n"))
}

func (s *AssistantServiceImpl) generate(ctx context.Context, op, prompt string) (assistant.TextResponse, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	text, err := s.model.Generate(ctx, genai.Request{Parts: []genai.Part{genai.Text(prompt)}})
	if err != nil {
		slog.Error("Assistant call failed", "operation", op, "error", err)
		return assistant.TextResponse{}, assistant.ErrAssistantUnavailable
	}
	return assistant.TextResponse{Text: text}, nil
}

func feedbackPrompt(name string, rating int, previous string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Generate a constructive performance review comment for %s.", name)
	fmt.Fprintf(&b, "\nTheir performance rating is %d out of 5.", rating)
	if previous != "" {
		fmt.Fprintf(&b, "\nFor context, their previous review comment was: %q", previous)
	}
	b.WriteString("\n\nThe feedback should be professional, encouraging, and provide at least one area for improvement.")
	return b.String()
}

func latestReview(reviews []performance.Review) (performance.Review, bool) {
	var latest performance.Review
	found := false
	for _, r := range reviews {
		if !found || r.ReviewDate.After(latest.ReviewDate) ||
			(r.ReviewDate.Equal(latest.ReviewDate) && r.CreatedAt.After(latest.CreatedAt)) {
			latest = r
			found = true
		}
	}
	return latest, found
}

func tenureYears(joined, now time.Time) float64 {
	if joined.IsZero() || now.Before(joined) {
		return 0
	}
	return now.Sub(joined).Hours() / (24 * 365)
}
