package http

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/config"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/ems-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

// requestTimeout bounds every endpoint except the notification stream.
// It must exceed the remote model timeout so verification failures surface as 503.
const requestTimeout = 60 * time.Second

type Handlers struct {
	Auth         AuthHandler
	Company      CompanyHandler
	Employee     EmployeeHandler
	Attendance   AttendanceHandler
	Verification VerificationHandler
	Leave        LeaveHandler
	Payroll      PayrollHandler
	Performance  PerformanceHandler
	Assistant    AssistantHandler
	Notification NotificationHandler
}

// NewRouter wires every route. aiLimiter throttles the endpoints that call the remote model.
func NewRouter(app config.AppConfig, uploadPath string, JWTService jwt.Service, aiLimiter *middleware.EmployeeRateLimiter, h Handlers) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(app.Env != "development")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "ems-cmlabs"),
		slog.String("version", "v1.0.0"),
		slog.String("env", app.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{app.FrontendURL},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	// Stored avatars
	r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(uploadPath))))

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Use(chiMiddleware.Timeout(requestTimeout))
			r.Post("/signup/admin", h.Auth.SignupAdmin)
			r.Post("/signup/employee", h.Auth.SignupEmployee)
			r.Post("/login", h.Auth.Login)
			r.Post("/logout", h.Auth.Logout)
		})

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verify(JWTService.JWTAuth(), middleware.TokenSources...))
			r.Use(middleware.AuthRequired(JWTService))

			// Long-lived, so outside the request timeout
			r.Get("/notifications/stream", h.Notification.Stream)

			r.Group(func(r chi.Router) {
				r.Use(chiMiddleware.Timeout(requestTimeout))

				r.Get("/me", h.Employee.Me)

				r.Route("/companies/my", func(r chi.Router) {
					r.Get("/", h.Company.GetMy)

					r.Group(func(r chi.Router) {
						r.Use(middleware.RequirePermission(user.PermissionCompanyManage))
						r.Put("/geofence", h.Company.UpdateGeofence)
						r.Put("/timezone", h.Company.UpdateTimezone)
						r.Post("/invitation-code", h.Company.RegenerateInvitationCode)
						r.Post("/invitation-code/share", h.Company.ShareInvitationCode)
					})
				})

				r.Route("/employees", func(r chi.Router) {
					r.With(middleware.RequirePermission(user.PermissionEmployeeViewAll)).Get("/", h.Employee.List)
					r.With(middleware.RequirePermission(user.PermissionOrgChartView)).Get("/org-chart", h.Employee.OrgChart)

					r.Route("/me", func(r chi.Router) {
						r.Get("/", h.Employee.Me)
						r.Put("/", h.Employee.UpdateProfile)
						r.With(aiLimiter.Limit).Put("/avatar", h.Employee.UpdateAvatar)
						r.Post("/onboarding", h.Employee.CompleteOnboarding)
					})

					r.Get("/{id}", h.Employee.Get)
					r.With(middleware.RequirePermission(user.PermissionEmployeeManage)).Post("/{id}/removal", h.Employee.Remove)
				})

				r.Route("/attendance", func(r chi.Router) {
					r.Get("/today", h.Attendance.Today)
					r.Get("/my", h.Attendance.History)
					r.With(
						middleware.RequirePermission(user.PermissionAttendanceClock),
						aiLimiter.Limit,
					).Post("/clock", h.Attendance.Clock)
				})

				r.Route("/verification", func(r chi.Router) {
					r.Use(aiLimiter.Limit)
					r.Post("/portrait", h.Verification.Portrait)
					r.Post("/face", h.Verification.Face)
				})

				r.Route("/leave", func(r chi.Router) {
					r.With(middleware.RequirePermission(user.PermissionLeaveCreate)).Post("/", h.Leave.Submit)
					r.Get("/my", h.Leave.ListMine)

					// Any manager may be an approver, so these check the request's approver instead of a role.
					r.Get("/pending", h.Leave.ListPending)
					r.Put("/{id}/decision", h.Leave.Decide)
				})

				r.Route("/payroll", func(r chi.Router) {
					r.With(middleware.RequirePermission(user.PermissionPayrollProcess)).Post("/process", h.Payroll.Process)
					r.Get("/my", h.Payroll.ListMine)
				})

				r.Route("/performance/reviews", func(r chi.Router) {
					r.With(middleware.RequirePermission(user.PermissionReviewViewAll)).Get("/", h.Performance.ListCompany)
					r.With(middleware.RequirePermission(user.PermissionReviewWrite)).Post("/", h.Performance.Submit)
					r.Get("/my", h.Performance.ListMine)
				})

				r.Route("/assistant", func(r chi.Router) {
					r.Use(aiLimiter.Limit)
					r.Get("/wellness-tip", h.Assistant.WellnessTip)
					r.With(middleware.RequirePermission(user.PermissionReviewWrite)).Post("/feedback-draft", h.Assistant.FeedbackDraft)
				})

				r.With(
					middleware.RequirePermission(user.PermissionReportsView),
					aiLimiter.Limit,
				).Get("/reports/turnover", h.Assistant.TurnoverReport)
			})
		})
	})
	return r
}
