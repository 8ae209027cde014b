package response

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/assistant"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/company"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/performance"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/verification"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/validator"
	"github.com/cmlabs-hris/ems-backend-go/internal/service/file"
)

const (
	codeNotConfigured      = "NOT_CONFIGURED"
	codePermissionRequired = "PERMISSION_REQUIRED"
	codeOutsideGeofence    = "OUTSIDE_GEOFENCE"
	codeVerificationFailed = "VERIFICATION_FAILED"
	codeAccountScheduled   = "ACCOUNT_SCHEDULED_FOR_DELETION"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	// Errors carrying data for the client
	var geofence *attendance.GeofenceViolationError
	if errors.As(err, &geofence) {
		Fail(w, http.StatusForbidden, codeOutsideGeofence, geofence.Error(), map[string]string{
			"distance_meters": strconv.FormatFloat(geofence.Distance, 'f', 0, 64),
			"radius_meters":   strconv.FormatFloat(geofence.Radius, 'f', -1, 64),
		})
		return
	}
	var rejected *verification.PortraitRejectedError
	if errors.As(err, &rejected) {
		Fail(w, http.StatusUnprocessableEntity, codeVerificationFailed, rejected.Error(), map[string]string{
			"reason": rejected.Reason,
		})
		return
	}
	var scheduled *auth.ScheduledDeletionError
	if errors.As(err, &scheduled) {
		Fail(w, http.StatusForbidden, codeAccountScheduled, auth.ErrAccountScheduledForDeletion.Error(), map[string]string{
			"reason":                  scheduled.Reason,
			"scheduled_deletion_date": scheduled.Date.Format("2006-01-02"),
		})
		return
	}

	switch {
	// Attendance preconditions
	case errors.Is(err, attendance.ErrGeofenceNotConfigured):
		Fail(w, http.StatusPreconditionFailed, codeNotConfigured, err.Error(), nil)
	case errors.Is(err, attendance.ErrLocationUnavailable),
		errors.Is(err, attendance.ErrCameraUnavailable):
		Fail(w, http.StatusBadRequest, codePermissionRequired, err.Error(), nil)

	// Verification failures
	case errors.Is(err, attendance.ErrFaceMismatch),
		errors.Is(err, attendance.ErrProfilePictureMissing):
		Fail(w, http.StatusUnprocessableEntity, codeVerificationFailed, err.Error(), nil)
	case errors.Is(err, verification.ErrImageRequired),
		errors.Is(err, auth.ErrAvatarRequired),
		errors.Is(err, file.ErrUnsupportedImage):
		BadRequest(w, err.Error(), nil)

	// Conflicts
	case errors.Is(err, attendance.ErrAlreadyClockedIn),
		errors.Is(err, attendance.ErrAlreadyClockedOut),
		errors.Is(err, attendance.ErrClockInProgress),
		errors.Is(err, attendance.ErrOnLeaveToday),
		errors.Is(err, company.ErrInvitationCodeExhausted),
		errors.Is(err, company.ErrAdminSignupInProgress),
		errors.Is(err, employee.ErrEmailExists),
		errors.Is(err, employee.ErrAlreadyScheduledForRemoval),
		errors.Is(err, leave.ErrLeaveRequestAlreadyProcessed),
		errors.Is(err, payroll.ErrPayrollAlreadyProcessed):
		Conflict(w, err.Error())

	// Remote services
	case errors.Is(err, verification.ErrVerificationUnavailable),
		errors.Is(err, assistant.ErrAssistantUnavailable):
		ServiceUnavailable(w, err.Error())

	// Auth
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, user.ErrInvalidSession):
		Unauthorized(w, err.Error())
	case errors.Is(err, employee.ErrForbidden),
		errors.Is(err, user.ErrInsufficientPermission),
		errors.Is(err, leave.ErrNotApprover):
		Forbidden(w, err.Error())

	// Bad input that passed DTO validation
	case errors.Is(err, company.ErrInvalidInvitationCode),
		errors.Is(err, employee.ErrInvalidManager),
		errors.Is(err, employee.ErrInvalidRole),
		errors.Is(err, employee.ErrCannotRemoveSelf),
		errors.Is(err, performance.ErrCannotReviewSelf),
		errors.Is(err, leave.ErrNoApproverAvailable),
		errors.Is(err, payroll.ErrNoEligibleEmployees):
		BadRequest(w, err.Error(), nil)

	// Not found
	case errors.Is(err, employee.ErrEmployeeNotFound),
		errors.Is(err, company.ErrCompanyNotFound),
		errors.Is(err, attendance.ErrAttendanceNotFound),
		errors.Is(err, leave.ErrLeaveRequestNotFound),
		errors.Is(err, performance.ErrReviewNotFound):
		NotFound(w, err.Error())

	// Default
	default:
		slog.Error("Unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
