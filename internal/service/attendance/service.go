package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/company"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/verification"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/lock"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/storage"
	"github.com/cmlabs-hris/ems-backend-go/internal/service/file"
	"golang.org/x/sync/errgroup"
)

const (
	defaultHistoryLimit = 30
	maxHistoryLimit     = 366
)

type AttendanceServiceImpl struct {
	attendance.AttendanceRepository
	companyRepo  company.CompanyRepository
	employeeRepo employee.EmployeeRepository
	fileService  file.FileService
	verifier     verification.Verifier
	locker       lock.Locker
	notifier     notification.Sink
	defaultLoc   *time.Location
	now          func() time.Time
}

func NewAttendanceService(
	attendanceRepo attendance.AttendanceRepository,
	companyRepo company.CompanyRepository,
	employeeRepo employee.EmployeeRepository,
	fileService file.FileService,
	verifier verification.Verifier,
	locker lock.Locker,
	notifier notification.Sink,
	defaultLoc *time.Location,
) *AttendanceServiceImpl {
	return &AttendanceServiceImpl{
		AttendanceRepository: attendanceRepo,
		companyRepo:          companyRepo,
		employeeRepo:         employeeRepo,
		fileService:          fileService,
		verifier:             verifier,
		locker:               locker,
		notifier:             notifier,
		defaultLoc:           defaultLoc,
		now:                  time.Now,
	}
}

func clockLockKey(employeeID string) string {
	return "attendance:clock:" + employeeID
}

// localDay returns the calendar day of t in loc as a UTC midnight, the form stored in DATE columns.
func localDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Clock implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) Clock(ctx context.Context, session user.Session, req attendance.ClockRequest) (attendance.ClockResult, error) {
	if !session.Can(user.PermissionAttendanceClock) {
		return attendance.ClockResult{}, user.ErrInsufficientPermission
	}
	if err := req.Validate(); err != nil {
		return attendance.ClockResult{}, err
	}

	var (
		companyData company.Company
		emp         employee.Employee
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		companyData, err = a.companyRepo.GetByID(gctx, session.CompanyID)
		return err
	})
	g.Go(func() (err error) {
		emp, err = a.employeeRepo.GetByID(gctx, session.EmployeeID, session.CompanyID)
		return err
	})
	if err := g.Wait(); err != nil {
		return attendance.ClockResult{}, err
	}

	fence, ok := companyData.Geofence()
	if !ok {
		return attendance.ClockResult{}, attendance.ErrGeofenceNotConfigured
	}

	unlock, acquired, err := a.locker.TryLock(ctx, clockLockKey(emp.ID))
	if err != nil {
		return attendance.ClockResult{}, fmt.Errorf("failed to acquire clock lock: %w", err)
	}
	if !acquired {
		return attendance.ClockResult{}, attendance.ErrClockInProgress
	}
	defer unlock()

	now := a.now().In(companyData.Location(a.defaultLoc))
	today := localDay(now, now.Location())

	record, err := a.AttendanceRepository.GetByEmployeeAndDate(ctx, emp.ID, today)
	if err != nil {
		return attendance.ClockResult{}, err
	}

	var action attendance.Action
	switch attendance.StateOf(record) {
	case attendance.StateNoRecord:
		action = attendance.ActionClockIn
	case attendance.StateClockedIn:
		action = attendance.ActionClockOut
	case attendance.StateOnLeave:
		return attendance.ClockResult{}, attendance.ErrOnLeaveToday
	default:
		return attendance.ClockResult{}, attendance.ErrAlreadyClockedOut
	}

	position, ok := req.Location()
	if !ok {
		return attendance.ClockResult{}, attendance.ErrLocationUnavailable
	}
	inside, distance := fence.Contains(position)
	if !inside {
		slog.Info("Clock rejected outside geofence",
			"employee_id", emp.ID, "distance_meters", distance, "radius_meters", fence.RadiusMeters)
		return attendance.ClockResult{}, &attendance.GeofenceViolationError{Distance: distance, Radius: fence.RadiusMeters}
	}

	reference, err := a.referencePhoto(ctx, emp)
	if err != nil {
		return attendance.ClockResult{}, err
	}

	if err := a.verifyLiveFace(ctx, req.Capture, reference); err != nil {
		return attendance.ClockResult{}, err
	}

	clockTime := now.Format(attendance.ClockTimeLayout)
	result := attendance.ClockResult{Action: action, DistanceMeters: distance}

	switch action {
	case attendance.ActionClockIn:
		created, err := a.AttendanceRepository.CreateClockIn(ctx, attendance.Attendance{
			EmployeeID:  emp.ID,
			CompanyID:   emp.CompanyID,
			Date:        today,
			Status:      attendance.StatusPresent,
			CheckInTime: &clockTime,
		})
		if err != nil {
			return attendance.ClockResult{}, err
		}
		result.Record = attendance.NewAttendanceResponse(created)
		result.Message = fmt.Sprintf("Clocked in at %s", clockTime)
		result.Celebrate = true
	case attendance.ActionClockOut:
		updated, err := a.AttendanceRepository.SetCheckOut(ctx, record.ID, clockTime)
		if err != nil {
			return attendance.ClockResult{}, err
		}
		result.Record = attendance.NewAttendanceResponse(updated)
		result.Message = fmt.Sprintf("Clocked out at %s", clockTime)
	}

	eventType := notification.EventClockedIn
	if action == attendance.ActionClockOut {
		eventType = notification.EventClockedOut
	}
	a.notifier.Notify(ctx, []string{emp.ID}, notification.Event{Type: eventType, Data: result.Record})

	slog.Info("Attendance recorded", "employee_id", emp.ID, "action", action, "time", clockTime)
	return result, nil
}

// referencePhoto loads the stored profile picture used as the match reference.
func (a *AttendanceServiceImpl) referencePhoto(ctx context.Context, emp employee.Employee) (verification.Image, error) {
	if emp.AvatarURL == nil || *emp.AvatarURL == "" {
		return verification.Image{}, attendance.ErrProfilePictureMissing
	}
	img, err := a.fileService.LoadAvatar(ctx, *emp.AvatarURL)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return verification.Image{}, attendance.ErrProfilePictureMissing
		}
		return verification.Image{}, err
	}
	return img, nil
}

// verifyLiveFace acquires the camera, grabs one frame and matches it
// against reference. The capture is released before returning.
func (a *AttendanceServiceImpl) verifyLiveFace(ctx context.Context, source attendance.CaptureSource, reference verification.Image) error {
	if source == nil {
		return attendance.ErrCameraUnavailable
	}
	capture, err := source.Acquire(ctx)
	if err != nil {
		slog.Warn("Camera capture unavailable", "error", err)
		return attendance.ErrCameraUnavailable
	}
	defer func() {
		if err := capture.Close(); err != nil {
			slog.Warn("Failed to release camera capture", "error", err)
		}
	}()

	frame, err := capture.Frame(ctx)
	if err != nil || len(frame.Data) == 0 {
		slog.Warn("Camera frame unavailable", "error", err)
		return attendance.ErrCameraUnavailable
	}

	matched, err := a.verifier.MatchFaces(ctx, frame, reference)
	if err != nil {
		if errors.Is(err, verification.ErrVerificationUnavailable) {
			return err
		}
		slog.Error("Face match failed", "error", err)
		return verification.ErrVerificationUnavailable
	}
	if !matched {
		return attendance.ErrFaceMismatch
	}
	return nil
}

// Today implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) Today(ctx context.Context, session user.Session) (attendance.TodayResponse, error) {
	if !session.Can(user.PermissionAttendanceViewOwn) {
		return attendance.TodayResponse{}, user.ErrInsufficientPermission
	}

	var (
		companyData company.Company
		verifying   bool
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		companyData, err = a.companyRepo.GetByID(gctx, session.CompanyID)
		return err
	})
	g.Go(func() (err error) {
		verifying, err = a.locker.Held(gctx, clockLockKey(session.EmployeeID))
		return err
	})
	if err := g.Wait(); err != nil {
		return attendance.TodayResponse{}, err
	}

	now := a.now().In(companyData.Location(a.defaultLoc))
	today := localDay(now, now.Location())

	record, err := a.AttendanceRepository.GetByEmployeeAndDate(ctx, session.EmployeeID, today)
	if err != nil {
		return attendance.TodayResponse{}, err
	}

	fence, configured := companyData.Geofence()
	state := attendance.StateOf(record)

	resp := attendance.TodayResponse{
		Date:               today.Format(attendance.DateLayout),
		State:              state.String(),
		Button:             clockButton(configured, verifying, state),
		GeofenceConfigured: configured,
	}
	if configured {
		resp.RadiusMeters = &fence.RadiusMeters
	}
	if record != nil {
		r := attendance.NewAttendanceResponse(*record)
		resp.Record = &r
	}
	return resp, nil
}

func clockButton(configured, verifying bool, state attendance.State) attendance.ClockButton {
	action := func(a attendance.Action) *attendance.Action { return &a }

	switch {
	case !configured:
		return attendance.ClockButton{Label: attendance.ButtonNotConfigured, Disabled: true}
	case verifying:
		return attendance.ClockButton{Label: attendance.ButtonVerifying, Disabled: true}
	}

	switch state {
	case attendance.StateNoRecord:
		return attendance.ClockButton{Label: attendance.ButtonClockIn, Action: action(attendance.ActionClockIn)}
	case attendance.StateClockedIn:
		return attendance.ClockButton{Label: attendance.ButtonClockOut, Action: action(attendance.ActionClockOut)}
	case attendance.StateOnLeave:
		return attendance.ClockButton{Label: attendance.ButtonOnLeave, Disabled: true}
	default:
		return attendance.ClockButton{Label: attendance.ButtonCompleted, Disabled: true}
	}
}

// History implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) History(ctx context.Context, session user.Session, limit int) ([]attendance.AttendanceResponse, error) {
	if !session.Can(user.PermissionAttendanceViewOwn) {
		return nil, user.ErrInsufficientPermission
	}
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	records, err := a.AttendanceRepository.ListByEmployee(ctx, session.EmployeeID, limit)
	if err != nil {
		return nil, err
	}

	responses := make([]attendance.AttendanceResponse, 0, len(records))
	for _, r := range records {
		responses = append(responses, attendance.NewAttendanceResponse(r))
	}
	return responses, nil
}
