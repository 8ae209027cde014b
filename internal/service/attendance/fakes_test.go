package attendance

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/company"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/verification"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/storage"
	"github.com/cmlabs-hris/ems-backend-go/internal/service/file"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// memoryAttendanceRepository enforces the same one-row-per-day and
// check-out-once guards as the postgres repository.
type memoryAttendanceRepository struct {
	mu      sync.Mutex
	records map[string]*attendance.Attendance
}

func newMemoryAttendanceRepository() *memoryAttendanceRepository {
	return &memoryAttendanceRepository{records: make(map[string]*attendance.Attendance)}
}

func dayKey(employeeID string, date time.Time) string {
	return employeeID + "|" + date.Format(attendance.DateLayout)
}

func (m *memoryAttendanceRepository) GetByEmployeeAndDate(_ context.Context, employeeID string, date time.Time) (*attendance.Attendance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.records[dayKey(employeeID, date)]; ok {
		c := *r
		return &c, nil
	}
	return nil, nil
}

func (m *memoryAttendanceRepository) CreateClockIn(_ context.Context, record attendance.Attendance) (attendance.Attendance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := dayKey(record.EmployeeID, record.Date)
	if _, ok := m.records[key]; ok {
		return attendance.Attendance{}, attendance.ErrAlreadyClockedIn
	}
	record.ID = uuid.NewString()
	m.records[key] = &record
	return record, nil
}

func (m *memoryAttendanceRepository) SetCheckOut(_ context.Context, id, checkOutTime string) (attendance.Attendance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.records {
		if r.ID != id {
			continue
		}
		if r.CheckOutTime != nil {
			return attendance.Attendance{}, attendance.ErrAlreadyClockedOut
		}
		r.CheckOutTime = &checkOutTime
		return *r, nil
	}
	return attendance.Attendance{}, attendance.ErrAttendanceNotFound
}

func (m *memoryAttendanceRepository) ListByEmployee(_ context.Context, employeeID string, limit int) ([]attendance.Attendance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []attendance.Attendance
	for _, r := range m.records {
		if r.EmployeeID == employeeID && len(out) < limit {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (m *memoryAttendanceRepository) MarkOnLeave(_ context.Context, employeeID, companyID string, days []time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, d := range days {
		key := dayKey(employeeID, d)
		if _, ok := m.records[key]; ok {
			continue
		}
		m.records[key] = &attendance.Attendance{ID: uuid.NewString(), EmployeeID: employeeID, CompanyID: companyID, Date: d, Status: attendance.StatusOnLeave}
		n++
	}
	return n, nil
}

func (m *memoryAttendanceRepository) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records)
}

type stubCompanyRepository struct {
	company.CompanyRepository
	company company.Company
}

func (s *stubCompanyRepository) GetByID(context.Context, string) (company.Company, error) {
	return s.company, nil
}

type stubEmployeeRepository struct {
	employee.EmployeeRepository
	employee employee.Employee
}

func (s *stubEmployeeRepository) GetByID(context.Context, string, string) (employee.Employee, error) {
	return s.employee, nil
}

type stubFileService struct {
	file.FileService
	avatars map[string][]byte
}

func (s *stubFileService) LoadAvatar(_ context.Context, key string) (verification.Image, error) {
	data, ok := s.avatars[key]
	if !ok {
		return verification.Image{}, storage.ErrNotFound
	}
	return verification.Image{Data: data, MIMEType: "image/jpeg"}, nil
}

type MockVerifier struct {
	mock.Mock
}

func (m *MockVerifier) ValidatePortrait(ctx context.Context, img verification.Image) (verification.PortraitResult, error) {
	args := m.Called(ctx, img)
	return args.Get(0).(verification.PortraitResult), args.Error(1)
}

func (m *MockVerifier) MatchFaces(ctx context.Context, live, reference verification.Image) (bool, error) {
	args := m.Called(ctx, live, reference)
	return args.Bool(0), args.Error(1)
}

func (m *MockVerifier) DetectFace(ctx context.Context, img verification.Image) (bool, error) {
	args := m.Called(ctx, img)
	return args.Bool(0), args.Error(1)
}

// fakeCapture records whether the camera was opened and released.
type fakeCapture struct {
	frame      []byte
	acquireErr error
	frameErr   error

	acquired int
	closed   int
}

func (f *fakeCapture) Acquire(context.Context) (attendance.Capture, error) {
	if f.acquireErr != nil {
		return nil, f.acquireErr
	}
	f.acquired++
	return f, nil
}

func (f *fakeCapture) Frame(context.Context) (verification.Image, error) {
	if f.frameErr != nil {
		return verification.Image{}, f.frameErr
	}
	return verification.Image{Data: f.frame, MIMEType: "image/jpeg"}, nil
}

func (f *fakeCapture) Close() error {
	f.closed++
	return nil
}

var errCameraDenied = errors.New("permission denied")

type recordingSink struct {
	mu     sync.Mutex
	events []notification.Event
}

func (r *recordingSink) Notify(_ context.Context, _ []string, e notification.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}
