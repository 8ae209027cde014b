package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const attendanceDayConstraint = "attendance_employee_date_key"

const attendanceColumns = `id, employee_id, company_id, date, status, check_in_time, check_out_time, created_at, updated_at`

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

func scanAttendance(row pgx.Row) (attendance.Attendance, error) {
	var att attendance.Attendance
	err := row.Scan(
		&att.ID, &att.EmployeeID, &att.CompanyID, &att.Date, &att.Status,
		&att.CheckInTime, &att.CheckOutTime, &att.CreatedAt, &att.UpdatedAt,
	)
	return att, err
}

// GetByEmployeeAndDate implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `SELECT ` + attendanceColumns + ` FROM attendance WHERE employee_id = $1 AND date = $2`

	att, err := scanAttendance(q.QueryRow(ctx, query, employeeID, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get attendance: %w", err)
	}
	return &att, nil
}

// CreateClockIn implements attendance.AttendanceRepository.
func (a *attendanceRepository) CreateClockIn(ctx context.Context, record attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		INSERT INTO attendance (employee_id, company_id, date, status, check_in_time)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + attendanceColumns

	created, err := scanAttendance(q.QueryRow(ctx, query,
		record.EmployeeID, record.CompanyID, record.Date, record.Status, record.CheckInTime,
	))
	if err != nil {
		if database.IsUniqueViolation(err, attendanceDayConstraint) {
			return attendance.Attendance{}, attendance.ErrAlreadyClockedIn
		}
		return attendance.Attendance{}, fmt.Errorf("failed to create attendance: %w", err)
	}
	return created, nil
}

// SetCheckOut implements attendance.AttendanceRepository.
func (a *attendanceRepository) SetCheckOut(ctx context.Context, id, checkOutTime string) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE attendance
		SET check_out_time = $1, updated_at = NOW()
		WHERE id = $2 AND check_in_time IS NOT NULL AND check_out_time IS NULL
		RETURNING ` + attendanceColumns

	updated, err := scanAttendance(q.QueryRow(ctx, query, checkOutTime, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrAlreadyClockedOut
		}
		return attendance.Attendance{}, fmt.Errorf("failed to set check-out: %w", err)
	}
	return updated, nil
}

// ListByEmployee implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListByEmployee(ctx context.Context, employeeID string, limit int) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `SELECT ` + attendanceColumns + ` FROM attendance WHERE employee_id = $1 ORDER BY date DESC LIMIT $2`

	rows, err := q.Query(ctx, query, employeeID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}
	defer rows.Close()

	records := []attendance.Attendance{}
	for rows.Next() {
		att, err := scanAttendance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		records = append(records, att)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// MarkOnLeave implements attendance.AttendanceRepository.
func (a *attendanceRepository) MarkOnLeave(ctx context.Context, employeeID, companyID string, days []time.Time) (int64, error) {
	if len(days) == 0 {
		return 0, nil
	}
	q := GetQuerier(ctx, a.db)

	query := `
		INSERT INTO attendance (employee_id, company_id, date, status)
		SELECT $1, $2, d, $3 FROM unnest($4::date[]) AS d
		ON CONFLICT ON CONSTRAINT ` + attendanceDayConstraint + ` DO NOTHING`

	tag, err := q.Exec(ctx, query, employeeID, companyID, attendance.StatusOnLeave, days)
	if err != nil {
		return 0, fmt.Errorf("failed to mark leave days: %w", err)
	}
	return tag.RowsAffected(), nil
}
