package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/slateworks/timetable-engine/pkg/database"
	"github.com/slateworks/timetable-engine/pkg/models"
)

// AttendanceRepository provides data access for attendance records. One
// record exists per (schedule, date); recording twice for the same date
// replaces the earlier status.
type AttendanceRepository interface {
	Upsert(ctx context.Context, attendance *models.Attendance) error
	GetByScheduleAndDate(ctx context.Context, scheduleID uuid.UUID, date time.Time) (*models.Attendance, error)
	ListByClassAndDate(ctx context.Context, classID uuid.UUID, date time.Time) ([]*models.Attendance, error)
}

type attendanceRepository struct {
	q database.Querier
}

// NewAttendanceRepository creates an AttendanceRepository over the given session.
func NewAttendanceRepository(q database.Querier) AttendanceRepository {
	return &attendanceRepository{q: q}
}

var _ AttendanceRepository = (*attendanceRepository)(nil)

func (r *attendanceRepository) Upsert(ctx context.Context, a *models.Attendance) error {
	query := `
		INSERT INTO attendances (schedule_id, class_id, teacher_id, date, status, actual_time, minutes_late, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (schedule_id, date) DO UPDATE SET
			status = EXCLUDED.status,
			actual_time = EXCLUDED.actual_time,
			minutes_late = EXCLUDED.minutes_late,
			notes = EXCLUDED.notes
		RETURNING id, created_at`

	err := r.q.QueryRow(ctx, query,
		a.ScheduleID,
		a.ClassID,
		a.TeacherID,
		a.Date,
		a.Status,
		a.ActualTime,
		a.MinutesLate,
		nullIfEmpty(a.Notes),
	).Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert attendance: %w", err)
	}
	return nil
}

func (r *attendanceRepository) GetByScheduleAndDate(ctx context.Context, scheduleID uuid.UUID, date time.Time) (*models.Attendance, error) {
	query := `
		SELECT id, schedule_id, class_id, teacher_id, date, status, actual_time, minutes_late, notes, created_at
		FROM attendances
		WHERE schedule_id = $1 AND date = $2`

	attendance, err := scanAttendance(r.q.QueryRow(ctx, query, scheduleID, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Attendance not found
		}
		return nil, err
	}
	return attendance, nil
}

func (r *attendanceRepository) ListByClassAndDate(ctx context.Context, classID uuid.UUID, date time.Time) ([]*models.Attendance, error) {
	query := `
		SELECT id, schedule_id, class_id, teacher_id, date, status, actual_time, minutes_late, notes, created_at
		FROM attendances
		WHERE class_id = $1 AND date = $2
		ORDER BY created_at`

	rows, err := r.q.Query(ctx, query, classID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to query attendances: %w", err)
	}
	defer rows.Close()

	var attendances []*models.Attendance
	for rows.Next() {
		attendance, err := scanAttendance(rows)
		if err != nil {
			return nil, err
		}
		attendances = append(attendances, attendance)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating attendances: %w", err)
	}
	return attendances, nil
}

func scanAttendance(row pgx.Row) (*models.Attendance, error) {
	var (
		a     models.Attendance
		notes *string
	)
	err := row.Scan(&a.ID, &a.ScheduleID, &a.ClassID, &a.TeacherID, &a.Date,
		&a.Status, &a.ActualTime, &a.MinutesLate, &notes, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan attendance: %w", err)
	}
	if notes != nil {
		a.Notes = *notes
	}
	return &a, nil
}

// nullIfEmpty returns nil for empty strings so the column stores NULL.
func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
