package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/slateworks/timetable-engine/pkg/apperrors"
	"github.com/slateworks/timetable-engine/pkg/database"
	"github.com/slateworks/timetable-engine/pkg/models"
)

// ScheduleRepository provides data access for schedules. The import engine
// only ever inserts new rows or skips duplicates; it never updates.
type ScheduleRepository interface {
	// Create inserts a new schedule. Returns apperrors.ErrConflict when a
	// row with the same natural key already exists.
	Create(ctx context.Context, schedule *models.Schedule) error
	// GetByKey looks up a schedule by its natural key. Returns nil when no
	// row matches.
	GetByKey(ctx context.Context, key models.ScheduleKey) (*models.Schedule, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Schedule, error)
	ListByClass(ctx context.Context, classID uuid.UUID) ([]*models.Schedule, error)
	// DeleteByFloor bulk-deletes every schedule belonging to classes on
	// the given floor, returning the number of rows removed.
	DeleteByFloor(ctx context.Context, floorID uuid.UUID) (int64, error)
	CountByFloor(ctx context.Context, floorID uuid.UUID) (int64, error)
}

type scheduleRepository struct {
	q database.Querier
}

// NewScheduleRepository creates a ScheduleRepository over the given session.
func NewScheduleRepository(q database.Querier) ScheduleRepository {
	return &scheduleRepository{q: q}
}

var _ ScheduleRepository = (*scheduleRepository)(nil)

func (r *scheduleRepository) Create(ctx context.Context, schedule *models.Schedule) error {
	query := `
		INSERT INTO schedules (class_id, teacher_id, subject_id, day_of_week, start_time, end_time)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	err := r.q.QueryRow(ctx, query,
		schedule.ClassID,
		schedule.TeacherID,
		schedule.SubjectID,
		int(schedule.DayOfWeek),
		schedule.StartTime,
		schedule.EndTime,
	).Scan(&schedule.ID, &schedule.CreatedAt)
	if err != nil {
		// The duplicate check is a separate read, so a concurrent insert
		// can still trip the natural-key constraint here.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return apperrors.ErrConflict
		}
		return fmt.Errorf("failed to create schedule: %w", err)
	}
	return nil
}

func (r *scheduleRepository) GetByKey(ctx context.Context, key models.ScheduleKey) (*models.Schedule, error) {
	query := `
		SELECT id, class_id, teacher_id, subject_id, day_of_week, start_time, end_time, created_at
		FROM schedules
		WHERE class_id = $1 AND day_of_week = $2 AND start_time = $3 AND end_time = $4`

	schedule, err := scanSchedule(r.q.QueryRow(ctx, query,
		key.ClassID, int(key.DayOfWeek), key.StartTime, key.EndTime))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Schedule not found
		}
		return nil, err
	}
	return schedule, nil
}

func (r *scheduleRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Schedule, error) {
	query := `
		SELECT id, class_id, teacher_id, subject_id, day_of_week, start_time, end_time, created_at
		FROM schedules
		WHERE id = $1`

	schedule, err := scanSchedule(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Schedule not found
		}
		return nil, err
	}
	return schedule, nil
}

func (r *scheduleRepository) ListByClass(ctx context.Context, classID uuid.UUID) ([]*models.Schedule, error) {
	query := `
		SELECT id, class_id, teacher_id, subject_id, day_of_week, start_time, end_time, created_at
		FROM schedules
		WHERE class_id = $1
		ORDER BY day_of_week, start_time`

	rows, err := r.q.Query(ctx, query, classID)
	if err != nil {
		return nil, fmt.Errorf("failed to query schedules: %w", err)
	}
	defer rows.Close()

	var schedules []*models.Schedule
	for rows.Next() {
		schedule, err := scanSchedule(rows)
		if err != nil {
			return nil, err
		}
		schedules = append(schedules, schedule)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating schedules: %w", err)
	}
	return schedules, nil
}

func (r *scheduleRepository) DeleteByFloor(ctx context.Context, floorID uuid.UUID) (int64, error) {
	query := `
		DELETE FROM schedules
		WHERE class_id IN (SELECT id FROM classes WHERE floor_id = $1)`

	result, err := r.q.Exec(ctx, query, floorID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete schedules for floor: %w", err)
	}
	return result.RowsAffected(), nil
}

func (r *scheduleRepository) CountByFloor(ctx context.Context, floorID uuid.UUID) (int64, error) {
	query := `
		SELECT count(*)
		FROM schedules s
		JOIN classes c ON c.id = s.class_id
		WHERE c.floor_id = $1`

	var count int64
	if err := r.q.QueryRow(ctx, query, floorID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count schedules: %w", err)
	}
	return count, nil
}

func scanSchedule(row pgx.Row) (*models.Schedule, error) {
	var (
		s   models.Schedule
		day int
	)
	err := row.Scan(&s.ID, &s.ClassID, &s.TeacherID, &s.SubjectID, &day, &s.StartTime, &s.EndTime, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan schedule: %w", err)
	}
	s.DayOfWeek = models.Weekday(day)
	return &s, nil
}
