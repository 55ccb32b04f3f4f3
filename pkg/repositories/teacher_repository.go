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

// Postgres error codes the repositories translate into sentinel errors.
const (
	// Raised when a RESTRICT foreign key blocks a delete.
	pgForeignKeyViolation = "23503"
	// Raised when an insert trips a unique constraint.
	pgUniqueViolation = "23505"
)

// TeacherRepository provides data access for teachers, resolved globally by
// display name.
type TeacherRepository interface {
	GetByName(ctx context.Context, name string) (*models.Teacher, error)
	GetOrCreate(ctx context.Context, name string) (*models.Teacher, bool, error)
	// Delete removes a teacher. Returns apperrors.ErrInUse when the
	// teacher is still referenced by schedules or attendances.
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]*models.Teacher, error)
}

type teacherRepository struct {
	q database.Querier
}

// NewTeacherRepository creates a TeacherRepository over the given session.
func NewTeacherRepository(q database.Querier) TeacherRepository {
	return &teacherRepository{q: q}
}

var _ TeacherRepository = (*teacherRepository)(nil)

func (r *teacherRepository) GetByName(ctx context.Context, name string) (*models.Teacher, error) {
	query := `
		SELECT id, name, created_at
		FROM teachers
		WHERE name = $1`

	teacher, err := scanTeacher(r.q.QueryRow(ctx, query, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Teacher not found
		}
		return nil, err
	}
	return teacher, nil
}

func (r *teacherRepository) GetOrCreate(ctx context.Context, name string) (*models.Teacher, bool, error) {
	existing, err := r.GetByName(ctx, name)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}

	query := `
		INSERT INTO teachers (name)
		VALUES ($1)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id, name, created_at`

	teacher, err := scanTeacher(r.q.QueryRow(ctx, query, name))
	if err != nil {
		return nil, false, fmt.Errorf("failed to create teacher %q: %w", name, err)
	}
	return teacher, true, nil
}

func (r *teacherRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.q.Exec(ctx, `DELETE FROM teachers WHERE id = $1`, id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
			return apperrors.ErrInUse
		}
		return fmt.Errorf("failed to delete teacher: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *teacherRepository) List(ctx context.Context) ([]*models.Teacher, error) {
	query := `
		SELECT id, name, created_at
		FROM teachers
		ORDER BY name`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query teachers: %w", err)
	}
	defer rows.Close()

	var teachers []*models.Teacher
	for rows.Next() {
		teacher, err := scanTeacher(rows)
		if err != nil {
			return nil, err
		}
		teachers = append(teachers, teacher)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating teachers: %w", err)
	}
	return teachers, nil
}

func scanTeacher(row pgx.Row) (*models.Teacher, error) {
	var t models.Teacher
	err := row.Scan(&t.ID, &t.Name, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan teacher: %w", err)
	}
	return &t, nil
}
