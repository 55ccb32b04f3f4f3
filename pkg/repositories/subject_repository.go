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

// SubjectRepository provides data access for subjects, resolved globally by
// display name.
type SubjectRepository interface {
	GetByName(ctx context.Context, name string) (*models.Subject, error)
	GetOrCreate(ctx context.Context, name string) (*models.Subject, bool, error)
	// Delete removes a subject. Returns apperrors.ErrInUse when the
	// subject is still referenced by schedules.
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]*models.Subject, error)
}

type subjectRepository struct {
	q database.Querier
}

// NewSubjectRepository creates a SubjectRepository over the given session.
func NewSubjectRepository(q database.Querier) SubjectRepository {
	return &subjectRepository{q: q}
}

var _ SubjectRepository = (*subjectRepository)(nil)

func (r *subjectRepository) GetByName(ctx context.Context, name string) (*models.Subject, error) {
	query := `
		SELECT id, name, created_at
		FROM subjects
		WHERE name = $1`

	subject, err := scanSubject(r.q.QueryRow(ctx, query, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Subject not found
		}
		return nil, err
	}
	return subject, nil
}

func (r *subjectRepository) GetOrCreate(ctx context.Context, name string) (*models.Subject, bool, error) {
	existing, err := r.GetByName(ctx, name)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}

	query := `
		INSERT INTO subjects (name)
		VALUES ($1)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id, name, created_at`

	subject, err := scanSubject(r.q.QueryRow(ctx, query, name))
	if err != nil {
		return nil, false, fmt.Errorf("failed to create subject %q: %w", name, err)
	}
	return subject, true, nil
}

func (r *subjectRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.q.Exec(ctx, `DELETE FROM subjects WHERE id = $1`, id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
			return apperrors.ErrInUse
		}
		return fmt.Errorf("failed to delete subject: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *subjectRepository) List(ctx context.Context) ([]*models.Subject, error) {
	query := `
		SELECT id, name, created_at
		FROM subjects
		ORDER BY name`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query subjects: %w", err)
	}
	defer rows.Close()

	var subjects []*models.Subject
	for rows.Next() {
		subject, err := scanSubject(rows)
		if err != nil {
			return nil, err
		}
		subjects = append(subjects, subject)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating subjects: %w", err)
	}
	return subjects, nil
}

func scanSubject(row pgx.Row) (*models.Subject, error) {
	var s models.Subject
	err := row.Scan(&s.ID, &s.Name, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan subject: %w", err)
	}
	return &s, nil
}
