package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/slateworks/timetable-engine/pkg/database"
	"github.com/slateworks/timetable-engine/pkg/models"
)

// ClassRepository provides data access for classes. Classes are scoped to a
// floor: (name, floor_id) is the natural key.
type ClassRepository interface {
	GetByName(ctx context.Context, name string, floorID uuid.UUID) (*models.Class, error)
	GetOrCreate(ctx context.Context, name string, floorID uuid.UUID) (*models.Class, bool, error)
	ListByFloor(ctx context.Context, floorID uuid.UUID) ([]*models.Class, error)
}

type classRepository struct {
	q database.Querier
}

// NewClassRepository creates a ClassRepository over the given session.
func NewClassRepository(q database.Querier) ClassRepository {
	return &classRepository{q: q}
}

var _ ClassRepository = (*classRepository)(nil)

func (r *classRepository) GetByName(ctx context.Context, name string, floorID uuid.UUID) (*models.Class, error) {
	query := `
		SELECT id, name, floor_id, created_at
		FROM classes
		WHERE name = $1 AND floor_id = $2`

	class, err := scanClass(r.q.QueryRow(ctx, query, name, floorID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Class not found
		}
		return nil, err
	}
	return class, nil
}

func (r *classRepository) GetOrCreate(ctx context.Context, name string, floorID uuid.UUID) (*models.Class, bool, error) {
	existing, err := r.GetByName(ctx, name, floorID)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}

	query := `
		INSERT INTO classes (name, floor_id)
		VALUES ($1, $2)
		ON CONFLICT (name, floor_id) DO UPDATE SET name = EXCLUDED.name
		RETURNING id, name, floor_id, created_at`

	class, err := scanClass(r.q.QueryRow(ctx, query, name, floorID))
	if err != nil {
		return nil, false, fmt.Errorf("failed to create class %q: %w", name, err)
	}
	return class, true, nil
}

func (r *classRepository) ListByFloor(ctx context.Context, floorID uuid.UUID) ([]*models.Class, error) {
	query := `
		SELECT id, name, floor_id, created_at
		FROM classes
		WHERE floor_id = $1
		ORDER BY name`

	rows, err := r.q.Query(ctx, query, floorID)
	if err != nil {
		return nil, fmt.Errorf("failed to query classes: %w", err)
	}
	defer rows.Close()

	var classes []*models.Class
	for rows.Next() {
		class, err := scanClass(rows)
		if err != nil {
			return nil, err
		}
		classes = append(classes, class)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating classes: %w", err)
	}
	return classes, nil
}

func scanClass(row pgx.Row) (*models.Class, error) {
	var c models.Class
	err := row.Scan(&c.ID, &c.Name, &c.FloorID, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan class: %w", err)
	}
	return &c, nil
}
