package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/slateworks/timetable-engine/pkg/database"
	"github.com/slateworks/timetable-engine/pkg/models"
)

// FloorRepository provides data access for floors.
type FloorRepository interface {
	GetByNumber(ctx context.Context, number int) (*models.Floor, error)
	// GetOrCreate resolves a floor by number, creating it with the given
	// display name when absent. Resolution is idempotent.
	GetOrCreate(ctx context.Context, number int, name string) (*models.Floor, bool, error)
	List(ctx context.Context) ([]*models.Floor, error)
}

type floorRepository struct {
	q database.Querier
}

// NewFloorRepository creates a FloorRepository over the given session.
func NewFloorRepository(q database.Querier) FloorRepository {
	return &floorRepository{q: q}
}

var _ FloorRepository = (*floorRepository)(nil)

func (r *floorRepository) GetByNumber(ctx context.Context, number int) (*models.Floor, error) {
	query := `
		SELECT id, name, number, created_at
		FROM floors
		WHERE number = $1`

	floor, err := scanFloor(r.q.QueryRow(ctx, query, number))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Floor not found
		}
		return nil, err
	}
	return floor, nil
}

func (r *floorRepository) GetOrCreate(ctx context.Context, number int, name string) (*models.Floor, bool, error) {
	existing, err := r.GetByNumber(ctx, number)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}

	query := `
		INSERT INTO floors (name, number)
		VALUES ($1, $2)
		ON CONFLICT (number) DO UPDATE SET number = EXCLUDED.number
		RETURNING id, name, number, created_at`

	floor, err := scanFloor(r.q.QueryRow(ctx, query, name, number))
	if err != nil {
		return nil, false, fmt.Errorf("failed to create floor %d: %w", number, err)
	}
	return floor, true, nil
}

func (r *floorRepository) List(ctx context.Context) ([]*models.Floor, error) {
	query := `
		SELECT id, name, number, created_at
		FROM floors
		ORDER BY number`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query floors: %w", err)
	}
	defer rows.Close()

	var floors []*models.Floor
	for rows.Next() {
		floor, err := scanFloor(rows)
		if err != nil {
			return nil, err
		}
		floors = append(floors, floor)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating floors: %w", err)
	}
	return floors, nil
}

func scanFloor(row pgx.Row) (*models.Floor, error) {
	var f models.Floor
	err := row.Scan(&f.ID, &f.Name, &f.Number, &f.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan floor: %w", err)
	}
	return &f, nil
}
