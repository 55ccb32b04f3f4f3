package services

import (
	"context"
	"fmt"

	"github.com/slateworks/timetable-engine/pkg/database"
	"github.com/slateworks/timetable-engine/pkg/repositories"
)

// NewRepositories builds the repository set over one session. Passing a
// transaction makes every repository participate in it.
func NewRepositories(q database.Querier) *Repositories {
	return &Repositories{
		Floors:    repositories.NewFloorRepository(q),
		Classes:   repositories.NewClassRepository(q),
		Teachers:  repositories.NewTeacherRepository(q),
		Subjects:  repositories.NewSubjectRepository(q),
		Schedules: repositories.NewScheduleRepository(q),
	}
}

type pgxTxRunner struct {
	db *database.DB
}

// NewTxRunner creates a TxRunner backed by the connection pool.
func NewTxRunner(db *database.DB) TxRunner {
	return &pgxTxRunner{db: db}
}

func (r *pgxTxRunner) RunInTx(ctx context.Context, fn func(ctx context.Context, repos *Repositories) error) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(ctx, NewRepositories(tx)); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
