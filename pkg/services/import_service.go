package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/slateworks/timetable-engine/pkg/apperrors"
	"github.com/slateworks/timetable-engine/pkg/extraction"
	"github.com/slateworks/timetable-engine/pkg/models"
	"github.com/slateworks/timetable-engine/pkg/repositories"
)

// ImportStats is the statistics record one import run produces. Every entry
// lands in exactly one of Imported, SkippedDuplicate, SkippedInvalid, or
// Errors; nothing is dropped without a counter.
type ImportStats struct {
	Total            int `json:"total"`
	Imported         int `json:"imported"`
	Academic         int `json:"academic"`
	FreePeriods      int `json:"free_periods"`
	SkippedDuplicate int `json:"skipped_duplicate"`
	SkippedInvalid   int `json:"skipped_invalid"`
	Errors           int `json:"errors"`
	SchedulesCleared int `json:"schedules_cleared"`
	ClassesCreated   int `json:"classes_created"`
	TeachersCreated  int `json:"teachers_created"`
	SubjectsCreated  int `json:"subjects_created"`
}

// ImportOptions configures one import run.
type ImportOptions struct {
	// ClearExisting deletes all schedules under the target floor before
	// importing. Runs in its own transaction; a failure aborts the floor.
	ClearExisting bool
}

// TxRunner runs fn inside a database transaction, committing when fn returns
// nil and rolling back otherwise. The import service uses it for the
// destructive clear-existing step, which must never leave a partial delete.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context, repos *Repositories) error) error
}

// Repositories bundles the per-session repository set the import engine
// works against. A TxRunner hands out a transaction-scoped copy.
type Repositories struct {
	Floors    repositories.FloorRepository
	Classes   repositories.ClassRepository
	Teachers  repositories.TeacherRepository
	Subjects  repositories.SubjectRepository
	Schedules repositories.ScheduleRepository
}

// ImportService reconciles extracted raw entries against the persistent
// store: get-or-create entity resolution, natural-key duplicate suppression,
// per-entry failure isolation.
type ImportService interface {
	Import(ctx context.Context, floorNumber int, entries []extraction.Entry, opts ImportOptions) (*ImportStats, error)
}

type importService struct {
	repos  *Repositories
	tx     TxRunner
	logger *zap.Logger
}

// NewImportService creates an ImportService over the given session
// repositories and transaction runner.
func NewImportService(repos *Repositories, tx TxRunner, logger *zap.Logger) ImportService {
	return &importService{repos: repos, tx: tx, logger: logger}
}

// Import processes the flat entry sequence for one floor. A single bad entry
// never aborts the batch: validation failures, duplicates, and per-entry
// persistence errors are counted and the loop continues. The only fatal
// conditions are a failed clear-existing step and failure to resolve the
// floor itself.
func (s *importService) Import(ctx context.Context, floorNumber int, entries []extraction.Entry, opts ImportOptions) (*ImportStats, error) {
	stats := &ImportStats{Total: len(entries)}

	floor, created, err := s.repos.Floors.GetOrCreate(ctx, floorNumber, fmt.Sprintf("Floor %d", floorNumber))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve floor %d: %w", floorNumber, err)
	}
	if created {
		s.logger.Info("Created floor", zap.Int("number", floorNumber))
	}

	if opts.ClearExisting {
		cleared, err := s.clearExisting(ctx, floor)
		if err != nil {
			// Importing on top of a half-cleared floor would mix old
			// and new rows; stop here.
			return nil, fmt.Errorf("%w: %v", apperrors.ErrClearFailed, err)
		}
		stats.SchedulesCleared = int(cleared)
		s.logger.Info("Cleared existing schedules",
			zap.Int("floor", floorNumber),
			zap.Int64("deleted", cleared))
	}

	for i := range entries {
		entry := &entries[i]

		if err := validateEntry(entry); err != nil {
			stats.SkippedInvalid++
			s.logger.Warn("Skipping invalid entry",
				zap.Int("index", i),
				zap.String("class", entry.ClassName),
				zap.Error(err))
			continue
		}

		if err := s.importEntry(ctx, floor, entry, stats); err != nil {
			stats.Errors++
			s.logger.Error("Failed to import entry",
				zap.Int("index", i),
				zap.String("class", entry.ClassName),
				zap.Stringer("day", entry.Day),
				zap.Int("period", entry.PeriodID),
				zap.Error(err))
		}
	}

	s.logger.Info("Import finished",
		zap.Int("floor", floorNumber),
		zap.Int("total", stats.Total),
		zap.Int("imported", stats.Imported),
		zap.Int("skipped_duplicate", stats.SkippedDuplicate),
		zap.Int("skipped_invalid", stats.SkippedInvalid),
		zap.Int("errors", stats.Errors))

	return stats, nil
}

// clearExisting deletes the floor's schedules inside a single transaction so
// a failure leaves either all of the old rows or none of them.
func (s *importService) clearExisting(ctx context.Context, floor *models.Floor) (int64, error) {
	var cleared int64
	err := s.tx.RunInTx(ctx, func(ctx context.Context, repos *Repositories) error {
		n, err := repos.Schedules.DeleteByFloor(ctx, floor.ID)
		if err != nil {
			return err
		}
		cleared = n
		return nil
	})
	return cleared, err
}

// importEntry resolves one raw entry's entities and persists it unless its
// natural key already exists.
func (s *importService) importEntry(ctx context.Context, floor *models.Floor, entry *extraction.Entry, stats *ImportStats) error {
	class, created, err := s.repos.Classes.GetOrCreate(ctx, entry.ClassName, floor.ID)
	if err != nil {
		return fmt.Errorf("failed to resolve class: %w", err)
	}
	if created {
		stats.ClassesCreated++
	}

	teacherName, subjectName := entry.Teacher, entry.Subject
	if entry.IsFree {
		// Free periods share the sentinel entities across all floors.
		teacherName = models.SentinelTeacherName
		subjectName = models.SentinelSubjectName
	}

	teacher, created, err := s.repos.Teachers.GetOrCreate(ctx, teacherName)
	if err != nil {
		return fmt.Errorf("failed to resolve teacher: %w", err)
	}
	if created {
		stats.TeachersCreated++
	}

	subject, created, err := s.repos.Subjects.GetOrCreate(ctx, subjectName)
	if err != nil {
		return fmt.Errorf("failed to resolve subject: %w", err)
	}
	if created {
		stats.SubjectsCreated++
	}

	key := models.ScheduleKey{
		ClassID:   class.ID,
		DayOfWeek: entry.Day,
		StartTime: entry.StartTime,
		EndTime:   entry.EndTime,
	}
	existing, err := s.repos.Schedules.GetByKey(ctx, key)
	if err != nil {
		return fmt.Errorf("failed to check for duplicate: %w", err)
	}
	if existing != nil {
		stats.SkippedDuplicate++
		// The stored row wins: corrections via re-import are skipped,
		// not applied. Surface the mismatch so it stays discoverable.
		if existing.TeacherID != teacher.ID || existing.SubjectID != subject.ID {
			s.logger.Debug("Duplicate slot carries different assignment; keeping stored row",
				zap.String("class", entry.ClassName),
				zap.Stringer("day", entry.Day),
				zap.Int("period", entry.PeriodID))
		}
		return nil
	}

	schedule := &models.Schedule{
		ClassID:   class.ID,
		TeacherID: teacher.ID,
		SubjectID: subject.ID,
		DayOfWeek: entry.Day,
		StartTime: entry.StartTime,
		EndTime:   entry.EndTime,
	}
	if err := s.repos.Schedules.Create(ctx, schedule); err != nil {
		return fmt.Errorf("failed to create schedule: %w", err)
	}

	stats.Imported++
	if entry.IsFree {
		stats.FreePeriods++
	} else {
		stats.Academic++
	}
	return nil
}

// validateEntry checks the fields the store requires. Classification already
// filtered nonsense cells; this catches entries mangled between extraction
// and import.
func validateEntry(entry *extraction.Entry) error {
	if entry.ClassName == "" {
		return fmt.Errorf("missing class name")
	}
	if entry.Subject == "" {
		return fmt.Errorf("missing subject")
	}
	if entry.Teacher == "" {
		return fmt.Errorf("missing teacher")
	}
	if !entry.Day.Valid() {
		return fmt.Errorf("day %d out of range", int(entry.Day))
	}
	if entry.StartTime.IsZero() || entry.EndTime.IsZero() {
		return fmt.Errorf("missing start or end time")
	}
	if !entry.StartTime.Before(entry.EndTime) {
		return fmt.Errorf("start time %s is not before end time %s",
			entry.StartTime.Format("15:04"), entry.EndTime.Format("15:04"))
	}
	return nil
}
