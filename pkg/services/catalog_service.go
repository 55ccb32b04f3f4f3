package services

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/slateworks/timetable-engine/pkg/models"
	"github.com/slateworks/timetable-engine/pkg/repositories"
)

// CatalogService is the admin-facing surface over the entity catalog. Its
// deletes honor the referential guard: a teacher or subject referenced by
// any schedule cannot be removed (repositories surface apperrors.ErrInUse).
type CatalogService interface {
	ListFloors(ctx context.Context) ([]*models.Floor, error)
	ListTeachers(ctx context.Context) ([]*models.Teacher, error)
	ListSubjects(ctx context.Context) ([]*models.Subject, error)
	DeleteTeacher(ctx context.Context, id uuid.UUID) error
	DeleteSubject(ctx context.Context, id uuid.UUID) error
}

type catalogService struct {
	floors   repositories.FloorRepository
	teachers repositories.TeacherRepository
	subjects repositories.SubjectRepository
	logger   *zap.Logger
}

// NewCatalogService creates a CatalogService.
func NewCatalogService(
	floors repositories.FloorRepository,
	teachers repositories.TeacherRepository,
	subjects repositories.SubjectRepository,
	logger *zap.Logger,
) CatalogService {
	return &catalogService{
		floors:   floors,
		teachers: teachers,
		subjects: subjects,
		logger:   logger,
	}
}

func (s *catalogService) ListFloors(ctx context.Context) ([]*models.Floor, error) {
	return s.floors.List(ctx)
}

func (s *catalogService) ListTeachers(ctx context.Context) ([]*models.Teacher, error) {
	return s.teachers.List(ctx)
}

func (s *catalogService) ListSubjects(ctx context.Context) ([]*models.Subject, error) {
	return s.subjects.List(ctx)
}

func (s *catalogService) DeleteTeacher(ctx context.Context, id uuid.UUID) error {
	if err := s.teachers.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Deleted teacher", zap.String("id", id.String()))
	return nil
}

func (s *catalogService) DeleteSubject(ctx context.Context, id uuid.UUID) error {
	if err := s.subjects.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Deleted subject", zap.String("id", id.String()))
	return nil
}
