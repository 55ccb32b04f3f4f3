package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/slateworks/timetable-engine/pkg/apperrors"
	"github.com/slateworks/timetable-engine/pkg/models"
	"github.com/slateworks/timetable-engine/pkg/repositories"
)

// RecordAttendanceRequest carries one attendance observation.
type RecordAttendanceRequest struct {
	ScheduleID uuid.UUID
	Date       time.Time
	Status     string
	// ActualTime is the observed arrival time; required for Late status.
	ActualTime *time.Time
	Notes      string
}

// AttendanceService records per-date attendance against schedules.
type AttendanceService interface {
	Record(ctx context.Context, req *RecordAttendanceRequest) (*models.Attendance, error)
}

type attendanceService struct {
	attendances repositories.AttendanceRepository
	schedules   repositories.ScheduleRepository
	logger      *zap.Logger
}

// NewAttendanceService creates an AttendanceService.
func NewAttendanceService(
	attendances repositories.AttendanceRepository,
	schedules repositories.ScheduleRepository,
	logger *zap.Logger,
) AttendanceService {
	return &attendanceService{
		attendances: attendances,
		schedules:   schedules,
		logger:      logger,
	}
}

// Record upserts the attendance row for (schedule, date). Lateness is
// computed against the schedule's start time and never negative: arriving
// early is zero minutes late.
func (s *attendanceService) Record(ctx context.Context, req *RecordAttendanceRequest) (*models.Attendance, error) {
	if !models.IsValidStatus(req.Status) {
		return nil, fmt.Errorf("invalid attendance status %q", req.Status)
	}

	schedule, err := s.findSchedule(ctx, req.ScheduleID)
	if err != nil {
		return nil, err
	}

	attendance := &models.Attendance{
		ScheduleID: schedule.ID,
		ClassID:    schedule.ClassID,
		TeacherID:  schedule.TeacherID,
		Date:       req.Date,
		Status:     req.Status,
		ActualTime: req.ActualTime,
		Notes:      req.Notes,
	}

	if req.ActualTime != nil {
		late := minutesLate(schedule.StartTime, *req.ActualTime)
		attendance.MinutesLate = &late
	}

	if err := s.attendances.Upsert(ctx, attendance); err != nil {
		return nil, err
	}
	return attendance, nil
}

func (s *attendanceService) findSchedule(ctx context.Context, id uuid.UUID) (*models.Schedule, error) {
	schedule, err := s.schedules.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if schedule == nil {
		return nil, fmt.Errorf("schedule %s: %w", id, apperrors.ErrNotFound)
	}
	return schedule, nil
}

// minutesLate computes max(0, arrival - scheduled start) in whole minutes,
// comparing clock components only.
func minutesLate(scheduledStart, arrival time.Time) int {
	start := time.Date(0, time.January, 1, scheduledStart.Hour(), scheduledStart.Minute(), 0, 0, time.UTC)
	actual := time.Date(0, time.January, 1, arrival.Hour(), arrival.Minute(), 0, 0, time.UTC)
	late := int(actual.Sub(start).Minutes())
	if late < 0 {
		return 0
	}
	return late
}
