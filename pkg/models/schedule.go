package models

import (
	"time"

	"github.com/google/uuid"
)

// Schedule is one recurring weekly session. Its natural key is
// (class_id, day_of_week, start_time, end_time); teacher and subject are
// deliberately not part of it, so re-importing a corrected assignment for an
// occupied slot is a duplicate, not an update.
type Schedule struct {
	ID        uuid.UUID `json:"id"`
	ClassID   uuid.UUID `json:"class_id"`
	TeacherID uuid.UUID `json:"teacher_id"`
	SubjectID uuid.UUID `json:"subject_id"`
	DayOfWeek Weekday   `json:"day_of_week"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	CreatedAt time.Time `json:"created_at"`
}

// ScheduleKey is the natural key used for duplicate suppression.
type ScheduleKey struct {
	ClassID   uuid.UUID
	DayOfWeek Weekday
	StartTime time.Time
	EndTime   time.Time
}

// Key returns the schedule's natural key.
func (s *Schedule) Key() ScheduleKey {
	return ScheduleKey{
		ClassID:   s.ClassID,
		DayOfWeek: s.DayOfWeek,
		StartTime: s.StartTime,
		EndTime:   s.EndTime,
	}
}
