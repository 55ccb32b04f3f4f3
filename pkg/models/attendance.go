package models

import (
	"time"

	"github.com/google/uuid"
)

// Attendance status values.
const (
	StatusPresent = "Present"
	StatusLate    = "Late"
	StatusAbsent  = "Absent"
)

// IsValidStatus reports whether s is a recognized attendance status.
func IsValidStatus(s string) bool {
	switch s {
	case StatusPresent, StatusLate, StatusAbsent:
		return true
	}
	return false
}

// Attendance records one class session on one calendar date. Unique per
// (schedule, date). MinutesLate is computed from the actual arrival time
// against the schedule's start, never negative.
type Attendance struct {
	ID          uuid.UUID  `json:"id"`
	ScheduleID  uuid.UUID  `json:"schedule_id"`
	ClassID     uuid.UUID  `json:"class_id"`
	TeacherID   uuid.UUID  `json:"teacher_id"`
	Date        time.Time  `json:"date"`
	Status      string     `json:"status"`
	ActualTime  *time.Time `json:"actual_time,omitempty"`
	MinutesLate *int       `json:"minutes_late,omitempty"`
	Notes       string     `json:"notes,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}
