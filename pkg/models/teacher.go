package models

import (
	"time"

	"github.com/google/uuid"
)

// Sentinel names used for free-period placeholder entries. The import engine
// resolves every free entry to these shared rows.
const (
	SentinelTeacherName = "No Teacher"
	SentinelSubjectName = "Free Period"

	// UnknownTeacherName is assigned when a cell carries a subject line
	// but no teacher line.
	UnknownTeacherName = "Unknown Teacher"
)

// Teacher is resolved by name match; a teacher referenced by at least one
// schedule cannot be deleted.
type Teacher struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
