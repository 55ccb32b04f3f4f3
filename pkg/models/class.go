package models

import (
	"time"

	"github.com/google/uuid"
)

// Class is a physical room/cohort on a floor. Unique by (name, floor).
// Deleting a class cascades to its schedules and attendances.
type Class struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	FloorID   uuid.UUID `json:"floor_id"`
	CreatedAt time.Time `json:"created_at"`
}
