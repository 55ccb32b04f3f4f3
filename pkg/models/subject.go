package models

import (
	"time"

	"github.com/google/uuid"
)

// Subject is unique by name; a subject referenced by at least one schedule
// cannot be deleted.
type Subject struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
