package models

import (
	"time"

	"github.com/google/uuid"
)

// Floor is one building floor; it owns its classes (DELETE CASCADE).
// Stored in the floors table, unique by number.
type Floor struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Number    int       `json:"number"`
	CreatedAt time.Time `json:"created_at"`
}
