package domain

import (
	"time"

	"github.com/google/uuid"
)

// Idea is a single generated idea returned by the generation endpoint.
type Idea struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Category    string    `json:"category,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
