package models

import (
	"time"

	"github.com/google/uuid"
)

// Event represents a community event (meetup, summit, pitch night).
// Participants holds user IDs; a user appears at most once.
type Event struct {
	ID           uuid.UUID   `json:"id"`
	Title        string      `json:"title"`
	Date         time.Time   `json:"date"`
	Location     string      `json:"location"`
	Description  string      `json:"description"`
	CreatedBy    uuid.UUID   `json:"created_by"`
	Participants []uuid.UUID `json:"participants"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// HasParticipant reports whether the user is registered for the event.
func (e *Event) HasParticipant(userID uuid.UUID) bool {
	for _, id := range e.Participants {
		if id == userID {
			return true
		}
	}
	return false
}
