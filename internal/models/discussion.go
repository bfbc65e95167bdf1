package models

import (
	"time"

	"github.com/google/uuid"
)

// Discussion is a forum message. AuthorName and AuthorRole are captured at
// post time and never re-derived: if the author's role changes later,
// historical messages keep the label they were posted under.
type Discussion struct {
	ID         uuid.UUID   `json:"id"`
	AuthorID   uuid.UUID   `json:"author_id"`
	AuthorName string      `json:"author_name"`
	AuthorRole Role        `json:"author_role"`
	Message    string      `json:"message"`
	Likes      []uuid.UUID `json:"likes"`
	CreatedAt  time.Time   `json:"created_at"`
}

// LikedBy reports whether the user has liked the message.
func (d *Discussion) LikedBy(userID uuid.UUID) bool {
	for _, id := range d.Likes {
		if id == userID {
			return true
		}
	}
	return false
}
