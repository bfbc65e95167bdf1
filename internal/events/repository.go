package events

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/maroc-digital-hub/backend/internal/models"
)

// ErrNotFound is returned when no event matches the lookup.
var ErrNotFound = errors.New("event not found")

// Repository handles event persistence, including the participants join table.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates an events repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const eventSelect = `SELECT e.id, e.title, e.date, e.location, e.description, e.created_by, e.created_at, e.updated_at,
	COALESCE(array_agg(p.user_id::text) FILTER (WHERE p.user_id IS NOT NULL), '{}') AS participants
	FROM events e
	LEFT JOIN event_participants p ON p.event_id = e.id`

func scanEvent(row pgx.Row) (*models.Event, error) {
	var ev models.Event
	var participants []string
	err := row.Scan(&ev.ID, &ev.Title, &ev.Date, &ev.Location, &ev.Description,
		&ev.CreatedBy, &ev.CreatedAt, &ev.UpdatedAt, &participants)
	if err != nil {
		return nil, err
	}
	ev.Participants = make([]uuid.UUID, 0, len(participants))
	for _, p := range participants {
		id, err := uuid.Parse(p)
		if err != nil {
			continue
		}
		ev.Participants = append(ev.Participants, id)
	}
	return &ev, nil
}

// Create inserts a new event.
func (r *Repository) Create(ctx context.Context, ev *models.Event) error {
	const q = `INSERT INTO events (title, date, location, description, created_by)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`
	err := r.pool.QueryRow(ctx, q, ev.Title, ev.Date, ev.Location, ev.Description, ev.CreatedBy).
		Scan(&ev.ID, &ev.CreatedAt, &ev.UpdatedAt)
	if err != nil {
		return err
	}
	ev.Participants = []uuid.UUID{}
	return nil
}

// GetByID returns an event with its participant list.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	q := eventSelect + ` WHERE e.id = $1 GROUP BY e.id`
	ev, err := scanEvent(r.pool.QueryRow(ctx, q, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return ev, nil
}

// List returns all events with participants, soonest date first.
func (r *Repository) List(ctx context.Context) ([]models.Event, error) {
	q := eventSelect + ` GROUP BY e.id ORDER BY e.date`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.Event
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *ev)
	}
	return list, rows.Err()
}

// Update replaces title, date, location, and description of an event.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, title string, date time.Time, location, description string) error {
	const q = `UPDATE events SET title = $1, date = $2, location = $3, description = $4, updated_at = NOW() WHERE id = $5`
	_, err := r.pool.Exec(ctx, q, title, date, location, description, id)
	return err
}

// Delete removes an event and, via cascade, its participations.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM events WHERE id = $1`, id)
	return err
}

// AddParticipant registers a user on an event. Returns false when the user
// was already registered (the insert is idempotent).
func (r *Repository) AddParticipant(ctx context.Context, eventID, userID uuid.UUID) (bool, error) {
	const q = `INSERT INTO event_participants (event_id, user_id) VALUES ($1, $2)
		ON CONFLICT (event_id, user_id) DO NOTHING`
	tag, err := r.pool.Exec(ctx, q, eventID, userID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// RemoveParticipant cancels a user's registration. Returns false when the
// user was not registered.
func (r *Repository) RemoveParticipant(ctx context.Context, eventID, userID uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM event_participants WHERE event_id = $1 AND user_id = $2`, eventID, userID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
