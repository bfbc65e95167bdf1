package discussions

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/maroc-digital-hub/backend/internal/models"
)

// ErrNotFound is returned when no discussion matches the lookup.
var ErrNotFound = errors.New("discussion not found")

// Repository handles discussion persistence, including the likes join table.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a discussions repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const discussionSelect = `SELECT d.id, d.author_id, d.author_name, d.author_role, d.message, d.created_at,
	COALESCE(array_agg(l.user_id::text) FILTER (WHERE l.user_id IS NOT NULL), '{}') AS likes
	FROM discussions d
	LEFT JOIN discussion_likes l ON l.discussion_id = d.id`

func scanDiscussion(row pgx.Row) (*models.Discussion, error) {
	var d models.Discussion
	var likes []string
	err := row.Scan(&d.ID, &d.AuthorID, &d.AuthorName, &d.AuthorRole, &d.Message, &d.CreatedAt, &likes)
	if err != nil {
		return nil, err
	}
	d.Likes = make([]uuid.UUID, 0, len(likes))
	for _, l := range likes {
		id, err := uuid.Parse(l)
		if err != nil {
			continue
		}
		d.Likes = append(d.Likes, id)
	}
	return &d, nil
}

// Create inserts a new discussion message. Author name and role are stored
// with the message so it keeps them even if the account changes later.
func (r *Repository) Create(ctx context.Context, d *models.Discussion) error {
	const q = `INSERT INTO discussions (author_id, author_name, author_role, message)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`
	err := r.pool.QueryRow(ctx, q, d.AuthorID, d.AuthorName, string(d.AuthorRole), d.Message).
		Scan(&d.ID, &d.CreatedAt)
	if err != nil {
		return err
	}
	d.Likes = []uuid.UUID{}
	return nil
}

// GetByID returns a discussion with its like list.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Discussion, error) {
	q := discussionSelect + ` WHERE d.id = $1 GROUP BY d.id`
	d, err := scanDiscussion(r.pool.QueryRow(ctx, q, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return d, nil
}

// List returns all discussions with likes, newest first.
func (r *Repository) List(ctx context.Context) ([]models.Discussion, error) {
	q := discussionSelect + ` GROUP BY d.id ORDER BY d.created_at DESC`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.Discussion
	for rows.Next() {
		d, err := scanDiscussion(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *d)
	}
	return list, rows.Err()
}

// Delete removes a discussion and, via cascade, its likes.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM discussions WHERE id = $1`, id)
	return err
}

// ToggleLike flips the user's like on a discussion inside one transaction.
// Returns true when the discussion ends up liked by the user.
func (r *Repository) ToggleLike(ctx context.Context, discussionID, userID uuid.UUID) (liked bool, err error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `DELETE FROM discussion_likes WHERE discussion_id = $1 AND user_id = $2`, discussionID, userID)
	if err != nil {
		return false, err
	}
	if tag.RowsAffected() == 0 {
		if _, err := tx.Exec(ctx, `INSERT INTO discussion_likes (discussion_id, user_id) VALUES ($1, $2)`, discussionID, userID); err != nil {
			return false, err
		}
		liked = true
	}
	if err := tx.Commit(ctx); err != nil {
		return false, err
	}
	return liked, nil
}
