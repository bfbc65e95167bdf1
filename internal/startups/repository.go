package startups

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/maroc-digital-hub/backend/internal/models"
)

// ErrNotFound is returned when no startup matches the lookup.
var ErrNotFound = errors.New("startup not found")

// Repository handles startup persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a startups repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts a new startup.
func (r *Repository) Create(ctx context.Context, st *models.Startup) error {
	const q = `INSERT INTO startups (name, sector, description, created_by)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, q, st.Name, string(st.Sector), st.Description, st.CreatedBy).
		Scan(&st.ID, &st.CreatedAt, &st.UpdatedAt)
}

// GetByID returns a startup by ID.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Startup, error) {
	const q = `SELECT id, name, sector, description, logo_url, created_by, created_at, updated_at
		FROM startups WHERE id = $1`
	var st models.Startup
	err := r.pool.QueryRow(ctx, q, id).
		Scan(&st.ID, &st.Name, &st.Sector, &st.Description, &st.LogoURL, &st.CreatedBy, &st.CreatedAt, &st.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &st, nil
}

// List returns all startups, oldest first (insertion order).
func (r *Repository) List(ctx context.Context) ([]models.Startup, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, sector, description, logo_url, created_by, created_at, updated_at
		FROM startups ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.Startup
	for rows.Next() {
		var st models.Startup
		if err := rows.Scan(&st.ID, &st.Name, &st.Sector, &st.Description, &st.LogoURL, &st.CreatedBy, &st.CreatedAt, &st.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, st)
	}
	return list, rows.Err()
}

// Update replaces name, sector, and description of a startup.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, name string, sector models.Sector, description string) error {
	const q = `UPDATE startups SET name = $1, sector = $2, description = $3, updated_at = NOW() WHERE id = $4`
	_, err := r.pool.Exec(ctx, q, name, string(sector), description, id)
	return err
}

// UpdateLogoURL stores the S3 URL of the uploaded logo.
func (r *Repository) UpdateLogoURL(ctx context.Context, id uuid.UUID, logoURL string) error {
	const q = `UPDATE startups SET logo_url = $1, updated_at = NOW() WHERE id = $2`
	_, err := r.pool.Exec(ctx, q, logoURL, id)
	return err
}

// Delete removes a startup by ID.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM startups WHERE id = $1`
	_, err := r.pool.Exec(ctx, q, id)
	return err
}
