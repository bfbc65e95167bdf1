// Package session tracks authenticated users server-side. A session record
// is written at login and lives for a fixed window measured from the login
// time (default 30 minutes); logout removes it. Tokens are JWT IDs, so a
// deleted or expired record revokes the bearer token before the JWT itself
// expires.
package session

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/maroc-digital-hub/backend/internal/models"
)

// ErrExpired is returned when no live session exists for a token.
var ErrExpired = errors.New("session expired")

// Record is a stored session: the user identity and the moment it was created.
type Record struct {
	User    models.User `json:"user"`
	LoginAt time.Time   `json:"login_at"`
}

// Storage persists session records keyed by token.
type Storage interface {
	Save(ctx context.Context, token string, rec Record, ttl time.Duration) error
	// Load returns nil, nil when no record exists for the token.
	Load(ctx context.Context, token string) (*Record, error)
	Delete(ctx context.Context, token string) error
}

// Manager creates, resumes, and destroys sessions over a Storage.
type Manager struct {
	storage Storage
	window  time.Duration
	logger  *zap.Logger
}

// NewManager creates a session manager with the given expiration window.
func NewManager(storage Storage, window time.Duration, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{storage: storage, window: window, logger: logger}
}

// Create persists a session for the user under the token.
func (m *Manager) Create(ctx context.Context, token string, user models.User) error {
	rec := Record{User: user, LoginAt: time.Now()}
	if err := m.storage.Save(ctx, token, rec, m.window); err != nil {
		return err
	}
	m.logger.Debug("session created", zap.String("user_id", user.ID.String()), zap.String("role", string(user.Role)))
	return nil
}

// Resume returns the user bound to the token if the session is still inside
// its window. An absent or expired record yields ErrExpired; the window is
// fixed from login time, not sliding.
func (m *Manager) Resume(ctx context.Context, token string) (*models.User, error) {
	rec, err := m.storage.Load(ctx, token)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, ErrExpired
	}
	if time.Since(rec.LoginAt) > m.window {
		_ = m.storage.Delete(ctx, token)
		return nil, ErrExpired
	}
	return &rec.User, nil
}

// Destroy removes the session for the token (logout).
func (m *Manager) Destroy(ctx context.Context, token string) error {
	return m.storage.Delete(ctx, token)
}
