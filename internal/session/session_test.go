package session

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/maroc-digital-hub/backend/internal/models"
)

func testUser() models.User {
	return models.User{
		ID:       uuid.New(),
		FullName: "Amina Berrada",
		Email:    "amina@example.com",
		Role:     models.RoleStartup,
	}
}

func TestCreateAndResume(t *testing.T) {
	ctx := context.Background()
	m := NewManager(NewMemoryStorage(), 30*time.Minute, zap.NewNop())
	user := testUser()

	require.NoError(t, m.Create(ctx, "token-1", user))

	got, err := m.Resume(ctx, "token-1")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.Equal(t, user.Role, got.Role)
}

func TestResumeUnknownToken(t *testing.T) {
	m := NewManager(NewMemoryStorage(), 30*time.Minute, zap.NewNop())

	_, err := m.Resume(context.Background(), "never-created")
	assert.ErrorIs(t, err, ErrExpired)
}

func TestResumeAfterWindow(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()
	m := NewManager(storage, time.Millisecond, zap.NewNop())

	require.NoError(t, m.Create(ctx, "token-1", testUser()))
	time.Sleep(5 * time.Millisecond)

	_, err := m.Resume(ctx, "token-1")
	assert.ErrorIs(t, err, ErrExpired)

	// The expired record is removed, not just rejected.
	rec, err := storage.Load(ctx, "token-1")
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestDestroy(t *testing.T) {
	ctx := context.Background()
	m := NewManager(NewMemoryStorage(), 30*time.Minute, zap.NewNop())

	require.NoError(t, m.Create(ctx, "token-1", testUser()))
	require.NoError(t, m.Destroy(ctx, "token-1"))

	_, err := m.Resume(ctx, "token-1")
	assert.ErrorIs(t, err, ErrExpired)
}

func TestWindowIsFixedFromLogin(t *testing.T) {
	ctx := context.Background()
	m := NewManager(NewMemoryStorage(), 50*time.Millisecond, zap.NewNop())

	require.NoError(t, m.Create(ctx, "token-1", testUser()))

	// Resuming does not slide the window.
	time.Sleep(30 * time.Millisecond)
	_, err := m.Resume(ctx, "token-1")
	require.NoError(t, err)

	time.Sleep(30 * time.Millisecond)
	_, err = m.Resume(ctx, "token-1")
	assert.ErrorIs(t, err, ErrExpired)
}
