package events

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maroc-digital-hub/backend/internal/models"
)

func makeEvent(title string, date time.Time) models.Event {
	return models.Event{
		ID:       uuid.New(),
		Title:    title,
		Date:     date,
		Location: "Casablanca",
	}
}

func loadedStore(t *testing.T, list []models.Event) *Store {
	t.Helper()
	s := NewStore()
	token := s.BeginFetch()
	require.True(t, s.FetchSucceeded(token, list))
	return s
}

func TestParticipateIsIdempotent(t *testing.T) {
	ev := makeEvent("Startup Meetup", time.Now().Add(24*time.Hour))
	s := loadedStore(t, []models.Event{ev})
	user := uuid.New()

	assert.True(t, s.Participate(ev.ID, user))
	assert.False(t, s.Participate(ev.ID, user), "second registration is a no-op")

	all := s.All()
	require.Len(t, all[0].Participants, 1)
	assert.Equal(t, user, all[0].Participants[0])
}

func TestUnparticipate(t *testing.T) {
	ev := makeEvent("Startup Meetup", time.Now().Add(24*time.Hour))
	s := loadedStore(t, []models.Event{ev})
	user := uuid.New()

	require.True(t, s.Participate(ev.ID, user))
	assert.True(t, s.Unparticipate(ev.ID, user))
	assert.False(t, s.Unparticipate(ev.ID, user), "already removed")
	assert.Empty(t, s.All()[0].Participants)
}

func TestParticipateUnknownEvent(t *testing.T) {
	s := loadedStore(t, nil)
	assert.False(t, s.Participate(uuid.New(), uuid.New()))
	assert.False(t, s.Unparticipate(uuid.New(), uuid.New()))
}

func TestAllSnapshotsAreIsolated(t *testing.T) {
	ev := makeEvent("Startup Meetup", time.Now().Add(24*time.Hour))
	userA, userB := uuid.New(), uuid.New()
	ev.Participants = []uuid.UUID{userA, userB}
	s := loadedStore(t, []models.Event{ev})

	snapshot := s.All()
	require.True(t, s.Unparticipate(ev.ID, userA))

	// The snapshot taken before the removal must not change under it.
	assert.Equal(t, []uuid.UUID{userA, userB}, snapshot[0].Participants)
	assert.Equal(t, []uuid.UUID{userB}, s.All()[0].Participants)
}

func TestStaleFetchIsDropped(t *testing.T) {
	s := NewStore()
	stale := s.BeginFetch()
	fresh := s.BeginFetch()

	require.True(t, s.FetchSucceeded(fresh, []models.Event{makeEvent("kept", time.Now())}))
	assert.False(t, s.FetchSucceeded(stale, []models.Event{makeEvent("dropped", time.Now())}))

	all := s.All()
	require.Len(t, all, 1)
	assert.Equal(t, "kept", all[0].Title)
}

func TestUpcoming(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	past := makeEvent("past", now.Add(-time.Hour))
	later := makeEvent("later", now.Add(48*time.Hour))
	soon := makeEvent("soon", now.Add(time.Hour))

	got := Upcoming([]models.Event{past, later, soon}, now)
	require.Len(t, got, 2)
	assert.Equal(t, "soon", got[0].Title)
	assert.Equal(t, "later", got[1].Title)
}

func TestForUser(t *testing.T) {
	user := uuid.New()
	now := time.Now()
	mine := makeEvent("mine", now.Add(2*time.Hour))
	mine.Participants = []uuid.UUID{user}
	mineEarlier := makeEvent("mine earlier", now.Add(time.Hour))
	mineEarlier.Participants = []uuid.UUID{uuid.New(), user}
	other := makeEvent("other", now.Add(time.Hour))

	got := ForUser([]models.Event{mine, other, mineEarlier}, user)
	require.Len(t, got, 2)
	assert.Equal(t, "mine earlier", got[0].Title)
	assert.Equal(t, "mine", got[1].Title)
}
