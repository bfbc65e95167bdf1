package discussions

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maroc-digital-hub/backend/internal/models"
)

func makeDiscussion(message string, createdAt time.Time, likes int) models.Discussion {
	d := models.Discussion{
		ID:         uuid.New(),
		AuthorID:   uuid.New(),
		AuthorName: "Yassine El Fassi",
		AuthorRole: models.RoleVisiteur,
		Message:    message,
		CreatedAt:  createdAt,
	}
	for i := 0; i < likes; i++ {
		d.Likes = append(d.Likes, uuid.New())
	}
	return d
}

func loadedStore(t *testing.T, list []models.Discussion) *Store {
	t.Helper()
	s := NewStore()
	token := s.BeginFetch()
	require.True(t, s.FetchSucceeded(token, list))
	return s
}

func TestAddPrepends(t *testing.T) {
	now := time.Now()
	s := loadedStore(t, []models.Discussion{makeDiscussion("first", now, 0)})

	s.Add(makeDiscussion("second", now.Add(time.Minute), 0))

	all := s.All()
	require.Len(t, all, 2)
	assert.Equal(t, "second", all[0].Message, "newest message comes first")
	assert.Equal(t, "first", all[1].Message)
}

func TestToggleLikeTwiceRestores(t *testing.T) {
	d := makeDiscussion("hello", time.Now(), 0)
	s := loadedStore(t, []models.Discussion{d})
	user := uuid.New()

	liked, found := s.ToggleLike(d.ID, user)
	require.True(t, found)
	assert.True(t, liked)
	assert.Len(t, s.All()[0].Likes, 1)

	liked, found = s.ToggleLike(d.ID, user)
	require.True(t, found)
	assert.False(t, liked)
	assert.Empty(t, s.All()[0].Likes)
}

func TestToggleLikeUnknownDiscussion(t *testing.T) {
	s := loadedStore(t, nil)
	_, found := s.ToggleLike(uuid.New(), uuid.New())
	assert.False(t, found)
}

func TestAllSnapshotsAreIsolated(t *testing.T) {
	d := makeDiscussion("hello", time.Now(), 0)
	userA, userB := uuid.New(), uuid.New()
	d.Likes = []uuid.UUID{userA, userB}
	s := loadedStore(t, []models.Discussion{d})

	snapshot := s.All()
	liked, found := s.ToggleLike(d.ID, userA)
	require.True(t, found)
	require.False(t, liked)

	// The snapshot taken before the unlike must not change under it.
	assert.Equal(t, []uuid.UUID{userA, userB}, snapshot[0].Likes)
	assert.Equal(t, []uuid.UUID{userB}, s.All()[0].Likes)
}

func TestRemove(t *testing.T) {
	d := makeDiscussion("to delete", time.Now(), 0)
	s := loadedStore(t, []models.Discussion{d})

	s.Remove(d.ID)
	assert.Empty(t, s.All())

	s.Remove(uuid.New()) // no-op
}

func TestStaleFetchIsDropped(t *testing.T) {
	s := NewStore()
	stale := s.BeginFetch()
	fresh := s.BeginFetch()

	require.True(t, s.FetchSucceeded(fresh, []models.Discussion{makeDiscussion("kept", time.Now(), 0)}))
	assert.False(t, s.FetchSucceeded(stale, []models.Discussion{makeDiscussion("dropped", time.Now(), 0)}))
	require.Len(t, s.All(), 1)
	assert.Equal(t, "kept", s.All()[0].Message)
}

func TestSortRecent(t *testing.T) {
	now := time.Now()
	old := makeDiscussion("old", now.Add(-time.Hour), 0)
	fresh := makeDiscussion("fresh", now, 0)

	got := SortRecent([]models.Discussion{old, fresh})
	require.Len(t, got, 2)
	assert.Equal(t, "fresh", got[0].Message)
}

func TestSortPopular(t *testing.T) {
	now := time.Now()
	quiet := makeDiscussion("quiet", now, 1)
	popular := makeDiscussion("popular", now.Add(-time.Hour), 5)
	tiedNew := makeDiscussion("tied new", now, 1)

	got := SortPopular([]models.Discussion{quiet, popular, tiedNew})
	require.Len(t, got, 3)
	assert.Equal(t, "popular", got[0].Message)
	// Ties keep the newest-first order; quiet and tiedNew share a like count
	// and a timestamp, so both orders are acceptable between them.
	assert.ElementsMatch(t, []string{"quiet", "tied new"}, []string{got[1].Message, got[2].Message})
}
