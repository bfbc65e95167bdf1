package startups

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maroc-digital-hub/backend/internal/models"
)

func makeStartups(n int, sector models.Sector) []models.Startup {
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	list := make([]models.Startup, n)
	for i := range list {
		list[i] = models.Startup{
			ID:          uuid.New(),
			Name:        fmt.Sprintf("Startup %d", i),
			Sector:      sector,
			Description: fmt.Sprintf("description %d", i),
			CreatedAt:   base.Add(time.Duration(i) * time.Hour),
		}
	}
	return list
}

func TestFetchLifecycle(t *testing.T) {
	s := NewStore()
	assert.False(t, s.Loaded())

	token := s.BeginFetch()
	require.True(t, s.FetchSucceeded(token, makeStartups(3, models.SectorAI)))
	assert.True(t, s.Loaded())
	assert.Len(t, s.All(), 3)
}

func TestFetchFailedKeepsList(t *testing.T) {
	s := NewStore()
	token := s.BeginFetch()
	require.True(t, s.FetchSucceeded(token, makeStartups(3, models.SectorAI)))

	token = s.BeginFetch()
	require.True(t, s.FetchFailed(token, "impossible de charger les startups"))

	assert.Len(t, s.All(), 3, "a failed refresh keeps the previous list")
	assert.Equal(t, "impossible de charger les startups", s.Err())
}

func TestStaleFetchIsDropped(t *testing.T) {
	s := NewStore()
	stale := s.BeginFetch()
	fresh := s.BeginFetch()

	require.True(t, s.FetchSucceeded(fresh, makeStartups(2, models.SectorAI)))
	assert.False(t, s.FetchSucceeded(stale, makeStartups(9, models.SectorTourisme)),
		"a superseded fetch must not overwrite a newer one")
	assert.Len(t, s.All(), 2)

	assert.False(t, s.FetchFailed(stale, "late failure"))
	assert.Empty(t, s.Err())
}

func TestSetSectorResetsPage(t *testing.T) {
	s := NewStore()
	s.SetPage(4)
	require.Equal(t, 4, s.Page())

	s.SetSector(string(models.SectorAgriTech))
	assert.Equal(t, 1, s.Page())
	assert.Equal(t, string(models.SectorAgriTech), s.Sector())
}

func TestAddRemoveUpdate(t *testing.T) {
	s := NewStore()
	token := s.BeginFetch()
	list := makeStartups(2, models.SectorAI)
	require.True(t, s.FetchSucceeded(token, list))

	extra := models.Startup{ID: uuid.New(), Name: "Atlas Pay", Sector: models.SectorEcommerce}
	s.Add(extra)
	assert.Len(t, s.All(), 3)

	extra.Name = "Atlas Pay Maroc"
	s.Update(extra)
	all := s.All()
	assert.Equal(t, "Atlas Pay Maroc", all[2].Name)

	s.Remove(extra.ID)
	assert.Len(t, s.All(), 2)

	// Removing or updating an absent startup is a no-op.
	s.Remove(uuid.New())
	s.Update(models.Startup{ID: uuid.New()})
	assert.Len(t, s.All(), 2)
}

func TestFilter(t *testing.T) {
	ai := makeStartups(2, models.SectorAI)
	tourism := makeStartups(2, models.SectorTourisme)
	tourism[0].Name = "Marrakech Trips"
	list := append(append([]models.Startup{}, ai...), tourism...)

	t.Run("all sectors", func(t *testing.T) {
		assert.Len(t, Filter(list, SectorAll, ""), 4)
	})
	t.Run("by sector", func(t *testing.T) {
		got := Filter(list, string(models.SectorTourisme), "")
		require.Len(t, got, 2)
		for _, st := range got {
			assert.Equal(t, models.SectorTourisme, st.Sector)
		}
	})
	t.Run("query is case-insensitive on name", func(t *testing.T) {
		got := Filter(list, SectorAll, "MARRAKECH")
		require.Len(t, got, 1)
		assert.Equal(t, "Marrakech Trips", got[0].Name)
	})
	t.Run("query matches description", func(t *testing.T) {
		got := Filter(list, SectorAll, "description 1")
		assert.Len(t, got, 2)
	})
	t.Run("sector and query combine", func(t *testing.T) {
		got := Filter(list, string(models.SectorAI), "marrakech")
		assert.Empty(t, got)
	})
}

func TestPaginate(t *testing.T) {
	list := makeStartups(13, models.SectorAI)

	items, totalPages := Paginate(list, 1)
	assert.Len(t, items, PageSize)
	assert.Equal(t, 3, totalPages, "ceil(13/6)")

	items, _ = Paginate(list, 3)
	assert.Len(t, items, 1)

	items, totalPages = Paginate(list, 7)
	assert.Empty(t, items, "out-of-range page yields an empty slice")
	assert.Equal(t, 3, totalPages)

	items, totalPages = Paginate(nil, 1)
	assert.Empty(t, items)
	assert.Equal(t, 0, totalPages)
}

func TestSectorStats(t *testing.T) {
	list := append(makeStartups(2, models.SectorAI), makeStartups(1, models.SectorAgriTech)...)

	stats := SectorStats(list)
	require.Len(t, stats, len(models.Sectors), "one bar per sector, zeros included")

	byName := make(map[models.Sector]SectorStat)
	for _, st := range stats {
		byName[st.Sector] = st
	}
	assert.Equal(t, 2, byName[models.SectorAI].Count)
	assert.Equal(t, 67, byName[models.SectorAI].Percentage)
	assert.Equal(t, 33, byName[models.SectorAgriTech].Percentage)
	assert.Equal(t, 0, byName[models.SectorTourisme].Count)
	assert.Equal(t, 0, byName[models.SectorTourisme].Percentage)
}

func TestSectorStatsEmpty(t *testing.T) {
	for _, st := range SectorStats(nil) {
		assert.Equal(t, 0, st.Count)
		assert.Equal(t, 0, st.Percentage, "no division by zero with an empty directory")
	}
}

func TestRecent(t *testing.T) {
	list := makeStartups(5, models.SectorAI)

	got := Recent(list, 3)
	require.Len(t, got, 3)
	assert.Equal(t, "Startup 4", got[0].Name)
	assert.Equal(t, "Startup 2", got[2].Name)

	assert.Len(t, Recent(list, 10), 5)
	// Input order is untouched.
	assert.Equal(t, "Startup 0", list[0].Name)
}
