// Package startups implements the startup directory: PostgreSQL is the
// source of truth, an in-memory store mirrors the list for browsing, and
// handlers expose filtered/paginated views over it.
package startups

import (
	"sync"

	"github.com/google/uuid"

	"github.com/maroc-digital-hub/backend/internal/models"
)

const (
	// PageSize is the number of startups per page in list views.
	PageSize = 6
	// SectorAll is the filter value matching every sector.
	SectorAll = "Tous"
)

// Store is the in-memory mirror of the startup list plus its list UI state
// (current page, active sector filter). Mutations happen only after the
// repository accepted the change; fetches carry a token so a stale in-flight
// refresh can never overwrite a newer one.
type Store struct {
	mu       sync.RWMutex
	startups []models.Startup
	loaded   bool
	loading  bool
	err      string
	page     int
	sector   string
	seq      uint64
}

// NewStore creates an empty startup store (page 1, all sectors).
func NewStore() *Store {
	return &Store{page: 1, sector: SectorAll}
}

// BeginFetch marks the store loading and returns the fetch token. Only the
// most recently issued token may complete the fetch.
func (s *Store) BeginFetch() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.loading = true
	s.err = ""
	return s.seq
}

// FetchSucceeded replaces the list if token is still the latest fetch.
// Returns false when a newer fetch superseded this one.
func (s *Store) FetchSucceeded(token uint64, list []models.Startup) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if token != s.seq {
		return false
	}
	s.startups = make([]models.Startup, len(list))
	copy(s.startups, list)
	s.loaded = true
	s.loading = false
	s.err = ""
	return true
}

// FetchFailed records the error, leaving the current list untouched.
func (s *Store) FetchFailed(token uint64, msg string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if token != s.seq {
		return false
	}
	s.loading = false
	s.err = msg
	return true
}

// Loaded reports whether at least one fetch has completed.
func (s *Store) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// Err returns the last fetch error message, empty after a success.
func (s *Store) Err() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

// All returns a copy of the full startup list.
func (s *Store) All() []models.Startup {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Startup, len(s.startups))
	copy(out, s.startups)
	return out
}

// Add appends a startup already persisted by the repository.
func (s *Store) Add(st models.Startup) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.startups = append(s.startups, st)
}

// Remove deletes the startup with the given ID; no-op when absent.
func (s *Store) Remove(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, st := range s.startups {
		if st.ID == id {
			s.startups = append(s.startups[:i], s.startups[i+1:]...)
			return
		}
	}
}

// Update replaces the startup with the matching ID; no-op when absent.
func (s *Store) Update(st models.Startup) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.startups {
		if s.startups[i].ID == st.ID {
			s.startups[i] = st
			return
		}
	}
}

// SetPage sets the current page (minimum 1).
func (s *Store) SetPage(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n < 1 {
		n = 1
	}
	s.page = n
}

// SetSector sets the active sector filter and resets the page to 1.
func (s *Store) SetSector(sector string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sector = sector
	s.page = 1
}

// Page returns the current page.
func (s *Store) Page() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.page
}

// Sector returns the active sector filter.
func (s *Store) Sector() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sector
}
