// Package discussions implements the community forum: short messages with
// per-user likes, newest first. PostgreSQL is the source of truth; an
// in-memory store mirrors the thread.
package discussions

import (
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/maroc-digital-hub/backend/internal/models"
)

// Store is the in-memory mirror of the discussion thread, newest first.
// Mutations happen only after the repository accepted the change; fetches
// carry a token so a stale in-flight refresh can never overwrite a newer one.
type Store struct {
	mu          sync.RWMutex
	discussions []models.Discussion
	loaded      bool
	loading     bool
	err         string
	seq         uint64
}

// NewStore creates an empty discussion store.
func NewStore() *Store {
	return &Store{}
}

// BeginFetch marks the store loading and returns the fetch token.
func (s *Store) BeginFetch() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.loading = true
	s.err = ""
	return s.seq
}

// FetchSucceeded replaces the thread if token is still the latest fetch.
func (s *Store) FetchSucceeded(token uint64, list []models.Discussion) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if token != s.seq {
		return false
	}
	s.discussions = make([]models.Discussion, len(list))
	copy(s.discussions, list)
	s.loaded = true
	s.loading = false
	s.err = ""
	return true
}

// FetchFailed records the error, leaving the current thread untouched.
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

// All returns a copy of the thread, newest first. Like slices are copied
// too, so later mutations never show through a snapshot.
func (s *Store) All() []models.Discussion {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Discussion, len(s.discussions))
	copy(out, s.discussions)
	for i := range out {
		out[i].Likes = append([]uuid.UUID(nil), out[i].Likes...)
	}
	return out
}

// Add prepends a discussion already persisted by the repository, keeping the
// newest-first order.
func (s *Store) Add(d models.Discussion) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.discussions = append([]models.Discussion{d}, s.discussions...)
}

// Remove deletes the discussion with the given ID; no-op when absent.
func (s *Store) Remove(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, d := range s.discussions {
		if d.ID == id {
			s.discussions = append(s.discussions[:i], s.discussions[i+1:]...)
			return
		}
	}
}

// Update replaces the discussion with the matching ID in place; no-op when
// absent.
func (s *Store) Update(d models.Discussion) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.discussions {
		if s.discussions[i].ID == d.ID {
			s.discussions[i] = d
			return
		}
	}
}

// ToggleLike flips userID's like on a discussion. Returns the resulting
// liked state; toggling twice restores the original state.
func (s *Store) ToggleLike(id, userID uuid.UUID) (liked, found bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.discussions {
		if s.discussions[i].ID != id {
			continue
		}
		if !s.discussions[i].LikedBy(userID) {
			s.discussions[i].Likes = append(s.discussions[i].Likes, userID)
			return true, true
		}
		for j, l := range s.discussions[i].Likes {
			if l == userID {
				s.discussions[i].Likes = append(s.discussions[i].Likes[:j], s.discussions[i].Likes[j+1:]...)
				break
			}
		}
		return false, true
	}
	return false, false
}

// SortRecent returns a copy sorted newest first.
func SortRecent(list []models.Discussion) []models.Discussion {
	out := make([]models.Discussion, len(list))
	copy(out, list)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// SortPopular returns a copy sorted by like count descending; ties keep the
// newest-first order.
func SortPopular(list []models.Discussion) []models.Discussion {
	out := SortRecent(list)
	sort.SliceStable(out, func(i, j int) bool {
		return len(out[i].Likes) > len(out[j].Likes)
	})
	return out
}
