// Package events implements community events with participant registration.
// PostgreSQL is the source of truth; an in-memory store mirrors the list.
package events

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/maroc-digital-hub/backend/internal/models"
)

// Store is the in-memory mirror of the event list. Mutations happen only
// after the repository accepted the change; fetches carry a token so a stale
// in-flight refresh can never overwrite a newer one.
type Store struct {
	mu      sync.RWMutex
	events  []models.Event
	loaded  bool
	loading bool
	err     string
	seq     uint64
}

// NewStore creates an empty event store.
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

// FetchSucceeded replaces the list if token is still the latest fetch.
func (s *Store) FetchSucceeded(token uint64, list []models.Event) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if token != s.seq {
		return false
	}
	s.events = make([]models.Event, len(list))
	copy(s.events, list)
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

// All returns a copy of the full event list. Participant slices are copied
// too, so later mutations never show through a snapshot.
func (s *Store) All() []models.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Event, len(s.events))
	copy(out, s.events)
	for i := range out {
		out[i].Participants = append([]uuid.UUID(nil), out[i].Participants...)
	}
	return out
}

// Add appends an event already persisted by the repository.
func (s *Store) Add(ev models.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
}

// Remove deletes the event with the given ID; no-op when absent.
func (s *Store) Remove(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, ev := range s.events {
		if ev.ID == id {
			s.events = append(s.events[:i], s.events[i+1:]...)
			return
		}
	}
}

// Update replaces the event with the matching ID; no-op when absent.
func (s *Store) Update(ev models.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.events {
		if s.events[i].ID == ev.ID {
			s.events[i] = ev
			return
		}
	}
}

// Participate adds userID to the event's participants. Adding twice is a
// no-op, so the operation is idempotent. Returns false when the event is
// absent or the user was already registered.
func (s *Store) Participate(eventID, userID uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.events {
		if s.events[i].ID != eventID {
			continue
		}
		if s.events[i].HasParticipant(userID) {
			return false
		}
		s.events[i].Participants = append(s.events[i].Participants, userID)
		return true
	}
	return false
}

// Unparticipate removes userID from the event's participants; no-op when
// absent.
func (s *Store) Unparticipate(eventID, userID uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.events {
		if s.events[i].ID != eventID {
			continue
		}
		for j, p := range s.events[i].Participants {
			if p == userID {
				s.events[i].Participants = append(s.events[i].Participants[:j], s.events[i].Participants[j+1:]...)
				return true
			}
		}
		return false
	}
	return false
}

// Upcoming returns events whose date is at or after now, soonest first.
func Upcoming(list []models.Event, now time.Time) []models.Event {
	var out []models.Event
	for _, ev := range list {
		if !ev.Date.Before(now) {
			out = append(out, ev)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out
}

// ForUser returns the events the user participates in, soonest first.
func ForUser(list []models.Event, userID uuid.UUID) []models.Event {
	var out []models.Event
	for _, ev := range list {
		if ev.HasParticipant(userID) {
			out = append(out, ev)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out
}
