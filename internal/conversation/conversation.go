// Package conversation holds per-conversation assistant state: the
// preferences the model has extracted so far and the most recent search
// results, keyed by an opaque conversation ID carried on each request.
//
// State lives for the process lifetime only. The client remains the source of
// truth for the transcript itself; this package only tracks what the tool
// protocol needs between turns.
package conversation

import (
	"sync"
	"time"

	"github.com/jawellis/internship-finder/internal/search"
)

// DefaultID is the conversation used when a request carries no ID.
// Clients that never send one share a single conversation, matching
// single-tenant deployments.
const DefaultID = "default"

// maxCachedResults caps the last-results cache; the summarization path reads
// at most this many records.
const maxCachedResults = 3

// Paid preference values.
const (
	PaidUnspecified = ""
	Paid            = "paid"
	Unpaid          = "unpaid"
)

// Preferences is the accumulated search preferences for one conversation.
type Preferences struct {
	Field    string `json:"field,omitempty"`
	Location string `json:"location,omitempty"`
	Paid     string `json:"paid,omitempty"`
}

// merge overlays non-empty fields of in onto p. A set field is only ever
// overwritten by an explicit new value, never cleared by an empty one.
func (p Preferences) merge(in Preferences) Preferences {
	if in.Field != "" {
		p.Field = in.Field
	}
	if in.Location != "" {
		p.Location = in.Location
	}
	if in.Paid != "" {
		p.Paid = in.Paid
	}
	return p
}

// state is the mutable record for one conversation.
type state struct {
	prefs       Preferences
	lastResults []search.Internship
	updatedAt   time.Time
}

// Store is a concurrency-safe map of conversation states.
// All reads return copies; callers never alias internal slices.
type Store struct {
	mu    sync.RWMutex
	convs map[string]*state
}

// NewStore creates an empty conversation store.
func NewStore() *Store {
	return &Store{convs: make(map[string]*state)}
}

// Preferences returns a snapshot of the conversation's preferences.
// Unknown conversations yield the zero value.
func (s *Store) Preferences(id string) Preferences {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if st, ok := s.convs[id]; ok {
		return st.prefs
	}
	return Preferences{}
}

// MergePreferences overlays the non-empty fields of in onto the
// conversation's preferences and returns the merged snapshot.
func (s *Store) MergePreferences(id string, in Preferences) Preferences {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.ensure(id)
	st.prefs = st.prefs.merge(in)
	st.updatedAt = time.Now()
	return st.prefs
}

// SetResults overwrites the conversation's last-results cache with a copy of
// recs, capped at the cache limit.
func (s *Store) SetResults(id string, recs []search.Internship) {
	if len(recs) > maxCachedResults {
		recs = recs[:maxCachedResults]
	}
	cp := make([]search.Internship, len(recs))
	copy(cp, recs)

	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.ensure(id)
	st.lastResults = cp
	st.updatedAt = time.Now()
}

// Results returns a copy of the conversation's last-results cache.
// Reading never mutates state, so repeated calls without an intervening
// SetResults observe the same records.
func (s *Store) Results(id string) []search.Internship {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.convs[id]
	if !ok {
		return nil
	}
	cp := make([]search.Internship, len(st.lastResults))
	copy(cp, st.lastResults)
	return cp
}

// Len reports how many conversations hold state.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.convs)
}

// ensure returns the state for id, creating it if absent. Caller holds mu.
func (s *Store) ensure(id string) *state {
	st, ok := s.convs[id]
	if !ok {
		st = &state{}
		s.convs[id] = st
	}
	return st
}
