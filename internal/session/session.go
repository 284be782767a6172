// Package session keeps per-operator state between requests: the raw upload,
// the grouping store with its manual overrides, and the working price tables.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"estimate-service/internal/estimate/grouping"
	"estimate-service/internal/estimate/model"
	"estimate-service/internal/estimate/pricing"
)

// Session is mutated by one operator at a time; the mutex serializes the odd
// overlapping request (double-click, retry), not real multi-user access.
type Session struct {
	ID       string
	mu       sync.Mutex
	lastUsed time.Time

	Source     string // uploaded filename
	Headers    []string
	Lines      []model.Line
	Store      *grouping.Store
	Tables     pricing.Tables
	LoadingPct float64
}

// With runs fn while holding the session lock and refreshes the idle clock.
func (s *Session) With(fn func(*Session)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastUsed = time.Now()
	fn(s)
}

type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
}

func NewRegistry(ttl time.Duration) *Registry {
	return &Registry{sessions: make(map[string]*Session), ttl: ttl}
}

func (r *Registry) Create(classify func(string) string) *Session {
	s := &Session{
		ID:       uuid.NewString(),
		lastUsed: time.Now(),
		Store:    grouping.NewStore(classify),
		Tables:   pricing.NewTables(),
	}
	r.mu.Lock()
	r.sessions[s.ID] = s
	r.mu.Unlock()
	return s
}

func (r *Registry) Get(id string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	return s, ok
}

// Sweep drops sessions idle past the TTL; returns how many were evicted.
func (r *Registry) Sweep() int {
	cutoff := time.Now().Add(-r.ttl)
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for id, s := range r.sessions {
		s.mu.Lock()
		idle := s.lastUsed.Before(cutoff)
		s.mu.Unlock()
		if idle {
			delete(r.sessions, id)
			n++
		}
	}
	return n
}

// Janitor sweeps periodically until the stop channel closes.
func (r *Registry) Janitor(interval time.Duration, stop <-chan struct{}) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-t.C:
			r.Sweep()
		case <-stop:
			return
		}
	}
}
