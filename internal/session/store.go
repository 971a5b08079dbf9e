// Package session keeps per-session filter state and the results derived from it.
package session

import (
	"context"
	"sort"
	"sync"
	"time"

	"gonomo/app"
	"gonomo/domain/core"
	"gonomo/domain/dataset"
	"gonomo/internal"
	"gonomo/internal/metrics"
)

// Runner computes a results bundle for a table and filter spec
type Runner interface {
	Run(ctx context.Context, table *dataset.Table, spec dataset.FilterSpec) (*app.Bundle, error)
}

// Dataset is the table every session reads from. Version increases each time
// the dataset is replaced.
type Dataset struct {
	Table    *dataset.Table
	Identity core.SourceHash
	Version  int
}

// Session is a snapshot of one session's state
type Session struct {
	ID        core.SessionID     `json:"id"`
	Filter    dataset.FilterSpec `json:"filter"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

type entry struct {
	Session

	// results and the dataset version and filter hash they were computed for
	results    *app.Bundle
	resultsVer int
	resultsFor core.FilterHash
}

func (e *entry) fresh(version int) bool {
	return e.results != nil && e.resultsVer == version && e.resultsFor == e.Filter.Hash()
}

// Store holds sessions over one shared, read-only dataset
type Store struct {
	mu       sync.RWMutex
	runner   Runner
	data     Dataset
	sessions map[core.SessionID]*entry
	metrics  *metrics.Pipeline
	logger   *internal.Logger
}

// NewStore creates a store serving table. metrics may be nil.
func NewStore(runner Runner, table *dataset.Table, identity core.SourceHash, m *metrics.Pipeline, logger *internal.Logger) *Store {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Store{
		runner:   runner,
		data:     Dataset{Table: table, Identity: identity, Version: 1},
		sessions: make(map[core.SessionID]*entry),
		metrics:  m,
		logger:   logger.With("component", "sessions"),
	}
}

// Dataset returns the current dataset
func (s *Store) Dataset() Dataset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data
}

// ReplaceDataset swaps the shared table and returns the new version. Cached
// results of every session become stale; filters are kept.
func (s *Store) ReplaceDataset(table *dataset.Table, identity core.SourceHash) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = Dataset{Table: table, Identity: identity, Version: s.data.Version + 1}
	s.logger.Info("[SessionStore] dataset replaced by %s (version %d, %d rows)", table.Source(), s.data.Version, table.Len())
	return s.data.Version
}

// Create opens a session with the given filters
func (s *Store) Create(spec dataset.FilterSpec) Session {
	now := time.Now().UTC()
	e := &entry{Session: Session{
		ID:        core.NewID(),
		Filter:    spec.Normalized(),
		CreatedAt: now,
		UpdatedAt: now,
	}}

	s.mu.Lock()
	s.sessions[e.ID] = e
	n := len(s.sessions)
	s.mu.Unlock()

	s.metrics.SetSessions(n)
	return e.Session
}

// Get returns a session snapshot
func (s *Store) Get(id core.SessionID) (Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.sessions[id]
	if !ok {
		return Session{}, core.ErrSessionNotFound
	}
	return e.Session, nil
}

// List returns every session ordered by creation time
func (s *Store) List() []Session {
	s.mu.RLock()
	out := make([]Session, 0, len(s.sessions))
	for _, e := range s.sessions {
		out = append(out, e.Session)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// SetFilters replaces a session's filter spec
func (s *Store) SetFilters(id core.SessionID, spec dataset.FilterSpec) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.sessions[id]
	if !ok {
		return Session{}, core.ErrSessionNotFound
	}
	e.Filter = spec.Normalized()
	e.UpdatedAt = time.Now().UTC()
	return e.Session, nil
}

// Delete closes a session
func (s *Store) Delete(id core.SessionID) error {
	s.mu.Lock()
	if _, ok := s.sessions[id]; !ok {
		s.mu.Unlock()
		return core.ErrSessionNotFound
	}
	delete(s.sessions, id)
	n := len(s.sessions)
	s.mu.Unlock()

	s.metrics.SetSessions(n)
	return nil
}

// Len returns the number of open sessions
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Results returns the session's results together with the table they were
// computed from. Results computed for another filter spec or dataset version
// are recomputed, never returned.
func (s *Store) Results(ctx context.Context, id core.SessionID) (*app.Bundle, *dataset.Table, error) {
	s.mu.RLock()
	e, ok := s.sessions[id]
	if !ok {
		s.mu.RUnlock()
		return nil, nil, core.ErrSessionNotFound
	}
	data := s.data
	if e.fresh(data.Version) {
		results := e.results
		s.mu.RUnlock()
		return results, data.Table, nil
	}
	spec := e.Filter
	stale := e.results != nil
	s.mu.RUnlock()

	if stale {
		s.metrics.Recomputed()
	}
	results, err := s.runner.Run(ctx, data.Table, spec)
	if err != nil {
		return nil, nil, err
	}

	s.mu.Lock()
	// Cache only if neither the filters nor the dataset moved during the run.
	if cur, ok := s.sessions[id]; ok && s.data.Version == data.Version && cur.Filter.Hash() == results.FilterHash {
		cur.results = results
		cur.resultsVer = data.Version
		cur.resultsFor = results.FilterHash
	}
	s.mu.Unlock()

	return results, data.Table, nil
}
