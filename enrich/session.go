package enrich

import (
	"context"
	"sync"

	"github.com/fwojciec/ragmark"
	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"
)

// Ensure Session satisfies the provider interface so decorators compose.
var _ ragmark.EnrichmentSession = (*Session)(nil)

// Session wraps a provider session with a bounded concurrency gate shared by
// all in-flight batch calls for one document run. The gate supports safe
// concurrent acquire/release; the cached context is single-writer (window
// setup) and many-reader (batch calls), which the pipeline enforces by
// never changing the context while calls are in flight.
type Session struct {
	id       string
	provider ragmark.EnrichmentSession
	gate     *semaphore.Weighted
}

// NewSession creates a gated session around a provider session.
// Concurrency values <= 0 use DefaultConcurrency.
func NewSession(provider ragmark.EnrichmentSession, concurrency int) *Session {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	return &Session{
		id:       uuid.New().String(),
		provider: provider,
		gate:     semaphore.NewWeighted(int64(concurrency)),
	}
}

// ID returns the session's unique identifier.
func (s *Session) ID() string {
	return s.id
}

// SetCachedContext replaces the window-scoped cached context.
func (s *Session) SetCachedContext(ctx context.Context, text string) error {
	return s.provider.SetCachedContext(ctx, text)
}

// Call acquires a concurrency permit and delegates to the provider.
func (s *Session) Call(ctx context.Context, blocks map[string]string) (map[string]string, error) {
	if err := s.gate.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer s.gate.Release(1)
	return s.provider.Call(ctx, blocks)
}

// Metrics returns the provider's cache counters.
func (s *Session) Metrics() ragmark.SessionMetrics {
	return s.provider.Metrics()
}

// Close releases the provider session.
func (s *Session) Close() error {
	return s.provider.Close()
}

// Registry owns enrichment sessions for their full lifecycle: an explicit
// mapping from session ID to session state with create/get/close. Callers
// hold the registry; there is no process-wide session table.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

// NewRegistry creates an empty session registry.
func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*Session)}
}

// Create registers a new gated session around the provider session.
func (r *Registry) Create(provider ragmark.EnrichmentSession, concurrency int) *Session {
	s := NewSession(provider, concurrency)
	r.mu.Lock()
	r.sessions[s.ID()] = s
	r.mu.Unlock()
	return s
}

// Get returns the session with the given ID.
func (r *Registry) Get(id string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	return s, ok
}

// Close closes the session with the given ID and removes it from the
// registry. Returns ENOTFOUND if no such session exists.
func (r *Registry) Close(id string) error {
	r.mu.Lock()
	s, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()

	if !ok {
		return ragmark.Errorf(ragmark.ENOTFOUND, "session %q not found", id)
	}
	return s.Close()
}

// CloseAll closes every registered session, returning the first error.
func (r *Registry) CloseAll() error {
	r.mu.Lock()
	sessions := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		sessions = append(sessions, s)
	}
	r.sessions = make(map[string]*Session)
	r.mu.Unlock()

	var first error
	for _, s := range sessions {
		if err := s.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
