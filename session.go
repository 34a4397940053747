package ragmark

import "context"

// SessionMetrics reports cached-context usage for one enrichment session.
// A hit is a call made while the window's cached context was already warm;
// a miss is the first call after the context changed.
type SessionMetrics struct {
	CacheHits   int
	CacheMisses int
}

// EnrichmentSession is a stateful connection to an AI provider for one
// document run. The session holds the static enrichment instructions and
// document metadata, plus a window-scoped cached context, so each call
// carries only its batch's keyed block texts.
//
// SetCachedContext must precede Call for every window. Implementations must
// support concurrent Call invocations; the pipeline never invokes
// SetCachedContext while calls are in flight.
type EnrichmentSession interface {
	// SetCachedContext replaces the window-scoped portion of the cached
	// context. An error here is fatal for the document run.
	SetCachedContext(ctx context.Context, text string) error

	// Call sends keyed block texts for enrichment and returns a mapping from
	// block key to enhanced text. Keys absent from the result are treated as
	// failures by the caller. Malformed provider responses return EINVALID;
	// per-call timeouts return ETIMEOUT. Both are retryable.
	Call(ctx context.Context, blocks map[string]string) (map[string]string, error)

	// Metrics returns the cache hit/miss counters accumulated so far.
	Metrics() SessionMetrics

	// Close releases provider resources. Safe to call more than once.
	Close() error
}
