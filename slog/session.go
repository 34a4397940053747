package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/ragmark"
)

// Ensure LoggingSession implements ragmark.EnrichmentSession.
var _ ragmark.EnrichmentSession = (*LoggingSession)(nil)

// LoggingSession wraps an EnrichmentSession with debug logging.
type LoggingSession struct {
	next   ragmark.EnrichmentSession
	logger *slog.Logger
}

// NewLoggingSession creates a new LoggingSession.
func NewLoggingSession(next ragmark.EnrichmentSession, logger *slog.Logger) *LoggingSession {
	return &LoggingSession{next: next, logger: logger}
}

// SetCachedContext delegates to the wrapped session and logs the operation.
func (s *LoggingSession) SetCachedContext(ctx context.Context, text string) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("cached context",
			"chars", len(text),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.SetCachedContext(ctx, text)
}

// Call delegates to the wrapped session and logs the operation.
func (s *LoggingSession) Call(ctx context.Context, blocks map[string]string) (result map[string]string, err error) {
	defer func(begin time.Time) {
		s.logger.Info("enrichment call",
			"blocks", len(blocks),
			"returned", len(result),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Call(ctx, blocks)
}

// Metrics delegates to the wrapped session.
func (s *LoggingSession) Metrics() ragmark.SessionMetrics {
	return s.next.Metrics()
}

// Close delegates to the wrapped session and logs final cache counters.
func (s *LoggingSession) Close() error {
	metrics := s.next.Metrics()
	s.logger.Info("session closed",
		"cache_hits", metrics.CacheHits,
		"cache_misses", metrics.CacheMisses,
	)
	return s.next.Close()
}
