// Package mock provides hand-written mock implementations of ragmark
// domain interfaces for testing.
package mock

import (
	"context"

	"github.com/fwojciec/ragmark"
)

var _ ragmark.EnrichmentSession = (*EnrichmentSession)(nil)

// EnrichmentSession is a mock implementation of ragmark.EnrichmentSession.
// Nil Fn fields behave as successful no-ops so tests only wire what they
// assert on.
type EnrichmentSession struct {
	SetCachedContextFn func(ctx context.Context, text string) error
	CallFn             func(ctx context.Context, blocks map[string]string) (map[string]string, error)
	MetricsFn          func() ragmark.SessionMetrics
	CloseFn            func() error
}

func (s *EnrichmentSession) SetCachedContext(ctx context.Context, text string) error {
	if s.SetCachedContextFn == nil {
		return nil
	}
	return s.SetCachedContextFn(ctx, text)
}

func (s *EnrichmentSession) Call(ctx context.Context, blocks map[string]string) (map[string]string, error) {
	if s.CallFn == nil {
		return map[string]string{}, nil
	}
	return s.CallFn(ctx, blocks)
}

func (s *EnrichmentSession) Metrics() ragmark.SessionMetrics {
	if s.MetricsFn == nil {
		return ragmark.SessionMetrics{}
	}
	return s.MetricsFn()
}

func (s *EnrichmentSession) Close() error {
	if s.CloseFn == nil {
		return nil
	}
	return s.CloseFn()
}
