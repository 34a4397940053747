package mock

import (
	"context"

	"github.com/fwojciec/ragmark"
)

var _ ragmark.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of ragmark.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (string, error)
	CloseFn func() error
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	return f.FetchFn(ctx, url)
}

func (f *Fetcher) Close() error {
	if f.CloseFn == nil {
		return nil
	}
	return f.CloseFn()
}

var _ ragmark.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of ragmark.Extractor.
type Extractor struct {
	ExtractFn func(html string) (*ragmark.ExtractResult, error)
}

func (e *Extractor) Extract(html string) (*ragmark.ExtractResult, error) {
	return e.ExtractFn(html)
}

var _ ragmark.Converter = (*Converter)(nil)

// Converter is a mock implementation of ragmark.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}

var _ ragmark.SitemapService = (*SitemapService)(nil)

// SitemapService is a mock implementation of ragmark.SitemapService.
type SitemapService struct {
	DiscoverURLsFn func(ctx context.Context, baseURL string, filter *ragmark.URLFilter) ([]string, error)
}

func (s *SitemapService) DiscoverURLs(ctx context.Context, baseURL string, filter *ragmark.URLFilter) ([]string, error) {
	return s.DiscoverURLsFn(ctx, baseURL, filter)
}

var _ ragmark.LinkSelector = (*LinkSelector)(nil)

// LinkSelector is a mock implementation of ragmark.LinkSelector.
type LinkSelector struct {
	ExtractLinksFn func(html string, baseURL string) ([]ragmark.DiscoveredLink, error)
}

func (s *LinkSelector) ExtractLinks(html string, baseURL string) ([]ragmark.DiscoveredLink, error) {
	return s.ExtractLinksFn(html, baseURL)
}

var _ ragmark.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter is a mock implementation of ragmark.DomainLimiter.
type DomainLimiter struct {
	WaitFn func(ctx context.Context, domain string) error
}

func (l *DomainLimiter) Wait(ctx context.Context, domain string) error {
	if l.WaitFn == nil {
		return nil
	}
	return l.WaitFn(ctx, domain)
}
