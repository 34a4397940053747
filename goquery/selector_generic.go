// Package goquery provides CSS-selector based link extraction from HTML.
package goquery

import "github.com/fwojciec/ragmark"

// Ensure GenericSelector implements ragmark.LinkSelector at compile time.
var _ ragmark.LinkSelector = (*GenericSelector)(nil)

// GenericSelector implements link extraction using universal CSS selectors
// that work across any documentation framework. It uses common HTML patterns
// and class names to identify navigation, TOC, content, and footer areas.
type GenericSelector struct{}

// NewGenericSelector creates a new GenericSelector.
func NewGenericSelector() *GenericSelector {
	return &GenericSelector{}
}

// Name returns the selector's identifier.
func (s *GenericSelector) Name() string {
	return "generic"
}

// genericConfigs lists the selectors in priority order (highest first).
var genericConfigs = []SelectorConfig{
	{
		Selector: ".toc a[href], .table-of-contents a[href], .sidebar a[href], aside a[href]",
		Priority: ragmark.PriorityTOC,
		Source:   "toc",
	},
	{
		Selector: `nav a[href], [role="navigation"] a[href], .nav a[href], .menu a[href], .navbar a[href]`,
		Priority: ragmark.PriorityNavigation,
		Source:   "nav",
	},
	{
		Selector: "main a[href], article a[href], .content a[href], .doc-content a[href]",
		Priority: ragmark.PriorityContent,
		Source:   "content",
	},
	{
		Selector: "footer a[href], .footer a[href]",
		Priority: ragmark.PriorityFooter,
		Source:   "footer",
	},
}

// ExtractLinks parses HTML and returns discovered links with priority.
// Links are deduplicated by URL, keeping the highest priority version.
// External links (different host than baseURL) are filtered out. Anchors
// that match no semantic selector but share the base URL path prefix are
// included with PriorityFallback, so sites with non-semantic HTML still
// get their links discovered.
func (s *GenericSelector) ExtractLinks(html string, baseURL string) ([]ragmark.DiscoveredLink, error) {
	return ExtractLinksWithConfigsAndFallback(html, baseURL, genericConfigs)
}
