// Package ragmark turns crawled documentation into markdown enriched for
// retrieval-augmented generation. It crawls documentation sites, extracts
// content as markdown, and runs an AI-assisted context-disambiguation pass
// that inserts bracketed clarifying annotations without altering the
// original wording.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency or concern (e.g., sqlite/, gemini/,
// enrich/).
package ragmark
