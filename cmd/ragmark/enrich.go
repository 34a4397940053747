package main

import (
	"fmt"
	"strings"

	"github.com/fwojciec/ragmark"
	"github.com/fwojciec/ragmark/enrich"
	"github.com/fwojciec/ragmark/fs"
)

// validationCacheSize bounds the memoized validation outcomes shared by all
// documents in one enrich run.
const validationCacheSize = 4096

// Run executes the enrich command.
func (c *EnrichCmd) Run(deps *Dependencies) error {
	if deps.Sessions == nil {
		return ragmark.Errorf(ragmark.EINTERNAL, "enrichment session factory not configured")
	}

	projects, err := deps.Projects.FindProjects(deps.Ctx, ragmark.ProjectFilter{Name: &c.Name})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", ragmark.ErrorMessage(err))
		return err
	}

	if len(projects) == 0 {
		fmt.Fprintf(deps.Stderr, "error: project %q not found. Use 'ragmark list' to see available projects.\n", c.Name)
		return ragmark.Errorf(ragmark.ENOTFOUND, "project %q not found", c.Name)
	}

	project := projects[0]

	filter := ragmark.DocumentFilter{
		ProjectID: &project.ID,
		SortBy:    ragmark.SortByPosition,
	}
	if c.Doc != "" {
		filter.SourceURL = &c.Doc
	}

	docs, err := deps.Documents.FindDocuments(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", ragmark.ErrorMessage(err))
		return err
	}

	if len(docs) == 0 {
		fmt.Fprintf(deps.Stderr, "error: project %q has no matching documents\n", c.Name)
		return ragmark.Errorf(ragmark.ENOTFOUND, "project %q has no matching documents", c.Name)
	}

	cache, err := enrich.NewValidationCache(validationCacheSize)
	if err != nil {
		return err
	}

	registry := enrich.NewRegistry()
	defer registry.CloseAll()

	var enriched, skipped int
	var enhanced, fallback, passThrough int
	var metrics ragmark.SessionMetrics

	for _, doc := range docs {
		if doc.Enhanced != "" && !c.Force {
			skipped++
			continue
		}

		name := doc.Title
		if name == "" {
			name = doc.SourceURL
		}

		provider := deps.Sessions(ragmark.DocumentMetadata{
			Title:       doc.Title,
			URL:         doc.SourceURL,
			Description: documentOutline(doc.Content),
		})
		session := registry.Create(provider, c.Concurrency)

		pipeline := &enrich.Pipeline{
			Session: session,
			Config:  enrich.Config{Concurrency: c.Concurrency},
			Cache:   cache,
		}

		progress := func(processed, total int) {
			fmt.Fprintf(deps.Stdout, "\r  %s [%d/%d]", name, processed, total)
		}

		result, err := pipeline.Run(deps.Ctx, enrich.SplitBlocks(doc.Content), progress)
		closeErr := registry.Close(session.ID())
		if err != nil {
			fmt.Fprintf(deps.Stderr, "\nerror enriching %s: %s\n", doc.SourceURL, ragmark.ErrorMessage(err))
			return err
		}
		if closeErr != nil {
			fmt.Fprintf(deps.Stderr, "  warning: closing session for %s: %v\n", doc.SourceURL, closeErr)
		}

		markdown := result.Markdown()
		if err := deps.Documents.UpdateDocumentEnhanced(deps.Ctx, doc.ID, markdown); err != nil {
			fmt.Fprintf(deps.Stderr, "\nerror: %s\n", ragmark.ErrorMessage(err))
			return err
		}
		doc.Enhanced = markdown

		fmt.Fprintf(deps.Stdout, "\r  %s: %d enhanced, %d fallback, %d pass-through\n",
			name, result.Enhanced, result.Fallback, result.PassThrough)

		enriched++
		enhanced += result.Enhanced
		fallback += result.Fallback
		passThrough += result.PassThrough
		metrics.CacheHits += result.Metrics.CacheHits
		metrics.CacheMisses += result.Metrics.CacheMisses
	}

	fmt.Fprintf(deps.Stdout, "Enriched %d documents (%d skipped): %d blocks enhanced, %d fallback, %d pass-through\n",
		enriched, skipped, enhanced, fallback, passThrough)
	if calls := metrics.CacheHits + metrics.CacheMisses; calls > 0 {
		fmt.Fprintf(deps.Stdout, "Cached context: %d/%d calls warm (%.0f%%)\n",
			metrics.CacheHits, calls, float64(metrics.CacheHits)/float64(calls)*100)
	}

	if c.Out != "" {
		store := fs.NewDocStore(c.Out, project.Name)
		for _, doc := range docs {
			if err := store.CreateDocument(deps.Ctx, doc); err != nil {
				_ = store.Abort()
				fmt.Fprintf(deps.Stderr, "error exporting %s: %s\n", doc.SourceURL, ragmark.ErrorMessage(err))
				return err
			}
		}
		if err := store.Commit(); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", ragmark.ErrorMessage(err))
			return err
		}
		fmt.Fprintf(deps.Stdout, "Exported %d documents to %s\n", len(docs), c.Out)
	}

	return nil
}

// documentOutline renders the document's heading structure for inclusion in
// the session's static context.
func documentOutline(markdown string) string {
	sections := ragmark.ExtractSections(markdown)
	if len(sections) == 0 {
		return ""
	}
	lines := make([]string, 0, len(sections))
	for _, s := range sections {
		lines = append(lines, strings.Repeat("  ", s.Level-1)+s.Title)
	}
	return "Outline:\n" + strings.Join(lines, "\n")
}
