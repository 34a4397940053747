package main

import (
	"fmt"

	"github.com/fwojciec/ragmark"
)

// Run executes the docs command.
func (c *DocsCmd) Run(deps *Dependencies) error {
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

	docs, err := deps.Documents.FindDocuments(deps.Ctx, ragmark.DocumentFilter{
		ProjectID: &project.ID,
		SortBy:    ragmark.SortByPosition,
	})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", ragmark.ErrorMessage(err))
		return err
	}

	if len(docs) == 0 {
		fmt.Fprintf(deps.Stderr, "error: project %q has no documents. To re-add, first run 'ragmark delete %s --force', then run 'ragmark add %s <url>'.\n", c.Name, c.Name, c.Name)
		return ragmark.Errorf(ragmark.ENOTFOUND, "project %q has no documents", c.Name)
	}

	if c.Full {
		// Print full formatted content (same as what ask sends to LLM)
		fmt.Fprintln(deps.Stdout, ragmark.FormatDocuments(docs))
		return nil
	}

	// Print summary listing
	fmt.Fprintf(deps.Stdout, "Documents for %s (%d total):\n\n", c.Name, len(docs))
	for i, doc := range docs {
		title := doc.Title
		if title == "" {
			title = doc.SourceURL
		}
		marker := ""
		if doc.Enhanced != "" {
			marker = "  [enriched]"
		}
		fmt.Fprintf(deps.Stdout, "  %d. %s%s\n     %s\n", i+1, title, marker, doc.SourceURL)
	}

	return nil
}
