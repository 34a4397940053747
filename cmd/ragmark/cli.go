package main

import (
	"context"
	"io"

	"github.com/fwojciec/ragmark"
	"github.com/fwojciec/ragmark/crawl"
	"github.com/fwojciec/ragmark/sqlite"
)

// SessionFactory creates a provider enrichment session for one document.
type SessionFactory func(meta ragmark.DocumentMetadata) ragmark.EnrichmentSession

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx       context.Context
	Stdout    io.Writer
	Stderr    io.Writer
	DB        *sqlite.DB
	Projects  ragmark.ProjectService
	Documents ragmark.DocumentService
	Sitemaps  ragmark.SitemapService
	Crawler   *crawl.Crawler
	Asker     ragmark.Asker
	Sessions  SessionFactory
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Add    AddCmd    `cmd:"" help:"Add and crawl a documentation project"`
	List   ListCmd   `cmd:"" help:"List all registered projects"`
	Delete DeleteCmd `cmd:"" help:"Delete a project and its documents"`
	Docs   DocsCmd   `cmd:"" help:"List documents for a project"`
	Ask    AskCmd    `cmd:"" help:"Ask a question about project documentation"`
	Enrich EnrichCmd `cmd:"" help:"Enrich project documents with disambiguating context"`
}

// AddCmd is the "add" subcommand.
type AddCmd struct {
	Name        string   `arg:"" help:"Project name"`
	URL         string   `arg:"" help:"Documentation URL"`
	Preview     bool     `short:"p" help:"Show URLs without creating project"`
	Force       bool     `short:"f" help:"Delete existing project first"`
	Filter      []string `short:"F" name:"filter" help:"Filter URLs by regex (repeatable)"`
	Concurrency int      `short:"c" default:"10" help:"Concurrent fetch limit"`
}

// ListCmd is the "list" subcommand.
type ListCmd struct{}

// DeleteCmd is the "delete" subcommand.
type DeleteCmd struct {
	Name  string `arg:"" help:"Project name"`
	Force bool   `help:"Confirm deletion"`
}

// DocsCmd is the "docs" subcommand.
type DocsCmd struct {
	Name string `arg:"" help:"Project name"`
	Full bool   `help:"Show full document content"`
}

// AskCmd is the "ask" subcommand.
type AskCmd struct {
	Name     string `arg:"" help:"Project name"`
	Question string `arg:"" help:"Question to ask about the documentation"`
}

// EnrichCmd is the "enrich" subcommand.
type EnrichCmd struct {
	Name        string `arg:"" help:"Project name"`
	Doc         string `help:"Enrich only the document with this source URL"`
	Model       string `help:"Model to use for enrichment calls"`
	Concurrency int    `short:"c" default:"10" help:"Concurrent enrichment call limit"`
	Force       bool   `short:"f" help:"Re-enrich documents that already have enriched content"`
	Out         string `help:"Export enriched markdown to this directory"`
	Debug       bool   `help:"Log enrichment calls to stderr"`
}
