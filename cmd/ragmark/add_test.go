package main_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/fwojciec/ragmark"
	main "github.com/fwojciec/ragmark/cmd/ragmark"
	"github.com/fwojciec/ragmark/crawl"
	"github.com/fwojciec/ragmark/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("creates project and crawls documents", func(t *testing.T) {
		t.Parallel()

		var createdProject *ragmark.Project
		var savedDoc *ragmark.Document

		projects := &mock.ProjectService{
			CreateProjectFn: func(_ context.Context, p *ragmark.Project) error {
				p.ID = "proj-123"
				createdProject = p
				return nil
			},
		}

		sitemaps := &mock.SitemapService{
			DiscoverURLsFn: func(_ context.Context, _ string, _ *ragmark.URLFilter) ([]string, error) {
				return []string{"https://example.com/docs/page1"}, nil
			},
		}

		documents := &mock.DocumentService{
			CreateDocumentFn: func(_ context.Context, doc *ragmark.Document) error {
				savedDoc = doc
				return nil
			},
		}

		fetcher := &mock.Fetcher{
			FetchFn: func(_ context.Context, _ string) (string, error) {
				return "<html><body>Test content</body></html>", nil
			},
		}

		extractor := &mock.Extractor{
			ExtractFn: func(_ string) (*ragmark.ExtractResult, error) {
				return &ragmark.ExtractResult{
					Title:       "Test Page",
					ContentHTML: "<p>Test content</p>",
				}, nil
			},
		}

		converter := &mock.Converter{
			ConvertFn: func(_ string) (string, error) {
				return "Test content", nil
			},
		}

		tokenCounter := &mock.TokenCounter{
			CountTokensFn: func(_ context.Context, text string) (int, error) {
				return len(text) / 4, nil
			},
		}

		crawler := &crawl.Crawler{
			Sitemaps:     sitemaps,
			Fetcher:      fetcher,
			Extractor:    extractor,
			Converter:    converter,
			Documents:    documents,
			TokenCounter: tokenCounter,
			Concurrency:  1,
			RetryDelays:  []time.Duration{0},
		}

		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		deps := &main.Dependencies{
			Ctx:      context.Background(),
			Stdout:   stdout,
			Stderr:   stderr,
			Projects: projects,
			Sitemaps: sitemaps,
			Crawler:  crawler,
		}

		cmd := &main.AddCmd{
			Name:        "testdocs",
			URL:         "https://example.com/docs",
			Concurrency: 10,
		}

		err := cmd.Run(deps)

		require.NoError(t, err)
		require.NotNil(t, createdProject)
		assert.Equal(t, "testdocs", createdProject.Name)
		require.NotNil(t, savedDoc)
		assert.Equal(t, "proj-123", savedDoc.ProjectID)
		assert.Contains(t, stdout.String(), "Saved 1 pages")
	})

	t.Run("preview mode shows URLs without creating project", func(t *testing.T) {
		t.Parallel()

		var projectCreated bool

		projects := &mock.ProjectService{
			CreateProjectFn: func(_ context.Context, _ *ragmark.Project) error {
				projectCreated = true
				return nil
			},
		}

		sitemaps := &mock.SitemapService{
			DiscoverURLsFn: func(_ context.Context, _ string, _ *ragmark.URLFilter) ([]string, error) {
				return []string{"https://example.com/docs/page1"}, nil
			},
		}

		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		deps := &main.Dependencies{
			Ctx:      context.Background(),
			Stdout:   stdout,
			Stderr:   stderr,
			Projects: projects,
			Sitemaps: sitemaps,
		}

		cmd := &main.AddCmd{
			Name:    "testdocs",
			URL:     "https://example.com/docs",
			Preview: true,
		}

		err := cmd.Run(deps)

		require.NoError(t, err)
		assert.False(t, projectCreated)
		assert.Contains(t, stdout.String(), "https://example.com/docs/page1")
	})

	t.Run("invalid filter pattern shows error before any work", func(t *testing.T) {
		t.Parallel()

		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: &bytes.Buffer{},
			Stderr: stderr,
		}

		cmd := &main.AddCmd{
			Name:   "testdocs",
			URL:    "https://example.com/docs",
			Filter: []string{"[invalid"},
		}

		err := cmd.Run(deps)

		require.Error(t, err)
		assert.Contains(t, stderr.String(), "[invalid")
		assert.Contains(t, stderr.String(), "invalid filter pattern")
	})

	t.Run("stores filter patterns on project creation", func(t *testing.T) {
		t.Parallel()

		var createdProject *ragmark.Project
		projects := &mock.ProjectService{
			CreateProjectFn: func(_ context.Context, p *ragmark.Project) error {
				p.ID = "proj-123"
				createdProject = p
				return nil
			},
		}

		deps := &main.Dependencies{
			Ctx:      context.Background(),
			Stdout:   &bytes.Buffer{},
			Stderr:   &bytes.Buffer{},
			Projects: projects,
		}

		cmd := &main.AddCmd{
			Name:   "testdocs",
			URL:    "https://example.com/docs",
			Filter: []string{"api", "docs"},
		}

		err := cmd.Run(deps)

		require.NoError(t, err)
		require.NotNil(t, createdProject)
		assert.Equal(t, "api\ndocs", createdProject.Filter)
	})

	t.Run("with --force deletes existing project before creating", func(t *testing.T) {
		t.Parallel()

		var deletedID string
		var createdProject *ragmark.Project
		projects := &mock.ProjectService{
			FindProjectsFn: func(_ context.Context, filter ragmark.ProjectFilter) ([]*ragmark.Project, error) {
				if filter.Name != nil && *filter.Name == "testdocs" {
					return []*ragmark.Project{
						{ID: "existing-id", Name: "testdocs", SourceURL: "https://old.example.com"},
					}, nil
				}
				return nil, nil
			},
			DeleteProjectFn: func(_ context.Context, id string) error {
				deletedID = id
				return nil
			},
			CreateProjectFn: func(_ context.Context, p *ragmark.Project) error {
				p.ID = "new-id-123"
				createdProject = p
				return nil
			},
		}

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:      context.Background(),
			Stdout:   stdout,
			Stderr:   &bytes.Buffer{},
			Projects: projects,
		}

		cmd := &main.AddCmd{
			Name:  "testdocs",
			URL:   "https://example.com/docs",
			Force: true,
		}

		err := cmd.Run(deps)

		require.NoError(t, err)
		assert.Equal(t, "existing-id", deletedID)
		require.NotNil(t, createdProject)
		assert.Equal(t, "https://example.com/docs", createdProject.SourceURL)
		assert.Contains(t, stdout.String(), "Added project")
	})

	t.Run("prints failures to stderr and counts only saved pages", func(t *testing.T) {
		t.Parallel()

		projects := &mock.ProjectService{
			CreateProjectFn: func(_ context.Context, p *ragmark.Project) error {
				p.ID = "proj-123"
				return nil
			},
		}

		sitemaps := &mock.SitemapService{
			DiscoverURLsFn: func(_ context.Context, _ string, _ *ragmark.URLFilter) ([]string, error) {
				return []string{
					"https://example.com/docs/page1",
					"https://example.com/docs/failing",
					"https://example.com/docs/page3",
				}, nil
			},
		}

		documents := &mock.DocumentService{
			CreateDocumentFn: func(_ context.Context, _ *ragmark.Document) error {
				return nil
			},
		}

		fetcher := &mock.Fetcher{
			FetchFn: func(_ context.Context, url string) (string, error) {
				if url == "https://example.com/docs/failing" {
					return "", ragmark.Errorf(ragmark.ENOTFOUND, "connection timeout")
				}
				return "<html><body>Test</body></html>", nil
			},
		}

		extractor := &mock.Extractor{
			ExtractFn: func(_ string) (*ragmark.ExtractResult, error) {
				return &ragmark.ExtractResult{Title: "Test", ContentHTML: "<p>Test</p>"}, nil
			},
		}

		converter := &mock.Converter{
			ConvertFn: func(_ string) (string, error) {
				return "Test", nil
			},
		}

		crawler := &crawl.Crawler{
			Sitemaps:    sitemaps,
			Fetcher:     fetcher,
			Extractor:   extractor,
			Converter:   converter,
			Documents:   documents,
			Concurrency: 1,
			RetryDelays: []time.Duration{0},
		}

		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		deps := &main.Dependencies{
			Ctx:      context.Background(),
			Stdout:   stdout,
			Stderr:   stderr,
			Projects: projects,
			Sitemaps: sitemaps,
			Crawler:  crawler,
		}

		cmd := &main.AddCmd{
			Name: "testdocs",
			URL:  "https://example.com/docs",
		}

		err := cmd.Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stderr.String(), "failing")
		assert.Contains(t, stdout.String(), "Saved 2 pages")
	})
}
