package main_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/ragmark"
	main "github.com/fwojciec/ragmark/cmd/ragmark"
	"github.com/fwojciec/ragmark/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const enrichTestContent = "The quick brown fox jumps over the lazy dog near the river bank.\n\n" +
	"A second paragraph describes the same scene from the other side of the water."

// annotatingSessionFactory returns a session factory whose sessions append a
// bracketed annotation to every block, which passes validation.
func annotatingSessionFactory(created *int) main.SessionFactory {
	return func(meta ragmark.DocumentMetadata) ragmark.EnrichmentSession {
		if created != nil {
			*created++
		}
		return &mock.EnrichmentSession{
			CallFn: func(_ context.Context, blocks map[string]string) (map[string]string, error) {
				out := make(map[string]string, len(blocks))
				for k, v := range blocks {
					out[k] = v + " [[river scene]]"
				}
				return out, nil
			},
			MetricsFn: func() ragmark.SessionMetrics {
				return ragmark.SessionMetrics{CacheMisses: 1}
			},
		}
	}
}

func projectLookup(name, id string) *mock.ProjectService {
	return &mock.ProjectService{
		FindProjectsFn: func(_ context.Context, filter ragmark.ProjectFilter) ([]*ragmark.Project, error) {
			if filter.Name != nil && *filter.Name == name {
				return []*ragmark.Project{{ID: id, Name: name}}, nil
			}
			return []*ragmark.Project{}, nil
		},
	}
}

func TestEnrichCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("enriches documents and stores results", func(t *testing.T) {
		t.Parallel()

		updated := map[string]string{}
		documents := &mock.DocumentService{
			FindDocumentsFn: func(_ context.Context, filter ragmark.DocumentFilter) ([]*ragmark.Document, error) {
				require.NotNil(t, filter.ProjectID)
				assert.Equal(t, "proj-123", *filter.ProjectID)
				return []*ragmark.Document{
					{ID: "doc-1", ProjectID: "proj-123", SourceURL: "https://example.com/docs/one", Title: "One", Content: enrichTestContent},
					{ID: "doc-2", ProjectID: "proj-123", SourceURL: "https://example.com/docs/two", Title: "Two", Content: enrichTestContent},
				}, nil
			},
			UpdateDocumentEnhancedFn: func(_ context.Context, id string, enhanced string) error {
				updated[id] = enhanced
				return nil
			},
		}

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:       context.Background(),
			Stdout:    stdout,
			Stderr:    &bytes.Buffer{},
			Projects:  projectLookup("react-docs", "proj-123"),
			Documents: documents,
			Sessions:  annotatingSessionFactory(nil),
		}

		cmd := &main.EnrichCmd{Name: "react-docs"}
		err := cmd.Run(deps)

		require.NoError(t, err)
		require.Len(t, updated, 2)
		assert.Contains(t, updated["doc-1"], "[[river scene]]")
		assert.Contains(t, updated["doc-2"], "quick brown fox")
		assert.Contains(t, stdout.String(), "Enriched 2 documents")
		assert.Contains(t, stdout.String(), "Cached context:")
	})

	t.Run("skips already enriched documents without --force", func(t *testing.T) {
		t.Parallel()

		var sessions int
		documents := &mock.DocumentService{
			FindDocumentsFn: func(_ context.Context, _ ragmark.DocumentFilter) ([]*ragmark.Document, error) {
				return []*ragmark.Document{
					{ID: "doc-1", ProjectID: "proj-123", SourceURL: "https://example.com/docs/one", Content: enrichTestContent, Enhanced: "already done"},
				}, nil
			},
			UpdateDocumentEnhancedFn: func(_ context.Context, _ string, _ string) error {
				t.Error("UpdateDocumentEnhanced should not be called for skipped documents")
				return nil
			},
		}

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:       context.Background(),
			Stdout:    stdout,
			Stderr:    &bytes.Buffer{},
			Projects:  projectLookup("react-docs", "proj-123"),
			Documents: documents,
			Sessions:  annotatingSessionFactory(&sessions),
		}

		cmd := &main.EnrichCmd{Name: "react-docs"}
		err := cmd.Run(deps)

		require.NoError(t, err)
		assert.Equal(t, 0, sessions)
		assert.Contains(t, stdout.String(), "Enriched 0 documents (1 skipped)")
	})

	t.Run("re-enriches with --force", func(t *testing.T) {
		t.Parallel()

		var sessions int
		var updatedID string
		documents := &mock.DocumentService{
			FindDocumentsFn: func(_ context.Context, _ ragmark.DocumentFilter) ([]*ragmark.Document, error) {
				return []*ragmark.Document{
					{ID: "doc-1", ProjectID: "proj-123", SourceURL: "https://example.com/docs/one", Content: enrichTestContent, Enhanced: "stale"},
				}, nil
			},
			UpdateDocumentEnhancedFn: func(_ context.Context, id string, _ string) error {
				updatedID = id
				return nil
			},
		}

		deps := &main.Dependencies{
			Ctx:       context.Background(),
			Stdout:    &bytes.Buffer{},
			Stderr:    &bytes.Buffer{},
			Projects:  projectLookup("react-docs", "proj-123"),
			Documents: documents,
			Sessions:  annotatingSessionFactory(&sessions),
		}

		cmd := &main.EnrichCmd{Name: "react-docs", Force: true}
		err := cmd.Run(deps)

		require.NoError(t, err)
		assert.Equal(t, 1, sessions)
		assert.Equal(t, "doc-1", updatedID)
	})

	t.Run("--doc filters by source URL", func(t *testing.T) {
		t.Parallel()

		var receivedFilter ragmark.DocumentFilter
		documents := &mock.DocumentService{
			FindDocumentsFn: func(_ context.Context, filter ragmark.DocumentFilter) ([]*ragmark.Document, error) {
				receivedFilter = filter
				return []*ragmark.Document{
					{ID: "doc-1", ProjectID: "proj-123", SourceURL: "https://example.com/docs/one", Content: enrichTestContent},
				}, nil
			},
			UpdateDocumentEnhancedFn: func(_ context.Context, _ string, _ string) error {
				return nil
			},
		}

		deps := &main.Dependencies{
			Ctx:       context.Background(),
			Stdout:    &bytes.Buffer{},
			Stderr:    &bytes.Buffer{},
			Projects:  projectLookup("react-docs", "proj-123"),
			Documents: documents,
			Sessions:  annotatingSessionFactory(nil),
		}

		cmd := &main.EnrichCmd{Name: "react-docs", Doc: "https://example.com/docs/one"}
		err := cmd.Run(deps)

		require.NoError(t, err)
		require.NotNil(t, receivedFilter.SourceURL)
		assert.Equal(t, "https://example.com/docs/one", *receivedFilter.SourceURL)
	})

	t.Run("returns error when project not found", func(t *testing.T) {
		t.Parallel()

		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:      context.Background(),
			Stdout:   &bytes.Buffer{},
			Stderr:   stderr,
			Projects: projectLookup("other", "proj-999"),
			Sessions: annotatingSessionFactory(nil),
		}

		cmd := &main.EnrichCmd{Name: "react-docs"}
		err := cmd.Run(deps)

		require.Error(t, err)
		assert.Equal(t, ragmark.ENOTFOUND, ragmark.ErrorCode(err))
		assert.Contains(t, stderr.String(), "not found")
	})

	t.Run("cached context failure aborts the run", func(t *testing.T) {
		t.Parallel()

		documents := &mock.DocumentService{
			FindDocumentsFn: func(_ context.Context, _ ragmark.DocumentFilter) ([]*ragmark.Document, error) {
				return []*ragmark.Document{
					{ID: "doc-1", ProjectID: "proj-123", SourceURL: "https://example.com/docs/one", Content: enrichTestContent},
				}, nil
			},
			UpdateDocumentEnhancedFn: func(_ context.Context, _ string, _ string) error {
				t.Error("UpdateDocumentEnhanced should not be called when the run aborts")
				return nil
			},
		}

		deps := &main.Dependencies{
			Ctx:       context.Background(),
			Stdout:    &bytes.Buffer{},
			Stderr:    &bytes.Buffer{},
			Projects:  projectLookup("react-docs", "proj-123"),
			Documents: documents,
			Sessions: func(_ ragmark.DocumentMetadata) ragmark.EnrichmentSession {
				return &mock.EnrichmentSession{
					SetCachedContextFn: func(_ context.Context, _ string) error {
						return ragmark.Errorf(ragmark.EUNAVAILABLE, "provider unavailable")
					},
				}
			},
		}

		cmd := &main.EnrichCmd{Name: "react-docs"}
		err := cmd.Run(deps)

		require.Error(t, err)
		assert.Equal(t, ragmark.EUNAVAILABLE, ragmark.ErrorCode(err))
	})

	t.Run("exports enriched markdown with --out", func(t *testing.T) {
		t.Parallel()

		outDir := t.TempDir()

		documents := &mock.DocumentService{
			FindDocumentsFn: func(_ context.Context, _ ragmark.DocumentFilter) ([]*ragmark.Document, error) {
				return []*ragmark.Document{
					{ID: "doc-1", ProjectID: "proj-123", SourceURL: "https://example.com/docs/one", Title: "One", Content: enrichTestContent},
				}, nil
			},
			UpdateDocumentEnhancedFn: func(_ context.Context, _ string, _ string) error {
				return nil
			},
		}

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:       context.Background(),
			Stdout:    stdout,
			Stderr:    &bytes.Buffer{},
			Projects:  projectLookup("react-docs", "proj-123"),
			Documents: documents,
			Sessions:  annotatingSessionFactory(nil),
		}

		cmd := &main.EnrichCmd{Name: "react-docs", Out: outDir}
		err := cmd.Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "Exported 1 documents")

		content, err := os.ReadFile(filepath.Join(outDir, "react-docs", "docs", "one.md"))
		require.NoError(t, err)
		assert.Contains(t, string(content), "enriched: true")
		assert.Contains(t, string(content), "[[river scene]]")
	})
}
