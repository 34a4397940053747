package fs

import (
	"context"
	"os"
	"path/filepath"

	"github.com/fwojciec/ragmark"
)

// Ensure DocStore implements ragmark.DocumentWriter at compile time.
var _ ragmark.DocumentWriter = (*DocStore)(nil)

// DocStore writes documents to a directory with atomic update semantics.
// Documents are saved to a temporary directory, then moved atomically on
// Commit, so a partially written export never replaces a previous one.
type DocStore struct {
	baseDir string
	name    string
}

// NewDocStore creates a new DocStore.
// baseDir is the parent directory, name is the output directory name.
// Files are saved to baseDir/name.tmp and moved to baseDir/name on Commit.
func NewDocStore(baseDir, name string) *DocStore {
	return &DocStore{
		baseDir: baseDir,
		name:    name,
	}
}

func (s *DocStore) tempDir() string {
	return filepath.Join(s.baseDir, s.name+".tmp")
}

func (s *DocStore) finalDir() string {
	return filepath.Join(s.baseDir, s.name)
}

// CreateDocument writes a document into the staging directory.
func (s *DocStore) CreateDocument(ctx context.Context, doc *ragmark.Document) error {
	if err := doc.Validate(); err != nil {
		return err
	}

	relPath, err := URLToPath(doc.SourceURL)
	if err != nil {
		return err
	}
	if !filepath.IsLocal(relPath) {
		return ragmark.Errorf(ragmark.EINVALID, "path traversal rejected: %q", relPath)
	}

	fullPath := filepath.Join(s.tempDir(), relPath)

	// Create parent directories
	dir := filepath.Dir(fullPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	content := FormatDocument(doc)
	return os.WriteFile(fullPath, []byte(content), 0644)
}

// Commit atomically replaces the final directory with the staged one.
func (s *DocStore) Commit() error {
	// Remove existing final directory if present
	if err := os.RemoveAll(s.finalDir()); err != nil {
		return err
	}

	// Atomically rename temp to final
	if err := os.Rename(s.tempDir(), s.finalDir()); err != nil {
		return err
	}

	return nil
}

// Abort discards the staged directory.
func (s *DocStore) Abort() error {
	return os.RemoveAll(s.tempDir())
}
