package mock

import (
	"context"

	"github.com/fwojciec/ragmark"
)

var _ ragmark.DocumentService = (*DocumentService)(nil)

// DocumentService is a mock implementation of ragmark.DocumentService.
type DocumentService struct {
	CreateDocumentFn           func(ctx context.Context, doc *ragmark.Document) error
	FindDocumentByIDFn         func(ctx context.Context, id string) (*ragmark.Document, error)
	FindDocumentsFn            func(ctx context.Context, filter ragmark.DocumentFilter) ([]*ragmark.Document, error)
	UpdateDocumentEnhancedFn   func(ctx context.Context, id string, enhanced string) error
	DeleteDocumentFn           func(ctx context.Context, id string) error
	DeleteDocumentsByProjectFn func(ctx context.Context, projectID string) error
}

func (s *DocumentService) CreateDocument(ctx context.Context, doc *ragmark.Document) error {
	return s.CreateDocumentFn(ctx, doc)
}

func (s *DocumentService) FindDocumentByID(ctx context.Context, id string) (*ragmark.Document, error) {
	return s.FindDocumentByIDFn(ctx, id)
}

func (s *DocumentService) FindDocuments(ctx context.Context, filter ragmark.DocumentFilter) ([]*ragmark.Document, error) {
	return s.FindDocumentsFn(ctx, filter)
}

func (s *DocumentService) UpdateDocumentEnhanced(ctx context.Context, id string, enhanced string) error {
	return s.UpdateDocumentEnhancedFn(ctx, id, enhanced)
}

func (s *DocumentService) DeleteDocument(ctx context.Context, id string) error {
	return s.DeleteDocumentFn(ctx, id)
}

func (s *DocumentService) DeleteDocumentsByProject(ctx context.Context, projectID string) error {
	return s.DeleteDocumentsByProjectFn(ctx, projectID)
}

var _ ragmark.ProjectService = (*ProjectService)(nil)

// ProjectService is a mock implementation of ragmark.ProjectService.
type ProjectService struct {
	CreateProjectFn   func(ctx context.Context, project *ragmark.Project) error
	FindProjectByIDFn func(ctx context.Context, id string) (*ragmark.Project, error)
	FindProjectsFn    func(ctx context.Context, filter ragmark.ProjectFilter) ([]*ragmark.Project, error)
	UpdateProjectFn   func(ctx context.Context, id string, upd ragmark.ProjectUpdate) (*ragmark.Project, error)
	DeleteProjectFn   func(ctx context.Context, id string) error
}

func (s *ProjectService) CreateProject(ctx context.Context, project *ragmark.Project) error {
	return s.CreateProjectFn(ctx, project)
}

func (s *ProjectService) FindProjectByID(ctx context.Context, id string) (*ragmark.Project, error) {
	return s.FindProjectByIDFn(ctx, id)
}

func (s *ProjectService) FindProjects(ctx context.Context, filter ragmark.ProjectFilter) ([]*ragmark.Project, error) {
	return s.FindProjectsFn(ctx, filter)
}

func (s *ProjectService) UpdateProject(ctx context.Context, id string, upd ragmark.ProjectUpdate) (*ragmark.Project, error) {
	return s.UpdateProjectFn(ctx, id, upd)
}

func (s *ProjectService) DeleteProject(ctx context.Context, id string) error {
	return s.DeleteProjectFn(ctx, id)
}

var _ ragmark.Asker = (*Asker)(nil)

// Asker is a mock implementation of ragmark.Asker.
type Asker struct {
	AskFn func(ctx context.Context, projectID, question string) (string, error)
}

func (a *Asker) Ask(ctx context.Context, projectID, question string) (string, error) {
	return a.AskFn(ctx, projectID, question)
}

var _ ragmark.TokenCounter = (*TokenCounter)(nil)

// TokenCounter is a mock implementation of ragmark.TokenCounter.
type TokenCounter struct {
	CountTokensFn func(ctx context.Context, text string) (int, error)
}

func (c *TokenCounter) CountTokens(ctx context.Context, text string) (int, error) {
	return c.CountTokensFn(ctx, text)
}

var _ ragmark.DocumentWriter = (*DocumentWriter)(nil)

// DocumentWriter is a mock implementation of ragmark.DocumentWriter.
type DocumentWriter struct {
	CreateDocumentFn func(ctx context.Context, doc *ragmark.Document) error
}

func (w *DocumentWriter) CreateDocument(ctx context.Context, doc *ragmark.Document) error {
	return w.CreateDocumentFn(ctx, doc)
}
