package documents

import (
	"context"
	"errors"
	"fmt"

	"github.com/intentified/web/internal/models"
	"github.com/intentified/web/internal/pkg/pagination"
	"github.com/intentified/web/internal/pkg/response"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var ErrDocumentNotFound = errors.New("document not found")

// Bundle is a document together with its related rows.
type Bundle struct {
	Document models.Document         `json:"document"`
	Tasks    []models.ProcessingTask `json:"tasks"`
	Chunks   []models.DocumentChunk  `json:"chunks"`
	Entities []models.DocumentEntity `json:"entities"`
}

// Service assembles per-document bundles from the repository.
type Service struct {
	repo   *Repository
	logger *zap.Logger
}

func NewService(repo *Repository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, logger: logger.Named("DocumentService")}
}

// ListBundles returns a bundle per document, newest document first.
func (s *Service) ListBundles(ctx context.Context) ([]Bundle, error) {
	docs, err := s.repo.ListDocuments(ctx)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return s.assemble(ctx, docs)
}

// PageBundles is ListBundles restricted to one page of documents.
func (s *Service) PageBundles(ctx context.Context, q pagination.Query) ([]Bundle, response.Pagination, error) {
	docs, pag, err := s.repo.PageDocuments(ctx, q)
	if err != nil {
		return nil, response.Pagination{}, fmt.Errorf("list documents: %w", err)
	}
	bundles, err := s.assemble(ctx, docs)
	if err != nil {
		return nil, response.Pagination{}, err
	}
	return bundles, pag, nil
}

// GetDocument loads the document row alone, without its children.
func (s *Service) GetDocument(ctx context.Context, id string) (*models.Document, error) {
	doc, err := s.repo.GetDocument(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrDocumentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get document %s: %w", id, err)
	}
	return doc, nil
}

// GetBundle returns ErrDocumentNotFound for an unknown id.
func (s *Service) GetBundle(ctx context.Context, id string) (*Bundle, error) {
	doc, err := s.GetDocument(ctx, id)
	if err != nil {
		return nil, err
	}
	bundles, err := s.assemble(ctx, []models.Document{*doc})
	if err != nil {
		return nil, err
	}
	return &bundles[0], nil
}

func (s *Service) assemble(ctx context.Context, docs []models.Document) ([]Bundle, error) {
	bundles := make([]Bundle, 0, len(docs))
	if len(docs) == 0 {
		return bundles, nil
	}

	ids := make([]string, len(docs))
	for i, d := range docs {
		ids[i] = d.ID
	}

	tasks, err := s.repo.ListTasksFor(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	chunks, err := s.repo.ListChunksFor(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("list chunks: %w", err)
	}
	entities, err := s.repo.ListEntitiesFor(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("list entities: %w", err)
	}

	tasksBy := partition(tasks, func(t models.ProcessingTask) string { return t.DocumentID })
	chunksBy := partition(chunks, func(c models.DocumentChunk) string { return c.DocumentID })
	entitiesBy := partition(entities, func(e models.DocumentEntity) string { return e.DocumentID })

	for _, d := range docs {
		bundles = append(bundles, Bundle{
			Document: d,
			Tasks:    nonNil(tasksBy[d.ID]),
			Chunks:   nonNil(chunksBy[d.ID]),
			Entities: nonNil(entitiesBy[d.ID]),
		})
	}
	s.logger.Debug("assembled bundles",
		zap.Int("documents", len(docs)),
		zap.Int("tasks", len(tasks)),
		zap.Int("chunks", len(chunks)),
		zap.Int("entities", len(entities)),
	)
	return bundles, nil
}

// partition groups rows by key, keeping the input order inside each group.
func partition[T any](rows []T, key func(T) string) map[string][]T {
	out := make(map[string][]T)
	for _, row := range rows {
		k := key(row)
		out[k] = append(out[k], row)
	}
	return out
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
