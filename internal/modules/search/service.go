package search

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service answers queries through the store's search function, or through
// a LIKE scan of the chunk table when the function is disabled.
type Service struct {
	db         *gorm.DB
	remote     *RemoteClient
	matchCount int
	logger     *zap.Logger
}

// ServiceOption configures a search Service.
type ServiceOption func(*Service)

// WithLogger sets the logger for the search service.
func WithLogger(l *zap.Logger) ServiceOption {
	return func(s *Service) {
		if l != nil {
			s.logger = l.Named("SearchService")
		}
	}
}

// WithRemote routes queries to the store's search function.
func WithRemote(r *RemoteClient) ServiceOption {
	return func(s *Service) { s.remote = r }
}

func NewService(db *gorm.DB, matchCount int, opts ...ServiceOption) *Service {
	if matchCount <= 0 {
		matchCount = 10
	}
	s := &Service{db: db, matchCount: matchCount, logger: zap.NewNop()}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Search returns the matches and the backend that served them. A remote
// failure is returned as is; it never falls through to the local scan.
func (s *Service) Search(ctx context.Context, query, documentID string) ([]Match, string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, "", ErrEmptyQuery
	}

	if s.remote != nil {
		matches, err := s.remote.Search(ctx, query, documentID)
		if err != nil {
			s.logger.Warn("search function failed", zap.Error(err))
			return nil, servedByRemote, err
		}
		s.logger.Debug(fmt.Sprintf("search function returned %d matches", len(matches)))
		return matches, servedByRemote, nil
	}

	matches, err := s.storeSearch(ctx, query, documentID)
	return matches, servedByStore, err
}

func (s *Service) storeSearch(ctx context.Context, query, documentID string) ([]Match, error) {
	like := "%" + escapeLike(strings.ToLower(query)) + "%"

	tx := s.db.WithContext(ctx).
		Table("doc_processor_document_chunks AS c").
		Select("c.id, c.document_id, d.title, c.content, c.heading, c.page_number").
		Joins("JOIN doc_processor_documents AS d ON d.id = c.document_id").
		Where("LOWER(c.content) LIKE ? ESCAPE '!'", like)
	if documentID != "" {
		tx = tx.Where("c.document_id = ?", documentID)
	}

	matches := []Match{}
	if err := tx.Order("c.created_at ASC").Order("c.chunk_index ASC").Limit(s.matchCount).Scan(&matches).Error; err != nil {
		return nil, fmt.Errorf("chunk scan: %w", err)
	}
	return matches, nil
}

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
