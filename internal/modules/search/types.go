package search

import (
	"context"
	"errors"
	"net/http"
	"time"
)

var httpClient = &http.Client{Timeout: 10 * time.Second}

const (
	servedByRemote = "store-rpc"
	servedByStore  = "store-like"
)

var ErrEmptyQuery = errors.New("search query is empty")

// Match is one chunk returned for a query.
type Match struct {
	ID            string  `json:"id"`
	DocumentID    string  `json:"document_id"`
	Title         string  `json:"title"`
	Content       string  `json:"content"`
	Heading       *string `json:"heading,omitempty"`
	PageNumber    *int    `json:"page_number,omitempty"`
	CombinedScore float64 `json:"combined_score"`
}

// Result is the state pushed to a search box after each change.
type Result struct {
	Query   string  `json:"query"`
	Matches []Match `json:"matches"`
	Loading bool    `json:"loading"`
	Error   string  `json:"error,omitempty"`
}

// Searcher runs one query. documentID narrows the search to a document when
// non-empty.
type Searcher interface {
	Search(ctx context.Context, query, documentID string) ([]Match, string, error)
}
