package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/intentified/web/internal/config"
)

// RemoteError is a non-2xx answer from the store's search function.
type RemoteError struct {
	StatusCode int
	Body       string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("search function error %d: %s", e.StatusCode, e.Body)
}

// RemoteClient calls the store's search_document_chunks RPC.
type RemoteClient struct {
	endpoint   string
	apiKey     string
	serviceKey string
	matchCount int
}

// NewRemoteClient targets {store url}/rest/v1/rpc/{function}.
func NewRemoteClient(cfg config.StoreConfig) *RemoteClient {
	base := strings.TrimRight(cfg.URL, "/")
	apiKey := cfg.AnonKey
	if apiKey == "" {
		apiKey = cfg.ServiceRoleKey
	}
	return &RemoteClient{
		endpoint:   base + "/rest/v1/rpc/" + cfg.SearchFunction,
		apiKey:     apiKey,
		serviceKey: cfg.ServiceRoleKey,
		matchCount: cfg.SearchMatchCount,
	}
}

type rpcRequest struct {
	QueryText        string  `json:"query_text"`
	MatchCount       int     `json:"match_count"`
	FilterDocumentID *string `json:"filter_document_id"`
}

// Search posts the query and returns matches in the order the function
// ranked them.
func (r *RemoteClient) Search(ctx context.Context, query, documentID string) ([]Match, error) {
	req := rpcRequest{QueryText: query, MatchCount: r.matchCount}
	if documentID != "" {
		req.FilterDocumentID = &documentID
	}
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	data, err := r.do(ctx, body)
	if err != nil {
		return nil, err
	}

	var matches []Match
	if err := json.Unmarshal(data, &matches); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}
	if matches == nil {
		matches = []Match{}
	}
	return matches, nil
}

func (r *RemoteClient) do(ctx context.Context, body []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("apikey", r.apiKey)
	req.Header.Set("Authorization", "Bearer "+r.serviceKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		return nil, &RemoteError{StatusCode: resp.StatusCode, Body: string(data)}
	}
	return data, nil
}
