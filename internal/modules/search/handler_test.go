package search

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type stubSearcher struct {
	mu       sync.Mutex
	matches  []Match
	servedBy string
	err      error
	calls    []string
}

func (s *stubSearcher) Search(_ context.Context, q, documentID string) ([]Match, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, q+"|"+documentID)
	return s.matches, s.servedBy, s.err
}

func newSearchEngine(svc Searcher, debounce time.Duration) *gin.Engine {
	return newSearchEngineWithLogger(svc, debounce, zap.NewNop())
}

func newSearchEngineWithLogger(svc Searcher, debounce time.Duration, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewHandler(svc, debounce, logger)
	dash := r.Group("/dashboard")
	h.RegisterRoutes(dash, dash.Group("/api"), func(c *gin.Context) { c.Next() })
	return r
}

func TestSearchEndpointReturnsMatches(t *testing.T) {
	svc := &stubSearcher{matches: []Match{{ID: "c1", Title: "Lease"}}, servedBy: servedByRemote}
	r := newSearchEngine(svc, DefaultDebounce)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/dashboard/api/search?q=invoice&document_id=d1", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, servedByRemote, w.Header().Get("x-served-by"))
	var body struct {
		Matches []Match `json:"matches"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Matches, 1)
	assert.Equal(t, "c1", body.Matches[0].ID)
	assert.Equal(t, []string{"invoice|d1"}, svc.calls)
}

func TestSearchEndpointBlankQuery(t *testing.T) {
	svc := &stubSearcher{}
	r := newSearchEngine(svc, DefaultDebounce)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/dashboard/api/search?q=%20%20", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"matches":[]}`, w.Body.String())
	assert.Empty(t, svc.calls)
}

func TestSearchEndpointRemoteError(t *testing.T) {
	svc := &stubSearcher{err: &RemoteError{StatusCode: 500, Body: "boom"}, servedBy: servedByRemote}
	core, logs := observer.New(zapcore.WarnLevel)
	r := newSearchEngineWithLogger(svc, DefaultDebounce, zap.New(core))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/dashboard/api/search?q=invoice", nil))

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.JSONEq(t, `{"error":"search failed"}`, w.Body.String())
	assert.NotContains(t, w.Body.String(), "boom")

	entries := logs.FilterMessage("search failed").All()
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].ContextMap()["error"], "boom")
}

func TestLiveSearchPushesDebouncedResults(t *testing.T) {
	svc := &stubSearcher{matches: []Match{{ID: "c9", Content: "invoice terms apply"}}}
	srv := httptest.NewServer(newSearchEngine(svc, 150*time.Millisecond))
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/dashboard/search/live?document_id=d7"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteJSON(liveInput{Query: "invoice"}))
	require.NoError(t, conn.WriteJSON(liveInput{Query: "invoice terms"}))

	_ = conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	var final Result
	for {
		var r Result
		require.NoError(t, conn.ReadJSON(&r))
		if !r.Loading {
			final = r
			break
		}
	}

	assert.Equal(t, "invoice terms", final.Query)
	require.Len(t, final.Matches, 1)
	assert.Equal(t, "c9", final.Matches[0].ID)

	svc.mu.Lock()
	defer svc.mu.Unlock()
	assert.Equal(t, []string{"invoice terms|d7"}, svc.calls)
}

func dialLive(t *testing.T, srv *httptest.Server, query string) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/dashboard/search/live" + query
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	return conn
}

func readSettled(t *testing.T, conn *websocket.Conn) Result {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	for {
		var r Result
		require.NoError(t, conn.ReadJSON(&r))
		if !r.Loading {
			return r
		}
	}
}

func TestLiveSearchScopesEachMessageToItsDocument(t *testing.T) {
	svc := &stubSearcher{matches: []Match{{ID: "c1"}}}
	srv := httptest.NewServer(newSearchEngine(svc, 20*time.Millisecond))
	defer srv.Close()

	conn := dialLive(t, srv, "?document_id=d0")
	defer conn.Close()

	steps := []struct {
		in   liveInput
		want string
	}{
		{liveInput{Query: "lease", DocumentID: "d1"}, "lease|d1"},
		{liveInput{Query: "lease terms", DocumentID: "d2"}, "lease terms|d2"},
		{liveInput{Query: "lease renewal"}, "lease renewal|d2"},
		{liveInput{Query: "lease end", DocumentID: "d1"}, "lease end|d1"},
	}
	var want []string
	for _, st := range steps {
		require.NoError(t, conn.WriteJSON(st.in))
		r := readSettled(t, conn)
		assert.Equal(t, st.in.Query, r.Query)
		want = append(want, st.want)
	}

	svc.mu.Lock()
	defer svc.mu.Unlock()
	assert.Equal(t, want, svc.calls)
}

func TestLiveSearchHidesBackendErrors(t *testing.T) {
	svc := &stubSearcher{err: &RemoteError{StatusCode: 500, Body: "stack trace"}}
	srv := httptest.NewServer(newSearchEngine(svc, 10*time.Millisecond))
	defer srv.Close()

	conn := dialLive(t, srv, "")
	defer conn.Close()

	require.NoError(t, conn.WriteJSON(liveInput{Query: "invoice"}))
	r := readSettled(t, conn)
	assert.Equal(t, "search failed", r.Error)
	assert.Empty(t, r.Matches)
}

func TestOfferLatestEvictsOldest(t *testing.T) {
	out := make(chan Result, 2)
	offerLatest(out, Result{Query: "a"})
	offerLatest(out, Result{Query: "b"})
	offerLatest(out, Result{Query: "c"})

	require.Len(t, out, 2)
	assert.Equal(t, "b", (<-out).Query)
	assert.Equal(t, "c", (<-out).Query)

	offerLatest(out, Result{Query: "d"})
	assert.Equal(t, "d", (<-out).Query)
}

func TestLiveSearchClearIsImmediate(t *testing.T) {
	svc := &stubSearcher{}
	srv := httptest.NewServer(newSearchEngine(svc, time.Hour))
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/dashboard/search/live"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteJSON(liveInput{Query: "invoice"}))
	require.NoError(t, conn.WriteJSON(liveInput{Query: ""}))

	_ = conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	var r Result
	require.NoError(t, conn.ReadJSON(&r))
	assert.False(t, r.Loading)
	assert.Empty(t, r.Matches)

	svc.mu.Lock()
	defer svc.mu.Unlock()
	assert.Empty(t, svc.calls)
}

func TestSameHost(t *testing.T) {
	assert.True(t, sameHost("https://app.example.com", "app.example.com"))
	assert.False(t, sameHost("https://evil.example.com", "app.example.com"))
}
