package search

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTimer struct {
	fn      func()
	stopped bool
}

func (t *fakeTimer) Stop() bool {
	was := !t.stopped
	t.stopped = true
	return was
}

type fakeClock struct {
	mu     sync.Mutex
	timers []*fakeTimer
}

func (c *fakeClock) AfterFunc(_ time.Duration, f func()) stopper {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{fn: f}
	c.timers = append(c.timers, t)
	return t
}

// fire runs every timer that has not been stopped, in creation order.
func (c *fakeClock) fire() {
	c.mu.Lock()
	pending := c.timers
	c.timers = nil
	c.mu.Unlock()
	for _, t := range pending {
		if !t.stopped {
			t.fn()
		}
	}
}

type recorder struct {
	mu      sync.Mutex
	results []Result
}

func (r *recorder) deliver(res Result) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results = append(r.results, res)
}

func (r *recorder) settled() []Result {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Result
	for _, res := range r.results {
		if !res.Loading {
			out = append(out, res)
		}
	}
	return out
}

type querySpy struct {
	mu      sync.Mutex
	queries []string
	docs    []string
}

func (s *querySpy) run(_ context.Context, q, documentID string) ([]Match, error) {
	s.mu.Lock()
	s.queries = append(s.queries, q)
	s.docs = append(s.docs, documentID)
	s.mu.Unlock()
	return []Match{{ID: q, Content: q}}, nil
}

func newTestDispatcher(q QueryFunc, rec *recorder) (*Dispatcher, *fakeClock) {
	clock := &fakeClock{}
	d := NewDispatcher(context.Background(), DefaultDebounce, q, rec.deliver)
	d.after = clock.AfterFunc
	return d, clock
}

func TestDispatcherDebouncesRapidInput(t *testing.T) {
	spy := &querySpy{}
	rec := &recorder{}
	d, clock := newTestDispatcher(spy.run, rec)

	d.Input("invoice", "")
	d.Input("invoice terms", "")
	clock.fire()

	assert.Equal(t, []string{"invoice terms"}, spy.queries)
	settled := rec.settled()
	require.Len(t, settled, 1)
	assert.Equal(t, "invoice terms", settled[0].Query)
	assert.Equal(t, "invoice terms", settled[0].Matches[0].ID)
}

func TestDispatcherBindsDocumentToInput(t *testing.T) {
	spy := &querySpy{}
	rec := &recorder{}
	d, clock := newTestDispatcher(spy.run, rec)

	d.Input("lease", "d1")
	clock.fire()
	d.Input("lease", "d2")
	d.Input("lease terms", "d1")
	clock.fire()

	assert.Equal(t, []string{"lease", "lease terms"}, spy.queries)
	assert.Equal(t, []string{"d1", "d1"}, spy.docs)
}

func TestDispatcherBlankQueryClearsWithoutDispatch(t *testing.T) {
	spy := &querySpy{}
	rec := &recorder{}
	d, clock := newTestDispatcher(spy.run, rec)

	d.Input("invoice", "")
	d.Input("   ", "")

	require.Len(t, rec.results, 1)
	assert.Empty(t, rec.results[0].Matches)
	assert.NotNil(t, rec.results[0].Matches)
	assert.False(t, rec.results[0].Loading)

	clock.fire()
	assert.Empty(t, spy.queries)
}

func TestDispatcherLoadingKeepsPreviousMatches(t *testing.T) {
	spy := &querySpy{}
	rec := &recorder{}
	d, clock := newTestDispatcher(spy.run, rec)

	d.Input("first", "")
	clock.fire()
	d.Input("second", "")
	clock.fire()

	require.Len(t, rec.results, 4)
	loading := rec.results[2]
	assert.True(t, loading.Loading)
	assert.Equal(t, "second", loading.Query)
	require.Len(t, loading.Matches, 1)
	assert.Equal(t, "first", loading.Matches[0].ID)
}

func TestDispatcherDropsStaleResponse(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	query := func(_ context.Context, q, _ string) ([]Match, error) {
		if q == "slow" {
			close(started)
			<-release
		}
		return []Match{{ID: q}}, nil
	}
	rec := &recorder{}
	d, clock := newTestDispatcher(query, rec)

	d.Input("slow", "")
	done := make(chan struct{})
	go func() {
		clock.fire()
		close(done)
	}()
	<-started

	d.Input("fast", "")
	clock.fire()

	close(release)
	<-done

	settled := rec.settled()
	require.Len(t, settled, 1)
	assert.Equal(t, "fast", settled[0].Query)
}

func TestDispatcherSurfacesErrors(t *testing.T) {
	rec := &recorder{}
	d, clock := newTestDispatcher(func(context.Context, string, string) ([]Match, error) {
		return nil, errors.New("search function error 500: boom")
	}, rec)

	d.Input("invoice", "")
	clock.fire()

	settled := rec.settled()
	require.Len(t, settled, 1)
	assert.Equal(t, "search function error 500: boom", settled[0].Error)
	assert.Empty(t, settled[0].Matches)
}

func TestDispatcherCloseCancelsPending(t *testing.T) {
	spy := &querySpy{}
	rec := &recorder{}
	d, clock := newTestDispatcher(spy.run, rec)

	d.Input("invoice", "")
	d.Close()
	clock.fire()
	d.Input("after close", "")
	clock.fire()

	assert.Empty(t, spy.queries)
	assert.Empty(t, rec.results)
}

func TestDispatcherRealTimer(t *testing.T) {
	spy := &querySpy{}
	got := make(chan Result, 4)
	d := NewDispatcher(context.Background(), 10*time.Millisecond, spy.run, func(r Result) {
		if !r.Loading {
			got <- r
		}
	})
	defer d.Close()

	d.Input("contract", "")
	select {
	case r := <-got:
		assert.Equal(t, "contract", r.Query)
	case <-time.After(2 * time.Second):
		t.Fatal("no result delivered")
	}
}
