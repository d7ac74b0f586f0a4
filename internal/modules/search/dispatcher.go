package search

import (
	"context"
	"strings"
	"sync"
	"time"
)

// DefaultDebounce is the inactivity window before a query is dispatched.
const DefaultDebounce = 500 * time.Millisecond

// QueryFunc runs one dispatched query, optionally scoped to one document.
type QueryFunc func(ctx context.Context, query, documentID string) ([]Match, error)

type stopper interface {
	Stop() bool
}

type afterFunc func(d time.Duration, f func()) stopper

func realAfterFunc(d time.Duration, f func()) stopper {
	return time.AfterFunc(d, f)
}

// Dispatcher debounces the input of one search box. Every Input bumps a
// request token; a response is delivered only while its token is still the
// latest, so a slow earlier query can never overwrite a newer result.
//
// deliver is called with the dispatcher lock held and must not call back
// into the Dispatcher.
type Dispatcher struct {
	ctx     context.Context
	delay   time.Duration
	query   QueryFunc
	deliver func(Result)
	after   afterFunc

	mu     sync.Mutex
	seq    uint64
	timer  stopper
	last   []Match
	closed bool
}

func NewDispatcher(ctx context.Context, delay time.Duration, query QueryFunc, deliver func(Result)) *Dispatcher {
	if delay < 0 {
		delay = DefaultDebounce
	}
	return &Dispatcher{
		ctx:     ctx,
		delay:   delay,
		query:   query,
		deliver: deliver,
		after:   realAfterFunc,
		last:    []Match{},
	}
}

// Input records the current content of the search box and the document it
// is scoped to. A blank query clears the results at once and cancels any
// pending dispatch.
func (d *Dispatcher) Input(query, documentID string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}

	d.seq++
	seq := d.seq
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}

	if strings.TrimSpace(query) == "" {
		d.last = []Match{}
		d.deliver(Result{Query: query, Matches: d.last})
		return
	}

	d.timer = d.after(d.delay, func() { d.dispatch(seq, query, documentID) })
}

func (d *Dispatcher) dispatch(seq uint64, query, documentID string) {
	d.mu.Lock()
	if d.closed || seq != d.seq {
		d.mu.Unlock()
		return
	}
	d.timer = nil
	d.deliver(Result{Query: query, Matches: d.last, Loading: true})
	d.mu.Unlock()

	matches, err := d.query(d.ctx, query, documentID)

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed || seq != d.seq {
		return
	}
	if err != nil {
		d.last = []Match{}
		d.deliver(Result{Query: query, Matches: d.last, Error: err.Error()})
		return
	}
	if matches == nil {
		matches = []Match{}
	}
	d.last = matches
	d.deliver(Result{Query: query, Matches: matches})
}

// Close cancels any pending dispatch and drops in-flight responses.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	d.seq++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
