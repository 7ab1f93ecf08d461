package search

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ozaka001/shopfront/internal/api"
)

const testDelay = 25 * time.Millisecond

// quiet sleeps long enough for a pending debounce timer to fire.
func quiet() {
	time.Sleep(4 * testDelay)
}

// fakeQuerier records queries and can gate individual responses by query
// text to force out-of-order arrival.
type fakeQuerier struct {
	mu      sync.Mutex
	queries []string
	gates   map[string]chan struct{}
	err     error
}

func newFakeQuerier() *fakeQuerier {
	return &fakeQuerier{gates: make(map[string]chan struct{})}
}

func (f *fakeQuerier) SearchProducts(_ context.Context, query string) ([]api.Product, error) {
	f.mu.Lock()
	f.queries = append(f.queries, query)
	gate := f.gates[query]
	err := f.err
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if err != nil {
		return nil, err
	}
	return []api.Product{{ID: "result-" + query, Name: query}}, nil
}

func (f *fakeQuerier) recorded() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.queries...)
}

// resultLog collects applied results.
type resultLog struct {
	mu      sync.Mutex
	results []Result
}

func (l *resultLog) listener(r Result) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.results = append(l.results, r)
}

func (l *resultLog) last() (Result, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.results) == 0 {
		return Result{}, false
	}
	return l.results[len(l.results)-1], true
}

func (l *resultLog) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.results)
}

func TestController_DebouncesBursts(t *testing.T) {
	t.Parallel()

	querier := newFakeQuerier()
	logged := &resultLog{}
	c := New(querier, testDelay, logged.listener, nil)
	ctx := context.Background()

	// A burst of keystrokes inside the quiet window issues exactly one
	// request, for the final text.
	c.Input(ctx, "s")
	time.Sleep(testDelay / 5)
	c.Input(ctx, "sh")
	time.Sleep(testDelay / 5)
	c.Input(ctx, "shoe")
	quiet()
	c.Wait()

	if got := querier.recorded(); len(got) != 1 || got[0] != "shoe" {
		t.Fatalf("queries = %v, want exactly one for final text", got)
	}
	last, ok := logged.last()
	if !ok || last.Query != "shoe" || len(last.Products) != 1 {
		t.Fatalf("last result = %+v, want applied shoe result", last)
	}
}

func TestController_StaleResponseDiscarded(t *testing.T) {
	t.Parallel()

	querier := newFakeQuerier()
	gate := make(chan struct{})
	querier.gates["sh"] = gate
	logged := &resultLog{}
	c := New(querier, testDelay, logged.listener, nil)
	ctx := context.Background()

	// Request A for "sh" is issued and its response held back.
	c.Input(ctx, "sh")
	quiet()

	// Request B for "shoe" is issued and completes first.
	c.Input(ctx, "shoe")
	quiet()

	// A's response finally arrives, after B's.
	close(gate)
	c.Wait()

	last, ok := logged.last()
	if !ok || last.Query != "shoe" {
		t.Fatalf("last result = %+v, want B's result, never A's", last)
	}
	for _, r := range logged.resultsCopy() {
		if r.Query == "sh" {
			t.Fatalf("stale result for %q was applied: %+v", r.Query, logged.resultsCopy())
		}
	}
}

func TestController_ResponseDroppedWhileNewerInputPending(t *testing.T) {
	t.Parallel()

	querier := newFakeQuerier()
	gate := make(chan struct{})
	querier.gates["sh"] = gate
	logged := &resultLog{}
	c := New(querier, testDelay, logged.listener, nil)
	ctx := context.Background()

	// Request for "sh" is issued and its response held back.
	c.Input(ctx, "sh")
	quiet()

	// Newer text arrives; its timer is armed but has not fired when the
	// old response lands.
	c.Input(ctx, "shoe")
	close(gate)
	c.Wait()

	for _, r := range logged.resultsCopy() {
		if r.Query == "sh" {
			t.Fatalf(`result for "sh" applied while input is "shoe": %+v`, logged.resultsCopy())
		}
	}

	// The pending input still resolves normally once its timer fires.
	quiet()
	c.Wait()
	last, ok := logged.last()
	if !ok || last.Query != "shoe" {
		t.Fatalf("last result = %+v, want result for the newer input", last)
	}
}

func TestController_EmptyInputClearsWithoutRequest(t *testing.T) {
	t.Parallel()

	querier := newFakeQuerier()
	logged := &resultLog{}
	c := New(querier, testDelay, logged.listener, nil)
	ctx := context.Background()

	c.Input(ctx, "   ")
	quiet()
	c.Wait()

	if got := querier.recorded(); len(got) != 0 {
		t.Fatalf("queries = %v, want none for whitespace input", got)
	}
	last, ok := logged.last()
	if !ok || last.Query != "" || last.Products != nil || last.Err != "" {
		t.Fatalf("last result = %+v, want cleared result", last)
	}
}

func TestController_FailureSurfacesMessageNotPanic(t *testing.T) {
	t.Parallel()

	querier := newFakeQuerier()
	querier.err = errors.New("connection refused")
	logged := &resultLog{}
	c := New(querier, testDelay, logged.listener, nil)

	c.Input(context.Background(), "boots")
	quiet()
	c.Wait()

	last, ok := logged.last()
	if !ok || last.Err == "" {
		t.Fatalf("last result = %+v, want non-fatal error message", last)
	}
	if len(last.Products) != 0 {
		t.Fatalf("products = %v, want cleared on failure", last.Products)
	}

	// An API error carries its display message through.
	querier.err = &api.Error{Kind: api.KindServer, Status: 500, Message: "catalog offline"}
	c.Input(context.Background(), "boots again")
	quiet()
	c.Wait()
	if last, _ := logged.last(); last.Err != "catalog offline" {
		t.Fatalf("err = %q, want API display message", last.Err)
	}
}

func TestController_CloseCancelsPendingTimer(t *testing.T) {
	t.Parallel()

	querier := newFakeQuerier()
	logged := &resultLog{}
	c := New(querier, testDelay, logged.listener, nil)

	c.Input(context.Background(), "shoe")
	c.Close()
	quiet()
	c.Wait()

	if got := querier.recorded(); len(got) != 0 {
		t.Fatalf("queries = %v, want none after Close", got)
	}
	if logged.count() != 0 {
		t.Fatalf("results = %d, want none after Close", logged.count())
	}
}

func TestController_CloseDropsInFlightResponse(t *testing.T) {
	t.Parallel()

	querier := newFakeQuerier()
	gate := make(chan struct{})
	querier.gates["shoe"] = gate
	logged := &resultLog{}
	c := New(querier, testDelay, logged.listener, nil)

	c.Input(context.Background(), "shoe")
	quiet() // request is now in flight, held at the gate

	c.Close()
	close(gate)
	c.Wait()

	if logged.count() != 0 {
		t.Fatalf("results = %d, want in-flight response dropped after Close", logged.count())
	}
}

func TestController_FlushQueriesImmediately(t *testing.T) {
	t.Parallel()

	querier := newFakeQuerier()
	logged := &resultLog{}
	c := New(querier, time.Hour, logged.listener, nil) // timer would never fire on its own

	c.Input(context.Background(), "sandals")
	c.Flush(context.Background())
	c.Wait()

	if got := querier.recorded(); len(got) != 1 || got[0] != "sandals" {
		t.Fatalf("queries = %v, want immediate flush", got)
	}
}

func (l *resultLog) resultsCopy() []Result {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Result(nil), l.results...)
}
