package search

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/ozaka001/shopfront/internal/api"
)

// DefaultDelay is the quiet window after the last keystroke before a
// request is issued.
const DefaultDelay = 300 * time.Millisecond

// Querier is the slice of the API client the controller depends on.
type Querier interface {
	SearchProducts(ctx context.Context, query string) ([]api.Product, error)
}

// Result is delivered to the listener when a query settles. A cleared input
// produces an empty Result. Err carries a non-fatal display message; the
// controller never lets a transport failure escape otherwise.
type Result struct {
	Query    string
	Products []api.Product
	Err      string
}

// Listener receives applied results. It is never called for a response that
// has been superseded by newer input.
type Listener func(Result)

// Controller turns a rapidly changing text input into a rate-limited
// sequence of search requests, discarding stale in-flight results.
//
// Each Input rearms a single debounce timer; only the last keystroke in a
// quiet window triggers a request. Every issued request carries a sequence
// number, and a response is applied only while its sequence is still the
// newest and its query still matches the current input text, so a slower
// response for an earlier query can never overwrite the results the user is
// waiting for.
type Controller struct {
	mu       sync.Mutex
	querier  Querier
	listener Listener
	logger   *log.Logger
	delay    time.Duration
	timer    *time.Timer
	text     string
	seq      uint64
	closed   bool
	inflight sync.WaitGroup
}

// New builds a controller. A delay of zero or less uses DefaultDelay; a nil
// logger discards logging.
func New(querier Querier, delay time.Duration, listener Listener, logger *log.Logger) *Controller {
	if delay <= 0 {
		delay = DefaultDelay
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Controller{
		querier:  querier,
		listener: listener,
		logger:   logger,
		delay:    delay,
	}
}

// Input records the current text and (re)arms the debounce timer. The text
// shown to the user updates immediately; the request waits for quiet.
func (c *Controller) Input(ctx context.Context, text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.text = text
	if c.timer != nil {
		c.timer.Stop()
	}
	c.timer = time.AfterFunc(c.delay, func() {
		c.fire(ctx)
	})
}

// Flush cancels the pending timer and issues the query for the current text
// immediately. Used when the user submits explicitly.
func (c *Controller) Flush(ctx context.Context) {
	c.mu.Lock()
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.mu.Unlock()
	c.fire(ctx)
}

// Close cancels any pending timer and marks the controller dead: no further
// request is issued and no in-flight response is applied. Safe to call more
// than once.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

// Wait blocks until in-flight requests have settled or been discarded.
// Intended for tests.
func (c *Controller) Wait() {
	c.inflight.Wait()
}

func (c *Controller) fire(ctx context.Context) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	query := strings.TrimSpace(c.text)
	c.seq++
	seq := c.seq
	listener := c.listener
	c.mu.Unlock()

	// Empty input clears the result set locally; no request is issued. The
	// sequence bump above also invalidates any still-running request.
	if query == "" {
		if listener != nil {
			listener(Result{})
		}
		return
	}

	c.inflight.Add(1)
	go func() {
		defer c.inflight.Done()
		products, err := c.querier.SearchProducts(ctx, query)

		c.mu.Lock()
		// A response lands only while its request is still the newest issued
		// AND its query still equals what the user sees. The text check
		// covers the window where newer input has rearmed the timer but not
		// fired yet.
		stale := c.closed || c.seq != seq || query != strings.TrimSpace(c.text)
		c.mu.Unlock()
		if stale {
			return
		}
		if listener == nil {
			return
		}
		if err != nil {
			c.logger.Warn("search failed", "query", query, "error", err)
			listener(Result{Query: query, Err: searchErrorMessage(err)})
			return
		}
		listener(Result{Query: query, Products: products})
	}()
}

func searchErrorMessage(err error) string {
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return "search is unavailable right now"
}
