package store

import (
	"errors"
	"sync"
)

// ErrSignedOut is returned by mutations attempted without a session
// identity. Load treats the signed-out case as "reset to empty" instead.
var ErrSignedOut = errors.New("not signed in")

// SyncState describes where a store sits relative to the server.
type SyncState int

const (
	// StateSynced means local state matches the last authoritative server
	// response.
	StateSynced SyncState = iota
	// StateOptimisticPending means a local mutation has been applied and
	// its request is still in flight.
	StateOptimisticPending
	// StateReconciling means a mutation failed and the store is re-fetching
	// the authoritative collection rather than patching locally.
	StateReconciling
)

// String returns a short label for the state.
func (s SyncState) String() string {
	switch s {
	case StateSynced:
		return "synced"
	case StateOptimisticPending:
		return "pending"
	case StateReconciling:
		return "reconciling"
	default:
		return "unknown"
	}
}

// UserSource names the signed-in user a store belongs to. Implemented by
// session.Store. An empty id means signed out.
type UserSource interface {
	UserID() string
}

// syncCore is the shared reconciliation machinery behind the cart and
// wishlist stores. It tracks the sync state machine, a monotonically
// increasing mutation sequence, and a FIFO queue of outbound requests.
//
// Requests are executed one at a time in issuance order by a single worker
// goroutine, so the server observes mutations in the order the user made
// them and each response reflects every mutation issued before it. The
// sequence number is the remaining race guard: local state changes bump it
// synchronously, and a response may only install server state when no later
// local mutation has been issued since. A superseded response is dropped;
// the newest mutation's reconciliation carries the authoritative collection
// that covers it.
type syncCore struct {
	mu       sync.Mutex
	state    SyncState
	lastErr  error
	seq      uint64
	inflight sync.WaitGroup
	onChange func()

	startWorker sync.Once
	queueMu     sync.Mutex
	queueWake   *sync.Cond
	queue       []func()
}

// enqueue schedules an outbound request behind any already queued. The
// worker goroutine is started lazily on first use.
//
// The queue is unbounded, so enqueue never blocks. That matters for the
// worker itself: a failed mutation settles by enqueueing a reconciling
// load, and a bounded queue would let that send deadlock the only
// consumer.
func (c *syncCore) enqueue(fn func()) {
	c.startWorker.Do(func() {
		c.queueWake = sync.NewCond(&c.queueMu)
		go c.drain()
	})
	c.inflight.Add(1)
	c.queueMu.Lock()
	c.queue = append(c.queue, fn)
	c.queueMu.Unlock()
	c.queueWake.Signal()
}

// drain executes queued requests one at a time in issuance order.
func (c *syncCore) drain() {
	for {
		c.queueMu.Lock()
		for len(c.queue) == 0 {
			c.queueWake.Wait()
		}
		fn := c.queue[0]
		c.queue = c.queue[1:]
		c.queueMu.Unlock()

		fn()
		c.inflight.Done()
	}
}

// begin registers a new local mutation or load under the lock and returns
// its sequence number.
func (c *syncCore) begin(state SyncState) uint64 {
	c.seq++
	c.state = state
	return c.seq
}

// current reports, under the lock, whether seq is still the newest issued
// operation.
func (c *syncCore) current(seq uint64) bool {
	return c.seq == seq
}

// notify invokes the change hook. Call without holding the lock.
func (c *syncCore) notify() {
	if c.onChange != nil {
		c.onChange()
	}
}

// Wait blocks until every in-flight request has been reconciled or
// discarded. Intended for tests and shutdown.
func (c *syncCore) Wait() {
	c.inflight.Wait()
}
