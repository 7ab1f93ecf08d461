package store

import (
	"context"
	"io"
	"sort"

	"github.com/charmbracelet/log"

	"github.com/ozaka001/shopfront/internal/api"
)

// LineKey identifies a cart line. The cart holds at most one line per
// (product, color) pair; mutations merge into an existing line rather than
// duplicating it.
type LineKey struct {
	ProductID string
	Color     string
}

// CartAPI is the slice of the API client the cart store depends on.
type CartAPI interface {
	FetchCart(ctx context.Context, userID string) (*api.Cart, error)
	AddCartItem(ctx context.Context, userID, productID string, quantity int, color string) (*api.Cart, error)
	UpdateCartItem(ctx context.Context, userID, productID string, quantity int, color string) (*api.Cart, error)
	RemoveCartItem(ctx context.Context, userID, productID, color string) (*api.Cart, error)
	ClearCart(ctx context.Context, userID string) error
}

// Cart holds a local copy of the server-owned cart. Mutations apply locally
// first for responsiveness, then reconcile against the server response; any
// failure falls back to a full re-fetch instead of a local undo.
type Cart struct {
	syncCore
	client CartAPI
	who    UserSource
	logger *log.Logger
	lines  map[LineKey]api.CartLine
}

// CartSnapshot is an immutable view of the cart for rendering.
type CartSnapshot struct {
	Lines     []api.CartLine
	State     SyncState
	LastError error
}

// TotalQuantity sums quantities across all lines.
func (s CartSnapshot) TotalQuantity() int {
	total := 0
	for _, line := range s.Lines {
		total += line.Quantity
	}
	return total
}

// Subtotal sums effective price times quantity for lines carrying product
// details.
func (s CartSnapshot) Subtotal() float64 {
	var total float64
	for _, line := range s.Lines {
		if line.Product != nil {
			total += line.Product.EffectivePrice() * float64(line.Quantity)
		}
	}
	return total
}

// NewCart builds a cart store for the given user source. onChange, when
// non-nil, fires after every visible state change. A nil logger discards
// logging.
func NewCart(client CartAPI, who UserSource, logger *log.Logger, onChange func()) *Cart {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	c := &Cart{
		client: client,
		who:    who,
		logger: logger,
		lines:  make(map[LineKey]api.CartLine),
	}
	c.onChange = onChange
	return c
}

// Snapshot returns a copy of the current cart, lines sorted for stable
// display.
func (c *Cart) Snapshot() CartSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	lines := make([]api.CartLine, 0, len(c.lines))
	for _, line := range c.lines {
		lines = append(lines, line)
	}
	sort.Slice(lines, func(i, j int) bool {
		if lines[i].ProductID != lines[j].ProductID {
			return lines[i].ProductID < lines[j].ProductID
		}
		return lines[i].Color < lines[j].Color
	})
	return CartSnapshot{Lines: lines, State: c.state, LastError: c.lastErr}
}

// Load fetches the authoritative cart for the current identity. Without an
// identity the store resets to empty with no request issued.
func (c *Cart) Load(ctx context.Context) {
	userID := c.who.UserID()

	c.mu.Lock()
	if userID == "" {
		// Bump the sequence so any in-flight response for the old identity
		// is discarded rather than repopulating a signed-out cart.
		c.begin(StateSynced)
		c.lines = make(map[LineKey]api.CartLine)
		c.lastErr = nil
		c.mu.Unlock()
		c.notify()
		return
	}
	seq := c.begin(c.state)
	c.mu.Unlock()

	c.enqueue(func() {
		cart, err := c.client.FetchCart(ctx, userID)

		c.mu.Lock()
		if !c.current(seq) {
			c.mu.Unlock()
			return
		}
		if err != nil {
			// Keep the best-known-good local state; only record the error.
			// A rejected credential means there is no session left to show
			// a cart for.
			c.lastErr = err
			c.state = StateSynced
			if api.IsUnauthorized(err) {
				c.lines = make(map[LineKey]api.CartLine)
			}
			c.mu.Unlock()
			c.notify()
			c.logger.Warn("cart load failed", "error", err)
			return
		}
		c.installLocked(cart.Items)
		c.state = StateSynced
		c.lastErr = nil
		c.mu.Unlock()
		c.notify()
	})
}

// Add merges quantity of a product into the cart locally and issues the
// create request. Re-adding an existing (product, color) increments the
// line instead of duplicating it.
func (c *Cart) Add(ctx context.Context, product api.Product, quantity int, color string) error {
	if quantity <= 0 {
		return api.NewValidationError("quantity must be a positive integer")
	}
	userID := c.who.UserID()
	if userID == "" {
		return ErrSignedOut
	}

	key := LineKey{ProductID: product.ID, Color: color}
	c.mu.Lock()
	line, ok := c.lines[key]
	if ok {
		line.Quantity += quantity
	} else {
		detail := product
		line = api.CartLine{
			ProductID: product.ID,
			Quantity:  quantity,
			Color:     color,
			Product:   &detail,
		}
	}
	c.lines[key] = line
	seq := c.begin(StateOptimisticPending)
	c.mu.Unlock()
	c.notify()

	c.enqueue(func() {
		cart, err := c.client.AddCartItem(ctx, userID, product.ID, quantity, color)
		c.settle(ctx, seq, cart, err)
	})
	return nil
}

// UpdateQuantity replaces a line's quantity. Zero or less is treated as
// removal; a missing line is rejected before any request is sent.
func (c *Cart) UpdateQuantity(ctx context.Context, key LineKey, quantity int) error {
	if quantity <= 0 {
		return c.Remove(ctx, key)
	}
	userID := c.who.UserID()
	if userID == "" {
		return ErrSignedOut
	}

	c.mu.Lock()
	line, ok := c.lines[key]
	if !ok {
		c.mu.Unlock()
		return api.NewValidationError("item is not in the cart")
	}
	line.Quantity = quantity
	c.lines[key] = line
	seq := c.begin(StateOptimisticPending)
	c.mu.Unlock()
	c.notify()

	c.enqueue(func() {
		cart, err := c.client.UpdateCartItem(ctx, userID, key.ProductID, quantity, key.Color)
		c.settle(ctx, seq, cart, err)
	})
	return nil
}

// Remove drops a line locally and issues the delete request. Removing an
// absent line is a no-op.
func (c *Cart) Remove(ctx context.Context, key LineKey) error {
	userID := c.who.UserID()
	if userID == "" {
		return ErrSignedOut
	}

	c.mu.Lock()
	if _, ok := c.lines[key]; !ok {
		c.mu.Unlock()
		return nil
	}
	delete(c.lines, key)
	seq := c.begin(StateOptimisticPending)
	c.mu.Unlock()
	c.notify()

	c.enqueue(func() {
		cart, err := c.client.RemoveCartItem(ctx, userID, key.ProductID, key.Color)
		c.settle(ctx, seq, cart, err)
	})
	return nil
}

// Clear empties the cart locally and on the server.
func (c *Cart) Clear(ctx context.Context) error {
	userID := c.who.UserID()
	if userID == "" {
		return ErrSignedOut
	}

	c.mu.Lock()
	c.lines = make(map[LineKey]api.CartLine)
	seq := c.begin(StateOptimisticPending)
	c.mu.Unlock()
	c.notify()

	c.enqueue(func() {
		err := c.client.ClearCart(ctx, userID)
		c.settle(ctx, seq, nil, err)
	})
	return nil
}

// settle reconciles a mutation response. Responses that have been
// superseded by a later local mutation are dropped; the newest mutation's
// reconciliation carries the authoritative state that covers them.
func (c *Cart) settle(ctx context.Context, seq uint64, cart *api.Cart, err error) {
	c.mu.Lock()
	if !c.current(seq) {
		c.mu.Unlock()
		return
	}
	if err != nil {
		c.lastErr = err
		c.state = StateReconciling
		c.mu.Unlock()
		c.notify()
		c.logger.Warn("cart mutation failed, re-syncing", "error", err)
		c.Load(ctx)
		return
	}
	if cart != nil {
		c.installLocked(cart.Items)
	}
	c.state = StateSynced
	c.lastErr = nil
	c.mu.Unlock()
	c.notify()
}

// installLocked replaces local lines with a server collection, merging any
// duplicate (product, color) pairs defensively. Caller holds the lock.
func (c *Cart) installLocked(items []api.CartLine) {
	lines := make(map[LineKey]api.CartLine, len(items))
	for _, item := range items {
		key := LineKey{ProductID: item.ProductID, Color: item.Color}
		if existing, ok := lines[key]; ok {
			existing.Quantity += item.Quantity
			lines[key] = existing
			continue
		}
		lines[key] = item
	}
	c.lines = lines
}
