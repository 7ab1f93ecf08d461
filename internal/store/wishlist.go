package store

import (
	"context"
	"io"
	"sort"
	"time"

	"github.com/charmbracelet/log"

	"github.com/ozaka001/shopfront/internal/api"
)

// WishlistAPI is the slice of the API client the wishlist store depends on.
type WishlistAPI interface {
	FetchWishlist(ctx context.Context, userID string) (*api.WishlistResponse, error)
	AddWishlistItem(ctx context.Context, userID, productID string) (*api.WishlistResponse, error)
	RemoveWishlistItem(ctx context.Context, userID, productID string) (*api.WishlistResponse, error)
}

// Wishlist holds a local copy of the server-owned wishlist. Membership is
// boolean per product: re-adding a saved product replaces the entry rather
// than duplicating it.
type Wishlist struct {
	syncCore
	client WishlistAPI
	who    UserSource
	logger *log.Logger
	items  map[string]api.WishlistItem
}

// WishlistSnapshot is an immutable view of the wishlist for rendering,
// newest additions first.
type WishlistSnapshot struct {
	Items     []api.WishlistItem
	State     SyncState
	LastError error
}

// NewWishlist builds a wishlist store for the given user source.
func NewWishlist(client WishlistAPI, who UserSource, logger *log.Logger, onChange func()) *Wishlist {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	w := &Wishlist{
		client: client,
		who:    who,
		logger: logger,
		items:  make(map[string]api.WishlistItem),
	}
	w.onChange = onChange
	return w
}

// Contains reports whether a product is currently saved.
func (w *Wishlist) Contains(productID string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, ok := w.items[productID]
	return ok
}

// Snapshot returns a copy of the current wishlist.
func (w *Wishlist) Snapshot() WishlistSnapshot {
	w.mu.Lock()
	defer w.mu.Unlock()

	items := make([]api.WishlistItem, 0, len(w.items))
	for _, item := range w.items {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool {
		ti, tj := items[i].ParsedAddedAt(), items[j].ParsedAddedAt()
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return items[i].ProductID < items[j].ProductID
	})
	return WishlistSnapshot{Items: items, State: w.state, LastError: w.lastErr}
}

// Load fetches the authoritative wishlist for the current identity. Without
// an identity the store resets to empty with no request issued.
func (w *Wishlist) Load(ctx context.Context) {
	userID := w.who.UserID()

	w.mu.Lock()
	if userID == "" {
		// Bump the sequence so any in-flight response for the old identity
		// is discarded rather than repopulating a signed-out wishlist.
		w.begin(StateSynced)
		w.items = make(map[string]api.WishlistItem)
		w.lastErr = nil
		w.mu.Unlock()
		w.notify()
		return
	}
	seq := w.begin(w.state)
	w.mu.Unlock()

	w.enqueue(func() {
		list, err := w.client.FetchWishlist(ctx, userID)

		w.mu.Lock()
		if !w.current(seq) {
			w.mu.Unlock()
			return
		}
		if err != nil {
			w.lastErr = err
			w.state = StateSynced
			if api.IsUnauthorized(err) {
				w.items = make(map[string]api.WishlistItem)
			}
			w.mu.Unlock()
			w.notify()
			w.logger.Warn("wishlist load failed", "error", err)
			return
		}
		w.installLocked(list.Items)
		w.state = StateSynced
		w.lastErr = nil
		w.mu.Unlock()
		w.notify()
	})
}

// Add saves a product locally and issues the create request. Saving an
// already-saved product replaces the entry, keeping membership boolean.
func (w *Wishlist) Add(ctx context.Context, product api.Product) error {
	userID := w.who.UserID()
	if userID == "" {
		return ErrSignedOut
	}

	detail := product
	w.mu.Lock()
	w.items[product.ID] = api.WishlistItem{
		ProductID: product.ID,
		AddedAt:   time.Now().UTC().Format(time.RFC3339),
		Product:   &detail,
	}
	seq := w.begin(StateOptimisticPending)
	w.mu.Unlock()
	w.notify()

	w.enqueue(func() {
		list, err := w.client.AddWishlistItem(ctx, userID, product.ID)
		w.settle(ctx, seq, list, err)
	})
	return nil
}

// Remove drops a saved product locally and issues the delete request.
// Removing an absent product is a no-op.
func (w *Wishlist) Remove(ctx context.Context, productID string) error {
	userID := w.who.UserID()
	if userID == "" {
		return ErrSignedOut
	}

	w.mu.Lock()
	if _, ok := w.items[productID]; !ok {
		w.mu.Unlock()
		return nil
	}
	delete(w.items, productID)
	seq := w.begin(StateOptimisticPending)
	w.mu.Unlock()
	w.notify()

	w.enqueue(func() {
		list, err := w.client.RemoveWishlistItem(ctx, userID, productID)
		w.settle(ctx, seq, list, err)
	})
	return nil
}

func (w *Wishlist) settle(ctx context.Context, seq uint64, list *api.WishlistResponse, err error) {
	w.mu.Lock()
	if !w.current(seq) {
		w.mu.Unlock()
		return
	}
	if err != nil {
		w.lastErr = err
		w.state = StateReconciling
		w.mu.Unlock()
		w.notify()
		w.logger.Warn("wishlist mutation failed, re-syncing", "error", err)
		w.Load(ctx)
		return
	}
	// Some mutation endpoints answer with a bare confirmation; only a
	// response that actually carries items replaces local state.
	if list != nil && list.Items != nil {
		w.installLocked(list.Items)
	}
	w.state = StateSynced
	w.lastErr = nil
	w.mu.Unlock()
	w.notify()
}

// installLocked replaces local items with a server collection, keeping one
// entry per product id. Caller holds the lock.
func (w *Wishlist) installLocked(items []api.WishlistItem) {
	next := make(map[string]api.WishlistItem, len(items))
	for _, item := range items {
		next[item.ProductID] = item
	}
	w.items = next
}
