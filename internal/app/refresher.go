package app

import (
	"context"
	"time"

	"github.com/ozaka001/shopfront/internal/store"
)

const defaultRefreshInterval = 30 * time.Second

// StartRefresher launches a background goroutine that reloads the cart and
// wishlist at a fixed cadence. It returns immediately.
//
// Load is safe to call at any moment: signed-out it resets the stores
// without a request, and a reload racing a user mutation is sequenced behind
// it, so the fetched state always reflects the mutation.
func StartRefresher(ctx context.Context, cart *store.Cart, wishlist *store.Wishlist, interval time.Duration) {
	if interval <= 0 {
		interval = defaultRefreshInterval
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
			if cart != nil {
				cart.Load(ctx)
			}
			if wishlist != nil {
				wishlist.Load(ctx)
			}
		}
	}()
}
