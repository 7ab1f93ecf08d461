package app

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ozaka001/shopfront/internal/api"
	"github.com/ozaka001/shopfront/internal/store"
)

type countingCartAPI struct {
	fetches atomic.Int64
}

func (c *countingCartAPI) FetchCart(_ context.Context, userID string) (*api.Cart, error) {
	c.fetches.Add(1)
	return &api.Cart{UserID: userID}, nil
}

func (c *countingCartAPI) AddCartItem(_ context.Context, userID, _ string, _ int, _ string) (*api.Cart, error) {
	return &api.Cart{UserID: userID}, nil
}

func (c *countingCartAPI) UpdateCartItem(_ context.Context, userID, _ string, _ int, _ string) (*api.Cart, error) {
	return &api.Cart{UserID: userID}, nil
}

func (c *countingCartAPI) RemoveCartItem(_ context.Context, userID, _, _ string) (*api.Cart, error) {
	return &api.Cart{UserID: userID}, nil
}

func (c *countingCartAPI) ClearCart(context.Context, string) error { return nil }

type staticWho string

func (s staticWho) UserID() string { return string(s) }

func TestRefresherReloadsAtCadence(t *testing.T) {
	t.Parallel()

	fake := &countingCartAPI{}
	cart := store.NewCart(fake, staticWho("u1"), nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	StartRefresher(ctx, cart, nil, 10*time.Millisecond)

	deadline := time.After(time.Second)
	for fake.fetches.Load() < 2 {
		select {
		case <-deadline:
			t.Fatalf("fetches = %d, want at least 2", fake.fetches.Load())
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestRefresherStopsOnCancel(t *testing.T) {
	t.Parallel()

	fake := &countingCartAPI{}
	cart := store.NewCart(fake, staticWho("u1"), nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	StartRefresher(ctx, cart, nil, 5*time.Millisecond)

	time.Sleep(30 * time.Millisecond)
	cancel()

	// Let a tick that raced the cancel drain before sampling.
	time.Sleep(20 * time.Millisecond)
	cart.Wait()

	settled := fake.fetches.Load()
	time.Sleep(30 * time.Millisecond)
	cart.Wait()
	if got := fake.fetches.Load(); got != settled {
		t.Fatalf("fetches grew from %d to %d after cancel", settled, got)
	}
}
