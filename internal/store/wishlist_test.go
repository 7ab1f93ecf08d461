package store

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/ozaka001/shopfront/internal/api"
)

// fakeWishlistAPI mirrors the server's membership-set semantics.
type fakeWishlistAPI struct {
	mu    sync.Mutex
	items map[string]api.WishlistItem

	removeGate  chan struct{}
	failAdd     error
	fetchCalls  int
	addCalls    int
	removeCalls int
}

func newFakeWishlistAPI() *fakeWishlistAPI {
	return &fakeWishlistAPI{items: make(map[string]api.WishlistItem)}
}

func (f *fakeWishlistAPI) snapshot() *api.WishlistResponse {
	items := make([]api.WishlistItem, 0, len(f.items))
	for _, item := range f.items {
		items = append(items, item)
	}
	return &api.WishlistResponse{Items: items, TotalItems: len(items)}
}

func (f *fakeWishlistAPI) FetchWishlist(_ context.Context, userID string) (*api.WishlistResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetchCalls++
	return f.snapshot(), nil
}

func (f *fakeWishlistAPI) AddWishlistItem(_ context.Context, userID, productID string) (*api.WishlistResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.addCalls++
	if f.failAdd != nil {
		return nil, f.failAdd
	}
	f.items[productID] = api.WishlistItem{ProductID: productID, AddedAt: "2026-01-02T15:04:05Z"}
	return f.snapshot(), nil
}

func (f *fakeWishlistAPI) RemoveWishlistItem(_ context.Context, userID, productID string) (*api.WishlistResponse, error) {
	f.mu.Lock()
	gate := f.removeGate
	f.removeCalls++
	delete(f.items, productID)
	snap := f.snapshot()
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}
	return snap, nil
}

func TestWishlist_MembershipInvariant(t *testing.T) {
	server := newFakeWishlistAPI()
	who := &fakeWho{id: "u1"}
	wl := NewWishlist(server, who, nil, nil)
	ctx := context.Background()

	// Arbitrary add/remove sequence; each product id must appear at most
	// once and match the net effect.
	steps := []struct {
		op string
		id string
	}{
		{"add", "p1"},
		{"add", "p2"},
		{"add", "p1"}, // re-add replaces, never duplicates
		{"remove", "p2"},
		{"add", "p3"},
		{"remove", "p9"}, // absent, no-op
		{"add", "p2"},
	}
	for _, step := range steps {
		var err error
		switch step.op {
		case "add":
			err = wl.Add(ctx, api.Product{ID: step.id, Name: step.id})
		case "remove":
			err = wl.Remove(ctx, step.id)
		}
		if err != nil {
			t.Fatalf("%s %s returned error: %v", step.op, step.id, err)
		}
	}
	wl.Wait()

	snap := wl.Snapshot()
	want := map[string]bool{"p1": true, "p2": true, "p3": true}
	if len(snap.Items) != len(want) {
		t.Fatalf("items = %#v, want net effect %v", snap.Items, want)
	}
	seen := map[string]bool{}
	for _, item := range snap.Items {
		if seen[item.ProductID] {
			t.Fatalf("product %s appears twice", item.ProductID)
		}
		seen[item.ProductID] = true
		if !want[item.ProductID] {
			t.Fatalf("unexpected product %s in wishlist", item.ProductID)
		}
	}
	if snap.State != StateSynced {
		t.Fatalf("state = %v, want synced", snap.State)
	}
}

func TestWishlist_Contains(t *testing.T) {
	server := newFakeWishlistAPI()
	who := &fakeWho{id: "u1"}
	wl := NewWishlist(server, who, nil, nil)
	ctx := context.Background()

	if wl.Contains("p1") {
		t.Fatal("empty wishlist contains p1")
	}
	if err := wl.Add(ctx, api.Product{ID: "p1"}); err != nil {
		t.Fatalf("Add returned error: %v", err)
	}
	// Optimistic: visible before the response settles.
	if !wl.Contains("p1") {
		t.Fatal("p1 not visible immediately after Add")
	}
	wl.Wait()
	if !wl.Contains("p1") {
		t.Fatal("p1 missing after reconcile")
	}
}

func TestWishlist_SlowRemoveDoesNotResurrectLaterAdd(t *testing.T) {
	server := newFakeWishlistAPI()
	who := &fakeWho{id: "u1"}
	wl := NewWishlist(server, who, nil, nil)
	ctx := context.Background()

	if err := wl.Add(ctx, api.Product{ID: "p1"}); err != nil {
		t.Fatalf("Add returned error: %v", err)
	}
	wl.Wait()

	gate := make(chan struct{})
	server.removeGate = gate

	if err := wl.Remove(ctx, "p1"); err != nil {
		t.Fatalf("Remove returned error: %v", err)
	}
	// Re-add while the remove response is still in flight.
	if err := wl.Add(ctx, api.Product{ID: "p1"}); err != nil {
		t.Fatalf("re-Add returned error: %v", err)
	}
	close(gate)
	wl.Wait()

	snap := wl.Snapshot()
	if len(snap.Items) != 1 || snap.Items[0].ProductID != "p1" {
		t.Fatalf("items = %#v, want p1 present: stale remove response applied", snap.Items)
	}
}

func TestWishlist_FailureReloads(t *testing.T) {
	server := newFakeWishlistAPI()
	server.items["p7"] = api.WishlistItem{ProductID: "p7"}
	server.failAdd = errors.New("boom")
	who := &fakeWho{id: "u1"}
	wl := NewWishlist(server, who, nil, nil)
	ctx := context.Background()

	if err := wl.Add(ctx, api.Product{ID: "p1"}); err != nil {
		t.Fatalf("Add returned error: %v", err)
	}
	wl.Wait()

	snap := wl.Snapshot()
	if len(snap.Items) != 1 || snap.Items[0].ProductID != "p7" {
		t.Fatalf("items = %#v, want authoritative server list after failed add", snap.Items)
	}
	if server.fetchCalls != 1 {
		t.Fatalf("fetchCalls = %d, want reconcile load", server.fetchCalls)
	}
}

func TestWishlist_SignedOutResetsWithoutRequest(t *testing.T) {
	server := newFakeWishlistAPI()
	who := &fakeWho{}
	wl := NewWishlist(server, who, nil, nil)
	ctx := context.Background()

	wl.Load(ctx)
	wl.Wait()
	if server.fetchCalls != 0 {
		t.Fatalf("fetchCalls = %d, want none while signed out", server.fetchCalls)
	}
	if err := wl.Add(ctx, api.Product{ID: "p1"}); !errors.Is(err, ErrSignedOut) {
		t.Fatalf("Add error = %v, want ErrSignedOut", err)
	}
	if err := wl.Remove(ctx, "p1"); !errors.Is(err, ErrSignedOut) {
		t.Fatalf("Remove error = %v, want ErrSignedOut", err)
	}
}
