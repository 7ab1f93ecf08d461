// Package store implements optimistic local copies of server-owned
// collections: the cart and the wishlist.
//
// # Overview
//
// Both stores follow the same discipline. A mutation is applied to local
// state synchronously, before its request resolves, so the UI stays
// responsive. The request then reconciles local state against the server:
//
//	Synced → OptimisticPending → (Synced | Reconciling)
//
// A successful response installs the server's authoritative collection. A
// failed response never attempts a local undo; the optimistic state may have
// diverged in ways only the server can resolve (server-side merges, stock
// validation), so the store moves to Reconciling and re-fetches the whole
// collection. Staleness is preferred over inconsistency.
//
// # Ordering
//
// Local mutations apply in event order. Network responses may arrive in any
// order, so every mutation and load carries a sequence number from a
// monotonically increasing counter. A response installs server state only
// when no later local mutation has been issued; otherwise it is dropped and
// the newest mutation's reconciliation carries the authoritative state. This
// is what keeps a slow add response from overwriting a later remove.
//
// # Identity
//
// Stores are keyed to the signed-in user through a UserSource. Loading
// while signed out resets the store to empty without touching the network.
// Mutations while signed out fail with ErrSignedOut. When the server
// rejects the credential mid-mutation, the API client clears the session,
// and the reconciling load then observes the signed-out state and resets.
//
// # Merge Rules
//
// The cart keeps at most one line per (product, color) pair; adds increment
// the existing line's quantity. The wishlist is a membership set per
// product id; re-adding replaces. Removing an absent entry is a no-op on
// both stores.
package store
