// Package session persists the signed-in identity across runs.
//
// The identity is the opaque bearer credential plus the denormalized user
// record returned by login. It lives in ~/.config/shopfront/session.toml
// (owner-readable only) and is held behind a mutex in memory.
//
// The Store is the only component that touches the credential: the API
// client reads it through the Credentials interface and clears it when the
// server rejects it, and nothing else ever sees the raw token. Loading
// degrades gracefully, so a missing or corrupt session file simply means
// signed out.
package session
