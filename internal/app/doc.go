// Package app wires shopfront together: configuration, session identity,
// the API client, the optimistic cart and wishlist stores, the debounced
// search controller, and the Bubble Tea UI. Run blocks until the UI exits
// or the context is cancelled.
package app
