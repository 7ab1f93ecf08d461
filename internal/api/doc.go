// Package api provides the HTTP client for the shop REST API.
//
// # Overview
//
// Every other component reaches the server through this package. The client
// handles JSON serialization, bearer authentication, and the translation of
// HTTP outcomes into a small tagged error taxonomy.
//
// # Files
//
//   - client.go: HTTP client implementation and request/response handling
//   - types.go: Data structures mirroring the shop API schema
//   - errors.go: Tagged error type and classification helpers
//
// # Authentication
//
// The client holds a Credentials source (implemented by session.Store).
// When the source carries a token, every request gets an
// Authorization: Bearer header. A 401 or 403 response clears the source as
// a side effect and surfaces as KindUnauthorized, at which point callers
// must route the user back to sign-in.
//
// # Error Taxonomy
//
// Expected HTTP failures are returned as *Error values, never panics:
//
//   - KindNetwork: transport failure, no response received
//   - KindUnauthorized: credential missing or rejected (session cleared)
//   - KindValidation: malformed call rejected before any request was sent
//   - KindServer: non-2xx response, message parsed from the JSON error body
//     when one is present
//
// Malformed success bodies are a protocol violation and surface as plain
// wrapped errors rather than *Error values.
//
// # Request Logging
//
// Each request/response pair is logged through a structured logger with a
// correlation id, method, path, status, and duration. The credential value
// is deliberately absent from every log line.
//
// # Endpoints
//
// The client covers authentication, cart and wishlist mutation, catalog
// search, and the paginated product listing. Carts and wishlists are
// created lazily server-side, so a 404 on fetch means "empty", not an
// error.
package api
