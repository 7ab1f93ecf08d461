// Package config handles loading shopfront configuration.
//
// # Resolution Order
//
//  1. Built-in defaults (local API endpoint, 10s timeout, 12-item pages)
//  2. ~/.config/shopfront/config.toml, or an explicitly provided path
//  3. A .env file in the working directory, folded into the environment
//  4. SHOPFRONT_* environment variables
//
// A missing config file is not an error; shopfront works out of the box
// against a locally running shop API. The config package is read-only and
// stateless: Load runs once at startup and returns an immutable Config.
//
// # TOML Format
//
// Example config.toml:
//
//	api_url = "https://shop.example.com"
//	timeout_seconds = 10
//	page_size = 12
//
// All fields are optional. Tilde expansion is performed on the config path.
package config
