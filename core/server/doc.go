// Package server holds the HTTP server configuration.
//
// The `start` command reads it to bind the listen port, to enable API key
// authentication when ApiKey is set, and to bound request body sizes.
package server
