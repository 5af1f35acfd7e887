// Package httpserver provides a thin wrapper around http.Server with
// address validation and graceful shutdown.
package httpserver
